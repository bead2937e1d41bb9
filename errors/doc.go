// Package errors defines DumpError, an error type for the coredump host
// tools that maps a small Errno enumeration onto formatted message
// templates and deduplicates repeated wrapping. For instance:
//
//	func loadConfig() error {
//		if err := openFile(); err != nil {
//			return errors.New(errors.ConfigLoadFailed, err)
//		}
//		return nil
//	}
//
//	func openFile() error {
//		if _, err := os.Open(path); err != nil {
//			return errors.New(errors.ConfigLoadFailed, err)
//		}
//		return nil
//	}
//
// Because both call sites wrap with the same Errno, the error returned to
// the top-level caller collapses to a single ConfigLoadFailed message
// instead of a chain of duplicate prefixes. Use stderrors.Is (the standard
// library's errors.Is) to test a DumpError against a specific Errno.
package errors
