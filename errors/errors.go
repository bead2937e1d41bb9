// Package errors implements the wrapped, deduplicating error type used by
// the host tooling (dumpreport, dumpwatch, dumpviz, faultinject) for
// configuration, transport, and rendering failures.
//
// It is never imported by the fault-time core (coredump/capture,
// coredump/stackwalk, coredump/tasks, coredump/platform); those packages
// use the reference implementation's own error-free discipline described
// in the specification instead.
package errors

import "fmt"

// Errno identifies a specific class of host-tool error.
type Errno int

// Values holds the arguments substituted into an Errno's message
// template.
type Values []interface{}

// DumpError is the error type returned by host tooling.
type DumpError struct {
	Errno  Errno
	Values Values
}

// New creates a DumpError. If a single Values argument is itself a
// DumpError with the same Errno, it is unwrapped rather than nested, so
// that a chain of calls each wrapping the same failure with the same
// Errno collapses to a single message instead of accumulating duplicate
// prefixes.
func New(errno Errno, values ...interface{}) DumpError {
	if len(values) == 1 {
		if inner, ok := values[0].(DumpError); ok && inner.Errno == errno {
			return inner
		}
	}
	return DumpError{Errno: errno, Values: values}
}

func (e DumpError) Error() string {
	return fmt.Sprintf(messages[e.Errno], e.Values...)
}

// Is reports whether target is a DumpError with the same Errno, so that
// errors.Is(err, errors.New(errors.TransportReadFailed)) works without callers
// needing to compare Values.
func (e DumpError) Is(target error) bool {
	other, ok := target.(DumpError)
	return ok && other.Errno == e.Errno
}
