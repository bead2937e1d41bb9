//go:build windows

package transport

import "github.com/dlafreniere/coredump/errors"

// Serial is unimplemented on Windows; the termios-based raw mode this
// package uses has no equivalent in the syscall package on that
// platform. dumpreport falls back to region-file transport there.
type Serial struct{}

// OpenSerial always fails on Windows.
func OpenSerial(path string) (*Serial, error) {
	return nil, errors.New(errors.SerialPortUnavailable, "raw-mode serial is not supported on windows")
}

// Read implements io.Reader.
func (s *Serial) Read(p []byte) (int, error) { return 0, nil }

// Close implements io.Closer.
func (s *Serial) Close() error { return nil }
