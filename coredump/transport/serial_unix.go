//go:build !windows

package transport

import (
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"

	"github.com/dlafreniere/coredump/errors"
)

// Serial is a raw-mode connection to a device's UART, used by dumpreport
// to pull framed record bytes off a target that has no filesystem of its
// own to write a region file to.
type Serial struct {
	f       *os.File
	canAttr unix.Termios
}

// OpenSerial opens path in raw mode: no line editing, no echo, no signal
// generation, so that the STX/ETX-framed byte stream isn't corrupted by
// the tty driver's usual canonical-mode processing.
func OpenSerial(path string) (*Serial, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, errors.New(errors.SerialPortUnavailable, err)
	}

	s := &Serial{f: f}
	if err := termios.Tcgetattr(f.Fd(), &s.canAttr); err != nil {
		f.Close()
		return nil, errors.New(errors.TransportOpenFailed, err)
	}

	var rawAttr unix.Termios
	termios.Cfmakeraw(&rawAttr)
	if err := termios.Tcsetattr(f.Fd(), termios.TCIFLUSH, &rawAttr); err != nil {
		f.Close()
		return nil, errors.New(errors.TransportOpenFailed, err)
	}

	return s, nil
}

// Read implements io.Reader.
func (s *Serial) Read(p []byte) (int, error) {
	return s.f.Read(p)
}

// Close restores the tty's original attributes and closes the device.
func (s *Serial) Close() error {
	_ = termios.Tcsetattr(s.f.Fd(), termios.TCIFLUSH, &s.canAttr)
	return s.f.Close()
}
