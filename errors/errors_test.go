package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/dlafreniere/coredump/errors"
)

func TestErrorMessage(t *testing.T) {
	e := errors.New(errors.TransportOpenFailed, "/dev/ttyUSB0")
	want := "could not open transport (/dev/ttyUSB0)"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}
}

func TestNewCollapsesSameErrnoWrap(t *testing.T) {
	inner := errors.New(errors.ConfigLoadFailed, "prefs.json")
	outer := errors.New(errors.ConfigLoadFailed, inner)

	if outer.Error() != inner.Error() {
		t.Errorf("outer.Error() = %q, want it to collapse to inner %q", outer.Error(), inner.Error())
	}
}

func TestIsMatchesByErrno(t *testing.T) {
	err := errors.New(errors.RegionMmapUnsupported)
	if !stderrors.Is(err, errors.New(errors.RegionMmapUnsupported)) {
		t.Errorf("errors.Is() = false, want true for matching Errno")
	}
	if stderrors.Is(err, errors.New(errors.ConfigLoadFailed)) {
		t.Errorf("errors.Is() = true, want false for differing Errno")
	}
}
