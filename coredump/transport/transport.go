// Package transport implements the host-facing collaborators that pull
// raw dump record bytes off a device (C10): a raw-mode serial reader and
// a region-file reader. Both produce the same []byte a region.Region can
// be built from; framing and device access live entirely here so that
// coredump/export and the CLI tools never need to know which transport
// supplied the bytes.
package transport

import (
	"io"
	"os"

	"github.com/dlafreniere/coredump/errors"
)

// frameStart and frameEnd delimit one record transmission on the serial
// link. A target streaming its survivable region out over UART frames it
// this way so the host can resynchronize after a dropped byte; a region
// file has no framing and is read whole.
const (
	frameStart = 0x02 // ASCII STX
	frameEnd   = 0x03 // ASCII ETX
)

// ReadFramed reads one STX/ETX-delimited frame from r and returns its
// payload. It discards any bytes before the first STX, matching a target
// that may have already been mid-transmission when the host attached. A
// read failure before STX is seen is reported as TransportReadFailed; one
// after a frame has started (an ETX that never arrives) is reported as
// TransportFramingError, since the link itself is fine but the frame was
// left incomplete.
func ReadFramed(r io.Reader) ([]byte, error) {
	br := newByteReader(r)

	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, errors.New(errors.TransportReadFailed, err)
		}
		if b == frameStart {
			break
		}
	}

	var payload []byte
	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, errors.New(errors.TransportFramingError, err)
		}
		if b == frameEnd {
			return payload, nil
		}
		payload = append(payload, b)
	}
}

// byteReader adapts an io.Reader lacking ReadByte (a raw-mode tty file,
// for instance) to one that has it, one syscall-sized read at a time.
type byteReader struct {
	r   io.Reader
	buf [1]byte
}

func newByteReader(r io.Reader) *byteReader {
	if br, ok := r.(interface{ ReadByte() (byte, error) }); ok {
		return &byteReader{r: byteReaderAdapter{br}}
	}
	return &byteReader{r: r}
}

type byteReaderAdapter struct {
	inner interface{ ReadByte() (byte, error) }
}

func (a byteReaderAdapter) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b, err := a.inner.ReadByte()
	if err != nil {
		return 0, err
	}
	p[0] = b
	return 1, nil
}

func (br *byteReader) ReadByte() (byte, error) {
	if _, err := io.ReadFull(br.r, br.buf[:]); err != nil {
		return 0, err
	}
	return br.buf[0], nil
}

// ReadRegionFile reads an entire region file (as produced by
// region.OpenMmap, after the target-side process has exited, or copied
// off a device by other means) into memory.
func ReadRegionFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New(errors.TransportOpenFailed, err)
	}
	return data, nil
}
