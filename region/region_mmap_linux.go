//go:build linux

package region

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// mmapRegion backs a Region with a MAP_SHARED mapping of a regular file.
// Two independent processes (or the same process across a restart) that
// open the same path see the same bytes: this is the host analogue of a
// linker section that survives a CPU reset, and is deliberately not
// process-private memory.
type mmapRegion struct {
	data []byte
	file *os.File
}

// OpenMmap opens (creating if necessary) the file at path, extends it to
// size bytes if it is shorter (a longer file is not truncated), and maps
// its first size bytes MAP_SHARED. The mapping's contents
// persist in the file after Close, so a second OpenMmap of the same path
// observes whatever was last written -- the property the coredump record
// depends on to survive the warm reset it stands in for.
//
// This backend exists for host-side integration testing and for tooling
// such as dumpwatch/dumpreport that inspect a target simulator's region
// file out of process. It is not used by the fault-time capture path.
func OpenMmap(path string, size int) (Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("region: invalid mmap size %d", size)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("region: open %s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("region: stat %s: %w", path, err)
	}
	if info.Size() < int64(size) {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, fmt.Errorf("region: truncate %s to %d: %w", path, size, err)
		}
	}

	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("region: mmap %s: %w", path, err)
	}

	return &mmapRegion{data: data, file: f}, nil
}

// Close unmaps the region and closes the backing file. Any writes already
// applied to the mapping are visible to the file regardless of Close --
// MAP_SHARED pages are written back by the kernel, not by Close itself.
func (r *mmapRegion) Close() error {
	err := unix.Munmap(r.data)
	if cerr := r.file.Close(); err == nil {
		err = cerr
	}
	return err
}

func (r *mmapRegion) Size() int { return len(r.data) }

func (r *mmapRegion) ReadWord(offset int) (uint32, bool) {
	if offset < 0 || offset+4 > len(r.data) {
		return 0, false
	}
	return decodeWord(r.data[offset : offset+4]), true
}

func (r *mmapRegion) WriteWord(offset int, word uint32) bool {
	if offset < 0 || offset+4 > len(r.data) {
		return false
	}
	encodeWord(r.data[offset:offset+4], word)
	return true
}

func (r *mmapRegion) ReadBytes(offset, length int) ([]byte, bool) {
	if offset < 0 || length < 0 || offset+length > len(r.data) {
		return nil, false
	}
	out := make([]byte, length)
	copy(out, r.data[offset:offset+length])
	return out, true
}

func (r *mmapRegion) WriteBytes(offset int, data []byte) bool {
	if offset < 0 || offset+len(data) > len(r.data) {
		return false
	}
	copy(r.data[offset:offset+len(data)], data)
	return true
}
