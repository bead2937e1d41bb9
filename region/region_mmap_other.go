//go:build !linux

package region

import "fmt"

// OpenMmap is only implemented on Linux, where golang.org/x/sys/unix gives
// access to mmap(2). Other hosts fall back to New for testing.
func OpenMmap(path string, size int) (Region, error) {
	return nil, fmt.Errorf("region: memory-mapped regions are not supported on this platform")
}
