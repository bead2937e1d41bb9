package stackwalk

import (
	"runtime"

	"github.com/dlafreniere/coredump/coredump/platform"
)

// HostBacktrace implements Strategy C: a thin adapter over the host
// runtime's own backtrace primitive, for testing and for ports running on
// a commodity OS rather than freestanding hardware. It retains only the
// first platform.CallStackSize addresses and discards any symbol
// information the runtime could otherwise resolve -- the record stores
// addresses only, so the post-mortem pipeline is identical regardless of
// which strategy produced them.
//
// skip counts the frames between the caller of HostBacktrace and the
// fault site: with skip 0 the first recorded address is in the caller of
// HostBacktrace, and HostBacktrace's own frame is never recorded.
func HostBacktrace(skip int) []uint32 {
	pcs := make([]uintptr, platform.CallStackSize)
	n := runtime.Callers(skip+2, pcs)

	out := make([]uint32, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, uint32(pcs[i]))
	}
	return out
}
