package stackwalk

import "github.com/dlafreniere/coredump/coredump/platform"

// Strategy selects which of the three backtrace algorithms a Walker uses.
// Exactly one is chosen per build, in keeping with the specification's
// "one is chosen at build time per platform" contract; nothing in this
// package prevents constructing several Walkers with different
// strategies in the same binary, which is exactly what the test suite and
// the faultinject harness do to exercise all three.
type Strategy int

const (
	// ScanStrategy is Strategy A, the default requiring no library or
	// compiler support.
	ScanStrategy Strategy = iota

	// FramePointerStrategy is Strategy B, used when the toolchain
	// preserves frame pointers.
	FramePointerStrategy

	// HostStrategy is Strategy C, used on hosts with a native backtrace
	// primitive (testing and commodity-OS ports).
	HostStrategy
)

// Walker bundles a Strategy with the platform.Profile it should be
// evaluated against, giving the capture orchestrator a single call that
// dispatches to whichever algorithm this build selected.
type Walker struct {
	Profile  platform.Profile
	Strategy Strategy

	// HostSkip is only consulted by HostStrategy; it is the number of
	// additional stack frames, beyond Walk's own, to skip before
	// recording addresses.
	HostSkip int
}

// NewWalker constructs a Walker for the given profile and strategy.
func NewWalker(p platform.Profile, s Strategy) Walker {
	return Walker{Profile: p, Strategy: s}
}

// Walk fills a backtrace starting at sp (for ScanStrategy and
// FramePointerStrategy, the interpretation of sp is a stack pointer and a
// frame pointer respectively; HostStrategy ignores sp entirely and always
// walks the calling goroutine's own stack).
func (w Walker) Walk(mem Memory, sp uint32) []uint32 {
	switch w.Strategy {
	case FramePointerStrategy:
		return FramePointer(w.Profile, mem, sp)
	case HostStrategy:
		return HostBacktrace(w.HostSkip + 1)
	default:
		return Scan(w.Profile, mem, sp)
	}
}
