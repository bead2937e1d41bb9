package stackwalk

import "github.com/dlafreniere/coredump/coredump/platform"

// Scan implements Strategy A: an address-range scan requiring no compiler
// or library support. It walks from sp towards the stack base (the
// direction selected by p.StackGrowsDown), collecting every word that
// falls within [p.CodeBegin, p.CodeEnd] as a candidate return address,
// until it sees two consecutive p.StackMarker words, fills
// platform.CallStackSize entries, or exhausts
// platform.MaxStackDepthSearch words -- whichever comes first.
//
// Stale return addresses from already-popped frames may appear in the
// result; this is by design (see the specification's rationale for
// Strategy A) rather than a defect to be filtered out.
func Scan(p platform.Profile, mem Memory, sp uint32) []uint32 {
	out := make([]uint32, 0, platform.CallStackSize)

	if sp < p.RAMBegin || sp > p.RAMEnd {
		return out
	}

	dir := int64(wordSize)
	if !p.StackGrowsDown {
		dir = -wordSize
	}

	for d := 0; d < platform.MaxStackDepthSearch; d++ {
		addr, ok := offsetAddr(sp, int64(d)*dir)
		if !ok {
			break
		}
		word, ok := mem.ReadWord(addr)
		if !ok {
			break
		}

		nextAddr, ok := offsetAddr(sp, int64(d+1)*dir)
		if ok {
			if next, ok := mem.ReadWord(nextAddr); ok && word == platform.StackMarker && next == platform.StackMarker {
				break
			}
		}

		if word >= p.CodeBegin && word <= p.CodeEnd {
			out = append(out, word)
			if len(out) >= platform.CallStackSize {
				break
			}
		}
	}

	return out
}

const wordSize = 4

// offsetAddr computes sp+delta guarding against the (only theoretically
// reachable on a 32-bit target) address-space wraparound at the ends of
// the uint32 range.
func offsetAddr(sp uint32, delta int64) (uint32, bool) {
	addr := int64(sp) + delta
	if addr < 0 || addr > int64(^uint32(0)) {
		return 0, false
	}
	return uint32(addr), true
}
