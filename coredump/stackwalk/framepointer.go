package stackwalk

import "github.com/dlafreniere/coredump/coredump/platform"

// frameLinkOffset and frameReturnOffset describe the two-word frame record
// a toolchain emits when frame pointers are preserved: the saved caller's
// frame pointer at offset 0, and the saved return address immediately
// after it. This matches the layout AAPCS-conforming ARM toolchains use
// for `push {fp, lr}` prologues; a target using a different ABI adjusts
// these two constants, not the algorithm.
const (
	frameLinkOffset   = 0
	frameReturnOffset = wordSize
)

// FramePointer implements Strategy B: it follows the frame-pointer linked
// list starting at fp, reading the saved return address out of each frame
// and validating that the next link points strictly further towards the
// stack base and stays inside RAM. It stops at an invalid link, at the
// two-word stack marker, or once platform.CallStackSize addresses have
// been collected.
//
// Compared to Scan, this strategy skips local-variable words entirely and
// so produces fewer spurious entries, at the cost of requiring a
// toolchain that preserves frame pointers.
func FramePointer(p platform.Profile, mem Memory, fp uint32) []uint32 {
	out := make([]uint32, 0, platform.CallStackSize)

	cur := fp
	for len(out) < platform.CallStackSize {
		if cur < p.RAMBegin || cur > p.RAMEnd {
			break
		}

		link, ok := mem.ReadWord(cur + frameLinkOffset)
		if !ok {
			break
		}
		ret, ok := mem.ReadWord(cur + frameReturnOffset)
		if !ok {
			break
		}

		if link == platform.StackMarker && ret == platform.StackMarker {
			break
		}

		if ret >= p.CodeBegin && ret <= p.CodeEnd {
			out = append(out, ret)
		}

		if !validFrameLink(p, cur, link) {
			break
		}
		cur = link
	}

	return out
}

// validFrameLink reports whether link is a plausible next frame: still
// inside RAM, and strictly further along the stack towards the base than
// the current frame (down-growing stacks have higher addresses towards
// the base; up-growing stacks have lower addresses towards the base).
func validFrameLink(p platform.Profile, cur, link uint32) bool {
	if link < p.RAMBegin || link > p.RAMEnd {
		return false
	}
	if p.StackGrowsDown {
		return link > cur
	}
	return link < cur
}
