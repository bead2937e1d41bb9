package stackwalk_test

import (
	"testing"

	"github.com/dlafreniere/coredump/coredump/platform"
	"github.com/dlafreniere/coredump/coredump/stackwalk"
)

func testProfile() platform.Profile {
	p := platform.Default()
	p.RAMBegin, p.RAMEnd = 0x1000, 0x2000
	p.CodeBegin, p.CodeEnd = 0x400000, 0x500000
	return p
}

func TestScanOutOfRangeStackPointerYieldsEmpty(t *testing.T) {
	p := testProfile()
	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: make([]byte, 256)}

	bt := stackwalk.Scan(p, mem, 0xFFFF0000)
	if len(bt) != 0 {
		t.Fatalf("Scan with out-of-range sp = %v, want empty", bt)
	}
}

func TestScanFindsPlantedReturnAddresses(t *testing.T) {
	p := testProfile()
	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: make([]byte, 128)}

	sp := uint32(0x1000)
	mem.WriteWord(sp+4, 0x400100)
	mem.WriteWord(sp+12, 0x400200)
	mem.WriteWord(sp+28, 0x400300)
	mem.WriteWord(sp+40, platform.StackMarker)
	mem.WriteWord(sp+44, platform.StackMarker)

	bt := stackwalk.Scan(p, mem, sp)
	want := []uint32{0x400100, 0x400200, 0x400300}
	if len(bt) != len(want) {
		t.Fatalf("Scan() = %v (len %d), want %v", bt, len(bt), want)
	}
	for i, w := range want {
		if bt[i] != w {
			t.Fatalf("Scan()[%d] = %#x, want %#x", i, bt[i], w)
		}
	}
}

func TestScanTruncatesToCallStackSize(t *testing.T) {
	p := testProfile()
	buf := make([]byte, 4096)
	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: buf}

	sp := uint32(0x1000)
	for i := 0; i < 20; i++ {
		mem.WriteWord(sp+uint32(i*4), 0x400000+uint32(i))
	}
	// no marker planted: the search should stop at CallStackSize entries
	// long before it would hit MaxStackDepthSearch.

	bt := stackwalk.Scan(p, mem, sp)
	if len(bt) != platform.CallStackSize {
		t.Fatalf("Scan() length = %d, want %d", len(bt), platform.CallStackSize)
	}
	for i := 0; i < platform.CallStackSize; i++ {
		want := 0x400000 + uint32(i)
		if bt[i] != want {
			t.Fatalf("Scan()[%d] = %#x, want %#x", i, bt[i], want)
		}
	}
}

func TestScanStopsAtDepthCapWithoutMarker(t *testing.T) {
	p := testProfile()
	p.CodeBegin, p.CodeEnd = 0x900000, 0x900010 // narrow so nothing matches
	buf := make([]byte, (platform.MaxStackDepthSearch+8)*4)
	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: buf}

	bt := stackwalk.Scan(p, mem, 0x1000)
	if len(bt) != 0 {
		t.Fatalf("Scan() with no matches and no marker = %v, want empty", bt)
	}
}

func TestScanUpGrowingStack(t *testing.T) {
	p := testProfile()
	p.StackGrowsDown = false
	buf := make([]byte, 256)
	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: buf}

	sp := uint32(0x1080)
	mem.WriteWord(sp-4, 0x400100)
	mem.WriteWord(sp-12, 0x400200)
	mem.WriteWord(sp-16, platform.StackMarker)
	mem.WriteWord(sp-20, platform.StackMarker)

	bt := stackwalk.Scan(p, mem, sp)
	want := []uint32{0x400100, 0x400200}
	if len(bt) != len(want) {
		t.Fatalf("Scan() (up-growing) = %v, want %v", bt, want)
	}
	for i, w := range want {
		if bt[i] != w {
			t.Fatalf("Scan()[%d] = %#x, want %#x", i, bt[i], w)
		}
	}
}

func TestFramePointerFollowsChainToMarker(t *testing.T) {
	p := testProfile()
	buf := make([]byte, 256)
	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: buf}

	// frame at 0x1000: link -> 0x1010, return 0x400100
	mem.WriteWord(0x1000, 0x1010)
	mem.WriteWord(0x1004, 0x400100)
	// frame at 0x1010: link -> 0x1020, return 0x400200
	mem.WriteWord(0x1010, 0x1020)
	mem.WriteWord(0x1014, 0x400200)
	// frame at 0x1020: marker pair terminates the walk
	mem.WriteWord(0x1020, platform.StackMarker)
	mem.WriteWord(0x1024, platform.StackMarker)

	bt := stackwalk.FramePointer(p, mem, 0x1000)
	want := []uint32{0x400100, 0x400200}
	if len(bt) != len(want) {
		t.Fatalf("FramePointer() = %v, want %v", bt, want)
	}
	for i, w := range want {
		if bt[i] != w {
			t.Fatalf("FramePointer()[%d] = %#x, want %#x", i, bt[i], w)
		}
	}
}

func TestFramePointerRejectsBackwardLink(t *testing.T) {
	p := testProfile()
	buf := make([]byte, 256)
	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: buf}

	// link points backwards (towards lower addresses) on a down-growing
	// stack -- this is not a valid next frame and must stop the walk
	// after recording the one legitimate return address.
	mem.WriteWord(0x1010, 0x1000)
	mem.WriteWord(0x1014, 0x400100)

	bt := stackwalk.FramePointer(p, mem, 0x1010)
	if len(bt) != 1 || bt[0] != 0x400100 {
		t.Fatalf("FramePointer() = %v, want [0x400100]", bt)
	}
}

func TestHostBacktraceReturnsNonEmpty(t *testing.T) {
	bt := stackwalk.HostBacktrace(0)
	if len(bt) == 0 {
		t.Fatalf("HostBacktrace() returned no addresses")
	}
	if len(bt) > platform.CallStackSize {
		t.Fatalf("HostBacktrace() returned %d addresses, want at most %d", len(bt), platform.CallStackSize)
	}
}

func TestWalkerDispatchesByStrategy(t *testing.T) {
	p := testProfile()
	buf := make([]byte, 256)
	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: buf}
	mem.WriteWord(0x1004, 0x400100)

	scanWalker := stackwalk.NewWalker(p, stackwalk.ScanStrategy)
	if bt := scanWalker.Walk(mem, 0x1000); len(bt) != 1 || bt[0] != 0x400100 {
		t.Fatalf("scan walker = %v, want [0x400100]", bt)
	}

	hostWalker := stackwalk.NewWalker(p, stackwalk.HostStrategy)
	if bt := hostWalker.Walk(mem, 0); len(bt) == 0 {
		t.Fatalf("host walker returned no addresses")
	}
}
