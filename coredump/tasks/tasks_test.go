package tasks_test

import (
	"testing"

	"github.com/dlafreniere/coredump/coredump"
	"github.com/dlafreniere/coredump/coredump/platform"
	"github.com/dlafreniere/coredump/coredump/stackwalk"
	"github.com/dlafreniere/coredump/coredump/tasks"
	"github.com/dlafreniere/coredump/region"
)

type fakeTable struct {
	slots []tasks.Task
}

func (f fakeTable) Count() int { return len(f.slots) }

func (f fakeTable) Task(n int) tasks.Task { return f.slots[n] }

func testProfile() platform.Profile {
	p := platform.Default()
	p.RAMBegin, p.RAMEnd = 0x1000, 0x2000
	p.CodeBegin, p.CodeEnd = 0x400000, 0x500000
	p.OSTaskCount = 3
	p.Features |= platform.FeatureMultiTask
	return p
}

func newTestRecord(t *testing.T, p platform.Profile) *coredump.Record {
	t.Helper()
	mem := region.New(4096)
	return coredump.New(p, mem)
}

func TestCaptureTasksSkipsInactiveSlots(t *testing.T) {
	p := testProfile()
	rec := newTestRecord(t, p)

	table := fakeTable{slots: []tasks.Task{
		{Active: false, StackPointer: 0x1000},
		{Active: true, StackPointer: 0x1100},
		{Active: false, StackPointer: 0x1200},
	}}

	buf := make([]byte, 512)
	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: buf}
	mem.WriteWord(0x1104, 0x400100)

	walker := stackwalk.NewWalker(p, stackwalk.ScanStrategy)
	tasks.CaptureTasks(p, walker, mem, table, rec)

	got := rec.TaskBacktraces()
	if !allZero(got[0]) {
		t.Fatalf("task 0 (inactive) backtrace = %v, want all zero", got[0])
	}
	if got[1][0] != 0x400100 || !allZero(got[1][1:]) {
		t.Fatalf("task 1 backtrace = %v, want [0x400100, 0, ...]", got[1])
	}
	if !allZero(got[2]) {
		t.Fatalf("task 2 (inactive) backtrace = %v, want all zero", got[2])
	}
}

func allZero(addrs []uint32) bool {
	for _, a := range addrs {
		if a != 0 {
			return false
		}
	}
	return true
}

func TestCaptureTasksNeverReadsPastCount(t *testing.T) {
	p := testProfile()
	rec := newTestRecord(t, p)

	// A table reporting exactly OSTaskCount slots must never see an
	// out-of-range Task() call; the reference implementation's off-by-one
	// would have asked for index 3 here.
	table := fakeTable{slots: []tasks.Task{
		{Active: true, StackPointer: 0x1000},
		{Active: true, StackPointer: 0x1000},
		{Active: true, StackPointer: 0x1000},
	}}

	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: make([]byte, 512)}
	walker := stackwalk.NewWalker(p, stackwalk.ScanStrategy)

	// Task() panics on out-of-range access via slice indexing; if
	// CaptureTasks ever calls table.Task(3) this test panics and fails.
	tasks.CaptureTasks(p, walker, mem, table, rec)
}

func TestCaptureTasksNoOpWhenFeatureDisabled(t *testing.T) {
	p := testProfile()
	p.Features = 0
	rec := newTestRecord(t, p)

	table := fakeTable{slots: []tasks.Task{{Active: true, StackPointer: 0x1000}}}
	mem := stackwalk.BufferMemory{Base: 0x1000, Buf: make([]byte, 512)}
	walker := stackwalk.NewWalker(p, stackwalk.ScanStrategy)

	tasks.CaptureTasks(p, walker, mem, table, rec)

	for i, bt := range rec.TaskBacktraces() {
		if !allZero(bt) {
			t.Fatalf("task %d backtrace = %v, want all zero when feature disabled", i, bt)
		}
	}
}
