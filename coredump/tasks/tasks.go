// Package tasks implements the multi-task backtrace sweep (C6): capturing
// a backtrace per OS task slot in addition to the faulting context's own
// active backtrace.
//
// The reference implementation looped from 0 through OSTaskCount
// inclusive, reading one slot past the end of its task table on every
// capture. This package uses an exclusive bound and treats that as a
// defect rather than a behavior to preserve.
package tasks

import (
	"github.com/dlafreniere/coredump/coredump"
	"github.com/dlafreniere/coredump/coredump/platform"
	"github.com/dlafreniere/coredump/coredump/stackwalk"
)

// Task describes one OS task slot as the target's scheduler exposes it.
// Active is false for empty or never-scheduled slots; CaptureTasks skips
// these entirely rather than writing a zero-length backtrace over
// whatever the record already holds.
type Task struct {
	Active       bool
	StackPointer uint32
}

// TaskTable is the collaborator a target provides over its scheduler's
// task list. Task must accept any n in [0, Count) and is never called
// outside that range.
type TaskTable interface {
	Count() int
	Task(n int) Task
}

// CaptureTasks walks every active task in table with walker and writes
// each one's backtrace into the corresponding slot of rec. It never reads
// table.Task(table.Count()); Count is the exclusive upper bound, matching
// the fix applied throughout this package.
func CaptureTasks(p platform.Profile, walker stackwalk.Walker, mem stackwalk.Memory, table TaskTable, rec *coredump.Record) {
	if !p.Features.Has(platform.FeatureMultiTask) {
		return
	}

	count := table.Count()
	if count > p.OSTaskCount {
		count = p.OSTaskCount
	}

	for t := 0; t < count; t++ {
		task := table.Task(t)
		if !task.Active {
			continue
		}
		rec.SetTaskBacktrace(t, walker.Walk(mem, task.StackPointer))
	}
}
