package coredump

import "github.com/dlafreniere/coredump/coredump/platform"

// layout computes the fixed byte offsets of every field within the backing
// region, in the field order given in the data model: key, anti-key,
// software version, aux code, fault kind, line number, file name,
// registers, fault-status registers, active backtrace, task backtraces.
//
// The record is always laid out with every optional field present -- the
// Profile's Features only control whether capture *populates* them, per
// design note (b) in the specification (fixed-size unused regions rather
// than a build-time struct variant). This keeps the wire format identical
// across builds with different feature sets, which matters once a host
// tool reads the region file of a fleet of mixed targets.
type layout struct {
	profile platform.Profile

	offKey             int
	offAntiKey         int
	offSoftwareVersion int
	offAuxCode         int
	offFaultKind       int
	offLineNumber      int
	offFileName        int
	offRegisters       int
	offFaultStatus     int
	offActiveBacktrace int
	offTaskBacktraces  int

	size int
}

const (
	wordSize = 4

	// registersWordCount is len({R0,R1,R2,R3,R12,LR,PC,XPSR}).
	registersWordCount = 8

	// faultStatusWordCount is len({CFSR,HFSR,MMFAR,BFAR,AFSR}).
	faultStatusWordCount = 5
)

func newLayout(p platform.Profile) layout {
	l := layout{profile: p}

	off := 0
	next := func(n int) int {
		o := off
		off += n
		return o
	}

	l.offKey = next(wordSize)
	l.offAntiKey = next(wordSize)
	l.offSoftwareVersion = next(wordSize)
	l.offAuxCode = next(wordSize)
	l.offFaultKind = next(wordSize)
	l.offLineNumber = next(wordSize)
	l.offFileName = next(platform.FileNameLen)
	l.offRegisters = next(registersWordCount * wordSize)
	l.offFaultStatus = next(faultStatusWordCount * wordSize)
	l.offActiveBacktrace = next(platform.CallStackSize * wordSize)
	l.offTaskBacktraces = next(p.OSTaskCount * platform.CallStackSize * wordSize)

	l.size = off
	return l
}

// Size returns the number of bytes a record built from this layout's
// profile occupies in a Region.
func (l layout) Size() int { return l.size }

func (l layout) taskBacktraceOffset(task int) int {
	return l.offTaskBacktraces + task*platform.CallStackSize*wordSize
}
