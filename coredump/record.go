// Package coredump implements the survivable-RAM dump record (C2) and its
// key/anti-key validity protocol (C3). A Record is a typed view over a
// region.Region: every field access is a bounded read or write against
// that backing store, never a bare Go struct field, so that the exact same
// code works whether the region is an ordinary process-local slice or an
// mmap'd file standing in for a linker section that survives a reset.
package coredump

import (
	"bytes"

	"github.com/dlafreniere/coredump/coredump/platform"
	"github.com/dlafreniere/coredump/region"
)

// FaultKind classifies why a capture happened.
type FaultKind uint32

const (
	// SoftwareAssertion is recorded when capture is invoked with a nil
	// stack pointer, i.e. from an assertion macro rather than an ISR.
	SoftwareAssertion FaultKind = iota

	// HardwareException is recorded when capture is invoked with the
	// stack pointer taken from an auto-pushed exception frame.
	HardwareException
)

func (k FaultKind) String() string {
	switch k {
	case SoftwareAssertion:
		return "Software Assertion"
	case HardwareException:
		return "Hardware Exception"
	default:
		return "Unknown Fault"
	}
}

// Registers is the general-purpose and status register file captured from
// an exception stack frame, in the order the reference implementation
// pushes them: R0, R1, R2, R3, R12, LR, PC, XPSR.
type Registers struct {
	R0, R1, R2, R3, R12, LR, PC, XPSR uint32
}

// FaultStatusRegisters holds the target-specific secondary fault-cause
// registers (named after the Cortex-M SCB fields the reference
// implementation reads, but meaningful on any target that defines an
// equivalent set).
type FaultStatusRegisters struct {
	CFSR, HFSR, MMFAR, BFAR, AFSR uint32
}

// Record is a typed view over a region.Region holding one dump record. It
// is the only object in this package with mutating methods; readers
// outside the capture path should use the coredump/export package, which
// exposes a read-only view.
type Record struct {
	layout layout
	mem    region.Region
}

// New builds a Record view over mem using the field sizes implied by p.
// mem must be at least layout.Size() bytes; New panics otherwise, since a
// region too small to hold the record is a build-time misconfiguration,
// not a runtime condition the core is required to degrade gracefully from.
//
// Host tooling reading an arbitrary file off disk should check Size(p)
// against the data it read before calling New, and report a
// RegionFileTooSmall error instead of relying on this panic.
func New(p platform.Profile, mem region.Region) *Record {
	l := newLayout(p)
	if mem.Size() < l.Size() {
		panic("coredump: region too small for profile")
	}
	return &Record{layout: l, mem: mem}
}

// Size returns the number of bytes a Record built with profile p occupies
// in a Region.
func Size(p platform.Profile) int {
	return newLayout(p).Size()
}

// Profile returns the platform profile this record was built with.
func (r *Record) Profile() platform.Profile { return r.layout.profile }

// IsValid implements the validity check from the key/anti-key protocol
// (C3): true iff Key equals the sentinel and AntiKey equals its bitwise
// complement. It is constant-time and has no side effects.
func (r *Record) IsValid() bool {
	key, ok1 := r.mem.ReadWord(r.layout.offKey)
	antiKey, ok2 := r.mem.ReadWord(r.layout.offAntiKey)
	return ok1 && ok2 && key == platform.KeySentinel && antiKey == platform.AntiKeySentinel
}

// MarkValid writes both key fields. Per the specification, mutual
// complementarity is what distinguishes an intentional capture from
// uninitialized RAM aliasing the sentinel by chance.
func (r *Record) MarkValid() {
	r.mem.WriteWord(r.layout.offKey, platform.KeySentinel)
	r.mem.WriteWord(r.layout.offAntiKey, platform.AntiKeySentinel)
}

// ResetKeys clears both key fields, moving the record from VALID to
// CLEARED. It does not clear any other field: reading fields of an
// invalid record is undefined by the specification, so there is nothing
// to protect by zeroing them.
func (r *Record) ResetKeys() {
	r.mem.WriteWord(r.layout.offKey, 0)
	r.mem.WriteWord(r.layout.offAntiKey, 0)
}

// Key and AntiKey expose the raw fields, mainly for tests exercising the
// adversarial cold-boot patterns described in the specification's
// testable properties.
func (r *Record) Key() uint32 {
	v, _ := r.mem.ReadWord(r.layout.offKey)
	return v
}

func (r *Record) AntiKey() uint32 {
	v, _ := r.mem.ReadWord(r.layout.offAntiKey)
	return v
}

// SetSoftwareVersion, SetAuxCode, SetFaultKind, SetLineNumber are plain
// field writers used by the capture orchestrator. They are exported
// because capture lives in a separate package (coredump/capture), not
// because external callers should use them directly during normal
// operation -- the single-writer discipline is a convention enforced by
// the capture orchestrator being the only intended caller.
func (r *Record) SetSoftwareVersion(v uint32) { r.mem.WriteWord(r.layout.offSoftwareVersion, v) }
func (r *Record) SetAuxCode(v uint32)         { r.mem.WriteWord(r.layout.offAuxCode, v) }
func (r *Record) SetFaultKind(k FaultKind)    { r.mem.WriteWord(r.layout.offFaultKind, uint32(k)) }
func (r *Record) SetLineNumber(v uint32)      { r.mem.WriteWord(r.layout.offLineNumber, v) }

func (r *Record) SoftwareVersion() uint32 {
	v, _ := r.mem.ReadWord(r.layout.offSoftwareVersion)
	return v
}

func (r *Record) AuxCode() uint32 {
	v, _ := r.mem.ReadWord(r.layout.offAuxCode)
	return v
}

func (r *Record) FaultKind() FaultKind {
	v, _ := r.mem.ReadWord(r.layout.offFaultKind)
	return FaultKind(v)
}

func (r *Record) LineNumber() uint32 {
	v, _ := r.mem.ReadWord(r.layout.offLineNumber)
	return v
}

// SetFileName copies name into the fixed file-name buffer, truncating from
// the right if it is too long, and always leaves the buffer
// null-terminated -- matching the reference implementation's
// strncpy-plus-forced-terminator idiom. A nil/empty name leaves the buffer
// as-is except for guaranteeing the terminator, per the specification's
// "null file_name" degraded-input behaviour.
func (r *Record) SetFileName(name string) {
	if name == "" {
		r.mem.WriteBytes(r.layout.offFileName+platform.FileNameLen-1, []byte{0})
		return
	}
	buf := make([]byte, platform.FileNameLen)
	n := copy(buf, name)
	if n >= platform.FileNameLen {
		n = platform.FileNameLen - 1
	}
	buf[platform.FileNameLen-1] = 0
	// zero-fill the tail so a shorter second capture (impossible under
	// first-writer-wins, but exercised directly by unit tests) can't leave
	// stale bytes from a longer previous value.
	for i := n; i < platform.FileNameLen-1; i++ {
		buf[i] = 0
	}
	r.mem.WriteBytes(r.layout.offFileName, buf)
}

// FileName returns the stored file name, decoded up to the first NUL byte.
func (r *Record) FileName() string {
	buf, ok := r.mem.ReadBytes(r.layout.offFileName, platform.FileNameLen)
	if !ok {
		return ""
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf)
}

// SetRegisters and Registers cover the CPU general-purpose/status register
// file, present only when the profile enables FeatureHardwareRegisters.
func (r *Record) SetRegisters(regs Registers) {
	words := [registersWordCount]uint32{regs.R0, regs.R1, regs.R2, regs.R3, regs.R12, regs.LR, regs.PC, regs.XPSR}
	for i, w := range words {
		r.mem.WriteWord(r.layout.offRegisters+i*wordSize, w)
	}
}

func (r *Record) Registers() Registers {
	var words [registersWordCount]uint32
	for i := range words {
		words[i], _ = r.mem.ReadWord(r.layout.offRegisters + i*wordSize)
	}
	return Registers{R0: words[0], R1: words[1], R2: words[2], R3: words[3], R12: words[4], LR: words[5], PC: words[6], XPSR: words[7]}
}

// SetFaultStatusRegisters and FaultStatusRegisters cover the secondary
// fault-cause registers, present only alongside FeatureHardwareRegisters.
func (r *Record) SetFaultStatusRegisters(fsr FaultStatusRegisters) {
	words := [faultStatusWordCount]uint32{fsr.CFSR, fsr.HFSR, fsr.MMFAR, fsr.BFAR, fsr.AFSR}
	for i, w := range words {
		r.mem.WriteWord(r.layout.offFaultStatus+i*wordSize, w)
	}
}

func (r *Record) FaultStatusRegisters() FaultStatusRegisters {
	var words [faultStatusWordCount]uint32
	for i := range words {
		words[i], _ = r.mem.ReadWord(r.layout.offFaultStatus + i*wordSize)
	}
	return FaultStatusRegisters{CFSR: words[0], HFSR: words[1], MMFAR: words[2], BFAR: words[3], AFSR: words[4]}
}

// SetActiveBacktrace writes addrs into the fixed-capacity backtrace slot,
// zero-padding entries beyond len(addrs). addrs longer than
// platform.CallStackSize is truncated, keeping the first CallStackSize
// entries in the order given -- callers (the stack walker) are already
// responsible for capping depth, this is a second line of defense against
// a misbehaving strategy overflowing the fixed slot.
func (r *Record) SetActiveBacktrace(addrs []uint32) {
	writeBacktraceSlot(r.mem, r.layout.offActiveBacktrace, addrs)
}

// ActiveBacktrace returns the up-to-CallStackSize backtrace captured on
// the fault path, in stack order, as a slice of exactly
// platform.CallStackSize entries with zero padding beyond the last real
// candidate address.
func (r *Record) ActiveBacktrace() []uint32 {
	return readBacktraceSlot(r.mem, r.layout.offActiveBacktrace)
}

// SetTaskBacktrace writes addrs into the task-th row of the task backtrace
// matrix. It is a no-op if task is outside [0, OSTaskCount).
func (r *Record) SetTaskBacktrace(task int, addrs []uint32) {
	if task < 0 || task >= r.layout.profile.OSTaskCount {
		return
	}
	writeBacktraceSlot(r.mem, r.layout.taskBacktraceOffset(task), addrs)
}

// TaskBacktraces returns one backtrace slice per configured task slot, in
// task-table order.
func (r *Record) TaskBacktraces() [][]uint32 {
	out := make([][]uint32, r.layout.profile.OSTaskCount)
	for t := range out {
		out[t] = readBacktraceSlot(r.mem, r.layout.taskBacktraceOffset(t))
	}
	return out
}

func writeBacktraceSlot(mem region.Region, offset int, addrs []uint32) {
	for i := 0; i < platform.CallStackSize; i++ {
		var w uint32
		if i < len(addrs) {
			w = addrs[i]
		}
		mem.WriteWord(offset+i*wordSize, w)
	}
}

func readBacktraceSlot(mem region.Region, offset int) []uint32 {
	out := make([]uint32, platform.CallStackSize)
	for i := range out {
		out[i], _ = mem.ReadWord(offset + i*wordSize)
	}
	return out
}
