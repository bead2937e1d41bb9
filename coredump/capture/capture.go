// Package capture implements the single public entry point of the
// coredump core (C5): classify the fault, populate the record, invoke the
// active stack-walk strategy, and enforce first-writer-wins.
//
// This package must remain reachable only from fault-time code. It does
// not import the logging, error-wrapping, or preference packages used by
// host tooling: capture must never allocate on the heap in a way that can
// fail, block, or otherwise misbehave while the system is already in the
// middle of dying.
package capture

import (
	"github.com/dlafreniere/coredump/coredump"
	"github.com/dlafreniere/coredump/coredump/platform"
	"github.com/dlafreniere/coredump/coredump/stackwalk"
)

// exceptionFrameRegisterCount is the number of consecutive words the
// reference implementation reads off an exception stack frame before the
// caller's own locals begin: R0, R1, R2, R3, R12, LR, PC, XPSR.
const exceptionFrameRegisterCount = 8

// Capturer bundles everything capture() needs that isn't part of the
// record itself: the platform profile, the stack-walk strategy, the
// memory the walker scans, and the collaborator primitives §6 requires on
// hardware-register-capable targets.
type Capturer struct {
	Profile platform.Profile
	Walker  stackwalk.Walker
	Memory  stackwalk.Memory
	Record  *coredump.Record

	// CurrentStackPointer is the collaborator that reads the CPU's stack
	// pointer register. It is only consulted when Capture is called with
	// stackPointer == 0 and FeatureHardwareRegisters is enabled; leave it
	// nil on assertion-only builds.
	CurrentStackPointer func() uint32

	// FaultStatusRegisters is the collaborator that reads the
	// target-specific secondary fault-cause registers. Leave it nil if
	// the target has none, or if FeatureHardwareRegisters is disabled.
	FaultStatusRegisters func() coredump.FaultStatusRegisters
}

// Capture is the single public entry point (C5). stackPointer of 0 means
// "determine automatically from the caller's context" and always classifies
// the event as a software assertion; CurrentStackPointer, when set, only
// supplies the starting point of the stack walk. fileName may be empty. Capture never returns an error:
// every recoverable condition degrades to a zero-filled substructure
// rather than a failed capture, and the record's mere validity is the
// signal that a fault occurred at all.
func (c *Capturer) Capture(stackPointer uint32, fileName string, lineNumber uint32, auxCode uint32) {
	// Idempotence guard: first writer wins. A cascading fault during
	// capture, or on the next boot before reset() is called, must not
	// overwrite the original diagnostic snapshot.
	if c.Record.IsValid() {
		return
	}

	// Keys first: a hypothetical concurrent reader would see either "not
	// yet valid" or "valid, still being populated". Fields not yet written
	// by this capture still hold whatever the region held before.
	c.Record.MarkValid()

	c.Record.SetSoftwareVersion(c.Profile.SoftwareVersion)
	c.Record.SetAuxCode(auxCode)

	kind := coredump.SoftwareAssertion
	if stackPointer != 0 {
		kind = coredump.HardwareException
	}
	c.Record.SetFaultKind(kind)

	hardware := c.Profile.Features.Has(platform.FeatureHardwareRegisters)

	if kind == coredump.HardwareException && hardware {
		c.Record.SetRegisters(readExceptionFrameRegisters(c.Memory, stackPointer))
		if c.FaultStatusRegisters != nil {
			c.Record.SetFaultStatusRegisters(c.FaultStatusRegisters())
		}
	}

	c.Record.SetFileName(fileName)
	c.Record.SetLineNumber(lineNumber)

	sp := stackPointer
	if sp == 0 && hardware && c.CurrentStackPointer != nil {
		sp = c.CurrentStackPointer()
	}

	c.Record.SetActiveBacktrace(c.Walker.Walk(c.Memory, sp))
}

// readExceptionFrameRegisters copies the eight words the reference
// implementation reads at known offsets from an auto-pushed exception
// stack frame. A missing word (out-of-range Memory access) leaves the
// corresponding register zero rather than aborting the rest of the
// capture.
func readExceptionFrameRegisters(mem stackwalk.Memory, stackPointer uint32) coredump.Registers {
	words := make([]uint32, exceptionFrameRegisterCount)
	for i := range words {
		addr, ok := addWords(stackPointer, i)
		if !ok {
			continue
		}
		if w, ok := mem.ReadWord(addr); ok {
			words[i] = w
		}
	}
	return coredump.Registers{
		R0: words[0], R1: words[1], R2: words[2], R3: words[3],
		R12: words[4], LR: words[5], PC: words[6], XPSR: words[7],
	}
}

func addWords(base uint32, n int) (uint32, bool) {
	addr := int64(base) + int64(n)*4
	if addr < 0 || addr > int64(^uint32(0)) {
		return 0, false
	}
	return uint32(addr), true
}
