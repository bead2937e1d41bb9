// Package export implements the post-reboot consumer's surface over a
// dump record (C7): read-only accessors, the validity/reset primitives,
// and the report renderer (C9). Nothing in this package mutates a
// record's data fields, only its validity keys via Reset, matching the
// specification's "mutated exactly twice per fault cycle" lifecycle.
package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/dlafreniere/coredump/coredump"
)

// ReadOnlyRecord is the subset of *coredump.Record's method set this
// package and its callers are allowed to see. It exists so that host
// tooling built against export cannot accidentally call a Set* method
// meant only for the capture orchestrator.
type ReadOnlyRecord interface {
	IsValid() bool
	FaultKind() coredump.FaultKind
	SoftwareVersion() uint32
	AuxCode() uint32
	LineNumber() uint32
	FileName() string
	Registers() coredump.Registers
	FaultStatusRegisters() coredump.FaultStatusRegisters
	ActiveBacktrace() []uint32
	TaskBacktraces() [][]uint32
}

// resettable is satisfied by *coredump.Record; kept separate from
// ReadOnlyRecord so that Reset requires an explicit, narrower capability
// than the read accessors do.
type resettable interface {
	ResetKeys()
}

// IsSaved reports whether rec currently holds a captured fault, mirroring
// the reference implementation's IsCoreDumpSaved.
func IsSaved(rec ReadOnlyRecord) bool {
	return rec.IsValid()
}

// Get returns rec unchanged if it is currently valid, or nil otherwise.
// It exists to give host tooling a single call that combines the
// validity check with obtaining the record, mirroring the reference
// implementation's CoreDumpGet returning a null pointer when nothing has
// been captured.
func Get(rec ReadOnlyRecord) ReadOnlyRecord {
	if !rec.IsValid() {
		return nil
	}
	return rec
}

// Reset clears rec's validity keys, mirroring CoreDumpReset. It is the
// second and last mutation a record undergoes per fault cycle; every
// other field is left as-is, matching the specification's statement that
// reading fields of an invalid record is undefined.
func Reset(rec resettable) {
	rec.ResetKeys()
}

// Format selects the report renderer's output encoding.
type Format int

const (
	// TextFormat renders the mandatory-field report as human-readable
	// text, one field per line, with each backtrace entry labeled
	// "Stack N".
	TextFormat Format = iota

	// JSONFormat renders the same field set as a single JSON document,
	// for consumption by other tooling.
	JSONFormat
)

// jsonRecord is the wire shape used by JSONFormat. Backtraces are decimal
// arrays of addresses rather than hex, since encoding/json has no native
// hex integer support; a consumer that wants hex formats them itself.
type jsonRecord struct {
	FaultKind            string     `json:"fault_kind"`
	SoftwareVersion      uint32     `json:"software_version"`
	AuxCode              uint32     `json:"aux_code"`
	LineNumber           uint32     `json:"line_number"`
	FileName             string     `json:"file_name"`
	Registers            *regs      `json:"registers,omitempty"`
	FaultStatusRegisters *fsr       `json:"fault_status_registers,omitempty"`
	ActiveBacktrace      []uint32   `json:"active_backtrace"`
	TaskBacktraces       [][]uint32 `json:"task_backtraces,omitempty"`
}

type regs struct {
	R0, R1, R2, R3, R12, LR, PC, XPSR uint32
}

type fsr struct {
	CFSR, HFSR, MMFAR, BFAR, AFSR uint32
}

// Render writes rec to w in the given Format. It never returns an error
// of its own; a failure comes only from the underlying writer, so callers
// that already know w cannot fail (a bytes.Buffer, for instance) may
// safely ignore the returned error.
func Render(w io.Writer, rec ReadOnlyRecord, format Format) error {
	switch format {
	case JSONFormat:
		return renderJSON(w, rec)
	default:
		return renderText(w, rec)
	}
}

func renderText(w io.Writer, rec ReadOnlyRecord) error {
	if _, err := fmt.Fprintf(w, "Fault Kind:       %s\n", rec.FaultKind()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Software Version: %d\n", rec.SoftwareVersion()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Aux Code:         %d\n", rec.AuxCode()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "File:             %s\n", rec.FileName()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Line:             %d\n", rec.LineNumber()); err != nil {
		return err
	}

	if rec.FaultKind() == coredump.HardwareException {
		r := rec.Registers()
		if _, err := fmt.Fprintf(w, "R0=0x%08x R1=0x%08x R2=0x%08x R3=0x%08x R12=0x%08x LR=0x%08x PC=0x%08x XPSR=0x%08x\n",
			r.R0, r.R1, r.R2, r.R3, r.R12, r.LR, r.PC, r.XPSR); err != nil {
			return err
		}
		f := rec.FaultStatusRegisters()
		if _, err := fmt.Fprintf(w, "CFSR=0x%08x HFSR=0x%08x MMFAR=0x%08x BFAR=0x%08x AFSR=0x%08x\n",
			f.CFSR, f.HFSR, f.MMFAR, f.BFAR, f.AFSR); err != nil {
			return err
		}
	}

	bt := rec.ActiveBacktrace()
	for i, addr := range bt {
		if _, err := fmt.Fprintf(w, "Stack %d: 0x%08x\n", i, addr); err != nil {
			return err
		}
	}

	for t, tbt := range rec.TaskBacktraces() {
		for i, addr := range tbt {
			if _, err := fmt.Fprintf(w, "Task %d Stack %d: 0x%08x\n", t, i, addr); err != nil {
				return err
			}
		}
	}

	return nil
}

func renderJSON(w io.Writer, rec ReadOnlyRecord) error {
	out := jsonRecord{
		FaultKind:       rec.FaultKind().String(),
		SoftwareVersion: rec.SoftwareVersion(),
		AuxCode:         rec.AuxCode(),
		LineNumber:      rec.LineNumber(),
		FileName:        rec.FileName(),
		ActiveBacktrace: rec.ActiveBacktrace(),
	}
	if rec.FaultKind() == coredump.HardwareException {
		r := rec.Registers()
		out.Registers = &regs{r.R0, r.R1, r.R2, r.R3, r.R12, r.LR, r.PC, r.XPSR}
		f := rec.FaultStatusRegisters()
		out.FaultStatusRegisters = &fsr{f.CFSR, f.HFSR, f.MMFAR, f.BFAR, f.AFSR}
	}
	if tbt := rec.TaskBacktraces(); len(tbt) > 0 {
		out.TaskBacktraces = tbt
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
