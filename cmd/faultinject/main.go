// Command faultinject exercises the coredump core end to end without any
// real hardware: it builds a synthetic call stack in memory (Call1 calls
// Call2 calls Call3, mirroring the reference project's own smoke test),
// injects either a software assertion or a hardware exception at the
// bottom of that stack, captures it, and then renders the result the way
// a host tool would after pulling the record off a rebooted target.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dlafreniere/coredump/coredump"
	"github.com/dlafreniere/coredump/coredump/capture"
	"github.com/dlafreniere/coredump/coredump/export"
	"github.com/dlafreniere/coredump/coredump/platform"
	"github.com/dlafreniere/coredump/coredump/stackwalk"
	"github.com/dlafreniere/coredump/coredump/tasks"
	"github.com/dlafreniere/coredump/errors"
	"github.com/dlafreniere/coredump/logger"
	"github.com/dlafreniere/coredump/region"
	"github.com/dlafreniere/coredump/version"
)

// Fake address-space layout for the injected fault. These don't need to
// mean anything to the host running this binary; they only need to sit
// inside the ranges the synthetic Profile below declares as RAM and code.
const (
	ramBase  = 0x20000000
	ramSize  = 0x1000
	codeBase = 0x08000000
	codeSize = 0x00010000

	call1Return = codeBase + 0x100
	call2Return = codeBase + 0x200
	call3Return = codeBase + 0x300
)

func syntheticProfile() platform.Profile {
	p := platform.Default()
	p.RAMBegin, p.RAMEnd = ramBase, ramBase+ramSize-1
	p.CodeBegin, p.CodeEnd = codeBase, codeBase+codeSize-1
	p.OSTaskCount = 3
	p.Features = platform.FeatureHardwareRegisters | platform.FeatureMultiTask
	p.SoftwareVersion = version.Tag()
	return p
}

// buildScanStack lays out the frames Strategy A expects: local-variable
// filler words (the reference project's stackArrN patterns) interleaved
// with return addresses that fall inside the code range, terminated by a
// double stack marker. sp is where the walk should start.
func buildScanStack() (mem stackwalk.BufferMemory, sp uint32) {
	mem = stackwalk.BufferMemory{Base: ramBase, Buf: make([]byte, ramSize)}
	sp = ramBase + 0x100

	addr := sp
	plant := func(word uint32) {
		mem.WriteWord(addr, word)
		addr += 4
	}

	plant(0x33333333) // Call3's stackArr3
	plant(0x33333333)
	plant(0x33333333)
	plant(call3Return)
	plant(0x22222222) // Call2's stackArr2
	plant(0x22222222)
	plant(call2Return)
	plant(0x11111111) // Call1's stackArr1
	plant(0x11111111)
	plant(call1Return)
	plant(platform.StackMarker)
	plant(platform.StackMarker)

	return mem, sp
}

// buildFramePointerStack lays out a three-frame linked list, one (saved
// fp, return address) pair per frame, for Strategy B.
func buildFramePointerStack() (mem stackwalk.BufferMemory, fp uint32) {
	mem = stackwalk.BufferMemory{Base: ramBase, Buf: make([]byte, ramSize)}

	frame3 := uint32(ramBase + 0x100)
	frame2 := uint32(ramBase + 0x120)
	frame1 := uint32(ramBase + 0x140)
	base := uint32(ramBase + 0x160)

	mem.WriteWord(frame3, frame2)
	mem.WriteWord(frame3+4, call3Return)
	mem.WriteWord(frame2, frame1)
	mem.WriteWord(frame2+4, call2Return)
	mem.WriteWord(frame1, base)
	mem.WriteWord(frame1+4, call1Return)
	mem.WriteWord(base, platform.StackMarker)
	mem.WriteWord(base+4, platform.StackMarker)

	return mem, frame3
}

// syntheticTaskTable stands in for a target's OS scheduler task list, for
// demonstrating tasks.CaptureTasks. The third slot is present but
// inactive, exercising the "never scheduled" skip.
type syntheticTaskTable struct {
	sp [2]uint32
}

func (t syntheticTaskTable) Count() int { return 3 }

func (t syntheticTaskTable) Task(n int) tasks.Task {
	switch n {
	case 0:
		return tasks.Task{Active: true, StackPointer: t.sp[0]}
	case 1:
		return tasks.Task{Active: true, StackPointer: t.sp[1]}
	default:
		return tasks.Task{Active: false}
	}
}

func main() {
	logger.SetEcho(logger.NewColorizer(os.Stderr), false)

	kind := flag.String("kind", "assertion", `fault to inject, "assertion" or "hardware"`)
	strategyName := flag.String("strategy", "scan", `stack-walk strategy, "scan", "framepointer" or "host"`)
	withTasks := flag.Bool("tasks", true, "also capture a per-task backtrace sweep")
	flag.Parse()

	if *kind != "assertion" && *kind != "hardware" {
		err := errors.New(errors.InjectUnsupportedKind, *kind)
		logger.Log(logger.Allow, "faultinject", err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	var strategy stackwalk.Strategy
	var mem stackwalk.Memory
	var sp uint32

	switch *strategyName {
	case "framepointer":
		strategy = stackwalk.FramePointerStrategy
		fpMem, fp := buildFramePointerStack()
		mem, sp = fpMem, fp
	case "host":
		strategy = stackwalk.HostStrategy
		mem, sp = stackwalk.BufferMemory{}, 0
	default:
		strategy = stackwalk.ScanStrategy
		scanMem, scanSP := buildScanStack()
		mem, sp = scanMem, scanSP
	}

	profile := syntheticProfile()
	walker := stackwalk.NewWalker(profile, strategy)

	rec := coredump.New(profile, region.New(4096))

	capturer := &capture.Capturer{
		Profile: profile,
		Walker:  walker,
		Memory:  mem,
		Record:  rec,
		CurrentStackPointer: func() uint32 {
			return sp
		},
		FaultStatusRegisters: func() coredump.FaultStatusRegisters {
			return coredump.FaultStatusRegisters{CFSR: 0x00008200}
		},
	}

	var stackPointer uint32
	if *kind == "hardware" {
		stackPointer = sp
	}
	capturer.Capture(stackPointer, "faultinject.go", 87, 0)
	logger.Logf(logger.Allow, "faultinject", "injected %s fault via %s strategy", *kind, *strategyName)

	if *withTasks {
		table := syntheticTaskTable{sp: [2]uint32{sp, sp}}
		tasks.CaptureTasks(profile, walker, mem, table, rec)
	}

	// Mirror the reference project's own reboot check: a real target would
	// run this same sequence at the top of main() after a reset.
	if !export.IsSaved(rec) {
		fmt.Fprintln(os.Stderr, "faultinject: capture did not mark the record valid")
		os.Exit(1)
	}

	fmt.Println("-- simulated post-reboot report --")
	if err := export.Render(os.Stdout, export.Get(rec), export.TextFormat); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	export.Reset(rec)
	logger.Log(logger.Allow, "faultinject", "record reset for next fault cycle")
}
