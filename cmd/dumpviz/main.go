// Command dumpviz renders the in-memory shape of a captured coredump
// record as a Graphviz graph, for engineers inspecting the record layout
// during bring-up on a new target.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/dlafreniere/coredump/coredump"
	"github.com/dlafreniere/coredump/coredump/platform"
	"github.com/dlafreniere/coredump/coredump/transport"
	"github.com/dlafreniere/coredump/errors"
	"github.com/dlafreniere/coredump/logger"
	"github.com/dlafreniere/coredump/region"
)

// visualRecord mirrors the fields of coredump.Record's public view in an
// exported, reflectable shape -- memviz walks struct fields via
// reflection and coredump.Record deliberately keeps its own fields
// unexported, so dumpviz builds this snapshot instead of pointing memviz
// at the record directly.
type visualRecord struct {
	FaultKind       string
	SoftwareVersion uint32
	AuxCode         uint32
	LineNumber      uint32
	FileName        string
	Registers       coredump.Registers
	ActiveBacktrace []uint32
	TaskBacktraces  [][]uint32
}

func main() {
	logger.SetEcho(logger.NewColorizer(os.Stderr), false)

	regionPath := flag.String("region", "", "path to a region file to visualize")
	out := flag.String("out", "record.dot", "output .dot file")
	flag.Parse()

	if *regionPath == "" {
		logger.Log(logger.Allow, "dumpviz", "no -region given, visualizing an empty record")
	}

	p := platform.Default()
	p.RAMBegin, p.RAMEnd = 0, 0xFFFFFFFF
	p.CodeBegin, p.CodeEnd = 0, 0xFFFFFFFF
	p.Features |= platform.FeatureHardwareRegisters

	var mem region.Region
	if *regionPath != "" {
		data, err := transport.ReadRegionFile(*regionPath)
		if err != nil {
			logger.Log(logger.Allow, "dumpviz", errors.New(errors.TransportOpenFailed, err).Error())
			os.Exit(1)
		}
		if len(data) < coredump.Size(p) {
			err := errors.New(errors.RegionFileTooSmall, fmt.Sprintf("%s: got %d bytes, need %d", *regionPath, len(data), coredump.Size(p)))
			logger.Log(logger.Allow, "dumpviz", err.Error())
			os.Exit(1)
		}
		mem = region.Wrap(data)
	} else {
		mem = region.New(4096)
	}

	rec := coredump.New(p, mem)

	v := visualRecord{
		FaultKind:       rec.FaultKind().String(),
		SoftwareVersion: rec.SoftwareVersion(),
		AuxCode:         rec.AuxCode(),
		LineNumber:      rec.LineNumber(),
		FileName:        rec.FileName(),
		Registers:       rec.Registers(),
		ActiveBacktrace: rec.ActiveBacktrace(),
		TaskBacktraces:  rec.TaskBacktraces(),
	}

	f, err := os.Create(*out)
	if err != nil {
		logger.Log(logger.Allow, "dumpviz", errors.New(errors.TransportOpenFailed, err).Error())
		os.Exit(1)
	}
	defer f.Close()

	memviz.Map(f, &v)
	logger.Logf(logger.Allow, "dumpviz", "wrote graph to %s", *out)
}
