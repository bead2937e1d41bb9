// Command dumpreport pulls one captured record off a target -- from a
// region file left behind by a crashed process, or streamed live over a
// serial link -- and renders it as a human- or machine-readable report.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dlafreniere/coredump/coredump"
	"github.com/dlafreniere/coredump/coredump/export"
	"github.com/dlafreniere/coredump/coredump/platform"
	"github.com/dlafreniere/coredump/coredump/transport"
	"github.com/dlafreniere/coredump/errors"
	"github.com/dlafreniere/coredump/hostconfig"
	"github.com/dlafreniere/coredump/logger"
	"github.com/dlafreniere/coredump/region"
)

func defaultProfile() platform.Profile {
	p := platform.Default()
	p.RAMBegin, p.RAMEnd = 0, 0xFFFFFFFF
	p.CodeBegin, p.CodeEnd = 0, 0xFFFFFFFF
	p.Features = platform.FeatureHardwareRegisters | platform.FeatureMultiTask
	return p
}

func main() {
	logger.SetEcho(logger.NewColorizer(os.Stderr), false)

	cfg, err := hostconfig.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	regionPath := flag.String("region", "", "read a captured record from this region file")
	serial := flag.String("serial", "", "read a captured record from this serial device instead of -region")
	format := flag.String("format", "", `report format, "text" or "json" (default from host config)`)
	reset := flag.Bool("reset", false, "clear the validity keys of the record in the -region file after a successful read (serial reads are not affected)")
	set := flag.String("set", "", `temporary host config overrides for this run only, e.g. "host.serialDevice::/dev/ttyACM0"`)
	flag.Parse()

	cfg.ApplyCommandLine(*set)
	if *format == "" {
		*format = cfg.OutputFormat.String()
	}

	var data []byte
	switch {
	case *regionPath != "":
		data, err = transport.ReadRegionFile(*regionPath)
	case *serial != "":
		data, err = readSerial(*serial)
	default:
		data, err = readSerial(cfg.SerialDevice.String())
	}
	if err != nil {
		logger.Log(logger.Allow, "dumpreport", err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	profile := defaultProfile()
	if len(data) < coredump.Size(profile) {
		err := errors.New(errors.RegionFileTooSmall, fmt.Sprintf("got %d bytes, need %d", len(data), coredump.Size(profile)))
		logger.Log(logger.Allow, "dumpreport", err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	mem := region.Wrap(data)
	rec := coredump.New(profile, mem)

	if !export.IsSaved(rec) {
		fmt.Fprintln(os.Stderr, "dumpreport: no captured record present")
		os.Exit(1)
	}

	var rf export.Format
	switch *format {
	case "json":
		rf = export.JSONFormat
	case "text":
		rf = export.TextFormat
	default:
		err := errors.New(errors.UnknownRenderFormat, *format)
		logger.Log(logger.Allow, "dumpreport", err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := export.Render(os.Stdout, export.Get(rec), rf); err != nil {
		err = errors.New(errors.RenderWriteFailed, err)
		logger.Log(logger.Allow, "dumpreport", err.Error())
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *reset && *regionPath != "" {
		export.Reset(rec)
		if err := os.WriteFile(*regionPath, data, 0644); err != nil {
			logger.Log(logger.Allow, "dumpreport", err.Error())
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		logger.Log(logger.Allow, "dumpreport", "cleared record validity keys after read")
	}
}

func readSerial(path string) ([]byte, error) {
	s, err := transport.OpenSerial(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return transport.ReadFramed(s)
}
