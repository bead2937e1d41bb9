// Command dumpwatch polls a directory of region files left behind by
// crashed targets, tallies what it finds by fault kind and source file,
// and optionally serves that tally live through the dashboard package.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/dlafreniere/coredump/coredump"
	"github.com/dlafreniere/coredump/coredump/export"
	"github.com/dlafreniere/coredump/coredump/platform"
	"github.com/dlafreniere/coredump/coredump/transport"
	"github.com/dlafreniere/coredump/dashboard"
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

	dir := flag.String("dir", ".", "directory to scan for region files")
	glob := flag.String("glob", "", "glob pattern matched against region files in -dir (default from host config)")
	interval := flag.Duration("interval", 5*time.Second, "how often to rescan -dir")
	resetAfter := flag.Bool("reset", true, "clear a record's validity keys once tallied, so a reused region file isn't counted twice")
	noDashboard := flag.Bool("no-dashboard", false, "don't launch the live dashboard even if this build supports one")
	set := flag.String("set", "", `temporary host config overrides for this run only, e.g. "host.regionFileGlob::*.core"`)
	flag.Parse()

	cfg.ApplyCommandLine(*set)
	if *glob == "" {
		*glob = cfg.RegionFileGlob.String()
	}

	tally := dashboard.New()
	if !*noDashboard && dashboard.Available() {
		dashboard.Launch(tally, os.Stdout)
	}

	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	seen := make(map[string]struct{})

	scan(*dir, *glob, seen, tally, *resetAfter)

	done := false
	for !done {
		select {
		case <-intChan:
			done = true
		case <-ticker.C:
			scan(*dir, *glob, seen, tally, *resetAfter)
		}
	}

	s := tally.Snapshot()
	fmt.Printf("dumpwatch: %d capture(s) tallied across %d file(s)\n", s.Total, len(s.ByFile))
}

// scan globs dir for files matching pattern, tallying each one not
// already in seen. A file is added to seen whether or not it held a
// valid record, so a stale or malformed file is only logged once.
func scan(dir, pattern string, seen map[string]struct{}, tally *dashboard.Tally, resetAfter bool) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		logger.Log(logger.Allow, "dumpwatch", errors.New(errors.WatchDirUnreadable, err).Error())
		return
	}

	for _, path := range matches {
		if _, ok := seen[path]; ok {
			continue
		}
		seen[path] = struct{}{}
		observe(path, tally, resetAfter)
	}
}

func observe(path string, tally *dashboard.Tally, resetAfter bool) {
	data, err := transport.ReadRegionFile(path)
	if err != nil {
		logger.Log(logger.Allow, "dumpwatch", err.Error())
		return
	}

	profile := defaultProfile()
	if len(data) < coredump.Size(profile) {
		logger.Log(logger.Allow, "dumpwatch", errors.New(errors.RegionFileTooSmall, fmt.Sprintf("%s: got %d bytes, need %d", path, len(data), coredump.Size(profile))).Error())
		return
	}

	mem := region.Wrap(data)
	rec := coredump.New(profile, mem)

	if !export.IsSaved(rec) {
		return
	}

	tally.Record(rec.FaultKind().String(), rec.FileName())
	logger.Logf(logger.Allow, "dumpwatch", "%s: %s at %s:%d", path, rec.FaultKind(), rec.FileName(), rec.LineNumber())

	if resetAfter {
		export.Reset(rec)
		if err := writeBack(path, mem); err != nil {
			logger.Log(logger.Allow, "dumpwatch", errors.New(errors.TransportOpenFailed, err).Error())
		}
	}
}

// writeBack persists mem's current contents to path, so that clearing a
// record's validity keys in memory is reflected on disk and the next
// scan doesn't re-tally the same capture.
func writeBack(path string, mem region.Region) error {
	buf, ok := mem.ReadBytes(0, mem.Size())
	if !ok {
		return fmt.Errorf("dumpwatch: could not read back region of size %d", mem.Size())
	}
	return os.WriteFile(path, buf, 0644)
}
