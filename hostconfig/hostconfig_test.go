package hostconfig_test

import (
	"testing"

	"github.com/dlafreniere/coredump/hostconfig"
	"github.com/dlafreniere/coredump/test"
)

func TestApplyCommandLineOverridesRecognisedKeys(t *testing.T) {
	cfg, err := hostconfig.Load()
	test.ExpectSuccess(t, err)

	cfg.ApplyCommandLine("host.serialDevice::/dev/ttyACM7; host.outputFormat::json")

	test.ExpectEquality(t, cfg.SerialDevice.String(), "/dev/ttyACM7")
	test.ExpectEquality(t, cfg.OutputFormat.String(), "json")
}

func TestApplyCommandLineLeavesUnknownKeysUnconsumed(t *testing.T) {
	cfg, err := hostconfig.Load()
	test.ExpectSuccess(t, err)

	before := cfg.RegionFileGlob.String()

	// "host.bogus" isn't one of Config's fields; ApplyCommandLine must not
	// panic or otherwise choke on it, and must leave recognised fields
	// untouched.
	cfg.ApplyCommandLine("host.bogus::whatever")

	test.ExpectEquality(t, cfg.RegionFileGlob.String(), before)
}

func TestApplyCommandLineWithEmptyOverridesIsNoOp(t *testing.T) {
	cfg, err := hostconfig.Load()
	test.ExpectSuccess(t, err)

	before := cfg.SerialDevice.String()
	cfg.ApplyCommandLine("")
	test.ExpectEquality(t, cfg.SerialDevice.String(), before)
}
