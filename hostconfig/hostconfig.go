// Package hostconfig defines the shared, disk-persisted preference group
// loaded by the dumpreport and dumpwatch host CLI tools, following the
// teacher project's own per-feature
// preferences.go convention.
package hostconfig

import (
	"github.com/dlafreniere/coredump/errors"
	"github.com/dlafreniere/coredump/logger"
	"github.com/dlafreniere/coredump/paths"
	"github.com/dlafreniere/coredump/prefs"
)

// Config holds every setting a host tool might read: which transport to
// use, where to look for region files, and how to format output.
type Config struct {
	dsk *prefs.Disk

	SerialDevice   prefs.String
	RegionFileGlob prefs.String
	DashboardAddr  prefs.String
	OutputFormat   prefs.String
}

// Load reads (or creates the defaults for) the shared host-tool
// configuration file under paths.ResourcePath.
func Load() (*Config, error) {
	c := &Config{}

	pth, err := paths.ResourcePath("", prefs.DefaultPrefsFile)
	if err != nil {
		return nil, errors.New(errors.ConfigLoadFailed, err)
	}

	c.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, errors.New(errors.ConfigLoadFailed, err)
	}

	if err := c.dsk.Add("host.serialDevice", &c.SerialDevice); err != nil {
		return nil, errors.New(errors.ConfigLoadFailed, err)
	}
	if err := c.dsk.Add("host.regionFileGlob", &c.RegionFileGlob); err != nil {
		return nil, errors.New(errors.ConfigLoadFailed, err)
	}
	if err := c.dsk.Add("host.dashboardAddr", &c.DashboardAddr); err != nil {
		return nil, errors.New(errors.ConfigLoadFailed, err)
	}
	if err := c.dsk.Add("host.outputFormat", &c.OutputFormat); err != nil {
		return nil, errors.New(errors.ConfigLoadFailed, err)
	}

	if err := c.SerialDevice.Set("/dev/ttyUSB0"); err != nil {
		return nil, errors.New(errors.ConfigInvalidValue, err)
	}
	if err := c.RegionFileGlob.Set("*.dump"); err != nil {
		return nil, errors.New(errors.ConfigInvalidValue, err)
	}
	if err := c.DashboardAddr.Set(":8901"); err != nil {
		return nil, errors.New(errors.ConfigInvalidValue, err)
	}
	if err := c.OutputFormat.Set("text"); err != nil {
		return nil, errors.New(errors.ConfigInvalidValue, err)
	}

	if err := c.dsk.Load(false); err != nil {
		return nil, errors.New(errors.ConfigLoadFailed, err)
	}

	return c, nil
}

// Save persists c to disk.
func (c *Config) Save() error {
	if err := c.dsk.Save(); err != nil {
		return errors.New(errors.ConfigSaveFailed, err)
	}
	return nil
}

// ApplyCommandLine overrides c's fields for this run only, from a
// "key::value; key2::value2" string -- it never touches the on-disk
// preferences file. It follows the same push/consume/pop convention as
// the teacher project's own comparison-preferences group: any key in
// overrides that none of c's fields recognise is reported once, rather
// than silently ignored.
func (c *Config) ApplyCommandLine(overrides string) {
	prefs.PushCommandLineStack(overrides)

	if ok, v := prefs.GetCommandLinePref("host.serialDevice"); ok {
		c.SerialDevice.Set(v)
	}
	if ok, v := prefs.GetCommandLinePref("host.regionFileGlob"); ok {
		c.RegionFileGlob.Set(v)
	}
	if ok, v := prefs.GetCommandLinePref("host.dashboardAddr"); ok {
		c.DashboardAddr.Set(v)
	}
	if ok, v := prefs.GetCommandLinePref("host.outputFormat"); ok {
		c.OutputFormat.Set(v)
	}

	if leftover := prefs.PopCommandLineStack(); leftover != "" {
		logger.Logf(logger.Allow, "hostconfig", "%s unused for host configuration overrides", leftover)
	}
}
