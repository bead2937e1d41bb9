package errors

var messages = map[Errno]string{
	ConfigLoadFailed:   "could not load configuration (%s)",
	ConfigSaveFailed:   "could not save configuration (%s)",
	ConfigInvalidValue: "invalid configuration value for %s (%v)",

	TransportOpenFailed:   "could not open transport (%s)",
	TransportReadFailed:   "error reading from transport (%s)",
	TransportFramingError: "malformed frame received from transport (%s)",
	SerialPortUnavailable: "serial port unavailable (%s)",

	RegionFileTooSmall:    "region file too small for the configured profile (%s)",
	RegionMmapUnsupported: "memory-mapped regions are not supported on this platform",

	RenderWriteFailed:   "error writing report (%s)",
	UnknownRenderFormat: "unknown report format (%v)",

	WatchDirUnreadable: "cannot read watch directory (%s)",

	InjectUnsupportedKind: "unsupported fault kind for injection (%s)",
}
