package paths

import (
	"fmt"
	"strings"
	"time"
)

// UniqueFilename creates a filename that (assuming a functioning clock)
// should not collide with any existing file. It does not check for that
// itself.
//
// Format of returned string is:
//
//	prepend_deviceID_YYYYMMDD_HHMMSS
//
// If deviceID is empty the returned string is:
//
//	prepend_YYYYMMDD_HHMMSS
func UniqueFilename(prepend string, deviceID string) string {
	n := time.Now()
	timestamp := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d", n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second())

	d := strings.TrimSpace(deviceID)
	if len(d) > 0 {
		return fmt.Sprintf("%s_%s_%s", prepend, d, timestamp)
	}
	return fmt.Sprintf("%s_%s", prepend, timestamp)
}
