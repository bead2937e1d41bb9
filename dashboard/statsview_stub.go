//go:build !statsview
// +build !statsview

package dashboard

import "io"

// Launch is a no-op without the "statsview" build tag; dumpwatch then
// only prints its text summary of Tally.Snapshot when it exits.
func Launch(t *Tally, output io.Writer) {}

// Available reports whether a live dashboard can be launched.
func Available() bool {
	return false
}
