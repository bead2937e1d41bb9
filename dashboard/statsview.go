//go:build statsview
// +build statsview

package dashboard

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
)

// Address is where the runtime-stats dashboard listens when Launch is
// called from a statsview build.
const Address = "localhost:12601"

const statsURL = "/debug/statsview"
const tallyURL = "/dumpwatch/tally"

// Launch starts the statsview runtime dashboard and registers t's own
// tally endpoint on the same server. statsview serves through
// http.DefaultServeMux, so the tally handler must be registered there
// before mgr.Start() binds the listener.
func Launch(t *Tally, output io.Writer) {
	http.Handle(tallyURL, t.Handler())

	go func() {
		viewer.SetConfiguration(viewer.WithAddr(Address))
		mgr := statsview.New()
		mgr.Start()
	}()

	fmt.Fprintf(output, "dumpwatch dashboard available at %s%s and %s%s\n", Address, statsURL, Address, tallyURL)
}

// Available reports whether a live dashboard can be launched.
func Available() bool {
	return true
}
