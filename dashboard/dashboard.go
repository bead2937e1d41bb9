// Package dashboard is dumpwatch's fleet-monitoring surface: an
// in-memory tally of captures by fault kind and source file, optionally
// exposed live through a go-echarts/statsview dashboard when the
// "statsview" build tag is present, following the same optional-feature
// convention the teacher project uses for its own runtime-stats viewer.
package dashboard

import (
	"encoding/json"
	"net/http"
	"sync"
)

// Tally counts captures seen by dumpwatch, grouped by fault kind and by
// the file name recorded in the capture.
type Tally struct {
	mu     sync.Mutex
	byKind map[string]int
	byFile map[string]int
	total  int
}

// New creates an empty Tally.
func New() *Tally {
	return &Tally{
		byKind: make(map[string]int),
		byFile: make(map[string]int),
	}
}

// Record adds one observed capture to the tally.
func (t *Tally) Record(faultKind, fileName string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.total++
	t.byKind[faultKind]++
	if fileName != "" {
		t.byFile[fileName]++
	}
}

// Snapshot is a point-in-time, JSON-serializable copy of the tally.
type Snapshot struct {
	Total  int            `json:"total"`
	ByKind map[string]int `json:"by_kind"`
	ByFile map[string]int `json:"by_file"`
}

// Snapshot returns a copy of the tally's current counts.
func (t *Tally) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Snapshot{
		Total:  t.total,
		ByKind: make(map[string]int, len(t.byKind)),
		ByFile: make(map[string]int, len(t.byFile)),
	}
	for k, v := range t.byKind {
		s.ByKind[k] = v
	}
	for k, v := range t.byFile {
		s.ByFile[k] = v
	}
	return s
}

// Handler serves t's current snapshot as JSON, for dumpwatch's own
// "/dumpwatch/tally" endpoint alongside whatever statsview registers at
// "/debug/statsview" when built with that tag.
func (t *Tally) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(t.Snapshot())
	})
}
