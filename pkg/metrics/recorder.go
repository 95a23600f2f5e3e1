package metrics

import (
	"sync"

	"github.com/loom-ui/loom/pkg/reactive"
	"github.com/loom-ui/loom/pkg/repeater"
)

// Recorder is the hand-off point between the reactive goroutine and metric
// scrapes. The reactive side publishes snapshots at moments it chooses,
// typically once per frame; the collector reads the latest snapshot under
// the lock. Nothing here touches the graph, so scrapes never block the
// engine.
type Recorder struct {
	mu        sync.Mutex
	graph     reactive.Stats
	hasGraph  bool
	repeaters map[string]repeater.Stats
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{repeaters: make(map[string]repeater.Stats)}
}

// RecordGraph publishes a graph snapshot. Call from the reactive goroutine.
func (r *Recorder) RecordGraph(s reactive.Stats) {
	r.mu.Lock()
	r.graph = s
	r.hasGraph = true
	r.mu.Unlock()
}

// RecordRepeater publishes a repeater snapshot under a stable name. Call
// from the reactive goroutine.
func (r *Recorder) RecordRepeater(name string, s repeater.Stats) {
	r.mu.Lock()
	r.repeaters[name] = s
	r.mu.Unlock()
}

// RemoveRepeater drops a repeater's snapshot, for repeaters that were
// disposed. Its series disappear from the next scrape.
func (r *Recorder) RemoveRepeater(name string) {
	r.mu.Lock()
	delete(r.repeaters, name)
	r.mu.Unlock()
}

// GraphStats returns the latest graph snapshot and whether one was ever
// recorded.
func (r *Recorder) GraphStats() (reactive.Stats, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.graph, r.hasGraph
}

// RepeaterStats returns a copy of the latest repeater snapshots.
func (r *Recorder) RepeaterStats() map[string]repeater.Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]repeater.Stats, len(r.repeaters))
	for name, s := range r.repeaters {
		out[name] = s
	}
	return out
}
