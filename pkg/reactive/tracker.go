package reactive

// Tracker records the cells read during an evaluation and reports when any
// of them change. It is the integration point for consumers that are not
// cells themselves: repeaters, layout passes, render observers.
//
// A new tracker is dirty, so the first Evaluate always runs.
type Tracker struct {
	node     evalNode
	onDirty  func()
	queued   bool
	disposed bool

	id   uint64
	name string
}

// NewTracker creates a tracker.
func NewTracker() *Tracker {
	t := &Tracker{id: nextID()}
	t.node.sink = t
	t.node.dirty = true
	return t
}

// Named assigns a debug name, reported in graph events, and returns t.
func (t *Tracker) Named(name string) *Tracker {
	t.name = name
	return t
}

// ID returns the tracker's identity.
func (t *Tracker) ID() uint64 {
	return t.id
}

// SetOnDirty installs fn, called when the tracker transitions from clean
// to dirty. Inside a batch the call is deferred and deduplicated; it is
// also deferred until the dirty-propagation pass that caused it unwinds.
func (t *Tracker) SetOnDirty(fn func()) {
	t.onDirty = fn
}

// IsDirty reports whether a tracked cell changed since the last Evaluate.
func (t *Tracker) IsDirty() bool {
	return t.node.dirty
}

// SetDirty forces the tracker dirty, as if a tracked cell had changed.
func (t *Tracker) SetDirty(g *Graph) {
	if t.node.dirty {
		return
	}
	t.node.dirty = true
	g.stats.DirtyMarks++
	t.nodeDirtied(g)
	g.maybeFlush()
}

// Evaluate runs fn, recording every cell read as a dependency. Previous
// dependencies are dropped first: the tracked set is exactly the cells
// read by this evaluation.
func (t *Tracker) Evaluate(g *Graph, fn func(*Graph)) {
	g.releaseDeps(&t.node)
	t.node.dirty = false
	g.pushEvaluator(&t.node)
	fn(g)
	g.popEvaluator()
	g.stats.Evaluations++
	g.emit(Event{Kind: EventEvaluate, Cell: t.id, Name: t.name})
}

// EvaluateIfDirty runs fn only if the tracker is dirty, reporting whether
// it ran.
func (t *Tracker) EvaluateIfDirty(g *Graph, fn func(*Graph)) bool {
	if !t.node.dirty {
		return false
	}
	t.Evaluate(g, fn)
	return true
}

// Dispose releases the tracker's dependency links and disables callbacks.
func (t *Tracker) Dispose(g *Graph) {
	g.releaseDeps(&t.node)
	t.disposed = true
	t.onDirty = nil
	t.node.dirty = false
}

func (t *Tracker) nodeDirtied(g *Graph) {
	if t.disposed || t.onDirty == nil {
		return
	}
	g.queueTracker(t)
}

func (t *Tracker) nodeID() uint64 { return t.id }

func (t *Tracker) nodeName() string { return t.name }

// Track runs fn inside t's evaluation scope and returns its result.
func Track[R any](g *Graph, t *Tracker, fn func(*Graph) R) R {
	var out R
	t.Evaluate(g, func(g *Graph) { out = fn(g) })
	return out
}
