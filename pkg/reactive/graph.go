package reactive

import "time"

// Graph owns one reactive universe: the dependency-link arena, the
// evaluator stack, batch state, the animation clock and activity counters.
// It is the evaluation context threaded explicitly through every read and
// write, so there is no ambient tracking state and independent graphs can
// coexist in one process. A cell stays with the graph it is first used on.
//
// A Graph is confined to a single goroutine; see the package documentation.
type Graph struct {
	id uint32

	// links is the dependency arena. Slot 0 is the noLink sentinel.
	links    []link
	freeHead linkID

	// active is the evaluator stack. A nil entry suspends tracking.
	active []*evalNode

	// marking is the depth of the current dirty-propagation pass.
	marking    int
	batchDepth int
	pending    []*Tracker

	clock      *Cell[time.Time]
	now        time.Time
	animations map[uint64]time.Time

	stats Stats
	sink  func(Event)
}

// Stats is a snapshot of graph activity, taken with Graph.Stats.
type Stats struct {
	// Evaluations counts completed binding and tracker evaluations.
	Evaluations uint64

	// DirtyMarks counts clean-to-dirty transitions. Marking an evaluator
	// that is already dirty does not count: propagation stops there.
	DirtyMarks uint64

	// LinksCreated and LinksReleased count dependency-link churn.
	LinksCreated  uint64
	LinksReleased uint64

	// LiveLinks is the number of links currently held in the arena.
	LiveLinks uint64

	// ActiveAnimations is the number of running animations.
	ActiveAnimations int
}

// NewGraph creates an empty graph. The animation clock starts at the
// current wall time.
func NewGraph() *Graph {
	now := time.Now()
	g := &Graph{
		id:         nextGraphID(),
		links:      make([]link, 1),
		now:        now,
		animations: make(map[uint64]time.Time),
	}
	g.clock = NewCell(now).
		WithEquals(func(a, b time.Time) bool { return a.Equal(b) }).
		Named("clock")
	return g
}

// Stats returns the current activity counters.
func (g *Graph) Stats() Stats {
	s := g.stats
	s.ActiveAnimations = len(g.animations)
	return s
}

// Untracked runs fn with dependency tracking suspended: reads inside fn do
// not subscribe the active evaluator. For a single cell read, Peek is
// cheaper and clearer.
func (g *Graph) Untracked(fn func()) {
	g.active = append(g.active, nil)
	fn()
	g.active = g.active[:len(g.active)-1]
}

func (g *Graph) pushEvaluator(n *evalNode) {
	g.active = append(g.active, n)
}

func (g *Graph) popEvaluator() {
	g.active = g.active[:len(g.active)-1]
}

func (g *Graph) currentEvaluator() *evalNode {
	if len(g.active) == 0 {
		return nil
	}
	return g.active[len(g.active)-1]
}
