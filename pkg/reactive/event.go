package reactive

// DebugMode enables graph-affinity checks throughout the package. Set at
// startup; not synchronized.
var DebugMode bool

// EventKind classifies a graph event.
type EventKind uint8

const (
	// EventSet reports a value stored into a cell.
	EventSet EventKind = iota + 1

	// EventEvaluate reports a completed binding or tracker evaluation.
	EventEvaluate

	// EventDirty reports an evaluator's clean-to-dirty transition.
	EventDirty
)

// String returns the kind's name.
func (k EventKind) String() string {
	switch k {
	case EventSet:
		return "set"
	case EventEvaluate:
		return "evaluate"
	case EventDirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// Event describes one observable graph operation, for devtools.
type Event struct {
	Kind EventKind

	// Cell is the identity of the cell or tracker involved.
	Cell uint64

	// Name is the debug name, if one was assigned.
	Name string
}

// SetEventSink installs fn to receive graph events; nil disables emission.
// Events are delivered synchronously on the reactive goroutine, so sinks
// must be cheap and must not call back into the graph.
func (g *Graph) SetEventSink(fn func(Event)) {
	g.sink = fn
}

func (g *Graph) emit(e Event) {
	if g.sink != nil {
		g.sink(e)
	}
}
