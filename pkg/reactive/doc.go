// Package reactive provides the dependency graph at the core of Loom.
//
// Values live in cells; derived values are bindings installed on cells.
// Dependencies are discovered at runtime: reading a cell during an
// evaluation subscribes the evaluator to that cell, and the subscription
// set is rebuilt on every run, so conditional reads track exactly what the
// last evaluation touched. Writes mark dependents dirty without
// recomputing them; recomputation happens lazily at the next read.
//
// # Core Types
//
// Graph is the evaluation context, passed explicitly to every operation:
//
//	g := reactive.NewGraph()
//	width := reactive.NewCell(120.0)
//	height := reactive.NewCell(80.0)
//
//	area := reactive.NewCell(0.0)
//	area.SetBinding(g, func(g *reactive.Graph) float64 {
//	    return width.Get(g) * height.Get(g)
//	})
//	_ = area.Get(g)   // evaluates now, tracks width and height
//	width.Set(g, 90)  // marks area dirty; nothing recomputes yet
//
// Tracker observes an evaluation without owning a value; render and layout
// passes use it to find out when they must run again:
//
//	t := reactive.NewTracker()
//	visible := reactive.Track(g, t, func(g *reactive.Graph) bool {
//	    return opacity.Get(g) > 0
//	})
//	// later: t.IsDirty() reports whether opacity changed
//
// # Batching
//
// Dirty flags always propagate immediately. Batch defers only the tracker
// wake callbacks, so several writes produce one notification:
//
//	g.Batch(func() {
//	    first.Set(g, "Ada")
//	    last.Set(g, "Lovelace")
//	})
//
// # Animations
//
// Animate installs a clock-driven binding; the host advances the clock
// once per frame with g.AdvanceAnimations(now) and keeps scheduling frames
// while g.HasActiveAnimations() reports true.
//
// # Thread Safety
//
// A Graph and everything linked into it is confined to one goroutine.
// The engine takes no locks; mutations originating on other goroutines
// must be marshaled onto the reactive goroutine by the host's event loop
// before touching the graph.
package reactive
