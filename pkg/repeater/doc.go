// Package repeater keeps a set of per-row instances in step with a model.
//
// A repeater is the bridge between the model package's row collections and
// whatever the host materializes rows into: widgets, render nodes, DOM
// fragments. The host supplies a factory; the repeater decides when to call
// it, when to push fresh row data into an existing instance, and when to
// dispose one.
//
// # Update Discipline
//
// Model change events are absorbed the moment they arrive: the entry table
// is spliced for insertions and removals, and instances of removed rows are
// disposed immediately. Everything else is deferred. New instances are
// created and row data is pushed only inside EnsureUpdated, so a burst of
// model mutations costs bookkeeping, not construction.
//
//	rep := repeater.New[Todo, *TodoRow]()
//	rep.SetModel(g, todos)
//
//	layout := reactive.NewTracker()
//	layout.Evaluate(g, func(g *reactive.Graph) {
//	    rep.TrackChanges(g)
//	    rep.EnsureUpdated(g, newTodoRow)
//	})
//
// TrackChanges is the reactive face: it makes the surrounding evaluation
// depend on the model property and on every announced change, so the host
// knows when to come back. EnsureUpdated reads nothing reactively and can
// therefore run inside that same evaluation without dirtying it.
//
// # Windowed Updates
//
// For long lists, EnsureUpdatedWindow materializes only the rows a viewport
// can show. Scrolling moves the window; instances whose row stays inside it
// are kept as they are, and ViewportWindow computes the window from the
// scroll geometry.
//
// # Conditionals
//
// Conditional is the one-row special case, for elements that exist only
// while a condition holds.
package repeater
