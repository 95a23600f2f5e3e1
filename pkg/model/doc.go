// Package model defines the row collection contract that feeds repeaters
// and list views, along with concrete models and composable adapters.
//
// A Model is a random-access sequence of typed rows that announces its
// changes. Readers that want to react to changes register through the
// model's Tracker from inside a reactive evaluation; imperative consumers
// subscribe with Listen and receive structured events.
//
// # The Contract
//
// Every model implements four methods:
//
//	type Temperatures struct{ model.ReadOnly[float64] }
//
//	func (t *Temperatures) RowCount() int                  { ... }
//	func (t *Temperatures) RowData(row int) (float64, bool) { ... }
//	func (t *Temperatures) Tracker() model.Tracker          { ... }
//
// RowData reports absence instead of panicking, so probing past the end is
// cheap and safe. Models that cannot be written to embed ReadOnly, which
// turns SetRowData into a reported no-op.
//
// # Announcing Changes
//
// Mutable models embed a Notifier and call its methods after every
// mutation:
//
//	func (m *Todos) Toggle(g *reactive.Graph, row int) {
//	    m.items[row].Done = !m.items[row].Done
//	    m.notify.RowChanged(g, row)
//	}
//
// The Notifier both dirties the dependency-graph entries registered through
// tracking and forwards the event to listeners, in that order.
//
// # Ready-Made Models
//
// NewSlice wraps a Go slice with Push, Insert, Remove and friends. NewRange
// produces the constant integers 0..n-1, useful as an index source.
//
// # Adapters
//
// Map, Filter, Sort and Reverse wrap any model with a projected view:
//
//	visible := model.Filter(todos, func(t Todo) bool { return !t.Done })
//	titles := model.Map(visible, func(t Todo) string { return t.Title })
//
// Adapters forward writes to the source row where that makes sense and
// translate source events into the coordinates of the view. Filter patches
// its mapping in place when a single row's membership flips; structural
// source changes rebuild the mapping and announce a reset.
package model
