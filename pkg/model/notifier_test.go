package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loom-ui/loom/pkg/model"
	"github.com/loom-ui/loom/pkg/reactive"
)

// trackCount returns a tracker that depends on m's row count.
func trackCount[T any](g *reactive.Graph, m model.Model[T]) *reactive.Tracker {
	tr := reactive.NewTracker()
	tr.Evaluate(g, func(g *reactive.Graph) {
		m.Tracker().TrackRowCountChanges(g)
	})
	return tr
}

// trackRow returns a tracker that depends on one row of m.
func trackRow[T any](g *reactive.Graph, m model.Model[T], row int) *reactive.Tracker {
	tr := reactive.NewTracker()
	tr.Evaluate(g, func(g *reactive.Graph) {
		m.Tracker().TrackRowDataChanges(g, row)
	})
	return tr
}

// TestRowCountTrackingDirtiedByStructure verifies which events reach a row
// count dependency: additions, removals and resets do, data changes do not.
func TestRowCountTrackingDirtiedByStructure(t *testing.T) {
	g := reactive.NewGraph()
	m := model.NewSlice(1, 2, 3)

	tr := trackCount[int](g, m)
	m.SetRowData(g, 1, 20)
	require.False(t, tr.IsDirty(), "a data change must not dirty count dependents")

	m.Push(g, 4)
	require.True(t, tr.IsDirty())

	tr = trackCount[int](g, m)
	m.Remove(g, 0)
	require.True(t, tr.IsDirty())

	tr = trackCount[int](g, m)
	m.Clear(g)
	require.True(t, tr.IsDirty())
}

// TestRowDataTrackingDirtiedByRow verifies that a row dependency reacts to
// that row, to structural shifts at or below it, and to resets, but not to
// changes confined to other rows.
func TestRowDataTrackingDirtiedByRow(t *testing.T) {
	g := reactive.NewGraph()
	m := model.NewSlice("a", "b", "c", "d")

	tr := trackRow[string](g, m, 2)
	m.SetRowData(g, 0, "A")
	require.False(t, tr.IsDirty(), "another row's change must not dirty row 2")
	m.SetRowData(g, 3, "D")
	require.False(t, tr.IsDirty())

	m.SetRowData(g, 2, "C")
	require.True(t, tr.IsDirty(), "row 2's own change must dirty it")

	// An insertion above the row shifts the data under it.
	tr = trackRow[string](g, m, 2)
	m.Insert(g, 1, "x")
	require.True(t, tr.IsDirty())

	// An insertion below leaves it untouched.
	tr = trackRow[string](g, m, 2)
	m.Insert(g, 4, "y")
	require.False(t, tr.IsDirty())

	tr = trackRow[string](g, m, 2)
	m.Remove(g, 0)
	require.True(t, tr.IsDirty())

	tr = trackRow[string](g, m, 2)
	m.SetRows(g, []string{"p", "q", "r"})
	require.True(t, tr.IsDirty(), "a reset must dirty every row dependency")
}

// TestListenerOrderAndRemoval verifies that listeners fire in registration
// order and that removal works mid-stream.
func TestListenerOrderAndRemoval(t *testing.T) {
	g := reactive.NewGraph()
	m := model.NewSlice(1)

	var order []string
	removeA := m.Tracker().Listen(func(g *reactive.Graph, e model.Event) {
		order = append(order, "a")
	})
	m.Tracker().Listen(func(g *reactive.Graph, e model.Event) {
		order = append(order, "b")
	})

	m.Push(g, 2)
	require.Equal(t, []string{"a", "b"}, order)

	removeA()
	m.Push(g, 3)
	require.Equal(t, []string{"a", "b", "b"}, order)

	// Removing twice is harmless.
	removeA()
	m.Push(g, 4)
	require.Equal(t, []string{"a", "b", "b", "b"}, order)
}

// TestListenerSeesFreshState verifies the ordering guarantee: when an event
// is delivered, the model already reflects the mutation.
func TestListenerSeesFreshState(t *testing.T) {
	g := reactive.NewGraph()
	m := model.NewSlice(1, 2)

	var countAtEvent int
	m.Tracker().Listen(func(g *reactive.Graph, e model.Event) {
		countAtEvent = m.RowCount()
	})

	m.Push(g, 3)
	require.Equal(t, 3, countAtEvent)

	m.Remove(g, 0)
	require.Equal(t, 2, countAtEvent)
}

// TestTrackedHelpers verifies the read-and-track convenience functions.
func TestTrackedHelpers(t *testing.T) {
	g := reactive.NewGraph()
	m := model.NewSlice(10, 20, 30)

	var count int
	countTracker := reactive.NewTracker()
	countTracker.Evaluate(g, func(g *reactive.Graph) {
		count = model.RowCountTracked[int](g, m)
	})
	require.Equal(t, 3, count)

	var v int
	rowTracker := reactive.NewTracker()
	rowTracker.Evaluate(g, func(g *reactive.Graph) {
		v, _ = model.RowDataTracked[int](g, m, 1)
	})
	require.Equal(t, 20, v)

	m.SetRowData(g, 1, 21)
	require.False(t, countTracker.IsDirty())
	require.True(t, rowTracker.IsDirty())

	m.Push(g, 40)
	require.True(t, countTracker.IsDirty())
}

// TestNotifierZeroValue verifies that an empty notifier delivers nothing
// and tolerates events with no subscribers.
func TestNotifierZeroValue(t *testing.T) {
	g := reactive.NewGraph()
	var n model.Notifier
	n.RowChanged(g, 0)
	n.RowsAdded(g, 0, 2)
	n.RowsRemoved(g, 0, 1)
	n.Reset(g)
}
