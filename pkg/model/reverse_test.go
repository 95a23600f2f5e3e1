package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loom-ui/loom/pkg/model"
	"github.com/loom-ui/loom/pkg/modeltest"
	"github.com/loom-ui/loom/pkg/reactive"
)

// TestReverseOrder verifies the mirrored view.
func TestReverseOrder(t *testing.T) {
	src := model.NewSlice("a", "b", "c")
	rev := model.Reverse[string](src)

	require.Equal(t, 3, rev.RowCount())
	modeltest.ExpectRows[string](t, rev, []string{"c", "b", "a"})

	_, ok := rev.RowData(3)
	require.False(t, ok)
}

// TestReverseEventMirroring verifies that source events arrive with view
// coordinates: the mirrored position computed from the post-change count.
func TestReverseEventMirroring(t *testing.T) {
	g := reactive.NewGraph()
	src := model.NewSlice("a", "b", "c", "d", "e")
	rev := model.Reverse[string](src)
	log := modeltest.Listen[string](rev)

	// Source row 0 is view row 4.
	src.SetRowData(g, 0, "A")
	modeltest.ExpectEvents(t, log, modeltest.Changed(4))

	// Removing source rows 1..2 removes view rows 2..3.
	src.RemoveRange(g, 1, 2)
	modeltest.ExpectEvents(t, log, modeltest.Removed(2, 2))
	modeltest.ExpectRows[string](t, rev, []string{"e", "d", "A"})

	// Inserting at source row 1 lands before view row 2's old content.
	src.Insert(g, 1, "b2", "c2")
	modeltest.ExpectEvents(t, log, modeltest.Added(2, 2))
	modeltest.ExpectRows[string](t, rev, []string{"e", "d", "c2", "b2", "A"})

	src.Clear(g)
	modeltest.ExpectEvents(t, log, modeltest.Reset())
}

// TestReverseWriteThrough verifies that writes land on the mirrored source
// row.
func TestReverseWriteThrough(t *testing.T) {
	g := reactive.NewGraph()
	src := model.NewSlice(1, 2, 3)
	rev := model.Reverse[int](src)

	rev.SetRowData(g, 0, 30)
	modeltest.ExpectRows(t, src, []int{1, 2, 30})

	rev.SetRowData(g, 5, 99)
	modeltest.ExpectRows(t, src, []int{1, 2, 30})
}

// TestReverseOfReverse verifies that stacking two reversals restores source
// order, events included.
func TestReverseOfReverse(t *testing.T) {
	g := reactive.NewGraph()
	src := model.NewSlice(1, 2, 3)
	twice := model.Reverse[int](model.Reverse[int](src))
	log := modeltest.Listen[int](twice)

	modeltest.ExpectRows(t, twice, []int{1, 2, 3})

	src.Push(g, 4)
	modeltest.ExpectEvents(t, log, modeltest.Added(3, 1))
	modeltest.ExpectRows(t, twice, []int{1, 2, 3, 4})

	src.Remove(g, 0)
	modeltest.ExpectEvents(t, log, modeltest.Removed(0, 1))
	modeltest.ExpectRows(t, twice, []int{2, 3, 4})
}

// TestReverseDetach verifies that a detached reversal stops forwarding
// events but still mirrors current content.
func TestReverseDetach(t *testing.T) {
	g := reactive.NewGraph()
	src := model.NewSlice(1, 2)
	rev := model.Reverse[int](src)
	log := modeltest.Listen[int](rev)

	rev.Detach()
	src.Push(g, 3)
	modeltest.ExpectEvents(t, log)

	// The view itself has no state; it reflects the source regardless.
	modeltest.ExpectRows(t, rev, []int{3, 2, 1})
}
