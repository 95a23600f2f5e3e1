package model_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/loom-ui/loom/pkg/diag"
	"github.com/loom-ui/loom/pkg/model"
	"github.com/loom-ui/loom/pkg/modeltest"
	"github.com/loom-ui/loom/pkg/reactive"
)

// TestMapProjects verifies the projection and the out-of-range contract.
func TestMapProjects(t *testing.T) {
	src := model.NewSlice(1, 2, 3)
	labels := model.Map[int, string](src, strconv.Itoa)

	require.Equal(t, 3, labels.RowCount())
	modeltest.ExpectRows[string](t, labels, []string{"1", "2", "3"})

	_, ok := labels.RowData(3)
	require.False(t, ok)
}

// TestMapSharesSourceTracker verifies that events pass through with
// untouched indices: the adapter exposes the source's tracker directly.
func TestMapSharesSourceTracker(t *testing.T) {
	g := reactive.NewGraph()
	src := model.NewSlice(1, 2, 3)
	labels := model.Map[int, string](src, strconv.Itoa)

	require.Same(t, src.Tracker(), labels.Tracker())

	log := modeltest.Listen[string](labels)
	src.Push(g, 4)
	src.SetRowData(g, 0, 10)
	modeltest.ExpectEvents(t, log, modeltest.Added(3, 1), modeltest.Changed(0))
	modeltest.ExpectRows[string](t, labels, []string{"10", "2", "3", "4"})
}

// TestMapIsReadOnly verifies that writes to the projection are reported and
// dropped.
func TestMapIsReadOnly(t *testing.T) {
	g := reactive.NewGraph()
	diags := modeltest.CaptureDiagnostics(t)

	src := model.NewSlice(1, 2)
	labels := model.Map[int, string](src, strconv.Itoa)
	labels.SetRowData(g, 0, "ninety")

	require.Equal(t, 1, diags.Count(diag.ReadOnlyWrite))
	modeltest.ExpectRows(t, src, []int{1, 2})
}

// TestMapAppliesLazily verifies that the projection runs per access and is
// never cached, so it always reflects current source data.
func TestMapAppliesLazily(t *testing.T) {
	g := reactive.NewGraph()
	src := model.NewSlice(1)
	calls := 0
	doubled := model.Map[int, int](src, func(v int) int {
		calls++
		return v * 2
	})

	require.Equal(t, 0, calls, "construction must not touch rows")

	v, _ := doubled.RowData(0)
	require.Equal(t, 2, v)

	src.SetRowData(g, 0, 5)
	v, _ = doubled.RowData(0)
	require.Equal(t, 10, v)
	require.Equal(t, 2, calls)
}
