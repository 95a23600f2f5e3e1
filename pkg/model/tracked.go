package model

import "github.com/loom-ui/loom/pkg/reactive"

// RowCountTracked returns the model's row count and registers the current
// evaluation as depending on it, so the surrounding tracker goes dirty when
// rows are added or removed.
func RowCountTracked[T any](g *reactive.Graph, m Model[T]) int {
	m.Tracker().TrackRowCountChanges(g)
	return m.RowCount()
}

// RowDataTracked returns the data at row and registers the current
// evaluation as depending on that row, so the surrounding tracker goes dirty
// when the row changes.
func RowDataTracked[T any](g *reactive.Graph, m Model[T], row int) (T, bool) {
	m.Tracker().TrackRowDataChanges(g, row)
	return m.RowData(row)
}
