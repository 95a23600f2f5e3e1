package model

import "github.com/loom-ui/loom/pkg/reactive"

// Slice is an array-backed model. Every mutator goes through the notifier,
// so views stay consistent without the caller issuing any refresh.
type Slice[T any] struct {
	rows   []T
	notify Notifier
}

// NewSlice creates a slice model holding rows.
func NewSlice[T any](rows ...T) *Slice[T] {
	return &Slice[T]{rows: rows}
}

// RowCount returns the number of rows.
func (s *Slice[T]) RowCount() int {
	return len(s.rows)
}

// RowData returns the data at row, or absent when row is out of range.
func (s *Slice[T]) RowData(row int) (T, bool) {
	if row < 0 || row >= len(s.rows) {
		var zero T
		return zero, false
	}
	return s.rows[row], true
}

// SetRowData stores value at row and announces the change. Out-of-range
// writes are ignored. The change is announced even when the new value equals
// the old one; the model does not inspect row data.
func (s *Slice[T]) SetRowData(g *reactive.Graph, row int, value T) {
	if row < 0 || row >= len(s.rows) {
		return
	}
	s.rows[row] = value
	s.notify.RowChanged(g, row)
}

// Tracker returns the model's change tracker.
func (s *Slice[T]) Tracker() Tracker {
	return &s.notify
}

// Push appends values at the end of the model.
func (s *Slice[T]) Push(g *reactive.Graph, values ...T) {
	if len(values) == 0 {
		return
	}
	row := len(s.rows)
	s.rows = append(s.rows, values...)
	s.notify.RowsAdded(g, row, len(values))
}

// Insert inserts values before row. Row is clamped to the valid insertion
// range, so inserting at or past the end appends.
func (s *Slice[T]) Insert(g *reactive.Graph, row int, values ...T) {
	if len(values) == 0 {
		return
	}
	if row < 0 {
		row = 0
	}
	if row > len(s.rows) {
		row = len(s.rows)
	}
	tail := make([]T, 0, len(s.rows)+len(values))
	tail = append(tail, s.rows[:row]...)
	tail = append(tail, values...)
	tail = append(tail, s.rows[row:]...)
	s.rows = tail
	s.notify.RowsAdded(g, row, len(values))
}

// Remove removes the row. Out-of-range rows are ignored.
func (s *Slice[T]) Remove(g *reactive.Graph, row int) {
	s.RemoveRange(g, row, 1)
}

// RemoveRange removes count rows starting at row, clipped to the model's
// bounds.
func (s *Slice[T]) RemoveRange(g *reactive.Graph, row, count int) {
	if row < 0 {
		count += row
		row = 0
	}
	if count > len(s.rows)-row {
		count = len(s.rows) - row
	}
	if count <= 0 || row >= len(s.rows) {
		return
	}
	s.rows = append(s.rows[:row], s.rows[row+count:]...)
	s.notify.RowsRemoved(g, row, count)
}

// SetRows replaces the whole content and announces a reset.
func (s *Slice[T]) SetRows(g *reactive.Graph, rows []T) {
	s.rows = rows
	s.notify.Reset(g)
}

// Clear removes all rows and announces a reset.
func (s *Slice[T]) Clear(g *reactive.Graph) {
	s.rows = nil
	s.notify.Reset(g)
}

// Invalidate forces every subscriber to re-derive from the current content,
// as if the model had been replaced. Useful after mutating row data in place
// through retained references, which the model cannot observe.
func (s *Slice[T]) Invalidate(g *reactive.Graph) {
	s.notify.Reset(g)
}
