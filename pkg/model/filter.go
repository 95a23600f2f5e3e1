package model

import (
	"slices"

	"github.com/loom-ui/loom/pkg/reactive"
)

// FilterModel presents the rows of a source model that satisfy a predicate.
// The view-to-source mapping is kept eagerly: it is rebuilt when the source
// changes shape and patched in place when a single row changes, so lookups
// never consult stale indices.
type FilterModel[T any] struct {
	src    Model[T]
	pred   func(T) bool
	rows   []int // view row -> source row, ascending
	notify Notifier
	detach func()
}

// Filter wraps src so that only rows for which pred returns true are visible.
// Row order is preserved. The adapter listens to the source until Detach is
// called.
func Filter[T any](src Model[T], pred func(T) bool) *FilterModel[T] {
	f := &FilterModel[T]{src: src, pred: pred}
	f.rebuild()
	f.detach = src.Tracker().Listen(f.sourceEvent)
	return f
}

// Detach stops listening to the source model. The filter keeps serving its
// last mapping but no longer reacts to source changes.
func (f *FilterModel[T]) Detach() {
	if f.detach != nil {
		f.detach()
		f.detach = nil
	}
}

func (f *FilterModel[T]) RowCount() int {
	return len(f.rows)
}

func (f *FilterModel[T]) RowData(row int) (T, bool) {
	if row < 0 || row >= len(f.rows) {
		var zero T
		return zero, false
	}
	return f.src.RowData(f.rows[row])
}

// SetRowData writes through to the corresponding source row.
func (f *FilterModel[T]) SetRowData(g *reactive.Graph, row int, value T) {
	if row < 0 || row >= len(f.rows) {
		return
	}
	f.src.SetRowData(g, f.rows[row], value)
}

func (f *FilterModel[T]) Tracker() Tracker {
	return &f.notify
}

// SourceRow translates a view row into the source model's row index.
func (f *FilterModel[T]) SourceRow(row int) (int, bool) {
	if row < 0 || row >= len(f.rows) {
		return 0, false
	}
	return f.rows[row], true
}

// Invalidate re-applies the predicate to every source row. Call after the
// predicate's outcome changed for reasons the source cannot announce, such
// as captured state inside the predicate.
func (f *FilterModel[T]) Invalidate(g *reactive.Graph) {
	f.rebuild()
	f.notify.Reset(g)
}

func (f *FilterModel[T]) rebuild() {
	f.rows = f.rows[:0]
	for i, n := 0, f.src.RowCount(); i < n; i++ {
		if v, ok := f.src.RowData(i); ok && f.pred(v) {
			f.rows = append(f.rows, i)
		}
	}
}

func (f *FilterModel[T]) sourceEvent(g *reactive.Graph, e Event) {
	switch e.Kind {
	case EventRowChanged:
		f.sourceRowChanged(g, e.Row)
	default:
		// Structural changes shift source indices; rebuild the whole
		// mapping rather than patching it.
		f.rebuild()
		f.notify.Reset(g)
	}
}

// sourceRowChanged re-evaluates the predicate for one source row and emits
// the event the view actually experiences: a change in place, an insertion
// when the row starts passing, or a removal when it stops.
func (f *FilterModel[T]) sourceRowChanged(g *reactive.Graph, srcRow int) {
	view, contained := slices.BinarySearch(f.rows, srcRow)
	v, ok := f.src.RowData(srcRow)
	passes := ok && f.pred(v)
	switch {
	case contained && passes:
		f.notify.RowChanged(g, view)
	case contained && !passes:
		f.rows = slices.Delete(f.rows, view, view+1)
		f.notify.RowsRemoved(g, view, 1)
	case !contained && passes:
		f.rows = slices.Insert(f.rows, view, srcRow)
		f.notify.RowsAdded(g, view, 1)
	}
}
