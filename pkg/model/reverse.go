package model

import "github.com/loom-ui/loom/pkg/reactive"

// ReverseModel presents a source model in back-to-front order. It keeps no
// mapping of its own; row indices are mirrored on the fly. Source events are
// re-announced with their indices mirrored so a view on the reversed model
// sees changes where they actually land.
type ReverseModel[T any] struct {
	src    Model[T]
	notify Notifier
	detach func()
}

// Reverse wraps src with rows in the opposite order. The adapter listens to
// the source until Detach is called.
func Reverse[T any](src Model[T]) *ReverseModel[T] {
	r := &ReverseModel[T]{src: src}
	r.detach = src.Tracker().Listen(r.sourceEvent)
	return r
}

// Detach stops listening to the source model.
func (r *ReverseModel[T]) Detach() {
	if r.detach != nil {
		r.detach()
		r.detach = nil
	}
}

func (r *ReverseModel[T]) RowCount() int {
	return r.src.RowCount()
}

func (r *ReverseModel[T]) RowData(row int) (T, bool) {
	n := r.src.RowCount()
	if row < 0 || row >= n {
		var zero T
		return zero, false
	}
	return r.src.RowData(n - 1 - row)
}

// SetRowData writes through to the mirrored source row.
func (r *ReverseModel[T]) SetRowData(g *reactive.Graph, row int, value T) {
	n := r.src.RowCount()
	if row < 0 || row >= n {
		return
	}
	r.src.SetRowData(g, n-1-row, value)
}

func (r *ReverseModel[T]) Tracker() Tracker {
	return &r.notify
}

// sourceEvent mirrors event indices. The source count has already been
// updated when the event arrives, so the mirrored positions are computed
// from the post-change count.
func (r *ReverseModel[T]) sourceEvent(g *reactive.Graph, e Event) {
	n := r.src.RowCount()
	switch e.Kind {
	case EventRowChanged:
		r.notify.RowChanged(g, n-1-e.Row)
	case EventRowsAdded:
		r.notify.RowsAdded(g, n-e.Count-e.Row, e.Count)
	case EventRowsRemoved:
		r.notify.RowsRemoved(g, n-e.Row, e.Count)
	default:
		r.notify.Reset(g)
	}
}
