package model

// MapModel projects each row of a source model through a function. The
// projection is applied on every RowData call and nothing is cached, so the
// adapter carries no state of its own and shares the source's tracker:
// change events pass through with their row indices untouched.
type MapModel[S, T any] struct {
	ReadOnly[T]
	src Model[S]
	fn  func(S) T
}

// Map wraps src so that each row is presented as fn(row). The result is
// read-only; write through the source model instead.
func Map[S, T any](src Model[S], fn func(S) T) *MapModel[S, T] {
	return &MapModel[S, T]{src: src, fn: fn}
}

func (m *MapModel[S, T]) RowCount() int {
	return m.src.RowCount()
}

func (m *MapModel[S, T]) RowData(row int) (T, bool) {
	v, ok := m.src.RowData(row)
	if !ok {
		var zero T
		return zero, false
	}
	return m.fn(v), true
}

func (m *MapModel[S, T]) Tracker() Tracker {
	return m.src.Tracker()
}
