package model

import (
	"slices"

	"github.com/loom-ui/loom/pkg/reactive"
)

// SortModel presents the rows of a source model in the order given by a
// comparison function. It holds a permutation of the source indices and
// re-sorts whenever the source announces any change, since even a single
// changed row can move to a new position.
type SortModel[T any] struct {
	src    Model[T]
	cmp    func(a, b T) int
	perm   []int // view row -> source row
	notify Notifier
	detach func()
}

// Sort wraps src sorted by cmp, which must return a negative number when
// a orders before b, zero when they tie, and a positive number otherwise.
// The sort is stable: ties keep their source order. The adapter listens to
// the source until Detach is called.
func Sort[T any](src Model[T], cmp func(a, b T) int) *SortModel[T] {
	s := &SortModel[T]{src: src, cmp: cmp}
	s.resort()
	s.detach = src.Tracker().Listen(func(g *reactive.Graph, e Event) {
		s.resort()
		s.notify.Reset(g)
	})
	return s
}

// Detach stops listening to the source model.
func (s *SortModel[T]) Detach() {
	if s.detach != nil {
		s.detach()
		s.detach = nil
	}
}

func (s *SortModel[T]) RowCount() int {
	return len(s.perm)
}

func (s *SortModel[T]) RowData(row int) (T, bool) {
	if row < 0 || row >= len(s.perm) {
		var zero T
		return zero, false
	}
	return s.src.RowData(s.perm[row])
}

// SetRowData writes through to the source row currently shown at row.
func (s *SortModel[T]) SetRowData(g *reactive.Graph, row int, value T) {
	if row < 0 || row >= len(s.perm) {
		return
	}
	s.src.SetRowData(g, s.perm[row], value)
}

func (s *SortModel[T]) Tracker() Tracker {
	return &s.notify
}

// SourceRow translates a view row into the source model's row index.
func (s *SortModel[T]) SourceRow(row int) (int, bool) {
	if row < 0 || row >= len(s.perm) {
		return 0, false
	}
	return s.perm[row], true
}

// Invalidate re-sorts against the current source content. Call when the
// ordering changed for reasons the source cannot announce, such as a sort
// key read from outside the row data.
func (s *SortModel[T]) Invalidate(g *reactive.Graph) {
	s.resort()
	s.notify.Reset(g)
}

func (s *SortModel[T]) resort() {
	n := s.src.RowCount()
	data := make([]T, n)
	for i := range data {
		data[i], _ = s.src.RowData(i)
	}
	s.perm = s.perm[:0]
	for i := 0; i < n; i++ {
		s.perm = append(s.perm, i)
	}
	slices.SortStableFunc(s.perm, func(a, b int) int {
		return s.cmp(data[a], data[b])
	})
}
