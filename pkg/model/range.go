package model

import "github.com/loom-ui/loom/pkg/reactive"

// staticTracker serves models whose content never changes. Tracking
// registers nothing and listeners are never called.
type staticTracker struct{}

func (staticTracker) TrackRowCountChanges(g *reactive.Graph)            {}
func (staticTracker) TrackRowDataChanges(g *reactive.Graph, row int)    {}
func (staticTracker) Listen(fn Listener) (remove func())                { return func() {} }

// Range is a constant model of n rows where row i holds the value i.
type Range struct {
	ReadOnly[int]
	n int
}

// NewRange creates a model of the integers 0 through n-1. Negative n yields
// an empty model.
func NewRange(n int) *Range {
	if n < 0 {
		n = 0
	}
	return &Range{n: n}
}

func (r *Range) RowCount() int {
	return r.n
}

func (r *Range) RowData(row int) (int, bool) {
	if row < 0 || row >= r.n {
		return 0, false
	}
	return row, true
}

func (r *Range) Tracker() Tracker {
	return staticTracker{}
}
