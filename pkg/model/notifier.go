package model

import (
	"sync/atomic"

	"github.com/loom-ui/loom/pkg/reactive"
)

// Notifier is the push side of a model's change channel and at the same time
// its Tracker. Each notification (a) dirties the dependency-graph cells
// behind TrackRowCountChanges and TrackRowDataChanges, and (b) forwards the
// structured event to registered listeners, which need the event shape to
// reconcile incrementally instead of rebuilding.
//
// The zero value is ready to use; embed one in a model implementation and
// return it from Tracker.
type Notifier struct {
	count *reactive.Cell[uint64]
	rows  map[int]*reactive.Cell[uint64]

	listeners []listenerEntry
}

type listenerEntry struct {
	id uint64
	fn Listener
}

var listenerID atomic.Uint64

// TrackRowCountChanges registers the active evaluator as depending on the
// row count. The evaluator is dirtied by RowsAdded, RowsRemoved and Reset.
func (n *Notifier) TrackRowCountChanges(g *reactive.Graph) {
	if n.count == nil {
		n.count = reactive.NewCell(uint64(0))
	}
	n.count.Get(g)
}

// TrackRowDataChanges registers the active evaluator as depending on row's
// data. The evaluator is dirtied by RowChanged on that row and by any
// structural change at or before it, which shifts what the row holds.
func (n *Notifier) TrackRowDataChanges(g *reactive.Graph, row int) {
	if n.rows == nil {
		n.rows = make(map[int]*reactive.Cell[uint64])
	}
	c := n.rows[row]
	if c == nil {
		c = reactive.NewCell(uint64(0))
		n.rows[row] = c
	}
	c.Get(g)
}

// Listen registers fn to receive change events in emission order. The
// returned function removes the registration; calling it more than once is
// harmless.
func (n *Notifier) Listen(fn Listener) (remove func()) {
	id := listenerID.Add(1)
	n.listeners = append(n.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		for i, e := range n.listeners {
			if e.id == id {
				n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
				return
			}
		}
	}
}

// RowChanged announces new data at row.
func (n *Notifier) RowChanged(g *reactive.Graph, row int) {
	n.bumpRow(g, row)
	n.dispatch(g, Event{Kind: EventRowChanged, Row: row})
}

// RowsAdded announces count rows inserted at row (post-insertion numbering).
func (n *Notifier) RowsAdded(g *reactive.Graph, row, count int) {
	if count <= 0 {
		return
	}
	n.bumpCount(g)
	n.bumpRowsFrom(g, row)
	n.dispatch(g, Event{Kind: EventRowsAdded, Row: row, Count: count})
}

// RowsRemoved announces count rows removed at row (pre-removal numbering).
func (n *Notifier) RowsRemoved(g *reactive.Graph, row, count int) {
	if count <= 0 {
		return
	}
	n.bumpCount(g)
	n.bumpRowsFrom(g, row)
	n.dispatch(g, Event{Kind: EventRowsRemoved, Row: row, Count: count})
}

// Reset announces a wholesale change: every cached index mapping held by a
// subscriber is invalid and every tracked row and the row count are dirtied.
func (n *Notifier) Reset(g *reactive.Graph) {
	n.bumpCount(g)
	n.bumpRowsFrom(g, 0)
	n.dispatch(g, Event{Kind: EventReset})
}

func (n *Notifier) bumpCount(g *reactive.Graph) {
	if n.count != nil {
		n.count.Update(g, func(v uint64) uint64 { return v + 1 })
	}
}

func (n *Notifier) bumpRow(g *reactive.Graph, row int) {
	if c := n.rows[row]; c != nil {
		c.Update(g, func(v uint64) uint64 { return v + 1 })
	}
}

// bumpRowsFrom dirties every tracked row at or after first. Structural
// changes shift row contents, so trackers on the moved tail re-evaluate.
func (n *Notifier) bumpRowsFrom(g *reactive.Graph, first int) {
	for row, c := range n.rows {
		if row >= first {
			c.Update(g, func(v uint64) uint64 { return v + 1 })
		}
	}
}

// dispatch forwards e to a snapshot of the listener list, so a listener may
// detach itself or others mid-delivery without skipping anyone.
func (n *Notifier) dispatch(g *reactive.Graph, e Event) {
	if len(n.listeners) == 0 {
		return
	}
	snapshot := make([]listenerEntry, len(n.listeners))
	copy(snapshot, n.listeners)
	for _, entry := range snapshot {
		entry.fn(g, e)
	}
}
