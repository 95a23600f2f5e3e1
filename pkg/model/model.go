package model

import (
	"github.com/loom-ui/loom/pkg/diag"
	"github.com/loom-ui/loom/pkg/reactive"
)

// Model is the contract a dynamic row collection satisfies to be projected
// into UI. Reads are plain calls; dependency tracking goes through the
// model's Tracker, and every mutation must be announced through the model's
// notifier so subscribed views stay consistent.
type Model[T any] interface {
	// RowCount returns the number of rows.
	RowCount() int

	// RowData returns the data for row. The second result is false when the
	// row does not exist; callers treat an absent row as "no such row", not
	// as an error.
	RowData(row int) (T, bool)

	// SetRowData stores value at row and notifies. Models without a write
	// path report a read-only diagnostic and do nothing; embed ReadOnly to
	// get that behavior.
	SetRowData(g *reactive.Graph, row int, value T)

	// Tracker returns the model's change tracker.
	Tracker() Tracker
}

// Tracker is the subscription side of a model: it registers dependency-graph
// interest in the model's shape and content, and delivers structured change
// events to structural listeners such as repeaters and adapters.
type Tracker interface {
	// TrackRowCountChanges registers the active evaluator as depending on
	// the row count. Called from inside an evaluation, exactly like a cell
	// read.
	TrackRowCountChanges(g *reactive.Graph)

	// TrackRowDataChanges registers the active evaluator as depending on
	// row's data.
	TrackRowDataChanges(g *reactive.Graph, row int)

	// Listen registers fn to receive change events in emission order. The
	// returned function removes the registration.
	Listen(fn Listener) (remove func())
}

// Listener receives model change events. The graph token is the one the
// mutation ran on, so listeners may synthesize further notifications.
type Listener func(g *reactive.Graph, e Event)

// EventKind classifies a model change event.
type EventKind uint8

const (
	// EventRowChanged reports new data at Row.
	EventRowChanged EventKind = iota + 1

	// EventRowsAdded reports Count rows inserted at Row. Row refers to the
	// post-insertion numbering.
	EventRowsAdded

	// EventRowsRemoved reports Count rows removed at Row. Row refers to the
	// pre-removal numbering.
	EventRowsRemoved

	// EventReset reports that the model changed wholesale; subscribers must
	// drop every cached index mapping and re-derive.
	EventReset
)

// String returns the kind's name.
func (k EventKind) String() string {
	switch k {
	case EventRowChanged:
		return "row-changed"
	case EventRowsAdded:
		return "rows-added"
	case EventRowsRemoved:
		return "rows-removed"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event is one structured model change notification.
type Event struct {
	Kind EventKind

	// Row is the first affected row. Zero for EventReset.
	Row int

	// Count is the number of rows added or removed. Zero for the other
	// kinds.
	Count int
}

// ReadOnly provides the default SetRowData for models without a write path:
// the call is reported as a read-only diagnostic and ignored. Embed it in
// read-only model implementations.
type ReadOnly[T any] struct{}

// SetRowData reports the read-only diagnostic and does nothing.
func (ReadOnly[T]) SetRowData(g *reactive.Graph, row int, value T) {
	diag.Reportf(diag.ReadOnlyWrite, "model.SetRowData",
		"write to row %d of a read-only model ignored", row)
}
