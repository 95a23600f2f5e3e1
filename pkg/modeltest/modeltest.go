package modeltest

import (
	"reflect"
	"testing"

	"github.com/loom-ui/loom/pkg/diag"
	"github.com/loom-ui/loom/pkg/model"
	"github.com/loom-ui/loom/pkg/reactive"
)

// EventLog records the events a model announces, in arrival order.
type EventLog struct {
	events []model.Event
	remove func()
}

// Listen subscribes an EventLog to m. Call Detach to unsubscribe, or let
// the log outlive the model.
//
// Example:
//
//	log := modeltest.Listen[string](m)
//	m.Push(g, "x")
//	modeltest.ExpectEvents(t, log, modeltest.Added(0, 1))
func Listen[T any](m model.Model[T]) *EventLog {
	l := &EventLog{}
	l.remove = m.Tracker().Listen(func(g *reactive.Graph, e model.Event) {
		l.events = append(l.events, e)
	})
	return l
}

// Events returns the recorded events.
func (l *EventLog) Events() []model.Event {
	return l.events
}

// Take returns the recorded events and clears the log.
func (l *EventLog) Take() []model.Event {
	evs := l.events
	l.events = nil
	return evs
}

// Detach unsubscribes the log from the model.
func (l *EventLog) Detach() {
	if l.remove != nil {
		l.remove()
		l.remove = nil
	}
}

// Changed builds a row-changed event for use with ExpectEvents.
func Changed(row int) model.Event {
	return model.Event{Kind: model.EventRowChanged, Row: row}
}

// Added builds a rows-added event.
func Added(row, count int) model.Event {
	return model.Event{Kind: model.EventRowsAdded, Row: row, Count: count}
}

// Removed builds a rows-removed event.
func Removed(row, count int) model.Event {
	return model.Event{Kind: model.EventRowsRemoved, Row: row, Count: count}
}

// Reset builds a reset event.
func Reset() model.Event {
	return model.Event{Kind: model.EventReset}
}

// ExpectEvents asserts that the log holds exactly the given events, then
// clears it so the next assertion starts fresh.
//
// Example:
//
//	m.Remove(g, 1)
//	modeltest.ExpectEvents(t, log, modeltest.Removed(1, 1))
func ExpectEvents(t *testing.T, l *EventLog, want ...model.Event) {
	t.Helper()
	got := l.Take()
	if len(got) != len(want) {
		t.Errorf("expected %d events %v, got %d: %v", len(want), want, len(got), got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

// Rows collects every row of m into a slice.
func Rows[T any](m model.Model[T]) []T {
	out := make([]T, 0, m.RowCount())
	for i, n := 0, m.RowCount(); i < n; i++ {
		v, _ := m.RowData(i)
		out = append(out, v)
	}
	return out
}

// ExpectRows asserts that the model's rows equal want, in order.
//
// Example:
//
//	modeltest.ExpectRows(t, sorted, []int{1, 2, 3})
func ExpectRows[T any](t *testing.T, m model.Model[T], want []T) {
	t.Helper()
	got := Rows(m)
	if len(got) != len(want) {
		t.Errorf("expected %d rows %v, got %d: %v", len(want), want, len(got), got)
		return
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("row %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

// RecordingInstance is a repeater instance that remembers what was pushed
// into it.
type RecordingInstance[T any] struct {
	// Row and Data hold the most recent update.
	Row  int
	Data T

	// Updates counts Update calls; Disposed reports whether Dispose ran.
	Updates  int
	Disposed bool
}

func (ri *RecordingInstance[T]) Update(g *reactive.Graph, row int, data T) {
	ri.Row = row
	ri.Data = data
	ri.Updates++
}

func (ri *RecordingInstance[T]) Dispose() {
	ri.Disposed = true
}

// InstanceFactory creates RecordingInstances and keeps every instance it
// ever made, disposed ones included, so tests can assert on the full
// lifecycle.
//
// Example:
//
//	f := modeltest.NewInstanceFactory[string]()
//	rep.EnsureUpdated(g, f.New)
//	if f.Created() != 3 {
//	    t.Errorf("expected 3 instances, got %d", f.Created())
//	}
type InstanceFactory[T any] struct {
	Instances []*RecordingInstance[T]
}

// NewInstanceFactory creates an empty factory.
func NewInstanceFactory[T any]() *InstanceFactory[T] {
	return &InstanceFactory[T]{}
}

// New creates an instance. Pass the method value as the repeater's factory.
func (f *InstanceFactory[T]) New(g *reactive.Graph) *RecordingInstance[T] {
	ri := &RecordingInstance[T]{Row: -1}
	f.Instances = append(f.Instances, ri)
	return ri
}

// Created returns how many instances the factory has made.
func (f *InstanceFactory[T]) Created() int {
	return len(f.Instances)
}

// Live returns the instances that have not been disposed.
func (f *InstanceFactory[T]) Live() []*RecordingInstance[T] {
	var out []*RecordingInstance[T]
	for _, ri := range f.Instances {
		if !ri.Disposed {
			out = append(out, ri)
		}
	}
	return out
}

// CountingModel wraps a model and counts data accesses, for asserting that
// a consumer stays lazy.
type CountingModel[T any] struct {
	Inner model.Model[T]

	RowCountCalls int
	RowDataCalls  int
}

// Count wraps inner in a CountingModel.
func Count[T any](inner model.Model[T]) *CountingModel[T] {
	return &CountingModel[T]{Inner: inner}
}

func (c *CountingModel[T]) RowCount() int {
	c.RowCountCalls++
	return c.Inner.RowCount()
}

func (c *CountingModel[T]) RowData(row int) (T, bool) {
	c.RowDataCalls++
	return c.Inner.RowData(row)
}

func (c *CountingModel[T]) SetRowData(g *reactive.Graph, row int, value T) {
	c.Inner.SetRowData(g, row, value)
}

func (c *CountingModel[T]) Tracker() model.Tracker {
	return c.Inner.Tracker()
}

// DiagLog records diagnostics reported while a capture is installed.
type DiagLog struct {
	diags []diag.Diagnostic
}

// All returns the recorded diagnostics.
func (l *DiagLog) All() []diag.Diagnostic {
	return l.diags
}

// Count returns how many diagnostics with the given code were reported.
func (l *DiagLog) Count(code diag.Code) int {
	n := 0
	for _, d := range l.diags {
		if d.Code == code {
			n++
		}
	}
	return n
}

// CaptureDiagnostics routes engine diagnostics into a DiagLog for the rest
// of the test and restores the previous handler during cleanup.
//
// Example:
//
//	diags := modeltest.CaptureDiagnostics(t)
//	ro.SetRowData(g, 0, "x")
//	if diags.Count(diag.ReadOnlyWrite) != 1 {
//	    t.Error("expected a read-only write report")
//	}
func CaptureDiagnostics(t *testing.T) *DiagLog {
	t.Helper()
	l := &DiagLog{}
	prev := diag.SetHandler(diag.HandlerFunc(func(d diag.Diagnostic) {
		l.diags = append(l.diags, d)
	}))
	t.Cleanup(func() { diag.SetHandler(prev) })
	return l
}
