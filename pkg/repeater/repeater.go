package repeater

import (
	"reflect"
	"slices"

	"github.com/loom-ui/loom/pkg/diag"
	"github.com/loom-ui/loom/pkg/model"
	"github.com/loom-ui/loom/pkg/reactive"
)

// Instance is one materialized row: whatever the host projects a row into,
// typically a component or widget subtree. The repeater creates instances
// through a factory, pushes row data into them with Update, and disposes
// them when their row goes away.
type Instance[T any] interface {
	Update(g *reactive.Graph, row int, data T)
	Dispose()
}

// Factory creates a fresh, not-yet-updated instance.
type Factory[T any, I Instance[T]] func(g *reactive.Graph) I

// entryState tracks whether an entry's instance reflects the current row
// data. The zero value is dirty, so freshly spliced-in slots get updated.
type entryState uint8

const (
	entryDirty entryState = iota
	entryClean
)

// entry is one slot of the repeater's window. live distinguishes a real
// instance from the zero value of I.
type entry[I any] struct {
	state entryState
	inst  I
	live  bool
}

// Stats counts instance lifecycle activity, taken with Repeater.Stats.
type Stats struct {
	// Created and Destroyed count factory calls and Dispose calls.
	Created   uint64
	Destroyed uint64

	// Updated counts row data pushes into instances.
	Updated uint64

	// Reused counts instances kept alive across a window move.
	Reused uint64

	// Live is the number of instances currently alive.
	Live int
}

// Repeater materializes one instance per row of a model and keeps the
// instances in step with the model's announced changes.
//
// The model is a reactive property: it can be assigned directly or bound to
// an expression, and swapping it tears down every instance. Change events
// adjust the entry table the moment they arrive, so the table's shape always
// matches the model, but instances are created and updated only inside
// EnsureUpdated. Removed rows are the exception: their instances are
// disposed at event time, never later.
//
// A Repeater belongs to the graph's goroutine, like everything else in the
// engine.
type Repeater[T any, I Instance[T]] struct {
	modelCell *reactive.Cell[model.Model[T]]
	rev       *reactive.Cell[uint64]

	attached model.Model[T]
	unlisten func()

	entries []entry[I]
	offset  int
	dirty   bool

	stats Stats
}

// New creates a repeater with no model. Without a model it materializes
// nothing.
func New[T any, I Instance[T]]() *Repeater[T, I] {
	return &Repeater[T, I]{
		modelCell: reactive.NewCell[model.Model[T]](nil).
			WithEquals(sameModel[T]).
			Named("repeater.model"),
		rev: reactive.NewCell[uint64](0).Named("repeater.rev"),
	}
}

// Named assigns a debug name to the repeater's cells and returns r.
func (r *Repeater[T, I]) Named(name string) *Repeater[T, I] {
	r.modelCell.Named(name + ".model")
	r.rev.Named(name + ".rev")
	return r
}

// SetModel assigns the model. Assigning the same model again is a no-op;
// assigning a different one disposes every instance on the next update.
func (r *Repeater[T, I]) SetModel(g *reactive.Graph, m model.Model[T]) {
	r.modelCell.Set(g, m)
}

// SetModelBinding derives the model from other reactive state. The binding
// is evaluated lazily, like any cell binding.
func (r *Repeater[T, I]) SetModelBinding(g *reactive.Graph, fn func(*reactive.Graph) model.Model[T]) {
	r.modelCell.SetBinding(g, fn)
}

// Model returns the current model, registering a dependency when called
// inside an evaluation.
func (r *Repeater[T, I]) Model(g *reactive.Graph) model.Model[T] {
	return r.modelCell.Get(g)
}

// TrackChanges registers the active evaluator as depending on the repeater's
// content: it goes dirty when the model is swapped, when its binding is
// invalidated, or when the model announces any change. Call it from the
// evaluation that decides when to run EnsureUpdated.
func (r *Repeater[T, I]) TrackChanges(g *reactive.Graph) {
	r.modelCell.Get(g)
	r.rev.Get(g)
}

// EnsureUpdated brings one instance per model row up to date, creating
// missing instances through factory. It reads the model without registering
// dependencies, so it is safe to call inside the evaluation that tracks the
// repeater.
func (r *Repeater[T, I]) EnsureUpdated(g *reactive.Graph, factory Factory[T, I]) {
	m := r.ensureModel(g)
	if m == nil {
		r.clearInstances()
		r.dirty = false
		return
	}
	r.setWindow(0, m.RowCount())
	if !r.dirty {
		return
	}
	r.updateEntries(g, m, factory)
	r.dirty = false
}

// EnsureUpdatedWindow is EnsureUpdated restricted to the maxCount rows
// starting at offset, for views that materialize only what a viewport can
// show. Instances for rows entering the window are created on demand; rows
// leaving it are disposed. A negative offset or count is reported and
// clamped.
func (r *Repeater[T, I]) EnsureUpdatedWindow(g *reactive.Graph, factory Factory[T, I], offset, maxCount int) {
	if offset < 0 || maxCount < 0 {
		diag.Reportf(diag.BadWindow, "repeater.EnsureUpdatedWindow",
			"window offset %d count %d clamped to zero", offset, maxCount)
		offset = max(offset, 0)
		maxCount = max(maxCount, 0)
	}
	m := r.ensureModel(g)
	if m == nil {
		r.clearInstances()
		r.dirty = false
		return
	}
	count := m.RowCount()
	if offset > count {
		offset = count
	}
	r.setWindow(offset, min(maxCount, count-offset))
	if !r.dirty {
		return
	}
	r.updateEntries(g, m, factory)
	r.dirty = false
}

// SetRowData writes value through to the model and, when the write dirtied
// the corresponding entry, pushes the stored value into its instance right
// away rather than waiting for the next EnsureUpdated.
func (r *Repeater[T, I]) SetRowData(g *reactive.Graph, row int, value T) {
	m := r.ensureModel(g)
	if m == nil {
		return
	}
	m.SetRowData(g, row, value)
	i := row - r.offset
	if i < 0 || i >= len(r.entries) {
		return
	}
	e := &r.entries[i]
	if e.state != entryDirty || !e.live {
		return
	}
	if data, ok := m.RowData(row); ok {
		e.inst.Update(g, row, data)
		e.state = entryClean
		r.stats.Updated++
	}
}

// IsDirty reports whether instances are out of step with the model. A
// pending model swap is not reflected here; it is detected by the next
// EnsureUpdated.
func (r *Repeater[T, I]) IsDirty() bool {
	return r.dirty
}

// Len returns the number of entries in the current window.
func (r *Repeater[T, I]) Len() int {
	return len(r.entries)
}

// Offset returns the model row of the window's first entry.
func (r *Repeater[T, I]) Offset() int {
	return r.offset
}

// Instance returns the live instance for a model row, if one exists.
func (r *Repeater[T, I]) Instance(row int) (I, bool) {
	i := row - r.offset
	if i < 0 || i >= len(r.entries) || !r.entries[i].live {
		var zero I
		return zero, false
	}
	return r.entries[i].inst, true
}

// ForEach visits the live instances in row order. Returning false stops the
// walk.
func (r *Repeater[T, I]) ForEach(fn func(row int, inst I) bool) {
	for i := range r.entries {
		e := &r.entries[i]
		if !e.live {
			continue
		}
		if !fn(r.offset+i, e.inst) {
			return
		}
	}
}

// Stats returns the instance lifecycle counters.
func (r *Repeater[T, I]) Stats() Stats {
	return r.stats
}

// Dispose detaches from the model and disposes every instance.
func (r *Repeater[T, I]) Dispose() {
	if r.unlisten != nil {
		r.unlisten()
		r.unlisten = nil
	}
	r.clearInstances()
	r.attached = nil
	r.dirty = false
}

// ensureModel resolves the model property without registering dependencies
// and, when the model identity changed, moves the listener over and tears
// down the old model's instances.
func (r *Repeater[T, I]) ensureModel(g *reactive.Graph) model.Model[T] {
	m := r.modelCell.Peek(g)
	if sameModel(m, r.attached) {
		return m
	}
	if r.unlisten != nil {
		r.unlisten()
		r.unlisten = nil
	}
	r.clearInstances()
	r.offset = 0
	r.attached = m
	if m != nil {
		r.unlisten = m.Tracker().Listen(r.modelEvent)
	}
	r.dirty = true
	return m
}

// modelEvent adjusts the entry table for one announced change and bumps the
// revision so evaluators that called TrackChanges go dirty.
func (r *Repeater[T, I]) modelEvent(g *reactive.Graph, e model.Event) {
	switch e.Kind {
	case model.EventRowChanged:
		i := e.Row - r.offset
		if i >= 0 && i < len(r.entries) {
			r.entries[i].state = entryDirty
			r.dirty = true
		}
	case model.EventRowsAdded:
		r.rowsAdded(e.Row, e.Count)
	case model.EventRowsRemoved:
		r.rowsRemoved(e.Row, e.Count)
	default:
		r.resetEntries()
	}
	r.rev.Update(g, func(v uint64) uint64 { return v + 1 })
}

func (r *Repeater[T, I]) rowsAdded(row, count int) {
	if count <= 0 {
		return
	}
	r.dirty = true
	i := row - r.offset
	if i < 0 {
		// Insertion before the window shifts the data under every entry.
		r.markAllDirty()
		return
	}
	if i > len(r.entries) {
		return
	}
	r.entries = slices.Insert(r.entries, i, make([]entry[I], count)...)
	for j := i + count; j < len(r.entries); j++ {
		r.entries[j].state = entryDirty
	}
}

func (r *Repeater[T, I]) rowsRemoved(row, count int) {
	if count <= 0 {
		return
	}
	r.dirty = true
	i := row - r.offset
	if i < 0 {
		if i+count <= 0 {
			// Entirely before the window: data shifts under every entry.
			r.markAllDirty()
			return
		}
		count += i
		i = 0
	}
	if i >= len(r.entries) {
		return
	}
	count = min(count, len(r.entries)-i)
	for j := i; j < i+count; j++ {
		r.destroyEntry(&r.entries[j])
	}
	r.entries = slices.Delete(r.entries, i, i+count)
	for j := i; j < len(r.entries); j++ {
		r.entries[j].state = entryDirty
	}
}

func (r *Repeater[T, I]) resetEntries() {
	r.clearInstances()
	r.dirty = true
}

// setWindow moves the window start to offset and resizes the entry table to
// size. Entries whose model row falls in both the old and new window keep
// their instance and their clean state; the rows under them have not
// changed, only their position in the table.
func (r *Repeater[T, I]) setWindow(offset, size int) {
	moved := offset != r.offset
	if moved {
		if offset < r.offset {
			r.entries = slices.Insert(r.entries, 0, make([]entry[I], r.offset-offset)...)
		} else {
			n := min(offset-r.offset, len(r.entries))
			for j := 0; j < n; j++ {
				r.destroyEntry(&r.entries[j])
			}
			r.entries = slices.Delete(r.entries, 0, n)
		}
		r.offset = offset
		r.dirty = true
	}
	for len(r.entries) > size {
		last := len(r.entries) - 1
		r.destroyEntry(&r.entries[last])
		r.entries = r.entries[:last]
	}
	if len(r.entries) < size {
		r.entries = append(r.entries, make([]entry[I], size-len(r.entries))...)
		r.dirty = true
	}
	if moved {
		for i := range r.entries {
			if r.entries[i].live {
				r.stats.Reused++
			}
		}
	}
}

func (r *Repeater[T, I]) updateEntries(g *reactive.Graph, m model.Model[T], factory Factory[T, I]) {
	for i := range r.entries {
		e := &r.entries[i]
		if e.state != entryDirty {
			continue
		}
		row := r.offset + i
		data, ok := m.RowData(row)
		if !ok {
			// The row disappeared without an event; drop the instance.
			r.destroyEntry(e)
			e.state = entryClean
			continue
		}
		if !e.live {
			e.inst = factory(g)
			e.live = true
			r.stats.Created++
			r.stats.Live++
		}
		e.inst.Update(g, row, data)
		e.state = entryClean
		r.stats.Updated++
	}
}

func (r *Repeater[T, I]) markAllDirty() {
	for i := range r.entries {
		r.entries[i].state = entryDirty
	}
}

func (r *Repeater[T, I]) clearInstances() {
	for i := range r.entries {
		r.destroyEntry(&r.entries[i])
	}
	r.entries = r.entries[:0]
}

func (r *Repeater[T, I]) destroyEntry(e *entry[I]) {
	if !e.live {
		return
	}
	e.inst.Dispose()
	var zero I
	e.inst = zero
	e.live = false
	e.state = entryDirty
	r.stats.Destroyed++
	r.stats.Live--
}

// sameModel compares models by identity. Two models are the same only when
// they are the same pointer; models carried by value never compare equal, so
// reassignment always refreshes.
func sameModel[T any](a, b model.Model[T]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	if va.Kind() == reflect.Pointer && vb.Kind() == reflect.Pointer {
		return va.Pointer() == vb.Pointer()
	}
	return false
}
