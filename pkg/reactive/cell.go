package reactive

import (
	"reflect"

	"github.com/loom-ui/loom/pkg/diag"
)

// Cell is a reactive value container, the unit of observation in the
// dependency graph. A cell holds a value and optionally a binding, a pure
// function that recomputes the value from other reactive state. Reading a
// cell during an evaluation subscribes the active evaluator to it; writing
// a cell marks its dependents dirty without recomputing them.
//
// The zero value is an unbound cell holding T's zero value, but cells
// created with NewCell additionally carry an identity for graph events.
type Cell[T any] struct {
	value     T
	binding   func(*Graph) T
	intercept func(*Graph, T) bool

	node evalNode
	subs subList

	equal      func(T, T) bool
	evaluating bool

	id   uint64
	name string
}

// NewCell creates a cell holding value.
func NewCell[T any](value T) *Cell[T] {
	return &Cell[T]{value: value, id: nextID()}
}

// WithEquals sets the equality function used to decide whether a Set call
// changed the value, and returns c. The default compares with == for
// common scalar types and falls back to reflect.DeepEqual.
func (c *Cell[T]) WithEquals(fn func(a, b T) bool) *Cell[T] {
	c.equal = fn
	return c
}

// Named assigns a debug name, reported in graph events, and returns c.
func (c *Cell[T]) Named(name string) *Cell[T] {
	c.name = name
	return c
}

// ID returns the cell's identity.
func (c *Cell[T]) ID() uint64 {
	return c.id
}

// Get returns the current value, evaluating the binding first if the cell
// is dirty. While an evaluation is active on g, the read registers a
// dependency from this cell to the active evaluator.
func (c *Cell[T]) Get(g *Graph) T {
	c.ensureValid(g)
	g.addDependency(&c.subs)
	return c.value
}

// Peek returns the current value without registering a dependency. The
// binding is still evaluated if the cell is dirty.
func (c *Cell[T]) Peek(g *Graph) T {
	c.ensureValid(g)
	return c.value
}

// Set clears any binding, stores value, and marks all dependents dirty.
// Dependents are not recomputed until they are next read. Storing a value
// equal to the current one does not propagate.
func (c *Cell[T]) Set(g *Graph, value T) {
	if c.intercept != nil && c.intercept(g, value) {
		return
	}
	if c.binding != nil {
		g.releaseDeps(&c.node)
		c.binding = nil
		c.node.dirty = false
	}
	if c.equals(c.value, value) {
		return
	}
	c.value = value
	g.emit(Event{Kind: EventSet, Cell: c.id, Name: c.name})
	g.markSubs(&c.subs)
}

// Update stores fn applied to the current value.
func (c *Cell[T]) Update(g *Graph, fn func(T) T) {
	c.Set(g, fn(c.Peek(g)))
}

// SetBinding installs fn as the cell's binding and marks the cell and its
// dependents dirty. The binding runs on the next read, not now.
func (c *Cell[T]) SetBinding(g *Graph, fn func(*Graph) T) {
	c.intercept = nil
	if c.binding != nil {
		g.releaseDeps(&c.node)
	}
	c.binding = fn
	c.node.sink = c
	c.node.dirty = true
	g.markSubs(&c.subs)
}

// ensureValid re-evaluates the binding if the cell is dirty. The previous
// dependency links are dropped first, so the recorded dependencies are
// exactly the cells this evaluation reads.
func (c *Cell[T]) ensureValid(g *Graph) {
	if c.binding == nil || !c.node.dirty {
		return
	}
	if c.evaluating {
		diag.Reportf(diag.BindingCycle, "reactive.Get",
			"binding re-entered its own cell %s; returning the current value", c.describe())
		return
	}
	c.evaluating = true
	g.releaseDeps(&c.node)
	g.pushEvaluator(&c.node)
	value := c.binding(g)
	g.popEvaluator()
	c.node.dirty = false
	c.evaluating = false
	c.value = value
	g.stats.Evaluations++
	g.emit(Event{Kind: EventEvaluate, Cell: c.id, Name: c.name})
}

// nodeDirtied propagates dirtiness onward to this cell's own dependents.
func (c *Cell[T]) nodeDirtied(g *Graph) {
	g.markSubs(&c.subs)
}

func (c *Cell[T]) nodeID() uint64 { return c.id }

func (c *Cell[T]) nodeName() string { return c.name }

func (c *Cell[T]) describe() string {
	if c.name != "" {
		return c.name
	}
	return "(unnamed)"
}

func (c *Cell[T]) equals(a, b T) bool {
	if c.equal != nil {
		return c.equal(a, b)
	}
	return defaultEquals(a, b)
}

// defaultEquals compares with == for common scalar types and falls back to
// reflect.DeepEqual for everything else.
func defaultEquals[T any](a, b T) bool {
	switch av := any(a).(type) {
	case int:
		return av == any(b).(int)
	case int64:
		return av == any(b).(int64)
	case uint64:
		return av == any(b).(uint64)
	case float64:
		return av == any(b).(float64)
	case string:
		return av == any(b).(string)
	case bool:
		return av == any(b).(bool)
	default:
		return reflect.DeepEqual(a, b)
	}
}
