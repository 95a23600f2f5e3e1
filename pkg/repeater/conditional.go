package repeater

import "github.com/loom-ui/loom/pkg/reactive"

// Conditional materializes a single instance while a condition holds and
// disposes it when the condition drops. It is the degenerate repeater: a
// model of zero or one rows, with the row carrying no data.
type Conditional[I interface{ Dispose() }] struct {
	cond *reactive.Cell[bool]
	inst I
	live bool
}

// NewConditional creates a conditional with the condition false.
func NewConditional[I interface{ Dispose() }]() *Conditional[I] {
	return &Conditional[I]{
		cond: reactive.NewCell(false).Named("conditional.active"),
	}
}

// SetCondition assigns the condition directly.
func (c *Conditional[I]) SetCondition(g *reactive.Graph, active bool) {
	c.cond.Set(g, active)
}

// SetConditionBinding derives the condition from other reactive state.
func (c *Conditional[I]) SetConditionBinding(g *reactive.Graph, fn func(*reactive.Graph) bool) {
	c.cond.SetBinding(g, fn)
}

// TrackChanges registers the active evaluator as depending on the condition.
func (c *Conditional[I]) TrackChanges(g *reactive.Graph) {
	c.cond.Get(g)
}

// EnsureUpdated creates or disposes the instance to match the condition and
// returns the instance along with whether it is live.
func (c *Conditional[I]) EnsureUpdated(g *reactive.Graph, factory func(g *reactive.Graph) I) (I, bool) {
	active := c.cond.Peek(g)
	if active && !c.live {
		c.inst = factory(g)
		c.live = true
	} else if !active && c.live {
		c.dispose()
	}
	return c.inst, c.live
}

// Instance returns the live instance, if any.
func (c *Conditional[I]) Instance() (I, bool) {
	return c.inst, c.live
}

// Dispose drops the instance regardless of the condition.
func (c *Conditional[I]) Dispose() {
	if c.live {
		c.dispose()
	}
}

func (c *Conditional[I]) dispose() {
	c.inst.Dispose()
	var zero I
	c.inst = zero
	c.live = false
}
