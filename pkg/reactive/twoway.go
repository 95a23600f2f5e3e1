package reactive

// LinkTwoWay binds a and b so both observe one shared value and writing
// either updates it. The second cell's current value becomes the shared
// value. The link survives Set calls on either cell, because writes are
// intercepted and redirected to the shared backing cell; installing a new
// binding on a linked cell detaches that cell from the link.
func LinkTwoWay[T any](g *Graph, a, b *Cell[T]) {
	shared := NewCell(b.Peek(g))
	if b.name != "" {
		shared.name = b.name + "#shared"
	}
	for _, c := range []*Cell[T]{a, b} {
		c.SetBinding(g, func(g *Graph) T { return shared.Get(g) })
		c.intercept = func(g *Graph, v T) bool {
			shared.Set(g, v)
			return true
		}
	}
}
