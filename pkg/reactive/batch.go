package reactive

// Batch runs fn with tracker callbacks deferred. Dirty flags still
// propagate immediately during the batch; only the OnDirty notifications
// are collected, deduplicated by tracker, and delivered once when the
// outermost batch completes. Batches nest.
func (g *Graph) Batch(fn func()) {
	g.batchDepth++
	defer func() {
		g.batchDepth--
		g.maybeFlush()
	}()
	fn()
}

func (g *Graph) queueTracker(t *Tracker) {
	if t.queued {
		return
	}
	t.queued = true
	g.pending = append(g.pending, t)
}

// maybeFlush delivers queued tracker callbacks once no mark pass and no
// batch is active. Callbacks run outside the propagation walk, so they may
// freely read and write the graph.
func (g *Graph) maybeFlush() {
	if g.marking > 0 || g.batchDepth > 0 || len(g.pending) == 0 {
		return
	}
	pending := g.pending
	g.pending = nil
	for _, t := range pending {
		t.queued = false
		// Skip trackers that were re-evaluated before delivery.
		if t.disposed || t.onDirty == nil || !t.node.dirty {
			continue
		}
		t.onDirty()
	}
}
