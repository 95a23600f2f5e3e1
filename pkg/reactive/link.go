package reactive

import "github.com/loom-ui/loom/pkg/diag"

// linkID indexes the graph's link arena. Zero means "none": slot 0 of the
// arena is a sentinel, which keeps zero-value cells and evaluator nodes
// valid without construction.
type linkID = int32

const noLink linkID = 0

// link is one dependency edge: owner, an evaluator, read the cell whose
// dependent chain the link sits in. Links live in the graph's arena and are
// addressed by index, so acquiring and releasing one is an O(1) slab
// operation and neither side ever owns the other.
type link struct {
	owner *evalNode
	subs  *subList

	// nextDep chains the links owned by the same evaluator. It doubles as
	// the free-list pointer while the slot is unused.
	nextDep linkID

	// prevSub and nextSub chain the dependents of one cell.
	prevSub linkID
	nextSub linkID
}

// subList heads one cell's chain of dependents.
type subList struct {
	head linkID
	gid  uint32 // graph affinity, verified in debug mode
}

// evalNode is the evaluator half of the graph: a dirty flag and the chain
// of dependency links rebuilt on every evaluation. Bound cells and trackers
// embed one.
type evalNode struct {
	dirty    bool
	firstDep linkID
	sink     dirtySink
}

// dirtySink receives an evaluator's clean-to-dirty transition.
type dirtySink interface {
	nodeDirtied(g *Graph)
	nodeID() uint64
	nodeName() string
}

func (g *Graph) acquireLink() linkID {
	if id := g.freeHead; id != noLink {
		g.freeHead = g.links[id].nextDep
		g.links[id] = link{}
		return id
	}
	g.links = append(g.links, link{})
	return linkID(len(g.links) - 1)
}

func (g *Graph) freeLink(id linkID) {
	g.links[id] = link{nextDep: g.freeHead}
	g.freeHead = id
	g.stats.LinksReleased++
	g.stats.LiveLinks--
}

// addDependency subscribes the active evaluator to the cell heading s.
// Reads outside an evaluation do nothing; duplicate reads within one
// evaluation keep a single link.
func (g *Graph) addDependency(s *subList) {
	owner := g.currentEvaluator()
	if owner == nil {
		return
	}
	if s.gid == 0 {
		s.gid = g.id
	} else if DebugMode && s.gid != g.id {
		diag.Reportf(diag.GraphMismatch, "reactive.Get",
			"cell first used on graph %d read through graph %d", s.gid, g.id)
		return
	}
	for id := owner.firstDep; id != noLink; id = g.links[id].nextDep {
		if g.links[id].subs == s {
			return
		}
	}
	id := g.acquireLink()
	l := &g.links[id]
	l.owner = owner
	l.subs = s
	l.nextDep = owner.firstDep
	owner.firstDep = id
	l.nextSub = s.head
	if s.head != noLink {
		g.links[s.head].prevSub = id
	}
	s.head = id
	g.stats.LinksCreated++
	g.stats.LiveLinks++
}

// releaseDeps drops every link owned by n. Called before re-evaluation, so
// the dependency set is exactly what the new run reads, and on disposal.
func (g *Graph) releaseDeps(n *evalNode) {
	id := n.firstDep
	n.firstDep = noLink
	for id != noLink {
		l := &g.links[id]
		next := l.nextDep
		if l.prevSub != noLink {
			g.links[l.prevSub].nextSub = l.nextSub
		} else {
			l.subs.head = l.nextSub
		}
		if l.nextSub != noLink {
			g.links[l.nextSub].prevSub = l.prevSub
		}
		g.freeLink(id)
		id = next
	}
}

// markSubs marks every evaluator subscribed to s dirty. Propagation stops
// at evaluators that are already dirty, which bounds the traversal and
// makes repeated marking idempotent. Tracker callbacks are queued and
// delivered only after the outermost mark pass unwinds, so callbacks never
// observe a chain mid-walk.
func (g *Graph) markSubs(s *subList) {
	if DebugMode && s.gid != 0 && s.gid != g.id {
		diag.Reportf(diag.GraphMismatch, "reactive.Set",
			"cell first used on graph %d written through graph %d", s.gid, g.id)
		return
	}
	g.marking++
	for id := s.head; id != noLink; {
		l := &g.links[id]
		id = l.nextSub
		n := l.owner
		if n.dirty {
			continue
		}
		n.dirty = true
		g.stats.DirtyMarks++
		if n.sink != nil {
			if g.sink != nil {
				g.emit(Event{Kind: EventDirty, Cell: n.sink.nodeID(), Name: n.sink.nodeName()})
			}
			n.sink.nodeDirtied(g)
		}
	}
	g.marking--
	g.maybeFlush()
}
