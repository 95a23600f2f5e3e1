package reactive

import "sync/atomic"

// idCounter is the source of identities for cells, trackers and animations.
// Atomic so construction is safe during concurrent setup, even though graph
// operation itself is single-goroutine.
var idCounter uint64

// nextID returns the next unique identity.
func nextID() uint64 {
	return atomic.AddUint64(&idCounter, 1)
}

// graphIDCounter numbers graphs for the affinity checks in debug mode.
var graphIDCounter uint32

// nextGraphID returns the next graph number.
func nextGraphID() uint32 {
	return atomic.AddUint32(&graphIDCounter, 1)
}
