package repeater

import "math"

// ViewportWindow computes the window of rows a viewport can show, for use
// with EnsureUpdatedWindow. Rows have a fixed extent along the scroll axis,
// scroll is the distance from the start of the content to the start of the
// viewport, and cache widens the window by a distance on both sides so that
// slow row construction does not flash at the edges during scrolling.
//
// A non-positive viewport extent means the viewport size is not known yet;
// every row is included so the first layout pass can measure real content.
func ViewportWindow(rowCount int, rowExtent, scroll, viewport, cache float64) (offset, count int) {
	if rowCount <= 0 || rowExtent <= 0 {
		return 0, 0
	}
	if viewport <= 0 {
		return 0, rowCount
	}
	if cache < 0 {
		cache = 0
	}
	first := int(math.Floor((scroll - cache) / rowExtent))
	last := int(math.Ceil((scroll + viewport + cache) / rowExtent))
	if first < 0 {
		first = 0
	}
	if first > rowCount {
		first = rowCount
	}
	if last > rowCount {
		last = rowCount
	}
	if last < first {
		last = first
	}
	return first, last - first
}

// ContentExtent returns the total extent of rowCount rows along the scroll
// axis, the value a scrollbar needs.
func ContentExtent(rowCount int, rowExtent float64) float64 {
	if rowCount <= 0 || rowExtent <= 0 {
		return 0
	}
	return float64(rowCount) * rowExtent
}
