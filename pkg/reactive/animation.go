package reactive

import (
	"math"
	"time"
)

// Easing maps normalized time to normalized progress: it receives t in
// [0, 1] and returns the eased fraction.
type Easing func(t float64) float64

// Built-in easing curves, matching the CSS timing functions of the same
// names.
var (
	EaseLinear Easing = func(t float64) float64 { return t }
	EaseIn            = CubicBezier(0.42, 0, 1, 1)
	EaseOut           = CubicBezier(0, 0, 0.58, 1)
	EaseInOut         = CubicBezier(0.42, 0, 0.58, 1)
)

// CubicBezier builds an easing from the two control points of a CSS-style
// timing curve; the endpoints are fixed at (0,0) and (1,1).
func CubicBezier(x1, y1, x2, y2 float64) Easing {
	axis := func(p1, p2, t float64) float64 {
		mt := 1 - t
		return 3*mt*mt*t*p1 + 3*mt*t*t*p2 + t*t*t
	}
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		// Solve x(u) = t for u by bisection, then evaluate y(u).
		lo, hi := 0.0, 1.0
		for i := 0; i < 32; i++ {
			if mid := (lo + hi) / 2; axis(x1, x2, mid) < t {
				lo = mid
			} else {
				hi = mid
			}
		}
		return axis(y1, y2, (lo+hi)/2)
	}
}

// Interpolator blends between two values of T at fraction t in [0, 1].
type Interpolator[T any] func(from, to T, t float64) T

// LerpFloat64 interpolates linearly between floats.
func LerpFloat64(from, to float64, t float64) float64 {
	return from + (to-from)*t
}

// LerpInt interpolates linearly between ints, rounding to nearest.
func LerpInt(from, to int, t float64) int {
	return from + int(math.Round(float64(to-from)*t))
}

// Animation describes a timed transition for Animate.
type Animation[T any] struct {
	// Duration of the transition. A zero duration completes on the next
	// clock advance.
	Duration time.Duration

	// Delay before the transition starts; the cell holds its old value
	// until then.
	Delay time.Duration

	// Easing curve; nil means linear.
	Easing Easing

	// Interpolate blends the endpoint values. Required; without it the
	// transition degenerates to a plain Set.
	Interpolate Interpolator[T]
}

// Animate replaces c's value with a timed interpolation from its current
// value to target, driven by the graph clock. The host advances the clock
// with AdvanceAnimations; there is no background timer. The animation is
// installed as an ordinary binding, so reads stay lazy, and its final
// evaluation reads the clock untracked: a completed animation stops
// depending on clock advances without any unregistration machinery.
func Animate[T any](g *Graph, c *Cell[T], target T, anim Animation[T]) {
	if anim.Interpolate == nil {
		c.Set(g, target)
		return
	}
	from := c.Peek(g)
	ease := anim.Easing
	if ease == nil {
		ease = EaseLinear
	}
	start := g.now.Add(anim.Delay)
	end := start.Add(anim.Duration)
	id := nextID()
	g.animations[id] = end
	c.SetBinding(g, func(g *Graph) T {
		now := g.clock.Peek(g)
		if !now.Before(end) {
			delete(g.animations, id)
			return target
		}
		g.clock.Get(g)
		if now.Before(start) {
			return from
		}
		t := float64(now.Sub(start)) / float64(end.Sub(start))
		return anim.Interpolate(from, target, ease(t))
	})
}

// AdvanceAnimations moves the animation clock to now, dirtying every
// running animated binding, and prunes animations past their deadline.
// Hosts call it once per frame.
func (g *Graph) AdvanceAnimations(now time.Time) {
	g.now = now
	g.clock.Set(g, now)
	for id, end := range g.animations {
		if !now.Before(end) {
			delete(g.animations, id)
		}
	}
}

// HasActiveAnimations reports whether another frame is needed to finish
// running animations.
func (g *Graph) HasActiveAnimations() bool {
	return len(g.animations) > 0
}

// Now returns the graph's current animation time, set by the last
// AdvanceAnimations call.
func (g *Graph) Now() time.Time {
	return g.now
}
