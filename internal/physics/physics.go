// Package physics provides the bounds, overlap and smoothing helpers used by
// the simulation.
package physics

// Rect is an axis-aligned rectangle in play-area coordinates.
// Y grows downward, so Top < Bottom.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectAt returns the rectangle with top-left corner (x, y) and the given size.
func RectAt(x, y, width, height float64) Rect {
	return Rect{Left: x, Top: y, Right: x + width, Bottom: y + height}
}

// CircleBounds returns the bounding square of a circle.
func CircleBounds(cx, cy, radius float64) Rect {
	return Rect{Left: cx - radius, Top: cy - radius, Right: cx + radius, Bottom: cy + radius}
}

// Overlaps reports whether two rectangles overlap with positive area.
// Touching edges do not count.
func (r Rect) Overlaps(o Rect) bool {
	return r.Bottom > o.Top &&
		r.Top < o.Bottom &&
		r.Right > o.Left &&
		r.Left < o.Right
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 {
	return r.Right - r.Left
}

// Height returns the vertical extent.
func (r Rect) Height() float64 {
	return r.Bottom - r.Top
}

// Clamp limits v to [lo, hi]. If the range is inverted, lo wins.
func Clamp(v, lo, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Approach moves current toward target by factor of the remaining distance.
// One step of a discrete first-order low-pass filter.
func Approach(current, target, factor float64) float64 {
	return current + (target-current)*factor
}
