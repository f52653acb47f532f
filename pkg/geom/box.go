package geom

import "math"

// Box is an axis-aligned bounding box.
type Box struct {
	Min Point
	Max Point
}

// EmptyBox returns a box that contains nothing; extending it with any point
// yields that point's box.
func EmptyBox() Box {
	return Box{
		Min: Pt(math.Inf(1), math.Inf(1)),
		Max: Pt(math.Inf(-1), math.Inf(-1)),
	}
}

// IsEmpty reports whether the box contains no points.
func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Extend returns the smallest box containing b and p.
func (b Box) Extend(p Point) Box {
	return Box{
		Min: Pt(math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)),
		Max: Pt(math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)),
	}
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(o Box) Box {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}

// Size returns the width and height of the box.
func (b Box) Size() Point {
	if b.IsEmpty() {
		return Point{}
	}
	return b.Max.Sub(b.Min)
}
