package kernel

import "github.com/chazu/dannycam/pkg/geom"

// Region is the result of an offset query: zero or more closed curves.
type Region struct {
	Curves []geom.Curve `json:"curves"`
}

// IsEmpty returns true if the region has no geometry.
func (r Region) IsEmpty() bool {
	for _, c := range r.Curves {
		if c.Len() > 0 {
			return false
		}
	}
	return true
}

// CurveCount returns the number of curves.
func (r Region) CurveCount() int {
	return len(r.Curves)
}

// FirstPoint returns the first point of the first non-empty curve.
func (r Region) FirstPoint() (geom.Point, bool) {
	for _, c := range r.Curves {
		if c.Len() > 0 {
			return c.Start(), true
		}
	}
	return geom.Point{}, false
}
