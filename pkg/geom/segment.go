package geom

import "math"

// coincident is the distance below which two points are treated as the same
// location when deciding whether an arc is a full circle.
const coincident = 1e-9

// Segment is one span of a curve: the path from Start to End described by
// the end vertex's Kind and Center.
type Segment struct {
	Start  Point
	End    Point
	Kind   Kind
	Center Point
}

// Radius returns the arc radius measured from the start point, or 0 for lines.
func (s Segment) Radius() float64 {
	if !s.Kind.IsArc() {
		return 0
	}
	return s.Center.Dist(s.Start)
}

// Sweep returns the signed angle in radians subtended by an arc segment,
// positive for counterclockwise. An arc whose start and end coincide is a
// full circle. Lines and zero-radius arcs sweep 0.
func (s Segment) Sweep() float64 {
	if !s.Kind.IsArc() || s.Radius() == 0 {
		return 0
	}
	if s.Start.Near(s.End, coincident) {
		if s.Kind == ArcCCW {
			return 2 * math.Pi
		}
		return -2 * math.Pi
	}
	d := s.End.Sub(s.Center).Angle() - s.Start.Sub(s.Center).Angle()
	if s.Kind == ArcCCW {
		for d <= 0 {
			d += 2 * math.Pi
		}
	} else {
		for d >= 0 {
			d -= 2 * math.Pi
		}
	}
	return d
}

// Length returns the path length of the segment.
func (s Segment) Length() float64 {
	if s.Kind.IsArc() {
		return s.Radius() * math.Abs(s.Sweep())
	}
	return s.Start.Dist(s.End)
}

// PointAt returns the point reached after travelling d along the segment
// from its start. d is not clamped.
func (s Segment) PointAt(d float64) Point {
	if s.Kind.IsArc() {
		r := s.Radius()
		if r == 0 {
			return s.Start
		}
		theta := d / r
		if s.Kind == ArcCW {
			theta = -theta
		}
		return s.Start.RotateAbout(s.Center, theta)
	}
	return s.Start.Add(s.End.Sub(s.Start).Normalize().Scale(d))
}

// area returns the segment's contribution to the signed area of a closed
// curve: the shoelace term for the chord plus the circular segment between
// chord and arc.
func (s Segment) area() float64 {
	a := 0.5 * s.Start.Cross(s.End)
	if s.Kind.IsArc() {
		r := s.Radius()
		theta := s.Sweep()
		a += 0.5 * r * r * (theta - math.Sin(theta))
	}
	return a
}
