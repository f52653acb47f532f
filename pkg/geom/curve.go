package geom

import "math"

// ClosedTolerance is the distance within which a curve's end must meet its
// start for the curve to count as closed.
const ClosedTolerance = 1e-3

// Orientation is the winding direction of a closed curve.
type Orientation int

const (
	Degenerate       Orientation = iota // zero signed area
	Clockwise                           // negative signed area
	CounterClockwise                    // positive signed area
)

func (o Orientation) String() string {
	switch o {
	case Clockwise:
		return "clockwise"
	case CounterClockwise:
		return "counterclockwise"
	default:
		return "degenerate"
	}
}

// Curve is an ordered chain of segments. Vertices[0] carries the start
// point; every following vertex ends one segment.
type Curve struct {
	Vertices []Vertex `json:"vertices"`
}

// NewCurve builds a curve from a start point and segment end vertices.
func NewCurve(start Point, segs ...Vertex) Curve {
	vs := make([]Vertex, 0, len(segs)+1)
	vs = append(vs, Vertex{P: start, Kind: Line})
	vs = append(vs, segs...)
	return Curve{Vertices: vs}
}

// Len returns the number of vertices.
func (c Curve) Len() int {
	return len(c.Vertices)
}

// Start returns the first point of the curve.
func (c Curve) Start() Point {
	if len(c.Vertices) == 0 {
		return Point{}
	}
	return c.Vertices[0].P
}

// End returns the last point of the curve.
func (c Curve) End() Point {
	if len(c.Vertices) == 0 {
		return Point{}
	}
	return c.Vertices[len(c.Vertices)-1].P
}

// Closed reports whether the curve ends where it starts and has at least
// one segment.
func (c Curve) Closed() bool {
	return len(c.Vertices) >= 2 && c.Start().Near(c.End(), ClosedTolerance)
}

// Segment returns the segment ending at vertex i (1 <= i < Len()).
func (c Curve) Segment(i int) Segment {
	v := c.Vertices[i]
	return Segment{
		Start:  c.Vertices[i-1].P,
		End:    v.P,
		Kind:   v.Kind,
		Center: v.Center,
	}
}

// Segments returns all segments of the curve in order.
func (c Curve) Segments() []Segment {
	if len(c.Vertices) < 2 {
		return nil
	}
	segs := make([]Segment, 0, len(c.Vertices)-1)
	for i := 1; i < len(c.Vertices); i++ {
		segs = append(segs, c.Segment(i))
	}
	return segs
}

// Length returns the total path length of the curve.
func (c Curve) Length() float64 {
	var l float64
	for _, s := range c.Segments() {
		l += s.Length()
	}
	return l
}

// SignedArea returns the area enclosed by the curve, positive when it winds
// counterclockwise. Open curves are closed with an implicit chord.
func (c Curve) SignedArea() float64 {
	var a float64
	for _, s := range c.Segments() {
		a += s.area()
	}
	a += 0.5 * c.End().Cross(c.Start())
	return a
}

// Orientation returns the winding direction of the curve.
func (c Curve) Orientation() Orientation {
	a := c.SignedArea()
	switch {
	case a > 0:
		return CounterClockwise
	case a < 0:
		return Clockwise
	default:
		return Degenerate
	}
}

// Reversed returns the curve traced backwards: segment order inverted and
// arc directions flipped. Reversing twice yields the original curve.
func (c Curve) Reversed() Curve {
	n := len(c.Vertices)
	if n == 0 {
		return Curve{}
	}
	out := make([]Vertex, 0, n)
	first := c.Vertices[0]
	out = append(out, Vertex{P: c.Vertices[n-1].P, Kind: first.Kind, Center: first.Center})
	for i := n - 1; i >= 1; i-- {
		v := c.Vertices[i]
		out = append(out, Vertex{P: c.Vertices[i-1].P, Kind: v.Kind.Flip(), Center: v.Center})
	}
	return Curve{Vertices: out}
}

// RotatedTo returns a closed curve cyclically shifted so that it starts at
// vertex k. Open curves, and k values that already name the start, are
// returned as a copy.
func (c Curve) RotatedTo(k int) Curve {
	n := len(c.Vertices)
	if !c.Closed() || k <= 0 || k >= n-1 {
		return c.Clone()
	}
	out := make([]Vertex, 0, n)
	first := c.Vertices[0]
	out = append(out, Vertex{P: c.Vertices[k].P, Kind: first.Kind, Center: first.Center})
	out = append(out, c.Vertices[k+1:]...)
	out = append(out, c.Vertices[1:k+1]...)
	return Curve{Vertices: out}
}

// NearestVertex picks the index of the vertex to start from when entering
// near p: the first vertex within radius of p if any, otherwise the closest
// one. The duplicated closing vertex of a closed curve is never returned.
func (c Curve) NearestVertex(p Point, radius float64) int {
	n := len(c.Vertices)
	if c.Closed() {
		n--
	}
	best, bestDist := 0, math.Inf(1)
	for i := 0; i < n; i++ {
		d := c.Vertices[i].P.Dist(p)
		if d < radius {
			return i
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

// Bounds returns the bounding box of the curve. Arcs contribute their
// extreme points on each axis they sweep across.
func (c Curve) Bounds() Box {
	b := EmptyBox()
	if len(c.Vertices) == 0 {
		return b
	}
	b = b.Extend(c.Start())
	for _, s := range c.Segments() {
		b = b.Extend(s.End)
		if !s.Kind.IsArc() {
			continue
		}
		r := s.Radius()
		sweep := s.Sweep()
		a0 := s.Start.Sub(s.Center).Angle()
		for q := 0; q < 4; q++ {
			ang := float64(q) * math.Pi / 2
			if angleWithin(ang, a0, sweep) {
				b = b.Extend(s.Center.Add(Pt(math.Cos(ang), math.Sin(ang)).Scale(r)))
			}
		}
	}
	return b
}

// angleWithin reports whether ang lies on the arc starting at a0 and
// sweeping by sweep radians.
func angleWithin(ang, a0, sweep float64) bool {
	d := ang - a0
	if sweep >= 0 {
		for d < 0 {
			d += 2 * math.Pi
		}
		for d >= 2*math.Pi {
			d -= 2 * math.Pi
		}
		return d <= sweep
	}
	for d > 0 {
		d -= 2 * math.Pi
	}
	for d <= -2*math.Pi {
		d += 2 * math.Pi
	}
	return d >= sweep
}

// Clone returns a deep copy of the curve.
func (c Curve) Clone() Curve {
	vs := make([]Vertex, len(c.Vertices))
	copy(vs, c.Vertices)
	return Curve{Vertices: vs}
}
