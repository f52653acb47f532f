package sdfx

import (
	"math"

	"github.com/chazu/dannycam/pkg/geom"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// maxArcSteps bounds the number of chords a single arc is split into.
const maxArcSteps = 720

// flatten converts a closed curve into polygon vertices for sdf.Polygon2D.
// Arcs are split into chords deviating at most tol from the true arc.
// The closing vertex and zero-length edges are dropped.
func flatten(c geom.Curve, tol float64) []v2.Vec {
	if c.Len() == 0 {
		return nil
	}
	pts := []geom.Point{c.Start()}
	for _, s := range c.Segments() {
		if s.Kind.IsArc() {
			pts = append(pts, arcPoints(s, tol)...)
		} else {
			pts = append(pts, s.End)
		}
	}

	out := make([]v2.Vec, 0, len(pts))
	for i, p := range pts {
		if i > 0 && p.Near(pts[i-1], tol/10) {
			continue
		}
		out = append(out, v2.Vec{X: p.X, Y: p.Y})
	}
	if n := len(out); n > 1 {
		first, last := out[0], out[n-1]
		if math.Hypot(first.X-last.X, first.Y-last.Y) <= geom.ClosedTolerance {
			out = out[:n-1]
		}
	}
	return out
}

// arcPoints returns the chord end points of an arc segment, excluding its start.
func arcPoints(s geom.Segment, tol float64) []geom.Point {
	r := s.Radius()
	sweep := s.Sweep()
	if r == 0 || sweep == 0 {
		return []geom.Point{s.End}
	}
	steps := 1
	if tol < r {
		maxStep := 2 * math.Acos(1-tol/r)
		steps = int(math.Ceil(math.Abs(sweep) / maxStep))
	}
	if steps < 4 && math.Abs(sweep) > math.Pi/2 {
		steps = 4
	}
	if steps > maxArcSteps {
		steps = maxArcSteps
	}
	out := make([]geom.Point, 0, steps)
	for i := 1; i < steps; i++ {
		out = append(out, s.Start.RotateAbout(s.Center, sweep*float64(i)/float64(steps)))
	}
	return append(out, s.End)
}
