package plunge

import (
	"math"

	"github.com/chazu/dannycam/pkg/gcode"
	"github.com/chazu/dannycam/pkg/geom"
)

// Ramp zig-zags down along the first segment of the curve, one tool
// diameter out and back, until it reaches depth at the segment start.
type Ramp struct{}

// Name implements Strategy.
func (r *Ramp) Name() string { return "ramp" }

// Plan implements Strategy.
func (r *Ramp) Plan(c geom.Curve, p Params) Outcome {
	if c.Len() < 2 {
		return declinef("curve has no segments")
	}
	seg := c.Segment(1)
	if !seg.Kind.Valid() {
		return declinef("first segment has unrecognized kind %s", seg.Kind)
	}
	if l := seg.Length(); l < p.ToolDiameter {
		return declinef("first segment is %.3f mm, shorter than the %.3f mm tool", l, p.ToolDiameter)
	}
	dz := math.Sin(radians(p.RampAngle)) * p.ToolDiameter
	if dz <= 0 {
		return declinef("no descent per pass (angle %.2f)", p.RampAngle)
	}

	near := seg.Start
	far := seg.PointAt(p.ToolDiameter)

	moves := []gcode.Move{
		gcode.RapidTo(gcode.XY(near.X, near.Y)),
		gcode.RapidTo(gcode.Z(p.StartZ)),
	}
	atStart := true
	pass := func(z float64) {
		if atStart {
			moves = append(moves, rampMove(seg, near, far, z, true))
		} else {
			moves = append(moves, rampMove(seg, far, near, z, false))
		}
		atStart = !atStart
	}
	descend(p.StartZ, p.DestZ, dz, pass)
	if !atStart {
		pass(p.DestZ)
	}

	return Succeeded{Moves: moves, Curve: c}
}

// rampMove follows seg from one end of the ramp to the other. Arc ramps
// reverse their winding on the way back.
func rampMove(seg geom.Segment, from, to geom.Point, z float64, forward bool) gcode.Move {
	if !seg.Kind.IsArc() {
		return gcode.FeedTo(gcode.XYZ(to.X, to.Y, z))
	}
	ccw := seg.Kind == geom.ArcCCW
	if !forward {
		ccw = !ccw
	}
	return gcode.ArcTo(seg.Center, from, to, gcode.Some(z), ccw)
}
