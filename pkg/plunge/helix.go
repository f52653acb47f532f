package plunge

import (
	"math"

	"github.com/chazu/dannycam/pkg/camerr"
	"github.com/chazu/dannycam/pkg/gcode"
	"github.com/chazu/dannycam/pkg/geom"
	"github.com/chazu/dannycam/pkg/kernel"
)

// Helix descends in full counterclockwise circles inside the curve. The
// helix center is the first point of the curve shrunk by the tool radius.
type Helix struct {
	Kernel kernel.Kernel
}

// Name implements Strategy.
func (h *Helix) Name() string { return "helix" }

// Plan implements Strategy.
func (h *Helix) Plan(c geom.Curve, p Params) Outcome {
	if h.Kernel == nil {
		return declinef("no geometry kernel")
	}
	if !c.Closed() {
		return declinef("curve is open")
	}
	toolR := p.ToolDiameter / 2

	region, err := h.Kernel.Shrink(c, toolR)
	if err != nil {
		return Declined{
			Reason: "geometry engine query failed",
			Err:    camerr.Wrap(err, camerr.GeometryEngine, "shrink by tool radius"),
		}
	}
	center, ok := region.FirstPoint()
	if !ok {
		return declinef("no interior room for a %.3f mm tool", p.ToolDiameter)
	}

	radius := toolR * p.Fudge
	dz := math.Sin(radians(p.RampAngle)) * (math.Pi * p.ToolDiameter * p.Fudge)
	if dz <= 0 || radius <= 0 {
		return declinef("no descent per revolution (angle %.2f, fudge %.2f)", p.RampAngle, p.Fudge)
	}

	rotated := c.RotatedTo(c.NearestVertex(center, toolR))
	entry := center.Add(geom.Pt(radius, 0))

	moves := []gcode.Move{
		gcode.RapidTo(gcode.XY(entry.X, entry.Y)),
		gcode.RapidTo(gcode.Z(p.StartZ)),
	}
	descend(p.StartZ, p.DestZ, dz, func(z float64) {
		moves = append(moves, gcode.ArcTo(center, entry, entry, gcode.Some(z), true))
	})
	start := rotated.Start()
	moves = append(moves, gcode.FeedTo(gcode.XY(start.X, start.Y)))

	return Succeeded{Moves: moves, Curve: rotated}
}
