package plunge

import (
	"github.com/chazu/dannycam/pkg/gcode"
	"github.com/chazu/dannycam/pkg/geom"
)

// Straight plunges vertically at the curve start. It never declines.
type Straight struct{}

// Name implements Strategy.
func (s *Straight) Name() string { return "straight" }

// Plan implements Strategy.
func (s *Straight) Plan(c geom.Curve, p Params) Outcome {
	start := c.Start()
	return Succeeded{
		Moves: []gcode.Move{
			gcode.RapidTo(gcode.XY(start.X, start.Y)),
			gcode.RapidTo(gcode.Z(p.StartZ)),
			gcode.FeedTo(gcode.Z(p.DestZ)),
		},
		Curve: c,
	}
}
