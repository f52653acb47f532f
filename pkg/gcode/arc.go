package gcode

import (
	"math"

	"github.com/chazu/dannycam/pkg/camerr"
	"github.com/chazu/dannycam/pkg/geom"
)

// ArcTolerance is the largest allowed difference, in mm, between the
// start and end radius of an arc.
const ArcTolerance = 0.01

// ValidateArc checks that start and end are equidistant from center.
func ValidateArc(center, start, end geom.Point) error {
	rs := center.Dist(start)
	re := center.Dist(end)
	if math.Abs(rs-re) >= ArcTolerance {
		return camerr.Newf(camerr.InvalidArc,
			"start radius %.4f and end radius %.4f differ by %.4f (limit %.2f)",
			rs, re, math.Abs(rs-re), ArcTolerance).WithValue(math.Abs(rs - re))
	}
	return nil
}
