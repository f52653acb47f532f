package plunge

import (
	"fmt"
	"math"
	"strings"

	"github.com/chazu/dannycam/pkg/gcode"
	"github.com/chazu/dannycam/pkg/geom"
	"github.com/chazu/dannycam/pkg/kernel"
)

const (
	// DefaultRampAngle is the descent angle, in degrees, for helix and ramp entries.
	DefaultRampAngle = 5.0

	// DefaultFudge shrinks the helix radius to leave clearance to the wall.
	DefaultFudge = 0.95
)

// Params describes one entry: the tool and the Z range to descend through.
type Params struct {
	ToolDiameter float64
	StartZ       float64 // height above the material where descent begins
	DestZ        float64 // working depth
	RampAngle    float64 // degrees
	Fudge        float64
}

// withDefaults fills unset tuning values.
func (p Params) withDefaults() Params {
	if p.RampAngle == 0 {
		p.RampAngle = DefaultRampAngle
	}
	if p.Fudge == 0 {
		p.Fudge = DefaultFudge
	}
	return p
}

// Outcome is the tagged result of a strategy: Succeeded or Declined.
type Outcome interface {
	outcome() // marker method restricting implementations to this package
}

// Succeeded carries the entry moves and the curve to cut afterwards, which
// may be a rotated copy of the input so cutting starts near the entry.
type Succeeded struct {
	Moves []gcode.Move
	Curve geom.Curve
}

func (Succeeded) outcome() {}

// Declined means the strategy does not apply to this curve. Err is set
// when the decline was caused by a failed query rather than the geometry.
type Declined struct {
	Reason string
	Err    error
}

func (Declined) outcome() {}

func declinef(format string, args ...interface{}) Declined {
	return Declined{Reason: fmt.Sprintf(format, args...)}
}

// Strategy is one way of entering the material.
type Strategy interface {
	Name() string
	Plan(c geom.Curve, p Params) Outcome
}

// Decline records why a strategy was skipped.
type Decline struct {
	Strategy string
	Reason   string
	Err      error
}

func (d Decline) String() string {
	if d.Err != nil {
		return d.Strategy + ": " + d.Reason + ": " + d.Err.Error()
	}
	return d.Strategy + ": " + d.Reason
}

// Entry is the resolved plan for one curve.
type Entry struct {
	Strategy string
	Moves    []gcode.Move
	Curve    geom.Curve
	Declines []Decline
}

// Planner tries its strategies in order and takes the first success.
type Planner struct {
	Strategies []Strategy
}

// DefaultPlanner returns the helix, ramp, straight chain.
func DefaultPlanner(k kernel.Kernel) *Planner {
	return &Planner{
		Strategies: []Strategy{
			&Helix{Kernel: k},
			&Ramp{},
			&Straight{},
		},
	}
}

// Plan returns the entry for c. It fails only when every strategy
// declines, which cannot happen while Straight is in the chain.
func (pl *Planner) Plan(c geom.Curve, p Params) (Entry, error) {
	p = p.withDefaults()
	var declines []Decline
	for _, s := range pl.Strategies {
		switch out := s.Plan(c, p).(type) {
		case Succeeded:
			return Entry{
				Strategy: s.Name(),
				Moves:    out.Moves,
				Curve:    out.Curve,
				Declines: declines,
			}, nil
		case Declined:
			declines = append(declines, Decline{Strategy: s.Name(), Reason: out.Reason, Err: out.Err})
		}
	}
	reasons := make([]string, len(declines))
	for i, d := range declines {
		reasons[i] = d.String()
	}
	return Entry{Declines: declines}, fmt.Errorf("plunge: every strategy declined (%s)", strings.Join(reasons, "; "))
}

// descend calls step once per level from startZ down to destZ, each level
// dz lower than the previous and the last one clamped to destZ.
func descend(startZ, destZ, dz float64, step func(z float64)) {
	z := startZ
	for z > destZ {
		z = math.Max(z-dz, destZ)
		step(z)
	}
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
