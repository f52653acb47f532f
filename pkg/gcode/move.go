package gcode

import (
	"fmt"

	"github.com/chazu/dannycam/pkg/geom"
)

// MoveKind distinguishes the three kinds of machine motion.
type MoveKind int

const (
	MoveRapid MoveKind = iota // G00 positioning
	MoveFeed                  // G01 linear cut
	MoveArc                   // G02/G03 circular cut
)

func (k MoveKind) String() string {
	switch k {
	case MoveRapid:
		return "rapid"
	case MoveFeed:
		return "feed"
	case MoveArc:
		return "arc"
	default:
		return fmt.Sprintf("MoveKind(%d)", int(k))
	}
}

// Move is one machine motion, not yet rendered. Planners return move
// sequences so that nothing is written until a whole sequence is accepted.
type Move struct {
	Kind MoveKind

	// Axes is the target of a rapid or feed move.
	Axes Axes

	// Arc fields.
	Center geom.Point
	Start  geom.Point
	End    geom.Point
	EndZ   Axis
	CCW    bool
}

// RapidTo returns a rapid move.
func RapidTo(a Axes) Move {
	return Move{Kind: MoveRapid, Axes: a}
}

// FeedTo returns a linear feed move.
func FeedTo(a Axes) Move {
	return Move{Kind: MoveFeed, Axes: a}
}

// ArcTo returns an arc move from start to end around center, optionally
// helixing to endZ.
func ArcTo(center, start, end geom.Point, endZ Axis, ccw bool) Move {
	return Move{
		Kind:   MoveArc,
		Center: center,
		Start:  start,
		End:    end,
		EndZ:   endZ,
		CCW:    ccw,
	}
}
