package gcode

import (
	"fmt"
	"strings"

	"github.com/chazu/dannycam/pkg/geom"
)

// Rapid renders a non-cutting positioning move touching only the supplied
// axes. It returns "" when no axis is supplied.
func Rapid(ctx Context, a Axes) string {
	if a.Empty() {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("G00")
	writeAxes(&sb, ctx, a)
	return sb.String()
}

// Feed renders a linear cutting move. Pure Z moves use the Z feed rate,
// anything with an X or Y component uses the XY feed rate. It returns ""
// when no axis is supplied.
func Feed(ctx Context, a Axes) string {
	if a.Empty() {
		return ""
	}
	rate := ctx.FeedZ
	if a.planar() {
		rate = ctx.FeedXY
	}
	var sb strings.Builder
	sb.WriteString("G01 F")
	sb.WriteString(ctx.Num(rate))
	writeAxes(&sb, ctx, a)
	return sb.String()
}

// Arc renders a circular move from start to end around center, helixing to
// endZ when it is set. The arc is validated first; an invalid arc yields an
// InvalidArc error and no text.
func Arc(ctx Context, center, start, end geom.Point, endZ Axis, ccw bool) (string, error) {
	if err := ValidateArc(center, start, end); err != nil {
		return "", err
	}
	code := "G02"
	if ccw {
		code = "G03"
	}
	var sb strings.Builder
	sb.WriteString(code)
	sb.WriteString(" F")
	sb.WriteString(ctx.Num(ctx.FeedXY))
	sb.WriteString(" X")
	sb.WriteString(ctx.Num(end.X))
	sb.WriteString(" Y")
	sb.WriteString(ctx.Num(end.Y))
	if z, ok := endZ.Get(); ok {
		sb.WriteString(" Z")
		sb.WriteString(ctx.Num(z))
	}
	off := center.Sub(start)
	sb.WriteString(" I")
	sb.WriteString(ctx.Num(off.X))
	sb.WriteString(" J")
	sb.WriteString(ctx.Num(off.Y))
	return sb.String(), nil
}

// GoToSafeHeight renders a Z-only rapid to the safe height at the Z feed rate.
func GoToSafeHeight(ctx Context) string {
	return "G00 F" + ctx.Num(ctx.FeedZ) + " Z" + ctx.Num(ctx.SafeZ)
}

// Emit renders a single move.
func Emit(ctx Context, m Move) (string, error) {
	switch m.Kind {
	case MoveRapid:
		return Rapid(ctx, m.Axes), nil
	case MoveFeed:
		return Feed(ctx, m.Axes), nil
	case MoveArc:
		return Arc(ctx, m.Center, m.Start, m.End, m.EndZ, m.CCW)
	default:
		return "", fmt.Errorf("gcode: unknown move kind %s", m.Kind)
	}
}

func writeAxes(sb *strings.Builder, ctx Context, a Axes) {
	if x, ok := a.X.Get(); ok {
		sb.WriteString(" X")
		sb.WriteString(ctx.Num(x))
	}
	if y, ok := a.Y.Get(); ok {
		sb.WriteString(" Y")
		sb.WriteString(ctx.Num(y))
	}
	if z, ok := a.Z.Get(); ok {
		sb.WriteString(" Z")
		sb.WriteString(ctx.Num(z))
	}
}
