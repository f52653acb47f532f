package gcode

import (
	"strconv"
	"strings"
)

// DefaultPrecision is the number of decimals used for every numeric field.
const DefaultPrecision = 3

// Context is the immutable machine context for one compile.
type Context struct {
	FeedXY    float64 // mm/min for moves with an X or Y component
	FeedZ     float64 // mm/min for pure Z moves
	SafeZ     float64 // retract height in mm
	Precision int     // decimals for every numeric field
}

// NewContext returns a Context. A negative precision selects DefaultPrecision.
func NewContext(feedXY, feedZ, safeZ float64, precision int) Context {
	if precision < 0 {
		precision = DefaultPrecision
	}
	return Context{
		FeedXY:    feedXY,
		FeedZ:     feedZ,
		SafeZ:     safeZ,
		Precision: precision,
	}
}

// Num formats v with the context precision. Negative zero is written as zero.
func (c Context) Num(v float64) string {
	s := strconv.FormatFloat(v, 'f', c.Precision, 64)
	if strings.HasPrefix(s, "-") && strings.Trim(s[1:], "0.") == "" {
		return s[1:]
	}
	return s
}
