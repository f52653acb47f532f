package geom

import (
	"fmt"
	"math"
)

// Severity indicates whether a validation finding blocks compilation or is
// merely informational.
type Severity int

const (
	SeverityError   Severity = iota // blocks compilation
	SeverityWarning                 // informational
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("Severity(%d)", int(s))
	}
}

// Finding describes a single structural problem with a toolpath.
type Finding struct {
	Curve    int // index of the offending curve
	Vertex   int // index of the offending vertex, -1 for curve-level findings
	Message  string
	Severity Severity
}

func (f Finding) Error() string {
	if f.Vertex < 0 {
		return fmt.Sprintf("[%s] curve %d: %s", f.Severity, f.Curve, f.Message)
	}
	return fmt.Sprintf("[%s] curve %d vertex %d: %s", f.Severity, f.Curve, f.Vertex, f.Message)
}

// Validate runs the structural checks on a toolpath. It never mutates tp.
// Segment kinds and arc radii are not checked here; the compiler rejects
// those while emitting.
func Validate(tp Toolpath) []Finding {
	var out []Finding
	for ci, c := range tp {
		out = append(out, validateCurve(ci, c)...)
	}
	return out
}

// Errors filters findings down to the blocking ones.
func Errors(fs []Finding) []Finding {
	var out []Finding
	for _, f := range fs {
		if f.Severity == SeverityError {
			out = append(out, f)
		}
	}
	return out
}

func validateCurve(ci int, c Curve) []Finding {
	var out []Finding

	if c.Len() < 2 {
		return append(out, Finding{
			Curve:    ci,
			Vertex:   -1,
			Message:  fmt.Sprintf("curve has %d vertices, need at least 2", c.Len()),
			Severity: SeverityError,
		})
	}

	for vi, v := range c.Vertices {
		if !finite(v.P) || (v.Kind.IsArc() && !finite(v.Center)) {
			out = append(out, Finding{
				Curve:    ci,
				Vertex:   vi,
				Message:  "non-finite coordinate",
				Severity: SeverityError,
			})
			continue
		}
		if vi > 0 && v.Kind.IsArc() && c.Segment(vi).Radius() == 0 {
			out = append(out, Finding{
				Curve:    ci,
				Vertex:   vi,
				Message:  "arc has zero radius",
				Severity: SeverityError,
			})
		}
	}

	if !c.Closed() {
		out = append(out, Finding{
			Curve:    ci,
			Vertex:   -1,
			Message:  fmt.Sprintf("curve is open (start %s, end %s)", c.Start(), c.End()),
			Severity: SeverityWarning,
		})
	}

	return out
}

func finite(p Point) bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}
