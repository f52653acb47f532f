package engine

import (
	"fmt"
	"strings"

	"github.com/chazu/dannycam/pkg/geom"
	zygo "github.com/glycerine/zygomys/zygo"
)

// ---------------------------------------------------------------------------
// Values passed between builtins
// ---------------------------------------------------------------------------

type sexpPoint struct {
	p geom.Point
}

func (s *sexpPoint) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pt %g %g)", s.p.X, s.p.Y)
}
func (s *sexpPoint) Type() *zygo.RegisteredType { return nil }

// sexpVertex is one segment end, produced by line, arc-cw and arc-ccw.
type sexpVertex struct {
	v geom.Vertex
}

func (s *sexpVertex) SexpString(ps *zygo.PrintState) string {
	if s.v.Kind.IsArc() {
		return fmt.Sprintf("(%s %g %g :center (pt %g %g))", s.v.Kind, s.v.P.X, s.v.P.Y, s.v.Center.X, s.v.Center.Y)
	}
	return fmt.Sprintf("(line %g %g)", s.v.P.X, s.v.P.Y)
}
func (s *sexpVertex) Type() *zygo.RegisteredType { return nil }

// sexpCurve refers to a curve already added to the job.
type sexpCurve struct {
	index int
	c     geom.Curve
}

func (s *sexpCurve) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(curve #%d, %d vertices)", s.index, s.c.Len())
}
func (s *sexpCurve) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Keyword arguments
// ---------------------------------------------------------------------------

// isKW checks if a Sexp is a preprocessed keyword string.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

type kwArgs struct {
	kw         map[string]zygo.Sexp
	order      []string // keywords in source order
	positional []zygo.Sexp
}

// parseArgs separates keyword arguments from positional ones. A keyword
// at the end of the list has the value nil.
func parseArgs(args []zygo.Sexp) kwArgs {
	res := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		name, ok := isKW(args[i])
		if !ok {
			res.positional = append(res.positional, args[i])
			continue
		}
		var val zygo.Sexp = zygo.SexpNull
		if i+1 < len(args) {
			val = args[i+1]
			i++
		}
		if _, seen := res.kw[name]; !seen {
			res.order = append(res.order, name)
		}
		res.kw[name] = val
	}
	return res
}

// ---------------------------------------------------------------------------
// Value extraction
// ---------------------------------------------------------------------------

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nothing"
	}
	return fmt.Sprintf("%T (%s)", s, s.SexpString(nil))
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

// toPoint accepts a (pt x y) value.
func toPoint(s zygo.Sexp) (geom.Point, error) {
	if p, ok := s.(*sexpPoint); ok {
		return p.p, nil
	}
	return geom.Point{}, fmt.Errorf("expected point, got %s", describe(s))
}

// takePoint reads one point from the front of args: either a (pt x y)
// value or two numbers. It returns the remaining arguments.
func takePoint(args []zygo.Sexp) (geom.Point, []zygo.Sexp, error) {
	if len(args) == 0 {
		return geom.Point{}, nil, fmt.Errorf("missing point")
	}
	if p, ok := args[0].(*sexpPoint); ok {
		return p.p, args[1:], nil
	}
	if len(args) < 2 {
		return geom.Point{}, nil, fmt.Errorf("expected point or x y, got %s", describe(args[0]))
	}
	x, err := toFloat64(args[0])
	if err != nil {
		return geom.Point{}, nil, fmt.Errorf("x: %w", err)
	}
	y, err := toFloat64(args[1])
	if err != nil {
		return geom.Point{}, nil, fmt.Errorf("y: %w", err)
	}
	return geom.Pt(x, y), args[2:], nil
}

// toSetting converts a setting value to a Go value.
func toSetting(s zygo.Sexp) (interface{}, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	case *zygo.SexpBool:
		return v.Val, nil
	case *zygo.SexpStr:
		if name, ok := isKW(v); ok {
			return name, nil
		}
		return v.S, nil
	}
	return nil, fmt.Errorf("expected number, boolean or string, got %s", describe(s))
}

// ---------------------------------------------------------------------------
// Builtin registration
// ---------------------------------------------------------------------------

// registerBuiltins installs the job language into a zygomys environment.
// Curve builtins append to job.Toolpath as they run, in call order.
//
// Source code must be preprocessed with preprocessSource() before
// evaluation so that :keyword tokens reach the builtins as strings.
func registerBuiltins(env *zygo.Zlisp, job *Job) {
	addCurve := func(c geom.Curve) zygo.Sexp {
		job.Toolpath = append(job.Toolpath, c)
		return &sexpCurve{index: len(job.Toolpath) - 1, c: c}
	}

	// (pt 10 20)
	env.AddFunction("pt", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("pt requires exactly 2 arguments, got %d", len(args))
		}
		p, _, err := takePoint(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pt: %w", err)
		}
		return &sexpPoint{p: p}, nil
	})

	// (line 10 0) or (line (pt 10 0))
	env.AddFunction("line", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		p, rest, err := takePoint(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("line: %w", err)
		}
		if len(rest) > 0 {
			return zygo.SexpNull, fmt.Errorf("line: unexpected argument %s", describe(rest[0]))
		}
		return &sexpVertex{v: geom.Vertex{P: p, Kind: geom.Line}}, nil
	})

	// (arc-cw 10 0 :center (pt 5 0)), (arc-cw 10 0 5 0) or
	// (arc-cw (pt 10 0) (pt 5 0)). Registered with underscores; the
	// preprocessor rewrites the hyphenated names.
	arc := func(kind geom.Kind) func(*zygo.Zlisp, string, []zygo.Sexp) (zygo.Sexp, error) {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			fn := strings.ReplaceAll(name, "_", "-")
			pa := parseArgs(args)
			end, rest, err := takePoint(pa.positional)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: end: %w", fn, err)
			}
			var center geom.Point
			if v, ok := pa.kw["center"]; ok {
				center, err = toPoint(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: center: %w", fn, err)
				}
			} else {
				center, rest, err = takePoint(rest)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: center: %w", fn, err)
				}
			}
			if len(rest) > 0 {
				return zygo.SexpNull, fmt.Errorf("%s: unexpected argument %s", fn, describe(rest[0]))
			}
			return &sexpVertex{v: geom.Vertex{P: end, Kind: kind, Center: center}}, nil
		}
	}
	env.AddFunction("arc_cw", arc(geom.ArcCW))
	env.AddFunction("arc_ccw", arc(geom.ArcCCW))

	// (curve (pt 0 0) (line 10 0) (arc-ccw ...) ...)
	env.AddFunction("curve", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("curve requires a start point and at least one segment")
		}
		start, err := toPoint(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("curve: start: %w", err)
		}
		segs := make([]geom.Vertex, 0, len(args)-1)
		for i, a := range args[1:] {
			v, ok := a.(*sexpVertex)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("curve: segment %d: expected line or arc, got %s", i+1, describe(a))
			}
			segs = append(segs, v.v)
		}
		return addCurve(geom.NewCurve(start, segs...)), nil
	})

	// (polygon (pt 0 0) (pt 10 0) (pt 10 10)), closed automatically.
	env.AddFunction("polygon", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 3 {
			return zygo.SexpNull, fmt.Errorf("polygon requires at least 3 points, got %d", len(args))
		}
		pts := make([]geom.Point, len(args))
		for i, a := range args {
			p, err := toPoint(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("polygon: point %d: %w", i, err)
			}
			pts[i] = p
		}
		segs := make([]geom.Vertex, 0, len(pts))
		for _, p := range pts[1:] {
			segs = append(segs, geom.Vertex{P: p, Kind: geom.Line})
		}
		if !pts[len(pts)-1].Near(pts[0], geom.ClosedTolerance) {
			segs = append(segs, geom.Vertex{P: pts[0], Kind: geom.Line})
		}
		return addCurve(geom.NewCurve(pts[0], segs...)), nil
	})

	// (rect x y width height), counterclockwise from the lower left corner.
	env.AddFunction("rect", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 4 {
			return zygo.SexpNull, fmt.Errorf("rect requires x y width height, got %d arguments", len(args))
		}
		var v [4]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("rect: argument %d: %w", i+1, err)
			}
			v[i] = f
		}
		x, y, w, h := v[0], v[1], v[2], v[3]
		if w <= 0 || h <= 0 {
			return zygo.SexpNull, fmt.Errorf("rect: width and height must be positive, got %g x %g", w, h)
		}
		return addCurve(geom.NewCurve(geom.Pt(x, y),
			geom.L(x+w, y),
			geom.L(x+w, y+h),
			geom.L(x, y+h),
			geom.L(x, y),
		)), nil
	})

	// (circle cx cy r), two counterclockwise half arcs.
	env.AddFunction("circle", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		center, rest, err := takePoint(pa.positional)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: center: %w", err)
		}
		if len(rest) != 1 {
			return zygo.SexpNull, fmt.Errorf("circle requires a center and a radius")
		}
		r, err := toFloat64(rest[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("circle: radius: %w", err)
		}
		if r <= 0 {
			return zygo.SexpNull, fmt.Errorf("circle: radius must be positive, got %g", r)
		}
		cx, cy := center.X, center.Y
		return addCurve(geom.NewCurve(geom.Pt(cx+r, cy),
			geom.CCW(cx-r, cy, cx, cy),
			geom.CCW(cx+r, cy, cx, cy),
		)), nil
	})

	// (setting :tool-diameter 3.175 :climb true)
	env.AddFunction("setting", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) > 0 {
			return zygo.SexpNull, fmt.Errorf("setting: expected :option value pairs, got %s", describe(pa.positional[0]))
		}
		if len(pa.order) == 0 {
			return zygo.SexpNull, fmt.Errorf("setting requires at least one :option value pair")
		}
		for _, k := range pa.order {
			v, err := toSetting(pa.kw[k])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("setting: %s: %w", k, err)
			}
			job.Settings[k] = v
		}
		return zygo.SexpNull, nil
	})
}
