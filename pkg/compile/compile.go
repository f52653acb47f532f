// Package compile assembles a machine program from a toolpath. The
// assembler is a small state machine: it validates its inputs, writes the
// preamble, then for every curve retracts, approaches, plunges and cuts,
// and finally writes the postamble. Any failure aborts the whole compile
// and no program is returned; a partial program is never safe to run.
package compile

import (
	"fmt"

	"github.com/chazu/dannycam/pkg/camerr"
	"github.com/chazu/dannycam/pkg/config"
	"github.com/chazu/dannycam/pkg/gcode"
	"github.com/chazu/dannycam/pkg/geom"
	"github.com/chazu/dannycam/pkg/kernel"
	"github.com/chazu/dannycam/pkg/orient"
	"github.com/chazu/dannycam/pkg/plunge"
	"github.com/kpango/glg"
)

// CurveReport describes how one curve was compiled.
type CurveReport struct {
	Index    int
	Strategy string
	Declines []plunge.Decline
	Reversed bool
	Lines    int // program lines emitted for the curve
}

// Report is what a compile did, for logging and tests.
type Report struct {
	Curves   []CurveReport
	Reversed int
	Trace    []State
	Warnings []string
	Err      error
}

// Compiler turns toolpaths into programs. A Compiler may be reused; each
// Compile call starts from Uninitialized.
type Compiler struct {
	Config  config.Config
	Planner *plunge.Planner
	Log     *glg.Glg // nil logs through glg.Get()

	state  State
	report Report
}

// New returns a Compiler using the default entry strategies backed by k.
func New(cfg config.Config, k kernel.Kernel) *Compiler {
	return &Compiler{
		Config:  cfg,
		Planner: plunge.DefaultPlanner(k),
	}
}

// State returns the current assembler state.
func (c *Compiler) State() State {
	return c.state
}

// Report returns the report of the last Compile call.
func (c *Compiler) Report() Report {
	return c.report
}

func (c *Compiler) log() *glg.Glg {
	if c.Log != nil {
		return c.Log
	}
	return glg.Get()
}

func (c *Compiler) transition(to State) {
	if !canMove(c.state, to) {
		panic(fmt.Sprintf("compile: illegal transition %s -> %s", c.state, to))
	}
	c.log().Debugf("compile: %s -> %s", c.state, to)
	c.state = to
	c.report.Trace = append(c.report.Trace, to)
}

func (c *Compiler) abort(err error) (*gcode.Program, error) {
	c.transition(Aborted)
	c.report.Err = err
	c.log().Errorf("compile aborted: %v", err)
	return nil, err
}

func (c *Compiler) warn(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	c.report.Warnings = append(c.report.Warnings, msg)
	c.log().Warn(msg)
}

// Compile validates the configuration and toolpath and assembles the
// program. On error the returned program is nil.
func (c *Compiler) Compile(tp geom.Toolpath) (*gcode.Program, error) {
	c.state = Uninitialized
	c.report = Report{Trace: []State{Uninitialized}}

	cfg := c.Config
	if err := cfg.Err(); err != nil {
		return c.abort(err)
	}
	for _, w := range cfg.Warnings() {
		c.warn("config: %v", w)
	}
	if c.Planner == nil {
		return c.abort(camerr.New(camerr.InvalidConfiguration, "no plunge planner"))
	}

	findings := geom.Validate(tp)
	if errs := geom.Errors(findings); len(errs) > 0 {
		f := errs[0]
		return c.abort(camerr.New(camerr.InvalidToolpath, f.Message).At(f.Curve, f.Vertex))
	}
	for _, f := range findings {
		c.warn("toolpath: %v", f)
	}

	normalized, reversed := orient.Normalize(tp, cfg.Climb)
	c.report.Reversed = reversed
	ctx := cfg.Context()
	prog := &gcode.Program{}

	c.transition(Preamble)
	for _, line := range gcode.Preamble(cfg.RPM, cfg.PathTolerance) {
		prog.Add(line)
	}
	prog.Blank()

	params := plunge.Params{
		ToolDiameter: cfg.ToolDiameter,
		StartZ:       cfg.TopZ,
		DestZ:        cfg.WorkZ(),
		RampAngle:    cfg.RampAngle,
		Fudge:        cfg.Fudge,
	}
	for i, curve := range normalized {
		before := prog.Len()
		cr, err := c.curve(ctx, prog, i, curve, params)
		if err != nil {
			return c.abort(err)
		}
		cr.Reversed = curve.Orientation() != tp[i].Orientation()
		cr.Lines = prog.Len() - before
		c.report.Curves = append(c.report.Curves, cr)
	}

	c.transition(Postamble)
	prog.Add(gcode.GoToSafeHeight(ctx))
	prog.Blank()
	prog.Add(gcode.EndOfProgram)

	c.transition(Done)
	c.log().Debugf("compile: %d curves, %d reversed, %d lines", len(normalized), reversed, prog.Len())
	return prog, nil
}

// curve emits one curve. The entry is planned before anything is written
// because a helical entry may rotate the curve and move its start point.
func (c *Compiler) curve(ctx gcode.Context, prog *gcode.Program, i int, curve geom.Curve, params plunge.Params) (CurveReport, error) {
	cr := CurveReport{Index: i}

	entry, err := c.Planner.Plan(curve, params)
	if err != nil {
		return cr, camerr.Wrap(err, camerr.InvalidToolpath, "plan entry").At(i, -1)
	}
	cr.Strategy = entry.Strategy
	cr.Declines = entry.Declines
	for _, d := range entry.Declines {
		if d.Err != nil {
			c.warn("curve %d: %v", i, d)
		} else {
			c.log().Debugf("curve %d: %v", i, d)
		}
	}
	c.log().Debugf("curve %d: entering with %s", i, entry.Strategy)

	c.transition(Retract)
	prog.Add(gcode.GoToSafeHeight(ctx))

	c.transition(Approach)
	start := entry.Curve.Start()
	approach := gcode.Rapid(ctx, gcode.XY(start.X, start.Y))

	c.transition(Plunge)
	entryLines := make([]string, 0, len(entry.Moves))
	for _, m := range entry.Moves {
		line, err := gcode.Emit(ctx, m)
		if err != nil {
			return cr, annotate(err, i, -1)
		}
		entryLines = append(entryLines, line)
	}
	// Ramp and straight entries open with this same rapid.
	if len(entryLines) == 0 || entryLines[0] != approach {
		prog.Add(approach)
	}
	for _, line := range entryLines {
		prog.Add(line)
	}

	c.transition(Cut)
	for vi, seg := range entry.Curve.Segments() {
		line, err := cutLine(ctx, seg)
		if err != nil {
			return cr, annotate(err, i, vi+1)
		}
		prog.Add(line)
	}
	return cr, nil
}

// cutLine renders the cutting move for one segment at the current depth.
func cutLine(ctx gcode.Context, seg geom.Segment) (string, error) {
	switch seg.Kind {
	case geom.Line:
		return gcode.Feed(ctx, gcode.XY(seg.End.X, seg.End.Y)), nil
	case geom.ArcCW, geom.ArcCCW:
		return gcode.Arc(ctx, seg.Center, seg.Start, seg.End, gcode.None(), seg.Kind == geom.ArcCCW)
	default:
		return "", camerr.Newf(camerr.UnrecognizedSegmentKind, "vertex kind %s", seg.Kind)
	}
}

// annotate places a coded error at a curve and vertex. Errors without a
// code are wrapped as InvalidToolpath.
func annotate(err error, curve, vertex int) error {
	if ce, ok := err.(*camerr.Error); ok {
		return ce.At(curve, vertex)
	}
	return camerr.Wrap(err, camerr.InvalidToolpath, "emit").At(curve, vertex)
}
