package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chazu/dannycam/pkg/camerr"
	"github.com/chazu/dannycam/pkg/compile"
	"github.com/chazu/dannycam/pkg/config"
	"github.com/chazu/dannycam/pkg/dxfin"
	"github.com/chazu/dannycam/pkg/engine"
	"github.com/chazu/dannycam/pkg/gcode"
	"github.com/chazu/dannycam/pkg/geom"
	"github.com/chazu/dannycam/pkg/kernel"
	"github.com/chazu/dannycam/pkg/kernel/sdfx"
	"github.com/chazu/dannycam/pkg/metrics"
	"github.com/kpango/glg"
)

// App wires the job loaders, the geometry kernel and the compiler together.
type App struct {
	engine *engine.Engine
	kernel kernel.Kernel
	log    *glg.Glg
}

// Job is a loaded input file: the curves to cut and any settings the file
// itself carries.
type Job struct {
	Path     string
	Toolpath geom.Toolpath
	Settings map[string]interface{}
}

// Result is a compiled job.
type Result struct {
	Program *gcode.Program
	Report  compile.Report
	Summary metrics.Summary
}

// NewApp creates an App with a fresh engine and the sdfx kernel.
func NewApp(log *glg.Glg) *App {
	return NewAppWithKernel(sdfx.New(), log)
}

// NewAppWithKernel creates an App using k for offset queries.
func NewAppWithKernel(k kernel.Kernel, log *glg.Glg) *App {
	if log == nil {
		log = glg.Get()
	}
	return &App{
		engine: engine.NewEngine(),
		kernel: k,
		log:    log,
	}
}

// LoadJob reads a job from path. DXF drawings are read as profile
// geometry; anything else is evaluated as a job program.
func (a *App) LoadJob(path string) (Job, error) {
	if strings.EqualFold(filepath.Ext(path), ".dxf") {
		res, err := dxfin.Load(path)
		if err != nil {
			return Job{}, err
		}
		for _, s := range res.SkippedSummary() {
			a.log.Warnf("%s: skipped unsupported entities: %s", path, s)
		}
		a.log.Infof("%s: %d curves from drawing", path, len(res.Toolpath))
		return Job{Path: path, Toolpath: res.Toolpath}, nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return Job{}, camerr.Wrap(err, camerr.Input, "read job file")
	}
	job, err := a.Evaluate(string(source))
	if err != nil {
		return Job{}, fmt.Errorf("%s: %w", path, err)
	}
	job.Path = path
	a.log.Infof("%s: %d curves, %d settings", path, len(job.Toolpath), len(job.Settings))
	return job, nil
}

// Evaluate runs job program source.
func (a *App) Evaluate(source string) (Job, error) {
	res, evalErrs, err := a.engine.Evaluate(source)
	if err != nil {
		return Job{}, camerr.Wrap(err, camerr.Input, "evaluate job")
	}
	if len(evalErrs) > 0 {
		msgs := make([]string, len(evalErrs))
		for i, e := range evalErrs {
			msgs[i] = e.Error()
		}
		return Job{}, camerr.New(camerr.Input, strings.Join(msgs, "; ")).WithValue(evalErrs)
	}
	return Job{Toolpath: res.Toolpath, Settings: res.Settings}, nil
}

// Compile turns a toolpath into a program under cfg. No program is
// returned when compilation fails.
func (a *App) Compile(cfg config.Config, tp geom.Toolpath) (Result, error) {
	c := compile.New(cfg, a.kernel)
	c.Log = a.log

	prog, err := c.Compile(tp)
	if err != nil {
		return Result{Report: c.Report()}, err
	}

	if box := a.kernel.BoundingBox(tp); !box.IsEmpty() {
		a.log.Infof("bounds: %s to %s", box.Min, box.Max)
	}
	for _, cr := range c.Report().Curves {
		a.log.Debugf("curve %d: %s entry, %d lines", cr.Index, cr.Strategy, cr.Lines)
	}
	summary := metrics.Measure(tp, cfg.FeedXY)
	a.log.Info(summary.String())

	return Result{Program: prog, Report: c.Report(), Summary: summary}, nil
}
