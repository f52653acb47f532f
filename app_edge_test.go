package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chazu/dannycam/pkg/camerr"
	"github.com/chazu/dannycam/pkg/config"
	"github.com/chazu/dannycam/pkg/engine"
	"github.com/chazu/dannycam/pkg/kernel/noroom"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeJob writes source to a job file in a temp dir and returns its path.
func writeJob(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	err := run(args, &stdout, &stderr, quiet())
	return stdout.String(), err
}

func assertNoFile(t *testing.T, path string) {
	t.Helper()
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "no program should be written on error")
}

// ---------------------------------------------------------------------------
// Job evaluation
// ---------------------------------------------------------------------------

func TestE2ECommentsOnly(t *testing.T) {
	app := NewApp(quiet())
	job, err := app.Evaluate(";; nothing to cut yet\n;; (rect 0 0 10 10)\n")
	require.NoError(t, err)
	assert.Empty(t, job.Toolpath)
}

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	app := NewApp(quiet())
	_, err := app.Evaluate("(rect 0 0 10 10)\n(rect 0 0 5")
	require.Error(t, err)
	assert.True(t, camerr.Is(err, camerr.Input), "got %v", err)

	var ce *camerr.Error
	require.True(t, errors.As(err, &ce))
	assert.IsType(t, []engine.EvalError{}, ce.Value, "error value should carry the evaluation errors")
}

func TestE2EUndefinedSymbol(t *testing.T) {
	app := NewApp(quiet())
	_, err := app.Evaluate("(rect 0 0 width 10)")
	assert.True(t, camerr.Is(err, camerr.Input), "got %v", err)
}

func TestE2EArithmetic(t *testing.T) {
	app := NewApp(quiet())
	job, err := app.Evaluate(`
(def stock 100)
(def margin 7.5)
(rect margin margin (- stock (* 2 margin)) (/ stock 4))
`)
	require.NoError(t, err)
	b := job.Toolpath.Bounds()
	assert.Equal(t, 7.5, b.Min.X)
	assert.Equal(t, 92.5, b.Max.X)
	assert.Equal(t, 32.5, b.Max.Y)
}

// TestE2ERapidEvaluation reuses one App for many jobs, each evaluated in a
// fresh sandbox.
func TestE2ERapidEvaluation(t *testing.T) {
	app := NewAppWithKernel(noroom.New(), quiet())
	sources := []string{
		"(rect 0 0 10 10)",
		"(circle 5 5 3)",
		"(rect 0 0 10 10) (rect 20 0 10 10)",
	}
	for i := 0; i < 20; i++ {
		src := sources[i%len(sources)]
		job, err := app.Evaluate(src)
		require.NoError(t, err, "iteration %d", i)
		want := strings.Count(src, "(rect") + strings.Count(src, "(circle")
		require.Len(t, job.Toolpath, want, "iteration %d", i)
		_, err = app.Compile(config.Defaults(), job.Toolpath)
		require.NoError(t, err, "iteration %d", i)
	}
}

// ---------------------------------------------------------------------------
// Failures write nothing
// ---------------------------------------------------------------------------

func TestE2EInvalidSettingWritesNothing(t *testing.T) {
	job := writeJob(t, "bad.dcam", "(setting :tool-diameter -2)\n(rect 0 0 10 10)")
	out := filepath.Join(t.TempDir(), "bad.ngc")
	_, err := runCLI(t, "-o", out, job)
	require.True(t, camerr.Is(err, camerr.InvalidConfiguration), "got %v", err)
	assert.Contains(t, err.Error(), "tool-diameter")
	assertNoFile(t, out)
}

func TestE2EUnknownSetting(t *testing.T) {
	job := writeJob(t, "typo.dcam", "(setting :tool-diamter 3)\n(rect 0 0 10 10)")
	_, err := runCLI(t, "-o", filepath.Join(t.TempDir(), "x.ngc"), job)
	assert.True(t, camerr.Is(err, camerr.InvalidConfiguration), "got %v", err)
}

func TestE2EBadArcWritesNothing(t *testing.T) {
	job := writeJob(t, "arc.dcam", `
(curve (pt 0 0)
  (line 10 0)
  (arc-ccw 0 0 :center (pt 4 1)))
`)
	out := filepath.Join(t.TempDir(), "arc.ngc")
	_, err := runCLI(t, "--no-helix", "-o", out, job)
	require.True(t, camerr.Is(err, camerr.InvalidArc), "got %v", err)
	assertNoFile(t, out)
}

func TestE2EMissingInput(t *testing.T) {
	_, err := runCLI(t, filepath.Join(t.TempDir(), "nope.dcam"))
	assert.True(t, camerr.Is(err, camerr.Input), "got %v", err)
}

func TestE2EArgumentCount(t *testing.T) {
	_, err := runCLI(t)
	assert.Error(t, err, "expected an error without an input file")
	_, err = runCLI(t, "a.dcam", "b.dcam")
	assert.Error(t, err, "expected an error with two input files")
	_, err = runCLI(t, "--help")
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

// ---------------------------------------------------------------------------
// Configuration layers
// ---------------------------------------------------------------------------

func TestE2EFlagOverridesJobSetting(t *testing.T) {
	job := writeJob(t, "rpm.dcam", "(setting :rpm 12000)\n(rect 0 0 30 30)")
	prog, _ := compileFile(t, job, "--no-helix", "--rpm", "20000")
	assert.Contains(t, prog, "G97 S20000", "flag should win over the job setting")
}

func TestE2EEnvironmentOverridesJobSetting(t *testing.T) {
	t.Setenv("DANNYCAM_FEED", "600")
	job := writeJob(t, "feed.dcam", "(setting :feed 900)\n(rect 0 0 30 30)")
	prog, _ := compileFile(t, job, "--no-helix")
	assert.Contains(t, prog, "G01 F600.000 X30.000 Y0.000", "environment should win over the job setting")
}

func TestE2EConfigFile(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "shop.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("safe-z: 10.0\nprecision: 2\n"), 0o644))
	job := writeJob(t, "plain.dcam", "(rect 0 0 30 30)")
	prog, _ := compileFile(t, job, "--no-helix", "--config", cfgPath)
	assert.Contains(t, prog, "G00 F508.00 Z10.00", "config file values not applied")
}

func TestE2EDefaultOutputPath(t *testing.T) {
	job := writeJob(t, "part.dcam", "(rect 0 0 30 30)")
	_, err := runCLI(t, "--no-helix", job)
	require.NoError(t, err)
	assert.FileExists(t, strings.TrimSuffix(job, ".dcam")+".ngc")
}

func TestE2ESummaryYAML(t *testing.T) {
	_, stdout := compileFile(t, "examples/square.dcam", "--no-helix", "--summary-yaml")
	for _, want := range []string{"curves: 1", "length_mm: 160", "feed_mm_per_min: 1016"} {
		assert.Contains(t, stdout, want)
	}
}
