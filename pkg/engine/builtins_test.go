package engine

import (
	"math"
	"testing"

	"github.com/chazu/dannycam/pkg/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Preprocessing
// ---------------------------------------------------------------------------

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{
			name:   "simple keyword",
			input:  `(setting :rpm 12000)`,
			expect: `(setting "__kw_rpm" 12000)`,
		},
		{
			name:   "hyphen in keyword preserved",
			input:  `(setting :tool-diameter 3.175)`,
			expect: `(setting "__kw_tool-diameter" 3.175)`,
		},
		{
			name:   "keyword in string preserved",
			input:  `"thing with :keyword inside"`,
			expect: `"thing with :keyword inside"`,
		},
		{
			name:   "escaped quote in string",
			input:  `"a \" :b" :c`,
			expect: `"a \" :b" "__kw_c"`,
		},
		{
			name:   "backtick string preserved",
			input:  "`arc-cw :x`",
			expect: "`arc-cw :x`",
		},
		{
			name:   "assignment operator preserved",
			input:  `(def x := 10)`,
			expect: `(def x := 10)`,
		},
		{
			name:   "kebab-case identifier",
			input:  `(arc-ccw 0 10 :center (pt 0 0))`,
			expect: `(arc_ccw 0 10 "__kw_center" (pt 0 0))`,
		},
		{
			name:   "minus operator preserved",
			input:  `(- 10 5) (line x -2)`,
			expect: `(- 10 5) (line x -2)`,
		},
		{
			name:   "comment converted to // style",
			input:  ";; outer profile :keyword\n(rect 0 0 1 1)",
			expect: "// outer profile :keyword\n(rect 0 0 1 1)",
		},
		{
			name:   "comment at end of input",
			input:  `; trailing`,
			expect: `// trailing`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, preprocessSource(tt.input))
		})
	}
}

// ---------------------------------------------------------------------------
// Curves
// ---------------------------------------------------------------------------

func evaluate(t *testing.T, source string) *Job {
	t.Helper()
	job, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err)
	require.Empty(t, evalErrs)
	return job
}

func evalFails(t *testing.T, source string) []EvalError {
	t.Helper()
	job, evalErrs, err := NewEngine().Evaluate(source)
	require.NoError(t, err, "expected a non-fatal eval error")
	require.Nil(t, job)
	require.NotEmpty(t, evalErrs)
	return evalErrs
}

func TestRect(t *testing.T) {
	job := evaluate(t, `(rect 5 10 20 30)`)
	require.Len(t, job.Toolpath, 1)
	c := job.Toolpath[0]
	want := []geom.Point{geom.Pt(5, 10), geom.Pt(25, 10), geom.Pt(25, 40), geom.Pt(5, 40), geom.Pt(5, 10)}
	require.Equal(t, len(want), c.Len())
	for i, p := range want {
		assert.Equal(t, p, c.Vertices[i].P, "vertex %d", i)
		assert.Equal(t, geom.Line, c.Vertices[i].Kind, "vertex %d", i)
	}
	assert.Equal(t, geom.CounterClockwise, c.Orientation())
}

func TestCircle(t *testing.T) {
	for _, src := range []string{`(circle 10 10 5)`, `(circle (pt 10 10) 5)`} {
		job := evaluate(t, src)
		c := job.Toolpath[0]
		require.Equal(t, 3, c.Len(), src)
		require.True(t, c.Closed(), src)
		assert.InDelta(t, 10*math.Pi, c.Length(), 1e-9, src)
		assert.Equal(t, geom.ArcCCW, c.Vertices[1].Kind, src)
		assert.Equal(t, geom.Pt(10, 10), c.Vertices[1].Center, src)
	}
}

func TestCurveWithArcs(t *testing.T) {
	source := `
;; slot with a rounded end
(curve (pt 0 0)
  (line 20 0)
  (arc-ccw 20 10 :center (pt 20 5))
  (line 0 10)
  (arc-cw (pt 0 0) (pt 0 5)))
`
	job := evaluate(t, source)
	c := job.Toolpath[0]
	require.Equal(t, 5, c.Len())
	assert.Equal(t, geom.Vertex{P: geom.Pt(20, 10), Kind: geom.ArcCCW, Center: geom.Pt(20, 5)}, c.Vertices[2])
	assert.Equal(t, geom.Vertex{P: geom.Pt(0, 0), Kind: geom.ArcCW, Center: geom.Pt(0, 5)}, c.Vertices[4])
}

func TestPolygonCloses(t *testing.T) {
	job := evaluate(t, `(polygon (pt 0 0) (pt 10 0) (pt 0 10))`)
	c := job.Toolpath[0]
	assert.Equal(t, 4, c.Len())
	assert.True(t, c.Closed())

	job = evaluate(t, `(polygon (pt 0 0) (pt 10 0) (pt 0 10) (pt 0 0))`)
	assert.Equal(t, 4, job.Toolpath[0].Len(), "already closed polygon should not gain a vertex")
}

func TestVariablesAndOrder(t *testing.T) {
	source := `
(def w 40)
(def inset 5)
(rect 0 0 w w)
(rect inset inset (- w (* 2 inset)) 10)
`
	job := evaluate(t, source)
	require.Len(t, job.Toolpath, 2)
	assert.Equal(t, geom.Pt(35, 5), job.Toolpath[1].Vertices[1].P)
}

func TestSettings(t *testing.T) {
	job := evaluate(t, `(setting :tool-diameter 3.175 :rpm 18000 :climb true)`)
	assert.Equal(t, 3.175, job.Settings["tool-diameter"])
	assert.Equal(t, 18000.0, job.Settings["rpm"])
	assert.Equal(t, true, job.Settings["climb"])
}

func TestBuiltinErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
	}{
		{"pt arity", `(pt 1)`},
		{"rect negative", `(rect 0 0 -5 5)`},
		{"rect arity", `(rect 0 0 5)`},
		{"circle zero radius", `(circle 0 0 0)`},
		{"curve without segments", `(curve (pt 0 0))`},
		{"curve bad segment", `(curve (pt 0 0) (pt 1 1))`},
		{"arc without center", `(arc-cw 1 1)`},
		{"polygon too short", `(polygon (pt 0 0) (pt 1 1))`},
		{"setting positional", `(setting 5)`},
		{"setting empty", `(setting)`},
		{"setting list value", `(setting :feed (list 1 2))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := evalFails(t, tt.source)
			assert.NotEmpty(t, errs[0].Message)
		})
	}
}
