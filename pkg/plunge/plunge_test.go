package plunge

import (
	"errors"
	"math"
	"testing"

	"github.com/chazu/dannycam/pkg/gcode"
	"github.com/chazu/dannycam/pkg/geom"
	"github.com/chazu/dannycam/pkg/kernel"
	"github.com/chazu/dannycam/pkg/kernel/noroom"
	"github.com/chazu/dannycam/pkg/kernel/sdfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedKernel answers every shrink query with a canned region or error.
type fixedKernel struct {
	region kernel.Region
	err    error
	calls  int
}

var _ kernel.Kernel = (*fixedKernel)(nil)

func (k *fixedKernel) Shrink(c geom.Curve, distance float64) (kernel.Region, error) {
	k.calls++
	return k.region, k.err
}

func (k *fixedKernel) BoundingBox(tp geom.Toolpath) geom.Box {
	return tp.Bounds()
}

func regionAt(p geom.Point) kernel.Region {
	return kernel.Region{Curves: []geom.Curve{geom.NewCurve(p, geom.L(p.X+1, p.Y), geom.L(p.X, p.Y))}}
}

func square(size float64) geom.Curve {
	return geom.NewCurve(geom.Pt(0, 0),
		geom.L(size, 0),
		geom.L(size, size),
		geom.L(0, size),
		geom.L(0, 0),
	)
}

func params(destZ float64) Params {
	return Params{ToolDiameter: 6.35, StartZ: 0, DestZ: destZ}.withDefaults()
}

func moveKinds(ms []gcode.Move) []gcode.MoveKind {
	out := make([]gcode.MoveKind, len(ms))
	for i, m := range ms {
		out[i] = m.Kind
	}
	return out
}

// ---------------------------------------------------------------------------
// Helix
// ---------------------------------------------------------------------------

func TestHelixDescent(t *testing.T) {
	k := &fixedKernel{region: regionAt(geom.Pt(10, 10))}
	out := (&Helix{Kernel: k}).Plan(square(20), params(-5))
	ok, isOK := out.(Succeeded)
	require.True(t, isOK, "helix declined: %v", out)

	// rapid XY, rapid Z, 4 revolutions, feed to curve start.
	require.Equal(t, []gcode.MoveKind{
		gcode.MoveRapid, gcode.MoveRapid,
		gcode.MoveArc, gcode.MoveArc, gcode.MoveArc, gcode.MoveArc,
		gcode.MoveFeed,
	}, moveKinds(ok.Moves))

	entry := geom.Pt(10+6.35/2*DefaultFudge, 10)
	x, _ := ok.Moves[0].Axes.X.Get()
	y, _ := ok.Moves[0].Axes.Y.Get()
	assert.InDelta(t, entry.X, x, 1e-9)
	assert.InDelta(t, entry.Y, y, 1e-9)
	z, _ := ok.Moves[1].Axes.Z.Get()
	assert.Equal(t, 0.0, z)

	dz := math.Sin(5*math.Pi/180) * math.Pi * 6.35 * DefaultFudge
	prev := 0.0
	for _, m := range ok.Moves[2:6] {
		assert.True(t, m.CCW)
		assert.Equal(t, geom.Pt(10, 10), m.Center)
		assert.Equal(t, m.Start, m.End)
		z, set := m.EndZ.Get()
		require.True(t, set)
		assert.LessOrEqual(t, prev-z, dz+1e-9)
		assert.Less(t, z, prev)
		prev = z
	}
	assert.Equal(t, -5.0, prev)
}

func TestHelixRotatesToNearestVertex(t *testing.T) {
	k := &fixedKernel{region: regionAt(geom.Pt(16, 16))}
	out := (&Helix{Kernel: k}).Plan(square(20), params(-1))
	ok, isOK := out.(Succeeded)
	require.True(t, isOK)

	assert.Equal(t, geom.Pt(20, 20), ok.Curve.Start())
	assert.True(t, ok.Curve.Closed())
	last := ok.Moves[len(ok.Moves)-1]
	assert.Equal(t, gcode.MoveFeed, last.Kind)
	x, _ := last.Axes.X.Get()
	y, _ := last.Axes.Y.Get()
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 20.0, y)
}

func TestHelixWithSdfxKernel(t *testing.T) {
	out := (&Helix{Kernel: sdfx.New()}).Plan(square(20), params(-1))
	ok, isOK := out.(Succeeded)
	require.True(t, isOK, "helix declined: %v", out)
	for _, m := range ok.Moves {
		if m.Kind == gcode.MoveArc {
			require.NoError(t, gcode.ValidateArc(m.Center, m.Start, m.End))
		}
	}
}

func TestHelixDeclines(t *testing.T) {
	open := geom.NewCurve(geom.Pt(0, 0), geom.L(20, 0), geom.L(20, 20))
	tests := []struct {
		name   string
		kernel kernel.Kernel
		curve  geom.Curve
		params Params
	}{
		{"no kernel", nil, square(20), params(-1)},
		{"open curve", &fixedKernel{region: regionAt(geom.Pt(10, 10))}, open, params(-1)},
		{"no room", noroom.New(), square(20), params(-1)},
		{"engine error", &fixedKernel{err: errors.New("boom")}, square(20), params(-1)},
		{"flat angle", &fixedKernel{region: regionAt(geom.Pt(10, 10))}, square(20),
			Params{ToolDiameter: 6.35, DestZ: -1, RampAngle: -5, Fudge: 0.95}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := (&Helix{Kernel: tt.kernel}).Plan(tt.curve, tt.params)
			d, isDeclined := out.(Declined)
			require.True(t, isDeclined)
			assert.NotEmpty(t, d.Reason)
			assert.Equal(t, tt.name == "engine error", d.Err != nil)
		})
	}
}

// ---------------------------------------------------------------------------
// Ramp
// ---------------------------------------------------------------------------

func TestRampEndsAtSegmentStart(t *testing.T) {
	tests := []struct {
		name  string
		destZ float64
		zs    []float64 // Z after each pass
	}{
		{"even passes", -1, []float64{-0.553, -1}},
		{"single pass returns", -0.5, []float64{-0.5, -0.5}},
		{"odd passes return", -1.2, []float64{-0.553, -1.107, -1.2, -1.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := (&Ramp{}).Plan(square(20), params(tt.destZ))
			ok, isOK := out.(Succeeded)
			require.True(t, isOK, "ramp declined: %v", out)
			require.Len(t, ok.Moves, 2+len(tt.zs))

			for i, want := range tt.zs {
				m := ok.Moves[2+i]
				require.Equal(t, gcode.MoveFeed, m.Kind)
				z, _ := m.Axes.Z.Get()
				assert.InDelta(t, want, z, 1e-3)
				x, _ := m.Axes.X.Get()
				if i%2 == 0 {
					assert.InDelta(t, 6.35, x, 1e-9)
				} else {
					assert.InDelta(t, 0, x, 1e-9)
				}
			}
			assert.Equal(t, square(20), ok.Curve)
		})
	}
}

func TestRampOnArc(t *testing.T) {
	c := geom.NewCurve(geom.Pt(10, 0),
		geom.CCW(-10, 0, 0, 0),
		geom.CCW(10, 0, 0, 0),
	)
	out := (&Ramp{}).Plan(c, params(-1))
	ok, isOK := out.(Succeeded)
	require.True(t, isOK)
	arcs := ok.Moves[2:]
	require.Len(t, arcs, 2)
	assert.True(t, arcs[0].CCW)
	assert.False(t, arcs[1].CCW)
	assert.Equal(t, arcs[0].End, arcs[1].Start)
	assert.Equal(t, geom.Pt(10, 0), arcs[1].End)
	for _, m := range arcs {
		require.NoError(t, gcode.ValidateArc(m.Center, m.Start, m.End))
	}
}

func TestRampDeclinesShortSegment(t *testing.T) {
	c := geom.NewCurve(geom.Pt(0, 0),
		geom.L(3, 0),
		geom.L(3, 20),
		geom.L(0, 0),
	)
	out := (&Ramp{}).Plan(c, params(-1))
	d, isDeclined := out.(Declined)
	require.True(t, isDeclined)
	assert.Contains(t, d.Reason, "shorter")
}

// ---------------------------------------------------------------------------
// Straight and the planner chain
// ---------------------------------------------------------------------------

func TestStraight(t *testing.T) {
	out := (&Straight{}).Plan(square(3), params(-1))
	ok, isOK := out.(Succeeded)
	require.True(t, isOK)
	require.Equal(t, []gcode.MoveKind{gcode.MoveRapid, gcode.MoveRapid, gcode.MoveFeed}, moveKinds(ok.Moves))
	assert.Equal(t, gcode.Z(-1), ok.Moves[2].Axes)
}

func TestPlannerFallback(t *testing.T) {
	small := geom.NewCurve(geom.Pt(0, 0),
		geom.L(3, 0),
		geom.L(3, 3),
		geom.L(0, 3),
		geom.L(0, 0),
	)
	tests := []struct {
		name     string
		kernel   kernel.Kernel
		curve    geom.Curve
		strategy string
		declined []string
	}{
		{"helix first", &fixedKernel{region: regionAt(geom.Pt(10, 10))}, square(20), "helix", nil},
		{"ramp when no room", noroom.New(), square(20), "ramp", []string{"helix"}},
		{"straight last", noroom.New(), small, "straight", []string{"helix", "ramp"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := DefaultPlanner(tt.kernel).Plan(tt.curve, Params{ToolDiameter: 6.35, DestZ: -1})
			require.NoError(t, err)
			assert.Equal(t, tt.strategy, entry.Strategy)
			var names []string
			for _, d := range entry.Declines {
				names = append(names, d.Strategy)
			}
			assert.Equal(t, tt.declined, names)
			assert.NotEmpty(t, entry.Moves)
		})
	}
}

func TestPlannerAllDeclined(t *testing.T) {
	pl := &Planner{Strategies: []Strategy{&Ramp{}}}
	_, err := pl.Plan(geom.NewCurve(geom.Pt(0, 0)), Params{ToolDiameter: 6.35, DestZ: -1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ramp")
}

func TestPlannerStopsAtFirstSuccess(t *testing.T) {
	k := &fixedKernel{region: regionAt(geom.Pt(10, 10))}
	pl := &Planner{Strategies: []Strategy{&Straight{}, &Helix{Kernel: k}}}
	entry, err := pl.Plan(square(20), Params{ToolDiameter: 6.35, DestZ: -1})
	require.NoError(t, err)
	assert.Equal(t, "straight", entry.Strategy)
	assert.Zero(t, k.calls)
}
