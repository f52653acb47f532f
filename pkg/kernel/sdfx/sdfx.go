// Package sdfx implements the kernel.Kernel interface using the
// github.com/deadsy/sdfx SDF-based CAD library.
//
// A closed curve is flattened into a polygon, turned into a 2D signed
// distance field, and offset inward. The shrunk region is non-empty when
// any sample of the offset field is negative; its boundary is traced by
// projecting the polygon vertices onto the zero level of the field.
package sdfx

import (
	"fmt"
	"math"

	"github.com/chazu/dannycam/pkg/geom"
	"github.com/chazu/dannycam/pkg/kernel"
	"github.com/deadsy/sdfx/sdf"
	v2 "github.com/deadsy/sdfx/vec/v2"
)

// Compile-time interface check.
var _ kernel.Kernel = (*SdfxKernel)(nil)

const (
	// defaultTolerance is the chord error allowed when flattening arcs, in mm.
	defaultTolerance = 0.01

	// defaultGridCells controls the interior sampling resolution per axis.
	defaultGridCells = 96

	// projectIterations bounds the Newton steps used to reach the zero level.
	projectIterations = 32
)

// SdfxKernel implements kernel.Kernel using sdfx.
type SdfxKernel struct {
	Tolerance float64
	GridCells int
}

// New returns a new SdfxKernel.
func New() *SdfxKernel {
	return &SdfxKernel{
		Tolerance: defaultTolerance,
		GridCells: defaultGridCells,
	}
}

// Shrink offsets the region bounded by c inward by distance.
func (k *SdfxKernel) Shrink(c geom.Curve, distance float64) (kernel.Region, error) {
	if !c.Closed() {
		return kernel.Region{}, fmt.Errorf("sdfx: shrink needs a closed curve")
	}
	if distance < 0 {
		return kernel.Region{}, fmt.Errorf("sdfx: negative shrink distance %g", distance)
	}

	vertices := flatten(c, k.Tolerance)
	if len(vertices) < 3 {
		return kernel.Region{}, nil
	}

	poly, err := sdf.Polygon2D(vertices)
	if err != nil {
		return kernel.Region{}, fmt.Errorf("sdfx.Polygon2D: %w", err)
	}
	inner := sdf.Offset2D(poly, -distance)

	if !k.hasInterior(poly, inner) {
		return kernel.Region{}, nil
	}

	tol := k.Tolerance / 10
	var boundary []geom.Point
	for _, v := range vertices {
		p, ok := project(inner, v, tol)
		if !ok || poly.Evaluate(p) >= 0 {
			continue
		}
		q := geom.Pt(p.X, p.Y)
		if n := len(boundary); n > 0 && boundary[n-1].Near(q, k.Tolerance) {
			continue
		}
		boundary = append(boundary, q)
	}
	if len(boundary) == 0 {
		// The interior exists but no vertex projected cleanly onto it, as
		// happens for thin slivers. Fall back to the deepest sample.
		boundary = append(boundary, k.deepest(poly, inner))
	}

	return kernel.Region{Curves: []geom.Curve{closedPolyline(boundary)}}, nil
}

// BoundingBox returns the bounds of the toolpath.
func (k *SdfxKernel) BoundingBox(tp geom.Toolpath) geom.Box {
	return tp.Bounds()
}

// hasInterior samples the offset field on a grid over the polygon bounds.
func (k *SdfxKernel) hasInterior(poly, inner sdf.SDF2) bool {
	found := false
	k.sample(poly, func(p v2.Vec) bool {
		if inner.Evaluate(p) < 0 {
			found = true
			return false
		}
		return true
	})
	return found
}

// deepest returns the grid sample furthest inside the offset field.
func (k *SdfxKernel) deepest(poly, inner sdf.SDF2) geom.Point {
	best, bestVal := v2.Vec{}, math.Inf(1)
	k.sample(poly, func(p v2.Vec) bool {
		if d := inner.Evaluate(p); d < bestVal {
			best, bestVal = p, d
		}
		return true
	})
	return geom.Pt(best.X, best.Y)
}

// sample visits cell centers of a grid spanning the polygon's bounding box
// until fn returns false.
func (k *SdfxKernel) sample(poly sdf.SDF2, fn func(v2.Vec) bool) {
	cells := k.GridCells
	if cells < 2 {
		cells = 2
	}
	bb := poly.BoundingBox()
	dx := (bb.Max.X - bb.Min.X) / float64(cells)
	dy := (bb.Max.Y - bb.Min.Y) / float64(cells)
	for i := 0; i < cells; i++ {
		for j := 0; j < cells; j++ {
			p := v2.Vec{
				X: bb.Min.X + (float64(i)+0.5)*dx,
				Y: bb.Min.Y + (float64(j)+0.5)*dy,
			}
			if !fn(p) {
				return
			}
		}
	}
}

// project moves p onto the zero level of s with Newton steps along the
// numerical gradient.
func project(s sdf.SDF2, p v2.Vec, tol float64) (v2.Vec, bool) {
	const h = 1e-4
	for i := 0; i < projectIterations; i++ {
		f := s.Evaluate(p)
		if math.Abs(f) <= tol {
			return p, true
		}
		gx := (s.Evaluate(v2.Vec{X: p.X + h, Y: p.Y}) - s.Evaluate(v2.Vec{X: p.X - h, Y: p.Y})) / (2 * h)
		gy := (s.Evaluate(v2.Vec{X: p.X, Y: p.Y + h}) - s.Evaluate(v2.Vec{X: p.X, Y: p.Y - h})) / (2 * h)
		g2 := gx*gx + gy*gy
		if g2 < 1e-12 {
			return p, false
		}
		p = v2.Vec{X: p.X - f*gx/g2, Y: p.Y - f*gy/g2}
	}
	return p, math.Abs(s.Evaluate(p)) <= tol
}

// closedPolyline joins points into a closed curve of line segments.
func closedPolyline(pts []geom.Point) geom.Curve {
	segs := make([]geom.Vertex, 0, len(pts))
	for _, p := range pts[1:] {
		segs = append(segs, geom.L(p.X, p.Y))
	}
	segs = append(segs, geom.L(pts[0].X, pts[0].Y))
	return geom.NewCurve(pts[0], segs...)
}
