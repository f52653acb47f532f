// Package dxfin reads profile geometry from DXF drawings. LINE, ARC,
// CIRCLE, POLYLINE and LWPOLYLINE entities are converted to curves and
// chained end to end; everything else is skipped and counted.
package dxfin

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/chazu/dannycam/pkg/camerr"
	"github.com/chazu/dannycam/pkg/geom"
	"github.com/rpaloschi/dxf-go/core"
	"github.com/rpaloschi/dxf-go/document"
	"github.com/rpaloschi/dxf-go/entities"
)

// ChainTolerance is how close two endpoints must be to be joined.
const ChainTolerance = geom.ClosedTolerance

// Result is a drawing converted to a toolpath.
type Result struct {
	Toolpath geom.Toolpath
	Skipped  map[string]int // unsupported entity type -> count
}

// SkippedSummary lists skipped entity types in a stable order.
func (r Result) SkippedSummary() []string {
	out := make([]string, 0, len(r.Skipped))
	for k, n := range r.Skipped {
		out = append(out, fmt.Sprintf("%s x%d", k, n))
	}
	sort.Strings(out)
	return out
}

// Load reads the DXF file at path.
func Load(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, camerr.Wrap(err, camerr.Input, "open drawing")
	}
	defer f.Close()
	return Read(f)
}

// Read parses a DXF stream.
func Read(r io.Reader) (Result, error) {
	doc, err := document.DxfDocumentFromStream(r)
	if err != nil {
		return Result{}, camerr.Wrap(err, camerr.Input, "parse drawing")
	}
	return FromEntities(doc.Entities.Entities), nil
}

// FromEntities converts and chains entities in drawing order.
func FromEntities(ents []entities.Entity) Result {
	res := Result{Skipped: make(map[string]int)}
	var pieces []geom.Curve
	for _, e := range ents {
		c, ok := convert(e)
		if !ok {
			res.Skipped[fmt.Sprintf("%T", e)]++
			continue
		}
		if c.Len() >= 2 && c.Length() > 0 {
			pieces = append(pieces, c)
		}
	}
	res.Toolpath = chain(pieces)
	return res
}

func pt(p core.Point) geom.Point {
	return geom.Pt(p.X, p.Y)
}

func convert(e entities.Entity) (geom.Curve, bool) {
	switch v := e.(type) {
	case *entities.Line:
		return geom.NewCurve(pt(v.Start), geom.Vertex{P: pt(v.End), Kind: geom.Line}), true
	case *entities.Circle:
		return circle(pt(v.Center), v.Radius), true
	case *entities.Arc:
		return arc(pt(v.Center), v.Radius, v.StartAngle, v.EndAngle), true
	case *entities.Polyline:
		pts := make([]bulgePoint, len(v.Vertices))
		for i, vx := range v.Vertices {
			pts[i] = bulgePoint{p: pt(vx.Location), bulge: vx.Bulge}
		}
		return polyline(pts, v.Closed), true
	case *entities.LWPolyline:
		pts := make([]bulgePoint, len(v.Points))
		for i, lp := range v.Points {
			pts[i] = bulgePoint{p: pt(lp.Point), bulge: lp.Bulge}
		}
		return polyline(pts, v.Closed), true
	}
	return geom.Curve{}, false
}

// circle returns two counterclockwise half arcs starting at angle 0.
func circle(c geom.Point, r float64) geom.Curve {
	return geom.NewCurve(c.Add(geom.Pt(r, 0)),
		geom.Vertex{P: c.Add(geom.Pt(-r, 0)), Kind: geom.ArcCCW, Center: c},
		geom.Vertex{P: c.Add(geom.Pt(r, 0)), Kind: geom.ArcCCW, Center: c},
	)
}

// arc converts a DXF arc, which always runs counterclockwise from
// startDeg to endDeg.
func arc(c geom.Point, r, startDeg, endDeg float64) geom.Curve {
	sweep := math.Mod(endDeg-startDeg, 360)
	if sweep < 0 {
		sweep += 360
	}
	if sweep == 0 {
		return circle(c, r)
	}
	at := func(deg float64) geom.Point {
		rad := deg * math.Pi / 180
		return c.Add(geom.Pt(r*math.Cos(rad), r*math.Sin(rad)))
	}
	return geom.NewCurve(at(startDeg), geom.Vertex{P: at(endDeg), Kind: geom.ArcCCW, Center: c})
}

type bulgePoint struct {
	p     geom.Point
	bulge float64
}

// polyline converts polyline vertices. The bulge on a vertex describes the
// segment leaving it: the tangent of a quarter of the included angle,
// positive for counterclockwise.
func polyline(pts []bulgePoint, closed bool) geom.Curve {
	if len(pts) == 0 {
		return geom.Curve{}
	}
	segs := make([]geom.Vertex, 0, len(pts))
	n := len(pts) - 1
	if closed {
		n = len(pts)
	}
	for i := 0; i < n; i++ {
		from, to := pts[i], pts[(i+1)%len(pts)]
		segs = append(segs, bulgeVertex(from.p, to.p, from.bulge))
	}
	c := geom.NewCurve(pts[0].p, segs...)
	if closed && c.Len() > 2 && c.Vertices[c.Len()-2].P.Near(c.Start(), ChainTolerance) && c.Vertices[c.Len()-1].Kind == geom.Line {
		// The closing flag repeated an explicit closing vertex.
		c.Vertices = c.Vertices[:c.Len()-1]
	}
	return c
}

func bulgeVertex(from, to geom.Point, bulge float64) geom.Vertex {
	if bulge == 0 || from.Near(to, ChainTolerance) {
		return geom.Vertex{P: to, Kind: geom.Line}
	}
	chord := to.Sub(from)
	d := chord.Len()
	mid := from.Add(chord.Scale(0.5))
	left := geom.Pt(-chord.Y, chord.X).Scale(1 / d)
	h := d / 2 * (1 - bulge*bulge) / (2 * bulge)
	kind := geom.ArcCCW
	if bulge < 0 {
		kind = geom.ArcCW
	}
	return geom.Vertex{P: to, Kind: kind, Center: mid.Add(left.Scale(h))}
}
