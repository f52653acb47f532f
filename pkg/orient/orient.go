// Package orient normalizes the winding of every curve in a toolpath so the
// cutter engages the material the same way on every profile.
package orient

import "github.com/chazu/dannycam/pkg/geom"

// Want returns the winding that gives the requested cutting direction for a
// spindle turning clockwise: climb milling cuts clockwise profiles,
// conventional milling counterclockwise ones.
func Want(climb bool) geom.Orientation {
	if climb {
		return geom.Clockwise
	}
	return geom.CounterClockwise
}

// Normalize returns a copy of tp in which every curve winds the way Want
// says, and the number of curves it had to reverse. Curves with zero
// signed area have no winding and are left as they are.
func Normalize(tp geom.Toolpath, climb bool) (geom.Toolpath, int) {
	want := Want(climb)
	out := make(geom.Toolpath, len(tp))
	reversed := 0
	for i, c := range tp {
		o := c.Orientation()
		if o == geom.Degenerate || o == want {
			out[i] = c.Clone()
			continue
		}
		out[i] = c.Reversed()
		reversed++
	}
	return out, reversed
}
