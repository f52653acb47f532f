package dxfin

import "github.com/chazu/dannycam/pkg/geom"

// chain joins pieces whose endpoints meet into longer curves. Pieces are
// taken in drawing order; each chain grows forward, then backward, using
// either end of the remaining pieces. A chain that returns to its start is
// snapped exactly closed.
func chain(pieces []geom.Curve) geom.Toolpath {
	used := make([]bool, len(pieces))
	var out geom.Toolpath
	for i := range pieces {
		if used[i] {
			continue
		}
		used[i] = true
		c := pieces[i].Clone()
		c = grow(c, pieces, used)
		if !c.Closed() {
			c = grow(c.Reversed(), pieces, used).Reversed()
		}
		if c.Closed() {
			c.Vertices[c.Len()-1].P = c.Start()
		}
		out = append(out, c)
	}
	return out
}

// grow appends unused pieces to the end of c until none fits or c closes.
func grow(c geom.Curve, pieces []geom.Curve, used []bool) geom.Curve {
	for !c.Closed() {
		end := c.End()
		found := false
		for j, p := range pieces {
			if used[j] {
				continue
			}
			switch {
			case p.Start().Near(end, ChainTolerance):
			case p.End().Near(end, ChainTolerance):
				p = p.Reversed()
			default:
				continue
			}
			used[j] = true
			c = join(c, p)
			found = true
			break
		}
		if !found {
			break
		}
	}
	return c
}

// join appends the segments of next to c; next starts where c ends.
func join(c, next geom.Curve) geom.Curve {
	vs := make([]geom.Vertex, 0, c.Len()+next.Len()-1)
	vs = append(vs, c.Vertices...)
	vs = append(vs, next.Vertices[1:]...)
	return geom.Curve{Vertices: vs}
}
