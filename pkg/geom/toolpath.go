package geom

// Toolpath is the ordered set of curves the tool traverses. Each curve is
// machined independently, in order.
type Toolpath []Curve

// Bounds returns the bounding box of every curve in the toolpath.
func (tp Toolpath) Bounds() Box {
	b := EmptyBox()
	for _, c := range tp {
		b = b.Union(c.Bounds())
	}
	return b
}

// VertexCount returns the total number of vertices over all curves.
func (tp Toolpath) VertexCount() int {
	n := 0
	for _, c := range tp {
		n += c.Len()
	}
	return n
}

// Clone returns a deep copy of the toolpath.
func (tp Toolpath) Clone() Toolpath {
	out := make(Toolpath, len(tp))
	for i, c := range tp {
		out[i] = c.Clone()
	}
	return out
}
