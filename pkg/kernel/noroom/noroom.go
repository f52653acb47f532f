// Package noroom provides a geometry kernel that never finds interior room.
// Compiling with it skips helical entry, so every curve is entered with a
// ramp or a straight plunge.
package noroom

import (
	"github.com/chazu/dannycam/pkg/geom"
	"github.com/chazu/dannycam/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

// Kernel answers every shrink query with an empty region.
type Kernel struct{}

// New returns a Kernel.
func New() *Kernel {
	return &Kernel{}
}

// Shrink always reports that there is no room.
func (k *Kernel) Shrink(c geom.Curve, distance float64) (kernel.Region, error) {
	return kernel.Region{}, nil
}

// BoundingBox returns the bounds of the toolpath.
func (k *Kernel) BoundingBox(tp geom.Toolpath) geom.Box {
	return tp.Bounds()
}
