// Package kernel defines the abstract geometry engine interface.
// Implementations (sdfx, noroom) answer the offset queries the plunge
// planner needs behind this interface, so the compiler never depends on a
// particular geometry library.
package kernel

import "github.com/chazu/dannycam/pkg/geom"

// Kernel is the abstract geometry engine interface.
type Kernel interface {
	// Shrink offsets the region bounded by the closed curve c inward by
	// distance. An empty Region means there is no room left inside.
	// Errors report a failed query, not a lack of room.
	Shrink(c geom.Curve, distance float64) (Region, error)

	// BoundingBox returns the axis-aligned bounds of a toolpath.
	BoundingBox(tp geom.Toolpath) geom.Box
}
