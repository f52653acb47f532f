// Package geom defines the planar toolpath model consumed by the compiler:
// points, vertices tagged as line or arc segment ends, curves and toolpaths.
// Values are immutable; operations such as Reversed and RotatedTo return
// new curves.
package geom
