package gcode

// Axis is an optional coordinate. The zero value is an omitted axis, so
// every real coordinate, including 0 and negative values, can be written.
type Axis struct {
	v  float64
	ok bool
}

// Some returns a present axis value.
func Some(v float64) Axis {
	return Axis{v: v, ok: true}
}

// None returns an omitted axis.
func None() Axis {
	return Axis{}
}

// Get returns the value and whether it is present.
func (a Axis) Get() (float64, bool) {
	return a.v, a.ok
}

// IsSet reports whether the axis is present.
func (a Axis) IsSet() bool {
	return a.ok
}

// Axes is the per-axis target of a linear move.
type Axes struct {
	X, Y, Z Axis
}

// XY returns axes moving in the plane only.
func XY(x, y float64) Axes {
	return Axes{X: Some(x), Y: Some(y)}
}

// Z returns axes moving along Z only.
func Z(z float64) Axes {
	return Axes{Z: Some(z)}
}

// XYZ returns axes moving on all three axes.
func XYZ(x, y, z float64) Axes {
	return Axes{X: Some(x), Y: Some(y), Z: Some(z)}
}

// Empty reports whether no axis is present.
func (a Axes) Empty() bool {
	return !a.X.ok && !a.Y.ok && !a.Z.ok
}

// planar reports whether X or Y is present.
func (a Axes) planar() bool {
	return a.X.ok || a.Y.ok
}
