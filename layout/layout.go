// Package layout projects sizes and points onto a stacking axis. The axis type itself is gio's.
package layout

import (
	"honnef.co/go/stackview/geom"
)

// Main returns the component of sz along a.
func Main(a Axis, sz geom.Size) float64 {
	if a == Horizontal {
		return sz.Width
	} else {
		return sz.Height
	}
}

// Other returns the axis perpendicular to a.
func Other(a Axis) Axis {
	if a == Horizontal {
		return Vertical
	} else {
		return Horizontal
	}
}
