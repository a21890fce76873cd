// Package geom provides the float64 geometry shared by the solver, the view tree and the stack engine.
package geom

import (
	"fmt"

	"honnef.co/go/stuff/math/mathutil"
)

type Size struct {
	Width, Height float64
}

type Point struct {
	X, Y float64
}

type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Insets are distances inward from the edges of a rectangle.
type Insets struct {
	Top    float64 `yaml:"top"`
	Left   float64 `yaml:"left"`
	Bottom float64 `yaml:"bottom"`
	Right  float64 `yaml:"right"`
}

// NoIntrinsicMetric marks a dimension of an intrinsic size that a view doesn't report.
const NoIntrinsicMetric = -1

func Sz(w, h float64) Size { return Size{Width: w, Height: h} }

func R(x, y, w, h float64) Rect { return Rect{X: x, Y: y, Width: w, Height: h} }

func UniformInsets(v float64) Insets { return Insets{Top: v, Left: v, Bottom: v, Right: v} }

func (r Rect) Size() Size     { return Size{r.Width, r.Height} }
func (r Rect) Origin() Point  { return Point{r.X, r.Y} }
func (r Rect) MaxX() float64  { return r.X + r.Width }
func (r Rect) MaxY() float64  { return r.Y + r.Height }
func (r Rect) Empty() bool    { return r.Width <= 0 || r.Height <= 0 }
func (r Rect) String() string { return fmt.Sprintf("(%g,%g %gx%g)", r.X, r.Y, r.Width, r.Height) }

// Offset returns r translated by p.
func (r Rect) Offset(p Point) Rect {
	r.X += p.X
	r.Y += p.Y
	return r
}

// Lerp interpolates between r and end. It satisfies view.Lerper.
func (r Rect) Lerp(end Rect, ratio float64) Rect {
	return Rect{
		X:      mathutil.Lerp(r.X, end.X, ratio),
		Y:      mathutil.Lerp(r.Y, end.Y, ratio),
		Width:  mathutil.Lerp(r.Width, end.Width, ratio),
		Height: mathutil.Lerp(r.Height, end.Height, ratio),
	}
}

// Approx reports whether two rectangles are equal within eps on every component.
func (r Rect) Approx(o Rect, eps float64) bool {
	return approx(r.X, o.X, eps) && approx(r.Y, o.Y, eps) &&
		approx(r.Width, o.Width, eps) && approx(r.Height, o.Height, eps)
}

func approx(a, b, eps float64) bool {
	d := a - b
	return d <= eps && d >= -eps
}
