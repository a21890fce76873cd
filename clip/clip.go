// Package clip builds gio clip operations for rectangles with fractional coordinates, which animated frames
// usually have.
package clip

import (
	"honnef.co/go/stackview/geom"

	"gioui.org/f32"
	"gioui.org/op"
	"gioui.org/op/clip"
)

type FRect struct {
	Min f32.Point
	Max f32.Point
}

// FromRect converts a frame to an FRect, offset by origin.
func FromRect(r geom.Rect, origin geom.Point) FRect {
	r = r.Offset(origin)
	return FRect{
		Min: f32.Pt(float32(r.X), float32(r.Y)),
		Max: f32.Pt(float32(r.MaxX()), float32(r.MaxY())),
	}
}

func (r FRect) Empty() bool {
	return r.Max.X <= r.Min.X || r.Max.Y <= r.Min.Y
}

func (r FRect) Path(ops *op.Ops) clip.PathSpec {
	var p clip.Path
	p.Begin(ops)
	r.intoPath(&p, false)
	return p.End()
}

// intoPath adds the rectangle's outline to p, clockwise or, if reverse is set, counter-clockwise.
func (r FRect) intoPath(p *clip.Path, reverse bool) {
	a, b := f32.Pt(r.Max.X, r.Min.Y), f32.Pt(r.Min.X, r.Max.Y)
	if reverse {
		a, b = b, a
	}
	p.MoveTo(r.Min)
	p.LineTo(a)
	p.LineTo(r.Max)
	p.LineTo(b)
	p.LineTo(r.Min)
}

func (r FRect) Op(ops *op.Ops) clip.Op {
	return clip.Outline{Path: r.Path(ops)}.Op()
}

// RectangularOutline is a frame of the given width drawn inside Rect.
type RectangularOutline struct {
	Rect  FRect
	Width float32
}

func (out RectangularOutline) Op(ops *op.Ops) clip.Op {
	var p clip.Path
	p.Begin(ops)
	out.Rect.intoPath(&p, false)
	inner := FRect{
		Min: f32.Pt(out.Rect.Min.X+out.Width, out.Rect.Min.Y+out.Width),
		Max: f32.Pt(out.Rect.Max.X-out.Width, out.Rect.Max.Y-out.Width),
	}
	if !inner.Empty() {
		inner.intoPath(&p, true)
	}
	p.Close()

	return clip.Outline{Path: p.End()}.Op()
}
