// Command stackdemo shows a stack of coloured tiles that keeps rearranging itself.
package main

import (
	"image"
	"image/color"
	"os"
	"time"

	mclip "honnef.co/go/stackview/clip"
	"honnef.co/go/stackview/constraint"
	"honnef.co/go/stackview/geom"
	"honnef.co/go/stackview/layout"
	"honnef.co/go/stackview/mem"
	"honnef.co/go/stackview/stack"
	"honnef.co/go/stackview/view"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"go.uber.org/zap"
)

const (
	stepInterval      = 1500 * time.Millisecond
	animationDuration = 400 * time.Millisecond
	padding           = 16
)

var (
	colorBackground = color.NRGBA{0xff, 0xff, 0xea, 0xff}
	colorStack      = color.NRGBA{0x44, 0x44, 0x44, 0xff}
	tileColors      = [...]color.NRGBA{
		{0xbb, 0x5d, 0x5d, 0xff},
		{0x44, 0x88, 0x44, 0xff},
		{0x4b, 0xac, 0xb8, 0xff},
		{0x88, 0x88, 0x88, 0xff},
	}
	tileSizes = [...]geom.Size{
		{Width: 60, Height: 40},
		{Width: 100, Height: 80},
		{Width: 40, Height: 120},
		{Width: 80, Height: 60},
	}
)

type tile struct {
	v     *view.View
	color color.NRGBA
}

type demo struct {
	log   *zap.Logger
	win   *view.Window
	stack *stack.View
	tiles []tile

	size    image.Point
	next    time.Time
	step    int
	spacing view.Animation[float64]
}

func newDemo(log *zap.Logger) *demo {
	d := &demo{log: log}
	d.win = view.NewWindow(geom.Sz(480, 320), log.Named("window"))
	d.stack = stack.New("tiles")
	d.stack.Logger = log.Named("stack")
	d.stack.SetConfig(stack.Config{Alignment: stack.AlignCenter, Distribution: stack.EqualSpacing, Spacing: 8})
	for i, sz := range tileSizes {
		v := view.New(string(rune('a' + i)))
		v.SetIntrinsicSize(sz)
		d.stack.AddArranged(v)
		d.tiles = append(d.tiles, tile{v: v, color: tileColors[i]})
	}

	root := d.win.Root
	sv := &d.stack.View
	sv.SetTranslatesFrame(false)
	root.AddSubview(sv)
	root.AddConstraints(
		constraint.New(sv, constraint.Left, constraint.Equal, root, constraint.Left, 1, padding),
		constraint.New(sv, constraint.Right, constraint.Equal, root, constraint.Right, 1, -padding),
		constraint.New(sv, constraint.CenterY, constraint.Equal, root, constraint.CenterY, 1, 0),
	)
	return d
}

// advance runs the next step of the script.
func (d *demo) advance(now time.Time) {
	d.log.Debug("demo step", zap.Int("step", d.step))
	b := d.tiles[1].v
	switch d.step % 6 {
	case 0:
		d.win.Animate(animationDuration, view.EaseBezier, func() { b.SetHidden(true) })
	case 1:
		d.win.Animate(animationDuration, view.EaseBezier, func() { b.SetHidden(false) })
	case 2, 4:
		next := (d.stack.Distribution() + 1) % (stack.EqualCentering + 1)
		d.win.Animate(animationDuration, view.EaseBezier, func() {
			d.stack.SetDistribution(next)
			d.win.LayoutIfNeeded()
		})
	case 3:
		from := d.stack.Spacing()
		to := 32.0
		if from >= to {
			to = 8
		}
		view.StartSimpleAnimation(now, &d.spacing, from, to, stepInterval/2, view.EaseOut(2))
	case 5:
		align := stack.AlignLeading
		if d.stack.Alignment() != stack.AlignCenter {
			align = stack.AlignCenter
		}
		d.win.Animate(animationDuration, view.EaseBezier, func() {
			d.stack.SetAlignment(align)
			d.win.LayoutIfNeeded()
		})
	}
	d.step++
}

func (d *demo) frame(gtx layout.Context) {
	now := gtx.Now
	if d.next.IsZero() {
		d.next = now.Add(stepInterval)
	}
	if size := gtx.Constraints.Max; size != d.size {
		d.size = size
		d.win.Resize(geom.Sz(float64(size.X), float64(size.Y)))
	}

	d.win.Tick(now)
	if !now.Before(d.next) {
		d.advance(now)
		d.next = now.Add(stepInterval)
	}
	if !d.spacing.Done() {
		d.stack.SetSpacing(d.spacing.Value(now))
	}
	d.win.LayoutIfNeeded()

	paint.Fill(gtx.Ops, colorBackground)
	frame := d.stack.PresentationFrame()
	outline := mclip.RectangularOutline{Rect: mclip.FromRect(frame, geom.Point{}), Width: 1}
	paint.FillShape(gtx.Ops, colorStack, outline.Op(gtx.Ops))
	for _, t := range d.tiles {
		if t.v.Layer().Hidden() {
			continue
		}
		r := mclip.FromRect(t.v.PresentationFrame(), frame.Origin())
		if r.Empty() {
			continue
		}
		paint.FillShape(gtx.Ops, t.color, r.Op(gtx.Ops))
	}

	if d.win.Animating() || !d.spacing.Done() {
		op.InvalidateOp{}.Add(gtx.Ops)
	} else {
		op.InvalidateOp{At: d.next}.Add(gtx.Ops)
	}
}

func run(w *app.Window, log *zap.Logger) error {
	d := newDemo(log)
	var rops mem.ReusableOps
	for {
		switch ev := w.NextEvent().(type) {
		case system.DestroyEvent:
			return ev.Err
		case system.FrameEvent:
			gtx := layout.NewContext(rops.Get(), ev)
			d.frame(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}

func main() {
	log, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	go func() {
		w := app.NewWindow(app.Title("stackdemo"), app.Size(unit.Dp(480), unit.Dp(320)))
		if err := run(w, log); err != nil {
			log.Fatal("window failed", zap.Error(err))
		}
		os.Exit(0)
	}()
	app.Main()
}
