// Package view is a minimal retained view tree: views with frames, hidden flags and intrinsic sizes, layers
// that animate frame changes, and a window that lays the tree out with a constraint solver.
package view

import (
	"fmt"

	"honnef.co/go/stackview/constraint"
	"honnef.co/go/stackview/container"
	"honnef.co/go/stackview/geom"
	"honnef.co/go/stackview/layout"
	myslices "honnef.co/go/stackview/slices"

	"golang.org/x/exp/slices"
)

// Node is implemented by types that embed a View and want to take part in layout.
type Node interface {
	// UpdateConstraints is called during a layout pass on views that asked for it with
	// SetNeedsUpdateConstraints. Subviews are updated before their superviews.
	UpdateConstraints()
	// WillRemoveSubview is called before sub is detached from the view.
	WillRemoveSubview(sub *View)
}

// HiddenObserver is called whenever a view's hidden property is assigned, even if the value didn't change.
type HiddenObserver func(v *View, old, hidden bool)

type hiddenObserver struct {
	key any
	fn  HiddenObserver
}

// View is a rectangle in a view tree. Its frame is relative to its superview.
type View struct {
	Name string
	// Wrapper is the outermost value embedding this View, if any.
	Wrapper Node

	frame           geom.Rect
	hidden          bool
	intrinsic       geom.Size
	baseline        container.Option[float64]
	margins         geom.Insets
	hugging         [2]constraint.Priority
	compression     [2]constraint.Priority
	translatesFrame bool

	superview *View
	subviews  []*View
	window    *Window

	constraints []*constraint.Constraint
	// implicit holds the intrinsic-size or frame constraints generated by the window.
	implicit      []*constraint.Constraint
	implicitDirty bool

	observers []hiddenObserver
	layer     Layer

	needsUpdateConstraints bool
}

func New(name string) *View {
	v := new(View)
	v.Init(name)
	return v
}

// Init initializes a View that is embedded in another type.
func (v *View) Init(name string) {
	*v = View{
		Name:                   name,
		intrinsic:              geom.Size{Width: geom.NoIntrinsicMetric, Height: geom.NoIntrinsicMetric},
		margins:                geom.UniformInsets(8),
		hugging:                [2]constraint.Priority{constraint.DefaultLow, constraint.DefaultLow},
		compression:            [2]constraint.Priority{constraint.DefaultHigh, constraint.DefaultHigh},
		translatesFrame:        true,
		needsUpdateConstraints: true,
	}
	v.layer.view = v
}

func (v *View) String() string {
	if v.Name == "" {
		return fmt.Sprintf("%p", v)
	}
	return v.Name
}

func (v *View) LayoutMargins() geom.Insets { return v.margins }

func (v *View) SetLayoutMargins(in geom.Insets) {
	v.margins = in
	v.SetNeedsLayout()
}

// FirstBaseline returns the offset of the first baseline from the top edge, if the view has one.
func (v *View) FirstBaseline() (float64, bool) { return v.baseline.Get() }

func (v *View) SetFirstBaseline(off float64) {
	v.baseline = container.Some(off)
	v.SetNeedsLayout()
}

// IntrinsicSize returns the view's natural size. Either dimension may be geom.NoIntrinsicMetric.
func (v *View) IntrinsicSize() geom.Size { return v.intrinsic }

func (v *View) SetIntrinsicSize(sz geom.Size) {
	if sz == v.intrinsic {
		return
	}
	v.intrinsic = sz
	v.invalidateImplicit()
}

func (v *View) ContentHugging(axis layout.Axis) constraint.Priority { return v.hugging[axis] }

func (v *View) SetContentHugging(axis layout.Axis, p constraint.Priority) {
	v.hugging[axis] = p
	v.invalidateImplicit()
}

func (v *View) CompressionResistance(axis layout.Axis) constraint.Priority {
	return v.compression[axis]
}

func (v *View) SetCompressionResistance(axis layout.Axis, p constraint.Priority) {
	v.compression[axis] = p
	v.invalidateImplicit()
}

// TranslatesFrame reports whether the view's frame is an input to layout rather than an output.
func (v *View) TranslatesFrame() bool { return v.translatesFrame }

func (v *View) SetTranslatesFrame(b bool) {
	if b == v.translatesFrame {
		return
	}
	v.translatesFrame = b
	v.invalidateImplicit()
}

func (v *View) Frame() geom.Rect { return v.frame }

// SetFrame sets the view's frame. For views that don't translate their frame into constraints, the next layout
// pass overwrites it.
func (v *View) SetFrame(r geom.Rect) {
	v.frame = r
	if v.translatesFrame {
		v.invalidateImplicit()
	}
}

// PresentationFrame returns the frame as currently drawn, which differs from Frame while an animation is
// running.
func (v *View) PresentationFrame() geom.Rect {
	if v.window == nil {
		return v.frame
	}
	return v.layer.presentation(v.window.now, v.frame)
}

func (v *View) IsHidden() bool { return v.hidden }

// SetHidden assigns the hidden property and notifies observers. Without observers the layer follows the
// property directly; observers take over that responsibility.
func (v *View) SetHidden(hidden bool) {
	old := v.hidden
	v.hidden = hidden
	if len(v.observers) == 0 {
		v.layer.hidden = hidden
		if old != hidden {
			v.SetNeedsLayout()
		}
		return
	}
	// Observers may unregister themselves.
	for _, o := range slices.Clone(v.observers) {
		o.fn(v, old, hidden)
	}
}

// ObserveHidden registers fn under key. Registering an existing key does nothing.
func (v *View) ObserveHidden(key any, fn HiddenObserver) {
	if v.ObservingHidden(key) {
		return
	}
	v.observers = append(v.observers, hiddenObserver{key, fn})
}

// UnobserveHidden removes the observer registered under key, if any.
func (v *View) UnobserveHidden(key any) {
	i := slices.IndexFunc(v.observers, func(o hiddenObserver) bool { return o.key == key })
	if i >= 0 {
		v.observers = slices.Delete(v.observers, i, i+1)
	}
}

func (v *View) ObservingHidden(key any) bool {
	return slices.ContainsFunc(v.observers, func(o hiddenObserver) bool { return o.key == key })
}

func (v *View) Layer() *Layer { return &v.layer }

func (v *View) Superview() *View { return v.superview }

func (v *View) Subviews() []*View { return slices.Clone(v.subviews) }

func (v *View) Window() *Window { return v.window }

// AddSubview adds sub as the last subview of v, detaching it from its previous superview first.
func (v *View) AddSubview(sub *View) {
	v.InsertSubview(sub, len(v.subviews))
}

// InsertSubview inserts sub at index i of v's subviews. If sub already is a subview of v it is only moved.
func (v *View) InsertSubview(sub *View, i int) {
	if sub.superview == v {
		v.subviews, _ = myslices.Remove(v.subviews, sub)
		if i > len(v.subviews) {
			i = len(v.subviews)
		}
		v.subviews = slices.Insert(v.subviews, i, sub)
		return
	}
	if sub.superview != nil {
		sub.RemoveFromSuperview()
	}
	v.subviews = slices.Insert(v.subviews, i, sub)
	sub.superview = v
	sub.implicitDirty = true
	if v.window != nil {
		v.window.attach(sub)
	}
	v.SetNeedsLayout()
}

// RemoveFromSuperview detaches v from its superview. Constraints installed on former ancestors that refer to
// v or its subviews are removed.
func (v *View) RemoveFromSuperview() {
	sv := v.superview
	if sv == nil {
		return
	}
	if sv.Wrapper != nil {
		sv.Wrapper.WillRemoveSubview(v)
	}
	// The hook may have removed v already.
	if v.superview != sv {
		return
	}

	subtree := container.Set[constraint.Item]{}
	v.walk(func(d *View) { subtree.Add(d) })
	for a := sv; a != nil; a = a.superview {
		var drop []*constraint.Constraint
		for _, c := range a.constraints {
			if subtree.Has(c.First) || (c.Second != nil && subtree.Has(c.Second)) {
				drop = append(drop, c)
			}
		}
		a.RemoveConstraints(drop...)
	}

	sv.subviews, _ = myslices.Remove(sv.subviews, v)
	v.superview = nil
	if w := sv.window; w != nil {
		w.detach(v)
	}
	sv.SetNeedsLayout()
}

// walk calls fn for v and all of its descendants, parents before children.
func (v *View) walk(fn func(*View)) {
	stack := []*View{v}
	for len(stack) > 0 {
		var d *View
		d, stack, _ = myslices.Pop(stack)
		fn(d)
		for i := len(d.subviews) - 1; i >= 0; i-- {
			stack = append(stack, d.subviews[i])
		}
	}
}

func (v *View) root() *View {
	for v.superview != nil {
		v = v.superview
	}
	return v
}

// Constraints returns the constraints installed on v.
func (v *View) Constraints() []*constraint.Constraint { return slices.Clone(v.constraints) }

// AddConstraints installs cs on v. They are active while v is in a window.
func (v *View) AddConstraints(cs ...*constraint.Constraint) {
	for _, c := range cs {
		if slices.Contains(v.constraints, c) {
			continue
		}
		v.constraints = append(v.constraints, c)
		if v.window != nil {
			v.window.install(c)
		}
	}
	v.SetNeedsLayout()
}

// RemoveConstraints removes those of cs that are installed on v and ignores the rest.
func (v *View) RemoveConstraints(cs ...*constraint.Constraint) {
	for _, c := range cs {
		var ok bool
		v.constraints, ok = myslices.Remove(v.constraints, c)
		if ok && v.window != nil {
			v.window.uninstall(c)
		}
	}
	v.SetNeedsLayout()
}

func (v *View) SetNeedsUpdateConstraints() {
	v.needsUpdateConstraints = true
	v.SetNeedsLayout()
}

func (v *View) NeedsUpdateConstraints() bool { return v.needsUpdateConstraints }

func (v *View) SetNeedsLayout() {
	if v.window != nil {
		v.window.dirty = true
	}
}

// LayoutIfNeeded runs a layout pass if anything changed since the last one. Outside of a window only the
// update-constraints part of the pass runs.
func (v *View) LayoutIfNeeded() {
	if v.window != nil {
		v.window.LayoutIfNeeded()
		return
	}
	for i := 0; i < maxUpdatePasses && updateConstraintsIfNeeded(v.root()); i++ {
	}
}

func (v *View) invalidateImplicit() {
	v.implicitDirty = true
	v.SetNeedsLayout()
}

func (v *View) updateConstraints() {
	if v.Wrapper != nil {
		v.Wrapper.UpdateConstraints()
	}
}

// implicitConstraints returns the constraints that stand in for v's frame, or for its intrinsic size if the
// frame is computed by layout.
func (v *View) implicitConstraints() []*constraint.Constraint {
	var out []*constraint.Constraint
	if v.translatesFrame {
		f := v.frame
		var sv constraint.Item
		if v.superview != nil {
			sv = v.superview
		}
		pin := func(attr constraint.Attribute, val float64) {
			var c *constraint.Constraint
			if sv == nil {
				c = constraint.New(v, attr, constraint.Equal, nil, constraint.NotAnAttribute, 1, val)
			} else {
				c = constraint.New(v, attr, constraint.Equal, sv, attr, 1, val)
			}
			c.Identifier = "frame"
			out = append(out, c)
		}
		pin(constraint.Left, f.X)
		pin(constraint.Top, f.Y)
		c := constraint.New(v, constraint.Width, constraint.Equal, nil, constraint.NotAnAttribute, 1, f.Width)
		c.Identifier = "frame"
		out = append(out, c)
		c = constraint.New(v, constraint.Height, constraint.Equal, nil, constraint.NotAnAttribute, 1, f.Height)
		c.Identifier = "frame"
		out = append(out, c)
		return out
	}

	for _, axis := range [...]layout.Axis{layout.Horizontal, layout.Vertical} {
		n := layout.Main(axis, v.intrinsic)
		if n < 0 {
			continue
		}
		attr := constraint.Width
		if axis == layout.Vertical {
			attr = constraint.Height
		}
		hug := constraint.New(v, attr, constraint.LessOrEqual, nil, constraint.NotAnAttribute, 1, n)
		hug.Priority = v.hugging[axis]
		hug.Identifier = "hugging"
		res := constraint.New(v, attr, constraint.GreaterOrEqual, nil, constraint.NotAnAttribute, 1, n)
		res.Priority = v.compression[axis]
		res.Identifier = "compression"
		out = append(out, hug, res)
	}
	return out
}
