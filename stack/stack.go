// Package stack implements a view that arranges its subviews in a row or column, using constraints.
//
// The arranged views are laid out along the stack's axis according to its distribution and lined up across
// it according to its alignment. Hidden arranged views don't take up space; hiding and showing them inside
// Window.Animate animates the other views into place.
package stack

import (
	"fmt"

	"honnef.co/go/stackview/constraint"
	"honnef.co/go/stackview/layout"
	myslices "honnef.co/go/stackview/slices"
	"honnef.co/go/stackview/view"

	"go.uber.org/zap"
	"golang.org/x/exp/slices"
)

var nop = zap.NewNop()

// View is a stack view. The zero value is not usable; use New.
type View struct {
	view.View

	// Logger receives debug output about layout passes. May be nil.
	Logger *zap.Logger

	cfg      Config
	arranged []*view.View
	vis      visibility

	live    *Set
	spacers []*view.View
	arena   constraint.Arena

	// syntheses counts layout passes that derived a new constraint set.
	syntheses int
}

// New returns a horizontal stack with Fill alignment and distribution arranging the given views.
func New(name string, arranged ...*view.View) *View {
	sv := new(View)
	sv.View.Init(name)
	sv.Wrapper = sv
	sv.vis = newVisibility(sv)
	for _, v := range arranged {
		sv.AddArranged(v)
	}
	return sv
}

func (sv *View) log() *zap.Logger {
	if sv.Logger == nil {
		return nop
	}
	return sv.Logger
}

func (sv *View) Config() Config { return sv.cfg }

// SetConfig replaces the whole arrangement.
func (sv *View) SetConfig(cfg Config) {
	if cfg == sv.cfg {
		return
	}
	sv.cfg = cfg
	sv.SetNeedsUpdateConstraints()
}

func (sv *View) Axis() layout.Axis { return sv.cfg.Axis }

func (sv *View) SetAxis(axis layout.Axis) {
	sv.cfg.Axis = axis
	sv.SetNeedsUpdateConstraints()
}

func (sv *View) Alignment() Alignment { return sv.cfg.Alignment }

func (sv *View) SetAlignment(a Alignment) {
	sv.cfg.Alignment = a
	sv.SetNeedsUpdateConstraints()
}

func (sv *View) Distribution() Distribution { return sv.cfg.Distribution }

func (sv *View) SetDistribution(d Distribution) {
	sv.cfg.Distribution = d
	sv.SetNeedsUpdateConstraints()
}

func (sv *View) Spacing() float64 { return sv.cfg.Spacing }

func (sv *View) SetSpacing(spacing float64) {
	sv.cfg.Spacing = spacing
	sv.SetNeedsUpdateConstraints()
}

func (sv *View) MarginsRelative() bool { return sv.cfg.MarginsRelative }

func (sv *View) SetMarginsRelative(b bool) {
	sv.cfg.MarginsRelative = b
	sv.SetNeedsUpdateConstraints()
}

// Arranged returns the arranged views in order.
func (sv *View) Arranged() []*view.View { return slices.Clone(sv.arranged) }

func (sv *View) isArranged(v *view.View) bool { return slices.Contains(sv.arranged, v) }

// Live returns the constraint set installed by the last layout pass, or nil.
func (sv *View) Live() *Set { return sv.live }

// AddArranged appends v to the arranged views, making it a subview of the stack. A view that is already
// arranged moves to the end.
func (sv *View) AddArranged(v *view.View) {
	n := len(sv.arranged)
	if sv.isArranged(v) {
		n--
	}
	sv.InsertArranged(v, n)
}

// InsertArranged inserts v at index i of the arranged views. It panics if i is out of range. A view that is
// already arranged is moved.
func (sv *View) InsertArranged(v *view.View, i int) {
	n := len(sv.arranged)
	moving := sv.isArranged(v)
	if moving {
		n--
	}
	if i < 0 || i > n {
		panic(fmt.Sprintf("stack: index %d out of range [0:%d]", i, n))
	}
	if moving {
		sv.arranged, _ = myslices.Remove(sv.arranged, v)
	}
	v.SetTranslatesFrame(false)
	if v.Superview() != &sv.View {
		sv.AddSubview(v)
	}
	sv.arranged = slices.Insert(sv.arranged, i, v)
	sv.vis.observe(v)
	sv.SetNeedsUpdateConstraints()
}

// RemoveArranged stops arranging v. It remains a subview of the stack; use RemoveFromSuperview to detach it.
func (sv *View) RemoveArranged(v *view.View) {
	var ok bool
	sv.arranged, ok = myslices.Remove(sv.arranged, v)
	if !ok {
		return
	}
	sv.vis.forget(v)
	sv.SetNeedsUpdateConstraints()
}

// WillRemoveSubview implements view.Node.
func (sv *View) WillRemoveSubview(sub *view.View) {
	sv.RemoveArranged(sub)
}

// UpdateConstraints implements view.Node. It replaces the live constraint set with one derived from the
// current arranged views and configuration.
func (sv *View) UpdateConstraints() {
	sv.retract()

	snapshot := make([]Arranged, len(sv.arranged))
	for i, v := range sv.arranged {
		snapshot[i] = Arranged{
			Item:      v,
			Intrinsic: v.IntrinsicSize(),
			Hidden:    sv.vis.isHidden(v),
		}
	}
	set := Synthesize(sv.cfg, &sv.arena, &sv.View, snapshot, func() constraint.Item {
		sp := newSpacer(fmt.Sprintf("%s.spacer%d", sv.Name, len(sv.spacers)))
		sv.InsertSubview(sp, 0)
		sv.spacers = append(sv.spacers, sp)
		return sp
	})

	sv.AddConstraints(set.Container...)
	for _, c := range set.Arranged {
		c.First.(*view.View).AddConstraints(c)
	}
	sv.live = set
	sv.syntheses++

	sv.log().Debug("synthesized stack constraints",
		zap.Stringer("stack", sv),
		zap.Stringer("axis", sv.cfg.Axis),
		zap.Stringer("alignment", sv.cfg.Alignment),
		zap.Stringer("distribution", sv.cfg.Distribution),
		zap.Int("arranged", len(sv.arranged)),
		zap.Int("constraints", set.Len()),
		zap.Int("spacers", len(set.Spacers)))
}

// retract removes the live constraint set and the spacers it used.
func (sv *View) retract() {
	if sv.live != nil {
		sv.RemoveConstraints(sv.live.Container...)
		for _, c := range sv.live.Arranged {
			c.First.(*view.View).RemoveConstraints(c)
		}
		sv.live = nil
	}
	for _, sp := range sv.spacers {
		sp.RemoveFromSuperview()
	}
	sv.spacers = sv.spacers[:0]
	sv.arena.Reset()
}
