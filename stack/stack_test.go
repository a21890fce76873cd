package stack

import (
	"testing"
	"time"

	"honnef.co/go/stackview/constraint"
	"honnef.co/go/stackview/geom"
	"honnef.co/go/stackview/layout"
	"honnef.co/go/stackview/view"

	"go.uber.org/zap/zaptest"
	"golang.org/x/exp/slices"
)

// newTestStack puts a stack with views of the given intrinsic sizes into a window. A zero frame sizes the
// stack to fit its content, anchored at the window's origin.
func newTestStack(t *testing.T, cfg Config, frame geom.Rect, sizes ...geom.Size) (*view.Window, *View, []*view.View) {
	t.Helper()
	w := view.NewWindow(geom.Sz(1000, 1000), zaptest.NewLogger(t))
	var children []*view.View
	for i, sz := range sizes {
		v := view.New(string(rune('a' + i)))
		v.SetIntrinsicSize(sz)
		children = append(children, v)
	}
	sv := New("stack", children...)
	sv.Logger = zaptest.NewLogger(t)
	sv.SetConfig(cfg)
	w.Root.AddSubview(&sv.View)
	if frame == (geom.Rect{}) {
		sv.SetTranslatesFrame(false)
		w.Root.AddConstraints(
			constraint.New(&sv.View, constraint.Left, constraint.Equal, w.Root, constraint.Left, 1, 0),
			constraint.New(&sv.View, constraint.Top, constraint.Equal, w.Root, constraint.Top, 1, 0),
		)
	} else {
		sv.SetFrame(frame)
	}
	w.LayoutIfNeeded()
	return w, sv, children
}

func near(a, b float64) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}

func involves(s *Set, item constraint.Item) bool {
	for _, cs := range [...][]*constraint.Constraint{s.Arranged, s.Container} {
		for _, c := range cs {
			if c.Involves(item) {
				return true
			}
		}
	}
	return false
}

func checkFrames(t *testing.T, views []*view.View, want ...geom.Rect) {
	t.Helper()
	for i, v := range views {
		if got := v.Frame(); !got.Approx(want[i], 1e-6) {
			t.Errorf("%s: got frame %v, want %v", v, got, want[i])
		}
	}
}

func TestFillFrames(t *testing.T) {
	_, sv, views := newTestStack(t, Config{Spacing: 10}, geom.Rect{},
		geom.Sz(20, 20), geom.Sz(40, 40), geom.Sz(60, 20))
	checkFrames(t, views,
		geom.R(0, 0, 20, 40),
		geom.R(30, 0, 40, 40),
		geom.R(80, 0, 60, 40))
	if got, want := sv.Frame(), geom.R(0, 0, 140, 40); !got.Approx(want, 1e-6) {
		t.Errorf("got stack frame %v, want %v", got, want)
	}
}

func TestFillProportionally(t *testing.T) {
	_, _, views := newTestStack(t, Config{Distribution: FillProportionally}, geom.R(0, 0, 300, 40),
		geom.Sz(100, 40), geom.Sz(50, 40))
	checkFrames(t, views,
		geom.R(0, 0, 200, 40),
		geom.R(200, 0, 100, 40))
}

func TestFillEqually(t *testing.T) {
	_, _, views := newTestStack(t, Config{Distribution: FillEqually, Spacing: 10}, geom.R(0, 0, 210, 40),
		geom.Sz(30, 40), geom.Sz(120, 40))
	checkFrames(t, views,
		geom.R(0, 0, 100, 40),
		geom.R(110, 0, 100, 40))
}

func TestEqualCentering(t *testing.T) {
	_, _, views := newTestStack(t, Config{Distribution: EqualCentering}, geom.R(0, 0, 300, 60),
		geom.Sz(20, 60), geom.Sz(40, 60), geom.Sz(60, 60))
	checkFrames(t, views,
		geom.R(0, 0, 20, 60),
		geom.R(120, 0, 40, 60),
		geom.R(240, 0, 60, 60))
}

func TestEqualCenteringCompressed(t *testing.T) {
	_, _, views := newTestStack(t, Config{Distribution: EqualCentering, Spacing: 10}, geom.R(0, 0, 100, 60),
		geom.Sz(20, 60), geom.Sz(40, 60), geom.Sz(60, 60))
	for i := 1; i < len(views); i++ {
		prev, cur := views[i-1].Frame(), views[i].Frame()
		if gap := cur.X - prev.MaxX(); gap < 10-1e-6 {
			t.Errorf("gap between %s and %s is %g, want at least 10", views[i-1], views[i], gap)
		}
	}
	if got := views[0].Frame().X; !near(got, 0) {
		t.Errorf("got first view at x=%g, want 0", got)
	}
	if got := views[2].Frame().MaxX(); !near(got, 100) {
		t.Errorf("got last view ending at x=%g, want 100", got)
	}
}

func TestEqualSpacing(t *testing.T) {
	_, _, views := newTestStack(t, Config{Distribution: EqualSpacing}, geom.R(0, 0, 300, 60),
		geom.Sz(20, 60), geom.Sz(40, 60), geom.Sz(60, 60))
	checkFrames(t, views,
		geom.R(0, 0, 20, 60),
		geom.R(110, 0, 40, 60),
		geom.R(240, 0, 60, 60))
}

func TestAlignment(t *testing.T) {
	tests := []struct {
		align Alignment
		want  []geom.Rect
	}{
		{AlignTop, []geom.Rect{geom.R(0, 0, 20, 40), geom.R(20, 0, 20, 20)}},
		{AlignCenter, []geom.Rect{geom.R(0, 0, 20, 40), geom.R(20, 10, 20, 20)}},
		{AlignBottom, []geom.Rect{geom.R(0, 0, 20, 40), geom.R(20, 20, 20, 20)}},
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			_, sv, views := newTestStack(t, Config{Alignment: tt.align}, geom.Rect{},
				geom.Sz(20, 40), geom.Sz(20, 20))
			checkFrames(t, views, tt.want...)
			if got, want := sv.Frame(), geom.R(0, 0, 40, 40); !got.Approx(want, 1e-6) {
				t.Errorf("got stack frame %v, want %v", got, want)
			}
		})
	}
}

func TestFirstBaseline(t *testing.T) {
	w := view.NewWindow(geom.Sz(1000, 1000), nil)
	a, b := view.New("a"), view.New("b")
	a.SetIntrinsicSize(geom.Sz(20, 40))
	a.SetFirstBaseline(30)
	b.SetIntrinsicSize(geom.Sz(20, 20))
	b.SetFirstBaseline(10)
	sv := New("stack", a, b)
	sv.SetAlignment(AlignFirstBaseline)
	sv.SetTranslatesFrame(false)
	w.Root.AddSubview(&sv.View)
	w.Root.AddConstraints(
		constraint.New(&sv.View, constraint.Left, constraint.Equal, w.Root, constraint.Left, 1, 0),
		constraint.New(&sv.View, constraint.Top, constraint.Equal, w.Root, constraint.Top, 1, 0),
	)
	w.LayoutIfNeeded()

	checkFrames(t, []*view.View{a, b}, geom.R(0, 0, 20, 40), geom.R(20, 20, 20, 20))
	if got := sv.Frame().Height; !near(got, 40) {
		t.Errorf("got stack height %g, want 40", got)
	}
}

func TestVerticalFirstBaselineContainsViews(t *testing.T) {
	w, sv, views := newTestStack(t, Config{Axis: layout.Vertical, Alignment: AlignFirstBaseline}, geom.Rect{},
		geom.Sz(50, 10), geom.Sz(100, 10))
	if n := len(w.Broken()); n != 0 {
		t.Fatalf("got %d broken constraints, want 0", n)
	}
	bounds := sv.Frame()
	if !near(bounds.Width, 100) {
		t.Errorf("got stack width %g, want 100", bounds.Width)
	}
	for _, v := range views {
		f := v.Frame()
		if f.X < -1e-6 || f.MaxX() > bounds.Width+1e-6 || f.Y < -1e-6 || f.MaxY() > bounds.Height+1e-6 {
			t.Errorf("%s: frame %v escapes stack bounds %v", v, f, bounds)
		}
	}
}

func TestSingleCenteredView(t *testing.T) {
	_, sv, views := newTestStack(t, Config{Alignment: AlignCenter}, geom.R(0, 0, 100, 100), geom.Sz(40, 20))
	checkFrames(t, views, geom.R(0, 40, 100, 20))
	if n := len(sv.Live().Spacers); n != 1 {
		t.Errorf("got %d spacers, want 1", n)
	}
}

func TestMarginsRelativeFrames(t *testing.T) {
	_, _, views := newTestStack(t, Config{MarginsRelative: true}, geom.R(0, 0, 200, 100), geom.Sz(50, 20))
	checkFrames(t, views, geom.R(8, 8, 184, 84))
}

func TestAllHidden(t *testing.T) {
	w := view.NewWindow(geom.Sz(1000, 1000), zaptest.NewLogger(t))
	a, b := view.New("a"), view.New("b")
	a.SetIntrinsicSize(geom.Sz(20, 20))
	b.SetIntrinsicSize(geom.Sz(30, 20))
	a.SetHidden(true)
	b.SetHidden(true)
	sv := New("stack", a, b)
	sv.SetSpacing(10)
	sv.SetTranslatesFrame(false)
	w.Root.AddSubview(&sv.View)
	w.Root.AddConstraints(
		constraint.New(&sv.View, constraint.Left, constraint.Equal, w.Root, constraint.Left, 1, 0),
		constraint.New(&sv.View, constraint.Top, constraint.Equal, w.Root, constraint.Top, 1, 0),
	)
	w.LayoutIfNeeded()

	if got := sv.Frame().Width; !near(got, 0) {
		t.Errorf("got stack width %g, want 0", got)
	}
	for _, v := range []*view.View{a, b} {
		if got := v.Frame().Width; !near(got, 0) {
			t.Errorf("%s: got width %g, want 0", v, got)
		}
	}
	if broken := w.Broken(); len(broken) != 0 {
		t.Errorf("got broken constraints %v", broken)
	}
}

func TestHideWithoutAnimation(t *testing.T) {
	w, sv, views := newTestStack(t, Config{Spacing: 10}, geom.Rect{},
		geom.Sz(20, 20), geom.Sz(40, 40), geom.Sz(60, 20))
	syntheses, commits := sv.syntheses, sv.vis.commits

	views[1].SetHidden(true)
	if got := sv.syntheses - syntheses; got != 1 {
		t.Errorf("got %d syntheses, want 1", got)
	}
	if got := sv.vis.commits - commits; got != 1 {
		t.Errorf("got %d commits, want 1", got)
	}
	if !views[1].Layer().Hidden() {
		t.Errorf("layer of hidden view is drawn")
	}
	w.LayoutIfNeeded()
	checkFrames(t, views,
		geom.R(0, 0, 20, 40),
		geom.R(25, 0, 0, 40),
		geom.R(30, 0, 60, 40))

	// A repeated assignment changes nothing.
	views[1].SetHidden(true)
	if got := sv.syntheses - syntheses; got != 1 {
		t.Errorf("duplicate assignment caused another synthesis")
	}
}

func TestAnimatedHide(t *testing.T) {
	w, sv, views := newTestStack(t, Config{Spacing: 10}, geom.Rect{},
		geom.Sz(20, 20), geom.Sz(40, 40), geom.Sz(60, 20))
	t0 := time.Unix(1000, 0)
	w.Tick(t0)
	b := views[1]
	syntheses, commits := sv.syntheses, sv.vis.commits

	w.Animate(300*time.Millisecond, view.EaseIn(1), func() {
		b.SetHidden(true)
	})
	if got := sv.syntheses - syntheses; got != 1 {
		t.Errorf("got %d syntheses before the animation, want 1", got)
	}
	if b.Layer().Animation(view.KeyBoundsSize) == nil {
		t.Fatalf("no size animation on the hidden view")
	}
	if b.Layer().Hidden() {
		t.Errorf("layer hidden while animating")
	}
	if !sv.vis.isHidden(b) {
		t.Errorf("animating view doesn't count as hidden")
	}
	if b.ObservingHidden(&sv.vis) {
		t.Errorf("still observing during the transition")
	}
	if sv.vis.commits != commits {
		t.Errorf("transition finalized early")
	}

	w.Tick(t0.Add(150 * time.Millisecond))
	if got, want := b.PresentationFrame().Width, 20.0; !near(got, want) {
		t.Errorf("got width %g halfway through, want %g", got, want)
	}

	w.Tick(t0.Add(300 * time.Millisecond))
	if got := sv.vis.commits - commits; got != 1 {
		t.Errorf("got %d commits, want 1", got)
	}
	if !b.Layer().Hidden() {
		t.Errorf("layer not hidden after the transition")
	}
	if !b.ObservingHidden(&sv.vis) {
		t.Errorf("observation not resumed")
	}
	if sv.vis.animatingToHidden.Has(b) {
		t.Errorf("view still marked as animating")
	}

	w.Tick(t0.Add(time.Second))
	w.LayoutIfNeeded()
	if got := sv.vis.commits - commits; got != 1 {
		t.Errorf("got %d commits after settling, want 1", got)
	}
	if got := sv.syntheses - syntheses; got != 1 {
		t.Errorf("got %d syntheses after settling, want 1", got)
	}
}

func TestRemoveArrangedDuringTransition(t *testing.T) {
	w, sv, views := newTestStack(t, Config{Spacing: 10}, geom.Rect{},
		geom.Sz(20, 20), geom.Sz(40, 40), geom.Sz(60, 20))
	t0 := time.Unix(1000, 0)
	w.Tick(t0)
	b := views[1]
	commits := sv.vis.commits

	w.Animate(300*time.Millisecond, view.EaseIn(1), func() {
		b.SetHidden(true)
	})
	sv.RemoveArranged(b)
	w.LayoutIfNeeded()
	if sv.vis.animatingToHidden.Has(b) {
		t.Errorf("removed view still marked as animating")
	}
	if sv.vis.isHidden(b) != b.IsHidden() {
		t.Errorf("removed view's visibility isn't its own hidden state")
	}

	w.Tick(t0.Add(time.Second))
	if got := sv.vis.commits - commits; got != 1 {
		t.Errorf("got %d commits, want 1", got)
	}
	if !b.Layer().Hidden() {
		t.Errorf("layer not hidden after the transition")
	}
	if b.ObservingHidden(&sv.vis) {
		t.Errorf("observation resumed for a view that is no longer arranged")
	}
}

func TestSupersededTransition(t *testing.T) {
	w, sv, views := newTestStack(t, Config{Spacing: 10}, geom.Rect{},
		geom.Sz(20, 20), geom.Sz(40, 40), geom.Sz(60, 20))
	t0 := time.Unix(1000, 0)
	w.Tick(t0)
	b := views[1]
	commits := sv.vis.commits

	w.Animate(300*time.Millisecond, view.EaseIn(1), func() {
		b.SetHidden(true)
	})
	b.SetHidden(false)

	w.Tick(t0.Add(300 * time.Millisecond))
	if got := sv.vis.commits - commits; got != 1 {
		t.Errorf("got %d commits, want 1", got)
	}
	if b.Layer().Hidden() {
		t.Errorf("layer hidden although the view was shown again")
	}
	if !sv.NeedsUpdateConstraints() {
		t.Errorf("superseded transition didn't request a new layout")
	}

	w.LayoutIfNeeded()
	checkFrames(t, views,
		geom.R(0, 0, 20, 40),
		geom.R(30, 0, 40, 40),
		geom.R(80, 0, 60, 40))

	w.Tick(t0.Add(time.Second))
	if got := sv.vis.commits - commits; got != 1 {
		t.Errorf("got %d commits after settling, want 1", got)
	}
}

func TestRemoveArranged(t *testing.T) {
	w, sv, views := newTestStack(t, Config{Spacing: 10}, geom.Rect{},
		geom.Sz(20, 20), geom.Sz(40, 40), geom.Sz(60, 20))
	a, b, c := views[0], views[1], views[2]

	sv.RemoveArranged(b)
	sv.RemoveArranged(b)
	w.LayoutIfNeeded()
	if got := sv.Arranged(); !slices.Equal(got, []*view.View{a, c}) {
		t.Errorf("got arranged %v, want [a c]", got)
	}
	if b.Superview() != &sv.View {
		t.Errorf("removed view is no longer a subview")
	}
	if b.ObservingHidden(&sv.vis) {
		t.Errorf("removed view still observed")
	}
	if involves(sv.Live(), b) {
		t.Errorf("live constraints still involve the removed view")
	}
	if got, want := c.Frame().X, 30.0; !near(got, want) {
		t.Errorf("got c.x %g, want %g", got, want)
	}

	c.RemoveFromSuperview()
	w.LayoutIfNeeded()
	if got := sv.Arranged(); !slices.Equal(got, []*view.View{a}) {
		t.Errorf("got arranged %v after detaching, want [a]", got)
	}
	if involves(sv.Live(), c) {
		t.Errorf("live constraints still involve the detached view")
	}
}

func TestInsertArranged(t *testing.T) {
	_, sv, views := newTestStack(t, Config{}, geom.Rect{}, geom.Sz(10, 10), geom.Sz(10, 10))
	a, b := views[0], views[1]
	c := view.New("c")
	sv.InsertArranged(c, 1)
	if got := sv.Arranged(); !slices.Equal(got, []*view.View{a, c, b}) {
		t.Errorf("got arranged %v, want [a c b]", got)
	}
	if c.TranslatesFrame() {
		t.Errorf("arranged view still translates its frame")
	}

	sv.AddArranged(a)
	if got := sv.Arranged(); !slices.Equal(got, []*view.View{c, b, a}) {
		t.Errorf("got arranged %v, want [c b a]", got)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("inserting out of range didn't panic")
		}
	}()
	sv.InsertArranged(view.New("d"), 4)
}

func TestResynthesisIsIdempotent(t *testing.T) {
	w, sv, _ := newTestStack(t, Config{Alignment: AlignCenter, Distribution: EqualCentering, Spacing: 4}, geom.Rect{},
		geom.Sz(10, 20), geom.Sz(30, 5), geom.Sz(7, 7))
	before := sv.Live().Describe()
	spacers := len(sv.Subviews())

	sv.SetNeedsUpdateConstraints()
	w.LayoutIfNeeded()
	if after := sv.Live().Describe(); !slices.Equal(before, after) {
		t.Errorf("descriptions differ:\n%q\n%q", before, after)
	}
	if n := len(sv.Subviews()); n != spacers {
		t.Errorf("got %d subviews, want %d", n, spacers)
	}
	if n := len(sv.Constraints()); n != len(sv.Live().Container) {
		t.Errorf("stack owns %d constraints, want %d", n, len(sv.Live().Container))
	}
}

func TestVerticalAxis(t *testing.T) {
	_, sv, views := newTestStack(t, Config{Axis: layout.Vertical, Alignment: AlignLeading, Spacing: 5}, geom.Rect{},
		geom.Sz(20, 10), geom.Sz(40, 30))
	checkFrames(t, views,
		geom.R(0, 0, 20, 10),
		geom.R(0, 15, 40, 30))
	if got, want := sv.Frame(), geom.R(0, 0, 40, 45); !got.Approx(want, 1e-6) {
		t.Errorf("got stack frame %v, want %v", got, want)
	}
}
