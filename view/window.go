package view

import (
	"errors"
	"time"

	"honnef.co/go/stackview/constraint"
	"honnef.co/go/stackview/container"
	"honnef.co/go/stackview/geom"
	"honnef.co/go/stackview/solver"

	"go.uber.org/zap"
)

// maxUpdatePasses bounds how often a layout pass reruns the update-constraints phase when views keep asking
// for it.
const maxUpdatePasses = 8

// frameEpsilon is the smallest frame change that counts as a change.
const frameEpsilon = 1e-6

type animationParams struct {
	duration time.Duration
	ease     EasingFunction
}

// Window owns a view tree and lays it out.
type Window struct {
	Root *View

	log       *zap.Logger
	solver    *solver.Solver
	now       time.Time
	animation container.Option[animationParams]
	broken    container.Set[*constraint.Constraint]
	inLayout  bool
	dirty     bool
	passes    int
}

// NewWindow returns a window whose root view has the given size. A nil logger discards all output.
func NewWindow(size geom.Size, logger *zap.Logger) *Window {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Window{
		log:    logger,
		solver: solver.New(),
		broken: container.Set[*constraint.Constraint]{},
	}
	root := New("window")
	root.frame = geom.Rect{Width: size.Width, Height: size.Height}
	w.Root = root
	w.attach(root)
	return w
}

func (w *Window) Logger() *zap.Logger { return w.log }

// Now returns the time of the last Tick.
func (w *Window) Now() time.Time { return w.now }

// Passes returns the number of layout passes that ran.
func (w *Window) Passes() int { return w.passes }

// Resize changes the size of the root view.
func (w *Window) Resize(size geom.Size) {
	w.Root.SetFrame(geom.Rect{Width: size.Width, Height: size.Height})
}

// Broken returns the constraints that could not be satisfied and were left out of the solution.
func (w *Window) Broken() []*constraint.Constraint {
	out := make([]*constraint.Constraint, 0, len(w.broken))
	w.Root.walk(func(v *View) {
		for _, c := range v.constraints {
			if w.broken.Has(c) {
				out = append(out, c)
			}
		}
		for _, c := range v.implicit {
			if w.broken.Has(c) {
				out = append(out, c)
			}
		}
	})
	return out
}

// Animate runs fn with animations enabled: frame changes made by layout passes that run during fn are
// animated over d instead of being applied instantly.
func (w *Window) Animate(d time.Duration, ease EasingFunction, fn func()) {
	prev := w.animation
	w.animation = container.Some(animationParams{duration: d, ease: ease})
	defer func() { w.animation = prev }()
	fn()
}

// Tick advances the window's clock to now and completes the animations that have finished.
func (w *Window) Tick(now time.Time) {
	w.now = now
	var done []func()
	w.Root.walk(func(v *View) {
		done = append(done, v.layer.expire(now)...)
	})
	for _, fn := range done {
		fn()
	}
}

// Animating reports whether any view has an animation in flight.
func (w *Window) Animating() bool {
	animating := false
	w.Root.walk(func(v *View) {
		if len(v.layer.animations) > 0 {
			animating = true
		}
	})
	return animating
}

// LayoutIfNeeded updates constraints, solves them and assigns frames. Calls made while a pass is running
// return immediately; the running pass picks up their changes.
func (w *Window) LayoutIfNeeded() {
	if w.inLayout || !w.dirty {
		return
	}
	w.inLayout = true
	defer func() { w.inLayout = false }()

	w.passes++
	for i := 0; w.dirty && i < maxUpdatePasses; i++ {
		w.dirty = false
		for j := 0; j < maxUpdatePasses && updateConstraintsIfNeeded(w.Root); j++ {
		}
		w.syncImplicit()
		w.assignFrames()
	}
	w.log.Debug("laid out", zap.Int("pass", w.passes), zap.Int("constraints", w.solver.NumConstraints()))
}

// updateConstraintsIfNeeded calls UpdateConstraints on the views below root that need it, subviews before
// superviews. It reports whether any view was updated.
func updateConstraintsIfNeeded(root *View) bool {
	var order []*View
	root.walk(func(v *View) { order = append(order, v) })
	updated := false
	for i := len(order) - 1; i >= 0; i-- {
		v := order[i]
		if !v.needsUpdateConstraints || v.root() != root {
			continue
		}
		v.needsUpdateConstraints = false
		v.updateConstraints()
		updated = true
	}
	return updated
}

func (w *Window) syncImplicit() {
	w.Root.walk(func(v *View) {
		if !v.implicitDirty {
			return
		}
		v.implicitDirty = false
		for _, c := range v.implicit {
			w.uninstall(c)
		}
		v.implicit = v.implicitConstraints()
		for _, c := range v.implicit {
			w.install(c)
		}
	})
}

func (w *Window) assignFrames() {
	var done []func()
	w.Root.walk(func(v *View) {
		if v.translatesFrame {
			return
		}
		f := w.solver.Frame(v)
		if sv := v.superview; sv != nil {
			o := w.solver.Frame(sv).Origin()
			f.X -= o.X
			f.Y -= o.Y
		}
		if f.Approx(v.frame, frameEpsilon) {
			return
		}
		if params, ok := w.animation.Get(); ok {
			done = append(done, w.animateFrame(v, f, params)...)
		}
		v.frame = f
	})
	for _, fn := range done {
		fn()
	}
}

func (w *Window) animateFrame(v *View, to geom.Rect, params animationParams) []func() {
	from := v.PresentationFrame()
	if cur := v.layer.animations[KeyBoundsSize]; cur != nil && from.Size() == to.Size() {
		// Only the position changed; retarget the running size animation.
		cur.EndValue = to
		return nil
	}
	key := KeyPosition
	if from.Size() != to.Size() {
		key = KeyBoundsSize
	}
	anim := &FrameAnimation{}
	anim.Start(w.now, from, to, params.duration, params.ease)
	w.log.Debug("animating frame",
		zap.Stringer("view", v),
		zap.String("key", key),
		zap.Stringer("from", from),
		zap.Stringer("to", to))
	return v.layer.addAnimation(key, anim)
}

func (w *Window) attach(v *View) {
	v.walk(func(d *View) {
		d.window = w
		d.implicitDirty = true
		for _, c := range d.constraints {
			w.install(c)
		}
	})
	w.dirty = true
}

func (w *Window) detach(v *View) {
	var done []func()
	v.walk(func(d *View) {
		for _, c := range d.constraints {
			w.uninstall(c)
		}
		for _, c := range d.implicit {
			w.uninstall(c)
		}
		d.implicit = nil
		d.implicitDirty = true
		done = append(done, d.layer.removeAll()...)
		w.solver.Forget(d)
		d.window = nil
	})
	w.dirty = true
	for _, fn := range done {
		fn()
	}
}

func (w *Window) install(c *constraint.Constraint) {
	w.dirty = true
	err := w.solver.AddConstraint(c)
	switch {
	case err == nil:
	case errors.Is(err, solver.ErrUnsatisfiable):
		w.broken.Add(c)
		w.log.Warn("unable to simultaneously satisfy constraints, breaking constraint", zap.Stringer("constraint", c))
	case errors.Is(err, solver.ErrDuplicate):
	default:
		w.log.Error("couldn't install constraint", zap.Stringer("constraint", c), zap.Error(err))
	}
}

func (w *Window) uninstall(c *constraint.Constraint) {
	w.dirty = true
	if w.broken.Delete(c) {
		return
	}
	if !w.solver.HasConstraint(c) {
		return
	}
	if err := w.solver.RemoveConstraint(c); err != nil {
		w.log.Error("couldn't remove constraint", zap.Stringer("constraint", c), zap.Error(err))
	}
}
