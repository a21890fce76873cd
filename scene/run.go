package scene

import (
	"errors"
	"fmt"
	"time"

	"honnef.co/go/stackview/constraint"
	"honnef.co/go/stackview/geom"
	"honnef.co/go/stackview/layout"
	"honnef.co/go/stackview/stack"
	"honnef.co/go/stackview/view"

	"go.uber.org/zap"
)

// Frame is the laid out state of one arranged view.
type Frame struct {
	Name   string    `json:"name"`
	Rect   geom.Rect `json:"rect"`
	Hidden bool      `json:"hidden"`
}

// Snapshot is the state of the scene after a step.
type Snapshot struct {
	// Step is the index of the step, or -1 for the initial layout.
	Step        int       `json:"step"`
	Action      string    `json:"action"`
	Stack       geom.Rect `json:"stack"`
	Views       []Frame   `json:"views"`
	Constraints []string  `json:"constraints,omitempty"`
	Broken      []string  `json:"broken,omitempty"`
}

// Runner holds a scene that has been turned into live views.
type Runner struct {
	Scene  *Scene
	Window *view.Window
	Stack  *stack.View

	views map[string]*view.View
	log   *zap.Logger
	now   time.Time
}

// Build creates the window and views of the scene and lays them out.
func (sc *Scene) Build(logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		Scene: sc,
		views: map[string]*view.View{},
		log:   logger,
		now:   time.Unix(0, 0),
	}
	r.Window = view.NewWindow(geom.Sz(sc.Window.Width, sc.Window.Height), logger.Named("window"))
	r.Window.Tick(r.now)

	st := &sc.Stack
	sv := stack.New(st.Name)
	sv.Logger = logger.Named("stack")
	sv.SetConfig(st.Config())
	if st.Margins != nil {
		sv.SetLayoutMargins(*st.Margins)
	}
	for i := range st.Children {
		sv.AddArranged(r.newView(&st.Children[i]))
	}
	r.Stack = sv

	sv.SetTranslatesFrame(false)
	root := r.Window.Root
	root.AddSubview(&sv.View)
	root.AddConstraints(
		constraint.New(&sv.View, constraint.Left, constraint.Equal, root, constraint.Left, 1, st.X),
		constraint.New(&sv.View, constraint.Top, constraint.Equal, root, constraint.Top, 1, st.Y),
	)
	if st.Width != nil {
		sv.AddConstraints(constraint.New(&sv.View, constraint.Width, constraint.Equal, nil, constraint.NotAnAttribute, 1, *st.Width))
	}
	if st.Height != nil {
		sv.AddConstraints(constraint.New(&sv.View, constraint.Height, constraint.Equal, nil, constraint.NotAnAttribute, 1, *st.Height))
	}
	r.Window.LayoutIfNeeded()
	return r
}

func (r *Runner) newView(c *Child) *view.View {
	v := view.New(c.Name)
	v.SetIntrinsicSize(geom.Sz(c.Width, c.Height))
	if c.Baseline != nil {
		v.SetFirstBaseline(*c.Baseline)
	}
	v.SetHidden(c.Hidden)
	r.views[c.Name] = v
	return v
}

// View returns the view with the given name, whether it is arranged or not.
func (r *Runner) View(name string) (*view.View, bool) {
	v, ok := r.views[name]
	return v, ok
}

// Step applies step i and lays out the result. Animated steps are played to completion.
func (r *Runner) Step(i int) error {
	s := r.Scene.Steps[i]
	r.log.Debug("running step", zap.Int("step", i), zap.Stringer("action", s))

	var err error
	apply := func() {
		err = r.apply(s)
		r.Window.LayoutIfNeeded()
	}
	if s.Animate > 0 {
		r.Window.Animate(s.Animate, view.EaseBezier, apply)
		r.now = r.now.Add(s.Animate)
		r.Window.Tick(r.now)
	} else {
		apply()
	}
	if err != nil {
		return fmt.Errorf("step %d (%s): %w", i, s, err)
	}
	r.Window.LayoutIfNeeded()
	return nil
}

func (r *Runner) lookup(name string) (*view.View, error) {
	v, ok := r.views[name]
	if !ok {
		return nil, fmt.Errorf("unknown view %q", name)
	}
	return v, nil
}

func (r *Runner) apply(s Step) error {
	sv := r.Stack
	switch {
	case s.Hide != "":
		v, err := r.lookup(s.Hide)
		if err != nil {
			return err
		}
		v.SetHidden(true)
	case s.Show != "":
		v, err := r.lookup(s.Show)
		if err != nil {
			return err
		}
		v.SetHidden(false)
	case s.Remove != "":
		v, err := r.lookup(s.Remove)
		if err != nil {
			return err
		}
		sv.RemoveArranged(v)
		v.RemoveFromSuperview()
	case s.Add != nil:
		v, ok := r.views[s.Add.Name]
		if !ok {
			v = r.newView(s.Add)
		}
		at := len(sv.Arranged())
		if s.At != nil {
			at = *s.At
		}
		if at < 0 || at > len(sv.Arranged()) {
			return fmt.Errorf("index %d out of range [0:%d]", at, len(sv.Arranged()))
		}
		sv.InsertArranged(v, at)
	case s.Set != nil:
		cfg := sv.Config()
		if s.Set.Axis != nil {
			cfg.Axis = layout.Axis(*s.Set.Axis)
		}
		if s.Set.Alignment != nil {
			cfg.Alignment = *s.Set.Alignment
		}
		if s.Set.Distribution != nil {
			cfg.Distribution = *s.Set.Distribution
		}
		if s.Set.Spacing != nil {
			cfg.Spacing = *s.Set.Spacing
		}
		if s.Set.MarginsRelative != nil {
			cfg.MarginsRelative = *s.Set.MarginsRelative
		}
		sv.SetConfig(cfg)
	default:
		return errors.New("step has no action")
	}
	return nil
}

// Snapshot captures the current layout. Step and Action are left for the caller to fill in.
func (r *Runner) Snapshot(withConstraints bool) Snapshot {
	snap := Snapshot{
		Step:  -1,
		Stack: r.Stack.Frame(),
	}
	for _, v := range r.Stack.Arranged() {
		snap.Views = append(snap.Views, Frame{Name: v.Name, Rect: v.Frame(), Hidden: v.IsHidden()})
	}
	if withConstraints {
		snap.Constraints = r.Stack.Live().Describe()
	}
	for _, c := range r.Window.Broken() {
		snap.Broken = append(snap.Broken, c.String())
	}
	return snap
}

// Run calls fn with the initial layout and then after every step.
func (r *Runner) Run(withConstraints bool, fn func(Snapshot) error) error {
	snap := r.Snapshot(withConstraints)
	snap.Action = "initial"
	if err := fn(snap); err != nil {
		return err
	}
	for i, s := range r.Scene.Steps {
		if err := r.Step(i); err != nil {
			return err
		}
		snap := r.Snapshot(withConstraints)
		snap.Step = i
		snap.Action = s.String()
		if err := fn(snap); err != nil {
			return err
		}
	}
	return nil
}
