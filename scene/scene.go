// Package scene loads YAML descriptions of a stack in a window, together with a script of changes to apply
// to it, and runs them headlessly.
package scene

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"honnef.co/go/stackview/geom"
	"honnef.co/go/stackview/layout"
	"honnef.co/go/stackview/stack"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Scene struct {
	Window Size   `yaml:"window"`
	Stack  Stack  `yaml:"stack"`
	Steps  []Step `yaml:"steps"`
}

type Size struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Axis is a layout.Axis that can be read from text.
type Axis layout.Axis

func (a Axis) MarshalText() ([]byte, error) {
	switch layout.Axis(a) {
	case layout.Horizontal:
		return []byte("horizontal"), nil
	case layout.Vertical:
		return []byte("vertical"), nil
	default:
		return nil, fmt.Errorf("invalid axis %d", a)
	}
}

func (a *Axis) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "horizontal", "row":
		*a = Axis(layout.Horizontal)
	case "vertical", "column":
		*a = Axis(layout.Vertical)
	default:
		return fmt.Errorf("unknown axis %q", b)
	}
	return nil
}

type Stack struct {
	Name            string             `yaml:"name"`
	Axis            Axis               `yaml:"axis"`
	Alignment       stack.Alignment    `yaml:"alignment"`
	Distribution    stack.Distribution `yaml:"distribution"`
	Spacing         float64            `yaml:"spacing"`
	MarginsRelative bool               `yaml:"marginsRelative"`
	Margins         *geom.Insets       `yaml:"margins"`
	X               float64            `yaml:"x"`
	Y               float64            `yaml:"y"`
	// Width and Height fix the stack's size. When omitted, the size follows the content.
	Width    *float64 `yaml:"width"`
	Height   *float64 `yaml:"height"`
	Children []Child  `yaml:"children"`
}

func (st *Stack) Config() stack.Config {
	return stack.Config{
		Axis:            layout.Axis(st.Axis),
		Alignment:       st.Alignment,
		Distribution:    st.Distribution,
		Spacing:         st.Spacing,
		MarginsRelative: st.MarginsRelative,
	}
}

// Child is a leaf view. Sizes of -1 mean the view has no intrinsic size in that dimension.
type Child struct {
	Name     string   `yaml:"name"`
	Width    float64  `yaml:"width"`
	Height   float64  `yaml:"height"`
	Hidden   bool     `yaml:"hidden"`
	Baseline *float64 `yaml:"baseline"`
}

// Step is one change to the scene. Exactly one of the actions must be set.
type Step struct {
	Hide   string    `yaml:"hide"`
	Show   string    `yaml:"show"`
	Remove string    `yaml:"remove"`
	Add    *Child    `yaml:"add"`
	At     *int      `yaml:"at"`
	Set    *Settings `yaml:"set"`
	// Animate runs the step as an animation of the given duration, which is played to completion before the
	// next step.
	Animate time.Duration `yaml:"animate"`
}

// Settings changes the stack's arrangement. Omitted fields keep their value.
type Settings struct {
	Axis            *Axis               `yaml:"axis"`
	Alignment       *stack.Alignment    `yaml:"alignment"`
	Distribution    *stack.Distribution `yaml:"distribution"`
	Spacing         *float64            `yaml:"spacing"`
	MarginsRelative *bool               `yaml:"marginsRelative"`
}

func (s Step) String() string {
	var action string
	switch {
	case s.Hide != "":
		action = "hide " + s.Hide
	case s.Show != "":
		action = "show " + s.Show
	case s.Remove != "":
		action = "remove " + s.Remove
	case s.Add != nil:
		action = "add " + s.Add.Name
		if s.At != nil {
			action += fmt.Sprintf(" at %d", *s.At)
		}
	case s.Set != nil:
		var parts []string
		if s.Set.Axis != nil {
			b, _ := s.Set.Axis.MarshalText()
			parts = append(parts, "axis="+string(b))
		}
		if s.Set.Alignment != nil {
			parts = append(parts, "alignment="+s.Set.Alignment.String())
		}
		if s.Set.Distribution != nil {
			parts = append(parts, "distribution="+s.Set.Distribution.String())
		}
		if s.Set.Spacing != nil {
			parts = append(parts, fmt.Sprintf("spacing=%g", *s.Set.Spacing))
		}
		if s.Set.MarginsRelative != nil {
			parts = append(parts, fmt.Sprintf("marginsRelative=%t", *s.Set.MarginsRelative))
		}
		action = "set " + strings.Join(parts, " ")
	default:
		action = "nothing"
	}
	if s.Animate > 0 {
		action += fmt.Sprintf(" (animated %s)", s.Animate)
	}
	return action
}

func (s Step) actions() int {
	n := 0
	for _, set := range [...]bool{s.Hide != "", s.Show != "", s.Remove != "", s.Add != nil, s.Set != nil} {
		if set {
			n++
		}
	}
	return n
}

// Load reads and validates a scene.
func Load(r io.Reader) (*Scene, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var sc Scene
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty scene")
		}
		return nil, fmt.Errorf("couldn't decode scene: %w", err)
	}
	if sc.Stack.Name == "" {
		sc.Stack.Name = "stack"
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func LoadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Validate reports every problem with the scene.
func (sc *Scene) Validate() error {
	var err error
	if sc.Window.Width <= 0 || sc.Window.Height <= 0 {
		err = multierr.Append(err, fmt.Errorf("window size %gx%g isn't positive", sc.Window.Width, sc.Window.Height))
	}
	if w := sc.Stack.Width; w != nil && *w < 0 {
		err = multierr.Append(err, fmt.Errorf("stack width %g is negative", *w))
	}
	if h := sc.Stack.Height; h != nil && *h < 0 {
		err = multierr.Append(err, fmt.Errorf("stack height %g is negative", *h))
	}
	if sc.Stack.Spacing < 0 {
		err = multierr.Append(err, fmt.Errorf("spacing %g is negative", sc.Stack.Spacing))
	}

	// Track which views are arranged as the steps would run.
	var arranged []string
	known := map[string]bool{}
	for i := range sc.Stack.Children {
		c := &sc.Stack.Children[i]
		if cerr := c.validate(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("child %d: %w", i, cerr))
			continue
		}
		if known[c.Name] {
			err = multierr.Append(err, fmt.Errorf("child %d: duplicate name %q", i, c.Name))
			continue
		}
		known[c.Name] = true
		arranged = append(arranged, c.Name)
	}

	isArranged := func(name string) bool {
		for _, n := range arranged {
			if n == name {
				return true
			}
		}
		return false
	}
	for i, s := range sc.Steps {
		if n := s.actions(); n != 1 {
			err = multierr.Append(err, fmt.Errorf("step %d: got %d actions, want exactly 1", i, n))
			continue
		}
		if s.At != nil && s.Add == nil {
			err = multierr.Append(err, fmt.Errorf("step %d: 'at' only applies to 'add'", i))
		}
		if s.Animate < 0 {
			err = multierr.Append(err, fmt.Errorf("step %d: negative animation duration", i))
		}
		switch {
		case s.Hide != "" || s.Show != "":
			name := s.Hide + s.Show
			if !known[name] {
				err = multierr.Append(err, fmt.Errorf("step %d: unknown view %q", i, name))
			}
		case s.Remove != "":
			if !isArranged(s.Remove) {
				err = multierr.Append(err, fmt.Errorf("step %d: view %q isn't arranged", i, s.Remove))
				continue
			}
			for j, n := range arranged {
				if n == s.Remove {
					arranged = append(arranged[:j], arranged[j+1:]...)
					break
				}
			}
		case s.Add != nil:
			if cerr := s.Add.validate(); cerr != nil {
				err = multierr.Append(err, fmt.Errorf("step %d: %w", i, cerr))
				continue
			}
			if isArranged(s.Add.Name) {
				err = multierr.Append(err, fmt.Errorf("step %d: view %q is already arranged", i, s.Add.Name))
				continue
			}
			at := len(arranged)
			if s.At != nil {
				at = *s.At
			}
			if at < 0 || at > len(arranged) {
				err = multierr.Append(err, fmt.Errorf("step %d: index %d out of range [0:%d]", i, at, len(arranged)))
				continue
			}
			known[s.Add.Name] = true
			arranged = append(arranged[:at], append([]string{s.Add.Name}, arranged[at:]...)...)
		case s.Set != nil:
			if sp := s.Set.Spacing; sp != nil && *sp < 0 {
				err = multierr.Append(err, fmt.Errorf("step %d: spacing %g is negative", i, *sp))
			}
		}
	}
	return err
}

func (c *Child) validate() error {
	var err error
	if c.Name == "" {
		err = multierr.Append(err, errors.New("missing name"))
	}
	if c.Width < 0 && c.Width != geom.NoIntrinsicMetric {
		err = multierr.Append(err, fmt.Errorf("width %g is negative", c.Width))
	}
	if c.Height < 0 && c.Height != geom.NoIntrinsicMetric {
		err = multierr.Append(err, fmt.Errorf("height %g is negative", c.Height))
	}
	return err
}
