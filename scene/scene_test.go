package scene

import (
	"strings"
	"testing"
	"time"

	"honnef.co/go/stackview/geom"
	"honnef.co/go/stackview/layout"
	"honnef.co/go/stackview/stack"

	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"
)

const example = `
window: {width: 320, height: 480}
stack:
  axis: horizontal
  alignment: center
  distribution: fill
  spacing: 10
  children:
    - {name: red, width: 20, height: 20}
    - {name: green, width: 40, height: 40}
    - {name: blue, width: 60, height: 20}
steps:
  - {hide: green, animate: 300ms}
  - {show: green}
  - {set: {distribution: equalSpacing, spacing: 4}}
  - {remove: red}
  - {add: {name: red, width: 20, height: 20}, at: 0}
`

func TestLoad(t *testing.T) {
	sc, err := Load(strings.NewReader(example))
	if err != nil {
		t.Fatal(err)
	}
	cfg := sc.Stack.Config()
	want := stack.Config{Axis: layout.Horizontal, Alignment: stack.AlignCenter, Distribution: stack.Fill, Spacing: 10}
	if cfg != want {
		t.Errorf("got config %+v, want %+v", cfg, want)
	}
	if len(sc.Stack.Children) != 3 || len(sc.Steps) != 5 {
		t.Fatalf("got %d children and %d steps, want 3 and 5", len(sc.Stack.Children), len(sc.Steps))
	}
	if got := sc.Steps[0].Animate; got != 300*time.Millisecond {
		t.Errorf("got animation duration %s, want 300ms", got)
	}
	if got := *sc.Steps[2].Set.Distribution; got != stack.EqualSpacing {
		t.Errorf("got distribution %v, want %v", got, stack.EqualSpacing)
	}
	if got, want := sc.Steps[4].String(), "add red at 0"; got != want {
		t.Errorf("got step %q, want %q", got, want)
	}
}

func TestValidateCollectsErrors(t *testing.T) {
	const bad = `
window: {width: 0, height: 480}
stack:
  children:
    - {name: a, width: -5, height: 10}
    - {name: b, width: 10, height: 10}
    - {name: b, width: 10, height: 10}
steps:
  - {hide: zzz}
  - {hide: b, show: b}
  - {add: {name: c, width: 1, height: 1}, at: 7}
`
	_, err := Load(strings.NewReader(bad))
	if err == nil {
		t.Fatal("invalid scene loaded")
	}
	if n := len(multierr.Errors(err)); n != 6 {
		t.Errorf("got %d errors, want 6: %s", n, err)
	}
}

func TestUnknownField(t *testing.T) {
	_, err := Load(strings.NewReader("window: {width: 1, height: 1}\nstack: {colour: red}\n"))
	if err == nil {
		t.Errorf("unknown field accepted")
	}
}

func TestRun(t *testing.T) {
	sc, err := Load(strings.NewReader(example))
	if err != nil {
		t.Fatal(err)
	}
	r := sc.Build(zaptest.NewLogger(t))

	var snaps []Snapshot
	if err := r.Run(true, func(s Snapshot) error {
		snaps = append(snaps, s)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if len(snaps) != 6 {
		t.Fatalf("got %d snapshots, want 6", len(snaps))
	}

	initial := snaps[0]
	if got, want := initial.Stack, geom.R(0, 0, 140, 40); !got.Approx(want, 1e-6) {
		t.Errorf("initial stack frame %v, want %v", got, want)
	}
	if len(initial.Constraints) == 0 {
		t.Errorf("no constraints in snapshot")
	}

	hidden := snaps[1]
	if w := hidden.Views[1].Rect.Width; !hidden.Views[1].Hidden || w > 1e-6 || w < -1e-6 {
		t.Errorf("green after hiding: %+v", hidden.Views[1])
	}
	if got, want := hidden.Views[2].Rect.X, 30.0; got < want-1e-6 || got > want+1e-6 {
		t.Errorf("blue.x after hiding green = %g, want %g", got, want)
	}
	if r.Window.Animating() {
		t.Errorf("animations still running after an animated step")
	}

	removed := snaps[4]
	if len(removed.Views) != 2 || removed.Views[0].Name != "green" {
		t.Errorf("arranged after removal: %+v", removed.Views)
	}
	last := snaps[5]
	if len(last.Views) != 3 || last.Views[0].Name != "red" {
		t.Errorf("arranged after adding: %+v", last.Views)
	}
	for _, s := range snaps {
		if len(s.Broken) != 0 {
			t.Errorf("step %d broke constraints: %q", s.Step, s.Broken)
		}
	}
}
