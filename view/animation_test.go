package view

import (
	"testing"
	"time"
)

func TestSimpleAnimation(t *testing.T) {
	t0 := time.Unix(0, 0)
	var anim Animation[float64]
	StartSimpleAnimation(t0, &anim, 10, 20, 100*time.Millisecond, EaseIn(1))
	if got := anim.Value(t0.Add(50 * time.Millisecond)); got != 15 {
		t.Errorf("Value(50ms)=%g, want 15", got)
	}
	if anim.Done() {
		t.Errorf("animation done early")
	}
	if got := anim.Value(t0.Add(200 * time.Millisecond)); got != 20 {
		t.Errorf("Value(200ms)=%g, want 20", got)
	}
	if !anim.Done() {
		t.Errorf("animation not done")
	}
}

func TestEasing(t *testing.T) {
	for _, power := range []int{1, 2, 3, 4} {
		for _, f := range []EasingFunction{EaseIn(power), EaseOut(power)} {
			if got := f(0); got != 0 {
				t.Errorf("power %d: f(0)=%g, want 0", power, got)
			}
			if got := f(1); got != 1 {
				t.Errorf("power %d: f(1)=%g, want 1", power, got)
			}
		}
	}
	if got := EaseBezier(0.5); got != 0.5 {
		t.Errorf("EaseBezier(0.5)=%g, want 0.5", got)
	}
}
