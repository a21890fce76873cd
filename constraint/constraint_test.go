package constraint

import (
	"testing"

	"honnef.co/go/stackview/geom"
)

type item string

func (item) LayoutMargins() geom.Insets     { return geom.Insets{} }
func (item) FirstBaseline() (float64, bool) { return 0, false }

func TestString(t *testing.T) {
	a, b := item("a"), item("b")
	tests := []struct {
		c    *Constraint
		want string
	}{
		{New(&a, Leading, Equal, &b, Trailing, 1, 5), "a.leading == b.trailing +5"},
		{New(&a, Width, Equal, nil, Width, 1, 0), "a.width == 0"},
		{New(&a, Width, GreaterOrEqual, &b, Width, 0.5, 0), "a.width >= b.width*0.5"},
	}
	tests[1].c.Priority = 25
	tests[1].want += " @25"
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String()=%q, want %q", got, tt.want)
		}
	}
}

func (i *item) String() string { return string(*i) }

func TestNewWithoutSecondItem(t *testing.T) {
	a := item("a")
	c := New(&a, Height, Equal, nil, Height, 1, 0)
	if c.SecondAttr != NotAnAttribute {
		t.Errorf("SecondAttr=%v, want %v", c.SecondAttr, NotAnAttribute)
	}
	if !c.Required() {
		t.Errorf("new constraint isn't required")
	}
	if !c.Involves(&a) {
		t.Errorf("Involves(a)=false")
	}
}

func TestArena(t *testing.T) {
	var arena Arena
	a, b := item("a"), item("b")
	c1 := arena.New(&a, Top, Equal, &b, Top, 1, 0)
	c2 := arena.New(&a, Bottom, Equal, &b, Bottom, 1, 0)
	if c1 == c2 {
		t.Fatalf("arena returned the same constraint twice")
	}
	if arena.Len() != 2 {
		t.Errorf("Len()=%d, want 2", arena.Len())
	}
	arena.Reset()
	if arena.Len() != 0 {
		t.Errorf("Len()=%d after Reset, want 0", arena.Len())
	}

	var nilArena *Arena
	if c := nilArena.New(&a, Top, Equal, nil, NotAnAttribute, 1, 3); c.Constant != 3 {
		t.Errorf("nil arena constraint has constant %g, want 3", c.Constant)
	}
}
