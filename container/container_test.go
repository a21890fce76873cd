package container

import "testing"

func TestSetIdempotent(t *testing.T) {
	s := Set[string]{}
	if !s.Add("a") {
		t.Errorf("first Add(a)=false, want true")
	}
	if s.Add("a") {
		t.Errorf("second Add(a)=true, want false")
	}
	if s.Len() != 1 {
		t.Errorf("Len()=%d, want 1", s.Len())
	}
	if !s.Delete("a") {
		t.Errorf("first Delete(a)=false, want true")
	}
	if s.Delete("a") {
		t.Errorf("second Delete(a)=true, want false")
	}
	if s.Has("a") {
		t.Errorf("Has(a)=true after delete")
	}
}

func TestOption(t *testing.T) {
	if _, ok := None[int]().Get(); ok {
		t.Errorf("None.Get() reported a value")
	}
	if v, ok := Some(5).Get(); !ok || v != 5 {
		t.Errorf("Some(5).Get()=(%d, %t), want (5, true)", v, ok)
	}
	if s := None[int]().String(); s != "None" {
		t.Errorf("None.String()=%q, want %q", s, "None")
	}
}
