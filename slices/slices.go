// Package slices contains slice helpers that golang.org/x/exp/slices doesn't provide.
package slices

import "golang.org/x/exp/slices"

// Pop removes and returns the last element of s.
func Pop[E any, S ~[]E](s S) (E, S, bool) {
	if len(s) == 0 {
		return *new(E), s, false
	}
	e := s[len(s)-1]
	clear(s[len(s)-1:])
	s = s[:len(s)-1]
	return e, s, true
}

// Remove deletes the first occurrence of v from s, preserving order. It reports whether v was found.
func Remove[E comparable, S ~[]E](s S, v E) (S, bool) {
	i := slices.Index(s, v)
	if i == -1 {
		return s, false
	}
	return slices.Delete(s, i, i+1), true
}
