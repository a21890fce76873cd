// Package container provides small generic containers used throughout the view tree.
package container

import "fmt"

// Set is an unordered set. Add and Delete are idempotent, which the hidden-observer registry relies on.
type Set[T comparable] map[T]struct{}

// Add adds v and reports whether it wasn't already present.
func (set Set[T]) Add(v T) bool {
	if _, ok := set[v]; ok {
		return false
	}
	set[v] = struct{}{}
	return true
}

// Delete removes v and reports whether it was present.
func (set Set[T]) Delete(v T) bool {
	if _, ok := set[v]; !ok {
		return false
	}
	delete(set, v)
	return true
}

func (set Set[T]) Has(v T) bool {
	_, ok := set[v]
	return ok
}

func (set Set[T]) Len() int { return len(set) }

// Option holds a value that may be absent.
type Option[T any] struct {
	v   T
	set bool
}

func (opt Option[T]) String() string {
	if !opt.set {
		return "None"
	}
	return fmt.Sprintf("%v", opt.v)
}

func None[T any]() Option[T] { return Option[T]{} }

func Some[T any](v T) Option[T] {
	return Option[T]{v: v, set: true}
}

func (opt Option[T]) Get() (T, bool) { return opt.v, opt.set }

func (opt Option[T]) Set() bool { return opt.set }
