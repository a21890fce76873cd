package mem

import (
	"gioui.org/op"
)

const bucketSize = 64

// BucketSlice is like a slice, but grows one bucket at a time and never moves elements once they've been
// allocated. Pointers returned by Grow and Append stay valid until Reset.
type BucketSlice[T any] struct {
	n       int
	buckets [][]T
}

// Grow grows the slice by one and returns a pointer to the new, zeroed element.
func (l *BucketSlice[T]) Grow() *T {
	a, _ := l.index(l.n)
	if a >= len(l.buckets) {
		l.buckets = append(l.buckets, make([]T, 0, bucketSize))
	}
	l.buckets[a] = l.buckets[a][:len(l.buckets[a])+1]
	ptr := &l.buckets[a][len(l.buckets[a])-1]
	*ptr = *new(T)
	l.n++
	return ptr
}

// Append appends v and returns a pointer to the new element.
func (l *BucketSlice[T]) Append(v T) *T {
	ptr := l.Grow()
	*ptr = v
	return ptr
}

func (l *BucketSlice[T]) index(i int) (int, int) {
	return int(uint(i) / bucketSize), int(uint(i) % bucketSize)
}

func (l *BucketSlice[T]) Len() int { return l.n }

// Reset empties the slice but keeps its buckets for reuse. Previously returned pointers must not be used
// afterwards.
func (l *BucketSlice[T]) Reset() {
	for i := range l.buckets {
		clear(l.buckets[i])
		l.buckets[i] = l.buckets[i][:0]
	}
	l.n = 0
}

// ReusableOps hands out the same op.Ops every frame.
type ReusableOps struct {
	ops op.Ops
}

// Get resets and returns an op.Ops.
func (rops *ReusableOps) Get() *op.Ops {
	rops.ops.Reset()
	return &rops.ops
}
