package mem

import "testing"

func TestBucketSlicePointersStable(t *testing.T) {
	var l BucketSlice[int]
	first := l.Append(1)
	for i := 0; i < 3*bucketSize; i++ {
		l.Append(i)
	}
	if *first != 1 {
		t.Errorf("*first=%d, want 1", *first)
	}
	if l.Len() != 3*bucketSize+1 {
		t.Errorf("Len()=%d, want %d", l.Len(), 3*bucketSize+1)
	}
}

func TestBucketSliceReset(t *testing.T) {
	var l BucketSlice[int]
	l.Append(7)
	l.Reset()
	if l.Len() != 0 {
		t.Errorf("Len()=%d after Reset, want 0", l.Len())
	}
	if v := *l.Grow(); v != 0 {
		t.Errorf("Grow() after Reset yielded %d, want zero value", v)
	}
}

var SinkPtr *int

func BenchmarkAppend(b *testing.B) {
	var l BucketSlice[int]
	for i := 0; i < b.N; i++ {
		if l.Len() == 1024 {
			l.Reset()
		}
		SinkPtr = l.Append(i)
	}
}
