package scene

import (
	"bytes"
	"strings"
	"testing"
)

func TestTrace(t *testing.T) {
	sc, err := Load(strings.NewReader(example))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	tw := NewTraceWriter(&buf)
	var want []Snapshot
	if err := sc.Build(nil).Run(true, func(s Snapshot) error {
		want = append(want, s)
		return tw.Write(s)
	}); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if tw.Len() != len(want) {
		t.Errorf("wrote %d snapshots, want %d", tw.Len(), len(want))
	}

	var got []Snapshot
	if err := ReadTrace(&buf, func(s Snapshot) error {
		got = append(got, s)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if len(got) != len(want) {
		t.Fatalf("read %d snapshots, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Action != want[i].Action || got[i].Stack != want[i].Stack || len(got[i].Views) != len(want[i].Views) {
			t.Errorf("snapshot %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestReadTraceCorrupt(t *testing.T) {
	err := ReadTrace(strings.NewReader("definitely not snappy"), func(Snapshot) error { return nil })
	if err == nil {
		t.Errorf("corrupt trace read without error")
	}
}
