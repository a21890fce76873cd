package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/golang/snappy"
)

// TraceWriter writes snapshots as snappy-compressed JSON lines.
type TraceWriter struct {
	zw  *snappy.Writer
	enc *json.Encoder
	n   int
}

func NewTraceWriter(w io.Writer) *TraceWriter {
	zw := snappy.NewBufferedWriter(w)
	return &TraceWriter{zw: zw, enc: json.NewEncoder(zw)}
}

func (tw *TraceWriter) Write(s Snapshot) error {
	if err := tw.enc.Encode(s); err != nil {
		return fmt.Errorf("couldn't write snapshot %d: %w", tw.n, err)
	}
	tw.n++
	return nil
}

// Len returns the number of snapshots written so far.
func (tw *TraceWriter) Len() int { return tw.n }

// Close flushes buffered data. It doesn't close the underlying writer.
func (tw *TraceWriter) Close() error {
	return tw.zw.Close()
}

// ReadTrace calls fn for every snapshot in a trace written by TraceWriter.
func ReadTrace(r io.Reader, fn func(Snapshot) error) error {
	dec := json.NewDecoder(snappy.NewReader(r))
	for i := 0; ; i++ {
		var s Snapshot
		if err := dec.Decode(&s); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("couldn't read snapshot %d: %w", i, err)
		}
		if err := fn(s); err != nil {
			return err
		}
	}
}
