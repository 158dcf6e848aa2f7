package telemetry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/lao-tseu-is-alive/go-fosh-simulation/pkg/simulation"
)

// Recorder appends a Sample to a CSV stream every few ticks.
// It is a simulation.Observer.
type Recorder struct {
	out           io.Writer
	closer        io.Closer
	every         uint64
	headerWritten bool
	rows          int
}

var _ simulation.Observer = (*Recorder)(nil)

// NewRecorder writes to out. every below 1 records every tick.
func NewRecorder(out io.Writer, every uint64) *Recorder {
	return &Recorder{out: out, every: max(every, 1)}
}

// CreateRecorder creates (or truncates) the CSV file at path, parent directories included.
func CreateRecorder(path string, every uint64) (*Recorder, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating telemetry directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", path, err)
	}
	r := NewRecorder(f, every)
	r.closer = f
	return r, nil
}

func (r *Recorder) AfterTick(w *simulation.World) error {
	if w.TickCount()%r.every != 0 {
		return nil
	}
	return r.Record(Measure(w))
}

// Record writes one row, the header goes with the first one.
func (r *Recorder) Record(s Sample) error {
	records := []Sample{s}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}
	r.rows++
	return nil
}

// Rows is the number of samples written so far.
func (r *Recorder) Rows() int { return r.rows }

// Close closes the file opened by CreateRecorder. It is a no-op otherwise.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	err := r.closer.Close()
	r.closer = nil
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}
