// Package telemetry records per-tick statistics of the evolution engine.
package telemetry

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/gocarina/gocsv"

	"entropylife/src/universe"
)

// TickRecord is one CSV row.
type TickRecord struct {
	Iteration      int    `csv:"iteration"`
	Slot           int    `csv:"slot"`
	LiveCells      int    `csv:"live_cells"`
	DurationMicros int64  `csv:"duration_us"`
	Injected       bool   `csv:"injected"`
	Pattern        string `csv:"pattern"`
	PatternID      string `csv:"pattern_id"`
	InjectX        int    `csv:"inject_x"`
	InjectY        int    `csv:"inject_y"`
}

// NewTickRecord converts an engine status.
func NewTickRecord(st universe.Status) TickRecord {
	r := TickRecord{
		Iteration:      st.IterationNum,
		Slot:           st.CurrentTime,
		LiveCells:      st.LiveCells,
		DurationMicros: st.IterationTime.Microseconds(),
		Injected:       st.Injected,
	}
	if st.Injected {
		r.Pattern = st.InjectedPattern
		r.PatternID = st.InjectedID.String()
		r.InjectX, r.InjectY = st.InjectedAt.X, st.InjectedAt.Y
	}
	return r
}

// Recorder writes a CSV row for every tick and logs a summary every logEvery ticks.
// It implements universe.Viewer. A nil *Recorder is a valid no-op.
type Recorder struct {
	mu            sync.Mutex
	w             io.Writer
	file          *os.File
	headerWritten bool
	logEvery      int
	logger        *slog.Logger

	// window since the last summary
	ticks      int
	injections int
	totalTime  int64
	last       universe.Status
}

// NewRecorder creates a recorder writing to path. Returns nil if both path is
// empty and logEvery is 0 (recording disabled).
func NewRecorder(path string, logEvery int, logger *slog.Logger) (*Recorder, error) {
	if path == "" && logEvery <= 0 {
		return nil, nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Recorder{logEvery: logEvery, logger: logger.With("component", "telemetry")}
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return nil, fmt.Errorf("creating telemetry output: %w", err)
		}
		r.file = f
		r.w = f
	}
	return r, nil
}

// NewWriterRecorder creates a recorder writing CSV rows to w.
func NewWriterRecorder(w io.Writer, logEvery int, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{w: w, logEvery: logEvery, logger: logger.With("component", "telemetry")}
}

// Refresh implements universe.Viewer.
func (r *Recorder) Refresh(st universe.Status) {
	if r == nil {
		return
	}
	if err := r.Record(st); err != nil {
		r.logger.Error("telemetry write failed", "error", err)
	}
}

// Record writes the status and updates the summary window.
func (r *Recorder) Record(st universe.Status) error {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.ticks++
	r.totalTime += st.IterationTime.Microseconds()
	if st.Injected {
		r.injections++
	}
	r.last = st
	if r.logEvery > 0 && r.ticks >= r.logEvery {
		r.logger.Info("window",
			"status", st,
			"ticks", r.ticks,
			"injections", r.injections,
			"avg_tick_us", r.totalTime/int64(r.ticks))
		r.ticks, r.injections, r.totalTime = 0, 0, 0
	}

	if r.w == nil {
		return nil
	}
	records := []TickRecord{NewTickRecord(st)}
	if !r.headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		r.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
		return fmt.Errorf("writing telemetry: %w", err)
	}
	return nil
}

// Last returns the most recent recorded status.
func (r *Recorder) Last() universe.Status {
	if r == nil {
		return universe.Status{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}

// Close closes the output file.
func (r *Recorder) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// ReadRecords parses a CSV written by a Recorder.
func ReadRecords(rd io.Reader) ([]TickRecord, error) {
	var records []TickRecord
	if err := gocsv.Unmarshal(rd, &records); err != nil {
		return nil, fmt.Errorf("reading telemetry: %w", err)
	}
	return records, nil
}
