// Package trace records running-state transitions as JSON lines
package trace

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/itsmostafa/gostep/internal/interpreter"
)

// Record is one logged transition. ActiveStep is nil when not running.
type Record struct {
	RunID      string    `json:"run_id"`
	Seq        int       `json:"seq"`
	Time       time.Time `json:"time"`
	IsRunning  bool      `json:"is_running"`
	ActiveStep *int      `json:"active_step"`
	Command    string    `json:"command,omitempty"`
}

// State returns the running state the record was written for
func (r Record) State() interpreter.RunningState {
	if r.ActiveStep == nil {
		return interpreter.RunningState{IsRunning: r.IsRunning, ActiveStep: interpreter.NoActiveStep}
	}
	return interpreter.RunningState{IsRunning: r.IsRunning, ActiveStep: *r.ActiveStep}
}

// Recorder writes one Record per notification
type Recorder struct {
	mu      sync.Mutex
	w       io.Writer
	runID   string
	seq     int
	program func() []interpreter.CommandName
	err     error
}

// NewRecorder creates a Recorder writing to w under a fresh run id.
// program, if set, resolves the command name for active steps.
func NewRecorder(w io.Writer, program func() []interpreter.CommandName) *Recorder {
	return &Recorder{
		w:       w,
		runID:   uuid.New().String(),
		program: program,
	}
}

// RunID returns the id stamped on every record
func (r *Recorder) RunID() string {
	return r.runID
}

// Err returns the first write error, if any
func (r *Recorder) Err() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.err
}

// Record writes state. Write errors are kept for Err; later records are
// dropped once one fails.
func (r *Recorder) Record(state interpreter.RunningState) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return
	}

	rec := Record{
		RunID:     r.runID,
		Seq:       r.seq,
		Time:      time.Now(),
		IsRunning: state.IsRunning,
	}
	if state.HasActiveStep() {
		step := state.ActiveStep
		rec.ActiveStep = &step
	}
	if r.program != nil && state.HasActiveStep() {
		if cmds := r.program(); state.ActiveStep < len(cmds) {
			rec.Command = string(cmds[state.ActiveStep])
		}
	}
	r.seq++

	data, err := json.Marshal(rec)
	if err != nil {
		r.err = fmt.Errorf("failed to marshal trace record: %w", err)
		return
	}
	if _, err := r.w.Write(append(data, '\n')); err != nil {
		r.err = fmt.Errorf("failed to write trace record: %w", err)
	}
}

// Listener returns the Recorder as an interpreter.Listener
func (r *Recorder) Listener() interpreter.Listener {
	return r.Record
}

// Tee returns a Listener that calls each non-nil listener in order
func Tee(listeners ...interpreter.Listener) interpreter.Listener {
	return func(s interpreter.RunningState) {
		for _, l := range listeners {
			if l != nil {
				l(s)
			}
		}
	}
}

// Open creates a timestamped .jsonl file in dir
func Open(dir string) (*os.File, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create trace directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	path := filepath.Join(dir, timestamp+".jsonl")
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create trace file: %w", err)
	}
	return f, nil
}

// ReadAll parses records from r, skipping malformed lines
func ReadAll(r io.Reader) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		var rec Record
		if err := json.Unmarshal(scanner.Bytes(), &rec); err != nil {
			continue // Skip malformed entries
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read trace: %w", err)
	}
	return records, nil
}
