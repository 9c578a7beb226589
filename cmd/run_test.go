package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/itsmostafa/gostep/internal/character"
	"github.com/itsmostafa/gostep/internal/interpreter"
	"github.com/itsmostafa/gostep/internal/program"
	"github.com/itsmostafa/gostep/internal/trace"
)

const testProgram = `name: demo
scene: {rows: 4, columns: 5}
start: {x: 1, y: 1, direction: 90}
steps: [forward, count, right, forward]
scripts:
  - command: count
    source: |
      memory.set("count", (memory.get("count") || 0) + 1)
      print("counted", memory.get("count"))
`

func loadTestProgram(t *testing.T, doc string) *program.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.yaml")
	if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile() unexpected error: %v", err)
	}
	file, err := program.Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	return file
}

func resetRunFlags(t *testing.T) {
	t.Helper()
	runDelay, runTraceDir, runNoScene, runMaxSteps = 0, "", false, 0
	t.Cleanup(func() {
		runDelay, runTraceDir, runNoScene, runMaxSteps = 0, "", false, 0
	})
}

func TestRunProgram(t *testing.T) {
	resetRunFlags(t)
	runTraceDir = filepath.Join(t.TempDir(), "traces")
	file := loadTestProgram(t, testProgram)

	var buf bytes.Buffer
	if err := runProgram(context.Background(), &buf, file); err != nil {
		t.Fatalf("runProgram() unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"demo", "STEP 1", "STEP 4", "counted 1", "4/4", "OK"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	entries, err := os.ReadDir(runTraceDir)
	if err != nil || len(entries) != 1 {
		t.Fatalf("trace dir entries = %v, %v, want one file", entries, err)
	}
	f, err := os.Open(filepath.Join(runTraceDir, entries[0].Name()))
	if err != nil {
		t.Fatalf("Open() unexpected error: %v", err)
	}
	defer f.Close()
	records, err := trace.ReadAll(f)
	if err != nil {
		t.Fatalf("ReadAll() unexpected error: %v", err)
	}
	if len(records) != 5 {
		t.Fatalf("len(records) = %d, want 5", len(records))
	}
	if records[1].Command != "count" {
		t.Errorf("records[1].Command = %q, want %q", records[1].Command, "count")
	}
	if records[4].State() != interpreter.Idle {
		t.Errorf("last record = %v, want %v", records[4].State(), interpreter.Idle)
	}
}

func TestRunProgram_MaxSteps(t *testing.T) {
	resetRunFlags(t)
	runMaxSteps = 2
	runNoScene = true
	file := loadTestProgram(t, testProgram)

	var buf bytes.Buffer
	if err := runProgram(context.Background(), &buf, file); err != nil {
		t.Fatalf("runProgram() unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "2/4") || !strings.Contains(buf.String(), "STOPPED") {
		t.Errorf("output missing stopped summary:\n%s", buf.String())
	}
	if strings.Contains(buf.String(), "STEP 3") {
		t.Errorf("step 3 ran after max steps:\n%s", buf.String())
	}
}

func TestRunProgram_UnknownCommand(t *testing.T) {
	resetRunFlags(t)
	file := loadTestProgram(t, "steps: [forward, jump]\n")

	var buf bytes.Buffer
	err := runProgram(context.Background(), &buf, file)
	if !errors.Is(err, interpreter.ErrUnknownCommand) {
		t.Fatalf("runProgram() error = %v, want %v", err, interpreter.ErrUnknownCommand)
	}
	if !strings.Contains(buf.String(), "Unknown command: jump") {
		t.Errorf("output missing error:\n%s", buf.String())
	}
}

func TestStepProgram(t *testing.T) {
	file := loadTestProgram(t, testProgram)

	var buf bytes.Buffer
	if err := stepProgram(context.Background(), &buf, file, 10); err != nil {
		t.Fatalf("stepProgram() unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "at end of program") {
		t.Errorf("output missing end notice:\n%s", out)
	}
	if !strings.Contains(out, "count:") {
		t.Errorf("output missing memory listing:\n%s", out)
	}
}

func TestNewMachine_StartState(t *testing.T) {
	file := loadTestProgram(t, testProgram)
	m, err := newMachine(file, 0, nil, nil)
	if err != nil {
		t.Fatalf("newMachine() unexpected error: %v", err)
	}
	state, ok := character.Load(m.in.Memory())
	if !ok || state != file.StartState() {
		t.Errorf("start state = %+v, want %+v", state, file.StartState())
	}
}

func TestNewMachine_BadScript(t *testing.T) {
	file := loadTestProgram(t, "steps: []\nscripts:\n  - command: bad\n    source: \"(\"\n")
	if _, err := newMachine(file, 0, nil, nil); err == nil {
		t.Error("newMachine() expected error, got nil")
	}
}
