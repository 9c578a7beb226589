package console

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/itsmostafa/gostep/internal/character"
	"github.com/itsmostafa/gostep/internal/interpreter"
	"github.com/itsmostafa/gostep/internal/scene"
)

func newTestSession(t *testing.T) (*Session, *interpreter.Interpreter, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	in := interpreter.New(nil)
	character.RegisterHandlers(in, character.DefaultOptions(4, 5))
	s := NewSession(in, scene.Config{Rows: 4, Columns: 5}, character.State{X: 1, Y: 1, Direction: 90}, &buf)
	return s, in, &buf
}

func exec(t *testing.T, s *Session, line string) {
	t.Helper()
	if _, err := s.ExecLine(context.Background(), line); err != nil {
		t.Fatalf("ExecLine(%q) unexpected error: %v", line, err)
	}
}

func TestSession_LoadAndStep(t *testing.T) {
	s, in, buf := newTestSession(t)

	exec(t, s, "load forward forward")
	exec(t, s, "step")

	if got := in.ProgramCounter(); got != 1 {
		t.Errorf("ProgramCounter() = %d, want 1", got)
	}
	state, _ := character.Load(in.Memory())
	if state.X != 2 {
		t.Errorf("character X = %v, want 2", state.X)
	}
	if !strings.Contains(buf.String(), "STEP 1") {
		t.Errorf("output missing step banner:\n%s", buf.String())
	}

	exec(t, s, "step")
	buf.Reset()
	exec(t, s, "step")
	if !strings.Contains(buf.String(), "at end of program") {
		t.Errorf("output = %q, want end notice", buf.String())
	}
}

func TestSession_DoDoesNotMoveCounter(t *testing.T) {
	s, in, _ := newTestSession(t)

	exec(t, s, "load forward")
	exec(t, s, "do right")

	if got := in.ProgramCounter(); got != 0 {
		t.Errorf("ProgramCounter() = %d, want 0", got)
	}
	state, _ := character.Load(in.Memory())
	if state.Direction != 180 {
		t.Errorf("character Direction = %v, want 180", state.Direction)
	}
}

func TestSession_UnknownCommand(t *testing.T) {
	s, _, _ := newTestSession(t)

	_, err := s.ExecLine(context.Background(), "do jump")
	if !errors.Is(err, interpreter.ErrUnknownCommand) {
		t.Errorf("ExecLine() error = %v, want %v", err, interpreter.ErrUnknownCommand)
	}
}

func TestSession_RunAndReset(t *testing.T) {
	s, in, buf := newTestSession(t)

	exec(t, s, "load forward right forward")
	exec(t, s, "run")
	s.Wait()

	state, _ := character.Load(in.Memory())
	if want := (character.State{X: 2, Y: 2, Direction: 180}); state != want {
		t.Errorf("state after run = %+v, want %+v", state, want)
	}
	if !strings.Contains(buf.String(), "3/3") {
		t.Errorf("output missing run summary:\n%s", buf.String())
	}

	exec(t, s, "reset")
	state, _ = character.Load(in.Memory())
	if want := (character.State{X: 1, Y: 1, Direction: 90}); state != want {
		t.Errorf("state after reset = %+v, want %+v", state, want)
	}
	if got := in.ProgramCounter(); got != 0 {
		t.Errorf("ProgramCounter() after reset = %d, want 0", got)
	}
}

func TestSession_StopWhenIdle(t *testing.T) {
	s, _, buf := newTestSession(t)

	exec(t, s, "stop")
	if !strings.Contains(buf.String(), "not running") {
		t.Errorf("output = %q, want not running notice", buf.String())
	}
}

func TestSession_Quit(t *testing.T) {
	s, _, _ := newTestSession(t)

	quit, err := s.ExecLine(context.Background(), "quit")
	if err != nil {
		t.Fatalf("ExecLine() unexpected error: %v", err)
	}
	if !quit {
		t.Error("ExecLine(quit) = false, want true")
	}
}

func TestSession_Mem(t *testing.T) {
	s, _, buf := newTestSession(t)

	exec(t, s, "mem")
	if !strings.Contains(buf.String(), character.MemoryKey) {
		t.Errorf("output = %q, want character key", buf.String())
	}
}
