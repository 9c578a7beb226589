package character

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/itsmostafa/gostep/internal/interpreter"
)

func TestRegisterHandlers_RunProgram(t *testing.T) {
	in := interpreter.New(nil)
	RegisterHandlers(in, DefaultOptions(8, 10))
	Store(in.Memory(), State{X: 1, Y: 1, Direction: 90})

	program := []interpreter.CommandName{"forward", "forward", "right", "forward", "left", "left"}
	if err := in.Run(context.Background(), program); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}

	got, ok := Load(in.Memory())
	if !ok {
		t.Fatal("Load() found no character state")
	}
	want := State{X: 3, Y: 2, Direction: 0}
	if got != want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
}

func TestRegisterHandlers_StartsAtBoundsMin(t *testing.T) {
	in := interpreter.New(nil)
	RegisterHandlers(in, DefaultOptions(4, 4))

	if err := in.DoCommand(context.Background(), CommandTurnRight); err != nil {
		t.Fatalf("DoCommand() unexpected error: %v", err)
	}
	got, _ := Load(in.Memory())
	if want := (State{X: 1, Y: 1, Direction: 90}); got != want {
		t.Errorf("state = %+v, want %+v", got, want)
	}
}

func TestRegisterHandlers_BadMemory(t *testing.T) {
	in := interpreter.New(nil)
	RegisterHandlers(in, DefaultOptions(4, 4))
	in.Memory().Set(MemoryKey, "not a state")

	if err := in.DoCommand(context.Background(), CommandForward); err == nil {
		t.Error("DoCommand() expected error, got nil")
	}
}

func TestRegisterHandlers_DelayHonorsContext(t *testing.T) {
	opts := DefaultOptions(4, 4)
	opts.Delay = time.Hour
	in := interpreter.New(nil)
	RegisterHandlers(in, opts)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := in.DoCommand(ctx, CommandForward)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("DoCommand() error = %v, want %v", err, context.DeadlineExceeded)
	}
}
