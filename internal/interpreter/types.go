// Package interpreter runs command programs against pluggable handlers.
//
// A program is an ordered list of command names. Each name is resolved at
// dispatch time to every handler registered for it, and all of them run for
// that step. Handlers share an open key-value Memory and may request a stop
// of the current run.
package interpreter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// CommandName identifies a unit of program behavior
type CommandName string

// HandlerKey distinguishes handlers registered under the same command name
type HandlerKey string

// Handler implements the behavior of a command
type Handler interface {
	Handle(ctx context.Context, in *Interpreter) error
}

// HandlerFunc adapts a plain function to the Handler interface
type HandlerFunc func(ctx context.Context, in *Interpreter) error

// Handle calls f(ctx, in)
func (f HandlerFunc) Handle(ctx context.Context, in *Interpreter) error {
	return f(ctx, in)
}

// NoActiveStep is the ActiveStep value reported when no run is in progress
const NoActiveStep = -1

// RunningState is reported to the Listener on every run transition
type RunningState struct {
	IsRunning  bool
	ActiveStep int
}

// Idle is the terminal state emitted when a run ends
var Idle = RunningState{IsRunning: false, ActiveStep: NoActiveStep}

// Active returns the state reported before step is executed
func Active(step int) RunningState {
	return RunningState{IsRunning: true, ActiveStep: step}
}

// HasActiveStep reports whether ActiveStep refers to a program position
func (s RunningState) HasActiveStep() bool {
	return s.ActiveStep != NoActiveStep
}

func (s RunningState) String() string {
	if !s.HasActiveStep() {
		return fmt.Sprintf("{running: %t, step: none}", s.IsRunning)
	}
	return fmt.Sprintf("{running: %t, step: %d}", s.IsRunning, s.ActiveStep)
}

type runningStateJSON struct {
	IsRunning  bool `json:"isRunning"`
	ActiveStep *int `json:"activeStep"`
}

// MarshalJSON encodes a missing active step as null
func (s RunningState) MarshalJSON() ([]byte, error) {
	out := runningStateJSON{IsRunning: s.IsRunning}
	if s.HasActiveStep() {
		step := s.ActiveStep
		out.ActiveStep = &step
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes a null active step as NoActiveStep
func (s *RunningState) UnmarshalJSON(data []byte) error {
	var in runningStateJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	s.IsRunning = in.IsRunning
	s.ActiveStep = NoActiveStep
	if in.ActiveStep != nil {
		s.ActiveStep = *in.ActiveStep
	}
	return nil
}

// Listener observes running-state transitions. It is called synchronously
// from the run loop and must not block.
type Listener func(RunningState)

var (
	// ErrUnknownCommand matches any UnknownCommandError via errors.Is
	ErrUnknownCommand = errors.New("unknown command")

	// ErrAlreadyRunning is returned by Run and Step while a run is active
	ErrAlreadyRunning = errors.New("interpreter is already running")
)

// UnknownCommandError is returned when no handler is registered for a command
type UnknownCommandError struct {
	Command CommandName
}

func (e *UnknownCommandError) Error() string {
	return "Unknown command: " + string(e.Command)
}

// Is makes errors.Is(err, ErrUnknownCommand) true
func (e *UnknownCommandError) Is(target error) bool {
	return target == ErrUnknownCommand
}

// StepError reports which step of a run failed
type StepError struct {
	Step    int
	Command CommandName
	Err     error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.Step, e.Command, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
