// Package console provides an interactive session for stepping programs
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/itsmostafa/gostep/internal/character"
	"github.com/itsmostafa/gostep/internal/interpreter"
	"github.com/itsmostafa/gostep/internal/render"
	"github.com/itsmostafa/gostep/internal/scene"
)

// Session executes console commands against one interpreter
type Session struct {
	in     *interpreter.Interpreter
	scene  scene.Config
	start  character.State
	output io.Writer

	wg sync.WaitGroup
}

// NewSession creates a Session. The interpreter's memory is seeded with
// the start state.
func NewSession(in *interpreter.Interpreter, sc scene.Config, start character.State, w io.Writer) *Session {
	character.Store(in.Memory(), start)
	return &Session{in: in, scene: sc, start: start, output: w}
}

// Wait blocks until any background run has finished
func (s *Session) Wait() {
	s.wg.Wait()
}

// Exec runs one command. It reports true when the session should end.
func (s *Session) Exec(ctx context.Context, cmd Command) (bool, error) {
	switch cmd.Op {
	case "":
		return false, nil

	case OpQuit:
		s.in.Stop()
		s.Wait()
		return true, nil

	case OpHelp:
		fmt.Fprintln(s.output, helpText)

	case OpLoad:
		if s.in.IsRunning() {
			return false, interpreter.ErrAlreadyRunning
		}
		program := make([]interpreter.CommandName, len(cmd.Args))
		for i, a := range cmd.Args {
			program[i] = interpreter.CommandName(a)
		}
		s.in.SetProgram(program)
		render.FormatInfo(s.output, fmt.Sprintf("loaded %d steps", len(program)))

	case OpStep:
		if s.in.IsRunning() {
			return false, interpreter.ErrAlreadyRunning
		}
		pc := s.in.ProgramCounter()
		program := s.in.Program()
		if pc >= len(program) {
			render.FormatInfo(s.output, "at end of program")
			return false, nil
		}
		render.FormatStepBanner(s.output, pc, program[pc])
		if err := s.in.Step(ctx); err != nil {
			return false, err
		}
		s.drawScene()

	case OpRun:
		s.startRun(ctx)

	case OpStop:
		if !s.in.IsRunning() {
			render.FormatInfo(s.output, "not running")
			return false, nil
		}
		s.in.Stop()

	case OpDo:
		if err := s.in.DoCommand(ctx, interpreter.CommandName(cmd.Args[0])); err != nil {
			return false, err
		}
		s.drawScene()

	case OpReset:
		if s.in.IsRunning() {
			return false, interpreter.ErrAlreadyRunning
		}
		character.Store(s.in.Memory(), s.start)
		s.in.SetProgram(s.in.Program())
		s.drawScene()

	case OpMem:
		render.FormatMemory(s.output, s.in.Memory().Snapshot())

	case OpScene:
		s.drawScene()
	}
	return false, nil
}

// startRun runs the loaded program from its start in the background
func (s *Session) startRun(ctx context.Context) {
	program := s.in.Program()
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		started := time.Now()
		err := s.in.Run(ctx, program)
		if errors.Is(err, interpreter.ErrAlreadyRunning) {
			render.FormatError(s.output, err)
			return
		}
		executed := s.in.ProgramCounter()
		render.FormatRunComplete(s.output, render.RunSummary{
			Executed: executed,
			Total:    len(program),
			Stopped:  err == nil && executed < len(program),
			Duration: time.Since(started),
			Err:      err,
		})
		s.drawScene()
	}()
}

func (s *Session) drawScene() {
	state, ok := character.Load(s.in.Memory())
	if !ok {
		return
	}
	fmt.Fprintln(s.output, scene.Render(s.scene, state))
}

// ExecLine parses and executes one line
func (s *Session) ExecLine(ctx context.Context, line string) (bool, error) {
	cmd, err := ParseLine(strings.TrimSpace(line))
	if err != nil {
		return false, err
	}
	return s.Exec(ctx, cmd)
}
