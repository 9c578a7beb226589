package interpreter

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Interpreter owns a program, its program counter, a handler registry and
// a shared memory store.
type Interpreter struct {
	listener Listener
	memory   *Memory

	mu       sync.Mutex
	program  []CommandName
	pc       int
	gen      uint64 // bumped by SetProgram
	handlers map[CommandName]map[HandlerKey]Handler

	running atomic.Bool
	stop    atomic.Bool
}

// New creates an Interpreter with an empty program. listener may be nil.
func New(listener Listener) *Interpreter {
	return &Interpreter{
		listener: listener,
		memory:   NewMemory(),
		program:  []CommandName{},
		handlers: make(map[CommandName]map[HandlerKey]Handler),
	}
}

// Memory returns the store shared by all handlers
func (in *Interpreter) Memory() *Memory {
	return in.memory
}

// Program returns a copy of the loaded program
func (in *Interpreter) Program() []CommandName {
	in.mu.Lock()
	defer in.mu.Unlock()
	return slices.Clone(in.program)
}

// ProgramCounter returns the index of the next command to step
func (in *Interpreter) ProgramCounter() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return in.pc
}

// IsRunning reports whether Run is in progress
func (in *Interpreter) IsRunning() bool {
	return in.running.Load()
}

// AddCommandHandler registers handler for name under key. A new key adds
// to the handlers already registered for name; an existing key is replaced.
func (in *Interpreter) AddCommandHandler(name CommandName, key HandlerKey, handler Handler) {
	in.mu.Lock()
	defer in.mu.Unlock()
	byKey, ok := in.handlers[name]
	if !ok {
		byKey = make(map[HandlerKey]Handler)
		in.handlers[name] = byKey
	}
	byKey[key] = handler
}

// AddCommandHandlerFunc is AddCommandHandler for a plain function
func (in *Interpreter) AddCommandHandlerFunc(name CommandName, key HandlerKey, fn func(ctx context.Context, in *Interpreter) error) {
	in.AddCommandHandler(name, key, HandlerFunc(fn))
}

// SetProgram replaces the program and resets the program counter
func (in *Interpreter) SetProgram(program []CommandName) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.program = slices.Clone(program)
	if in.program == nil {
		in.program = []CommandName{}
	}
	in.pc = 0
	in.gen++
}

// DoCommand runs every handler registered for name without touching the
// program counter. It returns once all handlers have returned, with the
// first error any of them reported.
func (in *Interpreter) DoCommand(ctx context.Context, name CommandName) error {
	handlers := in.lookup(name)
	if len(handlers) == 0 {
		return &UnknownCommandError{Command: name}
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, h := range handlers {
		g.Go(func() error {
			return h.Handle(gctx, in)
		})
	}
	return g.Wait()
}

// lookup snapshots the handlers registered for name
func (in *Interpreter) lookup(name CommandName) []Handler {
	in.mu.Lock()
	defer in.mu.Unlock()
	byKey := in.handlers[name]
	handlers := make([]Handler, 0, len(byKey))
	for _, h := range byKey {
		handlers = append(handlers, h)
	}
	return handlers
}

// Step executes the command at the program counter and advances the
// counter on success. At the end of the program it does nothing. While
// Run is in progress it returns ErrAlreadyRunning, since Run owns the
// counter.
func (in *Interpreter) Step(ctx context.Context) error {
	if in.running.Load() {
		return ErrAlreadyRunning
	}
	return in.step(ctx)
}

func (in *Interpreter) step(ctx context.Context) error {
	in.mu.Lock()
	if in.pc >= len(in.program) {
		in.mu.Unlock()
		return nil
	}
	name := in.program[in.pc]
	gen := in.gen
	in.mu.Unlock()

	if err := in.DoCommand(ctx, name); err != nil {
		return err
	}

	in.mu.Lock()
	// A program loaded while the step was in flight keeps its own counter.
	if in.gen == gen {
		in.pc++
	}
	in.mu.Unlock()
	return nil
}

// Run loads program and steps it to the end, or until Stop is called or a
// step fails. The listener sees Active(pc) before every step and Idle
// exactly once when the run ends. A failed step is returned as a
// *StepError after the Idle notification.
func (in *Interpreter) Run(ctx context.Context, program []CommandName) error {
	if !in.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer in.running.Store(false)

	in.SetProgram(program)
	in.stop.Store(false)
	defer in.notify(Idle)

	for {
		in.mu.Lock()
		pc, n := in.pc, len(in.program)
		var name CommandName
		if pc < n {
			name = in.program[pc]
		}
		in.mu.Unlock()
		if pc >= n {
			return nil
		}

		in.notify(Active(pc))
		if err := in.step(ctx); err != nil {
			return &StepError{Step: pc, Command: name, Err: err}
		}

		if in.stop.Load() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
	}
}

// Stop asks the current run to halt after the step in flight completes.
// It has no effect when no run is in progress.
func (in *Interpreter) Stop() {
	if in.running.Load() {
		in.stop.Store(true)
	}
}

func (in *Interpreter) notify(state RunningState) {
	if in.listener != nil {
		in.listener(state)
	}
}
