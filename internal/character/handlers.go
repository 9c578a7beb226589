package character

import (
	"context"
	"fmt"
	"time"

	"github.com/itsmostafa/gostep/internal/interpreter"
)

const (
	// MemoryKey is the interpreter memory key holding the character State
	MemoryKey = "character"

	// HandlerKey is the key the motion handlers register under
	HandlerKey interpreter.HandlerKey = "character"
)

// Command names understood by the motion handlers
const (
	CommandForward   interpreter.CommandName = "forward"
	CommandTurnLeft  interpreter.CommandName = "left"
	CommandTurnRight interpreter.CommandName = "right"
)

// Options configures the motion handlers
type Options struct {
	Bounds    Bounds
	Distance  float64       // cells per forward (default 1)
	TurnAngle float64       // degrees per turn (default 90)
	Delay     time.Duration // pause after each move, for animation
}

// DefaultOptions returns Options for a rows x columns grid
func DefaultOptions(rows, columns int) Options {
	return Options{
		Bounds:    Bounds{MinX: 1, MaxX: float64(columns), MinY: 1, MaxY: float64(rows)},
		Distance:  1,
		TurnAngle: 90,
	}
}

// Load returns the character state stored in memory
func Load(m *interpreter.Memory) (State, bool) {
	v, ok := m.Get(MemoryKey)
	if !ok {
		return State{}, false
	}
	s, ok := v.(State)
	return s, ok
}

// Store saves s in memory
func Store(m *interpreter.Memory, s State) {
	m.Set(MemoryKey, s)
}

// RegisterHandlers installs the forward, left and right handlers
func RegisterHandlers(in *interpreter.Interpreter, opts Options) {
	if opts.Distance == 0 {
		opts.Distance = 1
	}
	if opts.TurnAngle == 0 {
		opts.TurnAngle = 90
	}

	in.AddCommandHandler(CommandForward, HandlerKey, move(opts, func(s State) State {
		return s.Forward(opts.Distance, opts.Bounds)
	}))
	in.AddCommandHandler(CommandTurnLeft, HandlerKey, move(opts, func(s State) State {
		return s.TurnLeft(opts.TurnAngle)
	}))
	in.AddCommandHandler(CommandTurnRight, HandlerKey, move(opts, func(s State) State {
		return s.TurnRight(opts.TurnAngle)
	}))
}

func move(opts Options, fn func(State) State) interpreter.Handler {
	return interpreter.HandlerFunc(func(ctx context.Context, in *interpreter.Interpreter) error {
		var err error
		in.Memory().Update(MemoryKey, func(old any, ok bool) any {
			if !ok {
				return fn(State{X: opts.Bounds.MinX, Y: opts.Bounds.MinY})
			}
			s, isState := old.(State)
			if !isState {
				err = fmt.Errorf("memory %q holds %T, not a character state", MemoryKey, old)
				return old
			}
			return fn(s)
		})
		if err != nil {
			return err
		}
		return sleep(ctx, opts.Delay)
	})
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
