// Package script defines command handlers written in JavaScript.
//
// Each invocation gets a fresh goja runtime with these globals:
//
//	memory.get(key)        -> value or undefined
//	memory.set(key, value)
//	memory.delete(key)
//	memory.keys()          -> sorted array of keys
//	stop()                 -> ask the current run to halt after this step
//	print(...args)         -> write a line to Config.Output
//	command                -> name of the command being handled
package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dop251/goja"

	"github.com/itsmostafa/gostep/internal/interpreter"
	"github.com/itsmostafa/gostep/internal/program"
)

// Config holds settings shared by script handlers
type Config struct {
	// Timeout bounds a single invocation. Zero means no limit.
	Timeout time.Duration

	// Output receives print() lines. Nil discards them.
	Output io.Writer
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() Config {
	return Config{
		Timeout: 5 * time.Second,
	}
}

// Handler runs a compiled script as an interpreter.Handler
type Handler struct {
	command interpreter.CommandName
	prog    *goja.Program
	config  Config
}

// NewHandler compiles source for command. Syntax errors are reported here
// rather than when the command first runs.
func NewHandler(command interpreter.CommandName, source string, config Config) (*Handler, error) {
	prog, err := goja.Compile(string(command), source, false)
	if err != nil {
		return nil, fmt.Errorf("failed to compile script for %s: %w", command, err)
	}
	return &Handler{command: command, prog: prog, config: config}, nil
}

// Handle executes the script against the interpreter's memory
func (h *Handler) Handle(ctx context.Context, in *interpreter.Interpreter) error {
	vm := goja.New()

	runCtx := ctx
	if h.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, h.config.Timeout)
		defer cancel()
	}

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-runCtx.Done():
			vm.Interrupt("execution timeout or cancelled")
		case <-done:
		}
	}()

	if err := h.setupEnvironment(vm, in); err != nil {
		return fmt.Errorf("failed to setup environment: %w", err)
	}

	if _, err := vm.RunProgram(h.prog); err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			return fmt.Errorf("script %s interrupted: %w", h.command, runCtx.Err())
		}
		return fmt.Errorf("script %s failed: %w", h.command, err)
	}
	return nil
}

// setupEnvironment installs the memory, stop and print globals
func (h *Handler) setupEnvironment(vm *goja.Runtime, in *interpreter.Interpreter) error {
	mem := in.Memory()
	memory := vm.NewObject()

	get := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("memory.get requires 1 argument: key"))
		}
		v, ok := mem.Get(call.Arguments[0].String())
		if !ok {
			return goja.Undefined()
		}
		return vm.ToValue(v)
	}
	if err := memory.Set("get", get); err != nil {
		return err
	}

	set := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 2 {
			panic(vm.NewTypeError("memory.set requires 2 arguments: key, value"))
		}
		mem.Set(call.Arguments[0].String(), call.Arguments[1].Export())
		return goja.Undefined()
	}
	if err := memory.Set("set", set); err != nil {
		return err
	}

	del := func(call goja.FunctionCall) goja.Value {
		if len(call.Arguments) < 1 {
			panic(vm.NewTypeError("memory.delete requires 1 argument: key"))
		}
		mem.Delete(call.Arguments[0].String())
		return goja.Undefined()
	}
	if err := memory.Set("delete", del); err != nil {
		return err
	}

	keys := func(call goja.FunctionCall) goja.Value {
		names := mem.Keys()
		out := make([]any, len(names))
		for i, name := range names {
			out[i] = name
		}
		return vm.ToValue(out)
	}
	if err := memory.Set("keys", keys); err != nil {
		return err
	}

	if err := vm.Set("memory", memory); err != nil {
		return fmt.Errorf("failed to set memory: %w", err)
	}

	stop := func(call goja.FunctionCall) goja.Value {
		in.Stop()
		return goja.Undefined()
	}
	if err := vm.Set("stop", stop); err != nil {
		return fmt.Errorf("failed to set stop: %w", err)
	}

	printFunc := func(call goja.FunctionCall) goja.Value {
		if h.config.Output == nil {
			return goja.Undefined()
		}
		args := make([]string, len(call.Arguments))
		for i, arg := range call.Arguments {
			args[i] = arg.String()
		}
		fmt.Fprintln(h.config.Output, strings.Join(args, " "))
		return goja.Undefined()
	}
	if err := vm.Set("print", printFunc); err != nil {
		return fmt.Errorf("failed to set print: %w", err)
	}

	return vm.Set("command", string(h.command))
}

// Register compiles every script and installs it on the interpreter.
// Nothing is registered if any script fails to compile.
func Register(in *interpreter.Interpreter, scripts []program.Script, config Config) error {
	handlers := make([]*Handler, len(scripts))
	for i, s := range scripts {
		h, err := NewHandler(interpreter.CommandName(s.Command), s.Source, config)
		if err != nil {
			return err
		}
		handlers[i] = h
	}
	for i, s := range scripts {
		in.AddCommandHandler(interpreter.CommandName(s.Command), interpreter.HandlerKey(s.Key), handlers[i])
	}
	return nil
}
