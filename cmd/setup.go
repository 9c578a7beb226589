package cmd

import (
	"io"
	"time"

	"github.com/itsmostafa/gostep/internal/character"
	"github.com/itsmostafa/gostep/internal/interpreter"
	"github.com/itsmostafa/gostep/internal/program"
	"github.com/itsmostafa/gostep/internal/scene"
	"github.com/itsmostafa/gostep/internal/script"
)

// machine is an interpreter wired with the motion and script handlers of
// a program file
type machine struct {
	file  *program.File
	in    *interpreter.Interpreter
	scene scene.Config
}

// newMachine builds an interpreter for file. listener is called once
// m.in exists and receives every running-state transition.
func newMachine(file *program.File, delay time.Duration, scriptOut io.Writer, listener func(m *machine) interpreter.Listener) (*machine, error) {
	m := &machine{
		file:  file,
		scene: scene.Config{Rows: file.Scene.Rows, Columns: file.Scene.Columns},
	}

	var l interpreter.Listener
	m.in = interpreter.New(func(s interpreter.RunningState) {
		if l != nil {
			l(s)
		}
	})
	if listener != nil {
		l = listener(m)
	}

	opts := character.DefaultOptions(file.Scene.Rows, file.Scene.Columns)
	opts.Delay = delay
	character.RegisterHandlers(m.in, opts)
	character.Store(m.in.Memory(), file.StartState())

	cfg := script.DefaultConfig()
	cfg.Output = scriptOut
	if err := script.Register(m.in, file.Scripts, cfg); err != nil {
		return nil, err
	}
	return m, nil
}

// drawScene renders the character's current position
func (m *machine) drawScene(w io.Writer) {
	state, ok := character.Load(m.in.Memory())
	if !ok {
		return
	}
	io.WriteString(w, scene.Render(m.scene, state)+"\n")
}

// defaultConsoleDelay paces background runs so stop can be typed in time
const defaultConsoleDelay = 400 * time.Millisecond
