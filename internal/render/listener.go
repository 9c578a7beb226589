package render

import (
	"io"

	"github.com/itsmostafa/gostep/internal/interpreter"
)

// Listener prints a step banner for every active state. program resolves
// the command name shown in the banner.
func Listener(w io.Writer, program func() []interpreter.CommandName) interpreter.Listener {
	return func(s interpreter.RunningState) {
		if !s.IsRunning || !s.HasActiveStep() {
			return
		}
		var name interpreter.CommandName
		if cmds := program(); s.ActiveStep < len(cmds) {
			name = cmds[s.ActiveStep]
		}
		FormatStepBanner(w, s.ActiveStep, name)
	}
}
