package cmd

import (
	"errors"
	"io"
	"os"
	"time"

	"github.com/itsmostafa/gostep/internal/console"
	"github.com/itsmostafa/gostep/internal/interpreter"
	"github.com/itsmostafa/gostep/internal/program"
	"github.com/itsmostafa/gostep/internal/render"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var consoleCmd = &cobra.Command{
	Use:   "console [program.yaml]",
	Short: "Step a program interactively",
	Long: `Open an interactive console. With a program file, its scene, start
position, scripts and steps are loaded; without one an empty default grid is
used. Type help at the prompt for commands.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return errors.New("console requires an interactive terminal")
		}

		file := &program.File{Scene: program.Scene{Rows: program.DefaultRows, Columns: program.DefaultColumns}}
		if len(args) == 1 {
			loaded, err := program.Load(args[0])
			if err != nil {
				return err
			}
			file = loaded
		}

		w := cmd.OutOrStdout()
		session, err := newConsoleSession(file, consoleDelay, w)
		if err != nil {
			return err
		}
		return console.Run(cmd.Context(), session)
	},
}

// newConsoleSession wires a session for file with the program loaded
// and the start scene drawn
func newConsoleSession(file *program.File, delay time.Duration, w io.Writer) (*console.Session, error) {
	m, err := newMachine(file, delay, w, func(m *machine) interpreter.Listener {
		return render.Listener(w, m.in.Program)
	})
	if err != nil {
		return nil, err
	}
	m.in.SetProgram(file.Commands())

	session := console.NewSession(m.in, m.scene, file.StartState(), w)
	m.drawScene(w)
	return session, nil
}

var consoleDelay = defaultConsoleDelay

func init() {
	consoleCmd.Flags().DurationVar(&consoleDelay, "delay", defaultConsoleDelay, "Pause after each move during run")
	rootCmd.AddCommand(consoleCmd)
}
