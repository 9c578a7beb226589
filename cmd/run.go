package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/itsmostafa/gostep/internal/interpreter"
	"github.com/itsmostafa/gostep/internal/program"
	"github.com/itsmostafa/gostep/internal/render"
	"github.com/itsmostafa/gostep/internal/trace"
	"github.com/spf13/cobra"
)

var runDelay time.Duration
var runTraceDir string
var runNoScene bool
var runMaxSteps int

var runCmd = &cobra.Command{
	Use:   "run <program.yaml>",
	Short: "Run a program from start to end",
	Long:  `Run every step of a program file, drawing the grid after each step.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := program.Load(args[0])
		if err != nil {
			return err
		}
		return runProgram(cmd.Context(), cmd.OutOrStdout(), file)
	},
}

func runProgram(ctx context.Context, w io.Writer, file *program.File) error {
	var recorder *trace.Recorder
	if runTraceDir != "" {
		f, err := trace.Open(runTraceDir)
		if err != nil {
			return err
		}
		defer f.Close()
		recorder = trace.NewRecorder(f, file.Commands)
	}

	m, err := newMachine(file, runDelay, w, func(m *machine) interpreter.Listener {
		listeners := []interpreter.Listener{
			// the scene before step k shows the effect of step k-1
			func(s interpreter.RunningState) {
				if !runNoScene && (!s.IsRunning || s.ActiveStep > 0) {
					m.drawScene(w)
				}
			},
			render.Listener(w, m.in.Program),
			func(s interpreter.RunningState) {
				if s.IsRunning && runMaxSteps > 0 && s.ActiveStep+1 >= runMaxSteps {
					m.in.Stop()
				}
			},
		}
		if recorder != nil {
			listeners = append(listeners, recorder.Listener())
		}
		return trace.Tee(listeners...)
	})
	if err != nil {
		return err
	}

	info := render.RunInfo{
		Name:    file.Name,
		Path:    file.Path,
		Steps:   len(file.Steps),
		Rows:    file.Scene.Rows,
		Columns: file.Scene.Columns,
	}
	if recorder != nil {
		info.RunID = recorder.RunID()
	}
	render.FormatHeader(w, info)
	if !runNoScene {
		m.drawScene(w)
	}

	started := time.Now()
	runErr := m.in.Run(ctx, file.Commands())

	pc := m.in.ProgramCounter()
	render.FormatRunComplete(w, render.RunSummary{
		Executed: pc,
		Total:    len(file.Steps),
		Stopped:  runErr == nil && pc < len(file.Steps),
		Duration: time.Since(started),
		Err:      runErr,
	})

	if recorder != nil {
		if err := recorder.Err(); err != nil {
			return errors.Join(runErr, err)
		}
	}
	return runErr
}

func init() {
	runCmd.Flags().DurationVar(&runDelay, "delay", 0, "Pause after each move (e.g. 250ms)")
	runCmd.Flags().BoolVar(&runNoScene, "no-scene", false, "Do not draw the grid")
	runCmd.Flags().IntVarP(&runMaxSteps, "max-steps", "n", 0, "Stop after this many steps (0 = unlimited)")

	// Trace directory flag with env var fallback
	defaultTraceDir := os.Getenv("GOSTEP_TRACE_DIR")
	runCmd.Flags().StringVar(&runTraceDir, "trace-dir", defaultTraceDir, "Write a JSONL trace of the run to this directory")

	rootCmd.AddCommand(runCmd)
}
