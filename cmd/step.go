package cmd

import (
	"context"
	"io"

	"github.com/itsmostafa/gostep/internal/program"
	"github.com/itsmostafa/gostep/internal/render"
	"github.com/spf13/cobra"
)

var stepCount int

var stepCmd = &cobra.Command{
	Use:   "step <program.yaml>",
	Short: "Execute the first steps of a program one at a time",
	Long:  `Load a program file and step it N times, drawing the grid after every step.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := program.Load(args[0])
		if err != nil {
			return err
		}
		return stepProgram(cmd.Context(), cmd.OutOrStdout(), file, stepCount)
	},
}

func stepProgram(ctx context.Context, w io.Writer, file *program.File, count int) error {
	m, err := newMachine(file, 0, w, nil)
	if err != nil {
		return err
	}
	m.in.SetProgram(file.Commands())

	render.FormatHeader(w, render.RunInfo{
		Name:    file.Name,
		Path:    file.Path,
		Steps:   len(file.Steps),
		Rows:    file.Scene.Rows,
		Columns: file.Scene.Columns,
	})
	m.drawScene(w)

	cmds := m.in.Program()
	for range count {
		pc := m.in.ProgramCounter()
		if pc >= len(cmds) {
			render.FormatInfo(w, "at end of program")
			break
		}
		render.FormatStepBanner(w, pc, cmds[pc])
		if err := m.in.Step(ctx); err != nil {
			render.FormatError(w, err)
			return err
		}
		m.drawScene(w)
	}

	render.FormatMemory(w, m.in.Memory().Snapshot())
	return nil
}

func init() {
	stepCmd.Flags().IntVarP(&stepCount, "count", "n", 1, "Number of steps to execute")
	rootCmd.AddCommand(stepCmd)
}
