package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/itsmostafa/gostep/internal/render"
)

const (
	historyFile = ".gostep_history"
	prompt      = "gostep> "
)

// Run reads lines from the terminal until quit, EOF or Ctrl-C
func Run(ctx context.Context, s *Session) error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(complete)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}
	defer func() {
		if histPath == "" {
			return
		}
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprintln(s.output, "Type help for commands.")
	for {
		line, err := ln.Prompt(prompt)
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				_, _ = s.Exec(ctx, Command{Op: OpQuit})
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		ln.AppendHistory(line)

		quit, err := s.ExecLine(ctx, line)
		if err != nil {
			render.FormatError(s.output, err)
			continue
		}
		if quit {
			return nil
		}
	}
}

func complete(line string) []string {
	var out []string
	for _, op := range []Op{OpLoad, OpStep, OpRun, OpStop, OpDo, OpReset, OpMem, OpScene, OpHelp, OpQuit} {
		if strings.HasPrefix(string(op), strings.ToLower(line)) {
			out = append(out, string(op))
		}
	}
	return out
}
