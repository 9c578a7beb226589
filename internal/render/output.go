// Package render writes styled run progress to a terminal
package render

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/gostep/internal/interpreter"
)

var (
	// titleStyle for bold headers
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("33"))

	// dimStyle for muted metadata text
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	// successStyle for success indicators
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	// warnStyle for stopped runs
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	// errorStyle for error indicators
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	// boxStyle for summary box with rounded border
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)

	// headerBoxStyle for the header
	headerBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("33")).
			Padding(0, 1)

	// stepBannerStyle for per-step banners
	stepBannerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("33")).
			Padding(0, 1)

	// commandStyle for command names
	commandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81")).
			Bold(true)
)

// RunInfo describes a run for the header box
type RunInfo struct {
	Name    string
	Path    string
	Steps   int
	Rows    int
	Columns int
	RunID   string
}

// RunSummary describes a finished run
type RunSummary struct {
	Executed int
	Total    int
	Stopped  bool
	Duration time.Duration
	Err      error
}

// FormatHeader renders the run header with program info
func FormatHeader(w io.Writer, info RunInfo) {
	name := info.Name
	if name == "" {
		name = "untitled"
	}

	content := fmt.Sprintf("%s %s  %s %d\n%s %dx%d",
		dimStyle.Render("Program:"), titleStyle.Render(name),
		dimStyle.Render("Steps:"), info.Steps,
		dimStyle.Render("Grid:"), info.Columns, info.Rows,
	)
	if info.Path != "" {
		content += fmt.Sprintf("\n%s %s", dimStyle.Render("File:"), info.Path)
	}
	if info.RunID != "" {
		content += fmt.Sprintf("\n%s %s", dimStyle.Render("Run:"), info.RunID)
	}

	fmt.Fprintln(w, headerBoxStyle.Render(content))
}

// FormatStepBanner renders the banner shown before a step executes
func FormatStepBanner(w io.Writer, step int, command interpreter.CommandName) {
	banner := stepBannerStyle.Render(fmt.Sprintf("STEP %d", step+1))
	fmt.Fprintf(w, "%s %s\n", banner, commandStyle.Render(string(command)))
}

// FormatRunComplete renders the summary box for a finished run
func FormatRunComplete(w io.Writer, s RunSummary) {
	var status string
	switch {
	case s.Err != nil:
		status = errorStyle.Render("ERROR")
	case s.Stopped:
		status = warnStyle.Render("STOPPED")
	default:
		status = successStyle.Render("OK")
	}

	line := fmt.Sprintf("%s %d/%d  %s %.2fs  %s",
		dimStyle.Render("Steps:"), s.Executed, s.Total,
		dimStyle.Render("Duration:"), s.Duration.Seconds(),
		status,
	)
	content := titleStyle.Render("Run Complete") + "\n" + line
	if s.Err != nil {
		content += "\n" + errorStyle.Render(s.Err.Error())
	}
	fmt.Fprintln(w, boxStyle.Render(content))
}

// FormatError writes an error line
func FormatError(w io.Writer, err error) {
	fmt.Fprintln(w, errorStyle.Render("Error: "+err.Error()))
}

// FormatInfo writes a muted status line
func FormatInfo(w io.Writer, msg string) {
	fmt.Fprintln(w, dimStyle.Render(msg))
}
