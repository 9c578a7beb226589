// Package scene draws the character's grid as text
package scene

import (
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/itsmostafa/gostep/internal/character"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	charStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
)

const emptyCell = "·"

// Config is the grid size
type Config struct {
	Rows    int
	Columns int
}

// Glyph returns the arrow pointing along direction, snapped to the nearest
// quarter turn.
func Glyph(direction float64) string {
	quarter := int(math.Round(character.Wrap(0, 360, direction)/90)) % 4
	return [...]string{"^", ">", "v", "<"}[quarter]
}

// ColumnLabel returns the spreadsheet-style label for 1-based column n
// (A..Z, AA..).
func ColumnLabel(n int) string {
	var label []byte
	for n > 0 {
		n--
		label = append([]byte{byte('A' + n%26)}, label...)
		n /= 26
	}
	return string(label)
}

// Render draws the grid with the character at its rounded position.
// Columns are labeled A.. and rows 1.. as on the editor scene.
func Render(cfg Config, s character.State) string {
	if cfg.Rows < 1 || cfg.Columns < 1 {
		return ""
	}

	cellWidth := len(ColumnLabel(cfg.Columns))
	rowWidth := len(strconv.Itoa(cfg.Rows))
	col := int(math.Round(s.X))
	row := int(math.Round(s.Y))

	var b strings.Builder
	b.WriteString(strings.Repeat(" ", rowWidth))
	for c := 1; c <= cfg.Columns; c++ {
		b.WriteString(" ")
		b.WriteString(labelStyle.Render(pad(ColumnLabel(c), cellWidth)))
	}

	for r := 1; r <= cfg.Rows; r++ {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(padLeft(strconv.Itoa(r), rowWidth)))
		for c := 1; c <= cfg.Columns; c++ {
			b.WriteString(" ")
			if r == row && c == col {
				b.WriteString(charStyle.Render(pad(Glyph(s.Direction), cellWidth)))
			} else {
				b.WriteString(cellStyle.Render(pad(emptyCell, cellWidth)))
			}
		}
	}

	return frameStyle.Render(b.String())
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}

func padLeft(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return strings.Repeat(" ", n) + s
	}
	return s
}
