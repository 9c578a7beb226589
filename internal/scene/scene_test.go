package scene

import (
	"strings"
	"testing"

	"github.com/itsmostafa/gostep/internal/character"
)

func TestGlyph(t *testing.T) {
	tests := []struct {
		direction float64
		want      string
	}{
		{direction: 0, want: "^"},
		{direction: 90, want: ">"},
		{direction: 180, want: "v"},
		{direction: 270, want: "<"},
		{direction: 350, want: "^"},
		{direction: -90, want: "<"},
		{direction: 100, want: ">"},
	}
	for _, tt := range tests {
		if got := Glyph(tt.direction); got != tt.want {
			t.Errorf("Glyph(%v) = %q, want %q", tt.direction, got, tt.want)
		}
	}
}

func TestColumnLabel(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{n: 1, want: "A"},
		{n: 26, want: "Z"},
		{n: 27, want: "AA"},
		{n: 52, want: "AZ"},
		{n: 53, want: "BA"},
	}
	for _, tt := range tests {
		if got := ColumnLabel(tt.n); got != tt.want {
			t.Errorf("ColumnLabel(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestRender(t *testing.T) {
	out := Render(Config{Rows: 3, Columns: 4}, character.State{X: 2, Y: 3, Direction: 90})

	lines := strings.Split(out, "\n")
	// border + header + 3 rows + border
	if len(lines) != 6 {
		t.Fatalf("Render() produced %d lines, want 6:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[1], "A B C D") {
		t.Errorf("header line = %q, want column labels", lines[1])
	}
	if !strings.Contains(lines[4], "3 · > · ·") {
		t.Errorf("row 3 = %q, want character in column B", lines[4])
	}
	if strings.Count(out, ">") != 1 {
		t.Errorf("Render() drew %d characters, want 1", strings.Count(out, ">"))
	}
}

func TestRender_EmptyGrid(t *testing.T) {
	if got := Render(Config{}, character.State{}); got != "" {
		t.Errorf("Render() = %q, want empty", got)
	}
}
