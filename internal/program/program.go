// Package program loads gostep program files.
package program

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/itsmostafa/gostep/internal/character"
	"github.com/itsmostafa/gostep/internal/interpreter"
)

// Default grid size used when a file omits the scene section
const (
	DefaultRows    = 8
	DefaultColumns = 12
)

// File is a program document
type File struct {
	Name    string           `yaml:"name,omitempty"`
	Scene   Scene            `yaml:"scene"`
	Start   *character.State `yaml:"start,omitempty"`
	Steps   []string         `yaml:"steps"`
	Scripts []Script         `yaml:"scripts,omitempty"`

	// Path is the file the document was loaded from
	Path string `yaml:"-"`
}

// Scene is the grid the character moves on
type Scene struct {
	Rows    int `yaml:"rows"`
	Columns int `yaml:"columns"`
}

// Script defines a command handler in JavaScript
type Script struct {
	Command string `yaml:"command"`
	Key     string `yaml:"key,omitempty"`
	Source  string `yaml:"source"`
}

// Load reads and validates the program file at path
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open program: %w", err)
	}
	defer f.Close()

	file, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("program %s: %w", path, err)
	}
	file.Path = path
	return file, nil
}

// Parse decodes and validates a program document. Unknown fields are errors.
func Parse(r io.Reader) (*File, error) {
	var file File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty program file")
		}
		return nil, fmt.Errorf("failed to parse program: %w", err)
	}

	file.applyDefaults()
	if err := file.Validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

func (f *File) applyDefaults() {
	if f.Scene.Rows == 0 {
		f.Scene.Rows = DefaultRows
	}
	if f.Scene.Columns == 0 {
		f.Scene.Columns = DefaultColumns
	}
	for i := range f.Scripts {
		if f.Scripts[i].Key == "" {
			f.Scripts[i].Key = "script"
		}
	}
}

// Validate checks the document for empty names and impossible scenes
func (f *File) Validate() error {
	if f.Scene.Rows < 1 || f.Scene.Columns < 1 {
		return fmt.Errorf("invalid scene size %dx%d", f.Scene.Rows, f.Scene.Columns)
	}
	for i, step := range f.Steps {
		if strings.TrimSpace(step) == "" {
			return fmt.Errorf("step %d: empty command name", i)
		}
	}
	for i, s := range f.Scripts {
		if strings.TrimSpace(s.Command) == "" {
			return fmt.Errorf("script %d: missing command", i)
		}
		if strings.TrimSpace(s.Source) == "" {
			return fmt.Errorf("script %d (%s): missing source", i, s.Command)
		}
	}
	return nil
}

// Commands returns the steps as interpreter command names
func (f *File) Commands() []interpreter.CommandName {
	cmds := make([]interpreter.CommandName, len(f.Steps))
	for i, step := range f.Steps {
		cmds[i] = interpreter.CommandName(strings.TrimSpace(step))
	}
	return cmds
}

// Bounds returns the area the character may occupy: one unit per cell,
// columns along x and rows along y, both starting at 1.
func (f *File) Bounds() character.Bounds {
	return character.Bounds{
		MinX: 1,
		MaxX: float64(f.Scene.Columns),
		MinY: 1,
		MaxY: float64(f.Scene.Rows),
	}
}

// StartState returns where the character begins: the file's start, or the
// top-left cell facing east.
func (f *File) StartState() character.State {
	if f.Start != nil {
		b := f.Bounds()
		return character.State{
			X:         character.Clamp(f.Start.X, b.MinX, b.MaxX),
			Y:         character.Clamp(f.Start.Y, b.MinY, b.MaxY),
			Direction: character.Wrap(0, 360, f.Start.Direction),
		}
	}
	return character.State{X: 1, Y: 1, Direction: 90}
}

// Write serialises the document to path
func Write(f *File, path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to marshal program: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close encoder: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write program: %w", err)
	}
	return nil
}
