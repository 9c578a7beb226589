// Package character moves a character around a bounded grid and provides
// the forward/left/right command handlers that drive it.
package character

import "math"

// State is the character's position and heading. Positive X is east,
// positive Y is south. Direction is in degrees: 0 is north, 90 is east.
type State struct {
	X         float64 `json:"x" yaml:"x"`
	Y         float64 `json:"y" yaml:"y"`
	Direction float64 `json:"direction" yaml:"direction"`
}

// Bounds limits where the character may move
type Bounds struct {
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64
}

// Forward moves distance units along the current heading, clamped to bounds
func (s State) Forward(distance float64, bounds Bounds) State {
	rad := DegreesToRadians(s.Direction)
	dx := math.Sin(rad) * distance
	dy := math.Cos(rad) * distance

	return State{
		X:         Clamp(round(s.X+dx), bounds.MinX, bounds.MaxX),
		Y:         Clamp(round(s.Y-dy), bounds.MinY, bounds.MaxY),
		Direction: s.Direction,
	}
}

// TurnLeft rotates counter-clockwise by deg degrees
func (s State) TurnLeft(deg float64) State {
	return State{X: s.X, Y: s.Y, Direction: Wrap(0, 360, s.Direction-deg)}
}

// TurnRight rotates clockwise by deg degrees
func (s State) TurnRight(deg float64) State {
	return State{X: s.X, Y: s.Y, Direction: Wrap(0, 360, s.Direction+deg)}
}

// DegreesToRadians converts an angle in degrees to radians
func DegreesToRadians(deg float64) float64 {
	return deg / 180 * math.Pi
}

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Wrap maps v into the half-open range [start, stop)
func Wrap(start, stop, v float64) float64 {
	span := stop - start
	return start + math.Mod(math.Mod(v-start, span)+span, span)
}

// round drops floating point noise from sin/cos so grid moves land on
// whole cells.
func round(v float64) float64 {
	return math.Round(v*1e9) / 1e9
}
