package domain

import (
	"fmt"
	"strings"
)

// Symbol is a single character occupying one tape cell.
type Symbol rune

// String returns the symbol as a one-character string.
func (s Symbol) String() string {
	return string(rune(s))
}

// MarshalText encodes the symbol as a one-character string (JSON/YAML friendly).
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a one-character string.
func (s *Symbol) UnmarshalText(text []byte) error {
	runes := []rune(string(text))
	if len(runes) != 1 {
		return fmt.Errorf("symbol must be exactly one character, got %q", string(text))
	}
	*s = Symbol(runes[0])
	return nil
}

// ParseTape converts a tape string into its cells, one symbol per character.
func ParseTape(s string) []Symbol {
	tape := make([]Symbol, 0, len(s))
	for _, r := range s {
		tape = append(tape, Symbol(r))
	}
	return tape
}

// TapeString renders tape cells back into a string.
func TapeString(tape []Symbol) string {
	var sb strings.Builder
	for _, s := range tape {
		sb.WriteRune(rune(s))
	}
	return sb.String()
}

// Direction is the head movement applied after a transition.
type Direction int

const (
	Stay Direction = iota
	Left
	Right
)

// ParseDirection maps the literals "left", "right" and "stay" to a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch s {
	case KeyLeft:
		return Left, true
	case KeyRight:
		return Right, true
	case KeyStay:
		return Stay, true
	}
	return Stay, false
}

func (d Direction) String() string {
	switch d {
	case Left:
		return KeyLeft
	case Right:
		return KeyRight
	case Stay:
		return KeyStay
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// MarshalText encodes the direction as its configuration literal.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText decodes a configuration literal.
func (d *Direction) UnmarshalText(text []byte) error {
	dir, ok := ParseDirection(string(text))
	if !ok {
		return fmt.Errorf("invalid direction %q", string(text))
	}
	*d = dir
	return nil
}

// Instruction defines a rule to move the machine from one configuration to the next.
// Instructions are values; nothing mutates them after load.
type Instruction struct {
	CurrentState  string    `json:"current_state" yaml:"current_state"`
	CurrentSymbol Symbol    `json:"current_symbol" yaml:"current_symbol"`
	NewState      string    `json:"new_state" yaml:"new_state"`
	NewSymbol     Symbol    `json:"new_symbol" yaml:"new_symbol"`
	Direction     Direction `json:"direction" yaml:"direction"`
}

// Matches reports whether the instruction applies to the given state and symbol.
func (i Instruction) Matches(state string, symbol Symbol) bool {
	return i.CurrentState == state && i.CurrentSymbol == symbol
}

// String renders the instruction in configuration syntax.
func (i Instruction) String() string {
	return fmt.Sprintf("%s %s %s %s %s",
		i.CurrentState, i.CurrentSymbol, i.NewState, i.NewSymbol, i.Direction)
}
