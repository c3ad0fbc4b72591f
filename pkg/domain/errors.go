package domain

import (
	"errors"
	"fmt"
)

// Sentinels for configuration failures. ConfigError matches them with errors.Is.
var (
	ErrIo               = errors.New("configuration unreadable")
	ErrMalformedLine    = errors.New("malformed line")
	ErrInvalidDirection = errors.New("invalid direction")
	ErrMalformedSymbol  = errors.New("malformed symbol")
)

// Sentinels for step failures. StepError matches them with errors.Is.
var (
	ErrEmptyTape             = errors.New("empty tape")
	ErrTapeUnderflow         = errors.New("tape underflow")
	ErrNoMatchingInstruction = errors.New("no matching instruction")
)

// ErrStepLimit is returned by bounded runs that did not halt in time.
var ErrStepLimit = errors.New("step limit reached")

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidSessionID is returned for session IDs a store cannot key safely.
var ErrInvalidSessionID = errors.New("invalid session id")

// ConfigErrorKind classifies a configuration failure.
type ConfigErrorKind int

const (
	ConfigIo ConfigErrorKind = iota + 1
	ConfigMalformedLine
	ConfigInvalidDirection
	ConfigMalformedSymbol
)

func (k ConfigErrorKind) sentinel() error {
	switch k {
	case ConfigIo:
		return ErrIo
	case ConfigMalformedLine:
		return ErrMalformedLine
	case ConfigInvalidDirection:
		return ErrInvalidDirection
	case ConfigMalformedSymbol:
		return ErrMalformedSymbol
	}
	return nil
}

// ConfigError is raised while loading a configuration. It is fatal to that load.
type ConfigError struct {
	Kind    ConfigErrorKind
	Line    int    // 1-based line number, 0 for stream failures
	Content string // offending line or token
	Err     error  // underlying cause (I/O errors)
}

func (e *ConfigError) Error() string {
	msg := e.Kind.sentinel().Error()
	if e.Line > 0 {
		msg = fmt.Sprintf("line %d: %s: %q", e.Line, msg, e.Content)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is lets errors.Is match the sentinel of the error kind.
func (e *ConfigError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// StepErrorKind classifies a step failure.
type StepErrorKind int

const (
	StepEmptyTape StepErrorKind = iota + 1
	StepTapeUnderflow
	StepNoMatchingInstruction
)

func (k StepErrorKind) sentinel() error {
	switch k {
	case StepEmptyTape:
		return ErrEmptyTape
	case StepTapeUnderflow:
		return ErrTapeUnderflow
	case StepNoMatchingInstruction:
		return ErrNoMatchingInstruction
	}
	return nil
}

// StepError is returned by a step that could not be applied.
// The machine is left exactly as it was before the step.
type StepError struct {
	Kind   StepErrorKind
	State  string
	Symbol Symbol
	Head   int
}

func (e *StepError) Error() string {
	switch e.Kind {
	case StepEmptyTape:
		return fmt.Sprintf("%s (state %q)", ErrEmptyTape, e.State)
	case StepTapeUnderflow:
		return fmt.Sprintf("%s: cannot move left from cell 0 (state %q)", ErrTapeUnderflow, e.State)
	}
	return fmt.Sprintf("%s for state %q and symbol %q at cell %d",
		e.Kind.sentinel(), e.State, e.Symbol.String(), e.Head)
}

// Is lets errors.Is match the sentinel of the error kind.
func (e *StepError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

// IsFatal reports whether a step error indicates a broken configuration
// rather than the implicit halt of a machine with no applicable rule.
func IsFatal(err error) bool {
	return errors.Is(err, ErrEmptyTape) || errors.Is(err, ErrTapeUnderflow)
}
