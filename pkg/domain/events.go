package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventLoad  EventType = "load"
	EventStep  EventType = "step"
	EventHalt  EventType = "halt"
	EventError EventType = "error"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Source    string    `json:"source,omitempty"`
}

// LoadEvent is emitted after a configuration is loaded or reloaded.
type LoadEvent struct {
	EventBase
	State        string `json:"state"`
	HaltState    string `json:"halt_state"`
	TapeLength   int    `json:"tape_length"`
	Instructions int    `json:"instructions"`
	Reset        bool   `json:"reset,omitempty"`
}

// StepEvent describes one applied transition.
type StepEvent struct {
	EventBase
	Step      int       `json:"step"`
	FromState string    `json:"from_state"`
	ToState   string    `json:"to_state"`
	Read      Symbol    `json:"read"`
	Written   Symbol    `json:"written"`
	Direction Direction `json:"direction"`
	Head      int       `json:"head"`
	Extended  bool      `json:"extended,omitempty"`
}

// HaltEvent is emitted when a step lands on the halt state.
type HaltEvent struct {
	EventBase
	State string `json:"state"`
	Steps int    `json:"steps"`
}

// ErrorEvent is emitted when a step is rejected.
type ErrorEvent struct {
	EventBase
	Err error `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Any hook may be nil.
type LifecycleHooks struct {
	OnLoad  func(*LoadEvent)
	OnStep  func(*StepEvent)
	OnHalt  func(*HaltEvent)
	OnError func(*ErrorEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnLoad:  chain(h.OnLoad, other.OnLoad),
		OnStep:  chain(h.OnStep, other.OnStep),
		OnHalt:  chain(h.OnHalt, other.OnHalt),
		OnError: chain(h.OnError, other.OnError),
	}
}

func chain[E any](a, b func(E)) func(E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(e E) {
		a(e)
		b(e)
	}
}
