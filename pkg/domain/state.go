package domain

// Program is the result of loading a machine configuration.
type Program struct {
	// State is the initial state (last 2-token line wins).
	State string
	// HaltState is the terminal state (last 1-token line wins).
	HaltState string
	// Tape holds the initial cells, exactly as written in the configuration.
	Tape []Symbol
	// Instructions are kept in load order; the first match wins.
	Instructions []Instruction
}

// Clone returns a deep copy so the caller can mutate the tape freely.
func (p *Program) Clone() *Program {
	if p == nil {
		return nil
	}
	c := *p
	c.Tape = append([]Symbol(nil), p.Tape...)
	c.Instructions = append([]Instruction(nil), p.Instructions...)
	return &c
}

// Snapshot is a read-only copy of a machine.
// Drivers render and persist snapshots; they never hold the engine itself.
type Snapshot struct {
	// Source names where the configuration came from (file path, "inline", ...).
	Source string `json:"source,omitempty" yaml:"source,omitempty"`

	// Config keeps the raw configuration text so a restored machine can still be reset.
	Config string `json:"config,omitempty" yaml:"config,omitempty"`

	State     string `json:"state" yaml:"state"`
	HaltState string `json:"halt_state" yaml:"halt_state"`
	Tape      string `json:"tape" yaml:"tape"`
	Head      int    `json:"head" yaml:"head"`
	Blank     Symbol `json:"blank" yaml:"blank"`

	// Steps counts the transitions applied since the last load or reset.
	Steps int `json:"steps" yaml:"steps"`

	// Halted mirrors State == HaltState at the time of the snapshot.
	Halted bool `json:"halted" yaml:"halted"`

	Instructions []Instruction `json:"instructions" yaml:"instructions"`
}

// Symbol returns the cell under the head, or false if the tape is empty.
func (s *Snapshot) Symbol() (Symbol, bool) {
	tape := []rune(s.Tape)
	if s.Head < 0 || s.Head >= len(tape) {
		return 0, false
	}
	return Symbol(tape[s.Head]), true
}
