package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/tms/internal/logging"
	"github.com/aretw0/tms/pkg/domain"
)

// Engine is the core transition engine of a single-tape Turing machine.
// It is not safe for concurrent use; hosts serialize access (see pkg/session).
type Engine struct {
	state        string
	haltState    string
	tape         []domain.Symbol
	head         int
	instructions []domain.Instruction
	matcher      Matcher
	steps        int

	blank   domain.Symbol
	indexed bool
	source  string
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithBlank sets the symbol used to extend the tape on the right.
func WithBlank(blank domain.Symbol) EngineOption {
	return func(e *Engine) {
		e.blank = blank
	}
}

// WithIndexedMatcher switches from a linear scan to a (state, symbol) lookup table.
func WithIndexedMatcher(indexed bool) EngineOption {
	return func(e *Engine) {
		e.indexed = indexed
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSource labels events and logs with the configuration origin.
func WithSource(name string) EngineOption {
	return func(e *Engine) {
		e.source = name
	}
}

// NewEngine creates an empty engine. Call Load before stepping.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		blank:   domain.DefaultBlank,
		logger:  logging.NewNop(),
		tape:    []domain.Symbol{},
		matcher: linear(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces state, tape, head and instructions wholesale with prog.
// It is not a merge: nothing from the previous machine survives.
func (e *Engine) Load(prog *domain.Program) {
	e.load(prog, false)
}

// Reload is Load for a reset: the same wholesale replacement, reported as a reset.
func (e *Engine) Reload(prog *domain.Program) {
	e.load(prog, true)
}

func (e *Engine) load(prog *domain.Program, reset bool) {
	p := prog.Clone()
	if p == nil {
		p = &domain.Program{}
	}
	if p.Tape == nil {
		p.Tape = []domain.Symbol{}
	}

	e.state = p.State
	e.haltState = p.HaltState
	e.tape = p.Tape
	e.head = 0
	e.steps = 0
	e.instructions = p.Instructions
	if e.indexed {
		e.matcher = NewIndex(e.instructions)
	} else {
		e.matcher = linear(e.instructions)
	}

	e.logger.Info("Machine loaded",
		"state", e.state,
		"halt_state", e.haltState,
		"tape_length", len(e.tape),
		"instructions", len(e.instructions),
		"reset", reset,
	)
	if e.hooks.OnLoad != nil {
		e.hooks.OnLoad(&domain.LoadEvent{
			EventBase:    e.event(domain.EventLoad),
			State:        e.state,
			HaltState:    e.haltState,
			TapeLength:   len(e.tape),
			Instructions: len(e.instructions),
			Reset:        reset,
		})
	}
}

// Restore loads prog and then positions the machine as described by snap.
// The snapshot tape must contain the head.
func (e *Engine) Restore(prog *domain.Program, snap *domain.Snapshot) error {
	tape := domain.ParseTape(snap.Tape)
	if snap.Head < 0 || (len(tape) > 0 && snap.Head >= len(tape)) || (len(tape) == 0 && snap.Head != 0) {
		return fmt.Errorf("snapshot head %d outside tape of length %d", snap.Head, len(tape))
	}
	if snap.Steps < 0 {
		return fmt.Errorf("snapshot step count %d is negative", snap.Steps)
	}

	e.Load(prog)
	e.state = snap.State
	e.tape = tape
	e.head = snap.Head
	e.steps = snap.Steps
	if snap.Blank != 0 {
		e.blank = snap.Blank
	}
	return nil
}

// Step applies the single transition matching the current state and the symbol
// under the head. A rejected step leaves the machine untouched.
//
// Moving right past the last cell extends the tape with the blank symbol.
// Moving left from cell 0 is reported as a TapeUnderflow.
func (e *Engine) Step() error {
	if len(e.tape) == 0 {
		return e.fail(&domain.StepError{Kind: domain.StepEmptyTape, State: e.state})
	}

	read := e.tape[e.head]
	inst, ok := e.matcher.Match(e.state, read)
	if !ok {
		return e.fail(&domain.StepError{
			Kind:   domain.StepNoMatchingInstruction,
			State:  e.state,
			Symbol: read,
			Head:   e.head,
		})
	}

	if inst.Direction == domain.Left && e.head == 0 {
		return e.fail(&domain.StepError{
			Kind:   domain.StepTapeUnderflow,
			State:  e.state,
			Symbol: read,
			Head:   e.head,
		})
	}

	from := e.state
	e.tape[e.head] = inst.NewSymbol
	e.state = inst.NewState

	extended := false
	switch inst.Direction {
	case domain.Left:
		e.head--
	case domain.Right:
		e.head++
		if e.head == len(e.tape) {
			e.tape = append(e.tape, e.blank)
			extended = true
		}
	}
	e.steps++

	e.logger.Debug("Step",
		"step", e.steps,
		"from", from,
		"to", e.state,
		"read", read.String(),
		"write", inst.NewSymbol.String(),
		"move", inst.Direction.String(),
		"head", e.head,
	)
	if e.hooks.OnStep != nil {
		e.hooks.OnStep(&domain.StepEvent{
			EventBase: e.event(domain.EventStep),
			Step:      e.steps,
			FromState: from,
			ToState:   e.state,
			Read:      read,
			Written:   inst.NewSymbol,
			Direction: inst.Direction,
			Head:      e.head,
			Extended:  extended,
		})
	}

	if e.IsHalted() {
		e.logger.Info("Machine halted", "state", e.state, "steps", e.steps)
		if e.hooks.OnHalt != nil {
			e.hooks.OnHalt(&domain.HaltEvent{
				EventBase: e.event(domain.EventHalt),
				State:     e.state,
				Steps:     e.steps,
			})
		}
	}
	return nil
}

func (e *Engine) fail(err *domain.StepError) error {
	level := slog.LevelDebug
	if err.Kind != domain.StepNoMatchingInstruction {
		level = slog.LevelWarn
	}
	e.logger.Log(context.Background(), level, "Step rejected", "err", err, "steps", e.steps)
	if e.hooks.OnError != nil {
		e.hooks.OnError(&domain.ErrorEvent{EventBase: e.event(domain.EventError), Err: err})
	}
	return err
}

func (e *Engine) event(t domain.EventType) domain.EventBase {
	return domain.EventBase{Timestamp: time.Now(), Type: t, Source: e.source}
}

// IsHalted reports whether the current state is the halt state.
// With no halt state configured, only an empty current state counts as halted.
func (e *Engine) IsHalted() bool {
	return e.state == e.haltState
}

// Run steps the machine until it halts, gets stuck, reaches maxSteps or ctx is done.
// maxSteps <= 0 means no bound. It returns the number of transitions applied.
//
// A machine with no applicable rule stops with a NoMatchingInstruction error;
// callers decide whether that counts as an implicit halt.
func (e *Engine) Run(ctx context.Context, maxSteps int) (int, error) {
	applied := 0
	for !e.IsHalted() {
		if err := ctx.Err(); err != nil {
			return applied, err
		}
		if maxSteps > 0 && applied >= maxSteps {
			return applied, fmt.Errorf("%w after %d steps (state %q)", domain.ErrStepLimit, applied, e.state)
		}
		if err := e.Step(); err != nil {
			return applied, err
		}
		applied++
	}
	return applied, nil
}

// State returns the current state name.
func (e *Engine) State() string { return e.state }

// HaltState returns the terminal state name.
func (e *Engine) HaltState() string { return e.haltState }

// Head returns the index of the cell under the head.
func (e *Engine) Head() int { return e.head }

// Steps returns the number of transitions applied since the last load.
func (e *Engine) Steps() int { return e.steps }

// Blank returns the symbol used to extend the tape.
func (e *Engine) Blank() domain.Symbol { return e.blank }

// Tape returns a copy of the tape cells.
func (e *Engine) Tape() []domain.Symbol {
	return append([]domain.Symbol(nil), e.tape...)
}

// Instructions returns a copy of the instruction set in load order.
func (e *Engine) Instructions() []domain.Instruction {
	return append([]domain.Instruction(nil), e.instructions...)
}

// Snapshot returns a read-only copy of the machine.
func (e *Engine) Snapshot() *domain.Snapshot {
	return &domain.Snapshot{
		Source:       e.source,
		State:        e.state,
		HaltState:    e.haltState,
		Tape:         domain.TapeString(e.tape),
		Head:         e.head,
		Blank:        e.blank,
		Steps:        e.steps,
		Halted:       e.IsHalted(),
		Instructions: e.Instructions(),
	}
}
