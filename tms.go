package tms

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/tms/internal/compiler"
	"github.com/aretw0/tms/internal/logging"
	"github.com/aretw0/tms/internal/runtime"
	"github.com/aretw0/tms/pkg/adapters/file"
	"github.com/aretw0/tms/pkg/adapters/memory"
	"github.com/aretw0/tms/pkg/domain"
	"github.com/aretw0/tms/pkg/ports"
)

// Simulator is the high-level entry point for the TMS library.
// It owns one machine and the configuration source it was loaded from.
// A Simulator is not safe for concurrent use: serialize Step, Reset and Run.
type Simulator struct {
	engine *runtime.Engine
	source ports.ConfigSource
	parser *compiler.Parser
	config string

	blank   domain.Symbol
	indexed bool
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
}

// Option defines a functional option for configuring the Simulator.
type Option func(*Simulator)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *Simulator) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Simulator) {
		s.logger = logger
	}
}

// WithBlank sets the symbol written when the tape grows to the right (default '_').
func WithBlank(blank domain.Symbol) Option {
	return func(s *Simulator) {
		s.blank = blank
	}
}

// WithIndexedMatcher enables the (state, symbol) lookup table instead of a linear scan.
func WithIndexedMatcher(indexed bool) Option {
	return func(s *Simulator) {
		s.indexed = indexed
	}
}

// Parse reads a machine configuration from r.
func Parse(r io.Reader) (*domain.Program, error) {
	return compiler.NewParser().Parse(r)
}

// Load creates a Simulator from a configuration file.
func Load(path string, opts ...Option) (*Simulator, error) {
	return New(file.NewSource(path), opts...)
}

// LoadString creates a Simulator from configuration text.
func LoadString(name, text string, opts ...Option) (*Simulator, error) {
	return New(memory.NewSource(name, text), opts...)
}

// New creates a Simulator and loads the configuration from source.
func New(source ports.ConfigSource, opts ...Option) (*Simulator, error) {
	s := newSimulator(source, opts...)

	prog, text, err := s.read()
	if err != nil {
		return nil, err
	}
	s.config = text
	s.engine.Load(prog)
	return s, nil
}

// Restore rebuilds a Simulator from a snapshot taken with Snapshot.
// The snapshot must carry its configuration text so that Reset keeps working.
func Restore(snap *domain.Snapshot, opts ...Option) (*Simulator, error) {
	if snap.Blank != 0 {
		// Full slice expression: never write into the caller's backing array.
		opts = append(opts[:len(opts):len(opts)], WithBlank(snap.Blank))
	}
	s := newSimulator(memory.NewSource(snap.Source, snap.Config), opts...)

	prog, text, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("failed to reload snapshot configuration: %w", err)
	}
	s.config = text
	if err := s.engine.Restore(prog, snap); err != nil {
		return nil, err
	}
	return s, nil
}

func newSimulator(source ports.ConfigSource, opts ...Option) *Simulator {
	s := &Simulator{
		source: source,
		parser: compiler.NewParser(),
		blank:  domain.DefaultBlank,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logging.NewNop()
	}
	s.logger = s.logger.With("source", source.Name())

	s.engine = runtime.NewEngine(
		runtime.WithBlank(s.blank),
		runtime.WithIndexedMatcher(s.indexed),
		runtime.WithLifecycleHooks(s.hooks),
		runtime.WithLogger(s.logger),
		runtime.WithSource(source.Name()),
	)
	return s
}

// read opens the source once and parses it, keeping a copy of the text.
func (s *Simulator) read() (*domain.Program, string, error) {
	rc, err := s.source.Open()
	if err != nil {
		return nil, "", &domain.ConfigError{Kind: domain.ConfigIo, Err: err}
	}
	defer rc.Close()

	var text strings.Builder
	prog, err := s.parser.Parse(io.TeeReader(rc, &text))
	if err != nil {
		return nil, "", err
	}
	return prog, text.String(), nil
}

// Reset reloads the configuration from the same source and replaces the machine
// wholesale (head back to 0). It is not an undo of individual steps.
// If the reload fails, the current machine is left untouched.
func (s *Simulator) Reset() error {
	prog, text, err := s.read()
	if err != nil {
		s.logger.Warn("Reset failed", "err", err)
		return err
	}
	s.config = text
	s.engine.Reload(prog)
	return nil
}

// Step applies one transition. See runtime.Engine.Step for the error contract.
func (s *Simulator) Step() error {
	return s.engine.Step()
}

// Run steps until the machine halts, has no applicable rule, reaches maxSteps
// (maxSteps <= 0 means no bound) or ctx is done.
func (s *Simulator) Run(ctx context.Context, maxSteps int) (int, error) {
	return s.engine.Run(ctx, maxSteps)
}

// IsHalted reports whether the current state equals the halt state.
func (s *Simulator) IsHalted() bool { return s.engine.IsHalted() }

// State returns the current state name.
func (s *Simulator) State() string { return s.engine.State() }

// HaltState returns the halt state name.
func (s *Simulator) HaltState() string { return s.engine.HaltState() }

// Tape returns a copy of the tape.
func (s *Simulator) Tape() []domain.Symbol { return s.engine.Tape() }

// Head returns the head position.
func (s *Simulator) Head() int { return s.engine.Head() }

// Steps returns the number of transitions applied since the last load or reset.
func (s *Simulator) Steps() int { return s.engine.Steps() }

// Instructions returns the instruction set in load order.
func (s *Simulator) Instructions() []domain.Instruction { return s.engine.Instructions() }

// Source returns the configuration source.
func (s *Simulator) Source() ports.ConfigSource { return s.source }

// Snapshot returns a read-only copy of the machine, including its configuration text.
func (s *Simulator) Snapshot() *domain.Snapshot {
	snap := s.engine.Snapshot()
	snap.Config = s.config
	return snap
}
