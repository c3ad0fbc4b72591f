package tms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aretw0/tms/pkg/domain"
)

// DefaultMaxSteps bounds batch runs so that non-halting machines terminate.
const DefaultMaxSteps = 10000

// TapeRenderer turns a snapshot into one line of output.
// This allows for colored terminal output without coupling the core package.
type TapeRenderer func(*domain.Snapshot) string

// PlainTape renders the tape as-is.
func PlainTape(snap *domain.Snapshot) string {
	return snap.Tape
}

// Result summarizes a batch run.
type Result struct {
	Steps  int
	Halted bool
	// Stuck is set when the run ended because no instruction matched
	// before the halt state was reached.
	Stuck bool
	// Final is the machine after the last applied step.
	Final *domain.Snapshot
}

// Runner drives a Simulator non-interactively: it prints the tape once before
// the first step and once after every step, until the machine halts.
type Runner struct {
	Output   io.Writer
	Render   TapeRenderer
	MaxSteps int
	Delay    time.Duration
}

// NewRunner creates a Runner writing plain tapes to w.
func NewRunner(w io.Writer) *Runner {
	return &Runner{
		Output:   w,
		Render:   PlainTape,
		MaxSteps: DefaultMaxSteps,
	}
}

// Run executes the loop. NoMatchingInstruction ends the run as an implicit halt
// (Result.Stuck); EmptyTape and TapeUnderflow are returned as errors.
func (r *Runner) Run(ctx context.Context, sim *Simulator) (*Result, error) {
	render := r.Render
	if render == nil {
		render = PlainTape
	}
	res := &Result{}
	emit := func() error {
		snap := sim.Snapshot()
		res.Final = snap
		_, err := fmt.Fprintln(r.Output, render(snap))
		return err
	}

	if err := emit(); err != nil {
		return res, err
	}

	for !sim.IsHalted() {
		if r.MaxSteps > 0 && res.Steps >= r.MaxSteps {
			return res, fmt.Errorf("%w after %d steps (state %q)", domain.ErrStepLimit, res.Steps, sim.State())
		}
		if err := r.wait(ctx); err != nil {
			return res, err
		}

		if err := sim.Step(); err != nil {
			if errors.Is(err, domain.ErrNoMatchingInstruction) {
				res.Stuck = true
				return res, nil
			}
			return res, err
		}
		res.Steps++

		if err := emit(); err != nil {
			return res, err
		}
	}

	res.Halted = true
	return res, nil
}

func (r *Runner) wait(ctx context.Context) error {
	if r.Delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.Delay):
		return nil
	}
}
