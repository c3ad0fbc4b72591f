package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/tms"
	"github.com/aretw0/tms/internal/presentation/dashboard"
	"github.com/aretw0/tms/internal/presentation/tui"
)

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Options
	MaxSteps    int
	Interactive bool
	Delay       time.Duration
	Quiet       bool
}

// Run handles the 'run' command, dispatching to the batch loop or the dashboard.
func Run(opts RunOptions) error {
	logger, closeLog, err := createLogger(opts.Debug, opts.LogFile)
	if err != nil {
		return err
	}
	defer closeLog()

	sim, err := opts.load(logger)
	if err != nil {
		return err
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	if opts.Interactive {
		if !isTerminal(opts.Stdout) {
			return errors.New("--interactive needs a terminal on stdout")
		}
		tick := opts.Delay
		if tick <= 0 {
			tick = dashboard.DefaultTick
		}
		return dashboard.New(dashboard.NewController(sim), tick).Run(sigCtx)
	}

	return runBatch(sigCtx, sim, opts)
}

func runBatch(sigCtx *SignalContext, sim *tms.Simulator, opts RunOptions) error {
	profile := colorProfile(opts.Stdout)
	if !opts.Quiet && isTerminal(opts.Stdout) {
		tui.PrintBanner(opts.Stderr, tms.Version)
	}

	r := tms.NewRunner(opts.Stdout)
	r.Render = tui.NewTapeRenderer(profile)
	r.MaxSteps = opts.MaxSteps
	r.Delay = opts.Delay

	res, err := r.Run(sigCtx, sim)
	if err != nil {
		if sigCtx.Signal() != nil {
			if !opts.Quiet {
				printSystemMessage(opts.Stderr, "Interrupted in state %q after %d steps.", sim.State(), res.Steps)
			}
			return nil
		}
		return err
	}

	if opts.Quiet {
		return nil
	}
	switch {
	case res.Stuck:
		printSystemMessage(opts.Stderr, "No instruction for state %q and symbol %q: halted after %d steps.",
			sim.State(), currentSymbol(sim), res.Steps)
	case res.Halted:
		printSystemMessage(opts.Stderr, "Halted in state %q after %d steps.", sim.State(), res.Steps)
	}
	return nil
}

func currentSymbol(sim *tms.Simulator) string {
	sym, ok := sim.Snapshot().Symbol()
	if !ok {
		return ""
	}
	return fmt.Sprint(sym)
}
