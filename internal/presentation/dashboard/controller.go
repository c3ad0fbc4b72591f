package dashboard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/tms"
	"github.com/aretw0/tms/pkg/domain"
)

// Controller holds the interactive session: the machine, whether it is
// running and the last status message. It is driven from a single goroutine
// (the gocui main loop) and does no locking.
type Controller struct {
	sim     *tms.Simulator
	running bool
	status  string
}

// NewController wraps sim, paused.
func NewController(sim *tms.Simulator) *Controller {
	return &Controller{sim: sim, status: "Paused. Press r to run, s to step."}
}

// Running reports whether the machine advances on every tick.
func (c *Controller) Running() bool { return c.running }

// Status returns the status line.
func (c *Controller) Status() string { return c.status }

// Snapshot returns the current machine.
func (c *Controller) Snapshot() *domain.Snapshot { return c.sim.Snapshot() }

// Run lets the machine advance one step per tick.
func (c *Controller) Run() {
	if c.sim.IsHalted() {
		c.status = "Machine is halted. Press x to reset."
		return
	}
	c.running = true
	c.status = "Running."
}

// Pause stops the automatic advance.
func (c *Controller) Pause() {
	c.running = false
	c.status = "Paused."
}

// Step applies a single transition and pauses.
func (c *Controller) Step() {
	c.running = false
	c.advance()
}

// Reset reloads the configuration from its source and pauses.
// A failed reload keeps the current machine.
func (c *Controller) Reset() {
	c.running = false
	if err := c.sim.Reset(); err != nil {
		c.status = fmt.Sprintf("Reset failed: %v", err)
		return
	}
	c.status = "Reset from " + c.sim.Source().Name() + "."
}

// Tick advances a running machine by one step.
// It reports whether the machine changed.
func (c *Controller) Tick() bool {
	if !c.running {
		return false
	}
	return c.advance()
}

func (c *Controller) advance() bool {
	if c.sim.IsHalted() {
		c.running = false
		c.status = fmt.Sprintf("Halted in %q after %d steps.", c.sim.State(), c.sim.Steps())
		return false
	}

	err := c.sim.Step()
	switch {
	case errors.Is(err, domain.ErrNoMatchingInstruction):
		c.running = false
		c.status = fmt.Sprintf("Stopped: %v", err)
		return false
	case err != nil:
		c.running = false
		c.status = fmt.Sprintf("Error: %v", err)
		return false
	}

	if c.sim.IsHalted() {
		c.running = false
		c.status = fmt.Sprintf("Halted in %q after %d steps.", c.sim.State(), c.sim.Steps())
	} else if !c.running {
		c.status = fmt.Sprintf("Step %d.", c.sim.Steps())
	}
	return true
}

// TapeLines renders the tape with a caret under the head, scrolled so that the
// head stays visible in a view width cells wide.
func TapeLines(snap *domain.Snapshot, width int) (string, string) {
	cells := []rune(snap.Tape)
	if width <= 0 {
		width = len(cells)
	}

	start := 0
	if snap.Head >= width {
		start = snap.Head - width/2
	}
	end := start + width
	if end > len(cells) {
		end = len(cells)
	}
	if start > end {
		start = end
	}

	tape := string(cells[start:end])
	caret := strings.Repeat(" ", max(snap.Head-start, 0)) + "^"
	return tape, caret
}

// CurrentInstruction returns the index of the instruction the next step would
// apply, or -1 when none matches.
func CurrentInstruction(snap *domain.Snapshot) int {
	sym, ok := snap.Symbol()
	if !ok {
		return -1
	}
	for i, inst := range snap.Instructions {
		if inst.Matches(snap.State, sym) {
			return i
		}
	}
	return -1
}
