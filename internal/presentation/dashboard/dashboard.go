package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jroimartin/gocui"
)

// DefaultTick is how often a running machine advances.
const DefaultTick = 250 * time.Millisecond

const commands = `r - run
p - pause
s - step
x - reset
q - quit`

// Dashboard is the interactive terminal front end of a Controller.
type Dashboard struct {
	ctrl *Controller
	tick time.Duration
}

// New creates a dashboard advancing running machines every tick.
func New(ctrl *Controller, tick time.Duration) *Dashboard {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Dashboard{ctrl: ctrl, tick: tick}
}

// Run takes over the terminal until the user quits or ctx is done.
func (d *Dashboard) Run(ctx context.Context) error {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return fmt.Errorf("could not create terminal UI: %w", err)
	}
	defer g.Close()

	g.SetManagerFunc(d.layout)
	if err := d.bindKeys(g); err != nil {
		return err
	}

	done := make(chan struct{})
	defer close(done)
	go d.poll(ctx, g, done)

	if err := g.MainLoop(); err != nil && !errors.Is(err, gocui.ErrQuit) {
		return err
	}
	return nil
}

// poll advances the machine on every tick. Views are only touched from the
// main loop, through Update.
func (d *Dashboard) poll(ctx context.Context, g *gocui.Gui, done <-chan struct{}) {
	ticker := time.NewTicker(d.tick)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			g.Update(quit)
			return
		case <-ticker.C:
			g.Update(func(g *gocui.Gui) error {
				d.ctrl.Tick()
				return d.draw(g)
			})
		}
	}
}

func (d *Dashboard) bindKeys(g *gocui.Gui) error {
	action := func(fn func()) func(*gocui.Gui, *gocui.View) error {
		return func(g *gocui.Gui, v *gocui.View) error {
			fn()
			return d.draw(g)
		}
	}

	bindings := []struct {
		key     interface{}
		handler func(*gocui.Gui, *gocui.View) error
	}{
		{'r', action(d.ctrl.Run)},
		{'p', action(d.ctrl.Pause)},
		{'s', action(d.ctrl.Step)},
		{'x', action(d.ctrl.Reset)},
		{'q', quitKey},
		{gocui.KeyCtrlC, quitKey},
	}
	for _, b := range bindings {
		if err := g.SetKeybinding("", b.key, gocui.ModNone, b.handler); err != nil {
			return err
		}
	}
	return nil
}

// gocui layout
func (d *Dashboard) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	split := maxX * 4 / 5

	created := false
	views := []struct {
		name, title    string
		x0, y0, x1, y1 int
	}{
		{"tape", "Tape", 0, 0, split - 1, 3},
		{"machine", "Machine", 0, 4, split - 1, 9},
		{"instructions", "Instructions", 0, 10, split - 1, maxY - 4},
		{"commands", "Commands", split, 0, maxX - 1, maxY - 4},
		{"status", "Status", 0, maxY - 3, maxX - 1, maxY - 1},
	}
	for _, spec := range views {
		v, err := g.SetView(spec.name, spec.x0, spec.y0, spec.x1, spec.y1)
		if err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
			v.Title = spec.title
			created = true
		}
	}

	if created {
		v, _ := g.View("commands")
		fmt.Fprint(v, commands)
		return d.draw(g)
	}
	return nil
}

func (d *Dashboard) draw(g *gocui.Gui) error {
	snap := d.ctrl.Snapshot()

	v, err := g.View("tape")
	if err != nil {
		return err
	}
	v.Clear()
	width, _ := v.Size()
	tape, caret := TapeLines(snap, width)
	fmt.Fprintln(v, tape)
	fmt.Fprint(v, caret)

	v, err = g.View("machine")
	if err != nil {
		return err
	}
	v.Clear()
	mode := "paused"
	if d.ctrl.Running() {
		mode = "running"
	}
	fmt.Fprintf(v, "State:      %s\n", snap.State)
	fmt.Fprintf(v, "Halt state: %s\n", snap.HaltState)
	fmt.Fprintf(v, "Head:       %d\n", snap.Head)
	fmt.Fprintf(v, "Steps:      %d (%s)", snap.Steps, mode)

	v, err = g.View("instructions")
	if err != nil {
		return err
	}
	v.Clear()
	current := CurrentInstruction(snap)
	for i, inst := range snap.Instructions {
		marker := "  "
		if i == current {
			marker = "> "
		}
		fmt.Fprintf(v, "%s%3d  %s\n", marker, i+1, inst)
	}

	v, err = g.View("status")
	if err != nil {
		return err
	}
	v.Clear()
	fmt.Fprint(v, d.ctrl.Status())
	return nil
}

func quit(g *gocui.Gui) error {
	return gocui.ErrQuit
}

func quitKey(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}
