package dashboard

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tms"
	"github.com/aretw0/tms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flipper = `q0 10
qH
q0 1 q0 0 right
q0 0 q0 1 right
q0 _ qH _ stay
`

func newController(t *testing.T, config string) *Controller {
	t.Helper()
	sim, err := tms.LoadString("test", config)
	require.NoError(t, err)
	return NewController(sim)
}

func TestController_TickOnlyWhenRunning(t *testing.T) {
	c := newController(t, flipper)

	assert.False(t, c.Tick())
	assert.Equal(t, 0, c.Snapshot().Steps)

	c.Run()
	assert.True(t, c.Running())
	assert.True(t, c.Tick())
	assert.True(t, c.Tick())
	assert.Equal(t, 2, c.Snapshot().Steps)

	c.Pause()
	assert.False(t, c.Tick())
	assert.Equal(t, 2, c.Snapshot().Steps)
}

func TestController_RunUntilHalt(t *testing.T) {
	c := newController(t, flipper)
	c.Run()
	for c.Tick() {
	}

	assert.False(t, c.Running())
	assert.True(t, c.Snapshot().Halted)
	assert.Contains(t, c.Status(), `Halted in "qH" after 3 steps`)

	c.Run()
	assert.False(t, c.Running(), "a halted machine does not run")
}

func TestController_StepPauses(t *testing.T) {
	c := newController(t, flipper)
	c.Run()
	c.Step()

	assert.False(t, c.Running())
	assert.Equal(t, 1, c.Snapshot().Steps)
	assert.Equal(t, "Step 1.", c.Status())
}

func TestController_ErrorsGoToStatus(t *testing.T) {
	c := newController(t, "q0 1\nqH\nq0 1 q0 1 left\n")
	c.Run()
	assert.False(t, c.Tick())
	assert.False(t, c.Running())
	assert.Contains(t, c.Status(), domain.ErrTapeUnderflow.Error())

	c = newController(t, "q0 1\nqH\n")
	c.Step()
	assert.Contains(t, c.Status(), domain.ErrNoMatchingInstruction.Error())
}

func TestController_ResetRereadsSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "m.tms")
	require.NoError(t, os.WriteFile(path, []byte(flipper), 0644))
	sim, err := tms.Load(path)
	require.NoError(t, err)
	c := NewController(sim)

	c.Step()
	require.NoError(t, os.WriteFile(path, []byte("q0 111\nqH\n"), 0644))
	c.Reset()
	assert.Equal(t, "111", c.Snapshot().Tape)
	assert.Equal(t, 0, c.Snapshot().Steps)

	require.NoError(t, os.WriteFile(path, []byte("q0 1 q1 1 up\n"), 0644))
	c.Reset()
	assert.Contains(t, c.Status(), "Reset failed")
	assert.Equal(t, "111", c.Snapshot().Tape, "failed reset keeps the machine")
}

func TestTapeLines(t *testing.T) {
	tape, caret := TapeLines(&domain.Snapshot{Tape: "10110", Head: 2}, 10)
	assert.Equal(t, "10110", tape)
	assert.Equal(t, "  ^", caret)

	tape, caret = TapeLines(&domain.Snapshot{Tape: "0123456789", Head: 8}, 4)
	assert.Equal(t, "6789", tape)
	assert.Equal(t, "  ^", caret)

	tape, caret = TapeLines(&domain.Snapshot{}, 4)
	assert.Equal(t, "", tape)
	assert.Equal(t, "^", caret)
}

func TestCurrentInstruction(t *testing.T) {
	c := newController(t, flipper)
	assert.Equal(t, 0, CurrentInstruction(c.Snapshot()))

	c.Step()
	assert.Equal(t, 1, CurrentInstruction(c.Snapshot()))

	assert.Equal(t, -1, CurrentInstruction(&domain.Snapshot{State: "q0"}))
}
