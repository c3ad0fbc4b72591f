package runtime_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/tms/internal/compiler"
	"github.com/aretw0/tms/internal/runtime"
	"github.com/aretw0/tms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, cfg string) *domain.Program {
	t.Helper()
	prog, err := compiler.NewParser().Parse(strings.NewReader(cfg))
	require.NoError(t, err)
	return prog
}

func newEngine(t *testing.T, cfg string, opts ...runtime.EngineOption) *runtime.Engine {
	t.Helper()
	e := runtime.NewEngine(opts...)
	e.Load(mustParse(t, cfg))
	return e
}

func TestEngine_Step_WriteAndMove(t *testing.T) {
	e := newEngine(t, "q0 101\nqH\nq0 1 q0 0 right\n")

	require.NoError(t, e.Step())

	assert.Equal(t, "001", domain.TapeString(e.Tape()))
	assert.Equal(t, 1, e.Head())
	assert.Equal(t, "q0", e.State())
	assert.Equal(t, 1, e.Steps())
}

func TestEngine_Step_FirstMatchWins(t *testing.T) {
	cfg := `q0 1
qH
q0 1 qA x stay
q0 1 qB y stay
`
	for _, indexed := range []bool{false, true} {
		e := newEngine(t, cfg, runtime.WithIndexedMatcher(indexed))
		require.NoError(t, e.Step())
		assert.Equal(t, "qA", e.State(), "indexed=%v", indexed)
		assert.Equal(t, "x", domain.TapeString(e.Tape()), "indexed=%v", indexed)
	}
}

func TestEngine_HaltDetection(t *testing.T) {
	// Reaches qH in 3 steps; nothing matches afterwards.
	cfg := `q0 110
qH
q0 1 q0 1 right
q0 0 qH 0 stay
`
	e := newEngine(t, cfg)
	assert.False(t, e.IsHalted())

	for i := 0; i < 3; i++ {
		require.NoError(t, e.Step())
	}
	assert.True(t, e.IsHalted())
	before := e.Snapshot()

	err := e.Step()
	assert.ErrorIs(t, err, domain.ErrNoMatchingInstruction)
	assert.Equal(t, before, e.Snapshot(), "a step without a rule must not change the machine")
}

func TestEngine_NoMatch_NoStateChange(t *testing.T) {
	e := newEngine(t, "q0 ab\nqH\nq0 b q1 c left\n")
	before := e.Snapshot()

	err := e.Step()

	var stepErr *domain.StepError
	require.True(t, errors.As(err, &stepErr))
	assert.Equal(t, domain.StepNoMatchingInstruction, stepErr.Kind)
	assert.Equal(t, domain.Symbol('a'), stepErr.Symbol)
	assert.False(t, domain.IsFatal(err))
	assert.Equal(t, before, e.Snapshot())
}

func TestEngine_Underflow(t *testing.T) {
	e := newEngine(t, "q0 1\nqH\nq0 1 q1 0 left\n")

	err := e.Step()

	assert.ErrorIs(t, err, domain.ErrTapeUnderflow)
	assert.True(t, domain.IsFatal(err))
	assert.Equal(t, 0, e.Head())
	assert.Equal(t, "q0", e.State(), "rejected step must not change state")
	assert.Equal(t, "1", domain.TapeString(e.Tape()), "rejected step must not write")
	assert.Equal(t, 0, e.Steps())
}

func TestEngine_MoveLeft(t *testing.T) {
	e := newEngine(t, "q0 ab\nqH\nq0 a q0 a right\nq0 b qH c left\n")
	require.NoError(t, e.Step())
	require.NoError(t, e.Step())
	assert.Equal(t, 0, e.Head())
	assert.Equal(t, "ac", domain.TapeString(e.Tape()))
	assert.True(t, e.IsHalted())
}

func TestEngine_OverflowExtendsWithBlank(t *testing.T) {
	cfg := "q0 11\nqH\nq0 1 q0 1 right\nq0 _ qH _ stay\n"
	e := newEngine(t, cfg)

	require.NoError(t, e.Step())
	assert.Equal(t, 1, e.Head())
	assert.Len(t, e.Tape(), 2, "no growth before the boundary")

	// Head at the last index: moving right appends exactly one blank.
	require.NoError(t, e.Step())
	assert.Equal(t, 2, e.Head())
	assert.Equal(t, "11_", domain.TapeString(e.Tape()))

	require.NoError(t, e.Step())
	assert.True(t, e.IsHalted())
}

func TestEngine_CustomBlank(t *testing.T) {
	e := newEngine(t, "q0 1\nqH\nq0 1 qH 1 right\n", runtime.WithBlank('0'))
	require.NoError(t, e.Step())
	assert.Equal(t, "10", domain.TapeString(e.Tape()))
	assert.Equal(t, domain.Symbol('0'), e.Snapshot().Blank)
}

func TestEngine_EmptyTape(t *testing.T) {
	e := newEngine(t, "")

	err := e.Step()
	assert.ErrorIs(t, err, domain.ErrEmptyTape)
	assert.True(t, domain.IsFatal(err))
}

func TestEngine_EmptyHaltState(t *testing.T) {
	// Nothing loaded: empty state equals empty halt state.
	e := newEngine(t, "# nothing\n")
	assert.True(t, e.IsHalted())

	// An initial state but no halt line: never halted, stuck once rules run out.
	e = newEngine(t, "q0 1\nq0 1 q1 1 stay\n")
	assert.False(t, e.IsHalted())
	require.NoError(t, e.Step())
	assert.False(t, e.IsHalted())
	assert.ErrorIs(t, e.Step(), domain.ErrNoMatchingInstruction)
}

func TestEngine_LoadReplacesEverything(t *testing.T) {
	e := newEngine(t, "q0 111\nqH\nq0 1 q0 0 right\n")
	require.NoError(t, e.Step())

	e.Load(mustParse(t, "a x\nb\n"))

	assert.Equal(t, "a", e.State())
	assert.Equal(t, "b", e.HaltState())
	assert.Equal(t, "x", domain.TapeString(e.Tape()))
	assert.Equal(t, 0, e.Head())
	assert.Equal(t, 0, e.Steps())
	assert.Empty(t, e.Instructions())
}

func TestEngine_AccessorsReturnCopies(t *testing.T) {
	e := newEngine(t, "q0 1\nqH\nq0 1 qH 0 stay\n")

	tape := e.Tape()
	tape[0] = 'z'
	insts := e.Instructions()
	insts[0].NewState = "hacked"

	assert.Equal(t, "1", domain.TapeString(e.Tape()))
	assert.Equal(t, "qH", e.Instructions()[0].NewState)
}

func TestEngine_LoadDoesNotAliasProgram(t *testing.T) {
	prog := mustParse(t, "q0 1\nqH\nq0 1 qH 0 stay\n")
	e := runtime.NewEngine()
	e.Load(prog)
	require.NoError(t, e.Step())

	assert.Equal(t, "1", domain.TapeString(prog.Tape))
}

func TestEngine_Run(t *testing.T) {
	cfg := "q0 1011\nqH\nq0 1 q0 0 right\nq0 0 qH 1 stay\n"

	t.Run("halts", func(t *testing.T) {
		e := newEngine(t, cfg)
		n, err := e.Run(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.True(t, e.IsHalted())
		assert.Equal(t, "0111", domain.TapeString(e.Tape()))
	})

	t.Run("step limit", func(t *testing.T) {
		e := newEngine(t, "q0 1\nqH\nq0 1 q0 1 stay\n")
		n, err := e.Run(context.Background(), 5)
		assert.ErrorIs(t, err, domain.ErrStepLimit)
		assert.Equal(t, 5, n)
	})

	t.Run("stuck", func(t *testing.T) {
		e := newEngine(t, "q0 1\nqH\n")
		_, err := e.Run(context.Background(), 10)
		assert.ErrorIs(t, err, domain.ErrNoMatchingInstruction)
	})

	t.Run("canceled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e := newEngine(t, "q0 1\nqH\nq0 1 q0 1 stay\n")
		n, err := e.Run(ctx, 0)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, n)
	})
}

func TestEngine_Restore(t *testing.T) {
	cfg := "q0 1011\nqH\nq0 1 q0 0 right\nq0 0 qH 1 stay\n"
	e := newEngine(t, cfg)
	require.NoError(t, e.Step())
	snap := e.Snapshot()

	restored := runtime.NewEngine()
	require.NoError(t, restored.Restore(mustParse(t, cfg), snap))
	assert.Equal(t, snap, restored.Snapshot())

	snap.Head = 9
	assert.Error(t, restored.Restore(mustParse(t, cfg), snap))
}
