package domain_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/aretw0/tms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestConfigError_Is(t *testing.T) {
	tests := []struct {
		kind     domain.ConfigErrorKind
		sentinel error
	}{
		{domain.ConfigIo, domain.ErrIo},
		{domain.ConfigMalformedLine, domain.ErrMalformedLine},
		{domain.ConfigInvalidDirection, domain.ErrInvalidDirection},
		{domain.ConfigMalformedSymbol, domain.ErrMalformedSymbol},
	}

	for _, tt := range tests {
		t.Run(tt.sentinel.Error(), func(t *testing.T) {
			err := fmt.Errorf("load: %w", &domain.ConfigError{Kind: tt.kind, Line: 3, Content: "bad"})
			assert.ErrorIs(t, err, tt.sentinel)

			var cfgErr *domain.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, 3, cfgErr.Line)
		})
	}
}

func TestConfigError_Message(t *testing.T) {
	err := &domain.ConfigError{Kind: domain.ConfigMalformedLine, Line: 2, Content: "a b c"}
	assert.Equal(t, `line 2: malformed line: "a b c"`, err.Error())

	ioErr := &domain.ConfigError{Kind: domain.ConfigIo, Err: os.ErrPermission}
	assert.ErrorIs(t, ioErr, domain.ErrIo)
	assert.ErrorIs(t, ioErr, os.ErrPermission)
	assert.Contains(t, ioErr.Error(), "permission denied")
}

func TestStepError_IsFatal(t *testing.T) {
	empty := &domain.StepError{Kind: domain.StepEmptyTape, State: "q0"}
	underflow := &domain.StepError{Kind: domain.StepTapeUnderflow, State: "q0"}
	noMatch := &domain.StepError{Kind: domain.StepNoMatchingInstruction, State: "q0", Symbol: '1', Head: 2}

	assert.ErrorIs(t, empty, domain.ErrEmptyTape)
	assert.ErrorIs(t, underflow, domain.ErrTapeUnderflow)
	assert.ErrorIs(t, noMatch, domain.ErrNoMatchingInstruction)
	assert.NotErrorIs(t, noMatch, domain.ErrTapeUnderflow)

	assert.True(t, domain.IsFatal(empty))
	assert.True(t, domain.IsFatal(fmt.Errorf("step: %w", underflow)))
	assert.False(t, domain.IsFatal(noMatch))
	assert.False(t, domain.IsFatal(domain.ErrStepLimit))
	assert.False(t, domain.IsFatal(nil))

	assert.Equal(t, `no matching instruction for state "q0" and symbol "1" at cell 2`, noMatch.Error())
}

func TestDirection(t *testing.T) {
	for _, lit := range []string{"left", "right", "stay"} {
		d, ok := domain.ParseDirection(lit)
		require.True(t, ok, lit)
		assert.Equal(t, lit, d.String())
	}

	_, ok := domain.ParseDirection("Left")
	assert.False(t, ok, "literals are case sensitive")

	var d domain.Direction
	assert.Error(t, d.UnmarshalText([]byte("up")))
	assert.Equal(t, "direction(9)", domain.Direction(9).String())
}

func TestSymbol_Text(t *testing.T) {
	var s domain.Symbol
	require.NoError(t, s.UnmarshalText([]byte("é")))
	assert.Equal(t, domain.Symbol('é'), s)
	assert.Error(t, s.UnmarshalText([]byte("ab")))
	assert.Error(t, s.UnmarshalText(nil))

	tape := domain.ParseTape("1_é")
	assert.Len(t, tape, 3)
	assert.Equal(t, "1_é", domain.TapeString(tape))
}

func TestInstruction_Encoding(t *testing.T) {
	in := domain.Instruction{CurrentState: "q0", CurrentSymbol: '1', NewState: "qH", NewSymbol: '0', Direction: domain.Right}

	assert.True(t, in.Matches("q0", '1'))
	assert.False(t, in.Matches("q0", '0'))
	assert.Equal(t, "q0 1 qH 0 right", in.String())

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t, `{"current_state":"q0","current_symbol":"1","new_state":"qH","new_symbol":"0","direction":"right"}`, string(data))

	out, err := yaml.Marshal(in)
	require.NoError(t, err)
	var back domain.Instruction
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, in, back)
}

func TestProgram_Clone(t *testing.T) {
	p := &domain.Program{State: "q0", Tape: domain.ParseTape("10"), Instructions: []domain.Instruction{{CurrentState: "q0"}}}
	c := p.Clone()
	c.Tape[0] = '0'
	c.Instructions[0].CurrentState = "x"

	assert.Equal(t, domain.Symbol('1'), p.Tape[0])
	assert.Equal(t, "q0", p.Instructions[0].CurrentState)
	assert.Nil(t, (*domain.Program)(nil).Clone())
}

func TestSnapshot_Symbol(t *testing.T) {
	snap := &domain.Snapshot{Tape: "1é", Head: 1}
	sym, ok := snap.Symbol()
	require.True(t, ok)
	assert.Equal(t, domain.Symbol('é'), sym)

	_, ok = (&domain.Snapshot{}).Symbol()
	assert.False(t, ok)
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{
		OnStep: func(*domain.StepEvent) { calls = append(calls, "a") },
	}
	b := domain.LifecycleHooks{
		OnStep:  func(*domain.StepEvent) { calls = append(calls, "b") },
		OnError: func(e *domain.ErrorEvent) { calls = append(calls, "err:"+e.Err.Error()) },
	}

	merged := a.Merge(b)
	require.NotNil(t, merged.OnStep)
	assert.Nil(t, merged.OnLoad)
	assert.Nil(t, merged.OnHalt)

	merged.OnStep(&domain.StepEvent{})
	merged.OnError(&domain.ErrorEvent{Err: errors.New("boom")})
	assert.Equal(t, []string{"a", "b", "err:boom"}, calls)
}
