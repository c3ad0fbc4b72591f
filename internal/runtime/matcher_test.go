package runtime

import (
	"testing"

	"github.com/aretw0/tms/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestFind_FirstMatch(t *testing.T) {
	insts := []domain.Instruction{
		{CurrentState: "q0", CurrentSymbol: '0', NewState: "z"},
		{CurrentState: "q0", CurrentSymbol: '1', NewState: "first"},
		{CurrentState: "q0", CurrentSymbol: '1', NewState: "second"},
	}

	got, ok := Find("q0", '1', insts)
	assert.True(t, ok)
	assert.Equal(t, "first", got.NewState)

	_, ok = Find("q1", '1', insts)
	assert.False(t, ok)

	_, ok = Find("q0", '1', nil)
	assert.False(t, ok)
}

func TestIndex_AgreesWithFind(t *testing.T) {
	insts := []domain.Instruction{
		{CurrentState: "a", CurrentSymbol: 'x', NewState: "1"},
		{CurrentState: "a", CurrentSymbol: 'y', NewState: "2"},
		{CurrentState: "a", CurrentSymbol: 'x', NewState: "3"},
		{CurrentState: "b", CurrentSymbol: 'x', NewState: "4"},
	}
	idx := NewIndex(insts)
	assert.Equal(t, 3, idx.Len())

	for _, state := range []string{"a", "b", "c"} {
		for _, sym := range []domain.Symbol{'x', 'y', 'z'} {
			want, wantOK := Find(state, sym, insts)
			got, gotOK := idx.Match(state, sym)
			assert.Equal(t, wantOK, gotOK, "%s/%c", state, sym)
			assert.Equal(t, want, got, "%s/%c", state, sym)
		}
	}
}
