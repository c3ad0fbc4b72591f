package runtime

import "github.com/aretw0/tms/pkg/domain"

// Matcher selects the instruction applicable to a (state, symbol) pair.
type Matcher interface {
	Match(state string, symbol domain.Symbol) (domain.Instruction, bool)
}

// Find scans instructions in order and returns the first one matching state and symbol.
func Find(state string, symbol domain.Symbol, instructions []domain.Instruction) (domain.Instruction, bool) {
	for _, inst := range instructions {
		if inst.Matches(state, symbol) {
			return inst, true
		}
	}
	return domain.Instruction{}, false
}

// linear is the default Matcher: O(n) per step, no setup cost.
type linear []domain.Instruction

func (l linear) Match(state string, symbol domain.Symbol) (domain.Instruction, bool) {
	return Find(state, symbol, l)
}

type key struct {
	state  string
	symbol domain.Symbol
}

// Index is a precomputed (state, symbol) lookup table.
// Duplicates keep the instruction loaded first, matching Find.
type Index struct {
	rules map[key]domain.Instruction
}

// NewIndex builds an Index by inserting instructions in load order.
func NewIndex(instructions []domain.Instruction) *Index {
	idx := &Index{rules: make(map[key]domain.Instruction, len(instructions))}
	for _, inst := range instructions {
		k := key{inst.CurrentState, inst.CurrentSymbol}
		if _, exists := idx.rules[k]; exists {
			continue
		}
		idx.rules[k] = inst
	}
	return idx
}

// Match implements Matcher.
func (idx *Index) Match(state string, symbol domain.Symbol) (domain.Instruction, bool) {
	inst, ok := idx.rules[key{state, symbol}]
	return inst, ok
}

// Len returns the number of distinct (state, symbol) pairs.
func (idx *Index) Len() int {
	return len(idx.rules)
}
