package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/tms/pkg/domain"
)

// Severity ranks an Issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one finding about a program.
type Issue struct {
	Severity Severity `json:"severity" yaml:"severity"`
	// Instruction is the 1-based position of the instruction concerned, 0 if none.
	Instruction int    `json:"instruction,omitempty" yaml:"instruction,omitempty"`
	Message     string `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	if i.Instruction > 0 {
		return fmt.Sprintf("%s: instruction %d: %s", i.Severity, i.Instruction, i.Message)
	}
	return fmt.Sprintf("%s: %s", i.Severity, i.Message)
}

// Report lists the issues found in a program.
type Report struct {
	Issues []Issue `json:"issues" yaml:"issues"`
}

func (r *Report) add(sev Severity, inst int, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Severity: sev, Instruction: inst, Message: fmt.Sprintf(format, args...)})
}

// Errors returns the issues of error severity.
func (r *Report) Errors() []Issue {
	var errs []Issue
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			errs = append(errs, i)
		}
	}
	return errs
}

// Err summarizes the error issues, or returns nil when there are none.
func (r *Report) Err() error {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = e.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(errs), strings.Join(lines, "\n- "))
}

// Validate checks a loaded program for problems the loader accepts but that
// keep the machine from ever halting properly:
//   - a missing initial state, halt state or tape (errors);
//   - a halt state no instruction can reach (warning);
//   - states reached by no path from the initial state (warnings);
//   - instructions shadowed by an earlier one for the same (state, symbol) pair (warnings);
//   - instructions leaving the halt state, which never run (warnings).
func Validate(prog *domain.Program) *Report {
	r := &Report{}

	if prog.State == "" {
		r.add(SeverityError, 0, "missing initial state and tape line")
	} else if len(prog.Tape) == 0 {
		r.add(SeverityError, 0, "empty tape")
	}
	if prog.HaltState == "" {
		r.add(SeverityError, 0, "missing halt state line")
	}

	type key struct {
		state  string
		symbol domain.Symbol
	}
	first := make(map[key]int)
	edges := make(map[string][]string)
	for i, inst := range prog.Instructions {
		k := key{inst.CurrentState, inst.CurrentSymbol}
		if prev, ok := first[k]; ok {
			r.add(SeverityWarning, i+1, "shadowed by instruction %d for state %q and symbol %q",
				prev, inst.CurrentState, inst.CurrentSymbol.String())
			continue
		}
		first[k] = i + 1
		if prog.HaltState != "" && inst.CurrentState == prog.HaltState {
			r.add(SeverityWarning, i+1, "leaves halt state %q and never runs", prog.HaltState)
			continue
		}
		edges[inst.CurrentState] = append(edges[inst.CurrentState], inst.NewState)
	}

	if prog.State == "" {
		return r
	}

	// Crawler
	visited := make(map[string]bool)
	queue := []string{prog.State}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true
		for _, next := range edges[current] {
			if !visited[next] {
				queue = append(queue, next)
			}
		}
	}

	if prog.HaltState != "" && !visited[prog.HaltState] {
		r.add(SeverityWarning, 0, "halt state %q is unreachable from %q", prog.HaltState, prog.State)
	}

	reported := make(map[string]bool)
	for i, inst := range prog.Instructions {
		s := inst.CurrentState
		if visited[s] || reported[s] || s == prog.HaltState {
			continue
		}
		reported[s] = true
		r.add(SeverityWarning, i+1, "state %q is unreachable from %q", s, prog.State)
	}

	return r
}
