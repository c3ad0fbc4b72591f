package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/tms/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	CurrentState string
}

// GenerateMermaid produces a Mermaid flowchart of the state graph of prog.
// States become nodes, in order of first appearance, with semantic styling:
// - Initial state: ((Circle))
// - Halt state: (((Double circle)))
// - Default: [Rectangle]
// Each edge is labelled "read/write,move". Instructions shadowed by an earlier
// one with the same (state, symbol) pair are drawn dotted.
func GenerateMermaid(prog *domain.Program, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	ids := make(map[string]string)
	var order []string
	add := func(state string) {
		if _, ok := ids[state]; ok {
			return
		}
		ids[state] = fmt.Sprintf("s%d", len(order))
		order = append(order, state)
	}

	if prog.State != "" {
		add(prog.State)
	}
	for _, inst := range prog.Instructions {
		add(inst.CurrentState)
		add(inst.NewState)
	}
	if prog.HaltState != "" {
		add(prog.HaltState)
	}

	for _, state := range order {
		opener, closer := "[", "]"
		switch state {
		case prog.HaltState:
			opener, closer = "(((", ")))"
		case prog.State:
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", ids[state], opener, escapeLabel(state), closer))
	}

	type key struct {
		state  string
		symbol domain.Symbol
	}
	seen := make(map[key]bool)
	for _, inst := range prog.Instructions {
		k := key{inst.CurrentState, inst.CurrentSymbol}
		label := escapeLabel(fmt.Sprintf("%s/%s,%s",
			inst.CurrentSymbol, inst.NewSymbol, moveLabel(inst.Direction)))

		arrow := fmt.Sprintf("-- \"%s\" -->", label)
		if seen[k] {
			arrow = fmt.Sprintf("-. \"%s\" .->", label)
		}
		seen[k] = true
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", ids[inst.CurrentState], arrow, ids[inst.NewState]))
	}

	if overlay != nil && overlay.CurrentState != "" {
		if id, ok := ids[overlay.CurrentState]; ok {
			sb.WriteString("\n    %% Overlay Styles\n")
			// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
			sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")
			sb.WriteString(fmt.Sprintf("    class %s current;\n", id))
		}
	}

	return sb.String()
}

func moveLabel(d domain.Direction) string {
	switch d {
	case domain.Left:
		return "L"
	case domain.Right:
		return "R"
	}
	return "S"
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
