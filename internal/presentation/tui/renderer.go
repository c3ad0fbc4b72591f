package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/tms/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// If the terminal renderer cannot be built, markdown is returned unchanged.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) {
			return markdown, nil
		}
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// InfoMarkdown describes a machine: its states, tape, head position and the
// numbered instruction list in load order.
func InfoMarkdown(snap *domain.Snapshot) string {
	var sb strings.Builder

	title := snap.Source
	if title == "" {
		title = "machine"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)
	fmt.Fprintf(&sb, "- **State:** `%s`\n", snap.State)
	fmt.Fprintf(&sb, "- **Halt state:** `%s`\n", snap.HaltState)
	fmt.Fprintf(&sb, "- **Tape:** `%s`\n", snap.Tape)
	fmt.Fprintf(&sb, "- **Head:** %d\n", snap.Head)
	fmt.Fprintf(&sb, "- **Steps:** %d\n", snap.Steps)
	fmt.Fprintf(&sb, "- **Halted:** %t\n\n", snap.Halted)

	fmt.Fprintf(&sb, "## Instructions (%d)\n\n", len(snap.Instructions))
	if len(snap.Instructions) == 0 {
		sb.WriteString("_No instructions._\n")
		return sb.String()
	}

	sb.WriteString("| # | State | Read | Next | Write | Move |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for i, inst := range snap.Instructions {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s |\n",
			i+1,
			cell(inst.CurrentState),
			cell(inst.CurrentSymbol.String()),
			cell(inst.NewState),
			cell(inst.NewSymbol.String()),
			inst.Direction,
		)
	}
	return sb.String()
}

// cell quotes a value as inline code, escaping the table separator.
func cell(s string) string {
	return "`" + strings.ReplaceAll(s, "|", "\\|") + "`"
}
