package tui

import (
	"strings"

	"github.com/aretw0/tms/pkg/domain"
	"github.com/muesli/termenv"
)

// NewTapeRenderer renders a tape line with the cell under the head highlighted.
// With the Ascii profile the tape is printed as-is, which keeps piped output
// identical to the plain renderer.
func NewTapeRenderer(p termenv.Profile) func(*domain.Snapshot) string {
	return func(snap *domain.Snapshot) string {
		if p == termenv.Ascii {
			return snap.Tape
		}
		return HighlightHead(p, snap.Tape, snap.Head)
	}
}

// HighlightHead returns tape with the cell at head in reverse video.
func HighlightHead(p termenv.Profile, tape string, head int) string {
	cells := []rune(tape)
	if head < 0 || head >= len(cells) {
		return tape
	}

	var sb strings.Builder
	sb.WriteString(string(cells[:head]))
	sb.WriteString(termenv.String(string(cells[head])).Reverse().Bold().Foreground(p.Color("#facc15")).String())
	sb.WriteString(string(cells[head+1:]))
	return sb.String()
}
