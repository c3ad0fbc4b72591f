package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the TMS ASCII art banner and the version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// Teal to blue, one color per line
	lines := []struct{ text, color string }{
		{"  _____ __  __ ____  ", "#2dd4bf"},
		{" |_   _|  \\/  / ___| ", "#22d3ee"},
		{"   | | | |\\/| \\___ \\ ", "#38bdf8"},
		{"   | | | |  | |___) |", "#60a5fa"},
		{"   |_| |_|  |_|____/ ", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  Turing Machine Simulator "+version).Faint())
	fmt.Fprintln(w)
}
