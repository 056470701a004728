// Package tui holds the terminal presentation helpers of the CLI.
package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// PrintBanner writes the agentcore banner to w, colored for the terminal's profile.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                        _                       ", "#818cf8"},
		{"   __ _  __ _  ___ _ __ | |_ ___ ___  _ __ ___ ", "#a78bfa"},
		{"  / _` |/ _` |/ _ \\ '_ \\| __/ __/ _ \\| '__/ _ \\", "#c084fc"},
		{" | (_| | (_| |  __/ | | | || (_| (_) | | |  __/", "#e879f9"},
		{"  \\__,_|\\__, |\\___|_| |_|\\__\\___\\___/|_|  \\___|", "#f472b6"},
		{"        |___/                                   ", "#fb7185"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, termenv.String("  v"+version).Faint())
	fmt.Fprintln(w)
}
