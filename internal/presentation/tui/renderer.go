package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// NewRenderer returns a function that renders markdown using glamour.
// Auto style picks light or dark based on the terminal background.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		// Fall back to passthrough when the terminal cannot be probed.
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether stdout is attached to a TTY. Rich rendering is
// skipped when output is piped.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
