package tui

import (
	"github.com/charmbracelet/glamour"
)

// Renderer turns markdown into terminal output.
type Renderer func(string) (string, error)

// NewRenderer returns a function that renders markdown using glamour.
// With plain set, or when glamour cannot start, markdown passes through
// untouched.
func NewRenderer(plain bool) Renderer {
	if plain {
		return passthrough
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return passthrough
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

func passthrough(markdown string) (string, error) {
	return markdown, nil
}
