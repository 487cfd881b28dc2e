package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders markdown for the terminal.
type MarkdownRenderer interface {
	Render(markdown string) (string, error)
}

// NewGlamourRenderer creates a glamour renderer. Style "auto" (or "") picks
// light or dark from the terminal background; anything else names a glamour
// standard style such as "dark", "light" or "notty".
func NewGlamourRenderer(style string, width int) (*glamour.TermRenderer, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	return glamour.NewTermRenderer(opts...)
}

// RenderMarkdown renders content, falling back to the raw text when the
// renderer is missing or fails.
func RenderMarkdown(content string, renderer MarkdownRenderer) string {
	if renderer == nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n") + "\n"
}
