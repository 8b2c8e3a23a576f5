// Package markdown renders finished model responses as styled terminal
// text via glamour.
package markdown

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

const defaultWidth = 100

var base = newRenderer(defaultWidth)

// The chat viewport re-renders the whole transcript on every refresh, so
// the width-constrained renderer is cached until the width changes.
var (
	sized      *glamour.TermRenderer
	sizedWidth int
)

func newRenderer(width int) *glamour.TermRenderer {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil
	}
	return r
}

// Render converts markdown to styled ANSI output at the default width.
// Falls back to the raw text if the renderer is unavailable.
func Render(md string) string {
	return renderWith(base, md)
}

// RenderWidth renders word-wrapped to the given width. Non-positive
// widths fall back to Render.
func RenderWidth(md string, width int) string {
	if width <= 0 {
		return Render(md)
	}
	if sized == nil || sizedWidth != width {
		sized = newRenderer(width)
		sizedWidth = width
	}
	return renderWith(sized, md)
}

func renderWith(r *glamour.TermRenderer, md string) string {
	if r == nil || strings.TrimSpace(md) == "" {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	// glamour adds trailing newlines; trim for inline display.
	return strings.TrimRight(out, "\n")
}
