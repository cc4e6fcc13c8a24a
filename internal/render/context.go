package render

import (
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

// Context carries what a draw pass needs to know about its surroundings.
type Context struct {
	// Width is the available horizontal space in cells. Zero or less means
	// unconstrained: tiles take their natural width.
	Width int

	// Styles is the active style set.
	Styles *styles.Styles
}

// NewContext creates a Context of the given width with the default styles.
func NewContext(width int) Context {
	return Context{
		Width:  width,
		Styles: styles.Default(),
	}
}

// WithWidth returns a copy of the context with an updated width.
func (ctx Context) WithWidth(width int) Context {
	ctx.Width = width
	return ctx
}

// WithStyles returns a copy of the context with a different style set.
func (ctx Context) WithStyles(s *styles.Styles) Context {
	ctx.Styles = s
	return ctx
}

// inner returns the width left after frame cells of padding and border, or
// 0 when the context is unconstrained.
func (ctx Context) inner(frame int) int {
	if ctx.Width <= 0 {
		return 0
	}
	return max(ctx.Width-frame, 1)
}

// split divides total into n widths differing by at most one, wider first.
// A constrained total never yields an unconstrained share: when there are
// more regions than cells every region gets one.
func split(total, n int) []int {
	widths := make([]int, n)
	if n == 0 || total <= 0 {
		return widths
	}
	base, extra := total/n, total%n
	for i := range widths {
		widths[i] = max(base, 1)
		if i < extra {
			widths[i]++
		}
	}
	return widths
}
