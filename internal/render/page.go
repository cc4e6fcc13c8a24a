package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

// Heading renders a document title. An empty title renders as "".
func Heading(ctx Context, title string) string {
	if title == "" {
		return ""
	}
	if ctx.Styles == nil {
		ctx.Styles = styles.Default()
	}
	style := ctx.Styles.Title
	if ctx.Width > 0 {
		style = style.MaxWidth(ctx.Width)
	}
	return style.Render(title)
}

// Page renders title above the tree. A document without a root element
// renders only its title.
func (t *Tree) Page(ctx Context, title string) string {
	if ctx.Styles == nil {
		ctx.Styles = t.styles
	}
	heading := Heading(ctx, title)
	body := t.Render(ctx)
	switch {
	case body == "":
		return heading
	case heading == "":
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, heading, body)
}
