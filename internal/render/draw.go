package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/tileboard/internal/element"
)

// Render draws the mounted tree. Nodes whose output is cached for the same
// width and styles are not redrawn. An empty tree renders as "".
func (t *Tree) Render(ctx Context) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	if ctx.Styles == nil {
		ctx.Styles = t.styles
	}
	if t.root == nil {
		return ""
	}
	return t.draw(t.root, ctx)
}

func (t *Tree) draw(n *node, ctx Context) string {
	if n.live == nil {
		return ""
	}
	t.visit(n)

	if !n.dirty && n.width == ctx.Width && n.styles == ctx.Styles {
		return n.cache
	}

	d := &drawer{tree: t, node: n, ctx: ctx}
	n.live.Accept(d)

	n.cache = d.out
	n.width = ctx.Width
	n.styles = ctx.Styles
	n.dirty = false
	n.draws++
	return n.cache
}

// drawer renders one node's live element.
type drawer struct {
	tree *Tree
	node *node
	ctx  Context
	out  string
}

var _ element.Visitor = (*drawer)(nil)

func (d *drawer) VisitText(e *element.TextTile) {
	var lines []string
	if e.Title != "" {
		lines = append(lines, d.ctx.Styles.TileTitle.Render(e.Title))
	}
	if e.Text != "" {
		lines = append(lines, e.Text)
	}

	// lipgloss widths include padding, so the text keeps at least one cell
	style := d.ctx.Styles.TextTile(e.Color)
	pad := style.GetHorizontalPadding()
	if w := d.ctx.inner(pad); w > 0 {
		style = style.Width(w + pad)
	}
	d.out = style.Render(strings.Join(lines, "\n"))
}

func (d *drawer) VisitImage(e *element.ImageTile) {
	s := d.ctx.Styles
	style := s.ImageTile()
	frame := style.GetHorizontalFrameSize()
	w := d.ctx.inner(frame)

	var lines []string
	if e.Title != "" {
		lines = append(lines, s.ImageAlt.Render(e.Title))
	}
	if e.Source == "" {
		lines = append(lines, s.Muted.Render("(no source)"))
	} else {
		lines = append(lines, hyperlink(e.Source, s.ImageLink, w))
	}

	if w > 0 {
		style = style.Width(w + style.GetHorizontalPadding())
	}
	d.out = style.Render(strings.Join(lines, "\n"))
}

// hyperlink renders uri as an OSC 8 link whose visible text is cut to
// width cells.
func hyperlink(uri string, style lipgloss.Style, width int) string {
	label := uri
	if width > 0 {
		label = ansi.Truncate(uri, width, "…")
	}
	return ansi.SetHyperlink(uri) + style.Render(label) + ansi.ResetHyperlink()
}

func (d *drawer) VisitButton(e *element.ButtonTile) {
	style := d.ctx.Styles.Button
	if d.tree.focused == d.node {
		style = d.ctx.Styles.ButtonFocused
	}
	pad := style.GetHorizontalPadding()
	if w := d.ctx.inner(style.GetHorizontalBorderSize() + pad); w > 0 {
		style = style.Width(w + pad)
	}
	d.out = style.Render(e.Text)
}

func (d *drawer) VisitHorizontal(e *element.HorizontalSplitter) {
	regions := 0
	for _, child := range d.node.children {
		if renderable(child) {
			regions++
		}
	}

	widths := split(d.ctx.Width, regions)
	parts := make([]string, 0, regions)
	for _, child := range d.node.children {
		if !renderable(child) {
			// Still visited so a keyed unknown element gets registered.
			d.tree.draw(child, d.ctx.WithWidth(0))
			continue
		}
		w := widths[0]
		widths = widths[1:]
		if out := d.tree.draw(child, d.ctx.WithWidth(w)); out != "" {
			parts = append(parts, out)
		}
	}
	d.out = lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (d *drawer) VisitVertical(e *element.VerticalSplitter) {
	parts := make([]string, 0, len(d.node.children))
	for _, child := range d.node.children {
		if out := d.tree.draw(child, d.ctx); out != "" {
			parts = append(parts, out)
		}
	}
	d.out = lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (d *drawer) VisitUnknown(e *element.Unknown) {
	if e.Problem != nil {
		d.tree.logger.Debug("skipping element that failed to decode",
			"element_key", e.Key(),
			"type", string(e.Type()),
			"error", e.Problem.Error())
	} else {
		d.tree.logger.Debug("skipping element of unknown type",
			"element_key", e.Key(),
			"type", string(e.Type()))
	}
	d.out = ""
}

// renderable reports whether a child takes up a region when drawn.
func renderable(n *node) bool {
	if n.live == nil {
		return false
	}
	_, unknown := n.live.(*element.Unknown)
	return !unknown
}
