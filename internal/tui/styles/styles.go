// Package styles holds the lipgloss styles tiles and screen chrome are
// drawn with, computed from a Palette.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/tileboard/internal/element"
)

// Styles is a computed style set. Build one with New; the zero value is
// not usable.
type Styles struct {
	palette Palette

	Title lipgloss.Style

	TileTitle     lipgloss.Style
	ImageAlt      lipgloss.Style
	ImageLink     lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	HelpBar    lipgloss.Style
	HelpKey    lipgloss.Style
	Spinner    lipgloss.Style
	ErrorTitle lipgloss.Style
	ErrorMsg   lipgloss.Style
	Muted      lipgloss.Style
}

// New computes the style set for p.
func New(p Palette) *Styles {
	return &Styles{
		palette: p,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent).
			MarginBottom(1),

		TileTitle: lipgloss.NewStyle().Bold(true),

		ImageAlt: lipgloss.NewStyle().
			Italic(true).
			Foreground(p.Muted),

		ImageLink: lipgloss.NewStyle().
			Foreground(p.Accent).
			Underline(true),

		Button: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Foreground(p.Accent).
			Padding(0, 2),

		HelpBar: lipgloss.NewStyle().
			Foreground(p.Muted).
			MarginTop(1),

		HelpKey: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),

		Spinner: lipgloss.NewStyle().Foreground(p.Accent),

		ErrorTitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Error),

		ErrorMsg: lipgloss.NewStyle().Foreground(p.Error),

		Muted: lipgloss.NewStyle().Foreground(p.Muted),
	}
}

// Default returns the style set for DefaultPalette.
func Default() *Styles {
	return New(DefaultPalette())
}

// Palette returns the palette the styles were computed from.
func (s *Styles) Palette() Palette {
	return s.palette
}

// TextTile returns the box style for a text tile of color c.
func (s *Styles) TextTile(c element.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Background(s.palette.Background(c)).
		Foreground(s.palette.Foreground(c)).
		Padding(1)
}

// ImageTile returns the box style for an image tile.
func (s *Styles) ImageTile() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.palette.Border).
		Padding(0, 1)
}
