package styles

import (
	"fmt"
	"regexp"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/tileboard/internal/element"
)

// Palette is the set of colors tiles and chrome are drawn with.
type Palette struct {
	// Tile backgrounds, selected by a text tile's color field.
	Dark  lipgloss.Color
	Mid   lipgloss.Color
	Light lipgloss.Color

	// Text drawn on dark and mid backgrounds, and on light ones.
	OnDark  lipgloss.Color
	OnLight lipgloss.Color

	Accent lipgloss.Color // title, focused button
	Muted  lipgloss.Color
	Error  lipgloss.Color
	Border lipgloss.Color
}

// DefaultPalette returns the built-in palette.
func DefaultPalette() Palette {
	return Palette{
		Dark:    lipgloss.Color("#1b1c2e"),
		Mid:     lipgloss.Color("#242538"),
		Light:   lipgloss.Color("#f0f0f5"),
		OnDark:  lipgloss.Color("#f9fafb"),
		OnLight: lipgloss.Color("#1b1c2e"),
		Accent:  lipgloss.Color("#a78bfa"),
		Muted:   lipgloss.Color("#9ca3af"),
		Error:   lipgloss.Color("#f87171"),
		Border:  lipgloss.Color("#6b7280"),
	}
}

// Background returns the tile background for c. Absent or unrecognized
// colors fall back to dark.
func (p Palette) Background(c element.Color) lipgloss.Color {
	switch c {
	case element.ColorMid:
		return p.Mid
	case element.ColorLight:
		return p.Light
	default:
		return p.Dark
	}
}

// Foreground returns the text color readable on Background(c).
func (p Palette) Foreground(c element.Color) lipgloss.Color {
	if c == element.ColorLight {
		return p.OnLight
	}
	return p.OnDark
}

// Overrides replaces tile backgrounds. Empty fields keep the current color.
type Overrides struct {
	Dark  string
	Mid   string
	Light string
}

// WithOverrides returns a copy of p with the non-empty overrides applied.
func (p Palette) WithOverrides(o Overrides) (Palette, error) {
	for name, c := range map[string]string{"dark": o.Dark, "mid": o.Mid, "light": o.Light} {
		if c != "" && !IsHexColor(c) {
			return p, fmt.Errorf("palette color %q has invalid format: %s (expected #RGB or #RRGGBB)", name, c)
		}
	}
	p.Dark = colorOr(o.Dark, p.Dark)
	p.Mid = colorOr(o.Mid, p.Mid)
	p.Light = colorOr(o.Light, p.Light)
	return p, nil
}

func colorOr(c string, fallback lipgloss.Color) lipgloss.Color {
	if c != "" {
		return lipgloss.Color(c)
	}
	return fallback
}

var hexColorRegex = regexp.MustCompile(`^#([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// IsHexColor reports whether s is a #RGB or #RRGGBB color.
func IsHexColor(s string) bool {
	return hexColorRegex.MatchString(s)
}
