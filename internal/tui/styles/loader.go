package styles

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// PaletteFile is a palette definition loaded from YAML. Colors left empty
// keep the value of the palette the file is applied to.
type PaletteFile struct {
	Name    string        `yaml:"name,omitempty"`
	Version string        `yaml:"version"`
	Colors  PaletteColors `yaml:"colors"`
}

// PaletteColors holds hex colors by role.
type PaletteColors struct {
	Dark    string `yaml:"dark,omitempty"`
	Mid     string `yaml:"mid,omitempty"`
	Light   string `yaml:"light,omitempty"`
	OnDark  string `yaml:"on_dark,omitempty"`
	OnLight string `yaml:"on_light,omitempty"`
	Accent  string `yaml:"accent,omitempty"`
	Muted   string `yaml:"muted,omitempty"`
	Error   string `yaml:"error,omitempty"`
	Border  string `yaml:"border,omitempty"`
}

// LoadPaletteFile reads and validates a palette file.
func LoadPaletteFile(path string) (*PaletteFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading palette file: %w", err)
	}

	var pf PaletteFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parsing palette file: %w", err)
	}

	if err := pf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid palette: %w", err)
	}
	return &pf, nil
}

// Validate checks the version and every non-empty color.
func (f *PaletteFile) Validate() error {
	if f.Version == "" {
		return errors.New("palette version is required")
	}
	if f.Version != "1" {
		return fmt.Errorf("unsupported palette version: %s (supported: 1)", f.Version)
	}

	for _, c := range f.colors() {
		if c.value != "" && !IsHexColor(c.value) {
			return fmt.Errorf("color '%s' has invalid format: %s (expected #RGB or #RRGGBB)", c.name, c.value)
		}
	}
	return nil
}

type namedColor struct {
	name  string
	value string
}

func (f *PaletteFile) colors() []namedColor {
	c := f.Colors
	return []namedColor{
		{"dark", c.Dark},
		{"mid", c.Mid},
		{"light", c.Light},
		{"on_dark", c.OnDark},
		{"on_light", c.OnLight},
		{"accent", c.Accent},
		{"muted", c.Muted},
		{"error", c.Error},
		{"border", c.Border},
	}
}

// Apply returns base with the file's colors laid over it.
func (f *PaletteFile) Apply(base Palette) Palette {
	c := f.Colors
	base.Dark = colorOr(c.Dark, base.Dark)
	base.Mid = colorOr(c.Mid, base.Mid)
	base.Light = colorOr(c.Light, base.Light)
	base.OnDark = colorOr(c.OnDark, base.OnDark)
	base.OnLight = colorOr(c.OnLight, base.OnLight)
	base.Accent = colorOr(c.Accent, base.Accent)
	base.Muted = colorOr(c.Muted, base.Muted)
	base.Error = colorOr(c.Error, base.Error)
	base.Border = colorOr(c.Border, base.Border)
	return base
}

// Export renders p as a palette file, e.g. as a template for customization.
func Export(name string, p Palette) ([]byte, error) {
	return yaml.Marshal(&PaletteFile{
		Name:    name,
		Version: "1",
		Colors: PaletteColors{
			Dark:    string(p.Dark),
			Mid:     string(p.Mid),
			Light:   string(p.Light),
			OnDark:  string(p.OnDark),
			OnLight: string(p.OnLight),
			Accent:  string(p.Accent),
			Muted:   string(p.Muted),
			Error:   string(p.Error),
			Border:  string(p.Border),
		},
	})
}
