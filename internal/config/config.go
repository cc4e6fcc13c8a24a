package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Iron-Ham/tileboard/internal/action"
	"github.com/Iron-Ham/tileboard/internal/bootstrap"
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

// Config represents the complete tileboard configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Update  UpdateConfig  `mapstructure:"update"`
	TUI     TUIConfig     `mapstructure:"tui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig says where the definition document comes from
type SourceConfig struct {
	// URL is fetched with GET when File is empty
	URL string `mapstructure:"url"`
	// File is a local JSON or YAML document. When set it takes precedence over URL.
	File string `mapstructure:"file"`
}

// FetchConfig controls how the definition document is retrieved
type FetchConfig struct {
	// Timeout bounds each attempt, not the whole load
	Timeout time.Duration `mapstructure:"timeout"`
	// MaxAttempts is the total number of attempts including the first
	MaxAttempts int `mapstructure:"max_attempts"`
	// InitialBackoff is the delay before the second attempt; it doubles after that
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	// MaxBackoff caps the delay between attempts
	MaxBackoff time.Duration `mapstructure:"max_backoff"`
	// WaitForFile is how long a file source waits for a missing file to appear.
	// Zero fails immediately.
	WaitForFile time.Duration `mapstructure:"wait_for_file"`
}

// UpdateConfig controls how button updates are applied
type UpdateConfig struct {
	// MissingReference decides what happens when a button references a key
	// that was never registered.
	// Options: "reject", "create"
	MissingReference string `mapstructure:"missing_reference"`
}

// TUIConfig controls the terminal UI
type TUIConfig struct {
	Palette PaletteConfig `mapstructure:"palette"`
	// AltScreen runs the interactive view in the terminal's alternate screen
	AltScreen bool `mapstructure:"alt_screen"`
}

// PaletteConfig overrides the tile colours. Empty values keep the defaults.
type PaletteConfig struct {
	Dark  string `mapstructure:"dark"`
	Mid   string `mapstructure:"mid"`
	Light string `mapstructure:"light"`
	// File is a YAML palette file applied before the colours above
	File string `mapstructure:"file"`
}

// LoggingConfig controls debug logging behavior
type LoggingConfig struct {
	// Enabled turns on the log file. When false nothing is logged.
	Enabled bool `mapstructure:"enabled"`
	// Level is the minimum log level: "debug", "info", "warn", "error"
	Level string `mapstructure:"level"`
	// Dir is the directory holding tileboard.log. Empty means the state directory.
	Dir string `mapstructure:"dir"`
}

// Default returns a Config with sensible default values
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL: "http://localhost:8080/definition",
		},
		Fetch: FetchConfig{
			Timeout:        10 * time.Second,
			MaxAttempts:    3,
			InitialBackoff: 500 * time.Millisecond,
			MaxBackoff:     5 * time.Second,
		},
		Update: UpdateConfig{
			MissingReference: string(action.PolicyReject),
		},
		TUI: TUIConfig{
			AltScreen: true,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Level:   "info",
		},
	}
}

// SetDefaults registers default values with viper
func SetDefaults() {
	defaults := Default()

	// Source defaults
	viper.SetDefault("source.url", defaults.Source.URL)
	viper.SetDefault("source.file", defaults.Source.File)

	// Fetch defaults
	viper.SetDefault("fetch.timeout", defaults.Fetch.Timeout)
	viper.SetDefault("fetch.max_attempts", defaults.Fetch.MaxAttempts)
	viper.SetDefault("fetch.initial_backoff", defaults.Fetch.InitialBackoff)
	viper.SetDefault("fetch.max_backoff", defaults.Fetch.MaxBackoff)
	viper.SetDefault("fetch.wait_for_file", defaults.Fetch.WaitForFile)

	// Update defaults
	viper.SetDefault("update.missing_reference", defaults.Update.MissingReference)

	// TUI defaults
	viper.SetDefault("tui.palette.dark", defaults.TUI.Palette.Dark)
	viper.SetDefault("tui.palette.mid", defaults.TUI.Palette.Mid)
	viper.SetDefault("tui.palette.light", defaults.TUI.Palette.Light)
	viper.SetDefault("tui.palette.file", defaults.TUI.Palette.File)
	viper.SetDefault("tui.alt_screen", defaults.TUI.AltScreen)

	// Logging defaults
	viper.SetDefault("logging.enabled", defaults.Logging.Enabled)
	viper.SetDefault("logging.level", defaults.Logging.Level)
	viper.SetDefault("logging.dir", defaults.Logging.Dir)
}

// Load reads the configuration from viper into a Config struct
func Load() (*Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, ValidationErrors(errs)
	}

	return &cfg, nil
}

// Get returns the current configuration (convenience function)
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		// Fall back to defaults if unmarshaling fails
		return Default()
	}
	return cfg
}

// RetryPolicy converts the fetch settings for the bootstrap loader
func (c *FetchConfig) RetryPolicy() bootstrap.RetryPolicy {
	return bootstrap.RetryPolicy{
		MaxAttempts:    c.MaxAttempts,
		Timeout:        c.Timeout,
		InitialBackoff: c.InitialBackoff,
		MaxBackoff:     c.MaxBackoff,
	}
}

// Policy returns the parsed missing-reference policy. Invalid values are
// rejected by Validate, so this falls back to PolicyReject.
func (c *UpdateConfig) Policy() action.Policy {
	p, err := action.ParsePolicy(c.MissingReference)
	if err != nil {
		return action.PolicyReject
	}
	return p
}

// Resolve builds the tile palette: defaults, then the palette file if one
// is configured, then the individual colour overrides.
func (c *PaletteConfig) Resolve() (styles.Palette, error) {
	p := styles.DefaultPalette()
	if c.File != "" {
		f, err := styles.LoadPaletteFile(c.File)
		if err != nil {
			return p, err
		}
		p = f.Apply(p)
	}
	return p.WithOverrides(styles.Overrides{Dark: c.Dark, Mid: c.Mid, Light: c.Light})
}

// LogDir returns the directory the log file is written to
func (c *LoggingConfig) LogDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	return StateDir()
}

// ConfigDir returns the path to the user's config directory
func ConfigDir() string {
	// Check XDG_CONFIG_HOME first
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tileboard")
	}
	// Fall back to ~/.config/tileboard
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tileboard"
	}
	return filepath.Join(home, ".config", "tileboard")
}

// StateDir returns the path logs are written to by default
func StateDir() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "tileboard")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".tileboard"
	}
	return filepath.Join(home, ".local", "state", "tileboard")
}

// ConfigFile returns the path to the config file
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}
