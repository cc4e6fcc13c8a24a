package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/viper"

	"github.com/Iron-Ham/tileboard/internal/action"
	"github.com/Iron-Ham/tileboard/internal/bootstrap"
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg == nil {
		t.Fatal("Default() returned nil")
	}

	// Verify default source config
	if cfg.Source.URL != "http://localhost:8080/definition" {
		t.Errorf("Source.URL = %q, want %q", cfg.Source.URL, "http://localhost:8080/definition")
	}
	if cfg.Source.File != "" {
		t.Errorf("Source.File = %q, want empty", cfg.Source.File)
	}

	// Verify default fetch config
	if cfg.Fetch.Timeout != 10*time.Second {
		t.Errorf("Fetch.Timeout = %v, want 10s", cfg.Fetch.Timeout)
	}
	if cfg.Fetch.MaxAttempts != 3 {
		t.Errorf("Fetch.MaxAttempts = %d, want 3", cfg.Fetch.MaxAttempts)
	}
	if cfg.Fetch.InitialBackoff != 500*time.Millisecond {
		t.Errorf("Fetch.InitialBackoff = %v, want 500ms", cfg.Fetch.InitialBackoff)
	}
	if cfg.Fetch.MaxBackoff != 5*time.Second {
		t.Errorf("Fetch.MaxBackoff = %v, want 5s", cfg.Fetch.MaxBackoff)
	}
	if cfg.Fetch.WaitForFile != 0 {
		t.Errorf("Fetch.WaitForFile = %v, want 0", cfg.Fetch.WaitForFile)
	}

	// Verify default update config
	if cfg.Update.MissingReference != "reject" {
		t.Errorf("Update.MissingReference = %q, want %q", cfg.Update.MissingReference, "reject")
	}

	// Verify default TUI config
	if !cfg.TUI.AltScreen {
		t.Error("TUI.AltScreen should be true by default")
	}
	if cfg.TUI.Palette != (PaletteConfig{}) {
		t.Errorf("TUI.Palette = %+v, want no overrides", cfg.TUI.Palette)
	}

	// Verify default logging config
	if cfg.Logging.Enabled {
		t.Error("Logging.Enabled should be false by default")
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestDefault_MatchesBootstrapPolicy(t *testing.T) {
	got := Default().Fetch.RetryPolicy()
	if diff := cmp.Diff(bootstrap.DefaultRetryPolicy(), got); diff != "" {
		t.Errorf("RetryPolicy() mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateConfig_Policy(t *testing.T) {
	tests := []struct {
		value string
		want  action.Policy
	}{
		{"reject", action.PolicyReject},
		{"create", action.PolicyCreate},
		{"CREATE", action.PolicyCreate},
		{"", action.PolicyReject},
		{"bogus", action.PolicyReject},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			u := UpdateConfig{MissingReference: tt.value}
			if got := u.Policy(); got != tt.want {
				t.Errorf("Policy() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPaletteConfig_Resolve(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		var p PaletteConfig
		got, err := p.Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got != styles.DefaultPalette() {
			t.Errorf("Resolve() = %+v, want default palette", got)
		}
	})

	t.Run("file then overrides", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "palette.yaml")
		content := "name: night\nversion: \"1\"\ncolors:\n  dark: \"#000000\"\n  light: \"#eeeeee\"\n"
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		p := PaletteConfig{File: path, Light: "#ffffff"}
		got, err := p.Resolve()
		if err != nil {
			t.Fatalf("Resolve() error = %v", err)
		}
		if got.Dark != "#000000" {
			t.Errorf("Dark = %q, want the file's #000000", got.Dark)
		}
		if got.Light != "#ffffff" {
			t.Errorf("Light = %q, want the override #ffffff", got.Light)
		}
		if got.Mid != styles.DefaultPalette().Mid {
			t.Errorf("Mid = %q, want default %q", got.Mid, styles.DefaultPalette().Mid)
		}
	})

	t.Run("unreadable file", func(t *testing.T) {
		p := PaletteConfig{File: filepath.Join(t.TempDir(), "missing.yaml")}
		if _, err := p.Resolve(); err == nil {
			t.Error("Resolve() error = nil, want error for missing file")
		}
	})
}

func TestLoggingConfig_LogDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/custom/state")

	l := LoggingConfig{}
	if got := l.LogDir(); got != "/custom/state/tileboard" {
		t.Errorf("LogDir() = %q, want %q", got, "/custom/state/tileboard")
	}

	l.Dir = "/var/log/tb"
	if got := l.LogDir(); got != "/var/log/tb" {
		t.Errorf("LogDir() = %q, want %q", got, "/var/log/tb")
	}
}

func TestConfigDir(t *testing.T) {
	// Test with XDG_CONFIG_HOME set
	t.Run("with XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/custom/config")
		result := ConfigDir()
		expected := "/custom/config/tileboard"
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})

	// Test without XDG_CONFIG_HOME
	t.Run("without XDG_CONFIG_HOME", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		result := ConfigDir()

		// Should be based on home directory
		home, _ := os.UserHomeDir()
		expected := filepath.Join(home, ".config", "tileboard")
		if result != expected {
			t.Errorf("ConfigDir() = %q, want %q", result, expected)
		}
	})
}

func TestConfigFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")
	result := ConfigFile()
	expected := "/custom/config/tileboard/config.yaml"
	if result != expected {
		t.Errorf("ConfigFile() = %q, want %q", result, expected)
	}
}

func TestGet(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	// Set defaults in viper first (normally done by cmd init)
	SetDefaults()

	// Get() should return defaults when no config file exists
	cfg := Get()
	if cfg == nil {
		t.Fatal("Get() returned nil")
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_FromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
source:
  url: https://tiles.example.com/definition
fetch:
  timeout: 2s
  max_attempts: 5
update:
  missing_reference: create
tui:
  alt_screen: false
  palette:
    dark: "#101010"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		t.Fatalf("ReadInConfig() error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := Default()
	want.Source.URL = "https://tiles.example.com/definition"
	want.Fetch.Timeout = 2 * time.Second
	want.Fetch.MaxAttempts = 5
	want.Update.MissingReference = "create"
	want.TUI.AltScreen = false
	want.TUI.Palette.Dark = "#101010"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_InvalidReturnsAllErrors(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	SetDefaults()

	viper.Set("fetch.max_attempts", 0)
	viper.Set("update.missing_reference", "explode")

	_, err := Load()
	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("Load() error = %T %v, want ValidationErrors", err, err)
	}
	var fields []string
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	if diff := cmp.Diff([]string{"fetch.max_attempts", "update.missing_reference"}, fields); diff != "" {
		t.Errorf("error fields mismatch (-want +got):\n%s", diff)
	}
}
