package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/tileboard/internal/config"
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

// newTestCommand returns a command whose output is captured in the buffer.
func newTestCommand() (*cobra.Command, *bytes.Buffer) {
	buf := new(bytes.Buffer)
	c := &cobra.Command{}
	c.SetOut(buf)
	c.SetErr(buf)
	return c, buf
}

func TestParseConfigValue(t *testing.T) {
	tests := []struct {
		key     string
		value   string
		want    any
		wantErr string
	}{
		{"source.url", "https://tiles.example.com/def", "https://tiles.example.com/def", ""},
		{"fetch.timeout", "1500ms", "1.5s", ""},
		{"fetch.timeout", "soon", nil, "expected a duration"},
		{"fetch.max_attempts", "5", 5, ""},
		{"fetch.max_attempts", "-1", nil, "non-negative"},
		{"fetch.max_attempts", "many", nil, "expected integer"},
		{"update.missing_reference", "create", "create", ""},
		{"update.missing_reference", "ignore", nil, "Valid options: reject, create"},
		{"tui.alt_screen", "false", false, ""},
		{"tui.alt_screen", "no", nil, "expected true or false"},
		{"tui.palette.dark", "#101010", "#101010", ""},
		{"tui.palette.dark", "black", nil, "expected a hex color"},
		{"logging.level", "WARN", "warn", ""},
		{"logging.level", "loud", nil, "Valid options"},
		{"nonsense.key", "x", nil, "unknown configuration key"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			got, err := parseConfigValue(tt.key, tt.value)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("parseConfigValue() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseConfigValue() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parseConfigValue() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConfigKeysCoverDefaults(t *testing.T) {
	// Every key the config file knows about must be settable
	var doc map[string]map[string]any
	if err := yaml.Unmarshal([]byte(defaultConfigFile), &doc); err != nil {
		t.Fatalf("default config file is not valid YAML: %v", err)
	}

	var keys []string
	var collect func(prefix string, m map[string]any)
	collect = func(prefix string, m map[string]any) {
		for k, v := range m {
			if nested, ok := v.(map[string]any); ok {
				collect(prefix+k+".", nested)
				continue
			}
			keys = append(keys, prefix+k)
		}
	}
	for section, values := range doc {
		collect(section+".", values)
	}

	for _, k := range keys {
		if _, ok := configKeys[k]; !ok {
			t.Errorf("key %q in the default config file cannot be set", k)
		}
	}
	if len(keys) != len(configKeys) {
		t.Errorf("default config file has %d keys, configKeys has %d", len(keys), len(configKeys))
	}
}

func TestRunConfigInit(t *testing.T) {
	isolate(t)
	c, buf := newTestCommand()

	if err := runConfigInit(c, nil); err != nil {
		t.Fatalf("runConfigInit() error = %v", err)
	}
	if !strings.Contains(buf.String(), config.ConfigFile()) {
		t.Errorf("output should name the config file:\n%s", buf.String())
	}

	data, err := os.ReadFile(config.ConfigFile())
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if string(data) != defaultConfigFile {
		t.Error("config file content differs from the default template")
	}

	// A second init must not overwrite the file
	if err := runConfigInit(c, nil); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Errorf("second runConfigInit() error = %v, want already exists", err)
	}
}

func TestRunConfigSet(t *testing.T) {
	isolate(t)
	t.Cleanup(func() { viper.Set("tui.alt_screen", true) })
	c, buf := newTestCommand()

	if err := runConfigSet(c, []string{"tui.alt_screen", "false"}); err != nil {
		t.Fatalf("runConfigSet() error = %v", err)
	}
	if !strings.Contains(buf.String(), "Set tui.alt_screen = false") {
		t.Errorf("unexpected output:\n%s", buf.String())
	}

	data, err := os.ReadFile(config.ConfigFile())
	if err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if !strings.Contains(string(data), "alt_screen: false") {
		t.Errorf("config file missing the new value:\n%s", data)
	}
}

func TestRunConfigSet_InvalidValue(t *testing.T) {
	isolate(t)
	c, _ := newTestCommand()

	if err := runConfigSet(c, []string{"fetch.max_attempts", "lots"}); err == nil {
		t.Fatal("runConfigSet() should fail for a non-integer")
	}
	if _, err := os.Stat(config.ConfigFile()); !os.IsNotExist(err) {
		t.Errorf("config file should not be written, stat error = %v", err)
	}
}

func TestConfigShow(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "config", "show")
	if err != nil {
		t.Fatalf("config show error = %v", err)
	}
	for _, want := range []string{"missing_reference: reject", "timeout: 10s", "localhost:8080/definition"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "config:") {
		t.Errorf("the --config flag should not be listed:\n%s", out)
	}
}

func TestConfigPath(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "config", "path")
	if err != nil {
		t.Fatalf("config path error = %v", err)
	}
	if !strings.Contains(out, filepath.Join(config.ConfigDir(), "config.yaml")) {
		t.Errorf("output missing the config directory:\n%s", out)
	}
	if !strings.Contains(out, "TILEBOARD_") {
		t.Errorf("output should mention environment variables:\n%s", out)
	}
}

func TestConfigValidate(t *testing.T) {
	isolate(t)

	out, err := executeCommand(rootCmd, "config", "validate")
	if err != nil {
		t.Fatalf("config validate error = %v", err)
	}
	if !strings.Contains(out, "Configuration is valid.") {
		t.Errorf("unexpected output:\n%s", out)
	}

	_, err = executeCommand(rootCmd, "config", "validate", "--url", "ftp://nowhere")
	if err == nil || !strings.Contains(err.Error(), "source.url") {
		t.Errorf("config validate error = %v, want source.url problem", err)
	}
}

func TestConfigPalette(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "mine.yaml")

	out, err := executeCommand(rootCmd, "config", "palette", path)
	if err != nil {
		t.Fatalf("config palette error = %v", err)
	}
	if !strings.Contains(out, "Palette written to "+path) {
		t.Errorf("unexpected output:\n%s", out)
	}

	// The exported file loads back as a palette file
	pf, err := styles.LoadPaletteFile(path)
	if err != nil {
		t.Fatalf("LoadPaletteFile() error = %v", err)
	}
	if pf.Name != "mine" {
		t.Errorf("palette name = %q, want %q", pf.Name, "mine")
	}
}
