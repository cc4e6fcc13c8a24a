package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Iron-Ham/tileboard/internal/action"
	"github.com/Iron-Ham/tileboard/internal/config"
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify tileboard configuration",
	Long: `View or modify tileboard configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  tileboard config set source.url https://tiles.example.com/definition
  tileboard config set fetch.timeout 5s
  tileboard config set update.missing_reference create

Valid keys:
  source.url                - Definition URL
  source.file               - Definition file (overrides source.url)
  fetch.timeout             - Per-attempt timeout (duration, e.g. 10s)
  fetch.max_attempts        - Attempts before giving up
  fetch.initial_backoff     - Delay before the first retry (duration)
  fetch.max_backoff         - Longest delay between retries (duration)
  fetch.wait_for_file       - How long to wait for a missing file (duration)
  update.missing_reference  - Update to an unknown key
                              Options: reject, create
  tui.alt_screen            - Use the alternate screen (true/false)
  tui.palette.dark          - Dark tile background (#RRGGBB)
  tui.palette.mid           - Mid tile background (#RRGGBB)
  tui.palette.light         - Light tile background (#RRGGBB)
  tui.palette.file          - YAML palette file
  logging.enabled           - Write a debug log (true/false)
  logging.level             - debug, info, warn, error
  logging.dir               - Log directory`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/tileboard/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration for errors",
	RunE:  runConfigValidate,
}

var configPaletteCmd = &cobra.Command{
	Use:   "palette [output-file]",
	Short: "Export the active palette as YAML",
	Long: `Export the active tile palette as a palette file.

If no output file is specified, the YAML is printed to stdout. Point
tui.palette.file at an edited copy to customize the colors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigPalette,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configPaletteCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "# Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "# Config file: (none - using defaults)\n")
	}

	settings := viper.AllSettings()
	// The --config flag is not a setting
	delete(settings, "config")

	data, err := yaml.Marshal(readable(settings))
	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}
	_, err = out.Write(data)
	return err
}

// readable replaces durations with their string form, which is also what
// the config file accepts.
func readable(settings map[string]any) map[string]any {
	for k, v := range settings {
		switch v := v.(type) {
		case time.Duration:
			settings[k] = v.String()
		case map[string]any:
			settings[k] = readable(v)
		}
	}
	return settings
}

// configKeys maps every settable key to its value kind.
var configKeys = map[string]string{
	"source.url":               "string",
	"source.file":              "string",
	"fetch.timeout":            "duration",
	"fetch.max_attempts":       "int",
	"fetch.initial_backoff":    "duration",
	"fetch.max_backoff":        "duration",
	"fetch.wait_for_file":      "duration",
	"update.missing_reference": "policy",
	"tui.alt_screen":           "bool",
	"tui.palette.dark":         "color",
	"tui.palette.mid":          "color",
	"tui.palette.light":        "color",
	"tui.palette.file":         "string",
	"logging.enabled":          "bool",
	"logging.level":            "level",
	"logging.dir":              "string",
}

// parseConfigValue converts value to the type stored for key.
func parseConfigValue(key, value string) (any, error) {
	kind, ok := configKeys[key]
	if !ok {
		return nil, fmt.Errorf("unknown configuration key: %s\nRun 'tileboard config set --help' to see valid keys", key)
	}

	switch kind {
	case "bool":
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", key)
		}
		return value == "true", nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", key)
		}
		if n < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", key)
		}
		return n, nil
	case "duration":
		d, err := time.ParseDuration(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected a duration like 500ms or 10s", key)
		}
		// Stored as a string so the file stays readable
		return d.String(), nil
	case "policy":
		p, err := action.ParsePolicy(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				key, value, strings.Join(action.Policies(), ", "))
		}
		return string(p), nil
	case "color":
		if !styles.IsHexColor(value) {
			return nil, fmt.Errorf("invalid value for %s: expected a hex color like #1b1c2e", key)
		}
		return value, nil
	case "level":
		lower := strings.ToLower(value)
		for _, valid := range config.ValidLogLevels() {
			if lower == valid {
				return lower, nil
			}
		}
		return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
			key, value, strings.Join(config.ValidLogLevels(), ", "))
	}
	return value, nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]

	typedValue, err := parseConfigValue(key, args[1])
	if err != nil {
		return err
	}

	// Ensure config directory exists
	configDir := config.ConfigDir()
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set the value in viper
	viper.Set(key, typedValue)

	// Write to the active config file, or the default location
	configFile := viper.ConfigFileUsed()
	if configFile == "" {
		configFile = config.ConfigFile()
	}
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)

	return nil
}

// defaultConfigFile is written by 'config init'.
const defaultConfigFile = `# Tileboard Configuration

# Where the board definition comes from
source:
  # Fetched with GET when file is empty
  url: http://localhost:8080/definition
  # A local JSON or YAML document; takes precedence over url
  file: ""

# Retrieval of the definition
fetch:
  # Timeout of each attempt
  timeout: 10s
  # Attempts before giving up (network errors, timeouts, 408, 429 and 5xx are retried)
  max_attempts: 3
  # Delay before the first retry, doubling up to max_backoff
  initial_backoff: 500ms
  max_backoff: 5s
  # How long a file source waits for a missing file to appear (0 fails at once)
  wait_for_file: 0s

# Button updates
update:
  # What an update to a key that was never registered does
  # Options: reject, create
  missing_reference: reject

# TUI (terminal user interface) settings
tui:
  alt_screen: true
  palette:
    # Tile backgrounds; empty keeps the default
    dark: ""
    mid: ""
    light: ""
    # YAML palette file applied before the colors above
    # (create one with 'tileboard config palette')
    file: ""

# Debug logging
logging:
  enabled: false
  # Options: debug, info, warn, error
  level: info
  # Defaults to $XDG_STATE_HOME/tileboard
  dir: ""
`

func runConfigInit(cmd *cobra.Command, args []string) error {
	configDir := config.ConfigDir()
	configFile := config.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'tileboard config set' to modify values", configFile)
	}

	// Create config directory
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigFile), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to customize tileboard's behavior.")

	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := config.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	// Also show config search paths
	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. $HOME/.config/tileboard/config.yaml\n")
	fmt.Fprintf(out, "  3. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: TILEBOARD_* (e.g., TILEBOARD_SOURCE_URL)")

	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := config.Load(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid.")
	return nil
}

func runConfigPalette(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	palette, err := cfg.TUI.Palette.Resolve()
	if err != nil {
		return err
	}

	name := "custom"
	if len(args) == 1 {
		name = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	}
	data, err := styles.Export(name, palette)
	if err != nil {
		return fmt.Errorf("failed to export palette: %w", err)
	}

	if len(args) == 0 {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(args[0], data, 0644); err != nil {
		return fmt.Errorf("failed to write palette file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Palette written to %s\n", args[0])
	return nil
}
