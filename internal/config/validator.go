package config

import (
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/Iron-Ham/tileboard/internal/action"
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "fetch.max_attempts")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateSource()...)
	errors = append(errors, c.validateFetch()...)
	errors = append(errors, c.validateUpdate()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

// validateSource validates the SourceConfig
func (c *Config) validateSource() []ValidationError {
	var errors []ValidationError

	// A file source needs no URL
	if c.Source.File != "" {
		return errors
	}

	if c.Source.URL == "" {
		return append(errors, ValidationError{
			Field:   "source.url",
			Value:   c.Source.URL,
			Message: "must be set when source.file is empty",
		})
	}

	u, err := url.Parse(c.Source.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "source.url",
			Value:   c.Source.URL,
			Message: "must be an absolute http or https URL",
		})
	}

	return errors
}

// validateFetch validates the FetchConfig
func (c *Config) validateFetch() []ValidationError {
	var errors []ValidationError

	positive := []struct {
		field string
		value time.Duration
	}{
		{"fetch.timeout", c.Fetch.Timeout},
		{"fetch.initial_backoff", c.Fetch.InitialBackoff},
		{"fetch.max_backoff", c.Fetch.MaxBackoff},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errors = append(errors, ValidationError{
				Field:   p.field,
				Value:   p.value,
				Message: "must be positive",
			})
		}
	}

	if c.Fetch.MaxAttempts < 1 {
		errors = append(errors, ValidationError{
			Field:   "fetch.max_attempts",
			Value:   c.Fetch.MaxAttempts,
			Message: "must be at least 1",
		})
	}

	// Reasonable upper bound so a dead server does not hang startup for hours
	const maxAttempts = 20
	if c.Fetch.MaxAttempts > maxAttempts {
		errors = append(errors, ValidationError{
			Field:   "fetch.max_attempts",
			Value:   c.Fetch.MaxAttempts,
			Message: fmt.Sprintf("exceeds maximum of %d", maxAttempts),
		})
	}

	if c.Fetch.InitialBackoff > 0 && c.Fetch.MaxBackoff > 0 && c.Fetch.MaxBackoff < c.Fetch.InitialBackoff {
		errors = append(errors, ValidationError{
			Field:   "fetch.max_backoff",
			Value:   c.Fetch.MaxBackoff,
			Message: fmt.Sprintf("must not be less than fetch.initial_backoff (%s)", c.Fetch.InitialBackoff),
		})
	}

	if c.Fetch.WaitForFile < 0 {
		errors = append(errors, ValidationError{
			Field:   "fetch.wait_for_file",
			Value:   c.Fetch.WaitForFile,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateUpdate validates the UpdateConfig
func (c *Config) validateUpdate() []ValidationError {
	var errors []ValidationError

	if _, err := action.ParsePolicy(c.Update.MissingReference); err != nil {
		errors = append(errors, ValidationError{
			Field:   "update.missing_reference",
			Value:   c.Update.MissingReference,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(action.Policies(), ", ")),
		})
	}

	return errors
}

// validateTUI validates the TUIConfig
func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	colors := []struct {
		field string
		value string
	}{
		{"tui.palette.dark", c.TUI.Palette.Dark},
		{"tui.palette.mid", c.TUI.Palette.Mid},
		{"tui.palette.light", c.TUI.Palette.Light},
	}
	for _, col := range colors {
		if col.value != "" && !styles.IsHexColor(col.value) {
			errors = append(errors, ValidationError{
				Field:   col.field,
				Value:   col.value,
				Message: "must be a hex color like #1b1c2e",
			})
		}
	}

	if c.TUI.Palette.File != "" {
		if info, err := os.Stat(c.TUI.Palette.File); err != nil {
			errors = append(errors, ValidationError{
				Field:   "tui.palette.file",
				Value:   c.TUI.Palette.File,
				Message: "file does not exist",
			})
		} else if info.IsDir() {
			errors = append(errors, ValidationError{
				Field:   "tui.palette.file",
				Value:   c.TUI.Palette.File,
				Message: "is a directory",
			})
		}
	}

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	if strings.ContainsRune(c.Logging.Dir, '\x00') {
		errors = append(errors, ValidationError{
			Field:   "logging.dir",
			Value:   c.Logging.Dir,
			Message: "path contains invalid null character",
		})
	}

	return errors
}
