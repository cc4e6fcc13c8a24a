package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

// LoadingState holds the state needed to render the loading screen.
type LoadingState struct {
	// Source names where the document is loaded from.
	Source string

	// Spinner is the current spinner frame, already styled.
	Spinner string

	// FailedAttempts counts attempts that failed so far. LastError is the
	// most recent failure; both are zero before the first retry.
	FailedAttempts int
	LastError      error

	// Width is the available width. Zero means unconstrained.
	Width int
}

// RenderLoading renders the screen shown while the definition document loads.
func RenderLoading(s *styles.Styles, state LoadingState) string {
	var b strings.Builder
	b.WriteString(state.Spinner)
	b.WriteString(" Loading board from ")
	b.WriteString(state.Source)

	if state.FailedAttempts > 0 {
		b.WriteString("\n")
		retry := fmt.Sprintf("attempt %d failed, retrying", state.FailedAttempts)
		if state.LastError != nil {
			retry += ": " + state.LastError.Error()
		}
		b.WriteString(s.Muted.Render(truncate(retry, state.Width)))
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
