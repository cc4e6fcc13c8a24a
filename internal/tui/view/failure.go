package view

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/tileboard/internal/errors"
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

// FailureState holds the state needed to render the bootstrap failure screen.
type FailureState struct {
	Source string
	Err    error
	Width  int
}

// RenderFailure renders the screen shown when the document could not be
// loaded. The help bar offering a retry is rendered by the caller.
func RenderFailure(s *styles.Styles, state FailureState) string {
	lines := []string{
		s.ErrorTitle.Render("Could not load the board"),
		"",
		s.Muted.Render("Source: ") + state.Source,
	}
	if hint := Hint(state.Err); hint != "" {
		lines = append(lines, hint)
	}
	if state.Err != nil {
		msg := s.ErrorMsg
		if state.Width > 0 {
			msg = msg.Width(state.Width)
		}
		lines = append(lines, "", msg.Render(state.Err.Error()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// Hint explains a bootstrap error in one sentence, or returns "" when the
// error has no specific explanation.
func Hint(err error) string {
	var fetchErr *errors.FetchError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, errors.ErrTimeout):
		return "The source did not answer in time."
	case errors.Is(err, errors.ErrMalformedDefinition):
		return "The document is not a valid board definition."
	case errors.As(err, &fetchErr) && fetchErr.StatusCode != 0:
		return fmt.Sprintf("The server answered HTTP %d.", fetchErr.StatusCode)
	case errors.Is(err, errors.ErrFetchFailed):
		if fetchErr != nil && fetchErr.Attempt > 1 {
			return fmt.Sprintf("Gave up after %d attempts.", fetchErr.Attempt)
		}
		return "The source could not be reached."
	}
	return ""
}
