package view

import (
	"strings"

	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

// RenderStatus renders a one-line status message. Error messages use the
// error style; others are muted.
func RenderStatus(s *styles.Styles, text string, isError bool, width int) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "\n", " ")
	style := s.Muted
	if isError {
		style = s.ErrorMsg
	}
	return style.Render(truncate(text, width))
}
