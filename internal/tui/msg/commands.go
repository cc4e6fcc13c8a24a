package msg

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/tileboard/internal/bootstrap"
)

// LoadDefinition returns a command that loads the document from src and
// reports the outcome as a LoadedMsg.
func LoadDefinition(ctx context.Context, src bootstrap.Source, opts ...bootstrap.Option) tea.Cmd {
	return func() tea.Msg {
		doc, err := bootstrap.Load(ctx, src, opts...)
		if err != nil {
			return LoadedMsg{Err: err}
		}
		return LoadedMsg{Doc: doc}
	}
}

// ClearStatusAfter returns a command that sends a ClearStatusMsg for seq once
// d has elapsed.
func ClearStatusAfter(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{Seq: seq}
	})
}
