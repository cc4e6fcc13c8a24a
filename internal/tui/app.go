package tui

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Iron-Ham/tileboard/internal/event"
	"github.com/Iron-Ham/tileboard/internal/tui/msg"
)

// App wraps the Bubbletea program
type App struct {
	program   *tea.Program
	model     Model
	bus       *event.Bus
	altScreen bool
}

// New creates a new TUI application. Fetch retries published on bus are
// shown on the loading screen.
func New(ctx context.Context, deps Deps, bus *event.Bus, altScreen bool) *App {
	return &App{
		model:     NewModel(ctx, deps),
		bus:       bus,
		altScreen: altScreen,
	}
}

// Run starts the TUI application
func (a *App) Run() error {
	defer a.model.cancel()

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if a.altScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	a.program = tea.NewProgram(a.model, opts...)

	if a.bus != nil {
		id := a.bus.Subscribe(event.TypeFetchRetry, func(e event.Event) {
			if retry, ok := e.(event.FetchRetryEvent); ok {
				a.program.Send(msg.FetchRetryMsg{
					Attempt: retry.Attempt,
					Delay:   retry.Delay,
					Err:     retry.Err,
				})
			}
		})
		defer a.bus.Unsubscribe(id)
	}

	// Set up signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	go func() {
		<-sigChan
		// Send quit message to the TUI
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()

	// Clean up signal handler
	signal.Stop(sigChan)

	return err
}
