package cmd

import (
	"fmt"

	"github.com/Iron-Ham/tileboard/internal/action"
	"github.com/Iron-Ham/tileboard/internal/bootstrap"
	"github.com/Iron-Ham/tileboard/internal/config"
	"github.com/Iron-Ham/tileboard/internal/event"
	"github.com/Iron-Ham/tileboard/internal/logging"
	"github.com/Iron-Ham/tileboard/internal/registry"
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
)

// board bundles the components shared by the commands that load a board.
type board struct {
	cfg        *config.Config
	logger     *logging.Logger
	bus        *event.Bus
	registry   *registry.Registry
	dispatcher *action.Dispatcher
	styles     *styles.Styles

	stopObserve func()
}

// newBoard builds the component graph described by cfg.
func newBoard(cfg *config.Config) (*board, error) {
	logger := logging.NopLogger()
	if cfg.Logging.Enabled {
		l, err := logging.NewLogger(cfg.Logging.LogDir(), cfg.Logging.Level)
		if err != nil {
			return nil, fmt.Errorf("failed to open log: %w", err)
		}
		logger = l
	}

	palette, err := cfg.TUI.Palette.Resolve()
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("failed to load palette: %w", err)
	}

	bus := event.NewBus()
	reg := registry.New(bus)

	return &board{
		cfg:      cfg,
		logger:   logger,
		bus:      bus,
		registry: reg,
		dispatcher: action.New(reg,
			action.WithPolicy(cfg.Update.Policy()),
			action.WithLogger(logger),
			action.WithBus(bus)),
		styles:      styles.New(palette),
		stopObserve: logger.Observe(bus),
	}, nil
}

// source returns the configured definition source. A file takes precedence
// over a URL.
func (b *board) source() bootstrap.Source {
	opts := b.sourceOptions()
	if b.cfg.Source.File != "" {
		return bootstrap.NewFileSource(b.cfg.Source.File, b.cfg.Fetch.WaitForFile, opts...)
	}
	return bootstrap.NewHTTPSource(b.cfg.Source.URL, b.cfg.Fetch.RetryPolicy(), opts...)
}

func (b *board) sourceOptions() []bootstrap.Option {
	return []bootstrap.Option{
		bootstrap.WithBus(b.bus),
		bootstrap.WithLogger(b.logger),
	}
}

func (b *board) close() {
	b.stopObserve()
	_ = b.logger.Close()
}
