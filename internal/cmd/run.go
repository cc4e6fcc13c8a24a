package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/tileboard/internal/config"
	"github.com/Iron-Ham/tileboard/internal/tui"
)

// isTerminal reports whether stdout is a terminal. Replaced in tests.
var isTerminal = func() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func runBoard(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		return errors.New("stdout is not a terminal; use 'tileboard render' for non-interactive output")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	b, err := newBoard(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	app := tui.New(cmd.Context(), tui.Deps{
		Source:     b.source(),
		LoadOpts:   b.sourceOptions(),
		Registry:   b.registry,
		Dispatcher: b.dispatcher,
		Styles:     b.styles,
		Logger:     b.logger,
	}, b.bus, cfg.TUI.AltScreen)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
