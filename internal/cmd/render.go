package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Iron-Ham/tileboard/internal/bootstrap"
	"github.com/Iron-Ham/tileboard/internal/config"
	"github.com/Iron-Ham/tileboard/internal/render"
)

// defaultRenderWidth is used when stdout is not a terminal and no width is given.
const defaultRenderWidth = 80

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print the board once",
	Long: `Load the definition, render the board, and print it to stdout.

Buttons can be pressed before printing with --press, in the order given.
An update that cannot be applied is reported on stderr and the remaining
presses still run.

Examples:
  tileboard render --url http://localhost:8080/definition
  tileboard render --file board.yaml --press b1 --press b2
  tileboard render --file board.json --width 60 --plain > board.txt`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

var (
	renderWidth   int
	renderPresses []string
	renderPlain   bool
)

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().IntVarP(&renderWidth, "width", "w", 0, "render width in cells (default: terminal width, or 80)")
	renderCmd.Flags().StringArrayVarP(&renderPresses, "press", "p", nil, "press the button with this elementKey before printing (repeatable)")
	renderCmd.Flags().BoolVar(&renderPlain, "plain", false, "strip colors and hyperlinks from the output")
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	b, err := newBoard(cfg)
	if err != nil {
		return err
	}
	defer b.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	out, err := renderBoard(ctx, b, renderOptions{
		width:   resolveWidth(renderWidth),
		presses: renderPresses,
		warn: func(format string, a ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: "+format+"\n", a...)
		},
	})
	if err != nil {
		return err
	}

	if renderPlain {
		out = ansi.Strip(out)
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)
	return nil
}

type renderOptions struct {
	width   int
	presses []string
	warn    func(format string, a ...any)
}

// renderBoard loads the document, applies the presses, and returns the page.
func renderBoard(ctx context.Context, b *board, opts renderOptions) (string, error) {
	doc, err := bootstrap.Load(ctx, b.source(), b.sourceOptions()...)
	if err != nil {
		return "", fmt.Errorf("failed to load board: %w", err)
	}

	tree := render.New(b.registry, render.WithLogger(b.logger), render.WithStyles(b.styles))
	defer tree.Unmount()
	if doc.Root != nil {
		tree.Mount(doc.Root)
	}

	rctx := render.Context{Width: opts.width, Styles: b.styles}
	// Drawing registers the mounted elements so presses can reference them
	tree.Render(rctx)

	for _, key := range opts.presses {
		button, ok := tree.Button(key)
		if !ok {
			return "", fmt.Errorf("no button with elementKey %q is mounted", key)
		}
		if err := b.dispatcher.Dispatch(button.Key, button.Action); err != nil {
			opts.warn("press %s: %v", key, err)
		}
		tree.Render(rctx)
	}

	return tree.Page(rctx, doc.Title), nil
}

// resolveWidth picks the flag value, then the terminal width, then the default.
func resolveWidth(flag int) int {
	if flag > 0 {
		return flag
	}
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return defaultRenderWidth
}
