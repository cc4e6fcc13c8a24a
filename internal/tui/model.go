package tui

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Iron-Ham/tileboard/internal/action"
	"github.com/Iron-Ham/tileboard/internal/bootstrap"
	"github.com/Iron-Ham/tileboard/internal/errors"
	"github.com/Iron-Ham/tileboard/internal/logging"
	"github.com/Iron-Ham/tileboard/internal/registry"
	"github.com/Iron-Ham/tileboard/internal/render"
	"github.com/Iron-Ham/tileboard/internal/tui/keymap"
	"github.com/Iron-Ham/tileboard/internal/tui/msg"
	"github.com/Iron-Ham/tileboard/internal/tui/styles"
	"github.com/Iron-Ham/tileboard/internal/tui/view"
)

// statusTTL is how long a status line message stays visible.
const statusTTL = 4 * time.Second

// Deps holds what the model needs to load and drive a board.
type Deps struct {
	Source     bootstrap.Source
	LoadOpts   []bootstrap.Option
	Registry   *registry.Registry
	Dispatcher *action.Dispatcher
	Styles     *styles.Styles
	Logger     *logging.Logger
	Keymap     *keymap.Keymap
}

// Model is the Bubbletea model for the board.
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc

	source     bootstrap.Source
	loadOpts   []bootstrap.Option
	registry   *registry.Registry
	dispatcher *action.Dispatcher
	styles     *styles.Styles
	logger     *logging.Logger
	keys       *keymap.Keymap

	mode keymap.Mode

	// Loading state
	failedAttempts int
	lastFetchErr   error
	loadErr        error

	// Ready state
	doc  *bootstrap.Document
	tree *render.Tree
	// stale is set when the tree's output changed; shared by every copy
	// of the model
	stale *atomic.Bool
	// content is the last tree render, drawn at contentWidth
	content      string
	contentWidth int

	// Status line
	status      string
	statusError bool
	statusSeq   int

	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	width    int
	height   int
}

// NewModel creates a model in the loading state. Missing dependencies get
// private defaults.
func NewModel(ctx context.Context, deps Deps) Model {
	if deps.Registry == nil {
		deps.Registry = registry.New(nil)
	}
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger()
	}
	if deps.Dispatcher == nil {
		deps.Dispatcher = action.New(deps.Registry, action.WithLogger(deps.Logger), action.WithBus(deps.Registry.Bus()))
	}
	if deps.Styles == nil {
		deps.Styles = styles.Default()
	}
	if deps.Keymap == nil {
		deps.Keymap = keymap.Default()
	}

	ctx, cancel := context.WithCancel(ctx)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = deps.Styles.Spinner

	h := help.New()
	h.Styles.ShortKey = deps.Styles.HelpKey
	h.Styles.FullKey = deps.Styles.HelpKey

	return Model{
		ctx:        ctx,
		cancel:     cancel,
		source:     deps.Source,
		loadOpts:   deps.LoadOpts,
		registry:   deps.Registry,
		dispatcher: deps.Dispatcher,
		styles:     deps.Styles,
		logger:     deps.Logger.WithComponent("tui"),
		keys:       deps.Keymap,
		mode:       keymap.ModeLoading,
		stale:      &atomic.Bool{},
		spinner:    s,
		viewport:   viewport.New(0, 0),
		help:       h,
	}
}

// Init starts loading the definition document.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m Model) load() tea.Cmd {
	return msg.LoadDefinition(m.ctx, m.source, m.loadOpts...)
}

// Mode returns the current mode.
func (m Model) Mode() keymap.Mode {
	return m.mode
}

// Tree returns the mounted tree, or nil before the document loaded.
func (m Model) Tree() *render.Tree {
	return m.tree
}

// Update handles messages and updates the model
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.help.Width = message.Width

	case spinner.TickMsg:
		if m.mode == keymap.ModeLoading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(message)
			cmds = append(cmds, cmd)
		}

	case msg.FetchRetryMsg:
		m.failedAttempts = message.Attempt
		m.lastFetchErr = message.Err

	case msg.LoadedMsg:
		m.handleLoaded(message)

	case msg.ClearStatusMsg:
		if message.Seq == m.statusSeq {
			m.status = ""
		}

	case tea.KeyMsg:
		cmd, quit := m.handleKey(message)
		if quit {
			m.cancel()
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		if m.mode == keymap.ModeReady {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(message)
			cmds = append(cmds, cmd)
		}
	}

	m.layout()
	return m, tea.Batch(cmds...)
}

func (m *Model) handleLoaded(loaded msg.LoadedMsg) {
	if loaded.Err != nil {
		m.mode = keymap.ModeFailed
		m.loadErr = loaded.Err
		return
	}

	if m.tree != nil {
		m.tree.Unmount()
	}
	stale := m.stale
	m.tree = render.New(m.registry,
		render.WithLogger(m.logger),
		render.WithStyles(m.styles),
		render.OnInvalidate(func() { stale.Store(true) }),
	)
	m.doc = loaded.Doc
	if m.doc.Root != nil {
		m.tree.Mount(m.doc.Root)
	}
	m.stale.Store(true)
	m.mode = keymap.ModeReady
	m.loadErr = nil
	m.viewport.GotoTop()
}

// handleKey runs the command bound to key. It reports whether the program
// should quit.
func (m *Model) handleKey(key tea.KeyMsg) (tea.Cmd, bool) {
	command, ok := m.keys.Lookup(key, m.mode)
	if !ok {
		return nil, false
	}

	switch command {
	case keymap.CmdQuit:
		return nil, true

	case keymap.CmdRetry:
		m.mode = keymap.ModeLoading
		m.failedAttempts = 0
		m.lastFetchErr = nil
		return tea.Batch(m.spinner.Tick, m.load()), false

	case keymap.CmdFocusNext:
		m.tree.FocusNext()
	case keymap.CmdFocusPrev:
		m.tree.FocusPrev()
	case keymap.CmdActivate:
		return m.activate(), false

	case keymap.CmdScrollUp:
		m.viewport.LineUp(1)
	case keymap.CmdScrollDown:
		m.viewport.LineDown(1)
	case keymap.CmdPageUp:
		m.viewport.ViewUp()
	case keymap.CmdPageDown:
		m.viewport.ViewDown()

	case keymap.CmdToggleHelp:
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil, false
}

// activate dispatches the focused button's action.
func (m *Model) activate() tea.Cmd {
	b, ok := m.tree.Focused()
	if !ok {
		return nil
	}

	if err := m.dispatcher.Dispatch(b.Key, b.Action); err != nil {
		m.logger.Debug("button press not applied", "button_key", b.Key, "error", err.Error())
		return m.setStatus(describe(err), errors.GetSeverity(err) >= errors.SeverityError)
	}
	return nil
}

func (m *Model) setStatus(text string, isError bool) tea.Cmd {
	m.statusSeq++
	m.status = text
	m.statusError = isError
	return msg.ClearStatusAfter(statusTTL, m.statusSeq)
}

// describe turns a dispatch error into a status line message.
func describe(err error) string {
	var updateErr *errors.UpdateError
	if errors.As(err, &updateErr) && updateErr.ReferenceKey != "" {
		if errors.Is(err, errors.ErrUnknownReference) {
			return fmt.Sprintf("Nothing to update: no element %q", updateErr.ReferenceKey)
		}
		return fmt.Sprintf("Update of %q failed: %v", updateErr.ReferenceKey, errors.Unwrap(err))
	}
	if !errors.IsUserFacing(err) {
		return "Update failed"
	}
	return err.Error()
}

// header renders the document title.
func (m Model) header() string {
	if m.doc == nil {
		return ""
	}
	return render.Heading(render.Context{Width: m.width, Styles: m.styles}, m.doc.Title)
}

// footer renders the status line and help bar.
func (m Model) footer() string {
	parts := make([]string, 0, 2)
	if status := view.RenderStatus(m.styles, m.status, m.statusError, m.width); status != "" {
		parts = append(parts, status)
	}
	parts = append(parts, m.styles.HelpBar.Render(m.help.View(m.keys.Help(m.mode))))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// layout sizes the viewport to the space between header and footer and
// refreshes its content. The tree is redrawn only when it was invalidated
// or the width changed.
func (m *Model) layout() {
	if m.mode != keymap.ModeReady || m.tree == nil {
		return
	}
	if m.stale.Swap(false) || m.width != m.contentWidth {
		m.content = m.tree.Render(render.Context{Width: m.width, Styles: m.styles})
		m.contentWidth = m.width
	}

	m.viewport.Width = m.width
	if m.height > 0 {
		m.viewport.Height = max(m.height-lipgloss.Height(m.header())-lipgloss.Height(m.footer()), 1)
	} else {
		// No size yet; show everything
		m.viewport.Height = lipgloss.Height(m.content)
	}
	m.viewport.SetContent(m.content)
}

// View renders the model
func (m Model) View() string {
	switch m.mode {
	case keymap.ModeLoading:
		body := view.RenderLoading(m.styles, view.LoadingState{
			Source:         m.sourceName(),
			Spinner:        m.spinner.View(),
			FailedAttempts: m.failedAttempts,
			LastError:      m.lastFetchErr,
			Width:          m.width,
		})
		return lipgloss.JoinVertical(lipgloss.Left, body, m.footer())

	case keymap.ModeFailed:
		body := view.RenderFailure(m.styles, view.FailureState{
			Source: m.sourceName(),
			Err:    m.loadErr,
			Width:  m.width,
		})
		return lipgloss.JoinVertical(lipgloss.Left, body, m.footer())
	}

	parts := make([]string, 0, 3)
	if header := m.header(); header != "" {
		parts = append(parts, header)
	}
	parts = append(parts, m.viewport.View(), m.footer())
	return strings.Join(parts, "\n")
}

func (m Model) sourceName() string {
	if m.source == nil {
		return "(no source)"
	}
	return m.source.String()
}
