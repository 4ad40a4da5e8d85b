// Package tui hosts the dashboard in a Bubble Tea program. It loads task and
// session snapshots in the background, applies them between key events and
// hands submitted forms to the task repository.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stephenmfriend/taskpane/board"
	"github.com/stephenmfriend/taskpane/keys"
	"github.com/stephenmfriend/taskpane/logging"
	"github.com/stephenmfriend/taskpane/nav"
	"github.com/stephenmfriend/taskpane/ratelimit"
	"github.com/stephenmfriend/taskpane/session"
	"github.com/stephenmfriend/taskpane/task"
	"github.com/stephenmfriend/taskpane/theme"
	"github.com/stephenmfriend/taskpane/ui"
)

// Repository is the task store the dashboard reads and writes.
type Repository interface {
	Export(ctx context.Context) ([]task.Task, error)
	Create(ctx context.Context, dto task.CreateDTO) (string, error)
	Update(ctx context.Context, uuid string, u task.UpdateDTO) error
}

var errNoRepository = errors.New("no task repository")

const refreshingStatus = "Refreshing..."

// commandTimeout bounds every repository and session call.
const commandTimeout = 15 * time.Second

// Options configures a Model.
type Options struct {
	Repo     Repository
	Sessions session.Source
	Theme    *theme.Theme
	Keys     keys.KeyMap
	Labels   []string
	Mapping  board.Mapping
	// Refresh is the reload interval; zero disables periodic reloads.
	Refresh time.Duration
	// Now is the clock used for overdue checks.
	Now func() time.Time
}

// host is state shared between the Model value and the controller hooks.
type host struct {
	pending []tea.Cmd
	showAll bool
	status  string
}

// Model is the Bubble Tea model.
type Model struct {
	repo     Repository
	sessions session.Source
	theme    *theme.Theme
	styles   ui.Styles
	keys     keys.KeyMap
	refresh  time.Duration
	now      func() time.Time
	limiter  *ratelimit.Limiter

	nav    *nav.Controller
	router *nav.Router
	host   *host

	spinner spinner.Model
	help    help.Model

	width   int
	height  int
	loading bool
	err     error
}

// NewModel creates a new TUI model.
func NewModel(opts Options) Model {
	th := opts.Theme
	if th == nil {
		th = theme.Default()
	}
	if opts.Sessions == nil {
		opts.Sessions = session.StaticSource(nil)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if len(opts.Keys.Up.Keys()) == 0 {
		opts.Keys = keys.DefaultKeyMap()
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(th.Accent.Lipgloss())

	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(th.Accent.Lipgloss())
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(th.Dim.Lipgloss())
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = h.Styles.ShortDesc

	m := Model{
		repo:     opts.Repo,
		sessions: opts.Sessions,
		theme:    th,
		styles:   ui.NewStyles(th),
		keys:     opts.Keys,
		refresh:  opts.Refresh,
		now:      opts.Now,
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultRefreshConfig()),
		host:     &host{},
		spinner:  s,
		help:     h,
		loading:  true,
	}

	m.nav = nav.New(board.New(opts.Labels, opts.Mapping), session.NewPane(), opts.Keys, m.hooks())
	m.router = nav.NewRouter(m.nav)
	return m
}

func (m Model) hooks() nav.Hooks {
	hs := m.host
	return nav.Hooks{
		Create: func(dto task.CreateDTO) {
			logging.Debug("create submitted", "dto", dto)
			hs.pending = append(hs.pending, createTask(m.repo, dto))
		},
		Update: func(uuid string, u task.UpdateDTO) {
			logging.Debug("update submitted", "uuid", uuid, "dto", u)
			hs.pending = append(hs.pending, updateTask(m.repo, uuid, u))
		},
		Refresh: func() {
			if !m.limiter.Allow("refresh") {
				hs.status = "Refresh throttled"
				return
			}
			hs.status = refreshingStatus
			hs.pending = append(hs.pending, loadTasks(m.repo), loadSessions(m.sessions))
		},
		Help: func() { hs.showAll = !hs.showAll },
		Quit: func() { hs.pending = append(hs.pending, tea.Quit) },
	}
}

// Controller exposes the navigation state machine.
func (m Model) Controller() *nav.Controller { return m.nav }

// Messages
type tasksLoadedMsg struct {
	tasks []task.Task
	err   error
}

type sessionsLoadedMsg struct {
	sessions []session.TerminalSession
	err      error
}

type taskSavedMsg struct {
	action string
	uuid   string
	err    error
}

type tickMsg time.Time

// Init starts the TUI.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadTasks(m.repo), loadSessions(m.sessions), tickCmd(m.refresh))
}

func tickCmd(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func loadTasks(repo Repository) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return tasksLoadedMsg{}
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		tasks, err := repo.Export(ctx)
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

func loadSessions(src session.Source) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		sessions, err := src.Sessions(ctx)
		return sessionsLoadedMsg{sessions: sessions, err: err}
	}
}

func createTask(repo Repository, dto task.CreateDTO) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return taskSavedMsg{action: "create", err: errNoRepository}
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		uuid, err := repo.Create(ctx, dto)
		return taskSavedMsg{action: "create", uuid: uuid, err: err}
	}
}

func updateTask(repo Repository, uuid string, u task.UpdateDTO) tea.Cmd {
	return func() tea.Msg {
		if repo == nil {
			return taskSavedMsg{action: "update", uuid: uuid, err: errNoRepository}
		}
		ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
		defer cancel()
		err := repo.Update(ctx, uuid, u)
		return taskSavedMsg{action: "update", uuid: uuid, err: err}
	}
}

// Update handles messages. Snapshots are applied whole, between key events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 4
		m.nav.Board().Resize(bodyHeight(m.height))
		m.nav.Agents().Resize(bodyHeight(m.height))
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tickMsg:
		return m, tea.Batch(loadTasks(m.repo), loadSessions(m.sessions), tickCmd(m.refresh))

	case tasksLoadedMsg:
		m.loading = false
		if msg.err != nil {
			logging.Warn("task refresh failed", "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if m.host.status == refreshingStatus {
			m.host.status = ""
		}
		m.nav.ApplyTasks(msg.tasks)
		logging.Debug("tasks loaded", "count", len(msg.tasks))
		return m, nil

	case sessionsLoadedMsg:
		if msg.err != nil {
			logging.Warn("session refresh failed", "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.nav.ApplySessions(msg.sessions)
		return m, nil

	case taskSavedMsg:
		if msg.err != nil {
			logging.Error("task save failed", "action", msg.action, "uuid", msg.uuid, "error", msg.err)
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.action == "create" {
			m.host.status = "Created task " + task.ShortUUID(msg.uuid)
		} else {
			m.host.status = "Updated task " + task.ShortUUID(msg.uuid)
		}
		logging.Info("task saved", "action", msg.action, "uuid", msg.uuid)
		return m, loadTasks(m.repo)

	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if consumer, ok := m.router.Dispatch(keys.FromTea(msg)); ok {
		logging.Debug("key routed", "consumer", consumer.String())
	}

	cmds := m.host.pending
	m.host.pending = nil
	if len(cmds) == 0 {
		return m, nil
	}
	return m, tea.Batch(cmds...)
}

// bindings adapts a flat binding list to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func (m Model) helpKeys() help.KeyMap {
	switch m.nav.Overlay() {
	case nav.OverlayForm:
		return bindings(m.keys.FormHelp())
	case nav.OverlayDetail:
		return bindings(m.keys.DetailHelp())
	default:
		return m.keys
	}
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	st := m.styles
	var b strings.Builder

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		st.Logo.Render("◆ TASKPANE"),
		"  ",
		st.Tagline.Render("tasks and agents at a glance"),
	)
	b.WriteString(header)
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(st.Error.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}

	if m.loading {
		loading := lipgloss.NewStyle().
			Width(m.width - 4).
			Align(lipgloss.Center).
			Padding(4, 0).
			Render(m.spinner.View() + "  Loading tasks...")
		b.WriteString(loading)
		return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
	}

	b.WriteString(m.body(bodyHeight(m.height)))
	b.WriteString("\n")

	b.WriteString(st.StatusBar.Width(m.width - 4).Render(m.statusLine()))
	b.WriteString("\n")

	h := m.help
	h.ShowAll = m.host.showAll
	b.WriteString(h.View(m.helpKeys()))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

// bodyHeight is the height left for the panes once the header, status bar
// and help are drawn.
func bodyHeight(height int) int {
	return max(height-9, 6)
}

func (m Model) body(height int) string {
	width := m.width - 4

	switch m.nav.Overlay() {
	case nav.OverlayForm:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			m.nav.Form().View(m.theme, min(width, 72)))
	case nav.OverlayDetail:
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
			m.nav.Detail().View(m.theme, min(width, 80), m.now()))
	}

	agentsWidth := width / 4
	if agentsWidth < 28 {
		agentsWidth = 28
	}
	boardWidth := width - agentsWidth - 4

	boardView := board.View(m.nav.Board(), m.theme, board.ViewOptions{
		Width:  boardWidth,
		Height: height,
		Active: m.nav.Pane() == nav.PaneBoard,
		Now:    m.now(),
	})
	agentsView := m.nav.Agents().View(m.theme, agentsWidth, height, m.nav.Pane() == nav.PaneAgents)
	return lipgloss.JoinHorizontal(lipgloss.Top, boardView, agentsView)
}

func (m Model) statusLine() string {
	parts := []string{
		fmt.Sprintf("%d tasks", m.nav.Board().Total()),
		m.styles.StatusAccent.Render(fmt.Sprintf("%d running", m.nav.Agents().Running())),
	}
	if m.host.status != "" {
		parts = append(parts, m.host.status)
	} else {
		parts = append(parts, "Ready")
	}
	return strings.Join(parts, "  •  ")
}
