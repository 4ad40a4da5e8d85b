// Package nav is the dashboard's focus state machine. It owns the board and
// agent pane models, the overlay stack (detail, form) and the transitions
// between them. Key input reaches it only through a Router.
package nav

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/stephenmfriend/taskpane/board"
	"github.com/stephenmfriend/taskpane/detail"
	"github.com/stephenmfriend/taskpane/form"
	"github.com/stephenmfriend/taskpane/keys"
	"github.com/stephenmfriend/taskpane/session"
	"github.com/stephenmfriend/taskpane/task"
)

// Pane is a focusable region under the overlays.
type Pane int

const (
	PaneBoard Pane = iota
	PaneAgents
)

func (p Pane) String() string {
	if p == PaneAgents {
		return "agents"
	}
	return "board"
}

// OverlayKind is the kind of the topmost overlay.
type OverlayKind int

const (
	OverlayNone OverlayKind = iota
	OverlayDetail
	OverlayForm
)

func (k OverlayKind) String() string {
	switch k {
	case OverlayDetail:
		return "detail"
	case OverlayForm:
		return "form"
	default:
		return "none"
	}
}

// SelectionState is a snapshot of where focus is.
type SelectionState struct {
	ActivePane  Pane
	BoardColumn int
	BoardIndex  int
	AgentIndex  int
	Overlay     OverlayKind
	// DetailUUID is the task shown by the nearest detail overlay, if any.
	DetailUUID string
	// FormMode is meaningful only when Overlay is OverlayForm.
	FormMode form.Mode
}

// Hooks are the collaborators the controller calls out to. Any may be nil.
type Hooks struct {
	Create  func(task.CreateDTO)
	Update  func(uuid string, u task.UpdateDTO)
	Refresh func()
	Help    func()
	Quit    func()
}

type overlay struct {
	detail *detail.Overlay
	form   *form.Form
}

type position struct {
	column, index int
}

// Controller is the navigation state machine.
type Controller struct {
	board  *board.Board
	agents *session.Pane
	keys   keys.KeyMap
	hooks  Hooks

	pane   Pane
	stack  []overlay
	origin position
	seeded bool
}

// New returns a controller focused on the board.
func New(b *board.Board, agents *session.Pane, km keys.KeyMap, hooks Hooks) *Controller {
	if b == nil {
		b = board.New(nil, nil)
	}
	if agents == nil {
		agents = session.NewPane()
	}
	return &Controller{board: b, agents: agents, keys: km, hooks: hooks}
}

// Board returns the board model.
func (c *Controller) Board() *board.Board { return c.board }

// Agents returns the agent pane model.
func (c *Controller) Agents() *session.Pane { return c.agents }

// Pane returns the focused pane.
func (c *Controller) Pane() Pane { return c.pane }

// Overlay returns the kind of the topmost overlay.
func (c *Controller) Overlay() OverlayKind {
	if len(c.stack) == 0 {
		return OverlayNone
	}
	if c.stack[len(c.stack)-1].form != nil {
		return OverlayForm
	}
	return OverlayDetail
}

// Form returns the open form, or nil.
func (c *Controller) Form() *form.Form {
	if c.Overlay() != OverlayForm {
		return nil
	}
	return c.stack[len(c.stack)-1].form
}

// Detail returns the topmost detail overlay, or nil when none is open. A
// form stacked on top of a detail overlay does not hide it here.
func (c *Controller) Detail() *detail.Overlay {
	for i := len(c.stack) - 1; i >= 0; i-- {
		if c.stack[i].detail != nil {
			return c.stack[i].detail
		}
	}
	return nil
}

// State returns the current selection state.
func (c *Controller) State() SelectionState {
	s := SelectionState{
		ActivePane:  c.pane,
		BoardColumn: c.board.ActiveColumn(),
		BoardIndex:  c.board.Index(),
		AgentIndex:  c.agents.Index(),
		Overlay:     c.Overlay(),
	}
	if d := c.Detail(); d != nil {
		s.DetailUUID = d.Task().UUID
	}
	if f := c.Form(); f != nil {
		s.FormMode = f.Mode()
	}
	return s
}

// ApplyTasks installs a new task snapshot and reconciles every selection
// against it. The first snapshot focuses the first non-empty column.
func (c *Controller) ApplyTasks(tasks []task.Task) {
	c.board.SetTasks(tasks)
	if !c.seeded {
		c.seeded = true
		c.board.FocusFirstNonEmpty()
	}

	byUUID := make(map[string]task.Task, len(tasks))
	for _, t := range tasks {
		byUUID[t.UUID] = t
	}
	for _, o := range c.stack {
		if o.detail == nil {
			continue
		}
		if t, ok := byUUID[o.detail.Task().UUID]; ok {
			o.detail.SetTask(t)
		}
	}
}

// ApplySessions installs a new session snapshot.
func (c *Controller) ApplySessions(sessions []session.TerminalSession) {
	c.agents.SetSessions(sessions)
}

// TogglePane switches focus between the board and the agent pane. Each
// pane keeps its own index.
func (c *Controller) TogglePane() {
	if c.pane == PaneBoard {
		c.pane = PaneAgents
	} else {
		c.pane = PaneBoard
	}
}

func (c *Controller) push(o overlay) {
	if len(c.stack) == 0 {
		c.origin = position{c.board.ActiveColumn(), c.board.Index()}
	}
	c.stack = append(c.stack, o)
}

func (c *Controller) pop() {
	if len(c.stack) > 0 {
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// OpenDetail shows t in the detail overlay.
func (c *Controller) OpenDetail(t task.Task) {
	d := detail.New(t, c.keys)
	d.OnEdit = c.OpenEdit
	d.OnClose = c.pop
	c.push(overlay{detail: d})
}

// OpenCreate opens an empty create form.
func (c *Controller) OpenCreate() {
	c.openForm(form.NewCreate(c.keys))
}

// OpenEdit opens an edit form populated from t.
func (c *Controller) OpenEdit(t task.Task) {
	c.openForm(form.NewEdit(t, c.keys))
}

func (c *Controller) openForm(f *form.Form) {
	f.OnCancel = c.pop
	f.OnSubmit = c.submit
	c.push(overlay{form: f})
}

// submit hands the result to the collaborator and returns to the board at
// the position focused when the first overlay opened.
func (c *Controller) submit(res form.Result) {
	switch res.Mode {
	case form.ModeEdit:
		if c.hooks.Update != nil && !res.Update.IsEmpty() {
			c.hooks.Update(res.UUID, res.Update)
		}
	default:
		if c.hooks.Create != nil {
			c.hooks.Create(res.Create)
		}
	}
	c.stack = nil
	c.pane = PaneBoard
	c.board.Focus(c.origin.column, c.origin.index)
}

func (c *Controller) handleGlobal(ev keys.Event) bool {
	switch {
	case key.Matches(ev, c.keys.SwitchPane):
		c.TogglePane()
	case key.Matches(ev, c.keys.Refresh):
		call(c.hooks.Refresh)
	case key.Matches(ev, c.keys.Help):
		call(c.hooks.Help)
	case key.Matches(ev, c.keys.Quit):
		call(c.hooks.Quit)
	default:
		return false
	}
	return true
}

func (c *Controller) handleBoard(ev keys.Event) {
	switch {
	case key.Matches(ev, c.keys.Up):
		c.board.Navigate(board.Up)
	case key.Matches(ev, c.keys.Down):
		c.board.Navigate(board.Down)
	case key.Matches(ev, c.keys.Left):
		c.board.MoveColumn(board.Left)
	case key.Matches(ev, c.keys.Right):
		c.board.MoveColumn(board.Right)
	case key.Matches(ev, c.keys.Confirm):
		if t, ok := c.board.Selected(); ok {
			c.OpenDetail(t)
		}
	case key.Matches(ev, c.keys.New):
		c.OpenCreate()
	default:
		c.handleGlobal(ev)
	}
}

func (c *Controller) handleAgents(ev keys.Event) {
	switch {
	case key.Matches(ev, c.keys.Up):
		c.agents.Up()
	case key.Matches(ev, c.keys.Down):
		c.agents.Down()
	case key.Matches(ev, c.keys.Confirm):
		s, ok := c.agents.Selected()
		if !ok || s.TaskUUID == "" {
			return
		}
		if t, ok := c.board.Find(s.TaskUUID); ok {
			c.OpenDetail(t)
		}
	default:
		c.handleGlobal(ev)
	}
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
