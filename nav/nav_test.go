package nav

import (
	"testing"

	"github.com/stephenmfriend/taskpane/form"
	"github.com/stephenmfriend/taskpane/keys"
	"github.com/stephenmfriend/taskpane/session"
	"github.com/stephenmfriend/taskpane/task"
)

type recorder struct {
	creates []task.CreateDTO
	updates map[string]task.UpdateDTO
	quits   int
	helps   int
	reloads int
}

func (r *recorder) hooks() Hooks {
	r.updates = map[string]task.UpdateDTO{}
	return Hooks{
		Create:  func(d task.CreateDTO) { r.creates = append(r.creates, d) },
		Update:  func(uuid string, u task.UpdateDTO) { r.updates[uuid] = u },
		Quit:    func() { r.quits++ },
		Help:    func() { r.helps++ },
		Refresh: func() { r.reloads++ },
	}
}

func fixture() []task.Task {
	return []task.Task{
		{UUID: "t1", Status: task.StatusPending, Description: "first"},
		{UUID: "t2", Status: task.StatusPending, Description: "second"},
		{UUID: "w1", Status: task.StatusWaiting, Description: "blocked"},
		{UUID: "d1", Status: task.StatusCompleted, Description: "done"},
	}
}

func setup(t *testing.T) (*Controller, *Router, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := New(nil, nil, keys.DefaultKeyMap(), rec.hooks())
	c.ApplyTasks(fixture())
	return c, NewRouter(c), rec
}

func press(t *testing.T, r *Router, names ...string) {
	t.Helper()
	for _, n := range names {
		ev := keys.Named(n)
		if n == "shift+tab" {
			ev = keys.Event{Name: "tab", Shift: true}
		}
		r.Dispatch(ev)
	}
}

func TestInitialFocusFirstNonEmpty(t *testing.T) {
	c := New(nil, nil, keys.DefaultKeyMap(), Hooks{})
	c.ApplyTasks([]task.Task{{UUID: "d1", Status: task.StatusCompleted}})
	if s := c.State(); s.ActivePane != PaneBoard || s.BoardColumn != 2 || s.BoardIndex != 0 {
		t.Errorf("state = %+v, want board column 2", s)
	}

	empty := New(nil, nil, keys.DefaultKeyMap(), Hooks{})
	empty.ApplyTasks(nil)
	if s := empty.State(); s.BoardColumn != 0 || s.BoardIndex != 0 {
		t.Errorf("empty state = %+v", s)
	}
}

func TestTogglePanePreservesIndices(t *testing.T) {
	c, r, _ := setup(t)
	c.ApplySessions([]session.TerminalSession{{ID: "a"}, {ID: "b"}})

	press(t, r, "j")
	press(t, r, "tab", "j")
	s := c.State()
	if s.ActivePane != PaneAgents || s.AgentIndex != 1 || s.BoardIndex != 1 {
		t.Fatalf("state = %+v", s)
	}

	press(t, r, "tab")
	s = c.State()
	if s.ActivePane != PaneBoard || s.BoardIndex != 1 || s.AgentIndex != 1 {
		t.Errorf("state after toggling back = %+v", s)
	}
}

func TestDetailOpenAndClose(t *testing.T) {
	c, r, _ := setup(t)
	press(t, r, "j", "enter")

	s := c.State()
	if s.Overlay != OverlayDetail || s.DetailUUID != "t2" {
		t.Fatalf("state = %+v, want detail of t2", s)
	}
	if r.Resolve() != ConsumerDetail {
		t.Errorf("resolve = %s", r.Resolve())
	}

	press(t, r, "down", "down")
	if c.State().BoardIndex != 1 {
		t.Error("board moved while detail was open")
	}

	press(t, r, "esc")
	s = c.State()
	if s.Overlay != OverlayNone || s.BoardColumn != 0 || s.BoardIndex != 1 {
		t.Errorf("state after close = %+v", s)
	}
}

func TestDetailCloseButton(t *testing.T) {
	c, r, rec := setup(t)
	press(t, r, "enter", "right", "enter")
	if c.Overlay() != OverlayNone {
		t.Errorf("overlay = %s after activating Close", c.Overlay())
	}
	if rec.quits != 0 {
		t.Error("closing the detail overlay must not quit")
	}
}

func TestEnterOnEmptyColumnDoesNothing(t *testing.T) {
	c := New(nil, nil, keys.DefaultKeyMap(), Hooks{})
	r := NewRouter(c)
	c.ApplyTasks(nil)
	press(t, r, "enter")
	if c.Overlay() != OverlayNone {
		t.Error("enter on an empty column opened an overlay")
	}
}

func TestCreateFlow(t *testing.T) {
	c, r, rec := setup(t)
	press(t, r, "l", "n")
	if s := c.State(); s.Overlay != OverlayForm || s.FormMode != form.ModeCreate {
		t.Fatalf("state = %+v", s)
	}

	press(t, r, "h", "i", "tab", "w", "e", "b", "tab", "space", "tab")
	c.Form().SetValue(form.FieldTags, "bug, urgent, ")
	press(t, r, "enter")

	if len(rec.creates) != 1 {
		t.Fatalf("creates = %d, want 1", len(rec.creates))
	}
	got := rec.creates[0]
	if got.Description != "hi" || got.Project != "web" || got.Priority != "L" || len(got.Tags) != 2 {
		t.Errorf("create = %+v", got)
	}
	if s := c.State(); s.Overlay != OverlayNone || s.ActivePane != PaneBoard || s.BoardColumn != 1 {
		t.Errorf("state after submit = %+v, want board column 1", s)
	}
}

func TestEscapeWithFormOpenReachesFormOnly(t *testing.T) {
	c, r, rec := setup(t)
	press(t, r, "j", "l", "n")
	before := c.State()

	consumer, ok := r.Dispatch(keys.Named("esc"))
	if !ok || consumer != ConsumerForm {
		t.Fatalf("esc delivered to %s, want form", consumer)
	}
	after := c.State()
	if after.Overlay != OverlayNone {
		t.Errorf("form still open after esc")
	}
	if after.BoardColumn != before.BoardColumn || after.BoardIndex != before.BoardIndex {
		t.Errorf("board moved: %+v -> %+v", before, after)
	}
	if len(rec.creates) != 0 || rec.quits != 0 {
		t.Error("cancel must have no side effects")
	}
}

func TestFormCapturesPaneKeys(t *testing.T) {
	c, r, rec := setup(t)
	press(t, r, "n", "j", "k", "l", "q", "r")
	if c.Overlay() != OverlayForm {
		t.Fatal("form closed by pane keys")
	}
	if got := c.Form().Draft().Description; got != "jklqr" {
		t.Errorf("description = %q", got)
	}
	if s := c.State(); s.BoardIndex != 0 || s.BoardColumn != 0 || rec.quits != 0 || rec.reloads != 0 {
		t.Errorf("pane keys leaked: state=%+v quits=%d reloads=%d", s, rec.quits, rec.reloads)
	}
}

func TestBlankSubmitKeepsFormOpen(t *testing.T) {
	c, r, rec := setup(t)
	press(t, r, "n", "space", "space", "enter")
	if c.Overlay() != OverlayForm || !c.Form().Invalid() {
		t.Error("blank submit should leave the form open and invalid")
	}
	if len(rec.creates) != 0 {
		t.Error("blank submit emitted a dto")
	}
}

func TestEditFromDetail(t *testing.T) {
	c, r, rec := setup(t)
	press(t, r, "j", "enter", "e")
	if s := c.State(); s.Overlay != OverlayForm || s.FormMode != form.ModeEdit {
		t.Fatalf("state = %+v", s)
	}

	press(t, r, "esc")
	if s := c.State(); s.Overlay != OverlayDetail || s.DetailUUID != "t2" {
		t.Fatalf("cancel should return to detail, state = %+v", s)
	}

	press(t, r, "e", "!", "enter")
	u, ok := rec.updates["t2"]
	if !ok || u.Description == nil || *u.Description != "second!" {
		t.Fatalf("updates = %+v", rec.updates)
	}
	if u.Project != nil || u.Tags != nil {
		t.Errorf("unchanged fields sent: %+v", u)
	}
	if s := c.State(); s.Overlay != OverlayNone || s.ActivePane != PaneBoard || s.BoardIndex != 1 {
		t.Errorf("state after submit = %+v", s)
	}
}

func TestEditWithoutChangesSendsNothing(t *testing.T) {
	c, r, rec := setup(t)
	press(t, r, "enter", "enter", "enter")
	if len(rec.updates) != 0 {
		t.Errorf("empty update was sent: %+v", rec.updates)
	}
	if c.Overlay() != OverlayNone {
		t.Error("submit should close the overlays")
	}
}

func TestAgentOpensLinkedTask(t *testing.T) {
	c, r, _ := setup(t)
	c.ApplySessions([]session.TerminalSession{
		{ID: "s0", Status: session.StatusRunning},
		{ID: "s1", Status: session.StatusRunning, TaskUUID: "w1"},
	})

	press(t, r, "tab", "enter")
	if c.Overlay() != OverlayNone {
		t.Fatal("session without a task opened an overlay")
	}

	press(t, r, "j", "enter")
	if s := c.State(); s.Overlay != OverlayDetail || s.DetailUUID != "w1" {
		t.Fatalf("state = %+v", s)
	}
	press(t, r, "q")
	if s := c.State(); s.Overlay != OverlayNone || s.ActivePane != PaneAgents || s.AgentIndex != 1 {
		t.Errorf("state after close = %+v", s)
	}
}

func TestDetailFollowsRefresh(t *testing.T) {
	c, r, _ := setup(t)
	press(t, r, "enter")

	tasks := fixture()
	tasks[0].Description = "renamed"
	c.ApplyTasks(tasks)
	if got := c.Detail().Task().Description; got != "renamed" {
		t.Errorf("detail description = %q", got)
	}

	c.ApplyTasks(tasks[1:])
	if c.Detail() == nil || c.Detail().Task().UUID != "t1" {
		t.Error("detail should keep its last copy when the task disappears")
	}
}

func TestRefreshReconcilesBoard(t *testing.T) {
	c, r, _ := setup(t)
	press(t, r, "j")

	tasks := fixture()
	tasks[0], tasks[1] = tasks[1], tasks[0]
	c.ApplyTasks(tasks)
	if s := c.State(); s.BoardIndex != 0 {
		t.Errorf("selection did not follow t2: %+v", s)
	}
	if sel, _ := c.Board().Selected(); sel.UUID != "t2" {
		t.Errorf("selected = %s", sel.UUID)
	}
}

func TestGlobalKeys(t *testing.T) {
	_, r, rec := setup(t)
	press(t, r, "?", "r", "q")
	if rec.helps != 1 || rec.reloads != 1 || rec.quits != 1 {
		t.Errorf("helps=%d reloads=%d quits=%d", rec.helps, rec.reloads, rec.quits)
	}
}

func TestUnknownKeysDropped(t *testing.T) {
	c, r, _ := setup(t)
	before := c.State()
	for _, ev := range []keys.Event{keys.Named("f13"), keys.Named(""), {Name: "z", Ctrl: true}} {
		if consumer, ok := r.Dispatch(ev); ok {
			t.Errorf("%q delivered to %s", ev, consumer)
		}
	}
	if c.State() != before {
		t.Error("unknown keys changed state")
	}
}

func TestResolvePrecedence(t *testing.T) {
	c, r, _ := setup(t)
	if r.Resolve() != ConsumerBoard {
		t.Errorf("resolve = %s, want board", r.Resolve())
	}
	c.TogglePane()
	if r.Resolve() != ConsumerAgents {
		t.Errorf("resolve = %s, want agents", r.Resolve())
	}
	c.OpenDetail(task.Task{UUID: "x"})
	if r.Resolve() != ConsumerDetail {
		t.Errorf("resolve = %s, want detail", r.Resolve())
	}
	c.OpenEdit(task.Task{UUID: "x"})
	if r.Resolve() != ConsumerForm {
		t.Errorf("resolve = %s, want form", r.Resolve())
	}
}
