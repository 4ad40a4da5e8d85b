// Package detail is the read-only task overlay with its Edit / Close button
// row.
package detail

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/stephenmfriend/taskpane/keys"
	"github.com/stephenmfriend/taskpane/task"
)

// Button identifies a button in the overlay's button row.
type Button int

const (
	ButtonEdit Button = iota
	ButtonClose
)

func (b Button) String() string {
	if b == ButtonClose {
		return "Close"
	}
	return "Edit"
}

// Overlay shows one task. OnEdit fires each time the user asks to edit;
// OnClose fires once, after which the overlay ignores input.
type Overlay struct {
	task   task.Task
	focus  Button
	closed bool
	keys   keys.KeyMap

	OnEdit  func(task.Task)
	OnClose func()
}

// New returns an overlay for t with the Edit button focused.
func New(t task.Task, km keys.KeyMap) *Overlay {
	return &Overlay{task: t, keys: km}
}

// Task returns the task being shown.
func (o *Overlay) Task() task.Task { return o.task }

// SetTask replaces the shown task, used when a refreshed snapshot carries a
// newer copy of it.
func (o *Overlay) SetTask(t task.Task) { o.task = t }

// Focus returns the focused button.
func (o *Overlay) Focus() Button { return o.focus }

// Closed reports whether the overlay has been closed.
func (o *Overlay) Closed() bool { return o.closed }

// Toggle moves focus to the other button.
func (o *Overlay) Toggle() {
	if o.focus == ButtonEdit {
		o.focus = ButtonClose
	} else {
		o.focus = ButtonEdit
	}
}

// Activate triggers the focused button.
func (o *Overlay) Activate() {
	if o.focus == ButtonClose {
		o.Close()
		return
	}
	o.Edit()
}

// Edit asks the host to open the edit form.
func (o *Overlay) Edit() {
	if o.closed {
		return
	}
	if o.OnEdit != nil {
		o.OnEdit(o.task)
	}
}

// Close dismisses the overlay.
func (o *Overlay) Close() {
	if o.closed {
		return
	}
	o.closed = true
	if o.OnClose != nil {
		o.OnClose()
	}
}

// HandleKey processes one key event. Unbound keys are ignored.
func (o *Overlay) HandleKey(ev keys.Event) {
	if o.closed {
		return
	}

	switch {
	case key.Matches(ev, o.keys.ToggleFocus):
		o.Toggle()
	case key.Matches(ev, o.keys.EditButton):
		o.focus = ButtonEdit
	case key.Matches(ev, o.keys.CloseButton):
		o.focus = ButtonClose
	case key.Matches(ev, o.keys.Confirm):
		o.Activate()
	case key.Matches(ev, o.keys.Edit):
		o.Edit()
	case key.Matches(ev, o.keys.Close):
		o.Close()
	}
}
