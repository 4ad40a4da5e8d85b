// Package keys turns terminal key presses into named events and holds the
// dashboard's key bindings.
package keys

import (
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Event is one named key press. Name is the bare key ("a", "tab", "esc",
// "space"...); modifiers are carried as flags.
//
// Text events carry literal input instead of a key name: several runes that
// arrived in one read, or a bracketed paste. They never match a binding.
type Event struct {
	Name  string
	Shift bool
	Ctrl  bool
	Alt   bool
	Text  bool
	Paste bool
}

// Named builds an event without modifiers.
func Named(name string) Event { return Event{Name: name} }

// String renders the event the way bindings are written, e.g. "shift+tab".
func (e Event) String() string {
	if e.Paste {
		return "[" + e.Name + "]"
	}
	var b strings.Builder
	if e.Ctrl {
		b.WriteString("ctrl+")
	}
	if e.Alt {
		b.WriteString("alt+")
	}
	if e.Shift {
		b.WriteString("shift+")
	}
	b.WriteString(e.Name)
	return b.String()
}

// FromTea converts a bubbletea key message to an Event.
func FromTea(msg tea.KeyMsg) Event {
	if msg.Type == tea.KeyRunes && (msg.Paste || len(msg.Runes) > 1) {
		return Event{Name: string(msg.Runes), Alt: msg.Alt, Text: true, Paste: msg.Paste}
	}
	if msg.Type == tea.KeySpace || (msg.Type == tea.KeyRunes && string(msg.Runes) == " ") {
		return Event{Name: "space", Alt: msg.Alt}
	}
	if msg.Type == tea.KeyRunes {
		return Event{Name: string(msg.Runes), Alt: msg.Alt}
	}

	ev := Event{Alt: msg.Alt}
	name := msg.String()
	name = strings.TrimPrefix(name, "alt+")
	for {
		if rest, ok := strings.CutPrefix(name, "ctrl+"); ok {
			ev.Ctrl, name = true, rest
			continue
		}
		if rest, ok := strings.CutPrefix(name, "shift+"); ok {
			ev.Shift, name = true, rest
			continue
		}
		break
	}
	ev.Name = name
	return ev
}

var specialKeys = map[string]tea.KeyType{
	"enter":     tea.KeyEnter,
	"tab":       tea.KeyTab,
	"esc":       tea.KeyEsc,
	"backspace": tea.KeyBackspace,
	"delete":    tea.KeyDelete,
	"left":      tea.KeyLeft,
	"right":     tea.KeyRight,
	"up":        tea.KeyUp,
	"down":      tea.KeyDown,
	"home":      tea.KeyHome,
	"end":       tea.KeyEnd,
	"pgup":      tea.KeyPgUp,
	"pgdown":    tea.KeyPgDown,
}

var ctrlKeys = map[string]tea.KeyType{
	"a": tea.KeyCtrlA,
	"b": tea.KeyCtrlB,
	"c": tea.KeyCtrlC,
	"d": tea.KeyCtrlD,
	"e": tea.KeyCtrlE,
	"f": tea.KeyCtrlF,
	"h": tea.KeyCtrlH,
	"k": tea.KeyCtrlK,
	"n": tea.KeyCtrlN,
	"p": tea.KeyCtrlP,
	"s": tea.KeyCtrlS,
	"u": tea.KeyCtrlU,
	"w": tea.KeyCtrlW,
}

// Tea converts the event back to a bubbletea key message so it can be fed to
// bubbles components. ok is false for names bubbletea has no key for.
func (e Event) Tea() (tea.KeyMsg, bool) {
	switch {
	case e.Text:
		if e.Name == "" {
			return tea.KeyMsg{}, false
		}
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(e.Name), Alt: e.Alt, Paste: e.Paste}, true
	case e.Ctrl:
		t, ok := ctrlKeys[e.Name]
		if !ok {
			return tea.KeyMsg{}, false
		}
		return tea.KeyMsg{Type: t, Alt: e.Alt}, true
	case e.Shift && e.Name == "tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab, Alt: e.Alt}, true
	case e.Name == "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}, Alt: e.Alt}, true
	}

	if t, ok := specialKeys[e.Name]; ok {
		return tea.KeyMsg{Type: t, Alt: e.Alt}, true
	}
	if e.Name != "" && utf8.RuneCountInString(e.Name) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(e.Name), Alt: e.Alt}, true
	}
	return tea.KeyMsg{}, false
}

// KeyMap defines key bindings.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	SwitchPane  key.Binding
	Confirm     key.Binding
	New         key.Binding
	Edit        key.Binding
	Close       key.Binding
	Refresh     key.Binding
	Help        key.Binding
	Quit        key.Binding
	NextField   key.Binding
	PrevField   key.Binding
	PrevPrio    key.Binding
	CyclePrio   key.Binding
	EditButton  key.Binding
	CloseButton key.Binding
	Submit      key.Binding
	Cancel      key.Binding
	ToggleFocus key.Binding
}

// ShortHelp returns key bindings to show in the mini help.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Up, k.Down, k.SwitchPane, k.Confirm, k.New, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.SwitchPane, k.Confirm, k.New, k.Edit, k.Close},
		{k.NextField, k.PrevField, k.PrevPrio, k.CyclePrio, k.Submit, k.Cancel},
		{k.Refresh, k.Help, k.Quit},
	}
}

// DetailHelp is the help shown while the detail overlay is open.
func (k KeyMap) DetailHelp() []key.Binding {
	return []key.Binding{k.ToggleFocus, k.EditButton, k.CloseButton, k.Confirm, k.Edit, k.Close}
}

// FormHelp is the help shown while the form overlay is open.
func (k KeyMap) FormHelp() []key.Binding {
	return []key.Binding{k.NextField, k.PrevField, k.PrevPrio, k.CyclePrio, k.Submit, k.Cancel}
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "prev col"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "next col"),
		),
		SwitchPane: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "pane"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc", "q"),
			key.WithHelp("q/esc", "close"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "prev field"),
		),
		PrevPrio: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "lower priority"),
		),
		CyclePrio: key.NewBinding(
			key.WithKeys("space", "right", "l"),
			key.WithHelp("space/→/l", "next priority"),
		),
		EditButton: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "edit button"),
		),
		CloseButton: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→/l", "close button"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter", "ctrl+s"),
			key.WithHelp("enter", "save"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		ToggleFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch button"),
		),
	}
}
