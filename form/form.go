// Package form is the create / edit task form: field focus, priority
// cycling, validation and DTO assembly.
package form

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/stephenmfriend/taskpane/keys"
	"github.com/stephenmfriend/taskpane/task"
)

// Mode says whether the form creates a task or edits one.
type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Field is a form field, in focus order.
type Field int

const (
	FieldDescription Field = iota
	FieldProject
	FieldPriority
	FieldTags
	FieldDue
	fieldCount
)

func (f Field) String() string {
	switch f {
	case FieldProject:
		return "Project"
	case FieldPriority:
		return "Priority"
	case FieldTags:
		return "Tags"
	case FieldDue:
		return "Due"
	default:
		return "Description"
	}
}

// Priority is the form's priority selector state.
type Priority int

const (
	PriorityNone Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	priorityCount
)

// Next cycles None -> Low -> Medium -> High -> None.
func (p Priority) Next() Priority { return (p + 1) % priorityCount }

// Prev cycles in the opposite direction.
func (p Priority) Prev() Priority { return (p + priorityCount - 1) % priorityCount }

// Code is the Taskwarrior priority value, "" for none.
func (p Priority) Code() string {
	switch p {
	case PriorityLow:
		return "L"
	case PriorityMedium:
		return "M"
	case PriorityHigh:
		return "H"
	default:
		return ""
	}
}

// Label is the human-readable priority.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityMedium:
		return "Medium"
	case PriorityHigh:
		return "High"
	default:
		return "None"
	}
}

// ParsePriority maps a Taskwarrior code to a Priority. Unknown codes are none.
func ParsePriority(code string) Priority {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "L":
		return PriorityLow
	case "M":
		return PriorityMedium
	case "H":
		return PriorityHigh
	default:
		return PriorityNone
	}
}

// Draft is the unsaved form content. Tags and Due are raw text.
type Draft struct {
	Description string
	Project     string
	Priority    Priority
	Tags        string
	Due         string
}

// Valid reports whether the draft can be submitted.
func (d Draft) Valid() bool {
	return strings.TrimSpace(d.Description) != ""
}

// DraftFromTask fills a draft from an existing task.
func DraftFromTask(t task.Task) Draft {
	return Draft{
		Description: t.Description,
		Project:     t.Project,
		Priority:    ParsePriority(t.Priority),
		Tags:        strings.Join(t.Tags, ", "),
		Due:         t.Due,
	}
}

// ParseTags splits raw tag text on commas, trims each token and drops empty
// ones. Order is kept; duplicates are not removed.
func ParseTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}

// CreateDTO assembles the create payload. Only non-empty fields are set.
func (d Draft) CreateDTO() task.CreateDTO {
	return task.CreateDTO{
		Description: strings.TrimSpace(d.Description),
		Project:     strings.TrimSpace(d.Project),
		Priority:    d.Priority.Code(),
		Tags:        ParseTags(d.Tags),
		Due:         strings.TrimSpace(d.Due),
	}
}

// UpdateDTO assembles a partial update holding only the fields that differ
// from original.
func (d Draft) UpdateDTO(original Draft) task.UpdateDTO {
	var u task.UpdateDTO

	if v := strings.TrimSpace(d.Description); v != strings.TrimSpace(original.Description) {
		u.Description = &v
	}
	if v := strings.TrimSpace(d.Project); v != strings.TrimSpace(original.Project) {
		u.Project = &v
	}
	if d.Priority != original.Priority {
		v := d.Priority.Code()
		u.Priority = &v
	}
	if tags := ParseTags(d.Tags); !slices.Equal(tags, ParseTags(original.Tags)) {
		if tags == nil {
			tags = []string{}
		}
		u.Tags = &tags
	}
	if v := strings.TrimSpace(d.Due); v != strings.TrimSpace(original.Due) {
		u.Due = &v
	}
	return u
}

// Result is what a valid submit hands back.
type Result struct {
	Mode   Mode
	UUID   string
	Create task.CreateDTO
	Update task.UpdateDTO
}

// Form is the form state machine. OnSubmit and OnCancel fire at most once
// over the form's life.
type Form struct {
	mode     Mode
	uuid     string
	original Draft

	inputs   [fieldCount]textinput.Model
	priority Priority
	focus    Field
	invalid  bool
	finished bool

	keys keys.KeyMap

	OnSubmit func(Result)
	OnCancel func()
}

// NewCreate returns an empty create form.
func NewCreate(km keys.KeyMap) *Form {
	return newForm(ModeCreate, "", Draft{}, km)
}

// NewEdit returns an edit form populated from t.
func NewEdit(t task.Task, km keys.KeyMap) *Form {
	return newForm(ModeEdit, t.UUID, DraftFromTask(t), km)
}

var placeholders = [fieldCount]string{
	FieldDescription: "What needs doing?",
	FieldProject:     "project",
	FieldTags:        "bug, urgent",
	FieldDue:         "20260214T120000Z or eow",
}

func newForm(mode Mode, uuid string, draft Draft, km keys.KeyMap) *Form {
	f := &Form{
		mode:     mode,
		uuid:     uuid,
		original: draft,
		priority: draft.Priority,
		keys:     km,
	}

	values := [fieldCount]string{
		FieldDescription: draft.Description,
		FieldProject:     draft.Project,
		FieldTags:        draft.Tags,
		FieldDue:         draft.Due,
	}
	for i := range f.inputs {
		if Field(i) == FieldPriority {
			continue
		}
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.Width = 40
		ti.Cursor.SetMode(cursor.CursorStatic)
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.setFocus(FieldDescription)
	return f
}

// Mode returns the form mode.
func (f *Form) Mode() Mode { return f.mode }

// UUID returns the uuid of the task being edited, "" in create mode.
func (f *Form) UUID() string { return f.uuid }

// Focus returns the focused field.
func (f *Form) Focus() Field { return f.focus }

// Invalid reports whether the validation hint is showing.
func (f *Form) Invalid() bool { return f.invalid }

// Finished reports whether the form has been submitted or cancelled.
func (f *Form) Finished() bool { return f.finished }

// Draft returns the current form content.
func (f *Form) Draft() Draft {
	return Draft{
		Description: f.inputs[FieldDescription].Value(),
		Project:     f.inputs[FieldProject].Value(),
		Priority:    f.priority,
		Tags:        f.inputs[FieldTags].Value(),
		Due:         f.inputs[FieldDue].Value(),
	}
}

// SetValue replaces the raw text of a text field.
func (f *Form) SetValue(field Field, value string) {
	if field == FieldPriority || field < 0 || field >= fieldCount {
		return
	}
	f.inputs[field].SetValue(value)
	f.refreshValidity()
}

func (f *Form) setFocus(field Field) {
	for i := range f.inputs {
		if Field(i) != FieldPriority {
			f.inputs[i].Blur()
		}
	}
	f.focus = field
	if field != FieldPriority {
		f.inputs[field].Focus()
	}
}

// FocusNext moves to the next field, wrapping after the last.
func (f *Form) FocusNext() { f.setFocus((f.focus + 1) % fieldCount) }

// FocusPrev moves to the previous field, wrapping before the first.
func (f *Form) FocusPrev() { f.setFocus((f.focus + fieldCount - 1) % fieldCount) }

// Priority returns the selected priority.
func (f *Form) Priority() Priority { return f.priority }

// CyclePriority advances the priority. It only acts while the priority
// field is focused.
func (f *Form) CyclePriority() {
	if f.focus == FieldPriority {
		f.priority = f.priority.Next()
	}
}

// Submit validates the draft and fires OnSubmit. An invalid draft keeps the
// form open with the hint visible and fires nothing.
func (f *Form) Submit() bool {
	if f.finished {
		return false
	}
	draft := f.Draft()
	if !draft.Valid() {
		f.invalid = true
		return false
	}

	res := Result{Mode: f.mode, UUID: f.uuid}
	if f.mode == ModeEdit {
		res.Update = draft.UpdateDTO(f.original)
	} else {
		res.Create = draft.CreateDTO()
	}
	f.finished = true
	if f.OnSubmit != nil {
		f.OnSubmit(res)
	}
	return true
}

// Cancel discards the draft and fires OnCancel.
func (f *Form) Cancel() {
	if f.finished {
		return
	}
	f.finished = true
	if f.OnCancel != nil {
		f.OnCancel()
	}
}

func (f *Form) refreshValidity() {
	if f.invalid && f.Draft().Valid() {
		f.invalid = false
	}
}

// HandleKey processes one key event.
func (f *Form) HandleKey(ev keys.Event) {
	if f.finished {
		return
	}

	switch {
	case key.Matches(ev, f.keys.Cancel):
		f.Cancel()
	case key.Matches(ev, f.keys.PrevField):
		f.FocusPrev()
	case key.Matches(ev, f.keys.NextField):
		f.FocusNext()
	case key.Matches(ev, f.keys.Submit):
		f.Submit()
	case f.focus == FieldPriority:
		f.handlePriorityKey(ev)
	default:
		msg, ok := ev.Tea()
		if !ok {
			return
		}
		f.inputs[f.focus], _ = f.inputs[f.focus].Update(msg)
		f.refreshValidity()
	}
}

func (f *Form) handlePriorityKey(ev keys.Event) {
	switch {
	case key.Matches(ev, f.keys.PrevPrio):
		f.priority = f.priority.Prev()
	case key.Matches(ev, f.keys.CyclePrio):
		f.priority = f.priority.Next()
	}
}
