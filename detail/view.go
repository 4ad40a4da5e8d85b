package detail

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stephenmfriend/taskpane/task"
	"github.com/stephenmfriend/taskpane/theme"
	"github.com/stephenmfriend/taskpane/ui"
)

// View renders the overlay. now decides the overdue flag.
func (o *Overlay) View(th *theme.Theme, width int, now time.Time) string {
	st := ui.NewStyles(th)
	t := o.task

	inner := width - 4
	if inner < 30 {
		inner = 30
	}
	valueWidth := inner - 16

	var b strings.Builder
	b.WriteString(ui.Title(th, theme.PaneDetail, "TASK "+task.ShortUUID(t.UUID), true))
	b.WriteString("\n\n")

	row := func(label, value string) {
		b.WriteString(st.Label.Render(label))
		b.WriteString(" ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	text := func(s string) string {
		s = ui.OrPlaceholder(s)
		if s == ui.Placeholder {
			return st.Empty.Render(s)
		}
		return st.Text.Render(ui.Truncate(s, valueWidth))
	}

	row("Description", text(t.Description))
	row("Status", text(t.Status))
	row("Project", text(t.Project))
	row("Priority", text(t.Priority))
	if len(t.Tags) > 0 {
		row("Tags", ui.Tags(th, t.Tags))
	} else {
		row("Tags", text(""))
	}
	row("Due", dueValue(st, t.Due, now))
	row("Scheduled", text(dateValue(t.Scheduled)))
	row("Wait", text(dateValue(t.Wait)))
	row("Depends", text(strings.Join(shortList(t.DependsList()), ", ")))
	row("UUID", text(t.UUID))

	if len(t.Annotations) > 0 {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("Annotations"))
		b.WriteString("\n")
		for _, a := range t.Annotations {
			b.WriteString("  ")
			b.WriteString(st.Muted.Render(dateValue(a.Entry)))
			b.WriteString(" ")
			b.WriteString(st.Text.Render(ui.Truncate(a.Description, valueWidth)))
			b.WriteString("\n")
		}
	}

	if len(t.Extra) > 0 {
		b.WriteString("\n")
		for _, k := range slices.Sorted(maps.Keys(t.Extra)) {
			row(ui.Truncate(k, 12), text(extraValue(t.Extra[k])))
		}
	}

	b.WriteString("\n")
	b.WriteString(o.buttons(st))

	return ui.Pane(th, theme.PaneDetail, true).Width(inner).Render(b.String())
}

func (o *Overlay) buttons(st ui.Styles) string {
	render := func(btn Button) string {
		if btn == o.focus {
			return st.ButtonFocused.Render(btn.String())
		}
		return st.Button.Render(btn.String())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, render(ButtonEdit), "  ", render(ButtonClose))
}

func dueValue(st ui.Styles, due string, now time.Time) string {
	if strings.TrimSpace(due) == "" {
		return st.Empty.Render(ui.Placeholder)
	}
	formatted := task.FormatDate(due)
	if task.IsOverdue(due, now) {
		return st.Error.Render(formatted + " (overdue)")
	}
	return st.Text.Render(formatted)
}

func dateValue(code string) string {
	if strings.TrimSpace(code) == "" {
		return ""
	}
	return task.FormatDate(code)
}

func shortList(uuids []string) []string {
	out := make([]string, len(uuids))
	for i, u := range uuids {
		out[i] = task.ShortUUID(u)
	}
	return out
}

// extraValue renders a user-defined attribute. Strings are shown without
// quotes; anything else as compact JSON.
func extraValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}
