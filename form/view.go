package form

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/stephenmfriend/taskpane/theme"
	"github.com/stephenmfriend/taskpane/ui"
)

// View renders the form as a bordered overlay of the given width.
func (f *Form) View(th *theme.Theme, width int) string {
	st := ui.NewStyles(th)

	title := "NEW TASK"
	if f.mode == ModeEdit {
		title = "EDIT TASK"
	}

	var b strings.Builder
	b.WriteString(ui.Title(th, theme.PaneForm, title, true))
	b.WriteString("\n\n")

	for i := Field(0); i < fieldCount; i++ {
		label := st.InputLabel
		marker := "  "
		if i == f.focus {
			label = label.Foreground(th.Accent.Lipgloss()).Bold(true)
			marker = st.Selected.Render("▶ ")
		}
		b.WriteString(marker)
		b.WriteString(label.Render(i.String()))

		if i == FieldPriority {
			b.WriteString(f.priorityView(th, st))
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n")
	}

	if f.invalid {
		b.WriteString("\n")
		b.WriteString(st.Error.Render("Description is required"))
		b.WriteString("\n")
	}

	inner := width - 4
	if inner < 30 {
		inner = 30
	}
	return ui.Pane(th, theme.PaneForm, true).Width(inner).Render(strings.TrimRight(b.String(), "\n"))
}

func (f *Form) priorityView(th *theme.Theme, st ui.Styles) string {
	var c theme.Color
	switch f.priority {
	case PriorityHigh:
		c = th.Error
	case PriorityMedium:
		c = th.Warning
	case PriorityLow:
		c = th.Success
	default:
		c = th.Dim
	}
	value := lipgloss.NewStyle().Foreground(c.Lipgloss()).Bold(true).Render(f.priority.Label())
	if f.focus == FieldPriority {
		return st.Muted.Render("◀ ") + value + st.Muted.Render(" ▶")
	}
	return value
}
