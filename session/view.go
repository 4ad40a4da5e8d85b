package session

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/stephenmfriend/taskpane/theme"
	"github.com/stephenmfriend/taskpane/ui"
)

// linesPerSession is the height of one entry: the name row and the
// metadata row.
const linesPerSession = 2

// View renders the agent pane at the given size.
func (p *Pane) View(th *theme.Theme, width, height int, active bool) string {
	st := ui.NewStyles(th)
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	var b strings.Builder
	title := fmt.Sprintf("AGENTS (%d running)", p.Running())
	b.WriteString(ui.Title(th, theme.PaneAgents, title, active))
	b.WriteString("\n\n")

	if len(p.sessions) == 0 {
		b.WriteString(st.Empty.Render("No agent sessions"))
	}
	start, end := 0, len(p.sessions)
	if visible := visibleRows(height); visible > 0 && visible < end {
		start = ui.Scroll(p.offset, p.index, end, visible)
		end = start + visible
	}
	for i := start; i < end; i++ {
		s := p.sessions[i]
		color := lipgloss.NewStyle().Foreground(StatusColor(th, s).Lipgloss())

		marker := "  "
		name := st.Text
		if i == p.index {
			marker = st.Selected.Render("▶ ")
			if active {
				name = st.Selected
			}
		}

		label := s.Name
		if label == "" {
			label = s.ID
		}
		b.WriteString(marker)
		b.WriteString(color.Render(statusGlyph(s.Status)))
		b.WriteString(" ")
		b.WriteString(name.Render(ui.Truncate(label, inner-4)))
		b.WriteString(" ")
		b.WriteString(color.Render(s.Status))

		if meta := MetadataLine(s); meta != "" {
			b.WriteString("\n    ")
			b.WriteString(st.Muted.Render(ui.Truncate(meta, inner-4)))
		}
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	style := ui.Pane(th, theme.PaneAgents, active).Width(inner)
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(b.String())
}
