package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stephenmfriend/taskpane/task"
	"github.com/stephenmfriend/taskpane/theme"
	"github.com/stephenmfriend/taskpane/ui"
)

// linesPerCard is the height of one rendered task card.
const linesPerCard = 2

// ViewOptions controls how the board is drawn.
type ViewOptions struct {
	Width  int
	Height int
	Active bool
	Now    time.Time
}

// View renders the board. It is a pure function of the board, theme and
// options.
func View(b *Board, th *theme.Theme, opts ViewOptions) string {
	st := ui.NewStyles(th)
	n := len(b.columns)
	if n == 0 || opts.Width <= 0 {
		return ""
	}

	colWidth := opts.Width/n - 4
	if colWidth < 10 {
		colWidth = 10
	}

	rendered := make([]string, n)
	for i, col := range b.columns {
		focused := opts.Active && i == b.active
		var body strings.Builder

		header := fmt.Sprintf("%s (%d)", col.Label, col.Len())
		body.WriteString(ui.Title(th, theme.PaneBoard, header, focused))
		body.WriteString("\n\n")

		if col.Len() == 0 {
			body.WriteString(st.Empty.Render("No tasks"))
		} else {
			start, end := window(b.offset[i], b.index[i], col.Len(), opts.Height)
			for j := start; j < end; j++ {
				selected := j == b.index[i]
				body.WriteString(card(th, st, col.Tasks[j], selected, focused, colWidth, opts.Now))
				if j < end-1 {
					body.WriteString("\n")
				}
			}
		}

		style := ui.Pane(th, theme.PaneBoard, focused).Width(colWidth)
		if opts.Height > 0 {
			style = style.Height(opts.Height)
		}
		rendered[i] = style.Render(body.String())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

// window returns the slice of cards that fits in height, starting from the
// stored scroll offset and keeping the selected card visible.
func window(offset, selected, length, height int) (int, int) {
	visible := visibleCards(height)
	if visible == 0 || visible >= length {
		return 0, length
	}
	start := ui.Scroll(offset, selected, length, visible)
	return start, start + visible
}

// visibleCards is the number of cards a column of height shows; 0 means all.
func visibleCards(height int) int {
	return ui.Rows(height, 3, linesPerCard)
}

func card(th *theme.Theme, st ui.Styles, t task.Task, selected, focused bool, width int, now time.Time) string {
	marker := "  "
	title := st.Text
	if selected {
		marker = st.Selected.Render("▶ ")
		if focused {
			title = st.Selected
		}
	}

	var head []string
	if badge := priorityBadge(th, t.Priority); badge != "" {
		head = append(head, badge)
	}
	head = append(head, title.Render(ui.Truncate(t.Description, width-6)))

	var meta []string
	if t.Project != "" {
		meta = append(meta, st.Muted.Render(t.Project))
	}
	if t.Due != "" {
		due := task.FormatDate(t.Due)
		if task.IsOverdue(t.Due, now) {
			meta = append(meta, st.Error.Render("due "+due))
		} else {
			meta = append(meta, st.Muted.Render("due "+due))
		}
	}
	if len(t.Tags) > 0 {
		meta = append(meta, ui.Tags(th, t.Tags))
	}

	return marker + strings.Join(head, " ") + "\n  " + strings.Join(meta, " ")
}

func priorityBadge(th *theme.Theme, priority string) string {
	var c theme.Color
	switch priority {
	case "H":
		c = th.Error
	case "M":
		c = th.Warning
	case "L":
		c = th.Dim
	default:
		return ""
	}
	return lipgloss.NewStyle().Foreground(c.Lipgloss()).Bold(true).Render(priority)
}
