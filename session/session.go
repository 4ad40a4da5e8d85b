// Package session models the agent pane: the ordered list of terminal
// sessions reported by the agent backend and the selection over it.
package session

import (
	"fmt"
	"strings"

	"github.com/stephenmfriend/taskpane/task"
	"github.com/stephenmfriend/taskpane/theme"
	"github.com/stephenmfriend/taskpane/ui"
)

// Known session statuses. The set is open; other values render as dim.
const (
	StatusRunning = "running"
	StatusDone    = "done"
	StatusFailed  = "failed"
)

// TerminalSession is one agent process session. TaskUUID is a lookup key
// into the task snapshot, not ownership.
type TerminalSession struct {
	ID       string `yaml:"id" json:"id"`
	Name     string `yaml:"name" json:"name"`
	Status   string `yaml:"status" json:"status"`
	PRNumber int    `yaml:"pr_number,omitempty" json:"prNumber,omitempty"`
	TaskUUID string `yaml:"task_uuid,omitempty" json:"taskUuid,omitempty"`
}

// StatusColor maps a session status to its theme color.
func StatusColor(th *theme.Theme, s TerminalSession) theme.Color {
	switch s.Status {
	case StatusRunning:
		return th.Success
	case StatusFailed:
		return th.Error
	default:
		return th.Dim
	}
}

// statusGlyph is the list icon for a status.
func statusGlyph(status string) string {
	switch status {
	case StatusRunning:
		return "▶"
	case StatusDone:
		return "✓"
	case StatusFailed:
		return "✗"
	default:
		return "○"
	}
}

// MetadataLine describes the PR and task a session is linked to, or returns
// "" when it is linked to neither.
func MetadataLine(s TerminalSession) string {
	var parts []string
	if s.PRNumber > 0 {
		parts = append(parts, fmt.Sprintf("PR #%d", s.PRNumber))
	}
	if s.TaskUUID != "" {
		parts = append(parts, "task:"+task.ShortUUID(s.TaskUUID))
	}
	return strings.Join(parts, " | ")
}

// Pane is the agent list with a selection that follows session identity
// across snapshots.
type Pane struct {
	sessions []TerminalSession
	index    int
	offset   int
	visible  int
}

// NewPane returns an empty pane.
func NewPane() *Pane {
	return &Pane{}
}

// SetSessions applies a new snapshot. The selection follows the selected
// session by ID; if it is gone the index is clamped.
func (p *Pane) SetSessions(sessions []TerminalSession) {
	var selectedID string
	if p.index < len(p.sessions) {
		selectedID = p.sessions[p.index].ID
	}

	p.sessions = append([]TerminalSession(nil), sessions...)
	if selectedID != "" {
		for i, s := range p.sessions {
			if s.ID == selectedID {
				p.index = i
				p.follow()
				return
			}
		}
	}
	p.index = clamp(p.index, len(p.sessions))
	p.follow()
}

// Resize sets the height the pane is drawn at, so that scrolling keeps the
// selection in view.
func (p *Pane) Resize(height int) {
	p.visible = visibleRows(height)
	p.follow()
}

func (p *Pane) follow() {
	p.offset = ui.Scroll(p.offset, p.index, len(p.sessions), p.visible)
}

// visibleRows is the number of sessions a pane of height shows; 0 means all.
func visibleRows(height int) int {
	return ui.Rows(height, 3, linesPerSession)
}

func clamp(index, length int) int {
	if length == 0 || index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}

// Up moves the selection up, stopping at the first session.
func (p *Pane) Up() {
	p.index = clamp(p.index-1, len(p.sessions))
	p.follow()
}

// Down moves the selection down, stopping at the last session.
func (p *Pane) Down() {
	p.index = clamp(p.index+1, len(p.sessions))
	p.follow()
}

// Selected returns the session under the cursor.
func (p *Pane) Selected() (TerminalSession, bool) {
	if len(p.sessions) == 0 {
		return TerminalSession{}, false
	}
	return p.sessions[p.index], true
}

// Index returns the selection index.
func (p *Pane) Index() int { return p.index }

// Sessions returns the current snapshot. Callers must not modify it.
func (p *Pane) Sessions() []TerminalSession { return p.sessions }

// Len returns the number of sessions.
func (p *Pane) Len() int { return len(p.sessions) }

// Running returns how many sessions are running.
func (p *Pane) Running() int {
	n := 0
	for _, s := range p.sessions {
		if s.Status == StatusRunning {
			n++
		}
	}
	return n
}
