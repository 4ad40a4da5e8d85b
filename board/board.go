// Package board partitions a task snapshot into Kanban columns and keeps the
// per-column selection stable across snapshots.
package board

import (
	"github.com/stephenmfriend/taskpane/task"
	"github.com/stephenmfriend/taskpane/ui"
)

// Default column labels.
const (
	ColumnTodo       = "TODO"
	ColumnInProgress = "IN PROGRESS"
	ColumnDone       = "DONE"
)

// Mapping places a task status in a column. ok is false for statuses that
// are not shown on the board.
type Mapping func(status string) (label string, ok bool)

// DefaultLabels is the default column order.
var DefaultLabels = []string{ColumnTodo, ColumnInProgress, ColumnDone}

// DefaultMapping is the built-in status placement:
//
//	pending, recurring -> TODO
//	waiting            -> IN PROGRESS
//	completed          -> DONE
//	deleted            -> not shown
func DefaultMapping(status string) (string, bool) {
	switch status {
	case task.StatusPending, task.StatusRecurring:
		return ColumnTodo, true
	case task.StatusWaiting:
		return ColumnInProgress, true
	case task.StatusCompleted:
		return ColumnDone, true
	default:
		return "", false
	}
}

// MappingFromTable builds a Mapping from an explicit status -> label table.
func MappingFromTable(table map[string]string) Mapping {
	return func(status string) (string, bool) {
		label, ok := table[status]
		return label, ok
	}
}

// Column is one board column: a label and the tasks placed in it, in
// snapshot order.
type Column struct {
	Label string
	Tasks []task.Task
}

// Len returns the number of tasks in the column.
func (c Column) Len() int { return len(c.Tasks) }

// Partition places tasks into columns, preserving their relative order.
// Tasks whose status maps to no label in labels are dropped.
func Partition(tasks []task.Task, labels []string, mapping Mapping) []Column {
	columns := make([]Column, len(labels))
	byLabel := make(map[string]int, len(labels))
	for i, label := range labels {
		columns[i] = Column{Label: label}
		byLabel[label] = i
	}

	for _, t := range tasks {
		label, ok := mapping(t.Status)
		if !ok {
			continue
		}
		i, ok := byLabel[label]
		if !ok {
			continue
		}
		columns[i].Tasks = append(columns[i].Tasks, t)
	}
	return columns
}

// Direction is a vertical or horizontal move.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Board is the column view plus its selection.
type Board struct {
	labels  []string
	mapping Mapping
	columns []Column
	active  int
	index   []int
	offset  []int
	visible int
}

// New creates an empty board. A nil mapping uses DefaultMapping and nil
// labels use DefaultLabels.
func New(labels []string, mapping Mapping) *Board {
	if len(labels) == 0 {
		labels = DefaultLabels
	}
	if mapping == nil {
		mapping = DefaultMapping
	}
	b := &Board{
		labels:  append([]string(nil), labels...),
		mapping: mapping,
		index:   make([]int, len(labels)),
		offset:  make([]int, len(labels)),
	}
	b.columns = Partition(nil, b.labels, b.mapping)
	return b
}

// SetTasks applies a new snapshot. In every column the selection follows the
// previously selected task by uuid; if it is gone the index is clamped to the
// new column length.
func (b *Board) SetTasks(tasks []task.Task) {
	previous := make([]string, len(b.columns))
	for i, col := range b.columns {
		if b.index[i] < col.Len() {
			previous[i] = col.Tasks[b.index[i]].UUID
		}
	}

	b.columns = Partition(tasks, b.labels, b.mapping)
	for i, col := range b.columns {
		b.index[i] = reconcile(col.Tasks, previous[i], b.index[i])
		b.follow(i)
	}
}

// Resize sets the height the board is drawn at, so that scrolling keeps the
// selection in view.
func (b *Board) Resize(height int) {
	b.visible = visibleCards(height)
	for i := range b.columns {
		b.follow(i)
	}
}

func (b *Board) follow(c int) {
	b.offset[c] = ui.Scroll(b.offset[c], b.index[c], b.columns[c].Len(), b.visible)
}

func reconcile(tasks []task.Task, uuid string, index int) int {
	if uuid != "" {
		for i, t := range tasks {
			if t.UUID == uuid {
				return i
			}
		}
	}
	return clamp(index, len(tasks))
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

// Navigate moves the selection within the active column. It stops at the
// first and last task.
func (b *Board) Navigate(dir Direction) {
	col := b.columns[b.active]
	switch dir {
	case Up:
		b.index[b.active] = clamp(b.index[b.active]-1, col.Len())
	case Down:
		b.index[b.active] = clamp(b.index[b.active]+1, col.Len())
	}
	b.follow(b.active)
}

// MoveColumn changes the active column, wrapping around at both ends.
func (b *Board) MoveColumn(dir Direction) {
	n := len(b.columns)
	switch dir {
	case Left:
		b.active = (b.active - 1 + n) % n
	case Right:
		b.active = (b.active + 1) % n
	}
}

// FocusFirstNonEmpty activates the first column holding a task, or the
// first column when all are empty.
func (b *Board) FocusFirstNonEmpty() {
	b.active = 0
	for i, col := range b.columns {
		if col.Len() > 0 {
			b.active = i
			return
		}
	}
}

// Focus restores a column and index, clamping both.
func (b *Board) Focus(column, index int) {
	b.active = clamp(column, len(b.columns))
	b.index[b.active] = clamp(index, b.columns[b.active].Len())
	b.follow(b.active)
}

// Select moves the selection to the task with uuid, switching columns if
// needed. It reports whether the task is on the board.
func (b *Board) Select(uuid string) bool {
	for c, col := range b.columns {
		for i, t := range col.Tasks {
			if t.UUID == uuid {
				b.active = c
				b.index[c] = i
				b.follow(c)
				return true
			}
		}
	}
	return false
}

// Find returns the task with uuid if it is on the board.
func (b *Board) Find(uuid string) (task.Task, bool) {
	for _, col := range b.columns {
		for _, t := range col.Tasks {
			if t.UUID == uuid {
				return t, true
			}
		}
	}
	return task.Task{}, false
}

// Selected returns the task under the cursor.
func (b *Board) Selected() (task.Task, bool) {
	col := b.columns[b.active]
	if col.Len() == 0 {
		return task.Task{}, false
	}
	return col.Tasks[b.index[b.active]], true
}

// ActiveColumn returns the index of the active column.
func (b *Board) ActiveColumn() int { return b.active }

// Index returns the selection index in the active column.
func (b *Board) Index() int { return b.index[b.active] }

// IndexOf returns the selection index in column c.
func (b *Board) IndexOf(c int) int {
	if c < 0 || c >= len(b.index) {
		return 0
	}
	return b.index[c]
}

// Columns returns the current columns. Callers must not modify them.
func (b *Board) Columns() []Column { return b.columns }

// Total returns the number of tasks on the board.
func (b *Board) Total() int {
	n := 0
	for _, col := range b.columns {
		n += col.Len()
	}
	return n
}
