// Package task defines the Taskwarrior task record as the dashboard sees it,
// plus the DTOs handed to the task repository when a form is submitted.
package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Task statuses as exported by Taskwarrior.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusDeleted   = "deleted"
	StatusWaiting   = "waiting"
	StatusRecurring = "recurring"
)

// Annotation is a timestamped note attached to a task.
type Annotation struct {
	Entry       string `json:"entry"`
	Description string `json:"description"`
}

// Task is a snapshot of one Taskwarrior task. Date fields hold the raw
// Taskwarrior date codes; Extra keeps every attribute the dashboard does not
// interpret (urgency, entry, modified, UDAs...) so it survives a round trip.
type Task struct {
	UUID        string
	Status      string
	Description string
	Project     string
	Priority    string
	Tags        []string
	Due         string
	Scheduled   string
	Wait        string
	Depends     json.RawMessage
	Annotations []Annotation

	Extra map[string]json.RawMessage
}

// known mirrors the typed fields for JSON encoding.
type known struct {
	UUID        string          `json:"uuid"`
	Status      string          `json:"status"`
	Description string          `json:"description"`
	Project     string          `json:"project,omitempty"`
	Priority    string          `json:"priority,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Due         string          `json:"due,omitempty"`
	Scheduled   string          `json:"scheduled,omitempty"`
	Wait        string          `json:"wait,omitempty"`
	Depends     json.RawMessage `json:"depends,omitempty"`
	Annotations []Annotation    `json:"annotations,omitempty"`
}

var knownKeys = map[string]bool{
	"uuid": true, "status": true, "description": true, "project": true,
	"priority": true, "tags": true, "due": true, "scheduled": true,
	"wait": true, "depends": true, "annotations": true,
}

// UnmarshalJSON decodes the typed fields and stashes the rest in Extra.
func (t *Task) UnmarshalJSON(b []byte) error {
	var k known
	if err := json.Unmarshal(b, &k); err != nil {
		return fmt.Errorf("failed to decode task: %w", err)
	}
	var all map[string]json.RawMessage
	if err := json.Unmarshal(b, &all); err != nil {
		return fmt.Errorf("failed to decode task attributes: %w", err)
	}

	*t = Task{
		UUID:        k.UUID,
		Status:      k.Status,
		Description: k.Description,
		Project:     k.Project,
		Priority:    k.Priority,
		Tags:        k.Tags,
		Due:         k.Due,
		Scheduled:   k.Scheduled,
		Wait:        k.Wait,
		Depends:     k.Depends,
		Annotations: k.Annotations,
	}
	for key, raw := range all {
		if knownKeys[key] {
			continue
		}
		if t.Extra == nil {
			t.Extra = make(map[string]json.RawMessage)
		}
		t.Extra[key] = raw
	}
	return nil
}

// MarshalJSON writes the typed fields merged with Extra.
func (t Task) MarshalJSON() ([]byte, error) {
	typed, err := json.Marshal(known{
		UUID:        t.UUID,
		Status:      t.Status,
		Description: t.Description,
		Project:     t.Project,
		Priority:    t.Priority,
		Tags:        t.Tags,
		Due:         t.Due,
		Scheduled:   t.Scheduled,
		Wait:        t.Wait,
		Depends:     t.Depends,
		Annotations: t.Annotations,
	})
	if err != nil {
		return nil, err
	}
	if len(t.Extra) == 0 {
		return typed, nil
	}

	merged := make(map[string]json.RawMessage, len(t.Extra)+len(knownKeys))
	for key, raw := range t.Extra {
		if !knownKeys[key] {
			merged[key] = raw
		}
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(typed, &fields); err != nil {
		return nil, err
	}
	for key, raw := range fields {
		merged[key] = raw
	}
	return json.Marshal(merged)
}

// DependsList decodes Depends in either the array form or the older
// comma-separated string form.
func (t Task) DependsList() []string {
	raw := bytes.TrimSpace(t.Depends)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err != nil {
		return nil
	}
	var out []string
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ShortUUID returns the first eight characters of a uuid.
func ShortUUID(uuid string) string {
	if len(uuid) <= 8 {
		return uuid
	}
	return uuid[:8]
}

// DateLayout is Taskwarrior's export format, always UTC.
const DateLayout = "20060102T150405Z"

// ParseDate parses a Taskwarrior date code.
func ParseDate(code string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(code))
}

// FormatDate renders a date code as MM/DD. Codes that do not parse are
// returned unchanged.
func FormatDate(code string) string {
	d, err := ParseDate(code)
	if err != nil {
		return code
	}
	return d.UTC().Format("01/02")
}

// IsOverdue reports whether a due code lies before now. Absent or
// unparseable codes are never overdue.
func IsOverdue(code string, now time.Time) bool {
	if strings.TrimSpace(code) == "" {
		return false
	}
	d, err := ParseDate(code)
	if err != nil {
		return false
	}
	return d.Before(now)
}

// CreateDTO is what the create form hands to the task repository. Optional
// fields are omitted when empty.
type CreateDTO struct {
	Description string   `json:"description"`
	Project     string   `json:"project,omitempty"`
	Priority    string   `json:"priority,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	Due         string   `json:"due,omitempty"`
	Recur       string   `json:"recur,omitempty"`
	Depends     string   `json:"depends,omitempty"`
}

// UpdateDTO is a partial update. A nil field is left untouched; a pointer to
// the empty string clears the attribute.
type UpdateDTO struct {
	Description *string   `json:"description,omitempty"`
	Project     *string   `json:"project,omitempty"`
	Priority    *string   `json:"priority,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Due         *string   `json:"due,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u UpdateDTO) IsEmpty() bool {
	return u.Description == nil && u.Project == nil && u.Priority == nil &&
		u.Tags == nil && u.Due == nil
}
