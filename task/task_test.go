package task

import (
	"encoding/json"
	"testing"
	"time"
)

const sample = `{
	"uuid": "f45a05b3-c12e-42e5-9c9c-333333333333",
	"description": "Buy milk",
	"status": "pending",
	"due": "20260214T120000Z",
	"project": "Groceries",
	"priority": "H",
	"tags": ["buy", "food"],
	"depends": "a1b2c3d4-0000-0000-0000-000000000000,e5f6a7b8-0000-0000-0000-000000000000",
	"annotations": [
		{"entry": "20260101T120500Z", "description": "Don't forget almond milk"}
	],
	"urgency": 8.2,
	"estimate": "1h"
}`

func TestUnmarshal(t *testing.T) {
	var tk Task
	if err := json.Unmarshal([]byte(sample), &tk); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if tk.UUID != "f45a05b3-c12e-42e5-9c9c-333333333333" {
		t.Errorf("unexpected uuid %q", tk.UUID)
	}
	if tk.Project != "Groceries" || tk.Priority != "H" {
		t.Errorf("unexpected project/priority %q/%q", tk.Project, tk.Priority)
	}
	if len(tk.Tags) != 2 || tk.Tags[0] != "buy" {
		t.Errorf("unexpected tags %v", tk.Tags)
	}
	if len(tk.Annotations) != 1 || tk.Annotations[0].Entry != "20260101T120500Z" {
		t.Errorf("unexpected annotations %+v", tk.Annotations)
	}
	if len(tk.Extra) != 2 {
		t.Fatalf("expected 2 extra attributes, got %d: %v", len(tk.Extra), tk.Extra)
	}
	if string(tk.Extra["estimate"]) != `"1h"` {
		t.Errorf("estimate = %s", tk.Extra["estimate"])
	}
	if _, ok := tk.Extra["uuid"]; ok {
		t.Error("typed attributes must not leak into Extra")
	}
}

func TestMarshal_PreservesExtra(t *testing.T) {
	var tk Task
	if err := json.Unmarshal([]byte(sample), &tk); err != nil {
		t.Fatal(err)
	}

	out, err := json.Marshal(tk)
	if err != nil {
		t.Fatal(err)
	}

	var back Task
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatal(err)
	}
	if string(back.Extra["urgency"]) != "8.2" {
		t.Errorf("urgency lost on round trip: %s", back.Extra["urgency"])
	}
	if back.Description != tk.Description || back.Due != tk.Due {
		t.Errorf("typed fields changed on round trip: %+v", back)
	}
}

func TestDependsList(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"string form", `"a,b"`, 2},
		{"array form", `["a","b","c"]`, 3},
		{"empty", ``, 0},
		{"null", `null`, 0},
		{"garbage", `{}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := Task{Depends: json.RawMessage(tt.raw)}
			if got := tk.DependsList(); len(got) != tt.want {
				t.Errorf("DependsList() = %v, want %d entries", got, tt.want)
			}
		})
	}
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"20260214T120000Z", "02/14"},
		{"20261231T235959Z", "12/31"},
		{"tomorrow", "tomorrow"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.in); got != tt.want {
			t.Errorf("FormatDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsOverdue(t *testing.T) {
	ref := time.Date(2026, time.February, 20, 0, 0, 0, 0, time.UTC)

	if !IsOverdue("20260214T120000Z", ref) {
		t.Error("a due date before the reference should be overdue")
	}
	if IsOverdue("20260301T120000Z", ref) {
		t.Error("a future due date should not be overdue")
	}
	if IsOverdue("eow", ref) {
		t.Error("unparseable dates are never overdue")
	}
	if IsOverdue("", ref) {
		t.Error("absent dates are never overdue")
	}
}

func TestShortUUID(t *testing.T) {
	if got := ShortUUID("f45a05b3-c12e"); got != "f45a05b3" {
		t.Errorf("ShortUUID = %q", got)
	}
	if got := ShortUUID("abc"); got != "abc" {
		t.Errorf("ShortUUID(short) = %q", got)
	}
}

func TestCreateDTO_OmitsEmpty(t *testing.T) {
	out, err := json.Marshal(CreateDTO{Description: "x"})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"description":"x"}` {
		t.Errorf("unexpected encoding %s", out)
	}
}

func TestUpdateDTO_IsEmpty(t *testing.T) {
	if !(UpdateDTO{}).IsEmpty() {
		t.Error("zero UpdateDTO should be empty")
	}
	none := ""
	if (UpdateDTO{Project: &none}).IsEmpty() {
		t.Error("a cleared project is a change")
	}
}
