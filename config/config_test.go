package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stephenmfriend/taskpane/board"
	"github.com/stephenmfriend/taskpane/task"
	"github.com/stephenmfriend/taskpane/theme"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad_FileExists(t *testing.T) {
	dir := writeConfig(t, `task_bin: /usr/local/bin/task
filter: "project:web"
sessions_file: agents.yaml
refresh: 2s
log_level: debug
`)

	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.TaskBin != "/usr/local/bin/task" {
		t.Errorf("got task_bin %q", cfg.TaskBin)
	}
	if cfg.Filter != "project:web" {
		t.Errorf("got filter %q", cfg.Filter)
	}
	if cfg.Refresh != 2*time.Second {
		t.Errorf("got refresh %s, want 2s", cfg.Refresh)
	}
	if cfg.SessionsFile != filepath.Join(dir, "agents.yaml") {
		t.Errorf("sessions_file should resolve against dir, got %q", cfg.SessionsFile)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("got log_level %q", cfg.LogLevel)
	}
	if len(cfg.Columns) != 3 {
		t.Errorf("expected default columns, got %v", cfg.Columns)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if cfg.TaskBin != "task" || cfg.Refresh != DefaultRefresh {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := writeConfig(t, ":\n\t: bad")

	_, err := Load(dir)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"negative refresh", "refresh: -1s\n", "refresh"},
		{"duplicate status", `columns:
  - label: A
    statuses: [pending]
  - label: B
    statuses: [pending]
`, "mapped to both"},
		{"duplicate label", `columns:
  - label: A
  - label: A
`, "defined twice"},
		{"empty label", "columns:\n  - statuses: [pending]\n", "empty"},
		{"unknown pane", "gradients:\n  sidebar: ['#000000', '#ffffff']\n", "unknown gradient pane"},
		{"short gradient", "gradients:\n  board: ['#000000']\n", "exactly 2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestMapping_Default(t *testing.T) {
	m, err := Default().Mapping()
	if err != nil {
		t.Fatal(err)
	}
	for _, status := range []string{"pending", "recurring", "waiting", "completed", "deleted"} {
		wantLabel, wantOK := board.DefaultMapping(status)
		label, ok := m(status)
		if label != wantLabel || ok != wantOK {
			t.Errorf("mapping(%q) = %q,%v; want %q,%v", status, label, ok, wantLabel, wantOK)
		}
	}
}

func TestMapping_Custom(t *testing.T) {
	dir := writeConfig(t, `columns:
  - label: Backlog
    statuses: [Pending, waiting]
  - label: Shipped
    statuses: [completed]
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got := cfg.Labels(); len(got) != 2 || got[0] != "Backlog" || got[1] != "Shipped" {
		t.Errorf("labels = %v", got)
	}
	m, _ := cfg.Mapping()
	if label, ok := m("pending"); !ok || label != "Backlog" {
		t.Errorf("pending -> %q, %v", label, ok)
	}
	if _, ok := m("recurring"); ok {
		t.Error("recurring should not be shown")
	}
}

func TestLabelsMatchMapping(t *testing.T) {
	dir := writeConfig(t, `columns:
  - label: " TODO "
    statuses: [pending]
  - label: "DONE"
    statuses: [completed]
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	m, err := cfg.Mapping()
	if err != nil {
		t.Fatal(err)
	}

	cols := board.Partition([]task.Task{{UUID: "a", Status: task.StatusPending}}, cfg.Labels(), m)
	if cols[0].Label != "TODO" || cols[0].Len() != 1 {
		t.Errorf("first column = %q with %d tasks, want TODO with 1", cols[0].Label, cols[0].Len())
	}
}

func TestTheme(t *testing.T) {
	th, err := Default().Theme()
	if err != nil {
		t.Fatal(err)
	}
	if th != theme.Default() {
		t.Error("no overrides should reuse the shared default theme")
	}

	dir := writeConfig(t, "gradients:\n  form: ['#000000', '#ffffff']\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	th, err = cfg.Theme()
	if err != nil {
		t.Fatal(err)
	}
	start, end := th.PaneGradient(theme.PaneForm, true)
	if start.Hex() != "#000000" || end.Hex() != "#ffffff" {
		t.Errorf("form gradient = %s..%s", start, end)
	}

	bad := Config{Palette: []string{"#000000"}}
	if _, err := bad.Theme(); err == nil {
		t.Error("expected error for a short palette")
	}
}
