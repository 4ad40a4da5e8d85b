// Package config provides repo-specific configuration for taskpane.
//
// taskpane looks for a .taskpane.yaml file in the working directory.
// If found, its settings override built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stephenmfriend/taskpane/board"
	"github.com/stephenmfriend/taskpane/task"
	"github.com/stephenmfriend/taskpane/theme"
	"gopkg.in/yaml.v3"
)

const filename = ".taskpane.yaml"

// DefaultRefresh is how often snapshots are reloaded when unset.
const DefaultRefresh = 5 * time.Second

// Column places a set of task statuses under one board label.
type Column struct {
	Label    string   `yaml:"label"`
	Statuses []string `yaml:"statuses"`
}

// Config holds taskpane configuration.
type Config struct {
	// TaskBin is the Taskwarrior executable.
	TaskBin string `yaml:"task_bin"`
	// Filter is appended to every export, e.g. "project:web".
	Filter string `yaml:"filter"`
	// SessionsFile is the agent session snapshot written by the agent
	// backend. Empty disables the agent pane's data source.
	SessionsFile string        `yaml:"sessions_file"`
	Refresh      time.Duration `yaml:"refresh"`

	Columns   []Column            `yaml:"columns"`
	Palette   []string            `yaml:"palette"`
	Gradients map[string][]string `yaml:"gradients"`

	LogFile   string `yaml:"log_file"`
	LogLevel  string `yaml:"log_level"`
	SentryDSN string `yaml:"sentry_dsn"`
}

// DefaultColumns matches board.DefaultMapping.
func DefaultColumns() []Column {
	return []Column{
		{Label: board.ColumnTodo, Statuses: []string{task.StatusPending, task.StatusRecurring}},
		{Label: board.ColumnInProgress, Statuses: []string{task.StatusWaiting}},
		{Label: board.ColumnDone, Statuses: []string{task.StatusCompleted}},
	}
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		TaskBin: "task",
		Refresh: DefaultRefresh,
		Columns: DefaultColumns(),
	}
}

// Load reads .taskpane.yaml from dir. Returns Default() (not an error) if
// the file doesn't exist.
func Load(dir string) (Config, error) {
	path := filepath.Join(dir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	cfg.applyDefaults()

	if cfg.Refresh < 0 {
		return Config{}, fmt.Errorf("refresh must be positive, got %s", cfg.Refresh)
	}
	if _, err := cfg.Mapping(); err != nil {
		return Config{}, err
	}
	if _, err := cfg.ThemeOverrides(); err != nil {
		return Config{}, err
	}
	if cfg.SessionsFile != "" && !filepath.IsAbs(cfg.SessionsFile) {
		cfg.SessionsFile = filepath.Join(dir, cfg.SessionsFile)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.TaskBin == "" {
		c.TaskBin = d.TaskBin
	}
	if c.Refresh == 0 {
		c.Refresh = d.Refresh
	}
	if len(c.Columns) == 0 {
		c.Columns = d.Columns
	}
}

// Labels returns the column labels in board order.
func (c Config) Labels() []string {
	labels := make([]string, len(c.Columns))
	for i, col := range c.Columns {
		labels[i] = strings.TrimSpace(col.Label)
	}
	return labels
}

// Mapping builds the board's status mapping. A status may appear in at
// most one column; statuses in no column are not shown.
func (c Config) Mapping() (board.Mapping, error) {
	table := make(map[string]string)
	seen := make(map[string]bool)
	for _, col := range c.Columns {
		label := strings.TrimSpace(col.Label)
		if label == "" {
			return nil, errors.New("column label cannot be empty")
		}
		if seen[label] {
			return nil, fmt.Errorf("column %q is defined twice", label)
		}
		seen[label] = true

		for _, status := range col.Statuses {
			status = strings.ToLower(strings.TrimSpace(status))
			if prev, ok := table[status]; ok {
				return nil, fmt.Errorf("status %q is mapped to both %q and %q", status, prev, label)
			}
			table[status] = label
		}
	}
	return board.MappingFromTable(table), nil
}

// ThemeOverrides converts the palette and gradient settings.
func (c Config) ThemeOverrides() (theme.Overrides, error) {
	o := theme.Overrides{Palette: c.Palette}
	if len(c.Gradients) == 0 {
		return o, nil
	}

	o.Gradients = make(map[theme.PaneKind][2]string, len(c.Gradients))
	for name, stops := range c.Gradients {
		kind, ok := theme.ParsePaneKind(name)
		if !ok {
			return theme.Overrides{}, fmt.Errorf("unknown gradient pane %q", name)
		}
		if len(stops) != 2 {
			return theme.Overrides{}, fmt.Errorf("gradient %q needs exactly 2 colors, got %d", name, len(stops))
		}
		o.Gradients[kind] = [2]string{stops[0], stops[1]}
	}
	return o, nil
}

// Theme builds the process theme.
func (c Config) Theme() (*theme.Theme, error) {
	o, err := c.ThemeOverrides()
	if err != nil {
		return nil, err
	}
	if len(o.Palette) == 0 && len(o.Gradients) == 0 {
		return theme.Default(), nil
	}
	return theme.New(o)
}
