package cmd

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/stephenmfriend/taskpane/client"
	"github.com/stephenmfriend/taskpane/config"
	"github.com/stephenmfriend/taskpane/logging"
	"github.com/stephenmfriend/taskpane/session"
	"github.com/stephenmfriend/taskpane/tui"
	"github.com/stephenmfriend/taskpane/version"
)

// boardCmd represents the board command
var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Start the interactive board",
	Long: `Start the full-screen Kanban board.

Tasks are read with "task export" and refreshed periodically. Agent sessions
are read from the snapshot file named by sessions_file or --sessions.

Examples:
  # Start the board
  taskpane board

  # Only show one project
  echo 'filter: "project:web"' > .taskpane.yaml && taskpane board`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard()
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}

// loadConfig reads the config from dir and applies command line overrides.
func loadConfig(dir, bin, sessions string) (config.Config, error) {
	cfg, err := config.Load(dir)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if bin != "" {
		cfg.TaskBin = bin
	}
	if sessions != "" {
		cfg.SessionsFile = sessions
	}
	return cfg, nil
}

// runBoard starts the interactive board
func runBoard() (err error) {
	cfg, err := loadConfig(workDir, taskBin, sessionsFile)
	if err != nil {
		return err
	}

	if err := logging.Init(logging.Config{
		Level:     logging.ParseLevel(cfg.LogLevel),
		SentryDSN: cfg.SentryDSN,
		Env:       "production",
		Version:   version.Short(),
		LogFile:   cfg.LogFile,
	}); err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}
	defer logging.Flush(2 * time.Second)
	defer func() {
		if r := logging.CapturePanic(recover(), "command", "board"); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	th, err := cfg.Theme()
	if err != nil {
		return fmt.Errorf("invalid theme: %w", err)
	}
	mapping, err := cfg.Mapping()
	if err != nil {
		return err
	}

	logging.Info("starting board", "task_bin", cfg.TaskBin, "sessions", cfg.SessionsFile, "refresh", cfg.Refresh)

	model := tui.NewModel(tui.Options{
		Repo:     client.NewClient(cfg.TaskBin, client.WithFilter(cfg.Filter)),
		Sessions: session.FileSource{Path: cfg.SessionsFile},
		Theme:    th,
		Labels:   cfg.Labels(),
		Mapping:  mapping,
		Refresh:  cfg.Refresh,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
