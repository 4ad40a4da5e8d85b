package cmd

import (
	"github.com/spf13/cobra"
)

var (
	// workDir is where .taskpane.yaml is looked up
	workDir string

	// taskBin overrides the configured Taskwarrior binary
	taskBin string

	// sessionsFile overrides the configured agent session snapshot
	sessionsFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskpane",
	Short: "taskpane - A Kanban dashboard for Taskwarrior and coding agents",
	Long: `taskpane is a terminal dashboard that shows your Taskwarrior tasks as a
Kanban board next to the terminal sessions of your coding agents.

Running taskpane with no subcommand starts the board.

Examples:
  # Start the board
  taskpane

  # Use a specific task binary and session snapshot
  taskpane --task-bin /opt/bin/task --sessions ~/.agents/sessions.yaml

  # Read .taskpane.yaml from another directory
  taskpane --dir ~/src/webapp board`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBoard()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&workDir, "dir", ".", "directory containing .taskpane.yaml")
	rootCmd.PersistentFlags().StringVar(&taskBin, "task-bin", "", "Taskwarrior binary (overrides task_bin)")
	rootCmd.PersistentFlags().StringVar(&sessionsFile, "sessions", "", "agent session snapshot file (overrides sessions_file)")
}
