package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/stephenmfriend/taskpane/version"
)

var checkUpdate bool

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version, commit, and build date of taskpane.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Info())
		if !checkUpdate {
			return
		}
		if latest, ok := version.CheckForUpdate(); ok {
			fmt.Fprintf(cmd.OutOrStdout(), "A newer release is available: %s\n", latest)
		}
	},
}

func init() {
	versionCmd.Flags().BoolVar(&checkUpdate, "check", false, "check GitHub for a newer release")
	rootCmd.AddCommand(versionCmd)
}
