// Package cli implements the tskr command-line interface with cobra.
// Commands validate their inputs (dates, priority codes) before anything
// reaches the core; the core never sees malformed values.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/tskr-dev/tskr/internal/core"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// ConfigMgr is the application configuration manager, injected by the
// app wiring before Execute runs.
var ConfigMgr core.ConfigManager

// Projects is the project service, injected by the app wiring.
var Projects core.ProjectService

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "tskr",
	Short: "A git-friendly task manager for LLM collaboration",
	Long: `tskr is a local task tracker that stores every task as a readable JSON
file partitioned by status, so a repository's tasks can be versioned,
diffed, and shared between humans and automated agents.

Tasks move between backlog, pending, completed, and archived as they are
claimed and finished; every action is recorded in an append-only event
log for coordination.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tskr %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
