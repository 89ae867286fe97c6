package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var projectPath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "workintel",
	Version: Version,
	Short:   "Quality-gated task coordination for deliverable work",
	Long: `Workintel tracks todos and their deliverables, scores every submission
against configurable quality standards, and keeps stakeholders informed:
1. What is done, in progress, and blocked?
2. Does each deliverable meet its quality bar?
3. Who needs to know, and on which channel?`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVar(&projectPath, "project", "", "Path to the workspace root (defaults to current directory)")
}
