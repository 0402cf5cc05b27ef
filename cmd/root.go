package cmd

import (
	"fmt"
	"os"

	"claude-warehouse/internal"
	"claude-warehouse/internal/config"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	cfg     *config.Config
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "claude-warehouse",
	Short: "Normalize Claude.ai exports and load them into an analytics warehouse",
	Long: `A CLI tool to turn Claude.ai conversation exports and session logs
into analyzable data.

The convert command normalizes a Claude.ai export directory into canonical
loglines (JSONL, JSON, YAML, or Markdown). The load command streams session
loglines into a local SQLite star schema, and stats reports on what has been
loaded.

Quick Start:
  claude-warehouse convert ./export              # Normalize an export dir
  claude-warehouse load session.jsonl            # Load into the warehouse
  claude-warehouse stats                         # Report on loaded data
  claude-warehouse inspect export/conversations.json  # Privacy-safe schema`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)

		loaded, err := config.Load()
		if err != nil {
			internal.LogWarn("ignoring config: %v", err)
			loaded = config.Default()
		}
		cfg = loaded
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	// Set version template to ensure --version flag works
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
