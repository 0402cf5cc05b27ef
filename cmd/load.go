package cmd

import (
	"fmt"

	"claude-warehouse/internal"
	"claude-warehouse/internal/config"
	"claude-warehouse/internal/warehouse"
	"github.com/spf13/cobra"
)

var (
	loadDB         string
	loadProject    string
	loadNoThinking bool
)

// loadCmd represents the load command
var loadCmd = &cobra.Command{
	Use:   "load <session.jsonl> [session.jsonl...]",
	Short: "Load session loglines into the warehouse",
	Long: `Load one or more session logline files into the star-schema warehouse.

Each file is one session. The whole file loads in a single transaction;
malformed lines are staged and skipped, never fatal. Re-loading a file
appends duplicate rows: the schema carries no uniqueness constraints.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := loadDB
		if dbPath == "" {
			dbPath = config.ExpandHome(cfg.WarehousePath)
		}
		project := loadProject
		if project == "" {
			project = cfg.DefaultProject
		}

		db, err := warehouse.Open(dbPath)
		if err != nil {
			internal.PrintError(fmt.Sprintf("Open warehouse failed: %v", err))
			return err
		}
		defer db.Close()

		excludeThinking := loadNoThinking || !cfg.IncludeThinking
		for _, sessionPath := range args {
			stats, err := warehouse.RunETL(db, sessionPath, project, warehouse.ETLOptions{
				ExcludeThinking: excludeThinking,
			})
			if err != nil {
				internal.PrintError(fmt.Sprintf("Load failed: %v", err))
				return err
			}
			internal.PrintSuccess(fmt.Sprintf(
				"Loaded %s: %d messages, %d blocks, %d tool calls (%d lines skipped)",
				sessionPath, stats.Messages, stats.ContentBlocks, stats.ToolCalls, stats.SkippedLines))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loadCmd)

	loadCmd.Flags().StringVar(&loadDB, "db", "", "Warehouse database path (default from config)")
	loadCmd.Flags().StringVarP(&loadProject, "project", "p", "", "Project label for these sessions")
	loadCmd.Flags().BoolVar(&loadNoThinking, "no-thinking", false, "Drop thinking blocks before loading")
}
