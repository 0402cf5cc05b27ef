package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"claude-warehouse/internal"
	"claude-warehouse/internal/export"
	"github.com/spf13/cobra"
)

var (
	convertOut           string
	convertFormat        string
	convertConversations []string
	convertNoThinking    bool
)

// convertCmd represents the convert command
var convertCmd = &cobra.Command{
	Use:   "convert <export-dir>",
	Short: "Normalize a Claude.ai export into canonical loglines",
	Long: `Normalize a Claude.ai export directory into the canonical logline format.

The export directory must contain conversations.json; projects.json,
users.json, and memories.json are picked up when present. Output formats:
jsonl (default), json, yaml, md.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		exportDir := args[0]

		doc, err := internal.ParseExport(exportDir, internal.ParseOptions{
			ConversationIDs: convertConversations,
			ExcludeThinking: convertNoThinking,
		})
		if err != nil {
			internal.PrintError(fmt.Sprintf("Parse failed: %v", err))
			return err
		}
		internal.LogInfo("normalized %d conversations, %d loglines",
			doc.Metadata.ConversationCount, len(doc.Loglines))

		exporter, err := export.NewExporter(convertFormat)
		if err != nil {
			return err
		}

		out := convertOut
		if out == "" {
			out = fmt.Sprintf("claude-export.%s", exporter.Extension())
		}
		if dir := filepath.Dir(out); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()

		if err := exporter.Export(doc, f); err != nil {
			return &internal.ExportError{Format: convertFormat, Path: out, Err: err}
		}

		internal.PrintSuccess(fmt.Sprintf("Wrote %d loglines to %s", len(doc.Loglines), out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().StringVarP(&convertOut, "out", "o", "", "Output file path (default claude-export.<ext>)")
	convertCmd.Flags().StringVarP(&convertFormat, "format", "f", "jsonl", "Output format: jsonl, json, yaml, md")
	convertCmd.Flags().StringSliceVar(&convertConversations, "conversation", nil, "Only convert these conversation UUIDs (repeatable)")
	convertCmd.Flags().BoolVar(&convertNoThinking, "no-thinking", false, "Drop thinking blocks from the output")
}
