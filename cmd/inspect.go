package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"claude-warehouse/internal/inspect"
	"github.com/spf13/cobra"
)

var (
	inspectSamples int
	inspectJSON    bool
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect <path>",
	Short: "Infer a privacy-safe schema from JSON or JSONL files",
	Long: `Inspect the structure of a JSON/JSONL file or every .json file in a
directory without exposing any content. Output reports types, lengths, and
patterns only, so it is safe to share.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		if info.IsDir() {
			reports, err := inspect.InspectDir(path, inspectSamples)
			if err != nil {
				return err
			}
			if inspectJSON {
				return printJSON(reports)
			}
			names := make([]string, 0, len(reports))
			for name := range reports {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Print(inspect.FormatReport(reports[name]))
				fmt.Println()
			}
			return nil
		}

		report, err := inspect.InspectFile(path, inspectSamples)
		if err != nil {
			return err
		}
		if inspectJSON {
			return printJSON(report)
		}
		fmt.Print(inspect.FormatReport(report))
		return nil
	},
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().IntVar(&inspectSamples, "samples", inspect.DefaultMaxSamples, "Max array items to sample per level")
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "Emit the schema as JSON instead of text")
}
