package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"claude-warehouse/internal"
	"claude-warehouse/internal/config"
	"claude-warehouse/internal/warehouse"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var statsDB string

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

// statsCmd represents the stats command
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Report on loaded warehouse data",
	Long: `Report aggregate analytics from the warehouse: tool usage by category,
messages by model family, activity by time of day, and per-session summaries.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := statsDB
		if dbPath == "" {
			dbPath = config.ExpandHome(cfg.WarehousePath)
		}
		if _, err := os.Stat(dbPath); err != nil {
			internal.PrintError(fmt.Sprintf("No warehouse at %s (run 'load' first)", dbPath))
			return err
		}

		db, err := warehouse.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

		sessions, err := warehouse.SessionSummaries(db)
		if err != nil {
			return err
		}
		fmt.Println(headerStyle.Render("Sessions"))
		fmt.Fprintln(w, "SESSION\tPROJECT\tMESSAGES\tTOOL CALLS\tDURATION")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%d (%du/%da)\t%d\t%ds\n",
				s.SessionID, s.Project, s.TotalMessages, s.UserMessages,
				s.AssistantMessages, s.ToolCalls, s.DurationSeconds)
		}
		w.Flush()

		tools, err := warehouse.ToolUsageByCategory(db)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(headerStyle.Render("Tool usage"))
		fmt.Fprintln(w, "CATEGORY\tTOOL\tCALLS\tERRORS")
		for _, t := range tools {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", t.Category, t.Tool, t.Calls, t.Errors)
		}
		w.Flush()

		models, err := warehouse.MessagesByModel(db)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(headerStyle.Render("Models"))
		fmt.Fprintln(w, "FAMILY\tMODEL\tMESSAGES")
		for _, m := range models {
			fmt.Fprintf(w, "%s\t%s\t%d\n", m.Family, m.Model, m.Messages)
		}
		w.Flush()

		activity, err := warehouse.ActivityByTimeOfDay(db)
		if err != nil {
			return err
		}
		fmt.Println()
		fmt.Println(headerStyle.Render("Activity"))
		fmt.Fprintln(w, "TIME OF DAY\tMESSAGES")
		for _, a := range activity {
			fmt.Fprintf(w, "%s\t%d\n", a.TimeOfDay, a.Messages)
		}
		w.Flush()

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsDB, "db", "", "Warehouse database path (default from config)")
}
