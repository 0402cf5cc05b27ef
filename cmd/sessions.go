package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"claude-warehouse/internal"
	"claude-warehouse/internal/api"
	"github.com/spf13/cobra"
)

var (
	sessionsToken string
	sessionsOrg   string
	sessionsLimit int
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List sessions from the Anthropic admin API",
	Long: `List your organization's sessions via the admin API, following
pagination until every page is fetched.

The admin token comes from --token or the ANTHROPIC_ADMIN_KEY environment
variable; the organization UUID from --org or the config file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := sessionsToken
		if token == "" {
			token = os.Getenv("ANTHROPIC_ADMIN_KEY")
		}
		if token == "" {
			return fmt.Errorf("no admin token: set --token or ANTHROPIC_ADMIN_KEY")
		}
		org := sessionsOrg
		if org == "" {
			org = cfg.OrgID
		}
		if org == "" {
			return fmt.Errorf("no organization UUID: set --org or org_id in config")
		}

		client := api.NewClient(token, org)
		sessions, err := client.ListSessions(context.Background(), sessionsLimit)
		if err != nil {
			internal.PrintError(fmt.Sprintf("List sessions failed: %v", err))
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tUPDATED")
		for _, s := range sessions {
			fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.Title, s.UpdatedAt)
		}
		w.Flush()

		internal.LogInfo("fetched %d sessions", len(sessions))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)

	sessionsCmd.Flags().StringVar(&sessionsToken, "token", "", "Admin API token (or ANTHROPIC_ADMIN_KEY)")
	sessionsCmd.Flags().StringVar(&sessionsOrg, "org", "", "Organization UUID")
	sessionsCmd.Flags().IntVar(&sessionsLimit, "limit", 0, "Page size hint for the API (0 = server default)")
}
