package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jirahour/config"
	"jirahour/storage"
)

var (
	fetchFromDay string
	fetchToDay   string
	fetchSave    bool
	fetchDBPath  string
	fetchTimeout time.Duration
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch the authenticated user's Jira worklogs for a date range",
	Long: `Query Jira for issues the configured user logged work on inside the window,
collect the matching worklog entries, and print them.

Entries are re-filtered client-side: the Jira search is day-granular and
issues carry worklogs from other authors and other days. With --save the
entries are also snapshotted into the local SQLite database (deduplicated by
Jira worklog id) for the stats and serve commands.`,
	Example: `
  # Print August's worklogs
  jirahour fetch --from 2026-08-01 --to 2026-08-31

  # Snapshot them locally as well
  jirahour fetch --from 2026-08-01 --to 2026-08-31 --save
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		from, to, err := parseDayRange(fetchFromDay, fetchToDay)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		client, err := jiraLogin(ctx, cfg, "jirahour-fetch/1.0")
		if err != nil {
			return err
		}
		defer client.Logout()

		candidates, err := client.FetchWorklogs(ctx, from, to)
		if err != nil {
			return err
		}

		if len(candidates) == 0 {
			fmt.Println("No worklogs found in the selected range.")
			return nil
		}

		for _, candidate := range candidates {
			fmt.Printf(
				"%s  %5.2fh  %-30s  %s\n",
				candidate.StartDateTime.Format("2006-01-02 15:04"),
				candidate.EffortHours,
				candidate.Task,
				candidate.Comment,
			)
		}
		fmt.Printf("Fetched %d worklog(s) for %s.\n", len(candidates), client.DisplayName())

		if !fetchSave {
			return nil
		}

		store, err := storage.OpenSQLite(fetchDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		inserted, err := store.InsertCandidates(candidates)
		if err != nil {
			return err
		}
		fmt.Printf("Snapshotted %d new worklog(s) into %s.\n", inserted, fetchDBPath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().StringVar(&fetchFromDay, "from", "", "Start day (inclusive), format 2006-01-02")
	fetchCmd.Flags().StringVar(&fetchToDay, "to", "", "End day (inclusive), format 2006-01-02")
	fetchCmd.Flags().BoolVar(&fetchSave, "save", false, "Snapshot fetched worklogs into the local SQLite database")
	fetchCmd.Flags().StringVar(&fetchDBPath, "db", "./jirahour.db", "Path to local SQLite database")
	fetchCmd.Flags().DurationVar(&fetchTimeout, "timeout", 2*time.Minute, "Overall timeout for the fetch")
}
