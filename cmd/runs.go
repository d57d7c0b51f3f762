package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jirahour/storage"
)

var (
	runsDBPath string
	runsLimit  int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show past import runs from the audit log",
	Long: `List the import runs recorded in the local SQLite database, newest first,
with their outcome and sent/skipped counts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(runsDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		runs, err := store.ListImportRuns()
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No import runs recorded yet.")
			return nil
		}
		if runsLimit > 0 && len(runs) > runsLimit {
			runs = runs[:runsLimit]
		}

		for _, run := range runs {
			outcome := "ok"
			if !run.Success {
				outcome = "FAILED"
			}
			fmt.Printf(
				"#%d  %s  user=%s project=%s  candidates=%d sent=%d skipped=%d  %s\n",
				run.ID,
				run.CreatedAt,
				run.UserID,
				run.ProjectID,
				run.EntryCount,
				run.Sent,
				run.Skipped,
				outcome,
			)
			if run.ErrorText != "" {
				fmt.Printf("    error: %s\n", run.ErrorText)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVar(&runsDBPath, "db", "./jirahour.db", "Path to local SQLite database")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to show (0 for all)")
}
