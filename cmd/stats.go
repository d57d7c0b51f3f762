package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"jirahour/output"
	"jirahour/reconcile"
	"jirahour/storage"
	"jirahour/worklog"
)

var (
	statsFromDay string
	statsToDay   string
	statsDBPath  string
	statsOutput  string
	statsFormat  string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize saved worklogs per day and per task",
	Long: `Read the worklogs saved by the fetch command and print hours per day and per
task. Use --output to write the summaries to a CSV or Excel file instead.`,
	Example: `
  # Summarize everything saved so far
  jirahour stats

  # Summarize one month and export to Excel
  jirahour stats --from 2026-08-01 --to 2026-08-31 --output august.xlsx --format excel
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := storage.OpenSQLite(statsDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		var candidates []worklog.Candidate
		if statsFromDay != "" || statsToDay != "" {
			from, to, err := parseDayRange(statsFromDay, statsToDay)
			if err != nil {
				return err
			}
			candidates, err = store.ListCandidatesInRange(reconcile.RangeKeyFrom(from, to))
			if err != nil {
				return err
			}
		} else {
			candidates, err = store.ListCandidates()
			if err != nil {
				return err
			}
		}

		if len(candidates) == 0 {
			fmt.Println("No saved worklogs found. Run fetch with --save first.")
			return nil
		}

		daily := output.BuildDailySummaries(candidates)
		tasks := output.BuildTaskSummaries(candidates)

		if statsOutput != "" {
			if err := output.WriteSummaries(statsOutput, statsFormat, daily, tasks); err != nil {
				return err
			}
			fmt.Printf("Wrote %d day(s) and %d task(s) to %s.\n", len(daily), len(tasks), statsOutput)
			return nil
		}

		fmt.Println("Hours per day:")
		var total float64
		for _, day := range daily {
			fmt.Printf("  %s  %6.2fh  (%d worklog(s))\n", day.Date, day.EffortHours, day.WorklogCount)
			total += day.EffortHours
		}

		fmt.Println("\nHours per task:")
		for _, task := range tasks {
			fmt.Printf("  %6.2fh  %s\n", task.EffortHours, task.Task)
		}

		fmt.Printf("\nTotal: %.2fh across %d worklog(s).\n", total, len(candidates))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringVar(&statsFromDay, "from", "", "Start day (inclusive), format 2006-01-02")
	statsCmd.Flags().StringVar(&statsToDay, "to", "", "End day (inclusive), format 2006-01-02")
	statsCmd.Flags().StringVar(&statsDBPath, "db", "./jirahour.db", "Path to local SQLite database")
	statsCmd.Flags().StringVar(&statsOutput, "output", "", "Write summaries to this file instead of printing")
	statsCmd.Flags().StringVar(&statsFormat, "format", "csv", "Output format: csv or excel")
}
