package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"jirahour/config"
	"jirahour/reconcile"
	"jirahour/storage"
	"jirahour/worklog"
)

var (
	importFromDay   string
	importToDay     string
	importProjectID string
	importUserID    string
	importDBPath    string
	importUseSaved  bool
	importDryRun    bool
	importTimeout   time.Duration
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import Jira worklogs into the Rea portal, skipping duplicates",
	Long: `Fetch the configured user's Jira worklogs for the window, compare each one
against the time entries already stored on the Rea portal, and submit the ones
the portal does not have yet.

An entry counts as a duplicate when user, project, task, comment, start day,
end day and effort (within 0.01h) all match an existing portal entry. Entries
submitted earlier in the same run are seen by later candidates, so two equal
worklogs in one batch are only sent once.

A submission failure aborts the rest of the batch; entries already sent stay
sent and the printed counts reflect them. Every run is appended to the audit
log in the local SQLite database.`,
	Example: `
  # Import August into project 42
  jirahour import --from 2026-08-01 --to 2026-08-31 --project 42

  # Preview without writing to the portal
  jirahour import --from 2026-08-01 --to 2026-08-31 --project 42 --dry-run

  # Import from the local snapshot instead of querying Jira
  jirahour import --from 2026-08-01 --to 2026-08-31 --project 42 --use-saved
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		from, to, err := parseDayRange(importFromDay, importToDay)
		if err != nil {
			return err
		}

		projectID := strings.TrimSpace(importProjectID)
		if projectID == "" {
			projectID = cfg.Rea.ProjectID
		}
		if projectID == "" {
			return fmt.Errorf("a Rea project id is required (--project or rea.project_id)")
		}

		ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
		defer cancel()

		store, err := storage.OpenSQLite(importDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		key := reconcile.RangeKeyFrom(from, to)

		var candidates []worklog.Candidate
		if importUseSaved {
			candidates, err = store.ListCandidatesInRange(key)
			if err != nil {
				return err
			}
		} else {
			jiraClient, err := jiraLogin(ctx, cfg, "jirahour-import/1.0")
			if err != nil {
				return err
			}
			defer jiraClient.Logout()

			candidates, err = jiraClient.FetchWorklogs(ctx, from, to)
			if err != nil {
				return err
			}
		}
		if len(candidates) == 0 {
			fmt.Println("No worklogs found in the selected range; nothing to import.")
			return nil
		}

		reaClient, err := reaLogin(ctx, cfg, "jirahour-import/1.0")
		if err != nil {
			return err
		}
		defer reaClient.Logout()

		userID := strings.TrimSpace(importUserID)
		if userID == "" {
			userID = cfg.Rea.UserID
		}
		userID, err = resolveReaUserID(ctx, reaClient, userID)
		if err != nil {
			return err
		}

		cache := reconcile.NewEntryCache()

		logger := logrus.New()
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

		if importDryRun {
			service := reconcile.NewService(reaClient, cache, nil, logger)
			return runImportDryRun(ctx, service, candidates, userID, projectID, key)
		}

		service := reconcile.NewService(reaClient, cache, store, logger)
		result, err := service.ImportBatch(ctx, candidates, userID, projectID, key)
		if err != nil {
			fmt.Printf(
				"Import aborted after %d sent and %d skipped entry/entries: %v\n",
				result.Sent,
				result.Skipped,
				err,
			)
			return err
		}

		fmt.Printf(
			"Import completed. Candidates: %d, Sent: %d, Skipped (already on portal): %d\n",
			len(candidates),
			result.Sent,
			result.Skipped,
		)
		return nil
	},
}

// runImportDryRun reports what the import would do without creating entries
// or touching the audit log.
func runImportDryRun(
	ctx context.Context,
	service *reconcile.Service,
	candidates []worklog.Candidate,
	userID, projectID string,
	key reconcile.RangeKey,
) error {
	decisions, err := service.Plan(ctx, candidates, userID, projectID, key)
	if err != nil {
		return err
	}

	wouldSend := 0
	wouldSkip := 0
	for _, decision := range decisions {
		verdict := "send"
		if decision.Duplicate {
			verdict = "skip"
			wouldSkip++
		} else {
			wouldSend++
		}
		fmt.Printf(
			"[%s] %s  %5.2fh  %s\n",
			verdict,
			decision.Candidate.StartDateTime.Format("2006-01-02"),
			decision.Candidate.EffortHours,
			decision.Candidate.Task,
		)
	}

	fmt.Printf("Dry-run summary: would send %d, would skip %d of %d candidate(s).\n", wouldSend, wouldSkip, len(candidates))
	return nil
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&importFromDay, "from", "", "Start day (inclusive), format 2006-01-02")
	importCmd.Flags().StringVar(&importToDay, "to", "", "End day (inclusive), format 2006-01-02")
	importCmd.Flags().StringVar(&importProjectID, "project", "", "Rea project id (default: rea.project_id from config)")
	importCmd.Flags().StringVar(&importUserID, "user", "", "Rea user id (default: rea.user_id from config, else resolved from the portal profile)")
	importCmd.Flags().StringVar(&importDBPath, "db", "./jirahour.db", "Path to local SQLite database (audit log and saved worklogs)")
	importCmd.Flags().BoolVar(&importUseSaved, "use-saved", false, "Import the worklogs saved by fetch --save instead of querying Jira")
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Report duplicates without creating portal entries")
	importCmd.Flags().DurationVar(&importTimeout, "timeout", 5*time.Minute, "Overall timeout for the import")
}
