package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"jirahour/reconcile"
	"jirahour/worklog"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS candidates (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	issue_key TEXT NOT NULL,
	issue_summary TEXT NOT NULL,
	task TEXT NOT NULL,
	start_datetime TEXT NOT NULL,
	end_datetime TEXT NOT NULL,
	effort_hours REAL NOT NULL CHECK(effort_hours >= 0),
	comment TEXT NOT NULL,
	jira_worklog_id TEXT NOT NULL,
	fetched_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE(jira_worklog_id)
);

CREATE TABLE IF NOT EXISTS import_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
	user_id TEXT NOT NULL,
	project_id TEXT NOT NULL,
	entry_count INTEGER NOT NULL,
	sent INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	success INTEGER NOT NULL,
	error_text TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS import_run_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES import_runs(id),
	issue_key TEXT NOT NULL,
	task TEXT NOT NULL,
	start_datetime TEXT NOT NULL,
	end_datetime TEXT NOT NULL,
	effort_hours REAL NOT NULL,
	comment TEXT NOT NULL
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertCandidates stores fetched worklog candidates, skipping rows whose
// Jira worklog id was already snapshotted. Returns the number inserted.
func (s *SQLiteStore) InsertCandidates(candidates []worklog.Candidate) (int, error) {
	if len(candidates) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin insert transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT OR IGNORE INTO candidates
(issue_key, issue_summary, task, start_datetime, end_datetime, effort_hours, comment, jira_worklog_id)
VALUES (?, ?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, candidate := range candidates {
		result, err := stmt.Exec(
			candidate.IssueKey,
			candidate.IssueSummary,
			candidate.Task,
			candidate.StartDateTime.Format(time.RFC3339),
			candidate.EndDateTime.Format(time.RFC3339),
			candidate.EffortHours,
			candidate.Comment,
			candidate.JiraWorklogID,
		)
		if err != nil {
			return 0, fmt.Errorf("insert candidate %s: %w", candidate.JiraWorklogID, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("rows affected: %w", err)
		}
		inserted += int(affected)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit insert transaction: %w", err)
	}
	return inserted, nil
}

func (s *SQLiteStore) ListCandidates() ([]worklog.Candidate, error) {
	return s.listCandidates(`
SELECT issue_key, issue_summary, task, start_datetime, end_datetime, effort_hours, comment, jira_worklog_id
FROM candidates
ORDER BY start_datetime, id;
`)
}

// ListCandidatesInRange returns stored candidates whose start day falls
// inside the key's window.
func (s *SQLiteStore) ListCandidatesInRange(key reconcile.RangeKey) ([]worklog.Candidate, error) {
	all, err := s.ListCandidates()
	if err != nil {
		return nil, err
	}
	filtered := make([]worklog.Candidate, 0, len(all))
	for _, candidate := range all {
		if key.Overlaps(candidate.StartDateTime, candidate.StartDateTime) {
			filtered = append(filtered, candidate)
		}
	}
	return filtered, nil
}

func (s *SQLiteStore) listCandidates(query string, args ...any) ([]worklog.Candidate, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]worklog.Candidate, 0, 64)
	for rows.Next() {
		var (
			candidate worklog.Candidate
			start     string
			end       string
		)
		if err := rows.Scan(
			&candidate.IssueKey,
			&candidate.IssueSummary,
			&candidate.Task,
			&start,
			&end,
			&candidate.EffortHours,
			&candidate.Comment,
			&candidate.JiraWorklogID,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		if candidate.StartDateTime, err = parseStoredTime(start); err != nil {
			return nil, err
		}
		if candidate.EndDateTime, err = parseStoredTime(end); err != nil {
			return nil, err
		}
		candidates = append(candidates, candidate)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}

// RecordImport appends one import batch outcome to the audit log. Implements
// reconcile.Auditor.
func (s *SQLiteStore) RecordImport(record reconcile.ImportRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin audit transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	success := 0
	if record.Success {
		success = 1
	}
	result, err := tx.Exec(`
INSERT INTO import_runs (user_id, project_id, entry_count, sent, skipped, success, error_text)
VALUES (?, ?, ?, ?, ?, ?, ?);
`,
		record.UserID,
		record.ProjectID,
		len(record.Candidates),
		record.Sent,
		record.Skipped,
		success,
		record.ErrorText,
	)
	if err != nil {
		return fmt.Errorf("insert import run: %w", err)
	}
	runID, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("import run id: %w", err)
	}

	stmt, err := tx.Prepare(`
INSERT INTO import_run_entries (run_id, issue_key, task, start_datetime, end_datetime, effort_hours, comment)
VALUES (?, ?, ?, ?, ?, ?, ?);
`)
	if err != nil {
		return fmt.Errorf("prepare audit entries: %w", err)
	}
	defer stmt.Close()

	for _, candidate := range record.Candidates {
		if _, err := stmt.Exec(
			runID,
			candidate.IssueKey,
			candidate.Task,
			candidate.StartDateTime.Format(time.RFC3339),
			candidate.EndDateTime.Format(time.RFC3339),
			candidate.EffortHours,
			candidate.Comment,
		); err != nil {
			return fmt.Errorf("insert audit entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit audit transaction: %w", err)
	}
	return nil
}

// ImportRunSummary is one row of the audit log, newest first.
type ImportRunSummary struct {
	ID         int64
	CreatedAt  string
	UserID     string
	ProjectID  string
	EntryCount int
	Sent       int
	Skipped    int
	Success    bool
	ErrorText  string
}

func (s *SQLiteStore) ListImportRuns() ([]ImportRunSummary, error) {
	rows, err := s.db.Query(`
SELECT id, created_at, user_id, project_id, entry_count, sent, skipped, success, error_text
FROM import_runs
ORDER BY id DESC;
`)
	if err != nil {
		return nil, fmt.Errorf("query import runs: %w", err)
	}
	defer rows.Close()

	runs := make([]ImportRunSummary, 0, 16)
	for rows.Next() {
		var (
			run     ImportRunSummary
			success int
		)
		if err := rows.Scan(
			&run.ID,
			&run.CreatedAt,
			&run.UserID,
			&run.ProjectID,
			&run.EntryCount,
			&run.Sent,
			&run.Skipped,
			&success,
			&run.ErrorText,
		); err != nil {
			return nil, fmt.Errorf("scan import run: %w", err)
		}
		run.Success = success != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import runs: %w", err)
	}
	return runs, nil
}

func parseStoredTime(value string) (time.Time, error) {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", value, err)
	}
	return parsed.Local(), nil
}
