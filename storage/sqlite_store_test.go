package storage

import (
	"path/filepath"
	"testing"
	"time"

	"jirahour/reconcile"
	"jirahour/worklog"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func storedCandidate(day int, worklogID string) worklog.Candidate {
	start := time.Date(2026, 8, day, 9, 0, 0, 0, time.Local)
	return worklog.Candidate{
		IssueKey:      "PROJ-1",
		IssueSummary:  "Parser",
		Task:          "PROJ-1 - Parser",
		StartDateTime: start,
		EndDateTime:   start.Add(90 * time.Minute),
		EffortHours:   1.5,
		Comment:       "work",
		JiraWorklogID: worklogID,
	}
}

func TestSQLiteStore_InsertAndListCandidates(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	inserted, err := store.InsertCandidates([]worklog.Candidate{
		storedCandidate(4, "w1"),
		storedCandidate(5, "w2"),
	})
	if err != nil {
		t.Fatalf("insert candidates: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted, got %d", inserted)
	}

	listed, err := store.ListCandidates()
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(listed))
	}

	first := listed[0]
	if first.JiraWorklogID != "w1" || first.Task != "PROJ-1 - Parser" {
		t.Fatalf("unexpected first candidate: %+v", first)
	}
	wantStart := time.Date(2026, 8, 4, 9, 0, 0, 0, time.Local)
	if !first.StartDateTime.Equal(wantStart) {
		t.Fatalf("start time not preserved: %v", first.StartDateTime)
	}
	if !first.EndDateTime.Equal(wantStart.Add(90 * time.Minute)) {
		t.Fatalf("end time not preserved: %v", first.EndDateTime)
	}
	if first.EffortHours != 1.5 {
		t.Fatalf("effort not preserved: %v", first.EffortHours)
	}
}

func TestSQLiteStore_InsertDeduplicatesByWorklogID(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	if _, err := store.InsertCandidates([]worklog.Candidate{storedCandidate(4, "w1")}); err != nil {
		t.Fatalf("first insert: %v", err)
	}

	inserted, err := store.InsertCandidates([]worklog.Candidate{
		storedCandidate(4, "w1"),
		storedCandidate(5, "w2"),
	})
	if err != nil {
		t.Fatalf("second insert: %v", err)
	}
	if inserted != 1 {
		t.Fatalf("expected only the new row inserted, got %d", inserted)
	}

	listed, err := store.ListCandidates()
	if err != nil {
		t.Fatalf("list candidates: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 rows after re-insert, got %d", len(listed))
	}
}

func TestSQLiteStore_ListCandidatesInRange(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	if _, err := store.InsertCandidates([]worklog.Candidate{
		storedCandidate(1, "w1"),
		storedCandidate(4, "w2"),
		storedCandidate(9, "w3"),
	}); err != nil {
		t.Fatalf("insert candidates: %v", err)
	}

	key := reconcile.RangeKeyFrom(
		time.Date(2026, 8, 3, 0, 0, 0, 0, time.Local),
		time.Date(2026, 8, 7, 0, 0, 0, 0, time.Local),
	)
	listed, err := store.ListCandidatesInRange(key)
	if err != nil {
		t.Fatalf("list in range: %v", err)
	}
	if len(listed) != 1 || listed[0].JiraWorklogID != "w2" {
		t.Fatalf("unexpected range result: %+v", listed)
	}
}

func TestSQLiteStore_RecordAndListImportRuns(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	if err := store.RecordImport(reconcile.ImportRecord{
		UserID:     "u1",
		ProjectID:  "p1",
		Candidates: []worklog.Candidate{storedCandidate(4, "w1"), storedCandidate(5, "w2")},
		Sent:       1,
		Skipped:    1,
		Success:    true,
	}); err != nil {
		t.Fatalf("record first import: %v", err)
	}
	if err := store.RecordImport(reconcile.ImportRecord{
		UserID:     "u1",
		ProjectID:  "p1",
		Candidates: []worklog.Candidate{storedCandidate(6, "w3")},
		Sent:       0,
		Skipped:    0,
		Success:    false,
		ErrorText:  "portal rejected the entry",
	}); err != nil {
		t.Fatalf("record second import: %v", err)
	}

	runs, err := store.ListImportRuns()
	if err != nil {
		t.Fatalf("list import runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	// Newest first.
	if runs[0].Success || runs[0].ErrorText != "portal rejected the entry" {
		t.Fatalf("unexpected newest run: %+v", runs[0])
	}
	if runs[0].EntryCount != 1 {
		t.Fatalf("unexpected entry count: %d", runs[0].EntryCount)
	}
	if !runs[1].Success || runs[1].Sent != 1 || runs[1].Skipped != 1 {
		t.Fatalf("unexpected older run: %+v", runs[1])
	}
}
