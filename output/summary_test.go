package output

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"jirahour/worklog"
)

func summaryCandidate(day, hour int, task string, effort float64) worklog.Candidate {
	start := time.Date(2026, 8, day, hour, 0, 0, 0, time.Local)
	return worklog.Candidate{
		IssueKey:      strings.SplitN(task, " ", 2)[0],
		Task:          task,
		StartDateTime: start,
		EndDateTime:   start.Add(time.Duration(effort * float64(time.Hour))),
		EffortHours:   effort,
		Comment:       "work",
	}
}

func TestBuildDailySummaries(t *testing.T) {
	t.Parallel()

	candidates := []worklog.Candidate{
		summaryCandidate(5, 9, "PROJ-2 - Review", 2),
		summaryCandidate(4, 13, "PROJ-1 - Parser", 1.5),
		summaryCandidate(4, 9, "PROJ-1 - Parser", 1),
	}

	daily := BuildDailySummaries(candidates)
	if len(daily) != 2 {
		t.Fatalf("expected 2 days, got %d", len(daily))
	}

	first := daily[0]
	if first.Date != "2026-08-04" {
		t.Fatalf("days must sort ascending, got %q first", first.Date)
	}
	if first.EffortHours != 2.5 || first.WorklogCount != 2 {
		t.Fatalf("unexpected first day: %+v", first)
	}
	if first.StartDateTime.Hour() != 9 {
		t.Fatalf("first start must be the earliest worklog, got %v", first.StartDateTime)
	}
	if first.EndDateTime.Hour() != 14 || first.EndDateTime.Minute() != 30 {
		t.Fatalf("last end must be the latest worklog, got %v", first.EndDateTime)
	}

	if daily[1].Date != "2026-08-05" || daily[1].EffortHours != 2 {
		t.Fatalf("unexpected second day: %+v", daily[1])
	}
}

func TestBuildDailySummaries_Empty(t *testing.T) {
	t.Parallel()

	if got := BuildDailySummaries(nil); len(got) != 0 {
		t.Fatalf("expected no summaries, got %d", len(got))
	}
}

func TestBuildTaskSummaries(t *testing.T) {
	t.Parallel()

	candidates := []worklog.Candidate{
		summaryCandidate(4, 9, "PROJ-2 - Review", 2),
		summaryCandidate(4, 11, "PROJ-1 - Parser", 1),
		summaryCandidate(5, 9, "PROJ-1 - Parser", 1.5),
	}

	tasks := BuildTaskSummaries(candidates)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}

	if tasks[0].Task != "PROJ-1 - Parser" {
		t.Fatalf("tasks must sort by name, got %q first", tasks[0].Task)
	}
	if tasks[0].EffortHours != 2.5 || tasks[0].WorklogCount != 2 {
		t.Fatalf("unexpected aggregation: %+v", tasks[0])
	}
	if tasks[1].Task != "PROJ-2 - Review" || tasks[1].EffortHours != 2 {
		t.Fatalf("unexpected second task: %+v", tasks[1])
	}
}

func TestWriteSummaries_CSV(t *testing.T) {
	t.Parallel()

	candidates := []worklog.Candidate{
		summaryCandidate(4, 9, "PROJ-1 - Parser", 1.5),
	}
	daily := BuildDailySummaries(candidates)
	tasks := BuildTaskSummaries(candidates)

	path := filepath.Join(t.TempDir(), "summary.csv")
	if err := WriteSummaries(path, "csv", daily, tasks); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "2026-08-04") {
		t.Fatalf("csv missing day row:\n%s", text)
	}
	if !strings.Contains(text, "PROJ-1 - Parser") {
		t.Fatalf("csv missing task row:\n%s", text)
	}
	if !strings.Contains(text, "1.50") {
		t.Fatalf("csv missing formatted effort:\n%s", text)
	}
}

func TestWriteSummaries_Excel(t *testing.T) {
	t.Parallel()

	candidates := []worklog.Candidate{
		summaryCandidate(4, 9, "PROJ-1 - Parser", 1.5),
	}
	daily := BuildDailySummaries(candidates)
	tasks := BuildTaskSummaries(candidates)

	path := filepath.Join(t.TempDir(), "summary.xlsx")
	if err := WriteSummaries(path, "excel", daily, tasks); err != nil {
		t.Fatalf("write excel: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat excel output: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("excel output is empty")
	}
}

func TestWriteSummaries_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := WriteSummaries(filepath.Join(t.TempDir(), "out.bin"), "parquet", nil, nil)
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
}
