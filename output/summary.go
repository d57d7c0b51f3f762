package output

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"jirahour/internal/timeutil"
	"jirahour/worklog"
)

type DailySummary struct {
	Date          string
	StartDateTime time.Time
	EndDateTime   time.Time
	EffortHours   float64
	WorklogCount  int
}

type TaskSummary struct {
	Task         string
	EffortHours  float64
	WorklogCount int
}

func BuildDailySummaries(candidates []worklog.Candidate) []DailySummary {
	if len(candidates) == 0 {
		return []DailySummary{}
	}

	byDay := make(map[string][]worklog.Candidate)
	for _, candidate := range candidates {
		day := timeutil.FormatDay(candidate.StartDateTime.In(time.Local))
		byDay[day] = append(byDay[day], candidate)
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	summaries := make([]DailySummary, 0, len(days))
	for _, day := range days {
		summaries = append(summaries, summarizeDay(day, byDay[day]))
	}
	return summaries
}

func summarizeDay(day string, candidates []worklog.Candidate) DailySummary {
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].StartDateTime.Equal(candidates[j].StartDateTime) {
			return candidates[i].EndDateTime.Before(candidates[j].EndDateTime)
		}
		return candidates[i].StartDateTime.Before(candidates[j].StartDateTime)
	})

	start := candidates[0].StartDateTime
	end := candidates[len(candidates)-1].EndDateTime
	if end.Before(start) {
		end = start
	}

	effort := 0.0
	for _, candidate := range candidates {
		effort += candidate.EffortHours
	}

	return DailySummary{
		Date:          day,
		StartDateTime: start,
		EndDateTime:   end,
		EffortHours:   timeutil.RoundHours(effort),
		WorklogCount:  len(candidates),
	}
}

func BuildTaskSummaries(candidates []worklog.Candidate) []TaskSummary {
	byTask := make(map[string]*TaskSummary)
	order := make([]string, 0, len(candidates))

	for _, candidate := range candidates {
		task := strings.TrimSpace(candidate.Task)
		summary, ok := byTask[task]
		if !ok {
			summary = &TaskSummary{Task: task}
			byTask[task] = summary
			order = append(order, task)
		}
		summary.EffortHours += candidate.EffortHours
		summary.WorklogCount++
	}

	sort.Strings(order)
	summaries := make([]TaskSummary, 0, len(order))
	for _, task := range order {
		summary := byTask[task]
		summary.EffortHours = timeutil.RoundHours(summary.EffortHours)
		summaries = append(summaries, *summary)
	}
	return summaries
}

func WriteSummaries(path, format string, daily []DailySummary, tasks []TaskSummary) error {
	switch normalizeFormat(format) {
	case "csv":
		return writeSummariesCSV(path, daily, tasks)
	case "excel", "xlsx":
		return writeSummariesExcel(path, daily, tasks)
	default:
		return fmt.Errorf("unsupported output format for summaries: %s", format)
	}
}

func normalizeFormat(value string) string {
	return strings.TrimSpace(strings.ToLower(value))
}
