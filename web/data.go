package web

import (
	"sort"
	"time"

	"jirahour/internal/timeutil"
	"jirahour/rea"
	"jirahour/worklog"
)

type DayRow struct {
	Date        time.Time
	LocalHours  float64
	RemoteHours float64
	DeltaHours  float64
	Entries     []EntryRow
}

type EntryRow struct {
	Source      string
	Task        string
	Start       string
	End         string
	EffortHours float64
	Comment     string
}

// BuildDailyView merges fetched Jira candidates and Rea portal entries into
// one day-by-day comparison, sorted by date.
func BuildDailyView(local []worklog.Candidate, remote []rea.TimeEntry) []DayRow {
	localByDay := make(map[string][]worklog.Candidate)
	remoteByDay := make(map[string][]rea.TimeEntry)
	days := make(map[string]time.Time)

	for _, candidate := range local {
		day := timeutil.StartOfDay(candidate.StartDateTime)
		key := timeutil.FormatDay(day)
		localByDay[key] = append(localByDay[key], candidate)
		days[key] = day
	}
	for _, entry := range remote {
		if entry.StartDate.IsZero() {
			continue
		}
		day := timeutil.StartOfDay(entry.StartDate.Time)
		key := timeutil.FormatDay(day)
		remoteByDay[key] = append(remoteByDay[key], entry)
		days[key] = day
	}

	keys := make([]string, 0, len(days))
	for key := range days {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]DayRow, 0, len(keys))
	for _, key := range keys {
		localEntries := append([]worklog.Candidate(nil), localByDay[key]...)
		remoteEntries := append([]rea.TimeEntry(nil), remoteByDay[key]...)

		sort.Slice(localEntries, func(i, j int) bool {
			return localEntries[i].StartDateTime.Before(localEntries[j].StartDateTime)
		})

		row := DayRow{Date: days[key]}
		for _, candidate := range localEntries {
			row.LocalHours += candidate.EffortHours
			row.Entries = append(row.Entries, EntryRow{
				Source:      "jira",
				Task:        candidate.Task,
				Start:       candidate.StartDateTime.Format("15:04"),
				End:         candidate.EndDateTime.Format("15:04"),
				EffortHours: candidate.EffortHours,
				Comment:     candidate.Comment,
			})
		}
		for _, entry := range remoteEntries {
			row.RemoteHours += entry.Effort
			row.Entries = append(row.Entries, EntryRow{
				Source:      "rea",
				Task:        entry.Task.String(),
				Start:       timeutil.FormatDay(entry.StartDate.Time),
				End:         timeutil.FormatDay(entry.EndDate.Time),
				EffortHours: entry.Effort,
				Comment:     entry.Comment.String(),
			})
		}

		row.LocalHours = timeutil.RoundHours(row.LocalHours)
		row.RemoteHours = timeutil.RoundHours(row.RemoteHours)
		row.DeltaHours = timeutil.RoundHours(row.LocalHours - row.RemoteHours)
		rows = append(rows, row)
	}

	return rows
}
