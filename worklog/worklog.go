package worklog

import "time"

// Candidate is a Jira worklog proposed for import into the Rea portal. It is
// built once by the jira fetcher and never mutated afterwards.
type Candidate struct {
	IssueKey      string
	IssueSummary  string
	Task          string
	StartDateTime time.Time
	EndDateTime   time.Time
	EffortHours   float64
	Comment       string
	JiraWorklogID string
}
