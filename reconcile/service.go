package reconcile

import (
	"context"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"jirahour/internal/apierr"
	"jirahour/internal/timeutil"
	"jirahour/rea"
	"jirahour/worklog"
)

// effortTolerance absorbs rounding differences between locally computed hours
// and what the portal stores. Do not tighten without revisiting the source
// side rounding.
const effortTolerance = 0.01

// SinkClient is the slice of the portal client the engine needs.
type SinkClient interface {
	IsAuthenticated() bool
	GetTimeEntries(ctx context.Context, userID string) ([]rea.TimeEntry, error)
	CreateTimeEntry(ctx context.Context, entry rea.TimeEntry) error
}

// Auditor receives one record per import batch with the final outcome.
// Recording is best-effort; failures never interrupt an import.
type Auditor interface {
	RecordImport(record ImportRecord) error
}

type ImportRecord struct {
	UserID     string
	ProjectID  string
	Candidates []worklog.Candidate
	Sent       int
	Skipped    int
	Success    bool
	ErrorText  string
}

type Result struct {
	Sent    int
	Skipped int
}

// Service reconciles worklog candidates against existing portal entries and
// submits the ones not already present. One import runs at a time; the
// service holds no internal parallelism and issues requests sequentially.
type Service struct {
	sink  SinkClient
	cache *EntryCache
	audit Auditor
	log   logrus.FieldLogger
}

func NewService(sink SinkClient, cache *EntryCache, audit Auditor, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{sink: sink, cache: cache, audit: audit, log: log}
}

// ImportBatch submits each candidate not already present on the portal, in
// input order. The cache for the range is force-refreshed once before the
// loop. A submission failure aborts the rest of the batch; entries already
// sent stay sent and the returned counts reflect them.
func (s *Service) ImportBatch(ctx context.Context, candidates []worklog.Candidate, userID, projectID string, key RangeKey) (Result, error) {
	if !s.sink.IsAuthenticated() {
		return Result{}, apierr.ErrNotAuthenticated
	}

	existing, err := s.cache.Ensure(ctx, key, s.fetchRange(userID), true)
	if err != nil {
		// Non-fatal: the import proceeds against an empty view, at the
		// cost of potentially re-sending entries the refresh would have
		// revealed.
		s.log.WithError(err).WithField("range", key.String()).
			Warn("refreshing portal entries failed; duplicate detection may be incomplete")
	}

	result := Result{}
	for _, candidate := range candidates {
		if isDuplicate(candidate, existing, userID, projectID) {
			result.Skipped++
			continue
		}

		entry := buildTimeEntry(candidate, userID, projectID)
		if err := s.sink.CreateTimeEntry(ctx, entry); err != nil {
			s.recordAudit(candidates, userID, projectID, result, err)
			return result, err
		}
		result.Sent++

		// Later candidates in this batch must see the submitted entry,
		// otherwise two mutual duplicates would both be sent.
		existing = append(existing, entry)
		s.cache.Append(key, entry)
	}

	s.recordAudit(candidates, userID, projectID, result, nil)
	return result, nil
}

// Decision is one candidate's verdict from a Plan run.
type Decision struct {
	Candidate worklog.Candidate
	Duplicate bool
}

// Plan reports what ImportBatch would do, without creating portal entries or
// touching the audit log. Entries a real run would have submitted count as
// existing for the later candidates, so in-batch duplicates show up as such.
func (s *Service) Plan(ctx context.Context, candidates []worklog.Candidate, userID, projectID string, key RangeKey) ([]Decision, error) {
	if !s.sink.IsAuthenticated() {
		return nil, apierr.ErrNotAuthenticated
	}

	existing, err := s.cache.Ensure(ctx, key, s.fetchRange(userID), true)
	if err != nil {
		s.log.WithError(err).WithField("range", key.String()).
			Warn("refreshing portal entries failed; duplicate detection may be incomplete")
	}

	decisions := make([]Decision, 0, len(candidates))
	for _, candidate := range candidates {
		duplicate := isDuplicate(candidate, existing, userID, projectID)
		if !duplicate {
			existing = append(existing, buildTimeEntry(candidate, userID, projectID))
		}
		decisions = append(decisions, Decision{Candidate: candidate, Duplicate: duplicate})
	}
	return decisions, nil
}

func (s *Service) fetchRange(userID string) FetchFunc {
	return func(ctx context.Context, key RangeKey) ([]rea.TimeEntry, error) {
		entries, err := s.sink.GetTimeEntries(ctx, userID)
		if err != nil {
			return nil, err
		}
		return FilterEntriesByRange(entries, key), nil
	}
}

func (s *Service) recordAudit(candidates []worklog.Candidate, userID, projectID string, result Result, importErr error) {
	if s.audit == nil {
		return
	}
	record := ImportRecord{
		UserID:     userID,
		ProjectID:  projectID,
		Candidates: candidates,
		Sent:       result.Sent,
		Skipped:    result.Skipped,
		Success:    importErr == nil,
	}
	if importErr != nil {
		record.ErrorText = importErr.Error()
	}
	if err := s.audit.RecordImport(record); err != nil {
		s.log.WithError(err).Warn("recording import audit entry failed")
	}
}

func isDuplicate(candidate worklog.Candidate, existing []rea.TimeEntry, userID, projectID string) bool {
	for _, entry := range existing {
		if !foldEqual(entry.UserID.String(), userID) {
			continue
		}
		if !foldEqual(entry.ProjectID.String(), projectID) {
			continue
		}
		if !foldEqual(entry.Task.String(), candidate.Task) {
			continue
		}
		if !foldEqual(entry.Comment.String(), candidate.Comment) {
			continue
		}
		if !timeutil.SameDay(entry.StartDate.Time, candidate.StartDateTime) {
			continue
		}
		if !timeutil.SameDay(entry.EndDate.Time, candidate.EndDateTime) {
			continue
		}
		if math.Abs(entry.Effort-candidate.EffortHours) <= effortTolerance {
			return true
		}
	}
	return false
}

func buildTimeEntry(candidate worklog.Candidate, userID, projectID string) rea.TimeEntry {
	return rea.TimeEntry{
		ID:        0,
		UserID:    rea.FlexString(userID),
		ProjectID: rea.FlexString(projectID),
		Task:      rea.FlexString(candidate.Task),
		StartDate: rea.Day(candidate.StartDateTime),
		EndDate:   rea.Day(candidate.EndDateTime),
		Effort:    candidate.EffortHours,
		Comment:   rea.FlexString(candidate.Comment),
	}
}

func foldEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
