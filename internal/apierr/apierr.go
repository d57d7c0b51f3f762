// Package apierr holds the error taxonomy shared by the jira and rea clients.
package apierr

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotAuthenticated is returned when an operation requires a live session.
var ErrNotAuthenticated = errors.New("not authenticated")

// RangeError reports a date window whose end precedes its start.
type RangeError struct {
	Start time.Time
	End   time.Time
}

func (e *RangeError) Error() string {
	return fmt.Sprintf(
		"invalid date range: end %s is before start %s",
		e.End.Format("2006-01-02"),
		e.Start.Format("2006-01-02"),
	)
}

// RemoteError carries a non-success HTTP outcome from either service.
type RemoteError struct {
	Service    string
	Op         string
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s: %s failed with status %d", e.Service, e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s failed with status %d: %s", e.Service, e.Op, e.StatusCode, body)
}

// ParseError reports a response body from which no usable value could be
// extracted. Tolerable shape variations never produce it; a login response
// without a token does.
type ParseError struct {
	What   string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("parse %s: no usable value found", e.What)
	}
	return fmt.Sprintf("parse %s: %s", e.What, e.Reason)
}
