package jira

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jirahour/internal/apierr"
	"jirahour/internal/timeutil"
	"jirahour/worklog"
)

const (
	searchPageSize  = 200
	worklogPageSize = 1000
)

// Client defines the Jira operations the import pipeline needs.
type Client interface {
	IsAuthenticated() bool
	Login(ctx context.Context, email, apiToken string) error
	Logout()
	FetchWorklogs(ctx context.Context, startDate, endDate time.Time) ([]worklog.Candidate, error)
}

type httpDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

type ClientConfig struct {
	BaseURL    string
	UserAgent  string
	HTTPClient httpDoer
}

type HTTPClient struct {
	baseURL    string
	userAgent  string
	httpClient httpDoer

	authHeader  string
	accountID   string
	displayName string
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("jira base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid jira base URL %q", cfg.BaseURL)
	}

	doer := cfg.HTTPClient
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}

	return &HTTPClient{
		baseURL:    baseURL,
		userAgent:  strings.TrimSpace(cfg.UserAgent),
		httpClient: doer,
	}, nil
}

func (c *HTTPClient) IsAuthenticated() bool {
	return c.authHeader != "" && c.accountID != ""
}

// DisplayName is the authenticated user's display name, empty before login.
func (c *HTTPClient) DisplayName() string {
	return c.displayName
}

// AccountID is the authenticated user's Jira account id, empty before login.
func (c *HTTPClient) AccountID() string {
	return c.accountID
}

type myselfResponse struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

func (c *HTTPClient) Login(ctx context.Context, email, apiToken string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New("jira email is required")
	}
	if strings.TrimSpace(apiToken) == "" {
		return errors.New("jira API token is required")
	}

	raw := base64.StdEncoding.EncodeToString([]byte(email + ":" + apiToken))
	c.authHeader = "Basic " + raw

	var myself myselfResponse
	if err := c.getJSON(ctx, "/rest/api/3/myself", &myself); err != nil {
		c.Logout()
		return err
	}
	if myself.AccountID == "" {
		c.Logout()
		return &apierr.ParseError{What: "jira user profile", Reason: "response did not include an account id"}
	}

	c.accountID = myself.AccountID
	c.displayName = myself.DisplayName
	return nil
}

func (c *HTTPClient) Logout() {
	c.authHeader = ""
	c.accountID = ""
	c.displayName = ""
}

type searchResponse struct {
	Issues []issue `json:"issues"`
}

type issue struct {
	ID     string      `json:"id"`
	Key    string      `json:"key"`
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Summary string `json:"summary"`
}

type issueWorklogResponse struct {
	StartAt    int            `json:"startAt"`
	MaxResults int            `json:"maxResults"`
	Total      int            `json:"total"`
	Worklogs   []issueWorklog `json:"worklogs"`
}

type issueWorklog struct {
	ID               string        `json:"id"`
	Author           worklogAuthor `json:"author"`
	Started          string        `json:"started"`
	TimeSpentSeconds int           `json:"timeSpentSeconds"`
	Comment          *CommentNode  `json:"comment"`
}

type worklogAuthor struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// FetchWorklogs queries issues the current user logged work on inside the
// window, then re-filters the per-issue worklogs client-side: the JQL match is
// day-granular and issues carry worklogs from other authors and other days.
func (c *HTTPClient) FetchWorklogs(ctx context.Context, startDate, endDate time.Time) ([]worklog.Candidate, error) {
	if !c.IsAuthenticated() {
		return nil, apierr.ErrNotAuthenticated
	}
	startDay := timeutil.StartOfDay(startDate)
	endDay := timeutil.StartOfDay(endDate)
	if endDay.Before(startDay) {
		return nil, &apierr.RangeError{Start: startDate, End: endDate}
	}

	jql := buildJQL(startDay, endDay)
	requestPath := fmt.Sprintf(
		"/rest/api/3/search?jql=%s&fields=summary&maxResults=%d",
		url.QueryEscape(jql),
		searchPageSize,
	)
	var search searchResponse
	if err := c.getJSON(ctx, requestPath, &search); err != nil {
		return nil, err
	}

	results := make([]worklog.Candidate, 0, len(search.Issues))
	for _, item := range search.Issues {
		worklogs, err := c.issueWorklogs(ctx, item.Key)
		if err != nil {
			return nil, err
		}

		for _, entry := range worklogs {
			if entry.Author.AccountID != c.accountID {
				continue
			}
			started, err := parseStarted(entry.Started)
			if err != nil {
				continue
			}
			localStart := started.Local()
			day := timeutil.StartOfDay(localStart)
			if day.Before(startDay) || day.After(endDay) {
				continue
			}
			if entry.TimeSpentSeconds < 0 {
				continue
			}

			duration := time.Duration(entry.TimeSpentSeconds) * time.Second
			comment := FlattenComment(entry.Comment)
			if comment == "" {
				comment = item.Fields.Summary
			}

			results = append(results, worklog.Candidate{
				IssueKey:      item.Key,
				IssueSummary:  item.Fields.Summary,
				Task:          fmt.Sprintf("%s - %s", item.Key, item.Fields.Summary),
				StartDateTime: localStart,
				EndDateTime:   localStart.Add(duration),
				EffortHours:   timeutil.RoundHours(duration.Hours()),
				Comment:       comment,
				JiraWorklogID: entry.ID,
			})
		}
	}

	return results, nil
}

func (c *HTTPClient) issueWorklogs(ctx context.Context, issueKey string) ([]issueWorklog, error) {
	all := make([]issueWorklog, 0, 16)
	startAt := 0
	for {
		requestPath := fmt.Sprintf(
			"/rest/api/3/issue/%s/worklog?startAt=%d&maxResults=%d",
			url.PathEscape(issueKey),
			startAt,
			worklogPageSize,
		)
		var page issueWorklogResponse
		if err := c.getJSON(ctx, requestPath, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Worklogs...)

		startAt += len(page.Worklogs)
		if len(page.Worklogs) == 0 || startAt >= page.Total {
			return all, nil
		}
	}
}

func buildJQL(startDay, endDay time.Time) string {
	const dayLayout = "2006/01/02"
	return fmt.Sprintf(
		"worklogAuthor = currentUser() AND worklogDate >= %q AND worklogDate <= %q",
		startDay.Format(dayLayout),
		endDay.Format(dayLayout),
	)
}

func parseStarted(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	layouts := []string{
		"2006-01-02T15:04:05.000-0700",
		time.RFC3339,
	}
	var lastErr error
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, fmt.Errorf("parse worklog start %q: %w", value, lastErr)
}

func (c *HTTPClient) getJSON(ctx context.Context, requestPath string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+requestPath, nil)
	if err != nil {
		return fmt.Errorf("create request GET %s: %w", requestPath, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", c.authHeader)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request GET %s failed: %w", requestPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("read response GET %s: %w", requestPath, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &apierr.RemoteError{
			Service:    "jira",
			Op:         "GET " + requestPath,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	if out == nil {
		return nil
	}
	if err := decodeJSON(body, out); err != nil {
		return fmt.Errorf("decode response GET %s: %w", requestPath, err)
	}
	return nil
}
