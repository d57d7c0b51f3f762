package rea

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"jirahour/internal/apierr"
)

const (
	loginPath           = "/api/Auth/Login"
	userProfilePath     = "/api/Auth/GetUserProfileInfo"
	projectListPath     = "/api/Project/GetAll"
	timeEntryCreatePath = "/api/TimeSheet/Create"
	timeEntryLookupPath = "/api/TimeSheet/GetByUserId"
)

// Client defines the Rea portal operations the import pipeline needs.
type Client interface {
	IsAuthenticated() bool
	Login(ctx context.Context, username, password string) error
	Logout()
	GetUserProfile(ctx context.Context) (UserProfile, error)
	GetProjects(ctx context.Context, userID string) ([]Project, error)
	GetTimeEntries(ctx context.Context, userID string) ([]TimeEntry, error)
	CreateTimeEntry(ctx context.Context, entry TimeEntry) error
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

	accessToken string
}

func NewClient(cfg ClientConfig) (*HTTPClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, errors.New("rea base URL is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	parsedBase, err := url.Parse(baseURL)
	if err != nil || parsedBase.Scheme == "" || parsedBase.Host == "" {
		return nil, fmt.Errorf("invalid rea base URL %q", cfg.BaseURL)
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
	return c.accessToken != ""
}

type loginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) error {
	body, err := c.do(ctx, http.MethodPost, loginPath, loginRequest{
		UserName: username,
		Password: password,
	})
	if err != nil {
		return err
	}

	token, err := ExtractToken(body)
	if err != nil {
		return err
	}
	c.accessToken = token
	return nil
}

func (c *HTTPClient) Logout() {
	c.accessToken = ""
}

func (c *HTTPClient) GetUserProfile(ctx context.Context) (UserProfile, error) {
	if !c.IsAuthenticated() {
		return UserProfile{}, apierr.ErrNotAuthenticated
	}

	body, err := c.do(ctx, http.MethodGet, userProfilePath, nil)
	if err != nil {
		return UserProfile{}, err
	}

	root, err := parseTree(body)
	if err != nil {
		return UserProfile{}, &apierr.ParseError{What: "rea user profile", Reason: "body is not valid JSON"}
	}
	element := dataElement(root)

	userID := findString(element, "userId", "id")
	if userID == "" {
		return UserProfile{}, &apierr.ParseError{What: "rea user profile", Reason: "no user identifier found"}
	}

	return UserProfile{
		UserID: userID,
		Name:   findString(element, "name", "fullName", "displayName"),
	}, nil
}

func (c *HTTPClient) GetProjects(ctx context.Context, userID string) ([]Project, error) {
	if !c.IsAuthenticated() {
		return nil, apierr.ErrNotAuthenticated
	}

	requestPath := projectListPath
	if trimmed := strings.TrimSpace(userID); trimmed != "" {
		requestPath += "?userId=" + url.QueryEscape(trimmed)
	}
	body, err := c.do(ctx, http.MethodGet, requestPath, nil)
	if err != nil {
		return nil, err
	}
	return ExtractProjects(body)
}

func (c *HTTPClient) GetTimeEntries(ctx context.Context, userID string) ([]TimeEntry, error) {
	if !c.IsAuthenticated() {
		return nil, apierr.ErrNotAuthenticated
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("rea user id is required to list time entries")
	}

	body, err := c.do(ctx, http.MethodGet, timeEntryLookupPath+"?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return nil, err
	}
	return ExtractTimeEntries(body)
}

func (c *HTTPClient) CreateTimeEntry(ctx context.Context, entry TimeEntry) error {
	if !c.IsAuthenticated() {
		return apierr.ErrNotAuthenticated
	}
	_, err := c.do(ctx, http.MethodPost, timeEntryCreatePath, entry)
	return err
}

func (c *HTTPClient) do(ctx context.Context, method, requestPath string, payload any) ([]byte, error) {
	var bodyReader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+requestPath, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request %s %s: %w", method, requestPath, err)
	}

	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.accessToken)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s failed: %w", method, requestPath, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("read response %s %s: %w", method, requestPath, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &apierr.RemoteError{
			Service:    "rea",
			Op:         fmt.Sprintf("%s %s", method, requestPath),
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return body, nil
}
