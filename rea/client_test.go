package rea

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"jirahour/internal/apierr"
)

type fakeDoer struct {
	fn func(*http.Request) (*http.Response, error)
}

func (f fakeDoer) Do(req *http.Request) (*http.Response, error) {
	return f.fn(req)
}

func rawResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestHTTPClient_LoginAndBearerHeader(t *testing.T) {
	t.Parallel()

	var createPayload TimeEntry
	doer := fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
		switch fmt.Sprintf("%s %s", r.Method, r.URL.Path) {
		case "POST /api/Auth/Login":
			if got := r.Header.Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
				t.Fatalf("unexpected content type: %q", got)
			}
			var payload loginRequest
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				t.Fatalf("decode login payload: %v", err)
			}
			if payload.UserName != "alice" || payload.Password != "secret" {
				t.Fatalf("unexpected login payload: %+v", payload)
			}
			return rawResponse(http.StatusOK, `{"data":{"token":"tok-1"}}`), nil
		case "GET /api/Auth/GetUserProfileInfo":
			if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
				t.Fatalf("unexpected auth header: %q", got)
			}
			return rawResponse(http.StatusOK, `{"data":{"userId":"u-9","name":"Alice"}}`), nil
		case "GET /api/TimeSheet/GetByUserId":
			if got := r.URL.Query().Get("userId"); got != "u-9" {
				t.Fatalf("unexpected userId query: %q", got)
			}
			return rawResponse(http.StatusOK, `{"data":[]}`), nil
		case "POST /api/TimeSheet/Create":
			if err := json.NewDecoder(r.Body).Decode(&createPayload); err != nil {
				t.Fatalf("decode create payload: %v", err)
			}
			return rawResponse(http.StatusOK, `{"status":"ok"}`), nil
		default:
			return nil, fmt.Errorf("unexpected request %s %s", r.Method, r.URL.String())
		}
	}}

	client, err := NewClient(ClientConfig{
		BaseURL:    "https://portalapi.example.com",
		UserAgent:  "jirahour-test",
		HTTPClient: doer,
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx := context.Background()
	if err := client.Login(ctx, "alice", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if !client.IsAuthenticated() {
		t.Fatal("expected authenticated client after login")
	}

	profile, err := client.GetUserProfile(ctx)
	if err != nil {
		t.Fatalf("get user profile: %v", err)
	}
	if profile.UserID != "u-9" || profile.Name != "Alice" {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	entries, err := client.GetTimeEntries(ctx, profile.UserID)
	if err != nil {
		t.Fatalf("get time entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}

	day := time.Date(2026, 8, 4, 0, 0, 0, 0, time.Local)
	err = client.CreateTimeEntry(ctx, TimeEntry{
		UserID:    "u-9",
		ProjectID: "p-1",
		Task:      "PROJ-1 - Parser",
		StartDate: Day(day),
		EndDate:   Day(day),
		Effort:    1.5,
		Comment:   "work",
	})
	if err != nil {
		t.Fatalf("create time entry: %v", err)
	}
	if createPayload.StartDate.Format("2006-01-02") != "2026-08-04" {
		t.Fatalf("start date not sent day-granular: %+v", createPayload.StartDate)
	}
	if createPayload.Effort != 1.5 {
		t.Fatalf("unexpected effort in payload: %v", createPayload.Effort)
	}

	client.Logout()
	if client.IsAuthenticated() {
		t.Fatal("expected unauthenticated client after logout")
	}
}

func TestHTTPClient_RemoteErrorCarriesStatusAndBody(t *testing.T) {
	t.Parallel()

	client, err := NewClient(ClientConfig{
		BaseURL: "https://portalapi.example.com",
		HTTPClient: fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
			return rawResponse(http.StatusBadGateway, `upstream down`), nil
		}},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	err = client.Login(context.Background(), "alice", "secret")
	var remoteErr *apierr.RemoteError
	if !errors.As(err, &remoteErr) {
		t.Fatalf("expected remote error, got %v", err)
	}
	if remoteErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("unexpected status: %d", remoteErr.StatusCode)
	}
	if !strings.Contains(remoteErr.Body, "upstream down") {
		t.Fatalf("body not preserved: %q", remoteErr.Body)
	}
	if client.IsAuthenticated() {
		t.Fatal("client must not be authenticated after failed login")
	}
}

func TestHTTPClient_OperationsRequireLogin(t *testing.T) {
	t.Parallel()

	client, err := NewClient(ClientConfig{
		BaseURL: "https://portalapi.example.com",
		HTTPClient: fakeDoer{fn: func(r *http.Request) (*http.Response, error) {
			return nil, fmt.Errorf("unexpected request %s", r.URL.String())
		}},
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	ctx := context.Background()
	if _, err := client.GetUserProfile(ctx); !errors.Is(err, apierr.ErrNotAuthenticated) {
		t.Fatalf("profile: expected not-authenticated, got %v", err)
	}
	if _, err := client.GetProjects(ctx, "u-9"); !errors.Is(err, apierr.ErrNotAuthenticated) {
		t.Fatalf("projects: expected not-authenticated, got %v", err)
	}
	if _, err := client.GetTimeEntries(ctx, "u-9"); !errors.Is(err, apierr.ErrNotAuthenticated) {
		t.Fatalf("entries: expected not-authenticated, got %v", err)
	}
	if err := client.CreateTimeEntry(ctx, TimeEntry{}); !errors.Is(err, apierr.ErrNotAuthenticated) {
		t.Fatalf("create: expected not-authenticated, got %v", err)
	}
}

func TestProject_DisplayName(t *testing.T) {
	t.Parallel()

	if got := (Project{ID: "p1", Name: "Alpha", Code: "AL"}).DisplayName(); got != "AL - Alpha" {
		t.Fatalf("unexpected display name: %q", got)
	}
	if got := (Project{ID: "p1", Name: "Alpha"}).DisplayName(); got != "Alpha" {
		t.Fatalf("unexpected display name without code: %q", got)
	}
}
