// Package web serves a localhost-only single-user dashboard; it intentionally
// has no auth/CSRF protection in this mode.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"jirahour/internal/timeutil"
	"jirahour/rea"
	"jirahour/reconcile"
	"jirahour/storage"
)

//go:embed templates/*.html
var templateFS embed.FS

type Server struct {
	store  *storage.SQLiteStore
	client rea.Client
	userID string
	mux    *http.ServeMux
}

type indexPageView struct {
	Title       string
	From        string
	To          string
	Rows        []DayRow
	TotalLocal  float64
	TotalRemote float64
	RemoteError string
}

func NewServer(store *storage.SQLiteStore, client rea.Client, userID string) http.Handler {
	s := &Server{
		store:  store,
		client: client,
		userID: userID,
		mux:    http.NewServeMux(),
	}
	s.mux.HandleFunc("/", s.handleIndex)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	from, to, err := parseRangeParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	key := reconcile.RangeKeyFrom(from, to)

	local, err := s.store.ListCandidatesInRange(key)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	view := indexPageView{
		Title: "jirahour",
		From:  timeutil.FormatDay(key.Start),
		To:    timeutil.FormatDay(key.End),
	}

	remote := []rea.TimeEntry{}
	if s.client != nil && s.client.IsAuthenticated() {
		fetched, err := s.client.GetTimeEntries(r.Context(), s.userID)
		if err != nil {
			// The local side of the comparison is still useful.
			view.RemoteError = err.Error()
		} else {
			remote = reconcile.FilterEntriesByRange(fetched, key)
		}
	}

	view.Rows = BuildDailyView(local, remote)
	for _, row := range view.Rows {
		view.TotalLocal += row.LocalHours
		view.TotalRemote += row.RemoteHours
	}
	view.TotalLocal = timeutil.RoundHours(view.TotalLocal)
	view.TotalRemote = timeutil.RoundHours(view.TotalRemote)

	if err := renderTemplate(w, "index.html", view); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func parseRangeParams(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	to := from.AddDate(0, 1, -1)

	if value := r.URL.Query().Get("from"); value != "" {
		parsed, err := timeutil.ParseDay(value)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid from parameter: %w", err)
		}
		from = parsed
	}
	if value := r.URL.Query().Get("to"); value != "" {
		parsed, err := timeutil.ParseDay(value)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid to parameter: %w", err)
		}
		to = parsed
	}
	return from, to, nil
}

func renderTemplate(w http.ResponseWriter, pageTemplate string, data any) error {
	parsed, err := template.ParseFS(templateFS, "templates/"+pageTemplate)
	if err != nil {
		return fmt.Errorf("parse template %s: %w", pageTemplate, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return parsed.Execute(w, data)
}
