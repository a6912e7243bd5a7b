package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/claude/liftnotes/internal/ingest"
	"github.com/claude/liftnotes/internal/journal"
	"github.com/google/uuid"
)

// TestHandleMeDefault verifies the /api/v1/me endpoint returns the dev user
// identity when no Tailscale middleware is active.
func TestHandleMeDefault(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "local", DisplayName: "Local Dev User"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "local" {
		t.Errorf("login = %q, want %q", info.Login, "local")
	}
	if info.DisplayName != "Local Dev User" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Local Dev User")
	}
}

// TestHandleMeTailscaleUser verifies the /api/v1/me endpoint returns the
// Tailscale user identity when set in context.
func TestHandleMeTailscaleUser(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	ctx := context.WithValue(req.Context(), userInfoKey, UserInfo{Login: "alice@example.com", DisplayName: "Alice"})
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	s.handleMe(rec, req)

	var info UserInfo
	if err := json.NewDecoder(rec.Body).Decode(&info); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if info.Login != "alice@example.com" {
		t.Errorf("login = %q, want %q", info.Login, "alice@example.com")
	}
	if info.DisplayName != "Alice" {
		t.Errorf("display_name = %q, want %q", info.DisplayName, "Alice")
	}
}

func newTestServer() *Server {
	return New(nil, nil, journal.New(journal.Options{}), "secret", slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// TestHandleParsePlainText verifies a text body is parsed into days, orphans
// and unrecognized lines through the full router.
func TestHandleParsePlainText(t *testing.T) {
	s := newTestServer()
	body := "3x5 deadlift\nDay 1\n3x10 bench press @ 135lbs\n5k run @ 5:30/km\nfelt strong"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(body))
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body)
	}
	var res journal.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(res.Days) != 1 || len(res.Days[0].Exercises) != 2 {
		t.Fatalf("days = %+v", res.Days)
	}
	if res.Days[0].Exercises[1].Tempo != "5:30/km" {
		t.Errorf("tempo = %q, want 5:30/km", res.Days[0].Exercises[1].Tempo)
	}
	if len(res.Orphans) != 1 || len(res.Unrecognized) != 1 {
		t.Errorf("orphans=%d unrecognized=%d, want 1 and 1", len(res.Orphans), len(res.Unrecognized))
	}
}

// TestHandleParseJSON verifies a JSON body with a text field is accepted.
func TestHandleParseJSON(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(`{"text":"Monday\nmax pull ups"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	var res journal.Result
	if err := json.NewDecoder(rec.Body).Decode(&res); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if len(res.Days) != 1 || res.Days[0].DateLabel != "Monday" {
		t.Errorf("days = %+v", res.Days)
	}
}

// TestHandleParseEmpty verifies an empty body yields an empty day list, not null.
func TestHandleParseEmpty(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(""))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if got := strings.TrimSpace(rec.Body.String()); got != `{"days":[]}` {
		t.Errorf("body = %s, want {\"days\":[]}", got)
	}
}

// TestHandleParseInvalidJSON verifies malformed JSON is rejected with 400.
func TestHandleParseInvalidJSON(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(`{"text":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

// TestHandleParseTooLarge verifies oversized journals are rejected.
func TestHandleParseTooLarge(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/parse", strings.NewReader(strings.Repeat("a", maxJournalBytes+1)))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

// TestIngestRequiresAPIKey verifies the ingest endpoint is behind API key auth.
func TestIngestRequiresAPIKey(t *testing.T) {
	s := newTestServer()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/ingest/journal", strings.NewReader("Day 1\n5k run"))
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

// TestInvalidIDParam verifies malformed journal and goal IDs are rejected
// before any storage access.
func TestInvalidIDParam(t *testing.T) {
	s := newTestServer()
	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/journals/nope"},
		{http.MethodDelete, "/api/v1/journals/nope"},
		{http.MethodDelete, "/api/v1/goals/12"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		rec := httptest.NewRecorder()
		s.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s %s: status = %d, want 400", tc.method, tc.path, rec.Code)
		}
	}
}

// TestParseLimit verifies defaults, invalid values and the upper bound.
func TestParseLimit(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 30},
		{"limit=5", 5},
		{"limit=0", 30},
		{"limit=-2", 30},
		{"limit=abc", 30},
		{"limit=99999", maxLimit},
	}
	for _, tc := range tests {
		req := httptest.NewRequest(http.MethodGet, "/?"+tc.query, nil)
		if got := parseLimit(req, 30); got != tc.want {
			t.Errorf("parseLimit(%q) = %d, want %d", tc.query, got, tc.want)
		}
	}
}

// TestImportLogFrom verifies import outcomes map to log statuses and counters.
func TestImportLogFrom(t *testing.T) {
	id := uuid.New()
	stored := &ingest.Result{JournalID: &id, LinesReceived: 9, DaysInserted: 2, ExercisesInserted: 5, LinesUnrecognized: 1}

	log := importLogFrom(1, "phone", stored, nil, 12)
	if log.Status != "success" || log.JournalID == nil || *log.JournalID != id {
		t.Errorf("stored: status=%q journal=%v", log.Status, log.JournalID)
	}
	if log.LinesReceived != 9 || log.DaysInserted != 2 || log.ExercisesInserted != 5 || log.LinesUnrecognized != 1 {
		t.Errorf("stored counters = %+v", log)
	}
	if log.DurationMs == nil || *log.DurationMs != 12 {
		t.Errorf("duration = %v, want 12", log.DurationMs)
	}

	if log := importLogFrom(1, "phone", &ingest.Result{LinesReceived: 3}, nil, 1); log.Status != "skipped" {
		t.Errorf("no days: status = %q, want skipped", log.Status)
	}

	log = importLogFrom(1, "phone", nil, errors.New("db down"), 1)
	if log.Status != "error" || log.ErrorMessage == nil || *log.ErrorMessage != "db down" {
		t.Errorf("error: status=%q message=%v", log.Status, log.ErrorMessage)
	}
}
