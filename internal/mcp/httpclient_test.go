package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/claude/liftnotes/internal/journal"
	"github.com/claude/liftnotes/internal/models"
	"github.com/google/uuid"
)

// newTestServer creates an httptest server that routes requests to handler functions
// keyed by path. Verifies the HTTP client sends correct paths and query params.
func newTestServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request path: %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
}

func writeTestJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatal(err)
	}
}

// TestQueryDays verifies the HTTP client sends the movement filter and limit
// and decodes days back into typed exercises.
func TestQueryDays(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/days": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("movement"); got != "bench" {
				t.Errorf("movement=%q, want bench", got)
			}
			if got := r.URL.Query().Get("limit"); got != "5" {
				t.Errorf("limit=%q, want 5", got)
			}
			writeTestJSON(t, w, journal.Parse("Monday\n3x10 bench press @ 135lbs\n5k run"))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	days, err := client.QueryDays(context.Background(), 1, "bench", 5)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 1 || len(days[0].Exercises) != 2 {
		t.Fatalf("got %d days, want 1 with 2 exercises", len(days))
	}
	if _, ok := days[0].Exercises[0].Measure.(models.SetsReps); !ok {
		t.Errorf("measure = %#v, want SetsReps", days[0].Exercises[0].Measure)
	}
	if w := days[0].Exercises[0].Weight; w == nil || w.Value != 135 || w.Unit != models.WeightLbs {
		t.Errorf("weight = %+v, want 135 lbs", w)
	}
}

// TestQueryDaysNoParams verifies an empty filter and zero limit send no query string.
func TestQueryDaysNoParams(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/days": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.RawQuery != "" {
				t.Errorf("query = %q, want empty", r.URL.RawQuery)
			}
			writeTestJSON(t, w, []models.WorkoutDay{})
		},
	})
	defer ts.Close()

	days, err := NewHTTPClient(ts.URL+"/").QueryDays(context.Background(), 1, "", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 0 {
		t.Errorf("got %d days, want 0", len(days))
	}
}

// TestListGoals verifies goals are decoded from the REST response.
func TestListGoals(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/goals": func(w http.ResponseWriter, _ *http.Request) {
			writeTestJSON(t, w, []models.Goal{
				{ID: uuid.New(), Name: "run", Type: models.GoalCardioDistance, TargetValue: 5, TargetUnit: "km", Frequency: 3},
			})
		},
	})
	defer ts.Close()

	gs, err := NewHTTPClient(ts.URL).ListGoals(context.Background(), 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(gs) != 1 || gs[0].Type != models.GoalCardioDistance || gs[0].Frequency != 3 {
		t.Errorf("goals = %+v", gs)
	}
}

// TestListJournals verifies the limit is forwarded and journals are decoded.
func TestListJournals(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/journals": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("limit"); got != "10" {
				t.Errorf("limit=%q, want 10", got)
			}
			writeTestJSON(t, w, []models.JournalRow{{ID: uuid.New(), Source: "phone", DayCount: 4}})
		},
	})
	defer ts.Close()

	journals, err := NewHTTPClient(ts.URL).ListJournals(context.Background(), 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(journals) != 1 || journals[0].DayCount != 4 {
		t.Errorf("journals = %+v", journals)
	}
}

// TestHTTPClientServerError verifies the client returns an error on non-200 responses.
func TestHTTPClientServerError(t *testing.T) {
	ts := newTestServer(t, map[string]http.HandlerFunc{
		"/api/v1/goals": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"database down"}`))
		},
	})
	defer ts.Close()

	client := NewHTTPClient(ts.URL)
	_, err := client.ListGoals(context.Background(), 1)
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
}
