package upload

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/claude/liftnotes/internal/ingest"
	"github.com/claude/liftnotes/internal/journal"
	"github.com/google/uuid"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func writeNotes(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

// TestStateDB verifies upload records match on path, size and hash.
func TestStateDB(t *testing.T) {
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	if ok, err := state.IsUploaded("a.txt", 10, "h1"); err != nil || ok {
		t.Fatalf("IsUploaded before mark = %v, %v", ok, err)
	}
	if err := state.MarkUploaded("a.txt", 10, "h1", "j-1"); err != nil {
		t.Fatal(err)
	}
	if ok, _ := state.IsUploaded("a.txt", 10, "h1"); !ok {
		t.Error("IsUploaded = false after mark")
	}
	if ok, _ := state.IsUploaded("a.txt", 10, "h2"); ok {
		t.Error("changed hash reported as uploaded")
	}
	id, found, err := state.JournalID("a.txt")
	if err != nil || !found || id != "j-1" {
		t.Errorf("JournalID = %q, %v, %v", id, found, err)
	}
	if _, found, _ := state.JournalID("b.txt"); found {
		t.Error("JournalID found for unknown path")
	}

	// Re-marking replaces the previous record.
	if err := state.MarkUploaded("a.txt", 12, "h2", ""); err != nil {
		t.Fatal(err)
	}
	if ok, _ := state.IsUploaded("a.txt", 12, "h2"); !ok {
		t.Error("IsUploaded = false after re-mark")
	}
}

// TestHashFile verifies the SHA-256 digest of a known input.
func TestHashFile(t *testing.T) {
	dir := writeNotes(t, map[string]string{"a.txt": "abc"})
	hash, err := HashFile(filepath.Join(dir, "a.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"; hash != want {
		t.Errorf("hash = %s, want %s", hash, want)
	}
}

// TestRunUploadsOnce verifies files are sent once and skipped on the next run
// until their content changes.
func TestRunUploadsOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		id := uuid.New()
		json.NewEncoder(w).Encode(ingest.Result{JournalID: &id, DaysInserted: 1, ExercisesInserted: 2, LinesUnrecognized: 1})
	}))
	defer srv.Close()

	dir := writeNotes(t, map[string]string{
		"mon.txt":       "Monday\n3x10 squat\n5k run\nfelt good",
		"tue.md":        "Tuesday\nmax dips",
		"ignore.json":   "{}",
		".hidden/x.txt": "Day 1\n3x5 bench",
	})
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	stats, err := New(testClient(srv.URL), state, dir, false, nil, discard).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesTotal != 2 || stats.FilesUploaded != 2 || stats.FilesErrored != 0 {
		t.Errorf("first run stats = %+v", stats)
	}
	if stats.DaysSent != 2 || stats.ExercisesSent != 4 || stats.LinesIgnored != 2 {
		t.Errorf("first run totals = %+v", stats)
	}

	stats, err = New(testClient(srv.URL), state, dir, false, nil, discard).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 2 || stats.FilesUploaded != 0 {
		t.Errorf("second run stats = %+v", stats)
	}

	if err := os.WriteFile(filepath.Join(dir, "tue.md"), []byte("Tuesday\nmax dips\n3x8 rows"), 0o644); err != nil {
		t.Fatal(err)
	}
	stats, err = New(testClient(srv.URL), state, dir, false, nil, discard).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesSkipped != 1 || stats.FilesUploaded != 1 {
		t.Errorf("third run stats = %+v", stats)
	}
	if calls.Load() != 3 {
		t.Errorf("server calls = %d, want 3", calls.Load())
	}
}

// TestRunFailureNotMarked verifies a rejected file is counted as errored and
// retried on the next run.
func TestRunFailureNotMarked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}))
	defer srv.Close()

	dir := writeNotes(t, map[string]string{"a.txt": "Day 1\n3x10 squat"})
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	stats, err := New(testClient(srv.URL), state, dir, false, nil, discard).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesErrored != 1 || stats.FilesUploaded != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if _, found, _ := state.JournalID("a.txt"); found {
		t.Error("failed upload was recorded")
	}
}

// TestRunDryRun verifies dry-run parses locally and sends nothing.
func TestRunDryRun(t *testing.T) {
	dir := writeNotes(t, map[string]string{"a.txt": "3x5 press\nDay 1\n3x10 squat\n5k run\nDay 2\nmax dips"})
	state, err := OpenStateDB(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	defer state.Close()

	// The client points nowhere; any send would fail the file.
	client := testClient("http://127.0.0.1:1")
	stats, err := New(client, state, dir, true, journal.New(journal.Options{}), discard).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if stats.FilesUploaded != 1 || stats.FilesErrored != 0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.DaysSent != 2 || stats.ExercisesSent != 3 || stats.LinesIgnored != 1 {
		t.Errorf("totals = %+v", stats)
	}
	if ok, _ := state.IsUploaded("a.txt", 0, ""); ok {
		t.Error("dry-run recorded state")
	}
}
