package server

import (
	"context"
	"net/http"
	"time"

	"github.com/claude/liftnotes/internal/ingest"
	"github.com/claude/liftnotes/internal/storage"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	stats, err := s.db.GetDataStats(r.Context(), uid)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleImportLogs(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}
	logs, err := s.db.QueryImportLogs(r.Context(), uid, parseLimit(r, 50))
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if logs == nil {
		logs = []storage.ImportLog{}
	}
	writeJSON(w, http.StatusOK, logs)
}

// importLogFrom builds an import_logs row from an ingest outcome.
// result may be nil when the import failed before parsing.
func importLogFrom(uid int, source string, result *ingest.Result, importErr error, durationMs int) storage.ImportLog {
	log := storage.ImportLog{
		UserID:     uid,
		Source:     source,
		Status:     "success",
		DurationMs: &durationMs,
	}
	if importErr != nil {
		log.Status = "error"
		msg := importErr.Error()
		log.ErrorMessage = &msg
	}
	if result != nil {
		log.JournalID = result.JournalID
		log.LinesReceived = result.LinesReceived
		log.DaysInserted = result.DaysInserted
		log.ExercisesInserted = result.ExercisesInserted
		log.LinesUnrecognized = result.LinesUnrecognized
		if importErr == nil && result.JournalID == nil {
			log.Status = "skipped"
		}
	}
	return log
}

// logImport records an import operation's result to the import_logs table.
func (s *Server) logImport(uid int, source string, result *ingest.Result, importErr error, durationMs int) {
	ctx, cancel := contextWithTimeout()
	defer cancel()

	if _, err := s.db.InsertImportLog(ctx, importLogFrom(uid, source, result, importErr, durationMs)); err != nil {
		s.log.Error("failed to log import", "source", source, "error", err)
	}
}

// contextWithTimeout returns a background context with a 5-second timeout for async logging.
func contextWithTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second) //nolint:mnd
}
