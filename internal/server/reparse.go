package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/claude/liftnotes/internal/ingest"
	"github.com/claude/liftnotes/internal/models"
	"github.com/claude/liftnotes/internal/storage"
)

var errReparseCanceled = errors.New("reparse canceled by user")

// reparseState tracks a running re-parse of stored journals.
type reparseState struct {
	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	doneCh    chan struct{} // closed when goroutine exits
	step      int
	total     int
	journal   string // id of the journal being processed
	done      bool
	err       error
	logID     int64 // import_logs row id
	startedAt time.Time

	linesReceived     int
	daysInserted      int
	exercisesInserted int64
	linesUnrecognized int
	skipped           int
	failed            int

	// SSE subscribers
	subs   map[chan sseEvent]struct{}
	subsMu sync.Mutex
}

// sseEvent is an SSE message to send to subscribers.
type sseEvent struct {
	Event string
	Data  string
}

func newReparseState(total int, cancel context.CancelFunc) *reparseState {
	return &reparseState{
		running:   true,
		cancel:    cancel,
		doneCh:    make(chan struct{}),
		total:     total,
		startedAt: time.Now(),
		subs:      make(map[chan sseEvent]struct{}),
	}
}

func (st *reparseState) broadcast(event sseEvent) {
	st.subsMu.Lock()
	defer st.subsMu.Unlock()
	for ch := range st.subs {
		select {
		case ch <- event:
		default:
			// slow subscriber, skip
		}
	}
}

func (st *reparseState) subscribe() chan sseEvent {
	ch := make(chan sseEvent, 32)
	st.subsMu.Lock()
	st.subs[ch] = struct{}{}
	st.subsMu.Unlock()
	return ch
}

func (st *reparseState) unsubscribe(ch chan sseEvent) {
	st.subsMu.Lock()
	delete(st.subs, ch)
	st.subsMu.Unlock()
}

func (st *reparseState) isRunning() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.running
}

// add accumulates one journal's outcome.
func (st *reparseState) add(res *ingest.Result) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.linesReceived += res.LinesReceived
	st.daysInserted += res.DaysInserted
	st.exercisesInserted += res.ExercisesInserted
	st.linesUnrecognized += res.LinesUnrecognized
	if res.DaysInserted == 0 {
		st.skipped++
	}
}

// snapshot returns the status fields shown by the status endpoint.
func (st *reparseState) snapshot() map[string]any {
	st.mu.Lock()
	defer st.mu.Unlock()
	resp := map[string]any{
		"running":            st.running,
		"done":               st.done,
		"step":               st.step,
		"total":              st.total,
		"journal":            st.journal,
		"lines_received":     st.linesReceived,
		"days_inserted":      st.daysInserted,
		"exercises_inserted": st.exercisesInserted,
		"lines_unrecognized": st.linesUnrecognized,
		"skipped":            st.skipped,
		"failed":             st.failed,
		"log_id":             st.logID,
	}
	if st.err != nil {
		resp["error"] = st.err.Error()
	}
	return resp
}

func (s *Server) handleStartReparse(w http.ResponseWriter, r *http.Request) {
	uid, ok := mustUserID(w, r)
	if !ok {
		return
	}

	s.reparseMu.Lock()
	if s.activeReparse != nil && s.activeReparse.isRunning() {
		// If context was already canceled, wait briefly for the goroutine to finish
		prev := s.activeReparse
		s.reparseMu.Unlock()
		select {
		case <-prev.doneCh:
		case <-time.After(5 * time.Second):
			writeJSON(w, http.StatusConflict, map[string]string{"error": "a reparse is already running"})
			return
		}
		s.reparseMu.Lock()
	}

	journals, err := s.db.ListJournalTexts(r.Context(), uid)
	if err != nil {
		s.reparseMu.Unlock()
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	state := newReparseState(len(journals), cancel)

	metaJSON, _ := json.Marshal(map[string]any{"journals": len(journals)})
	rawMeta := json.RawMessage(metaJSON)
	logID, logErr := s.db.InsertImportLog(r.Context(), storage.ImportLog{
		UserID:   uid,
		Source:   "reparse",
		Status:   "running",
		Metadata: &rawMeta,
	})
	if logErr != nil {
		s.log.Error("failed to create import log", "error", logErr)
	}
	state.logID = logID

	s.activeReparse = state
	s.reparseMu.Unlock()

	go s.runReparse(ctx, state, uid, journals)

	writeJSON(w, http.StatusAccepted, map[string]any{
		"status":      "started",
		"total_steps": len(journals),
		"log_id":      logID,
	})
}

func (s *Server) runReparse(ctx context.Context, state *reparseState, userID int, journals []models.JournalRow) {
	defer func() {
		state.mu.Lock()
		state.running = false
		state.done = true
		state.mu.Unlock()
		close(state.doneCh)
	}()

	for i, j := range journals {
		if ctx.Err() != nil {
			s.cancelReparse(state, userID)
			return
		}

		state.mu.Lock()
		state.step = i + 1
		state.journal = j.ID.String()
		state.mu.Unlock()

		state.broadcast(sseEvent{
			Event: "progress",
			Data: mustJSON(map[string]any{
				"step":    i + 1,
				"total":   state.total,
				"journal": j.ID,
				"source":  j.Source,
			}),
		})

		res, err := s.notes.Reparse(ctx, j)
		if err != nil {
			if ctx.Err() != nil {
				s.cancelReparse(state, userID)
				return
			}
			s.log.Warn("reparse failed, skipping", "journal_id", j.ID, "error", err)
			state.mu.Lock()
			state.failed++
			state.mu.Unlock()
			continue
		}
		state.add(res)
	}

	state.mu.Lock()
	complete := map[string]any{
		"journals":           state.total,
		"days_inserted":      state.daysInserted,
		"exercises_inserted": state.exercisesInserted,
		"lines_unrecognized": state.linesUnrecognized,
		"skipped":            state.skipped,
		"failed":             state.failed,
	}
	state.mu.Unlock()
	state.broadcast(sseEvent{Event: "complete", Data: mustJSON(complete)})

	s.finalizeReparse(state, userID)
}

// cancelReparse ends a job stopped through its context.
func (s *Server) cancelReparse(state *reparseState, userID int) {
	state.mu.Lock()
	state.err = errReparseCanceled
	state.mu.Unlock()
	state.broadcast(sseEvent{Event: "error", Data: mustJSON(map[string]string{"error": errReparseCanceled.Error()})})
	s.finalizeReparse(state, userID)
}

// finalizeReparse updates the import_logs row with final results.
func (s *Server) finalizeReparse(state *reparseState, userID int) {
	if state.logID == 0 {
		return
	}

	state.mu.Lock()
	defer state.mu.Unlock()

	durationMs := int(time.Since(state.startedAt).Milliseconds())
	status := "success"
	var errMsg *string
	if state.err != nil {
		msg := state.err.Error()
		errMsg = &msg
		if errors.Is(state.err, errReparseCanceled) {
			status = "cancelled"
		} else {
			status = "error"
		}
	}

	ctx, cancel := contextWithTimeout()
	defer cancel()

	metaJSON, _ := json.Marshal(map[string]any{
		"journals": state.total,
		"skipped":  state.skipped,
		"failed":   state.failed,
	})
	rawMeta := json.RawMessage(metaJSON)

	if err := s.db.UpdateImportLog(ctx, state.logID, storage.ImportLog{
		Status:            status,
		LinesReceived:     state.linesReceived,
		DaysInserted:      state.daysInserted,
		ExercisesInserted: state.exercisesInserted,
		LinesUnrecognized: state.linesUnrecognized,
		DurationMs:        &durationMs,
		ErrorMessage:      errMsg,
		Metadata:          &rawMeta,
	}); err != nil {
		s.log.Error("failed to finalize import log", "log_id", state.logID, "user_id", userID, "error", err)
	}
}

func (s *Server) handleCancelReparse(w http.ResponseWriter, r *http.Request) {
	s.reparseMu.Lock()
	if s.activeReparse == nil || !s.activeReparse.isRunning() {
		s.reparseMu.Unlock()
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no reparse running"})
		return
	}

	state := s.activeReparse
	state.cancel()
	s.reparseMu.Unlock()

	// Wait briefly for goroutine to finish
	select {
	case <-state.doneCh:
	case <-time.After(3 * time.Second):
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

func (s *Server) handleReparseStatus(w http.ResponseWriter, r *http.Request) {
	s.reparseMu.Lock()
	state := s.activeReparse
	s.reparseMu.Unlock()

	if state == nil {
		writeJSON(w, http.StatusOK, map[string]any{"running": false})
		return
	}
	writeJSON(w, http.StatusOK, state.snapshot())
}

func (s *Server) handleReparseEvents(w http.ResponseWriter, r *http.Request) {
	s.reparseMu.Lock()
	state := s.activeReparse
	s.reparseMu.Unlock()

	if state == nil || !state.isRunning() {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no reparse running"})
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "streaming not supported"})
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := state.subscribe()
	defer state.unsubscribe(ch)

	state.mu.Lock()
	fmt.Fprintf(w, "event: status\ndata: %s\n\n", mustJSON(map[string]any{
		"step":    state.step,
		"total":   state.total,
		"journal": state.journal,
	}))
	state.mu.Unlock()
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-state.doneCh:
			// Drain anything broadcast just before the goroutine exited.
			for {
				select {
				case evt := <-ch:
					fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, evt.Data)
				default:
					flusher.Flush()
					return
				}
			}
		case evt := <-ch:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Event, evt.Data)
			flusher.Flush()

			if evt.Event == "complete" || evt.Event == "error" {
				return
			}
		}
	}
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return `{}`
	}
	return string(b)
}
