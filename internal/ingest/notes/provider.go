package notes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/claude/liftnotes/internal/ingest"
	"github.com/claude/liftnotes/internal/journal"
	"github.com/claude/liftnotes/internal/models"
	"github.com/google/uuid"
)

// Store persists parsed journals. *storage.DB satisfies it.
type Store interface {
	InsertJournal(ctx context.Context, userID int, source, rawText string, days []models.WorkoutDay) (models.JournalRow, int64, error)
	ReplaceJournalDays(ctx context.Context, id uuid.UUID, userID int, days []models.WorkoutDay) (int64, error)
}

// Provider processes free-form workout journal text.
type Provider struct {
	store  Store
	parser *journal.Parser
	log    *slog.Logger
}

// NewProvider creates a new journal text ingest provider.
func NewProvider(store Store, parser *journal.Parser, log *slog.Logger) *Provider {
	return &Provider{store: store, parser: parser, log: log}
}

// Ingest reads journal text, parses it and stores the raw text with its days.
// A journal without any day is reported but not stored.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int, source string) (*ingest.Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	text := strings.ToValidUTF8(string(data), "\uFFFD")

	parsed := p.parser.Parse(text)
	result := &ingest.Result{
		LinesReceived:     len(journal.SplitLines(text)),
		DaysParsed:        len(parsed.Days),
		ExercisesParsed:   parsed.ExerciseCount(),
		OrphanedExercises: len(parsed.Orphans),
		LinesUnrecognized: len(parsed.Unrecognized),
		UnrecognizedLines: parsed.Unrecognized,
	}

	if len(parsed.Days) == 0 {
		result.Message = "no day headers found; nothing was stored. Start each day with a line like \"Day 1\", \"Monday\" or \"2025-11-17\"."
		p.log.Info("journal skipped", "user_id", userID, "source", source, "lines", result.LinesReceived)
		return result, nil
	}

	row, inserted, err := p.store.InsertJournal(ctx, userID, source, text, parsed.Days)
	if err != nil {
		return nil, fmt.Errorf("storing journal: %w", err)
	}
	result.JournalID = &row.ID
	result.DaysInserted = len(parsed.Days)
	result.ExercisesInserted = inserted

	if result.OrphanedExercises > 0 {
		result.Message = fmt.Sprintf("%d exercise(s) before the first day header were dropped", result.OrphanedExercises)
	}

	p.log.Info("journal stored",
		"user_id", userID,
		"journal_id", row.ID,
		"days", result.DaysInserted,
		"exercises", inserted,
		"unrecognized", result.LinesUnrecognized,
	)
	return result, nil
}

// Reparse runs the current parser over a stored journal's raw text and
// replaces its days. A journal that no longer yields any day keeps its old
// days and is reported in the message.
func (p *Provider) Reparse(ctx context.Context, j models.JournalRow) (*ingest.Result, error) {
	parsed := p.parser.Parse(j.RawText)
	id := j.ID
	result := &ingest.Result{
		JournalID:         &id,
		LinesReceived:     len(journal.SplitLines(j.RawText)),
		DaysParsed:        len(parsed.Days),
		ExercisesParsed:   parsed.ExerciseCount(),
		OrphanedExercises: len(parsed.Orphans),
		LinesUnrecognized: len(parsed.Unrecognized),
		UnrecognizedLines: parsed.Unrecognized,
	}
	if len(parsed.Days) == 0 {
		result.Message = "no day headers found; stored days kept"
		return result, nil
	}

	inserted, err := p.store.ReplaceJournalDays(ctx, j.ID, j.UserID, parsed.Days)
	if err != nil {
		return nil, fmt.Errorf("replacing days of journal %s: %w", j.ID, err)
	}
	result.DaysInserted = len(parsed.Days)
	result.ExercisesInserted = inserted

	p.log.Debug("journal reparsed", "journal_id", j.ID, "days", result.DaysInserted, "exercises", inserted)
	return result, nil
}
