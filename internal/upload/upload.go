package upload

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/claude/liftnotes/internal/importer"
	"github.com/claude/liftnotes/internal/journal"
)

// Stats tracks upload progress.
type Stats struct {
	FilesTotal    int
	FilesUploaded int
	FilesSkipped  int
	FilesErrored  int

	DaysSent      int
	ExercisesSent int64
	LinesIgnored  int
}

// Uploader walks a notes directory and POSTs new or changed journal files to
// the LiftNotes server.
type Uploader struct {
	client *Client
	state  *StateDB
	dir    string
	dryRun bool
	parser *journal.Parser
	log    *slog.Logger
	stats  Stats
}

// New creates a new Uploader. In dry-run mode files are parsed locally with
// parser and nothing is sent or recorded.
func New(client *Client, state *StateDB, dir string, dryRun bool, parser *journal.Parser, log *slog.Logger) *Uploader {
	return &Uploader{
		client: client,
		state:  state,
		dir:    dir,
		dryRun: dryRun,
		parser: parser,
		log:    log,
	}
}

// Run executes the upload pipeline. A failed file is logged and counted;
// only a walk failure or cancellation stops the run.
func (u *Uploader) Run(ctx context.Context) (*Stats, error) {
	files, err := importer.FindJournalFiles(u.dir)
	if err != nil {
		return &u.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &u.stats, err
		}
		u.stats.FilesTotal++
		if err := u.processFile(ctx, f); err != nil {
			u.log.Warn("upload failed", "file", f.RelPath, "error", err)
			u.stats.FilesErrored++
		}
	}
	return &u.stats, nil
}

func (u *Uploader) processFile(ctx context.Context, f importer.JournalFile) error {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return fmt.Errorf("reading: %w", err)
	}
	hash, err := HashFile(f.Path)
	if err != nil {
		return fmt.Errorf("hashing: %w", err)
	}

	uploaded, err := u.state.IsUploaded(f.RelPath, f.Size, hash)
	if err != nil {
		return fmt.Errorf("checking state: %w", err)
	}
	if uploaded {
		u.stats.FilesSkipped++
		return nil
	}

	if u.dryRun {
		res := u.parser.Parse(strings.ToValidUTF8(string(data), "\uFFFD"))
		u.log.Info("dry-run: would send", "file", f.RelPath, "days", len(res.Days), "exercises", res.ExerciseCount())
		u.stats.FilesUploaded++
		u.stats.DaysSent += len(res.Days)
		u.stats.ExercisesSent += int64(res.ExerciseCount())
		u.stats.LinesIgnored += len(res.Unrecognized) + len(res.Orphans)
		return nil
	}

	res, err := u.client.SendJournal(ctx, f.RelPath, data)
	if err != nil {
		return err
	}

	journalID := ""
	if res.JournalID != nil {
		journalID = res.JournalID.String()
	}
	if err := u.state.MarkUploaded(f.RelPath, f.Size, hash, journalID); err != nil {
		u.log.Warn("failed to mark uploaded", "file", f.RelPath, "error", err)
	}

	u.stats.FilesUploaded++
	u.stats.DaysSent += res.DaysInserted
	u.stats.ExercisesSent += res.ExercisesInserted
	u.stats.LinesIgnored += res.LinesUnrecognized + res.OrphanedExercises
	u.log.Info("uploaded", "file", f.RelPath, "days", res.DaysInserted, "exercises", res.ExercisesInserted)
	return nil
}
