package importer

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/claude/liftnotes/internal/ingest/notes"
	"github.com/claude/liftnotes/internal/journal"
)

// journalExts are the file extensions treated as journals.
var journalExts = []string{".txt", ".md", ".markdown"}

// JournalFile is a journal found under an import root.
type JournalFile struct {
	Path    string // absolute or as given
	RelPath string // slash-separated, relative to the root
	Size    int64
}

// FindJournalFiles walks root and returns every journal file in path order.
// Hidden files and directories are skipped.
func FindJournalFiles(root string) ([]JournalFile, error) {
	var files []JournalFile
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != root && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !slices.Contains(journalExts, strings.ToLower(filepath.Ext(name))) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, JournalFile{Path: path, RelPath: filepath.ToSlash(rel), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	slices.SortFunc(files, func(a, b JournalFile) int { return strings.Compare(a.RelPath, b.RelPath) })
	return files, nil
}

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	DaysInserted      int
	ExercisesInserted int64
	OrphanedExercises int
	LinesUnrecognized int
}

// Importer reads journal files from a directory and stores them through the
// journal ingest provider.
type Importer struct {
	provider *notes.Provider
	parser   *journal.Parser
	log      *slog.Logger
	dryRun   bool
	userID   int
	stats    Stats
}

// New creates a new Importer. In dry-run mode files are only parsed and
// provider may be nil.
func New(provider *notes.Provider, parser *journal.Parser, log *slog.Logger, dryRun bool, userID int) *Importer {
	return &Importer{provider: provider, parser: parser, log: log, dryRun: dryRun, userID: userID}
}

// Import processes all journal files under dir. Each file is stored as its own
// journal with its relative path as the source.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	files, err := FindJournalFiles(dir)
	if err != nil {
		return &imp.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}
		if imp.dryRun {
			imp.parseOnly(f)
			continue
		}
		if err := imp.importFile(ctx, f); err != nil {
			imp.log.Warn("import failed", "file", f.RelPath, "error", err)
			imp.stats.FilesErrored++
		}
	}
	return &imp.stats, nil
}

func (imp *Importer) importFile(ctx context.Context, f JournalFile) error {
	r, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer r.Close()

	res, err := imp.provider.Ingest(ctx, r, imp.userID, f.RelPath)
	if err != nil {
		return err
	}
	imp.stats.OrphanedExercises += res.OrphanedExercises
	imp.stats.LinesUnrecognized += res.LinesUnrecognized
	if res.JournalID == nil {
		imp.log.Info("no days found", "file", f.RelPath, "lines", res.LinesReceived)
		imp.stats.FilesSkipped++
		return nil
	}
	imp.stats.FilesProcessed++
	imp.stats.DaysInserted += res.DaysInserted
	imp.stats.ExercisesInserted += res.ExercisesInserted
	imp.log.Info("imported", "file", f.RelPath, "days", res.DaysInserted, "exercises", res.ExercisesInserted)
	return nil
}

func (imp *Importer) parseOnly(f JournalFile) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		imp.log.Warn("read failed", "file", f.RelPath, "error", err)
		imp.stats.FilesErrored++
		return
	}
	res := imp.parser.Parse(strings.ToValidUTF8(string(data), "\uFFFD"))
	imp.stats.OrphanedExercises += len(res.Orphans)
	imp.stats.LinesUnrecognized += len(res.Unrecognized)
	if len(res.Days) == 0 {
		imp.stats.FilesSkipped++
		return
	}
	imp.stats.FilesProcessed++
	imp.stats.DaysInserted += len(res.Days)
	imp.stats.ExercisesInserted += int64(res.ExerciseCount())
	imp.log.Info("dry-run: would import", "file", f.RelPath, "days", len(res.Days), "exercises", res.ExerciseCount())
}
