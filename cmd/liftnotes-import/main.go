package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/claude/liftnotes/internal/config"
	"github.com/claude/liftnotes/internal/importer"
	"github.com/claude/liftnotes/internal/ingest/notes"
	"github.com/claude/liftnotes/internal/journal"
	"github.com/claude/liftnotes/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	notesPath := flag.String("path", "", "directory of journal files (required)")
	login := flag.String("user", "local", "login of the user to import as")
	dryRun := flag.Bool("dry-run", false, "parse and report counts without writing to the database")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *notesPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftnotes-import -config config.yaml -path /path/to/notes [-user login] [-dry-run]\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	info, err := os.Stat(*notesPath)
	if err != nil || !info.IsDir() {
		log.Error("notes path does not exist or is not a directory", "path", *notesPath)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	parser := journal.New(journal.Options{DefaultDayLabel: cfg.Parser.DefaultDayLabel})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var imp *importer.Importer
	if *dryRun {
		log.Info("DRY RUN mode: no data will be written to the database")
		imp = importer.New(nil, parser, log, true, 0)
	} else {
		dsn := cfg.Database.DSN()
		if err := storage.RunMigrations(dsn, cfg.Server.MigrationsDir); err != nil {
			log.Error("migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("migrations applied")

		db, err := storage.New(ctx, dsn)
		if err != nil {
			log.Error("failed to connect database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		log.Info("database connected")

		userID, err := db.GetOrCreateUser(ctx, *login, *login)
		if err != nil {
			log.Error("failed to resolve user", "login", *login, "error", err)
			os.Exit(1)
		}
		imp = importer.New(notes.NewProvider(db, parser, log), parser, log, false, userID)
	}

	stats, err := imp.Import(ctx, *notesPath)
	printStats(log, stats)
	if err != nil {
		log.Error("import failed", "error", err)
		os.Exit(1)
	}
	log.Info("import complete")
}

func printStats(log *slog.Logger, stats *importer.Stats) {
	log.Info("import stats",
		"files_processed", stats.FilesProcessed,
		"files_skipped", stats.FilesSkipped,
		"files_errored", stats.FilesErrored,
		"days_inserted", stats.DaysInserted,
		"exercises_inserted", stats.ExercisesInserted,
		"orphaned_exercises", stats.OrphanedExercises,
		"lines_unrecognized", stats.LinesUnrecognized,
	)
}
