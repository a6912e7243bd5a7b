package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/claude/liftnotes/internal/journal"
	"github.com/claude/liftnotes/internal/upload"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	serverURL := flag.String("server", "", "LiftNotes server URL (e.g. https://liftnotes.tail1234.ts.net)")
	notesPath := flag.String("path", "", "directory of journal files")
	apiKey := flag.String("api-key", os.Getenv("LIFTNOTES_API_KEY"), "ingest API key (default $LIFTNOTES_API_KEY)")
	stateDir := flag.String("state-dir", "", "directory for the upload state database (default ~/.liftnotes-upload)")
	dryRun := flag.Bool("dry-run", false, "parse locally but don't send to server")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftnotes-upload", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *notesPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftnotes-upload -server <URL> -path <notes dir> [-api-key KEY] [-dry-run]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if !*dryRun && (*serverURL == "" || *apiKey == "") {
		fmt.Fprintf(os.Stderr, "Error: -server and -api-key are required (or use -dry-run)\n")
		os.Exit(1)
	}

	info, err := os.Stat(*notesPath)
	if err != nil || !info.IsDir() {
		log.Error("notes directory not found", "path", *notesPath)
		os.Exit(1)
	}

	if *stateDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Error("failed to get home directory", "error", err)
			os.Exit(1)
		}
		*stateDir = filepath.Join(homeDir, ".liftnotes-upload")
	}
	state, err := upload.OpenStateDB(*stateDir)
	if err != nil {
		log.Error("failed to open state database", "error", err)
		os.Exit(1)
	}
	defer state.Close()

	if *dryRun {
		log.Info("DRY RUN mode: files will be parsed but not sent")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := upload.NewClient(*serverURL, *apiKey)
	uploader := upload.New(client, state, *notesPath, *dryRun, journal.New(journal.Options{}), log)
	stats, err := uploader.Run(ctx)
	printStats(stats)
	if err != nil {
		log.Error("upload failed", "error", err)
		os.Exit(1)
	}
	log.Info("upload complete")
}

func printStats(stats *upload.Stats) {
	fmt.Println()
	fmt.Println("=== Upload Summary ===")
	fmt.Printf("  Files total:      %d\n", stats.FilesTotal)
	fmt.Printf("  Files uploaded:   %d\n", stats.FilesUploaded)
	fmt.Printf("  Files skipped:    %d (already uploaded)\n", stats.FilesSkipped)
	fmt.Printf("  Files errored:    %d\n", stats.FilesErrored)
	fmt.Println()
	fmt.Printf("  Days:             %d\n", stats.DaysSent)
	fmt.Printf("  Exercises:        %d\n", stats.ExercisesSent)
	fmt.Printf("  Lines ignored:    %d\n", stats.LinesIgnored)
	fmt.Println()
}
