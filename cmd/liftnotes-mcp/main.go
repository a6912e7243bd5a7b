package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/liftnotes/internal/journal"
	"github.com/claude/liftnotes/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// liftnotes-mcp serves the MCP tools over stdio, reading data from a remote
// LiftNotes server. Parsing runs locally.
func main() {
	serverURL := flag.String("server", "", "LiftNotes server URL (e.g. https://liftnotes.tail1234.ts.net)")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("liftnotes-mcp", Version)
		return
	}
	if *serverURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: liftnotes-mcp -server <URL>\n")
		os.Exit(1)
	}

	// stdout carries the protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	m := mcp.New(mcp.NewHTTPClient(*serverURL), journal.New(journal.Options{}), Version, log)
	if err := server.ServeStdio(m); err != nil {
		log.Error("mcp server stopped", "error", err)
		os.Exit(1)
	}
}
