package server

import (
	"context"
	"io/fs"
	"log/slog"
	"net/http"
	"sync"

	"github.com/claude/liftnotes/internal/ingest/notes"
	"github.com/claude/liftnotes/internal/journal"
	lnmcp "github.com/claude/liftnotes/internal/mcp"
	"github.com/claude/liftnotes/internal/storage"
	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	notes  *notes.Provider
	parser *journal.Parser
	log    *slog.Logger
	apiKey string
	router chi.Router

	// identity is DevIdentity until SetTailscale installs WhoIs lookups.
	identity func(http.Handler) http.Handler

	reparseMu     sync.Mutex
	activeReparse *reparseState
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, notesProvider *notes.Provider, parser *journal.Parser, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:       db,
		notes:    notesProvider,
		parser:   parser,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
		identity: DevIdentity,
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s.identity(next).ServeHTTP(w, r)
		})
	})

	// Ingest endpoints (API key required)
	s.router.Route("/api/v1/ingest", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/journal", s.handleIngestJournal)
	})

	// Dashboard API endpoints (no API key; tsnet handles access)
	s.router.Post("/api/v1/parse", s.handleParse)
	s.router.Get("/api/v1/journals", s.handleListJournals)
	s.router.Get("/api/v1/journals/{id}", s.handleGetJournal)
	s.router.Delete("/api/v1/journals/{id}", s.handleDeleteJournal)
	s.router.Get("/api/v1/days", s.handleQueryDays)
	s.router.Get("/api/v1/muscles", s.handleMuscles)
	s.router.Get("/api/v1/goals", s.handleListGoals)
	s.router.Post("/api/v1/goals", s.handleCreateGoal)
	s.router.Get("/api/v1/goals/progress", s.handleGoalProgress)
	s.router.Delete("/api/v1/goals/{id}", s.handleDeleteGoal)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/import-logs", s.handleImportLogs)
	s.router.Get("/api/v1/me", s.handleMe)

	// Re-parse of stored journals with the current parser
	s.router.Post("/api/v1/reparse", s.handleStartReparse)
	s.router.Post("/api/v1/reparse/cancel", s.handleCancelReparse)
	s.router.Get("/api/v1/reparse/status", s.handleReparseStatus)
	s.router.Get("/api/v1/reparse/events", s.handleReparseEvents)
}

// SetTailscale switches identity from the dev user to tailnet WhoIs lookups.
// Must be called before serving.
func (s *Server) SetTailscale(whois whoIser) {
	s.identity = TailscaleIdentity(whois, s.db, s.log)
}

// SetMCP mounts the streamable HTTP transport of an MCP server at /mcp.
// Tool calls run as the user resolved by the identity middleware.
func (s *Server) SetMCP(m *mcpserver.MCPServer) {
	h := mcpserver.NewStreamableHTTPServer(m,
		mcpserver.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return lnmcp.WithUserID(ctx, userIDFromContext(r))
		}),
	)
	s.router.Handle("/mcp", h)
}

// SetFrontend mounts a static web UI filesystem.
// Unmatched routes serve index.html for client-side routing.
func (s *Server) SetFrontend(webFS fs.FS) {
	fileServer := http.FileServerFS(webFS)

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		f, err := webFS.Open(r.URL.Path[1:])
		if err == nil {
			f.Close()
			fileServer.ServeHTTP(w, r)
			return
		}
		r.URL.Path = "/"
		fileServer.ServeHTTP(w, r)
	})
}
