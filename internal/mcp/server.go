package mcp

import (
	"context"
	"log/slog"

	"github.com/claude/liftnotes/internal/journal"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, parser *journal.Parser, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("LiftNotes", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("LiftNotes workout journal server. Parse free-form workout notes, browse logged training days, see which muscle groups were trained and how goals are progressing. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, parser: parser, log: log}

	s.AddTools(
		server.ServerTool{Tool: toolParseJournal, Handler: h.parseJournal},
		server.ServerTool{Tool: toolGetWorkoutDays, Handler: h.getWorkoutDays},
		server.ServerTool{Tool: toolGetMuscleIntensity, Handler: h.getMuscleIntensity},
		server.ServerTool{Tool: toolGetGoalProgress, Handler: h.getGoalProgress},
		server.ServerTool{Tool: toolListGoals, Handler: h.listGoals},
		server.ServerTool{Tool: toolListJournals, Handler: h.listJournals},
	)

	s.AddResources(
		server.ServerResource{Resource: resRecentDays, Handler: h.recentDays},
		server.ServerResource{Resource: resMuscleGroups, Handler: h.muscleGroups},
		server.ServerResource{Resource: resGoals, Handler: h.goalsResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds     DataSource
	parser *journal.Parser
	log    *slog.Logger
}

// --- Resource definitions ---

var resRecentDays = mcp.NewResource(
	"liftnotes://recent_days",
	"Recent Workout Days",
	mcp.WithResourceDescription("The 14 most recently logged workout days with their exercises"),
	mcp.WithMIMEType("application/json"),
)

var resMuscleGroups = mcp.NewResource(
	"liftnotes://muscle_groups",
	"Muscle Groups",
	mcp.WithResourceDescription("All muscle groups with display names and their training intensity over the recent workout days"),
	mcp.WithMIMEType("application/json"),
)

var resGoals = mcp.NewResource(
	"liftnotes://goals",
	"Goals",
	mcp.WithResourceDescription("Training goals with completion progress over the last 7 workout days"),
	mcp.WithMIMEType("application/json"),
)
