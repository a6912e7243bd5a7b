package mcp

import (
	"context"

	"github.com/claude/liftnotes/internal/models"
	"github.com/claude/liftnotes/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QueryDays(ctx context.Context, userID int, movement string, limit int) ([]models.WorkoutDay, error)
	ListGoals(ctx context.Context, userID int) ([]models.Goal, error)
	ListJournals(ctx context.Context, userID, limit int) ([]models.JournalRow, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
