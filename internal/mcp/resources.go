package mcp

import (
	"context"
	"encoding/json"

	"github.com/claude/liftnotes/internal/classify"
	"github.com/mark3labs/mcp-go/mcp"
)

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (h *handlers) recentDays(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	days, err := h.ds.QueryDays(ctx, UserIDFromContext(ctx), "", defaultDayLimit)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, days)
}

func (h *handlers) muscleGroups(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	days, err := h.ds.QueryDays(ctx, UserIDFromContext(ctx), "", defaultDayLimit)
	if err != nil {
		h.log.Warn("muscle_groups: day query failed", "error", err)
		days = nil
	}
	return jsonResource(req.Params.URI, classify.Summary(days))
}

func (h *handlers) goalsResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	progress, err := h.goalProgress(ctx, UserIDFromContext(ctx), defaultProgressLimit)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, progress)
}
