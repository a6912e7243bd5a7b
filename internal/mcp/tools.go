package mcp

import (
	"context"

	"github.com/claude/liftnotes/internal/classify"
	"github.com/claude/liftnotes/internal/goals"
	"github.com/mark3labs/mcp-go/mcp"
)

const (
	defaultDayLimit      = 14
	defaultProgressLimit = 7
	maxDayLimit          = 365
)

// dayLimit clamps a requested day count to 1..maxDayLimit.
func dayLimit(n, def int) int {
	if n <= 0 {
		return def
	}
	return min(n, maxDayLimit)
}

// --- Tool definitions ---

var toolParseJournal = mcp.NewTool("parse_journal",
	mcp.WithDescription("Parse free-form workout journal text into training days and exercises without storing anything. Lines like 'Day 1', 'Monday' or '2025-11-17' start a day; exercise lines look like '3x10 bench press @ 135lbs (90s rest)', '5k run @ 5:30/km', '30 min bike @ RPE 7', 'max pull ups' or '3x10 pull ups + 3x15 dips'. Returns the days plus exercises found before the first day and lines that were not understood."),
	mcp.WithString("text", mcp.Required(), mcp.Description("Journal text, one entry per line")),
)

var toolGetWorkoutDays = mcp.NewTool("get_workout_days",
	mcp.WithDescription("List the most recently logged workout days with their exercises (sets, reps, distance, duration, weight, rest, tempo, RPE)."),
	mcp.WithString("movement", mcp.Description("Only include exercises whose movement contains this text (case-insensitive, e.g. 'bench', 'run')")),
	mcp.WithNumber("limit", mcp.Description("Maximum number of days. Defaults to 14.")),
)

var toolGetMuscleIntensity = mcp.NewTool("get_muscle_intensity",
	mcp.WithDescription("Training intensity per muscle group over the most recent workout days. Intensity is 0..1 relative to the most trained group, with a level of Not Targeted, Light, Moderate or Heavy."),
	mcp.WithNumber("limit", mcp.Description("Number of recent days to include. Defaults to 7.")),
)

var toolGetGoalProgress = mcp.NewTool("get_goal_progress",
	mcp.WithDescription("Progress of every goal over the most recent workout days: on how many days the target was met and whether the goal frequency is reached."),
	mcp.WithNumber("limit", mcp.Description("Number of recent days to include. Defaults to 7.")),
)

var toolListGoals = mcp.NewTool("list_goals",
	mcp.WithDescription("List all training goals with their type, target and frequency."),
)

var toolListJournals = mcp.NewTool("list_journals",
	mcp.WithDescription("List stored journals (newest first) with source, upload time and day count."),
	mcp.WithNumber("limit", mcp.Description("Maximum number of journals. Defaults to 50.")),
)

// --- Tool handlers ---

func (h *handlers) parseJournal(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("text parameter is required"), nil
	}

	result, err := mcp.NewToolResultJSON(h.parser.Parse(text))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getWorkoutDays(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	limit := dayLimit(req.GetInt("limit", 0), defaultDayLimit)

	days, err := h.ds.QueryDays(ctx, uid, req.GetString("movement", ""), limit)
	if err != nil {
		h.log.Error("mcp get_workout_days", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(days)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMuscleIntensity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	limit := dayLimit(req.GetInt("limit", 0), defaultProgressLimit)

	days, err := h.ds.QueryDays(ctx, uid, "", limit)
	if err != nil {
		h.log.Error("mcp get_muscle_intensity", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"days":   len(days),
		"groups": classify.Summary(days),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getGoalProgress(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	limit := dayLimit(req.GetInt("limit", 0), defaultProgressLimit)

	progress, err := h.goalProgress(ctx, uid, limit)
	if err != nil {
		h.log.Error("mcp get_goal_progress", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(progress)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) goalProgress(ctx context.Context, uid, limit int) ([]goals.Progress, error) {
	gs, err := h.ds.ListGoals(ctx, uid)
	if err != nil {
		return nil, err
	}
	if len(gs) == 0 {
		return []goals.Progress{}, nil
	}
	days, err := h.ds.QueryDays(ctx, uid, "", limit)
	if err != nil {
		return nil, err
	}
	return goals.Evaluate(gs, days), nil
}

func (h *handlers) listGoals(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	gs, err := h.ds.ListGoals(ctx, UserIDFromContext(ctx))
	if err != nil {
		h.log.Error("mcp list_goals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(gs)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) listJournals(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	journals, err := h.ds.ListJournals(ctx, UserIDFromContext(ctx), req.GetInt("limit", 50))
	if err != nil {
		h.log.Error("mcp list_journals", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(journals)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
