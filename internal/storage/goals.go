package storage

import (
	"context"
	"fmt"

	"github.com/claude/liftnotes/internal/models"
	"github.com/google/uuid"
)

// InsertGoal stores a goal for the user, assigning an ID if it has none.
func (db *DB) InsertGoal(ctx context.Context, userID int, g models.Goal) (models.Goal, error) {
	if err := g.Validate(); err != nil {
		return models.Goal{}, err
	}
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO goals (id, user_id, name, type, target_value, target_unit, frequency)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		g.ID, userID, g.Name, g.Type, g.TargetValue, g.TargetUnit, g.Frequency)
	if err != nil {
		return models.Goal{}, fmt.Errorf("inserting goal: %w", err)
	}
	return g, nil
}

// ListGoals returns the user's goals in creation order.
func (db *DB) ListGoals(ctx context.Context, userID int) ([]models.Goal, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, name, type, target_value, target_unit, frequency
		 FROM goals
		 WHERE user_id = $1
		 ORDER BY created_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying goals: %w", err)
	}
	defer rows.Close()

	result := []models.Goal{}
	for rows.Next() {
		var g models.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.Type, &g.TargetValue, &g.TargetUnit, &g.Frequency); err != nil {
			return nil, fmt.Errorf("scanning goal: %w", err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

// DeleteGoal removes a goal. Returns ErrNotFound if the user has no such goal.
func (db *DB) DeleteGoal(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting goal %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
