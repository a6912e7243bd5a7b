package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's stored journals.
type DataStats struct {
	TotalJournals   int64            `json:"total_journals"`
	TotalDays       int64            `json:"total_days"`
	TotalExercises  int64            `json:"total_exercises"`
	TotalGoals      int64            `json:"total_goals"`
	FirstJournal    *time.Time       `json:"first_journal"`
	LastJournal     *time.Time       `json:"last_journal"`
	ExercisesByKind map[string]int64 `json:"exercises_by_kind"`
	TopMovements    []MovementStat   `json:"top_movements"`
}

// MovementStat holds how often a movement name was logged.
type MovementStat struct {
	Movement string `json:"movement"`
	Count    int64  `json:"count"`
	Days     int64  `json:"days"`
}

// GetDataStats returns aggregate statistics for a user's stored data.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{ExercisesByKind: map[string]int64{}}

	// Totals and date range
	err := db.Pool.QueryRow(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM journals WHERE user_id = $1),
		   (SELECT COUNT(*) FROM workout_days WHERE user_id = $1),
		   (SELECT COUNT(*) FROM exercises WHERE user_id = $1),
		   (SELECT COUNT(*) FROM goals WHERE user_id = $1),
		   (SELECT MIN(created_at) FROM journals WHERE user_id = $1),
		   (SELECT MAX(created_at) FROM journals WHERE user_id = $1)`,
		userID,
	).Scan(&stats.TotalJournals, &stats.TotalDays, &stats.TotalExercises, &stats.TotalGoals,
		&stats.FirstJournal, &stats.LastJournal)
	if err != nil {
		return nil, fmt.Errorf("counting journal data: %w", err)
	}

	// Exercises by kind
	kindRows, err := db.Pool.Query(ctx,
		`SELECT kind, COUNT(*) FROM exercises WHERE user_id = $1 GROUP BY kind`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercises by kind: %w", err)
	}
	defer kindRows.Close()
	for kindRows.Next() {
		var kind string
		var n int64
		if err := kindRows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scanning kind stat: %w", err)
		}
		stats.ExercisesByKind[kind] = n
	}
	if err := kindRows.Err(); err != nil {
		return nil, err
	}

	// Most logged movements
	rows, err := db.Pool.Query(ctx,
		`SELECT LOWER(movement), COUNT(*), COUNT(DISTINCT day_id)
		 FROM exercises
		 WHERE user_id = $1
		 GROUP BY LOWER(movement)
		 ORDER BY COUNT(*) DESC, LOWER(movement) ASC
		 LIMIT 20`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying movements: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s MovementStat
		if err := rows.Scan(&s.Movement, &s.Count, &s.Days); err != nil {
			return nil, fmt.Errorf("scanning movement stat: %w", err)
		}
		stats.TopMovements = append(stats.TopMovements, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}
