package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/claude/liftnotes/internal/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// maxParams is PostgreSQL's limit on bind parameters per statement.
const maxParams = 65535

const exerciseColumns = `id, day_id, user_id, position, raw_text, kind, movement,
	sets, reps, is_max, quantity, unit, weight, weight_unit, rest_seconds, tempo, rpe, notes`

// JournalDetail is a stored journal with its parsed days.
type JournalDetail struct {
	models.JournalRow
	Days []models.WorkoutDay `json:"days"`
}

// InsertJournal stores the raw text of a journal together with its parsed
// days and exercises in one transaction. Days and exercises keep their
// source position. Returns the journal row and the number of exercises stored.
func (db *DB) InsertJournal(ctx context.Context, userID int, source, rawText string, days []models.WorkoutDay) (models.JournalRow, int64, error) {
	j := models.JournalRow{
		ID:       uuid.New(),
		UserID:   userID,
		Source:   source,
		RawText:  rawText,
		DayCount: len(days),
	}

	var inserted int64
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`INSERT INTO journals (id, user_id, source, raw_text)
			 VALUES ($1,$2,$3,$4)
			 RETURNING created_at`,
			j.ID, userID, source, rawText).Scan(&j.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting journal: %w", err)
		}
		inserted, err = insertDays(ctx, tx, j.ID, userID, days)
		return err
	})
	if err != nil {
		return models.JournalRow{}, 0, err
	}
	return j, inserted, nil
}

// ReplaceJournalDays swaps the stored days of a journal for a fresh parse of
// its raw text. Returns ErrNotFound if the user has no such journal.
func (db *DB) ReplaceJournalDays(ctx context.Context, id uuid.UUID, userID int, days []models.WorkoutDay) (int64, error) {
	var inserted int64
	err := pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		var exists bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM journals WHERE id = $1 AND user_id = $2)`,
			id, userID).Scan(&exists); err != nil {
			return fmt.Errorf("checking journal: %w", err)
		}
		if !exists {
			return ErrNotFound
		}
		if _, err := tx.Exec(ctx, `DELETE FROM workout_days WHERE journal_id = $1`, id); err != nil {
			return fmt.Errorf("deleting days: %w", err)
		}
		var err error
		inserted, err = insertDays(ctx, tx, id, userID, days)
		return err
	})
	return inserted, err
}

// insertDays writes days and their exercises under a journal, keeping source
// order in the position columns.
func insertDays(ctx context.Context, tx pgx.Tx, journalID uuid.UUID, userID int, days []models.WorkoutDay) (int64, error) {
	var dayRows [][]any
	var exRows [][]any
	for i, d := range days {
		dayRows = append(dayRows, []any{d.ID, journalID, userID, i, d.DateLabel})
		for k, ex := range d.Exercises {
			exRows = append(exRows, exerciseArgs(models.ExerciseRowFrom(ex, d.ID, userID, k)))
		}
	}
	if _, err := insertValues(ctx, tx,
		`INSERT INTO workout_days (id, journal_id, user_id, position, date_label) VALUES `,
		dayRows); err != nil {
		return 0, fmt.Errorf("inserting days: %w", err)
	}
	inserted, err := insertValues(ctx, tx,
		`INSERT INTO exercises (`+exerciseColumns+`) VALUES `, exRows)
	if err != nil {
		return 0, fmt.Errorf("inserting exercises: %w", err)
	}
	return inserted, nil
}

func exerciseArgs(r models.ExerciseRow) []any {
	return []any{r.ID, r.DayID, r.UserID, r.Position, r.RawText, r.Kind, r.Movement,
		r.Sets, r.Reps, r.IsMax, r.Quantity, r.Unit, r.Weight, r.WeightUnit,
		r.RestSeconds, r.Tempo, r.RPE, r.Notes}
}

// insertValues runs a multi-row INSERT, split into statements that stay under
// the bind parameter limit. All rows must have the same width.
func insertValues(ctx context.Context, tx pgx.Tx, prefix string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	width := len(rows[0])
	chunk := maxParams / width

	var total int64
	for start := 0; start < len(rows); start += chunk {
		end := min(start+chunk, len(rows))
		query, args := valuesClause(rows[start:end])
		tag, err := tx.Exec(ctx, prefix+query, args...)
		if err != nil {
			return total, err
		}
		total += tag.RowsAffected()
	}
	return total, nil
}

// valuesClause renders "($1,$2),($3,$4)" for rows and flattens their args.
func valuesClause(rows [][]any) (string, []any) {
	width := len(rows[0])
	args := make([]any, 0, len(rows)*width)
	groups := make([]string, 0, len(rows))
	var b strings.Builder
	for i, r := range rows {
		b.Reset()
		b.WriteByte('(')
		for c := range r {
			if c > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(&b, "$%d", i*width+c+1)
		}
		b.WriteByte(')')
		groups = append(groups, b.String())
		args = append(args, r...)
	}
	return strings.Join(groups, ","), args
}

// ListJournals returns the user's journals, newest first, without raw text.
func (db *DB) ListJournals(ctx context.Context, userID, limit int) ([]models.JournalRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT j.id, j.user_id, j.source, j.created_at,
		 (SELECT COUNT(*) FROM workout_days d WHERE d.journal_id = j.id)
		 FROM journals j
		 WHERE j.user_id = $1
		 ORDER BY j.created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying journals: %w", err)
	}
	defer rows.Close()

	var result []models.JournalRow
	for rows.Next() {
		var j models.JournalRow
		if err := rows.Scan(&j.ID, &j.UserID, &j.Source, &j.CreatedAt, &j.DayCount); err != nil {
			return nil, fmt.Errorf("scanning journal: %w", err)
		}
		result = append(result, j)
	}
	return result, rows.Err()
}

// GetJournal returns a journal with its days. Returns ErrNotFound if the
// journal does not exist or belongs to another user.
func (db *DB) GetJournal(ctx context.Context, id uuid.UUID, userID int) (*JournalDetail, error) {
	var j models.JournalRow
	err := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, source, raw_text, created_at
		 FROM journals
		 WHERE id = $1 AND user_id = $2`,
		id, userID).Scan(&j.ID, &j.UserID, &j.Source, &j.RawText, &j.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}

	dayRows, err := db.Pool.Query(ctx,
		`SELECT id, journal_id, user_id, position, date_label
		 FROM workout_days
		 WHERE journal_id = $1
		 ORDER BY position ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying journal days: %w", err)
	}
	dayList, err := scanDayRows(dayRows)
	if err != nil {
		return nil, err
	}

	exRows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+`
		 FROM exercises
		 WHERE day_id IN (SELECT id FROM workout_days WHERE journal_id = $1)
		 ORDER BY position ASC`,
		id)
	if err != nil {
		return nil, fmt.Errorf("querying journal exercises: %w", err)
	}
	exList, err := scanExerciseRows(exRows)
	if err != nil {
		return nil, err
	}

	days, err := assembleDays(dayList, exList)
	if err != nil {
		return nil, err
	}
	j.DayCount = len(days)
	return &JournalDetail{JournalRow: j, Days: days}, nil
}

// ListJournalTexts returns every journal of the user with its raw text,
// oldest first.
func (db *DB) ListJournalTexts(ctx context.Context, userID int) ([]models.JournalRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, source, raw_text, created_at
		 FROM journals
		 WHERE user_id = $1
		 ORDER BY created_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("querying journal texts: %w", err)
	}
	defer rows.Close()

	var result []models.JournalRow
	for rows.Next() {
		var j models.JournalRow
		if err := rows.Scan(&j.ID, &j.UserID, &j.Source, &j.RawText, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning journal: %w", err)
		}
		result = append(result, j)
	}
	return result, rows.Err()
}

// DeleteJournal removes a journal and, by cascade, its days and exercises.
func (db *DB) DeleteJournal(ctx context.Context, id uuid.UUID, userID int) error {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM journals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("deleting journal %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// QueryDays returns the user's most recent workout days across all journals:
// newest journal first, then source order within a journal. A non-empty
// movement keeps only exercises whose movement contains it (case-insensitive)
// and only days that have at least one such exercise.
func (db *DB) QueryDays(ctx context.Context, userID int, movement string, limit int) ([]models.WorkoutDay, error) {
	if limit <= 0 {
		limit = 30
	}
	dayRows, err := db.Pool.Query(ctx,
		`SELECT d.id, d.journal_id, d.user_id, d.position, d.date_label
		 FROM workout_days d
		 JOIN journals j ON j.id = d.journal_id
		 WHERE d.user_id = $1
		   AND ($2 = '' OR EXISTS (
		     SELECT 1 FROM exercises e
		     WHERE e.day_id = d.id AND e.movement ILIKE '%' || $2 || '%'))
		 ORDER BY j.created_at DESC, d.position ASC
		 LIMIT $3`,
		userID, movement, limit)
	if err != nil {
		return nil, fmt.Errorf("querying days: %w", err)
	}
	dayList, err := scanDayRows(dayRows)
	if err != nil {
		return nil, err
	}
	if len(dayList) == 0 {
		return []models.WorkoutDay{}, nil
	}

	ids := make([]uuid.UUID, len(dayList))
	for i, d := range dayList {
		ids[i] = d.ID
	}
	exRows, err := db.Pool.Query(ctx,
		`SELECT `+exerciseColumns+`
		 FROM exercises
		 WHERE day_id = ANY($1)
		   AND ($2 = '' OR movement ILIKE '%' || $2 || '%')
		 ORDER BY position ASC`,
		ids, movement)
	if err != nil {
		return nil, fmt.Errorf("querying exercises: %w", err)
	}
	exList, err := scanExerciseRows(exRows)
	if err != nil {
		return nil, err
	}
	return assembleDays(dayList, exList)
}

func scanDayRows(rows pgx.Rows) ([]models.DayRow, error) {
	defer rows.Close()
	var result []models.DayRow
	for rows.Next() {
		var d models.DayRow
		if err := rows.Scan(&d.ID, &d.JournalID, &d.UserID, &d.Position, &d.DateLabel); err != nil {
			return nil, fmt.Errorf("scanning day: %w", err)
		}
		result = append(result, d)
	}
	return result, rows.Err()
}

func scanExerciseRows(rows pgx.Rows) ([]models.ExerciseRow, error) {
	defer rows.Close()
	var result []models.ExerciseRow
	for rows.Next() {
		var r models.ExerciseRow
		if err := rows.Scan(&r.ID, &r.DayID, &r.UserID, &r.Position, &r.RawText, &r.Kind, &r.Movement,
			&r.Sets, &r.Reps, &r.IsMax, &r.Quantity, &r.Unit, &r.Weight, &r.WeightUnit,
			&r.RestSeconds, &r.Tempo, &r.RPE, &r.Notes); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// assembleDays groups exercise rows under their days. Days keep the order
// given; exercises are ordered by position within each day.
func assembleDays(dayRows []models.DayRow, exRows []models.ExerciseRow) ([]models.WorkoutDay, error) {
	days := make([]models.WorkoutDay, len(dayRows))
	index := make(map[uuid.UUID]int, len(dayRows))
	for i, d := range dayRows {
		days[i] = models.WorkoutDay{ID: d.ID, DateLabel: d.DateLabel, Exercises: []models.Exercise{}}
		index[d.ID] = i
	}

	sorted := make([]models.ExerciseRow, len(exRows))
	copy(sorted, exRows)
	slices.SortStableFunc(sorted, func(a, b models.ExerciseRow) int { return a.Position - b.Position })

	for _, r := range sorted {
		i, ok := index[r.DayID]
		if !ok {
			continue
		}
		ex, err := r.Exercise()
		if err != nil {
			return nil, fmt.Errorf("decoding exercise %s: %w", r.ID, err)
		}
		days[i].Exercises = append(days[i].Exercises, ex)
	}
	return days, nil
}
