package models

import (
	"time"

	"github.com/google/uuid"
)

// JournalRow is a row of the journals table.
type JournalRow struct {
	ID        uuid.UUID `json:"id"`
	UserID    int       `json:"-"`
	Source    string    `json:"source"`
	RawText   string    `json:"raw_text,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	DayCount  int       `json:"day_count"`
}

// DayRow is a row of the workout_days table.
type DayRow struct {
	ID        uuid.UUID
	JournalID uuid.UUID
	UserID    int
	Position  int
	DateLabel string
}

// ExerciseRow is a row of the exercises table. Nullable columns are pointers.
type ExerciseRow struct {
	ID          uuid.UUID
	DayID       uuid.UUID
	UserID      int
	Position    int
	RawText     string
	Kind        Kind
	Movement    string
	Sets        *int
	Reps        *int
	IsMax       bool
	Quantity    *float64
	Unit        *Unit
	Weight      *float64
	WeightUnit  *WeightUnit
	RestSeconds *int
	Tempo       string
	RPE         *int
	Notes       string
}

// ExerciseRowFrom flattens an exercise for insertion.
func ExerciseRowFrom(ex Exercise, dayID uuid.UUID, userID, position int) ExerciseRow {
	row := ExerciseRow{
		ID:          ex.ID,
		DayID:       dayID,
		UserID:      userID,
		Position:    position,
		RawText:     ex.RawText,
		Kind:        ex.Kind(),
		Movement:    ex.Movement,
		RestSeconds: ex.RestSeconds,
		Tempo:       ex.Tempo,
		RPE:         ex.RPE,
		Notes:       ex.Notes,
	}
	if v, ok := ex.Sets(); ok {
		row.Sets = &v
	}
	if v, ok := ex.Reps(); ok {
		row.Reps = &v
	}
	if m, ok := ex.Measure.(BodyweightReps); ok {
		row.IsMax = m.Max
	}
	if v, ok := ex.Quantity(); ok {
		row.Quantity = &v
	}
	if v, ok := ex.Unit(); ok {
		row.Unit = &v
	}
	if ex.Weight != nil {
		w, u := ex.Weight.Value, ex.Weight.Unit
		row.Weight = &w
		row.WeightUnit = &u
	}
	return row
}

// Exercise rebuilds the domain record from a stored row.
func (r ExerciseRow) Exercise() (Exercise, error) {
	m, err := measureFromFields(r.Kind, r.Sets, r.Reps, r.IsMax, r.Quantity, r.Unit)
	if err != nil {
		return Exercise{}, err
	}
	ex := Exercise{
		ID:       r.ID,
		RawText:  r.RawText,
		Movement: r.Movement,
		Measure:  m,
		Annotations: Annotations{
			RestSeconds: r.RestSeconds,
			Tempo:       r.Tempo,
			RPE:         r.RPE,
			Notes:       r.Notes,
		},
	}
	if r.Weight != nil && r.WeightUnit != nil {
		ex.Weight = &Load{Value: *r.Weight, Unit: *r.WeightUnit}
	}
	return ex, nil
}
