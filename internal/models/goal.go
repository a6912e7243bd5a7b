package models

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// GoalType selects which kind of exercise a goal tracks.
type GoalType string

const (
	GoalStrength       GoalType = "strength"
	GoalCardioDistance GoalType = "cardio_distance"
	GoalCardioTime     GoalType = "cardio_time"
	GoalBodyweight     GoalType = "bodyweight"
)

// Label returns the human-readable name of the goal type.
func (t GoalType) Label() string {
	switch t {
	case GoalStrength:
		return "Strength"
	case GoalCardioDistance:
		return "Cardio (Distance)"
	case GoalCardioTime:
		return "Cardio (Time)"
	case GoalBodyweight:
		return "Bodyweight"
	default:
		return string(t)
	}
}

// Goal is a weekly training target, e.g. "run 5k three times".
type Goal struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Type        GoalType  `json:"type"`
	TargetValue float64   `json:"target_value"` // volume, distance, minutes or reps
	TargetUnit  string    `json:"target_unit,omitempty"`
	Frequency   int       `json:"frequency"` // days per period
}

// Validate reports the first problem that makes a goal unusable.
func (g Goal) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("goal name is required")
	}
	switch g.Type {
	case GoalStrength, GoalCardioDistance, GoalCardioTime, GoalBodyweight:
	default:
		return fmt.Errorf("unknown goal type %q", g.Type)
	}
	if g.TargetValue <= 0 {
		return fmt.Errorf("goal target must be positive")
	}
	if g.Frequency < 1 {
		return fmt.Errorf("goal frequency must be at least 1")
	}
	return nil
}

// DisplayTarget renders the target without a trailing ".0", e.g. "5k" or "30".
func (g Goal) DisplayTarget() string {
	return strconv.FormatFloat(g.TargetValue, 'f', -1, 64) + g.TargetUnit
}
