package models

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Kind identifies which measure an exercise carries.
type Kind string

const (
	KindStrength   Kind = "strength"
	KindDistance   Kind = "distance"
	KindDuration   Kind = "duration"
	KindBodyweight Kind = "bodyweight"
)

// Unit is a normalized distance or time unit.
type Unit string

const (
	UnitK   Unit = "k"
	UnitKM  Unit = "km"
	UnitMI  Unit = "mi"
	UnitMin Unit = "min"
)

// WeightUnit is a normalized load unit.
type WeightUnit string

const (
	WeightLbs WeightUnit = "lbs"
	WeightKg  WeightUnit = "kg"
)

// Measure is the kind-specific part of an exercise. It is implemented by
// SetsReps, Distance, Duration and BodyweightReps only.
type Measure interface {
	Kind() Kind
	measure()
}

// SetsReps is a strength entry such as "3x10".
type SetsReps struct {
	Sets int
	Reps int
}

// Distance is a cardio entry measured in k, km or mi.
type Distance struct {
	Quantity float64
	Unit     Unit
}

// Duration is a cardio entry measured in minutes.
type Duration struct {
	Minutes float64
}

// BodyweightReps is a single rep count such as "50 push ups".
// Max is set for "max pull ups", in which case Reps is meaningless.
type BodyweightReps struct {
	Reps int
	Max  bool
}

func (SetsReps) Kind() Kind       { return KindStrength }
func (Distance) Kind() Kind       { return KindDistance }
func (Duration) Kind() Kind       { return KindDuration }
func (BodyweightReps) Kind() Kind { return KindBodyweight }

func (SetsReps) measure()       {}
func (Distance) measure()       {}
func (Duration) measure()       {}
func (BodyweightReps) measure() {}

// Load is a weight together with its unit.
type Load struct {
	Value float64
	Unit  WeightUnit
}

// Annotations are optional modifiers that can accompany any measure.
type Annotations struct {
	Weight      *Load
	RestSeconds *int
	Tempo       string
	RPE         *int
	Notes       string
}

// Exercise is one parsed movement. RawText is the exact source line (or
// superset segment) the exercise was recognized from.
type Exercise struct {
	ID       uuid.UUID
	RawText  string
	Movement string
	Measure  Measure
	Annotations
}

// NewExercise builds an exercise with a fresh identity.
func NewExercise(rawText, movement string, m Measure, a Annotations) Exercise {
	return Exercise{
		ID:          uuid.New(),
		RawText:     rawText,
		Movement:    movement,
		Measure:     m,
		Annotations: a,
	}
}

// Kind returns the kind of the exercise's measure, or "" if it has none.
func (e Exercise) Kind() Kind {
	if e.Measure == nil {
		return ""
	}
	return e.Measure.Kind()
}

// Sets returns the set count of a strength exercise.
func (e Exercise) Sets() (int, bool) {
	if m, ok := e.Measure.(SetsReps); ok {
		return m.Sets, true
	}
	return 0, false
}

// Reps returns the rep count for strength and bodyweight exercises.
// A bodyweight "max" entry has no rep count.
func (e Exercise) Reps() (int, bool) {
	switch m := e.Measure.(type) {
	case SetsReps:
		return m.Reps, true
	case BodyweightReps:
		if m.Max {
			return 0, false
		}
		return m.Reps, true
	}
	return 0, false
}

// Quantity returns the distance or duration of a cardio exercise.
func (e Exercise) Quantity() (float64, bool) {
	switch m := e.Measure.(type) {
	case Distance:
		return m.Quantity, true
	case Duration:
		return m.Minutes, true
	}
	return 0, false
}

// Unit returns the unit paired with Quantity.
func (e Exercise) Unit() (Unit, bool) {
	switch m := e.Measure.(type) {
	case Distance:
		return m.Unit, true
	case Duration:
		return UnitMin, true
	}
	return "", false
}

// WorkoutDay is a block of exercises under one header line.
type WorkoutDay struct {
	ID        uuid.UUID  `json:"id"`
	DateLabel string     `json:"date_label"`
	Exercises []Exercise `json:"exercises"`
}

// NewWorkoutDay opens an empty day with a fresh identity.
func NewWorkoutDay(label string) WorkoutDay {
	return WorkoutDay{ID: uuid.New(), DateLabel: label, Exercises: []Exercise{}}
}

// exerciseJSON is the flat wire shape of an Exercise.
type exerciseJSON struct {
	ID         uuid.UUID   `json:"id"`
	RawText    string      `json:"raw_text"`
	Kind       Kind        `json:"kind"`
	Movement   string      `json:"movement"`
	Sets       *int        `json:"sets,omitempty"`
	Reps       *int        `json:"reps,omitempty"`
	Max        bool        `json:"max,omitempty"`
	Quantity   *float64    `json:"quantity,omitempty"`
	Unit       *Unit       `json:"unit,omitempty"`
	Weight     *float64    `json:"weight,omitempty"`
	WeightUnit *WeightUnit `json:"weight_unit,omitempty"`
	RestTime   *int        `json:"rest_time,omitempty"`
	Tempo      string      `json:"tempo,omitempty"`
	RPE        *int        `json:"rpe,omitempty"`
	Notes      string      `json:"notes,omitempty"`
}

// MarshalJSON flattens the measure and annotations into one object.
func (e Exercise) MarshalJSON() ([]byte, error) {
	out := exerciseJSON{
		ID:       e.ID,
		RawText:  e.RawText,
		Kind:     e.Kind(),
		Movement: e.Movement,
		RestTime: e.RestSeconds,
		Tempo:    e.Tempo,
		RPE:      e.RPE,
		Notes:    e.Notes,
	}
	if v, ok := e.Sets(); ok {
		out.Sets = &v
	}
	if v, ok := e.Reps(); ok {
		out.Reps = &v
	}
	if m, ok := e.Measure.(BodyweightReps); ok && m.Max {
		out.Max = true
	}
	if v, ok := e.Quantity(); ok {
		out.Quantity = &v
	}
	if v, ok := e.Unit(); ok {
		out.Unit = &v
	}
	if e.Weight != nil {
		w, u := e.Weight.Value, e.Weight.Unit
		out.Weight = &w
		out.WeightUnit = &u
	}
	return json.Marshal(out)
}

// UnmarshalJSON rebuilds the measure from the flat wire shape.
func (e *Exercise) UnmarshalJSON(data []byte) error {
	var in exerciseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m, err := measureFromFields(in.Kind, in.Sets, in.Reps, in.Max, in.Quantity, in.Unit)
	if err != nil {
		return err
	}
	*e = Exercise{
		ID:       in.ID,
		RawText:  in.RawText,
		Movement: in.Movement,
		Measure:  m,
		Annotations: Annotations{
			RestSeconds: in.RestTime,
			Tempo:       in.Tempo,
			RPE:         in.RPE,
			Notes:       in.Notes,
		},
	}
	if in.Weight != nil && in.WeightUnit != nil {
		e.Weight = &Load{Value: *in.Weight, Unit: *in.WeightUnit}
	}
	return nil
}

// measureFromFields reconstructs a Measure from flat optional fields, as found
// in JSON payloads and database rows.
func measureFromFields(kind Kind, sets, reps *int, isMax bool, quantity *float64, unit *Unit) (Measure, error) {
	switch kind {
	case KindStrength:
		if sets == nil || reps == nil {
			return nil, fmt.Errorf("strength exercise needs sets and reps")
		}
		return SetsReps{Sets: *sets, Reps: *reps}, nil
	case KindDistance:
		if quantity == nil || unit == nil {
			return nil, fmt.Errorf("distance exercise needs quantity and unit")
		}
		return Distance{Quantity: *quantity, Unit: *unit}, nil
	case KindDuration:
		if quantity == nil {
			return nil, fmt.Errorf("duration exercise needs quantity")
		}
		return Duration{Minutes: *quantity}, nil
	case KindBodyweight:
		if reps == nil {
			return BodyweightReps{Max: true}, nil
		}
		return BodyweightReps{Reps: *reps, Max: isMax}, nil
	default:
		return nil, fmt.Errorf("unknown exercise kind %q", kind)
	}
}
