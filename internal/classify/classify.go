// Package classify maps parsed exercises to the muscle groups they train and
// scores how hard each group was worked across a set of days.
package classify

import (
	"strings"

	"github.com/claude/liftnotes/internal/models"
)

// MuscleGroup is a trained body region.
type MuscleGroup string

const (
	Chest      MuscleGroup = "chest"
	Shoulders  MuscleGroup = "shoulders"
	Biceps     MuscleGroup = "biceps"
	Triceps    MuscleGroup = "triceps"
	Forearms   MuscleGroup = "forearms"
	Abs        MuscleGroup = "abs"
	Obliques   MuscleGroup = "obliques"
	UpperBack  MuscleGroup = "upper_back"
	LowerBack  MuscleGroup = "lower_back"
	Lats       MuscleGroup = "lats"
	Quads      MuscleGroup = "quads"
	Hamstrings MuscleGroup = "hamstrings"
	Glutes     MuscleGroup = "glutes"
	Calves     MuscleGroup = "calves"
	Cardio     MuscleGroup = "cardio"
)

// AllGroups lists every muscle group in display order.
var AllGroups = []MuscleGroup{
	Chest, Shoulders, Biceps, Triceps, Forearms, Abs, Obliques,
	UpperBack, LowerBack, Lats, Quads, Hamstrings, Glutes, Calves, Cardio,
}

var displayNames = map[MuscleGroup]string{
	Chest:      "Chest",
	Shoulders:  "Shoulders",
	Biceps:     "Biceps",
	Triceps:    "Triceps",
	Forearms:   "Forearms",
	Abs:        "Abs",
	Obliques:   "Obliques",
	UpperBack:  "Upper Back",
	LowerBack:  "Lower Back",
	Lats:       "Lats",
	Quads:      "Quads",
	Hamstrings: "Hamstrings",
	Glutes:     "Glutes",
	Calves:     "Calves",
	Cardio:     "Cardio",
}

// DisplayName returns the human-readable name, e.g. "Upper Back".
func (g MuscleGroup) DisplayName() string {
	if name, ok := displayNames[g]; ok {
		return name
	}
	return string(g)
}

// keyword maps a lower-case movement fragment to the groups it trains.
type keyword struct {
	text   string
	groups []MuscleGroup
}

var keywords = []keyword{
	// chest
	{"bench press", []MuscleGroup{Chest, Triceps, Shoulders}},
	{"push up", []MuscleGroup{Chest, Triceps, Shoulders}},
	{"push-up", []MuscleGroup{Chest, Triceps, Shoulders}},
	{"pushup", []MuscleGroup{Chest, Triceps, Shoulders}},
	{"chest press", []MuscleGroup{Chest, Triceps}},
	{"chest fly", []MuscleGroup{Chest}},
	{"dip", []MuscleGroup{Chest, Triceps}},

	// back
	{"pull up", []MuscleGroup{Lats, UpperBack, Biceps}},
	{"pull-up", []MuscleGroup{Lats, UpperBack, Biceps}},
	{"pullup", []MuscleGroup{Lats, UpperBack, Biceps}},
	{"row", []MuscleGroup{UpperBack, Lats, Biceps}},
	{"deadlift", []MuscleGroup{LowerBack, Glutes, Hamstrings, UpperBack}},
	{"lat pulldown", []MuscleGroup{Lats, Biceps}},
	{"back extension", []MuscleGroup{LowerBack}},

	// shoulders
	{"shoulder press", []MuscleGroup{Shoulders, Triceps}},
	{"overhead press", []MuscleGroup{Shoulders, Triceps}},
	{"lateral raise", []MuscleGroup{Shoulders}},
	{"front raise", []MuscleGroup{Shoulders}},
	{"rear delt", []MuscleGroup{Shoulders, UpperBack}},

	// arms
	{"curl", []MuscleGroup{Biceps}},
	{"tricep", []MuscleGroup{Triceps}},
	{"wrist", []MuscleGroup{Forearms}},
	{"farmer", []MuscleGroup{Forearms}},

	// legs
	{"squat", []MuscleGroup{Quads, Glutes, Hamstrings}},
	{"lunge", []MuscleGroup{Quads, Glutes, Hamstrings}},
	{"leg press", []MuscleGroup{Quads, Glutes}},
	{"leg extension", []MuscleGroup{Quads}},
	{"leg curl", []MuscleGroup{Hamstrings}},
	{"calf raise", []MuscleGroup{Calves}},

	// core
	{"plank", []MuscleGroup{Abs, Obliques}},
	{"crunch", []MuscleGroup{Abs}},
	{"sit up", []MuscleGroup{Abs}},
	{"sit-up", []MuscleGroup{Abs}},
	{"situp", []MuscleGroup{Abs}},
	{"russian twist", []MuscleGroup{Obliques, Abs}},

	// cardio
	{"run", []MuscleGroup{Cardio}},
	{"cycle", []MuscleGroup{Cardio}},
	{"bike", []MuscleGroup{Cardio}},
	{"swim", []MuscleGroup{Cardio}},
	{"walk", []MuscleGroup{Cardio}},
	{"hike", []MuscleGroup{Cardio}},
	{"jog", []MuscleGroup{Cardio}},
	{"sprint", []MuscleGroup{Cardio}},
}

// Groups returns the muscle groups a movement name trains, in AllGroups order.
// Every keyword contained in the lower-cased movement contributes.
func Groups(movement string) []MuscleGroup {
	lower := strings.ToLower(movement)
	hit := make(map[MuscleGroup]bool)
	for _, k := range keywords {
		if strings.Contains(lower, k.text) {
			for _, g := range k.groups {
				hit[g] = true
			}
		}
	}
	if len(hit) == 0 {
		return nil
	}
	groups := make([]MuscleGroup, 0, len(hit))
	for _, g := range AllGroups {
		if hit[g] {
			groups = append(groups, g)
		}
	}
	return groups
}

// maxWorkload caps a single exercise's contribution.
const maxWorkload = 3.0

// Workload scores one exercise: sets×reps over 30 for strength, reps over 50
// for bodyweight, quantity over 10 for cardio, and 1 otherwise. The score is
// capped at 3.
func Workload(ex models.Exercise) float64 {
	w := 1.0
	sets, hasSets := ex.Sets()
	reps, hasReps := ex.Reps()
	qty, hasQty := ex.Quantity()
	switch {
	case hasSets && hasReps:
		w = float64(sets) * float64(reps) / 30
	case hasReps:
		w = float64(reps) / 50
	case hasQty:
		w = qty / 10
	}
	if w > maxWorkload {
		w = maxWorkload
	}
	return w
}

// Intensity sums each exercise's workload, split evenly across the groups it
// trains, and scales the totals so the hardest-worked group is 1. Groups that
// were not trained are absent from the result.
func Intensity(days []models.WorkoutDay) map[MuscleGroup]float64 {
	totals := make(map[MuscleGroup]float64)
	for _, day := range days {
		for _, ex := range day.Exercises {
			groups := Groups(ex.Movement)
			if len(groups) == 0 {
				continue
			}
			share := Workload(ex) / float64(len(groups))
			for _, g := range groups {
				totals[g] += share
			}
		}
	}

	peak := 0.0
	for _, v := range totals {
		if v > peak {
			peak = v
		}
	}
	if peak > 0 {
		for g, v := range totals {
			totals[g] = min(v/peak, 1)
		}
	}
	return totals
}

// Level describes a normalized intensity.
func Level(intensity float64) string {
	switch {
	case intensity <= 0:
		return "Not Targeted"
	case intensity < 0.3:
		return "Light"
	case intensity < 0.6:
		return "Moderate"
	default:
		return "Heavy"
	}
}

// GroupIntensity is one row of a muscle summary.
type GroupIntensity struct {
	Group     MuscleGroup `json:"group"`
	Name      string      `json:"name"`
	Intensity float64     `json:"intensity"`
	Level     string      `json:"level"`
}

// Summary reports every muscle group, trained or not, in AllGroups order.
func Summary(days []models.WorkoutDay) []GroupIntensity {
	scores := Intensity(days)
	out := make([]GroupIntensity, 0, len(AllGroups))
	for _, g := range AllGroups {
		v := scores[g]
		out = append(out, GroupIntensity{
			Group:     g,
			Name:      g.DisplayName(),
			Intensity: v,
			Level:     Level(v),
		})
	}
	return out
}
