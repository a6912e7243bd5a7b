// Package goals matches parsed exercises against weekly training goals and
// counts the days on which each goal was met.
package goals

import (
	"strings"

	"github.com/claude/liftnotes/internal/models"
)

const kmPerMile = 1.609344

// Progress is a goal's completion over a set of days.
type Progress struct {
	Goal           models.Goal `json:"goal"`
	CompletedCount int         `json:"completed_count"`
	Completed      bool        `json:"completed"`
	Percent        float64     `json:"percent"` // 0..1, capped
}

// Matches reports whether ex is the kind of exercise goal tracks. The names
// match when either contains the other, or when any goal word overlaps an
// exercise word.
func Matches(ex models.Exercise, goal models.Goal) bool {
	if !namesMatch(ex.Movement, goal.Name) {
		return false
	}
	switch goal.Type {
	case models.GoalStrength:
		_, ok := ex.Measure.(models.SetsReps)
		return ok
	case models.GoalCardioDistance:
		_, ok := ex.Measure.(models.Distance)
		return ok
	case models.GoalCardioTime:
		_, ok := ex.Measure.(models.Duration)
		return ok
	case models.GoalBodyweight:
		bw, ok := ex.Measure.(models.BodyweightReps)
		return ok && !bw.Max
	}
	return false
}

func namesMatch(movement, name string) bool {
	m := strings.ToLower(movement)
	n := strings.ToLower(name)
	if strings.Contains(m, n) || strings.Contains(n, m) {
		return true
	}
	exerciseWords := strings.Fields(m)
	for _, gw := range strings.Fields(n) {
		for _, ew := range exerciseWords {
			if strings.Contains(ew, gw) || strings.Contains(gw, ew) {
				return true
			}
		}
	}
	return false
}

// MeetsTarget reports whether ex matches goal and reaches its target value.
// Strength goals compare total volume (sets × reps). Distance goals compare
// in the goal's unit, converting between miles and kilometres.
func MeetsTarget(ex models.Exercise, goal models.Goal) bool {
	if !Matches(ex, goal) {
		return false
	}
	switch m := ex.Measure.(type) {
	case models.SetsReps:
		return float64(m.Sets)*float64(m.Reps) >= goal.TargetValue
	case models.Distance:
		return distanceIn(m, goal.TargetUnit) >= goal.TargetValue
	case models.Duration:
		return m.Minutes >= goal.TargetValue
	case models.BodyweightReps:
		return float64(m.Reps) >= goal.TargetValue
	}
	return false
}

// distanceIn converts d to unit. An empty or unknown unit means kilometres.
func distanceIn(d models.Distance, unit string) float64 {
	toMiles := strings.EqualFold(unit, string(models.UnitMI))
	fromMiles := d.Unit == models.UnitMI
	switch {
	case toMiles && !fromMiles:
		return d.Quantity / kmPerMile
	case !toMiles && fromMiles:
		return d.Quantity * kmPerMile
	default:
		return d.Quantity
	}
}

// Evaluate counts, for each goal, the days with at least one exercise that
// meets it. A goal is completed once that count reaches its frequency.
func Evaluate(goals []models.Goal, days []models.WorkoutDay) []Progress {
	out := make([]Progress, 0, len(goals))
	for _, g := range goals {
		count := 0
		for _, day := range days {
			for _, ex := range day.Exercises {
				if MeetsTarget(ex, g) {
					count++
					break
				}
			}
		}
		p := Progress{Goal: g, CompletedCount: count, Completed: count >= g.Frequency}
		if g.Frequency > 0 {
			p.Percent = min(float64(count)/float64(g.Frequency), 1)
		}
		out = append(out, p)
	}
	return out
}
