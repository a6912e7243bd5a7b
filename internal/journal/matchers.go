package journal

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/claude/liftnotes/internal/models"
)

// Whitespace in these patterns also accepts Unicode space separators such
// as the no-break space (U+00A0) that phone keyboards insert.
var (
	// naturalDistanceRe matches: ran 5k, cycled 10 mi @ easy
	naturalDistanceRe = regexp.MustCompile(`(?i)^(ran|cycled|swam|rowed|walked|hiked)[\s\p{Zs}]+(\d+(?:\.\d+)?)[\s\p{Zs}]*(k|km|mi|miles?)(?:[\s\p{Zs}]+@[\s\p{Zs}]+(.+))?$`)

	// didSetsRe matches: did 3 sets of 10 pull ups @ 135lbs
	didSetsRe = regexp.MustCompile(`(?i)^did[\s\p{Zs}]+(\d+)[\s\p{Zs}]+sets?[\s\p{Zs}]+of[\s\p{Zs}]+(\d+)[\s\p{Zs}]+(.+?)(?:[\s\p{Zs}]+@[\s\p{Zs}]+(\d+(?:\.\d+)?)[\s\p{Zs}]*(lbs?|kgs?))?$`)

	// strengthRe matches: 3x10 pull ups @ 135lbs (90s rest) RPE 8
	strengthRe = regexp.MustCompile(`(?i)^(\d+)[\s\p{Zs}]*x[\s\p{Zs}]*(\d+)[\s\p{Zs}]+(.+?)(?:[\s\p{Zs}]+@[\s\p{Zs}]+(\d+(?:\.\d+)?)[\s\p{Zs}]*(lbs?|kgs?))?(?:[\s\p{Zs}]+\((\d+)s?[\s\p{Zs}]*rest\))?(?:[\s\p{Zs}]+@?[\s\p{Zs}]*RPE[\s\p{Zs}]+(\d+))?$`)

	// distanceRe matches: 5k run @ 5:30/km, 3 miles walk
	distanceRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)[\s\p{Zs}]*(k|km|mi|miles?)[\s\p{Zs}]+(.+?)(?:[\s\p{Zs}]+@[\s\p{Zs}]+(.+))?$`)

	// timeRe matches: 30 min cycle @ RPE 7
	timeRe = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)[\s\p{Zs}]*min[\s\p{Zs}]+(.+?)(?:[\s\p{Zs}]+@[\s\p{Zs}]*RPE[\s\p{Zs}]+(\d+))?$`)

	// bodyweightRe matches: 50 push ups, max pull ups
	bodyweightRe = regexp.MustCompile(`(?i)^(\d+|max)[\s\p{Zs}]+(.+)$`)
)

var verbMovements = map[string]string{
	"ran":    "run",
	"cycled": "cycle",
	"swam":   "swim",
	"rowed":  "row",
	"walked": "walk",
	"hiked":  "hike",
}

// matcher tries to consume a whole line as one exercise.
type matcher struct {
	name  string
	match func(line string) (models.Exercise, bool)
}

// matchers are tried in order; the first success wins.
var matchers = []matcher{
	{"natural distance", matchNaturalDistance},
	{"natural sets", matchDidSets},
	{"strength", matchStrength},
	{"distance", matchDistance},
	{"time", matchTime},
	{"bodyweight", matchBodyweight},
}

// ParseExercise interprets a single exercise line or superset segment.
// It reports false when no exercise shape accounts for the whole line.
func ParseExercise(line string) (models.Exercise, bool) {
	for _, m := range matchers {
		if ex, ok := m.match(line); ok {
			return ex, true
		}
	}
	return models.Exercise{}, false
}

func matchNaturalDistance(line string) (models.Exercise, bool) {
	m := naturalDistanceRe.FindStringSubmatch(line)
	if m == nil {
		return models.Exercise{}, false
	}
	qty, ok := parseQuantity(m[2])
	if !ok {
		return models.Exercise{}, false
	}
	movement := verbMovements[strings.ToLower(m[1])]
	d := models.Distance{Quantity: qty, Unit: normalizeDistanceUnit(m[3])}
	return models.NewExercise(line, movement, d, models.Annotations{Tempo: strings.TrimSpace(m[4])}), true
}

func matchDidSets(line string) (models.Exercise, bool) {
	m := didSetsRe.FindStringSubmatch(line)
	if m == nil {
		return models.Exercise{}, false
	}
	return strengthExercise(line, m[1], m[2], m[3], m[4], m[5], "", "")
}

func matchStrength(line string) (models.Exercise, bool) {
	m := strengthRe.FindStringSubmatch(line)
	if m == nil {
		return models.Exercise{}, false
	}
	return strengthExercise(line, m[1], m[2], m[3], m[4], m[5], m[6], m[7])
}

// strengthExercise builds a sets-and-reps exercise from captured groups.
// Empty strings stand for groups that did not participate in the match.
func strengthExercise(line, sets, reps, movement, weight, weightUnit, rest, rpe string) (models.Exercise, bool) {
	s, ok := parsePositive(sets)
	if !ok {
		return models.Exercise{}, false
	}
	r, ok := parsePositive(reps)
	if !ok {
		return models.Exercise{}, false
	}
	movement = strings.TrimSpace(movement)
	if movement == "" {
		return models.Exercise{}, false
	}
	var a models.Annotations
	if weight != "" {
		if w, ok := parseQuantity(weight); ok {
			a.Weight = &models.Load{Value: w, Unit: normalizeWeightUnit(weightUnit)}
		}
	}
	if rest != "" {
		if v, err := strconv.Atoi(rest); err == nil {
			a.RestSeconds = &v
		}
	}
	if rpe != "" {
		if v, err := strconv.Atoi(rpe); err == nil {
			a.RPE = &v
		}
	}
	return models.NewExercise(line, movement, models.SetsReps{Sets: s, Reps: r}, a), true
}

func matchDistance(line string) (models.Exercise, bool) {
	m := distanceRe.FindStringSubmatch(line)
	if m == nil {
		return models.Exercise{}, false
	}
	qty, ok := parseQuantity(m[1])
	if !ok {
		return models.Exercise{}, false
	}
	movement := strings.TrimSpace(m[3])
	if movement == "" {
		return models.Exercise{}, false
	}
	d := models.Distance{Quantity: qty, Unit: normalizeDistanceUnit(m[2])}
	return models.NewExercise(line, movement, d, models.Annotations{Tempo: strings.TrimSpace(m[4])}), true
}

func matchTime(line string) (models.Exercise, bool) {
	m := timeRe.FindStringSubmatch(line)
	if m == nil {
		return models.Exercise{}, false
	}
	minutes, ok := parseQuantity(m[1])
	if !ok {
		return models.Exercise{}, false
	}
	movement := strings.TrimSpace(m[2])
	if movement == "" {
		return models.Exercise{}, false
	}
	var a models.Annotations
	if m[3] != "" {
		if v, err := strconv.Atoi(m[3]); err == nil {
			a.RPE = &v
		}
	}
	return models.NewExercise(line, movement, models.Duration{Minutes: minutes}, a), true
}

func matchBodyweight(line string) (models.Exercise, bool) {
	m := bodyweightRe.FindStringSubmatch(line)
	if m == nil {
		return models.Exercise{}, false
	}
	movement := strings.TrimSpace(m[2])
	if movement == "" {
		return models.Exercise{}, false
	}
	var bw models.BodyweightReps
	if strings.EqualFold(m[1], "max") {
		bw.Max = true
	} else {
		reps, ok := parsePositive(m[1])
		if !ok {
			return models.Exercise{}, false
		}
		bw.Reps = reps
	}
	return models.NewExercise(line, movement, bw, models.Annotations{}), true
}

// parsePositive parses a required count. Zero and values that overflow int
// are rejected.
func parsePositive(s string) (int, bool) {
	v, err := strconv.Atoi(s)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func parseQuantity(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func normalizeDistanceUnit(u string) models.Unit {
	switch u = strings.ToLower(u); u {
	case "mile", "miles":
		return models.UnitMI
	default:
		return models.Unit(u)
	}
}

func normalizeWeightUnit(u string) models.WeightUnit {
	switch strings.ToLower(u) {
	case "kg", "kgs":
		return models.WeightKg
	default:
		return models.WeightLbs
	}
}

// Explain names the exercise shape that claims line, such as "strength" or
// "bodyweight".
func Explain(line string) (string, bool) {
	for _, m := range matchers {
		if _, ok := m.match(line); ok {
			return m.name, true
		}
	}
	return "", false
}
