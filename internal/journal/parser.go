package journal

import "github.com/claude/liftnotes/internal/models"

// Options configures a Parser.
type Options struct {
	// DefaultDayLabel, when set, opens a day with this label for exercises
	// written before the first header instead of dropping them.
	DefaultDayLabel string
}

// Result is the outcome of parsing one journal.
type Result struct {
	Days []models.WorkoutDay `json:"days"`

	// Orphans are exercises that appeared before any day header and were
	// not assigned to a day.
	Orphans []models.Exercise `json:"orphans,omitempty"`

	// Unrecognized holds lines that were neither a header nor an exercise.
	Unrecognized []string `json:"unrecognized,omitempty"`
}

// ExerciseCount returns the number of exercises across all days.
func (r Result) ExerciseCount() int {
	n := 0
	for _, d := range r.Days {
		n += len(d.Exercises)
	}
	return n
}

// Parser assembles days from journal text. A Parser holds no state between
// calls and is safe for concurrent use.
type Parser struct {
	opts Options
}

// New creates a Parser.
func New(opts Options) *Parser {
	return &Parser{opts: opts}
}

// Parse returns the workout days written in text, in source order.
// Exercises before the first day header are dropped.
func Parse(text string) []models.WorkoutDay {
	return New(Options{}).Parse(text).Days
}

// Parse reads text line by line. A day header closes the open day and opens
// a new one; exercise lines are appended to the open day; anything else is
// recorded as unrecognized.
func (p *Parser) Parse(text string) Result {
	res := Result{Days: []models.WorkoutDay{}}
	var current *models.WorkoutDay

	flush := func() {
		if current != nil {
			res.Days = append(res.Days, *current)
			current = nil
		}
	}

	for _, line := range SplitLines(text) {
		if label, ok := ParseDayHeader(line); ok {
			flush()
			day := models.NewWorkoutDay(label)
			current = &day
			continue
		}

		exercises := ParseLine(line)
		if len(exercises) == 0 {
			res.Unrecognized = append(res.Unrecognized, line)
			continue
		}

		if current == nil && p.opts.DefaultDayLabel != "" {
			day := models.NewWorkoutDay(p.opts.DefaultDayLabel)
			current = &day
		}
		if current == nil {
			res.Orphans = append(res.Orphans, exercises...)
			continue
		}
		current.Exercises = append(current.Exercises, exercises...)
	}
	flush()

	return res
}
