package journal

import (
	"strings"

	"github.com/claude/liftnotes/internal/models"
)

// ParseLine interprets one line as exercises. A line containing "+" is a
// superset: each segment is parsed on its own, segments that fail are left
// out, and the rest keep their left-to-right order. It returns nil when
// nothing on the line is an exercise.
func ParseLine(line string) []models.Exercise {
	if !strings.Contains(line, "+") {
		if ex, ok := ParseExercise(line); ok {
			return []models.Exercise{ex}
		}
		return nil
	}

	var exercises []models.Exercise
	for _, part := range strings.Split(line, "+") {
		if ex, ok := ParseExercise(strings.TrimSpace(part)); ok {
			exercises = append(exercises, ex)
		}
	}
	return exercises
}
