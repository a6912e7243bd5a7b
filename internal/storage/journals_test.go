package storage

import (
	"testing"

	"github.com/claude/liftnotes/internal/journal"
	"github.com/claude/liftnotes/internal/models"
	"github.com/google/uuid"
)

// TestValuesClause verifies placeholders are numbered across rows and args are flattened in order.
func TestValuesClause(t *testing.T) {
	query, args := valuesClause([][]any{{"a", 1}, {"b", 2}, {"c", 3}})
	if want := "($1,$2),($3,$4),($5,$6)"; query != want {
		t.Errorf("query = %q, want %q", query, want)
	}
	if len(args) != 6 || args[0] != "a" || args[5] != 3 {
		t.Errorf("args = %v", args)
	}
}

// TestAssembleDays verifies stored rows rebuild days in the given order with
// exercises sorted by position, whatever order the rows arrive in.
func TestAssembleDays(t *testing.T) {
	parsed := journal.Parse("Day 1\n3x10 pull ups\n5k run\nDay 2\nmax dips")

	var dayRows []models.DayRow
	var exRows []models.ExerciseRow
	for i, d := range parsed {
		dayRows = append(dayRows, models.DayRow{ID: d.ID, Position: i, DateLabel: d.DateLabel})
		for k, ex := range d.Exercises {
			exRows = append(exRows, models.ExerciseRowFrom(ex, d.ID, 1, k))
		}
	}
	// Reverse the exercise rows to prove ordering comes from position.
	for i, j := 0, len(exRows)-1; i < j; i, j = i+1, j-1 {
		exRows[i], exRows[j] = exRows[j], exRows[i]
	}
	// A row for a day outside the selection is ignored.
	stray := models.ExerciseRowFrom(parsed[0].Exercises[0], uuid.New(), 1, 0)
	stray.ID = uuid.New()
	exRows = append(exRows, stray)

	days, err := assembleDays(dayRows, exRows)
	if err != nil {
		t.Fatal(err)
	}
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	if days[0].DateLabel != "Day 1" || days[1].DateLabel != "Day 2" {
		t.Errorf("labels = %q, %q", days[0].DateLabel, days[1].DateLabel)
	}
	if len(days[0].Exercises) != 2 || len(days[1].Exercises) != 1 {
		t.Fatalf("exercise counts = %d, %d", len(days[0].Exercises), len(days[1].Exercises))
	}
	if days[0].Exercises[0].Movement != "pull ups" || days[0].Exercises[1].Movement != "run" {
		t.Errorf("day 1 order = %q, %q", days[0].Exercises[0].Movement, days[0].Exercises[1].Movement)
	}
	if bw, ok := days[1].Exercises[0].Measure.(models.BodyweightReps); !ok || !bw.Max {
		t.Errorf("max dips measure = %#v", days[1].Exercises[0].Measure)
	}
}

// TestAssembleDaysEmpty verifies a day with no exercise rows keeps an empty, non-nil list.
func TestAssembleDaysEmpty(t *testing.T) {
	days, err := assembleDays([]models.DayRow{{ID: uuid.New(), DateLabel: "Mon"}}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if days[0].Exercises == nil {
		t.Error("exercises = nil, want empty slice")
	}
}
