package journal

import (
	"strings"
	"testing"

	"github.com/claude/liftnotes/internal/models"
)

const sampleJournal = `
Day 1
3x5 squat @ 225lbs (180s rest) RPE 9
4x8 bench press @ 185lbs
3x10 pull ups + 3x10 dips
ran 5k @ 5:30/km

Day 2
did 4 sets of 6 deadlifts @ 275lbs
30 min cycle @ RPE 7
50 push ups
`

func assertSetsReps(t *testing.T, ex models.Exercise, sets, reps int, movement string) {
	t.Helper()
	m, ok := ex.Measure.(models.SetsReps)
	if !ok {
		t.Errorf("%q: measure = %#v, want SetsReps", ex.RawText, ex.Measure)
		return
	}
	if m.Sets != sets || m.Reps != reps {
		t.Errorf("%q: sets/reps = %d/%d, want %d/%d", ex.RawText, m.Sets, m.Reps, sets, reps)
	}
	if ex.Movement != movement {
		t.Errorf("%q: movement = %q, want %q", ex.RawText, ex.Movement, movement)
	}
}

// TestParseTwoDays verifies the basic day split: exercises land under the
// header they follow and blank lines are ignored.
func TestParseTwoDays(t *testing.T) {
	days := Parse("Day 1\n3x10 pull ups\n3x10 dips\n5k run\n\nDay 2\n4x8 bench press\n30 min cycle")
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	if days[0].DateLabel != "Day 1" || days[1].DateLabel != "Day 2" {
		t.Errorf("labels = %q, %q", days[0].DateLabel, days[1].DateLabel)
	}
	d1 := days[0].Exercises
	if len(d1) != 3 {
		t.Fatalf("day 1 exercises = %d, want 3", len(d1))
	}
	assertSetsReps(t, d1[0], 3, 10, "pull ups")
	assertSetsReps(t, d1[1], 3, 10, "dips")
	if d, ok := d1[2].Measure.(models.Distance); !ok || d.Quantity != 5 || d.Unit != models.UnitK || d1[2].Movement != "run" {
		t.Errorf("run = %#v %q", d1[2].Measure, d1[2].Movement)
	}

	d2 := days[1].Exercises
	if len(d2) != 2 {
		t.Fatalf("day 2 exercises = %d, want 2", len(d2))
	}
	assertSetsReps(t, d2[0], 4, 8, "bench press")
	if d, ok := d2[1].Measure.(models.Duration); !ok || d.Minutes != 30 || d2[1].Movement != "cycle" {
		t.Errorf("cycle = %#v %q", d2[1].Measure, d2[1].Movement)
	}
	if u, _ := d2[1].Unit(); u != models.UnitMin {
		t.Errorf("cycle unit = %q, want min", u)
	}
}

// TestParseComplexJournal covers every exercise shape inside one journal,
// including a superset line that contributes two exercises.
func TestParseComplexJournal(t *testing.T) {
	days := Parse(sampleJournal)
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	if len(days[0].Exercises) != 5 {
		t.Fatalf("day 1 exercises = %d, want 5", len(days[0].Exercises))
	}
	if len(days[1].Exercises) != 3 {
		t.Fatalf("day 2 exercises = %d, want 3", len(days[1].Exercises))
	}

	squat := days[0].Exercises[0]
	assertSetsReps(t, squat, 3, 5, "squat")
	if squat.Weight == nil || squat.Weight.Value != 225 || squat.Weight.Unit != models.WeightLbs {
		t.Errorf("squat weight = %+v", squat.Weight)
	}
	if squat.RestSeconds == nil || *squat.RestSeconds != 180 {
		t.Errorf("squat rest = %v, want 180", squat.RestSeconds)
	}
	if squat.RPE == nil || *squat.RPE != 9 {
		t.Errorf("squat rpe = %v, want 9", squat.RPE)
	}

	assertSetsReps(t, days[0].Exercises[2], 3, 10, "pull ups")
	assertSetsReps(t, days[0].Exercises[3], 3, 10, "dips")

	run := days[0].Exercises[4]
	if run.Movement != "run" || run.Tempo != "5:30/km" {
		t.Errorf("run = %q tempo %q", run.Movement, run.Tempo)
	}

	deadlift := days[1].Exercises[0]
	assertSetsReps(t, deadlift, 4, 6, "deadlifts")
	if deadlift.Weight == nil || deadlift.Weight.Value != 275 {
		t.Errorf("deadlift weight = %+v", deadlift.Weight)
	}

	cycle := days[1].Exercises[1]
	if cycle.RPE == nil || *cycle.RPE != 7 {
		t.Errorf("cycle rpe = %v, want 7", cycle.RPE)
	}

	pushups := days[1].Exercises[2]
	if r, ok := pushups.Reps(); !ok || r != 50 {
		t.Errorf("push ups reps = %d, %v, want 50", r, ok)
	}
}

// TestParseEmpty verifies empty and whitespace-only input yield no days.
func TestParseEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\n\t\n"} {
		days := Parse(in)
		if days == nil {
			t.Errorf("Parse(%q) = nil, want empty slice", in)
		}
		if len(days) != 0 {
			t.Errorf("Parse(%q) days = %d, want 0", in, len(days))
		}
	}
}

// TestParseHeadersOnly verifies every header opens a day even with nothing under it.
func TestParseHeadersOnly(t *testing.T) {
	days := Parse("Day 1\nDay 2")
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	for i, d := range days {
		if len(d.Exercises) != 0 {
			t.Errorf("day %d exercises = %d, want 0", i, len(d.Exercises))
		}
	}
}

// TestParseRepeatedHeader verifies identical headers stay separate days.
func TestParseRepeatedHeader(t *testing.T) {
	days := Parse("Monday\n3x10 squat\nMonday\n50 push ups")
	if len(days) != 2 {
		t.Fatalf("days = %d, want 2", len(days))
	}
	if days[0].ID == days[1].ID {
		t.Error("repeated headers share an ID")
	}
	if days[0].Exercises[0].Movement != "squat" || days[1].Exercises[0].Movement != "push ups" {
		t.Errorf("exercises merged or reordered: %+v", days)
	}
}

// TestParseOrphans verifies exercises before the first header are dropped from
// the days but reported in the result.
func TestParseOrphans(t *testing.T) {
	text := "3x10 squat\nfelt strong\nDay 1\n50 push ups"

	days := Parse(text)
	if len(days) != 1 || len(days[0].Exercises) != 1 {
		t.Fatalf("days = %+v", days)
	}

	res := New(Options{}).Parse(text)
	if len(res.Orphans) != 1 || res.Orphans[0].Movement != "squat" {
		t.Errorf("orphans = %+v", res.Orphans)
	}
	if len(res.Unrecognized) != 1 || res.Unrecognized[0] != "felt strong" {
		t.Errorf("unrecognized = %q", res.Unrecognized)
	}
	if res.ExerciseCount() != 1 {
		t.Errorf("ExerciseCount() = %d, want 1", res.ExerciseCount())
	}
}

// TestParseDefaultDayLabel verifies the opt-in leading day for headerless exercises.
func TestParseDefaultDayLabel(t *testing.T) {
	res := New(Options{DefaultDayLabel: "Today"}).Parse("3x10 squat\nDay 1\n50 push ups")
	if len(res.Orphans) != 0 {
		t.Errorf("orphans = %d, want 0", len(res.Orphans))
	}
	if len(res.Days) != 2 {
		t.Fatalf("days = %d, want 2", len(res.Days))
	}
	if res.Days[0].DateLabel != "Today" || res.Days[1].DateLabel != "Day 1" {
		t.Errorf("labels = %q, %q", res.Days[0].DateLabel, res.Days[1].DateLabel)
	}

	// No implicit day is opened when nothing precedes the first header.
	res = New(Options{DefaultDayLabel: "Today"}).Parse("notes only\nDay 1")
	if len(res.Days) != 1 {
		t.Errorf("days = %d, want 1", len(res.Days))
	}
}

// TestParseRawTextTrimmed verifies raw text is the trimmed line, or the trimmed
// segment for superset parts.
func TestParseRawTextTrimmed(t *testing.T) {
	days := Parse("Day 1\n   3x10 pull ups   \n\t3x10 dips +  50 push ups ")
	ex := days[0].Exercises
	want := []string{"3x10 pull ups", "3x10 dips", "50 push ups"}
	if len(ex) != len(want) {
		t.Fatalf("exercises = %d, want %d", len(ex), len(want))
	}
	for i, w := range want {
		if ex[i].RawText != w {
			t.Errorf("exercise %d raw = %q, want %q", i, ex[i].RawText, w)
		}
	}
}

// TestRawTextReparses verifies feeding raw text back through the matchers
// reproduces the same sets, reps and movement.
func TestRawTextReparses(t *testing.T) {
	for _, day := range Parse(sampleJournal) {
		for _, ex := range day.Exercises {
			again, ok := ParseExercise(ex.RawText)
			if !ok {
				t.Errorf("%q no longer parses", ex.RawText)
				continue
			}
			s1, _ := ex.Sets()
			s2, _ := again.Sets()
			r1, _ := ex.Reps()
			r2, _ := again.Reps()
			if s1 != s2 || r1 != r2 || ex.Movement != again.Movement {
				t.Errorf("%q: reparse gave %d/%d %q, want %d/%d %q",
					ex.RawText, s2, r2, again.Movement, s1, r1, ex.Movement)
			}
		}
	}
}

// TestParseConcurrent verifies a shared Parser can be used from many goroutines.
func TestParseConcurrent(t *testing.T) {
	p := New(Options{})
	done := make(chan int)
	for i := 0; i < 8; i++ {
		go func() {
			done <- len(p.Parse(sampleJournal).Days)
		}()
	}
	for i := 0; i < 8; i++ {
		if n := <-done; n != 2 {
			t.Errorf("days = %d, want 2", n)
		}
	}
}

// FuzzParse checks that parsing never panics and that the day count always
// equals the number of header lines.
func FuzzParse(f *testing.F) {
	f.Add(sampleJournal)
	f.Add("Day 1\nDay 2")
	f.Add("3x10 + + 3x")
	f.Add("99999999999999999999x1 squat")
	f.Add("ran 1e400k")
	f.Add("Mon\n max pull ups (90s rest) RPE 8")
	f.Fuzz(func(t *testing.T, text string) {
		headers := 0
		for _, line := range SplitLines(text) {
			if _, ok := ParseDayHeader(line); ok {
				headers++
			}
		}
		days := Parse(text)
		if len(days) != headers {
			t.Fatalf("days = %d, headers = %d", len(days), headers)
		}
		for _, d := range days {
			for _, ex := range d.Exercises {
				if ex.Measure == nil {
					t.Fatalf("exercise %q has no measure", ex.RawText)
				}
				if !strings.Contains(text, ex.RawText) {
					t.Fatalf("raw text %q not found in input", ex.RawText)
				}
			}
		}
	})
}
