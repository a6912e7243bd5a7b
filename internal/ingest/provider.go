package ingest

import "github.com/google/uuid"

// Result holds the outcome of an ingest operation.
type Result struct {
	JournalID *uuid.UUID `json:"journal_id,omitempty"`

	LinesReceived     int   `json:"lines_received"`
	DaysParsed        int   `json:"days_parsed"`
	ExercisesParsed   int   `json:"exercises_parsed"`
	DaysInserted      int   `json:"days_inserted"`
	ExercisesInserted int64 `json:"exercises_inserted"`

	OrphanedExercises int      `json:"orphaned_exercises,omitempty"`
	LinesUnrecognized int      `json:"lines_unrecognized"`
	UnrecognizedLines []string `json:"unrecognized_lines,omitempty"`

	Message string `json:"message,omitempty"`
}
