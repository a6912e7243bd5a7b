package journal

import (
	"reflect"
	"testing"
)

// TestParseDayHeader covers each header shape and lines that only resemble one.
func TestParseDayHeader(t *testing.T) {
	headers := []string{
		"Day 1",
		"day 12",
		"DAY  3",
		"Monday",
		"MON",
		"tue",
		"Sunday",
		"17/11/24",
		"1/2/2025",
		"2025-11-17",
		"2025-1-7",
		"17 Nov",
		"3 september",
		"17 November 2025",
		"Day\u00a04",
		"21\u2009Oct",
	}
	for _, line := range headers {
		label, ok := ParseDayHeader(line)
		if !ok {
			t.Errorf("ParseDayHeader(%q) not recognized", line)
			continue
		}
		if label != line {
			t.Errorf("label = %q, want verbatim %q", label, line)
		}
	}

	notHeaders := []string{
		"",
		"Day",
		"Day one",
		"Day 1 legs",
		"Mondays",
		"monday morning",
		"2025/11/17",
		"17-11-2025",
		"Nov 17",
		"leg day",
		"3x10 squat",
		"50 push ups",
	}
	for _, line := range notHeaders {
		if label, ok := ParseDayHeader(line); ok {
			t.Errorf("ParseDayHeader(%q) = %q, want no header", line, label)
		}
	}
}

// TestSplitLines verifies every line-break flavour splits and blank lines vanish.
func TestSplitLines(t *testing.T) {
	got := SplitLines("  a \r\nb\n\n\t\nc\rd\u2028e\u0085f\u2029g  ")
	want := []string{"a", "b", "c", "d", "e", "f", "g"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitLines = %q, want %q", got, want)
	}
	if got := SplitLines(""); len(got) != 0 {
		t.Errorf("SplitLines(\"\") = %q, want empty", got)
	}
}
