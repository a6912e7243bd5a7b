package journal

import (
	"regexp"
	"strings"
)

var (
	// dayNumberRe matches: Day 3
	dayNumberRe = regexp.MustCompile(`(?i)^day[\s\p{Zs}]+\d+$`)

	// slashDateRe matches: 17/11/24, 1/2/2025
	slashDateRe = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{2,4}$`)

	// isoDateRe matches: 2025-11-17
	isoDateRe = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2}$`)

	// dayMonthRe matches the start of: 17 Nov, 3 september (anything may follow)
	dayMonthRe = regexp.MustCompile(`(?i)^\d{1,2}[\s\p{Zs}]+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec|january|february|march|april|june|july|august|september|october|november|december)`)
)

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
	"mon": true, "tue": true, "wed": true, "thu": true,
	"fri": true, "sat": true, "sun": true,
}

// ParseDayHeader reports whether line names a training day. The returned
// label is the line itself, never reformatted.
func ParseDayHeader(line string) (string, bool) {
	switch {
	case dayNumberRe.MatchString(line),
		weekdays[strings.ToLower(line)],
		slashDateRe.MatchString(line),
		isoDateRe.MatchString(line),
		dayMonthRe.MatchString(line):
		return line, true
	}
	return "", false
}
