package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthPattern = `(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)`

var (
	sameMonthRange  = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*(\d{1,2})$`)
	crossMonthRange = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*` + monthPattern + `\s+(\d{1,2})$`)
	wholeMonth      = regexp.MustCompile(`(?i)^` + monthPattern + `$`)
	isoRange        = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*(?:\.\.|to)\s*(\d{4}-\d{2}-\d{2})$`)
)

// now is replaced in tests.
var now = time.Now

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats:
//   - "Mar 1-15" or "March 1-15"
//   - "March 1 - April 15"
//   - "March" (entire month)
//   - "2026-03-01..2026-03-15" or "2026-03-01 to 2026-03-15"
//
// Month-name forms infer the year: a month already past this year means
// next year, and a cross-month range whose end month precedes its start
// month ends the following year. Times are in UTC; the range covers
// 00:00:00 on the first day to 23:59:59 on the last.
func ParseDateRange(input string) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}

	if m := isoRange.FindStringSubmatch(input); m != nil {
		from, err := time.Parse("2006-01-02", m[1])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", m[1])
		}
		to, err := time.Parse("2006-01-02", m[2])
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", m[2])
		}
		return span(from, to.Add(24*time.Hour-time.Second))
	}

	if m := sameMonthRange.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[3])
		if err != nil {
			return nil, nil, err
		}
		year := yearForMonth(month)
		return span(
			time.Date(year, month, day1, 0, 0, 0, 0, time.UTC),
			time.Date(year, month, day2, 23, 59, 59, 0, time.UTC),
		)
	}

	if m := crossMonthRange.FindStringSubmatch(input); m != nil {
		month1, month2 := parseMonth(m[1]), parseMonth(m[3])
		day1, err := parseDay(m[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(m[4])
		if err != nil {
			return nil, nil, err
		}
		year1 := yearForMonth(month1)
		year2 := year1
		if month2 < month1 {
			year2++
		}
		return span(
			time.Date(year1, month1, day1, 0, 0, 0, 0, time.UTC),
			time.Date(year2, month2, day2, 23, 59, 59, 0, time.UTC),
		)
	}

	if m := wholeMonth.FindStringSubmatch(input); m != nil {
		month := parseMonth(m[1])
		year := yearForMonth(month)
		from := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
		// Day 0 of the next month is the last day of this one
		to := time.Date(year, month+1, 0, 23, 59, 59, 0, time.UTC)
		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use 'Mar 1-15', 'March 1 - April 15', 'March' or '2026-03-01..2026-03-15'")
}

func span(from, to time.Time) (*time.Time, *time.Time, error) {
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return day, nil
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "sept" {
		name = "sep"
	}
	if len(name) > 3 {
		name = name[:3]
	}
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()[:3]) == name {
			return m
		}
	}
	return 0
}

// yearForMonth returns this year, or next year when month has passed.
func yearForMonth(month time.Month) int {
	t := now()
	if month < t.Month() {
		return t.Year() + 1
	}
	return t.Year()
}
