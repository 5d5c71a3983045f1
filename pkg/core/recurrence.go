package core

import (
	"strconv"
	"strings"
	"time"
)

// RecurrencePattern describes how a completed recurring nota spawns its
// next occurrence.
type RecurrencePattern string

const (
	Daily   RecurrencePattern = "daily"
	Weekly  RecurrencePattern = "weekly"
	Monthly RecurrencePattern = "monthly"
	Yearly  RecurrencePattern = "yearly"
)

// ParseRecurrencePattern validates a pattern string.
func ParseRecurrencePattern(s string) (RecurrencePattern, error) {
	switch RecurrencePattern(s) {
	case Daily, Weekly, Monthly, Yearly:
		return RecurrencePattern(s), nil
	}
	return "", &RecurrenceConfigError{
		Pattern: RecurrencePattern(s),
		Hint:    "valid patterns: daily, weekly, monthly, yearly",
	}
}

var weekdayNames = map[string]time.Weekday{
	"Monday":    time.Monday,
	"Tuesday":   time.Tuesday,
	"Wednesday": time.Wednesday,
	"Thursday":  time.Thursday,
	"Friday":    time.Friday,
	"Saturday":  time.Saturday,
	"Sunday":    time.Sunday,
}

// parseWeekdaySet parses a comma-separated list of full English weekday
// names ("Monday,Thursday").
func parseWeekdaySet(pattern RecurrencePattern, config string) (map[time.Weekday]bool, error) {
	set := make(map[time.Weekday]bool)
	for _, part := range strings.Split(config, ",") {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		wd, ok := weekdayNames[name]
		if !ok {
			return nil, &RecurrenceConfigError{
				Pattern: pattern,
				Config:  config,
				Hint:    "expected weekday names, e.g. \"Monday,Wednesday,Friday\"",
			}
		}
		set[wd] = true
	}
	if len(set) == 0 {
		return nil, &RecurrenceConfigError{
			Pattern: pattern,
			Config:  config,
			Hint:    "expected weekday names, e.g. \"Monday,Wednesday,Friday\"",
		}
	}
	return set, nil
}

// parseMonthDaySet parses a comma-separated list of day-of-month numbers
// in 1..31 ("1,15,25").
func parseMonthDaySet(pattern RecurrencePattern, config string) (map[int]bool, error) {
	set := make(map[int]bool)
	for _, part := range strings.Split(config, ",") {
		field := strings.TrimSpace(part)
		if field == "" {
			continue
		}
		day, err := strconv.Atoi(field)
		if err != nil || day < 1 || day > 31 {
			return nil, &RecurrenceConfigError{
				Pattern: pattern,
				Config:  config,
				Hint:    "expected day numbers 1-31, e.g. \"1,15,25\"",
			}
		}
		set[day] = true
	}
	if len(set) == 0 {
		return nil, &RecurrenceConfigError{
			Pattern: pattern,
			Config:  config,
			Hint:    "expected day numbers 1-31, e.g. \"1,15,25\"",
		}
	}
	return set, nil
}

type monthDay struct {
	month time.Month
	day   int
}

// parseYearDaySet parses a comma-separated list of month-day pairs
// ("1-1,12-25" for Jan 1 and Dec 25).
func parseYearDaySet(pattern RecurrencePattern, config string) (map[monthDay]bool, error) {
	bad := &RecurrenceConfigError{
		Pattern: pattern,
		Config:  config,
		Hint:    "expected month-day pairs, e.g. \"1-1,12-25\"",
	}
	set := make(map[monthDay]bool)
	for _, part := range strings.Split(config, ",") {
		field := strings.TrimSpace(part)
		if field == "" {
			continue
		}
		pieces := strings.Split(field, "-")
		if len(pieces) != 2 {
			return nil, bad
		}
		month, err := strconv.Atoi(strings.TrimSpace(pieces[0]))
		if err != nil || month < 1 || month > 12 {
			return nil, bad
		}
		day, err := strconv.Atoi(strings.TrimSpace(pieces[1]))
		if err != nil || day < 1 || day > 31 {
			return nil, bad
		}
		set[monthDay{month: time.Month(month), day: day}] = true
	}
	if len(set) == 0 {
		return nil, bad
	}
	return set, nil
}

// CheckRecurrenceConfig validates that config conforms to the grammar the
// pattern expects. Daily needs no config; every other pattern needs a
// non-empty value list.
func CheckRecurrenceConfig(pattern RecurrencePattern, config string) error {
	switch pattern {
	case Daily:
		return nil
	case Weekly:
		_, err := parseWeekdaySet(pattern, config)
		return err
	case Monthly:
		_, err := parseMonthDaySet(pattern, config)
		return err
	case Yearly:
		_, err := parseYearDaySet(pattern, config)
		return err
	}
	return &RecurrenceConfigError{
		Pattern: pattern,
		Config:  config,
		Hint:    "valid patterns: daily, weekly, monthly, yearly",
	}
}

// NextOccurrence computes the nearest date strictly after from that
// matches the pattern and config. The scan is bounded at one year; every
// valid config matches within that window.
func NextOccurrence(pattern RecurrencePattern, config string, from Date) (Date, error) {
	switch pattern {
	case Daily:
		return from.AddDays(1), nil

	case Weekly:
		set, err := parseWeekdaySet(pattern, config)
		if err != nil {
			return Date{}, err
		}
		next := from.AddDays(1)
		for i := 0; i < 7; i++ {
			if set[next.Weekday()] {
				return next, nil
			}
			next = next.AddDays(1)
		}

	case Monthly:
		set, err := parseMonthDaySet(pattern, config)
		if err != nil {
			return Date{}, err
		}
		next := from.AddDays(1)
		for i := 0; i < 366; i++ {
			if set[next.Day] {
				return next, nil
			}
			next = next.AddDays(1)
		}

	case Yearly:
		set, err := parseYearDaySet(pattern, config)
		if err != nil {
			return Date{}, err
		}
		next := from.AddDays(1)
		for i := 0; i < 366; i++ {
			if set[monthDay{month: next.Month, day: next.Day}] {
				return next, nil
			}
			next = next.AddDays(1)
		}
	}

	// Unreachable for valid configs; a config naming only Feb 30 would
	// end up here.
	return Date{}, &RecurrenceConfigError{
		Pattern: pattern,
		Config:  config,
		Hint:    "no matching date within a year",
	}
}
