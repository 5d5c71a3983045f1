package core_test

import (
	"errors"
	"testing"

	"github.com/notahq/nota/pkg/core"
)

func mustDate(t *testing.T, s string) core.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestParseRecurrencePattern(t *testing.T) {
	for _, s := range []string{"daily", "weekly", "monthly", "yearly"} {
		if _, err := core.ParseRecurrencePattern(s); err != nil {
			t.Errorf("ParseRecurrencePattern(%q): %v", s, err)
		}
	}
	if _, err := core.ParseRecurrencePattern("fortnightly"); !errors.Is(err, core.ErrInvalidRecurrence) {
		t.Errorf("expected invalid recurrence error, got %v", err)
	}
}

func TestNextOccurrence(t *testing.T) {
	// 2025-10-27 is a Monday.
	tests := []struct {
		name    string
		pattern core.RecurrencePattern
		config  string
		from    string
		want    string
	}{
		{"daily", core.Daily, "", "2025-10-27", "2025-10-28"},
		{"daily across month end", core.Daily, "", "2025-10-31", "2025-11-01"},
		{"weekly next listed day", core.Weekly, "Monday,Thursday", "2025-10-27", "2025-10-30"},
		{"weekly wraps to next week", core.Weekly, "Monday", "2025-10-27", "2025-11-03"},
		{"weekly from thursday", core.Weekly, "Monday,Thursday", "2025-10-30", "2025-11-03"},
		{"monthly mid month", core.Monthly, "1,15", "2025-10-27", "2025-11-01"},
		{"monthly same month", core.Monthly, "1,15", "2025-10-10", "2025-10-15"},
		{"monthly day 31 skips short months", core.Monthly, "31", "2025-10-31", "2025-12-31"},
		{"yearly", core.Yearly, "12-25", "2025-10-27", "2025-12-25"},
		{"yearly wraps year", core.Yearly, "1-1", "2025-10-27", "2026-01-01"},
		{"yearly strictly future", core.Yearly, "10-27", "2025-10-27", "2026-10-27"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.NextOccurrence(tt.pattern, tt.config, mustDate(t, tt.from))
			if err != nil {
				t.Fatalf("NextOccurrence failed: %v", err)
			}
			if got.String() != tt.want {
				t.Errorf("NextOccurrence = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNextOccurrenceAlwaysFuture(t *testing.T) {
	from := mustDate(t, "2025-10-27")
	next, err := core.NextOccurrence(core.Weekly, "Monday", from)
	if err != nil {
		t.Fatalf("NextOccurrence failed: %v", err)
	}
	if !next.After(from) {
		t.Errorf("next occurrence %s is not after %s", next, from)
	}
}

func TestCheckRecurrenceConfig(t *testing.T) {
	tests := []struct {
		pattern core.RecurrencePattern
		config  string
		ok      bool
	}{
		{core.Daily, "", true},
		{core.Daily, "ignored", true},
		{core.Weekly, "Monday,Thursday", true},
		{core.Weekly, "monday", false},
		{core.Weekly, "", false},
		{core.Weekly, "Funday", false},
		{core.Monthly, "1,15,25", true},
		{core.Monthly, "0", false},
		{core.Monthly, "32", false},
		{core.Monthly, "first", false},
		{core.Yearly, "1-1,12-25", true},
		{core.Yearly, "13-1", false},
		{core.Yearly, "12-32", false},
		{core.Yearly, "december 25", false},
	}
	for _, tt := range tests {
		err := core.CheckRecurrenceConfig(tt.pattern, tt.config)
		if tt.ok && err != nil {
			t.Errorf("CheckRecurrenceConfig(%s, %q): unexpected error %v", tt.pattern, tt.config, err)
		}
		if !tt.ok && !errors.Is(err, core.ErrInvalidRecurrence) {
			t.Errorf("CheckRecurrenceConfig(%s, %q): expected invalid recurrence error, got %v", tt.pattern, tt.config, err)
		}
	}
}

func TestNextOccurrenceImpossibleConfig(t *testing.T) {
	// Feb 30 never exists, so the scan exhausts its window.
	_, err := core.NextOccurrence(core.Yearly, "2-30", mustDate(t, "2025-10-27"))
	if !errors.Is(err, core.ErrInvalidRecurrence) {
		t.Errorf("expected invalid recurrence error, got %v", err)
	}
}
