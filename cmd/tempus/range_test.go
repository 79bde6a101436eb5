package main

import (
	"testing"
	"time"
)

func TestParseRange(t *testing.T) {
	now := time.Date(2024, 2, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		selector string
		from     time.Time
		to       time.Time
		hasError bool
	}{
		{
			name:     "empty defaults to current month",
			selector: "",
			from:     time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "month",
			selector: "2024-01",
			from:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "single day",
			selector: "2024-01-15",
			from:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "explicit range",
			selector: "2024-01-15..2024-02-10",
			from:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
			to:       time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		},
		{name: "inverted range", selector: "2024-02-10..2024-01-15", hasError: true},
		{name: "garbage", selector: "next-tuesday", hasError: true},
		{name: "bad day in range", selector: "2024-01-15..soon", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			from, to, err := parseRange(tt.selector, now)
			if tt.hasError {
				if err == nil {
					t.Errorf("parseRange(%q) expected error, got nil", tt.selector)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseRange(%q) unexpected error: %v", tt.selector, err)
			}
			if !from.Equal(tt.from) || !to.Equal(tt.to) {
				t.Errorf("parseRange(%q) = %v..%v, want %v..%v", tt.selector, from, to, tt.from, tt.to)
			}
		})
	}
}

func TestSplitArgs(t *testing.T) {
	selector, overrides, err := splitArgs([]string{"2024-01", "projected.weekly_summary=yes", "totals.hours_per_day=9"})
	if err != nil {
		t.Fatalf("splitArgs failed: %v", err)
	}
	if selector != "2024-01" {
		t.Errorf("selector = %q, want 2024-01", selector)
	}
	if len(overrides) != 2 {
		t.Errorf("overrides = %v, want 2 entries", overrides)
	}

	if _, _, err := splitArgs([]string{"2024-01", "2024-02"}); err == nil {
		t.Error("two range selectors should be rejected")
	}
}
