package schedule

import (
	"testing"
	"time"

	"github.com/tempus/internal/config"
)

func newSettings() *config.Settings {
	return &config.Settings{
		HoursPerDay: 8.0,
		IgnoreTags:  make(map[string]struct{}),
		Exclusions:  make(map[time.Weekday]string),
		Holidays:    make(map[string]string),
	}
}

func TestWeekdayTargets(t *testing.T) {
	tests := []struct {
		name     string
		rule     string
		expected time.Duration
		warn     bool
	}{
		{"standard office day", "<9:00 >17:00", 8 * time.Hour, false},
		{"lunch block", "<9:00 12:00-13:00 >17:30", 7*time.Hour + 30*time.Minute, false},
		{"with seconds", "<9:00:00 >17:30:00", 8*time.Hour + 30*time.Minute, false},
		{"fully excluded", "<24:00", 0, false},
		{"overlapping spans merge", "<10:00 9:00-11:00 >17:00", 6 * time.Hour, false},
		{"unparsable time", "<9:xx >17:00", 0, true},
		{"inverted range", "13:00-12:00", 0, true},
		{"past midnight", "<25:00", 0, true},
		{"stray token", "<9:00 banana", 0, true},
		{"empty rule", "   ", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := newSettings()
			settings.Exclusions[time.Monday] = tt.rule

			s, warnings := New(settings)
			if got := s.WeekdayTarget(time.Monday); got != tt.expected {
				t.Errorf("WeekdayTarget(Monday) = %v, want %v", got, tt.expected)
			}
			if tt.warn && len(warnings) == 0 {
				t.Error("expected a config warning, got none")
			}
			if !tt.warn && len(warnings) > 0 {
				t.Errorf("unexpected warnings: %v", warnings)
			}
		})
	}
}

func TestWeekdayWithoutRuleHasZeroTarget(t *testing.T) {
	settings := newSettings()
	settings.Exclusions[time.Monday] = "<9:00 >17:00"

	s, _ := New(settings)
	if got := s.WeekdayTarget(time.Saturday); got != 0 {
		t.Errorf("Saturday target = %v, want 0", got)
	}
	if !s.IsNonWorkDay(time.Saturday) {
		t.Error("Saturday should be a non-work day")
	}
	if s.IsNonWorkDay(time.Monday) {
		t.Error("Monday should not be a non-work day")
	}
}

func TestHolidayTarget(t *testing.T) {
	tests := []struct {
		name        string
		hoursPerDay float64
		expected    time.Duration
	}{
		{"nine hour schedule", 9.0, time.Hour},
		{"eight hour schedule", 8.0, 0},
		{"seven hour schedule never negative", 7.0, 0},
		{"compressed 9/80", 9.5, 90 * time.Minute},
	}

	holiday := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC) // Tuesday

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := newSettings()
			settings.HoursPerDay = tt.hoursPerDay
			settings.Exclusions[time.Tuesday] = "<9:00 >17:00"
			settings.Holidays["2024-01-02"] = "New Year Observed"

			s, _ := New(settings)
			if got := s.TargetFor(holiday); got != tt.expected {
				t.Errorf("TargetFor(holiday) = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestHolidayOverridesWeekdayTarget(t *testing.T) {
	settings := newSettings()
	settings.HoursPerDay = 9.0
	settings.Exclusions[time.Tuesday] = "<9:00 >19:00" // 10h weekday target
	settings.Holidays["2024-01-02"] = "New Year Observed"

	s, _ := New(settings)
	holiday := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	if got := s.TargetFor(holiday); got != time.Hour {
		t.Errorf("holiday target = %v, want 1h (override, not additive)", got)
	}

	regular := time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)
	if got := s.TargetFor(regular); got != 10*time.Hour {
		t.Errorf("regular Tuesday target = %v, want 10h", got)
	}
}

func TestIsHoliday(t *testing.T) {
	settings := newSettings()
	settings.Holidays["2024-07-04"] = "Independence Day"

	s, _ := New(settings)
	if !s.IsHoliday(time.Date(2024, 7, 4, 12, 30, 0, 0, time.UTC)) {
		t.Error("July 4 should be a holiday")
	}
	if s.IsHoliday(time.Date(2024, 7, 5, 0, 0, 0, 0, time.UTC)) {
		t.Error("July 5 should not be a holiday")
	}
	if got := s.HolidayLabel(time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC)); got != "Independence Day" {
		t.Errorf("HolidayLabel = %q, want %q", got, "Independence Day")
	}
}

func TestMalformedRuleOnlyAffectsItsWeekday(t *testing.T) {
	settings := newSettings()
	settings.Exclusions[time.Monday] = "garbage"
	settings.Exclusions[time.Tuesday] = "<9:00 >17:00"

	s, warnings := New(settings)
	if len(warnings) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(warnings))
	}
	if s.WeekdayTarget(time.Monday) != 0 {
		t.Error("malformed Monday should have target 0")
	}
	if s.WeekdayTarget(time.Tuesday) != 8*time.Hour {
		t.Errorf("Tuesday target = %v, want 8h", s.WeekdayTarget(time.Tuesday))
	}
}
