package schedule

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/tempus/internal/config"
)

// HolidayCredit is the paid time assumed for a holiday regardless of the
// configured workday length. Schedules longer than 8h/day (compressed
// schedules like 9/80) leave a residual target on holidays; schedules of
// 8h/day or less owe nothing.
const HolidayCredit = 8 * time.Hour

const fullDay = 24 * time.Hour

// Schedule answers "how much work is expected on this date", derived from
// the per-weekday exclusion rules and the holiday calendar.
type Schedule struct {
	targets     [7]time.Duration
	holidays    map[string]string
	hoursPerDay float64
}

// New resolves the exclusion rules in the settings into per-weekday targets.
// A weekday without a rule, or with a malformed rule, has a target of zero;
// malformed rules are reported as warnings, never as errors.
func New(settings *config.Settings) (*Schedule, []config.Warning) {
	s := &Schedule{
		holidays:    settings.Holidays,
		hoursPerDay: settings.HoursPerDay,
	}

	var warnings []config.Warning
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		rule, ok := settings.Exclusions[wd]
		if !ok {
			continue
		}
		spans, err := parseSpans(rule)
		if err != nil {
			warnings = append(warnings, config.Warning{
				Key:    "exclusions." + strings.ToLower(wd.String()),
				Detail: err.Error(),
			})
			continue
		}
		s.targets[wd] = fullDay - coveredDuration(spans)
	}

	return s, warnings
}

// WeekdayTarget returns the un-adjusted target for a weekday.
func (s *Schedule) WeekdayTarget(wd time.Weekday) time.Duration {
	return s.targets[wd]
}

// TargetFor returns the effective target for a date. A holiday overrides the
// weekday target with max(0, hours_per_day - HolidayCredit).
func (s *Schedule) TargetFor(date time.Time) time.Duration {
	if s.IsHoliday(date) {
		target := time.Duration(s.hoursPerDay*float64(time.Hour)) - HolidayCredit
		if target < 0 {
			target = 0
		}
		return target
	}
	return s.targets[date.Weekday()]
}

// IsHoliday reports whether the date appears in the holiday calendar.
func (s *Schedule) IsHoliday(date time.Time) bool {
	_, ok := s.holidays[date.Format("2006-01-02")]
	return ok
}

// HolidayLabel returns the configured label for a holiday date, or "".
func (s *Schedule) HolidayLabel(date time.Time) string {
	return s.holidays[date.Format("2006-01-02")]
}

// IsNonWorkDay reports whether a weekday has no exclusion-derived work hours
// at all. Used for weekend-style display filtering, never for targets.
func (s *Schedule) IsNonWorkDay(wd time.Weekday) bool {
	return s.targets[wd] == 0
}

// span is a non-working stretch of a 24h day, as offsets from midnight.
type span struct {
	start, end time.Duration
}

// parseSpans parses a timewarrior exclusion value such as
//
//	<9:00 12:00-13:00 >17:30
//
// into non-working spans: "<T" excludes midnight..T, ">T" excludes T..24:00,
// and "A-B" excludes the interior block A..B.
func parseSpans(rule string) ([]span, error) {
	fields := strings.Fields(rule)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty exclusion rule")
	}

	var spans []span
	for _, field := range fields {
		switch {
		case strings.HasPrefix(field, "<"):
			t, err := parseClock(field[1:])
			if err != nil {
				return nil, err
			}
			spans = append(spans, span{0, t})
		case strings.HasPrefix(field, ">"):
			t, err := parseClock(field[1:])
			if err != nil {
				return nil, err
			}
			spans = append(spans, span{t, fullDay})
		case strings.Contains(field, "-"):
			from, to, _ := strings.Cut(field, "-")
			a, err := parseClock(from)
			if err != nil {
				return nil, err
			}
			b, err := parseClock(to)
			if err != nil {
				return nil, err
			}
			spans = append(spans, span{a, b})
		default:
			return nil, fmt.Errorf("unrecognized exclusion token %q", field)
		}
	}

	for _, sp := range spans {
		if sp.start >= sp.end {
			return nil, fmt.Errorf("inverted exclusion range")
		}
	}

	return spans, nil
}

// coveredDuration returns the total length of the union of the spans.
// Overlaps are merged so overlapping rules cannot exclude more than 24h.
func coveredDuration(spans []span) time.Duration {
	sort.Slice(spans, func(i, j int) bool { return spans[i].start < spans[j].start })

	var covered time.Duration
	var cursor time.Duration
	for _, sp := range spans {
		if sp.end <= cursor {
			continue
		}
		if sp.start > cursor {
			cursor = sp.start
		}
		covered += sp.end - cursor
		cursor = sp.end
	}
	return covered
}

// parseClock parses "H:MM" or "H:MM:SS" into an offset from midnight.
// "24:00" is accepted as the end-of-day boundary.
func parseClock(value string) (time.Duration, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("invalid time of day %q", value)
	}

	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid time of day %q", value)
		}
		nums[i] = n
	}

	d := time.Duration(nums[0])*time.Hour + time.Duration(nums[1])*time.Minute
	if nums[1] > 59 {
		return 0, fmt.Errorf("invalid time of day %q", value)
	}
	if len(nums) == 3 {
		if nums[2] > 59 {
			return 0, fmt.Errorf("invalid time of day %q", value)
		}
		d += time.Duration(nums[2]) * time.Second
	}
	if d > fullDay {
		return 0, fmt.Errorf("time of day %q past 24:00", value)
	}
	return d, nil
}
