package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Tags excluded from worked totals on every run, before any config file or
// command-line additions.
var defaultIgnoreTags []string

type Config struct {
	DatabasePath      string   `yaml:"DatabasePath"`
	HoursPerDay       float64  `yaml:"HoursPerDay"`
	ShowWeekends      bool     `yaml:"ShowWeekends"`
	WeeklySummary     bool     `yaml:"WeeklySummary"`
	SummarizeExcluded bool     `yaml:"SummarizeExcluded"`
	HolidayRegion     string   `yaml:"HolidayRegion"`
	IgnoreTags        []string `yaml:"IgnoreTags"`
}

func Load() (*Config, error) {
	configPath := getConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return getDefaultConfig(), nil
		}
		return nil, err
	}

	cfg := getDefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	// Expand ~ in database path
	if strings.HasPrefix(cfg.DatabasePath, "~/") {
		home, _ := os.UserHomeDir()
		cfg.DatabasePath = filepath.Join(home, cfg.DatabasePath[2:])
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	configPath := getConfigPath()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

func getConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".tempus.yaml")
}

func getDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DatabasePath:      filepath.Join(home, ".tempus", "data.db"),
		HoursPerDay:       8.0,
		ShowWeekends:      true,
		WeeklySummary:     false,
		SummarizeExcluded: true,
	}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

// Validate checks the configuration for common issues
func (c *Config) Validate() error {
	if c.HoursPerDay < 0 {
		return &ValidationError{Field: "HoursPerDay", Message: "hours per day must not be negative"}
	}
	if c.DatabasePath == "" {
		return &ValidationError{Field: "DatabasePath", Message: "database path is required"}
	}
	return nil
}

// Warning records a recoverable configuration problem. The offending entry
// is skipped and the run continues.
type Warning struct {
	Key    string
	Detail string
}

func (w Warning) String() string {
	return fmt.Sprintf("config warning: %s: %s", w.Key, w.Detail)
}

// Settings is the effective configuration of a single report run, merged
// from built-in defaults, the persisted config file, the input stream
// header, and command-line overrides, in that precedence order.
type Settings struct {
	HoursPerDay       float64
	ShowWeekends      bool
	WeeklySummary     bool
	SummarizeExcluded bool
	HolidayRegion     string
	IgnoreTags        map[string]struct{}
	Exclusions        map[time.Weekday]string
	Holidays          map[string]string // ISO date -> holiday label, region filter applied

	// Holiday entries as parsed, with their region. The region filter is
	// resolved against these after every merge step, so a holiday_region
	// set later in the header, or by a runtime override, still applies to
	// holidays that were read before it.
	holidayEntries []holidayEntry
}

type holidayEntry struct {
	region, date, label string
}

// RunSettings builds the baseline Settings for one invocation from the
// persisted config and the built-in defaults.
func (c *Config) RunSettings() *Settings {
	s := &Settings{
		HoursPerDay:       c.HoursPerDay,
		ShowWeekends:      c.ShowWeekends,
		WeeklySummary:     c.WeeklySummary,
		SummarizeExcluded: c.SummarizeExcluded,
		HolidayRegion:     c.HolidayRegion,
		IgnoreTags:        make(map[string]struct{}),
		Exclusions:        make(map[time.Weekday]string),
		Holidays:          make(map[string]string),
	}
	for _, tag := range defaultIgnoreTags {
		s.IgnoreTags[tag] = struct{}{}
	}
	for _, tag := range c.IgnoreTags {
		s.IgnoreTags[tag] = struct{}{}
	}
	return s
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ApplyHeader folds the configuration header of the input stream into the
// settings. Malformed entries are skipped and reported as warnings.
// Unrecognized keys are ignored, since timewarrior headers carry many keys
// that do not concern the report.
func (s *Settings) ApplyHeader(lines []string) []Warning {
	var warnings []Warning

	for _, line := range lines {
		key, value, ok := splitHeaderLine(line)
		if !ok {
			continue
		}

		switch {
		case strings.HasPrefix(key, "exclusions."):
			name := strings.ToLower(strings.TrimPrefix(key, "exclusions."))
			wd, ok := weekdayNames[name]
			if !ok {
				warnings = append(warnings, Warning{Key: key, Detail: "unknown weekday"})
				continue
			}
			s.Exclusions[wd] = value

		case key == "totals.hours_per_day":
			h, err := strconv.ParseFloat(value, 64)
			if err != nil || h < 0 {
				warnings = append(warnings, Warning{Key: key, Detail: fmt.Sprintf("invalid hours value %q", value)})
				continue
			}
			s.HoursPerDay = h

		case key == "projected.show_weekends":
			s.applyBool(key, value, &s.ShowWeekends, &warnings)

		case key == "projected.weekly_summary":
			s.applyBool(key, value, &s.WeeklySummary, &warnings)

		case key == "projected.summarize_excluded":
			s.applyBool(key, value, &s.SummarizeExcluded, &warnings)

		case key == "projected.ignore_tags":
			for _, tag := range strings.Fields(value) {
				s.IgnoreTags[tag] = struct{}{}
			}

		case key == "projected.holiday_region":
			s.HolidayRegion = value

		case strings.HasPrefix(key, "holidays."):
			rest := strings.TrimPrefix(key, "holidays.")
			region, date, found := strings.Cut(rest, ".")
			if !found {
				warnings = append(warnings, Warning{Key: key, Detail: "expected holidays.<region>.<date>"})
				continue
			}
			if _, err := time.Parse("2006-01-02", date); err != nil {
				warnings = append(warnings, Warning{Key: key, Detail: fmt.Sprintf("invalid date %q", date)})
				continue
			}
			s.holidayEntries = append(s.holidayEntries, holidayEntry{region: region, date: date, label: value})
		}
	}

	s.resolveHolidays()
	return warnings
}

// resolveHolidays rebuilds the effective holiday map from the parsed
// entries under the current region filter. An empty region accepts every
// entry.
func (s *Settings) resolveHolidays() {
	s.Holidays = make(map[string]string)
	for _, h := range s.holidayEntries {
		if s.HolidayRegion != "" && h.region != s.HolidayRegion {
			continue
		}
		s.Holidays[h.date] = h.label
	}
}

// ApplyOverrides folds command-line key=value pairs and extra ignore tags
// into the settings. Overrides are explicit user intent, so a bad key or
// value is an error rather than a warning.
func (s *Settings) ApplyOverrides(pairs []string, ignoreTags []string) error {
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return fmt.Errorf("invalid override %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch key {
		case "totals.hours_per_day":
			h, err := strconv.ParseFloat(value, 64)
			if err != nil || h < 0 {
				return fmt.Errorf("invalid override %s=%s: expected a non-negative number", key, value)
			}
			s.HoursPerDay = h
		case "projected.show_weekends", "projected.weekly_summary", "projected.summarize_excluded":
			b, err := parseBool(value)
			if err != nil {
				return fmt.Errorf("invalid override %s=%s: %v", key, value, err)
			}
			switch key {
			case "projected.show_weekends":
				s.ShowWeekends = b
			case "projected.weekly_summary":
				s.WeeklySummary = b
			case "projected.summarize_excluded":
				s.SummarizeExcluded = b
			}
		case "projected.ignore_tags":
			for _, tag := range strings.Fields(value) {
				s.IgnoreTags[tag] = struct{}{}
			}
		case "projected.holiday_region":
			s.HolidayRegion = value
		default:
			return fmt.Errorf("unknown override key %q", key)
		}
	}

	for _, tag := range ignoreTags {
		if tag != "" {
			s.IgnoreTags[tag] = struct{}{}
		}
	}

	s.resolveHolidays()
	return nil
}

// SortedIgnoreTags returns the effective ignore set in a stable order for
// display.
func (s *Settings) SortedIgnoreTags() []string {
	tags := make([]string, 0, len(s.IgnoreTags))
	for tag := range s.IgnoreTags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

func (s *Settings) applyBool(key, value string, dst *bool, warnings *[]Warning) {
	b, err := parseBool(value)
	if err != nil {
		*warnings = append(*warnings, Warning{Key: key, Detail: fmt.Sprintf("invalid boolean %q", value)})
		return
	}
	*dst = b
}

func parseBool(value string) (bool, error) {
	switch strings.ToLower(value) {
	case "yes", "on", "true", "1":
		return true, nil
	case "no", "off", "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("expected yes or no")
}

// splitHeaderLine splits a "key: value" or "key = value" header line.
func splitHeaderLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}

	sep := strings.IndexAny(line, ":=")
	if sep <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:sep]), strings.TrimSpace(line[sep+1:]), true
}
