package interval

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimewFormat is the compact UTC timestamp layout used by timewarrior
// exports. RFC 3339 timestamps are accepted as well.
const TimewFormat = "20060102T150405Z"

// Interval is one raw logged record. End is nil while the interval is still
// open. Intervals are produced once by the exporting host and read-only
// afterward.
type Interval struct {
	Start time.Time
	End   *time.Time
	Tags  []string
}

// Duration returns the interval length, closing an open interval at now.
func (iv Interval) Duration(now time.Time) time.Duration {
	end := now
	if iv.End != nil {
		end = *iv.End
	}
	return end.Sub(iv.Start)
}

// RecordError describes an interval record that cannot be processed.
type RecordError struct {
	Index  int
	Reason string
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("interval %d: %s", e.Index, e.Reason)
}

type rawInterval struct {
	Start string   `json:"start"`
	End   string   `json:"end"`
	Tags  []string `json:"tags"`
}

// Decode parses the JSON interval payload. A record without a start, or with
// an unparsable timestamp, fails the whole decode: a partial report could be
// mistaken for a complete one.
func Decode(payload []byte) ([]Interval, error) {
	var raws []rawInterval
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, fmt.Errorf("invalid interval payload: %w", err)
	}

	intervals := make([]Interval, 0, len(raws))
	for i, raw := range raws {
		if raw.Start == "" {
			return nil, &RecordError{Index: i, Reason: "missing required start timestamp"}
		}
		start, err := ParseTimestamp(raw.Start)
		if err != nil {
			return nil, &RecordError{Index: i, Reason: fmt.Sprintf("bad start: %v", err)}
		}

		iv := Interval{Start: start, Tags: raw.Tags}
		if raw.End != "" {
			end, err := ParseTimestamp(raw.End)
			if err != nil {
				return nil, &RecordError{Index: i, Reason: fmt.Sprintf("bad end: %v", err)}
			}
			iv.End = &end
		}
		intervals = append(intervals, iv)
	}

	return intervals, nil
}

// ParseTimestamp parses a timewarrior or RFC 3339 timestamp into UTC.
func ParseTimestamp(value string) (time.Time, error) {
	for _, layout := range []string{TimewFormat, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}

// Segment is an interval slice bounded to a single local calendar day.
// IgnoredTag is the representative matching ignore tag when the segment's
// time is excluded from worked totals; "" means the time counts.
type Segment struct {
	Day        time.Time // local midnight of the day the segment belongs to
	Duration   time.Duration
	Tags       []string
	IgnoredTag string
}

// Normalizer converts raw UTC intervals into local per-day segments.
type Normalizer struct {
	loc     *time.Location
	now     time.Time
	ignored map[string]struct{}
}

// NewNormalizer returns a Normalizer for one report run. now closes open
// intervals and is converted to loc along with every record.
func NewNormalizer(loc *time.Location, now time.Time, ignored map[string]struct{}) *Normalizer {
	return &Normalizer{loc: loc, now: now.In(loc), ignored: ignored}
}

// Normalize converts each interval to local time, splits it at local
// midnights so every segment lies inside exactly one calendar day, and marks
// segments whose tags intersect the ignore set. Zero-duration segments are
// dropped. The per-day durations always sum to the original interval
// duration.
func (n *Normalizer) Normalize(intervals []Interval) []Segment {
	var segments []Segment

	for _, iv := range intervals {
		start := iv.Start.In(n.loc)
		end := n.now
		if iv.End != nil {
			end = iv.End.In(n.loc)
		}

		ignoredTag := n.matchIgnored(iv.Tags)

		for cursor := start; cursor.Before(end); {
			boundary := nextMidnight(cursor)
			if boundary.After(end) {
				boundary = end
			}
			if d := boundary.Sub(cursor); d > 0 {
				segments = append(segments, Segment{
					Day:        startOfDay(cursor),
					Duration:   d,
					Tags:       iv.Tags,
					IgnoredTag: ignoredTag,
				})
			}
			cursor = boundary
		}
	}

	return segments
}

// matchIgnored returns the first tag, in the interval's declared order, that
// is in the ignore set. Attributing the whole duration to one representative
// tag keeps the excluded-time summary free of double counting.
func (n *Normalizer) matchIgnored(tags []string) string {
	for _, tag := range tags {
		if _, ok := n.ignored[tag]; ok {
			return tag
		}
	}
	return ""
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func nextMidnight(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, t.Location())
}
