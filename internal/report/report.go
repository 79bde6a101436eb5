package report

import (
	"sort"
	"time"

	"github.com/tempus/internal/interval"
	"github.com/tempus/internal/schedule"
)

// DayRecord is the aggregate of one calendar date in the reporting range.
// Every date in the range gets exactly one record, active or not.
type DayRecord struct {
	Date          time.Time
	Target        time.Duration
	Worked        time.Duration
	Excluded      map[string]time.Duration
	ExcludedOrder []string // tags in first-accumulation order, for stable output
	Holiday       bool
	Weekend       bool
}

func (d *DayRecord) addExcluded(tag string, dur time.Duration) {
	if _, seen := d.Excluded[tag]; !seen {
		d.ExcludedOrder = append(d.ExcludedOrder, tag)
	}
	d.Excluded[tag] += dur
}

// BuildDays folds normalized segments into one record per day over the
// continuous union of the requested range and the days the segments touch.
// from and to are local midnights, to inclusive.
func BuildDays(segments []interval.Segment, sched *schedule.Schedule, from, to time.Time) []*DayRecord {
	first, last := from, to
	for _, seg := range segments {
		if seg.Day.Before(first) {
			first = seg.Day
		}
		if seg.Day.After(last) {
			last = seg.Day
		}
	}

	byDay := make(map[string]*DayRecord)
	var days []*DayRecord
	for date := first; !date.After(last); date = date.AddDate(0, 0, 1) {
		rec := &DayRecord{
			Date:     date,
			Target:   sched.TargetFor(date),
			Excluded: make(map[string]time.Duration),
			Holiday:  sched.IsHoliday(date),
			Weekend:  sched.IsNonWorkDay(date.Weekday()),
		}
		byDay[date.Format("2006-01-02")] = rec
		days = append(days, rec)
	}

	for _, seg := range segments {
		rec := byDay[seg.Day.Format("2006-01-02")]
		if seg.IgnoredTag != "" {
			rec.addExcluded(seg.IgnoredTag, seg.Duration)
			continue
		}
		rec.Worked += seg.Duration
	}

	return days
}

// Row is one rendered day: its record plus the deltas computed in date
// order. Hidden rows still feed every total; they are only left out of the
// rendered table.
type Row struct {
	*DayRecord
	Week     int
	DayDelta time.Duration
	Running  time.Duration
	Total    time.Duration // cumulative worked time up to and including this day
	Hidden   bool
}

// WeekSummary aggregates the days of one ISO week.
type WeekSummary struct {
	Week   int
	Target time.Duration
	Worked time.Duration
}

// Delta returns the week's signed worked-minus-target difference.
func (w WeekSummary) Delta() time.Duration {
	return w.Worked - w.Target
}

// TagTotal is the accumulated excluded time of one ignored tag.
type TagTotal struct {
	Tag   string
	Total time.Duration
}

// Options controls assembly and rendering of a report.
type Options struct {
	ShowWeekends      bool
	WeeklySummary     bool
	SummarizeExcluded bool
	IgnoredTags       []string // effective ignore set, for the banner
}

// Report is the fully assembled result of one run.
type Report struct {
	Rows        []Row
	Weeks       []WeekSummary
	Excluded    []TagTotal
	TotalTarget time.Duration
	TotalWorked time.Duration
	Options     Options
}

// Delta returns the whole-range signed difference.
func (r *Report) Delta() time.Duration {
	return r.TotalWorked - r.TotalTarget
}

// Assemble walks the day records in date order, computing day deltas, the
// running total, ISO-week groupings, and the excluded-time summary. The
// running total starts at zero and is never reset mid-run.
func Assemble(days []*DayRecord, opts Options) *Report {
	rep := &Report{Options: opts}

	var running time.Duration
	var totalWorked time.Duration
	var week *WeekSummary

	excluded := make(map[string]time.Duration)
	var excludedOrder []string

	for _, day := range days {
		_, isoWeek := day.Date.ISOWeek()
		if week == nil || week.Week != isoWeek {
			if week != nil {
				rep.Weeks = append(rep.Weeks, *week)
			}
			week = &WeekSummary{Week: isoWeek}
		}

		delta := day.Worked - day.Target
		running += delta
		totalWorked += day.Worked

		week.Target += day.Target
		week.Worked += day.Worked
		rep.TotalTarget += day.Target
		rep.TotalWorked += day.Worked

		for _, tag := range day.ExcludedOrder {
			if _, seen := excluded[tag]; !seen {
				excludedOrder = append(excludedOrder, tag)
			}
			excluded[tag] += day.Excluded[tag]
		}

		rep.Rows = append(rep.Rows, Row{
			DayRecord: day,
			Week:      isoWeek,
			DayDelta:  delta,
			Running:   running,
			Total:     totalWorked,
			Hidden:    !opts.ShowWeekends && day.Weekend && day.Worked == 0,
		})
	}
	if week != nil {
		rep.Weeks = append(rep.Weeks, *week)
	}

	for _, tag := range excludedOrder {
		rep.Excluded = append(rep.Excluded, TagTotal{Tag: tag, Total: excluded[tag]})
	}
	// Descending by duration; the stable sort keeps first-seen order on ties.
	sort.SliceStable(rep.Excluded, func(i, j int) bool {
		return rep.Excluded[i].Total > rep.Excluded[j].Total
	})

	return rep
}
