// Package timeband provides the pure calendar arithmetic behind period
// statistics and chart bucketing: mapping a reference date to the calendar
// period containing it, and mapping dates to coarser chart buckets.
package timeband

import (
	"fmt"
	"time"
)

// Granularity selects the calendar alignment of a period or the coarseness of
// a chart bucket.
type Granularity string

const (
	// Day aligns to calendar days; buckets by hour of day.
	Day Granularity = "day"
	// Week aligns to Monday-based calendar weeks; buckets by weekday.
	Week Granularity = "week"
	// Month aligns to calendar months; buckets by day of month.
	Month Granularity = "month"
	// Year aligns to calendar years; buckets by month.
	Year Granularity = "year"
)

// Valid reports whether the granularity is one of the known values.
func (g Granularity) Valid() bool {
	switch g {
	case Day, Week, Month, Year:
		return true
	}
	return false
}

// Interval is a half-open time span [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the half-open interval.
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Length returns the interval's duration.
func (iv Interval) Length() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Days returns the number of calendar days spanned, floored at 1 so callers
// dividing by it can never hit a zero denominator.
func (iv Interval) Days() int {
	days := int(iv.End.Sub(iv.Start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// PeriodInterval computes the calendar-aligned [start, end) interval of the
// given granularity containing ref, in ref's location. Weeks start on Monday.
func PeriodInterval(g Granularity, ref time.Time) (Interval, error) {
	loc := ref.Location()
	switch g {
	case Day:
		start := StartOfDay(ref)
		return Interval{Start: start, End: start.AddDate(0, 0, 1)}, nil
	case Week:
		start := startOfWeek(ref)
		return Interval{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case Month:
		start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, loc)
		return Interval{Start: start, End: start.AddDate(0, 1, 0)}, nil
	case Year:
		start := time.Date(ref.Year(), time.January, 1, 0, 0, 0, 0, loc)
		return Interval{Start: start, End: start.AddDate(1, 0, 0)}, nil
	default:
		return Interval{}, fmt.Errorf("unknown granularity %q", g)
	}
}

// RollingWindow returns the fixed-length window [anchor-length, anchor),
// contiguous and non-overlapping with a current window starting at anchor.
func RollingWindow(anchor time.Time, length time.Duration) Interval {
	return Interval{Start: anchor.Add(-length), End: anchor}
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday midnight at or before t.
func startOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 ... Sunday=6
	return day.AddDate(0, 0, -offset)
}

// DaysBetween returns the whole days from start to end, floored at 1. The
// floor guards the divide-by-zero and overcount family of bugs in daily
// averages over degenerate ranges.
func DaysBetween(start, end time.Time) int {
	days := int(end.Sub(start).Hours() / 24)
	if days < 1 {
		return 1
	}
	return days
}

// Bucket is a chart grouping label paired with a numeric sort index. Labels
// such as weekday or month names do not sort chronologically as strings, so
// callers must order by Sort, never by Label.
type Bucket struct {
	Label string
	Sort  int
}

// BucketKey maps a date to the chart bucket of the given granularity:
// hour of day within a day, weekday within a week, day of month within a
// month, and month within a year.
func BucketKey(t time.Time, g Granularity) (Bucket, error) {
	switch g {
	case Day:
		return Bucket{Label: fmt.Sprintf("%02d:00", t.Hour()), Sort: t.Hour()}, nil
	case Week:
		// Monday sorts first to match the week start.
		sort := (int(t.Weekday()) + 6) % 7
		return Bucket{Label: t.Weekday().String(), Sort: sort}, nil
	case Month:
		return Bucket{Label: fmt.Sprintf("%d", t.Day()), Sort: t.Day()}, nil
	case Year:
		return Bucket{Label: t.Month().String(), Sort: int(t.Month())}, nil
	default:
		return Bucket{}, fmt.Errorf("unknown granularity %q", g)
	}
}
