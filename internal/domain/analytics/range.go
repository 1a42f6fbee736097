// Package analytics holds the date arithmetic behind the dashboards:
// range presets, bucket alignment and zero-filled time series.
package analytics

import (
	"time"

	"github.com/tourbook/backend/internal/domain/shared"
)

// RangePreset names a relative reporting window
type RangePreset string

const (
	Range7Days     RangePreset = "7d"
	Range30Days    RangePreset = "30d"
	Range90Days    RangePreset = "90d"
	Range12Months  RangePreset = "12m"
	RangeYearToDay RangePreset = "ytd"
	RangeCustom    RangePreset = "custom"
)

const maxCustomRangeDays = 366

// Granularity is the width of a series bucket
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
)

// IsValid checks if the granularity is a known value
func (g Granularity) IsValid() bool {
	return g == GranularityDay || g == GranularityWeek || g == GranularityMonth
}

// DateRange is a half-open interval [From, To) of whole UTC days
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Days returns the number of whole days covered
func (r DateRange) Days() int {
	return int(r.To.Sub(r.From).Hours() / 24)
}

// Contains reports whether t falls inside the range
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.To)
}

// ResolveRange turns a preset into a concrete range ending today.
// For custom ranges from and to are inclusive calendar days.
func ResolveRange(preset RangePreset, from, to, now time.Time) (DateRange, error) {
	end := startOfDay(now).AddDate(0, 0, 1)

	switch preset {
	case "", Range30Days:
		return DateRange{From: end.AddDate(0, 0, -30), To: end}, nil
	case Range7Days:
		return DateRange{From: end.AddDate(0, 0, -7), To: end}, nil
	case Range90Days:
		return DateRange{From: end.AddDate(0, 0, -90), To: end}, nil
	case Range12Months:
		return DateRange{From: startOfMonth(now).AddDate(0, -11, 0), To: end}, nil
	case RangeYearToDay:
		return DateRange{From: time.Date(now.UTC().Year(), 1, 1, 0, 0, 0, 0, time.UTC), To: end}, nil
	case RangeCustom:
		if from.IsZero() || to.IsZero() {
			return DateRange{}, shared.NewDomainError("INVALID_DATE_RANGE", "Custom range needs both from and to")
		}
		r := DateRange{From: startOfDay(from), To: startOfDay(to).AddDate(0, 0, 1)}
		if !r.From.Before(r.To) {
			return DateRange{}, shared.NewDomainError("INVALID_DATE_RANGE", "Range start must not be after its end")
		}
		if r.Days() > maxCustomRangeDays {
			return DateRange{}, shared.NewDomainError("INVALID_DATE_RANGE", "Range cannot exceed 366 days")
		}
		return r, nil
	}
	return DateRange{}, shared.NewDomainError("INVALID_DATE_RANGE", "Unknown range preset: "+string(preset))
}

// PreviousRange returns the range of equal length that ends where r starts
func PreviousRange(r DateRange) DateRange {
	days := r.Days()
	return DateRange{From: r.From.AddDate(0, 0, -days), To: r.From}
}

// DefaultGranularity picks a bucket width that keeps charts readable
func DefaultGranularity(r DateRange) Granularity {
	switch days := r.Days(); {
	case days <= 31:
		return GranularityDay
	case days <= 92:
		return GranularityWeek
	default:
		return GranularityMonth
	}
}

// BucketStart aligns t down to the start of its bucket. Weeks start on Monday.
func BucketStart(t time.Time, g Granularity) time.Time {
	day := startOfDay(t)
	switch g {
	case GranularityWeek:
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case GranularityMonth:
		return startOfMonth(day)
	}
	return day
}

// Buckets returns the ordered bucket starts covering the range
func Buckets(r DateRange, g Granularity) []time.Time {
	var out []time.Time
	for b := BucketStart(r.From, g); b.Before(r.To); b = next(b, g) {
		out = append(out, b)
	}
	return out
}

// BucketLabel formats a bucket start for chart axes
func BucketLabel(b time.Time, g Granularity) string {
	if g == GranularityMonth {
		return b.Format("2006-01")
	}
	return b.Format("2006-01-02")
}

func next(b time.Time, g Granularity) time.Time {
	switch g {
	case GranularityWeek:
		return b.AddDate(0, 0, 7)
	case GranularityMonth:
		return b.AddDate(0, 1, 0)
	}
	return b.AddDate(0, 0, 1)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.UTC().Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}
