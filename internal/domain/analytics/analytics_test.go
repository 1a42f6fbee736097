package analytics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Wednesday afternoon
var now = time.Date(2026, 3, 18, 16, 30, 0, 0, time.UTC)

func TestResolveRange(t *testing.T) {
	tests := []struct {
		preset   RangePreset
		from, to time.Time
		want     DateRange
	}{
		{Range7Days, time.Time{}, time.Time{}, DateRange{day(2026, 3, 12), day(2026, 3, 19)}},
		{"", time.Time{}, time.Time{}, DateRange{day(2026, 2, 17), day(2026, 3, 19)}},
		{Range12Months, time.Time{}, time.Time{}, DateRange{day(2025, 4, 1), day(2026, 3, 19)}},
		{RangeYearToDay, time.Time{}, time.Time{}, DateRange{day(2026, 1, 1), day(2026, 3, 19)}},
		{RangeCustom, day(2026, 1, 5), day(2026, 1, 5).Add(10 * time.Hour), DateRange{day(2026, 1, 5), day(2026, 1, 6)}},
	}
	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			got, err := ResolveRange(tt.preset, tt.from, tt.to, now)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ResolveRange mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveRange_Errors(t *testing.T) {
	_, err := ResolveRange(RangeCustom, day(2026, 2, 1), day(2026, 1, 1), now)
	assert.Error(t, err)

	_, err = ResolveRange(RangeCustom, day(2024, 1, 1), day(2026, 1, 1), now)
	assert.Error(t, err)

	_, err = ResolveRange(RangeCustom, time.Time{}, day(2026, 1, 1), now)
	assert.Error(t, err)

	_, err = ResolveRange("forever", time.Time{}, time.Time{}, now)
	assert.Error(t, err)
}

func TestPreviousRange(t *testing.T) {
	r := DateRange{day(2026, 3, 12), day(2026, 3, 19)}
	prev := PreviousRange(r)
	assert.Equal(t, DateRange{day(2026, 3, 5), day(2026, 3, 12)}, prev)
	assert.Equal(t, 7, prev.Days())
}

func TestDefaultGranularity(t *testing.T) {
	assert.Equal(t, GranularityDay, DefaultGranularity(DateRange{day(2026, 1, 1), day(2026, 2, 1)}))
	assert.Equal(t, GranularityWeek, DefaultGranularity(DateRange{day(2026, 1, 1), day(2026, 3, 1)}))
	assert.Equal(t, GranularityMonth, DefaultGranularity(DateRange{day(2025, 1, 1), day(2026, 1, 1)}))
}

func TestBucketStart(t *testing.T) {
	assert.Equal(t, day(2026, 3, 18), BucketStart(now, GranularityDay))
	assert.Equal(t, day(2026, 3, 16), BucketStart(now, GranularityWeek))
	assert.Equal(t, day(2026, 3, 16), BucketStart(day(2026, 3, 22), GranularityWeek), "sunday belongs to the preceding monday")
	assert.Equal(t, day(2026, 3, 1), BucketStart(now, GranularityMonth))
}

func TestBuckets(t *testing.T) {
	r := DateRange{day(2026, 3, 12), day(2026, 3, 19)}
	assert.Len(t, Buckets(r, GranularityDay), 7)

	weeks := Buckets(r, GranularityWeek)
	want := []time.Time{day(2026, 3, 9), day(2026, 3, 16)}
	if diff := cmp.Diff(want, weeks); diff != "" {
		t.Errorf("weekly buckets mismatch (-want +got):\n%s", diff)
	}

	months := Buckets(DateRange{day(2025, 4, 1), day(2026, 3, 19)}, GranularityMonth)
	assert.Len(t, months, 12)
	assert.Equal(t, "2025-04", BucketLabel(months[0], GranularityMonth))
	assert.Equal(t, "2026-03", BucketLabel(months[11], GranularityMonth))
}

func TestFillSeries(t *testing.T) {
	buckets := Buckets(DateRange{day(2026, 3, 1), day(2026, 3, 4)}, GranularityDay)
	rows := []Row{
		{At: day(2026, 3, 1).Add(5 * time.Hour), Count: 2, Amount: decimal.NewFromInt(300)},
		{At: day(2026, 3, 3), Count: 1, Amount: decimal.NewFromInt(150)},
		{At: day(2026, 3, 3).Add(23 * time.Hour), Count: 1, Amount: decimal.NewFromInt(50)},
		{At: day(2026, 4, 1), Count: 9, Amount: decimal.NewFromInt(999)},
	}
	series := FillSeries(buckets, GranularityDay, rows)
	require.Len(t, series, 3)

	assert.Equal(t, int64(2), series[0].Count)
	assert.Equal(t, int64(0), series[1].Count)
	assert.True(t, series[1].Amount.IsZero())
	assert.Equal(t, int64(2), series[2].Count)
	assert.True(t, decimal.NewFromInt(200).Equal(series[2].Amount))
	assert.Equal(t, "2026-03-03", series[2].Label)

	count, amount := series.Totals()
	assert.Equal(t, int64(4), count)
	assert.True(t, decimal.NewFromInt(500).Equal(amount))
}

func TestPercentChange(t *testing.T) {
	d := decimal.NewFromInt
	assert.True(t, PercentChange(d(0), d(0)).IsZero())
	assert.True(t, d(100).Equal(PercentChange(d(0), d(5))))
	assert.True(t, d(50).Equal(PercentChange(d(10), d(15))))
	assert.True(t, decimal.RequireFromString("-33.3").Equal(PercentChange(d(3), d(2))))
}
