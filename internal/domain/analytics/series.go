package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Row is a raw aggregate row as read from storage
type Row struct {
	At     time.Time
	Count  int64
	Amount decimal.Decimal
}

// Point is one bucket of a series
type Point struct {
	Bucket time.Time       `json:"bucket"`
	Label  string          `json:"label"`
	Count  int64           `json:"count"`
	Amount decimal.Decimal `json:"amount"`
}

// Series is an ordered list of buckets
type Series []Point

// FillSeries sums rows into their buckets; buckets without rows are zero
func FillSeries(buckets []time.Time, g Granularity, rows []Row) Series {
	series := make(Series, len(buckets))
	index := make(map[int64]int, len(buckets))
	for i, b := range buckets {
		series[i] = Point{Bucket: b, Label: BucketLabel(b, g), Amount: decimal.Zero}
		index[b.Unix()] = i
	}
	for _, row := range rows {
		i, ok := index[BucketStart(row.At, g).Unix()]
		if !ok {
			continue
		}
		series[i].Count += row.Count
		series[i].Amount = series[i].Amount.Add(row.Amount)
	}
	return series
}

// Totals sums the series
func (s Series) Totals() (int64, decimal.Decimal) {
	var count int64
	amount := decimal.Zero
	for _, p := range s {
		count += p.Count
		amount = amount.Add(p.Amount)
	}
	return count, amount
}

// PercentChange returns the relative change from prev to cur, rounded to one decimal
func PercentChange(prev, cur decimal.Decimal) decimal.Decimal {
	if prev.IsZero() {
		if cur.IsZero() {
			return decimal.Zero
		}
		return decimal.NewFromInt(100)
	}
	return cur.Sub(prev).Div(prev.Abs()).Mul(decimal.NewFromInt(100)).Round(1)
}

// Metric is a headline number with its change against the previous period
type Metric struct {
	Value    decimal.Decimal `json:"value"`
	Previous decimal.Decimal `json:"previous"`
	Change   decimal.Decimal `json:"change_percent"`
}

// NewMetric builds a metric from the current and previous values
func NewMetric(cur, prev decimal.Decimal) Metric {
	return Metric{Value: cur, Previous: prev, Change: PercentChange(prev, cur)}
}

// StatusCount is the number of bookings in one status
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// TourRevenue is a tour ranked by revenue
type TourRevenue struct {
	TourID   string          `json:"tour_id"`
	Title    string          `json:"title"`
	Bookings int64           `json:"bookings"`
	People   int64           `json:"people"`
	Revenue  decimal.Decimal `json:"revenue"`
}
