package insights

import (
	"sort"
	"time"
)

// MonthlyBucket aggregates one calendar month of processed payouts.
type MonthlyBucket struct {
	Month  string  `json:"month"` // year-month key, e.g. "2026-03"
	Total  float64 `json:"total"`
	Count  int     `json:"count"`
	Volume float64 `json:"volume"`
}

// AggregateMonthly groups payouts into per-month buckets keyed by the
// payout's period label. Buckets come back in first-occurrence order; trend
// and regression consumers must sort chronologically via SortChronological
// before comparing months.
func AggregateMonthly(payouts []PayoutRecord) []MonthlyBucket {
	index := make(map[string]int, len(payouts))
	buckets := make([]MonthlyBucket, 0, len(payouts))

	for _, p := range payouts {
		key := monthKey(p)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, MonthlyBucket{Month: key})
		}
		buckets[i].Total += p.Amount
		buckets[i].Count++
		buckets[i].Volume += p.TradingVolume
	}

	return buckets
}

// SortChronological returns a copy of the buckets ordered ascending by month
// key. Year-month keys sort correctly as strings.
func SortChronological(buckets []MonthlyBucket) []MonthlyBucket {
	sorted := make([]MonthlyBucket, len(buckets))
	copy(sorted, buckets)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Month < sorted[j].Month
	})

	return sorted
}

// monthKey resolves a payout's month bucket. The period label wins; payouts
// without one fall back to the creation month.
func monthKey(p PayoutRecord) string {
	if p.Period != "" {
		return p.Period
	}
	return p.CreatedAt.UTC().Format("2006-01")
}

// monthOf formats a timestamp as a year-month key.
func monthOf(t time.Time) string {
	return t.UTC().Format("2006-01")
}
