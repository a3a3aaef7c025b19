package insights

import (
	"math"

	"go.uber.org/zap"
)

// PerformanceAnalyzer scores earning efficiency, consistency and growth for
// one account.
type PerformanceAnalyzer struct {
	baseline Baseline
	logger   *zap.Logger
}

// NewPerformanceAnalyzer creates a new performance analyzer.
func NewPerformanceAnalyzer(baseline Baseline, logger *zap.Logger) *PerformanceAnalyzer {
	return &PerformanceAnalyzer{
		baseline: baseline,
		logger:   logger,
	}
}

// Analyze computes the performance sub-report from processed payouts and
// their monthly buckets. Empty inputs degrade to zero-valued results.
func (pa *PerformanceAnalyzer) Analyze(payouts []PayoutRecord, buckets []MonthlyBucket) *PerformanceInsights {
	var totalEarnings, totalVolume float64
	for _, p := range payouts {
		totalEarnings += p.Amount
		totalVolume += p.TradingVolume
	}

	// Rebate efficiency in basis points. Zero volume yields zero, never a
	// division by zero.
	var efficiencyRate float64
	if totalVolume > 0 {
		efficiencyRate = totalEarnings / totalVolume * 10000
	}

	consistency := pa.consistencyScore(buckets)
	growth := pa.growthTrend(buckets)

	return &PerformanceInsights{
		TotalEarnings:       totalEarnings,
		EfficiencyRate:      round2(efficiencyRate),
		ConsistencyScore:    consistency,
		GrowthTrend:         growth,
		PerformanceGrade:    pa.performanceGrade(totalEarnings, consistency, growth),
		ComparisonToAverage: pa.compareToBaseline(totalEarnings),
	}
}

// consistencyScore measures how evenly earnings spread across months:
// 100 minus the coefficient of variation of monthly totals, floored at 0.
// Uses population variance. A single month or a zero mean carries no signal
// and scores 0.
func (pa *PerformanceAnalyzer) consistencyScore(buckets []MonthlyBucket) int {
	if len(buckets) <= 1 {
		return 0
	}

	var sum float64
	for _, b := range buckets {
		sum += b.Total
	}
	mean := sum / float64(len(buckets))
	if mean == 0 {
		return 0
	}

	var variance float64
	for _, b := range buckets {
		variance += (b.Total - mean) * (b.Total - mean)
	}
	variance /= float64(len(buckets))

	score := 100 - math.Sqrt(variance)/mean*100
	if score < 0 {
		score = 0
	}
	return int(math.Round(score))
}

// growthTrend compares the mean of the last three monthly totals against the
// mean of the three months before that, as a signed percentage. When the
// previous window is empty it defaults to the recent mean, so short histories
// report 0% change instead of dividing by zero.
func (pa *PerformanceAnalyzer) growthTrend(buckets []MonthlyBucket) float64 {
	if len(buckets) < 2 {
		return 0
	}

	sorted := SortChronological(buckets)

	recent := sorted[max(0, len(sorted)-3):]
	previous := sorted[max(0, len(sorted)-6):max(0, len(sorted)-3)]

	recentAvg := meanTotal(recent)
	previousAvg := recentAvg
	if len(previous) > 0 {
		previousAvg = meanTotal(previous)
	}

	if previousAvg <= 0 {
		return 0
	}
	return (recentAvg - previousAvg) / previousAvg * 100
}

// performanceGrade maps the weighted score to a letter grade. Earnings
// contribute up to 40 points, consistency up to 35, growth up to 25.
func (pa *PerformanceAnalyzer) performanceGrade(earnings float64, consistency int, growth float64) string {
	var score float64

	switch {
	case earnings > 1000:
		score += 40
	case earnings > 500:
		score += 30
	case earnings > 100:
		score += 20
	default:
		score += 10
	}

	score += float64(consistency) / 100 * 35

	switch {
	case growth > 20:
		score += 25
	case growth > 10:
		score += 20
	case growth > 0:
		score += 15
	case growth > -10:
		score += 10
	default:
		score += 5
	}

	switch {
	case score >= 85:
		return "A+"
	case score >= 75:
		return "A"
	case score >= 65:
		return "B+"
	case score >= 55:
		return "B"
	case score >= 45:
		return "C+"
	case score >= 35:
		return "C"
	default:
		return "D"
	}
}

// compareToBaseline estimates the account's percentile against the configured
// platform baseline. An account earning exactly the platform average lands at
// the 50th percentile; the estimate is clamped to [5, 95].
func (pa *PerformanceAnalyzer) compareToBaseline(earnings float64) PeerComparison {
	percentile := 5.0
	if pa.baseline.AverageEarnings > 0 {
		percentile = clamp(earnings/pa.baseline.AverageEarnings*50, 5, 95)
	}

	return PeerComparison{
		Percentile: round2(percentile),
		BetterThan: round2(percentile),
		TotalUsers: pa.baseline.TotalUsers,
	}
}

func meanTotal(buckets []MonthlyBucket) float64 {
	if len(buckets) == 0 {
		return 0
	}
	var sum float64
	for _, b := range buckets {
		sum += b.Total
	}
	return sum / float64(len(buckets))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
