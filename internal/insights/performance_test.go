package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newPerformanceAnalyzer() *PerformanceAnalyzer {
	logger, _ := zap.NewDevelopment()
	return NewPerformanceAnalyzer(DefaultConfig().Baseline, logger)
}

// monthlyTotals builds one bucket per total, months ascending from 2026-01.
func monthlyTotals(totals ...float64) []MonthlyBucket {
	months := []string{
		"2026-01", "2026-02", "2026-03", "2026-04", "2026-05", "2026-06",
		"2026-07", "2026-08", "2026-09", "2026-10", "2026-11", "2026-12",
	}
	buckets := make([]MonthlyBucket, 0, len(totals))
	for i, total := range totals {
		buckets = append(buckets, MonthlyBucket{Month: months[i], Total: total, Count: 1})
	}
	return buckets
}

func TestPerformanceEmptyAccount(t *testing.T) {
	insights := newPerformanceAnalyzer().Analyze(nil, nil)

	assert.Equal(t, 0.0, insights.TotalEarnings)
	assert.Equal(t, 0.0, insights.EfficiencyRate)
	assert.Equal(t, 0, insights.ConsistencyScore)
	assert.Equal(t, 0.0, insights.GrowthTrend)
	assert.NotEmpty(t, insights.PerformanceGrade)
}

func TestEfficiencyRateBasisPoints(t *testing.T) {
	payouts := []PayoutRecord{
		{Amount: 60, TradingVolume: 50000, Status: PayoutStatusProcessed},
		{Amount: 40, TradingVolume: 50000, Status: PayoutStatusProcessed},
	}

	insights := newPerformanceAnalyzer().Analyze(payouts, nil)

	// 100 earned over 100,000 volume is 10 basis points.
	assert.Equal(t, 10.0, insights.EfficiencyRate)
}

func TestEfficiencyRateZeroVolume(t *testing.T) {
	payouts := []PayoutRecord{{Amount: 100, Status: PayoutStatusProcessed}}

	insights := newPerformanceAnalyzer().Analyze(payouts, nil)

	assert.Equal(t, 0.0, insights.EfficiencyRate)
}

func TestConsistencyScoreEdgeCases(t *testing.T) {
	pa := newPerformanceAnalyzer()

	// Fewer than two buckets carry no signal.
	assert.Equal(t, 0, pa.consistencyScore(nil))
	assert.Equal(t, 0, pa.consistencyScore(monthlyTotals(500)))

	// A zero mean cannot be normalized against.
	assert.Equal(t, 0, pa.consistencyScore(monthlyTotals(0, 0, 0)))

	// Identical months are perfectly consistent.
	assert.Equal(t, 100, pa.consistencyScore(monthlyTotals(100, 100, 100)))
}

func TestConsistencyScorePopulationVariance(t *testing.T) {
	pa := newPerformanceAnalyzer()

	// Totals 100/120/110/150/140/160: mean 130, population stddev ~21.6,
	// coefficient of variation ~16.6%, so the score rounds to 83.
	assert.Equal(t, 83, pa.consistencyScore(monthlyTotals(100, 120, 110, 150, 140, 160)))
}

func TestGrowthTrendShortHistories(t *testing.T) {
	pa := newPerformanceAnalyzer()

	assert.Equal(t, 0.0, pa.growthTrend(nil))
	assert.Equal(t, 0.0, pa.growthTrend(monthlyTotals(100)))

	// With no previous window the recent mean compares to itself.
	assert.Equal(t, 0.0, pa.growthTrend(monthlyTotals(100, 200, 300)))
}

func TestGrowthTrendMonotonicIncrease(t *testing.T) {
	pa := newPerformanceAnalyzer()

	trend := pa.growthTrend(monthlyTotals(100, 200, 300, 400))
	assert.Greater(t, trend, 0.0)
}

func TestGrowthTrendSortsChronologically(t *testing.T) {
	pa := newPerformanceAnalyzer()

	// Buckets in scrambled insertion order must still compare the last
	// three months against the three before.
	buckets := []MonthlyBucket{
		{Month: "2026-06", Total: 160},
		{Month: "2026-01", Total: 100},
		{Month: "2026-05", Total: 140},
		{Month: "2026-02", Total: 120},
		{Month: "2026-04", Total: 150},
		{Month: "2026-03", Total: 110},
	}

	// Recent mean 150 versus previous mean 110 is +36.36%.
	assert.InDelta(t, 36.3636, pa.growthTrend(buckets), 0.001)
}

func TestPerformanceGradeBands(t *testing.T) {
	pa := newPerformanceAnalyzer()

	// Max on every axis: 40 + 35 + 25 = 100.
	assert.Equal(t, "A+", pa.performanceGrade(2000, 100, 25))

	// Min on every axis: 10 + 0 + 5 = 15.
	assert.Equal(t, "D", pa.performanceGrade(0, 0, -50))

	// 30 + 29.05 + 25 = 84.05 lands just under the A+ cut.
	assert.Equal(t, "A", pa.performanceGrade(780, 83, 36.36))
}

func TestCompareToBaselineDeterministic(t *testing.T) {
	logger, _ := zap.NewDevelopment()
	pa := NewPerformanceAnalyzer(Baseline{AverageEarnings: 250, TotalUsers: 1000}, logger)

	// At exactly the platform average the account sits at the median.
	assert.Equal(t, 50.0, pa.compareToBaseline(250).Percentile)

	// Clamped at both ends.
	assert.Equal(t, 5.0, pa.compareToBaseline(0).Percentile)
	assert.Equal(t, 95.0, pa.compareToBaseline(100000).Percentile)

	assert.Equal(t, 1000, pa.compareToBaseline(250).TotalUsers)

	// Identical input always yields the identical estimate.
	assert.Equal(t, pa.compareToBaseline(123.45), pa.compareToBaseline(123.45))
}
