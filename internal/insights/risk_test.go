package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var riskNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func newRiskAssessor() *RiskAssessor {
	logger, _ := zap.NewDevelopment()
	return NewRiskAssessor(logger)
}

func TestRiskHealthyAccount(t *testing.T) {
	// Balanced brokers, recent activity, stable earnings: no findings.
	payouts := []PayoutRecord{
		brokerPayout("binance", 100, 1000, riskNow.AddDate(0, 0, -40)),
		brokerPayout("bybit", 100, 1000, riskNow.AddDate(0, 0, -10)),
	}

	assessment := newRiskAssessor().Assess(payouts, riskNow)

	assert.Empty(t, assessment.Findings)
	assert.Equal(t, RiskLevelLow, assessment.OverallRiskLevel)
	assert.Equal(t, 100, assessment.RiskScore)
}

func TestConcentrationRisk(t *testing.T) {
	payouts := []PayoutRecord{
		brokerPayout("binance", 900, 1000, riskNow.AddDate(0, 0, -5)),
		brokerPayout("bybit", 100, 1000, riskNow.AddDate(0, 0, -5)),
	}

	assessment := newRiskAssessor().Assess(payouts, riskNow)

	if assert.Len(t, assessment.Findings, 1) {
		assert.Equal(t, "concentration", assessment.Findings[0].Type)
		assert.Equal(t, RiskLevelHigh, assessment.Findings[0].Level)
	}
	assert.Equal(t, RiskLevelHigh, assessment.OverallRiskLevel)
	assert.Equal(t, 70, assessment.RiskScore)
}

func TestConcentrationRiskBoundary(t *testing.T) {
	// Exactly 80% does not fire; the threshold is strict.
	payouts := []PayoutRecord{
		brokerPayout("binance", 800, 1000, riskNow.AddDate(0, 0, -5)),
		brokerPayout("bybit", 200, 1000, riskNow.AddDate(0, 0, -5)),
	}

	assessment := newRiskAssessor().Assess(payouts, riskNow)
	assert.Empty(t, assessment.Findings)
}

func TestActivityRisk(t *testing.T) {
	payouts := []PayoutRecord{
		brokerPayout("binance", 100, 1000, riskNow.AddDate(0, 0, -60)),
		brokerPayout("bybit", 100, 1000, riskNow.AddDate(0, 0, -45)),
	}

	assessment := newRiskAssessor().Assess(payouts, riskNow)

	if assert.Len(t, assessment.Findings, 1) {
		assert.Equal(t, "activity", assessment.Findings[0].Type)
		assert.Equal(t, RiskLevelMedium, assessment.Findings[0].Level)
	}
	// A single medium finding stays low overall.
	assert.Equal(t, RiskLevelLow, assessment.OverallRiskLevel)
	assert.Equal(t, 85, assessment.RiskScore)
}

func TestActivityRiskFiresWithNoPayouts(t *testing.T) {
	assessment := newRiskAssessor().Assess(nil, riskNow)

	if assert.Len(t, assessment.Findings, 1) {
		assert.Equal(t, "activity", assessment.Findings[0].Type)
	}
}

func TestPerformanceRisk(t *testing.T) {
	// Ten strong payouts followed by ten weak ones: a 90% decline.
	payouts := make([]PayoutRecord, 0, 20)
	for i := 0; i < 10; i++ {
		payouts = append(payouts, brokerPayout("binance", 100, 1000, riskNow.AddDate(0, 0, -40+i)))
	}
	for i := 0; i < 10; i++ {
		payouts = append(payouts, brokerPayout("bybit", 10, 1000, riskNow.AddDate(0, 0, -20+i)))
	}

	assessment := newRiskAssessor().Assess(payouts, riskNow)

	var types []string
	for _, f := range assessment.Findings {
		types = append(types, f.Type)
	}
	assert.Contains(t, types, "performance")
	assert.Equal(t, RiskLevelHigh, assessment.OverallRiskLevel)
}

func TestPerformanceRiskNeedsPriorHistory(t *testing.T) {
	// Fewer than 11 payouts leave the prior window empty; never fires.
	payouts := make([]PayoutRecord, 0, 10)
	for i := 0; i < 10; i++ {
		payouts = append(payouts, brokerPayout("binance", 1, 1000, riskNow.AddDate(0, 0, -i-1)))
	}

	assert.Nil(t, newRiskAssessor().performanceRisk(payouts))
}

func TestOverallRiskLevelAggregation(t *testing.T) {
	medium := RiskFinding{Level: RiskLevelMedium}
	high := RiskFinding{Level: RiskLevelHigh}
	low := RiskFinding{Level: RiskLevelLow}

	assert.Equal(t, RiskLevelLow, overallRiskLevel(nil))
	assert.Equal(t, RiskLevelLow, overallRiskLevel([]RiskFinding{medium}))
	assert.Equal(t, RiskLevelMedium, overallRiskLevel([]RiskFinding{medium, medium}))
	assert.Equal(t, RiskLevelHigh, overallRiskLevel([]RiskFinding{low, medium, high}))
}

func TestRiskScoreMonotonicallyNonIncreasing(t *testing.T) {
	findings := []RiskFinding{}
	assert.Equal(t, 100, riskScore(findings))

	prev := 100
	for _, level := range []RiskLevel{RiskLevelLow, RiskLevelMedium, RiskLevelHigh, RiskLevelHigh, RiskLevelHigh} {
		findings = append(findings, RiskFinding{Level: level})
		score := riskScore(findings)
		assert.LessOrEqual(t, score, prev)
		prev = score
	}

	// 5 + 15 + 3x30 exceeds 100; the score floors at 0.
	assert.Equal(t, 0, prev)
}
