package insights

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RiskAssessor detects concentration, inactivity and performance-decline
// risks over an account's processed payouts.
type RiskAssessor struct {
	logger *zap.Logger
}

// NewRiskAssessor creates a new risk assessor.
func NewRiskAssessor(logger *zap.Logger) *RiskAssessor {
	return &RiskAssessor{
		logger: logger,
	}
}

// Assess produces zero or more findings plus an aggregate level and score.
// The score starts at 100 and loses 30/15/5 per high/medium/low finding,
// floored at 0.
func (ra *RiskAssessor) Assess(payouts []PayoutRecord, now time.Time) *RiskAssessment {
	findings := make([]RiskFinding, 0, 3)

	if f := ra.concentrationRisk(payouts); f != nil {
		findings = append(findings, *f)
	}
	if f := ra.activityRisk(payouts, now); f != nil {
		findings = append(findings, *f)
	}
	if f := ra.performanceRisk(payouts); f != nil {
		findings = append(findings, *f)
	}

	return &RiskAssessment{
		Findings:         findings,
		OverallRiskLevel: overallRiskLevel(findings),
		RiskScore:        riskScore(findings),
	}
}

// concentrationRisk fires when a single broker holds more than 80% of total
// earnings.
func (ra *RiskAssessor) concentrationRisk(payouts []PayoutRecord) *RiskFinding {
	if len(payouts) == 0 {
		return nil
	}

	byBroker := make(map[string]float64)
	var total float64
	for _, p := range payouts {
		byBroker[p.Broker] += p.Amount
		total += p.Amount
	}
	if total <= 0 {
		return nil
	}

	var largest float64
	for _, earnings := range byBroker {
		if earnings > largest {
			largest = earnings
		}
	}

	if largest/total*100 <= 80 {
		return nil
	}

	return &RiskFinding{
		Type:        "concentration",
		Level:       RiskLevelHigh,
		Description: fmt.Sprintf("%.0f%% of earnings come from a single broker", largest/total*100),
		Mitigation:  "Rebalance trading activity across additional brokers",
	}
}

// activityRisk fires when no processed payout landed in the trailing 30 days.
func (ra *RiskAssessor) activityRisk(payouts []PayoutRecord, now time.Time) *RiskFinding {
	for _, p := range payouts {
		if withinDays(p.CreatedAt, now, 30) {
			return nil
		}
	}

	return &RiskFinding{
		Type:        "activity",
		Level:       RiskLevelMedium,
		Description: "No rebate activity in the last 30 days",
		Mitigation:  "Resume trading to keep rebates flowing",
	}
}

// performanceRisk compares the sum of the most recent 10 payouts against the
// prior 10 and fires when the decline exceeds 20%.
func (ra *RiskAssessor) performanceRisk(payouts []PayoutRecord) *RiskFinding {
	recent := payouts[max(0, len(payouts)-10):]
	previous := payouts[max(0, len(payouts)-20):max(0, len(payouts)-10)]

	var recentSum, previousSum float64
	for _, p := range recent {
		recentSum += p.Amount
	}
	for _, p := range previous {
		previousSum += p.Amount
	}
	if previousSum <= 0 {
		return nil
	}

	trend := (recentSum - previousSum) / previousSum * 100
	if trend >= -20 {
		return nil
	}

	return &RiskFinding{
		Type:        "performance",
		Level:       RiskLevelHigh,
		Description: fmt.Sprintf("Recent earnings declined %.1f%% versus the prior period", -trend),
		Mitigation:  "Review trading strategy and broker fee rates",
	}
}

// overallRiskLevel is high with any high finding, medium with two or more
// medium findings, low otherwise.
func overallRiskLevel(findings []RiskFinding) RiskLevel {
	high, medium := 0, 0
	for _, f := range findings {
		switch f.Level {
		case RiskLevelHigh:
			high++
		case RiskLevelMedium:
			medium++
		}
	}

	if high > 0 {
		return RiskLevelHigh
	}
	if medium > 1 {
		return RiskLevelMedium
	}
	return RiskLevelLow
}

func riskScore(findings []RiskFinding) int {
	score := 100
	for _, f := range findings {
		switch f.Level {
		case RiskLevelHigh:
			score -= 30
		case RiskLevelMedium:
			score -= 15
		default:
			score -= 5
		}
	}
	if score < 0 {
		score = 0
	}
	return score
}
