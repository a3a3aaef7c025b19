package insights

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// PredictiveForecaster projects next-period earnings, tier progression,
// referral growth and achievement timing from historical records.
type PredictiveForecaster struct {
	cfg    Config
	logger *zap.Logger
}

// NewPredictiveForecaster creates a new forecaster with injected tier and
// growth tables.
func NewPredictiveForecaster(cfg Config, logger *zap.Logger) *PredictiveForecaster {
	return &PredictiveForecaster{
		cfg:    cfg,
		logger: logger,
	}
}

// Forecast computes the predictive sub-report.
func (pf *PredictiveForecaster) Forecast(snap *AccountSnapshot, buckets []MonthlyBucket, now time.Time) *PredictiveInsights {
	payoutCount := 0
	for _, p := range snap.Payouts {
		if p.Status == PayoutStatusProcessed {
			payoutCount++
		}
	}

	return &PredictiveInsights{
		NextPeriod:          pf.nextPeriod(buckets),
		TierProgression:     pf.tierProgression(snap, buckets),
		ReferralGrowth:      pf.referralGrowth(snap.Referrals, now),
		AchievementTimeline: pf.achievementTimeline(snap.Achievements, now),
		ConfidenceLevel:     confidenceLevel(payoutCount, len(snap.Referrals)),
	}
}

// nextPeriod fits an ordinary least-squares line through the most recent six
// monthly totals (chronologically ordered) and evaluates it one step past the
// end. Earnings cannot go negative, so the prediction floors at 0. Confidence
// bands on how many months of history exist overall.
func (pf *PredictiveForecaster) nextPeriod(buckets []MonthlyBucket) EarningsForecast {
	if len(buckets) < 2 {
		return EarningsForecast{Amount: 0, Confidence: "low"}
	}

	sorted := SortChronological(buckets)
	recent := sorted[max(0, len(sorted)-6):]
	n := float64(len(recent))

	var sumX, sumY, sumXY, sumX2 float64
	for i, b := range recent {
		x := float64(i)
		sumX += x
		sumY += b.Total
		sumXY += x * b.Total
		sumX2 += x * x
	}

	slope := (n*sumXY - sumX*sumY) / (n*sumX2 - sumX*sumX)
	intercept := (sumY - slope*sumX) / n

	prediction := slope*n + intercept
	if prediction < 0 {
		prediction = 0
	}

	confidence := "low"
	if len(buckets) >= 6 {
		confidence = "high"
	} else if len(buckets) >= 3 {
		confidence = "medium"
	}

	return EarningsForecast{Amount: prediction, Confidence: confidence}
}

// tierProgression projects advancement toward the next tier using the
// average monthly total as the run rate. The top tier (or an unknown one)
// reports 100% progress and no next tier.
func (pf *PredictiveForecaster) tierProgression(snap *AccountSnapshot, buckets []MonthlyBucket) TierProgression {
	req, ok := pf.cfg.TierRequirements[snap.Tier]
	if !ok || req.NextTier == "" || req.RequiredEarnings <= 0 {
		return TierProgression{CurrentTier: snap.Tier, Progress: 100}
	}

	monthlyRate := meanTotal(buckets)

	remaining := req.RequiredEarnings - snap.TotalSaved
	if remaining < 0 {
		remaining = 0
	}

	var monthsToNext *int
	if monthlyRate > 0 {
		months := int(math.Ceil(remaining / monthlyRate))
		monthsToNext = &months
	}

	nextTier := req.NextTier
	return TierProgression{
		CurrentTier:  snap.Tier,
		NextTier:     &nextTier,
		MonthsToNext: monthsToNext,
		Progress:     int(math.Round(snap.TotalSaved / req.RequiredEarnings * 100)),
	}
}

// referralGrowth projects next month's referrals from the trailing-90-day
// monthly rate scaled by the configured growth multiplier.
func (pf *PredictiveForecaster) referralGrowth(referrals []ReferralRecord, now time.Time) ReferralGrowth {
	recent := 0
	for _, r := range referrals {
		if withinDays(r.CreatedAt, now, 90) {
			recent++
		}
	}

	monthlyRate := float64(recent) / 3

	confidence := "low"
	if len(referrals) > 10 {
		confidence = "high"
	} else if len(referrals) > 5 {
		confidence = "medium"
	}

	return ReferralGrowth{
		CurrentRate:        monthlyRate,
		PredictedNextMonth: int(math.Round(monthlyRate * pf.cfg.ReferralGrowthMultiplier)),
		Confidence:         confidence,
	}
}

// achievementTimeline predicts days until the next unlock from the
// trailing-30-day unlock rate, with a configured fallback when the account
// unlocked nothing recently.
func (pf *PredictiveForecaster) achievementTimeline(achievements []AchievementRecord, now time.Time) AchievementTimeline {
	rate := 0
	for _, a := range achievements {
		if withinDays(a.UnlockedAt, now, 30) {
			rate++
		}
	}

	if rate == 0 {
		return AchievementTimeline{
			CurrentRate:       0,
			PredictedNextDays: pf.cfg.AchievementFallbackDays,
			Confidence:        "low",
		}
	}

	return AchievementTimeline{
		CurrentRate:       rate,
		PredictedNextDays: int(math.Ceil(30 / float64(rate))),
		Confidence:        "medium",
	}
}

// confidenceLevel scores the predictive bundle from payout and referral
// sample sizes, plus a flat recency allowance, capped at 100.
func confidenceLevel(payoutCount, referralCount int) int {
	confidence := 0

	switch {
	case payoutCount > 20:
		confidence += 40
	case payoutCount > 10:
		confidence += 25
	case payoutCount > 5:
		confidence += 15
	}

	switch {
	case referralCount > 10:
		confidence += 30
	case referralCount > 5:
		confidence += 20
	case referralCount > 2:
		confidence += 10
	}

	confidence += 30

	if confidence > 100 {
		confidence = 100
	}
	return confidence
}
