package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var referralNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func newReferralAnalyzer() *ReferralAnalyzer {
	logger, _ := zap.NewDevelopment()
	return NewReferralAnalyzer(logger)
}

func referralWithPayouts(name string, joined time.Time, amounts ...float64) ReferralRecord {
	payouts := make([]PayoutRecord, 0, len(amounts))
	for _, amount := range amounts {
		payouts = append(payouts, PayoutRecord{
			Amount:    amount,
			Status:    PayoutStatusProcessed,
			CreatedAt: joined.AddDate(0, 1, 0),
		})
	}
	return ReferralRecord{Name: name, CreatedAt: joined, Payouts: payouts}
}

func TestReferralEmptyNetwork(t *testing.T) {
	insights := newReferralAnalyzer().Analyze(nil, referralNow)

	assert.Equal(t, 0, insights.TotalReferrals)
	assert.Equal(t, 0, insights.ActiveReferrals)
	assert.Equal(t, 0.0, insights.ReferralEfficiency)
	assert.Equal(t, 0.0, insights.TimelinePatterns.AveragePerMonth)
	assert.Empty(t, insights.ReferralQuality)
}

func TestActiveReferralsAndEfficiency(t *testing.T) {
	joined := referralNow.AddDate(0, -6, 0)
	referrals := []ReferralRecord{
		referralWithPayouts("alice", joined, 10),
		referralWithPayouts("bob", joined, 20, 30),
		{Name: "carol", CreatedAt: joined}, // never traded
		{Name: "dave", CreatedAt: joined},
	}

	insights := newReferralAnalyzer().Analyze(referrals, referralNow)

	assert.Equal(t, 4, insights.TotalReferrals)
	assert.Equal(t, 2, insights.ActiveReferrals)
	assert.Equal(t, 50.0, insights.ReferralEfficiency)
	assert.Equal(t, 60.0, insights.TotalReferralEarnings)
	assert.Equal(t, 30.0, insights.AverageReferralEarnings)
	assert.Len(t, insights.ReferralQuality, 2)
}

func TestReferralQualityBands(t *testing.T) {
	ra := newReferralAnalyzer()

	// Top earnings, top activity and three recent payouts hit the cap.
	heavy := ReferralRecord{Name: "heavy", CreatedAt: referralNow.AddDate(0, -3, 0)}
	for i := 0; i < 6; i++ {
		created := referralNow.AddDate(0, -2, 0)
		if i < 3 {
			created = referralNow.AddDate(0, 0, -5)
		}
		heavy.Payouts = append(heavy.Payouts, PayoutRecord{Amount: 25, Status: PayoutStatusProcessed, CreatedAt: created})
	}
	assert.Equal(t, 100, ra.qualityScore(heavy, referralNow))

	// One small old payout: 20 for earnings plus 10 for activity.
	light := referralWithPayouts("light", referralNow.AddDate(0, -6, 0), 5)
	assert.Equal(t, 30, ra.qualityScore(light, referralNow))

	// The recency bonus caps at 30 regardless of how many recent payouts.
	busy := ReferralRecord{Name: "busy", CreatedAt: referralNow.AddDate(0, -1, 0)}
	for i := 0; i < 10; i++ {
		busy.Payouts = append(busy.Payouts, PayoutRecord{Amount: 1, Status: PayoutStatusProcessed, CreatedAt: referralNow.AddDate(0, 0, -2)})
	}
	// 20 earnings + 30 activity + 30 bonus.
	assert.Equal(t, 80, ra.qualityScore(busy, referralNow))
}

func TestReferralDisplayNameFallback(t *testing.T) {
	assert.Equal(t, "alice", displayName(ReferralRecord{Name: "alice", Email: "a@x.io"}))
	assert.Equal(t, "bob", displayName(ReferralRecord{Email: "bob@example.com"}))
	assert.Equal(t, "Anonymous", displayName(ReferralRecord{}))
}

func TestReferralTimelinePatterns(t *testing.T) {
	referrals := []ReferralRecord{
		{CreatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)},
	}

	patterns := newReferralAnalyzer().Analyze(referrals, referralNow).TimelinePatterns

	assert.Equal(t, map[string]int{"2026-03": 2, "2026-05": 1}, patterns.MonthlyBreakdown)
	assert.Equal(t, PeakMonth{Month: "2026-03", Count: 2}, patterns.PeakMonth)
	assert.Equal(t, 1.5, patterns.AveragePerMonth)
}

func TestReferralTimelinePeakTieIsEarliestMonth(t *testing.T) {
	referrals := []ReferralRecord{
		{CreatedAt: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)},
		{CreatedAt: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)},
	}

	patterns := newReferralAnalyzer().Analyze(referrals, referralNow).TimelinePatterns

	assert.Equal(t, PeakMonth{Month: "2026-02", Count: 1}, patterns.PeakMonth)
}
