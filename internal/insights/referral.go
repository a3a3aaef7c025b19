package insights

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ReferralAnalyzer scores the quality and timing of an account's referral
// network.
type ReferralAnalyzer struct {
	logger *zap.Logger
}

// NewReferralAnalyzer creates a new referral analyzer.
func NewReferralAnalyzer(logger *zap.Logger) *ReferralAnalyzer {
	return &ReferralAnalyzer{
		logger: logger,
	}
}

// Analyze computes the referral sub-report. A referral is active once it has
// at least one processed payout.
func (ra *ReferralAnalyzer) Analyze(referrals []ReferralRecord, now time.Time) *ReferralInsights {
	var totalEarnings float64
	active := make([]ReferralRecord, 0, len(referrals))
	for _, r := range referrals {
		totalEarnings += referralEarnings(r)
		if len(r.Payouts) > 0 {
			active = append(active, r)
		}
	}

	quality := make([]ReferralQuality, 0, len(active))
	for _, r := range active {
		quality = append(quality, ReferralQuality{
			Name:         displayName(r),
			Earnings:     referralEarnings(r),
			Activity:     len(r.Payouts),
			JoinedAt:     r.CreatedAt,
			QualityScore: ra.qualityScore(r, now),
		})
	}

	var avgEarnings float64
	if len(active) > 0 {
		avgEarnings = totalEarnings / float64(len(active))
	}

	var efficiency float64
	if len(referrals) > 0 {
		efficiency = float64(len(active)) / float64(len(referrals)) * 100
	}

	return &ReferralInsights{
		TotalReferrals:          len(referrals),
		ActiveReferrals:         len(active),
		TotalReferralEarnings:   totalEarnings,
		AverageReferralEarnings: avgEarnings,
		ReferralQuality:         quality,
		TimelinePatterns:        ra.timelinePatterns(referrals),
		ReferralEfficiency:      round2(efficiency),
	}
}

// qualityScore bands a referral by earnings and payout count, with a bonus
// for payouts in the trailing 30 days, clamped to [0, 100].
func (ra *ReferralAnalyzer) qualityScore(r ReferralRecord, now time.Time) int {
	earnings := referralEarnings(r)
	activity := len(r.Payouts)

	score := 0
	switch {
	case earnings > 100:
		score += 40
	case earnings > 50:
		score += 30
	case earnings > 0:
		score += 20
	}

	switch {
	case activity > 5:
		score += 30
	case activity > 2:
		score += 20
	case activity > 0:
		score += 10
	}

	recent := 0
	for _, p := range r.Payouts {
		if withinDays(p.CreatedAt, now, 30) {
			recent++
		}
	}
	bonus := recent * 10
	if bonus > 30 {
		bonus = 30
	}
	score += bonus

	if score > 100 {
		score = 100
	}
	return score
}

// timelinePatterns groups referrals by join month and finds the peak month.
// Peak ties resolve to the earliest month so the result is stable.
func (ra *ReferralAnalyzer) timelinePatterns(referrals []ReferralRecord) TimelinePatterns {
	breakdown := make(map[string]int)
	for _, r := range referrals {
		breakdown[monthOf(r.CreatedAt)]++
	}

	months := make([]string, 0, len(breakdown))
	for month := range breakdown {
		months = append(months, month)
	}
	sort.Strings(months)

	peak := PeakMonth{}
	var total int
	for _, month := range months {
		total += breakdown[month]
		if breakdown[month] > peak.Count {
			peak = PeakMonth{Month: month, Count: breakdown[month]}
		}
	}

	var avgPerMonth float64
	if len(months) > 0 {
		avgPerMonth = float64(total) / float64(len(months))
	}

	return TimelinePatterns{
		MonthlyBreakdown: breakdown,
		PeakMonth:        peak,
		AveragePerMonth:  avgPerMonth,
	}
}

func referralEarnings(r ReferralRecord) float64 {
	var sum float64
	for _, p := range r.Payouts {
		sum += p.Amount
	}
	return sum
}

// displayName falls back from the profile name to the email local part, then
// to a placeholder.
func displayName(r ReferralRecord) string {
	if r.Name != "" {
		return r.Name
	}
	if at := strings.Index(r.Email, "@"); at > 0 {
		return r.Email[:at]
	}
	return "Anonymous"
}
