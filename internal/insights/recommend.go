package insights

import (
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// RecommendationEngine turns analyzer outputs into rule-based suggestions.
// It is the join point of the report: every rule reads completed analyzer
// results, so it runs only after the fan-out finishes.
type RecommendationEngine struct {
	logger *zap.Logger
}

// NewRecommendationEngine creates a new recommendation engine.
func NewRecommendationEngine(logger *zap.Logger) *RecommendationEngine {
	return &RecommendationEngine{
		logger: logger,
	}
}

// Build evaluates all rules in a fixed order. Sub-reports that failed and
// were isolated arrive nil; rules depending on them are skipped rather than
// blocking the rest.
func (re *RecommendationEngine) Build(snap *AccountSnapshot, trading *TradingInsights, referral *ReferralInsights) []Recommendation {
	recommendations := make([]Recommendation, 0, 4)

	if trading != nil {
		if rec := re.brokerRecommendation(trading); rec != nil {
			recommendations = append(recommendations, *rec)
		}
	}

	if referral != nil && referral.TotalReferrals < 5 {
		recommendations = append(recommendations, Recommendation{
			Type:        "referral",
			Priority:    "high",
			Title:       "Grow your referral network",
			Description: "Invite more friends to build passive rebate income",
			Action:      "Share your referral code",
		})
	}

	if snap.LockedAchievements > 0 {
		recommendations = append(recommendations, Recommendation{
			Type:        "achievement",
			Priority:    "low",
			Title:       "Unlock new achievements",
			Description: fmt.Sprintf("You have %d achievements left to unlock", snap.LockedAchievements),
			Action:      "Browse available achievements",
		})
	}

	if snap.Streak < 7 {
		recommendations = append(recommendations, Recommendation{
			Type:        "activity",
			Priority:    "medium",
			Title:       "Keep your streak alive",
			Description: "Sign in regularly to maintain your activity streak",
			Action:      "Sign in daily",
		})
	}

	return recommendations
}

// brokerRecommendation suggests the best underutilized broker when the
// account trades on more than one. Brokers rank by rebate efficiency, best
// first; everything after the best counts as underutilized.
func (re *RecommendationEngine) brokerRecommendation(trading *TradingInsights) *Recommendation {
	if len(trading.BrokerPerformance) < 2 {
		return nil
	}

	type ranked struct {
		broker     string
		efficiency float64
	}

	ranking := make([]ranked, 0, len(trading.BrokerPerformance))
	for _, broker := range sortedBrokers(trading.BrokerPerformance) {
		s := trading.BrokerPerformance[broker]
		var efficiency float64
		if s.Volume > 0 {
			efficiency = s.Earnings / s.Volume * 10000
		}
		ranking = append(ranking, ranked{broker: broker, efficiency: efficiency})
	}

	sort.SliceStable(ranking, func(i, j int) bool {
		return ranking[i].efficiency > ranking[j].efficiency
	})

	underutilized := ranking[1].broker
	return &Recommendation{
		Type:        "trading",
		Priority:    "medium",
		Title:       "Optimize your broker mix",
		Description: fmt.Sprintf("Consider routing more volume through %s to lift your rebate efficiency", underutilized),
		Action:      "Review broker performance",
	}
}
