package insights

import "time"

// InsightReport is the composite report returned to the caller. Sub-reports
// are pointers so a failed analyzer can be isolated: its field stays nil and
// its name is recorded in Unavailable while the rest of the report is served.
type InsightReport struct {
	Performance     *PerformanceInsights `json:"performance"`
	Trading         *TradingInsights     `json:"trading"`
	Referral        *ReferralInsights    `json:"referral"`
	Achievement     *AchievementInsights `json:"achievement"`
	Predictive      *PredictiveInsights  `json:"predictive"`
	Risk            *RiskAssessment      `json:"risk"`
	Recommendations []Recommendation     `json:"recommendations"`
	Unavailable     []string             `json:"unavailable,omitempty"`
	GeneratedAt     time.Time            `json:"generated_at"`
	DataQuality     int                  `json:"data_quality"`
}

// PeerComparison estimates the account's standing against the platform-wide
// baseline. The percentile is a deterministic estimate derived from the
// configured baseline, never a live query.
type PeerComparison struct {
	Percentile float64 `json:"percentile"`
	BetterThan float64 `json:"better_than"`
	TotalUsers int     `json:"total_users"`
}

// PerformanceInsights summarizes earning efficiency, consistency and growth.
type PerformanceInsights struct {
	TotalEarnings       float64        `json:"total_earnings"`
	EfficiencyRate      float64        `json:"efficiency_rate"` // basis points
	ConsistencyScore    int            `json:"consistency_score"`
	GrowthTrend         float64        `json:"growth_trend"` // signed percentage
	PerformanceGrade    string         `json:"performance_grade"`
	ComparisonToAverage PeerComparison `json:"comparison_to_average"`
}

// BrokerStats accumulates processed payouts for a single broker.
type BrokerStats struct {
	Count    int     `json:"count"`
	Volume   float64 `json:"volume"`
	Earnings float64 `json:"earnings"`
}

// BestBroker is the broker with the highest rebate efficiency.
type BestBroker struct {
	Broker     string      `json:"broker"`
	Efficiency float64     `json:"efficiency"` // basis points
	Stats      BrokerStats `json:"stats"`
}

// FrequencyPattern classifies how often payouts occur.
type FrequencyPattern struct {
	Frequency string `json:"frequency"` // high, medium, low, none
	Pattern   string `json:"pattern"`   // weekly, monthly, irregular, none
}

// VolumePattern summarizes trading volume spread across payouts.
type VolumePattern struct {
	Average    float64 `json:"average"`
	Maximum    float64 `json:"maximum"`
	Minimum    float64 `json:"minimum"`
	Volatility float64 `json:"volatility"` // percentage of the maximum
}

// TradingInsights summarizes per-broker performance and trading habits.
type TradingInsights struct {
	BrokerPerformance    map[string]BrokerStats `json:"broker_performance"`
	BestBroker           BestBroker             `json:"best_broker"`
	TradingFrequency     FrequencyPattern       `json:"trading_frequency"`
	VolumePatterns       VolumePattern          `json:"volume_patterns"`
	DiversificationScore int                    `json:"diversification_score"`
}

// ReferralQuality scores a single active referral.
type ReferralQuality struct {
	Name         string    `json:"name"`
	Earnings     float64   `json:"earnings"`
	Activity     int       `json:"activity"`
	JoinedAt     time.Time `json:"joined_at"`
	QualityScore int       `json:"quality_score"`
}

// PeakMonth is the month with the most referral joins.
type PeakMonth struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// TimelinePatterns describes when referrals joined.
type TimelinePatterns struct {
	MonthlyBreakdown map[string]int `json:"monthly_breakdown"`
	PeakMonth        PeakMonth      `json:"peak_month"`
	AveragePerMonth  float64        `json:"average_per_month"`
}

// ReferralInsights summarizes the referral network.
type ReferralInsights struct {
	TotalReferrals          int               `json:"total_referrals"`
	ActiveReferrals         int               `json:"active_referrals"`
	TotalReferralEarnings   float64           `json:"total_referral_earnings"`
	AverageReferralEarnings float64           `json:"average_referral_earnings"`
	ReferralQuality         []ReferralQuality `json:"referral_quality"`
	TimelinePatterns        TimelinePatterns  `json:"timeline_patterns"`
	ReferralEfficiency      float64           `json:"referral_efficiency"`
}

// CategoryProgress is achievement progress within one category.
type CategoryProgress struct {
	Category       string `json:"category"`
	Count          int    `json:"count"`
	TotalPoints    int    `json:"total_points"`
	CompletionRate int    `json:"completion_rate"` // percentage of the category catalog
}

// AchievementInsights summarizes unlocked achievements.
type AchievementInsights struct {
	TotalAchievements   int                `json:"total_achievements"`
	TotalPoints         int                `json:"total_points"`
	CategoryProgress    []CategoryProgress `json:"category_progress"`
	RecentAchievements  int                `json:"recent_achievements"`
	AchievementMomentum string             `json:"achievement_momentum"` // high, medium, low
	NextMilestone       *string            `json:"next_milestone"`
}

// EarningsForecast is the regression-based next-period prediction.
type EarningsForecast struct {
	Amount     float64 `json:"amount"`
	Confidence string  `json:"confidence"` // high, medium, low
}

// TierProgression projects advancement to the next account tier.
type TierProgression struct {
	CurrentTier  string  `json:"current_tier"`
	NextTier     *string `json:"next_tier"`
	MonthsToNext *int    `json:"months_to_next"`
	Progress     int     `json:"progress"` // percentage toward the next tier
}

// ReferralGrowth projects the referral network's near-term growth.
type ReferralGrowth struct {
	CurrentRate        float64 `json:"current_rate"` // referrals per month
	PredictedNextMonth int     `json:"predicted_next_month"`
	Confidence         string  `json:"confidence"`
}

// AchievementTimeline projects when the next achievement unlock happens.
type AchievementTimeline struct {
	CurrentRate       int    `json:"current_rate"` // unlocks in the trailing 30 days
	PredictedNextDays int    `json:"predicted_next_achievement"`
	Confidence        string `json:"confidence"`
}

// PredictiveInsights bundles all forward-looking projections.
type PredictiveInsights struct {
	NextPeriod          EarningsForecast    `json:"next_period_prediction"`
	TierProgression     TierProgression     `json:"tier_progression"`
	ReferralGrowth      ReferralGrowth      `json:"referral_growth"`
	AchievementTimeline AchievementTimeline `json:"achievement_timeline"`
	ConfidenceLevel     int                 `json:"confidence_level"` // 0-100
}

// RiskLevel bands a finding's severity.
type RiskLevel string

const (
	RiskLevelLow    RiskLevel = "low"
	RiskLevelMedium RiskLevel = "medium"
	RiskLevelHigh   RiskLevel = "high"
)

// RiskFinding is a single detected risk with a suggested mitigation.
type RiskFinding struct {
	Type        string    `json:"type"`
	Level       RiskLevel `json:"level"`
	Description string    `json:"description"`
	Mitigation  string    `json:"mitigation"`
}

// RiskAssessment aggregates all findings into an overall level and score.
type RiskAssessment struct {
	Findings         []RiskFinding `json:"risks"`
	OverallRiskLevel RiskLevel     `json:"overall_risk_level"`
	RiskScore        int           `json:"risk_score"` // 100 is risk-free
}

// Recommendation is a rule-based suggestion for the account.
type Recommendation struct {
	Type        string `json:"type"`
	Priority    string `json:"priority"` // high, medium, low
	Title       string `json:"title"`
	Description string `json:"description"`
	Action      string `json:"action"`
}
