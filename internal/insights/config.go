package insights

// TierRequirement describes one tier and the cumulative earnings needed to
// reach the tier after it. NextTier is empty for the top tier.
type TierRequirement struct {
	MinEarnings      float64
	NextTier         string
	RequiredEarnings float64
}

// Baseline holds platform-wide reference figures used for the peer
// comparison. Kept in configuration so the estimate stays deterministic and
// replaceable by a real rollup later.
type Baseline struct {
	AverageEarnings float64
	TotalUsers      int
}

// Config carries every tunable the engine needs. Engines are constructed
// with an explicit Config so parallel instances can run with different
// tables, there is no package-level state.
type Config struct {
	// TierRequirements maps a tier name to its advancement thresholds.
	TierRequirements map[string]TierRequirement

	// CategoryTotals is the reference number of achievements per category,
	// used for completion-rate estimates. DefaultCategoryTotal covers
	// categories missing from the table.
	CategoryTotals       map[string]int
	DefaultCategoryTotal int

	// ReferralGrowthMultiplier scales the trailing-90-day referral rate into
	// the next-month projection.
	ReferralGrowthMultiplier float64

	// AchievementFallbackDays is the predicted days to the next achievement
	// when there were no unlocks in the trailing 30 days.
	AchievementFallbackDays int

	Baseline Baseline
}

// DefaultConfig returns the production defaults. Callers normally override
// these from the deployment configuration.
func DefaultConfig() Config {
	return Config{
		TierRequirements: map[string]TierRequirement{
			"BRONZE":   {MinEarnings: 0, NextTier: "SILVER", RequiredEarnings: 500},
			"SILVER":   {MinEarnings: 500, NextTier: "GOLD", RequiredEarnings: 1500},
			"GOLD":     {MinEarnings: 1500, NextTier: "PLATINUM", RequiredEarnings: 3000},
			"PLATINUM": {MinEarnings: 3000, NextTier: "DIAMOND", RequiredEarnings: 5000},
			"DIAMOND":  {MinEarnings: 5000},
		},
		CategoryTotals: map[string]int{
			"SAVINGS":   10,
			"REFERRALS": 8,
			"ACTIVITY":  12,
			"TRADING":   15,
			"LOYALTY":   6,
			"SPECIAL":   5,
		},
		DefaultCategoryTotal:     10,
		ReferralGrowthMultiplier: 1.10,
		AchievementFallbackDays:  90,
		Baseline: Baseline{
			AverageEarnings: 250,
			TotalUsers:      1000,
		},
	}
}
