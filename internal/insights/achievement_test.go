package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

var achievementNow = time.Date(2026, 8, 15, 12, 0, 0, 0, time.UTC)

func newAchievementAnalyzer() *AchievementAnalyzer {
	cfg := DefaultConfig()
	logger, _ := zap.NewDevelopment()
	return NewAchievementAnalyzer(cfg.CategoryTotals, cfg.DefaultCategoryTotal, logger)
}

func unlocked(category string, points int, daysAgo int) AchievementRecord {
	return AchievementRecord{
		Category:   category,
		Points:     points,
		UnlockedAt: achievementNow.AddDate(0, 0, -daysAgo),
	}
}

func TestAchievementEmpty(t *testing.T) {
	insights := newAchievementAnalyzer().Analyze(nil, achievementNow)

	assert.Equal(t, 0, insights.TotalAchievements)
	assert.Equal(t, 0, insights.TotalPoints)
	assert.Empty(t, insights.CategoryProgress)
	assert.Equal(t, "low", insights.AchievementMomentum)
	assert.Nil(t, insights.NextMilestone)
}

func TestAchievementCategoryProgress(t *testing.T) {
	achievements := []AchievementRecord{
		unlocked("TRADING", 50, 200),
		unlocked("TRADING", 30, 180),
		unlocked("TRADING", 20, 150),
		unlocked("SAVINGS", 10, 120),
	}

	insights := newAchievementAnalyzer().Analyze(achievements, achievementNow)

	assert.Equal(t, 4, insights.TotalAchievements)
	assert.Equal(t, 110, insights.TotalPoints)

	// Categories come back sorted for deterministic output.
	assert.Len(t, insights.CategoryProgress, 2)
	assert.Equal(t, "SAVINGS", insights.CategoryProgress[0].Category)
	assert.Equal(t, "TRADING", insights.CategoryProgress[1].Category)

	// 3 of the 15 reference TRADING achievements is 20%.
	assert.Equal(t, 3, insights.CategoryProgress[1].Count)
	assert.Equal(t, 100, insights.CategoryProgress[1].TotalPoints)
	assert.Equal(t, 20, insights.CategoryProgress[1].CompletionRate)

	// 1 of 10 for SAVINGS.
	assert.Equal(t, 10, insights.CategoryProgress[0].CompletionRate)
}

func TestAchievementUnknownCategoryUsesDefaultTotal(t *testing.T) {
	insights := newAchievementAnalyzer().Analyze([]AchievementRecord{
		unlocked("MYSTERY", 5, 60),
	}, achievementNow)

	// Default reference total is 10.
	assert.Equal(t, 10, insights.CategoryProgress[0].CompletionRate)
}

func TestAchievementMomentum(t *testing.T) {
	aa := newAchievementAnalyzer()

	// Any unlock in the trailing 30 days is high momentum.
	recent := aa.Analyze([]AchievementRecord{unlocked("TRADING", 10, 5)}, achievementNow)
	assert.Equal(t, 1, recent.RecentAchievements)
	assert.Equal(t, "high", recent.AchievementMomentum)

	// More than five lifetime unlocks, none recent, is medium.
	var many []AchievementRecord
	for i := 0; i < 6; i++ {
		many = append(many, unlocked("ACTIVITY", 10, 100+i))
	}
	assert.Equal(t, "medium", aa.Analyze(many, achievementNow).AchievementMomentum)

	// A few stale unlocks is low.
	few := []AchievementRecord{unlocked("ACTIVITY", 10, 100)}
	assert.Equal(t, "low", aa.Analyze(few, achievementNow).AchievementMomentum)
}
