package insights

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"
)

// AchievementAnalyzer summarizes unlocked achievements per category and
// classifies unlock momentum.
type AchievementAnalyzer struct {
	categoryTotals map[string]int
	defaultTotal   int
	logger         *zap.Logger
}

// NewAchievementAnalyzer creates a new achievement analyzer. The category
// totals table is reference data owned by configuration, not the analyzer.
func NewAchievementAnalyzer(categoryTotals map[string]int, defaultTotal int, logger *zap.Logger) *AchievementAnalyzer {
	return &AchievementAnalyzer{
		categoryTotals: categoryTotals,
		defaultTotal:   defaultTotal,
		logger:         logger,
	}
}

// Analyze computes the achievement sub-report.
func (aa *AchievementAnalyzer) Analyze(achievements []AchievementRecord, now time.Time) *AchievementInsights {
	byCategory := make(map[string][]AchievementRecord)
	totalPoints := 0
	recent := 0
	for _, a := range achievements {
		byCategory[a.Category] = append(byCategory[a.Category], a)
		totalPoints += a.Points
		if withinDays(a.UnlockedAt, now, 30) {
			recent++
		}
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	progress := make([]CategoryProgress, 0, len(categories))
	for _, category := range categories {
		group := byCategory[category]
		points := 0
		for _, a := range group {
			points += a.Points
		}
		progress = append(progress, CategoryProgress{
			Category:       category,
			Count:          len(group),
			TotalPoints:    points,
			CompletionRate: aa.completionRate(category, len(group)),
		})
	}

	return &AchievementInsights{
		TotalAchievements:   len(achievements),
		TotalPoints:         totalPoints,
		CategoryProgress:    progress,
		RecentAchievements:  recent,
		AchievementMomentum: momentum(recent, len(achievements)),
		NextMilestone:       nil,
	}
}

// completionRate estimates progress against the category's reference total.
func (aa *AchievementAnalyzer) completionRate(category string, count int) int {
	total, ok := aa.categoryTotals[category]
	if !ok || total <= 0 {
		total = aa.defaultTotal
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// momentum is high with any unlock in the trailing 30 days, medium for
// accounts with more than five lifetime unlocks, low otherwise.
func momentum(recent, total int) string {
	if recent > 0 {
		return "high"
	}
	if total > 5 {
		return "medium"
	}
	return "low"
}
