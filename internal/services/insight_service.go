package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/apexrebate/insight-service/internal/insights"
	"github.com/apexrebate/insight-service/internal/models"
)

// ErrUserNotFound is returned when the requested account does not exist
var ErrUserNotFound = errors.New("user not found")

// activityHistoryLimit bounds the activity feed slice loaded per snapshot
const activityHistoryLimit = 100

// InsightService loads account snapshots and produces insight reports,
// consulting the report cache before regenerating.
type InsightService struct {
	db     *gorm.DB
	engine *insights.Engine
	cache  *ReportCache
	logger *zap.Logger
}

// NewInsightService creates a new insight service
func NewInsightService(db *gorm.DB, engine *insights.Engine, cache *ReportCache, logger *zap.Logger) *InsightService {
	return &InsightService{
		db:     db,
		engine: engine,
		cache:  cache,
		logger: logger,
	}
}

// GetInsights returns the insight report for a user, served from cache when
// a fresh copy exists.
func (s *InsightService) GetInsights(ctx context.Context, userID string) (*insights.InsightReport, error) {
	if cached, err := s.cache.Get(ctx, userID); err != nil {
		s.logger.Warn("Report cache lookup failed", zap.String("user_id", userID), zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	snapshot, err := s.LoadSnapshot(ctx, userID)
	if err != nil {
		return nil, err
	}

	report, err := s.engine.GenerateReport(ctx, snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	if err := s.cache.Set(ctx, userID, report); err != nil {
		s.logger.Warn("Failed to cache report", zap.String("user_id", userID), zap.Error(err))
	}

	return report, nil
}

// LoadSnapshot reads one consistent snapshot of an account's records. All
// per-account collections are loaded in full; the activity feed is bounded
// to the most recent entries.
func (s *InsightService) LoadSnapshot(ctx context.Context, userID string) (*insights.AccountSnapshot, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	payouts, err := s.loadPayouts(ctx, userID)
	if err != nil {
		return nil, err
	}

	referrals, err := s.loadReferrals(ctx, userID)
	if err != nil {
		return nil, err
	}

	achievements, locked, err := s.loadAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	activities, err := s.loadActivities(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &insights.AccountSnapshot{
		UserID:             user.ID.String(),
		Tier:               user.Tier,
		TotalSaved:         user.TotalSaved,
		Streak:             user.CurrentStreak,
		TradingVolume:      user.TradingVolume,
		Payouts:            payouts,
		Referrals:          referrals,
		Achievements:       achievements,
		Activities:         activities,
		LockedAchievements: locked,
	}, nil
}

func (s *InsightService) loadPayouts(ctx context.Context, userID string) ([]insights.PayoutRecord, error) {
	var rows []models.Payout
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load payouts: %w", err)
	}

	payouts := make([]insights.PayoutRecord, 0, len(rows))
	for _, row := range rows {
		payouts = append(payouts, payoutRecord(row))
	}
	return payouts, nil
}

func (s *InsightService) loadReferrals(ctx context.Context, userID string) ([]insights.ReferralRecord, error) {
	var referredUsers []models.User
	err := s.db.WithContext(ctx).
		Where("referred_by_id = ?", userID).
		Order("created_at ASC").
		Find(&referredUsers).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load referrals: %w", err)
	}

	if len(referredUsers) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(referredUsers))
	for _, ru := range referredUsers {
		ids = append(ids, ru.ID.String())
	}

	var payoutRows []models.Payout
	err = s.db.WithContext(ctx).
		Where("user_id IN ? AND status = ?", ids, string(insights.PayoutStatusProcessed)).
		Order("created_at ASC").
		Find(&payoutRows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load referral payouts: %w", err)
	}

	payoutsByUser := make(map[string][]insights.PayoutRecord)
	for _, row := range payoutRows {
		key := row.UserID.String()
		payoutsByUser[key] = append(payoutsByUser[key], payoutRecord(row))
	}

	referrals := make([]insights.ReferralRecord, 0, len(referredUsers))
	for _, ru := range referredUsers {
		referrals = append(referrals, insights.ReferralRecord{
			Name:      ru.Name,
			Email:     ru.Email,
			CreatedAt: ru.CreatedAt,
			Payouts:   payoutsByUser[ru.ID.String()],
		})
	}
	return referrals, nil
}

func (s *InsightService) loadAchievements(ctx context.Context, userID string) ([]insights.AchievementRecord, int, error) {
	type achievementRow struct {
		Category   string
		Points     int
		UnlockedAt time.Time
	}

	var rows []achievementRow
	err := s.db.WithContext(ctx).
		Table("user_achievements").
		Select("achievements.category, achievements.points, user_achievements.unlocked_at").
		Joins("JOIN achievements ON achievements.id = user_achievements.achievement_id").
		Where("user_achievements.user_id = ?", userID).
		Order("user_achievements.unlocked_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to load achievements: %w", err)
	}

	var catalogSize int64
	if err := s.db.WithContext(ctx).Model(&models.Achievement{}).Count(&catalogSize).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count achievement catalog: %w", err)
	}

	achievements := make([]insights.AchievementRecord, 0, len(rows))
	for _, row := range rows {
		achievements = append(achievements, insights.AchievementRecord{
			Category:   row.Category,
			Points:     row.Points,
			UnlockedAt: row.UnlockedAt,
		})
	}

	locked := int(catalogSize) - len(achievements)
	if locked < 0 {
		locked = 0
	}
	return achievements, locked, nil
}

func (s *InsightService) loadActivities(ctx context.Context, userID string) ([]insights.ActivityRecord, error) {
	var rows []models.UserActivity
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(activityHistoryLimit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load activities: %w", err)
	}

	activities := make([]insights.ActivityRecord, 0, len(rows))
	for _, row := range rows {
		activities = append(activities, insights.ActivityRecord{
			Type:      row.Type,
			CreatedAt: row.CreatedAt,
		})
	}
	return activities, nil
}

func payoutRecord(row models.Payout) insights.PayoutRecord {
	return insights.PayoutRecord{
		Amount:        row.Amount,
		Currency:      row.Currency,
		Period:        row.Period,
		Broker:        row.Broker,
		TradingVolume: row.TradingVolume,
		FeeRate:       row.FeeRate,
		Status:        insights.PayoutStatus(row.Status),
		CreatedAt:     row.CreatedAt,
		ProcessedAt:   row.ProcessedAt,
	}
}
