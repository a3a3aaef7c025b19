package database

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/apexrebate/insight-service/internal/models"
)

// Connect opens the PostgreSQL connection configured through viper
func Connect(logger *zap.Logger) (*gorm.DB, error) {
	host := viper.GetString("database.host")
	user := viper.GetString("database.user")
	password := viper.GetString("database.password")
	dbname := viper.GetString("database.name")
	port := viper.GetInt("database.port")
	sslMode := viper.GetString("database.ssl_mode")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		host, user, password, dbname, port, sslMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test the connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Info("Database connection established successfully")
	return db, nil
}

// RunMigrations creates or updates the schema for all models
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Payout{},
		&models.Achievement{},
		&models.UserAchievement{},
		&models.UserActivity{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// SeedAchievements populates the achievement catalog with the reference set.
// Existing rows are left alone so re-seeding on startup is safe.
func SeedAchievements(db *gorm.DB) error {
	catalog := []models.Achievement{
		{Code: "FIRST_PAYOUT", Name: "First Payout", Description: "Receive your first rebate payout", Category: "TRADING", Points: 10},
		{Code: "VOLUME_10K", Name: "Volume Trader", Description: "Reach $10,000 in tracked trading volume", Category: "TRADING", Points: 20},
		{Code: "VOLUME_100K", Name: "High Roller", Description: "Reach $100,000 in tracked trading volume", Category: "TRADING", Points: 50},
		{Code: "MULTI_BROKER", Name: "Diversified", Description: "Earn rebates on three different brokers", Category: "TRADING", Points: 30},
		{Code: "SAVED_100", Name: "Century Saver", Description: "Save $100 in total rebates", Category: "SAVINGS", Points: 10},
		{Code: "SAVED_1K", Name: "Serious Saver", Description: "Save $1,000 in total rebates", Category: "SAVINGS", Points: 30},
		{Code: "SAVED_5K", Name: "Rebate Master", Description: "Save $5,000 in total rebates", Category: "SAVINGS", Points: 50},
		{Code: "FIRST_REFERRAL", Name: "Word of Mouth", Description: "Refer your first trader", Category: "REFERRALS", Points: 15},
		{Code: "REFERRAL_5", Name: "Network Builder", Description: "Refer five active traders", Category: "REFERRALS", Points: 30},
		{Code: "REFERRAL_20", Name: "Community Leader", Description: "Refer twenty active traders", Category: "REFERRALS", Points: 60},
		{Code: "STREAK_7", Name: "One Week Strong", Description: "Maintain a seven day activity streak", Category: "ACTIVITY", Points: 10},
		{Code: "STREAK_30", Name: "Habitual", Description: "Maintain a thirty day activity streak", Category: "ACTIVITY", Points: 25},
		{Code: "STREAK_90", Name: "Relentless", Description: "Maintain a ninety day activity streak", Category: "ACTIVITY", Points: 60},
	}

	for _, achievement := range catalog {
		var existing models.Achievement
		err := db.Where("code = ?", achievement.Code).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&achievement).Error; err != nil {
				return fmt.Errorf("failed to seed achievement %s: %w", achievement.Code, err)
			}
		} else if err != nil {
			return fmt.Errorf("failed to check achievement %s: %w", achievement.Code, err)
		}
	}

	return nil
}
