package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User represents a rebate platform account
type User struct {
	ID    uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Email string    `json:"email" gorm:"not null;uniqueIndex"`
	Name  string    `json:"name"`

	// Profile aggregates maintained by the payout pipeline
	Tier          string  `json:"tier" gorm:"default:'BRONZE'"` // BRONZE, SILVER, GOLD, PLATINUM, DIAMOND
	TotalSaved    float64 `json:"total_saved" gorm:"default:0"`
	CurrentStreak int     `json:"current_streak" gorm:"default:0"`
	TradingVolume float64 `json:"trading_volume" gorm:"default:0"`

	// Referral chain
	ReferredByID *uuid.UUID `json:"referred_by_id,omitempty" gorm:"type:uuid;index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Payout represents a rebate disbursement for one trading period on one broker
type Payout struct {
	ID     uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index"`

	// Payout Details
	Amount        float64 `json:"amount" gorm:"not null"`
	Currency      string  `json:"currency" gorm:"default:'USD'"`
	Period        string  `json:"period" gorm:"not null;index"` // 2026-03, etc.
	Broker        string  `json:"broker" gorm:"not null"`       // binance, bybit, okx, etc.
	TradingVolume float64 `json:"trading_volume"`
	FeeRate       float64 `json:"fee_rate"`

	// Processing Status
	Status      string     `json:"status" gorm:"default:'PENDING';index"` // PENDING, PROCESSED, FAILED
	ProcessedAt *time.Time `json:"processed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Achievement is a catalog entry users can unlock
type Achievement struct {
	ID          uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Code        string    `json:"code" gorm:"not null;uniqueIndex"`
	Name        string    `json:"name" gorm:"not null"`
	Description string    `json:"description"`
	Category    string    `json:"category" gorm:"not null;index"` // TRADING, SAVINGS, REFERRAL, ACTIVITY
	Points      int       `json:"points" gorm:"default:10"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserAchievement links a user to an unlocked catalog achievement
type UserAchievement struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID        uuid.UUID `json:"user_id" gorm:"type:uuid;not null;index:idx_user_achievement,unique"`
	AchievementID uuid.UUID `json:"achievement_id" gorm:"type:uuid;not null;index:idx_user_achievement,unique"`
	UnlockedAt    time.Time `json:"unlocked_at" gorm:"not null"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserActivity is one entry in a user's activity feed
type UserActivity struct {
	ID       uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID   uuid.UUID      `json:"user_id" gorm:"type:uuid;not null;index"`
	Type     string         `json:"type" gorm:"not null"` // payout_received, referral_joined, achievement_unlocked, etc.
	Metadata datatypes.JSON `json:"metadata" gorm:"type:jsonb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Table names
func (u *User) TableName() string             { return "users" }
func (p *Payout) TableName() string           { return "payouts" }
func (a *Achievement) TableName() string      { return "achievements" }
func (ua *UserAchievement) TableName() string { return "user_achievements" }
func (ua *UserActivity) TableName() string    { return "user_activities" }

// Hooks
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// Safety check: only execute if we have a valid database connection
	if tx == nil || tx.Statement == nil {
		return nil
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = time.Now()
	return nil
}

func (p *Payout) BeforeCreate(tx *gorm.DB) error {
	// Safety check: only execute if we have a valid database connection
	if tx == nil || tx.Statement == nil {
		return nil
	}

	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()
	p.UpdatedAt = time.Now()
	return nil
}

func (a *Achievement) BeforeCreate(tx *gorm.DB) error {
	// Safety check: only execute if we have a valid database connection
	if tx == nil || tx.Statement == nil {
		return nil
	}

	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	return nil
}

func (ua *UserAchievement) BeforeCreate(tx *gorm.DB) error {
	// Safety check: only execute if we have a valid database connection
	if tx == nil || tx.Statement == nil {
		return nil
	}

	if ua.ID == uuid.Nil {
		ua.ID = uuid.New()
	}
	ua.CreatedAt = time.Now()
	ua.UpdatedAt = time.Now()
	return nil
}

func (ua *UserActivity) BeforeCreate(tx *gorm.DB) error {
	// Safety check: only execute if we have a valid database connection
	if tx == nil || tx.Statement == nil {
		return nil
	}

	if ua.ID == uuid.Nil {
		ua.ID = uuid.New()
	}
	ua.CreatedAt = time.Now()
	ua.UpdatedAt = time.Now()
	return nil
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// Safety check: only execute if we have a valid database connection
	if tx == nil || tx.Statement == nil {
		return nil
	}

	u.UpdatedAt = time.Now()
	return nil
}

func (p *Payout) BeforeUpdate(tx *gorm.DB) error {
	// Safety check: only execute if we have a valid database connection
	if tx == nil || tx.Statement == nil {
		return nil
	}

	p.UpdatedAt = time.Now()
	return nil
}
