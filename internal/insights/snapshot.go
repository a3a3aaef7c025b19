package insights

import "time"

// PayoutStatus represents the processing state of a rebate payout.
type PayoutStatus string

const (
	PayoutStatusPending   PayoutStatus = "PENDING"
	PayoutStatusProcessed PayoutStatus = "PROCESSED"
	PayoutStatusFailed    PayoutStatus = "FAILED"
)

// PayoutRecord is a single rebate disbursement tied to a trading period and broker.
type PayoutRecord struct {
	Amount        float64
	Currency      string
	Period        string // year-month label, e.g. "2026-03"
	Broker        string
	TradingVolume float64
	FeeRate       float64
	Status        PayoutStatus
	CreatedAt     time.Time
	ProcessedAt   *time.Time
}

// ReferralRecord is a referred account together with its processed payouts.
type ReferralRecord struct {
	Name      string
	Email     string
	CreatedAt time.Time
	Payouts   []PayoutRecord
}

// AchievementRecord is a single unlocked achievement.
type AchievementRecord struct {
	Category   string
	Points     int
	UnlockedAt time.Time
}

// ActivityRecord is one entry of the account's bounded activity history.
type ActivityRecord struct {
	Type      string
	CreatedAt time.Time
}

// AccountSnapshot is one consistent read of an account's records and profile
// fields. The engine treats it as immutable: analyzers never mutate the
// snapshot or any record it owns.
type AccountSnapshot struct {
	UserID        string
	Tier          string
	TotalSaved    float64
	Streak        int
	TradingVolume float64

	Payouts      []PayoutRecord
	Referrals    []ReferralRecord
	Achievements []AchievementRecord
	Activities   []ActivityRecord

	// LockedAchievements counts catalog achievements the account has not
	// unlocked yet. Supplied by the loader from the platform catalog.
	LockedAchievements int
}

// ProcessedPayouts returns only the payouts that finished processing. Loaders
// are expected to supply PROCESSED records already, but the financial
// analyzers must never see pending or failed rows regardless of the source.
func (s *AccountSnapshot) ProcessedPayouts() []PayoutRecord {
	processed := make([]PayoutRecord, 0, len(s.Payouts))
	for _, p := range s.Payouts {
		if p.Status == PayoutStatusProcessed {
			processed = append(processed, p)
		}
	}
	return processed
}
