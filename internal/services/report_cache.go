package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/apexrebate/insight-service/internal/insights"
)

// ReportCache stores generated insight reports in Redis with a TTL so
// repeat dashboard loads skip regeneration. A nil *ReportCache is a valid
// no-op cache; every method tolerates it.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportCache creates a Redis-backed report cache
func NewReportCache(addr, password string, db int, ttl time.Duration, logger *zap.Logger) (*ReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &ReportCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}, nil
}

func (c *ReportCache) key(userID string) string {
	return "insights:report:" + userID
}

// Get returns the cached report for a user, or nil on a miss
func (c *ReportCache) Get(ctx context.Context, userID string) (*insights.InsightReport, error) {
	if c == nil {
		return nil, nil
	}

	data, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached report: %w", err)
	}

	var report insights.InsightReport
	if err := json.Unmarshal(data, &report); err != nil {
		// Corrupt entries are dropped rather than served
		c.logger.Warn("Discarding unreadable cached report",
			zap.String("user_id", userID),
			zap.Error(err))
		c.client.Del(ctx, c.key(userID))
		return nil, nil
	}

	c.logger.Debug("Report cache hit", zap.String("user_id", userID))
	return &report, nil
}

// Set stores a report for a user under the configured TTL
func (c *ReportCache) Set(ctx context.Context, userID string, report *insights.InsightReport) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := c.client.Set(ctx, c.key(userID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache report: %w", err)
	}

	return nil
}

// Invalidate removes a user's cached report, if any
func (c *ReportCache) Invalidate(ctx context.Context, userID string) error {
	if c == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(userID)).Err()
}

// Close releases the Redis connection
func (c *ReportCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
