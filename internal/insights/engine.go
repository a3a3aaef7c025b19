package insights

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Engine orchestrates the analyzers over one immutable snapshot and
// assembles the final report. It holds no mutable state across invocations;
// one engine can serve concurrent requests.
type Engine struct {
	cfg Config

	performance *PerformanceAnalyzer
	trading     *TradingPatternAnalyzer
	referral    *ReferralAnalyzer
	achievement *AchievementAnalyzer
	forecaster  *PredictiveForecaster
	risk        *RiskAssessor
	recommender *RecommendationEngine

	logger *zap.Logger
	tracer trace.Tracer
	now    func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the engine's clock. Tests inject a fixed clock so
// trailing-window math is reproducible.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an insight engine with the given configuration.
func NewEngine(cfg Config, logger *zap.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:         cfg,
		performance: NewPerformanceAnalyzer(cfg.Baseline, logger),
		trading:     NewTradingPatternAnalyzer(logger),
		referral:    NewReferralAnalyzer(logger),
		achievement: NewAchievementAnalyzer(cfg.CategoryTotals, cfg.DefaultCategoryTotal, logger),
		forecaster:  NewPredictiveForecaster(cfg, logger),
		risk:        NewRiskAssessor(logger),
		recommender: NewRecommendationEngine(logger),
		logger:      logger,
		tracer:      otel.Tracer("insight-engine"),
		now:         time.Now,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// GenerateReport runs the six analyzers concurrently over the snapshot,
// joins their results, derives recommendations, and stamps the report.
//
// Analyzer failures are isolated: a panicking analyzer is logged, its
// sub-report stays nil, and its name lands in the report's Unavailable list
// while every other section still returns.
func (e *Engine) GenerateReport(ctx context.Context, snap *AccountSnapshot) (*InsightReport, error) {
	ctx, span := e.tracer.Start(ctx, "insights.GenerateReport", trace.WithAttributes(
		attribute.String("user_id", snap.UserID),
		attribute.Int("payout_count", len(snap.Payouts)),
		attribute.Int("referral_count", len(snap.Referrals)),
	))
	defer span.End()

	started := e.now()
	now := started

	payouts := snap.ProcessedPayouts()
	buckets := AggregateMonthly(payouts)

	report := &InsightReport{}

	var mu sync.Mutex
	markUnavailable := func(name string, cause interface{}) {
		e.logger.Error("Analyzer failed, isolating sub-report",
			zap.String("analyzer", name),
			zap.String("user_id", snap.UserID),
			zap.Any("cause", cause))
		mu.Lock()
		report.Unavailable = append(report.Unavailable, name)
		mu.Unlock()
	}

	run := func(name string, fn func()) func() error {
		return func() error {
			defer func() {
				if r := recover(); r != nil {
					markUnavailable(name, r)
				}
			}()
			_, analyzerSpan := e.tracer.Start(ctx, "insights."+name)
			defer analyzerSpan.End()
			fn()
			return nil
		}
	}

	// The six analyzers are independent pure functions of the snapshot, so
	// they fan out; each one writes only its own report field.
	g, _ := errgroup.WithContext(ctx)
	g.Go(run("performance", func() { report.Performance = e.performance.Analyze(payouts, buckets) }))
	g.Go(run("trading", func() { report.Trading = e.trading.Analyze(payouts) }))
	g.Go(run("referral", func() { report.Referral = e.referral.Analyze(snap.Referrals, now) }))
	g.Go(run("achievement", func() { report.Achievement = e.achievement.Analyze(snap.Achievements, now) }))
	g.Go(run("predictive", func() { report.Predictive = e.forecaster.Forecast(snap, buckets, now) }))
	g.Go(run("risk", func() { report.Risk = e.risk.Assess(payouts, now) }))
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Join point: recommendations read completed analyzer outputs.
	report.Recommendations = e.recommender.Build(snap, report.Trading, report.Referral)

	report.DataQuality = dataQuality(snap, now)
	report.GeneratedAt = now.UTC()

	e.logger.Info("Insight report generated",
		zap.String("user_id", snap.UserID),
		zap.Int("data_quality", report.DataQuality),
		zap.Int("recommendations", len(report.Recommendations)),
		zap.Strings("unavailable", report.Unavailable),
		zap.Duration("elapsed", time.Since(started)))

	return report, nil
}

// dataQuality scores how much of the report rests on sufficient, recent
// data: 100 minus fixed deductions for sparse or stale collections, floored
// at 0. Sparse and empty payout deductions stack.
func dataQuality(snap *AccountSnapshot, now time.Time) int {
	quality := 100

	payouts := snap.ProcessedPayouts()
	if len(payouts) == 0 {
		quality -= 30
	}
	if len(payouts) < 5 {
		quality -= 15
	}
	if len(snap.Referrals) == 0 {
		quality -= 10
	}
	if len(snap.Achievements) == 0 {
		quality -= 10
	}

	recent := false
	for _, p := range payouts {
		if withinDays(p.CreatedAt, now, 30) {
			recent = true
			break
		}
	}
	if !recent {
		quality -= 20
	}

	if quality < 0 {
		quality = 0
	}
	return quality
}
