package insights

import (
	"sort"
	"time"

	"go.uber.org/zap"
)

// TradingPatternAnalyzer derives per-broker statistics and trading habit
// classifications from processed payouts.
type TradingPatternAnalyzer struct {
	logger *zap.Logger
}

// NewTradingPatternAnalyzer creates a new trading pattern analyzer.
func NewTradingPatternAnalyzer(logger *zap.Logger) *TradingPatternAnalyzer {
	return &TradingPatternAnalyzer{
		logger: logger,
	}
}

// Analyze computes the trading sub-report.
func (ta *TradingPatternAnalyzer) Analyze(payouts []PayoutRecord) *TradingInsights {
	brokerStats := ta.groupByBroker(payouts)

	return &TradingInsights{
		BrokerPerformance:    brokerStats,
		BestBroker:           ta.bestBroker(brokerStats),
		TradingFrequency:     ta.tradingFrequency(payouts),
		VolumePatterns:       ta.volumePatterns(payouts),
		DiversificationScore: diversificationScore(len(brokerStats)),
	}
}

// groupByBroker folds payouts into named per-broker accumulators.
func (ta *TradingPatternAnalyzer) groupByBroker(payouts []PayoutRecord) map[string]BrokerStats {
	stats := make(map[string]BrokerStats)

	for _, p := range payouts {
		s := stats[p.Broker]
		s.Count++
		s.Volume += p.TradingVolume
		s.Earnings += p.Amount
		stats[p.Broker] = s
	}

	return stats
}

// bestBroker picks the broker with the highest earnings-per-volume
// efficiency, in basis points. Zero-volume brokers count as zero efficiency.
// Ties resolve to the lexically smallest broker name so the result is stable.
func (ta *TradingPatternAnalyzer) bestBroker(stats map[string]BrokerStats) BestBroker {
	best := BestBroker{}

	for _, broker := range sortedBrokers(stats) {
		s := stats[broker]
		var efficiency float64
		if s.Volume > 0 {
			efficiency = s.Earnings / s.Volume * 10000
		}
		if best.Broker == "" || efficiency > best.Efficiency {
			best = BestBroker{Broker: broker, Efficiency: efficiency, Stats: s}
		}
	}

	best.Efficiency = round2(best.Efficiency)
	return best
}

// tradingFrequency classifies the average gap between consecutive payouts.
func (ta *TradingPatternAnalyzer) tradingFrequency(payouts []PayoutRecord) FrequencyPattern {
	if len(payouts) < 2 {
		return FrequencyPattern{Frequency: "none", Pattern: "none"}
	}

	sorted := make([]PayoutRecord, len(payouts))
	copy(sorted, payouts)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	var totalDays float64
	for i := 1; i < len(sorted); i++ {
		totalDays += sorted[i].CreatedAt.Sub(sorted[i-1].CreatedAt).Hours() / 24
	}
	avgDays := totalDays / float64(len(sorted)-1)

	switch {
	case avgDays < 7:
		return FrequencyPattern{Frequency: "high", Pattern: "weekly"}
	case avgDays < 30:
		return FrequencyPattern{Frequency: "medium", Pattern: "monthly"}
	default:
		return FrequencyPattern{Frequency: "low", Pattern: "irregular"}
	}
}

// volumePatterns summarizes the trading volume spread. Volatility is the
// max-min range as a percentage of the maximum, zero when the maximum is 0.
func (ta *TradingPatternAnalyzer) volumePatterns(payouts []PayoutRecord) VolumePattern {
	if len(payouts) == 0 {
		return VolumePattern{}
	}

	minV := payouts[0].TradingVolume
	maxV := payouts[0].TradingVolume
	var sum float64
	for _, p := range payouts {
		sum += p.TradingVolume
		if p.TradingVolume < minV {
			minV = p.TradingVolume
		}
		if p.TradingVolume > maxV {
			maxV = p.TradingVolume
		}
	}

	var volatility float64
	if maxV > 0 {
		volatility = (maxV - minV) / maxV * 100
	}

	return VolumePattern{
		Average:    sum / float64(len(payouts)),
		Maximum:    maxV,
		Minimum:    minV,
		Volatility: round2(volatility),
	}
}

// diversificationScore is a stepped lookup on the distinct broker count. It
// is monotonically non-decreasing and saturates at 100 for four brokers.
func diversificationScore(brokers int) int {
	switch {
	case brokers <= 0:
		return 0
	case brokers == 1:
		return 20
	case brokers == 2:
		return 60
	case brokers == 3:
		return 90
	default:
		return 100
	}
}

func sortedBrokers(stats map[string]BrokerStats) []string {
	brokers := make([]string, 0, len(stats))
	for broker := range stats {
		brokers = append(brokers, broker)
	}
	sort.Strings(brokers)
	return brokers
}

// withinDays reports whether t falls inside the trailing window ending at now.
func withinDays(t, now time.Time, days int) bool {
	return t.After(now.AddDate(0, 0, -days))
}
