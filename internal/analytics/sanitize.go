package analytics

import (
	"math"

	"github.com/joonho-lim/tradelab/internal/contracts"
)

// Sanitize maps NaN and ±Inf to 0.0 and passes finite values through.
// Applied to every numeric field immediately before external exposure so
// the report is always representable as plain JSON numbers.
func Sanitize(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0.0
	}
	return x
}

// SanitizeMetricSet returns a copy with every numeric field sanitized.
func SanitizeMetricSet(m contracts.MetricSet) contracts.MetricSet {
	m.TotalReturn = Sanitize(m.TotalReturn)
	m.CAGR = Sanitize(m.CAGR)
	m.SharpeRatio = Sanitize(m.SharpeRatio)
	m.Volatility = Sanitize(m.Volatility)
	m.MaxDrawdown = Sanitize(m.MaxDrawdown)
	m.WinRate = Sanitize(m.WinRate)
	m.ProfitFactor = Sanitize(m.ProfitFactor)
	m.AvgTradeNetPnL = Sanitize(m.AvgTradeNetPnL)
	return m
}

// SanitizeTrades returns a copy of the trade list with every numeric
// field sanitized.
func SanitizeTrades(trades []contracts.TradeRecord) []contracts.TradeRecord {
	out := make([]contracts.TradeRecord, len(trades))
	for i, t := range trades {
		t.EntryPrice = Sanitize(t.EntryPrice)
		t.ExitPrice = Sanitize(t.ExitPrice)
		t.PnL = Sanitize(t.PnL)
		t.PnLNet = Sanitize(t.PnLNet)
		t.Size = Sanitize(t.Size)
		t.DurationDays = Sanitize(t.DurationDays)
		out[i] = t
	}
	return out
}

// SanitizeBenchmark sanitizes the benchmark summary metrics in place on
// a copy.
func SanitizeBenchmark(b contracts.BenchmarkResult) contracts.BenchmarkResult {
	b.Metrics.TotalReturn = Sanitize(b.Metrics.TotalReturn)
	b.Metrics.FinalValue = Sanitize(b.Metrics.FinalValue)
	return b
}
