package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonho-lim/tradelab/internal/contracts"
	"github.com/joonho-lim/tradelab/pkg/config"
	"github.com/joonho-lim/tradelab/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

func point(d time.Time, equity float64) contracts.EquityPoint {
	return contracts.EquityPoint{Date: d, Equity: equity}
}

func netTrade(pnl float64) contracts.TradeRecord {
	return contracts.TradeRecord{PnLNet: pnl}
}

func TestCompute_TwoPointCurve(t *testing.T) {
	calc := NewCalculator(testLogger())

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 365)
	curve := []contracts.EquityPoint{point(start, 1000), point(end, 1100)}

	result := calc.Compute(curve, nil, 1000)
	require.False(t, result.Degraded)

	m := result.Metrics
	assert.InDelta(t, 0.10, m.TotalReturn, 1e-9)
	// A single return has no dispersion.
	assert.Zero(t, m.Volatility)
	assert.Zero(t, m.SharpeRatio)
	assert.Zero(t, m.MaxDrawdown)

	wantCAGR := math.Pow(1.1, 365.25/365.0) - 1
	assert.InDelta(t, wantCAGR, m.CAGR, 1e-9)
}

func TestCompute_TradeMetrics(t *testing.T) {
	calc := NewCalculator(testLogger())

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := []contracts.EquityPoint{point(start, 1000), point(start.AddDate(0, 0, 10), 1250)}
	trades := []contracts.TradeRecord{netTrade(100), netTrade(-50), netTrade(200)}

	result := calc.Compute(curve, trades, 1000)
	m := result.Metrics

	assert.Equal(t, 3, m.TotalTrades)
	assert.InDelta(t, 2.0/3.0, m.WinRate, 1e-9)
	assert.InDelta(t, 6.0, m.ProfitFactor, 1e-9)
	assert.InDelta(t, 250.0/3.0, m.AvgTradeNetPnL, 1e-9)
}

func TestCompute_ProfitFactorNoLosses(t *testing.T) {
	calc := NewCalculator(testLogger())

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := []contracts.EquityPoint{point(start, 1000), point(start.AddDate(0, 0, 10), 1300)}
	trades := []contracts.TradeRecord{netTrade(100), netTrade(200)}

	result := calc.Compute(curve, trades, 1000)
	require.True(t, math.IsInf(result.Metrics.ProfitFactor, 1))

	// The response boundary turns the infinity into 0.
	sanitized := SanitizeMetricSet(result.Metrics)
	assert.Zero(t, sanitized.ProfitFactor)
}

func TestCompute_MaxDrawdown(t *testing.T) {
	calc := NewCalculator(testLogger())

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := []contracts.EquityPoint{
		point(start, 1000),
		point(start.AddDate(0, 0, 1), 1200),
		point(start.AddDate(0, 0, 2), 900),
		point(start.AddDate(0, 0, 3), 1100),
	}

	result := calc.Compute(curve, nil, 1000)
	assert.InDelta(t, -0.25, result.Metrics.MaxDrawdown, 1e-9)
	assert.LessOrEqual(t, result.Metrics.MaxDrawdown, 0.0)
	assert.GreaterOrEqual(t, result.Metrics.Volatility, 0.0)
}

func TestCompute_DegradedCurve(t *testing.T) {
	calc := NewCalculator(testLogger())

	tests := []struct {
		name  string
		curve []contracts.EquityPoint
	}{
		{"empty curve", nil},
		{"single point", []contracts.EquityPoint{point(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1000)}},
		{"only undated points", []contracts.EquityPoint{{Equity: 1000}, {Equity: 1100}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			trades := []contracts.TradeRecord{netTrade(50), netTrade(-20)}
			result := calc.Compute(tt.curve, trades, 1000)

			assert.True(t, result.Degraded)
			assert.NotEmpty(t, result.Reason)
			assert.Zero(t, result.Metrics.TotalReturn)
			assert.Zero(t, result.Metrics.CAGR)
			// Trade statistics survive an unusable curve.
			assert.Equal(t, 2, result.Metrics.TotalTrades)
			assert.InDelta(t, 0.5, result.Metrics.WinRate, 1e-9)
		})
	}
}

func TestCompute_UnsortedCurve(t *testing.T) {
	calc := NewCalculator(testLogger())

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := []contracts.EquityPoint{
		point(start.AddDate(0, 0, 2), 1210),
		point(start, 1000),
		point(start.AddDate(0, 0, 1), 1100),
	}

	result := calc.Compute(curve, nil, 1000)
	require.False(t, result.Degraded)
	assert.InDelta(t, 0.21, result.Metrics.TotalReturn, 1e-9)
	assert.Zero(t, result.Metrics.MaxDrawdown)
}

func TestCompute_Idempotent(t *testing.T) {
	calc := NewCalculator(testLogger())

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	curve := []contracts.EquityPoint{
		point(start, 1000),
		point(start.AddDate(0, 0, 1), 1050),
		point(start.AddDate(0, 0, 2), 990),
	}
	trades := []contracts.TradeRecord{netTrade(10), netTrade(-20)}

	first := calc.Compute(curve, trades, 1000)
	second := calc.Compute(curve, trades, 1000)
	assert.Equal(t, first, second)
}
