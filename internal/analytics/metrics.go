package analytics

import (
	"math"
	"sort"

	"github.com/joonho-lim/tradelab/internal/contracts"
	"github.com/joonho-lim/tradelab/pkg/logger"
)

// TradingDays is the annualization constant for daily series.
const TradingDays = 252

// epsilon guards divisions by near-zero volatility or gross loss.
const epsilon = 1e-9

// Result carries a computed metric set together with an explicit
// degradation marker: when the inputs cannot support the statistics the
// metrics hold their zero defaults and Reason says why. Compute never
// fails outward.
type Result struct {
	Metrics  contracts.MetricSet
	Degraded bool
	Reason   string
}

// Calculator computes the performance metric set from an equity curve
// and a closed-trade list. It is stateless; identical inputs always
// produce identical results.
type Calculator struct {
	logger *logger.Logger
}

// NewCalculator creates a new metrics calculator
func NewCalculator(log *logger.Logger) *Calculator {
	return &Calculator{logger: log}
}

// Compute calculates the full metric set. Equity-derived and
// trade-derived metrics are guarded independently so a defect in one
// group never suppresses the other. TotalTrades is always the trade
// list length, even when everything else defaults.
func (c *Calculator) Compute(curve []contracts.EquityPoint, trades []contracts.TradeRecord, initialCapital float64) Result {
	result := Result{
		Metrics: contracts.MetricSet{TotalTrades: len(trades)},
	}

	c.computeEquityMetrics(&result, curve, initialCapital)
	c.computeTradeMetrics(&result, trades)

	return result
}

// computeEquityMetrics fills the curve-derived statistics, or leaves
// defaults in place with a reason when the curve cannot support them.
func (c *Calculator) computeEquityMetrics(result *Result, curve []contracts.EquityPoint, initialCapital float64) {
	if len(curve) == 0 {
		c.degrade(result, "empty equity curve")
		return
	}

	// Points without a date cannot be indexed by time.
	indexed := make([]contracts.EquityPoint, 0, len(curve))
	for _, p := range curve {
		if p.Date.IsZero() {
			continue
		}
		indexed = append(indexed, p)
	}
	if len(indexed) < len(curve) {
		c.logger.WithFields(map[string]interface{}{
			"dropped": len(curve) - len(indexed),
		}).Warn("Equity points without dates dropped from metrics")
	}
	sort.SliceStable(indexed, func(i, j int) bool {
		return indexed[i].Date.Before(indexed[j].Date)
	})

	if len(indexed) < 2 {
		c.degrade(result, "insufficient data points (< 2) for metric calculation")
		return
	}

	// Per-period returns; the undefined first value is dropped.
	returns := make([]float64, 0, len(indexed)-1)
	for i := 1; i < len(indexed); i++ {
		prev := indexed[i-1].Equity
		returns = append(returns, (indexed[i].Equity-prev)/prev)
	}

	finalEquity := indexed[len(indexed)-1].Equity
	m := &result.Metrics

	// Total return
	m.TotalReturn = (finalEquity - initialCapital) / initialCapital

	// Volatility (annualized sample standard deviation)
	if len(returns) > 1 {
		m.Volatility = stdDev(returns) * math.Sqrt(TradingDays)
	}

	// Sharpe ratio, assuming a 0% risk-free rate
	if m.Volatility > epsilon {
		m.SharpeRatio = mean(returns) * TradingDays / m.Volatility
	}

	// Max drawdown against the running peak
	peak := 0.0
	for _, p := range indexed {
		if p.Equity > peak {
			peak = p.Equity
		}
		drawdown := 0.0
		if peak > 0 {
			drawdown = (p.Equity - peak) / peak
		}
		if drawdown < m.MaxDrawdown {
			m.MaxDrawdown = drawdown
		}
	}

	// CAGR over the calendar span
	days := indexed[len(indexed)-1].Date.Sub(indexed[0].Date).Hours() / 24
	if days > 0 && finalEquity > 0 && initialCapital > 0 {
		years := days / 365.25
		m.CAGR = math.Pow(finalEquity/initialCapital, 1/years) - 1
	}
}

// computeTradeMetrics fills the trade-derived statistics. A trade list
// is allowed to be empty; the defaults then stand.
func (c *Calculator) computeTradeMetrics(result *Result, trades []contracts.TradeRecord) {
	if len(trades) == 0 {
		return
	}

	m := &result.Metrics

	var wins int
	var sumPnL, grossProfit, grossLoss float64
	for _, t := range trades {
		sumPnL += t.PnLNet
		if t.PnLNet > 0 {
			wins++
			grossProfit += t.PnLNet
		} else {
			grossLoss += -t.PnLNet
		}
	}

	m.WinRate = float64(wins) / float64(len(trades))
	m.AvgTradeNetPnL = sumPnL / float64(len(trades))

	if grossLoss > epsilon {
		m.ProfitFactor = grossProfit / grossLoss
	} else if grossProfit > 0 {
		// Sanitized to 0 at the response boundary.
		m.ProfitFactor = math.Inf(1)
	}
}

// degrade records why the equity statistics were left at defaults.
func (c *Calculator) degrade(result *Result, reason string) {
	result.Degraded = true
	result.Reason = reason
	c.logger.WithFields(map[string]interface{}{
		"reason": reason,
	}).Warn("Metric calculation degraded to defaults")
}

// mean computes the arithmetic mean
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev computes the sample standard deviation
func stdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	variance := 0.0
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values) - 1)
	return math.Sqrt(variance)
}
