package analytics

import (
	"github.com/joonho-lim/tradelab/internal/contracts"
	"github.com/joonho-lim/tradelab/pkg/logger"
)

// Benchmark computes a frictionless buy-and-hold comparison: fully
// invested at the first close, held to the last close, no costs and no
// cash balance at any point.
type Benchmark struct {
	logger *logger.Logger
}

// NewBenchmark creates a new benchmark simulator
func NewBenchmark(log *logger.Logger) *Benchmark {
	return &Benchmark{logger: log}
}

// SimulateBuyHold computes the buy-and-hold equity curve and summary
// return from a validated price series. An empty series, or one whose
// entry close is not positive, yields an empty result rather than an
// error.
func (b *Benchmark) SimulateBuyHold(series []contracts.MarketBar, initialCapital float64) contracts.BenchmarkResult {
	if len(series) == 0 {
		return contracts.BenchmarkResult{}
	}

	entryPrice := series[0].Close
	if entryPrice <= 0 {
		b.logger.WithFields(map[string]interface{}{
			"entry_price": entryPrice,
		}).Warn("Benchmark skipped: non-positive entry close")
		return contracts.BenchmarkResult{}
	}

	curve := make([]contracts.EquityPoint, 0, len(series))
	for _, bar := range series {
		curve = append(curve, contracts.EquityPoint{
			Date:   bar.Date,
			Equity: bar.Close / entryPrice * initialCapital,
			Cash:   0, // fully invested
		})
	}

	finalValue := curve[len(curve)-1].Equity
	return contracts.BenchmarkResult{
		EquityCurve: curve,
		Metrics: contracts.BenchmarkMetrics{
			TotalReturn: (finalValue - initialCapital) / initialCapital,
			FinalValue:  finalValue,
		},
	}
}
