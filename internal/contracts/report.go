package contracts

import "time"

// EquityPoint is a per-bar snapshot of total portfolio value and
// uninvested cash. Sequences are ordered ascending by date with at most
// one point per date.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
	Cash   float64   `json:"cash"`
}

// TradeRecord describes a fully closed trade. ExitPrice and Size are
// recorded as explicit 0 sentinels: the simulation engine does not
// expose the closed quantity reliably when partial closures occurred,
// so neither value is ever inferred.
type TradeRecord struct {
	Ticker       string    `json:"ticker"`
	EntryDate    time.Time `json:"entry_date"`
	ExitDate     time.Time `json:"exit_date"`
	EntryPrice   float64   `json:"entry_price"`
	ExitPrice    float64   `json:"exit_price"`
	PnL          float64   `json:"pnl"`
	PnLNet       float64   `json:"pnl_net"`
	Size         float64   `json:"size"`
	DurationDays float64   `json:"duration_days"`
}

// MetricSet is the fixed set of risk/return statistics computed for a
// run. Fields default to zero when the underlying data is insufficient;
// TotalTrades is always the trade list length.
type MetricSet struct {
	TotalReturn    float64 `json:"total_return"`
	CAGR           float64 `json:"cagr"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	Volatility     float64 `json:"volatility"`
	MaxDrawdown    float64 `json:"max_drawdown"`
	WinRate        float64 `json:"win_rate"`
	ProfitFactor   float64 `json:"profit_factor"`
	AvgTradeNetPnL float64 `json:"avg_trade_net_pnl"`
	TotalTrades    int     `json:"total_trades"`
}

// BenchmarkMetrics summarizes a passive buy-and-hold run.
type BenchmarkMetrics struct {
	TotalReturn float64 `json:"total_return"`
	FinalValue  float64 `json:"final_value"`
}

// BenchmarkResult is the frictionless buy-and-hold comparison computed
// from the same price series as the strategy run.
type BenchmarkResult struct {
	EquityCurve []EquityPoint    `json:"equity_curve"`
	Metrics     BenchmarkMetrics `json:"metrics"`
}
