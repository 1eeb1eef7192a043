package engine

import (
	"context"

	"github.com/joonho-lim/tradelab/internal/contracts"
	"github.com/joonho-lim/tradelab/internal/strategy"
	"github.com/joonho-lim/tradelab/pkg/logger"
)

// minBars is the series length below which a run is unlikely to
// produce a single signal for the default strategy windows.
const minBars = 5

// RunResult is the raw output of one simulation: the per-bar equity
// curve, the closed trades, and the portfolio value at the last bar.
type RunResult struct {
	EquityCurve []contracts.EquityPoint
	Trades      []contracts.TradeRecord
	FinalValue  float64
}

// Engine replays a validated bar series through a strategy one bar at
// a time, long-only, all-in. It never sees future bars: on bar i the
// strategy receives history up to and including i.
type Engine struct {
	commission float64
	slippage   float64
	logger     *logger.Logger
}

// New creates an engine with per-trade transaction cost and slippage
// rates, both expressed as fractions of notional.
func New(commission, slippage float64, log *logger.Logger) *Engine {
	return &Engine{
		commission: commission,
		slippage:   slippage,
		logger:     log,
	}
}

// Run executes one backtest over the full series. The run always
// completes once started; ctx is accepted for call-site symmetry with
// the data layer but is not checked mid-loop.
func (e *Engine) Run(ctx context.Context, ticker string, bars []contracts.MarketBar, strat strategy.Strategy, initialCapital float64) *RunResult {
	_ = ctx

	if len(bars) < minBars {
		e.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"bars":   len(bars),
		}).Warn("Series very short; run may produce no trades")
	}

	rec := NewRecorder(e.logger)
	b := newBroker(initialCapital, e.commission, e.slippage)

	for i := range bars {
		bar := bars[i]
		sig := strat.GenerateSignals(bars[:i+1])

		switch sig {
		case strategy.SignalBuy:
			if !b.inPosition() {
				b.buy(bar.Date, bar.Close)
			}
		case strategy.SignalSell:
			if b.inPosition() {
				if trade, ok := b.sell(bar.Date, bar.Close); ok {
					rec.RecordClosedTrade(ticker, trade.entryDate, trade.exitDate, trade.entryPrice, trade.grossPnL, trade.netPnL)
				}
			}
		}

		rec.RecordSnapshot(bar.Date, b.equity(bar.Close), b.cashValue())
	}

	final := initialCapital
	if n := len(bars); n > 0 {
		final = b.equity(bars[n-1].Close)
	}

	e.logger.WithFields(map[string]interface{}{
		"ticker":      ticker,
		"bars":        len(bars),
		"trades":      len(rec.Trades()),
		"final_value": final,
	}).Info("Backtest run complete")

	return &RunResult{
		EquityCurve: rec.EquityCurve(),
		Trades:      rec.Trades(),
		FinalValue:  final,
	}
}
