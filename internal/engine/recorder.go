package engine

import (
	"time"

	"github.com/joonho-lim/tradelab/internal/contracts"
	"github.com/joonho-lim/tradelab/pkg/logger"
)

// Recorder captures per-bar equity snapshots and closed-trade records
// from the simulation engine in the form the metrics calculator
// consumes. A bad capture is logged and skipped; recording never aborts
// a run.
type Recorder struct {
	logger *logger.Logger
	points []contracts.EquityPoint
	trades []contracts.TradeRecord
	// byDate maps a snapshot date to its position in points, so a repeated
	// date replaces the earlier snapshot wherever it sits in the curve.
	byDate map[time.Time]int
}

// NewRecorder creates a new snapshot recorder
func NewRecorder(log *logger.Logger) *Recorder {
	return &Recorder{
		logger: log,
		points: make([]contracts.EquityPoint, 0),
		trades: make([]contracts.TradeRecord, 0),
		byDate: make(map[time.Time]int),
	}
}

// RecordSnapshot appends a per-bar equity point. A zero date means the
// engine has no valid current bar yet; the snapshot is skipped. A
// repeated date replaces the previous snapshot so only the latest state
// per bar is retained.
func (r *Recorder) RecordSnapshot(date time.Time, totalValue, cash float64) {
	if date.IsZero() {
		r.logger.Warn("Equity snapshot skipped: no current bar")
		return
	}

	if i, seen := r.byDate[date]; seen {
		r.points[i] = contracts.EquityPoint{Date: date, Equity: totalValue, Cash: cash}
		return
	}

	r.byDate[date] = len(r.points)
	r.points = append(r.points, contracts.EquityPoint{
		Date:   date,
		Equity: totalValue,
		Cash:   cash,
	})
}

// RecordClosedTrade appends a fully closed trade. ExitPrice and Size
// stay at their 0 sentinels: the engine does not expose the closed
// quantity reliably once partial closures occurred, and dividing
// against a zero remaining size would be undefined.
func (r *Recorder) RecordClosedTrade(ticker string, entryDate, exitDate time.Time, entryPrice, grossPnL, netPnL float64) {
	if !entryDate.IsZero() && !exitDate.IsZero() && entryDate.After(exitDate) {
		r.logger.WithFields(map[string]interface{}{
			"ticker":     ticker,
			"entry_date": entryDate.Format("2006-01-02"),
			"exit_date":  exitDate.Format("2006-01-02"),
		}).Error("Trade record skipped: entry date after exit date")
		return
	}

	duration := 0.0
	if !entryDate.IsZero() && !exitDate.IsZero() {
		duration = exitDate.Sub(entryDate).Hours() / 24
	}

	r.trades = append(r.trades, contracts.TradeRecord{
		Ticker:       ticker,
		EntryDate:    entryDate,
		ExitDate:     exitDate,
		EntryPrice:   entryPrice,
		ExitPrice:    0, // unknown closed quantity, never guessed
		PnL:          grossPnL,
		PnLNet:       netPnL,
		Size:         0,
		DurationDays: duration,
	})
}

// EquityCurve returns the captured equity points in bar order.
func (r *Recorder) EquityCurve() []contracts.EquityPoint {
	return r.points
}

// Trades returns the captured closed trades.
func (r *Recorder) Trades() []contracts.TradeRecord {
	return r.trades
}
