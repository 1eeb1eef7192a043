package strategy

import (
	"fmt"

	"github.com/joonho-lim/tradelab/internal/contracts"
)

// RsiMeanReversion buys oversold bars and sells overbought ones, using
// an SMA-smoothed RSI.
type RsiMeanReversion struct {
	period         int
	lowerThreshold float64
	upperThreshold float64
}

// Initialize applies rsi_period (default 14), lower_threshold (default
// 30) and upper_threshold (default 70).
func (s *RsiMeanReversion) Initialize(params map[string]float64) error {
	s.period = int(paramOr(params, "rsi_period", 14))
	s.lowerThreshold = paramOr(params, "lower_threshold", 30)
	s.upperThreshold = paramOr(params, "upper_threshold", 70)

	if s.period <= 1 {
		return fmt.Errorf("%w: rsi_period must be above 1", ErrInvalidParams)
	}
	if s.lowerThreshold >= s.upperThreshold {
		return fmt.Errorf("%w: lower_threshold (%v) must be below upper_threshold (%v)",
			ErrInvalidParams, s.lowerThreshold, s.upperThreshold)
	}
	return nil
}

// GenerateSignals judges the latest bar by its RSI level.
func (s *RsiMeanReversion) GenerateSignals(history []contracts.MarketBar) Signal {
	rsi, ok := s.rsi(history)
	if !ok {
		return SignalHold
	}

	if rsi < s.lowerThreshold {
		return SignalBuy
	}
	if rsi > s.upperThreshold {
		return SignalSell
	}
	return SignalHold
}

// rsi computes the SMA-smoothed relative strength index of the latest
// bar. Needs period+1 bars of history.
func (s *RsiMeanReversion) rsi(history []contracts.MarketBar) (float64, bool) {
	cur := len(history) - 1
	if cur < s.period {
		return 0, false
	}

	var gains, losses float64
	for i := cur - s.period + 1; i <= cur; i++ {
		change := history[i].Close - history[i-1].Close
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	if losses == 0 {
		return 100, true
	}

	rs := gains / losses
	return 100 - 100/(1+rs), true
}
