package strategy

import (
	"fmt"

	"github.com/joonho-lim/tradelab/internal/contracts"
)

// MaCrossover trades simple moving average crossovers: buy when the
// short average crosses above the long one, sell when it crosses below.
type MaCrossover struct {
	shortWindow int
	longWindow  int
}

// Initialize applies short_window (default 20) and long_window
// (default 50).
func (s *MaCrossover) Initialize(params map[string]float64) error {
	s.shortWindow = int(paramOr(params, "short_window", 20))
	s.longWindow = int(paramOr(params, "long_window", 50))

	if s.shortWindow <= 0 || s.longWindow <= 0 {
		return fmt.Errorf("%w: windows must be positive", ErrInvalidParams)
	}
	if s.shortWindow >= s.longWindow {
		return fmt.Errorf("%w: short_window (%d) must be below long_window (%d)",
			ErrInvalidParams, s.shortWindow, s.longWindow)
	}
	return nil
}

// GenerateSignals detects a crossover on the latest bar.
func (s *MaCrossover) GenerateSignals(history []contracts.MarketBar) Signal {
	cur := len(history) - 1
	// A crossover needs averages for both the current and previous bar.
	if cur < s.longWindow {
		return SignalHold
	}

	shortNow, _ := sma(history, cur, s.shortWindow)
	longNow, _ := sma(history, cur, s.longWindow)
	shortPrev, _ := sma(history, cur-1, s.shortWindow)
	longPrev, _ := sma(history, cur-1, s.longWindow)

	if shortPrev <= longPrev && shortNow > longNow {
		return SignalBuy
	}
	if shortPrev >= longPrev && shortNow < longNow {
		return SignalSell
	}
	return SignalHold
}
