package strategy

import (
	"fmt"

	"github.com/joonho-lim/tradelab/internal/contracts"
)

// Momentum compares the latest close against the close period bars ago:
// buy when the difference exceeds the threshold, sell when it falls
// below its negative.
type Momentum struct {
	period    int
	threshold float64
}

// Initialize applies momentum_period (default 10) and threshold
// (default 0).
func (s *Momentum) Initialize(params map[string]float64) error {
	s.period = int(paramOr(params, "momentum_period", 10))
	s.threshold = paramOr(params, "threshold", 0)

	if s.period <= 0 {
		return fmt.Errorf("%w: momentum_period must be positive", ErrInvalidParams)
	}
	if s.threshold < 0 {
		return fmt.Errorf("%w: threshold must be non-negative", ErrInvalidParams)
	}
	return nil
}

// GenerateSignals judges the latest bar by its momentum.
func (s *Momentum) GenerateSignals(history []contracts.MarketBar) Signal {
	cur := len(history) - 1
	if cur < s.period {
		return SignalHold
	}

	momentum := history[cur].Close - history[cur-s.period].Close
	if momentum > s.threshold {
		return SignalBuy
	}
	if momentum < -s.threshold {
		return SignalSell
	}
	return SignalHold
}
