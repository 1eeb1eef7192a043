package strategy

import (
	"errors"
	"fmt"
	"sort"

	"github.com/joonho-lim/tradelab/internal/contracts"
)

// Signal is a strategy's judgement for the current bar.
type Signal int

const (
	SignalHold Signal = iota
	SignalBuy
	SignalSell
)

// Errors surfaced to the API layer as client errors.
var (
	ErrUnknownStrategy = errors.New("unknown strategy")
	ErrInvalidParams   = errors.New("invalid strategy parameters")
)

// Strategy is the capability set every trading strategy implements.
// Initialize validates and applies the parameter map; GenerateSignals
// judges the latest bar given the full history up to and including it.
type Strategy interface {
	Initialize(params map[string]float64) error
	GenerateSignals(history []contracts.MarketBar) Signal
}

// registry is the closed set of available strategies. Strategies are
// selected by name at request time; there is no dynamic registration.
var registry = map[string]func() Strategy{
	"ma_crossover":       func() Strategy { return &MaCrossover{} },
	"rsi_mean_reversion": func() Strategy { return &RsiMeanReversion{} },
	"momentum":           func() Strategy { return &Momentum{} },
}

// New builds and initializes a strategy by name.
func New(name string, params map[string]float64) (Strategy, error) {
	factory, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownStrategy, name, Available())
	}

	strat := factory()
	if err := strat.Initialize(params); err != nil {
		return nil, err
	}
	return strat, nil
}

// Available returns the registered strategy names, sorted.
func Available() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// paramOr reads a named parameter with a default.
func paramOr(params map[string]float64, key string, def float64) float64 {
	if v, ok := params[key]; ok {
		return v
	}
	return def
}

// sma computes the simple moving average of the last period closes
// ending at index end (inclusive). Returns false when there is not
// enough history.
func sma(history []contracts.MarketBar, end, period int) (float64, bool) {
	if period <= 0 || end+1 < period {
		return 0, false
	}
	sum := 0.0
	for i := end - period + 1; i <= end; i++ {
		sum += history[i].Close
	}
	return sum / float64(period), true
}
