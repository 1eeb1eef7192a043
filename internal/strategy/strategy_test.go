package strategy

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/joonho-lim/tradelab/internal/contracts"
)

func history(closes ...float64) []contracts.MarketBar {
	bars := make([]contracts.MarketBar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.MarketBar{
			Date:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Open:  c,
			High:  c,
			Low:   c,
			Close: c,
		}
	}
	return bars
}

// signalsOver replays the bar series one prefix at a time, the way the
// engine drives a strategy.
func signalsOver(s Strategy, bars []contracts.MarketBar) []Signal {
	out := make([]Signal, len(bars))
	for i := range bars {
		out[i] = s.GenerateSignals(bars[:i+1])
	}
	return out
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New("does_not_exist", nil)
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("New() error = %v, want ErrUnknownStrategy", err)
	}
}

func TestNew_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		params   map[string]float64
	}{
		{"short window above long", "ma_crossover", map[string]float64{"short_window": 60, "long_window": 50}},
		{"negative window", "ma_crossover", map[string]float64{"short_window": -5}},
		{"rsi period too small", "rsi_mean_reversion", map[string]float64{"rsi_period": 1}},
		{"rsi thresholds inverted", "rsi_mean_reversion", map[string]float64{"lower_threshold": 80, "upper_threshold": 20}},
		{"momentum period zero", "momentum", map[string]float64{"momentum_period": 0}},
		{"momentum threshold negative", "momentum", map[string]float64{"threshold": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.strategy, tt.params)
			if !errors.Is(err, ErrInvalidParams) {
				t.Errorf("New(%s) error = %v, want ErrInvalidParams", tt.strategy, err)
			}
		})
	}
}

func TestAvailable(t *testing.T) {
	want := []string{"ma_crossover", "momentum", "rsi_mean_reversion"}
	if got := Available(); !reflect.DeepEqual(got, want) {
		t.Errorf("Available() = %v, want %v", got, want)
	}
}

func TestMaCrossover_Signals(t *testing.T) {
	s, err := New("ma_crossover", map[string]float64{"short_window": 2, "long_window": 3})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	bars := history(10, 9, 8, 7, 10, 12, 9, 7)
	got := signalsOver(s, bars)

	want := []Signal{
		SignalHold, SignalHold, SignalHold, SignalHold,
		SignalBuy,  // short SMA crosses above long
		SignalHold, SignalHold,
		SignalSell, // short SMA crosses back below
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("signals = %v, want %v", got, want)
	}
}

func TestMaCrossover_InsufficientHistory(t *testing.T) {
	s, err := New("ma_crossover", nil) // defaults: 20/50
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if sig := s.GenerateSignals(history(10, 11, 12)); sig != SignalHold {
		t.Errorf("GenerateSignals() = %v, want hold with short history", sig)
	}
}

func TestRsiMeanReversion_Signals(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
		want   Signal
	}{
		{"steady gains overbought", []float64{10, 11, 12}, SignalSell},
		{"steady losses oversold", []float64{10, 9, 8}, SignalBuy},
		{"balanced moves neutral", []float64{10, 11, 10}, SignalHold},
		{"insufficient history", []float64{10, 11}, SignalHold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New("rsi_mean_reversion", map[string]float64{"rsi_period": 2})
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if got := s.GenerateSignals(history(tt.closes...)); got != tt.want {
				t.Errorf("GenerateSignals(%v) = %v, want %v", tt.closes, got, tt.want)
			}
		})
	}
}

func TestMomentum_Signals(t *testing.T) {
	s, err := New("momentum", map[string]float64{"momentum_period": 2})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	bars := history(10, 10, 12, 12, 9)
	got := signalsOver(s, bars)

	want := []Signal{SignalHold, SignalHold, SignalBuy, SignalBuy, SignalSell}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("signals = %v, want %v", got, want)
	}
}
