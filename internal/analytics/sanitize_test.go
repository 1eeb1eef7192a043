package analytics

import (
	"math"
	"testing"

	"github.com/joonho-lim/tradelab/internal/contracts"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"NaN", math.NaN(), 0},
		{"positive infinity", math.Inf(1), 0},
		{"negative infinity", math.Inf(-1), 0},
		{"zero", 0, 0},
		{"finite positive", 3.14, 3.14},
		{"finite negative", -0.25, -0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Errorf("Sanitize(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeTrades(t *testing.T) {
	trades := []contracts.TradeRecord{
		{PnL: math.NaN(), PnLNet: math.Inf(1), EntryPrice: 100},
	}

	out := SanitizeTrades(trades)
	if out[0].PnL != 0 || out[0].PnLNet != 0 {
		t.Errorf("SanitizeTrades() left non-finite fields: %+v", out[0])
	}
	if out[0].EntryPrice != 100 {
		t.Errorf("SanitizeTrades() changed a finite field: %v", out[0].EntryPrice)
	}
	// Input must stay untouched.
	if !math.IsNaN(trades[0].PnL) {
		t.Error("SanitizeTrades() mutated its input")
	}
}

func TestSanitizeBenchmark(t *testing.T) {
	b := contracts.BenchmarkResult{
		Metrics: contracts.BenchmarkMetrics{TotalReturn: math.Inf(-1), FinalValue: 1210},
	}

	out := SanitizeBenchmark(b)
	if out.Metrics.TotalReturn != 0 {
		t.Errorf("SanitizeBenchmark() TotalReturn = %v, want 0", out.Metrics.TotalReturn)
	}
	if out.Metrics.FinalValue != 1210 {
		t.Errorf("SanitizeBenchmark() FinalValue = %v, want 1210", out.Metrics.FinalValue)
	}
}
