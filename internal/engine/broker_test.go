package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_RoundTripWithCosts(t *testing.T) {
	b := newBroker(1000, 0.001, 0.0005)
	d1 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	d2 := d1.AddDate(0, 0, 5)

	require.True(t, b.buy(d1, 100))
	require.True(t, b.inPosition())

	// fill 100.05, commission-inclusive per-share cost 100.15005:
	// 9 whole shares, cost 900.45, entry fee 0.90045.
	assert.InDelta(t, 1000-900.45-0.90045, b.cashValue(), 1e-9)

	trade, ok := b.sell(d2, 110)
	require.True(t, ok)
	require.False(t, b.inPosition())

	// exit fill 109.945, gross (109.945-100.05)*9, fees on both legs
	assert.InDelta(t, 100.05, trade.entryPrice, 1e-9)
	assert.InDelta(t, 89.055, trade.grossPnL, 1e-9)
	assert.InDelta(t, 89.055-0.90045-0.989505, trade.netPnL, 1e-9)
	assert.Equal(t, d1, trade.entryDate)
	assert.Equal(t, d2, trade.exitDate)

	proceeds := 109.945 * 9
	assert.InDelta(t, 1000-900.45-0.90045+proceeds-0.989505, b.cashValue(), 1e-9)
}

func TestBroker_CannotAffordOneShare(t *testing.T) {
	b := newBroker(5, 0, 0)
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.False(t, b.buy(d, 10))
	assert.False(t, b.inPosition())
	assert.Equal(t, 5.0, b.cashValue())
}

func TestBroker_GuardsDoubleActions(t *testing.T) {
	b := newBroker(1000, 0, 0)
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	_, ok := b.sell(d, 10)
	assert.False(t, ok, "sell while flat must be rejected")

	require.True(t, b.buy(d, 10))
	assert.False(t, b.buy(d, 10), "buy while in position must be rejected")
}

func TestBroker_EquityMarksAtClose(t *testing.T) {
	b := newBroker(100, 0, 0)
	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	require.True(t, b.buy(d, 10)) // 10 shares, cash 0
	assert.InDelta(t, 200, b.equity(20), 1e-9)
	assert.InDelta(t, 50, b.equity(5), 1e-9)
}
