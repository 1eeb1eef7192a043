package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// broker tracks cash and a single long position using decimal
// arithmetic so commission and slippage accumulation stays exact over
// long runs.
type broker struct {
	cash   decimal.Decimal
	shares decimal.Decimal

	entryFill decimal.Decimal
	entryFee  decimal.Decimal
	entryDate time.Time

	commission decimal.Decimal
	slippage   decimal.Decimal

	one decimal.Decimal
}

// closedTrade is the broker's report of one round trip.
type closedTrade struct {
	entryDate  time.Time
	exitDate   time.Time
	entryPrice float64
	grossPnL   float64
	netPnL     float64
}

func newBroker(initialCapital, commission, slippage float64) *broker {
	return &broker{
		cash:       decimal.NewFromFloat(initialCapital),
		shares:     decimal.Zero,
		commission: decimal.NewFromFloat(commission),
		slippage:   decimal.NewFromFloat(slippage),
		one:        decimal.NewFromInt(1),
	}
}

func (b *broker) inPosition() bool {
	return b.shares.IsPositive()
}

// buy fills at the close pushed up by slippage and commits all cash the
// commission-inclusive per-share cost allows, rounded down to whole
// shares. Returns false when not even one share is affordable.
func (b *broker) buy(date time.Time, close float64) bool {
	if b.inPosition() || close <= 0 {
		return false
	}

	fill := decimal.NewFromFloat(close).Mul(b.one.Add(b.slippage))
	perShare := fill.Mul(b.one.Add(b.commission))
	if !perShare.IsPositive() {
		return false
	}

	qty := b.cash.Div(perShare).Floor()
	if !qty.IsPositive() {
		return false
	}

	cost := fill.Mul(qty)
	fee := cost.Mul(b.commission)
	b.cash = b.cash.Sub(cost).Sub(fee)
	b.shares = qty
	b.entryFill = fill
	b.entryFee = fee
	b.entryDate = date
	return true
}

// sell closes the whole position at the close pushed down by slippage.
// Gross PnL compares fills only; net PnL subtracts both legs' fees.
func (b *broker) sell(date time.Time, close float64) (closedTrade, bool) {
	if !b.inPosition() {
		return closedTrade{}, false
	}

	fill := decimal.NewFromFloat(close).Mul(b.one.Sub(b.slippage))
	proceeds := fill.Mul(b.shares)
	fee := proceeds.Mul(b.commission)

	gross := fill.Sub(b.entryFill).Mul(b.shares)
	net := gross.Sub(b.entryFee).Sub(fee)

	b.cash = b.cash.Add(proceeds).Sub(fee)

	trade := closedTrade{
		entryDate:  b.entryDate,
		exitDate:   date,
		entryPrice: b.entryFill.InexactFloat64(),
		grossPnL:   gross.InexactFloat64(),
		netPnL:     net.InexactFloat64(),
	}

	b.shares = decimal.Zero
	b.entryFill = decimal.Zero
	b.entryFee = decimal.Zero
	b.entryDate = time.Time{}
	return trade, true
}

// equity marks the open position at the given close, without slippage.
func (b *broker) equity(close float64) float64 {
	if !b.inPosition() {
		return b.cash.InexactFloat64()
	}
	return b.cash.Add(b.shares.Mul(decimal.NewFromFloat(close))).InexactFloat64()
}

func (b *broker) cashValue() float64 {
	return b.cash.InexactFloat64()
}
