package contracts

import "time"

// RawBar is a daily price bar as returned by a market data provider,
// before validation. Price and volume fields are pointers so that a
// missing column or a null cell can be represented faithfully.
type RawBar struct {
	Date   time.Time
	Open   *float64
	High   *float64
	Low    *float64
	Close  *float64
	Volume *float64
}

// MarketBar is a validated daily price bar. Dates are unique and the
// series is ordered ascending; price fields are always present.
// A missing volume cell is normalized to 0.
type MarketBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// Float returns a pointer to v. Convenience for building RawBar values.
func Float(v float64) *float64 {
	return &v
}
