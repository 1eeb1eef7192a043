package marketdata

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joonho-lim/tradelab/internal/contracts"
)

// requiredFields are the five columns every usable price series must carry.
var requiredFields = []string{"open", "high", "low", "close", "volume"}

// ValidationError reports a structurally or semantically unusable price
// series. It is surfaced to API callers as a not-found class error and
// never retried.
type ValidationError struct {
	Ticker  string
	Message string
	// Details carries per-field diagnostics: null counts for a null-value
	// failure, or the missing/found field lists for a schema failure.
	Details map[string]interface{}
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Validate checks a raw price series for structural and semantic problems
// and returns the normalized series.
//
// Failures: empty series; a price field absent from the schema (nil in
// every row); any null open/high/low/close value. Null volume cells are
// tolerated and normalized to 0, even when volume is null in every row.
//
// Non-failing normalization: the series is sorted ascending by date and
// duplicate dates keep their first occurrence.
func Validate(series []contracts.RawBar, ticker string) ([]contracts.MarketBar, error) {
	if len(series) == 0 {
		return nil, &ValidationError{
			Ticker:  ticker,
			Message: fmt.Sprintf("no data found for ticker: %s", ticker),
		}
	}

	// Schema check: a field is part of the schema when at least one row
	// carries a value for it.
	present := make(map[string]int, len(requiredFields))
	nulls := make(map[string]int, len(requiredFields))
	for _, bar := range series {
		for _, field := range requiredFields {
			if fieldValue(bar, field) != nil {
				present[field]++
			} else {
				nulls[field]++
			}
		}
	}

	// Volume gaps are tolerated everywhere, so an all-null volume field is
	// a run of tolerable gaps, not a schema failure.
	var missing, found []string
	for _, field := range requiredFields {
		if present[field] == 0 && field != "volume" {
			missing = append(missing, field)
		} else {
			found = append(found, field)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{
			Ticker: ticker,
			Message: fmt.Sprintf("missing required fields for %s: %s",
				ticker, strings.Join(missing, ", ")),
			Details: map[string]interface{}{
				"missing": missing,
				"found":   found,
			},
		}
	}

	// Null check: gaps in price data cannot be simulated over. Volume
	// gaps are acceptable.
	priceNulls := 0
	nullCounts := make(map[string]interface{}, len(requiredFields))
	for _, field := range requiredFields {
		nullCounts[field] = nulls[field]
		if field != "volume" {
			priceNulls += nulls[field]
		}
	}
	if priceNulls > 0 {
		return nil, &ValidationError{
			Ticker: ticker,
			Message: fmt.Sprintf("data for %s contains %d missing price values",
				ticker, priceNulls),
			Details: nullCounts,
		}
	}

	// Normalize: sort ascending, keep the first occurrence of each date.
	normalized := make([]contracts.MarketBar, 0, len(series))
	for _, bar := range series {
		volume := 0.0
		if bar.Volume != nil {
			volume = *bar.Volume
		}
		normalized = append(normalized, contracts.MarketBar{
			Date:   bar.Date,
			Open:   *bar.Open,
			High:   *bar.High,
			Low:    *bar.Low,
			Close:  *bar.Close,
			Volume: volume,
		})
	}

	sort.SliceStable(normalized, func(i, j int) bool {
		return normalized[i].Date.Before(normalized[j].Date)
	})

	deduped := normalized[:0]
	for _, bar := range normalized {
		if len(deduped) > 0 && deduped[len(deduped)-1].Date.Equal(bar.Date) {
			continue
		}
		deduped = append(deduped, bar)
	}

	return deduped, nil
}

// fieldValue returns the pointer behind a named bar field.
func fieldValue(bar contracts.RawBar, field string) *float64 {
	switch field {
	case "open":
		return bar.Open
	case "high":
		return bar.High
	case "low":
		return bar.Low
	case "close":
		return bar.Close
	case "volume":
		return bar.Volume
	}
	return nil
}
