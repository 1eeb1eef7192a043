package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/joonho-lim/tradelab/internal/contracts"
	"github.com/joonho-lim/tradelab/pkg/logger"
	"github.com/joonho-lim/tradelab/pkg/redis"
)

// ErrFetch marks a market data transport failure. Surfaced to API
// callers as a client error; a fetch is attempted exactly once.
var ErrFetch = errors.New("market data fetch failed")

// Provider fetches raw daily bars for a ticker. An empty result is not
// an error; it triggers the synthetic fallback.
type Provider interface {
	FetchDaily(ctx context.Context, ticker string, from, to time.Time) ([]contracts.RawBar, error)
}

// Service is the market data gateway: one fetch attempt against the
// configured provider, a synthetic fallback when the fetch is empty, and
// validation of whatever comes out.
type Service struct {
	provider Provider
	synth    *Synthesizer
	cache    *redis.Cache
	cacheTTL time.Duration
	logger   *logger.Logger
}

// NewService creates a market data service. cache may be nil to disable
// series caching.
func NewService(provider Provider, synth *Synthesizer, cache *redis.Cache, cacheTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		provider: provider,
		synth:    synth,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

// FetchHistorical returns a validated daily series for the ticker. The
// live provider is tried once; an empty result falls back to synthetic
// data. Validation failures propagate as *ValidationError, transport
// failures wrap ErrFetch.
func (s *Service) FetchHistorical(ctx context.Context, ticker string, from, to time.Time) ([]contracts.MarketBar, error) {
	cacheKey := fmt.Sprintf("bars:%s:%s:%s", ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))

	if s.cache != nil {
		var cached []contracts.MarketBar
		if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
			s.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"count":  len(cached),
			}).Debug("Bar series served from cache")
			return cached, nil
		}
	}

	raw, err := s.provider.FetchDaily(ctx, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFetch, ticker, err)
	}

	if len(raw) == 0 {
		s.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
		}).Warn("Provider returned empty series, falling back to synthetic data")
		raw = s.synth.Synthesize(ticker, from, to)
	}

	bars, err := Validate(raw, ticker)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(bars),
	}).Info("Fetched market data")

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, bars, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache bar series")
		}
	}

	return bars, nil
}
