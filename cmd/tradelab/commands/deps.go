package commands

import (
	"fmt"

	"github.com/joonho-lim/tradelab/internal/analytics"
	"github.com/joonho-lim/tradelab/internal/engine"
	"github.com/joonho-lim/tradelab/internal/external/stooq"
	"github.com/joonho-lim/tradelab/internal/marketdata"
	"github.com/joonho-lim/tradelab/pkg/config"
	"github.com/joonho-lim/tradelab/pkg/database"
	"github.com/joonho-lim/tradelab/pkg/httputil"
	"github.com/joonho-lim/tradelab/pkg/logger"
	"github.com/joonho-lim/tradelab/pkg/redis"
)

// appDeps is the wired service stack shared by the api and backtest
// commands.
type appDeps struct {
	cfg        *config.Config
	log        *logger.Logger
	marketData *marketdata.Service
	engine     *engine.Engine
	calculator *analytics.Calculator
	benchmark  *analytics.Benchmark
	cleanup    func()
}

// buildDeps loads config and wires the full service stack. The
// market-data provider is selected by config: "stooq" scrapes the
// public history pages, "postgres" reads previously stored bars.
func buildDeps() (*appDeps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)
	closers := make([]func(), 0, 2)

	var provider marketdata.Provider
	switch cfg.MarketData.Provider {
	case "postgres":
		db, err := database.New(cfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		closers = append(closers, db.Close)
		provider = marketdata.NewPriceRepository(db.Pool)
		log.Info("Using postgres market-data provider")

	case "stooq":
		httpClient := httputil.New(cfg.MarketData.RequestsPerSec, log)
		provider = stooq.NewClient(httpClient, cfg.MarketData.StooqBaseURL, log)
		log.Info("Using stooq market-data provider")

	default:
		return nil, fmt.Errorf("unknown market data provider: %s", cfg.MarketData.Provider)
	}

	var cache *redis.Cache
	redisClient, err := redis.New(cfg)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable; series cache disabled")
	} else if redisClient.Enabled() {
		cache = redis.NewCache(redisClient, "marketdata")
		closers = append(closers, func() { _ = redisClient.Close() })
		log.Info("Series cache enabled")
	}

	synth := marketdata.NewSynthesizer(cfg.MarketData.SyntheticSeed, log)
	svc := marketdata.NewService(provider, synth, cache, cfg.MarketData.CacheTTL, log)

	return &appDeps{
		cfg:        cfg,
		log:        log,
		marketData: svc,
		engine:     engine.New(cfg.Backtest.TransactionCost, cfg.Backtest.Slippage, log),
		calculator: analytics.NewCalculator(log),
		benchmark:  analytics.NewBenchmark(log),
		cleanup: func() {
			for _, close := range closers {
				close()
			}
		},
	}, nil
}
