package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/joonho-lim/tradelab/internal/analytics"
	"github.com/joonho-lim/tradelab/internal/contracts"
	"github.com/joonho-lim/tradelab/internal/engine"
	"github.com/joonho-lim/tradelab/internal/marketdata"
	"github.com/joonho-lim/tradelab/internal/strategy"
	"github.com/joonho-lim/tradelab/pkg/config"
	"github.com/joonho-lim/tradelab/pkg/logger"
)

// MarketDataFetcher fetches a validated bar series for a ticker.
type MarketDataFetcher interface {
	FetchHistorical(ctx context.Context, ticker string, from, to time.Time) ([]contracts.MarketBar, error)
}

// BacktestRunner replays a bar series through a strategy.
type BacktestRunner interface {
	Run(ctx context.Context, ticker string, bars []contracts.MarketBar, strat strategy.Strategy, initialCapital float64) *engine.RunResult
}

// BacktestHandler handles backtest API endpoints
type BacktestHandler struct {
	marketData MarketDataFetcher
	runner     BacktestRunner
	calculator *analytics.Calculator
	benchmark  *analytics.Benchmark
	config     *config.Config
	logger     *logger.Logger
}

// NewBacktestHandler creates a new backtest handler
func NewBacktestHandler(
	marketData MarketDataFetcher,
	runner BacktestRunner,
	calculator *analytics.Calculator,
	benchmark *analytics.Benchmark,
	cfg *config.Config,
	log *logger.Logger,
) *BacktestHandler {
	return &BacktestHandler{
		marketData: marketData,
		runner:     runner,
		calculator: calculator,
		benchmark:  benchmark,
		config:     cfg,
		logger:     log,
	}
}

// BacktestRequest represents a backtest submission
type BacktestRequest struct {
	Ticker         string             `json:"ticker"`
	StartDate      string             `json:"start_date"` // YYYY-MM-DD
	EndDate        string             `json:"end_date"`   // YYYY-MM-DD
	InitialCapital float64            `json:"initial_capital"`
	Strategy       string             `json:"strategy"`
	Parameters     map[string]float64 `json:"parameters"`
}

// BacktestResponse represents a completed backtest report
type BacktestResponse struct {
	RunID          string                     `json:"run_id"`
	Ticker         string                     `json:"ticker"`
	Strategy       string                     `json:"strategy"`
	StartDate      string                     `json:"start_date"`
	EndDate        string                     `json:"end_date"`
	InitialCapital float64                    `json:"initial_capital"`
	FinalValue     float64                    `json:"final_value"`
	Metrics        contracts.MetricSet        `json:"metrics"`
	Degraded       bool                       `json:"degraded"`
	DegradedReason string                     `json:"degraded_reason,omitempty"`
	EquityCurve    []contracts.EquityPoint    `json:"equity_curve"`
	Trades         []contracts.TradeRecord    `json:"trades"`
	Benchmark      *contracts.BenchmarkResult `json:"benchmark"`
}

// Run executes a backtest and returns the analytics report
// POST /api/backtest
func (h *BacktestHandler) Run(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Ticker == "" {
		respondError(w, http.StatusBadRequest, "Missing 'ticker'")
		return
	}

	from, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'start_date' format (expected YYYY-MM-DD)")
		return
	}
	to, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'end_date' format (expected YYYY-MM-DD)")
		return
	}
	if !to.After(from) {
		respondError(w, http.StatusBadRequest, "'end_date' must be after 'start_date'")
		return
	}

	capital := req.InitialCapital
	if capital == 0 {
		capital = h.config.Backtest.DefaultInitialCapital
	}
	if capital <= 0 {
		respondError(w, http.StatusBadRequest, "'initial_capital' must be positive")
		return
	}

	strat, err := strategy.New(req.Strategy, req.Parameters)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	bars, err := h.marketData.FetchHistorical(ctx, req.Ticker, from, to)
	if err != nil {
		var valErr *marketdata.ValidationError
		switch {
		case errors.As(err, &valErr):
			respondError(w, http.StatusNotFound, valErr.Error())
		case errors.Is(err, marketdata.ErrFetch):
			respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.WithError(err).Error("Failed to fetch market data")
			respondError(w, http.StatusInternalServerError, "Failed to fetch market data: "+err.Error())
		}
		return
	}

	runID := uuid.New().String()
	h.logger.WithFields(map[string]interface{}{
		"run_id":   runID,
		"ticker":   req.Ticker,
		"strategy": req.Strategy,
		"bars":     len(bars),
	}).Info("Backtest started")

	run := h.runner.Run(ctx, req.Ticker, bars, strat, capital)

	metrics := h.calculator.Compute(run.EquityCurve, run.Trades, capital)
	bench := h.benchmark.SimulateBuyHold(bars, capital)

	resp := BacktestResponse{
		RunID:          runID,
		Ticker:         req.Ticker,
		Strategy:       req.Strategy,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		InitialCapital: capital,
		FinalValue:     analytics.Sanitize(run.FinalValue),
		Metrics:        analytics.SanitizeMetricSet(metrics.Metrics),
		Degraded:       metrics.Degraded,
		DegradedReason: metrics.Reason,
		EquityCurve:    run.EquityCurve,
		Trades:         analytics.SanitizeTrades(run.Trades),
	}
	if len(bench.EquityCurve) > 0 {
		sanitized := analytics.SanitizeBenchmark(bench)
		resp.Benchmark = &sanitized
	}

	respondJSON(w, http.StatusOK, resp)
}

// ListStrategies returns the registered strategy identifiers
// GET /api/strategies
func (h *BacktestHandler) ListStrategies(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": strategy.Available(),
	})
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
