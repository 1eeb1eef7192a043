package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joonho-lim/tradelab/internal/analytics"
	"github.com/joonho-lim/tradelab/internal/strategy"
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a one-off backtest from the command line",
	Long: `Runs a single backtest and prints the analytics report.

Example:
  go run ./cmd/tradelab backtest --ticker AAPL --strategy ma_crossover
  go run ./cmd/tradelab backtest --ticker MSFT --strategy momentum --start 2023-01-01 --end 2024-01-01`,
	RunE: runBacktest,
}

var (
	backtestTicker   string
	backtestStrategy string
	backtestStart    string
	backtestEnd      string
	backtestCapital  float64
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	// Flags
	backtestCmd.Flags().StringVar(&backtestTicker, "ticker", "", "ticker symbol (required)")
	backtestCmd.Flags().StringVar(&backtestStrategy, "strategy", "ma_crossover", "strategy identifier")
	backtestCmd.Flags().StringVar(&backtestStart, "start", "", "start date YYYY-MM-DD (default: 1 year ago)")
	backtestCmd.Flags().StringVar(&backtestEnd, "end", "", "end date YYYY-MM-DD (default: today)")
	backtestCmd.Flags().Float64Var(&backtestCapital, "capital", 0, "initial capital (default: from config)")
	backtestCmd.MarkFlagRequired("ticker")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tradelab Backtest ===")

	deps, err := buildDeps()
	if err != nil {
		return err
	}
	defer deps.cleanup()

	now := time.Now()
	from := now.AddDate(-1, 0, 0)
	to := now

	if backtestStart != "" {
		from, err = time.Parse("2006-01-02", backtestStart)
		if err != nil {
			return fmt.Errorf("invalid --start date: %w", err)
		}
	}
	if backtestEnd != "" {
		to, err = time.Parse("2006-01-02", backtestEnd)
		if err != nil {
			return fmt.Errorf("invalid --end date: %w", err)
		}
	}
	if !to.After(from) {
		return fmt.Errorf("--end must be after --start")
	}

	capital := backtestCapital
	if capital == 0 {
		capital = deps.cfg.Backtest.DefaultInitialCapital
	}
	if capital <= 0 {
		return fmt.Errorf("--capital must be positive")
	}

	strat, err := strategy.New(backtestStrategy, nil)
	if err != nil {
		return err
	}

	printBacktestHeader(backtestTicker, backtestStrategy, from, to, capital)

	ctx := context.Background()
	bars, err := deps.marketData.FetchHistorical(ctx, backtestTicker, from, to)
	if err != nil {
		return fmt.Errorf("fetch market data: %w", err)
	}

	start := time.Now()
	run := deps.engine.Run(ctx, backtestTicker, bars, strat, capital)
	result := deps.calculator.Compute(run.EquityCurve, run.Trades, capital)
	bench := deps.benchmark.SimulateBuyHold(bars, capital)
	elapsed := time.Since(start)

	result.Metrics = analytics.SanitizeMetricSet(result.Metrics)
	printBacktestReport(len(bars), elapsed, capital, analytics.Sanitize(run.FinalValue), result)

	if len(bench.EquityCurve) > 0 {
		b := analytics.SanitizeBenchmark(bench)
		fmt.Println("Benchmark (buy & hold)")
		fmt.Printf("  Total Return: %+.2f%%\n", b.Metrics.TotalReturn*100)
		fmt.Printf("  Final Value:  %.2f\n", b.Metrics.FinalValue)
	}

	return nil
}

func printBacktestHeader(ticker, strategyName string, from, to time.Time, capital float64) {
	fmt.Printf("\nTicker:   %s\n", ticker)
	fmt.Printf("Strategy: %s\n", strategyName)
	fmt.Printf("Period:   %s ~ %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))
	fmt.Printf("Capital:  %.2f\n\n", capital)
}

func printBacktestReport(bars int, elapsed time.Duration, capital, finalValue float64, result analytics.Result) {
	fmt.Println("Backtest completed")
	fmt.Printf("  Bars:     %d\n", bars)
	fmt.Printf("  Duration: %.3fs\n\n", elapsed.Seconds())

	fmt.Println("Performance")
	fmt.Printf("  Initial Capital: %.2f\n", capital)
	fmt.Printf("  Final Value:     %.2f\n", finalValue)
	fmt.Printf("  Total Return:    %+.2f%%\n", result.Metrics.TotalReturn*100)
	fmt.Printf("  CAGR:            %+.2f%%\n", result.Metrics.CAGR*100)
	fmt.Printf("  Sharpe Ratio:    %.2f\n", result.Metrics.SharpeRatio)
	fmt.Printf("  Volatility:      %.2f%%\n", result.Metrics.Volatility*100)
	fmt.Printf("  Max Drawdown:    %.2f%%\n", result.Metrics.MaxDrawdown*100)
	fmt.Println()

	fmt.Println("Trades")
	fmt.Printf("  Total:         %d\n", result.Metrics.TotalTrades)
	fmt.Printf("  Win Rate:      %.2f%%\n", result.Metrics.WinRate*100)
	fmt.Printf("  Profit Factor: %.2f\n", result.Metrics.ProfitFactor)
	fmt.Printf("  Avg Net PnL:   %.2f\n", result.Metrics.AvgTradeNetPnL)
	if result.Degraded {
		fmt.Printf("  Note: metrics degraded (%s)\n", result.Reason)
	}
	fmt.Println()
}
