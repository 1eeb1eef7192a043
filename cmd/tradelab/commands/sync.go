package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/joonho-lim/tradelab/internal/external/stooq"
	"github.com/joonho-lim/tradelab/internal/marketdata"
	"github.com/joonho-lim/tradelab/pkg/config"
	"github.com/joonho-lim/tradelab/pkg/database"
	"github.com/joonho-lim/tradelab/pkg/httputil"
	"github.com/joonho-lim/tradelab/pkg/logger"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Backfill the local price store from the live source",
	Long: `Fetches daily bars from the live source, validates them, and
upserts them into the local Postgres price store. Requires DATABASE_URL.

Example:
  go run ./cmd/tradelab sync --ticker AAPL --start 2023-01-01 --end 2024-01-01`,
	RunE: runSync,
}

var (
	syncTicker string
	syncStart  string
	syncEnd    string
)

func init() {
	rootCmd.AddCommand(syncCmd)

	// Flags
	syncCmd.Flags().StringVar(&syncTicker, "ticker", "", "ticker symbol (required)")
	syncCmd.Flags().StringVar(&syncStart, "start", "", "start date YYYY-MM-DD (default: 1 year ago)")
	syncCmd.Flags().StringVar(&syncEnd, "end", "", "end date YYYY-MM-DD (default: today)")
	syncCmd.MarkFlagRequired("ticker")
}

func runSync(cmd *cobra.Command, args []string) error {
	fmt.Println("=== tradelab Price Sync ===")

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	now := time.Now()
	from := now.AddDate(-1, 0, 0)
	to := now

	if syncStart != "" {
		from, err = time.Parse("2006-01-02", syncStart)
		if err != nil {
			return fmt.Errorf("invalid --start date: %w", err)
		}
	}
	if syncEnd != "" {
		to, err = time.Parse("2006-01-02", syncEnd)
		if err != nil {
			return fmt.Errorf("invalid --end date: %w", err)
		}
	}
	if !to.After(from) {
		return fmt.Errorf("--end must be after --start")
	}

	db, err := database.New(cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()

	httpClient := httputil.New(cfg.MarketData.RequestsPerSec, log)
	client := stooq.NewClient(httpClient, cfg.MarketData.StooqBaseURL, log)
	repo := marketdata.NewPriceRepository(db.Pool)

	ctx := context.Background()
	raw, err := client.FetchDaily(ctx, syncTicker, from, to)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", syncTicker, err)
	}

	bars, err := marketdata.Validate(raw, syncTicker)
	if err != nil {
		return fmt.Errorf("validate %s: %w", syncTicker, err)
	}

	if err := repo.Save(ctx, syncTicker, bars); err != nil {
		return fmt.Errorf("save %s: %w", syncTicker, err)
	}

	log.WithFields(map[string]interface{}{
		"ticker": syncTicker,
		"bars":   len(bars),
	}).Info("Price store updated")
	fmt.Printf("\nStored %d bars for %s (%s ~ %s)\n",
		len(bars), syncTicker, from.Format("2006-01-02"), to.Format("2006-01-02"))
	return nil
}
