package marketdata

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/joonho-lim/tradelab/internal/contracts"
)

// PriceRepository serves daily bars out of Postgres. It implements
// Provider for deployments that maintain their own price store instead
// of hitting a public quote site.
type PriceRepository struct {
	pool *pgxpool.Pool
}

// NewPriceRepository creates a new price repository
func NewPriceRepository(pool *pgxpool.Pool) *PriceRepository {
	return &PriceRepository{pool: pool}
}

// FetchDaily retrieves bars for a ticker within a date range, oldest
// first. Null price or volume cells come back as nil pointers and are
// left for the validator to judge.
func (r *PriceRepository) FetchDaily(ctx context.Context, ticker string, from, to time.Time) ([]contracts.RawBar, error) {
	query := `
		SELECT trade_date, open_price, high_price, low_price, close_price, volume
		FROM market.daily_bars
		WHERE ticker = $1 AND trade_date BETWEEN $2 AND $3
		ORDER BY trade_date ASC
	`

	rows, err := r.pool.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bars []contracts.RawBar
	for rows.Next() {
		var b contracts.RawBar
		if err := rows.Scan(&b.Date, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		bars = append(bars, b)
	}
	return bars, rows.Err()
}

// Save upserts a batch of validated bars, used to backfill the store
// from a live fetch.
func (r *PriceRepository) Save(ctx context.Context, ticker string, bars []contracts.MarketBar) error {
	query := `
		INSERT INTO market.daily_bars (ticker, trade_date, open_price, high_price, low_price, close_price, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (ticker, trade_date) DO UPDATE SET
			open_price = EXCLUDED.open_price,
			high_price = EXCLUDED.high_price,
			low_price = EXCLUDED.low_price,
			close_price = EXCLUDED.close_price,
			volume = EXCLUDED.volume
	`

	for _, bar := range bars {
		_, err := r.pool.Exec(ctx, query,
			ticker, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
