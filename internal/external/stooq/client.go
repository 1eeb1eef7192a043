package stooq

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/joonho-lim/tradelab/internal/contracts"
	"github.com/joonho-lim/tradelab/pkg/httputil"
	"github.com/joonho-lim/tradelab/pkg/logger"
)

// Client fetches daily price history from Stooq. Stooq serves history as
// an HTML table, so responses are scraped rather than decoded.
type Client struct {
	httpClient *httputil.Client
	baseURL    string
	logger     *logger.Logger
}

// NewClient creates a new Stooq client
func NewClient(httpClient *httputil.Client, baseURL string, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     log,
	}
}

// FetchDaily fetches daily bars for a ticker within a date range. An
// unknown ticker yields an empty table, which comes back as an empty
// slice rather than an error.
func (c *Client) FetchDaily(ctx context.Context, ticker string, from, to time.Time) ([]contracts.RawBar, error) {
	symbol := strings.ToLower(ticker)
	if !strings.Contains(symbol, ".") {
		// Stooq qualifies US tickers with a market suffix.
		symbol += ".us"
	}

	fullURL := fmt.Sprintf(
		"%s/q/d/?s=%s&d1=%s&d2=%s&i=d",
		c.baseURL, symbol, from.Format("20060102"), to.Format("20060102"),
	)

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	bars, err := parseHistoryTable(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse response failed: %w", err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"count":  len(bars),
	}).Debug("Fetched bars from stooq")
	return bars, nil
}

// parseHistoryTable parses the Stooq daily-history HTML table into raw
// bars. Unparseable numeric cells become nil so the validator can report
// them; rows without a parseable date are skipped entirely.
func parseHistoryTable(html string) ([]contracts.RawBar, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var bars []contracts.RawBar
	doc.Find("table#fth1 tbody tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 7 {
			return
		}

		// Columns: No. | Date | Open | High | Low | Close | Volume
		date, ok := parseDate(strings.TrimSpace(cells.Eq(1).Text()))
		if !ok {
			return
		}

		bars = append(bars, contracts.RawBar{
			Date:   date,
			Open:   parseCell(cells.Eq(2).Text()),
			High:   parseCell(cells.Eq(3).Text()),
			Low:    parseCell(cells.Eq(4).Text()),
			Close:  parseCell(cells.Eq(5).Text()),
			Volume: parseCell(cells.Eq(6).Text()),
		})
	})

	return bars, nil
}

// parseDate handles the two date formats Stooq is known to serve.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2 Jan 2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseCell parses a numeric table cell, nil when empty or malformed.
func parseCell(s string) *float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	if s == "" || s == "-" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
