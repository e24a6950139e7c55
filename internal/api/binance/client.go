package binance

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"trend-navigator/internal/model"
	platformhttp "trend-navigator/internal/platform/http"
)

const defaultBaseURL = "https://api.binance.com"

// Client fetches OHLCV klines from the Binance public REST API. No API key
// is needed for historical klines.
type Client struct {
	baseURL    string
	httpClient *platformhttp.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Binance client.
type ClientOptions struct {
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new Binance API client.
func NewClient(opts ClientOptions) *Client {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		httpClient: platformhttp.NewClient(platformhttp.ClientOptions{
			Timeout:         opts.RequestTimeout,
			RequestsPerSec:  opts.RequestsPerSec,
			MaxRetries:      opts.MaxRetries,
			MaxRetryTimeout: opts.MaxRetryTimeout,
		}),
		logger: log.With().Str("component", "binance_client").Logger(),
	}
}

// GetCandles fetches up to limit klines for the symbol/interval pair and
// returns them as a validated, time-ascending series.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, limit int) (model.Series, error) {
	endpoint := fmt.Sprintf("%s/api/v3/klines?symbol=%s&interval=%s&limit=%d",
		c.baseURL, url.QueryEscape(symbol), url.QueryEscape(interval), limit)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build klines request: %w", err)
	}

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read klines response: %w", err)
	}

	candles, err := parseKlines(body)
	if err != nil {
		return nil, err
	}

	series, err := model.NewSeries(candles)
	if err != nil {
		return nil, fmt.Errorf("validate klines: %w", err)
	}

	c.logger.Debug().
		Str("symbol", symbol).
		Str("interval", interval).
		Int("candles", len(series)).
		Msg("Fetched candle series")

	return series, nil
}

// parseKlines decodes the Binance kline rows: arrays of
// [openTime, open, high, low, close, volume, ...] with numeric strings for
// the price fields and a millisecond epoch for the open time.
func parseKlines(body []byte) ([]model.Candle, error) {
	var rows [][]interface{}
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("decode klines response: %w", err)
	}

	candles := make([]model.Candle, 0, len(rows))
	for i, row := range rows {
		if len(row) < 6 {
			return nil, fmt.Errorf("kline row %d has %d fields, want at least 6", i, len(row))
		}
		openTime, ok := row[0].(float64)
		if !ok {
			return nil, fmt.Errorf("kline row %d: open time is not numeric", i)
		}

		prices := make([]float64, 5)
		for j := 1; j <= 5; j++ {
			s, ok := row[j].(string)
			if !ok {
				return nil, fmt.Errorf("kline row %d field %d: want numeric string", i, j)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("kline row %d field %d: %w", i, j, err)
			}
			prices[j-1] = v
		}

		candles = append(candles, model.Candle{
			Timestamp: time.UnixMilli(int64(openTime)).UTC(),
			Open:      prices[0],
			High:      prices[1],
			Low:       prices[2],
			Close:     prices[3],
			Volume:    prices[4],
		})
	}
	return candles, nil
}
