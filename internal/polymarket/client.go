// Package polymarket provides a client for Polymarket's public read APIs.
// Implements the Gamma API leaderboard and market listings and the Data API trade feed.
package polymarket

import (
	"cmp"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/leeaandrob/polystories/internal/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// API endpoints
	GammaAPIBase = "https://gamma-api.polymarket.com"
	DataAPIBase  = "https://data-api.polymarket.com"

	// DefaultTimeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// Page sizes
	DefaultTradersLimit = 50
	DefaultMarketsLimit = 20
	DefaultTradesLimit  = 100
)

// Client provides access to Polymarket APIs.
type Client struct {
	gamma  *resty.Client
	data   *resty.Client
	logger zerolog.Logger
}

type clientOptions struct {
	gammaURL   string
	dataURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     zerolog.Logger
}

// Option configures the Client.
type Option func(*clientOptions)

// WithGammaURL sets a custom Gamma API base URL.
func WithGammaURL(u string) Option {
	return func(o *clientOptions) {
		o.gammaURL = u
	}
}

// WithDataURL sets a custom Data API base URL.
func WithDataURL(u string) Option {
	return func(o *clientOptions) {
		o.dataURL = u
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// NewClient creates a new Polymarket client. Requests are never retried.
func NewClient(opts ...Option) *Client {
	o := clientOptions{
		gammaURL: GammaAPIBase,
		dataURL:  DataAPIBase,
		timeout:  DefaultTimeout,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		gamma:  newRESTClient(o.gammaURL, o),
		data:   newRESTClient(o.dataURL, o),
		logger: o.logger.With().Str("component", "polymarket").Logger(),
	}
}

func newRESTClient(baseURL string, o clientOptions) *resty.Client {
	var c *resty.Client
	if o.httpClient != nil {
		c = resty.NewWithClient(o.httpClient)
	} else {
		c = resty.New()
	}

	return c.
		SetBaseURL(baseURL).
		SetTimeout(o.timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "polystories/1.0")
}

// FetchTopTraders retrieves up to limit traders in leaderboard order.
// On failure it logs and returns an empty slice along with the error.
func (c *Client) FetchTopTraders(ctx context.Context, limit int) ([]models.Trader, error) {
	body, err := c.get(ctx, c.gamma, "/leaderboard", nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to fetch traders")
		return []models.Trader{}, err
	}

	records, err := decodeList[traderRecord](body, "leaderboard")
	if err != nil {
		err = fmt.Errorf("failed to parse leaderboard: %w", err)
		c.logger.Error().Err(err).Msg("Failed to fetch traders")
		return []models.Trader{}, err
	}

	if limit >= 0 && len(records) > limit {
		records = records[:limit]
	}

	traders := make([]models.Trader, len(records))
	for i := range records {
		traders[i] = records[i].toModel()
	}

	c.logger.Debug().
		Int("count", len(traders)).
		Msg("Fetched traders")

	return traders, nil
}

// FetchActiveMarkets retrieves active markets ordered by volume, highest first,
// truncated to limit. Markets with equal volume keep their upstream order.
// On failure it logs and returns an empty slice along with the error.
func (c *Client) FetchActiveMarkets(ctx context.Context, limit int) ([]models.Market, error) {
	body, err := c.get(ctx, c.gamma, "/markets", nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to fetch markets")
		return []models.Market{}, err
	}

	records, err := decodeList[marketRecord](body, "markets")
	if err != nil {
		err = fmt.Errorf("failed to parse markets: %w", err)
		c.logger.Error().Err(err).Msg("Failed to fetch markets")
		return []models.Market{}, err
	}

	markets := make([]models.Market, 0, len(records))
	for i := range records {
		m := records[i].toModel()
		if m.Active {
			markets = append(markets, m)
		}
	}

	slices.SortStableFunc(markets, func(a, b models.Market) int {
		return b.Volume.Cmp(a.Volume)
	})

	if limit >= 0 && len(markets) > limit {
		markets = markets[:limit]
	}

	c.logger.Debug().
		Int("received", len(records)).
		Int("active", len(markets)).
		Msg("Fetched markets")

	return markets, nil
}

// FetchBigTrades retrieves recent trades whose notional value is at least minAmount USD.
// On failure it logs and returns an empty slice along with the error.
func (c *Client) FetchBigTrades(ctx context.Context, minAmount decimal.Decimal) ([]models.Trade, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(DefaultTradesLimit))
	params.Set("filterType", "CASH")
	params.Set("filterAmount", minAmount.String())

	body, err := c.get(ctx, c.data, "/trades", params)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to fetch trades")
		return []models.Trade{}, err
	}

	records, err := decodeList[tradeRecord](body, "trades")
	if err != nil {
		err = fmt.Errorf("failed to parse trades: %w", err)
		c.logger.Error().Err(err).Msg("Failed to fetch trades")
		return []models.Trade{}, err
	}

	trades := make([]models.Trade, 0, len(records))
	for i := range records {
		t := records[i].toModel()
		if t.Notional().GreaterThanOrEqual(minAmount) {
			trades = append(trades, t)
		}
	}

	// Newest first
	slices.SortStableFunc(trades, func(a, b models.Trade) int {
		return cmp.Compare(b.Timestamp.Unix(), a.Timestamp.Unix())
	})

	c.logger.Debug().
		Int("received", len(records)).
		Int("big", len(trades)).
		Str("min_amount", minAmount.String()).
		Msg("Fetched trades")

	return trades, nil
}

// get performs a GET and returns the body of a 200 response.
func (c *Client) get(ctx context.Context, rc *resty.Client, path string, params url.Values) ([]byte, error) {
	req := rc.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}

	c.logger.Debug().
		Str("endpoint", path).
		Str("params", params.Encode()).
		Msg("Polymarket API request")

	resp, err := req.Get(path)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("%s returned %d: %s", path, resp.StatusCode(), resp.String())
	}

	return resp.Body(), nil
}
