// Package boersedata is the public entry point for fetching Börse
// Stuttgart chart data. A Client turns an instrument identifier and a
// range into a render-ready chart payload: it fetches the instrument's
// detail page, extracts the embedded client-state payload, normalizes the
// candles and computes the requested indicators.
package boersedata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rxtech-lab/boerse-charts/internal/chart"
	"github.com/rxtech-lab/boerse-charts/internal/extractor"
	"github.com/rxtech-lab/boerse-charts/internal/logger"
	"github.com/rxtech-lab/boerse-charts/internal/normalizer"
	"github.com/rxtech-lab/boerse-charts/internal/search"
	"github.com/rxtech-lab/boerse-charts/internal/types"
	"github.com/rxtech-lab/boerse-charts/pkg/errors"
)

const (
	// DefaultBaseURL is the exchange website.
	DefaultBaseURL = "https://www.boerse-stuttgart.de"

	// DefaultUserAgent identifies the client honestly while keeping the
	// browser-family prefix the site expects.
	DefaultUserAgent = "Mozilla/5.0 (compatible; StockChartingBot/1.0)"

	// DefaultTimeout bounds a single page fetch.
	DefaultTimeout = 20 * time.Second
)

// ClientConfig holds the configuration for the chart data client.
type ClientConfig struct {
	BaseURL   string        `validate:"required,url"`
	UserAgent string        `validate:"required"`
	Timeout   time.Duration `validate:"gt=0"`
	// Timezone overrides the zone used for range windows and timestamp
	// interpretation. Nil means the exchange's home zone (Europe/Berlin).
	Timezone *time.Location
}

// DefaultClientConfig returns a config pointed at the live exchange
// website.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
	}
}

// ChartRequest describes one chart fetch.
type ChartRequest struct {
	// Identifier is the instrument's ISIN (or a raw page slug for
	// instruments without a German ISIN).
	Identifier string `validate:"required"`
	// Name is an optional display name carried into the series when the
	// payload does not provide one.
	Name string
	// Range selects the time window.
	Range types.RangeKey `validate:"required"`
	// Indicators selects what Build computes over the series.
	Indicators chart.Config
}

// Client fetches and assembles chart data.
type Client struct {
	config   ClientConfig
	fetcher  Fetcher
	logger   *logger.Logger
	validate *validator.Validate
}

// NewClient creates a new chart data client with the given configuration.
// A nil fetcher gets the default HTTP fetcher built from the config.
func NewClient(config ClientConfig, fetcher Fetcher, log *logger.Logger) (*Client, error) {
	validate := validator.New()
	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, "invalid client configuration", err)
	}

	if fetcher == nil {
		fetcher = NewHTTPFetcher(config.Timeout, config.UserAgent)
	}

	return &Client{
		config:   config,
		fetcher:  fetcher,
		logger:   log,
		validate: validate,
	}, nil
}

// Chart runs the full pipeline for one instrument: fetch the detail page,
// extract the embedded state, normalize the candles into the requested
// range and compute the configured indicators.
//
// When the range filter leaves zero candles the payload is still returned
// with its series metadata, together with an *errors.EmptyRangeError, so
// callers can render an empty chart instead of failing.
func (c *Client) Chart(ctx context.Context, req ChartRequest) (types.ChartPayload, error) {
	if err := c.validate.Struct(req); err != nil {
		return types.ChartPayload{}, errors.Wrap(errors.ErrCodeInvalidConfig, "invalid chart request", err)
	}

	if !req.Range.Valid() {
		return types.ChartPayload{}, errors.Newf(errors.ErrCodeInvalidRange, "unknown range %q", string(req.Range))
	}

	pageURL := c.DetailURL(req.Identifier, req.Range)

	c.logger.Debug("Fetching instrument page",
		zap.String("identifier", req.Identifier),
		zap.String("url", pageURL))

	doc, err := c.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return types.ChartPayload{}, err
	}

	tree, err := extractor.Extract(doc)
	if err != nil {
		return types.ChartPayload{}, err
	}

	loc := c.config.Timezone
	if loc == nil {
		loc = types.ExchangeLocation()
	}

	window := req.Range.Window(time.Now(), loc)

	series, skipped, err := normalizer.Normalize(tree, window, req.Range, normalizer.Hint{
		Identifier: req.Identifier,
		Name:       req.Name,
		Location:   loc,
	})
	if err != nil && !errors.IsEmptyRangeError(err) {
		return types.ChartPayload{}, err
	}

	emptyRange := err

	payload, buildErr := chart.Build(series, req.Indicators)
	if buildErr != nil {
		return types.ChartPayload{}, buildErr
	}

	payload.SkippedRows = skipped

	if skipped > 0 {
		c.logger.Debug("Dropped malformed candle rows",
			zap.String("identifier", req.Identifier),
			zap.Int("skipped", skipped))
	}

	return payload, emptyRange
}

// Search queries the exchange's search page and returns the instrument
// rows it lists.
func (c *Client) Search(ctx context.Context, query string) ([]types.InstrumentRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "search query must not be empty")
	}

	doc, err := c.fetcher.Fetch(ctx, c.SearchURL(query))
	if err != nil {
		return nil, err
	}

	records, skipped := search.Parse(doc)
	if skipped > 0 {
		c.logger.Debug("Dropped incomplete search rows",
			zap.String("query", query),
			zap.Int("skipped", skipped))
	}

	return records, nil
}

// DetailURL returns the instrument detail page URL for a range. German
// ISINs are mapped to their WKN slug; anything else is used as-is. The
// range and its native bar interval ride along as query parameters.
func (c *Client) DetailURL(identifier string, key types.RangeKey) string {
	slug := types.WKNFromISIN(identifier)
	base := fmt.Sprintf("%s/en/products/equities/stuttgart/%s",
		strings.TrimRight(c.config.BaseURL, "/"), url.PathEscape(slug))

	opt, ok := key.Option()
	if !ok {
		return base
	}

	params := url.Values{}
	params.Set("range", string(opt.Key))
	params.Set("interval", opt.Interval)

	return base + "?" + params.Encode()
}

// SearchURL returns the search page URL for a query.
func (c *Client) SearchURL(query string) string {
	return fmt.Sprintf("%s/en/search?q=%s",
		strings.TrimRight(c.config.BaseURL, "/"), url.QueryEscape(query))
}
