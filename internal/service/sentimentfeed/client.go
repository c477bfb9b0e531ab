package sentimentfeed

import (
	"context"
	"fmt"
	"time"

	"StockSense/internal/domain/models"
	drepo "StockSense/internal/domain/repository"
	icache "StockSense/internal/service/cache"
	xhttp "StockSense/pkg/http"
)

// sourcePaths maps each source kind to its endpoint under the feed base URL.
var sourcePaths = map[models.SourceKind]string{
	models.SourceNews:    "/sentiment/news",
	models.SourceAnalyst: "/sentiment/analyst",
	models.SourceSocial:  "/sentiment/social",
}

// Client fetches raw sentiment samples from the feed service over HTTP.
// Responses are cached briefly per (source, symbol) so dashboard refreshes
// do not hammer the providers. Scores are clamped to [-1, 1] here, at the
// adapter boundary, so the core only sees validated samples.
type Client struct {
	baseURL  string
	http     *xhttp.Client
	cache    *icache.TTLCache
	cacheTTL time.Duration
}

func New(baseURL string, timeout, cacheTTL time.Duration) *Client {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &Client{
		baseURL:  baseURL,
		http:     xhttp.NewClient(xhttp.WithTimeout(timeout)),
		cache:    icache.NewTTLCache(),
		cacheTTL: cacheTTL,
	}
}

type sampleResponse struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
	AsOf   int64   `json:"as_of"` // unix seconds
}

// FetchSamples returns the latest sample from every source that has one.
// A source that errors or has no data for the symbol is simply absent from
// the result; it is never substituted with a zero score.
func (c *Client) FetchSamples(ctx context.Context, symbol string) ([]models.SentimentSample, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("sentiment feed not configured")
	}

	var samples []models.SentimentSample
	var lastErr error
	for kind, path := range sourcePaths {
		s, err := c.fetchOne(ctx, kind, path, symbol)
		if err != nil {
			lastErr = err
			continue
		}
		if s != nil {
			samples = append(samples, *s)
		}
	}
	if len(samples) == 0 && lastErr != nil {
		return nil, fmt.Errorf("fetch sentiment %s: %w", symbol, lastErr)
	}
	return samples, nil
}

func (c *Client) fetchOne(ctx context.Context, kind models.SourceKind, path, symbol string) (*models.SentimentSample, error) {
	key := string(kind) + ":" + symbol
	if v, ok := c.cache.Get(key); ok {
		s := v.(models.SentimentSample)
		return &s, nil
	}

	var resp sampleResponse
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method:      xhttp.MethodGet,
		URL:         c.baseURL + path,
		QueryParams: map[string][]string{"symbol": {symbol}},
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Symbol == "" || resp.AsOf == 0 {
		return nil, nil // source has nothing for this symbol
	}

	s := models.SentimentSample{
		Symbol: resp.Symbol,
		Source: kind,
		Score:  clampScore(resp.Score),
		AsOf:   time.Unix(resp.AsOf, 0),
	}
	c.cache.Set(key, s, c.cacheTTL)
	return &s, nil
}

func clampScore(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

var _ drepo.SentimentProvider = (*Client)(nil)
