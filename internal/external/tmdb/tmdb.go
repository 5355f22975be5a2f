package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/benwatts/whatson/internal/circuitbreaker"
	"github.com/benwatts/whatson/internal/errors"
	"github.com/benwatts/whatson/internal/logger"
	"github.com/benwatts/whatson/internal/retry"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w185"
	defaultTimeout = 10 * time.Second
)

// Client handles TMDB API interactions. It is the poster/catalog
// provider: the only lookup the watchlist needs is a title search that
// yields a catalog id and poster art.
type Client struct {
	apiKey     string
	language   string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	circuitBrk *circuitbreaker.CircuitBreaker
}

// Config holds TMDB client configuration
type Config struct {
	APIKey   string
	Language string
	BaseURL  string
	Timeout  time.Duration
}

// ShowResult is the subset of a TMDB TV search hit the watchlist uses
type ShowResult struct {
	CatalogID int    `json:"catalog_id"`
	PosterURL string `json:"poster_url"`
}

type searchResponse struct {
	Page    int `json:"page"`
	Results []struct {
		ID           int     `json:"id"`
		Name         string  `json:"name"`
		FirstAirDate string  `json:"first_air_date"`
		PosterPath   *string `json:"poster_path"`
	} `json:"results"`
	TotalResults int `json:"total_results"`
}

// NewClient creates a new TMDB API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Language == "" {
		cfg.Language = "en-US"
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &Client{
		apiKey:   cfg.APIKey,
		language: cfg.Language,
		baseURL:  cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:     logger.App(),
		circuitBrk: circuitbreaker.New(circuitbreaker.DefaultConfig()),
	}
}

// SearchShow searches for a TV show by title and returns the first
// match's catalog id and poster URL. No disambiguation by year or
// network is attempted.
func (c *Client) SearchShow(ctx context.Context, title string) (*ShowResult, error) {
	params := url.Values{}
	params.Set("query", title)

	var response searchResponse
	if err := c.makeRequest(ctx, "/search/tv", params, &response); err != nil {
		return nil, err
	}

	if len(response.Results) == 0 {
		return nil, nil
	}

	first := response.Results[0]
	result := &ShowResult{CatalogID: first.ID}
	if first.PosterPath != nil {
		result.PosterURL = imageBaseURL + *first.PosterPath
	}
	return result, nil
}

// makeRequest performs a TMDB API request with circuit breaker and retry
func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)

	requestURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	operation := func() error {
		return c.circuitBrk.Execute(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Accept", "application/json")
			req.Header.Set("Accept-Language", c.language)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return errors.Wrap(err, errors.CodeProviderTimeout, "TMDB request failed")
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests {
				return errors.New(errors.CodeRateLimited, "TMDB API rate limit exceeded")
			}

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				body, _ := io.ReadAll(resp.Body)
				code := errors.CodeProviderUnavailable
				if resp.StatusCode < 500 {
					code = errors.CodeInvalidInput
				}
				return errors.New(code, fmt.Sprintf("TMDB API error (status %d): %s", resp.StatusCode, string(body)))
			}

			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}

			if err := json.Unmarshal(body, result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}

			return nil
		})
	}

	err := retry.Do(ctx, retry.DefaultConfig(), operation, errors.IsRetryable)
	if err != nil {
		c.logger.WithFields(map[string]interface{}{
			"endpoint": endpoint,
			"error":    err.Error(),
		}).Warn("TMDB API request failed after retries")
		return errors.ProviderError("tmdb", "show lookup failed", err)
	}

	return nil
}
