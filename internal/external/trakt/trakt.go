package trakt

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
	defaultBaseURL = "https://api.trakt.tv"
	apiVersion     = "2"
	defaultTimeout = 10 * time.Second
)

// Client handles Trakt API interactions. It is the schedule/catalog
// provider: title search, per-slug details (air schedule), and trending
// shows for recommendations.
type Client struct {
	clientID   string
	baseURL    string
	httpClient *http.Client
	logger     *logger.Logger
	circuitBrk *circuitbreaker.CircuitBreaker
}

// Config holds Trakt client configuration
type Config struct {
	ClientID string
	BaseURL  string
	Timeout  time.Duration
}

// IDs holds external identifiers for a show
type IDs struct {
	Trakt int    `json:"trakt,omitempty"`
	Slug  string `json:"slug,omitempty"`
	IMDB  string `json:"imdb,omitempty"`
	TMDB  int    `json:"tmdb,omitempty"`
}

// Show represents a Trakt show summary
type Show struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Status   string `json:"status,omitempty"`
	Overview string `json:"overview,omitempty"`
	IDs      IDs    `json:"ids"`
}

// ShowDetails represents extended show information
type ShowDetails struct {
	Title    string `json:"title"`
	Year     int    `json:"year"`
	Status   string `json:"status"`
	Network  string `json:"network"`
	Overview string `json:"overview"`
	IDs      IDs    `json:"ids"`
	Airs     struct {
		Day      string `json:"day"`
		Time     string `json:"time"`
		Timezone string `json:"timezone"`
	} `json:"airs"`
}

type searchResult struct {
	Type  string  `json:"type"`
	Score float64 `json:"score"`
	Show  *Show   `json:"show,omitempty"`
}

type trendingResult struct {
	Watchers int   `json:"watchers"`
	Show     *Show `json:"show,omitempty"`
}

// NewClient creates a new Trakt API client
func NewClient(cfg Config) *Client {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}

	return &Client{
		clientID: cfg.ClientID,
		baseURL:  cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger:     logger.App(),
		circuitBrk: circuitbreaker.New(circuitbreaker.DefaultConfig()),
	}
}

// SearchShow searches for a show by title and returns the first match
func (c *Client) SearchShow(ctx context.Context, title string) (*Show, error) {
	params := url.Values{}
	params.Set("query", title)

	var results []searchResult
	if err := c.makeRequest(ctx, "/search/show", params, &results); err != nil {
		return nil, err
	}

	for _, r := range results {
		if r.Show != nil {
			return r.Show, nil
		}
	}
	return nil, nil
}

// GetShowDetails retrieves extended information, including the air
// schedule, for a show by slug
func (c *Client) GetShowDetails(ctx context.Context, slug string) (*ShowDetails, error) {
	params := url.Values{}
	params.Set("extended", "full")

	var details ShowDetails
	endpoint := fmt.Sprintf("/shows/%s", url.PathEscape(slug))
	if err := c.makeRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}
	return &details, nil
}

// TrendingShows returns the currently trending shows on Trakt, in
// provider order
func (c *Client) TrendingShows(ctx context.Context, limit int) ([]Show, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}
	params.Set("extended", "full")

	var results []trendingResult
	if err := c.makeRequest(ctx, "/shows/trending", params, &results); err != nil {
		return nil, err
	}

	shows := make([]Show, 0, len(results))
	for _, r := range results {
		if r.Show != nil {
			shows = append(shows, *r.Show)
		}
	}
	return shows, nil
}

// SearchShows searches for shows by title and returns all matches in
// provider order
func (c *Client) SearchShows(ctx context.Context, query string) ([]Show, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("extended", "full")

	var results []searchResult
	if err := c.makeRequest(ctx, "/search/show", params, &results); err != nil {
		return nil, err
	}

	shows := make([]Show, 0, len(results))
	for _, r := range results {
		if r.Show != nil {
			shows = append(shows, *r.Show)
		}
	}
	return shows, nil
}

// makeRequest performs a Trakt API request with circuit breaker and retry
func (c *Client) makeRequest(ctx context.Context, endpoint string, params url.Values, result interface{}) error {
	requestURL := c.baseURL + endpoint
	if len(params) > 0 {
		requestURL += "?" + params.Encode()
	}

	operation := func() error {
		return c.circuitBrk.Execute(func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("trakt-api-version", apiVersion)
			req.Header.Set("trakt-api-key", c.clientID)

			resp, err := c.httpClient.Do(req)
			if err != nil {
				return errors.Wrap(err, errors.CodeProviderTimeout, "Trakt request failed")
			}
			defer resp.Body.Close()

			if resp.StatusCode == http.StatusTooManyRequests {
				return errors.New(errors.CodeRateLimited, "Trakt API rate limit exceeded")
			}

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				body, _ := io.ReadAll(resp.Body)
				code := errors.CodeProviderUnavailable
				if resp.StatusCode < 500 {
					code = errors.CodeInvalidInput
				}
				return errors.New(code, fmt.Sprintf("Trakt API error (status %d): %s", resp.StatusCode, string(body)))
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
		}).Warn("Trakt API request failed after retries")
		return errors.ProviderError("trakt", "catalog lookup failed", err)
	}

	return nil
}
