// Package statsapi fetches team game logs from the public league statistics provider.
package statsapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"nba-matchup-lab/internal/domain"
	"nba-matchup-lab/internal/observability"
)

// Default configuration values.
const (
	DefaultBaseURL           = "https://stats.nba.com/stats"
	DefaultTimeout           = 30 * time.Second
	DefaultMaxRetries        = 3
	DefaultRetryDelay        = 1 * time.Second
	DefaultMaxDelay          = 10 * time.Second
	DefaultBackoffMult       = 2.0
	DefaultRequestsPerSecond = 0.5
	DefaultBurst             = 1
)

// Query parameters for team regular-season game logs.
const (
	endpointGameFinder = "leaguegamefinder"
	leagueNBA          = "00"
	playerOrTeam       = "T"
	seasonTypeRegular  = "Regular Season"
)

// ErrUnexpectedResponse is returned for a non-retryable status or a malformed body.
var ErrUnexpectedResponse = errors.New("unexpected provider response")

// Client fetches season game logs over HTTP.
type Client struct {
	baseURL     string
	client      *http.Client
	limiter     *rate.Limiter
	maxRetries  int
	retryDelay  time.Duration
	maxDelay    time.Duration
	backoffMult float64
	userAgent   string
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithMaxRetries sets maximum retry attempts.
func WithMaxRetries(n int) ClientOption {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets initial retry delay.
func WithRetryDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithMaxDelay sets maximum retry delay.
func WithMaxDelay(d time.Duration) ClientOption {
	return func(c *Client) {
		c.maxDelay = d
	}
}

// WithRateLimit caps outgoing requests. rps <= 0 disables limiting.
func WithRateLimit(rps float64, burst int) ClientOption {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithHTTPClient sets custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a provider client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		client:      &http.Client{Timeout: DefaultTimeout},
		limiter:     rate.NewLimiter(rate.Limit(DefaultRequestsPerSecond), DefaultBurst),
		maxRetries:  DefaultMaxRetries,
		retryDelay:  DefaultRetryDelay,
		maxDelay:    DefaultMaxDelay,
		backoffMult: DefaultBackoffMult,
		userAgent:   "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name identifies the source in logs and metrics.
func (c *Client) Name() string {
	return "statsapi"
}

// FetchSeason retrieves every team's regular-season game log for season.
// Records carry the requested season label as SeasonID.
func (c *Client) FetchSeason(ctx context.Context, season string) ([]*domain.GameRecord, error) {
	if err := domain.ValidateSeason(season); err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("PlayerOrTeam", playerOrTeam)
	q.Set("LeagueID", leagueNBA)
	q.Set("Season", season)
	q.Set("SeasonType", seasonTypeRegular)

	var resp gameFinderResponse
	if err := c.get(ctx, endpointGameFinder, q, &resp); err != nil {
		return nil, fmt.Errorf("fetch season %s: %w", season, err)
	}
	if len(resp.ResultSets) == 0 {
		return nil, fmt.Errorf("fetch season %s: %w: no result sets", season, ErrUnexpectedResponse)
	}

	records, err := decodeResultSet(&resp.ResultSets[0], season)
	if err != nil {
		return nil, fmt.Errorf("decode season %s: %w", season, err)
	}
	observability.RecordFetched(c.Name(), len(records))
	return records, nil
}

// get performs a GET with rate limiting, retries and exponential backoff.
// Transport errors, 429 and 5xx are retried; other statuses are not.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, result any) error {
	reqURL := c.baseURL + "/" + endpoint + "?" + query.Encode()

	delay := c.retryDelay
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			// Exponential backoff
			delay = time.Duration(float64(delay) * c.backoffMult)
			if delay > c.maxDelay {
				delay = c.maxDelay
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}
		c.setHeaders(req)

		start := time.Now()
		resp, err := c.client.Do(req)
		observability.RecordProviderLatency(endpoint, time.Since(start).Seconds())
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			observability.RecordProviderError(endpoint, "transport")
			lastErr = fmt.Errorf("http request: %w", err)
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			observability.RecordProviderError(endpoint, "read")
			lastErr = fmt.Errorf("read response: %w", err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			observability.RecordProviderError(endpoint, "rate_limited")
			lastErr = fmt.Errorf("rate limited (429)")
			continue
		case resp.StatusCode >= http.StatusInternalServerError:
			observability.RecordProviderError(endpoint, "server")
			lastErr = fmt.Errorf("server error %d", resp.StatusCode)
			continue
		case resp.StatusCode != http.StatusOK:
			observability.RecordProviderError(endpoint, "status")
			return fmt.Errorf("%w: status %d: %s", ErrUnexpectedResponse, resp.StatusCode, truncate(body, 200))
		}

		if err := json.Unmarshal(body, result); err != nil {
			observability.RecordProviderError(endpoint, "decode")
			return fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
		}
		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
