package timeline

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jgoulah/timelinescraper/internal/config"
	"golang.org/x/time/rate"
)

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"

// AuthError represents an authentication failure
type AuthError struct {
	StatusCode int
	Message    string
}

func (e *AuthError) Error() string {
	return e.Message
}

// StatusError is returned for any other unexpected response status
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s (status %d)", e.URL, e.StatusCode)
}

// Doer is the subset of *http.Client used by Client
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches timeline KML for a day
type Client struct {
	baseURL  string
	authUser int
	cookies  []config.Cookie
	http     Doer
	limiter  *rate.Limiter
	cache    *Cache
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(d Doer) Option {
	return func(c *Client) { c.http = d }
}

// WithCache enables the on-disk response cache
func WithCache(cache *Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithRateLimit caps outbound requests per second
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1) }
}

// WithAuthUser selects the signed-in account index
func WithAuthUser(n int) Option {
	return func(c *Client) { c.authUser = n }
}

// NewClient creates a timeline client for baseURL using the given cookies
func NewClient(baseURL string, cookies []config.Cookie, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		cookies: cookies,
		http:    &http.Client{Timeout: 30 * time.Second},
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch returns the KML timeline covering day through the following day
func (c *Client) Fetch(ctx context.Context, day time.Time) (string, error) {
	u, err := TimelineURL(c.baseURL, c.authUser, day, AddDays(day, 1))
	if err != nil {
		return "", err
	}
	reqURL := u.String()

	if c.cache != nil {
		body, ok, err := c.cache.Get(reqURL)
		if err != nil {
			return "", err
		}
		if ok {
			return body, nil
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	for _, cookie := range c.cookies {
		req.AddCookie(&http.Cookie{
			Name:  cookie.Name,
			Value: cookie.Value,
		})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		body, _ := io.ReadAll(resp.Body)
		return "", &AuthError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("authentication failed (status %d): %s", resp.StatusCode, string(body)),
		}
	}

	// 200 through 400 inclusive counts as success
	if resp.StatusCode < 200 || resp.StatusCode > 400 {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: reqURL}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	body := string(bodyBytes)

	if c.cache != nil {
		if err := c.cache.Put(reqURL, body); err != nil {
			return "", err
		}
	}

	return body, nil
}

// Touch requests the timeline for day and discards the response text
func (c *Client) Touch(ctx context.Context, day time.Time) error {
	_, err := c.Fetch(ctx, day)
	return err
}
