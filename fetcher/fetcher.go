// Package fetcher provides HTTP fetching with retries, rate limiting and an
// optional headless-browser fallback.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// ErrUnreachable wraps transport-level failures after retries are exhausted.
var ErrUnreachable = errors.New("page unreachable")

// StatusError reports a non-2xx response that survived retries.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
}

// retryableStatus mirrors the transport retry policy: throttling and
// transient server errors are retried, everything else surfaces immediately.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// Fetcher returns the raw HTML body of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Client is a shared, pooled HTTP fetcher. It is safe for concurrent use;
// sharing one instance across workers is the point (connection pooling).
type Client struct {
	client     *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxRetries int
	backoff    time.Duration
	log        *zap.SugaredLogger
}

// NewClient builds a fetcher with a tuned transport and a polite rate limit.
func NewClient(userAgent string, timeoutSeconds, rateLimit int, log *zap.SugaredLogger) *Client {
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}
	if rateLimit <= 0 {
		rateLimit = 10
	}
	return &Client{
		client: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		limiter:    rate.NewLimiter(rate.Limit(rateLimit), rateLimit*2),
		userAgent:  userAgent,
		maxRetries: 3,
		backoff:    500 * time.Millisecond,
		log:        log,
	}
}

// Fetch retrieves url, retrying transient failures with a capped linear
// backoff before giving up on that one URL. Failures never abort a broader
// crawl; callers skip the page and continue.
func (c *Client) Fetch(ctx context.Context, url string) (string, error) {
	var lastErr error

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			delay := time.Duration(attempt) * c.backoff
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		body, err := c.fetchOnce(ctx, url)
		if err == nil {
			return body, nil
		}
		lastErr = err

		var statusErr *StatusError
		if errors.As(err, &statusErr) && !retryableStatus(statusErr.StatusCode) {
			return "", err
		}
		c.log.Debugw("fetch retry", "url", url, "attempt", attempt+1, "error", err)
	}

	return "", fmt.Errorf("%w: %s: %v", ErrUnreachable, url, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return "", &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !isHTMLContent(contentType) {
		return "", fmt.Errorf("fetch %s: unsupported content type %q", url, contentType)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	return string(body), nil
}

func isHTMLContent(contentType string) bool {
	for _, t := range []string{"text/html", "application/xhtml+xml", "text/plain"} {
		if strings.Contains(contentType, t) {
			return true
		}
	}
	return false
}
