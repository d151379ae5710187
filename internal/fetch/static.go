package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	UserAgent = "Mozilla/5.0 (compatible; EventScraperMCP/1.0; +https://example.com/bot)"
	Timeout   = 15 * time.Second

	// maxBodyBytes bounds how much of a response body is read.
	maxBodyBytes = 10 << 20
)

var (
	// ErrHTTPStatus is returned for responses with status 400 or above.
	ErrHTTPStatus = errors.New("unexpected status code")
	// ErrEmptyBody is returned when a page has no content.
	ErrEmptyBody = errors.New("empty response body")
)

// HTTPFetcher fetches pages over plain HTTP.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// NewHTTPFetcher creates an HTTPFetcher. Zero values fall back to
// UserAgent and Timeout.
func NewHTTPFetcher(userAgent string, timeout time.Duration) *HTTPFetcher {
	if userAgent == "" {
		userAgent = UserAgent
	}
	if timeout <= 0 {
		timeout = Timeout
	}
	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		userAgent: userAgent,
	}
}

// FetchStatic returns the body of url. Redirects are followed.
func (f *HTTPFetcher) FetchStatic(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", fmt.Errorf("reading body: %w", err)
	}
	if strings.TrimSpace(string(body)) == "" {
		return "", ErrEmptyBody
	}
	return string(body), nil
}
