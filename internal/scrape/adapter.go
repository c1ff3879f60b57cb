// Package scrape implements multi-source news collection for a ticker:
// a common SourceAdapter contract, concrete adapters for the supported
// news sites, and the orchestrator that fans out to all of them,
// deduplicates and tags the results.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/marketmind/newssense/internal/infra"
	"github.com/marketmind/newssense/pkg/models"
)

// SourceAdapter is the per-provider fetch contract. Implementations
// acquire the rate limiter before any network operation, cap the number
// of returned items, and surface failures as an error with no partial
// results; the orchestrator logs the error and treats the source as
// having contributed nothing.
type SourceAdapter interface {
	// Name returns the human-readable source name, also used as the
	// rate-limiter key.
	Name() string

	// Fetch returns recent articles for the ticker, newest first where
	// the source provides ordering.
	Fetch(ctx context.Context, ticker string) ([]models.RawArticle, error)
}

// maxFetchAttempts bounds retries after a throttle signal before the
// call is treated as a plain source failure.
const maxFetchAttempts = 3

// ErrRateLimited is returned when a source answers 429.
var ErrRateLimited = fmt.Errorf("rate limited by source")

// ErrHTTP wraps a non-2xx HTTP response.
type ErrHTTP struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *ErrHTTP) Error() string {
	return fmt.Sprintf("HTTP %d %s: %s", e.StatusCode, e.Status, e.Body)
}

// DefaultUserAgent is the user agent string used for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// HTTPClient is the shared pre-configured HTTP client.
var HTTPClient = &http.Client{
	Timeout: 10 * time.Second,
}

// doGet performs a GET request with browser-like headers, returning the
// response body. The caller closes the returned ReadCloser.
func doGet(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", url, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		resp.Body.Close()
		return nil, fmt.Errorf("%w: %s", ErrRateLimited, url)
	}
	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &ErrHTTP{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(body),
		}
	}

	return resp.Body, nil
}

// fetchDocument gates on the rate limiter, fetches the URL, and parses
// the response as an HTML document. A 429 reports the throttle and
// retries up to maxFetchAttempts with the limiter's escalating backoff.
func fetchDocument(ctx context.Context, limiter *infra.RateLimiter, sourceKey, url string) (*goquery.Document, error) {
	var lastErr error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if err := limiter.Acquire(ctx, sourceKey); err != nil {
			return nil, err
		}

		body, err := doGet(ctx, url)
		if err != nil {
			lastErr = err
			if isRateLimited(err) {
				limiter.ReportThrottle(sourceKey)
				continue
			}
			return nil, err
		}

		doc, err := goquery.NewDocumentFromReader(body)
		body.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", url, err)
		}
		limiter.Reset(sourceKey)
		return doc, nil
	}
	return nil, lastErr
}

func isRateLimited(err error) bool {
	var herr *ErrHTTP
	if errors.As(err, &herr) {
		return herr.StatusCode == http.StatusTooManyRequests
	}
	return errors.Is(err, ErrRateLimited)
}
