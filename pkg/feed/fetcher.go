package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sportpulse/sportpulse/pkg/domain"
)

// Fetcher retrieves raw feed bodies over HTTP
type Fetcher struct {
	client    *http.Client
	userAgent string
}

// FetchError is a per-feed fetch failure carrying the source name and the
// HTTP status when one was received
type FetchError struct {
	Source string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("fetch feed %s: status %d", e.Source, e.Status)
	}
	return fmt.Sprintf("fetch feed %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// NewFetcher creates a feed fetcher with a bounded per-request timeout
func NewFetcher(timeout time.Duration, userAgent string) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent: userAgent,
	}
}

// Fetch performs an HTTP GET for the feed and returns the raw body. Any
// network error, timeout or non-2xx response is returned as a *FetchError;
// the caller is expected to count it and move on to the next feed.
func (f *Fetcher) Fetch(ctx context.Context, src domain.FeedSource) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, http.NoBody)
	if err != nil {
		return "", &FetchError{Source: src.Source, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", &FetchError{Source: src.Source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{Source: src.Source, Status: resp.StatusCode, Err: fmt.Errorf("unexpected status code: %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Source: src.Source, Err: fmt.Errorf("read body: %w", err)}
	}

	return string(body), nil
}
