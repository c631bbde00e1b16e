// Package probe asks a download server about a file without fetching it.
package probe

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Client sends HEAD requests.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a Client. A nil httpClient gets a 15 second timeout.
func NewClient(httpClient *http.Client, userAgent string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{httpClient: httpClient, userAgent: userAgent}
}

// Info is what the server announced for a URL.
type Info struct {
	StatusCode int
	// Size is -1 when the server did not send a length.
	Size        int64
	ContentType string
}

// Head returns the headers the server would send for a download of url.
// Servers that refuse HEAD are asked with a GET whose body is not read.
func (c *Client) Head(ctx context.Context, url string) (Info, error) {
	info, err := c.do(ctx, http.MethodHead, url)
	if err == nil && (info.StatusCode == http.StatusMethodNotAllowed || info.StatusCode == http.StatusNotImplemented) {
		info, err = c.do(ctx, http.MethodGet, url)
	}
	if err != nil {
		return Info{}, err
	}

	switch {
	case info.StatusCode >= 200 && info.StatusCode < 300:
		return info, nil
	case info.StatusCode == http.StatusNotFound:
		return info, fmt.Errorf("%s not found on the server; the catalog entry may be outdated", url)
	default:
		return info, fmt.Errorf("unexpected status %d for %s", info.StatusCode, url)
	}
}

// Reachable reports whether url answers at all, whatever the status.
func (c *Client) Reachable(ctx context.Context, url string) error {
	_, err := c.do(ctx, http.MethodHead, url)
	return err
}

func (c *Client) do(ctx context.Context, method, url string) (Info, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return Info{}, fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Info{}, fmt.Errorf("request %s: %w", url, err)
	}
	resp.Body.Close()

	return Info{
		StatusCode:  resp.StatusCode,
		Size:        resp.ContentLength,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}
