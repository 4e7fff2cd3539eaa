package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// MaxDownloadSize caps the body DownloadBytes will read. Cover images are
// far smaller.
const MaxDownloadSize = 32 << 20

// Client fetches remote cover art.
//
// Client provides:
//   - A fixed User-Agent header
//   - Timeout handling
//   - A size cap on downloaded bodies
//
// Example usage:
//
//	client := NewClient()
//	data, err := client.DownloadBytes(ctx, "https://example.com/cover.jpg")
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new HTTP client.
//
// The client is configured with:
//   - 60 second timeout
//   - "splitaudio" User-Agent header
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		userAgent: "splitaudio",
	}
}

// IsURL reports whether ref names an http or https resource rather than a
// local path.
func IsURL(ref string) bool {
	lower := strings.ToLower(ref)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// Get performs a GET request and returns the response body as bytes.
//
// The request includes the configured User-Agent header.
//
// Returns an error if:
//   - The request fails
//   - The response status is not 200 OK
//   - The body is larger than MaxDownloadSize
//   - Reading the body fails
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDownloadSize+1))
	if err != nil {
		return nil, err
	}
	if len(body) > MaxDownloadSize {
		return nil, fmt.Errorf("%s: body exceeds %d bytes", url, MaxDownloadSize)
	}
	return body, nil
}

// DownloadBytes downloads a file and returns the bytes in memory.
//
// Example:
//
//	imageData, err := client.DownloadBytes(ctx, coverURL)
func (c *Client) DownloadBytes(ctx context.Context, url string) ([]byte, error) {
	return c.Get(ctx, url)
}
