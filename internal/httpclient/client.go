// Package httpclient provides HTTP client functionality for remote splash fetches
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/overtext/splash-server/internal/versions"
)

const (
	// DefaultTimeout is the default total timeout for HTTP requests
	DefaultTimeout = 10 * time.Second

	// DefaultConnectTimeout is the default timeout for establishing a connection
	DefaultConnectTimeout = 5 * time.Second

	// MaxResponseSize is the maximum allowed response size (4MB). Splash
	// lists are plain text, one entry per line; anything larger is not a
	// splash list.
	MaxResponseSize = 4 * 1024 * 1024
)

// UserAgent returns the user agent string for HTTP requests
func UserAgent() string {
	return "splashd/" + versions.GetVersionInfo().Version
}

// Client is an interface for HTTP operations
type Client interface {
	// Get performs an HTTP GET request and returns the response body
	Get(ctx context.Context, url string) ([]byte, error)
}

// DefaultClient is the default HTTP client implementation
type DefaultClient struct {
	client *http.Client
}

// NewDefaultClient creates a new default HTTP client with the specified
// timeouts. Zero values select DefaultTimeout and DefaultConnectTimeout.
func NewDefaultClient(timeout, connectTimeout time.Duration) Client {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	if connectTimeout == 0 {
		connectTimeout = DefaultConnectTimeout
	}

	dialer := &net.Dialer{Timeout: connectTimeout}
	return &DefaultClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				DialContext:         dialer.DialContext,
				TLSHandshakeTimeout: connectTimeout,
			},
		},
	}
}

// Get performs an HTTP GET request
func (c *DefaultClient) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", UserAgent())
	req.Header.Set("Accept", "text/plain")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Any non-2xx status counts as a failed fetch
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, NewHTTPError(resp.StatusCode, url, resp.Status)
	}

	if resp.ContentLength > MaxResponseSize {
		return nil, fmt.Errorf("response size %d bytes exceeds maximum allowed size of %d bytes",
			resp.ContentLength, MaxResponseSize)
	}

	// Read with a limit; +1 to detect bodies that exceed the cap
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response size exceeds maximum allowed size of %d bytes", MaxResponseSize)
	}

	return body, nil
}
