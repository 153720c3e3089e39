package sources

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/overtext/splash-server/internal/config"
	"github.com/overtext/splash-server/internal/httpclient"
	"github.com/overtext/splash-server/internal/logger"
)

// ErrEmptyContent indicates the remote resource was reachable but yielded
// no usable splash lines (empty body, or only blanks and comments). The
// resolver treats it like any other fetch failure and falls through to the
// local list.
var ErrEmptyContent = errors.New("remote splash list has no usable lines")

// RemoteFetcher retrieves a parsed splash list from a remote URL
type RemoteFetcher interface {
	// Fetch retrieves the splash list at url. It returns the cleaned,
	// ordered lines, or an error when the fetch failed or produced nothing
	// usable.
	Fetch(ctx context.Context, url string) ([]string, error)
}

// RemoteSource is the default HTTP-backed RemoteFetcher
type RemoteSource struct {
	client httpclient.Client
}

var _ RemoteFetcher = (*RemoteSource)(nil)

// NewRemoteSource creates a RemoteSource using the given HTTP client.
// A nil client selects the default client with standard timeouts.
func NewRemoteSource(client httpclient.Client) *RemoteSource {
	if client == nil {
		client = httpclient.NewDefaultClient(0, 0)
	}
	return &RemoteSource{client: client}
}

// Fetch retrieves and parses the splash list at url
func (s *RemoteSource) Fetch(ctx context.Context, url string) ([]string, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("remote URL is blank")
	}

	fetchURL := NormalizeBlobURL(url)
	logger.Infof("Fetching splashes from remote URL: %s", fetchURL)

	body, err := s.client.Get(ctx, fetchURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", fetchURL, err)
	}

	lines := ParseSplashText(body)
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s: %w", fetchURL, ErrEmptyContent)
	}

	return lines, nil
}

// ParseSplashText splits a response body into splash lines. Lines are
// separated by any newline convention (LF, CRLF, or bare CR), trimmed, and
// dropped when blank or starting with the comment marker. Order is
// preserved.
func ParseSplashText(body []byte) []string {
	rawLines := strings.FieldsFunc(string(body), func(r rune) bool {
		return r == '\n' || r == '\r'
	})

	lines := make([]string, 0, len(rawLines))
	for _, line := range rawLines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, config.CommentPrefix) {
			continue
		}
		lines = append(lines, trimmed)
	}
	return lines
}
