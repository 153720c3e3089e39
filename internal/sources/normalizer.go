package sources

import (
	"net/url"
	"strings"

	"github.com/overtext/splash-server/internal/logger"
)

const (
	// blobHost is the code-hosting domain whose web UI "blob" links are rewritten
	blobHost = "github.com"

	// rawHost is the raw-content mirror domain for blobHost
	rawHost = "raw.githubusercontent.com"

	blobSegment = "blob"
)

// NormalizeBlobURL converts a GitHub "blob" URL to the matching
// raw.githubusercontent.com URL. Any other host or path shape is returned
// unchanged, so already-raw URLs and arbitrary HTTP(S) endpoints pass
// through. The function is purely syntactic and never fails; unparseable
// input is returned as-is.
func NormalizeBlobURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if !strings.EqualFold(parsed.Hostname(), blobHost) {
		return rawURL
	}

	// Expected: /{owner}/{repo}/blob/{branch}/{rest...}
	// parts[0] is the empty segment before the leading slash.
	parts := strings.Split(parsed.Path, "/")
	if len(parts) < 5 {
		return rawURL
	}
	if parts[3] != blobSegment {
		return rawURL
	}

	owner := parts[1]
	repo := parts[2]
	branch := parts[4]
	if owner == "" || repo == "" || branch == "" {
		return rawURL
	}

	var filePath strings.Builder
	for _, segment := range parts[5:] {
		if segment == "" {
			continue
		}
		filePath.WriteByte('/')
		filePath.WriteString(segment)
	}

	raw := "https://" + rawHost + "/" + owner + "/" + repo + "/" + branch + filePath.String()
	logger.Debugf("Converted blob URL %q to raw URL %q", rawURL, raw)
	return raw
}
