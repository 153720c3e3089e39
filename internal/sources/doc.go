// Package sources provides retrieval of splash lists from remote locations.
//
// The package defines the RemoteFetcher interface which abstracts fetching
// and parsing a plain-text splash list from an HTTP(S) endpoint, plus the
// URL normalization that rewrites code-hosting "blob" view links into their
// raw-content equivalents.
//
// Architecture:
//   - RemoteFetcher: interface for fetching a parsed splash list
//   - RemoteSource: HTTP implementation backed by the httpclient package
//   - NormalizeBlobURL: pure URL rewrite, no network access
//
// Fetch failures and reachable-but-empty responses are both reported as
// errors so the resolver's fallback chain can treat them uniformly.
package sources
