// Package service provides the business logic for the splash API.
package service

import (
	"context"
	"errors"
	"math/rand"
	"sync"

	"github.com/overtext/splash-server/internal/config"
	"github.com/overtext/splash-server/internal/logger"
	"github.com/overtext/splash-server/internal/resolver"
)

// ErrNoSplashes indicates every source tier yielded nothing; consumers are
// expected to fall back to their own built-in default.
var ErrNoSplashes = errors.New("no splashes resolved from any source")

// SplashInfo describes the currently resolved splash list
type SplashInfo struct {
	// Tier is the fallback tier that produced the list: remote, local, or none
	Tier string `json:"tier"`

	// Count is the number of resolved splashes
	Count int `json:"count"`

	// Generation is the cache generation of the resolved list
	Generation uint64 `json:"generation"`
}

// SplashService provides access to the resolved splash list
type SplashService interface {
	// CheckReadiness checks if the service is ready to serve requests
	CheckReadiness(ctx context.Context) error

	// ListSplashes returns the full resolved splash list for the current
	// configuration generation. It never fails; the list may be empty.
	ListSplashes(ctx context.Context) []string

	// RandomSplash returns one splash chosen uniformly from the resolved
	// list. Returns ErrNoSplashes when the list is empty.
	RandomSplash(ctx context.Context) (string, error)

	// Info returns metadata about the resolved list
	Info(ctx context.Context) SplashInfo

	// Refresh invalidates the cached list so the next request rebuilds it,
	// and reports the generation now in effect
	Refresh(ctx context.Context) uint64

	// Reload replaces the source snapshot and invalidates the cached list
	Reload(src config.SplashSource)
}

// splashService is the default SplashService implementation. It owns the
// current source snapshot and delegates resolution to the resolver.
type splashService struct {
	resolver *resolver.Resolver

	// mu guards src. The snapshot is replaced wholesale on Reload, never
	// mutated in place.
	mu  sync.RWMutex
	src config.SplashSource
}

var _ SplashService = (*splashService)(nil)

// New creates a SplashService over the given resolver and initial source
// snapshot.
func New(res *resolver.Resolver, src config.SplashSource) SplashService {
	return &splashService{
		resolver: res,
		src:      src,
	}
}

// CheckReadiness checks if the service is ready to serve requests.
// Resolution is lazy and always succeeds, so a constructed service is
// always ready.
func (*splashService) CheckReadiness(_ context.Context) error {
	return nil
}

// ListSplashes returns the resolved splash list
func (s *splashService) ListSplashes(ctx context.Context) []string {
	return s.resolve(ctx).Splashes
}

// RandomSplash returns one splash chosen uniformly from the resolved list
func (s *splashService) RandomSplash(ctx context.Context) (string, error) {
	splashes := s.ListSplashes(ctx)
	if len(splashes) == 0 {
		return "", ErrNoSplashes
	}
	return splashes[rand.Intn(len(splashes))], nil
}

// Info returns metadata about the resolved list
func (s *splashService) Info(ctx context.Context) SplashInfo {
	res := s.resolve(ctx)
	return SplashInfo{
		Tier:       string(res.Tier),
		Count:      len(res.Splashes),
		Generation: res.Generation,
	}
}

// Refresh invalidates the cached list
func (s *splashService) Refresh(_ context.Context) uint64 {
	logger.Info("Refresh requested; invalidating splash cache")
	s.resolver.Invalidate()
	return s.resolver.Generation()
}

// Reload replaces the source snapshot and invalidates the cached list so
// the next request resolves against the new configuration.
func (s *splashService) Reload(src config.SplashSource) {
	s.mu.Lock()
	s.src = src
	s.mu.Unlock()

	logger.Infof("Configuration reloaded (useRemote=%v, %d local splashes); invalidating splash cache",
		src.UseRemote, len(src.Local))
	s.resolver.Invalidate()
}

// resolve pairs the source snapshot with the generation it was taken
// under. The generation is read first: a source swapped by Reload after
// that read bumps the generation, so a build from the older snapshot
// commits under a stale generation and is discarded instead of cached.
func (s *splashService) resolve(ctx context.Context) resolver.Result {
	gen := s.resolver.Generation()
	return s.resolver.ResolveGeneration(ctx, gen, s.snapshot())
}

func (s *splashService) snapshot() config.SplashSource {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.src
}
