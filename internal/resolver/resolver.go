// Package resolver implements the cached splash list resolution engine.
//
// A Resolver produces the single authoritative splash list for the current
// configuration generation. The list is built at most once per generation
// no matter how many callers ask for it concurrently; the build walks a
// deterministic fallback chain (remote source, then local list) and the
// outcome is cached until the next Invalidate call. Resolution never fails:
// every fault degrades to the next tier of the chain.
package resolver

import (
	"context"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/overtext/splash-server/internal/config"
	"github.com/overtext/splash-server/internal/logger"
	"github.com/overtext/splash-server/internal/sources"
	"github.com/overtext/splash-server/internal/telemetry"
)

// Tier identifies which tier of the fallback chain produced a resolved list
type Tier string

const (
	// TierRemote means the list came from the remote source
	TierRemote Tier = "remote"

	// TierLocal means the list came from the configured local fallback
	TierLocal Tier = "local"

	// TierNone means no tier produced any entries
	TierNone Tier = "none"
)

// Result is an immutable resolved splash list with build metadata.
// An empty Splashes slice with TierNone is a legitimate outcome, distinct
// from "no build performed yet".
type Result struct {
	// Splashes is the ordered resolved list. Every element is trimmed,
	// non-empty, and not a comment.
	Splashes []string

	// Tier records which fallback tier produced the list
	Tier Tier

	// Generation is the cache generation the list was built under
	Generation uint64
}

// clone returns a copy whose slice the caller may hold without sharing
// backing storage with the cache.
func (r Result) clone() Result {
	cp := make([]string, len(r.Splashes))
	copy(cp, r.Splashes)
	r.Splashes = cp
	return r
}

// Resolver is a concurrency-safe single-flight cache over the splash
// fallback chain. The zero value is not usable; create one with New.
type Resolver struct {
	fetcher sources.RemoteFetcher
	metrics *telemetry.ResolverMetrics

	// mu guards gen and entry. entry == nil means no build has been
	// committed for the current generation.
	mu    sync.Mutex
	gen   uint64
	entry *Result

	group singleflight.Group
}

// Option configures a Resolver
type Option func(*Resolver)

// WithMetrics attaches resolver metrics. A nil metrics value is allowed
// and disables recording.
func WithMetrics(m *telemetry.ResolverMetrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// New creates a Resolver using the given remote fetcher. A nil fetcher
// selects the default HTTP-backed source.
func New(fetcher sources.RemoteFetcher, opts ...Option) *Resolver {
	if fetcher == nil {
		fetcher = sources.NewRemoteSource(nil)
	}
	r := &Resolver{fetcher: fetcher}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the resolved splash list for the current generation,
// building it if no build has run yet. Concurrent callers on a cold cache
// share a single build; the caller performing the build blocks for the
// duration of the (bounded) remote fetch. Resolve never fails; the result
// may be empty when every tier yields nothing.
func (r *Resolver) Resolve(ctx context.Context, src config.SplashSource) Result {
	return r.ResolveGeneration(ctx, r.Generation(), src)
}

// ResolveGeneration resolves a source snapshot paired with the generation
// it was taken under. Callers that read their source before gen advanced
// must pass the older gen: a build under a generation that has since moved
// on is still returned to its caller but never cached, so a source swap
// followed by Invalidate can never pin pre-swap data into the new
// generation.
func (r *Resolver) ResolveGeneration(ctx context.Context, gen uint64, src config.SplashSource) Result {
	r.mu.Lock()
	if r.entry != nil {
		res := r.entry.clone()
		r.mu.Unlock()
		r.metrics.RecordCacheHit(ctx)
		logger.Debugf("Returning cached splash list (%d entries)", len(res.Splashes))
		return res
	}
	r.mu.Unlock()

	// Keying the flight by generation means an Invalidate during a build
	// starts a fresh flight for the next caller instead of joining the
	// stale one.
	key := strconv.FormatUint(gen, 10)
	v, _, _ := r.group.Do(key, func() (any, error) {
		// Re-check under the lock: an earlier flight for this generation
		// may have committed between our miss and joining the group.
		r.mu.Lock()
		if r.entry != nil && r.gen == gen {
			res := *r.entry
			r.mu.Unlock()
			return res, nil
		}
		r.mu.Unlock()

		res := r.build(ctx, src, gen)
		r.commit(res)
		return res, nil
	})

	return v.(Result).clone()
}

// Invalidate unconditionally discards the cached list and starts a new
// generation; the next Resolve call performs a fresh build. It is
// idempotent and never blocks on an in-flight build; a build started under
// an earlier generation completes but its result is not stored.
func (r *Resolver) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gen++
	r.entry = nil
	logger.Debugf("Splash cache invalidated; generation is now %d", r.gen)
}

// Generation returns the current cache generation
func (r *Resolver) Generation() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gen
}

// build walks the fallback chain once. It never returns an error: remote
// faults are logged and absorbed by falling through to the local list.
func (r *Resolver) build(ctx context.Context, src config.SplashSource, gen uint64) Result {
	if src.UseRemote {
		lines, err := r.fetcher.Fetch(ctx, src.RemoteURL)
		if err == nil {
			logger.Infof("Loaded %d splashes from remote source", len(lines))
			r.metrics.RecordBuild(ctx, string(TierRemote))
			return Result{Splashes: lines, Tier: TierRemote, Generation: gen}
		}
		r.metrics.RecordFetchFailure(ctx)
		logger.Warnf("Remote splash fetch failed, falling back to local list: %v", err)
	} else {
		logger.Debugf("Remote source disabled; skipping remote fetch")
	}

	if len(src.Local) > 0 {
		logger.Infof("Using %d local splashes from configuration", len(src.Local))
		local := make([]string, len(src.Local))
		copy(local, src.Local)
		r.metrics.RecordBuild(ctx, string(TierLocal))
		return Result{Splashes: local, Tier: TierLocal, Generation: gen}
	}

	logger.Debug("No splashes resolved from any tier")
	r.metrics.RecordBuild(ctx, string(TierNone))
	return Result{Splashes: []string{}, Tier: TierNone, Generation: gen}
}

// commit stores a build result unless the generation moved on while the
// build was in flight, in which case the result is discarded.
func (r *Resolver) commit(res Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.gen != res.Generation {
		logger.Debugf("Discarding splash build for stale generation %d (current %d)",
			res.Generation, r.gen)
		return
	}
	if r.entry == nil {
		r.entry = &res
	}
}
