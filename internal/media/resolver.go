package media

import (
	"context"
	"log/slog"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/errgroup"

	"github.com/pyarchinit/archweb/internal/conf"
	"github.com/pyarchinit/archweb/internal/httpclient"
	"github.com/pyarchinit/archweb/internal/logging"
	"github.com/pyarchinit/archweb/internal/observability"
)

const (
	defaultCacheTTL = 5 * time.Minute
	defaultFanOut   = 8

	// cacheSweepInterval controls how often expired descriptor sets are
	// purged from memory.
	cacheSweepInterval = time.Minute
)

// Resolver maps entity references to media descriptor sets held by the
// storage server. Lookups are cached with a short TTL; the two systems are
// not coupled for invalidation, so expiry is the only eviction.
type Resolver struct {
	client *StorageClient
	cache  *gocache.Cache
	fanOut int
	logger *slog.Logger
}

// NewResolver builds a Resolver from settings.
func NewResolver(settings *conf.Settings) *Resolver {
	ttl := settings.Storage.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	fanOut := settings.Storage.FanOut
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}

	httpClient := httpclient.New(httpclient.Config{
		DefaultTimeout: settings.Storage.Timeout,
		UserAgent:      settings.Main.Name,
	})

	return &Resolver{
		client: NewStorageClient(settings.Storage.URL, settings.Storage.APIKey, httpClient),
		cache:  gocache.New(ttl, cacheSweepInterval),
		fanOut: fanOut,
		logger: logging.ForService("media"),
	}
}

// NewResolverWithClient builds a Resolver around an existing storage client.
// Used by tests and by callers that share one client.
func NewResolverWithClient(client *StorageClient, ttl time.Duration, fanOut int) *Resolver {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if fanOut <= 0 {
		fanOut = defaultFanOut
	}
	return &Resolver{
		client: client,
		cache:  gocache.New(ttl, cacheSweepInterval),
		fanOut: fanOut,
		logger: logging.ForService("media"),
	}
}

// Client exposes the underlying storage client, for thumbnail fetches.
func (r *Resolver) Client() *StorageClient {
	return r.client
}

// Resolve returns the media descriptors for one entity. An entity with no
// associated media yields an empty set and no error.
func (r *Resolver) Resolve(ctx context.Context, entityType EntityType, entityID int) ([]Descriptor, error) {
	ref := EntityRef{Type: entityType, ID: entityID}

	if cached, found := r.cache.Get(ref.CacheKey()); found {
		observability.MediaCacheEvents.WithLabelValues("hit").Inc()
		return cached.([]Descriptor), nil
	}
	observability.MediaCacheEvents.WithLabelValues("miss").Inc()

	descriptors, err := r.client.MediaForEntity(ctx, ref)
	if err != nil {
		observability.MediaLookups.WithLabelValues("error").Inc()
		return nil, err
	}
	if descriptors == nil {
		descriptors = []Descriptor{}
	}

	if len(descriptors) == 0 {
		observability.MediaLookups.WithLabelValues("empty").Inc()
	} else {
		observability.MediaLookups.WithLabelValues("ok").Inc()
	}

	// Keyed idempotent put: concurrent resolutions of the same entity may
	// both store; last write wins and both values are equivalent.
	r.cache.SetDefault(ref.CacheKey(), descriptors)
	return descriptors, nil
}

// ResolveMany resolves descriptors for a batch of entities with bounded
// concurrency. Individual failures degrade to an empty set plus a recorded
// warning; the batch itself never fails. Every requested ref is present in
// the returned map.
func (r *Resolver) ResolveMany(ctx context.Context, refs []EntityRef) (map[EntityRef][]Descriptor, []Warning) {
	results := make(map[EntityRef][]Descriptor, len(refs))
	var warnings []Warning
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.fanOut)

	for _, ref := range refs {
		ref := ref
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				// Request cancelled; abandon remaining lookups promptly.
				mu.Lock()
				results[ref] = []Descriptor{}
				warnings = append(warnings, Warning{Ref: ref, Err: err.Error()})
				mu.Unlock()
				return nil
			}

			descriptors, err := r.Resolve(gctx, ref.Type, ref.ID)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				r.logger.Warn("media lookup failed",
					"entity_type", ref.Type,
					"entity_id", ref.ID,
					"error", err)
				results[ref] = []Descriptor{}
				warnings = append(warnings, Warning{Ref: ref, Err: err.Error()})
				return nil
			}
			results[ref] = descriptors
			return nil
		})
	}

	// Workers never return errors; Wait only synchronizes completion.
	_ = g.Wait()
	return results, warnings
}
