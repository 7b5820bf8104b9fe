package metadata

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/justyntemme/bookinsights/internal/logger"
)

// Fetcher is the transport the resolvers and the catalog depend on
type Fetcher interface {
	FetchJSON(ctx context.Context, path string, params url.Values, out any) error
}

// AuthorCache maps author keys to display names for the life of the process.
// Entries are only ever added.
type AuthorCache struct {
	mu    sync.RWMutex
	names map[string]string
}

// NewAuthorCache creates an empty cache
func NewAuthorCache() *AuthorCache {
	return &AuthorCache{names: make(map[string]string)}
}

// Get returns the cached name for key
func (c *AuthorCache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[key]
	return name, ok
}

// Put stores a resolved name. Racing writers for the same key store the same value.
func (c *AuthorCache) Put(key, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[key] = name
}

// Len returns the number of cached authors
func (c *AuthorCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.names)
}

// AuthorResolver turns author keys into display names
type AuthorResolver struct {
	fetcher Fetcher
	cache   *AuthorCache
	max     int
	log     *logger.Logger
}

// NewAuthorResolver creates a resolver that looks up at most max authors per call
func NewAuthorResolver(fetcher Fetcher, cache *AuthorCache, max int, log *logger.Logger) *AuthorResolver {
	if cache == nil {
		cache = NewAuthorCache()
	}
	if max <= 0 {
		max = DefaultLimits().Authors
	}
	return &AuthorResolver{
		fetcher: fetcher,
		cache:   cache,
		max:     max,
		log:     log,
	}
}

// ResolveName returns the display name for an author key. Failures are
// reported as a missing name, never as an error.
func (r *AuthorResolver) ResolveName(ctx context.Context, key string) (string, bool) {
	if key == "" {
		return "", false
	}
	if name, ok := r.cache.Get(key); ok {
		return name, true
	}

	var author olAuthor
	if err := r.fetcher.FetchJSON(ctx, authorPath(key), nil, &author); err != nil {
		r.log.Debug("author lookup failed", "author_key", key, "error", err)
		return "", false
	}
	name := strings.TrimSpace(author.Name)
	if name == "" {
		return "", false
	}
	r.cache.Put(key, name)
	return name, true
}

// Resolve looks up the first max keys concurrently and returns the names that
// resolved, in the order of their keys.
func (r *AuthorResolver) Resolve(ctx context.Context, keys []string) []string {
	if len(keys) > r.max {
		keys = keys[:r.max]
	}

	slots := make([]string, len(keys))
	var g errgroup.Group
	for i, key := range keys {
		if key == "" {
			continue
		}
		g.Go(func() error {
			if name, ok := r.ResolveName(ctx, key); ok {
				slots[i] = name
			}
			return nil
		})
	}
	_ = g.Wait()

	names := make([]string, 0, len(slots))
	for _, name := range slots {
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// authorPath accepts "/authors/OL1A" as well as a bare "OL1A"
func authorPath(key string) string {
	if !strings.HasPrefix(key, "/") {
		if !strings.HasPrefix(key, "authors/") {
			key = "authors/" + key
		}
		key = "/" + key
	}
	return key + ".json"
}
