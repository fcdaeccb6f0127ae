package runtimes

import (
	"context"
	"sync"
	"time"
)

// CachedCatalog keeps the last discovery result per language for a bounded
// time. A zero TTL disables caching. Refresh always probes.
type CachedCatalog struct {
	service *Service
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[Language]cachedEntry
}

type cachedEntry struct {
	candidates []VersionCandidate
	at         time.Time
}

// NewCachedCatalog wraps service with a TTL cache.
func NewCachedCatalog(service *Service, ttl time.Duration) *CachedCatalog {
	return &CachedCatalog{
		service: service,
		ttl:     ttl,
		now:     time.Now,
		entries: map[Language]cachedEntry{},
	}
}

// ListVersions returns a cached snapshot when it is younger than the TTL.
func (c *CachedCatalog) ListVersions(ctx context.Context, lang Language) []VersionCandidate {
	if c.ttl <= 0 {
		return c.service.ListVersions(ctx, lang)
	}
	c.mu.Lock()
	entry, ok := c.entries[lang]
	c.mu.Unlock()
	if ok && c.now().Sub(entry.at) < c.ttl {
		return cloneCandidates(entry.candidates)
	}
	return c.Refresh(ctx, lang)
}

// Refresh probes the host and replaces the cached snapshot.
func (c *CachedCatalog) Refresh(ctx context.Context, lang Language) []VersionCandidate {
	candidates := c.service.ListVersions(ctx, lang)
	if c.ttl > 0 {
		c.mu.Lock()
		c.entries[lang] = cachedEntry{candidates: cloneCandidates(candidates), at: c.now()}
		c.mu.Unlock()
	}
	return candidates
}

// Catalog lists the requested languages, or all of them. Without a TTL it is
// a plain Service.Catalog.
func (c *CachedCatalog) Catalog(ctx context.Context, langs ...Language) Catalog {
	if c.ttl <= 0 {
		return c.service.Catalog(ctx, langs...)
	}
	if len(langs) == 0 {
		langs = Languages()
	}
	catalog := make(Catalog, len(langs))
	for _, lang := range langs {
		catalog[lang] = c.ListVersions(ctx, lang)
	}
	return catalog
}

// Invalidate drops every cached snapshot.
func (c *CachedCatalog) Invalidate() {
	c.mu.Lock()
	c.entries = map[Language]cachedEntry{}
	c.mu.Unlock()
}

func cloneCandidates(in []VersionCandidate) []VersionCandidate {
	return append([]VersionCandidate(nil), in...)
}
