package catalog

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/visapath/visapath-cli/api/schemas"
	"go.uber.org/zap"
)

// Cached decorates a catalog source with a TTL cache keyed by the
// (occupation, visa, state) tuple of each lookup. It replaces the ambient
// fetch-layer cache of earlier revisions with an explicit one that the
// caller can invalidate per occupation.
type Cached struct {
	src schemas.CatalogSource
	ttl time.Duration
	now func() time.Time
	log *zap.Logger

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value   interface{}
	expires time.Time
}

// Compile-time interface check.
var _ schemas.InvalidatingSource = (*Cached)(nil)

// NewCached wraps src with a TTL cache. A non-positive ttl disables
// expiry (entries live until invalidated).
func NewCached(src schemas.CatalogSource, ttl time.Duration, logger *zap.Logger) *Cached {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cached{
		src:     src,
		ttl:     ttl,
		now:     time.Now,
		log:     logger.Named("catalog.cache"),
		entries: make(map[string]cacheEntry),
	}
}

func (c *Cached) lookup(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.ttl > 0 && c.now().After(e.expires) {
		delete(c.entries, key)
		return nil, false
	}
	return e.value, true
}

func (c *Cached) store(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, expires: c.now().Add(c.ttl)}
}

// Invalidate drops every cached result derived from the given occupation.
func (c *Cached) Invalidate(ref schemas.OccupationRef) {
	prefix := ref.Key() + "|"
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
	c.log.Debug("Catalog cache invalidated", zap.String("occupation", ref.Key()))
}

// OccupationVisas implements schemas.CatalogSource.
func (c *Cached) OccupationVisas(ctx context.Context, ref schemas.OccupationRef) (schemas.OccupationInfo, error) {
	key := ref.Key() + "|visas"
	if v, ok := c.lookup(key); ok {
		return v.(schemas.OccupationInfo), nil
	}
	info, err := c.src.OccupationVisas(ctx, ref)
	if err != nil {
		return schemas.OccupationInfo{}, err
	}
	c.store(key, info)
	return info, nil
}

// States implements schemas.CatalogSource.
func (c *Cached) States(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode) ([]string, error) {
	key := ref.Key() + "|states|" + string(visa)
	if v, ok := c.lookup(key); ok {
		return v.([]string), nil
	}
	states, err := c.src.States(ctx, ref, visa)
	if err != nil {
		return nil, err
	}
	c.store(key, states)
	return states, nil
}

// Pathways implements schemas.CatalogSource.
func (c *Cached) Pathways(ctx context.Context, ref schemas.OccupationRef, visa schemas.VisaCode, state string) ([]schemas.Pathway, error) {
	key := ref.Key() + "|pathways|" + string(visa) + "|" + state
	if v, ok := c.lookup(key); ok {
		return v.([]schemas.Pathway), nil
	}
	pws, err := c.src.Pathways(ctx, ref, visa, state)
	if err != nil {
		return nil, err
	}
	c.store(key, pws)
	return pws, nil
}
