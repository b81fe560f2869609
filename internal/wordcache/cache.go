// Package wordcache keeps the set of known-valid Turkish words in memory,
// refreshed from external sources at most once per TTL and degrading to a
// static list when every source is down.
package wordcache

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/kapu/kelime-bot-go/internal/obslog"
	"github.com/kapu/kelime-bot-go/internal/turkish"
)

const (
	defaultTTL      = 24 * time.Hour
	defaultMinWords = 1000
	defaultSentinel = "kelime"
)

// Stats is a read-only snapshot of the cache state.
type Stats struct {
	Count       int
	LastRefresh time.Time
	Age         time.Duration
}

// Cache resolves word validity against a refreshable in-memory set. Safe for
// concurrent use; refreshes are single-flight.
type Cache struct {
	sources []Source
	lookup  Lookup

	ttl      time.Duration
	minWords int
	sentinel string

	mu          sync.RWMutex
	words       map[string]struct{}
	list        []string
	lastRefresh time.Time

	group singleflight.Group
}

type Option func(*Cache)

// WithTTL overrides how long a refreshed corpus is considered fresh.
func WithTTL(d time.Duration) Option {
	return func(c *Cache) { c.ttl = d }
}

// WithMinWords overrides the minimum corpus size a bulk source must deliver
// before the next source is skipped.
func WithMinWords(n int) Option {
	return func(c *Cache) { c.minWords = n }
}

// WithSentinel overrides the word returned when the cache is empty even
// after a forced refresh.
func WithSentinel(w string) Option {
	return func(c *Cache) { c.sentinel = turkish.Lower(w) }
}

// New builds an empty cache over the given bulk sources (tried in order) and
// single-word lookup. The first operation triggers the initial refresh.
func New(sources []Source, lookup Lookup, opts ...Option) *Cache {
	c := &Cache{
		sources:  sources,
		lookup:   lookup,
		ttl:      defaultTTL,
		minWords: defaultMinWords,
		sentinel: defaultSentinel,
		words:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsValid reports whether word is a known Turkish word. A cache miss falls
// through to the authoritative lookup; a confirmed word is remembered until
// the next wholesale refresh. Failures degrade to false, never to an error.
func (c *Cache) IsValid(ctx context.Context, word string) bool {
	w := turkish.Lower(word)
	if w == "" {
		return false
	}
	c.ensureFresh(ctx, false)

	c.mu.RLock()
	_, ok := c.words[w]
	c.mu.RUnlock()
	if ok {
		return true
	}
	if c.lookup == nil {
		return false
	}

	lctx, cancel := context.WithTimeout(ctx, lookupTimeout)
	defer cancel()
	valid, err := c.lookup.Check(lctx, w)
	if err != nil {
		obslog.L().Warn("word_lookup_failed", zap.String("word", w), zap.Error(err))
		return false
	}
	if valid {
		c.add(w)
	}
	return valid
}

// RandomWord returns a uniformly drawn cached word. When the cache is empty
// even after a forced refresh it returns the sentinel word instead of
// failing.
func (c *Cache) RandomWord(ctx context.Context) string {
	c.ensureFresh(ctx, false)

	c.mu.RLock()
	n := len(c.list)
	c.mu.RUnlock()
	if n == 0 {
		c.ensureFresh(ctx, true)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.list) == 0 {
		return c.sentinel
	}
	return c.list[rand.Intn(len(c.list))]
}

// Stats returns current cache counters without side effects.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Stats{Count: len(c.words), LastRefresh: c.lastRefresh}
	if !c.lastRefresh.IsZero() {
		s.Age = time.Since(c.lastRefresh)
	}
	return s
}

func (c *Cache) fresh() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.words) > 0 && time.Since(c.lastRefresh) < c.ttl
}

// ensureFresh triggers a refresh when the corpus is stale. Concurrent
// triggers collapse into one in-flight refresh; late arrivals wait on its
// result instead of starting another.
func (c *Cache) ensureFresh(ctx context.Context, force bool) {
	if !force && c.fresh() {
		return
	}
	_, _, _ = c.group.Do("refresh", func() (any, error) {
		// a waiter queued behind the winning refresh sees a fresh corpus here
		if !force && c.fresh() {
			return nil, nil
		}
		c.refresh(ctx)
		return nil, nil
	})
}

// refresh replaces the corpus wholesale from the first source that delivers
// an acceptable set. An undersized but non-empty result is kept as a
// candidate in case every later source fails outright. lastRefresh advances
// even on total failure so a dead source cannot cause a refresh storm.
func (c *Cache) refresh(ctx context.Context) {
	var best map[string]struct{}
	var bestName string
	for _, src := range c.sources {
		fetched, err := src.Fetch(ctx)
		if err != nil {
			obslog.L().Warn("word_source_failed", zap.String("source", src.Name()), zap.Error(err))
			continue
		}
		if len(fetched) >= c.minWords {
			best, bestName = fetched, src.Name()
			break
		}
		if len(fetched) > len(best) {
			best, bestName = fetched, src.Name()
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case len(best) > 0:
		c.words = best
	case len(c.words) == 0:
		c.words = FallbackWords()
		bestName = "fallback"
	default:
		// keep the previous corpus; better stale than empty
		bestName = "stale"
	}
	c.list = c.list[:0]
	for w := range c.words {
		c.list = append(c.list, w)
	}
	c.lastRefresh = time.Now()
	obslog.L().Info("word_cache_refresh", zap.String("source", bestName), zap.Int("words", len(c.words)))
}

func (c *Cache) add(w string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.words[w]; ok {
		return
	}
	c.words[w] = struct{}{}
	c.list = append(c.list, w)
}
