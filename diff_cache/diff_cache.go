package diff_cache

import (
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/meysamhadeli/stepdiff/diff_engine"
	"github.com/meysamhadeli/stepdiff/playback/contracts"
	"github.com/zeebo/xxh3"
)

// DefaultSize is the number of diffs kept when no size is configured.
const DefaultSize = 512

// cacheKey identifies one diff computation by the hashes of both texts.
type cacheKey struct {
	previous uint64
	current  uint64
	first    bool
}

// CacheEntry is one memoized diff.
type CacheEntry struct {
	Lines     []diff_engine.Line
	Timestamp time.Time
}

// DiffCache memoizes diff results in memory. It implements contracts.IDiffer.
//
// Results are shared between callers and must not be mutated.
type DiffCache struct {
	entries *lru.Cache[cacheKey, CacheEntry]
	compute func(previous, current string, first bool) []diff_engine.Line
	stats   *CacheStats
}

var _ contracts.IDiffer = (*DiffCache)(nil)

// NewDiffCache creates a cache holding at most size diffs, evicting the least recently used.
// A non-positive size selects DefaultSize.
func NewDiffCache(size int) (*DiffCache, error) {
	if size <= 0 {
		size = DefaultSize
	}

	entries, err := lru.New[cacheKey, CacheEntry](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create diff cache: %w", err)
	}

	return &DiffCache{
		entries: entries,
		compute: diff_engine.Compute,
		stats: &CacheStats{
			LastResetTime: time.Now(),
		},
	}, nil
}

// generateCacheKey hashes both texts separately so that moving text between them changes the key.
func generateCacheKey(previous, current string, first bool) cacheKey {
	return cacheKey{
		previous: xxh3.HashString(previous),
		current:  xxh3.HashString(current),
		first:    first,
	}
}

// Diff returns the cached diff of previous and current, computing and storing it on a miss.
func (dc *DiffCache) Diff(previous string, current string, first bool) []diff_engine.Line {
	key := generateCacheKey(previous, current, first)

	if entry, ok := dc.entries.Get(key); ok {
		dc.recordCacheHit()
		return entry.Lines
	}
	dc.recordCacheMiss()

	lines := dc.compute(previous, current, first)
	if dc.entries.Add(key, CacheEntry{Lines: lines, Timestamp: time.Now()}) {
		dc.recordEviction()
	}
	return lines
}

// Contains reports whether the diff of previous and current is cached, without touching recency or stats.
func (dc *DiffCache) Contains(previous string, current string, first bool) bool {
	return dc.entries.Contains(generateCacheKey(previous, current, first))
}

// Len returns the number of cached diffs.
func (dc *DiffCache) Len() int {
	return dc.entries.Len()
}

// ClearCache drops every cached diff. Counters are kept.
func (dc *DiffCache) ClearCache() {
	dc.entries.Purge()
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
	Evictions     int64
	LastResetTime time.Time
	mutex         sync.RWMutex
}
