package diff_cache

import (
	"time"
)

// PerformanceStats is a point-in-time copy of the cache counters.
type PerformanceStats struct {
	TotalRequests     int64
	CacheHits         int64
	CacheMisses       int64
	Evictions         int64
	Entries           int
	HitRatePercent    float64
	MissRatePercent   float64
	Uptime            time.Duration
	RequestsPerSecond float64
	LastReset         time.Time
}

func (dc *DiffCache) recordCacheHit() {
	dc.stats.mutex.Lock()
	defer dc.stats.mutex.Unlock()
	dc.stats.TotalRequests++
	dc.stats.CacheHits++
}

func (dc *DiffCache) recordCacheMiss() {
	dc.stats.mutex.Lock()
	defer dc.stats.mutex.Unlock()
	dc.stats.TotalRequests++
	dc.stats.CacheMisses++
}

func (dc *DiffCache) recordEviction() {
	dc.stats.mutex.Lock()
	defer dc.stats.mutex.Unlock()
	dc.stats.Evictions++
}

// GetPerformanceStats returns the hit / miss counters and derived rates
func (dc *DiffCache) GetPerformanceStats() PerformanceStats {
	dc.stats.mutex.RLock()
	defer dc.stats.mutex.RUnlock()

	stats := PerformanceStats{
		TotalRequests: dc.stats.TotalRequests,
		CacheHits:     dc.stats.CacheHits,
		CacheMisses:   dc.stats.CacheMisses,
		Evictions:     dc.stats.Evictions,
		Entries:       dc.entries.Len(),
		Uptime:        time.Since(dc.stats.LastResetTime),
		LastReset:     dc.stats.LastResetTime,
	}

	if stats.TotalRequests > 0 {
		stats.HitRatePercent = float64(stats.CacheHits) / float64(stats.TotalRequests) * 100
		stats.MissRatePercent = float64(stats.CacheMisses) / float64(stats.TotalRequests) * 100
	}
	if seconds := stats.Uptime.Seconds(); seconds > 0 {
		stats.RequestsPerSecond = float64(stats.TotalRequests) / seconds
	}

	return stats
}

// Efficiency grades the hit rate the same way for every report.
func (s PerformanceStats) Efficiency() string {
	switch {
	case s.TotalRequests == 0:
		return "no requests"
	case s.HitRatePercent < 50:
		return "poor - consider cache warming"
	case s.HitRatePercent < 75:
		return "moderate"
	default:
		return "excellent"
	}
}

// ResetPerformanceStats resets all performance counters
func (dc *DiffCache) ResetPerformanceStats() {
	dc.stats.mutex.Lock()
	defer dc.stats.mutex.Unlock()

	dc.stats.TotalRequests = 0
	dc.stats.CacheHits = 0
	dc.stats.CacheMisses = 0
	dc.stats.Evictions = 0
	dc.stats.LastResetTime = time.Now()
}
