// Package cache holds the in-process read-through cache for computed stats.
//
// The cache is intentionally non-persistent: it can be lost and rebuilt on
// restart without correctness impact, since every entry is recomputable from
// storage. There is no TTL; the ingestion pipeline clears it wholesale at the
// end of every cycle, so the staleness window equals the inter-cycle interval.
package cache

import (
	"sync"

	"github.com/guttosm/cryptopulse/internal/domain/models"
)

// StatsCache stores per-symbol stats and the precomputed volatility ranking.
// Reads, miss-population writes and bulk clears may interleave freely; a
// single RWMutex gives per-key consistency, which is all the read path needs.
type StatsCache struct {
	mu         sync.RWMutex
	bySymbol   map[string]models.CryptoStats
	ranking    []models.CryptoStats
	hasRanking bool
}

func NewStatsCache() *StatsCache {
	return &StatsCache{
		bySymbol: make(map[string]models.CryptoStats),
	}
}

// GetStats returns the cached stats for symbol, if present.
func (c *StatsCache) GetStats(symbol string) (models.CryptoStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.bySymbol[symbol]
	return s, ok
}

// SetStats stores the computed stats for symbol.
func (c *StatsCache) SetStats(symbol string, stats models.CryptoStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bySymbol[symbol] = stats
}

// GetRanking returns the cached sorted list, if present. The returned slice
// is a copy so callers can't mutate the cached entry.
func (c *StatsCache) GetRanking() ([]models.CryptoStats, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.hasRanking {
		return nil, false
	}
	return append([]models.CryptoStats(nil), c.ranking...), true
}

// SetRanking stores the sorted list as a single aggregate entry.
func (c *StatsCache) SetRanking(ranking []models.CryptoStats) {
	cp := append([]models.CryptoStats(nil), ranking...)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ranking = cp
	c.hasRanking = true
}

// InvalidateAll discards every cached entry, per-symbol and ranking alike.
// Called once per completed ingestion cycle.
func (c *StatsCache) InvalidateAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bySymbol = make(map[string]models.CryptoStats)
	c.ranking = nil
	c.hasRanking = false
}
