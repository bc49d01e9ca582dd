package cache

import (
	"log"
	"sync"

	"dexrouter/internal/types"
)

// TwoLevelCache layers a MemoryStore (L1) in front of a RedisStore
// (L2). Reads prefer the fast local layer and backfill it on a Redis
// hit; writes go to both layers so a restart can rebuild L1 from L2.
type TwoLevelCache struct {
	local *MemoryStore
	redis *RedisStore

	statsMu sync.Mutex
	stats   CacheStats
}

// CacheStats holds hit/miss counters across both layers.
type CacheStats struct {
	LocalHits   int64
	LocalMisses int64
	RedisHits   int64
	RedisMisses int64
}

// NewTwoLevelCache dials Redis at redisAddr and pairs it with a fresh
// in-memory layer.
func NewTwoLevelCache(redisAddr, redisPassword string) *TwoLevelCache {
	return &TwoLevelCache{
		local: NewMemoryStore(),
		redis: NewRedisStore(redisAddr, redisPassword),
	}
}

// Insert writes to both layers; a Redis failure is logged, not fatal.
// After such a failure Get still finds the pool in the local layer,
// but All, WithToken, ForPair and Stats read Redis and do not see it.
func (tlc *TwoLevelCache) Insert(pool types.PoolDescriptor) {
	tlc.local.Insert(pool)
	tlc.redis.Insert(pool)
}

// Get checks the local layer first, falling back to Redis and
// backfilling the local layer on a remote hit.
func (tlc *TwoLevelCache) Get(address types.Address) (types.PoolDescriptor, bool) {
	if pool, ok := tlc.local.Get(address); ok {
		tlc.count(func(s *CacheStats) { s.LocalHits++ })
		return pool, true
	}
	tlc.count(func(s *CacheStats) { s.LocalMisses++ })

	pool, ok := tlc.redis.Get(address)
	if !ok {
		tlc.count(func(s *CacheStats) { s.RedisMisses++ })
		return types.PoolDescriptor{}, false
	}
	tlc.count(func(s *CacheStats) { s.RedisHits++ })

	tlc.local.Insert(pool)
	return pool, true
}

func (tlc *TwoLevelCache) count(update func(*CacheStats)) {
	tlc.statsMu.Lock()
	update(&tlc.stats)
	tlc.statsMu.Unlock()
}

// All always reads through Redis as the source of truth and warms the
// local layer in the background.
func (tlc *TwoLevelCache) All() []types.PoolDescriptor {
	pools := tlc.redis.All()
	go tlc.warmLocal(pools)
	return pools
}

func (tlc *TwoLevelCache) warmLocal(pools []types.PoolDescriptor) {
	for _, pool := range pools {
		tlc.local.Insert(pool)
	}
	log.Printf("cache: warmed local layer with %d pools", len(pools))
}

// WithToken and ForPair use Redis directly: the local MemoryStore's
// token index is only ever as fresh as what's passed through Get/All,
// so indexed lookups defer to the authoritative layer.
func (tlc *TwoLevelCache) WithToken(token types.Address) []types.PoolDescriptor {
	return tlc.redis.WithToken(token)
}

func (tlc *TwoLevelCache) ForPair(a, b types.Address) []types.PoolDescriptor {
	return tlc.redis.ForPair(a, b)
}

// Stats reports Redis-backed totals; use LayerStats for per-layer
// hit/miss counters.
func (tlc *TwoLevelCache) Stats() Stats {
	return tlc.redis.Stats()
}

// LayerStats returns a copy of the hit/miss counters tracked across
// both layers.
func (tlc *TwoLevelCache) LayerStats() CacheStats {
	tlc.statsMu.Lock()
	defer tlc.statsMu.Unlock()
	return tlc.stats
}

// Clear empties both layers.
func (tlc *TwoLevelCache) Clear() {
	tlc.local.Clear()
	tlc.redis.Clear()
}
