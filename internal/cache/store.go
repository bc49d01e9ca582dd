// Package cache implements the concurrent pool cache: a keyed store of
// types.PoolDescriptor safe for many readers and occasional writers,
// plus the bulk-fetch driver and on-disk persistence that populate it.
//
// The store is an RWMutex-protected map with a secondary token index,
// so readers are never serialized behind one another, only behind an
// in-progress write.
package cache

import (
	"sync"

	"dexrouter/internal/types"
)

// Store is the pool cache's contract. All returned descriptors are
// clones; callers never observe cache-internal state.
type Store interface {
	Insert(pool types.PoolDescriptor)
	Get(address types.Address) (types.PoolDescriptor, bool)
	All() []types.PoolDescriptor
	WithToken(token types.Address) []types.PoolDescriptor
	ForPair(a, b types.Address) []types.PoolDescriptor
	Stats() Stats
	Clear()
}

// Stats summarizes the cache contents: total pool count and a
// per-DEX breakdown.
type Stats struct {
	TotalPools int
	DexCounts  map[string]int
}

// MemoryStore is the core, spec-mandated in-process implementation.
type MemoryStore struct {
	mu      sync.RWMutex
	pools   map[types.Address]types.PoolDescriptor
	byToken map[types.Address]map[types.Address]struct{} // token -> set of pool addresses
}

// NewMemoryStore constructs an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pools:   make(map[types.Address]types.PoolDescriptor),
		byToken: make(map[types.Address]map[types.Address]struct{}),
	}
}

// Insert overwrites any prior descriptor at the same address, matching
// the bulk-fetch driver's re-fetch semantics.
func (s *MemoryStore) Insert(pool types.PoolDescriptor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pools[pool.Address] = pool.Clone()
	s.indexToken(pool.Token0, pool.Address)
	s.indexToken(pool.Token1, pool.Address)
}

func (s *MemoryStore) indexToken(token, poolAddr types.Address) {
	set, ok := s.byToken[token]
	if !ok {
		set = make(map[types.Address]struct{})
		s.byToken[token] = set
	}
	set[poolAddr] = struct{}{}
}

// Get returns a clone of the descriptor at address, if present.
func (s *MemoryStore) Get(address types.Address) (types.PoolDescriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pool, ok := s.pools[address]
	if !ok {
		return types.PoolDescriptor{}, false
	}
	return pool.Clone(), true
}

// All returns a snapshot of every descriptor in the cache.
func (s *MemoryStore) All() []types.PoolDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.PoolDescriptor, 0, len(s.pools))
	for _, pool := range s.pools {
		out = append(out, pool.Clone())
	}
	return out
}

// WithToken returns every pool where token is either token0 or token1.
func (s *MemoryStore) WithToken(token types.Address) []types.PoolDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	addrs := s.byToken[token]
	out := make([]types.PoolDescriptor, 0, len(addrs))
	for addr := range addrs {
		out = append(out, s.pools[addr].Clone())
	}
	return out
}

// ForPair returns every pool containing exactly the unordered pair
// (a, b).
func (s *MemoryStore) ForPair(a, b types.Address) []types.PoolDescriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	setA := s.byToken[a]
	setB := s.byToken[b]
	if len(setA) == 0 || len(setB) == 0 {
		return nil
	}

	// iterate the smaller set for the intersection
	small, large := setA, setB
	if len(setB) < len(setA) {
		small, large = setB, setA
	}

	var out []types.PoolDescriptor
	for addr := range small {
		if _, ok := large[addr]; ok {
			out = append(out, s.pools[addr].Clone())
		}
	}
	return out
}

// Stats computes the total pool count and per-DEX breakdown from a
// snapshot of the current contents.
func (s *MemoryStore) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, pool := range s.pools {
		counts[pool.DexName]++
	}
	return Stats{TotalPools: len(s.pools), DexCounts: counts}
}

// Clear empties the cache.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pools = make(map[types.Address]types.PoolDescriptor)
	s.byToken = make(map[types.Address]map[types.Address]struct{})
}
