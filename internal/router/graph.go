package router

import (
	"context"
	"log"
	"sync"
	"time"

	"dexrouter/internal/cache"
	"dexrouter/internal/types"
)

// edge is one (pool, counter-token) adjacency entry. Two pools joining
// the same token pair produce two distinct edges, the BFS in
// search.go walks edges, not deduplicated neighbor tokens, so parallel
// pools yield distinct routes.
type edge struct {
	pool  types.Address
	other types.Address
}

// graph is the adjacency view the router searches. It is rebuilt from
// a cache.Store snapshot, excluding any pool with a zero reserve on
// either side (those would only ever quote as InsufficientLiquidity
// and would inflate the search space for nothing).
type graph struct {
	mu    sync.RWMutex
	adj   map[types.Address][]edge
	pools map[types.Address]types.PoolDescriptor
}

func newGraph() *graph {
	return &graph{
		adj:   make(map[types.Address][]edge),
		pools: make(map[types.Address]types.PoolDescriptor),
	}
}

func (g *graph) rebuild(all []types.PoolDescriptor) {
	adj := make(map[types.Address][]edge, len(all))
	pools := make(map[types.Address]types.PoolDescriptor, len(all))

	for _, pool := range all {
		if pool.HasZeroReserve() {
			continue
		}
		pools[pool.Address] = pool
		adj[pool.Token0] = append(adj[pool.Token0], edge{pool: pool.Address, other: pool.Token1})
		adj[pool.Token1] = append(adj[pool.Token1], edge{pool: pool.Address, other: pool.Token0})
	}

	g.mu.Lock()
	g.adj = adj
	g.pools = pools
	g.mu.Unlock()
}

func (g *graph) neighbors(token types.Address) []edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.adj[token]
}

func (g *graph) hasToken(token types.Address) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.adj[token]
	return ok
}

func (g *graph) poolByAddress(addr types.Address) (types.PoolDescriptor, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	p, ok := g.pools[addr]
	return p, ok
}

// startRefresher periodically rebuilds the graph from store, keeping
// the adjacency map current without blocking route searches on every
// cache write.
func (g *graph) startRefresher(ctx context.Context, store cache.Store, interval time.Duration) {
	g.rebuild(store.All())

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				g.rebuild(store.All())
			case <-ctx.Done():
				log.Println("router: graph refresher stopping")
				return
			}
		}
	}()
}
