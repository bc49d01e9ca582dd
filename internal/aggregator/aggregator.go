// Package aggregator is the top-level facade: it owns a pool cache and
// a router, and exposes the single surface both the CLI and HTTP API
// build on: fetch, quote, cache import/export, stats.
package aggregator

import (
	"context"
	"log"

	"dexrouter/config"
	"dexrouter/internal/cache"
	"dexrouter/internal/collector"
	"dexrouter/internal/quote"
	"dexrouter/internal/router"
	"dexrouter/internal/rpcclient"
	"dexrouter/internal/types"
)

const defaultTopQuotes = 5

// Aggregator ties the pool cache, RPC client and router together
// behind one API.
type Aggregator struct {
	cfg    *config.Config
	store  cache.Store
	rpc    cache.PoolRPC
	router *router.Router
}

// New constructs an Aggregator. It dials the configured RPC endpoint,
// builds the configured cache backend, and silently attempts to
// import the on-disk cache snapshot. A first run with no cache file
// yet is not an error.
func New(ctx context.Context, cfg *config.Config) (*Aggregator, error) {
	client, err := rpcclient.Dial(ctx, cfg.RPCURL)
	if err != nil {
		return nil, err
	}

	store := newStore(cfg)
	if cfg.CacheEnabled {
		if cache.TryAutoImport(store, cfg.CachePath) {
			log.Printf("aggregator: imported cache snapshot from %s", cfg.CachePath)
		}
	}

	eng := quote.NewEngine()
	r := router.New(ctx, store, eng, cfg.MaxHops, defaultTopQuotes*2)

	return &Aggregator{cfg: cfg, store: store, rpc: client, router: r}, nil
}

// NewWithStore builds an Aggregator around an already-constructed
// store and rpc collaborator, skipping the RPC dial New performs. It
// exists for tests and other callers that already hold a store (e.g.
// a cache.NewMemoryStore() seeded with fixtures), mirroring how the
// router and quote engine are constructed directly, without a network
// dependency, in their own package tests.
func NewWithStore(ctx context.Context, cfg *config.Config, store cache.Store, rpc cache.PoolRPC) *Aggregator {
	eng := quote.NewEngine()
	r := router.New(ctx, store, eng, cfg.MaxHops, defaultTopQuotes*2)
	return &Aggregator{cfg: cfg, store: store, rpc: rpc, router: r}
}

func newStore(cfg *config.Config) cache.Store {
	if cfg.CacheBackend == config.CacheBackendRedis {
		return cache.NewTwoLevelCache(cfg.RedisAddr, cfg.RedisPassword)
	}
	return cache.NewMemoryStore()
}

// FetchAllPools fetches pools from every configured factory
// (Uniswap V2 and SushiSwap), returning the total number fetched.
func (a *Aggregator) FetchAllPools(ctx context.Context, limitPerDex uint64) (int, error) {
	factories := []struct {
		addr types.Address
		name string
	}{
		{a.cfg.UniswapV2Factory, "uniswap_v2"},
		{a.cfg.SushiswapFactory, "sushiswap"},
	}

	total := 0
	for _, f := range factories {
		pools, err := a.FetchPools(ctx, f.addr, f.name, limitPerDex)
		if err != nil {
			return total, err
		}
		total += len(pools)
	}

	a.router.RefreshNow()
	return total, nil
}

// FetchPools fetches pools from a single factory.
func (a *Aggregator) FetchPools(ctx context.Context, factory types.Address, dexName string, limit uint64) ([]types.PoolDescriptor, error) {
	pools, err := cache.FetchPools(ctx, a.rpc, a.store, factory, dexName, limit)
	if err != nil {
		return nil, err
	}
	a.router.RefreshNow()
	return pools, nil
}

// GetBestQuote returns the single best route for a swap.
func (a *Aggregator) GetBestQuote(ctx context.Context, tokenIn, tokenOut types.Address, amountIn types.Amount, strategy types.OptimizationStrategy) (types.RouteQuote, error) {
	quotes, err := a.GetTopQuotes(ctx, tokenIn, tokenOut, amountIn, strategy, 1)
	if err != nil {
		return types.RouteQuote{}, err
	}
	return quotes[0], nil
}

// GetTopQuotes returns up to limit ranked routes for a swap. An empty
// cache raises PoolNotFoundError rather than an empty result.
func (a *Aggregator) GetTopQuotes(ctx context.Context, tokenIn, tokenOut types.Address, amountIn types.Amount, strategy types.OptimizationStrategy, limit int) ([]types.RouteQuote, error) {
	if a.store.Stats().TotalPools == 0 {
		return nil, &types.PoolNotFoundError{Address: types.ZeroAddress}
	}

	market := types.DefaultMarketContext()
	market.GasPriceGwei = a.cfg.GasPriceGwei

	if limit <= 0 {
		limit = defaultTopQuotes
	}
	return a.router.FindRoutes(ctx, tokenIn, tokenOut, amountIn, strategy, market, limit)
}

// GetPools returns every cached pool.
func (a *Aggregator) GetPools() []types.PoolDescriptor {
	return a.store.All()
}

// GetPoolsWithToken returns every cached pool containing token.
func (a *Aggregator) GetPoolsWithToken(token types.Address) []types.PoolDescriptor {
	return a.store.WithToken(token)
}

// Config exposes the aggregator's configuration.
func (a *Aggregator) Config() *config.Config { return a.cfg }

// ExportCache writes the current cache contents to the configured
// path.
func (a *Aggregator) ExportCache(path string) error {
	if path == "" {
		path = a.cfg.CachePath
	}
	return cache.Export(a.store, path)
}

// ImportCache additively loads a cache snapshot from path.
func (a *Aggregator) ImportCache(path string) (int, error) {
	if path == "" {
		path = a.cfg.CachePath
	}
	n, err := cache.Import(a.store, path)
	if err != nil {
		return 0, err
	}
	a.router.RefreshNow()
	return n, nil
}

// Stats returns cache statistics.
func (a *Aggregator) Stats() cache.Stats {
	return a.store.Stats()
}

// ClearCache empties the pool cache.
func (a *Aggregator) ClearCache() {
	a.store.Clear()
	a.router.RefreshNow()
}

// SeedDemoPools populates the cache with a fixed set of major-pair
// pools without touching the chain, for local demos and smoke-testing
// the CLI/HTTP surfaces before a real fetch-pools run.
func (a *Aggregator) SeedDemoPools() []types.PoolDescriptor {
	pools := collector.SeedMajorPairs(a.store)
	a.router.RefreshNow()
	return pools
}
