// Package router enumerates and ranks multi-hop swap routes over an
// adjacency graph rebuilt periodically from the pool cache. Candidate
// routes come from a non-pruning breadth-first enumeration (search.go)
// and are priced with bounded concurrency before ranking.
package router

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"dexrouter/internal/cache"
	"dexrouter/internal/quote"
	"dexrouter/internal/types"
)

const defaultRefreshInterval = 30 * time.Second

// maxAllowedHops is the hard safety cap on route length: max_hops is
// clamped to 4 at construction regardless of configuration.
const maxAllowedHops = 4

// Router enumerates, prices and ranks candidate routes between two
// tokens.
type Router struct {
	store         cache.Store
	engine        *quote.Engine
	graph         *graph
	maxHops       int
	maxConcurrent int
}

// New constructs a Router, performs a first blocking graph build from
// store, and starts a background refresher, so the router is usable
// immediately after construction.
func New(ctx context.Context, store cache.Store, engine *quote.Engine, maxHops, maxConcurrent int) *Router {
	if maxHops <= 0 || maxHops > maxAllowedHops {
		maxHops = maxAllowedHops
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}

	r := &Router{
		store:         store,
		engine:        engine,
		graph:         newGraph(),
		maxHops:       maxHops,
		maxConcurrent: maxConcurrent,
	}

	r.graph.startRefresher(ctx, store, defaultRefreshInterval)
	return r
}

// pricedRoute holds the outcome of pricing one candidateRoute: its
// fully computed quote, or nil with err set if pricing failed (the
// route is then dropped silently).
type pricedRoute struct {
	route *types.RouteQuote
	err   error
}

// FindRoutes returns up to topK ranked RouteQuotes for a swap of
// amountIn from tokenIn to tokenOut, scored under strategy. topK <= 0
// returns every successfully priced route, ranked. NoRouteFound is
// returned when the graph doesn't connect the tokens, or when every
// enumerated candidate failed to price.
func (r *Router) FindRoutes(ctx context.Context, tokenIn, tokenOut types.Address, amountIn types.Amount, strategy types.OptimizationStrategy, market types.MarketContext, topK int) ([]types.RouteQuote, error) {
	if !r.graph.hasToken(tokenIn) || !r.graph.hasToken(tokenOut) {
		return nil, &types.NoRouteFoundError{From: tokenIn, To: tokenOut}
	}

	candidates := findAllRoutes(r.graph, tokenIn, tokenOut, r.maxHops)
	if len(candidates) == 0 {
		return nil, &types.NoRouteFoundError{From: tokenIn, To: tokenOut}
	}

	priced := r.priceCandidatesConcurrently(candidates, amountIn, strategy, market)
	if len(priced) == 0 {
		return nil, &types.NoRouteFoundError{From: tokenIn, To: tokenOut}
	}

	sort.SliceStable(priced, func(i, j int) bool {
		if priced[i].Score != priced[j].Score {
			return priced[i].Score > priced[j].Score
		}
		// deterministic tie-break: shorter route, then lexical description
		if len(priced[i].Hops) != len(priced[j].Hops) {
			return len(priced[i].Hops) < len(priced[j].Hops)
		}
		return priced[i].Description < priced[j].Description
	})

	if topK > 0 && topK < len(priced) {
		priced = priced[:topK]
	}
	return priced, nil
}

// priceCandidatesConcurrently quotes every candidate route with
// bounded concurrency, gated by a buffered-channel semaphore.
func (r *Router) priceCandidatesConcurrently(candidates []candidateRoute, amountIn types.Amount, strategy types.OptimizationStrategy, market types.MarketContext) []types.RouteQuote {
	sem := make(chan struct{}, r.maxConcurrent)
	results := make([]pricedRoute, len(candidates))

	var wg sync.WaitGroup
	for i, c := range candidates {
		wg.Add(1)
		go func(idx int, cand candidateRoute) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			rq, err := r.priceRoute(cand, amountIn, strategy, market)
			results[idx] = pricedRoute{route: rq, err: err}
		}(i, c)
	}
	wg.Wait()

	out := make([]types.RouteQuote, 0, len(candidates))
	for _, pr := range results {
		if pr.err == nil && pr.route != nil {
			out = append(out, *pr.route)
		}
	}
	return out
}

func (r *Router) priceRoute(cand candidateRoute, amountIn types.Amount, strategy types.OptimizationStrategy, market types.MarketContext) (*types.RouteQuote, error) {
	pools := make([]types.PoolDescriptor, len(cand.pools))
	for i, addr := range cand.pools {
		pool, ok := r.graph.poolByAddress(addr)
		if !ok {
			return nil, &types.PoolNotFoundError{Address: addr}
		}
		pools[i] = pool
	}

	hops, err := r.engine.QuoteRoute(pools, cand.tokens, amountIn)
	if err != nil {
		return nil, err
	}

	totalFee := types.ZeroAmount()
	var totalGas uint64
	for _, h := range hops {
		totalFee = addAmounts(totalFee, h.FeePaid)
		totalGas += h.GasEstimate
	}

	impactBps := hopsImpactBps(len(hops))
	weights := strategy.Weights()
	amountOut := hops[len(hops)-1].AmountOut
	routeScore := score(amountOut, totalGas, impactBps, market, weights)

	return &types.RouteQuote{
		TokenIn:        cand.tokens[0],
		TokenOut:       cand.tokens[len(cand.tokens)-1],
		AmountIn:       amountIn,
		AmountOut:      amountOut,
		Hops:           hops,
		TotalFee:       totalFee,
		GasEstimate:    totalGas,
		PriceImpactBps: impactBps,
		Score:          routeScore,
		Description:    types.GenerateDescription(cand.tokens),
	}, nil
}

func addAmounts(a, b types.Amount) types.Amount {
	sum, overflow := a.Uint256().Clone(), false
	sum, overflow = sum.AddOverflow(sum, b.Uint256())
	if overflow {
		return types.ZeroAmount()
	}
	return types.AmountFromUint256(sum)
}

// RefreshNow forces an immediate graph rebuild, used after a bulk
// fetch so a subsequent FindRoutes call sees the new pools without
// waiting for the next ticker tick.
func (r *Router) RefreshNow() {
	r.graph.rebuild(r.store.All())
}

// String renders the router's configuration for diagnostics.
func (r *Router) String() string {
	return fmt.Sprintf("Router(maxHops=%d, maxConcurrent=%d)", r.maxHops, r.maxConcurrent)
}
