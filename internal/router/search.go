package router

import "dexrouter/internal/types"

// candidateRoute is a completed, unpriced path: the token sequence and
// the pool sequence that connects it.
type candidateRoute struct {
	tokens []types.Address
	pools  []types.Address
}

// pathState is one in-progress BFS queue entry.
type pathState struct {
	token  types.Address
	tokens []types.Address
	pools  []types.Address
}

// findAllRoutes is a true breadth-first enumeration of every route
// from tokenIn to tokenOut within maxHops. It never prunes on
// amount and never stops searching once a route is found, every
// completed path is recorded, because ranking needs the full
// candidate set, not just whichever the search reached first.
//
// Cycle avoidance is a membership test against the current path's
// token list, not a shared visited set, two different paths are free
// to revisit a token the other already used.
func findAllRoutes(g *graph, tokenIn, tokenOut types.Address, maxHops int) []candidateRoute {
	var completed []candidateRoute

	queue := []pathState{{
		token:  tokenIn,
		tokens: []types.Address{tokenIn},
		pools:  nil,
	}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.token == tokenOut && len(current.pools) > 0 {
			completed = append(completed, candidateRoute{
				tokens: append([]types.Address(nil), current.tokens...),
				pools:  append([]types.Address(nil), current.pools...),
			})
		}

		if len(current.pools) >= maxHops {
			continue
		}

		for _, e := range g.neighbors(current.token) {
			if containsToken(current.tokens, e.other) {
				continue
			}

			nextTokens := append(append([]types.Address(nil), current.tokens...), e.other)
			nextPools := append(append([]types.Address(nil), current.pools...), e.pool)

			queue = append(queue, pathState{
				token:  e.other,
				tokens: nextTokens,
				pools:  nextPools,
			})
		}
	}

	return deduplicateRoutes(completed)
}

func containsToken(tokens []types.Address, token types.Address) bool {
	for _, t := range tokens {
		if t == token {
			return true
		}
	}
	return false
}

// deduplicateRoutes keys routes by their ordered pool-address sequence,
// dropping any that repeat, a safety net in case a future
// direct-route fast path overlaps with BFS output.
func deduplicateRoutes(routes []candidateRoute) []candidateRoute {
	seen := make(map[string]struct{}, len(routes))
	out := make([]candidateRoute, 0, len(routes))

	for _, r := range routes {
		key := routeKey(r.pools)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, r)
	}
	return out
}

func routeKey(pools []types.Address) string {
	buf := make([]byte, 0, len(pools)*20)
	for _, p := range pools {
		buf = append(buf, p[:]...)
	}
	return string(buf)
}
