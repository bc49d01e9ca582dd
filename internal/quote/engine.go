// Package quote implements the single-pool and multi-hop pricing
// operations built on top of internal/bigmath, honoring each pool's
// own FeeBps rather than a hardcoded Uniswap fee.
package quote

import (
	"math/big"

	"dexrouter/internal/bigmath"
	"dexrouter/internal/types"
)

// gasPerHop is the flat per-swap gas estimate, a deliberate
// placeholder, not a real EVM gas model.
const gasPerHop uint64 = 100000

// Result is the outcome of quoting a single pool.
type Result struct {
	AmountOut      types.Amount
	Fee            types.Amount
	PriceImpactBps uint64
	GasEstimate    uint64
}

// ExchangeRate returns amount_out/amount_in as a float64, for display
// only.
func (r Result) ExchangeRate(amountIn types.Amount) float64 {
	if amountIn.IsZero() {
		return 0
	}
	out := new(big.Float).SetInt(r.AmountOut.Uint256().ToBig())
	in := new(big.Float).SetInt(amountIn.Uint256().ToBig())
	rate, _ := new(big.Float).Quo(out, in).Float64()
	return rate
}

// Engine prices pools and routes. It holds no state; it exists as a
// type (rather than free functions) to mirror a PriceCalculator-style
// collaborator and to leave room for future configuration (e.g. a
// pluggable slippage checker) without changing every call site.
type Engine struct{}

// NewEngine constructs a quote engine.
func NewEngine() *Engine { return &Engine{} }

// QuotePool prices a single swap through pool, in the direction given
// by tokenIn. tokenIn must be one of the pool's two tokens.
func (e *Engine) QuotePool(pool types.PoolDescriptor, tokenIn types.Address, amountIn types.Amount) (Result, error) {
	reserveIn, reserveOut, ok := pool.ReservesForInput(tokenIn)
	if !ok {
		return Result{}, &types.InvalidTokenAddressError{Raw: tokenIn.Hex()}
	}

	amountOut, err := bigmath.CalculateSwapOutput(amountIn, reserveIn, reserveOut, pool.FeeBps)
	if err != nil {
		return Result{}, err
	}

	impact := bigmath.CalculatePriceImpactBps(amountIn, amountOut, reserveIn, reserveOut)
	fee := bigmath.CalculateFeeAmount(amountIn, pool.FeeBps)

	return Result{
		AmountOut:      amountOut,
		Fee:            fee,
		PriceImpactBps: impact,
		GasEstimate:    gasPerHop,
	}, nil
}

// QuoteRoute prices a chain of pools, feeding hop i's output into hop
// i+1's input. len(tokens) must equal len(pools)+1, and pools[i] must
// connect tokens[i] to tokens[i+1]; the engine re-validates this rather
// than trusting the caller.
func (e *Engine) QuoteRoute(pools []types.PoolDescriptor, tokens []types.Address, amountIn types.Amount) ([]types.RouteHop, error) {
	if len(tokens) != len(pools)+1 {
		return nil, &types.InvalidAmountError{Reason: "route token count must be pool count + 1"}
	}

	hops := make([]types.RouteHop, 0, len(pools))
	currentAmount := amountIn

	for i, pool := range pools {
		tokenIn, tokenOut := tokens[i], tokens[i+1]
		if _, ok := pool.OtherToken(tokenIn); !ok {
			return nil, &types.InvalidAmountError{Reason: "pool does not contain declared token_in"}
		}
		other, _ := pool.OtherToken(tokenIn)
		if other != tokenOut {
			return nil, &types.InvalidAmountError{Reason: "pool does not connect declared hop tokens"}
		}

		result, err := e.QuotePool(pool, tokenIn, currentAmount)
		if err != nil {
			return nil, err
		}

		hops = append(hops, types.RouteHop{
			Pool:        pool.Address,
			TokenIn:     tokenIn,
			TokenOut:    tokenOut,
			DexName:     pool.DexName,
			AmountIn:    currentAmount,
			AmountOut:   result.AmountOut,
			FeePaid:     result.Fee,
			GasEstimate: result.GasEstimate,
		})

		currentAmount = result.AmountOut
	}

	return hops, nil
}

// BestDirectPool linearly scans pools for the one yielding the
// greatest amount_out for a direct tokenIn -> tokenOut swap. Ties are
// resolved in favor of the first pool seen. An empty result set (no
// pool connects the pair, or every candidate failed to quote) reports
// NoRouteFound.
func (e *Engine) BestDirectPool(pools []types.PoolDescriptor, tokenIn, tokenOut types.Address, amountIn types.Amount) (types.PoolDescriptor, Result, error) {
	var (
		best      types.PoolDescriptor
		bestQuote Result
		found     bool
	)

	for _, pool := range pools {
		other, ok := pool.OtherToken(tokenIn)
		if !ok || other != tokenOut {
			continue
		}

		result, err := e.QuotePool(pool, tokenIn, amountIn)
		if err != nil {
			continue
		}

		if !found || result.AmountOut.Cmp(bestQuote.AmountOut) > 0 {
			best = pool
			bestQuote = result
			found = true
		}
	}

	if !found {
		return types.PoolDescriptor{}, Result{}, &types.NoRouteFoundError{From: tokenIn, To: tokenOut}
	}
	return best, bestQuote, nil
}
