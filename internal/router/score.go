package router

import (
	"math/big"

	"dexrouter/internal/bigmath"
	"dexrouter/internal/types"
)

// hopsImpactBps is the coarse route-level price-impact placeholder:
// 10 bps per hop, monotonically non-decreasing with route length
// regardless of the actual per-hop impacts.
func hopsImpactBps(hopCount int) uint64 {
	return uint64(hopCount) * 10
}

// score implements the weighted route-scoring formula:
//
//	output_score   = amount_out (float)
//	gas_score      = -gas_cost_usd * 1000
//	slippage_score = -price_impact_bps
//	score          = w_p*output_score + w_g*gas_score + w_s*slippage_score
func score(amountOut types.Amount, gasEstimate uint64, priceImpactBps uint64, market types.MarketContext, weights types.Weights) float64 {
	outputScore, _ := new(big.Float).SetInt(amountOut.Uint256().ToBig()).Float64()
	gasCostUSD := bigmath.EstimateGasCostUSD(gasEstimate, market.GasPriceGwei, market.EthPriceUSD)
	gasScore := -gasCostUSD * 1000
	slippageScore := -float64(priceImpactBps)

	return weights.Price*outputScore + weights.Gas*gasScore + weights.Slippage*slippageScore
}
