package types

import (
	"math/big"
	"strings"
)

// RouteHop is a single pool traversal within a route.
type RouteHop struct {
	Pool        Address `json:"pool"`
	TokenIn     Address `json:"token_in"`
	TokenOut    Address `json:"token_out"`
	DexName     string  `json:"dex_name"`
	AmountIn    Amount  `json:"amount_in"`
	AmountOut   Amount  `json:"amount_out"`
	FeePaid     Amount  `json:"fee_paid"`
	GasEstimate uint64  `json:"gas_estimate"`
}

// RouteQuote is a fully priced, ranked candidate route.
type RouteQuote struct {
	TokenIn        Address    `json:"token_in"`
	TokenOut       Address    `json:"token_out"`
	AmountIn       Amount     `json:"amount_in"`
	AmountOut      Amount     `json:"amount_out"`
	Hops           []RouteHop `json:"hops"`
	TotalFee       Amount     `json:"total_fee"`
	GasEstimate    uint64     `json:"gas_estimate"`
	PriceImpactBps uint64     `json:"price_impact_bps"`
	Score          float64    `json:"score"`
	Description    string     `json:"description"`
}

// HopCount returns the number of hops (pools traversed) in the route.
func (q RouteQuote) HopCount() int { return len(q.Hops) }

// ExchangeRate returns amount_out / amount_in as a float64
// approximation, for display only.
func (q RouteQuote) ExchangeRate() float64 {
	if q.AmountIn.IsZero() {
		return 0
	}
	out := new(big.Float).SetInt(q.AmountOut.Uint256().ToBig())
	in := new(big.Float).SetInt(q.AmountIn.Uint256().ToBig())
	rate, _ := new(big.Float).Quo(out, in).Float64()
	return rate
}

// RoutePath returns the ordered token sequence the route traverses.
func (q RouteQuote) RoutePath() []Address {
	if len(q.Hops) == 0 {
		return nil
	}
	path := make([]Address, 0, len(q.Hops)+1)
	path = append(path, q.Hops[0].TokenIn)
	for _, h := range q.Hops {
		path = append(path, h.TokenOut)
	}
	return path
}

// GenerateDescription renders the human-readable "addr0 -> addr1 -> ..."
// summary used by the CLI's non-JSON output mode.
func GenerateDescription(path []Address) string {
	parts := make([]string, len(path))
	for i, a := range path {
		parts[i] = a.Hex()
	}
	return strings.Join(parts, " -> ")
}
