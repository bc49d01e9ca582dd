package types

import "math/big"

// PoolDescriptor is a point-in-time snapshot of a single on-chain
// constant-product pool. The pool cache owns all PoolDescriptor
// storage; callers always receive cloned values (see internal/cache).
type PoolDescriptor struct {
	Address     Address `json:"address"`
	Token0      Address `json:"token0"`
	Token1      Address `json:"token1"`
	Reserve0    Amount  `json:"reserve0"`
	Reserve1    Amount  `json:"reserve1"`
	FeeBps      uint32  `json:"fee_bps"`
	DexName     string  `json:"dex_name"`
	LastUpdated uint64  `json:"last_updated"`
}

// Clone returns a deep-enough copy: Amount is a value type wrapping an
// immutable-by-convention *uint256.Int, but we defensively clone it so
// no caller can mutate cache-owned state through an aliased pointer.
func (p PoolDescriptor) Clone() PoolDescriptor {
	clone := p
	clone.Reserve0 = AmountFromUint256(p.Reserve0.Uint256())
	clone.Reserve1 = AmountFromUint256(p.Reserve1.Uint256())
	return clone
}

// OtherToken returns the counter-token to t, or false if t is neither
// token0 nor token1.
func (p PoolDescriptor) OtherToken(t Address) (Address, bool) {
	switch t {
	case p.Token0:
		return p.Token1, true
	case p.Token1:
		return p.Token0, true
	default:
		return Address{}, false
	}
}

// ReservesForInput returns (reserveIn, reserveOut) for a swap where
// tokenIn is the input side, or false if tokenIn is not one of the
// pool's two tokens.
func (p PoolDescriptor) ReservesForInput(tokenIn Address) (reserveIn, reserveOut Amount, ok bool) {
	switch tokenIn {
	case p.Token0:
		return p.Reserve0, p.Reserve1, true
	case p.Token1:
		return p.Reserve1, p.Reserve0, true
	default:
		return Amount{}, Amount{}, false
	}
}

// PriceRatio returns reserve1/reserve0 as a floating-point
// approximation, for ranking and display only, never for invariant
// math.
func (p PoolDescriptor) PriceRatio() float64 {
	if p.Reserve0.IsZero() {
		return 0
	}
	r0 := new(big.Float).SetInt(p.Reserve0.Uint256().ToBig())
	r1 := new(big.Float).SetInt(p.Reserve1.Uint256().ToBig())
	ratio, _ := new(big.Float).Quo(r1, r0).Float64()
	return ratio
}

// HasZeroReserve reports whether either side of the pool is drained,
// the condition the router excludes pools on during adjacency
// construction.
func (p PoolDescriptor) HasZeroReserve() bool {
	return p.Reserve0.IsZero() || p.Reserve1.IsZero()
}
