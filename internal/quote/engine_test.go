package quote

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"dexrouter/internal/types"
)

func amt(t *testing.T, s string) types.Amount {
	t.Helper()
	v, err := uint256.FromDecimal(s)
	assert.NoError(t, err)
	return types.AmountFromUint256(v)
}

func addr(t *testing.T, s string) types.Address {
	t.Helper()
	a, err := types.ParseAddress(s)
	assert.NoError(t, err)
	return a
}

func TestEngine_QuotePool(t *testing.T) {
	e := NewEngine()
	t0 := addr(t, "0x0000000000000000000000000000000000000001")
	t1 := addr(t, "0x0000000000000000000000000000000000000002")

	pool := types.PoolDescriptor{
		Address:  addr(t, "0x0000000000000000000000000000000000000003"),
		Token0:   t0,
		Token1:   t1,
		Reserve0: amt(t, "100000000000000000000"),
		Reserve1: amt(t, "200000000000000000000"),
		FeeBps:   30,
		DexName:  "Uniswap V2",
	}

	result, err := e.QuotePool(pool, t0, amt(t, "1000000000000000000"))
	assert.NoError(t, err)
	assert.Equal(t, "1974316068794122597", result.AmountOut.String())
	assert.Equal(t, uint64(100000), result.GasEstimate)
}

func TestEngine_QuotePool_WrongTokenRejected(t *testing.T) {
	e := NewEngine()
	t0 := addr(t, "0x0000000000000000000000000000000000000001")
	t1 := addr(t, "0x0000000000000000000000000000000000000002")
	stranger := addr(t, "0x0000000000000000000000000000000000000009")

	pool := types.PoolDescriptor{
		Token0: t0, Token1: t1,
		Reserve0: amt(t, "100"), Reserve1: amt(t, "200"), FeeBps: 30,
	}

	_, err := e.QuotePool(pool, stranger, amt(t, "1"))
	assert.Error(t, err)
}

func TestEngine_BestDirectPool_DeeperLiquidityWins(t *testing.T) {
	e := NewEngine()
	t0 := addr(t, "0x0000000000000000000000000000000000000001")
	t1 := addr(t, "0x0000000000000000000000000000000000000002")

	poolA := types.PoolDescriptor{
		Address: addr(t, "0x0000000000000000000000000000000000000010"),
		Token0:  t0, Token1: t1,
		Reserve0: amt(t, "100000000000000000000"), Reserve1: amt(t, "200000000000000000000"),
		FeeBps: 30,
	}
	poolB := types.PoolDescriptor{
		Address: addr(t, "0x0000000000000000000000000000000000000011"),
		Token0:  t0, Token1: t1,
		Reserve0: amt(t, "200000000000000000000"), Reserve1: amt(t, "400000000000000000000"),
		FeeBps: 30,
	}

	best, result, err := e.BestDirectPool([]types.PoolDescriptor{poolA, poolB}, t0, t1, amt(t, "1000000000000000000"))
	assert.NoError(t, err)
	assert.Equal(t, poolB.Address, best.Address)
	assert.True(t, result.AmountOut.Cmp(amt(t, "0")) > 0)
}

func TestEngine_BestDirectPool_NoRouteFound(t *testing.T) {
	e := NewEngine()
	t0 := addr(t, "0x0000000000000000000000000000000000000001")
	t1 := addr(t, "0x0000000000000000000000000000000000000002")
	t2 := addr(t, "0x0000000000000000000000000000000000000003")

	pool := types.PoolDescriptor{Token0: t0, Token1: t1, Reserve0: amt(t, "1"), Reserve1: amt(t, "1"), FeeBps: 30}

	_, _, err := e.BestDirectPool([]types.PoolDescriptor{pool}, t0, t2, amt(t, "1"))
	assert.Error(t, err)
	var notFound *types.NoRouteFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestEngine_QuoteRoute_TwoHop(t *testing.T) {
	e := NewEngine()
	t1 := addr(t, "0x0000000000000000000000000000000000000001")
	t2 := addr(t, "0x0000000000000000000000000000000000000002")
	t3 := addr(t, "0x0000000000000000000000000000000000000003")

	pool1 := types.PoolDescriptor{
		Address: addr(t, "0x0000000000000000000000000000000000000010"),
		Token0:  t1, Token1: t2,
		Reserve0: amt(t, "100000000000000000000"), Reserve1: amt(t, "200000000000000000000"),
		FeeBps: 30,
	}
	pool2 := types.PoolDescriptor{
		Address: addr(t, "0x0000000000000000000000000000000000000011"),
		Token0:  t2, Token1: t3,
		Reserve0: amt(t, "100000000000000000000"), Reserve1: amt(t, "200000000000000000000"),
		FeeBps: 30,
	}

	hops, err := e.QuoteRoute([]types.PoolDescriptor{pool1, pool2}, []types.Address{t1, t2, t3}, amt(t, "1000000000000000000"))
	assert.NoError(t, err)
	assert.Len(t, hops, 2)
	assert.Equal(t, hops[0].AmountOut.String(), hops[1].AmountIn.String())
}

func TestEngine_QuoteRoute_MismatchedLengthRejected(t *testing.T) {
	e := NewEngine()
	t1 := addr(t, "0x0000000000000000000000000000000000000001")
	t2 := addr(t, "0x0000000000000000000000000000000000000002")
	pool := types.PoolDescriptor{Token0: t1, Token1: t2, Reserve0: amt(t, "1"), Reserve1: amt(t, "1"), FeeBps: 30}

	_, err := e.QuoteRoute([]types.PoolDescriptor{pool}, []types.Address{t1}, amt(t, "1"))
	assert.Error(t, err)
}
