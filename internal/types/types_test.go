package types

import (
	"encoding/json"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddr(b byte) Address {
	var a Address
	a[19] = b
	return a
}

func TestAmount_JSONRoundTrip(t *testing.T) {
	v, err := uint256.FromDecimal("123456789012345678901234567890")
	require.NoError(t, err)
	original := AmountFromUint256(v)

	data, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Equal(t, `"123456789012345678901234567890"`, string(data))

	var restored Amount
	require.NoError(t, json.Unmarshal(data, &restored))
	assert.Equal(t, 0, original.Cmp(restored))
}

func TestAmount_UnmarshalBareNumber(t *testing.T) {
	var a Amount
	require.NoError(t, json.Unmarshal([]byte(`1000`), &a))
	assert.Equal(t, "1000", a.String())
}

func TestAmount_UnmarshalRejectsGarbage(t *testing.T) {
	var a Amount
	assert.Error(t, json.Unmarshal([]byte(`"not-a-number"`), &a))
}

func TestAmount_ZeroValueIsZero(t *testing.T) {
	var a Amount
	assert.True(t, a.IsZero())
	assert.Equal(t, "0", a.String())
}

func TestParseAddress_RejectsMalformed(t *testing.T) {
	_, err := ParseAddress("not-an-address")
	require.Error(t, err)
	var invalid *InvalidTokenAddressError
	assert.ErrorAs(t, err, &invalid)

	_, err = ParseAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
	assert.NoError(t, err)
}

func TestPoolDescriptor_OtherToken(t *testing.T) {
	p := PoolDescriptor{Token0: testAddr(1), Token1: testAddr(2)}

	other, ok := p.OtherToken(testAddr(1))
	require.True(t, ok)
	assert.Equal(t, testAddr(2), other)

	other, ok = p.OtherToken(testAddr(2))
	require.True(t, ok)
	assert.Equal(t, testAddr(1), other)

	_, ok = p.OtherToken(testAddr(9))
	assert.False(t, ok)
}

func TestPoolDescriptor_ReservesForInput(t *testing.T) {
	p := PoolDescriptor{
		Token0:   testAddr(1),
		Token1:   testAddr(2),
		Reserve0: NewAmount(100),
		Reserve1: NewAmount(200),
	}

	rIn, rOut, ok := p.ReservesForInput(testAddr(1))
	require.True(t, ok)
	assert.Equal(t, "100", rIn.String())
	assert.Equal(t, "200", rOut.String())

	rIn, rOut, ok = p.ReservesForInput(testAddr(2))
	require.True(t, ok)
	assert.Equal(t, "200", rIn.String())
	assert.Equal(t, "100", rOut.String())

	_, _, ok = p.ReservesForInput(testAddr(9))
	assert.False(t, ok)
}

func TestPoolDescriptor_PriceRatio(t *testing.T) {
	p := PoolDescriptor{Reserve0: NewAmount(100), Reserve1: NewAmount(200)}
	assert.InDelta(t, 2.0, p.PriceRatio(), 1e-9)

	drained := PoolDescriptor{Reserve0: ZeroAmount(), Reserve1: NewAmount(200)}
	assert.Equal(t, 0.0, drained.PriceRatio())
}

func TestPoolDescriptor_CloneIsIndependent(t *testing.T) {
	p := PoolDescriptor{
		Address:  testAddr(10),
		Token0:   testAddr(1),
		Token1:   testAddr(2),
		Reserve0: NewAmount(100),
		Reserve1: NewAmount(200),
	}
	clone := p.Clone()

	clone.Reserve0.Uint256().SetUint64(999)
	assert.Equal(t, "100", p.Reserve0.String())
}

func TestOptimizationStrategy_Weights(t *testing.T) {
	assert.Equal(t, Weights{Price: 1.0, Gas: 0.1, Slippage: 0.1}, StrategyPrice.Weights())
	assert.Equal(t, Weights{Price: 0.3, Gas: 1.0, Slippage: 0.1}, StrategyGas.Weights())
	assert.Equal(t, Weights{Price: 0.3, Gas: 0.1, Slippage: 1.0}, StrategySlippage.Weights())
	assert.Equal(t, Weights{Price: 0.5, Gas: 0.3, Slippage: 0.2}, StrategyBalanced.Weights())
}

func TestParseOptimizationStrategy(t *testing.T) {
	assert.Equal(t, StrategyPrice, ParseOptimizationStrategy("price"))
	assert.Equal(t, StrategyGas, ParseOptimizationStrategy("gas"))
	assert.Equal(t, StrategySlippage, ParseOptimizationStrategy("slippage"))
	assert.Equal(t, StrategyBalanced, ParseOptimizationStrategy("balanced"))
	assert.Equal(t, StrategyBalanced, ParseOptimizationStrategy("nonsense"))
}

func TestRouteQuote_RoutePathAndDescription(t *testing.T) {
	q := RouteQuote{
		TokenIn:  testAddr(1),
		TokenOut: testAddr(3),
		Hops: []RouteHop{
			{TokenIn: testAddr(1), TokenOut: testAddr(2)},
			{TokenIn: testAddr(2), TokenOut: testAddr(3)},
		},
	}

	path := q.RoutePath()
	require.Len(t, path, 3)
	assert.Equal(t, testAddr(1), path[0])
	assert.Equal(t, testAddr(2), path[1])
	assert.Equal(t, testAddr(3), path[2])

	desc := GenerateDescription(path)
	assert.Contains(t, desc, " -> ")
	assert.Contains(t, desc, testAddr(2).Hex())
}

func TestRouteQuote_ExchangeRate(t *testing.T) {
	q := RouteQuote{AmountIn: NewAmount(100), AmountOut: NewAmount(200)}
	assert.InDelta(t, 2.0, q.ExchangeRate(), 1e-9)

	empty := RouteQuote{}
	assert.Equal(t, 0.0, empty.ExchangeRate())
}

func TestCacheSnapshot_JSONRoundTrip(t *testing.T) {
	snapshot := CacheSnapshot{
		Pools: []PoolDescriptor{{
			Address:     testAddr(10),
			Token0:      testAddr(1),
			Token1:      testAddr(2),
			Reserve0:    NewAmount(100),
			Reserve1:    NewAmount(200),
			FeeBps:      30,
			DexName:     "uniswap_v2",
			LastUpdated: 42,
		}},
		Timestamp: 1700000000,
	}

	data, err := json.Marshal(snapshot)
	require.NoError(t, err)

	var restored CacheSnapshot
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Len(t, restored.Pools, 1)
	assert.Equal(t, snapshot.Pools[0].Address, restored.Pools[0].Address)
	assert.Equal(t, "100", restored.Pools[0].Reserve0.String())
	assert.EqualValues(t, 42, restored.Pools[0].LastUpdated)
	assert.Equal(t, snapshot.Timestamp, restored.Timestamp)
}
