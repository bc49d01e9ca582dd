package cache

import (
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"

	"dexrouter/internal/types"
)

func testAddr(t *testing.T, hex string) types.Address {
	t.Helper()
	a, err := types.ParseAddress(hex)
	assert.NoError(t, err)
	return a
}

func testAmount(v uint64) types.Amount {
	return types.AmountFromUint256(uint256.NewInt(v))
}

func TestMemoryStore_InsertAndGet(t *testing.T) {
	store := NewMemoryStore()
	pool := types.PoolDescriptor{
		Address:  testAddr(t, "0x0000000000000000000000000000000000000001"),
		Token0:   testAddr(t, "0x0000000000000000000000000000000000000002"),
		Token1:   testAddr(t, "0x0000000000000000000000000000000000000003"),
		Reserve0: testAmount(1000),
		Reserve1: testAmount(2000),
		FeeBps:   30,
		DexName:  "Uniswap V2",
	}

	store.Insert(pool)

	got, ok := store.Get(pool.Address)
	assert.True(t, ok)
	assert.Equal(t, pool.Address, got.Address)
	assert.Equal(t, pool.Reserve0.String(), got.Reserve0.String())
}

func TestMemoryStore_GetNotFound(t *testing.T) {
	store := NewMemoryStore()
	_, ok := store.Get(testAddr(t, "0x0000000000000000000000000000000000000099"))
	assert.False(t, ok)
}

func TestMemoryStore_WithTokenAndForPair(t *testing.T) {
	store := NewMemoryStore()
	tokenA := testAddr(t, "0x0000000000000000000000000000000000000001")
	tokenB := testAddr(t, "0x0000000000000000000000000000000000000002")
	tokenC := testAddr(t, "0x0000000000000000000000000000000000000003")

	poolAB := types.PoolDescriptor{
		Address: testAddr(t, "0x0000000000000000000000000000000000000010"),
		Token0:  tokenA, Token1: tokenB,
		Reserve0: testAmount(100), Reserve1: testAmount(200),
	}
	poolAC := types.PoolDescriptor{
		Address: testAddr(t, "0x0000000000000000000000000000000000000011"),
		Token0:  tokenA, Token1: tokenC,
		Reserve0: testAmount(100), Reserve1: testAmount(200),
	}

	store.Insert(poolAB)
	store.Insert(poolAC)

	withA := store.WithToken(tokenA)
	assert.Len(t, withA, 2)

	pair := store.ForPair(tokenA, tokenB)
	assert.Len(t, pair, 1)
	assert.Equal(t, poolAB.Address, pair[0].Address)
}

func TestMemoryStore_Stats(t *testing.T) {
	store := NewMemoryStore()
	store.Insert(types.PoolDescriptor{
		Address: testAddr(t, "0x0000000000000000000000000000000000000010"),
		Token0:  testAddr(t, "0x0000000000000000000000000000000000000001"),
		Token1:  testAddr(t, "0x0000000000000000000000000000000000000002"),
		DexName: "Uniswap V2",
	})
	store.Insert(types.PoolDescriptor{
		Address: testAddr(t, "0x0000000000000000000000000000000000000011"),
		Token0:  testAddr(t, "0x0000000000000000000000000000000000000001"),
		Token1:  testAddr(t, "0x0000000000000000000000000000000000000003"),
		DexName: "SushiSwap",
	})

	stats := store.Stats()
	assert.Equal(t, 2, stats.TotalPools)
	assert.Equal(t, 1, stats.DexCounts["Uniswap V2"])
	assert.Equal(t, 1, stats.DexCounts["SushiSwap"])
}

func TestMemoryStore_ConcurrentInsertAndRead(t *testing.T) {
	store := NewMemoryStore()
	tokenA := testAddr(t, "0x0000000000000000000000000000000000000001")
	tokenB := testAddr(t, "0x0000000000000000000000000000000000000002")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			addr := [20]byte{}
			addr[19] = byte(i + 1)
			store.Insert(types.PoolDescriptor{
				Address: addr,
				Token0:  tokenA, Token1: tokenB,
				Reserve0: testAmount(100), Reserve1: testAmount(200),
				DexName: "Uniswap V2",
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, store.Stats().TotalPools)
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore()
	store.Insert(types.PoolDescriptor{
		Address: testAddr(t, "0x0000000000000000000000000000000000000010"),
		Token0:  testAddr(t, "0x0000000000000000000000000000000000000001"),
		Token1:  testAddr(t, "0x0000000000000000000000000000000000000002"),
	})
	store.Clear()
	assert.Equal(t, 0, store.Stats().TotalPools)
}
