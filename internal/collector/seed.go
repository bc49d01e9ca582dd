// Package collector seeds a pool cache with a fixed set of major
// mainnet trading pairs for demos and integration tests. It never
// talks to a chain; real pool data comes from internal/cache's
// bulk-fetch driver over internal/rpcclient.
package collector

import (
	"log"

	"github.com/holiman/uint256"

	"dexrouter/internal/types"
)

// exchange names a seeded DEX and the divisor applied to its reserves.
type exchange struct {
	name         string
	reserveScale uint64 // divides the base reserve to vary liquidity depth across DEXs
}

var demoExchanges = []exchange{
	{name: "uniswap_v2", reserveScale: 1},
	{name: "sushiswap", reserveScale: 2},
}

type majorPair struct {
	name           string
	token0, token1 types.Address
	decimals0      uint8
	decimals1      uint8
	reserve0Units  uint64 // whole-token units, scaled by decimals at seed time
	reserve1Units  uint64
}

var weth = mustAddr("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")
var usdt = mustAddr("0xdAC17F958D2ee523a2206206994597C13D831ec7")
var usdc = mustAddr("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
var dai = mustAddr("0x6B175474E89094C44Da98b954EedeAC495271d0F")

var demoMajorPairs = []majorPair{
	{name: "WETH/USDT", token0: weth, token1: usdt, decimals0: 18, decimals1: 6, reserve0Units: 1000, reserve1Units: 2_000_000},
	{name: "WETH/USDC", token0: weth, token1: usdc, decimals0: 18, decimals1: 6, reserve0Units: 1000, reserve1Units: 2_000_000},
	{name: "WETH/DAI", token0: weth, token1: dai, decimals0: 18, decimals1: 18, reserve0Units: 1000, reserve1Units: 2_000_000},
	{name: "USDC/USDT", token0: usdc, token1: usdt, decimals0: 6, decimals1: 6, reserve0Units: 1_000_000, reserve1Units: 1_000_000},
}

func mustAddr(s string) types.Address {
	a, err := types.ParseAddress(s)
	if err != nil {
		panic(err) // these are compile-time constants; a parse failure means the literal is wrong
	}
	return a
}

// Store is the subset of cache.Store SeedMajorPairs needs, kept narrow
// so this package doesn't import internal/cache just for a single
// method.
type Store interface {
	Insert(pool types.PoolDescriptor)
}

// SeedMajorPairs inserts one pool per (exchange, major pair) into
// store, deterministically addressed so repeated seeding is
// idempotent. Returns the pools it created.
func SeedMajorPairs(store Store) []types.PoolDescriptor {
	var seeded []types.PoolDescriptor

	for _, ex := range demoExchanges {
		for i, pair := range demoMajorPairs {
			pool := types.PoolDescriptor{
				Address:  syntheticPoolAddress(ex.name, i),
				Token0:   pair.token0,
				Token1:   pair.token1,
				Reserve0: scaledAmount(pair.reserve0Units/ex.reserveScale, pair.decimals0),
				Reserve1: scaledAmount(pair.reserve1Units/ex.reserveScale, pair.decimals1),
				FeeBps:   30,
				DexName:  ex.name,
			}
			store.Insert(pool)
			seeded = append(seeded, pool)
			log.Printf("collector: seeded %s pool for %s", ex.name, pair.name)
		}
	}

	log.Printf("collector: seeded %d demo pools across %d exchanges", len(seeded), len(demoExchanges))
	return seeded
}

func scaledAmount(units uint64, decimals uint8) types.Amount {
	scale := uint256.NewInt(1)
	ten := uint256.NewInt(10)
	for i := uint8(0); i < decimals; i++ {
		scale.Mul(scale, ten)
	}
	v := new(uint256.Int).Mul(uint256.NewInt(units), scale)
	return types.AmountFromUint256(v)
}

// syntheticPoolAddress derives a stable, synthetic, non-colliding
// address per (exchange, pair index) so seeded pools don't need real
// on-chain addresses.
func syntheticPoolAddress(exchangeName string, index int) types.Address {
	var a types.Address
	copy(a[:], exchangeName)
	a[19] = byte(index + 1)
	return a
}
