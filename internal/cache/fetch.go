package cache

import (
	"context"
	"log"

	"dexrouter/internal/types"
)

// uniswapV2FeeBps is the canonical UniV2 fee (0.30%), assigned to
// every pool discovered by the bulk fetch driver.
const uniswapV2FeeBps = 30

// PoolRPC is the inbound collaborator the bulk-fetch driver depends
// on: a factory/pair query surface. The concrete RPC transport is
// out of core scope; this interface is the core contract,
// satisfied concretely by internal/rpcclient.
type PoolRPC interface {
	FactoryPairCount(ctx context.Context, factory types.Address) (types.Amount, error)
	FactoryPairAt(ctx context.Context, factory types.Address, index uint64) (types.Address, error)
	PairTokens(ctx context.Context, pair types.Address) (token0, token1 types.Address, err error)
	PairReserves(ctx context.Context, pair types.Address) (reserve0, reserve1 types.Amount, timestamp uint32, err error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// FetchPools runs the bulk-fetch algorithm against factory, labeling
// every discovered pool with dexName, inserting each into store, and
// returning the accumulated list. limit caps the number of pairs
// queried; a limit of 0 means "no limit" (query the factory's full
// pair count).
//
// Per-pool failures are logged and skipped; the driver never aborts
// because of a single bad pool.
func FetchPools(ctx context.Context, rpc PoolRPC, store Store, factory types.Address, dexName string, limit uint64) ([]types.PoolDescriptor, error) {
	count, err := rpc.FactoryPairCount(ctx, factory)
	if err != nil {
		return nil, &types.RpcError{Op: "factory_pair_count", Err: err}
	}

	total := count.Uint256().Uint64()
	if limit > 0 && limit < total {
		total = limit
	}

	fetched := make([]types.PoolDescriptor, 0, total)
	for i := uint64(0); i < total; i++ {
		pool, err := fetchPoolAt(ctx, rpc, factory, dexName, i)
		if err != nil {
			log.Printf("cache: skipping pair %d from %s: %v", i, factory.Hex(), err)
			continue
		}

		store.Insert(pool)
		fetched = append(fetched, pool)

		if (i+1)%10 == 0 {
			log.Printf("cache: fetched %d/%d pools from %s", i+1, total, dexName)
		}
	}

	log.Printf("cache: %s bulk fetch complete: %d/%d pools stored", dexName, len(fetched), total)
	return fetched, nil
}

func fetchPoolAt(ctx context.Context, rpc PoolRPC, factory types.Address, dexName string, index uint64) (types.PoolDescriptor, error) {
	pairAddr, err := rpc.FactoryPairAt(ctx, factory, index)
	if err != nil {
		return types.PoolDescriptor{}, &types.RpcError{Op: "factory_pair_at", Err: err}
	}

	token0, token1, err := rpc.PairTokens(ctx, pairAddr)
	if err != nil {
		return types.PoolDescriptor{}, &types.ContractError{Address: pairAddr, Method: "tokens", Err: err}
	}

	reserve0, reserve1, _, err := rpc.PairReserves(ctx, pairAddr)
	if err != nil {
		return types.PoolDescriptor{}, &types.ContractError{Address: pairAddr, Method: "getReserves", Err: err}
	}

	blockNumber, err := rpc.BlockNumber(ctx)
	if err != nil {
		return types.PoolDescriptor{}, &types.RpcError{Op: "block_number", Err: err}
	}

	return types.PoolDescriptor{
		Address:     pairAddr,
		Token0:      token0,
		Token1:      token1,
		Reserve0:    reserve0,
		Reserve1:    reserve1,
		FeeBps:      uniswapV2FeeBps,
		DexName:     dexName,
		LastUpdated: blockNumber,
	}, nil
}
