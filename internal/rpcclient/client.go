// Package rpcclient is the concrete go-ethereum-backed implementation
// of the cache package's PoolRPC collaborator interface. The RPC
// transport itself is an external collaborator outside core scope,
// but a real implementation is still worth having so the bulk
// fetch path in internal/cache is exercised end to end. It hand-packs
// the handful of UniswapV2Factory and UniswapV2Pair methods the fetch
// driver needs rather than generating full bindings.
package rpcclient

import (
	"context"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/holiman/uint256"

	"dexrouter/internal/types"
)

// factoryABIJSON covers the two UniswapV2Factory methods the bulk
// fetch driver needs: allPairsLength and allPairs(index).
const factoryABIJSON = `[
	{"constant":true,"inputs":[],"name":"allPairsLength","outputs":[{"name":"","type":"uint256"}],"type":"function"},
	{"constant":true,"inputs":[{"name":"","type":"uint256"}],"name":"allPairs","outputs":[{"name":"","type":"address"}],"type":"function"}
]`

// pairABIJSON covers UniswapV2Pair's token0/token1/getReserves.
const pairABIJSON = `[
	{"constant":true,"inputs":[],"name":"token0","outputs":[{"name":"","type":"address"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"token1","outputs":[{"name":"","type":"address"}],"type":"function"},
	{"constant":true,"inputs":[],"name":"getReserves","outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"blockTimestampLast","type":"uint32"}],"type":"function"}
]`

// Client implements cache.PoolRPC against a live JSON-RPC endpoint.
type Client struct {
	eth        *ethclient.Client
	factoryABI abi.ABI
	pairABI    abi.ABI
}

// Dial connects to an Ethereum JSON-RPC endpoint at url.
func Dial(ctx context.Context, url string) (*Client, error) {
	eth, err := ethclient.DialContext(ctx, url)
	if err != nil {
		return nil, &types.RpcError{Op: "dial", Err: err}
	}

	factoryABI, err := abi.JSON(strings.NewReader(factoryABIJSON))
	if err != nil {
		return nil, &types.RpcError{Op: "parse factory abi", Err: err}
	}
	pairABI, err := abi.JSON(strings.NewReader(pairABIJSON))
	if err != nil {
		return nil, &types.RpcError{Op: "parse pair abi", Err: err}
	}

	return &Client{eth: eth, factoryABI: factoryABI, pairABI: pairABI}, nil
}

func (c *Client) call(ctx context.Context, to types.Address, data []byte) ([]byte, error) {
	msg := ethereum.CallMsg{To: &to, Data: data}
	return c.eth.CallContract(ctx, msg, nil)
}

// FactoryPairCount calls allPairsLength() on the factory.
func (c *Client) FactoryPairCount(ctx context.Context, factory types.Address) (types.Amount, error) {
	data, err := c.factoryABI.Pack("allPairsLength")
	if err != nil {
		return types.Amount{}, &types.ContractError{Address: factory, Method: "allPairsLength", Err: err}
	}
	out, err := c.call(ctx, factory, data)
	if err != nil {
		return types.Amount{}, &types.RpcError{Op: "allPairsLength", Err: err}
	}
	results, err := c.factoryABI.Unpack("allPairsLength", out)
	if err != nil || len(results) == 0 {
		return types.Amount{}, &types.ContractError{Address: factory, Method: "allPairsLength", Err: err}
	}
	count := results[0].(*big.Int)
	v := new(uint256.Int)
	overflow := v.SetFromBig(count)
	if overflow {
		return types.Amount{}, &types.MathError{Op: "allPairsLength overflow"}
	}
	return types.AmountFromUint256(v), nil
}

// FactoryPairAt calls allPairs(index) on the factory.
func (c *Client) FactoryPairAt(ctx context.Context, factory types.Address, index uint64) (types.Address, error) {
	data, err := c.factoryABI.Pack("allPairs", new(big.Int).SetUint64(index))
	if err != nil {
		return types.Address{}, &types.ContractError{Address: factory, Method: "allPairs", Err: err}
	}
	out, err := c.call(ctx, factory, data)
	if err != nil {
		return types.Address{}, &types.RpcError{Op: "allPairs", Err: err}
	}
	results, err := c.factoryABI.Unpack("allPairs", out)
	if err != nil || len(results) == 0 {
		return types.Address{}, &types.ContractError{Address: factory, Method: "allPairs", Err: err}
	}
	return results[0].(common.Address), nil
}

// PairTokens calls token0() and token1() on the pair.
func (c *Client) PairTokens(ctx context.Context, pair types.Address) (token0, token1 types.Address, err error) {
	data0, _ := c.pairABI.Pack("token0")
	out0, err := c.call(ctx, pair, data0)
	if err != nil {
		return types.Address{}, types.Address{}, &types.RpcError{Op: "token0", Err: err}
	}
	res0, err := c.pairABI.Unpack("token0", out0)
	if err != nil || len(res0) == 0 {
		return types.Address{}, types.Address{}, &types.ContractError{Address: pair, Method: "token0", Err: err}
	}

	data1, _ := c.pairABI.Pack("token1")
	out1, err := c.call(ctx, pair, data1)
	if err != nil {
		return types.Address{}, types.Address{}, &types.RpcError{Op: "token1", Err: err}
	}
	res1, err := c.pairABI.Unpack("token1", out1)
	if err != nil || len(res1) == 0 {
		return types.Address{}, types.Address{}, &types.ContractError{Address: pair, Method: "token1", Err: err}
	}

	return res0[0].(common.Address), res1[0].(common.Address), nil
}

// PairReserves calls getReserves() on the pair.
func (c *Client) PairReserves(ctx context.Context, pair types.Address) (reserve0, reserve1 types.Amount, timestamp uint32, err error) {
	data, _ := c.pairABI.Pack("getReserves")
	out, err := c.call(ctx, pair, data)
	if err != nil {
		return types.Amount{}, types.Amount{}, 0, &types.RpcError{Op: "getReserves", Err: err}
	}
	results, err := c.pairABI.Unpack("getReserves", out)
	if err != nil || len(results) != 3 {
		return types.Amount{}, types.Amount{}, 0, &types.ContractError{Address: pair, Method: "getReserves", Err: err}
	}

	r0 := new(uint256.Int)
	overflow0 := r0.SetFromBig(results[0].(*big.Int))
	r1 := new(uint256.Int)
	overflow1 := r1.SetFromBig(results[1].(*big.Int))
	if overflow0 || overflow1 {
		return types.Amount{}, types.Amount{}, 0, &types.MathError{Op: "getReserves overflow"}
	}

	return types.AmountFromUint256(r0), types.AmountFromUint256(r1), results[2].(uint32), nil
}

// BlockNumber returns the current chain head height.
func (c *Client) BlockNumber(ctx context.Context) (uint64, error) {
	n, err := c.eth.BlockNumber(ctx)
	if err != nil {
		return 0, &types.RpcError{Op: "block_number", Err: err}
	}
	return n, nil
}
