package types

import "fmt"

// Error taxonomy for the aggregator. Each kind is a distinct exported type
// so callers can use errors.As to recover structured detail instead of
// matching on message text.

// RpcError wraps a failure talking to the chain (factory/pair calls,
// block lookups).
type RpcError struct {
	Op  string
	Err error
}

func (e *RpcError) Error() string { return fmt.Sprintf("rpc error during %s: %v", e.Op, e.Err) }
func (e *RpcError) Unwrap() error { return e.Err }

// ContractError wraps a revert or ABI decode failure from a specific
// contract call.
type ContractError struct {
	Address Address
	Method  string
	Err     error
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("contract call %s on %s failed: %v", e.Method, e.Address.Hex(), e.Err)
}
func (e *ContractError) Unwrap() error { return e.Err }

// PoolNotFoundError is returned when a pool address has no cache entry.
type PoolNotFoundError struct {
	Address Address
}

func (e *PoolNotFoundError) Error() string {
	return fmt.Sprintf("pool not found: %s", e.Address.Hex())
}

// InsufficientLiquidityError is returned when a pool has a zero reserve
// on either side, or when a swap through it computes to zero output.
type InsufficientLiquidityError struct {
	Pool       Address
	AmountOut  string
	ReserveOut string
}

func (e *InsufficientLiquidityError) Error() string {
	return fmt.Sprintf("insufficient liquidity in pool %s: requested %s, reserve %s",
		e.Pool.Hex(), e.AmountOut, e.ReserveOut)
}

// NoRouteFoundError is returned when the router cannot connect two
// tokens within the configured hop budget.
type NoRouteFoundError struct {
	From Address
	To   Address
}

func (e *NoRouteFoundError) Error() string {
	return fmt.Sprintf("no route found from %s to %s", e.From.Hex(), e.To.Hex())
}

// InvalidTokenAddressError is returned when a string fails hex address
// validation.
type InvalidTokenAddressError struct {
	Raw string
}

func (e *InvalidTokenAddressError) Error() string {
	return fmt.Sprintf("invalid token address: %q", e.Raw)
}

// InvalidAmountError is returned for amounts that are missing, negative
// or otherwise unusable (e.g. zero where positive is required).
type InvalidAmountError struct {
	Reason string
}

func (e *InvalidAmountError) Error() string { return fmt.Sprintf("invalid amount: %s", e.Reason) }

// ConfigError is returned for missing/malformed environment configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error: %s: %s", e.Field, e.Reason)
}

// CacheError wraps a failure reading or writing the on-disk cache
// snapshot.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string { return fmt.Sprintf("cache %s failed: %v", e.Op, e.Err) }
func (e *CacheError) Unwrap() error { return e.Err }

// ParseError is returned when a decimal amount string cannot be parsed.
type ParseError struct {
	Raw string
	Err error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse error on %q: %v", e.Raw, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// MathError is returned by checked arithmetic on overflow.
type MathError struct {
	Op string
}

func (e *MathError) Error() string { return fmt.Sprintf("math error: %s overflowed", e.Op) }
