// Package bigmath implements the checked 256-bit arithmetic the quote
// engine and router build on: constant-product swap output, price
// impact, fee amounts, and decimal-string amount parsing/formatting.
//
// All checked multiplications use github.com/holiman/uint256, whose
// *Overflow methods report overflow explicitly, math/big has no
// equivalent, which is why this package reaches for uint256 instead of
// plain big.Int for anything that must fail loudly on
// overflow rather than wrap around.
package bigmath

import (
	"strings"

	"github.com/holiman/uint256"

	"dexrouter/internal/types"
)

var (
	ten         = uint256.NewInt(10)
	tenThousand = uint256.NewInt(10000)
)

// CalculateSwapOutput implements the constant-product formula:
//
//	fee_factor    = 10000 - fee_bps
//	amount_in_fee = amount_in * fee_factor
//	numerator     = amount_in_fee * reserve_out
//	denominator   = reserve_in * 10000 + amount_in_fee
//	amount_out    = numerator / denominator
func CalculateSwapOutput(amountIn, reserveIn, reserveOut types.Amount, feeBps uint32) (types.Amount, error) {
	if amountIn.IsZero() {
		return types.Amount{}, &types.InvalidAmountError{Reason: "amount_in must be non-zero"}
	}
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return types.Amount{}, &types.InsufficientLiquidityError{
			AmountOut:  "0",
			ReserveOut: reserveOut.String(),
		}
	}

	feeFactor := uint256.NewInt(uint64(10000 - feeBps))

	amountInFee, overflow := new(uint256.Int).MulOverflow(amountIn.Uint256(), feeFactor)
	if overflow {
		return types.Amount{}, &types.MathError{Op: "amount_in * fee_factor"}
	}

	numerator, overflow := new(uint256.Int).MulOverflow(amountInFee, reserveOut.Uint256())
	if overflow {
		return types.Amount{}, &types.MathError{Op: "amount_in_fee * reserve_out"}
	}

	reserveInScaled, overflow := new(uint256.Int).MulOverflow(reserveIn.Uint256(), tenThousand)
	if overflow {
		return types.Amount{}, &types.MathError{Op: "reserve_in * 10000"}
	}
	denominator, overflow := new(uint256.Int).AddOverflow(reserveInScaled, amountInFee)
	if overflow {
		return types.Amount{}, &types.MathError{Op: "reserve_in_scaled + amount_in_fee"}
	}
	if denominator.IsZero() {
		return types.Amount{}, &types.MathError{Op: "division by zero denominator"}
	}

	out := new(uint256.Int).Div(numerator, denominator)
	if out.IsZero() {
		return types.Amount{}, &types.InsufficientLiquidityError{
			AmountOut:  "0",
			ReserveOut: reserveOut.String(),
		}
	}

	return types.AmountFromUint256(out), nil
}

// CalculatePriceImpactBps implements:
//
//	impact_bps = (amount_in*reserve_out - amount_out*reserve_in) * 10000
//	             / (amount_in*reserve_out)
//
// clamped to [0, 10000]. Any overflow in the intermediate products
// saturates to 10000; zero reserves saturate to 10000; an underflowing
// subtraction (execution price at or above spot) floors to 0.
func CalculatePriceImpactBps(amountIn, amountOut, reserveIn, reserveOut types.Amount) uint64 {
	if reserveIn.IsZero() || reserveOut.IsZero() {
		return 10000
	}

	spotNumerator, overflow := new(uint256.Int).MulOverflow(amountIn.Uint256(), reserveOut.Uint256())
	if overflow {
		return 10000
	}
	execNumerator, overflow := new(uint256.Int).MulOverflow(amountOut.Uint256(), reserveIn.Uint256())
	if overflow {
		return 10000
	}

	if spotNumerator.IsZero() {
		return 10000
	}

	diff, underflow := new(uint256.Int).SubOverflow(spotNumerator, execNumerator)
	if underflow {
		return 0
	}

	scaled, overflow := new(uint256.Int).MulOverflow(diff, tenThousand)
	if overflow {
		return 10000
	}

	impact := new(uint256.Int).Div(scaled, spotNumerator)
	if impact.Cmp(tenThousand) > 0 {
		return 10000
	}
	return impact.Uint64()
}

// CalculateFeeAmount computes amount * fee_bps / 10000, saturating to
// 0 on overflow rather than failing, the fee is a display/accounting
// figure, not something the swap's correctness depends on.
func CalculateFeeAmount(amount types.Amount, feeBps uint32) types.Amount {
	scaled, overflow := new(uint256.Int).MulOverflow(amount.Uint256(), uint256.NewInt(uint64(feeBps)))
	if overflow {
		return types.ZeroAmount()
	}
	return types.AmountFromUint256(new(uint256.Int).Div(scaled, tenThousand))
}

// ParseTokenAmount parses a decimal string (at most one '.') into an
// Amount scaled to decimals digits: integer*10^decimals + fractional
// padded to exactly decimals digits.
func ParseTokenAmount(s string, decimals uint8) (types.Amount, error) {
	if s == "" {
		return types.Amount{}, &types.ParseError{Raw: s, Err: errEmptyAmount}
	}
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return types.Amount{}, &types.ParseError{Raw: s, Err: errTooManyDots}
	}

	intPart := parts[0]
	if intPart == "" {
		intPart = "0"
	}
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if len(fracPart) > int(decimals) {
		return types.Amount{}, &types.ParseError{Raw: s, Err: errTooManyFractionDigits}
	}
	fracPart = fracPart + strings.Repeat("0", int(decimals)-len(fracPart))

	combined := intPart + fracPart
	combined = strings.TrimLeft(combined, "0")
	if combined == "" {
		combined = "0"
	}

	v, err := uint256.FromDecimal(combined)
	if err != nil {
		return types.Amount{}, &types.ParseError{Raw: s, Err: err}
	}
	return types.AmountFromUint256(v), nil
}

// FormatTokenAmount divides by 10^decimals for the integer part,
// formats the remainder with decimals leading zeros, strips trailing
// zeros, and drops the dot entirely if the remainder is zero.
func FormatTokenAmount(amount types.Amount, decimals uint8) string {
	scale := powTen(decimals)
	v := amount.Uint256()

	integer := new(uint256.Int).Div(v, scale)
	remainder := new(uint256.Int).Mod(v, scale)

	if remainder.IsZero() {
		return integer.String()
	}

	fracStr := remainder.String()
	fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
	fracStr = strings.TrimRight(fracStr, "0")
	if fracStr == "" {
		return integer.String()
	}
	return integer.String() + "." + fracStr
}

func powTen(decimals uint8) *uint256.Int {
	result := uint256.NewInt(1)
	for i := uint8(0); i < decimals; i++ {
		result = new(uint256.Int).Mul(result, ten)
	}
	return result
}

// EstimateGasCostUSD converts a gas amount into a USD figure for
// scoring/display: cost_usd = (gas*gas_price_gwei*10^9)/10^18 * eth_price_usd.
// It is never used in invariant math, only scoring.
func EstimateGasCostUSD(gas uint64, gasPriceGwei uint64, ethPriceUSD float64) float64 {
	gasWei := gas * gasPriceGwei * 1_000_000_000
	ethAmount := float64(gasWei) / 1e18
	return ethAmount * ethPriceUSD
}

// tokenDecimals lists the mainnet tokens that deviate from the
// 18-decimal default, keyed by address.
var tokenDecimals = map[string]uint8{
	strings.ToLower("0xdAC17F958D2ee523a2206206994597C13D831ec7"): 6,  // USDT
	strings.ToLower("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48"): 6,  // USDC
	strings.ToLower("0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599"): 8,  // WBTC
}

// GetTokenDecimals returns the known decimals for addr, defaulting to
// 18 (the ERC-20 convention) for anything not in the table.
func GetTokenDecimals(addr types.Address) uint8 {
	if d, ok := tokenDecimals[strings.ToLower(addr.Hex())]; ok {
		return d
	}
	return 18
}

var (
	errEmptyAmount           = parseErrString("amount string is empty")
	errTooManyDots           = parseErrString("amount has more than one decimal point")
	errTooManyFractionDigits = parseErrString("fractional part longer than token decimals")
)

type parseErrString string

func (e parseErrString) Error() string { return string(e) }
