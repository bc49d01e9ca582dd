package types

import (
	"encoding/json"

	"github.com/holiman/uint256"
)

// Amount is an unsigned 256-bit token amount in the token's smallest
// unit (wei-equivalent). It wraps uint256.Int so arithmetic can report
// overflow explicitly rather than wrapping around silently, matching
// the checked-arithmetic contract the quote engine relies on.
type Amount struct {
	v *uint256.Int
}

// NewAmount wraps a uint64 value as an Amount.
func NewAmount(v uint64) Amount {
	return Amount{v: uint256.NewInt(v)}
}

// ZeroAmount is the additive identity.
func ZeroAmount() Amount { return Amount{v: new(uint256.Int)} }

// AmountFromUint256 wraps an existing *uint256.Int. A nil input yields
// a zero amount.
func AmountFromUint256(v *uint256.Int) Amount {
	if v == nil {
		return ZeroAmount()
	}
	return Amount{v: v.Clone()}
}

// NewAmountFromString parses a base-10 integer string (smallest-unit,
// no decimal point) into an Amount, used by API/CLI callers that
// already have a raw wei-equivalent value rather than a
// human-readable decimal amount (see bigmath.ParseTokenAmount for
// that case).
func NewAmountFromString(s string) (Amount, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, &ParseError{Raw: s, Err: err}
	}
	return Amount{v: v}, nil
}

// Uint256 returns the underlying value. Callers must not mutate the
// returned pointer; clone it first if they intend to.
func (a Amount) Uint256() *uint256.Int {
	if a.v == nil {
		return new(uint256.Int)
	}
	return a.v
}

// IsZero reports whether the amount is zero (including the zero-value
// Amount{}).
func (a Amount) IsZero() bool {
	return a.v == nil || a.v.IsZero()
}

// Cmp compares two amounts the way uint256.Int.Cmp does.
func (a Amount) Cmp(b Amount) int {
	return a.Uint256().Cmp(b.Uint256())
}

// String renders the amount as a base-10 string.
func (a Amount) String() string {
	return a.Uint256().String()
}

// MarshalJSON renders the amount as a quoted decimal string, so the
// full 256-bit range survives as text rather than a JSON number.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON parses a quoted (or bare) decimal string into the
// amount.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		// fall back to a bare JSON number for leniency
		var n json.Number
		if err2 := json.Unmarshal(data, &n); err2 != nil {
			return &ParseError{Raw: string(data), Err: err}
		}
		s = n.String()
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return &ParseError{Raw: s, Err: err}
	}
	a.v = v
	return nil
}
