package types

import (
	"github.com/ethereum/go-ethereum/common"
)

// Address is a 20-byte account/contract address. It reuses go-ethereum's
// common.Address so checksummed hex parsing, comparison and map-key use
// all come for free.
type Address = common.Address

// ZeroAddress is the all-zero address, used as a sentinel for "no pool" /
// "no token" in places that need one.
var ZeroAddress = Address{}

// ParseAddress validates and parses a hex address string (with or without
// 0x prefix, any letter case). It rejects malformed input instead of
// silently zero-filling it the way common.HexToAddress does.
func ParseAddress(s string) (Address, error) {
	if !common.IsHexAddress(s) {
		return Address{}, &InvalidTokenAddressError{Raw: s}
	}
	return common.HexToAddress(s), nil
}
