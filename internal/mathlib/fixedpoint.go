package mathlib

import (
	"github.com/holiman/uint256"
	"sol2ink/internal/ir"
)

// UQ112x112 is a binary fixed-point number with 112 integer and 112
// fractional bits, stored in 224 bits.
const (
	Q112Bits    = 112
	Q112Storage = 224
)

// Encode converts a 112-bit integer into UQ112x112. It never overflows.
func Encode(y *uint256.Int) (*uint256.Int, error) {
	if err := operands(Q112Bits, y); err != nil {
		return nil, err
	}
	return new(uint256.Int).Lsh(y, Q112Bits), nil
}

// UQDiv divides a UQ112x112 by a 112-bit integer, truncating
func UQDiv(x, y *uint256.Int) (*uint256.Int, error) {
	if err := operands(Q112Storage, x); err != nil {
		return nil, err
	}
	if err := operands(Q112Bits, y); err != nil {
		return nil, err
	}
	if y.IsZero() {
		return nil, &ir.Revert{Reason: ReasonDivByZero}
	}
	return new(uint256.Int).Div(x, y), nil
}
