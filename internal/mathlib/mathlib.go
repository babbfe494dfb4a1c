// Package mathlib holds the exact semantics of the overflow-checked
// arithmetic the translator emits. Generated code calls runtime helpers with
// these semantics; the translator itself uses them to fold constants.
package mathlib

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"sol2ink/internal/ir"
)

// Fixed diagnostic strings carried by the error kind
const (
	ReasonAddOverflow  = "ds-math-add-overflow"
	ReasonSubUnderflow = "ds-math-sub-underflow"
	ReasonMulOverflow  = "ds-math-mul-overflow"
	ReasonDivByZero    = "division-by-zero"
	ReasonPowOverflow  = "exp-overflow"
	ReasonOutOfRange   = "value-out-of-range"
)

// Max returns the largest value of an unsigned integer of the given width
func Max(bits int) *uint256.Int {
	m := new(uint256.Int).SetAllOne()
	if bits < 256 {
		m.Rsh(m, uint(256-bits))
	}
	return m
}

// FitsIn reports whether x is representable in bits
func FitsIn(x *uint256.Int, bits int) bool {
	return x.BitLen() <= bits
}

// Parse reads a decimal or 0x-prefixed hexadecimal literal. Underscore
// separators and scientific notation ("2e18") are accepted.
func Parse(text string) (*uint256.Int, error) {
	text = strings.ReplaceAll(text, "_", "")
	b := new(big.Int)
	if mant, exp, ok := strings.Cut(strings.ToLower(text), "e"); ok && !strings.HasPrefix(text, "0x") {
		if _, ok := b.SetString(mant, 10); !ok {
			return nil, fmt.Errorf("invalid number literal %q", text)
		}
		e, ok := new(big.Int).SetString(exp, 10)
		if !ok || e.Sign() < 0 {
			return nil, fmt.Errorf("invalid exponent in %q", text)
		}
		b.Mul(b, new(big.Int).Exp(big.NewInt(10), e, nil))
	} else if _, ok := b.SetString(text, 0); !ok {
		return nil, fmt.Errorf("invalid number literal %q", text)
	}
	v, overflow := uint256.FromBig(b)
	if overflow || b.Sign() < 0 {
		return nil, fmt.Errorf("number literal %q does not fit 256 bits", text)
	}
	return v, nil
}

func operands(bits int, xs ...*uint256.Int) error {
	for _, x := range xs {
		if !FitsIn(x, bits) {
			return &ir.Revert{Reason: ReasonOutOfRange}
		}
	}
	return nil
}

// truncate reduces z modulo 2^bits
func truncate(z *uint256.Int, bits int) *uint256.Int {
	if bits < 256 {
		z.And(z, Max(bits))
	}
	return z
}

// Add returns x+y at the given width. It fails when the modular sum is
// smaller than the augend.
func Add(x, y *uint256.Int, bits int) (*uint256.Int, error) {
	if err := operands(bits, x, y); err != nil {
		return nil, err
	}
	z, _ := new(uint256.Int).AddOverflow(x, y)
	truncate(z, bits)
	if z.Lt(x) {
		return nil, &ir.Revert{Reason: ReasonAddOverflow}
	}
	return z, nil
}

// Sub returns x-y at the given width. It fails when the modular difference
// exceeds the minuend.
func Sub(x, y *uint256.Int, bits int) (*uint256.Int, error) {
	if err := operands(bits, x, y); err != nil {
		return nil, err
	}
	z, _ := new(uint256.Int).SubOverflow(x, y)
	truncate(z, bits)
	if z.Gt(x) {
		return nil, &ir.Revert{Reason: ReasonSubUnderflow}
	}
	return z, nil
}

// Mul returns x*y at the given width. A zero multiplier never fails;
// otherwise the modular product divided by y must give back x.
func Mul(x, y *uint256.Int, bits int) (*uint256.Int, error) {
	if err := operands(bits, x, y); err != nil {
		return nil, err
	}
	if y.IsZero() {
		return new(uint256.Int), nil
	}
	z, _ := new(uint256.Int).MulOverflow(x, y)
	truncate(z, bits)
	if !new(uint256.Int).Div(z, y).Eq(x) {
		return nil, &ir.Revert{Reason: ReasonMulOverflow}
	}
	return z, nil
}

// Div is truncating division; a zero divisor fails
func Div(x, y *uint256.Int, bits int) (*uint256.Int, error) {
	if err := operands(bits, x, y); err != nil {
		return nil, err
	}
	if y.IsZero() {
		return nil, &ir.Revert{Reason: ReasonDivByZero}
	}
	return new(uint256.Int).Div(x, y), nil
}

// Mod is the remainder of truncating division; a zero divisor fails
func Mod(x, y *uint256.Int, bits int) (*uint256.Int, error) {
	if err := operands(bits, x, y); err != nil {
		return nil, err
	}
	if y.IsZero() {
		return nil, &ir.Revert{Reason: ReasonDivByZero}
	}
	return new(uint256.Int).Mod(x, y), nil
}

// Pow is exponentiation by squaring with every step checked
func Pow(x, e *uint256.Int, bits int) (*uint256.Int, error) {
	if err := operands(bits, x, e); err != nil {
		return nil, err
	}
	result := uint256.NewInt(1)
	base := x.Clone()
	exp := e.Clone()
	for !exp.IsZero() {
		if exp.Uint64()&1 == 1 {
			r, err := Mul(result, base, bits)
			if err != nil {
				return nil, &ir.Revert{Reason: ReasonPowOverflow}
			}
			result = r
		}
		exp.Rsh(exp, 1)
		if exp.IsZero() {
			break
		}
		b, err := Mul(base, base, bits)
		if err != nil {
			return nil, &ir.Revert{Reason: ReasonPowOverflow}
		}
		base = b
	}
	return result, nil
}

// Sqrt is the integer Babylonian square root
func Sqrt(y *uint256.Int) *uint256.Int {
	three := uint256.NewInt(3)
	switch {
	case y.Gt(three):
		z := y.Clone()
		x := new(uint256.Int).Rsh(y, 1)
		x.AddUint64(x, 1)
		for x.Lt(z) {
			z.Set(x)
			q := new(uint256.Int).Div(y, x)
			x.Add(q, x)
			x.Rsh(x, 1)
		}
		return z
	case !y.IsZero():
		return uint256.NewInt(1)
	default:
		return new(uint256.Int)
	}
}

// Apply evaluates one checked arithmetic operator
func Apply(op ir.ArithOp, x, y *uint256.Int, bits int) (*uint256.Int, error) {
	switch op {
	case ir.OpAdd:
		return Add(x, y, bits)
	case ir.OpSub:
		return Sub(x, y, bits)
	case ir.OpMul:
		return Mul(x, y, bits)
	case ir.OpDiv:
		return Div(x, y, bits)
	case ir.OpMod:
		return Mod(x, y, bits)
	case ir.OpPow:
		return Pow(x, y, bits)
	default:
		return nil, fmt.Errorf("unknown arithmetic operator %q", op)
	}
}
