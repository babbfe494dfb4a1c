package mathlib

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"sol2ink/internal/ir"
)

func n(v uint64) *uint256.Int { return uint256.NewInt(v) }

func requireRevert(t *testing.T, err error, reason string) {
	t.Helper()
	require.Error(t, err)
	var rv *ir.Revert
	require.ErrorAs(t, err, &rv)
	assert.Equal(t, reason, rv.Reason)
}

func TestAdd(t *testing.T) {
	z, err := Add(n(5), n(7), 128)
	require.NoError(t, err)
	assert.Equal(t, "12", z.Dec())

	_, err = Add(Max(128), n(1), 128)
	requireRevert(t, err, ReasonAddOverflow)

	_, err = Add(Max(256), n(1), 256)
	requireRevert(t, err, ReasonAddOverflow)

	z, err = Add(Max(128), n(0), 128)
	require.NoError(t, err)
	assert.True(t, z.Eq(Max(128)))

	_, err = Add(n(255), n(1), 8)
	requireRevert(t, err, ReasonAddOverflow)
}

func TestSub(t *testing.T) {
	z, err := Sub(n(5), n(3), 128)
	require.NoError(t, err)
	assert.Equal(t, "2", z.Dec())

	_, err = Sub(n(3), n(5), 128)
	requireRevert(t, err, ReasonSubUnderflow)

	z, err = Sub(n(3), n(3), 64)
	require.NoError(t, err)
	assert.True(t, z.IsZero())
}

func TestMul(t *testing.T) {
	z, err := Mul(n(2), n(3), 128)
	require.NoError(t, err)
	assert.Equal(t, "6", z.Dec())

	z, err = Mul(Max(128), n(0), 128)
	require.NoError(t, err)
	assert.True(t, z.IsZero())

	_, err = Mul(Max(128), n(2), 128)
	requireRevert(t, err, ReasonMulOverflow)

	_, err = Mul(n(1<<32), n(1<<32), 64)
	requireRevert(t, err, ReasonMulOverflow)
}

func TestOperandOutOfRange(t *testing.T) {
	_, err := Add(n(256), n(0), 8)
	requireRevert(t, err, ReasonOutOfRange)
}

func TestDivModPow(t *testing.T) {
	z, err := Div(n(7), n(2), 128)
	require.NoError(t, err)
	assert.Equal(t, "3", z.Dec())

	_, err = Div(n(7), n(0), 128)
	requireRevert(t, err, ReasonDivByZero)

	z, err = Mod(n(7), n(2), 128)
	require.NoError(t, err)
	assert.Equal(t, "1", z.Dec())

	z, err = Pow(n(10), n(18), 128)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", z.Dec())

	z, err = Pow(n(2), n(0), 8)
	require.NoError(t, err)
	assert.Equal(t, "1", z.Dec())

	_, err = Pow(n(2), n(128), 128)
	requireRevert(t, err, ReasonPowOverflow)
}

func TestSqrt(t *testing.T) {
	cases := map[uint64]uint64{0: 0, 1: 1, 2: 1, 3: 1, 4: 2, 8: 2, 9: 3, 15: 3, 16: 4, 1000000: 1000}
	for in, want := range cases {
		assert.Equal(t, want, Sqrt(n(in)).Uint64(), "sqrt(%d)", in)
	}

	// floor(sqrt(2^256-1)) = 2^128-1
	assert.True(t, Sqrt(Max(256)).Eq(Max(128)))
}

func TestUQ112x112(t *testing.T) {
	enc, err := Encode(n(3))
	require.NoError(t, err)
	assert.True(t, enc.Eq(new(uint256.Int).Lsh(n(3), 112)))

	q, err := UQDiv(enc, n(2))
	require.NoError(t, err)
	// 1.5 in UQ112x112
	assert.True(t, q.Eq(new(uint256.Int).Lsh(n(3), 111)))

	_, err = UQDiv(enc, n(0))
	requireRevert(t, err, ReasonDivByZero)

	_, err = Encode(new(uint256.Int).Lsh(n(1), 112))
	requireRevert(t, err, ReasonOutOfRange)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"1_000", "1000"},
		{"0xff", "255"},
		{"2e3", "2000"},
		{"1e18", "1000000000000000000"},
	}
	for _, tt := range tests {
		v, err := Parse(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, v.Dec(), tt.in)
	}

	_, err := Parse("0x10000000000000000000000000000000000000000000000000000000000000000")
	assert.Error(t, err)
	_, err = Parse("abc")
	assert.Error(t, err)
}

func TestApply(t *testing.T) {
	z, err := Apply(ir.OpAdd, n(1), n(2), 32)
	require.NoError(t, err)
	assert.Equal(t, "3", z.Dec())

	_, err = Apply(ir.OpSub, n(1), n(2), 32)
	requireRevert(t, err, ReasonSubUnderflow)
}

func TestLookupHelper(t *testing.T) {
	h, ok := LookupHelper("SafeMath", "add")
	require.True(t, ok)
	assert.Equal(t, "checked_add", h.Name)
	assert.Equal(t, 2, h.Arity)

	h, ok = LookupHelper("UQ112x112", "encode")
	require.True(t, ok)
	assert.Equal(t, Q112Storage, h.Result)

	_, ok = LookupHelper("SafeMath", "pow")
	assert.False(t, ok)
	assert.True(t, IsHelperLibrary("Math"))
	assert.Equal(t, []string{"Math", "SafeMath", "UQ112x112"}, HelperLibraries())
}
