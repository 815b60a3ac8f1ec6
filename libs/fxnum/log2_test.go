package fxnum

import (
	"math"
	"math/big"
	"testing"

	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func floatToSq(t *testing.T, z float64) SQ64x64 {
	x, xerr := FromDecimal(decimal.NewFromFloat(z))
	require.NoError(t, xerr)
	return x
}

func fromSqApprox(x SQ64x64) float64 {
	f, _ := x.ToDecimal().Float64()
	return f
}

func rawSq(t *testing.T, raw int64) SQ64x64 {
	x, xerr := FromRaw(big.NewInt(raw))
	require.NoError(t, xerr)
	return x
}

func TestLog2_DomainError(t *testing.T) {
	for _, x := range []SQ64x64{
		Zero,
		FromParts(-1, math.MaxUint64),
		FromParts(-1, 0),
		FromParts(-8, half),
		MinValue,
	} {
		_, xerr := Log2(x)
		require.Error(t, xerr)
		require.True(t, xerr.Contains(xerrors.ErrDomain))
		require.ErrorContains(t, xerr, "log2 domain error")

		_, xerr = Log2Approx(x, 7)
		require.True(t, xerr.Contains(xerrors.ErrDomain))
	}

	_, xerr := Log2Approx(One, FracBits+1)
	require.True(t, xerr.Contains(xerrors.ErrDomain))
}

func TestLog2_PowersOfTwo(t *testing.T) {
	ret, xerr := Log2(One)
	require.NoError(t, xerr)
	require.True(t, ret.Equal(Zero))

	// log2 of successive powers of two increases by exactly 1
	for e := -64; e < 63; e++ {
		var x SQ64x64
		if e >= 0 {
			x = FromInt(int64(1) << e)
		} else {
			x = FromParts(0, uint64(1)<<(64+e))
		}
		ret, xerr := Log2(x)
		require.NoError(t, xerr)
		require.True(t, ret.Equal(FromInt(int64(e))), "log2(2^%d) = %v", e, ret)
	}
}

func TestLog2_Computes(t *testing.T) {
	check := func(z float64, want float64) {
		ret, xerr := Log2(floatToSq(t, z))
		require.NoError(t, xerr)
		require.InDelta(t, want, fromSqApprox(ret), 1e-15, "log2(%v)", z)
	}
	check(1, 0)
	check(2, 1)
	check(4, 2)
	check(0.5, -1)
	check(0.25, -2)
	check(3, math.Log2(3))
	check(math.Pi, math.Log2(math.Pi))
	check(0.1, math.Log2(0.1))
	check(1000, math.Log2(1000))
	check(123456789.5, math.Log2(123456789.5))
}

func TestLog2_SubScaleInputs(t *testing.T) {
	// raw values, not `floatToSq`
	cases := []struct {
		raw  int64
		want float64
	}{
		{1, -64},
		{2, -63},
		{3, -64 + math.Log2(3)},
		{4, -62},
		{5, -64 + math.Log2(5)},
	}
	for _, c := range cases {
		ret, xerr := Log2(rawSq(t, c.raw))
		require.NoError(t, xerr)
		require.InDelta(t, c.want, fromSqApprox(ret), 1e-13, "log2(raw %d)", c.raw)
	}

	ret, xerr := Log2(rawSq(t, 1))
	require.NoError(t, xerr)
	require.True(t, ret.Equal(FromInt(-64)))
	require.Equal(t, int64(-64), ret.IntPart())
	require.Equal(t, uint64(0), ret.FracPart())

	ret, xerr = Log2(MaxValue)
	require.NoError(t, xerr)
	require.Equal(t, int64(62), ret.IntPart())
}

func TestLog2_AgainstDecimal(t *testing.T) {
	ln2, err := decimal.NewFromInt(2).Ln(40)
	require.NoError(t, err)

	for _, s := range []string{"1.5", "7", "999", "1000", "32", "33", "0.001", "1234567.890123"} {
		d := decimal.RequireFromString(s)
		x, xerr := FromDecimal(d)
		require.NoError(t, xerr)

		ln, err := d.Ln(40)
		require.NoError(t, err)
		want := ln.Div(ln2)

		got, xerr := Log2(x)
		require.NoError(t, xerr)

		// a handful of units in the last place
		diff := got.ToDecimal().Sub(want).Abs()
		require.True(t, diff.LessThan(decimal.New(1, -17)), "log2(%s): got %v, want %v", s, got, want)
	}
}

func TestLog2Approx_Precision(t *testing.T) {
	x := FromInt(3)
	full, xerr := Log2(x)
	require.NoError(t, xerr)

	for p := uint(0); p <= FracBits; p++ {
		ret, xerr := Log2Approx(x, p)
		require.NoError(t, xerr)
		require.Equal(t, full.IntPart(), ret.IntPart())

		var mask uint64
		if p > 0 {
			mask = ^uint64(0) << (FracBits - p)
		}
		require.Equal(t, full.FracPart()&mask, ret.FracPart(), "precision %d", p)
	}

	ret, xerr := Log2Approx(FromParts(5, half), 0)
	require.NoError(t, xerr)
	require.True(t, ret.Equal(FromInt(2)))

	ret, xerr = Log2Approx(FromParts(0, 3*quarter), 0)
	require.NoError(t, xerr)
	require.True(t, ret.Equal(FromInt(-1)))
}

func TestLog2_Monotonic(t *testing.T) {
	prev, xerr := Log2(FromInt(1))
	require.NoError(t, xerr)
	for i := int64(2); i <= 2000; i++ {
		cur, xerr := Log2(FromInt(i))
		require.NoError(t, xerr)
		require.Equal(t, 1, cur.Cmp(prev), "log2(%d) <= log2(%d)", i, i-1)
		prev = cur
	}
}
