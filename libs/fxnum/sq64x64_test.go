package fxnum

import (
	"math"
	"math/big"
	"testing"

	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/stretchr/testify/require"
)

const (
	quarter = uint64(1) << 62 // 0.25
	half    = uint64(1) << 63 // 0.5
)

func toRaw(i int64, f uint64) *big.Int {
	r := new(big.Int).Lsh(big.NewInt(i), FracBits)
	return r.Add(r, new(big.Int).SetUint64(f))
}

func requireBigEqual(t *testing.T, want, got *big.Int) {
	require.Zero(t, want.Cmp(got), "want %v, got %v", want, got)
}

func TestRoundtrip_FromInt(t *testing.T) {
	for _, i := range []int64{0, 1, 77, -77, math.MaxInt64, math.MinInt64} {
		x := FromInt(i)
		requireBigEqual(t, toRaw(i, 0), x.Raw())
		require.Equal(t, i, x.IntPart())
		require.Equal(t, uint64(0), x.FracPart())
	}
}

func TestRoundtrip_FromParts(t *testing.T) {
	cases := []struct {
		i int64
		f uint64
	}{
		{0, 0}, {1, 0}, {1, quarter}, {-1, quarter}, {77, quarter}, {-77, quarter},
		{math.MaxInt64, quarter}, {math.MinInt64, quarter}, {-2, math.MaxUint64}, {-2, 1},
	}
	for _, c := range cases {
		x := FromParts(c.i, c.f)
		requireBigEqual(t, toRaw(c.i, c.f), x.Raw())
		require.Equal(t, c.i, x.IntPart())
		require.Equal(t, c.f, x.FracPart())

		y, xerr := FromRaw(x.Raw())
		require.NoError(t, xerr)
		require.True(t, x.Equal(y))
	}
}

func TestFloorSemantics(t *testing.T) {
	// -0.25 == -1 + 0.75
	x, xerr := FromRaw(big.NewInt(-int64(quarter)))
	require.NoError(t, xerr)
	require.Equal(t, int64(-1), x.IntPart())
	require.Equal(t, 3*quarter, x.FracPart())
	require.Equal(t, "-0.25", x.String())
}

func TestFromRaw_Range(t *testing.T) {
	maxRaw := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
	minRaw := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))

	x, xerr := FromRaw(maxRaw)
	require.NoError(t, xerr)
	require.True(t, x.Equal(MaxValue))
	x, xerr = FromRaw(minRaw)
	require.NoError(t, xerr)
	require.True(t, x.Equal(MinValue))

	_, xerr = FromRaw(new(big.Int).Add(maxRaw, big.NewInt(1)))
	require.True(t, xerr.Contains(xerrors.ErrOverflow))
	_, xerr = FromRaw(new(big.Int).Sub(minRaw, big.NewInt(1)))
	require.True(t, xerr.Contains(xerrors.ErrOverflow))
}

func TestAdd(t *testing.T) {
	cases := []struct {
		name   string
		a, b   SQ64x64
		expect SQ64x64
	}{
		{"positive numbers", FromParts(1, quarter), FromParts(3, 7), FromParts(4, quarter+7)},
		{"positive and negative with positive output", FromParts(1, quarter), FromParts(-2, 15*(quarter/4)), FromParts(0, 3*(quarter/4))},
		{"positive and negative with negative output", FromParts(1, quarter), FromParts(-2, 0), FromParts(-1, quarter)},
		{"negative numbers", FromParts(-2, half), FromParts(-3, 3*quarter), FromParts(-4, quarter)},
	}
	for _, c := range cases {
		ret, xerr := c.a.Add(c.b)
		require.NoError(t, xerr, c.name)
		require.True(t, c.expect.Equal(ret), "%s: got %v, want %v", c.name, ret, c.expect)
		requireBigEqual(t, new(big.Int).Add(c.a.Raw(), c.b.Raw()), ret.Raw())
	}
}

func TestAdd_Overflow(t *testing.T) {
	a := FromParts(math.MaxInt64, half)
	b := FromParts(0, 3*quarter)
	_, xerr := a.Add(b)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeOverflow, xerr.Code())
	require.ErrorContains(t, xerr, "SQ64x64 overflow")

	a = FromInt(math.MinInt64 + 2)
	b = FromInt(-7)
	_, xerr = a.Add(b)
	require.Error(t, xerr)
	require.Equal(t, xerrors.ErrCodeOverflow, xerr.Code())
	require.ErrorContains(t, xerr, "SQ64x64 underflow")

	// the boundaries themselves are representable
	ret, xerr := MaxValue.Add(Zero)
	require.NoError(t, xerr)
	require.True(t, ret.Equal(MaxValue))
	ret, xerr = MinValue.Add(FromParts(0, 0))
	require.NoError(t, xerr)
	require.True(t, ret.Equal(MinValue))
	_, xerr = MaxValue.Add(FromParts(0, 1))
	require.True(t, xerr.Contains(xerrors.ErrOverflow))
}

func TestSub(t *testing.T) {
	cases := []struct {
		name   string
		a, b   SQ64x64
		expect SQ64x64
	}{
		{"positive numbers with positive output", FromParts(2, quarter), FromParts(0, half), FromParts(1, 3*quarter)},
		{"positive numbers with negative output", FromParts(0, half), FromParts(2, quarter), FromParts(-2, quarter)},
		{"positive and negative", FromParts(1, quarter), FromParts(-2, 0), FromParts(3, quarter)},
		{"negative and positive", FromParts(-1, quarter), FromParts(2, 0), FromParts(-3, quarter)},
		{"negative numbers with positive output", FromParts(-5, 44), FromParts(-6, 3), FromParts(1, 41)},
		{"negative numbers with negative output", FromParts(-6, 3), FromParts(-5, 44), FromParts(-2, math.MaxUint64-40)},
	}
	for _, c := range cases {
		ret, xerr := c.a.Sub(c.b)
		require.NoError(t, xerr, c.name)
		require.True(t, c.expect.Equal(ret), "%s: got %#v, want %#v", c.name, ret, c.expect)
	}
}

func TestSub_Overflow(t *testing.T) {
	a := FromParts(math.MaxInt64, half)
	b := FromParts(-1, quarter)
	_, xerr := a.Sub(b)
	require.True(t, xerr.Contains(xerrors.ErrOverflow))

	a = FromInt(math.MinInt64 + 2)
	b = FromInt(4)
	_, xerr = a.Sub(b)
	require.True(t, xerr.Contains(xerrors.ErrOverflow))
	require.ErrorContains(t, xerr, "underflow")
}

func TestMulInt(t *testing.T) {
	ret, xerr := FromParts(1, half).MulInt(3)
	require.NoError(t, xerr)
	require.True(t, ret.Equal(FromParts(4, half)))

	ret, xerr = FromParts(1, half).MulInt(-3)
	require.NoError(t, xerr)
	require.True(t, ret.Equal(FromParts(-5, half)))

	ret, xerr = FromParts(-1, half).MulInt(-4)
	require.NoError(t, xerr)
	require.True(t, ret.Equal(FromInt(2)))

	ret, xerr = MinValue.MulInt(1)
	require.NoError(t, xerr)
	require.True(t, ret.Equal(MinValue))

	_, xerr = MinValue.MulInt(-1)
	require.True(t, xerr.Contains(xerrors.ErrOverflow))
	_, xerr = FromInt(math.MaxInt64).MulInt(2)
	require.True(t, xerr.Contains(xerrors.ErrOverflow))
	_, xerr = MaxValue.MulInt(math.MinInt64)
	require.True(t, xerr.Contains(xerrors.ErrOverflow))
}

func TestFromRatio(t *testing.T) {
	x, xerr := FromRatio(1, 4)
	require.NoError(t, xerr)
	require.True(t, x.Equal(FromParts(0, quarter)))

	x, xerr = FromRatio(-1, 4)
	require.NoError(t, xerr)
	require.True(t, x.Equal(FromParts(-1, 3*quarter)))

	// floor of -1/3
	x, xerr = FromRatio(-1, 3)
	require.NoError(t, xerr)
	y, _ := FromRatio(1, 3)
	sum, xerr := x.Add(y)
	require.NoError(t, xerr)
	require.True(t, sum.Equal(FromParts(-1, math.MaxUint64)), "got %#v", sum)

	x, xerr = FromRatio(126144000, 126144000)
	require.NoError(t, xerr)
	require.True(t, x.Equal(One))

	x, xerr = FromRatio(math.MinInt64, 1)
	require.NoError(t, xerr)
	require.True(t, x.Equal(MinValue))

	_, xerr = FromRatio(1, 0)
	require.True(t, xerr.Contains(xerrors.ErrDomain))
}

func TestCmp(t *testing.T) {
	vals := []SQ64x64{MinValue, FromInt(-3), FromParts(-1, 3*quarter), Zero, FromParts(0, 1), One, FromParts(1, half), MaxValue}
	for i := range vals {
		for j := range vals {
			want := 0
			if i < j {
				want = -1
			} else if i > j {
				want = 1
			}
			require.Equal(t, want, vals[i].Cmp(vals[j]), "%v <=> %v", vals[i], vals[j])
		}
	}
	require.Equal(t, -1, MinValue.Sign())
	require.Equal(t, 0, Zero.Sign())
	require.Equal(t, 1, FromParts(0, 1).Sign())
}
