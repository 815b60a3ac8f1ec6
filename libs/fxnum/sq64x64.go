// Package fxnum provides a deterministic signed 64.64 fixed-point number (SQ64x64)
// and the integer-only log2/exp2 routines built on it.
//
// A SQ64x64 holds a signed 128-bit two's complement integer `raw` and represents raw / 2^64.
// No operation wraps around silently: every result outside the 128-bit range is reported as ErrOverflow.
package fxnum

import (
	"fmt"
	"math"
	"math/big"

	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/holiman/uint256"
)

// FracBits is the number of fractional bits of SQ64x64.
const FracBits = 64

var (
	Zero = SQ64x64{}
	One  = FromInt(1)
	Two  = FromInt(2)

	// MaxValue is (2^127 - 1) / 2^64.
	MaxValue = FromParts(math.MaxInt64, math.MaxUint64)
	// MinValue is -2^127 / 2^64.
	MinValue = FromParts(math.MinInt64, 0)

	// Log2E is log2(e) = 1/ln(2), truncated to 64 fractional bits.
	Log2E = FromParts(1, 0x71547652b82fe177)

	minRawBig = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 127))
	maxRawBig = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 127), big.NewInt(1))
)

// SQ64x64 is an immutable value type. The 128-bit value is kept sign-extended in a 256-bit word,
// so that a single add/sub/mul of in-range operands never wraps and the range check can be done afterwards.
type SQ64x64 struct {
	v uint256.Int
}

func signExt(i int64) uint64 {
	if i < 0 {
		return math.MaxUint64
	}
	return 0
}

func FromInt(i int64) SQ64x64 {
	return FromParts(i, 0)
}

// FromParts returns intPart + fracPart/2^64.
// `intPart` is the floor of the result, so FromParts(-2, 2^62) is -1.75.
func FromParts(intPart int64, fracPart uint64) SQ64x64 {
	ext := signExt(intPart)
	return SQ64x64{v: uint256.Int{fracPart, uint64(intPart), ext, ext}}
}

// FromRaw returns the SQ64x64 whose raw representation is `raw`.
func FromRaw(raw *big.Int) (SQ64x64, xerrors.XError) {
	if raw.Cmp(minRawBig) < 0 {
		return Zero, xerrors.ErrFixedPointUnderflow.Wrapf("raw value %v", raw)
	} else if raw.Cmp(maxRawBig) > 0 {
		return Zero, xerrors.ErrFixedPointOverflow.Wrapf("raw value %v", raw)
	}

	abs, _ := uint256.FromBig(new(big.Int).Abs(raw))
	ret := SQ64x64{v: *abs}
	if raw.Sign() < 0 {
		ret.v.Neg(&ret.v)
	}
	return ret, nil
}

// FromRatio returns floor(num * 2^64 / den) as a SQ64x64. `den` must be positive.
func FromRatio(num, den int64) (SQ64x64, xerrors.XError) {
	if den <= 0 {
		return Zero, xerrors.ErrDomain.Wrapf("non-positive denominator %v", den)
	}

	var mag, d, q, r uint256.Int
	if num < 0 {
		mag.SetUint64(uint64(-num)) // wraps correctly for math.MinInt64
	} else {
		mag.SetUint64(uint64(num))
	}
	mag.Lsh(&mag, FracBits)
	d.SetUint64(uint64(den))
	q.DivMod(&mag, &d, &r)

	if num < 0 {
		// floor, not truncation
		if !r.IsZero() {
			q.AddUint64(&q, 1)
		}
		q.Neg(&q)
	}
	return SQ64x64{v: q}, nil
}

// IntPart returns floor(x).
func (x SQ64x64) IntPart() int64 {
	return int64(x.v[1])
}

// FracPart returns (x - floor(x)) * 2^64, which is always in [0, 2^64).
func (x SQ64x64) FracPart() uint64 {
	return x.v[0]
}

// Sign returns -1, 0 or +1.
func (x SQ64x64) Sign() int {
	return x.v.Sign()
}

func (x SQ64x64) Cmp(o SQ64x64) int {
	if x.v.Eq(&o.v) {
		return 0
	} else if x.v.Slt(&o.v) {
		return -1
	}
	return 1
}

func (x SQ64x64) Equal(o SQ64x64) bool {
	return x.v.Eq(&o.v)
}

func (x SQ64x64) Add(o SQ64x64) (SQ64x64, xerrors.XError) {
	var z SQ64x64
	z.v.Add(&x.v, &o.v)
	return z.checked("%v + %v", x, o)
}

func (x SQ64x64) Sub(o SQ64x64) (SQ64x64, xerrors.XError) {
	var z SQ64x64
	z.v.Sub(&x.v, &o.v)
	return z.checked("%v - %v", x, o)
}

// MulInt returns x * n exactly, or ErrOverflow when the product is out of range.
func (x SQ64x64) MulInt(n int64) (SQ64x64, xerrors.XError) {
	var a, b uint256.Int
	a.Abs(&x.v)
	if n < 0 {
		b.SetUint64(uint64(-n))
	} else {
		b.SetUint64(uint64(n))
	}

	// |x| < 2^128 and |n| <= 2^63, so the product fits in 256 bits.
	var z SQ64x64
	z.v.Mul(&a, &b)
	if (x.Sign() < 0) != (n < 0) {
		z.v.Neg(&z.v)
	}
	return z.checked("%v * %v", x, n)
}

// checked verifies that z is a sign-extended 128-bit value.
func (z SQ64x64) checked(format string, args ...any) (SQ64x64, xerrors.XError) {
	var top uint256.Int
	top.SRsh(&z.v, 127)
	if top.IsZero() || (top[0] == math.MaxUint64 && top[1] == math.MaxUint64 &&
		top[2] == math.MaxUint64 && top[3] == math.MaxUint64) {
		return z, nil
	}
	if z.v.Sign() < 0 {
		return Zero, xerrors.ErrFixedPointUnderflow.Wrapf(format, args...)
	}
	return Zero, xerrors.ErrFixedPointOverflow.Wrapf(format, args...)
}

// Raw returns the two's complement integer x * 2^64.
func (x SQ64x64) Raw() *big.Int {
	if x.Sign() < 0 {
		var abs uint256.Int
		abs.Abs(&x.v)
		return new(big.Int).Neg(abs.ToBig())
	}
	return x.v.ToBig()
}

func (x SQ64x64) String() string {
	return x.ToDecimal().String()
}

func (x SQ64x64) GoString() string {
	return fmt.Sprintf("fxnum.FromParts(%d, 0x%x)", x.IntPart(), x.FracPart())
}
