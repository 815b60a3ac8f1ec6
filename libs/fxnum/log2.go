package fxnum

import (
	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/holiman/uint256"
)

// mantissa upper bound: 2.0 in raw units
var twoRaw = uint256.Int{0, 2, 0, 0}

// Log2 returns log2(x) with all 64 fractional bits.
func Log2(x SQ64x64) (SQ64x64, xerrors.XError) {
	return Log2Approx(x, FracBits)
}

// Log2Approx computes log2(x) bit by bit, emitting only the first `precision` fractional bits.
// The remaining fractional bits are zero, so Log2Approx(x, 0) is the integer part of log2(x)
// and the cost is proportional to `precision`.
//
// The integer part comes from the position of the most significant bit of x and is exact.
// The fractional part is built by repeatedly squaring the mantissa m in [1, 2):
// if m^2 >= 2, the next bit is 1 and m^2 is halved.
func Log2Approx(x SQ64x64, precision uint) (SQ64x64, xerrors.XError) {
	if x.Sign() <= 0 {
		return Zero, xerrors.ErrLog2Domain.Wrapf("log2(%v)", x)
	}
	if precision > FracBits {
		return Zero, xerrors.ErrPrecisionDomain.Wrapf("precision %d is greater than %d", precision, FracBits)
	}

	msb := x.v.BitLen() - 1
	intPart := int64(msb) - FracBits

	// normalize so that m/2^64 is in [1, 2)
	var m uint256.Int
	if msb >= FracBits {
		m.Rsh(&x.v, uint(msb-FracBits))
	} else {
		m.Lsh(&x.v, uint(FracBits-msb))
	}

	var frac uint64
	for i := uint(0); i < precision; i++ {
		// m < 2^65, so m*m < 2^130.
		m.Mul(&m, &m)
		m.Rsh(&m, FracBits)
		if !m.Lt(&twoRaw) {
			m.Rsh(&m, 1)
			frac |= 1 << (FracBits - 1 - i)
		}
	}

	return FromParts(intPart, frac), nil
}
