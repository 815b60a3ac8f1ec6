package fxnum

import (
	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/holiman/uint256"
)

// exp2NegRoots[i] = floor(2^64 * 2^(-2^-(i+1))), i.e. 1/sqrt(2), 1/sqrt(sqrt(2)), ...
// The table is derived with integer square roots only, so it is identical on every platform.
var exp2NegRoots = func() [FracBits]uint256.Int {
	var roots [FracBits]uint256.Int
	roots[0].Sqrt(new(uint256.Int).Lsh(uint256.NewInt(1), 2*FracBits-1))
	for i := 1; i < FracBits; i++ {
		var sq uint256.Int
		sq.Lsh(&roots[i-1], FracBits)
		roots[i].Sqrt(&sq)
	}
	return roots
}()

// Exp2Neg returns 2^(-x) for x >= 0.
// 2^(-x) = 2^(-intPart) * prod{ 2^(-2^-i) : fractional bit i of x is set }.
// Every partial product is truncated, so the result never exceeds the exact value by more than rounding noise
// and is always in [0, 1].
func Exp2Neg(x SQ64x64) (SQ64x64, xerrors.XError) {
	if x.Sign() < 0 {
		return Zero, xerrors.ErrExp2Domain.Wrapf("exp2(-(%v))", x)
	}

	acc := uint256.Int{0, 1, 0, 0} // 1.0
	frac := x.FracPart()
	for i := 0; i < FracBits; i++ {
		if frac&(1<<(FracBits-1-i)) != 0 {
			acc.Mul(&acc, &exp2NegRoots[i])
			acc.Rsh(&acc, FracBits)
		}
	}

	k := x.IntPart()
	if k > FracBits {
		return Zero, nil
	}
	acc.Rsh(&acc, uint(k))
	return SQ64x64{v: acc}, nil
}
