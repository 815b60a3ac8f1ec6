package fxnum

import (
	"math/big"

	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/robaho/fixed"
	"github.com/shopspring/decimal"
)

// fixedScaleDigits is the number of decimal places of robaho/fixed.
const fixedScaleDigits = 7

// maxFixedInt is the largest integer part robaho/fixed can hold.
const maxFixedInt = 99_999_999_999

// raw/2^64 == raw*5^64/10^64, so the decimal expansion of every SQ64x64 is finite.
var pow5Frac = new(big.Int).Exp(big.NewInt(5), big.NewInt(FracBits), nil)

// ToDecimal converts x to a shopspring/decimal.Decimal without any loss.
func (x SQ64x64) ToDecimal() decimal.Decimal {
	return decimal.NewFromBigInt(new(big.Int).Mul(x.Raw(), pow5Frac), -FracBits)
}

// ToFixed converts x to a robaho/fixed.Fixed, truncating toward zero to 7 decimal places.
func (x SQ64x64) ToFixed() (fixed.Fixed, xerrors.XError) {
	d := x.ToDecimal()
	if d.Abs().GreaterThan(decimal.NewFromInt(maxFixedInt)) {
		return fixed.NaN, xerrors.ErrOverflow.Wrapf("%v is out of range of fixed.Fixed", d)
	}
	scaled := d.Shift(fixedScaleDigits).Truncate(0)
	return fixed.NewI(scaled.IntPart(), fixedScaleDigits), nil
}

// FromDecimal converts d to the nearest SQ64x64 not greater than d.
func FromDecimal(d decimal.Decimal) (SQ64x64, xerrors.XError) {
	raw := d.Mul(decimal.NewFromBigInt(new(big.Int).Lsh(big.NewInt(1), FracBits), 0)).Floor()
	return FromRaw(raw.BigInt())
}
