package supply

import (
	"github.com/beatoz/beatoz-vesting/libs/fxnum"
	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/holiman/uint256"
)

const (
	// EmissionScale is the unit of CumulativeFraction: parts per million.
	EmissionScale int64 = 1_000_000
	// EmissionHalfLifeSeconds is 4 Julian years.
	EmissionHalfLifeSeconds int64 = 126_144_000
)

var half = fxnum.FromParts(0, 1<<63)

// CumulativeFraction returns round(10^6 * (1 - 2^(-elapsed/H))),
// the part of the supply emitted `elapsed` seconds after the start, in ppm.
// It is 0 for elapsed <= 0, non-decreasing and never greater than EmissionScale.
func CumulativeFraction(elapsed int64) int64 {
	if elapsed <= 0 {
		return 0
	}

	// e = elapsed/H >= 0. Neither step below can fail for such inputs.
	e, xerr := fxnum.FromRatio(elapsed, EmissionHalfLifeSeconds)
	if xerr != nil {
		panic(xerr)
	}
	remain, xerr := fxnum.Exp2Neg(e)
	if xerr != nil {
		panic(xerr)
	}

	emitted, _ := fxnum.One.Sub(remain)
	scaled, xerr := emitted.MulInt(EmissionScale)
	if xerr != nil {
		panic(xerr)
	}
	rounded, _ := scaled.Add(half)

	ppm := rounded.IntPart()
	if ppm < 0 {
		return 0
	} else if ppm > EmissionScale {
		return EmissionScale
	}
	return ppm
}

// EmittedAmount returns maxSupply * CumulativeFraction(elapsed) / 10^6, truncated.
func EmittedAmount(maxSupply *uint256.Int, elapsed int64) (*uint256.Int, xerrors.XError) {
	ppm := uint256.NewInt(uint64(CumulativeFraction(elapsed)))
	ret, overflow := new(uint256.Int).MulOverflow(maxSupply, ppm)
	if overflow {
		return nil, xerrors.ErrOverflow.Wrapf("emitted amount of %v", maxSupply)
	}
	return ret.Div(ret, uint256.NewInt(uint64(EmissionScale))), nil
}

type EmissionPoint struct {
	Elapsed int64        `json:"elapsed"`
	Ppm     int64        `json:"ppm"`
	Amount  *uint256.Int `json:"amount"`
}

// Forecast returns the emission at from, from+step, ..., from+(count-1)*step.
func Forecast(maxSupply *uint256.Int, from, step int64, count int) ([]*EmissionPoint, xerrors.XError) {
	if step <= 0 || count < 0 {
		return nil, xerrors.ErrDomain.Wrapf("step %d, count %d", step, count)
	}

	points := make([]*EmissionPoint, 0, count)
	for i := 0; i < count; i++ {
		elapsed := from + int64(i)*step
		amt, xerr := EmittedAmount(maxSupply, elapsed)
		if xerr != nil {
			return nil, xerr
		}
		points = append(points, &EmissionPoint{
			Elapsed: elapsed,
			Ppm:     CumulativeFraction(elapsed),
			Amount:  amt,
		})
	}
	return points, nil
}
