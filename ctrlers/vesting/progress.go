package vesting

import (
	"math"

	ctrlertypes "github.com/beatoz/beatoz-vesting/ctrlers/types"
	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/holiman/uint256"
)

type Progress = ctrlertypes.Progress

// ComputeProgress returns how many batches are fully vested at `now`, and the vested fraction of the next one.
// `cache` may be nil.
func ComputeProgress(curve Curve, startTime int64, cache *BatchCache, now int64) (*Progress, xerrors.XError) {
	batches := curve.Batches()

	if now < startTime {
		return ctrlertypes.NewProgress(0, nil), nil
	}
	if cache != nil && cache.FullBatches >= batches {
		// terminal
		return ctrlertypes.NewProgress(batches, nil), nil
	}

	elapsed := elapsedSeconds(startTime, now)

	cursor := uint64(0)
	if cache.IsFresh(startTime, now) {
		cursor = cache.FullBatches
	}

	n, tn, xerr := searchFullBatches(curve, cursor, elapsed)
	if xerr != nil {
		return nil, xerr
	}
	if n == batches || elapsed <= tn {
		return ctrlertypes.NewProgress(n, nil), nil
	}

	tnext, xerr := curve.Threshold(n + 1)
	if xerr != nil {
		return nil, xerr
	}
	// tn < elapsed < tnext
	frac := new(uint256.Int).Mul(ctrlertypes.ProgressScale, uint256.NewInt(uint64(elapsed-tn)))
	frac.Div(frac, uint256.NewInt(uint64(tnext-tn)))
	return ctrlertypes.NewProgress(n, frac), nil
}

func elapsedSeconds(startTime, now int64) int64 {
	if startTime < 0 && now > math.MaxInt64+startTime {
		return math.MaxInt64
	}
	return now - startTime
}

// searchFullBatches returns the largest n >= cursor with Threshold(n) <= elapsed, and Threshold(n).
// When even Threshold(cursor) > elapsed, cursor is returned.
// It gallops forward from the cursor and then bisects,
// so the number of curve evaluations grows with the log of the distance from the cursor.
func searchFullBatches(curve Curve, cursor uint64, elapsed int64) (uint64, int64, xerrors.XError) {
	batches := curve.Batches()

	lo := cursor
	tlo, xerr := curve.Threshold(lo)
	if xerr != nil {
		return 0, 0, xerr
	}
	if tlo > elapsed || lo == batches {
		return lo, tlo, nil
	}

	// find `hi` with Threshold(hi) > elapsed. `batches+1` stands for a threshold at infinity.
	hi := batches + 1
	for step := uint64(1); ; step <<= 1 {
		if step > batches-lo {
			break
		}
		th, xerr := curve.Threshold(lo + step)
		if xerr != nil {
			return 0, 0, xerr
		}
		if th > elapsed {
			hi = lo + step
			break
		}
		lo, tlo = lo+step, th
		if lo == batches {
			return lo, tlo, nil
		}
	}

	// Threshold(lo) <= elapsed < Threshold(hi)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		tm, xerr := curve.Threshold(mid)
		if xerr != nil {
			return 0, 0, xerr
		}
		if tm <= elapsed {
			lo, tlo = mid, tm
		} else {
			hi = mid
		}
	}
	return lo, tlo, nil
}
