package vesting

import (
	"github.com/beatoz/beatoz-vesting/libs/fxnum"
	"github.com/beatoz/beatoz-vesting/types/xerrors"
)

const (
	// BatchCount is the number of batches of the default curve.
	BatchCount uint64 = 1000
	// KneeBatch is the last batch on the logarithmic part of the default curve.
	KneeBatch uint64 = 968
	// HalfLifeSeconds is 4 Julian years.
	HalfLifeSeconds int64 = 126_144_000
)

// Curve maps a batch count to the number of seconds after the schedule start
// at which that many batches are fully vested.
// Threshold(0) is 0 and Threshold is non-decreasing on [0, Batches()].
type Curve interface {
	Batches() uint64
	Threshold(n uint64) (int64, xerrors.XError)
}

// ThresholdCurve is the default curve.
// Up to the knee, batch n vests when the exponential decay with half-life H has released n/N of the supply:
//
//	T(n) = H * (log2(N) - log2(N-n))
//
// After the knee, it continues linearly with the slope the exponential would have at the end,
// so the last batch vests in finite time.
type ThresholdCurve struct {
	batches    uint64
	knee       uint64
	halfLife   int64
	log2N      fxnum.SQ64x64
	base       int64
	derivative int64
}

var _ Curve = (*ThresholdCurve)(nil)

func NewThresholdCurve() (*ThresholdCurve, xerrors.XError) {
	return newThresholdCurve(BatchCount, KneeBatch, HalfLifeSeconds)
}

func newThresholdCurve(batches, knee uint64, halfLife int64) (*ThresholdCurve, xerrors.XError) {
	if batches == 0 || knee >= batches || halfLife <= 0 {
		return nil, xerrors.ErrConfiguration.Wrapf("invalid curve: batches %d, knee %d, half-life %d", batches, knee, halfLife)
	}

	log2N, xerr := fxnum.Log2(fxnum.FromInt(int64(batches)))
	if xerr != nil {
		return nil, xerr
	}

	// derivative = round(H * log2(e) / (N - knee))
	tail := int64(batches - knee)
	hlog2e, xerr := fxnum.Log2E.MulInt(halfLife)
	if xerr != nil {
		return nil, xerr
	}
	halfTail, xerr := fxnum.FromRatio(tail, 2)
	if xerr != nil {
		return nil, xerr
	}
	hlog2e, xerr = hlog2e.Add(halfTail)
	if xerr != nil {
		return nil, xerr
	}

	curve := &ThresholdCurve{
		batches:    batches,
		knee:       knee,
		halfLife:   halfLife,
		log2N:      log2N,
		derivative: hlog2e.IntPart() / tail,
	}
	if curve.base, xerr = curve.logThreshold(knee); xerr != nil {
		return nil, xerr
	}
	return curve, nil
}

func (curve *ThresholdCurve) Batches() uint64 {
	return curve.batches
}

func (curve *ThresholdCurve) Knee() uint64 {
	return curve.knee
}

func (curve *ThresholdCurve) Derivative() int64 {
	return curve.derivative
}

func (curve *ThresholdCurve) Threshold(n uint64) (int64, xerrors.XError) {
	if n > curve.batches {
		return 0, xerrors.ErrBatchDomain.Wrapf("batch %d is greater than %d", n, curve.batches)
	}
	if n <= curve.knee {
		return curve.logThreshold(n)
	}
	return curve.base + int64(n-curve.knee)*curve.derivative, nil
}

func (curve *ThresholdCurve) logThreshold(n uint64) (int64, xerrors.XError) {
	if n == 0 {
		return 0, nil
	}
	l, xerr := fxnum.Log2(fxnum.FromInt(int64(curve.batches - n)))
	if xerr != nil {
		return 0, xerr
	}
	d, xerr := curve.log2N.Sub(l)
	if xerr != nil {
		return 0, xerr
	}
	t, xerr := d.MulInt(curve.halfLife)
	if xerr != nil {
		return 0, xerr
	}
	return t.IntPart(), nil
}

// ExplicitCurve is a caller-supplied list of thresholds for batches 1..len.
type ExplicitCurve struct {
	thresholds []int64
}

var _ Curve = (*ExplicitCurve)(nil)

// NewExplicitCurve fails when the list is empty, contains a negative value or decreases.
// Equal neighbours are allowed. Those batches vest at the same time.
func NewExplicitCurve(thresholds []int64) (*ExplicitCurve, xerrors.XError) {
	if len(thresholds) == 0 {
		return nil, xerrors.ErrInvalidThresholds.Wrapf("empty")
	}
	prev := int64(0)
	for i, t := range thresholds {
		if t < prev {
			return nil, xerrors.ErrInvalidThresholds.Wrapf("threshold of batch %d (%d) is less than %d", i+1, t, prev)
		}
		prev = t
	}
	return &ExplicitCurve{
		thresholds: append([]int64(nil), thresholds...),
	}, nil
}

func (curve *ExplicitCurve) Batches() uint64 {
	return uint64(len(curve.thresholds))
}

func (curve *ExplicitCurve) Threshold(n uint64) (int64, xerrors.XError) {
	if n > curve.Batches() {
		return 0, xerrors.ErrBatchDomain.Wrapf("batch %d is greater than %d", n, curve.Batches())
	}
	if n == 0 {
		return 0, nil
	}
	return curve.thresholds[n-1], nil
}

// Table returns Threshold(0) ... Threshold(curve.Batches()).
func Table(curve Curve) ([]int64, xerrors.XError) {
	ret := make([]int64, curve.Batches()+1)
	for n := range ret {
		t, xerr := curve.Threshold(uint64(n))
		if xerr != nil {
			return nil, xerr
		}
		ret[n] = t
	}
	return ret, nil
}
