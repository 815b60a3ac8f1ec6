package types

import (
	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/holiman/uint256"
)

type ILedgerHandler interface {
	Commit() ([]byte, int64, xerrors.XError)
	Close() xerrors.XError
}

// IVestingHandler is what claim and distribution logic needs from the vesting controller.
type IVestingHandler interface {
	CurrentProgress(*BlockContext) (*Progress, xerrors.XError)
	VestedAmount(*BlockContext, *uint256.Int) (*uint256.Int, xerrors.XError)
	ThresholdSeconds(uint64) (int64, xerrors.XError)
}

// Progress is the number of fully vested batches plus the vested part of the next batch,
// in units of 1/ProgressScale.
type Progress struct {
	FullBatches uint64       `json:"full_batches"`
	Fraction    *uint256.Int `json:"fraction"`
}

// ProgressScale is 10^18.
var ProgressScale = uint256.NewInt(1_000_000_000_000_000_000)

func NewProgress(full uint64, fraction *uint256.Int) *Progress {
	if fraction == nil {
		fraction = uint256.NewInt(0)
	}
	return &Progress{
		FullBatches: full,
		Fraction:    fraction,
	}
}

func (p *Progress) Equal(o *Progress) bool {
	return p.FullBatches == o.FullBatches && p.Fraction.Eq(o.Fraction)
}

// Scaled returns FullBatches*ProgressScale + Fraction.
func (p *Progress) Scaled() *uint256.Int {
	ret := new(uint256.Int).Mul(uint256.NewInt(p.FullBatches), ProgressScale)
	return ret.Add(ret, p.Fraction)
}
