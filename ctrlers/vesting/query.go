package vesting

import (
	v1 "github.com/beatoz/beatoz-vesting/ledger/v1"
	"github.com/beatoz/beatoz-vesting/types/xerrors"
)

// ProgressAt computes the progress at `now` from the state committed at `height`.
func (ctrler *VestingCtrler) ProgressAt(height, now int64) (*Progress, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	view, xerr := ctrler.vestingState.ImitableLedgerAt(height)
	if xerr != nil {
		return nil, xerrors.ErrQuery.Wrap(xerr)
	}
	get := func(key v1.LedgerKey, _ bool) (v1.ILedgerItem, xerrors.XError) {
		return view.Get(key)
	}

	p, _, _, xerr := ctrler.progress(get, false, now)
	return p, xerr
}

// LastHeight returns the last committed version of the vesting ledger.
func (ctrler *VestingCtrler) LastHeight() int64 {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.vestingState.Version()
}
