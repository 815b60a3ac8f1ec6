package vesting

import (
	"bytes"
	"fmt"
	"sync"

	cfg "github.com/beatoz/beatoz-vesting/cmd/config"
	ctrlertypes "github.com/beatoz/beatoz-vesting/ctrlers/types"
	v1 "github.com/beatoz/beatoz-vesting/ledger/v1"
	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/holiman/uint256"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

type VestingCtrler struct {
	vestingState v1.IStateLedger[v1.ILedgerItem]
	defaultCurve *ThresholdCurve

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ ctrlertypes.ILedgerHandler = (*VestingCtrler)(nil)
var _ ctrlertypes.IVestingHandler = (*VestingCtrler)(nil)

func defaultNewItem(key v1.LedgerKey) v1.ILedgerItem {
	if bytes.HasPrefix(key, v1.KeyPrefixVestingSchedule) {
		return &Schedule{}
	} else if bytes.HasPrefix(key, v1.KeyPrefixBatchCache) {
		return &BatchCache{}
	}
	panic(fmt.Errorf("invalid key prefix:0x%x", key[0]))
}

func NewVestingCtrler(config *cfg.Config, logger tmlog.Logger) (*VestingCtrler, xerrors.XError) {
	lg := logger.With("module", "vesting_VestingCtrler")

	curve, xerr := NewThresholdCurve()
	if xerr != nil {
		return nil, xerr
	}

	ledger, xerr := v1.NewStateLedger[v1.ILedgerItem]("vesting", config.DBDir(), config.Vesting.LedgerCacheSize, defaultNewItem, lg)
	if xerr != nil {
		return nil, xerr
	}

	return &VestingCtrler{
		vestingState: ledger,
		defaultCurve: curve,
		logger:       lg,
	}, nil
}

// SetVestingSchedule sets the start time and, optionally, explicit thresholds.
// A schedule can be replaced only until it starts. Setting the same schedule again is a no-op.
// Replacing a schedule drops the batch cache.
func (ctrler *VestingCtrler) SetVestingSchedule(bctx *ctrlertypes.BlockContext, startTime int64, thresholds []int64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	exec, now := bctx.Exec(), bctx.TimeSeconds()

	if thresholds != nil {
		if _, xerr := NewExplicitCurve(thresholds); xerr != nil {
			return xerr
		}
	}
	sched := &Schedule{StartTime: startTime, Thresholds: thresholds}

	old, xerr := ctrler.getSchedule(ctrler.vestingState.Get, exec)
	if xerr == nil {
		if old.Equal(sched) {
			return nil
		}
		if now >= old.StartTime {
			return xerrors.ErrScheduleImmutable.Wrapf("started at %d, now %d", old.StartTime, now)
		}
	} else if !xerr.Contains(xerrors.ErrScheduleNotSet) {
		return xerr
	}

	snap := ctrler.vestingState.Snapshot(exec)
	if xerr := ctrler.vestingState.Set(v1.LedgerKeyVestingSchedule(), sched, exec); xerr != nil {
		_ = ctrler.vestingState.RevertToSnapshot(snap, exec)
		return xerr
	}
	if xerr := ctrler.vestingState.Del(v1.LedgerKeyBatchCache(), exec); xerr != nil {
		_ = ctrler.vestingState.RevertToSnapshot(snap, exec)
		return xerr
	}

	ctrler.logger.Info("set vesting schedule", "startTime", startTime, "explicit", len(thresholds), "exec", exec)
	return nil
}

func (ctrler *VestingCtrler) Schedule() (*Schedule, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	sched, xerr := ctrler.getSchedule(ctrler.vestingState.Get, true)
	if xerr != nil {
		return nil, xerr
	}
	ret := &Schedule{StartTime: sched.StartTime}
	if sched.Thresholds != nil {
		ret.Thresholds = append([]int64{}, sched.Thresholds...)
	}
	return ret, nil
}

// ThresholdSeconds returns the seconds after the start at which `n` batches are fully vested,
// on the explicit thresholds if the schedule has them, and on the default curve otherwise.
func (ctrler *VestingCtrler) ThresholdSeconds(n uint64) (int64, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	curve, xerr := ctrler.adoptedCurve()
	if xerr != nil {
		return 0, xerr
	}
	return curve.Threshold(n)
}

// Curve returns the curve that the current schedule uses.
func (ctrler *VestingCtrler) Curve() (Curve, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	return ctrler.adoptedCurve()
}

func (ctrler *VestingCtrler) CurrentProgress(bctx *ctrlertypes.BlockContext) (*Progress, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	p, _, _, xerr := ctrler.progress(ctrler.vestingState.Get, bctx.Exec(), bctx.TimeSeconds())
	return p, xerr
}

// RefreshCache computes the progress and stores it as the new cache.
func (ctrler *VestingCtrler) RefreshCache(bctx *ctrlertypes.BlockContext) (*Progress, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	exec, now := bctx.Exec(), bctx.TimeSeconds()

	p, sched, cache, xerr := ctrler.progress(ctrler.vestingState.Get, exec, now)
	if xerr != nil {
		return nil, xerr
	}
	if now < sched.StartTime {
		return p, nil
	}
	if cache != nil && cache.FullBatches == p.FullBatches && cache.IsFresh(sched.StartTime, now) {
		return p, nil
	}

	if xerr := ctrler.setCache(&BatchCache{FullBatches: p.FullBatches, CachedAt: now}, exec); xerr != nil {
		return nil, xerr
	}
	ctrler.logger.Debug("refresh batch cache", "fullBatches", p.FullBatches, "now", now)
	return p, nil
}

// OverrideFullyVested declares `n` batches fully vested from now on.
// It never moves progress backward.
func (ctrler *VestingCtrler) OverrideFullyVested(bctx *ctrlertypes.BlockContext, n uint64) xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	exec, now := bctx.Exec(), bctx.TimeSeconds()

	p, sched, _, xerr := ctrler.progress(ctrler.vestingState.Get, exec, now)
	if xerr != nil {
		return xerr
	}
	curve, xerr := ctrler.curveOf(sched)
	if xerr != nil {
		return xerr
	}
	if n > curve.Batches() {
		return xerrors.ErrBatchDomain.Wrapf("batch %d is greater than %d", n, curve.Batches())
	}
	if now < sched.StartTime {
		return xerrors.ErrConfiguration.Wrapf("vesting starts at %d, now %d", sched.StartTime, now)
	}
	if n < p.FullBatches {
		return xerrors.ErrBackwardOverride.Wrapf("%d is less than %d", n, p.FullBatches)
	}

	if xerr := ctrler.setCache(&BatchCache{FullBatches: n, CachedAt: now}, exec); xerr != nil {
		return xerr
	}
	ctrler.logger.Info("override fully vested batches", "from", p.FullBatches, "to", n, "now", now)
	return nil
}

// VestedAmount returns (FullBatches*10^18 + Fraction) * tokensPerBatch,
// the amount in base units (10^-18) when tokensPerBatch is in whole tokens.
func (ctrler *VestingCtrler) VestedAmount(bctx *ctrlertypes.BlockContext, tokensPerBatch *uint256.Int) (*uint256.Int, xerrors.XError) {
	ctrler.mtx.RLock()
	defer ctrler.mtx.RUnlock()

	p, _, _, xerr := ctrler.progress(ctrler.vestingState.Get, bctx.Exec(), bctx.TimeSeconds())
	if xerr != nil {
		return nil, xerr
	}
	return vestedAmount(p, tokensPerBatch)
}

func vestedAmount(p *Progress, tokensPerBatch *uint256.Int) (*uint256.Int, xerrors.XError) {
	ret, overflow := new(uint256.Int).MulOverflow(p.Scaled(), tokensPerBatch)
	if overflow {
		return nil, xerrors.ErrOverflow.Wrapf("vested amount of %v tokens per batch", tokensPerBatch)
	}
	return ret, nil
}

func (ctrler *VestingCtrler) Commit() ([]byte, int64, xerrors.XError) {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	h, v, xerr := ctrler.vestingState.Commit()
	if xerr != nil {
		ctrler.logger.Error("fail to commit", "error", xerr.Error())
	}
	return h, v, xerr
}

func (ctrler *VestingCtrler) Close() xerrors.XError {
	ctrler.mtx.Lock()
	defer ctrler.mtx.Unlock()

	if ctrler.vestingState != nil {
		if xerr := ctrler.vestingState.Close(); xerr != nil {
			ctrler.logger.Error("vestingState.Close()", "error", xerr.Error())
			return xerr
		}
		ctrler.vestingState = nil
	}
	return nil
}

type funcGet func(v1.LedgerKey, bool) (v1.ILedgerItem, xerrors.XError)

func (ctrler *VestingCtrler) getSchedule(get funcGet, exec bool) (*Schedule, xerrors.XError) {
	item, xerr := get(v1.LedgerKeyVestingSchedule(), exec)
	if xerr == xerrors.ErrNotFoundResult {
		return nil, xerrors.ErrScheduleNotSet
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*Schedule), nil
}

// getCache returns nil when nothing is cached.
func (ctrler *VestingCtrler) getCache(get funcGet, exec bool) (*BatchCache, xerrors.XError) {
	item, xerr := get(v1.LedgerKeyBatchCache(), exec)
	if xerr == xerrors.ErrNotFoundResult {
		return nil, nil
	} else if xerr != nil {
		return nil, xerr
	}
	return item.(*BatchCache), nil
}

func (ctrler *VestingCtrler) setCache(cache *BatchCache, exec bool) xerrors.XError {
	snap := ctrler.vestingState.Snapshot(exec)
	if xerr := ctrler.vestingState.Set(v1.LedgerKeyBatchCache(), cache, exec); xerr != nil {
		_ = ctrler.vestingState.RevertToSnapshot(snap, exec)
		return xerr
	}
	return nil
}

func (ctrler *VestingCtrler) progress(get funcGet, exec bool, now int64) (*Progress, *Schedule, *BatchCache, xerrors.XError) {
	sched, xerr := ctrler.getSchedule(get, exec)
	if xerr != nil {
		return nil, nil, nil, xerr
	}
	cache, xerr := ctrler.getCache(get, exec)
	if xerr != nil {
		return nil, nil, nil, xerr
	}
	curve, xerr := ctrler.curveOf(sched)
	if xerr != nil {
		return nil, nil, nil, xerr
	}
	p, xerr := ComputeProgress(curve, sched.StartTime, cache, now)
	if xerr != nil {
		return nil, nil, nil, xerr
	}
	return p, sched, cache, nil
}

func (ctrler *VestingCtrler) adoptedCurve() (Curve, xerrors.XError) {
	sched, xerr := ctrler.getSchedule(ctrler.vestingState.Get, true)
	if xerr == xerrors.ErrScheduleNotSet {
		return ctrler.defaultCurve, nil
	} else if xerr != nil {
		return nil, xerr
	}
	return ctrler.curveOf(sched)
}

func (ctrler *VestingCtrler) curveOf(sched *Schedule) (Curve, xerrors.XError) {
	if sched.Thresholds == nil {
		return ctrler.defaultCurve, nil
	}
	return NewExplicitCurve(sched.Thresholds)
}
