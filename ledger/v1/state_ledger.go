package v1

import (
	"sync"

	"github.com/beatoz/beatoz-vesting/types/xerrors"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// StateLedger writes to a committable ledger when `exec` is true.
// Otherwise it works on a MemLedger over the last committed version, which is rebuilt on every Commit.
type StateLedger[T ILedgerItem] struct {
	commitLedger   *MutableLedger
	imitableLedger *MemLedger

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ IStateLedger[ILedgerItem] = (*StateLedger[ILedgerItem])(nil)

func NewStateLedger[T ILedgerItem](name, dbDir string, cacheSize int, newItemFor FuncNewItemFor, lg tmlog.Logger) (*StateLedger[T], xerrors.XError) {
	_commitLedger, xerr := NewMutableLedger(name, dbDir, cacheSize, newItemFor, lg)
	if xerr != nil {
		return nil, xerr
	}
	_imitableLedger, xerr := NewMemLedgerAt(_commitLedger.Version(), _commitLedger, lg)
	if xerr != nil {
		_ = _commitLedger.Close()
		return nil, xerr
	}

	return &StateLedger[T]{
		commitLedger:   _commitLedger,
		imitableLedger: _imitableLedger,
		logger:         lg.With("ledger", "StateLedger"),
	}, nil
}

func (ledger *StateLedger[T]) getLedger(exec bool) IImitable {
	if exec {
		return ledger.commitLedger
	}
	return ledger.imitableLedger
}

func (ledger *StateLedger[T]) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.commitLedger.Version()
}

func (ledger *StateLedger[T]) Get(key LedgerKey, exec bool) (T, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	var empty T
	item, xerr := ledger.getLedger(exec).Get(key)
	if xerr != nil {
		return empty, xerr
	}
	ret, ok := item.(T)
	if !ok {
		return empty, xerrors.ErrLedger.Wrapf("unexpected item type %T at key %x", item, key)
	}
	return ret, nil
}

func (ledger *StateLedger[T]) Set(key LedgerKey, item T, exec bool) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.getLedger(exec).Set(key, item)
}

func (ledger *StateLedger[T]) Del(key LedgerKey, exec bool) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.getLedger(exec).Del(key)
}

func (ledger *StateLedger[T]) Snapshot(exec bool) int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.getLedger(exec).Snapshot()
}

func (ledger *StateLedger[T]) RevertToSnapshot(snap int, exec bool) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	return ledger.getLedger(exec).RevertToSnapshot(snap)
}

func (ledger *StateLedger[T]) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	hash, ver, xerr := ledger.commitLedger.Commit()
	if xerr != nil {
		return nil, 0, xerr
	}

	ledger.imitableLedger, xerr = NewMemLedgerAt(ver, ledger.commitLedger, ledger.logger)
	if xerr != nil {
		return nil, 0, xerr
	}
	return hash, ver, nil
}

func (ledger *StateLedger[T]) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ledger.commitLedger != nil {
		if xerr := ledger.commitLedger.Close(); xerr != nil {
			return xerr
		}
		ledger.commitLedger = nil
	}
	ledger.imitableLedger = nil
	return nil
}

// ImitableLedgerAt returns a view of the committed version `height`.
func (ledger *StateLedger[T]) ImitableLedgerAt(height int64) (IImitable, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return NewMemLedgerAt(height, ledger.commitLedger, ledger.logger)
}
