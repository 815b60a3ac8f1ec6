package v1

import (
	"sync"

	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/cosmos/iavl"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// MemLedger is a view of a committed version of MutableLedger.
// It accepts Set and Del, but the changes live only in memory and can not be committed.
type MemLedger struct {
	immuTree   *iavl.ImmutableTree
	version    int64
	items      map[string]ILedgerItem // a nil item means deleted
	revisions  *revisionList[ILedgerItem]
	newItemFor FuncNewItemFor
	logger     tmlog.Logger
	mtx        sync.RWMutex
}

var _ IImitable = (*MemLedger)(nil)

// NewMemLedgerAt returns a MemLedger on the version `ver` of `from`.
// When `ver` is 0, nothing has been committed yet and the view starts empty.
func NewMemLedgerAt(ver int64, from *MutableLedger, lg tmlog.Logger) (*MemLedger, xerrors.XError) {
	var tree *iavl.ImmutableTree
	if ver > 0 {
		_tree, xerr := from.GetReadOnlyTree(ver)
		if xerr != nil {
			return nil, xerr
		}
		tree = _tree
	}

	return &MemLedger{
		immuTree:   tree,
		version:    ver,
		items:      make(map[string]ILedgerItem),
		revisions:  newRevisionList[ILedgerItem](),
		newItemFor: from.newItemFor,
		logger:     lg.With("ledger", "MemLedger"),
	}, nil
}

func (ledger *MemLedger) Version() int64 {
	return ledger.version
}

func (ledger *MemLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if item, ok := ledger.items[string(key)]; ok {
		if item == nil {
			return nil, xerrors.ErrNotFoundResult
		}
		return item, nil
	}

	if ledger.immuTree == nil {
		return nil, xerrors.ErrNotFoundResult
	}

	bz, err := ledger.immuTree.Get(key)
	if err != nil {
		return nil, xerrors.ErrLedger.Wrap(err)
	} else if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}

	item := ledger.newItemFor(key)
	if xerr := item.Decode(bz); xerr != nil {
		return nil, xerr
	}
	ledger.items[string(key)] = item
	return item, nil
}

func (ledger *MemLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.put(key, item)
	return nil
}

func (ledger *MemLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.put(key, nil)
	return nil
}

func (ledger *MemLedger) put(key LedgerKey, item ILedgerItem) {
	old, ok := ledger.items[string(key)]
	if !ok && ledger.immuTree != nil {
		// the committed value must come back in reverting.
		if bz, err := ledger.immuTree.Get(key); err == nil && bz != nil {
			committed := ledger.newItemFor(key)
			if committed.Decode(bz) == nil {
				old = committed
			}
		}
	}
	ledger.revisions.set(key, old)
	ledger.items[string(key)] = item
}

func (ledger *MemLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.revisions.snapshot()
}

func (ledger *MemLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if snap < 0 || snap > ledger.revisions.snapshot() {
		return xerrors.ErrLedger.Wrapf("invalid snapshot %d", snap)
	}

	restores := ledger.revisions.since(snap)
	for i := len(restores) - 1; i >= 0; i-- {
		kv := restores[i]
		ledger.items[string(kv.key)] = kv.val
	}
	ledger.revisions.revert(snap)
	return nil
}
