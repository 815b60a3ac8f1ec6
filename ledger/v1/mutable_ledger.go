package v1

import (
	"bytes"
	"sync"

	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/cosmos/iavl"
	dbm "github.com/cosmos/iavl/db"
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// MutableLedger is an iavl tree persisted in goleveldb.
// Every change is recorded in a revision list so it can be reverted until the next Commit.
type MutableLedger struct {
	db         dbm.DB
	tree       *iavl.MutableTree
	revisions  *revisionList[[]byte]
	cachedObjs map[string]ILedgerItem

	newItemFor FuncNewItemFor
	cacheSize  int

	logger tmlog.Logger
	mtx    sync.RWMutex
}

var _ IMutable = (*MutableLedger)(nil)

func NewMutableLedger(name, dbDir string, cacheSize int, newItemFor FuncNewItemFor, lg tmlog.Logger) (*MutableLedger, xerrors.XError) {
	db, err := dbm.NewGoLevelDB(name, dbDir)
	if err != nil {
		return nil, xerrors.ErrLedger.Wrapf("goleveldb open failed: %v", err)
	}

	tree := iavl.NewMutableTree(db, cacheSize, false, iavl.NewNopLogger(), iavl.SyncOption(true))
	if _, err := tree.LoadVersion(0); err != nil {
		_ = db.Close()
		return nil, xerrors.ErrLedger.Wrapf("tree's LoadVersion failed: %v", err)
	}

	return &MutableLedger{
		db:         db,
		tree:       tree,
		revisions:  newRevisionList[[]byte](),
		cachedObjs: make(map[string]ILedgerItem),
		newItemFor: newItemFor,
		cacheSize:  cacheSize,
		logger:     lg.With("ledger", "MutableLedger"),
	}, nil
}

func (ledger *MutableLedger) Get(key LedgerKey) (ILedgerItem, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if item, ok := ledger.cachedObjs[string(key)]; ok {
		return item, nil
	}

	bz, err := ledger.tree.Get(key)
	if err != nil {
		return nil, xerrors.ErrLedger.Wrap(err)
	} else if bz == nil {
		return nil, xerrors.ErrNotFoundResult
	}

	item := ledger.newItemFor(key)
	if xerr := item.Decode(bz); xerr != nil {
		return nil, xerr
	}
	ledger.cachedObjs[string(key)] = item
	return item, nil
}

func (ledger *MutableLedger) Set(key LedgerKey, item ILedgerItem) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	oldVal, err := ledger.tree.Get(key)
	if err != nil {
		return xerrors.ErrLedger.Wrap(err)
	}
	newVal, xerr := item.Encode()
	if xerr != nil {
		return xerr
	}
	if _, err := ledger.tree.Set(key, newVal); err != nil {
		return xerrors.ErrLedger.Wrap(err)
	}

	ledger.logger.Debug("set item to tree", "key", key, "oldVal", oldVal, "newVal", newVal)

	if !bytes.Equal(oldVal, newVal) {
		// a nil `oldVal` removes the key in reverting.
		ledger.revisions.set(key, oldVal)
	}
	ledger.cachedObjs[string(key)] = item
	return nil
}

func (ledger *MutableLedger) Del(key LedgerKey) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	oldVal, removed, err := ledger.tree.Remove(key)
	if err != nil {
		return xerrors.ErrLedger.Wrap(err)
	}
	ledger.logger.Debug("delete item from tree", "key", key, "value", oldVal, "removed", removed)

	if removed {
		ledger.revisions.set(key, oldVal)
	}
	delete(ledger.cachedObjs, string(key))
	return nil
}

func (ledger *MutableLedger) Snapshot() int {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.revisions.snapshot()
}

func (ledger *MutableLedger) RevertToSnapshot(snap int) xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if snap < 0 || snap > ledger.revisions.snapshot() {
		return xerrors.ErrLedger.Wrapf("invalid snapshot %d", snap)
	}

	restores := ledger.revisions.since(snap)
	for i := len(restores) - 1; i >= 0; i-- {
		kv := restores[i]
		if kv.val != nil {
			if _, err := ledger.tree.Set(kv.key, kv.val); err != nil {
				return xerrors.ErrLedger.Wrap(err)
			}
		} else if _, _, err := ledger.tree.Remove(kv.key); err != nil {
			return xerrors.ErrLedger.Wrap(err)
		}
		delete(ledger.cachedObjs, string(kv.key))
	}
	ledger.revisions.revert(snap)
	return nil
}

func (ledger *MutableLedger) Commit() ([]byte, int64, xerrors.XError) {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	ledger.tree.SetCommitting()
	defer ledger.tree.UnsetCommitting()

	hash, ver, err := ledger.tree.SaveVersion()
	if err != nil {
		return nil, 0, xerrors.ErrLedger.Wrap(err)
	}

	ledger.logger.Debug("tree save version", "hash", hash, "version", ver)

	ledger.revisions.reset()
	ledger.cachedObjs = make(map[string]ILedgerItem)
	return hash, ver, nil
}

func (ledger *MutableLedger) Version() int64 {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	return ledger.tree.Version()
}

func (ledger *MutableLedger) GetReadOnlyTree(ver int64) (*iavl.ImmutableTree, xerrors.XError) {
	ledger.mtx.RLock()
	defer ledger.mtx.RUnlock()

	tree, err := ledger.tree.GetImmutable(ver)
	if err != nil {
		return nil, xerrors.ErrLedger.Wrapf("version %d: %v", ver, err)
	}
	return tree, nil
}

func (ledger *MutableLedger) Close() xerrors.XError {
	ledger.mtx.Lock()
	defer ledger.mtx.Unlock()

	if ledger.tree != nil {
		if err := ledger.tree.Close(); err != nil {
			return xerrors.ErrLedger.Wrap(err)
		}
		ledger.tree = nil
	}
	if ledger.db != nil {
		if err := ledger.db.Close(); err != nil {
			return xerrors.ErrLedger.Wrap(err)
		}
		ledger.db = nil
	}
	ledger.revisions.reset()
	return nil
}
