package v1

import (
	"fmt"
	"testing"

	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/stretchr/testify/require"
)

func TestMutableLedger_SetGet(t *testing.T) {
	ledger := openMutable(t, tempDir(t))
	defer func() { require.NoError(t, ledger.Close()) }()

	_, xerr := ledger.Get(testKey(0))
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	item := &testItem{Count: 10, Note: "first"}
	require.NoError(t, ledger.Set(testKey(0), item))

	got, xerr := ledger.Get(testKey(0))
	require.NoError(t, xerr)
	require.Equal(t, item, got)

	require.NoError(t, ledger.Del(testKey(0)))
	_, xerr = ledger.Get(testKey(0))
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)
}

func TestMutableLedger_RevertToSnapshot(t *testing.T) {
	ledger := openMutable(t, tempDir(t))
	defer func() { require.NoError(t, ledger.Close()) }()

	item0 := &testItem{Count: 0, Note: "item0"}
	require.NoError(t, ledger.Set(testKey(0), item0))

	snap := ledger.Snapshot()

	// updated, created and deleted after the snapshot
	require.NoError(t, ledger.Set(testKey(0), &testItem{Count: 100, Note: "item0 updated"}))
	require.NoError(t, ledger.Set(testKey(1), &testItem{Count: 1, Note: "item1"}))
	require.NoError(t, ledger.Del(testKey(0)))

	require.NoError(t, ledger.RevertToSnapshot(snap))

	got, xerr := ledger.Get(testKey(0))
	require.NoError(t, xerr)
	require.Equal(t, item0, got)

	_, xerr = ledger.Get(testKey(1))
	require.Equal(t, xerrors.ErrNotFoundResult, xerr)

	require.Error(t, ledger.RevertToSnapshot(snap+1))
	require.Error(t, ledger.RevertToSnapshot(-1))
}

func TestMutableLedger_RevertMany(t *testing.T) {
	ledger := openMutable(t, tempDir(t))
	defer func() { require.NoError(t, ledger.Close()) }()

	for i := uint64(0); i < 1000; i++ {
		require.NoError(t, ledger.Set(testKey(i), &testItem{Count: i, Note: fmt.Sprintf("d%d", i)}))
	}
	_, _, xerr := ledger.Commit()
	require.NoError(t, xerr)

	snap := ledger.Snapshot()
	require.Equal(t, 0, snap)
	for i := uint64(0); i < 1000; i++ {
		require.NoError(t, ledger.Set(testKey(i), &testItem{Count: i * 2, Note: fmt.Sprintf("d%d%d", i, i)}))
	}
	require.NoError(t, ledger.RevertToSnapshot(snap))

	for i := uint64(0); i < 1000; i++ {
		got, xerr := ledger.Get(testKey(i))
		require.NoError(t, xerr)
		require.Equal(t, &testItem{Count: i, Note: fmt.Sprintf("d%d", i)}, got)
	}
}

func TestMutableLedger_CommitAndReopen(t *testing.T) {
	dbDir := tempDir(t)

	ledger := openMutable(t, dbDir)
	require.Equal(t, int64(0), ledger.Version())

	require.NoError(t, ledger.Set(testKey(7), &testItem{Count: 7}))
	hash1, ver, xerr := ledger.Commit()
	require.NoError(t, xerr)
	require.Equal(t, int64(1), ver)
	require.NotEmpty(t, hash1)

	require.NoError(t, ledger.Set(testKey(7), &testItem{Count: 8}))
	_, ver, xerr = ledger.Commit()
	require.NoError(t, xerr)
	require.Equal(t, int64(2), ver)

	// not committed
	require.NoError(t, ledger.Set(testKey(7), &testItem{Count: 9}))
	require.NoError(t, ledger.Close())

	ledger = openMutable(t, dbDir)
	defer func() { require.NoError(t, ledger.Close()) }()
	require.Equal(t, int64(2), ledger.Version())

	got, xerr := ledger.Get(testKey(7))
	require.NoError(t, xerr)
	require.Equal(t, uint64(8), got.(*testItem).Count)

	tree, xerr := ledger.GetReadOnlyTree(1)
	require.NoError(t, xerr)
	bz, err := tree.Get(testKey(7))
	require.NoError(t, err)
	old := &testItem{}
	require.NoError(t, old.Decode(bz))
	require.Equal(t, uint64(7), old.Count)
}
