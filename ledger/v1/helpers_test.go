package v1

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/beatoz/beatoz-vesting/libs/jsonx"
	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/log"
)

type testItem struct {
	Count uint64 `json:"count"`
	Note  string `json:"note"`
}

func (item *testItem) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(item)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (item *testItem) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, item); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func newTestItemFor(LedgerKey) ILedgerItem {
	return &testItem{}
}

func testKey(i uint64) LedgerKey {
	k := make([]byte, 9)
	k[0] = 0x7f
	binary.BigEndian.PutUint64(k[1:], i)
	return k
}

func openMutable(t *testing.T, dbDir string) *MutableLedger {
	ledger, xerr := NewMutableLedger("ledger_test", dbDir, 1000, newTestItemFor, log.NewNopLogger())
	require.NoError(t, xerr)
	return ledger
}

func tempDir(t *testing.T) string {
	dbDir, err := os.MkdirTemp("", "ledger_test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = os.RemoveAll(dbDir) })
	return dbDir
}
