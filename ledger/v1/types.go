package v1

import (
	"github.com/beatoz/beatoz-vesting/types/xerrors"
	"github.com/cosmos/iavl"
)

type LedgerKey = []byte

// FuncNewItemFor returns an empty item that can decode the value stored at the key.
type FuncNewItemFor func(LedgerKey) ILedgerItem

type ILedgerItem interface {
	Encode() ([]byte, xerrors.XError)
	Decode([]byte) xerrors.XError
}

type IGettable interface {
	Get(LedgerKey) (ILedgerItem, xerrors.XError)
}

type ISettable interface {
	Set(LedgerKey, ILedgerItem) xerrors.XError
	Del(LedgerKey) xerrors.XError
	Snapshot() int
	RevertToSnapshot(int) xerrors.XError
}

type ICommittable interface {
	Commit() ([]byte, int64, xerrors.XError)
}

type IImitable interface {
	IGettable
	ISettable
}

type IMutable interface {
	IImitable
	ICommittable
	Version() int64
	GetReadOnlyTree(int64) (*iavl.ImmutableTree, xerrors.XError)
	Close() xerrors.XError
}

type IStateLedger[T ILedgerItem] interface {
	Version() int64
	Get(LedgerKey, bool) (T, xerrors.XError)
	Set(LedgerKey, T, bool) xerrors.XError
	Del(LedgerKey, bool) xerrors.XError
	Snapshot(bool) int
	RevertToSnapshot(int, bool) xerrors.XError
	Commit() ([]byte, int64, xerrors.XError)
	Close() xerrors.XError
	ImitableLedgerAt(int64) (IImitable, xerrors.XError)
}
