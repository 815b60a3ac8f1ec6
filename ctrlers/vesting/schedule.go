package vesting

import (
	"github.com/beatoz/beatoz-vesting/libs/jsonx"
	v1 "github.com/beatoz/beatoz-vesting/ledger/v1"
	"github.com/beatoz/beatoz-vesting/types/xerrors"
)

// Schedule is the persisted vesting configuration.
// Nil Thresholds selects the default ThresholdCurve.
type Schedule struct {
	StartTime  int64   `json:"start_time"`
	Thresholds []int64 `json:"thresholds,omitempty"`
}

var _ v1.ILedgerItem = (*Schedule)(nil)

func (s *Schedule) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(s)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (s *Schedule) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, s); err != nil {
		return xerrors.From(err)
	}
	return nil
}

func (s *Schedule) Equal(o *Schedule) bool {
	if s.StartTime != o.StartTime || len(s.Thresholds) != len(o.Thresholds) {
		return false
	}
	if (s.Thresholds == nil) != (o.Thresholds == nil) {
		return false
	}
	for i := range s.Thresholds {
		if s.Thresholds[i] != o.Thresholds[i] {
			return false
		}
	}
	return true
}

// BatchCache remembers the number of fully vested batches observed at CachedAt.
// It only speeds up the search, except after an override, where it is the floor of progress.
type BatchCache struct {
	FullBatches uint64 `json:"full_batches"`
	CachedAt    int64  `json:"cached_at"`
}

var _ v1.ILedgerItem = (*BatchCache)(nil)

func (c *BatchCache) Encode() ([]byte, xerrors.XError) {
	bz, err := jsonx.Marshal(c)
	if err != nil {
		return nil, xerrors.From(err)
	}
	return bz, nil
}

func (c *BatchCache) Decode(bz []byte) xerrors.XError {
	if err := jsonx.Unmarshal(bz, c); err != nil {
		return xerrors.From(err)
	}
	return nil
}

// IsFresh reports whether the cache was written during the current schedule and not in the future.
func (c *BatchCache) IsFresh(startTime, now int64) bool {
	return c != nil && c.CachedAt >= startTime && c.CachedAt <= now
}
