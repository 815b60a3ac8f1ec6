package types

import (
	"sync"
	"time"

	abcitypes "github.com/tendermint/tendermint/abci/types"
	tmprototypes "github.com/tendermint/tendermint/proto/tendermint/types"
)

// BlockContext carries the invocation's height and time.
// Controllers never read a wall clock. `now` always comes from here.
type BlockContext struct {
	blockInfo abcitypes.RequestBeginBlock
	exec      bool

	VestingHandler IVestingHandler

	mtx sync.RWMutex
}

func NewBlockContext(bi abcitypes.RequestBeginBlock, exec bool, vh IVestingHandler) *BlockContext {
	return &BlockContext{
		blockInfo:      bi,
		exec:           exec,
		VestingHandler: vh,
	}
}

// TempBlockContext makes an executable context for `height` at `btime`.
func TempBlockContext(chainId string, height int64, btime time.Time, vh IVestingHandler) *BlockContext {
	return NewBlockContext(
		abcitypes.RequestBeginBlock{
			Header: tmprototypes.Header{
				ChainID: chainId,
				Height:  height,
				Time:    btime,
			},
		},
		true,
		vh,
	)
}

// ExpectNextBlockContext returns the context of the next height, `interval` seconds after `last`.
func ExpectNextBlockContext(last *BlockContext, interval int64) *BlockContext {
	return NewBlockContext(
		abcitypes.RequestBeginBlock{
			Header: tmprototypes.Header{
				ChainID: last.ChainID(),
				Height:  last.Height() + 1,
				Time:    time.Unix(last.TimeSeconds()+interval, 0),
			},
		},
		last.Exec(),
		last.VestingHandler,
	)
}

// Simulation returns a copy of bctx whose writes never reach the committed ledger.
func (bctx *BlockContext) Simulation() *BlockContext {
	return NewBlockContext(bctx.BlockInfo(), false, bctx.VestingHandler)
}

func (bctx *BlockContext) BlockInfo() abcitypes.RequestBeginBlock {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.blockInfo
}

func (bctx *BlockContext) ChainID() string {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.blockInfo.Header.ChainID
}

func (bctx *BlockContext) Height() int64 {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.blockInfo.Header.Height
}

// TimeSeconds returns block time in unix seconds
func (bctx *BlockContext) TimeSeconds() int64 {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.blockInfo.Header.GetTime().Unix()
}

// Exec is false for simulations.
func (bctx *BlockContext) Exec() bool {
	bctx.mtx.RLock()
	defer bctx.mtx.RUnlock()

	return bctx.exec
}
