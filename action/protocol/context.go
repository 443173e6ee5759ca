// Copyright (c) 2018 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"
	"time"

	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/hash"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/gas"
	"github.com/iotexproject/iotex-appchain/pkg/log"
)

// execution modes of a transaction
const (
	// ExecModeCheck checks a new transaction for the mempool
	ExecModeCheck ExecMode = iota
	// ExecModeReCheck re-checks a pending transaction after a commit
	ExecModeReCheck
	// ExecModeSimulate simulates a transaction without persisting anything
	ExecModeSimulate
	// ExecModeDeliver delivers a transaction of a block
	ExecModeDeliver
)

type (
	blockCtxKey struct{}

	txCtxKey struct{}

	// ExecMode is the mode a transaction is executed in
	ExecMode uint8

	// BlockCtx provides the block being executed with auxiliary information
	BlockCtx struct {
		// ChainID is the id of the chain
		ChainID string
		// height of the block
		BlockHeight uint64
		// timestamp of the block
		BlockTimeStamp time.Time
		// Producer is the address of the block proposer
		Producer []byte
		// LastCommitVotes are the votes of the previous block
		LastCommitVotes []abci.VoteInfo
	}

	// TxCtx provides the transaction being executed with auxiliary information
	TxCtx struct {
		// Mode is the execution mode
		Mode ExecMode
		// TxSize is the size of the raw transaction
		TxSize uint64
		// TxHash is the hash of the raw transaction
		TxHash hash.Hash256
		// GasMeter is the gas meter of the transaction
		GasMeter gas.Meter
		// GasWanted is the gas limit of the transaction
		GasWanted uint64
		// MinGasPrice is the minimum gas price accepted by this node in check mode
		MinGasPrice *uint256.Int
	}
)

func (m ExecMode) String() string {
	switch m {
	case ExecModeCheck:
		return "check"
	case ExecModeReCheck:
		return "recheck"
	case ExecModeSimulate:
		return "simulate"
	case ExecModeDeliver:
		return "deliver"
	default:
		return "unknown"
	}
}

// IsCheck returns whether the mode checks a transaction for the mempool
func (m ExecMode) IsCheck() bool {
	return m == ExecModeCheck || m == ExecModeReCheck
}

// WithBlockCtx adds BlockCtx into context.
func WithBlockCtx(ctx context.Context, blk BlockCtx) context.Context {
	return context.WithValue(ctx, blockCtxKey{}, blk)
}

// GetBlockCtx gets block context
func GetBlockCtx(ctx context.Context) (BlockCtx, bool) {
	blk, ok := ctx.Value(blockCtxKey{}).(BlockCtx)
	return blk, ok
}

// MustGetBlockCtx must get block context.
// If context doesn't exist, this function panic.
func MustGetBlockCtx(ctx context.Context) BlockCtx {
	blk, ok := ctx.Value(blockCtxKey{}).(BlockCtx)
	if !ok {
		log.S().Panic("Miss block context")
	}
	return blk
}

// WithTxCtx adds TxCtx into context.
func WithTxCtx(ctx context.Context, tx TxCtx) context.Context {
	return context.WithValue(ctx, txCtxKey{}, tx)
}

// GetTxCtx gets transaction context
func GetTxCtx(ctx context.Context) (TxCtx, bool) {
	tx, ok := ctx.Value(txCtxKey{}).(TxCtx)
	return tx, ok
}

// MustGetTxCtx must get transaction context.
// If context doesn't exist, this function panic.
func MustGetTxCtx(ctx context.Context) TxCtx {
	tx, ok := ctx.Value(txCtxKey{}).(TxCtx)
	if !ok {
		log.S().Panic("Miss transaction context")
	}
	return tx
}
