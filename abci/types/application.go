// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package types

type (
	// InfoConn serves read-only requests against the last committed state
	InfoConn interface {
		Info(*RequestInfo) (*ResponseInfo, error)
		Query(*RequestQuery) (*ResponseQuery, error)
	}

	// MempoolConn admits transactions into the mempool
	MempoolConn interface {
		CheckTx(*RequestCheckTx) (*ResponseCheckTx, error)
	}

	// ConsensusConn drives block execution. Calls arrive in the order
	// InitChain once, then per block BeginBlock, DeliverTx*, EndBlock and Commit.
	ConsensusConn interface {
		InitChain(*RequestInitChain) (*ResponseInitChain, error)
		BeginBlock(*RequestBeginBlock) (*ResponseBeginBlock, error)
		DeliverTx(*RequestDeliverTx) (*ResponseDeliverTx, error)
		EndBlock(*RequestEndBlock) (*ResponseEndBlock, error)
		// Commit persists the block and returns the app hash
		Commit() (*ResponseCommit, error)
	}

	// Application is the state machine driven by a consensus engine. A non-nil error is only
	// returned for fatal conditions, a failed transaction is reported through the response code.
	Application interface {
		InfoConn
		MempoolConn
		ConsensusConn
	}
)
