// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package types

import (
	"time"
)

// CodeTypeOK is the result code of a successful request
const CodeTypeOK uint32 = 0

// CheckTxType tells a new transaction from a pending one re-checked after a commit
type CheckTxType int32

// CheckTx types
const (
	CheckTxType_NEW     CheckTxType = 0
	CheckTxType_RECHECK CheckTxType = 1
)

func (t CheckTxType) String() string {
	switch t {
	case CheckTxType_NEW:
		return "NEW"
	case CheckTxType_RECHECK:
		return "RECHECK"
	default:
		return "UNKNOWN"
	}
}

type (
	// EventAttribute is a key-value pair of an event
	EventAttribute struct {
		Key   string `json:"key"`
		Value string `json:"value"`
	}

	// Event is emitted by transaction processing and block hooks
	Event struct {
		Type       string           `json:"type"`
		Attributes []EventAttribute `json:"attributes,omitempty"`
	}

	// ValidatorUpdate changes the voting power of a validator, a zero power removes it
	ValidatorUpdate struct {
		PubKey []byte `json:"pubKey"`
		Power  int64  `json:"power"`
	}

	// VoteInfo is a vote of the last commit
	VoteInfo struct {
		Validator       []byte `json:"validator"`
		Power           int64  `json:"power"`
		SignedLastBlock bool   `json:"signedLastBlock"`
	}

	// LastCommitInfo carries the votes of the last commit
	LastCommitInfo struct {
		Round int32      `json:"round"`
		Votes []VoteInfo `json:"votes"`
	}

	// Header is the block header handed to BeginBlock
	Header struct {
		ChainID         string    `json:"chainID"`
		Height          int64     `json:"height"`
		Time            time.Time `json:"time"`
		ProposerAddress []byte    `json:"proposerAddress"`
	}

	// RequestInfo asks for the application info
	RequestInfo struct {
		Version string
	}

	// ResponseInfo is the application info
	ResponseInfo struct {
		Data             string
		Version          string
		LastBlockHeight  int64
		LastBlockAppHash []byte
	}

	// RequestInitChain initializes the chain from genesis
	RequestInitChain struct {
		Time          time.Time
		ChainId       string
		Validators    []ValidatorUpdate
		AppStateBytes []byte
		InitialHeight int64
	}

	// ResponseInitChain returns the validator set of genesis
	ResponseInitChain struct {
		Validators []ValidatorUpdate
		AppHash    []byte
	}

	// RequestBeginBlock signals the beginning of a block
	RequestBeginBlock struct {
		Hash           []byte
		Header         Header
		LastCommitInfo LastCommitInfo
	}

	// ResponseBeginBlock returns the events of begin block hooks
	ResponseBeginBlock struct {
		Events []Event
	}

	// RequestCheckTx asks to validate a transaction for the mempool
	RequestCheckTx struct {
		Tx   []byte
		Type CheckTxType
	}

	// ResponseCheckTx is the result of CheckTx
	ResponseCheckTx struct {
		Code      uint32
		Data      []byte
		Log       string
		GasWanted int64
		GasUsed   int64
		Events    []Event
		Codespace string
	}

	// RequestDeliverTx delivers a transaction of the block
	RequestDeliverTx struct {
		Tx []byte
	}

	// ResponseDeliverTx is the result of DeliverTx
	ResponseDeliverTx struct {
		Code      uint32
		Data      []byte
		Log       string
		GasWanted int64
		GasUsed   int64
		Events    []Event
		Codespace string
	}

	// RequestEndBlock signals the end of a block
	RequestEndBlock struct {
		Height int64
	}

	// ResponseEndBlock returns the validator updates of the block
	ResponseEndBlock struct {
		ValidatorUpdates []ValidatorUpdate
		Events           []Event
	}

	// ResponseCommit returns the commitment hash of the committed state
	ResponseCommit struct {
		Data         []byte
		RetainHeight int64
	}

	// RequestQuery queries the committed state
	RequestQuery struct {
		Data   []byte
		Path   string
		Height int64
		Prove  bool
	}

	// ResponseQuery is the result of Query
	ResponseQuery struct {
		Code      uint32
		Log       string
		Info      string
		Key       []byte
		Value     []byte
		Height    int64
		Codespace string
	}
)

// IsOK returns whether the check succeeded
func (r *ResponseCheckTx) IsOK() bool { return r.Code == CodeTypeOK }

// IsOK returns whether the delivery succeeded
func (r *ResponseDeliverTx) IsOK() bool { return r.Code == CodeTypeOK }

// IsOK returns whether the query succeeded
func (r *ResponseQuery) IsOK() bool { return r.Code == CodeTypeOK }

// NewEvent creates an event
func NewEvent(typ string, attrs ...EventAttribute) Event {
	return Event{Type: typ, Attributes: attrs}
}

// NewAttribute creates an event attribute
func NewAttribute(key, value string) EventAttribute {
	return EventAttribute{Key: key, Value: value}
}
