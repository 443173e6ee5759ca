// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
)

type (
	// Msg is a state transition routed to the module owning Route()
	Msg interface {
		// Route is the route of the module handling the msg
		Route() string
		// Type is the type of the msg within the module
		Type() string
		// ValidateBasic runs stateless checks
		ValidateBasic() error
		// Signers returns the accounts which must sign the transaction carrying the msg
		Signers() []address.Address
	}

	// Tx is an ordered list of msgs executed atomically
	Tx interface {
		Msgs() []Msg
		GasLimit() uint64
		// ValidateBasic runs stateless checks of the transaction itself
		ValidateBasic() error
	}

	// AuthTx is a transaction carrying fee and signature
	AuthTx interface {
		Tx
		Nonce() uint64
		GasPrice() *uint256.Int
		// Fee is gas limit times gas price, reporting whether it overflows
		Fee() (*uint256.Int, bool)
		Memo() string
		PublicKey() crypto.PublicKey
		Signature() []byte
		// SignHash is the hash signed by the sender
		SignHash() (hash.Hash256, error)
	}

	// TxDecoder decodes the raw bytes of a transaction
	TxDecoder func([]byte) (Tx, error)
)

// MsgName returns the registered name of a msg
func MsgName(msg Msg) string {
	return msg.Route() + "/" + msg.Type()
}
