// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"encoding/json"

	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
)

// StdTx is the reference transaction envelope: msgs with nonce, fee, memo and a secp256k1 signature
type StdTx struct {
	msgs      []Msg
	nonce     uint64
	gasLimit  uint64
	gasPrice  *uint256.Int
	memo      string
	pubKey    crypto.PublicKey
	signature []byte
}

var _ AuthTx = (*StdTx)(nil)

// Msgs returns the msgs
func (tx *StdTx) Msgs() []Msg { return tx.msgs }

// Nonce returns the nonce
func (tx *StdTx) Nonce() uint64 { return tx.nonce }

// GasLimit returns the gas limit
func (tx *StdTx) GasLimit() uint64 { return tx.gasLimit }

// GasPrice returns a copy of the gas price
func (tx *StdTx) GasPrice() *uint256.Int {
	if tx.gasPrice == nil {
		return uint256.NewInt(0)
	}
	return new(uint256.Int).Set(tx.gasPrice)
}

// Memo returns the memo
func (tx *StdTx) Memo() string { return tx.memo }

// PublicKey returns the public key of the sender
func (tx *StdTx) PublicKey() crypto.PublicKey { return tx.pubKey }

// Signature returns the signature
func (tx *StdTx) Signature() []byte { return tx.signature }

// Fee returns gas limit times gas price
func (tx *StdTx) Fee() (*uint256.Int, bool) {
	return new(uint256.Int).MulOverflow(tx.GasPrice(), uint256.NewInt(tx.gasLimit))
}

// ValidateBasic checks the transaction has msgs and a consistent signature
func (tx *StdTx) ValidateBasic() error {
	if len(tx.msgs) == 0 {
		return ErrInvalidRequest.Wrap("transaction has no msg")
	}
	if len(tx.signature) > 0 && tx.pubKey == nil {
		return ErrInvalidPubKey.Wrap("signature without public key")
	}
	if _, overflow := tx.Fee(); overflow {
		return ErrInsufficientFee.Wrap("fee overflows")
	}
	return nil
}

// SignHash returns the hash of the sign bytes
func (tx *StdTx) SignHash() (hash.Hash256, error) {
	b, err := tx.signBytes()
	if err != nil {
		return hash.ZeroHash256, err
	}
	return hash.Hash256b(b), nil
}

// Sign signs the transaction with the sender's private key
func (tx *StdTx) Sign(sk crypto.PrivateKey) error {
	h, err := tx.SignHash()
	if err != nil {
		return err
	}
	sig, err := sk.Sign(h[:])
	if err != nil {
		return errors.Wrap(err, "failed to sign transaction")
	}
	tx.pubKey = sk.PublicKey()
	tx.signature = sig
	return nil
}

// signBytes is the canonical encoding of the transaction without public key and signature
func (tx *StdTx) signBytes() ([]byte, error) {
	core, err := tx.toJSON()
	if err != nil {
		return nil, err
	}
	core.PubKey = ""
	core.Signature = nil
	return json.Marshal(core)
}

type (
	stdTxJSON struct {
		Msgs      []msgJSON `json:"msgs"`
		Nonce     uint64    `json:"nonce"`
		GasLimit  uint64    `json:"gasLimit"`
		GasPrice  string    `json:"gasPrice"`
		Memo      string    `json:"memo,omitempty"`
		PubKey    string    `json:"pubKey,omitempty"`
		Signature []byte    `json:"signature,omitempty"`
	}

	msgJSON struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
)

func (tx *StdTx) toJSON() (*stdTxJSON, error) {
	msgs := make([]msgJSON, 0, len(tx.msgs))
	for _, msg := range tx.msgs {
		value, err := json.Marshal(msg)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode msg %s", MsgName(msg))
		}
		msgs = append(msgs, msgJSON{Type: MsgName(msg), Value: value})
	}
	ret := &stdTxJSON{
		Msgs:      msgs,
		Nonce:     tx.nonce,
		GasLimit:  tx.gasLimit,
		GasPrice:  tx.GasPrice().Dec(),
		Memo:      tx.memo,
		Signature: tx.signature,
	}
	if tx.pubKey != nil {
		ret.PubKey = tx.pubKey.HexString()
	}
	return ret, nil
}
