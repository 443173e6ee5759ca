// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"encoding/hex"
	"encoding/json"
	"sync"

	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/pkg/errors"
)

// Codec encodes and decodes StdTx with the msgs registered by modules
type Codec struct {
	mu    sync.RWMutex
	ctors map[string]func() Msg
}

// NewCodec creates an empty codec
func NewCodec() *Codec {
	return &Codec{
		ctors: make(map[string]func() Msg),
	}
}

// RegisterMsg registers the constructor of a msg type, the constructor returns a pointer to a zero msg
func (c *Codec) RegisterMsg(ctor func() Msg) error {
	name := MsgName(ctor())
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.ctors[name]; ok {
		return errors.Errorf("msg %s is already registered", name)
	}
	c.ctors[name] = ctor
	return nil
}

// EncodeTx encodes a transaction
func (c *Codec) EncodeTx(tx *StdTx) ([]byte, error) {
	j, err := tx.toJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

// DecodeTx decodes a transaction, it can be used as TxDecoder
func (c *Codec) DecodeTx(b []byte) (Tx, error) {
	var j stdTxJSON
	if err := json.Unmarshal(b, &j); err != nil {
		return nil, ErrTxDecode.Wrap(err.Error())
	}
	tx := &StdTx{
		nonce:     j.Nonce,
		gasLimit:  j.GasLimit,
		memo:      j.Memo,
		signature: j.Signature,
		gasPrice:  uint256.NewInt(0),
	}
	if j.GasPrice != "" {
		price, err := uint256.FromDecimal(j.GasPrice)
		if err != nil {
			return nil, ErrTxDecode.Wrapf("invalid gas price %s", j.GasPrice)
		}
		tx.gasPrice = price
	}
	if j.PubKey != "" {
		pkBytes, err := hex.DecodeString(j.PubKey)
		if err != nil {
			return nil, ErrTxDecode.Wrapf("invalid public key %s", j.PubKey)
		}
		pk, err := crypto.BytesToPublicKey(pkBytes)
		if err != nil {
			return nil, ErrInvalidPubKey.Wrap(err.Error())
		}
		tx.pubKey = pk
	}
	for i, m := range j.Msgs {
		msg, err := c.DecodeMsg(m.Type, m.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "msg %d", i)
		}
		tx.msgs = append(tx.msgs, msg)
	}
	return tx, nil
}

// DecodeMsg decodes the json value of a registered msg, name is route/type
func (c *Codec) DecodeMsg(name string, value []byte) (Msg, error) {
	c.mu.RLock()
	ctor, ok := c.ctors[name]
	c.mu.RUnlock()
	if !ok {
		return nil, ErrTxDecode.Wrapf("unregistered msg type %s", name)
	}
	msg := ctor()
	if err := json.Unmarshal(value, msg); err != nil {
		return nil, ErrTxDecode.Wrapf("failed to decode msg of type %s: %v", name, err)
	}
	return msg, nil
}
