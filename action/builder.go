// Copyright (c) 2018 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package action

import (
	"github.com/holiman/uint256"
)

// StdTxBuilder is used to build a StdTx.
type StdTxBuilder struct {
	tx StdTx
}

// SetNonce sets tx's nonce.
func (b *StdTxBuilder) SetNonce(n uint64) *StdTxBuilder {
	b.tx.nonce = n
	return b
}

// SetGasLimit sets tx's gas limit.
func (b *StdTxBuilder) SetGasLimit(l uint64) *StdTxBuilder {
	b.tx.gasLimit = l
	return b
}

// SetGasPrice sets tx's gas price.
func (b *StdTxBuilder) SetGasPrice(p *uint256.Int) *StdTxBuilder {
	if p == nil {
		return b
	}
	b.tx.gasPrice = new(uint256.Int).Set(p)
	return b
}

// SetMemo sets tx's memo.
func (b *StdTxBuilder) SetMemo(memo string) *StdTxBuilder {
	b.tx.memo = memo
	return b
}

// AddMsgs appends msgs to the tx.
func (b *StdTxBuilder) AddMsgs(msgs ...Msg) *StdTxBuilder {
	b.tx.msgs = append(b.tx.msgs, msgs...)
	return b
}

// Build builds a new unsigned tx.
func (b *StdTxBuilder) Build() *StdTx {
	tx := b.tx
	if tx.gasPrice == nil {
		tx.gasPrice = uint256.NewInt(0)
	}
	tx.msgs = append([]Msg(nil), b.tx.msgs...)
	return &tx
}
