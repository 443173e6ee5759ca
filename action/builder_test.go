// Copyright (c) 2018 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package action

import (
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/stretchr/testify/require"
)

func TestStdTxBuilder(t *testing.T) {
	require := require.New(t)
	tx := (&StdTxBuilder{}).
		SetNonce(3).
		SetGasLimit(1000).
		SetGasPrice(uint256.NewInt(2)).
		SetMemo("memo").
		AddMsgs(&testMsg{Key: "a", Value: 1}).
		AddMsgs(&testMsg{Key: "b", Value: 2}).
		Build()
	require.Equal(uint64(3), tx.Nonce())
	require.Equal(uint64(1000), tx.GasLimit())
	require.Equal(uint64(2), tx.GasPrice().Uint64())
	require.Equal("memo", tx.Memo())
	require.Len(tx.Msgs(), 2)
	fee, overflow := tx.Fee()
	require.False(overflow)
	require.Equal(uint64(2000), fee.Uint64())
	require.NoError(tx.ValidateBasic())

	// unset gas price is zero
	tx = (&StdTxBuilder{}).AddMsgs(&testMsg{Key: "a"}).Build()
	require.True(tx.GasPrice().IsZero())
	require.Nil(tx.PublicKey())
}

func TestStdTxSign(t *testing.T) {
	require := require.New(t)
	sk, err := crypto.GenerateKey()
	require.NoError(err)
	tx := (&StdTxBuilder{}).SetNonce(1).SetGasLimit(100).AddMsgs(&testMsg{Key: "a", Value: 1}).Build()
	h, err := tx.SignHash()
	require.NoError(err)
	require.NoError(tx.Sign(sk))
	require.Equal(sk.PublicKey().HexString(), tx.PublicKey().HexString())
	require.True(tx.PublicKey().Verify(h[:], tx.Signature()))

	// the signature does not cover itself
	h2, err := tx.SignHash()
	require.NoError(err)
	require.Equal(h, h2)

	// any change of the signed fields changes the hash
	other := (&StdTxBuilder{}).SetNonce(2).SetGasLimit(100).AddMsgs(&testMsg{Key: "a", Value: 1}).Build()
	h3, err := other.SignHash()
	require.NoError(err)
	require.NotEqual(h, h3)
}

func TestStdTxValidateBasic(t *testing.T) {
	for _, c := range []struct {
		name string
		tx   *StdTx
		err  *Error
	}{
		{"no msg", (&StdTxBuilder{}).Build(), ErrInvalidRequest},
		{
			"signature without key",
			&StdTx{msgs: []Msg{&testMsg{Key: "a"}}, signature: []byte{1}, gasPrice: uint256.NewInt(0)},
			ErrInvalidPubKey,
		},
		{
			"fee overflow",
			(&StdTxBuilder{}).
				SetGasLimit(math.MaxUint64).
				SetGasPrice(new(uint256.Int).Lsh(uint256.NewInt(1), 200)).
				AddMsgs(&testMsg{Key: "a"}).
				Build(),
			ErrInsufficientFee,
		},
	} {
		err := c.tx.ValidateBasic()
		require.ErrorIs(t, err, c.err, c.name)
	}
}
