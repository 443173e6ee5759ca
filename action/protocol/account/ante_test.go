// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package account

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/gas"
)

func signedTransfer(t *testing.T, sk crypto.PrivateKey, nonce, gasLimit, gasPrice uint64, memo string) *action.StdTx {
	_, to := newTestKey(t)
	tx := (&action.StdTxBuilder{}).
		SetNonce(nonce).
		SetGasLimit(gasLimit).
		SetGasPrice(uint256.NewInt(gasPrice)).
		SetMemo(memo).
		AddMsgs(NewMsgTransfer(sk.PublicKey().Address(), to, big.NewInt(1))).
		Build()
	require.NoError(t, tx.Sign(sk))
	return tx
}

func anteCtx(mode protocol.ExecMode, meter gas.Meter) context.Context {
	return protocol.WithTxCtx(context.Background(), protocol.TxCtx{
		Mode:        mode,
		GasMeter:    meter,
		MinGasPrice: uint256.NewInt(1),
	})
}

func TestAnteHandler(t *testing.T) {
	require := require.New(t)
	p := NewProtocol(DefaultConfig)
	ante := p.AnteHandler()
	sk, sender := newTestKey(t)
	sm := newTestState(t)
	_, err := p.InitGenesis(context.Background(), protocol.ModuleStore(sm, ModuleName),
		[]byte(fmt.Sprintf(`{"accounts":[{"address":"%s","balance":"1000"}]}`, sender)))
	require.NoError(err)
	msm := protocol.ModuleStore(sm, ModuleName)

	meter := gas.NewMeter(10000)
	tx := signedTransfer(t, sk, 0, 100, 2, "")
	require.NoError(ante(anteCtx(protocol.ExecModeDeliver, meter), sm, tx))
	// charging the fee leaves the transaction untouched
	require.Equal(uint64(2), tx.GasPrice().Uint64())
	fee, overflow := tx.Fee()
	require.False(overflow)
	require.Equal(uint64(200), fee.Uint64())
	require.Equal(DefaultConfig.SigVerifyCost, meter.GasConsumed())
	acct, err := LoadAccount(msm, sender)
	require.NoError(err)
	require.Equal(uint64(1), acct.Nonce)
	require.Equal("800", acct.Balance.String())
	require.Equal("200", balanceOf(t, msm, FeeCollector()))
	_, broken := TotalSupplyInvariant(context.Background(), msm)
	require.False(broken)

	// replayed nonce
	err = ante(anteCtx(protocol.ExecModeDeliver, gas.NewMeter(10000)), sm, signedTransfer(t, sk, 0, 100, 2, ""))
	require.ErrorIs(err, action.ErrInvalidSequence)

	// fee exceeds balance
	err = ante(anteCtx(protocol.ExecModeDeliver, gas.NewMeter(10000)), sm, signedTransfer(t, sk, 1, 1000, 1, ""))
	require.ErrorIs(err, action.ErrInsufficientFunds)

	// gas price below the minimum is rejected in check mode only
	err = ante(anteCtx(protocol.ExecModeCheck, gas.NewMeter(10000)), sm, signedTransfer(t, sk, 1, 100, 0, ""))
	require.ErrorIs(err, action.ErrInsufficientFee)
	require.NoError(ante(anteCtx(protocol.ExecModeDeliver, gas.NewMeter(10000)), sm, signedTransfer(t, sk, 1, 100, 0, "")))

	// memo too large
	err = ante(anteCtx(protocol.ExecModeDeliver, gas.NewMeter(10000)), sm, signedTransfer(t, sk, 2, 100, 1, strings.Repeat("m", 257)))
	require.ErrorIs(err, action.ErrMemoTooLarge)

	// out of gas when verifying the signature
	err = ante(anteCtx(protocol.ExecModeDeliver, gas.NewMeter(10)), sm, signedTransfer(t, sk, 2, 100, 1, ""))
	require.ErrorIs(err, gas.ErrOutOfGas)
}

func TestAnteHandlerSignature(t *testing.T) {
	require := require.New(t)
	sk, _ := newTestKey(t)
	other, _ := newTestKey(t)
	sm := newTestState(t)

	// msg signed by another key
	tx := (&action.StdTxBuilder{}).
		SetGasLimit(100).
		AddMsgs(NewMsgTransfer(other.PublicKey().Address(), sk.PublicKey().Address(), big.NewInt(1))).
		Build()
	require.NoError(tx.Sign(sk))
	ante := NewProtocol(DefaultConfig).AnteHandler()
	err := ante(anteCtx(protocol.ExecModeDeliver, gas.NewMeter(10000)), sm, tx)
	require.ErrorIs(err, action.ErrUnauthorized)

	// unsigned
	unsigned := (&action.StdTxBuilder{}).SetGasLimit(100).AddMsgs(NewMsgTransfer(sk.PublicKey().Address(), sk.PublicKey().Address(), big.NewInt(1))).Build()
	err = ante(anteCtx(protocol.ExecModeDeliver, gas.NewMeter(10000)), sm, unsigned)
	require.ErrorIs(err, action.ErrInvalidPubKey)

	// verifier rejects, except in simulation
	reject := NewProtocol(DefaultConfig, WithSignatureVerifier(func(crypto.PublicKey, hash.Hash256, []byte) bool {
		return false
	})).AnteHandler()
	err = reject(anteCtx(protocol.ExecModeDeliver, gas.NewMeter(10000)), sm, signedTransfer(t, sk, 0, 100, 0, ""))
	require.ErrorIs(err, action.ErrUnauthorized)
	require.NoError(reject(anteCtx(protocol.ExecModeSimulate, gas.NewMeter(10000)), sm, signedTransfer(t, sk, 0, 100, 0, "")))
}
