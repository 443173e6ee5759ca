// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package account

import (
	"context"

	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
)

// gas descriptors
const (
	_descSigVerify = "ante verify: secp256k1"
)

// AnteHandler returns the handler checking memo, signature and nonce of a transaction and
// deducting its fee. It is given the whole state and works in the key space of the module.
func (p *Protocol) AnteHandler() protocol.AnteHandler {
	return func(ctx context.Context, sm protocol.StateManager, tx action.Tx) error {
		authTx, ok := tx.(action.AuthTx)
		if !ok {
			return action.ErrTxDecode.Wrapf("transaction type %T carries no signature", tx)
		}
		txCtx := protocol.MustGetTxCtx(ctx)
		if uint64(len(authTx.Memo())) > p.cfg.MaxMemoCharacters {
			return action.ErrMemoTooLarge.Wrapf("memo of %d characters exceeds %d", len(authTx.Memo()), p.cfg.MaxMemoCharacters)
		}
		pk := authTx.PublicKey()
		if pk == nil {
			return action.ErrInvalidPubKey.Wrap("missing public key")
		}
		sender := pk.Address()
		if sender == nil {
			return action.ErrInvalidPubKey.Wrap("failed to derive address")
		}
		for _, msg := range authTx.Msgs() {
			for _, signer := range msg.Signers() {
				if signer == nil || signer.String() != sender.String() {
					return action.ErrUnauthorized.Wrapf("msg %s is not signed by its signer", action.MsgName(msg))
				}
			}
		}
		if txCtx.GasMeter != nil {
			if err := txCtx.GasMeter.ConsumeGas(p.cfg.SigVerifyCost, _descSigVerify); err != nil {
				return err
			}
		}
		if txCtx.Mode != protocol.ExecModeSimulate {
			h, err := authTx.SignHash()
			if err != nil {
				return action.ErrTxDecode.Wrap(err.Error())
			}
			if !p.verifier(pk, h, authTx.Signature()) {
				return action.ErrUnauthorized.Wrap("signature verification failed")
			}
		}

		msm := protocol.ModuleStore(sm, ModuleName)
		acct, err := LoadAccount(msm, sender)
		if err != nil {
			return err
		}
		if acct.Nonce != authTx.Nonce() {
			return action.ErrInvalidSequence.Wrapf("account nonce %d, transaction nonce %d", acct.Nonce, authTx.Nonce())
		}
		acct.Nonce++

		price := authTx.GasPrice()
		if txCtx.Mode.IsCheck() && txCtx.MinGasPrice != nil && price.Lt(txCtx.MinGasPrice) {
			return action.ErrInsufficientFee.Wrapf("gas price %s is lower than %s", price.Dec(), txCtx.MinGasPrice.Dec())
		}
		fee, overflow := authTx.Fee()
		if overflow {
			return action.ErrInsufficientFee.Wrap("fee overflows")
		}
		if !fee.IsZero() {
			if err := acct.SubBalance(fee.ToBig()); err != nil {
				return err
			}
		}
		if err := StoreAccount(msm, sender, acct); err != nil {
			return err
		}
		if fee.IsZero() {
			return nil
		}
		collector, err := LoadAccount(msm, _feeCollector)
		if err != nil {
			return err
		}
		collector.AddBalance(fee.ToBig())
		return StoreAccount(msm, _feeCollector, collector)
	}
}
