// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package poll

import (
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/iotex-address/address"

	"github.com/iotexproject/iotex-appchain/action"
)

// UpdatePowerMsgType is the type of MsgUpdatePower
const UpdatePowerMsgType = "updatePower"

// MsgUpdatePower queues a power change of a validator, applied at the end of the block.
// Power 0 removes the validator.
type MsgUpdatePower struct {
	Operator string `json:"operator"`
	PubKey   string `json:"pubKey"`
	Power    int64  `json:"power"`
}

// Route returns the route of the msg
func (msg *MsgUpdatePower) Route() string { return ModuleName }

// Type returns the type of the msg
func (msg *MsgUpdatePower) Type() string { return UpdatePowerMsgType }

// ValidateBasic checks operator, public key and power
func (msg *MsgUpdatePower) ValidateBasic() error {
	if _, err := address.FromString(msg.Operator); err != nil {
		return action.ErrInvalidAddress.Wrapf("invalid operator %s", msg.Operator)
	}
	if _, err := crypto.HexStringToPublicKey(msg.PubKey); err != nil {
		return action.ErrInvalidPubKey.Wrap(err.Error())
	}
	if msg.Power < 0 {
		return action.ErrInvalidRequest.Wrapf("negative power %d", msg.Power)
	}
	return nil
}

// Signers returns the operator
func (msg *MsgUpdatePower) Signers() []address.Address {
	addr, err := address.FromString(msg.Operator)
	if err != nil {
		return nil
	}
	return []address.Address{addr}
}
