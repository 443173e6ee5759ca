// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counter

import (
	"github.com/iotexproject/iotex-address/address"

	"github.com/iotexproject/iotex-appchain/action"
)

// msg types
const (
	SetMsgType       = "set"
	IncrementMsgType = "increment"
)

type (
	// MsgSet sets counter Key to Value
	MsgSet struct {
		Signer string `json:"signer"`
		Key    string `json:"key"`
		Value  uint64 `json:"value"`
	}

	// MsgIncrement adds Delta to counter Key, the counter must exist
	MsgIncrement struct {
		Signer string `json:"signer"`
		Key    string `json:"key"`
		Delta  uint64 `json:"delta"`
	}
)

// Route returns the route of the msg
func (msg *MsgSet) Route() string { return ModuleName }

// Type returns the type of the msg
func (msg *MsgSet) Type() string { return SetMsgType }

// ValidateBasic checks signer and key
func (msg *MsgSet) ValidateBasic() error {
	return validateMsg(msg.Signer, msg.Key)
}

// Signers returns the signer
func (msg *MsgSet) Signers() []address.Address {
	return signers(msg.Signer)
}

// Route returns the route of the msg
func (msg *MsgIncrement) Route() string { return ModuleName }

// Type returns the type of the msg
func (msg *MsgIncrement) Type() string { return IncrementMsgType }

// ValidateBasic checks signer, key and delta
func (msg *MsgIncrement) ValidateBasic() error {
	if err := validateMsg(msg.Signer, msg.Key); err != nil {
		return err
	}
	if msg.Delta == 0 {
		return action.ErrInvalidRequest.Wrap("zero delta")
	}
	return nil
}

// Signers returns the signer
func (msg *MsgIncrement) Signers() []address.Address {
	return signers(msg.Signer)
}

func validateMsg(signer, key string) error {
	if _, err := address.FromString(signer); err != nil {
		return action.ErrInvalidAddress.Wrapf("invalid signer %s", signer)
	}
	return validateKey(key)
}

func signers(signer string) []address.Address {
	addr, err := address.FromString(signer)
	if err != nil {
		return nil
	}
	return []address.Address{addr}
}
