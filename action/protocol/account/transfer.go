// Copyright (c) 2018 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package account

import (
	"context"
	"math/big"

	"github.com/iotexproject/iotex-address/address"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
)

// TransferMsgType is the type of MsgTransfer
const TransferMsgType = "transfer"

// MsgTransfer moves tokens between accounts
type MsgTransfer struct {
	Sender    string `json:"sender"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

// NewMsgTransfer returns a MsgTransfer
func NewMsgTransfer(sender, recipient address.Address, amount *big.Int) *MsgTransfer {
	return &MsgTransfer{
		Sender:    sender.String(),
		Recipient: recipient.String(),
		Amount:    amount.String(),
	}
}

// Route returns the route of the msg
func (msg *MsgTransfer) Route() string { return ModuleName }

// Type returns the type of the msg
func (msg *MsgTransfer) Type() string { return TransferMsgType }

// ValidateBasic checks addresses and amount
func (msg *MsgTransfer) ValidateBasic() error {
	_, _, _, err := msg.parse()
	return err
}

// Signers returns the sender
func (msg *MsgTransfer) Signers() []address.Address {
	sender, err := address.FromString(msg.Sender)
	if err != nil {
		return nil
	}
	return []address.Address{sender}
}

func (msg *MsgTransfer) parse() (address.Address, address.Address, *big.Int, error) {
	sender, err := address.FromString(msg.Sender)
	if err != nil {
		return nil, nil, nil, action.ErrInvalidAddress.Wrapf("invalid sender %s", msg.Sender)
	}
	recipient, err := address.FromString(msg.Recipient)
	if err != nil {
		return nil, nil, nil, action.ErrInvalidAddress.Wrapf("invalid recipient %s", msg.Recipient)
	}
	amount, ok := new(big.Int).SetString(msg.Amount, 10)
	if !ok || amount.Sign() <= 0 {
		return nil, nil, nil, action.ErrInvalidRequest.Wrapf("invalid amount %s", msg.Amount)
	}
	return sender, recipient, amount, nil
}

func (p *Protocol) handleTransfer(_ context.Context, sm protocol.StateManager, msg *MsgTransfer) (*action.Result, error) {
	sender, recipient, amount, err := msg.parse()
	if err != nil {
		return nil, err
	}
	if err := Transfer(sm, sender, recipient, amount); err != nil {
		return nil, err
	}
	return (&action.Result{}).AddEvents(abci.NewEvent(
		TransferMsgType,
		abci.NewAttribute("sender", sender.String()),
		abci.NewAttribute("recipient", recipient.String()),
		abci.NewAttribute("amount", amount.String()),
	)), nil
}

// Transfer moves amount from sender to recipient
func Transfer(sm protocol.StateManager, sender, recipient address.Address, amount *big.Int) error {
	from, err := LoadAccount(sm, sender)
	if err != nil {
		return err
	}
	if err := from.SubBalance(amount); err != nil {
		return err
	}
	if err := StoreAccount(sm, sender, from); err != nil {
		return err
	}
	// load after storing the sender, so that a self transfer is a no-op
	to, err := LoadAccount(sm, recipient)
	if err != nil {
		return err
	}
	to.AddBalance(amount)
	return StoreAccount(sm, recipient, to)
}
