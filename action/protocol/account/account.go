// Copyright (c) 2018 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package account

import (
	"bytes"
	"encoding/gob"
	"math/big"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/store"
)

var (
	// ErrFailedToMarshalState is the error that the state marshaling is failed
	ErrFailedToMarshalState = errors.New("failed to marshal state")
	// ErrFailedToUnmarshalState is the error that the state un-marshaling is failed
	ErrFailedToUnmarshalState = errors.New("failed to unmarshal state")

	_accountPrefix = []byte("acct/")
	_supplyKey     = []byte("supply")

	_feeCollector address.Address
)

func init() {
	h := hash.Hash160b([]byte("feeCollector"))
	addr, err := address.FromBytes(h[:])
	if err != nil {
		panic(err)
	}
	_feeCollector = addr
}

// FeeCollector returns the account receiving transaction fees
func FeeCollector() address.Address { return _feeCollector }

// Account is the state of an account
type Account struct {
	// nonce of the next transaction sent by the account
	Nonce   uint64
	Balance *big.Int
}

// NewAccount returns an empty account
func NewAccount() *Account {
	return &Account{Balance: big.NewInt(0)}
}

// Serialize serializes account state into bytes
func (st *Account) Serialize() ([]byte, error) {
	var ss bytes.Buffer
	e := gob.NewEncoder(&ss)
	if err := e.Encode(st); err != nil {
		return nil, ErrFailedToMarshalState
	}
	return ss.Bytes(), nil
}

// Deserialize deserializes bytes into account state
func (st *Account) Deserialize(ss []byte) error {
	e := gob.NewDecoder(bytes.NewBuffer(ss))
	if err := e.Decode(st); err != nil {
		return ErrFailedToUnmarshalState
	}
	if st.Balance == nil {
		st.Balance = big.NewInt(0)
	}
	return nil
}

// AddBalance adds balance for account state
func (st *Account) AddBalance(amount *big.Int) {
	st.Balance.Add(st.Balance, amount)
}

// SubBalance subtracts balance for account state
func (st *Account) SubBalance(amount *big.Int) error {
	// make sure there's enough fund to spend
	if amount.Cmp(st.Balance) == 1 {
		return action.ErrInsufficientFunds.Wrapf("balance %s is less than %s", st.Balance, amount)
	}
	st.Balance.Sub(st.Balance, amount)
	return nil
}

func accountKey(addr address.Address) []byte {
	return append(append([]byte{}, _accountPrefix...), addr.Bytes()...)
}

// LoadAccount loads the account from the state of the module, a missing account is empty
func LoadAccount(sr protocol.StateReader, addr address.Address) (*Account, error) {
	b, err := sr.Get(accountKey(addr))
	switch errors.Cause(err) {
	case nil:
	case store.ErrNotExist:
		return NewAccount(), nil
	default:
		return nil, errors.Wrapf(err, "failed to load account %s", addr.String())
	}
	acct := &Account{}
	if err := acct.Deserialize(b); err != nil {
		return nil, errors.Wrapf(err, "failed to decode account %s", addr.String())
	}
	return acct, nil
}

// StoreAccount writes the account into the state of the module
func StoreAccount(sm protocol.StateManager, addr address.Address, acct *Account) error {
	b, err := acct.Serialize()
	if err != nil {
		return err
	}
	return sm.Set(accountKey(addr), b)
}

// TotalSupply returns the sum of all balances recorded at genesis
func TotalSupply(sr protocol.StateReader) (*big.Int, error) {
	b, err := sr.Get(_supplyKey)
	switch errors.Cause(err) {
	case nil:
		return new(big.Int).SetBytes(b), nil
	case store.ErrNotExist:
		return big.NewInt(0), nil
	default:
		return nil, err
	}
}

func storeTotalSupply(sm protocol.StateManager, supply *big.Int) error {
	return sm.Set(_supplyKey, supply.Bytes())
}

// forEachAccount iterates all accounts in address order
func forEachAccount(sr protocol.StateReader, fn func(address.Address, *Account) error) error {
	return sr.Iterate(_accountPrefix, func(k, v []byte) error {
		addr, err := address.FromBytes(k[len(_accountPrefix):])
		if err != nil {
			return errors.Wrapf(err, "invalid account key %x", k)
		}
		acct := &Account{}
		if err := acct.Deserialize(v); err != nil {
			return err
		}
		return fn(addr, acct)
	})
}
