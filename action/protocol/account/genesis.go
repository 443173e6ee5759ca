// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package account

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action/protocol"
)

type (
	// GenesisAccount is an account funded at genesis
	GenesisAccount struct {
		Address string `json:"address"`
		Balance string `json:"balance"`
		Nonce   uint64 `json:"nonce,omitempty"`
	}

	// Genesis is the genesis section of the account module
	Genesis struct {
		Accounts []GenesisAccount `json:"accounts"`
	}
)

// DefaultGenesis returns a genesis without accounts
func (p *Protocol) DefaultGenesis() []byte {
	return []byte(`{"accounts":[]}`)
}

// ValidateGenesis checks addresses are valid and unique, and balances are non-negative
func (p *Protocol) ValidateGenesis(b []byte) error {
	_, err := parseGenesis(b)
	return err
}

// InitGenesis funds the genesis accounts and records the total supply
func (p *Protocol) InitGenesis(_ context.Context, sm protocol.StateManager, b []byte) ([]abci.ValidatorUpdate, error) {
	accts, err := parseGenesis(b)
	if err != nil {
		return nil, err
	}
	supply := big.NewInt(0)
	for _, ga := range accts {
		acct := NewAccount()
		acct.Nonce = ga.nonce
		acct.AddBalance(ga.balance)
		if err := StoreAccount(sm, ga.addr, acct); err != nil {
			return nil, err
		}
		supply.Add(supply, ga.balance)
	}
	return nil, storeTotalSupply(sm, supply)
}

// ExportGenesis exports all accounts
func (p *Protocol) ExportGenesis(_ context.Context, sr protocol.StateReader) ([]byte, error) {
	g := Genesis{Accounts: []GenesisAccount{}}
	if err := forEachAccount(sr, func(addr address.Address, acct *Account) error {
		g.Accounts = append(g.Accounts, GenesisAccount{
			Address: addr.String(),
			Balance: acct.Balance.String(),
			Nonce:   acct.Nonce,
		})
		return nil
	}); err != nil {
		return nil, err
	}
	return json.Marshal(&g)
}

type genesisAccount struct {
	addr    address.Address
	balance *big.Int
	nonce   uint64
}

func parseGenesis(b []byte) ([]genesisAccount, error) {
	var g Genesis
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, errors.Wrap(err, "failed to decode account genesis")
	}
	seen := make(map[string]struct{}, len(g.Accounts))
	accts := make([]genesisAccount, 0, len(g.Accounts))
	for _, ga := range g.Accounts {
		addr, err := address.FromString(ga.Address)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid genesis address %s", ga.Address)
		}
		if _, ok := seen[addr.String()]; ok {
			return nil, errors.Errorf("duplicate genesis account %s", ga.Address)
		}
		seen[addr.String()] = struct{}{}
		balance, ok := new(big.Int).SetString(ga.Balance, 10)
		if !ok || balance.Sign() < 0 {
			return nil, errors.Errorf("invalid balance %s of genesis account %s", ga.Balance, ga.Address)
		}
		accts = append(accts, genesisAccount{addr: addr, balance: balance, nonce: ga.Nonce})
	}
	return accts, nil
}
