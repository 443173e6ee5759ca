// Copyright (c) 2018 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package account

import (
	"context"
	"encoding/json"
	"math/big"

	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/iotexproject/iotex-address/address"

	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
)

// ModuleName is the name of the account module
const ModuleName = "account"

type (
	// Config is the config of the account module
	Config struct {
		MaxMemoCharacters uint64 `yaml:"maxMemoCharacters"`
		SigVerifyCost     uint64 `yaml:"sigVerifyCost"`
	}

	// SignatureVerifier verifies the signature of a hash
	SignatureVerifier func(pk crypto.PublicKey, h hash.Hash256, sig []byte) bool

	// Option is the option of the protocol
	Option func(*Protocol)

	// Protocol defines the protocol of handling account
	Protocol struct {
		protocol.NopLifecycle
		cfg      Config
		verifier SignatureVerifier
	}

	// queryAccount is the response of an account query
	queryAccount struct {
		Address string `json:"address"`
		Balance string `json:"balance"`
		Nonce   uint64 `json:"nonce"`
	}
)

// DefaultConfig is the default config of the account module
var DefaultConfig = Config{
	MaxMemoCharacters: 256,
	SigVerifyCost:     1000,
}

// Secp256k1Verifier verifies a secp256k1 signature
func Secp256k1Verifier(pk crypto.PublicKey, h hash.Hash256, sig []byte) bool {
	return pk.Verify(h[:], sig)
}

// WithSignatureVerifier sets the signature verifier
func WithSignatureVerifier(v SignatureVerifier) Option {
	return func(p *Protocol) {
		p.verifier = v
	}
}

// NewProtocol instantiates the protocol of account
func NewProtocol(cfg Config, opts ...Option) *Protocol {
	p := &Protocol{
		cfg:      cfg,
		verifier: Secp256k1Verifier,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the name of the module
func (p *Protocol) Name() string { return ModuleName }

// Route returns the route of msgs handled by the module
func (p *Protocol) Route() string { return ModuleName }

// QuerierRoute returns the route of queries answered by the module
func (p *Protocol) QuerierRoute() string { return ModuleName }

// RegisterMsgs registers the msgs of the module into the codec
func (p *Protocol) RegisterMsgs(c *action.Codec) error {
	return c.RegisterMsg(func() action.Msg { return &MsgTransfer{} })
}

// Handle handles a msg
func (p *Protocol) Handle(ctx context.Context, sm protocol.StateManager, msg action.Msg) (*action.Result, error) {
	switch msg := msg.(type) {
	case *MsgTransfer:
		return p.handleTransfer(ctx, sm, msg)
	default:
		return nil, action.ErrUnknownRequest.Wrapf("unrecognized %s msg type %T", ModuleName, msg)
	}
}

// Query answers queries of balance/<addr>, account/<addr> and supply
func (p *Protocol) Query(_ context.Context, sr protocol.StateReader, path []string, _ []byte) ([]byte, error) {
	if len(path) == 0 {
		return nil, action.ErrUnknownRequest.Wrap("empty account query")
	}
	switch path[0] {
	case "balance", "account":
		if len(path) != 2 {
			return nil, action.ErrUnknownRequest.Wrapf("invalid %s query", path[0])
		}
		addr, err := address.FromString(path[1])
		if err != nil {
			return nil, action.ErrInvalidAddress.Wrap(err.Error())
		}
		acct, err := LoadAccount(sr, addr)
		if err != nil {
			return nil, err
		}
		if path[0] == "balance" {
			return []byte(acct.Balance.String()), nil
		}
		return json.Marshal(&queryAccount{
			Address: addr.String(),
			Balance: acct.Balance.String(),
			Nonce:   acct.Nonce,
		})
	case "supply":
		supply, err := TotalSupply(sr)
		if err != nil {
			return nil, err
		}
		return []byte(supply.String()), nil
	default:
		return nil, action.ErrUnknownRequest.Wrapf("unknown account query %s", path[0])
	}
}

// RegisterInvariants registers the total supply invariant
func (p *Protocol) RegisterInvariants(ir protocol.InvariantRegistry) {
	ir.RegisterRoute(ModuleName, "total-supply", TotalSupplyInvariant)
}

// TotalSupplyInvariant checks the balances sum up to the total supply
func TotalSupplyInvariant(_ context.Context, sr protocol.StateReader) (string, bool) {
	supply, err := TotalSupply(sr)
	if err != nil {
		return err.Error(), true
	}
	sum := big.NewInt(0)
	if err := forEachAccount(sr, func(_ address.Address, acct *Account) error {
		sum.Add(sum, acct.Balance)
		return nil
	}); err != nil {
		return err.Error(), true
	}
	if sum.Cmp(supply) != 0 {
		return "sum of balances " + sum.String() + " != total supply " + supply.String(), true
	}
	return "", false
}
