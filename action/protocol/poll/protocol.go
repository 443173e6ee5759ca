// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package poll

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/pkg/log"
)

// ModuleName is the name of the poll module
const ModuleName = "poll"

// errors of the poll codespace
var (
	ErrValidatorNotFound = action.RegisterError(ModuleName, 2, "validator not found")
)

type (
	// Protocol keeps the validator set and emits its changes at the end of blocks
	Protocol struct{}

	// GenesisValidator is a validator of the genesis set
	GenesisValidator struct {
		PubKey   string `json:"pubKey"`
		Power    int64  `json:"power"`
		Operator string `json:"operator"`
	}

	// Genesis is the genesis section of the poll module
	Genesis struct {
		Validators []GenesisValidator `json:"validators"`
	}
)

// NewProtocol instantiates the poll protocol
func NewProtocol() *Protocol { return &Protocol{} }

// Name returns the name of the module
func (p *Protocol) Name() string { return ModuleName }

// Route returns the route of msgs handled by the module
func (p *Protocol) Route() string { return ModuleName }

// QuerierRoute returns the route of queries answered by the module
func (p *Protocol) QuerierRoute() string { return ModuleName }

// RegisterMsgs registers the msgs of the module into the codec
func (p *Protocol) RegisterMsgs(c *action.Codec) error {
	return c.RegisterMsg(func() action.Msg { return &MsgUpdatePower{} })
}

// Handle handles a msg
func (p *Protocol) Handle(_ context.Context, sm protocol.StateManager, msg action.Msg) (*action.Result, error) {
	m, ok := msg.(*MsgUpdatePower)
	if !ok {
		return nil, action.ErrUnknownRequest.Wrapf("unrecognized %s msg type %T", ModuleName, msg)
	}
	pk, err := crypto.HexStringToPublicKey(m.PubKey)
	if err != nil {
		return nil, action.ErrInvalidPubKey.Wrap(err.Error())
	}
	v, err := LoadValidator(sm, pk.Bytes())
	if err != nil {
		return nil, err
	}
	if v.Operator != m.Operator {
		return nil, action.ErrUnauthorized.Wrapf("%s is not the operator of validator %s", m.Operator, m.PubKey)
	}
	if err := queuePowerChange(sm, v.PubKey, m.Power); err != nil {
		return nil, err
	}
	return (&action.Result{}).AddEvents(abci.NewEvent(UpdatePowerMsgType,
		abci.NewAttribute("pubKey", m.PubKey),
		abci.NewAttribute("power", strconv.FormatInt(m.Power, 10)),
	)), nil
}

// Query answers validators and validator/<pubKey hex>
func (p *Protocol) Query(_ context.Context, sr protocol.StateReader, path []string, _ []byte) ([]byte, error) {
	switch {
	case len(path) == 1 && path[0] == "validators":
		vs, err := Validators(sr)
		if err != nil {
			return nil, err
		}
		return json.Marshal(toGenesisValidators(vs))
	case len(path) == 2 && path[0] == "validator":
		pk, err := hex.DecodeString(path[1])
		if err != nil {
			return nil, action.ErrInvalidPubKey.Wrap(err.Error())
		}
		v, err := LoadValidator(sr, pk)
		if err != nil {
			return nil, err
		}
		return json.Marshal(toGenesisValidators([]*Validator{v})[0])
	default:
		return nil, action.ErrUnknownRequest.Wrapf("unknown poll query %v", path)
	}
}

// BeginBlock does nothing
func (p *Protocol) BeginBlock(context.Context, protocol.StateManager) error { return nil }

// EndBlock applies the queued power changes and returns them as validator updates
func (p *Protocol) EndBlock(ctx context.Context, sm protocol.StateManager) ([]abci.ValidatorUpdate, error) {
	changes, err := pendingPowerChanges(sm)
	if err != nil {
		return nil, err
	}
	updates := make([]abci.ValidatorUpdate, 0, len(changes))
	for _, c := range changes {
		if err := sm.Delete(pendingKey(c.pubKey)); err != nil {
			return nil, err
		}
		v, err := LoadValidator(sm, c.pubKey)
		if err != nil {
			return nil, err
		}
		if c.power == 0 {
			if err := sm.Delete(validatorKey(c.pubKey)); err != nil {
				return nil, err
			}
		} else {
			v.Power = c.power
			if err := storeValidator(sm, v); err != nil {
				return nil, err
			}
		}
		updates = append(updates, abci.ValidatorUpdate{PubKey: c.pubKey, Power: c.power})
	}
	if len(updates) > 0 {
		log.FromContext(ctx).Info("Validator set updated.", zap.Int("updates", len(updates)))
	}
	return updates, nil
}

// RegisterInvariants registers the positive power invariant
func (p *Protocol) RegisterInvariants(ir protocol.InvariantRegistry) {
	ir.RegisterRoute(ModuleName, "positive-power", func(_ context.Context, sr protocol.StateReader) (string, bool) {
		vs, err := Validators(sr)
		if err != nil {
			return err.Error(), true
		}
		for _, v := range vs {
			if v.Power <= 0 {
				return "validator " + hex.EncodeToString(v.PubKey) + " has power " + strconv.FormatInt(v.Power, 10), true
			}
		}
		return "", false
	})
}

// DefaultGenesis returns an empty validator set
func (p *Protocol) DefaultGenesis() []byte {
	return []byte(`{"validators":[]}`)
}

// ValidateGenesis checks public keys, operators and powers of the genesis validators
func (p *Protocol) ValidateGenesis(b []byte) error {
	_, err := parseGenesis(b)
	return err
}

// InitGenesis stores the genesis validators and returns them as the initial validator set
func (p *Protocol) InitGenesis(_ context.Context, sm protocol.StateManager, b []byte) ([]abci.ValidatorUpdate, error) {
	vs, err := parseGenesis(b)
	if err != nil {
		return nil, err
	}
	updates := make([]abci.ValidatorUpdate, 0, len(vs))
	for _, v := range vs {
		if err := storeValidator(sm, v); err != nil {
			return nil, err
		}
		updates = append(updates, abci.ValidatorUpdate{PubKey: v.PubKey, Power: v.Power})
	}
	return updates, nil
}

// ExportGenesis exports the validator set
func (p *Protocol) ExportGenesis(_ context.Context, sr protocol.StateReader) ([]byte, error) {
	vs, err := Validators(sr)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&Genesis{Validators: toGenesisValidators(vs)})
}

func parseGenesis(b []byte) ([]*Validator, error) {
	var g Genesis
	if err := json.Unmarshal(b, &g); err != nil {
		return nil, errors.Wrap(err, "failed to decode poll genesis")
	}
	seen := make(map[string]struct{}, len(g.Validators))
	vs := make([]*Validator, 0, len(g.Validators))
	for _, gv := range g.Validators {
		pk, err := crypto.HexStringToPublicKey(gv.PubKey)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid public key %s", gv.PubKey)
		}
		if _, ok := seen[pk.HexString()]; ok {
			return nil, errors.Errorf("duplicate validator %s", gv.PubKey)
		}
		seen[pk.HexString()] = struct{}{}
		if gv.Power <= 0 {
			return nil, errors.Errorf("validator %s has non-positive power %d", gv.PubKey, gv.Power)
		}
		if _, err := address.FromString(gv.Operator); err != nil {
			return nil, errors.Wrapf(err, "invalid operator %s", gv.Operator)
		}
		vs = append(vs, &Validator{PubKey: pk.Bytes(), Power: gv.Power, Operator: gv.Operator})
	}
	return vs, nil
}

func toGenesisValidators(vs []*Validator) []GenesisValidator {
	gvs := make([]GenesisValidator, 0, len(vs))
	for _, v := range vs {
		gvs = append(gvs, GenesisValidator{
			PubKey:   hex.EncodeToString(v.PubKey),
			Power:    v.Power,
			Operator: v.Operator,
		})
	}
	return gvs
}
