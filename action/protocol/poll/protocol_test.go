// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package poll

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/db"
	"github.com/iotexproject/iotex-appchain/store"
)

type testValidator struct {
	pk       crypto.PublicKey
	operator string
}

func newTestValidator(t *testing.T) testValidator {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	op, err := crypto.GenerateKey()
	require.NoError(t, err)
	return testValidator{pk: sk.PublicKey(), operator: op.PublicKey().Address().String()}
}

func initPoll(t *testing.T, vals ...testValidator) (*Protocol, *store.CacheStore) {
	cs := store.NewCommitStore(db.NewMemKVStore())
	require.NoError(t, cs.Start(context.Background()))
	t.Cleanup(func() {
		require.NoError(t, cs.Stop(context.Background()))
	})
	sm := cs.CacheWrap()
	g := Genesis{}
	for i, v := range vals {
		g.Validators = append(g.Validators, GenesisValidator{
			PubKey:   v.pk.HexString(),
			Power:    int64(10 * (i + 1)),
			Operator: v.operator,
		})
	}
	b, err := json.Marshal(&g)
	require.NoError(t, err)
	p := NewProtocol()
	updates, err := p.InitGenesis(context.Background(), sm, b)
	require.NoError(t, err)
	require.Equal(t, len(vals), len(updates))
	return p, sm
}

func TestGenesis(t *testing.T) {
	require := require.New(t)
	v1, v2 := newTestValidator(t), newTestValidator(t)
	p, sm := initPoll(t, v1, v2)

	require.NoError(p.ValidateGenesis(p.DefaultGenesis()))
	for _, g := range []string{
		`{"validators":[{"pubKey":"zz","power":1,"operator":"` + v1.operator + `"}]}`,
		fmt.Sprintf(`{"validators":[{"pubKey":"%s","power":0,"operator":"%s"}]}`, v1.pk.HexString(), v1.operator),
		fmt.Sprintf(`{"validators":[{"pubKey":"%s","power":1,"operator":"bad"}]}`, v1.pk.HexString()),
		fmt.Sprintf(`{"validators":[{"pubKey":"%s","power":1,"operator":"%s"},{"pubKey":"%s","power":2,"operator":"%s"}]}`,
			v1.pk.HexString(), v1.operator, v1.pk.HexString(), v1.operator),
	} {
		require.Error(p.ValidateGenesis([]byte(g)), g)
	}

	exported, err := p.ExportGenesis(context.Background(), sm)
	require.NoError(err)
	var g Genesis
	require.NoError(json.Unmarshal(exported, &g))
	require.Equal(2, len(g.Validators))
}

func TestUpdatePower(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	v1, v2 := newTestValidator(t), newTestValidator(t)
	p, sm := initPoll(t, v1, v2)

	msg := &MsgUpdatePower{Operator: v1.operator, PubKey: v1.pk.HexString(), Power: 42}
	require.NoError(msg.ValidateBasic())
	require.Equal(v1.operator, msg.Signers()[0].String())
	require.Equal("poll/updatePower", action.MsgName(msg))
	require.ErrorIs((&MsgUpdatePower{Operator: v1.operator, PubKey: "00", Power: 1}).ValidateBasic(), action.ErrInvalidPubKey)
	require.ErrorIs((&MsgUpdatePower{Operator: v1.operator, PubKey: v1.pk.HexString(), Power: -1}).ValidateBasic(), action.ErrInvalidRequest)

	// only the operator can update the power
	_, err := p.Handle(ctx, sm, &MsgUpdatePower{Operator: v2.operator, PubKey: v1.pk.HexString(), Power: 1})
	require.ErrorIs(err, action.ErrUnauthorized)
	// unknown validator
	v3 := newTestValidator(t)
	_, err = p.Handle(ctx, sm, &MsgUpdatePower{Operator: v3.operator, PubKey: v3.pk.HexString(), Power: 1})
	require.ErrorIs(err, ErrValidatorNotFound)

	_, err = p.Handle(ctx, sm, msg)
	require.NoError(err)
	_, err = p.Handle(ctx, sm, &MsgUpdatePower{Operator: v2.operator, PubKey: v2.pk.HexString(), Power: 0})
	require.NoError(err)

	// queued changes take effect at the end of the block
	v, err := LoadValidator(sm, v1.pk.Bytes())
	require.NoError(err)
	require.Equal(int64(10), v.Power)

	updates, err := p.EndBlock(ctx, sm)
	require.NoError(err)
	require.Equal(2, len(updates))
	v, err = LoadValidator(sm, v1.pk.Bytes())
	require.NoError(err)
	require.Equal(int64(42), v.Power)
	_, err = LoadValidator(sm, v2.pk.Bytes())
	require.ErrorIs(err, ErrValidatorNotFound)

	// nothing is queued anymore
	updates, err = p.EndBlock(ctx, sm)
	require.NoError(err)
	require.Empty(updates)

	b, err := p.Query(ctx, sm, []string{"validators"}, nil)
	require.NoError(err)
	var gvs []GenesisValidator
	require.NoError(json.Unmarshal(b, &gvs))
	require.Equal(1, len(gvs))
	require.Equal(int64(42), gvs[0].Power)

	b, err = p.Query(ctx, sm, []string{"validator", v1.pk.HexString()}, nil)
	require.NoError(err)
	require.Contains(string(b), v1.operator)
	_, err = p.Query(ctx, sm, []string{"validator", "zz"}, nil)
	require.ErrorIs(err, action.ErrInvalidPubKey)
}

type invariantRecorder map[string]protocol.Invariant

func (r invariantRecorder) RegisterRoute(module, route string, invar protocol.Invariant) {
	r[module+"/"+route] = invar
}

func TestPositivePowerInvariant(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	v1 := newTestValidator(t)
	p, sm := initPoll(t, v1)

	r := invariantRecorder{}
	p.RegisterInvariants(r)
	invar, ok := r["poll/positive-power"]
	require.True(ok)
	_, broken := invar(ctx, sm)
	require.False(broken)

	require.NoError(storeValidator(sm, &Validator{PubKey: v1.pk.Bytes(), Power: -5, Operator: v1.operator}))
	msg, broken := invar(ctx, sm)
	require.True(broken)
	require.Contains(msg, "has power -5")
}
