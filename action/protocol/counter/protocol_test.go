// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package counter

import (
	"context"
	"math"
	"testing"

	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/db"
	"github.com/iotexproject/iotex-appchain/pkg/util/byteutil"
	"github.com/iotexproject/iotex-appchain/store"
)

func newTestState(t *testing.T) *store.CacheStore {
	cs := store.NewCommitStore(db.NewMemKVStore())
	require.NoError(t, cs.Start(context.Background()))
	t.Cleanup(func() {
		require.NoError(t, cs.Stop(context.Background()))
	})
	return cs.CacheWrap()
}

func TestMsgs(t *testing.T) {
	require := require.New(t)
	sk, err := crypto.GenerateKey()
	require.NoError(err)
	signer := sk.PublicKey().Address().String()

	set := &MsgSet{Signer: signer, Key: "k", Value: 1}
	require.NoError(set.ValidateBasic())
	require.Equal("counter/set", action.MsgName(set))
	require.Equal(signer, set.Signers()[0].String())
	require.ErrorIs((&MsgSet{Signer: signer}).ValidateBasic(), ErrInvalidKey)
	require.ErrorIs((&MsgSet{Signer: "bad", Key: "k"}).ValidateBasic(), action.ErrInvalidAddress)

	inc := &MsgIncrement{Signer: signer, Key: "k", Delta: 1}
	require.NoError(inc.ValidateBasic())
	require.Equal("counter/increment", action.MsgName(inc))
	require.ErrorIs((&MsgIncrement{Signer: signer, Key: "k"}).ValidateBasic(), action.ErrInvalidRequest)
	require.Nil((&MsgIncrement{Signer: "bad"}).Signers())
}

func TestHandle(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := NewProtocol()
	sm := newTestState(t)

	_, err := p.Handle(ctx, sm, &MsgIncrement{Key: "k", Delta: 1})
	require.ErrorIs(err, ErrCounterNotFound)
	codespace, code, _ := action.ABCIInfo(err, false)
	require.Equal(ModuleName, codespace)
	require.Equal(uint32(2), code)

	res, err := p.Handle(ctx, sm, &MsgSet{Key: "k", Value: 1})
	require.NoError(err)
	require.Equal(SetMsgType, res.Events[0].Type)

	res, err = p.Handle(ctx, sm, &MsgIncrement{Key: "k", Delta: 1})
	require.NoError(err)
	require.Equal(uint64(2), byteutil.BytesToUint64BigEndian(res.Data))
	v, err := Value(sm, "k")
	require.NoError(err)
	require.Equal(uint64(2), v)

	require.NoError(SetValue(sm, "max", math.MaxUint64))
	_, err = p.Handle(ctx, sm, &MsgIncrement{Key: "max", Delta: 1})
	require.ErrorIs(err, ErrCounterOverflow)

	_, err = p.Handle(ctx, sm, &testUnknownMsg{})
	require.ErrorIs(err, action.ErrUnknownRequest)
}

func TestBeginBlockAndQuery(t *testing.T) {
	require := require.New(t)
	p := NewProtocol()
	sm := newTestState(t)

	require.Panics(func() { _ = p.BeginBlock(context.Background(), sm) })
	ctx := protocol.WithBlockCtx(context.Background(), protocol.BlockCtx{BlockHeight: 12})
	require.NoError(p.BeginBlock(ctx, sm))

	b, err := p.Query(ctx, sm, []string{"height"}, nil)
	require.NoError(err)
	require.Equal("12", string(b))

	require.NoError(SetValue(sm, "k", 5))
	b, err = p.Query(ctx, sm, []string{"value", "k"}, nil)
	require.NoError(err)
	require.Equal("5", string(b))

	_, err = p.Query(ctx, sm, []string{"value", "missing"}, nil)
	require.ErrorIs(err, ErrCounterNotFound)
	_, err = p.Query(ctx, sm, []string{"value"}, nil)
	require.ErrorIs(err, action.ErrUnknownRequest)
}

func TestGenesis(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	p := NewProtocol()
	sm := newTestState(t)

	require.NoError(p.ValidateGenesis(p.DefaultGenesis()))
	require.Error(p.ValidateGenesis([]byte(`{"counters":{"":1}}`)))
	require.Error(p.ValidateGenesis([]byte(`{"counters":[]}`)))

	_, err := p.InitGenesis(ctx, sm, []byte(`{"counters":{"a":1,"b":2}}`))
	require.NoError(err)
	v, err := Value(sm, "b")
	require.NoError(err)
	require.Equal(uint64(2), v)

	exported, err := p.ExportGenesis(ctx, sm)
	require.NoError(err)
	require.JSONEq(`{"counters":{"a":1,"b":2}}`, string(exported))
}

type testUnknownMsg struct{ MsgSet }

func (*testUnknownMsg) Type() string { return "unknown" }
