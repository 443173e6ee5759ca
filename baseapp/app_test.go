// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"

	"github.com/iotexproject/iotex-address/address"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/db"
	"github.com/iotexproject/iotex-appchain/store"
)

const _kvName = "kv"

var errKVFail = action.RegisterError(_kvName, 2, "kv handler failure")

type (
	// kvMsg sets Key to Value, or increments the decimal value of Key when Incr is set
	kvMsg struct {
		Key     string `json:"key"`
		Value   string `json:"value,omitempty"`
		Incr    bool   `json:"incr,omitempty"`
		Fail    bool   `json:"fail,omitempty"`
		Panic   bool   `json:"panic,omitempty"`
		RouteTo string `json:"route,omitempty"`
	}

	kvTx struct {
		Messages []*kvMsg `json:"msgs"`
		Gas      uint64   `json:"gas"`
	}

	kvModule struct {
		beginErr     error
		endErr       error
		updates      []abci.ValidatorUpdate
		broken       bool
		beginHeights []uint64
	}
)

func (m *kvMsg) Route() string {
	if m.RouteTo != "" {
		return m.RouteTo
	}
	return _kvName
}

func (m *kvMsg) Type() string { return "set" }

func (m *kvMsg) ValidateBasic() error {
	if m.Key == "" {
		return action.ErrInvalidRequest.Wrap("empty key")
	}
	return nil
}

func (m *kvMsg) Signers() []address.Address { return nil }

func (tx *kvTx) Msgs() []action.Msg {
	msgs := make([]action.Msg, len(tx.Messages))
	for i, m := range tx.Messages {
		msgs[i] = m
	}
	return msgs
}

func (tx *kvTx) GasLimit() uint64 { return tx.Gas }

func (tx *kvTx) ValidateBasic() error { return nil }

func decodeKVTx(b []byte) (action.Tx, error) {
	tx := &kvTx{}
	if err := json.Unmarshal(b, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func kvTxBytes(t *testing.T, gasLimit uint64, msgs ...*kvMsg) []byte {
	b, err := json.Marshal(&kvTx{Messages: msgs, Gas: gasLimit})
	require.NoError(t, err)
	return b
}

func newKVModule() *kvModule { return &kvModule{} }

func (m *kvModule) Name() string { return _kvName }

func (m *kvModule) Route() string { return _kvName }

func (m *kvModule) QuerierRoute() string { return _kvName }

func (m *kvModule) DefaultGenesis() []byte { return []byte("{}") }

func (m *kvModule) ValidateGenesis(b []byte) error {
	var kvs map[string]string
	return json.Unmarshal(b, &kvs)
}

func (m *kvModule) InitGenesis(_ context.Context, sm protocol.StateManager, b []byte) ([]abci.ValidatorUpdate, error) {
	var kvs map[string]string
	if err := json.Unmarshal(b, &kvs); err != nil {
		return nil, err
	}
	for k, v := range kvs {
		if err := sm.Set([]byte(k), []byte(v)); err != nil {
			return nil, err
		}
	}
	return m.updates, nil
}

func (m *kvModule) ExportGenesis(_ context.Context, sr protocol.StateReader) ([]byte, error) {
	kvs := make(map[string]string)
	if err := sr.Iterate(nil, func(k, v []byte) error {
		kvs[string(k)] = string(v)
		return nil
	}); err != nil {
		return nil, err
	}
	return json.Marshal(kvs)
}

func (m *kvModule) BeginBlock(ctx context.Context, _ protocol.StateManager) error {
	m.beginHeights = append(m.beginHeights, protocol.MustGetBlockCtx(ctx).BlockHeight)
	return m.beginErr
}

func (m *kvModule) EndBlock(context.Context, protocol.StateManager) ([]abci.ValidatorUpdate, error) {
	return m.updates, m.endErr
}

func (m *kvModule) RegisterInvariants(ir protocol.InvariantRegistry) {
	ir.RegisterRoute(_kvName, "sane", func(context.Context, protocol.StateReader) (string, bool) {
		return "kv is broken", m.broken
	})
}

func (m *kvModule) Handle(_ context.Context, sm protocol.StateManager, msg action.Msg) (*action.Result, error) {
	kvm, ok := msg.(*kvMsg)
	if !ok {
		return nil, action.ErrUnknownRequest.Wrapf("unexpected msg %T", msg)
	}
	if kvm.Panic {
		panic("kv handler panics")
	}
	value := []byte(kvm.Value)
	if kvm.Incr {
		n := 0
		v, err := sm.Get([]byte(kvm.Key))
		switch errors.Cause(err) {
		case nil:
			if n, err = strconv.Atoi(string(v)); err != nil {
				return nil, err
			}
		case store.ErrNotExist:
		default:
			return nil, err
		}
		value = []byte(strconv.Itoa(n + 1))
	}
	if err := sm.Set([]byte(kvm.Key), value); err != nil {
		return nil, err
	}
	if kvm.Fail {
		return nil, errKVFail.Wrapf("key %s", kvm.Key)
	}
	return &action.Result{Data: value}, nil
}

func (m *kvModule) Query(_ context.Context, sr protocol.StateReader, path []string, data []byte) ([]byte, error) {
	if len(path) != 1 || path[0] != "get" {
		return nil, action.ErrUnknownRequest.Wrapf("unknown kv query %v", path)
	}
	v, err := sr.Get(data)
	if errors.Cause(err) == store.ErrNotExist {
		return nil, nil
	}
	return v, err
}

func newTestApp(t *testing.T, cfg Config, kv db.KVStore, modules ...protocol.Module) (*BaseApp, *store.CommitStore) {
	require := require.New(t)
	cs := store.NewCommitStore(kv)
	require.NoError(cs.Start(context.Background()))
	t.Cleanup(func() {
		if cs.IsReady() {
			require.NoError(cs.Stop(context.Background()))
		}
	})
	reg := protocol.NewRegistry()
	for _, m := range modules {
		require.NoError(reg.Register(m))
	}
	app, err := NewBaseApp("test", cfg, cs, decodeKVTx, SetRegistry(reg), SetLogger(zap.NewNop()), SetVersion("v0.1.0"))
	require.NoError(err)
	require.NoError(app.LoadLatestVersion())
	return app, cs
}

func initChain(t *testing.T, app *BaseApp, genesis string) *abci.ResponseInitChain {
	resp, err := app.InitChain(&abci.RequestInitChain{ChainId: "test", AppStateBytes: []byte(genesis)})
	require.NoError(t, err)
	return resp
}

func beginBlock(t *testing.T, app *BaseApp, height int64) {
	_, err := app.BeginBlock(&abci.RequestBeginBlock{Header: abci.Header{Height: height}})
	require.NoError(t, err)
}

func deliverTx(t *testing.T, app *BaseApp, tx []byte) *abci.ResponseDeliverTx {
	resp, err := app.DeliverTx(&abci.RequestDeliverTx{Tx: tx})
	require.NoError(t, err)
	return resp
}

func checkTx(t *testing.T, app *BaseApp, tx []byte) *abci.ResponseCheckTx {
	resp, err := app.CheckTx(&abci.RequestCheckTx{Tx: tx, Type: abci.CheckTxType_NEW})
	require.NoError(t, err)
	return resp
}

func endAndCommit(t *testing.T, app *BaseApp, height int64) []byte {
	_, err := app.EndBlock(&abci.RequestEndBlock{Height: height})
	require.NoError(t, err)
	resp, err := app.Commit()
	require.NoError(t, err)
	return resp.Data
}

func committedValue(t *testing.T, cs *store.CommitStore, key string) (string, bool) {
	v, err := cs.Get([]byte(key))
	if errors.Cause(err) == store.ErrNotExist {
		return "", false
	}
	require.NoError(t, err)
	return string(v), true
}
