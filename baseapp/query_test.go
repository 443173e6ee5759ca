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

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/db"
	"github.com/iotexproject/iotex-appchain/store"
)

func query(t *testing.T, app *BaseApp, path string, data []byte, height int64) *abci.ResponseQuery {
	resp, err := app.Query(&abci.RequestQuery{Path: path, Data: data, Height: height})
	require.NoError(t, err)
	return resp
}

func TestQuery(t *testing.T) {
	require := require.New(t)
	app, _ := newTestApp(t, DefaultConfig, db.NewMemKVStore(), newKVModule())
	initChain(t, app, `{"kv":{"a":"1"}}`)

	// nothing committed yet
	resp := query(t, app, "/kv/get", []byte("a"), 0)
	require.Equal(abci.CodeTypeOK, resp.Code)
	require.Nil(resp.Value)
	require.Zero(resp.Height)

	beginBlock(t, app, 1)
	deliverTx(t, app, kvTxBytes(t, 100000, &kvMsg{Key: "b", Value: "2"}))
	// the deliver-view is never queried
	resp = query(t, app, "/kv/get", []byte("b"), 0)
	require.Nil(resp.Value)
	endAndCommit(t, app, 1)

	resp = query(t, app, "/kv/get", []byte("b"), 0)
	require.Equal(abci.CodeTypeOK, resp.Code, resp.Log)
	require.Equal([]byte("2"), resp.Value)
	require.Equal([]byte("b"), resp.Key)
	require.Equal(int64(1), resp.Height)

	resp = query(t, app, "/store/key", []byte("kv/a"), 1)
	require.Equal(abci.CodeTypeOK, resp.Code, resp.Log)
	require.Equal([]byte("1"), resp.Value)
	resp = query(t, app, "store/key", []byte("kv/missing"), 0)
	require.Equal(abci.CodeTypeOK, resp.Code, resp.Log)
	require.Nil(resp.Value)

	for _, c := range []struct {
		path   string
		data   []byte
		height int64
		code   uint32
	}{
		{"", nil, 0, action.ErrUnknownRequest.ABCICode()},
		{"/", nil, 0, action.ErrUnknownRequest.ABCICode()},
		{"/nowhere/get", []byte("a"), 0, action.ErrUnknownRoute.ABCICode()},
		{"/kv/list", nil, 0, action.ErrUnknownRequest.ABCICode()},
		{"/store/keys", []byte("kv/a"), 0, action.ErrUnknownRequest.ABCICode()},
		{"/store/key", nil, 0, action.ErrInvalidRequest.ABCICode()},
		{"/kv/get", []byte("a"), -1, action.ErrInvalidRequest.ABCICode()},
		{"/kv/get", []byte("a"), 2, action.ErrInvalidRequest.ABCICode()},
	} {
		resp = query(t, app, c.path, c.data, c.height)
		require.Equal(c.code, resp.Code, c.path)
		require.Equal(action.RootCodespace, resp.Codespace, c.path)
	}
}

func TestQueryHistory(t *testing.T) {
	require := require.New(t)

	newApp := func(opts ...store.Option) *BaseApp {
		cs := store.NewCommitStore(db.NewMemKVStore(), opts...)
		require.NoError(cs.Start(context.Background()))
		t.Cleanup(func() {
			require.NoError(cs.Stop(context.Background()))
		})
		reg := protocol.NewRegistry()
		require.NoError(reg.Register(newKVModule()))
		app, err := NewBaseApp("test", DefaultConfig, cs, decodeKVTx, SetRegistry(reg), SetLogger(zap.NewNop()))
		require.NoError(err)
		require.NoError(app.LoadLatestVersion())
		initChain(t, app, "")
		for h, v := range []string{"1", "2", "3"} {
			height := int64(h + 1)
			beginBlock(t, app, height)
			deliverTx(t, app, kvTxBytes(t, 100000, &kvMsg{Key: "k", Value: v}))
			endAndCommit(t, app, height)
		}
		return app
	}

	archive := newApp(store.EnableArchiveOption(0))
	for h, v := range []string{"1", "2", "3"} {
		resp := query(t, archive, "/kv/get", []byte("k"), int64(h+1))
		require.Equal(abci.CodeTypeOK, resp.Code, resp.Log)
		require.Equal([]byte(v), resp.Value)
		require.Equal(int64(h+1), resp.Height)
	}

	pruned := newApp()
	resp := query(t, pruned, "/kv/get", []byte("k"), 3)
	require.Equal([]byte("3"), resp.Value)
	resp = query(t, pruned, "/kv/get", []byte("k"), 1)
	require.Equal(action.ErrInvalidRequest.ABCICode(), resp.Code)
	require.Contains(resp.Log, "archive mode is off")
}

func TestExportGenesis(t *testing.T) {
	require := require.New(t)
	app, _ := newTestApp(t, DefaultConfig, db.NewMemKVStore(), newKVModule())
	initChain(t, app, `{"kv":{"a":"1"}}`)
	beginBlock(t, app, 1)
	deliverTx(t, app, kvTxBytes(t, 100000, &kvMsg{Key: "b", Value: "2"}))
	endAndCommit(t, app, 1)

	b, err := app.ExportGenesis(context.Background())
	require.NoError(err)
	var doc map[string]map[string]string
	require.NoError(json.Unmarshal(b, &doc))
	require.Equal(map[string]string{"a": "1", "b": "2"}, doc["kv"])

	// the export initializes an identical chain
	other, _ := newTestApp(t, DefaultConfig, db.NewMemKVStore(), newKVModule())
	initChain(t, other, string(b))
	beginBlock(t, other, 1)
	endAndCommit(t, other, 1)
	require.Equal(app.LastCommitID().Hash, other.LastCommitID().Hash)
}

func TestQueryLatestDuringCommits(t *testing.T) {
	require := require.New(t)
	app, _ := newTestApp(t, DefaultConfig, db.NewMemKVStore(), newKVModule())
	initChain(t, app, "")
	commitValue := func(h int64) {
		beginBlock(t, app, h)
		res := deliverTx(t, app, kvTxBytes(t, 100000, &kvMsg{Key: "a", Value: strconv.FormatInt(h, 10)}))
		require.True(res.IsOK(), res.Log)
		endAndCommit(t, app, h)
	}
	commitValue(1)

	const blocks = 100
	done := make(chan struct{})
	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error {
			for {
				select {
				case <-done:
					return nil
				default:
				}
				resp, err := app.Query(&abci.RequestQuery{Path: "/store/key", Data: []byte("kv/a")})
				if err != nil {
					return err
				}
				if resp.Code != abci.CodeTypeOK {
					return errors.Errorf("query at height %d failed: %s", resp.Height, resp.Log)
				}
				if string(resp.Value) != strconv.FormatInt(resp.Height, 10) {
					return errors.Errorf("value %s reported at height %d", resp.Value, resp.Height)
				}
			}
		})
	}
	for h := int64(2); h <= blocks; h++ {
		commitValue(h)
	}
	close(done)
	require.NoError(g.Wait())
}
