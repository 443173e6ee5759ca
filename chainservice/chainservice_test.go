// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/facebookgo/clock"
	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/stretchr/testify/require"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol/counter"
	"github.com/iotexproject/iotex-appchain/config"
	"github.com/iotexproject/iotex-appchain/db"
	"github.com/iotexproject/iotex-appchain/testutil"
)

func testConfig(t *testing.T, sender string) config.Config {
	cfg := config.Default
	cfg.Chain.ID = "test"
	cfg.Chain.ChainDBPath = testutil.TempDBPath(t, "chain.db")
	cfg.Chain.EnableArchiveMode = true
	cfg.DB.MaxCacheSize = 64
	cfg.Chain.GenesisPath = testutil.WriteTempFile(t, "genesis.json",
		fmt.Sprintf(`{"account":{"accounts":[{"address":"%s","balance":"1000000000"}]}}`, sender))
	return cfg
}

func counterTx(t *testing.T, svc *ChainService, sk crypto.PrivateKey, nonce uint64, msg action.Msg) []byte {
	tx := (&action.StdTxBuilder{}).
		SetNonce(nonce).
		SetGasLimit(100000).
		SetGasPrice(uint256.NewInt(0)).
		AddMsgs(msg).
		Build()
	require.NoError(t, tx.Sign(sk))
	b, err := svc.Codec().EncodeTx(tx)
	require.NoError(t, err)
	return b
}

func produceBlock(t *testing.T, svc *ChainService, height int64, ts time.Time, txs ...[]byte) {
	require := require.New(t)
	cli := svc.Client()
	_, err := cli.BeginBlock(&abci.RequestBeginBlock{Header: abci.Header{ChainID: "test", Height: height, Time: ts}})
	require.NoError(err)
	for _, tx := range txs {
		res, err := cli.DeliverTx(&abci.RequestDeliverTx{Tx: tx})
		require.NoError(err)
		require.True(res.IsOK(), res.Log)
	}
	_, err = cli.EndBlock(&abci.RequestEndBlock{Height: height})
	require.NoError(err)
	_, err = cli.Commit()
	require.NoError(err)
}

func TestChainService(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	sk := testutil.NewTestKey()
	sender := sk.PublicKey().Address().String()
	cfg := testConfig(t, sender)
	times := testutil.BlockTimes(clock.NewMock(), 3, 5*time.Second)

	svc, err := New(cfg)
	require.NoError(err)
	require.NoError(svc.Start(ctx))
	validators, err := svc.InitChain(times[0])
	require.NoError(err)
	require.Empty(validators)

	produceBlock(t, svc, 1, times[0], counterTx(t, svc, sk, 0, &counter.MsgSet{Signer: sender, Key: "K", Value: 1}))
	produceBlock(t, svc, 2, times[1], counterTx(t, svc, sk, 1, &counter.MsgIncrement{Signer: sender, Key: "K", Delta: 1}))
	require.Equal(uint64(2), svc.Height())

	resp, err := svc.Query(&abci.RequestQuery{Path: "/counter/value/K"})
	require.NoError(err)
	require.Equal("2", string(resp.Value))
	for i := 0; i < 2; i++ {
		resp, err = svc.Query(&abci.RequestQuery{Path: "/counter/value/K", Height: 1})
		require.NoError(err)
		require.Equal("1", string(resp.Value))
	}
	require.Equal(int64(1), svc.readCache.hit.Load())
	require.Equal(int64(2), svc.readCache.total.Load())

	hash := svc.App().LastCommitID().Hash
	require.NoError(svc.Stop(ctx))

	// restart from the same db, genesis is not applied again
	svc, err = New(cfg)
	require.NoError(err)
	require.NoError(svc.Start(ctx))
	defer func() {
		require.NoError(svc.Stop(ctx))
	}()
	validators, err = svc.InitChain(times[2])
	require.NoError(err)
	require.Nil(validators)
	require.Equal(hash, svc.App().LastCommitID().Hash)
	produceBlock(t, svc, 3, times[2], counterTx(t, svc, sk, 2, &counter.MsgIncrement{Signer: sender, Key: "K", Delta: 3}))
	resp, err = svc.Query(&abci.RequestQuery{Path: "/counter/value/K"})
	require.NoError(err)
	require.Equal("5", string(resp.Value))
}

func TestChainServiceTesting(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	cfg := config.Default
	cfg.Chain.ChainDBPath = ""
	cfg.DB.DBType = db.DBMemory

	svc, err := New(cfg, WithTesting())
	require.NoError(err)
	require.NoError(svc.Start(ctx))
	defer func() {
		require.NoError(svc.Stop(ctx))
	}()

	genesis, err := svc.Genesis()
	require.NoError(err)
	require.NoError(svc.Registry().ValidateGenesis(genesis))
	_, err = svc.InitChain(testutil.TimestampNow())
	require.NoError(err)
	produceBlock(t, svc, 1, testutil.TimestampNow())
	require.Equal(uint64(1), svc.Height())

	// a query above the last height is not cached
	resp, err := svc.Query(&abci.RequestQuery{Path: "/counter/height", Height: 2})
	require.NoError(err)
	require.Equal(action.ErrInvalidRequest.ABCICode(), resp.Code)
	require.Zero(svc.readCache.total.Load())
}

func TestChainServiceBadGenesis(t *testing.T) {
	require := require.New(t)
	cfg := config.Default
	cfg.Chain.GenesisPath = filepath.Join(t.TempDir(), "missing.json")

	svc, err := New(cfg, WithTesting())
	require.NoError(err)
	require.NoError(svc.Start(context.Background()))
	defer func() {
		require.NoError(svc.Stop(context.Background()))
	}()
	_, err = svc.InitChain(testutil.TimestampNow())
	require.Error(err)
	require.Contains(err.Error(), "failed to read genesis file")
}
