// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp_test

import (
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/stretchr/testify/require"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/action/protocol/account"
	"github.com/iotexproject/iotex-appchain/action/protocol/counter"
	"github.com/iotexproject/iotex-appchain/baseapp"
	"github.com/iotexproject/iotex-appchain/db"
	"github.com/iotexproject/iotex-appchain/store"
	"github.com/iotexproject/iotex-appchain/testutil"
)

const (
	_gasLimit = 100000
	_balance  = 1000000000
)

type chain struct {
	t     *testing.T
	cs    *store.CommitStore
	app   *baseapp.BaseApp
	codec *action.Codec
}

func newChain(t *testing.T, kv db.KVStore, genesis string) *chain {
	require := require.New(t)
	cs := store.NewCommitStore(kv)
	require.NoError(cs.Start(context.Background()))
	t.Cleanup(func() {
		if cs.IsReady() {
			require.NoError(cs.Stop(context.Background()))
		}
	})

	codec := action.NewCodec()
	acct := account.NewProtocol(account.DefaultConfig)
	ctr := counter.NewProtocol()
	require.NoError(acct.RegisterMsgs(codec))
	require.NoError(ctr.RegisterMsgs(codec))
	reg := protocol.NewRegistry()
	require.NoError(reg.Register(acct))
	require.NoError(reg.Register(ctr))

	cfg := baseapp.DefaultConfig
	cfg.MinGasPrice = "1"
	app, err := baseapp.NewBaseApp("appchain", cfg, cs, codec.DecodeTx,
		baseapp.SetRegistry(reg),
		baseapp.SetAnteHandler(acct.AnteHandler()),
	)
	require.NoError(err)
	require.NoError(app.LoadLatestVersion())
	if genesis != "" {
		_, err = app.InitChain(&abci.RequestInitChain{ChainId: "appchain", AppStateBytes: []byte(genesis)})
		require.NoError(err)
	}
	return &chain{t: t, cs: cs, app: app, codec: codec}
}

func (c *chain) signedTx(sk crypto.PrivateKey, nonce, gasPrice uint64, msgs ...action.Msg) []byte {
	tx := (&action.StdTxBuilder{}).
		SetNonce(nonce).
		SetGasLimit(_gasLimit).
		SetGasPrice(uint256.NewInt(gasPrice)).
		AddMsgs(msgs...).
		Build()
	require.NoError(c.t, tx.Sign(sk))
	b, err := c.codec.EncodeTx(tx)
	require.NoError(c.t, err)
	return b
}

func (c *chain) checkTx(tx []byte, typ abci.CheckTxType) *abci.ResponseCheckTx {
	resp, err := c.app.CheckTx(&abci.RequestCheckTx{Tx: tx, Type: typ})
	require.NoError(c.t, err)
	return resp
}

func (c *chain) block(height int64, txs ...[]byte) []*abci.ResponseDeliverTx {
	require := require.New(c.t)
	_, err := c.app.BeginBlock(&abci.RequestBeginBlock{Header: abci.Header{Height: height, ChainID: "appchain"}})
	require.NoError(err)
	results := make([]*abci.ResponseDeliverTx, len(txs))
	for i, tx := range txs {
		results[i], err = c.app.DeliverTx(&abci.RequestDeliverTx{Tx: tx})
		require.NoError(err)
	}
	_, err = c.app.EndBlock(&abci.RequestEndBlock{Height: height})
	require.NoError(err)
	_, err = c.app.Commit()
	require.NoError(err)
	return results
}

func (c *chain) query(path string) string {
	resp, err := c.app.Query(&abci.RequestQuery{Path: path})
	require.NoError(c.t, err)
	require.Equal(c.t, abci.CodeTypeOK, resp.Code, resp.Log)
	return string(resp.Value)
}

func fundedGenesis(addrs ...string) string {
	accounts := ""
	for i, addr := range addrs {
		if i > 0 {
			accounts += ","
		}
		accounts += fmt.Sprintf(`{"address":"%s","balance":"%d"}`, addr, _balance)
	}
	return fmt.Sprintf(`{"account":{"accounts":[%s]},"counter":{"counters":{}}}`, accounts)
}

func TestCheckTxTwiceFailsOnSequence(t *testing.T) {
	require := require.New(t)
	sk, err := crypto.GenerateKey()
	require.NoError(err)
	sender := sk.PublicKey().Address().String()
	c := newChain(t, db.NewMemKVStore(), fundedGenesis(sender))
	// genesis accounts reach the check-view with the first commit
	tx := c.signedTx(sk, 0, 1, &counter.MsgSet{Signer: sender, Key: "K", Value: 1})
	res := c.checkTx(tx, abci.CheckTxType_NEW)
	require.Equal(action.ErrInsufficientFunds.ABCICode(), res.Code)
	require.Empty(c.block(1))

	res = c.checkTx(tx, abci.CheckTxType_NEW)
	require.True(res.IsOK(), res.Log)
	require.Equal(int64(_gasLimit), res.GasWanted)
	res = c.checkTx(tx, abci.CheckTxType_NEW)
	require.Equal(action.ErrInvalidSequence.ABCICode(), res.Code)

	// the gas price policy applies to the mempool only
	cheap := c.signedTx(sk, 1, 0, &counter.MsgIncrement{Signer: sender, Key: "K", Delta: 1})
	res = c.checkTx(cheap, abci.CheckTxType_NEW)
	require.Equal(action.ErrInsufficientFee.ABCICode(), res.Code)

	results := c.block(2, tx, cheap)
	for _, r := range results {
		require.True(r.IsOK(), r.Log)
	}
	require.Equal("2", c.query("/counter/value/K"))

	// the check-view follows the committed state, rechecking a mined tx fails
	res = c.checkTx(tx, abci.CheckTxType_RECHECK)
	require.Equal(action.ErrInvalidSequence.ABCICode(), res.Code)
	res = c.checkTx(c.signedTx(sk, 2, 1, &counter.MsgIncrement{Signer: sender, Key: "K", Delta: 1}), abci.CheckTxType_NEW)
	require.True(res.IsOK(), res.Log)
}

func TestSequentialIncrements(t *testing.T) {
	require := require.New(t)
	sk, err := crypto.GenerateKey()
	require.NoError(err)
	sender := sk.PublicKey().Address().String()
	c := newChain(t, db.NewMemKVStore(), fundedGenesis(sender))

	results := c.block(1,
		c.signedTx(sk, 0, 1, &counter.MsgSet{Signer: sender, Key: "K", Value: 1}),
		c.signedTx(sk, 1, 1, &counter.MsgIncrement{Signer: sender, Key: "K", Delta: 1}),
	)
	for _, r := range results {
		require.True(r.IsOK(), r.Log)
	}
	require.Equal("2", c.query("/counter/value/K"))
	require.Equal("1", c.query("/counter/height"))

	fee := big.NewInt(2 * _gasLimit)
	require.Equal(new(big.Int).Sub(big.NewInt(_balance), fee).String(), c.query("/account/balance/"+sender))
	require.Equal(fee.String(), c.query("/account/balance/"+account.FeeCollector().String()))
	require.Equal(big.NewInt(_balance).String(), c.query("/account/supply"))
}

func TestFailedMsgKeepsFee(t *testing.T) {
	require := require.New(t)
	sk, err := crypto.GenerateKey()
	require.NoError(err)
	sender := sk.PublicKey().Address().String()
	c := newChain(t, db.NewMemKVStore(), fundedGenesis(sender))

	// incrementing a missing counter fails after the ante handler charged the fee
	results := c.block(1, c.signedTx(sk, 0, 1, &counter.MsgIncrement{Signer: sender, Key: "missing", Delta: 1}))
	require.Equal(counter.ErrCounterNotFound.ABCICode(), results[0].Code)
	require.Equal(counter.ModuleName, results[0].Codespace)
	require.Equal(fmt.Sprint(_balance-_gasLimit), c.query("/account/balance/"+sender))

	// the nonce moved on
	results = c.block(2, c.signedTx(sk, 1, 1, &counter.MsgSet{Signer: sender, Key: "K", Value: 5}))
	require.True(results[0].IsOK(), results[0].Log)
}

func TestTransferAcrossRestart(t *testing.T) {
	require := require.New(t)
	sk := testutil.NewTestKey()
	sender := sk.PublicKey().Address()
	recipient := testutil.NewTestAddress()

	path := testutil.TempDBPath(t, "appchain")
	cfg := db.DefaultConfig
	kv, err := db.CreateKVStore(cfg, path)
	require.NoError(err)
	c := newChain(t, kv, fundedGenesis(sender.String()))
	results := c.block(1, c.signedTx(sk, 0, 1, account.NewMsgTransfer(sender, recipient, big.NewInt(100))))
	require.True(results[0].IsOK(), results[0].Log)
	require.Equal("100", c.query("/account/balance/"+recipient.String()))
	hash := c.app.LastCommitID().Hash
	require.NoError(c.cs.Stop(context.Background()))

	kv, err = db.CreateKVStore(cfg, path)
	require.NoError(err)
	c = newChain(t, kv, "")
	require.Equal(hash, c.app.LastCommitID().Hash)
	require.Equal("100", c.query("/account/balance/"+recipient.String()))
	results = c.block(2, c.signedTx(sk, 1, 1, account.NewMsgTransfer(sender, recipient, big.NewInt(1))))
	require.True(results[0].IsOK(), results[0].Log)
	require.Equal("101", c.query("/account/balance/"+recipient.String()))
}
