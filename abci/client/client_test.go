// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package client

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/test/mock/mock_abci"
)

func TestLocalClient(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	app := mock_abci.NewMockApplication(ctrl)
	cli := NewLocalClient(nil, app)

	_, err := cli.Info(&types.RequestInfo{})
	require.Equal(ErrClientNotStarted, err)
	require.Equal(ErrClientNotStarted, cli.Flush(ctx))
	require.NoError(cli.Start(ctx))
	require.NoError(cli.Flush(ctx))

	gomock.InOrder(
		app.EXPECT().InitChain(gomock.Any()).Return(&types.ResponseInitChain{}, nil),
		app.EXPECT().BeginBlock(gomock.Any()).Return(&types.ResponseBeginBlock{}, nil),
		app.EXPECT().DeliverTx(gomock.Any()).Return(&types.ResponseDeliverTx{Code: 5}, nil),
		app.EXPECT().EndBlock(gomock.Any()).Return(&types.ResponseEndBlock{}, nil),
		app.EXPECT().Commit().Return(&types.ResponseCommit{Data: []byte{1}}, nil),
	)
	_, err = cli.InitChain(&types.RequestInitChain{})
	require.NoError(err)
	_, err = cli.BeginBlock(&types.RequestBeginBlock{Header: types.Header{Height: 1}})
	require.NoError(err)
	res, err := cli.DeliverTx(&types.RequestDeliverTx{Tx: []byte("tx")})
	require.NoError(err)
	require.Equal(uint32(5), res.Code)
	_, err = cli.EndBlock(&types.RequestEndBlock{Height: 1})
	require.NoError(err)
	commit, err := cli.Commit()
	require.NoError(err)
	require.Equal([]byte{1}, commit.Data)
	require.NoError(cli.Error())

	app.EXPECT().Query(gomock.Any()).Return(&types.ResponseQuery{Value: []byte("v")}, nil)
	q, err := cli.Query(&types.RequestQuery{Path: "/store/key"})
	require.NoError(err)
	require.Equal([]byte("v"), q.Value)

	require.NoError(cli.Stop(ctx))
	_, err = cli.Commit()
	require.Equal(ErrClientNotStarted, err)
}

func TestLocalClientKeepsFirstError(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	app := mock_abci.NewMockApplication(ctrl)
	cli := NewLocalClient(nil, app)
	require.NoError(cli.Start(context.Background()))

	first, second := errors.New("halted"), errors.New("still halted")
	app.EXPECT().CheckTx(gomock.Any()).Return(&types.ResponseCheckTx{}, nil)
	app.EXPECT().BeginBlock(gomock.Any()).Return(nil, first)
	app.EXPECT().Info(gomock.Any()).Return(nil, second)

	_, err := cli.CheckTx(&types.RequestCheckTx{Tx: []byte("tx")})
	require.NoError(err)
	_, err = cli.BeginBlock(&types.RequestBeginBlock{})
	require.Equal(first, err)
	_, err = cli.Info(&types.RequestInfo{})
	require.Equal(second, err)
	require.Equal(first, cli.Error())
}
