// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package client

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/pkg/lifecycle"
)

// ErrClientNotStarted is returned when the client is used before Start or after Stop
var ErrClientNotStarted = errors.New("abci client is not started")

// Client defines the interface for an ABCI client.
type Client interface {
	lifecycle.StartStopper
	types.Application

	Error() error
	Flush(context.Context) error
}

type localClient struct {
	lifecycle.Readiness
	mtx    sync.Mutex
	app    types.Application
	logger *zap.Logger
	err    error
}

var _ Client = (*localClient)(nil)

// NewLocalClient creates a local client, which will be directly calling the
// methods of the given app. Calls are serialized by the client.
func NewLocalClient(logger *zap.Logger, app types.Application) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &localClient{
		app:    app,
		logger: logger,
	}
}

func (cli *localClient) Start(context.Context) error {
	cli.logger.Info("Starting local abci client.")
	return cli.TurnOn()
}

func (cli *localClient) Stop(context.Context) error {
	cli.logger.Info("Stopping local abci client.")
	return cli.TurnOff()
}

// Error returns the first fatal error returned by the application
func (cli *localClient) Error() error {
	cli.mtx.Lock()
	defer cli.mtx.Unlock()
	return cli.err
}

func (cli *localClient) Flush(context.Context) error {
	if !cli.IsReady() {
		return ErrClientNotStarted
	}
	return nil
}

func (cli *localClient) Info(req *types.RequestInfo) (*types.ResponseInfo, error) {
	cli.mtx.Lock()
	defer cli.mtx.Unlock()
	if !cli.IsReady() {
		return nil, ErrClientNotStarted
	}
	res, err := cli.app.Info(req)
	return res, cli.record(err)
}

func (cli *localClient) Query(req *types.RequestQuery) (*types.ResponseQuery, error) {
	cli.mtx.Lock()
	defer cli.mtx.Unlock()
	if !cli.IsReady() {
		return nil, ErrClientNotStarted
	}
	res, err := cli.app.Query(req)
	return res, cli.record(err)
}

func (cli *localClient) CheckTx(req *types.RequestCheckTx) (*types.ResponseCheckTx, error) {
	cli.mtx.Lock()
	defer cli.mtx.Unlock()
	if !cli.IsReady() {
		return nil, ErrClientNotStarted
	}
	res, err := cli.app.CheckTx(req)
	return res, cli.record(err)
}

func (cli *localClient) InitChain(req *types.RequestInitChain) (*types.ResponseInitChain, error) {
	cli.mtx.Lock()
	defer cli.mtx.Unlock()
	if !cli.IsReady() {
		return nil, ErrClientNotStarted
	}
	res, err := cli.app.InitChain(req)
	return res, cli.record(err)
}

func (cli *localClient) BeginBlock(req *types.RequestBeginBlock) (*types.ResponseBeginBlock, error) {
	cli.mtx.Lock()
	defer cli.mtx.Unlock()
	if !cli.IsReady() {
		return nil, ErrClientNotStarted
	}
	res, err := cli.app.BeginBlock(req)
	return res, cli.record(err)
}

func (cli *localClient) DeliverTx(req *types.RequestDeliverTx) (*types.ResponseDeliverTx, error) {
	cli.mtx.Lock()
	defer cli.mtx.Unlock()
	if !cli.IsReady() {
		return nil, ErrClientNotStarted
	}
	res, err := cli.app.DeliverTx(req)
	return res, cli.record(err)
}

func (cli *localClient) EndBlock(req *types.RequestEndBlock) (*types.ResponseEndBlock, error) {
	cli.mtx.Lock()
	defer cli.mtx.Unlock()
	if !cli.IsReady() {
		return nil, ErrClientNotStarted
	}
	res, err := cli.app.EndBlock(req)
	return res, cli.record(err)
}

func (cli *localClient) Commit() (*types.ResponseCommit, error) {
	cli.mtx.Lock()
	defer cli.mtx.Unlock()
	if !cli.IsReady() {
		return nil, ErrClientNotStarted
	}
	res, err := cli.app.Commit()
	return res, cli.record(err)
}

// record keeps the first fatal error, the caller holds the lock
func (cli *localClient) record(err error) error {
	if err != nil && cli.err == nil {
		cli.err = err
		cli.logger.Error("ABCI application returned a fatal error.", zap.Error(err))
	}
	return err
}
