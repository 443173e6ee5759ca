// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp

import (
	"context"
	"fmt"

	fsm "github.com/iotexproject/go-fsm"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/gas"
	"github.com/iotexproject/iotex-appchain/pkg/log"
	"github.com/iotexproject/iotex-appchain/pkg/tracer"
)

var _ abci.Application = (*BaseApp)(nil)

// Info returns the name, version and last committed block of the application
func (app *BaseApp) Info(req *abci.RequestInfo) (*abci.ResponseInfo, error) {
	last := app.cms.LastCommitID()
	return &abci.ResponseInfo{
		Data:             app.name,
		Version:          app.version,
		LastBlockHeight:  int64(last.Version),
		LastBlockAppHash: last.Hash[:],
	}, nil
}

// InitChain initializes the modules from the genesis document. The genesis writes stay in the
// deliver-view and are committed by the first Commit.
func (app *BaseApp) InitChain(req *abci.RequestInitChain) (*abci.ResponseInitChain, error) {
	ctx, span := tracer.NewSpan(context.Background(), "BaseApp.InitChain")
	defer span.End()
	evt := &lifecycleEvent{typ: eInitChain, ctx: ctx, req: req}
	if err := app.handle(evt); err != nil {
		return nil, err
	}
	return evt.resp.(*abci.ResponseInitChain), nil
}

func (app *BaseApp) onInitChain(e fsm.Event) (fsm.State, error) {
	evt := e.(*lifecycleEvent)
	req := evt.req.(*abci.RequestInitChain)
	if !app.loaded.Load() {
		evt.err = errors.New("latest version is not loaded")
		return sUninitialized, nil
	}
	if req.InitialHeight > 1 {
		evt.err = errors.Errorf("initial height %d is not supported", req.InitialHeight)
		return sUninitialized, nil
	}
	last := app.cms.LastCommitID()
	blkCtx := protocol.BlockCtx{
		ChainID:        req.ChainId,
		BlockHeight:    last.Version,
		BlockTimeStamp: req.Time,
	}
	deliver := &state{ms: app.cms.CacheWrap(), blkCtx: blkCtx}
	ctx := protocol.WithBlockCtx(evt.ctx, blkCtx)
	updates, err := app.registry.InitGenesis(ctx, deliver.ms, req.AppStateBytes)
	if err != nil {
		deliver.ms.Discard()
		evt.err = errors.Wrap(err, "failed to init chain")
		return sUninitialized, nil
	}
	app.chainID = req.ChainId
	app.deliverState = deliver
	app.setCheckState(blkCtx)
	app.initialized.Store(true)
	evt.resp = &abci.ResponseInitChain{
		Validators: updates,
		AppHash:    last.Hash[:],
	}
	app.logger.Info("Chain initialized.", zap.String("chainID", req.ChainId), zap.Int("validators", len(updates)))
	return sAwaitingBeginBlock, nil
}

// BeginBlock opens the deliver-view of the block and calls the begin-block hooks of the modules
func (app *BaseApp) BeginBlock(req *abci.RequestBeginBlock) (*abci.ResponseBeginBlock, error) {
	ctx, span := tracer.NewSpan(context.Background(), "BaseApp.BeginBlock")
	defer span.End()
	span.SetAttributes(attribute.Int64("height", req.Header.Height))
	evt := &lifecycleEvent{typ: eBeginBlock, ctx: ctx, req: req}
	if err := app.handle(evt); err != nil {
		return nil, err
	}
	return evt.resp.(*abci.ResponseBeginBlock), nil
}

func (app *BaseApp) onBeginBlock(e fsm.Event) (fsm.State, error) {
	evt := e.(*lifecycleEvent)
	req := evt.req.(*abci.RequestBeginBlock)
	last := app.cms.LastCommitID()
	if req.Header.Height <= 0 || uint64(req.Header.Height) != last.Version+1 {
		return app.fatal(evt, errors.Wrapf(ErrInvalidLifecycle, "block height %d, last committed height %d", req.Header.Height, last.Version))
	}
	if req.Header.ChainID != "" {
		app.chainID = req.Header.ChainID
	}
	blkCtx := protocol.BlockCtx{
		ChainID:         app.chainID,
		BlockHeight:     uint64(req.Header.Height),
		BlockTimeStamp:  req.Header.Time,
		Producer:        req.Header.ProposerAddress,
		LastCommitVotes: req.LastCommitInfo.Votes,
	}
	if app.deliverState == nil {
		app.deliverState = &state{ms: app.cms.CacheWrap()}
	}
	app.deliverState.blkCtx = blkCtx
	if app.cfg.MaxBlockGas > 0 {
		app.blockGasMeter = gas.NewMeter(app.cfg.MaxBlockGas)
	} else {
		app.blockGasMeter = gas.NewInfiniteMeter()
	}

	ctx := protocol.WithBlockCtx(evt.ctx, blkCtx)
	ctx = log.WithLogger(ctx, app.logger.With(zap.Uint64("height", blkCtx.BlockHeight)))
	if err := app.registry.BeginBlock(ctx, app.deliverState.ms); err != nil {
		return app.fatal(evt, errors.Wrapf(err, "failed to begin block %d", blkCtx.BlockHeight))
	}
	evt.resp = &abci.ResponseBeginBlock{}
	return sInBlock, nil
}

// CheckTx checks a transaction against the check-view for the mempool, no msg handler runs
func (app *BaseApp) CheckTx(req *abci.RequestCheckTx) (*abci.ResponseCheckTx, error) {
	if err := app.ready(); err != nil {
		return nil, err
	}
	var mode protocol.ExecMode
	switch req.Type {
	case abci.CheckTxType_NEW:
		mode = protocol.ExecModeCheck
	case abci.CheckTxType_RECHECK:
		mode = protocol.ExecModeReCheck
	default:
		return nil, errors.Errorf("unknown check tx type %s", req.Type)
	}
	ctx, span := tracer.NewSpan(context.Background(), "BaseApp.CheckTx")
	defer span.End()

	gInfo, result, err := app.runTx(ctx, mode, req.Tx)
	if isFatal(err) {
		app.halt(err)
		return nil, err
	}
	codespace, code, logMsg := app.resultInfo(result, err)
	return &abci.ResponseCheckTx{
		Code:      code,
		Data:      resultData(result),
		Log:       logMsg,
		GasWanted: int64(gInfo.GasWanted),
		GasUsed:   int64(gInfo.GasUsed),
		Events:    resultEvents(result),
		Codespace: codespace,
	}, nil
}

// DeliverTx executes a transaction of the block against the deliver-view
func (app *BaseApp) DeliverTx(req *abci.RequestDeliverTx) (*abci.ResponseDeliverTx, error) {
	ctx, span := tracer.NewSpan(context.Background(), "BaseApp.DeliverTx")
	defer span.End()
	evt := &lifecycleEvent{typ: eDeliverTx, ctx: ctx, req: req}
	if err := app.handle(evt); err != nil {
		return nil, err
	}
	return evt.resp.(*abci.ResponseDeliverTx), nil
}

func (app *BaseApp) onDeliverTx(e fsm.Event) (fsm.State, error) {
	evt := e.(*lifecycleEvent)
	req := evt.req.(*abci.RequestDeliverTx)
	gInfo, result, err := app.runTx(evt.ctx, protocol.ExecModeDeliver, req.Tx)
	if isFatal(err) {
		return app.fatal(evt, err)
	}
	codespace, code, logMsg := app.resultInfo(result, err)
	evt.resp = &abci.ResponseDeliverTx{
		Code:      code,
		Data:      resultData(result),
		Log:       logMsg,
		GasWanted: int64(gInfo.GasWanted),
		GasUsed:   int64(gInfo.GasUsed),
		Events:    resultEvents(result),
		Codespace: codespace,
	}
	return sInBlock, nil
}

// EndBlock calls the end-block hooks of the modules and runs the invariants when due
func (app *BaseApp) EndBlock(req *abci.RequestEndBlock) (*abci.ResponseEndBlock, error) {
	ctx, span := tracer.NewSpan(context.Background(), "BaseApp.EndBlock")
	defer span.End()
	evt := &lifecycleEvent{typ: eEndBlock, ctx: ctx, req: req}
	if err := app.handle(evt); err != nil {
		return nil, err
	}
	return evt.resp.(*abci.ResponseEndBlock), nil
}

func (app *BaseApp) onEndBlock(e fsm.Event) (fsm.State, error) {
	evt := e.(*lifecycleEvent)
	req := evt.req.(*abci.RequestEndBlock)
	blkCtx := app.deliverState.blkCtx
	if req.Height != int64(blkCtx.BlockHeight) {
		return app.fatal(evt, errors.Wrapf(ErrInvalidLifecycle, "end block %d, current block %d", req.Height, blkCtx.BlockHeight))
	}
	ctx := protocol.WithBlockCtx(evt.ctx, blkCtx)
	ctx = log.WithLogger(ctx, app.logger.With(zap.Uint64("height", blkCtx.BlockHeight)))
	updates, err := app.registry.EndBlock(ctx, app.deliverState.ms)
	if err != nil {
		return app.fatal(evt, errors.Wrapf(err, "failed to end block %d", blkCtx.BlockHeight))
	}
	if period := app.cfg.InvariantCheckPeriod; period > 0 && blkCtx.BlockHeight%period == 0 {
		if err := app.registry.AssertInvariants(ctx, app.deliverState.ms); err != nil {
			return app.fatal(evt, errors.Wrapf(err, "block %d", blkCtx.BlockHeight))
		}
	}
	evt.resp = &abci.ResponseEndBlock{ValidatorUpdates: updates}
	return sAwaitingCommit, nil
}

// Commit persists the deliver-view as a new version and resets the check-view over it
func (app *BaseApp) Commit() (*abci.ResponseCommit, error) {
	ctx, span := tracer.NewSpan(context.Background(), "BaseApp.Commit")
	defer span.End()
	evt := &lifecycleEvent{typ: eCommit, ctx: ctx}
	if err := app.handle(evt); err != nil {
		return nil, err
	}
	return evt.resp.(*abci.ResponseCommit), nil
}

func (app *BaseApp) onCommit(e fsm.Event) (fsm.State, error) {
	evt := e.(*lifecycleEvent)
	if app.deliverState == nil {
		return app.fatal(evt, errors.Wrap(ErrInvalidLifecycle, "no deliver-view to commit"))
	}
	blkCtx := app.deliverState.blkCtx
	id, err := app.cms.Commit(app.deliverState.ms)
	if err != nil {
		return app.fatal(evt, errors.Wrapf(err, "failed to commit block %d", blkCtx.BlockHeight))
	}
	if id.Version != blkCtx.BlockHeight {
		return app.fatal(evt, errors.Errorf("committed version %d != block height %d", id.Version, blkCtx.BlockHeight))
	}
	app.deliverState = nil
	app.blockGasMeter = nil
	app.setCheckState(blkCtx)
	_blockHeightMtc.Set(float64(id.Version))
	app.logger.Debug("Committed block.", zap.Uint64("height", id.Version), log.Hex("hash", id.Hash[:]))

	evt.resp = &abci.ResponseCommit{Data: id.Hash[:]}
	if app.cfg.HaltHeight > 0 && id.Version >= app.cfg.HaltHeight {
		app.halt(errors.Wrapf(ErrHalted, "reached halt height %d", app.cfg.HaltHeight))
		return sHalted, nil
	}
	return sAwaitingBeginBlock, nil
}

// ready checks the chain is initialized and not halted
func (app *BaseApp) ready() error {
	if app.halted.Load() {
		return errors.Wrap(ErrHalted, fmt.Sprint(app.fatalErr.Load()))
	}
	if !app.initialized.Load() {
		return ErrNotInitialized
	}
	return nil
}
