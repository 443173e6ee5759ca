// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp

import (
	"context"
	"runtime/debug"

	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/gas"
	"github.com/iotexproject/iotex-appchain/pkg/log"
	"github.com/iotexproject/iotex-appchain/pkg/tracer"
	"github.com/iotexproject/iotex-appchain/store"
)

// gas descriptors
const (
	_descBlockGas = "block gas meter"
)

// Simulate runs a transaction through the deliver pipeline against a throwaway scope of the
// check-view with an infinite gas meter, nothing persists
func (app *BaseApp) Simulate(txBytes []byte) (action.GasInfo, *action.Result, error) {
	if err := app.ready(); err != nil {
		return action.GasInfo{}, nil, err
	}
	ctx, span := tracer.NewSpan(context.Background(), "BaseApp.Simulate")
	defer span.End()
	return app.runTx(ctx, protocol.ExecModeSimulate, txBytes)
}

// runTx decodes and executes a transaction in the given mode. A non-nil error is either a coded
// failure of the transaction, which leaves no effect other than the ante handler's when it
// succeeded, or a broken scope, which is fatal.
func (app *BaseApp) runTx(ctx context.Context, mode protocol.ExecMode, txBytes []byte) (gInfo action.GasInfo, result *action.Result, err error) {
	var (
		base    *store.CacheStore
		blkCtx  protocol.BlockCtx
		meter   gas.Meter = gas.NewInfiniteMeter()
		txHash            = hash.Hash256b(txBytes)
	)
	switch mode {
	case protocol.ExecModeCheck, protocol.ExecModeReCheck:
		app.checkMu.Lock()
		defer app.checkMu.Unlock()
		base, blkCtx = app.checkState.ms, app.checkState.blkCtx
	case protocol.ExecModeSimulate:
		app.checkMu.Lock()
		defer app.checkMu.Unlock()
		base, blkCtx = app.checkState.ms.CacheWrap(), app.checkState.blkCtx
		defer base.Discard()
	case protocol.ExecModeDeliver:
		base, blkCtx = app.deliverState.ms, app.deliverState.blkCtx
		if app.blockGasMeter.IsOutOfGas() {
			err = action.ErrOutOfGas.Wrapf("no gas left in block %d", blkCtx.BlockHeight)
			app.recordTx(mode, gInfo, err)
			return
		}
	default:
		return gInfo, nil, errors.Errorf("unknown exec mode %d", mode)
	}

	logger := app.logger.With(
		zap.Uint64("height", blkCtx.BlockHeight),
		zap.String("mode", mode.String()),
		log.Hex("txHash", txHash[:]),
	)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Recovered from panic in transaction.", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			result = nil
			err = action.ErrPanic.Wrapf("recovered: %v", r)
		}
		gInfo = action.GasInfo{GasWanted: gInfo.GasWanted, GasUsed: meter.GasConsumedToLimit()}
		app.recordTx(mode, gInfo, err)
		if err != nil && !isFatal(err) {
			logger.Debug("Transaction failed.", zap.Error(err))
		}
	}()

	if app.cfg.MaxTxBytes > 0 && uint64(len(txBytes)) > app.cfg.MaxTxBytes {
		return gInfo, nil, action.ErrTxTooLarge.Wrapf("%d bytes exceeds %d", len(txBytes), app.cfg.MaxTxBytes)
	}
	tx, err := app.txDecoder(txBytes)
	if err != nil {
		if _, ok := errors.Cause(err).(*action.Error); !ok {
			err = action.ErrTxDecode.Wrap(err.Error())
		}
		return gInfo, nil, err
	}
	if err := validateBasicTxMsgs(tx); err != nil {
		return gInfo, nil, err
	}
	gInfo.GasWanted = tx.GasLimit()
	if mode != protocol.ExecModeSimulate {
		meter = gas.NewMeter(tx.GasLimit())
	}
	if err := meter.ConsumeGas(uint64(len(txBytes))*app.gasCfg.TxSizeCostPerByte, gas.DescTxSize); err != nil {
		return gInfo, nil, err
	}

	ctx = protocol.WithBlockCtx(ctx, blkCtx)
	ctx = protocol.WithTxCtx(ctx, protocol.TxCtx{
		Mode:        mode,
		TxSize:      uint64(len(txBytes)),
		TxHash:      txHash,
		GasMeter:    meter,
		GasWanted:   tx.GasLimit(),
		MinGasPrice: app.minGasPrice,
	})
	ctx = log.WithLogger(ctx, logger)

	if app.anteHandler != nil {
		if err := store.RunInScope(base, func(scope *store.CacheStore) error {
			return app.anteHandler(ctx, store.NewGasKVStore(scope, meter, app.gasCfg.KV), tx)
		}); err != nil {
			return gInfo, nil, err
		}
	}

	if mode.IsCheck() {
		for i, msg := range tx.Msgs() {
			if _, ok := app.router.Route(msg.Route()); !ok {
				return gInfo, nil, action.ErrUnknownRoute.Wrapf("msg %d route %s", i, msg.Route())
			}
		}
		return gInfo, &action.Result{}, nil
	}

	txScope := base.CacheWrap()
	result, err = app.runMsgs(ctx, txScope, tx.Msgs(), meter)
	if err != nil {
		txScope.Discard()
		return gInfo, nil, err
	}
	if mode == protocol.ExecModeDeliver {
		if err := app.blockGasMeter.ConsumeGas(meter.GasConsumedToLimit(), _descBlockGas); err != nil {
			txScope.Discard()
			return gInfo, nil, action.ErrOutOfGas.Wrap(err.Error())
		}
	}
	if err := txScope.Write(); err != nil {
		return gInfo, nil, err
	}
	return gInfo, result, nil
}

// runMsgs runs every msg in its own child scope of the tx scope, the first failure aborts the rest
func (app *BaseApp) runMsgs(ctx context.Context, txScope *store.CacheStore, msgs []action.Msg, meter gas.Meter) (*action.Result, error) {
	results := make([]*action.Result, 0, len(msgs))
	for i, msg := range msgs {
		handler, ok := app.router.Route(msg.Route())
		if !ok {
			return nil, action.ErrUnknownRoute.Wrapf("msg %d route %s", i, msg.Route())
		}
		var res *action.Result
		if err := store.RunInScope(txScope, func(scope *store.CacheStore) error {
			var err error
			res, err = handler(ctx, store.NewGasKVStore(scope, meter, app.gasCfg.KV), msg)
			return err
		}); err != nil {
			return nil, errors.Wrapf(err, "failed to execute msg %d", i)
		}
		if res == nil {
			res = &action.Result{}
		}
		res.Events = append([]abci.Event{abci.NewEvent("message",
			abci.NewAttribute("action", action.MsgName(msg)),
			abci.NewAttribute("module", msg.Route()),
		)}, res.Events...)
		results = append(results, res)
	}
	return action.MergeResults(results), nil
}

func validateBasicTxMsgs(tx action.Tx) error {
	if err := tx.ValidateBasic(); err != nil {
		return err
	}
	msgs := tx.Msgs()
	if len(msgs) == 0 {
		return action.ErrInvalidRequest.Wrap("transaction has no msg")
	}
	for i, msg := range msgs {
		if err := msg.ValidateBasic(); err != nil {
			return errors.Wrapf(err, "invalid msg %d", i)
		}
	}
	return nil
}

func (app *BaseApp) recordTx(mode protocol.ExecMode, gInfo action.GasInfo, err error) {
	res := "success"
	if err != nil {
		res = "failure"
	}
	_txMtc.WithLabelValues(mode.String(), res).Inc()
	_gasUsedMtc.WithLabelValues(mode.String()).Observe(float64(gInfo.GasUsed))
}

// resultInfo converts the outcome of a transaction into codespace, code and log
func (app *BaseApp) resultInfo(result *action.Result, err error) (string, uint32, string) {
	if err != nil {
		return action.ABCIInfo(err, app.cfg.Debug)
	}
	if result == nil {
		return "", abci.CodeTypeOK, ""
	}
	return "", abci.CodeTypeOK, result.Log
}

func resultData(result *action.Result) []byte {
	if result == nil {
		return nil
	}
	return result.Data
}

func resultEvents(result *action.Result) []abci.Event {
	if result == nil {
		return nil
	}
	return result.Events
}
