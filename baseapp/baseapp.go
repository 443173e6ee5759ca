// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp

import (
	"context"
	"sync"

	"github.com/holiman/uint256"
	fsm "github.com/iotexproject/go-fsm"
	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/gas"
	"github.com/iotexproject/iotex-appchain/pkg/log"
	"github.com/iotexproject/iotex-appchain/store"
)

type (
	// Option is the option of BaseApp
	Option func(*BaseApp) error

	// state is a volatile view of the Main Store with the block it serves
	state struct {
		ms     *store.CacheStore
		blkCtx protocol.BlockCtx
	}

	// BaseApp drives the block lifecycle of an application made of modules
	BaseApp struct {
		name        string
		version     string
		cfg         Config
		logger      *zap.Logger
		cms         *store.CommitStore
		txDecoder   action.TxDecoder
		anteHandler protocol.AnteHandler
		registry    *protocol.Registry
		router      *Router
		queryRouter *QueryRouter
		gasCfg      gas.Config
		minGasPrice *uint256.Int
		fsm         fsm.FSM

		// checkMu serializes check-view mutations, Commit takes it to replace the check-view
		checkMu    sync.Mutex
		checkState *state

		// only touched by FSM transitions, which are serialized
		deliverState  *state
		blockGasMeter gas.Meter
		chainID       string

		loaded      atomic.Bool
		initialized atomic.Bool
		halted      atomic.Bool
		fatalErr    atomic.Error
	}
)

// SetAnteHandler sets the ante handler run before the msgs of every transaction
func SetAnteHandler(h protocol.AnteHandler) Option {
	return func(app *BaseApp) error {
		app.anteHandler = h
		return nil
	}
}

// SetRegistry sets the module registry
func SetRegistry(reg *protocol.Registry) Option {
	return func(app *BaseApp) error {
		if reg == nil {
			return errors.New("nil registry")
		}
		app.registry = reg
		return nil
	}
}

// SetGasConfig sets the gas costs
func SetGasConfig(cfg gas.Config) Option {
	return func(app *BaseApp) error {
		app.gasCfg = cfg
		return nil
	}
}

// SetLogger sets the logger
func SetLogger(l *zap.Logger) Option {
	return func(app *BaseApp) error {
		if l != nil {
			app.logger = l
		}
		return nil
	}
}

// SetVersion sets the version reported by Info
func SetVersion(v string) Option {
	return func(app *BaseApp) error {
		app.version = v
		return nil
	}
}

// NewBaseApp creates a BaseApp over a started commit store
func NewBaseApp(name string, cfg Config, cms *store.CommitStore, txDecoder action.TxDecoder, opts ...Option) (*BaseApp, error) {
	if cms == nil {
		return nil, errors.New("nil commit store")
	}
	if txDecoder == nil {
		return nil, errors.New("nil tx decoder")
	}
	minGasPrice, err := cfg.ParseMinGasPrice()
	if err != nil {
		return nil, err
	}
	app := &BaseApp{
		name:        name,
		cfg:         cfg,
		logger:      log.Logger("baseapp"),
		cms:         cms,
		txDecoder:   txDecoder,
		registry:    protocol.NewRegistry(),
		router:      NewRouter(),
		queryRouter: NewQueryRouter(),
		gasCfg:      gas.DefaultConfig,
		minGasPrice: minGasPrice,
	}
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}
	if app.fsm, err = app.buildFSM(); err != nil {
		return nil, errors.Wrap(err, "failed to build lifecycle fsm")
	}
	return app, nil
}

// Name returns the name of the application
func (app *BaseApp) Name() string { return app.name }

// Router returns the msg router, routes can be added until LoadLatestVersion
func (app *BaseApp) Router() *Router { return app.router }

// QueryRouter returns the query router, routes can be added until LoadLatestVersion
func (app *BaseApp) QueryRouter() *QueryRouter { return app.queryRouter }

// Registry returns the module registry
func (app *BaseApp) Registry() *protocol.Registry { return app.registry }

// LastCommitID returns the version and hash of the last commit
func (app *BaseApp) LastCommitID() store.CommitID { return app.cms.LastCommitID() }

// Err returns the fatal error which halted the application
func (app *BaseApp) Err() error { return app.fatalErr.Load() }

// LoadLatestVersion mounts the routes of the modules, seals the routers and sets the check-view
// over the latest committed state. A store with committed versions skips InitChain.
func (app *BaseApp) LoadLatestVersion() error {
	if !app.loaded.CompareAndSwap(false, true) {
		return errors.New("latest version is loaded already")
	}
	for _, m := range app.registry.All() {
		if err := app.mountModule(m); err != nil {
			return err
		}
	}
	app.registry.RegisterInvariants()
	app.router.Seal()
	app.queryRouter.Seal()

	last := app.cms.LastCommitID()
	app.setCheckState(protocol.BlockCtx{BlockHeight: last.Version})
	if last.Version == 0 {
		app.logger.Info("Loaded an empty store, waiting for InitChain.")
		return nil
	}
	if err := app.handle(&lifecycleEvent{typ: eLoad, ctx: context.Background()}); err != nil {
		return err
	}
	_blockHeightMtc.Set(float64(last.Version))
	app.logger.Info("Loaded latest version.", zap.Uint64("version", last.Version), log.Hex("hash", last.Hash[:]))
	return nil
}

func (app *BaseApp) mountModule(m protocol.Module) error {
	name := m.Name()
	if route := m.Route(); route != "" {
		if err := app.router.AddRoute(route, func(ctx context.Context, sm protocol.StateManager, msg action.Msg) (*action.Result, error) {
			return m.Handle(ctx, protocol.ModuleStore(sm, name), msg)
		}); err != nil {
			return errors.Wrapf(err, "failed to mount module %s", name)
		}
	}
	if route := m.QuerierRoute(); route != "" {
		if err := app.queryRouter.AddRoute(route, func(ctx context.Context, sr protocol.StateReader, path []string, data []byte) ([]byte, error) {
			return m.Query(ctx, protocol.ModuleReader(sr, name), path, data)
		}); err != nil {
			return errors.Wrapf(err, "failed to mount module %s", name)
		}
	}
	return nil
}

func (app *BaseApp) onLoad(fsm.Event) (fsm.State, error) {
	app.initialized.Store(true)
	return sAwaitingBeginBlock, nil
}

// setCheckState replaces the check-view with a fresh root scope of the latest committed state
func (app *BaseApp) setCheckState(blkCtx protocol.BlockCtx) {
	app.checkMu.Lock()
	defer app.checkMu.Unlock()
	if app.checkState != nil {
		app.checkState.ms.Discard()
	}
	app.checkState = &state{
		ms:     app.cms.CacheWrap(),
		blkCtx: blkCtx,
	}
}

// isFatal returns whether the error breaks the nesting of scopes
func isFatal(err error) bool {
	switch errors.Cause(err) {
	case store.ErrScopeClosed, store.ErrInvalidScope:
		return true
	default:
		return false
	}
}
