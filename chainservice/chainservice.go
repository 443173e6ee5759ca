// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"context"
	"os"
	"time"

	"github.com/pkg/errors"
	tracesdk "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"

	abciclient "github.com/iotexproject/iotex-appchain/abci/client"
	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/action/protocol/account"
	"github.com/iotexproject/iotex-appchain/action/protocol/counter"
	"github.com/iotexproject/iotex-appchain/action/protocol/poll"
	"github.com/iotexproject/iotex-appchain/baseapp"
	"github.com/iotexproject/iotex-appchain/config"
	"github.com/iotexproject/iotex-appchain/db"
	"github.com/iotexproject/iotex-appchain/pkg/lifecycle"
	"github.com/iotexproject/iotex-appchain/pkg/log"
	"github.com/iotexproject/iotex-appchain/pkg/tracer"
	"github.com/iotexproject/iotex-appchain/store"
)

// Version is reported by the application Info
var Version = "v0.1.0"

const _readCacheExpiry = 10 * time.Minute

// ChainService assembles the application with its store, modules and abci client.
type ChainService struct {
	lifecycle lifecycle.Lifecycle
	cfg       config.Config
	cs        *store.CommitStore
	codec     *action.Codec
	registry  *protocol.Registry
	app       *baseapp.BaseApp
	client    abciclient.Client
	readCache *ReadCache
}

type optionParams struct {
	isTesting bool
}

// Option sets ChainService construction parameter.
type Option func(ops *optionParams) error

// WithTesting is an option to create a testing ChainService backed by an in-memory store.
func WithTesting() Option {
	return func(ops *optionParams) error {
		ops.isTesting = true
		return nil
	}
}

// New creates a ChainService from config
func New(cfg config.Config, opts ...Option) (*ChainService, error) {
	var ops optionParams
	for _, opt := range opts {
		if err := opt(&ops); err != nil {
			return nil, err
		}
	}

	var (
		kv  db.KVStore
		err error
	)
	if ops.isTesting {
		kv = db.NewMemKVStore()
	} else {
		kv, err = db.CreateKVStoreWithCache(cfg.DB, cfg.Chain.ChainDBPath)
		if err != nil {
			return nil, errors.Wrap(err, "failed to create kv store")
		}
	}
	var storeOpts []store.Option
	if cfg.Chain.EnableArchiveMode {
		storeOpts = append(storeOpts, store.EnableArchiveOption(cfg.DB.HistoryStateRetention))
	}
	cs := store.NewCommitStore(kv, storeOpts...)

	codec := action.NewCodec()
	registry := protocol.NewRegistry()
	acct := account.NewProtocol(cfg.Account)
	for _, p := range []interface {
		protocol.Module
		RegisterMsgs(*action.Codec) error
	}{
		acct,
		counter.NewProtocol(),
		poll.NewProtocol(),
	} {
		if err := p.RegisterMsgs(codec); err != nil {
			return nil, errors.Wrapf(err, "failed to register msgs of %s", p.Name())
		}
		if err := registry.Register(p); err != nil {
			return nil, errors.Wrapf(err, "failed to register module %s", p.Name())
		}
	}

	app, err := baseapp.NewBaseApp(cfg.Chain.Name, cfg.App, cs, codec.DecodeTx,
		baseapp.SetRegistry(registry),
		baseapp.SetAnteHandler(acct.AnteHandler()),
		baseapp.SetGasConfig(cfg.Gas),
		baseapp.SetLogger(log.Logger("baseapp")),
		baseapp.SetVersion(Version),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create application")
	}
	client := abciclient.NewLocalClient(log.Logger("abci"), app)
	tp, err := tracer.NewProviderFromConfig(cfg.Tracer)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create tracer provider")
	}

	svc := &ChainService{
		cfg:       cfg,
		cs:        cs,
		codec:     codec,
		registry:  registry,
		app:       app,
		client:    client,
		readCache: NewReadCache(_readCacheExpiry),
	}
	if tp != nil {
		svc.lifecycle.Add(&tracerModel{tp: tp})
	}
	svc.lifecycle.AddModels(cs, &appLoader{app: app}, client)
	return svc, nil
}

// Start starts the store, loads the latest version and opens the client
func (cs *ChainService) Start(ctx context.Context) error {
	if err := cs.lifecycle.OnStart(ctx); err != nil {
		return errors.Wrap(err, "failed to start chain service")
	}
	last := cs.cs.LastCommitID()
	log.L().Info("Started chain service.",
		zap.String("chainID", cs.cfg.Chain.ID),
		zap.Uint64("height", last.Version),
		log.Hex("appHash", last.Hash[:]))
	return nil
}

// Stop stops the client and the store
func (cs *ChainService) Stop(ctx context.Context) error {
	if err := cs.lifecycle.OnStop(ctx); err != nil {
		return errors.Wrap(err, "failed to stop chain service")
	}
	cs.readCache.Clear()
	return nil
}

// App returns the application
func (cs *ChainService) App() *baseapp.BaseApp { return cs.app }

// Client returns the abci client driving the application
func (cs *ChainService) Client() abciclient.Client { return cs.client }

// Codec returns the transaction codec
func (cs *ChainService) Codec() *action.Codec { return cs.codec }

// Registry returns the module registry
func (cs *ChainService) Registry() *protocol.Registry { return cs.registry }

// Height returns the last committed height
func (cs *ChainService) Height() uint64 { return cs.cs.LastCommitID().Version }

// Genesis returns the genesis document from the configured file, or the default genesis of the modules
func (cs *ChainService) Genesis() ([]byte, error) {
	if cs.cfg.Chain.GenesisPath == "" {
		return cs.registry.DefaultGenesis()
	}
	b, err := os.ReadFile(cs.cfg.Chain.GenesisPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read genesis file %s", cs.cfg.Chain.GenesisPath)
	}
	if err := cs.registry.ValidateGenesis(b); err != nil {
		return nil, err
	}
	return b, nil
}

// InitChain initializes a fresh chain from the genesis document, it is a no-op once a block is committed
func (cs *ChainService) InitChain(genesisTime time.Time) ([]abci.ValidatorUpdate, error) {
	info, err := cs.client.Info(&abci.RequestInfo{Version: Version})
	if err != nil {
		return nil, err
	}
	if info.LastBlockHeight > 0 {
		log.L().Info("Chain already initialized.", zap.Int64("height", info.LastBlockHeight))
		return nil, nil
	}
	genesis, err := cs.Genesis()
	if err != nil {
		return nil, err
	}
	resp, err := cs.client.InitChain(&abci.RequestInitChain{
		Time:          genesisTime,
		ChainId:       cs.cfg.Chain.ID,
		AppStateBytes: genesis,
	})
	if err != nil {
		return nil, err
	}
	return resp.Validators, nil
}

// Query serves a query, answers at a past height are cached
func (cs *ChainService) Query(req *abci.RequestQuery) (*abci.ResponseQuery, error) {
	cacheable := req.Height > 0 && uint64(req.Height) <= cs.Height()
	key := (&ReadKey{Path: req.Path, Height: req.Height, Data: req.Data}).Hash()
	if cacheable {
		if v, ok := cs.readCache.Get(key); ok {
			return &abci.ResponseQuery{Code: abci.CodeTypeOK, Key: req.Data, Value: v, Height: req.Height}, nil
		}
	}
	resp, err := cs.client.Query(req)
	if err != nil {
		return nil, err
	}
	if cacheable && resp.Code == abci.CodeTypeOK {
		cs.readCache.Put(key, resp.Value)
	}
	return resp, nil
}

type appLoader struct {
	app *baseapp.BaseApp
}

func (l *appLoader) Start(context.Context) error {
	return l.app.LoadLatestVersion()
}

type tracerModel struct {
	tp *tracesdk.TracerProvider
}

func (m *tracerModel) Stop(ctx context.Context) error {
	return m.tp.Shutdown(ctx)
}
