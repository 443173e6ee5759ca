// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/pkg/tracer"
	"github.com/iotexproject/iotex-appchain/store"
)

const _storeQueryRoute = "store"

// Query answers a query against the latest committed state, or a retained version when the
// height names one. Paths are /store/key with the raw key as data, or /<route>/<path...>
// dispatched to the querier of the route.
func (app *BaseApp) Query(req *abci.RequestQuery) (*abci.ResponseQuery, error) {
	ctx, span := tracer.NewSpan(context.Background(), "BaseApp.Query")
	defer span.End()

	path := splitPath(req.Path)
	if len(path) == 0 {
		return app.queryError(action.ErrUnknownRequest.Wrap("no query path"), req.Height), nil
	}
	if req.Height < 0 {
		return app.queryError(action.ErrInvalidRequest.Wrapf("negative height %d", req.Height), req.Height), nil
	}
	var (
		height = uint64(req.Height)
		value  []byte
		err    error
	)
	if path[0] == _storeQueryRoute {
		if len(path) != 2 || path[1] != "key" {
			return app.queryError(action.ErrUnknownRequest.Wrapf("unknown store query %s", req.Path), req.Height), nil
		}
		height, err = app.view(height, func(sr store.KVReader) error {
			v, err := sr.Get(req.Data)
			switch errors.Cause(err) {
			case nil:
				value = v
				return nil
			case store.ErrNotExist:
				return nil
			case store.ErrEmptyKey:
				return action.ErrInvalidRequest.Wrap("empty key")
			default:
				return err
			}
		})
	} else {
		querier, ok := app.queryRouter.Route(path[0])
		if !ok {
			return app.queryError(action.ErrUnknownRoute.Wrapf("no querier of route %s", path[0]), req.Height), nil
		}
		height, err = app.view(height, func(sr store.KVReader) error {
			var err error
			value, err = querier(ctx, sr, path[1:], req.Data)
			return err
		})
	}
	if err != nil {
		return app.queryError(err, int64(height)), nil
	}
	return &abci.ResponseQuery{
		Code:   abci.CodeTypeOK,
		Key:    req.Data,
		Value:  value,
		Height: int64(height),
	}, nil
}

// view runs fn against the state at height, 0 being the latest committed state, and returns the
// height actually read
func (app *BaseApp) view(height uint64, fn func(store.KVReader) error) (uint64, error) {
	if height == 0 {
		err := app.cms.ViewLatest(func(version uint64, sr store.KVReader) error {
			height = version
			return fn(sr)
		})
		return height, err
	}
	err := app.cms.ViewAt(height, fn)
	switch errors.Cause(err) {
	case store.ErrInvalidVersion, store.ErrVersionPruned:
		return height, action.ErrInvalidRequest.Wrap(err.Error())
	default:
		return height, err
	}
}

func (app *BaseApp) queryError(err error, height int64) *abci.ResponseQuery {
	codespace, code, logMsg := action.ABCIInfo(err, app.cfg.Debug)
	return &abci.ResponseQuery{
		Code:      code,
		Log:       logMsg,
		Height:    height,
		Codespace: codespace,
	}
}

// ExportGenesis exports the genesis sections of all modules from the latest committed state
func (app *BaseApp) ExportGenesis(ctx context.Context) ([]byte, error) {
	var genesis []byte
	if err := app.cms.View(func(sr store.KVReader) error {
		var err error
		genesis, err = app.registry.ExportGenesis(ctx, sr)
		return err
	}); err != nil {
		return nil, err
	}
	return genesis, nil
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
