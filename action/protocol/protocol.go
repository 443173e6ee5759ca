// Copyright (c) 2018 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package protocol

import (
	"context"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/store"
)

type (
	// StateReader defines the read side of the state handed to a module
	StateReader interface {
		store.KVReader
	}

	// StateManager defines the state handed to a module for one call
	StateManager interface {
		store.KVStore
	}

	// AnteHandler runs the checks every transaction passes before its msgs, such as
	// signature, nonce and fee. Its writes are kept only if it succeeds.
	AnteHandler func(context.Context, StateManager, action.Tx) error

	// Handler handles a msg routed to a module
	Handler func(context.Context, StateManager, action.Msg) (*action.Result, error)

	// Querier answers a query routed to a module, path excludes the route
	Querier func(ctx context.Context, sr StateReader, path []string, data []byte) ([]byte, error)

	// Invariant checks a property of the state, it returns a message and whether the property is broken
	Invariant func(context.Context, StateReader) (string, bool)

	// InvariantRegistry collects invariants of modules
	InvariantRegistry interface {
		RegisterRoute(moduleName, route string, invar Invariant)
	}

	// Basic is the stateless part of a module
	Basic interface {
		// Name is the unique name of the module, also the key of its genesis section and state prefix
		Name() string
		DefaultGenesis() []byte
		ValidateGenesis([]byte) error
	}

	// GenesisHandler initializes and exports the state of a module
	GenesisHandler interface {
		InitGenesis(context.Context, StateManager, []byte) ([]abci.ValidatorUpdate, error)
		ExportGenesis(context.Context, StateReader) ([]byte, error)
	}

	// BlockHooks are called at the beginning and end of every block
	BlockHooks interface {
		BeginBlock(context.Context, StateManager) error
		EndBlock(context.Context, StateManager) ([]abci.ValidatorUpdate, error)
	}

	// Module is a state machine plugged into the application
	Module interface {
		Basic
		GenesisHandler
		BlockHooks
		RegisterInvariants(InvariantRegistry)
		// Route is the route of the msgs handled by the module, empty if the module handles no msg
		Route() string
		Handle(context.Context, StateManager, action.Msg) (*action.Result, error)
		// QuerierRoute is the route of the queries answered by the module, empty if none
		QuerierRoute() string
		Query(ctx context.Context, sr StateReader, path []string, data []byte) ([]byte, error)
	}

	// NopLifecycle provides no-op block hooks and invariants to modules embedding it
	NopLifecycle struct{}
)

// BeginBlock does nothing
func (NopLifecycle) BeginBlock(context.Context, StateManager) error { return nil }

// EndBlock does nothing
func (NopLifecycle) EndBlock(context.Context, StateManager) ([]abci.ValidatorUpdate, error) {
	return nil, nil
}

// RegisterInvariants does nothing
func (NopLifecycle) RegisterInvariants(InvariantRegistry) {}

// ModuleStore returns the key space of a module within the state
func ModuleStore(sm StateManager, name string) StateManager {
	return store.Prefix(sm, modulePrefix(name))
}

// ModuleReader returns the read-only key space of a module within the state
func ModuleReader(sr StateReader, name string) StateReader {
	return store.PrefixReader(sr, modulePrefix(name))
}

func modulePrefix(name string) []byte {
	return []byte(name + "/")
}
