// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-appchain/action/protocol"
)

var (
	// ErrInvalidRoute indicates an empty or non-alphanumeric route
	ErrInvalidRoute = errors.New("invalid route")
	// ErrDuplicateRoute indicates a route registered twice
	ErrDuplicateRoute = errors.New("route already exists")
	// ErrRouterSealed indicates a route added after the router is sealed
	ErrRouterSealed = errors.New("router is sealed")
)

type (
	routeTable[T any] struct {
		mu     sync.RWMutex
		routes map[string]T
		sealed bool
	}

	// Router maps msg routes to handlers
	Router struct {
		table routeTable[protocol.Handler]
	}

	// QueryRouter maps query routes to queriers
	QueryRouter struct {
		table routeTable[protocol.Querier]
	}
)

func (t *routeTable[T]) add(path string, h T) error {
	if !protocol.IsAlphaNumeric(path) {
		return errors.Wrapf(ErrInvalidRoute, "route %q", path)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.sealed {
		return errors.Wrapf(ErrRouterSealed, "route %s", path)
	}
	if t.routes == nil {
		t.routes = make(map[string]T)
	}
	if _, ok := t.routes[path]; ok {
		return errors.Wrapf(ErrDuplicateRoute, "route %s", path)
	}
	t.routes[path] = h
	return nil
}

func (t *routeTable[T]) route(path string) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	h, ok := t.routes[path]
	return h, ok
}

func (t *routeTable[T]) seal() {
	t.mu.Lock()
	t.sealed = true
	t.mu.Unlock()
}

func (t *routeTable[T]) isSealed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.sealed
}

// NewRouter returns an empty router
func NewRouter() *Router { return &Router{} }

// AddRoute adds a handler of the route
func (r *Router) AddRoute(path string, h protocol.Handler) error { return r.table.add(path, h) }

// Route returns the handler of the route
func (r *Router) Route(path string) (protocol.Handler, bool) { return r.table.route(path) }

// Seal seals the router, no route can be added afterwards
func (r *Router) Seal() { r.table.seal() }

// Sealed returns whether the router is sealed
func (r *Router) Sealed() bool { return r.table.isSealed() }

// NewQueryRouter returns an empty query router
func NewQueryRouter() *QueryRouter { return &QueryRouter{} }

// AddRoute adds a querier of the route
func (r *QueryRouter) AddRoute(path string, q protocol.Querier) error { return r.table.add(path, q) }

// Route returns the querier of the route
func (r *QueryRouter) Route(path string) (protocol.Querier, bool) { return r.table.route(path) }

// Seal seals the router, no route can be added afterwards
func (r *QueryRouter) Seal() { r.table.seal() }

// Sealed returns whether the router is sealed
func (r *QueryRouter) Sealed() bool { return r.table.isSealed() }
