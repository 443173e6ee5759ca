// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-appchain/action"
	"github.com/iotexproject/iotex-appchain/action/protocol"
)

func testHandler(data string) protocol.Handler {
	return func(context.Context, protocol.StateManager, action.Msg) (*action.Result, error) {
		return &action.Result{Data: []byte(data)}, nil
	}
}

func TestRouter(t *testing.T) {
	require := require.New(t)

	r := NewRouter()
	require.NoError(r.AddRoute("bank", testHandler("bank")))
	require.NoError(r.AddRoute("staking", testHandler("staking")))
	require.Equal(ErrDuplicateRoute, errors.Cause(r.AddRoute("bank", testHandler("other"))))
	for _, path := range []string{"", "bank/send", "bank send", "bänk"} {
		require.Equal(ErrInvalidRoute, errors.Cause(r.AddRoute(path, testHandler(path))), path)
	}

	h, ok := r.Route("bank")
	require.True(ok)
	res, err := h(context.Background(), nil, nil)
	require.NoError(err)
	require.Equal([]byte("bank"), res.Data)
	_, ok = r.Route("unknown")
	require.False(ok)

	require.False(r.Sealed())
	r.Seal()
	require.True(r.Sealed())
	require.Equal(ErrRouterSealed, errors.Cause(r.AddRoute("gov", testHandler("gov"))))
	_, ok = r.Route("staking")
	require.True(ok)
}

func TestRouterOrderIndependent(t *testing.T) {
	require := require.New(t)
	routes := []string{"a", "b", "c"}

	r1, r2 := NewRouter(), NewRouter()
	for i := range routes {
		require.NoError(r1.AddRoute(routes[i], testHandler(routes[i])))
		j := len(routes) - 1 - i
		require.NoError(r2.AddRoute(routes[j], testHandler(routes[j])))
	}
	for _, path := range routes {
		h1, ok := r1.Route(path)
		require.True(ok)
		h2, ok := r2.Route(path)
		require.True(ok)
		res1, err := h1(context.Background(), nil, nil)
		require.NoError(err)
		res2, err := h2(context.Background(), nil, nil)
		require.NoError(err)
		require.Equal(res1.Data, res2.Data)
	}
}

func TestQueryRouter(t *testing.T) {
	require := require.New(t)

	q := func(_ context.Context, _ protocol.StateReader, path []string, _ []byte) ([]byte, error) {
		return []byte(path[0]), nil
	}
	r := NewQueryRouter()
	require.NoError(r.AddRoute("bank", q))
	require.Equal(ErrDuplicateRoute, errors.Cause(r.AddRoute("bank", q)))
	require.Equal(ErrInvalidRoute, errors.Cause(r.AddRoute("", q)))

	querier, ok := r.Route("bank")
	require.True(ok)
	v, err := querier(context.Background(), nil, []string{"balance"}, nil)
	require.NoError(err)
	require.Equal([]byte("balance"), v)

	r.Seal()
	require.True(r.Sealed())
	require.Equal(ErrRouterSealed, errors.Cause(r.AddRoute("gov", q)))
}
