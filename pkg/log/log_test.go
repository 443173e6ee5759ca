// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package log

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggers(t *testing.T) {
	require := require.New(t)

	err := InitLoggers(GlobalConfig{}, map[string]GlobalConfig{_globalLoggerName: {}})
	require.Error(err)

	require.NoError(InitLoggers(GlobalConfig{EcsIntegration: true}, map[string]GlobalConfig{"store": {}}))
	require.NotNil(L())
	require.NotEqual(L(), Logger("store"))
	require.Equal(L(), Logger("unknown"))

	err = InitLoggers(GlobalConfig{}, map[string]GlobalConfig{"store": {}})
	require.Error(err)
}

func TestContextLogger(t *testing.T) {
	require := require.New(t)

	require.Equal(L(), FromContext(context.Background()))
	l := zap.NewNop()
	ctx := WithLogger(context.Background(), l)
	require.Equal(l, FromContext(ctx))
}

func TestHex(t *testing.T) {
	f := Hex("hash", []byte{0x01, 0xab})
	require.Equal(t, "01ab", f.String)
}
