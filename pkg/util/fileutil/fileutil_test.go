// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package fileutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFileExists(t *testing.T) {
	t.Run("valid file path", func(t *testing.T) {
		require.True(t, FileExists("./fileutil.go"))
	})

	t.Run("invalid file path", func(t *testing.T) {
		require.False(t, FileExists(""))
	})
}

func TestWriteFileIfNotExist(t *testing.T) {
	require := require.New(t)
	path := filepath.Join(t.TempDir(), "conf", "genesis.json")
	require.NoError(WriteFileIfNotExist(path, []byte("{}"), 0644))
	b, err := os.ReadFile(path)
	require.NoError(err)
	require.Equal("{}", string(b))

	err = WriteFileIfNotExist(path, []byte("[]"), 0644)
	require.Error(err)
	require.Contains(err.Error(), "already exists")
	b, err = os.ReadFile(path)
	require.NoError(err)
	require.Equal("{}", string(b))
}
