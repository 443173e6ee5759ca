// Copyright (c) 2018 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempDBPath returns a db path inside a per-test temp dir which is removed on cleanup
func TempDBPath(t testing.TB, name string) string {
	return filepath.Join(t.TempDir(), name)
}

// WriteTempFile writes content to a file named name inside a per-test temp dir and returns its path
func WriteTempFile(t testing.TB, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}
