// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package fileutil

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// FileExists checks if a file or a directory already exists
func FileExists(path string) bool {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return false
	}
	return true
}

// WriteFileIfNotExist writes data to a new file, creating its parent directory, and fails if the file exists
func WriteFileIfNotExist(path string, data []byte, perm os.FileMode) error {
	if FileExists(path) {
		return errors.Errorf("file %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errors.Wrapf(err, "failed to create directory of %s", path)
	}
	return os.WriteFile(path, data, perm)
}
