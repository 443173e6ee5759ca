// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package store

import (
	"github.com/pkg/errors"
)

var (
	// ErrNotExist indicates the key does not exist in the store
	ErrNotExist = errors.New("key does not exist")
	// ErrEmptyKey indicates an empty key is used
	ErrEmptyKey = errors.New("empty key")
	// ErrNilValue indicates a nil value is written
	ErrNilValue = errors.New("nil value")
	// ErrScopeClosed indicates a scope is used after it has been written or discarded
	ErrScopeClosed = errors.New("scope is closed")
	// ErrInvalidScope indicates a scope is committed into a store it does not belong to
	ErrInvalidScope = errors.New("invalid scope")
	// ErrInvalidVersion indicates the requested version has not been committed
	ErrInvalidVersion = errors.New("invalid version")
	// ErrVersionPruned indicates the requested version is not retained
	ErrVersionPruned = errors.New("version is pruned")
	// ErrStoreNotStarted indicates the store is used before start or after stop
	ErrStoreNotStarted = errors.New("store has not started")
)

type (
	// KVReader is the read side of a store
	KVReader interface {
		// Get returns the value of key, or ErrNotExist
		Get([]byte) ([]byte, error)
		// Has returns whether the key exists
		Has([]byte) (bool, error)
		// Iterate calls fn in ascending key order for every key with the prefix, a non-nil error
		// returned by fn stops the iteration and is returned
		Iterate([]byte, func(k, v []byte) error) error
	}

	// KVStore is a readable and writable store
	KVStore interface {
		KVReader
		// Set writes value of key
		Set([]byte, []byte) error
		// Delete removes the key, deleting a missing key is not an error
		Delete([]byte) error
	}
)

func validateKey(key []byte) error {
	if len(key) == 0 {
		return ErrEmptyKey
	}
	return nil
}

func validateValue(value []byte) error {
	if value == nil {
		return ErrNilValue
	}
	return nil
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	ret := make([]byte, len(b))
	copy(ret, b)
	return ret
}
