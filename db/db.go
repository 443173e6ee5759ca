// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package db

import (
	"bytes"
	"context"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-appchain/db/batch"
	"github.com/iotexproject/iotex-appchain/pkg/lifecycle"
)

var (
	// ErrNotExist indicates certain item does not exist in Blockchain database
	ErrNotExist = errors.New("not exist in DB")
	// ErrIO indicates the generic error of DB I/O operation
	ErrIO = errors.New("DB I/O operation error")
	// ErrInvalid indicates an invalid input
	ErrInvalid = errors.New("invalid input")
	// ErrDBNotStarted indicates the db is accessed before start or after stop
	ErrDBNotStarted = errors.New("db has not started")
)

type (
	// Condition decides whether a <k, v> pair is selected by Filter
	Condition func(k, v []byte) bool

	// KVStore is the interface of KV store.
	KVStore interface {
		lifecycle.StartStopper

		// Put insert or update a record identified by (namespace, key)
		Put(string, []byte, []byte) error
		// Get gets a record by (namespace, key)
		Get(string, []byte) ([]byte, error)
		// Delete deletes a record by (namespace, key)
		Delete(string, []byte) error
		// WriteBatch commits a batch atomically, the batch is cleared on success
		WriteBatch(batch.KVStoreBatch) error
		// Filter returns in key order the <k, v> pairs in [minKey, maxKey] that meet the condition,
		// an empty maxKey means no upper bound
		Filter(string, Condition, []byte, []byte) ([][]byte, [][]byte, error)
		// ForEach iterates over all <k, v> pairs of a namespace in key order
		ForEach(string, func([]byte, []byte) error) error
	}

	// memKVStore is the in-memory implementation of KVStore for testing purpose
	memKVStore struct {
		lifecycle.Readiness
		mutex sync.RWMutex
		data  map[string]map[string][]byte
	}
)

// NewMemKVStore instantiates an in-memory KV store
func NewMemKVStore() KVStore {
	return &memKVStore{
		data: make(map[string]map[string][]byte),
	}
}

func (m *memKVStore) Start(_ context.Context) error { return m.TurnOn() }

func (m *memKVStore) Stop(_ context.Context) error { return m.TurnOff() }

// Put inserts a <key, value> record
func (m *memKVStore) Put(namespace string, key, value []byte) error {
	if !m.IsReady() {
		return ErrDBNotStarted
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.put(namespace, key, value)
	return nil
}

// Get retrieves a record
func (m *memKVStore) Get(namespace string, key []byte) ([]byte, error) {
	if !m.IsReady() {
		return nil, ErrDBNotStarted
	}
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	bucket, ok := m.data[namespace]
	if !ok {
		return nil, errors.Wrapf(ErrNotExist, "namespace = %s doesn't exist", namespace)
	}
	value, ok := bucket[string(key)]
	if !ok {
		return nil, errors.Wrapf(ErrNotExist, "key = %x doesn't exist", key)
	}
	return copyBytes(value), nil
}

// Delete deletes a record
func (m *memKVStore) Delete(namespace string, key []byte) error {
	if !m.IsReady() {
		return ErrDBNotStarted
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if bucket, ok := m.data[namespace]; ok {
		delete(bucket, string(key))
	}
	return nil
}

// WriteBatch commits a batch
func (m *memKVStore) WriteBatch(b batch.KVStoreBatch) error {
	if !m.IsReady() {
		return ErrDBNotStarted
	}
	b.Lock()
	if err := m.writeBatch(b); err != nil {
		b.Unlock()
		return err
	}
	b.ClearAndUnlock()
	return nil
}

func (m *memKVStore) writeBatch(b batch.KVStoreBatch) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	// a bad entry rejects the whole batch
	for i := 0; i < b.Size(); i++ {
		write, err := b.Entry(i)
		if err != nil {
			return err
		}
		if write.WriteType() != batch.Put && write.WriteType() != batch.Delete {
			return write.Error(batch.ErrUnexpectedType)
		}
	}
	for i := 0; i < b.Size(); i++ {
		write, _ := b.Entry(i)
		switch write.WriteType() {
		case batch.Put:
			m.put(write.Namespace(), write.Key(), write.Value())
		case batch.Delete:
			if bucket, ok := m.data[write.Namespace()]; ok {
				delete(bucket, string(write.Key()))
			}
		}
	}
	return nil
}

// Filter returns <k, v> pair in a bucket that meet the condition
func (m *memKVStore) Filter(namespace string, cond Condition, minKey, maxKey []byte) ([][]byte, [][]byte, error) {
	var fk, fv [][]byte
	if err := m.ForEach(namespace, func(k, v []byte) error {
		if bytes.Compare(k, minKey) < 0 {
			return nil
		}
		if len(maxKey) > 0 && bytes.Compare(k, maxKey) > 0 {
			return errStopIteration
		}
		if cond(k, v) {
			fk = append(fk, k)
			fv = append(fv, v)
		}
		return nil
	}); err != nil && err != errStopIteration {
		return nil, nil, err
	}
	if len(fk) == 0 {
		return nil, nil, errors.Wrap(ErrNotExist, "filter returns no match")
	}
	return fk, fv, nil
}

// ForEach iterates over all <k, v> pairs in a bucket
func (m *memKVStore) ForEach(namespace string, fn func(k, v []byte) error) error {
	if !m.IsReady() {
		return ErrDBNotStarted
	}
	m.mutex.RLock()
	bucket := m.data[namespace]
	keys := make([]string, 0, len(bucket))
	for k := range bucket {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = copyBytes(bucket[k])
	}
	m.mutex.RUnlock()

	for i, k := range keys {
		if err := fn([]byte(k), values[i]); err != nil {
			return err
		}
	}
	return nil
}

func (m *memKVStore) put(namespace string, key, value []byte) {
	bucket, ok := m.data[namespace]
	if !ok {
		bucket = make(map[string][]byte)
		m.data[namespace] = bucket
	}
	bucket[string(key)] = copyBytes(value)
}

var errStopIteration = errors.New("stop iteration")

func copyBytes(b []byte) []byte {
	ret := make([]byte, len(b))
	copy(ret, b)
	return ret
}
