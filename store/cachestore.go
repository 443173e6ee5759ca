// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package store

import (
	"bytes"
	"sort"
	"sync"

	"github.com/pkg/errors"
)

type (
	cValue struct {
		value   []byte
		deleted bool
	}

	kvPair struct {
		key     []byte
		value   []byte
		deleted bool
	}

	// CacheStore is a scope over a parent store. Reads fall through to the parent for keys not written
	// in the scope, writes stay in the scope until Write merges them into the parent.
	CacheStore struct {
		mu          sync.RWMutex
		parent      KVReader
		parentScope *CacheStore
		owner       *CommitStore
		version     uint64
		dirty       map[string]cValue
		closed      bool
	}
)

func newCacheStore(parent KVReader) *CacheStore {
	return &CacheStore{
		parent: parent,
		dirty:  make(map[string]cValue),
	}
}

// CacheWrap opens a child scope
func (s *CacheStore) CacheWrap() *CacheStore {
	child := newCacheStore(s)
	child.parentScope = s
	return child
}

// Get returns the value of key
func (s *CacheStore) Get(key []byte) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrScopeClosed
	}
	cv, ok := s.dirty[string(key)]
	s.mu.RUnlock()
	if ok {
		if cv.deleted {
			return nil, errors.Wrapf(ErrNotExist, "key = %x is deleted", key)
		}
		return copyBytes(cv.value), nil
	}
	return s.parent.Get(key)
}

// Has returns whether the key exists
func (s *CacheStore) Has(key []byte) (bool, error) {
	_, err := s.Get(key)
	switch errors.Cause(err) {
	case nil:
		return true, nil
	case ErrNotExist:
		return false, nil
	default:
		return false, err
	}
}

// Set writes value of key into the scope
func (s *CacheStore) Set(key, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	if err := validateValue(value); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrScopeClosed
	}
	s.dirty[string(key)] = cValue{value: copyBytes(value)}
	return nil
}

// Delete marks the key deleted in the scope
func (s *CacheStore) Delete(key []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrScopeClosed
	}
	s.dirty[string(key)] = cValue{deleted: true}
	return nil
}

// Iterate merges the scope's writes over the parent and iterates in key order
func (s *CacheStore) Iterate(prefix []byte, fn func(k, v []byte) error) error {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return ErrScopeClosed
	}
	overlay := make(map[string]cValue)
	for k, cv := range s.dirty {
		if bytes.HasPrefix([]byte(k), prefix) {
			overlay[k] = cv
		}
	}
	s.mu.RUnlock()

	merged := make(map[string][]byte)
	if err := s.parent.Iterate(prefix, func(k, v []byte) error {
		merged[string(k)] = v
		return nil
	}); err != nil {
		return err
	}
	for k, cv := range overlay {
		if cv.deleted {
			delete(merged, k)
			continue
		}
		merged[k] = cv.value
	}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), copyBytes(merged[k])); err != nil {
			return err
		}
	}
	return nil
}

// Write merges the scope's writes into the parent scope and closes the scope. A root scope is
// committed by its CommitStore instead.
func (s *CacheStore) Write() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrScopeClosed
	}
	if s.parentScope == nil {
		return errors.Wrap(ErrInvalidScope, "root scope must be committed by its store")
	}
	if err := s.parentScope.apply(s.dirty); err != nil {
		return err
	}
	s.close()
	return nil
}

// Discard drops the scope's writes and closes the scope
func (s *CacheStore) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.close()
}

// IsClosed returns whether the scope has been written or discarded
func (s *CacheStore) IsClosed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Len returns the number of keys written in the scope
func (s *CacheStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dirty)
}

func (s *CacheStore) apply(writes map[string]cValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrScopeClosed
	}
	for k, cv := range writes {
		s.dirty[k] = cv
	}
	return nil
}

func (s *CacheStore) close() {
	s.closed = true
	s.dirty = nil
}

// sortedWrites returns the scope's writes in key order, the caller holds the lock
func (s *CacheStore) sortedWrites() []kvPair {
	pairs := make([]kvPair, 0, len(s.dirty))
	for k, cv := range s.dirty {
		pairs = append(pairs, kvPair{key: []byte(k), value: cv.value, deleted: cv.deleted})
	}
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i].key, pairs[j].key) < 0
	})
	return pairs
}

// RunInScope runs fn in a child scope of parent, the scope is written into parent if fn succeeds
// and discarded otherwise
func RunInScope(parent *CacheStore, fn func(*CacheStore) error) error {
	scope := parent.CacheWrap()
	if err := fn(scope); err != nil {
		scope.Discard()
		return err
	}
	return scope.Write()
}
