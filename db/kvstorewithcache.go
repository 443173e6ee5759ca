// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"sync"

	"github.com/iotexproject/go-pkgs/cache"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iotexproject/iotex-appchain/db/batch"
)

var _cacheMtc = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "iotex_appchain_kv_cache",
		Help: "kv store read cache lookups.",
	},
	[]string{"result"},
)

func init() {
	prometheus.MustRegister(_cacheMtc)
}

type (
	// nsCache is the lru cache of one namespace. gen is bumped on every write so that a
	// read which raced with a write does not fill the cache with the value it replaced.
	nsCache struct {
		lru cache.LRUCache
		gen uint64
	}

	// kvStoreWithCache wraps a KVStore with per-namespace LRU caches of the latest values
	kvStoreWithCache struct {
		KVStore
		mu     sync.Mutex
		size   int
		only   map[string]struct{}
		caches map[string]*nsCache
	}
)

// NewKvStoreWithCache wraps kv with read caches of cacheSize entries. With namespaces given, only reads of
// those namespaces are cached.
func NewKvStoreWithCache(kv KVStore, cacheSize int, namespaces ...string) KVStore {
	kvc := &kvStoreWithCache{
		KVStore: kv,
		size:    cacheSize,
		caches:  make(map[string]*nsCache),
	}
	if len(namespaces) > 0 {
		kvc.only = make(map[string]struct{}, len(namespaces))
		for _, ns := range namespaces {
			kvc.only[ns] = struct{}{}
		}
	}
	return kvc
}

// Stop drops every cached value and stops the underlying store
func (kvc *kvStoreWithCache) Stop(ctx context.Context) error {
	kvc.mu.Lock()
	kvc.caches = make(map[string]*nsCache)
	kvc.mu.Unlock()
	return kvc.KVStore.Stop(ctx)
}

// Get serves a value from the cache, or reads it from the underlying store and caches it
func (kvc *kvStoreWithCache) Get(ns string, key []byte) ([]byte, error) {
	k := string(key)
	gen, cached := kvc.lookup(ns, k)
	if cached != nil {
		_cacheMtc.WithLabelValues("hit").Inc()
		return copyBytes(cached), nil
	}
	v, err := kvc.KVStore.Get(ns, key)
	if err != nil {
		return nil, err
	}
	_cacheMtc.WithLabelValues("miss").Inc()
	kvc.fill(ns, k, gen, copyBytes(v))
	return v, nil
}

// Put writes through to the underlying store
func (kvc *kvStoreWithCache) Put(ns string, key, value []byte) error {
	if err := kvc.KVStore.Put(ns, key, value); err != nil {
		return err
	}
	kvc.evict(ns, string(key))
	return nil
}

// Delete deletes from the underlying store
func (kvc *kvStoreWithCache) Delete(ns string, key []byte) error {
	if err := kvc.KVStore.Delete(ns, key); err != nil {
		return err
	}
	kvc.evict(ns, string(key))
	return nil
}

// WriteBatch commits the batch and evicts every key it touched
func (kvc *kvStoreWithCache) WriteBatch(kvsb batch.KVStoreBatch) error {
	kvsb.Lock()
	touched := make(map[string][]string)
	for i := 0; i < kvsb.Size(); i++ {
		write, err := kvsb.Entry(i)
		if err != nil {
			kvsb.Unlock()
			return err
		}
		if kvc.cacheable(write.Namespace()) {
			touched[write.Namespace()] = append(touched[write.Namespace()], string(write.Key()))
		}
	}
	kvsb.Unlock()
	// evict on both sides of the write, a reader in between sees a bumped generation
	for ns, keys := range touched {
		kvc.evict(ns, keys...)
	}
	if err := kvc.KVStore.WriteBatch(kvsb); err != nil {
		return err
	}
	for ns, keys := range touched {
		kvc.evict(ns, keys...)
	}
	return nil
}

func (kvc *kvStoreWithCache) cacheable(ns string) bool {
	if kvc.only == nil {
		return true
	}
	_, ok := kvc.only[ns]
	return ok
}

// cacheFor returns the cache of ns, creating it if asked to
func (kvc *kvStoreWithCache) cacheFor(ns string, create bool) *nsCache {
	c, ok := kvc.caches[ns]
	if !ok && create && kvc.cacheable(ns) {
		c = &nsCache{lru: cache.NewThreadSafeLruCache(kvc.size)}
		kvc.caches[ns] = c
	}
	return c
}

func (kvc *kvStoreWithCache) lookup(ns, key string) (uint64, []byte) {
	kvc.mu.Lock()
	defer kvc.mu.Unlock()
	c := kvc.cacheFor(ns, true)
	if c == nil {
		return 0, nil
	}
	if v, ok := c.lru.Get(key); ok {
		if b, ok := v.([]byte); ok {
			return c.gen, b
		}
	}
	return c.gen, nil
}

func (kvc *kvStoreWithCache) fill(ns, key string, gen uint64, value []byte) {
	kvc.mu.Lock()
	defer kvc.mu.Unlock()
	if c := kvc.cacheFor(ns, false); c != nil && c.gen == gen {
		c.lru.Add(key, value)
	}
}

func (kvc *kvStoreWithCache) evict(ns string, keys ...string) {
	kvc.mu.Lock()
	defer kvc.mu.Unlock()
	c := kvc.cacheFor(ns, false)
	if c == nil {
		return
	}
	c.gen++
	for _, k := range keys {
		c.lru.Remove(k)
	}
}
