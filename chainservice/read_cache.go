// Copyright (c) 2022 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package chainservice

import (
	"encoding/json"
	"time"

	"github.com/iotexproject/go-pkgs/cache/ttl"
	"github.com/iotexproject/go-pkgs/hash"
	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-appchain/pkg/log"
)

type (
	// ReadKey represents a query against a committed height
	ReadKey struct {
		Path   string `json:"path,omitempty"`
		Height int64  `json:"height,omitempty"`
		Data   []byte `json:"data,omitempty"`
	}

	// ReadCache stores results of queries at past heights, which never change
	ReadCache struct {
		total, hit atomic.Int64
		c          *ttl.Cache
	}
)

// Hash returns the hash of key's json string
func (k *ReadKey) Hash() hash.Hash160 {
	b, _ := json.Marshal(k)
	return hash.Hash160b(b)
}

// NewReadCache returns a new read cache, entries expire after the given duration
func NewReadCache(expire time.Duration) *ReadCache {
	c, _ := ttl.NewCache(ttl.AutoExpireOption(expire))
	return &ReadCache{
		c: c,
	}
}

// Get reads according to key
func (rc *ReadCache) Get(key hash.Hash160) ([]byte, bool) {
	total := rc.total.Inc()
	d, ok := rc.c.Get(key)
	if !ok {
		return nil, false
	}
	if hit := rc.hit.Inc(); hit%100 == 0 {
		log.Logger("query").Info("Query cache hit", zap.Int64("total", total), zap.Int64("hit", hit))
	}
	return d.([]byte), true
}

// Put writes according to key
func (rc *ReadCache) Put(key hash.Hash160, value []byte) {
	rc.c.Set(key, value)
}

// Clear clears the cache
func (rc *ReadCache) Clear() {
	rc.c.Reset()
}
