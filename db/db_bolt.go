// Copyright (c) 2018 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package db

import (
	"bytes"
	"context"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-appchain/db/batch"
	"github.com/iotexproject/iotex-appchain/pkg/lifecycle"
	"github.com/iotexproject/iotex-appchain/pkg/log"
)

const fileMode = 0600

// BoltDB is KVStore implementation based bolt DB
type BoltDB struct {
	lifecycle.Readiness
	db     *bolt.DB
	path   string
	config Config
}

// NewBoltDB instantiates an BoltDB with implements KVStore
func NewBoltDB(cfg Config) *BoltDB {
	return &BoltDB{
		db:     nil,
		path:   cfg.DbPath,
		config: cfg,
	}
}

// Start opens the BoltDB (creates new file if not existing yet)
func (b *BoltDB) Start(_ context.Context) error {
	opts := *bolt.DefaultOptions
	if b.config.ReadOnly {
		opts.ReadOnly = true
	}
	db, err := bolt.Open(b.path, fileMode, &opts)
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	b.db = db
	return b.TurnOn()
}

// Stop closes the BoltDB
func (b *BoltDB) Stop(_ context.Context) error {
	if err := b.TurnOff(); err != nil {
		return err
	}
	if err := b.db.Close(); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Put inserts a <key, value> record
func (b *BoltDB) Put(namespace string, key, value []byte) error {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	return b.update(func(tx *bolt.Tx) error {
		bucket, err := tx.CreateBucketIfNotExists([]byte(namespace))
		if err != nil {
			return err
		}
		return bucket.Put(key, value)
	})
}

// Get retrieves a record
func (b *BoltDB) Get(namespace string, key []byte) ([]byte, error) {
	if !b.IsReady() {
		return nil, ErrDBNotStarted
	}
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return errors.Wrapf(ErrNotExist, "bucket = %x doesn't exist", []byte(namespace))
		}
		v := bucket.Get(key)
		if v == nil {
			return errors.Wrapf(ErrNotExist, "key = %x doesn't exist", key)
		}
		value = copyBytes(v)
		return nil
	})
	if err == nil {
		return value, nil
	}
	if errors.Cause(err) == ErrNotExist {
		return nil, err
	}
	return nil, errors.Wrap(ErrIO, err.Error())
}

// Delete deletes a record
func (b *BoltDB) Delete(namespace string, key []byte) error {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	return b.update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return nil
		}
		return bucket.Delete(key)
	})
}

// WriteBatch commits a batch
func (b *BoltDB) WriteBatch(kvsb batch.KVStoreBatch) error {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	kvsb.Lock()
	err := b.update(func(tx *bolt.Tx) error {
		for i := 0; i < kvsb.Size(); i++ {
			write, err := kvsb.Entry(i)
			if err != nil {
				return backoff.Permanent(err)
			}
			ns := []byte(write.Namespace())
			switch write.WriteType() {
			case batch.Put:
				bucket, err := tx.CreateBucketIfNotExists(ns)
				if err != nil {
					return write.Error(err)
				}
				if err := bucket.Put(write.Key(), write.Value()); err != nil {
					return write.Error(err)
				}
			case batch.Delete:
				bucket := tx.Bucket(ns)
				if bucket == nil {
					continue
				}
				if err := bucket.Delete(write.Key()); err != nil {
					return write.Error(err)
				}
			default:
				return backoff.Permanent(write.Error(batch.ErrUnexpectedType))
			}
		}
		return nil
	})
	if err != nil {
		kvsb.Unlock()
		return err
	}
	kvsb.ClearAndUnlock()
	return nil
}

// Filter returns <k, v> pair in a bucket that meet the condition
func (b *BoltDB) Filter(namespace string, cond Condition, minKey, maxKey []byte) ([][]byte, [][]byte, error) {
	if !b.IsReady() {
		return nil, nil, ErrDBNotStarted
	}
	var fk, fv [][]byte
	if err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return errors.Wrapf(ErrNotExist, "bucket = %x doesn't exist", []byte(namespace))
		}
		c := bucket.Cursor()
		for k, v := c.Seek(minKey); k != nil; k, v = c.Next() {
			if len(maxKey) > 0 && bytes.Compare(k, maxKey) > 0 {
				break
			}
			if cond(k, v) {
				fk = append(fk, copyBytes(k))
				fv = append(fv, copyBytes(v))
			}
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}
	if len(fk) == 0 {
		return nil, nil, errors.Wrap(ErrNotExist, "filter returns no match")
	}
	return fk, fv, nil
}

// ForEach iterates over all <k, v> pairs in a bucket
func (b *BoltDB) ForEach(namespace string, fn func(k, v []byte) error) error {
	if !b.IsReady() {
		return ErrDBNotStarted
	}
	return b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(namespace))
		if bucket == nil {
			return nil
		}
		return bucket.ForEach(func(k, v []byte) error {
			return fn(copyBytes(k), copyBytes(v))
		})
	})
}

// update runs a read-write transaction, retrying up to NumRetries times with exponential backoff
func (b *BoltDB) update(fn func(*bolt.Tx) error) error {
	var retries uint64
	if b.config.NumRetries > 1 {
		retries = uint64(b.config.NumRetries - 1)
	}
	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		err := b.db.Update(fn)
		if err == bolt.ErrDatabaseReadOnly {
			return backoff.Permanent(err)
		}
		if err != nil && attempt > 1 {
			log.L().Warn("Retried bolt update.", zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), retries))
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}
