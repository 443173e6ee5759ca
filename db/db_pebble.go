// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"bytes"
	"context"
	"syscall"

	"github.com/cockroachdb/pebble"
	"github.com/iotexproject/go-pkgs/hash"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-appchain/db/batch"
	"github.com/iotexproject/iotex-appchain/pkg/lifecycle"
	"github.com/iotexproject/iotex-appchain/pkg/log"
)

// namespaces share one keyspace, each key is prefixed by the first bytes of the namespace hash
const _nsPrefixLength = 8

var (
	_pebbleMtc = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "iotex_appchain_pebbledb_metrics",
		Help: "pebbledb metrics.",
	}, []string{"type"})
)

func init() {
	prometheus.MustRegister(_pebbleMtc)
}

// PebbleDB is KVStore implementation based on pebble DB
type PebbleDB struct {
	lifecycle.Readiness
	db     *pebble.DB
	path   string
	config Config
}

// NewPebbleDB creates a new PebbleDB instance
func NewPebbleDB(cfg Config) *PebbleDB {
	return &PebbleDB{
		path:   cfg.DbPath,
		config: cfg,
	}
}

// Start opens the DB (creates new file if not existing yet)
func (p *PebbleDB) Start(_ context.Context) error {
	db, err := pebble.Open(p.path, &pebble.Options{
		FormatMajorVersion: pebble.FormatPrePebblev1MarkedCompacted,
		ReadOnly:           p.config.ReadOnly,
	})
	if err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	p.db = db
	return p.TurnOn()
}

// Stop closes the DB
func (p *PebbleDB) Stop(_ context.Context) error {
	if err := p.TurnOff(); err != nil {
		return err
	}
	if err := p.db.Close(); err != nil {
		return errors.Wrap(ErrIO, err.Error())
	}
	return nil
}

// Get retrieves a record
func (p *PebbleDB) Get(ns string, key []byte) ([]byte, error) {
	if !p.IsReady() {
		return nil, ErrDBNotStarted
	}
	v, closer, err := p.db.Get(nsKey(ns, key))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, errors.Wrapf(ErrNotExist, "ns %s key = %x doesn't exist", ns, key)
		}
		return nil, ioError("get", err)
	}
	val := copyBytes(v)
	return val, closer.Close()
}

// Put inserts a <key, value> record
func (p *PebbleDB) Put(ns string, key, value []byte) error {
	if !p.IsReady() {
		return ErrDBNotStarted
	}
	if err := p.db.Set(nsKey(ns, key), value, pebble.Sync); err != nil {
		return ioError("put", err)
	}
	return nil
}

// Delete deletes a record
func (p *PebbleDB) Delete(ns string, key []byte) error {
	if !p.IsReady() {
		return ErrDBNotStarted
	}
	if key == nil {
		return errors.Wrap(ErrInvalid, "delete whole ns not supported by PebbleDB")
	}
	if err := p.db.Delete(nsKey(ns, key), pebble.Sync); err != nil {
		return ioError("delete", err)
	}
	return nil
}

// WriteBatch commits a batch, only the last write of each key is applied
func (p *PebbleDB) WriteBatch(kvsb batch.KVStoreBatch) error {
	if !p.IsReady() {
		return ErrDBNotStarted
	}
	kvsb.Lock()
	pb, err := p.buildBatch(kvsb)
	if err != nil {
		kvsb.Unlock()
		return err
	}
	defer pb.Close()
	if err := pb.Commit(pebble.Sync); err != nil {
		kvsb.Unlock()
		return ioError("write batch", err)
	}
	kvsb.ClearAndUnlock()
	p.updateMetrics(pb.Count())
	return nil
}

func (p *PebbleDB) buildBatch(kvsb batch.KVStoreBatch) (*pebble.Batch, error) {
	type nsKeyPair struct {
		ns  string
		key string
	}
	var (
		written = make(map[nsKeyPair]struct{})
		pb      = p.db.NewBatch()
	)
	// walk backwards so the first write seen for a key is its last one
	for i := kvsb.Size() - 1; i >= 0; i-- {
		write, err := kvsb.Entry(i)
		if err != nil {
			pb.Close()
			return nil, err
		}
		k := nsKeyPair{ns: write.Namespace(), key: string(write.Key())}
		if _, ok := written[k]; ok {
			continue
		}
		written[k] = struct{}{}
		switch write.WriteType() {
		case batch.Put:
			err = pb.Set(nsKey(k.ns, write.Key()), write.Value(), nil)
		case batch.Delete:
			err = pb.Delete(nsKey(k.ns, write.Key()), nil)
		default:
			err = write.Error(batch.ErrUnexpectedType)
		}
		if err != nil {
			pb.Close()
			return nil, err
		}
	}
	return pb, nil
}

func (p *PebbleDB) updateMetrics(entries uint32) {
	m := p.db.Metrics()
	_pebbleMtc.WithLabelValues("diskSpaceUsage").Set(float64(m.DiskSpaceUsage()))
	_pebbleMtc.WithLabelValues("memtableSize").Set(float64(m.MemTable.Size))
	_pebbleMtc.WithLabelValues("lastBatchEntries").Set(float64(entries))
}

// Filter returns <k, v> pair in a bucket that meet the condition
func (p *PebbleDB) Filter(ns string, cond Condition, minKey []byte, maxKey []byte) ([][]byte, [][]byte, error) {
	var keys, vals [][]byte
	if err := p.iterate(ns, minKey, func(k, v []byte) error {
		if len(maxKey) > 0 && bytes.Compare(k, maxKey) > 0 {
			return errStopIteration
		}
		if cond(k, v) {
			keys = append(keys, copyBytes(k))
			vals = append(vals, copyBytes(v))
		}
		return nil
	}); err != nil && err != errStopIteration {
		return nil, nil, err
	}
	if len(keys) == 0 {
		return nil, nil, errors.Wrap(ErrNotExist, "filter returns no match")
	}
	return keys, vals, nil
}

// ForEach iterates over all <k, v> pairs in a bucket
func (p *PebbleDB) ForEach(ns string, fn func(k, v []byte) error) error {
	return p.iterate(ns, nil, func(k, v []byte) error {
		return fn(copyBytes(k), copyBytes(v))
	})
}

// iterate walks the keys of ns from minKey in order, k and v are only valid during fn
func (p *PebbleDB) iterate(ns string, minKey []byte, fn func(k, v []byte) error) error {
	if !p.IsReady() {
		return ErrDBNotStarted
	}
	prefix := nsToPrefix(ns)
	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: append(prefix, minKey...),
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return errors.Wrap(err, "failed to create iterator")
	}
	defer func() {
		if e := iter.Close(); e != nil {
			log.L().Error("Failed to close iterator", zap.Error(e))
		}
	}()
	for iter.First(); iter.Valid(); iter.Next() {
		if err := fn(iter.Key()[_nsPrefixLength:], iter.Value()); err != nil {
			return err
		}
	}
	return iter.Error()
}

// ioError wraps a pebble error, running out of disk space is not recoverable
func ioError(op string, err error) error {
	if errors.Is(err, syscall.ENOSPC) {
		log.L().Fatal("Pebble db is out of disk space.", zap.String("op", op), zap.Error(err))
	}
	return errors.Wrapf(ErrIO, "failed to %s: %v", op, err)
}

func nsKey(ns string, key []byte) []byte {
	return append(nsToPrefix(ns), key...)
}

func nsToPrefix(ns string) []byte {
	h := hash.Hash160b([]byte(ns))
	prefix := make([]byte, _nsPrefixLength, _nsPrefixLength+32)
	copy(prefix, h[:_nsPrefixLength])
	return prefix
}

// prefixUpperBound returns the smallest key greater than every key starting with prefix
func prefixUpperBound(prefix []byte) []byte {
	end := copyBytes(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil
}
