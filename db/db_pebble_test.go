// Copyright (c) 2024 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package db

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-appchain/db/batch"
	apptestutil "github.com/iotexproject/iotex-appchain/testutil"
)

func TestPebbleDBLastWriteWins(t *testing.T) {
	r := require.New(t)
	cfg := DefaultConfig
	cfg.DbPath = apptestutil.TempDBPath(t, "test-pebble")
	db := NewPebbleDB(cfg)
	ctx := context.Background()
	r.NoError(db.Start(ctx))
	defer func() {
		r.NoError(db.Stop(ctx))
	}()

	r.NoError(db.Put(_namespace, _k2, _v2))
	b := batch.NewBatch()
	b.Put(_namespace, _k1, _v1, "")
	b.Delete(_namespace, _k1, "")
	b.Put(_namespace, _k1, _v2, "")
	b.Put(_namespace, _k2, _v3, "")
	b.Delete(_namespace, _k2, "")
	b.Put(_bucket2, _k1, _v4, "")
	r.NoError(db.WriteBatch(b))
	r.Zero(b.Size())

	v, err := db.Get(_namespace, _k1)
	r.NoError(err)
	r.Equal(_v2, v)
	_, err = db.Get(_namespace, _k2)
	r.Equal(ErrNotExist, errors.Cause(err))
	v, err = db.Get(_bucket2, _k1)
	r.NoError(err)
	r.Equal(_v4, v)
	r.Positive(testutil.ToFloat64(_pebbleMtc.WithLabelValues("diskSpaceUsage")))
	r.Equal(float64(3), testutil.ToFloat64(_pebbleMtc.WithLabelValues("lastBatchEntries")))

	r.Equal(ErrInvalid, errors.Cause(db.Delete(_namespace, nil)))
}

func TestPebbleDBReopen(t *testing.T) {
	r := require.New(t)
	cfg := DefaultConfig
	cfg.DbPath = apptestutil.TempDBPath(t, "test-pebble")
	ctx := context.Background()

	db := NewPebbleDB(cfg)
	r.NoError(db.Start(ctx))
	r.NoError(db.Put(_namespace, _k1, _v1))
	r.NoError(db.Stop(ctx))
	_, err := db.Get(_namespace, _k1)
	r.Equal(ErrDBNotStarted, err)

	db = NewPebbleDB(cfg)
	r.NoError(db.Start(ctx))
	defer func() {
		r.NoError(db.Stop(ctx))
	}()
	v, err := db.Get(_namespace, _k1)
	r.NoError(err)
	r.Equal(_v1, v)
}

func TestPrefixUpperBound(t *testing.T) {
	r := require.New(t)
	r.Equal([]byte{1, 3}, prefixUpperBound([]byte{1, 2}))
	r.Equal([]byte{2}, prefixUpperBound([]byte{1, 0xff}))
	r.Nil(prefixUpperBound([]byte{0xff, 0xff}))

	prefix := nsToPrefix(_namespace)
	r.Len(prefix, _nsPrefixLength)
	key := nsKey(_namespace, _k1)
	r.Equal(prefix, key[:_nsPrefixLength])
	r.Equal(_k1, key[_nsPrefixLength:])
	// building a key leaves the prefix intact
	r.Len(nsToPrefix(_namespace), _nsPrefixLength)
}
