// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package store

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/iotexproject/iotex-appchain/gas"
)

func TestPrefixStore(t *testing.T) {
	r := require.New(t)
	cs := newTestCommitStore(t)
	root := cs.CacheWrap()

	acct := Prefix(root, []byte("acct/"))
	cntr := Prefix(root, []byte("cntr/"))
	r.NoError(acct.Set([]byte("k"), []byte("1")))
	r.NoError(cntr.Set([]byte("k"), []byte("2")))

	v, err := acct.Get([]byte("k"))
	r.NoError(err)
	r.Equal([]byte("1"), v)
	v, err = root.Get([]byte("cntr/k"))
	r.NoError(err)
	r.Equal([]byte("2"), v)
	r.Equal(map[string]string{"k": "2"}, dump(t, cntr))

	r.NoError(acct.Delete([]byte("k")))
	ok, err := acct.Has([]byte("k"))
	r.NoError(err)
	r.False(ok)
	r.Equal(ErrEmptyKey, acct.Set(nil, []byte("v")))

	reader := PrefixReader(root, []byte("cntr/"))
	r.Equal(map[string]string{"k": "2"}, dump(t, reader))
}

func TestGasKVStore(t *testing.T) {
	r := require.New(t)
	cs := newTestCommitStore(t)
	root := cs.CacheWrap()
	cfg := gas.DefaultKVConfig

	meter := gas.NewMeter(100000)
	gs := NewGasKVStore(root, meter, cfg)

	r.NoError(gs.Set([]byte("key"), []byte("value")))
	expected := cfg.WriteCostFlat + cfg.WriteCostPerByte*8
	r.Equal(expected, meter.GasConsumed())

	v, err := gs.Get([]byte("key"))
	r.NoError(err)
	r.Equal([]byte("value"), v)
	expected += cfg.ReadCostFlat + cfg.ReadCostPerByte*5
	r.Equal(expected, meter.GasConsumed())

	_, err = gs.Has([]byte("key"))
	r.NoError(err)
	expected += cfg.HasCost
	r.Equal(expected, meter.GasConsumed())

	r.NoError(gs.Iterate(nil, func(k, v []byte) error { return nil }))
	expected += cfg.IterNextCostFlat + cfg.ReadCostPerByte*8
	r.Equal(expected, meter.GasConsumed())

	r.NoError(gs.Delete([]byte("key")))
	expected += cfg.DeleteCost
	r.Equal(expected, meter.GasConsumed())

	// the write crossing the limit is not applied
	meter = gas.NewMeter(cfg.WriteCostFlat)
	gs = NewGasKVStore(root, meter, cfg)
	err = gs.Set([]byte("other"), []byte("v"))
	r.Equal(gas.ErrOutOfGas, errors.Cause(err))
	ok, err := root.Has([]byte("other"))
	r.NoError(err)
	r.False(ok)
}
