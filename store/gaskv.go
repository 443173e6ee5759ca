// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package store

import (
	"github.com/iotexproject/iotex-appchain/gas"
)

// GasKVStore charges the gas meter for every operation on the parent store
type GasKVStore struct {
	parent KVStore
	meter  gas.Meter
	cfg    gas.KVConfig
}

// NewGasKVStore wraps parent with gas metering
func NewGasKVStore(parent KVStore, meter gas.Meter, cfg gas.KVConfig) *GasKVStore {
	return &GasKVStore{
		parent: parent,
		meter:  meter,
		cfg:    cfg,
	}
}

// Get charges a flat read cost plus a per-byte cost of the value
func (gs *GasKVStore) Get(key []byte) ([]byte, error) {
	if err := gs.meter.ConsumeGas(gs.cfg.ReadCostFlat, gas.DescRead); err != nil {
		return nil, err
	}
	v, err := gs.parent.Get(key)
	if err != nil {
		return nil, err
	}
	if err := gs.meter.ConsumeGas(gs.cfg.ReadCostPerByte*uint64(len(v)), gas.DescReadPerByte); err != nil {
		return nil, err
	}
	return v, nil
}

// Has charges a flat cost
func (gs *GasKVStore) Has(key []byte) (bool, error) {
	if err := gs.meter.ConsumeGas(gs.cfg.HasCost, gas.DescHas); err != nil {
		return false, err
	}
	return gs.parent.Has(key)
}

// Set charges a flat write cost plus a per-byte cost of key and value
func (gs *GasKVStore) Set(key, value []byte) error {
	if err := gs.meter.ConsumeGas(gs.cfg.WriteCostFlat, gas.DescWrite); err != nil {
		return err
	}
	if err := gs.meter.ConsumeGas(gs.cfg.WriteCostPerByte*uint64(len(key)+len(value)), gas.DescWritePerByte); err != nil {
		return err
	}
	return gs.parent.Set(key, value)
}

// Delete charges a flat cost
func (gs *GasKVStore) Delete(key []byte) error {
	if err := gs.meter.ConsumeGas(gs.cfg.DeleteCost, gas.DescDelete); err != nil {
		return err
	}
	return gs.parent.Delete(key)
}

// Iterate charges every step a flat cost plus a per-byte cost of key and value
func (gs *GasKVStore) Iterate(prefix []byte, fn func(k, v []byte) error) error {
	return gs.parent.Iterate(prefix, func(k, v []byte) error {
		if err := gs.meter.ConsumeGas(gs.cfg.IterNextCostFlat, gas.DescIterNext); err != nil {
			return err
		}
		if err := gs.meter.ConsumeGas(gs.cfg.ReadCostPerByte*uint64(len(k)+len(v)), gas.DescValuePerByte); err != nil {
			return err
		}
		return fn(k, v)
	})
}
