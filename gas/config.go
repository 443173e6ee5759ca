// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package gas

import (
	"strconv"
)

// descriptors of store gas charges
const (
	DescHas          = "Has"
	DescRead         = "ReadFlat"
	DescReadPerByte  = "ReadPerByte"
	DescWrite        = "WriteFlat"
	DescWritePerByte = "WritePerByte"
	DescDelete       = "Delete"
	DescIterNext     = "IterNextFlat"
	DescValuePerByte = "ValuePerByte"
	DescTxSize       = "txSize"
)

type (
	// KVConfig defines the gas cost of store operations
	KVConfig struct {
		HasCost          uint64 `yaml:"hasCost"`
		DeleteCost       uint64 `yaml:"deleteCost"`
		ReadCostFlat     uint64 `yaml:"readCostFlat"`
		ReadCostPerByte  uint64 `yaml:"readCostPerByte"`
		WriteCostFlat    uint64 `yaml:"writeCostFlat"`
		WriteCostPerByte uint64 `yaml:"writeCostPerByte"`
		IterNextCostFlat uint64 `yaml:"iterNextCostFlat"`
	}

	// Config is the gas schedule of the application
	Config struct {
		KV KVConfig `yaml:"kv"`
		// TxSizeCostPerByte is charged once per transaction before the ante handler runs
		TxSizeCostPerByte uint64 `yaml:"txSizeCostPerByte"`
	}
)

var (
	// DefaultKVConfig is the default store gas schedule
	DefaultKVConfig = KVConfig{
		HasCost:          1000,
		DeleteCost:       1000,
		ReadCostFlat:     1000,
		ReadCostPerByte:  3,
		WriteCostFlat:    2000,
		WriteCostPerByte: 30,
		IterNextCostFlat: 30,
	}

	// DefaultConfig is the default gas config
	DefaultConfig = Config{
		KV:                DefaultKVConfig,
		TxSizeCostPerByte: 10,
	}
)

func formatGas(consumed, limit uint64) string {
	return strconv.FormatUint(consumed, 10) + "/" + strconv.FormatUint(limit, 10)
}
