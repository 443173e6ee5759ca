// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Config is the config of the application core
type Config struct {
	// MinGasPrice is the minimum gas price of transactions accepted into the mempool, in decimal
	MinGasPrice string `yaml:"minGasPrice"`
	// MaxBlockGas is the gas limit of a block, 0 means unlimited
	MaxBlockGas uint64 `yaml:"maxBlockGas"`
	// HaltHeight halts the application after committing the block of this height, 0 means never
	HaltHeight uint64 `yaml:"haltHeight"`
	// InvariantCheckPeriod runs invariants every this many blocks, 0 means never
	InvariantCheckPeriod uint64 `yaml:"invariantCheckPeriod"`
	// MaxTxBytes is the size limit of a raw transaction, 0 means unlimited
	MaxTxBytes uint64 `yaml:"maxTxBytes"`
	// Debug returns the full log of internal errors in results
	Debug bool `yaml:"debug"`
}

// DefaultConfig is the default config of the application core
var DefaultConfig = Config{
	MinGasPrice:          "0",
	MaxBlockGas:          0,
	HaltHeight:           0,
	InvariantCheckPeriod: 1,
	MaxTxBytes:           1 << 20,
}

// ParseMinGasPrice parses the min gas price, empty means zero
func (cfg Config) ParseMinGasPrice() (*uint256.Int, error) {
	if cfg.MinGasPrice == "" {
		return uint256.NewInt(0), nil
	}
	price, err := uint256.FromDecimal(cfg.MinGasPrice)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid min gas price %s", cfg.MinGasPrice)
	}
	return price, nil
}
