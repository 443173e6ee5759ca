// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package config

import (
	"os"

	"github.com/pkg/errors"
	uconfig "go.uber.org/config"

	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/action/protocol/account"
	"github.com/iotexproject/iotex-appchain/baseapp"
	"github.com/iotexproject/iotex-appchain/db"
	"github.com/iotexproject/iotex-appchain/gas"
	"github.com/iotexproject/iotex-appchain/pkg/log"
	"github.com/iotexproject/iotex-appchain/pkg/tracer"
)

// IMPORTANT: to define a config, add a field or a new config type to the existing config types. In addition, provide
// the default value in Default var.

var (
	// Default is the default config
	Default = Config{
		Chain: Chain{
			ID:                "appchain",
			Name:              "appchain",
			ChainDBPath:       "/var/data/appchain.db",
			GenesisPath:       "",
			EnableArchiveMode: false,
		},
		App:     baseapp.DefaultConfig,
		Account: account.DefaultConfig,
		DB:      db.DefaultConfig,
		Gas:     gas.DefaultConfig,
		SubLogs: make(map[string]log.GlobalConfig),
		Tracer:  tracer.Config{},
	}

	// ErrInvalidCfg indicates the invalid config value
	ErrInvalidCfg = errors.New("invalid config value")

	// Validates is the collection config validation functions
	Validates = []Validate{
		ValidateChain,
		ValidateApp,
		ValidateDB,
		ValidateGas,
	}
)

type (
	// Chain is the config of the chain served by the application
	Chain struct {
		// ID is the chain id handed to InitChain
		ID string `yaml:"id"`
		// Name is the application name reported by Info
		Name        string `yaml:"name"`
		ChainDBPath string `yaml:"chainDBPath"`
		// GenesisPath is the genesis document, the default genesis of the modules is used if empty
		GenesisPath string `yaml:"genesisPath"`
		// EnableArchiveMode keeps DB.HistoryStateRetention versions of history for queries at past heights
		EnableArchiveMode bool `yaml:"enableArchiveMode"`
	}

	// Config is the root config struct, each package's config should be put as its sub struct
	Config struct {
		Chain   Chain                       `yaml:"chain"`
		App     baseapp.Config              `yaml:"app"`
		Account account.Config              `yaml:"account"`
		DB      db.Config                   `yaml:"db"`
		Gas     gas.Config                  `yaml:"gas"`
		Log     log.GlobalConfig            `yaml:"log"`
		SubLogs map[string]log.GlobalConfig `yaml:"subLogs"`
		Tracer  tracer.Config               `yaml:"tracer"`
	}

	// Validate is the interface of validating the config
	Validate func(Config) error
)

// New creates a config instance. It first loads the default configs. If the config path is not empty, it will read from
// the file and override the default configs. By default, it will apply all validation functions. To bypass validation,
// use DoNotValidate instead.
func New(configPaths []string, validates ...Validate) (Config, error) {
	opts := make([]uconfig.YAMLOption, 0)
	opts = append(opts, uconfig.Static(Default))
	opts = append(opts, uconfig.Expand(os.LookupEnv))
	for _, path := range configPaths {
		if path != "" {
			opts = append(opts, uconfig.File(path))
		}
	}
	yaml, err := uconfig.NewYAML(opts...)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to init config")
	}

	var cfg Config
	if err := yaml.Get(uconfig.Root).Populate(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "failed to unmarshal YAML config to struct")
	}

	// By default, the config needs to pass all the validation
	if len(validates) == 0 {
		validates = Validates
	}
	for _, validate := range validates {
		if err := validate(cfg); err != nil {
			return Config{}, errors.Wrap(err, "failed to validate config")
		}
	}
	return cfg, nil
}

// ValidateChain validates the chain configs
func ValidateChain(cfg Config) error {
	if cfg.Chain.ID == "" {
		return errors.Wrap(ErrInvalidCfg, "chain id is empty")
	}
	if !protocol.IsAlphaNumeric(cfg.Chain.Name) {
		return errors.Wrapf(ErrInvalidCfg, "chain name %q is not alphanumeric", cfg.Chain.Name)
	}
	if cfg.DB.DBType != db.DBMemory && cfg.Chain.ChainDBPath == "" {
		return errors.Wrap(ErrInvalidCfg, "chain db path is empty")
	}
	return nil
}

// ValidateApp validates the application core configs
func ValidateApp(cfg Config) error {
	if _, err := cfg.App.ParseMinGasPrice(); err != nil {
		return errors.Wrap(ErrInvalidCfg, err.Error())
	}
	if cfg.App.MaxTxBytes > 0 && cfg.App.MaxBlockGas > 0 &&
		cfg.App.MaxTxBytes*cfg.Gas.TxSizeCostPerByte > cfg.App.MaxBlockGas {
		return errors.Wrapf(
			ErrInvalidCfg,
			"a tx of %d bytes costs more than the block gas limit %d",
			cfg.App.MaxTxBytes,
			cfg.App.MaxBlockGas,
		)
	}
	return nil
}

// ValidateDB validates the db configs
func ValidateDB(cfg Config) error {
	switch cfg.DB.DBType {
	case db.DBMemory, db.DBBolt, db.DBPebble:
	default:
		return errors.Wrapf(ErrInvalidCfg, "unsupported db type %s", cfg.DB.DBType)
	}
	if cfg.DB.MaxCacheSize < 0 {
		return errors.Wrap(ErrInvalidCfg, "negative cache size")
	}
	return nil
}

// ValidateGas validates the gas schedule
func ValidateGas(cfg Config) error {
	kv := cfg.Gas.KV
	if kv.WriteCostFlat == 0 || kv.ReadCostFlat == 0 {
		return errors.Wrap(ErrInvalidCfg, "store reads and writes must cost gas")
	}
	if cfg.Account.SigVerifyCost == 0 {
		return errors.Wrap(ErrInvalidCfg, "signature verification must cost gas")
	}
	return nil
}

// DoNotValidate validates the given config
func DoNotValidate(cfg Config) error { return nil }
