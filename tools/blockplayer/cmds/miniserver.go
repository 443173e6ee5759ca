// Copyright (c) 2020 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"context"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-appchain/chainservice"
	"github.com/iotexproject/iotex-appchain/config"
	"github.com/iotexproject/iotex-appchain/pkg/log"
)

// ConfigPaths are the config files given on the command line
var ConfigPaths []string

type miniServer struct {
	svc *chainservice.ChainService
	cfg config.Config
}

func loadConfig() (config.Config, error) {
	cfg, err := config.New(ConfigPaths)
	if err != nil {
		return config.Config{}, err
	}
	if err := log.InitLoggers(cfg.Log, cfg.SubLogs); err != nil {
		return config.Config{}, errors.Wrap(err, "failed to init loggers")
	}
	return cfg, nil
}

func newMiniServer(ctx context.Context, cfg config.Config) (*miniServer, error) {
	svc, err := chainservice.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return &miniServer{svc: svc, cfg: cfg}, nil
}

func (mini *miniServer) Stop(ctx context.Context) error {
	return mini.svc.Stop(ctx)
}

// withMiniServer loads the config, starts the service, runs fn and stops the service
func withMiniServer(ctx context.Context, fn func(*miniServer) error) (err error) {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	mini, err := newMiniServer(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if e := mini.Stop(ctx); e != nil && err == nil {
			err = e
		}
	}()
	return fn(mini)
}
