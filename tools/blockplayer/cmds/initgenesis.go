// Copyright (c) 2020 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/iotexproject/iotex-appchain/chainservice"
	"github.com/iotexproject/iotex-appchain/config"
	"github.com/iotexproject/iotex-appchain/pkg/util/fileutil"
)

var (
	_genesisOutput string

	// InitGenesis writes the default genesis document
	InitGenesis = &cobra.Command{
		Use:   "init",
		Short: "Write the default genesis of all modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := defaultGenesis()
			if err != nil {
				return err
			}
			if _genesisOutput == "" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			return fileutil.WriteFileIfNotExist(_genesisOutput, b, 0644)
		},
	}
)

func init() {
	InitGenesis.Flags().StringVarP(&_genesisOutput, "output", "o", "", "new genesis file to write, stdout if empty")
}

func defaultGenesis() ([]byte, error) {
	svc, err := chainservice.New(config.Default, chainservice.WithTesting())
	if err != nil {
		return nil, err
	}
	b, err := svc.Registry().DefaultGenesis()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", "  "); err != nil {
		return nil, errors.Wrap(err, "failed to format genesis")
	}
	out.WriteByte('\n')
	return out.Bytes(), nil
}
