// Copyright (c) 2020 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
)

var (
	_queryPath   string
	_queryData   string
	_queryHeight int64

	// Query queries the committed state
	Query = &cobra.Command{
		Use:   "query",
		Short: "Query the committed state, e.g. --path /counter/value/K",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMiniServer(cmd.Context(), func(mini *miniServer) error {
				resp, err := mini.svc.Query(&abci.RequestQuery{
					Path:   _queryPath,
					Data:   []byte(_queryData),
					Height: _queryHeight,
				})
				if err != nil {
					return err
				}
				if resp.Code != abci.CodeTypeOK {
					return errors.Errorf("query failed with %s/%d: %s", resp.Codespace, resp.Code, resp.Log)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "height %d: %s\n", resp.Height, resp.Value)
				return nil
			})
		},
	}
)

func init() {
	Query.Flags().StringVar(&_queryPath, "path", "", "query path")
	Query.Flags().StringVar(&_queryData, "data", "", "query data")
	Query.Flags().Int64Var(&_queryHeight, "height", 0, "height to query, 0 means the last committed height")
	_ = Query.MarkFlagRequired("path")
}
