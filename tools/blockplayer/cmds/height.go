// Copyright (c) 2020 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
)

// GetHeight shows the last committed height
var GetHeight = &cobra.Command{
	Use:   "height",
	Short: "Show the last committed height and app hash",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMiniServer(cmd.Context(), func(mini *miniServer) error {
			info, err := mini.svc.Client().Info(&abci.RequestInfo{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Height:", info.LastBlockHeight)
			fmt.Fprintln(out, "AppHash:", hex.EncodeToString(info.LastBlockAppHash))
			return nil
		})
	},
}
