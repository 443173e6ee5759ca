// Copyright (c) 2020 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

// blockplayer drives the application through the block lifecycle from a yaml block file.
// To use, run "go build ./tools/blockplayer" and "./blockplayer replay --blocks blocks.yaml"
package main

import (
	"os"

	"github.com/spf13/cobra"
	_ "go.uber.org/automaxprocs"

	cmd "github.com/iotexproject/iotex-appchain/tools/blockplayer/cmds"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "blockplayer",
	Short: "blockplayer is a command-line interface for replaying blocks of txs against the application",
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringSliceVar(&cmd.ConfigPaths, "config", nil, "config files, later files override earlier ones")
	RootCmd.AddCommand(cmd.InitGenesis)
	RootCmd.AddCommand(cmd.Replay)
	RootCmd.AddCommand(cmd.Query)
	RootCmd.AddCommand(cmd.GetHeight)
}

func main() {
	Execute()
}
