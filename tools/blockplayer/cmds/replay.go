// Copyright (c) 2020 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"encoding/hex"
	"io"
	"strconv"
	"time"

	"github.com/facebookgo/clock"
	"github.com/pkg/errors"
	"github.com/rodaine/table"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	abci "github.com/iotexproject/iotex-appchain/abci/types"
	"github.com/iotexproject/iotex-appchain/chainservice"
	"github.com/iotexproject/iotex-appchain/pkg/log"
)

type (
	txResult struct {
		Height    int64
		Index     int
		Code      uint32
		Codespace string
		GasWanted int64
		GasUsed   int64
		Log       string
	}

	blockResult struct {
		Height  int64
		AppHash []byte
		Txs     []txResult
		Updates []abci.ValidatorUpdate
	}

	replayer struct {
		svc     *chainservice.ChainService
		chainID string
		clk     clock.Clock
		mock    *clock.Mock
		step    time.Duration
	}
)

var (
	_blocksPath string

	// Replay delivers the blocks of a block file on top of the last committed height
	Replay = &cobra.Command{
		Use:   "replay",
		Short: "Replay the blocks of a yaml block file and show the tx results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := LoadBlockFile(_blocksPath)
			if err != nil {
				return err
			}
			return withMiniServer(cmd.Context(), func(mini *miniServer) error {
				r, err := newReplayer(mini.svc, mini.cfg.Chain.ID, f)
				if err != nil {
					return err
				}
				results, err := r.replay(f)
				printResults(cmd.OutOrStdout(), results)
				return err
			})
		},
	}
)

func init() {
	Replay.Flags().StringVar(&_blocksPath, "blocks", "blocks.yaml", "yaml file of the blocks to replay")
}

func newReplayer(svc *chainservice.ChainService, chainID string, f *BlockFile) (*replayer, error) {
	step, err := f.BlockInterval()
	if err != nil {
		return nil, err
	}
	r := &replayer{svc: svc, chainID: chainID, step: step}
	if step == 0 {
		r.clk = clock.New()
		return r, nil
	}
	r.mock = clock.NewMock()
	r.mock.Add(f.GenesisTime.Sub(r.mock.Now()))
	// blocks replayed on top of an existing chain keep their spacing
	r.mock.Add(time.Duration(svc.Height()) * step)
	r.clk = r.mock
	return r, nil
}

func (r *replayer) now() time.Time {
	return r.clk.Now().UTC()
}

func (r *replayer) replay(f *BlockFile) ([]blockResult, error) {
	if _, err := r.svc.InitChain(r.now()); err != nil {
		return nil, errors.Wrap(err, "failed to init chain")
	}
	cli := r.svc.Client()
	height := int64(r.svc.Height())
	results := make([]blockResult, 0, len(f.Blocks))
	for i := range f.Blocks {
		height++
		if r.mock != nil {
			r.mock.Add(r.step)
		}
		txs := make([][]byte, 0, len(f.Blocks[i].Txs))
		for j := range f.Blocks[i].Txs {
			tx, err := f.Blocks[i].Txs[j].Build(r.svc.Codec())
			if err != nil {
				return results, errors.Wrapf(err, "failed to build tx %d of block %d", j, height)
			}
			txs = append(txs, tx)
		}

		res := blockResult{Height: height}
		if _, err := cli.BeginBlock(&abci.RequestBeginBlock{
			Header: abci.Header{ChainID: r.chainID, Height: height, Time: r.now()},
		}); err != nil {
			return results, err
		}
		for j, tx := range txs {
			resp, err := cli.DeliverTx(&abci.RequestDeliverTx{Tx: tx})
			if err != nil {
				return results, err
			}
			res.Txs = append(res.Txs, txResult{
				Height:    height,
				Index:     j,
				Code:      resp.Code,
				Codespace: resp.Codespace,
				GasWanted: resp.GasWanted,
				GasUsed:   resp.GasUsed,
				Log:       resp.Log,
			})
		}
		end, err := cli.EndBlock(&abci.RequestEndBlock{Height: height})
		if err != nil {
			return results, err
		}
		res.Updates = end.ValidatorUpdates
		commit, err := cli.Commit()
		if err != nil {
			return results, err
		}
		res.AppHash = commit.Data
		log.L().Info("Replayed block.",
			zap.Int64("height", height),
			zap.Int("txs", len(txs)),
			log.Hex("appHash", commit.Data))
		results = append(results, res)
	}
	return results, nil
}

func printResults(w io.Writer, results []blockResult) {
	tb := table.New("Height", "Tx", "Code", "GasWanted", "GasUsed", "Log").WithWriter(w)
	for _, blk := range results {
		for _, tx := range blk.Txs {
			code := "OK"
			if tx.Code != abci.CodeTypeOK {
				code = tx.Codespace + "/" + strconv.FormatUint(uint64(tx.Code), 10)
			}
			tb.AddRow(tx.Height, tx.Index, code, tx.GasWanted, tx.GasUsed, tx.Log)
		}
	}
	tb.Print()

	tb = table.New("Height", "AppHash", "ValidatorUpdates").WithWriter(w)
	for _, blk := range results {
		tb.AddRow(blk.Height, hex.EncodeToString(blk.AppHash), len(blk.Updates))
	}
	tb.Print()
}
