// Copyright (c) 2020 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package cmd

import (
	"os"
	"strings"
	"time"

	"github.com/holiman/uint256"
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/iotexproject/iotex-appchain/action"
)

// _signerVar in a msg value is replaced by the address of the tx signer
const _signerVar = "${signer}"

type (
	// BlockFile is a sequence of blocks to replay
	BlockFile struct {
		// GenesisTime and Interval give deterministic block times, the wall clock is used if Interval is 0
		GenesisTime time.Time `yaml:"genesisTime"`
		Interval    string    `yaml:"interval"`
		Blocks      []Block   `yaml:"blocks"`
	}

	// Block is a list of txs
	Block struct {
		Txs []TxSpec `yaml:"txs"`
	}

	// TxSpec describes a tx signed by PrivateKey
	TxSpec struct {
		PrivateKey string    `yaml:"privateKey"`
		Nonce      uint64    `yaml:"nonce"`
		GasLimit   uint64    `yaml:"gasLimit"`
		GasPrice   string    `yaml:"gasPrice"`
		Memo       string    `yaml:"memo"`
		Msgs       []MsgSpec `yaml:"msgs"`
	}

	// MsgSpec is a msg given by its route/type name and json value
	MsgSpec struct {
		Type  string `yaml:"type"`
		Value string `yaml:"value"`
	}
)

// LoadBlockFile reads a yaml block file
func LoadBlockFile(path string) (*BlockFile, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read block file %s", path)
	}
	var f BlockFile
	if err := yaml.UnmarshalStrict(b, &f); err != nil {
		return nil, errors.Wrapf(err, "failed to parse block file %s", path)
	}
	if _, err := f.BlockInterval(); err != nil {
		return nil, err
	}
	return &f, nil
}

// BlockInterval returns the parsed interval between blocks
func (f *BlockFile) BlockInterval() (time.Duration, error) {
	if f.Interval == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(f.Interval)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid block interval %s", f.Interval)
	}
	if d < 0 {
		return 0, errors.Errorf("negative block interval %s", f.Interval)
	}
	return d, nil
}

// Build signs the tx and encodes it with the codec
func (ts *TxSpec) Build(codec *action.Codec) ([]byte, error) {
	sk, err := crypto.HexStringToPrivateKey(ts.PrivateKey)
	if err != nil {
		return nil, errors.Wrap(err, "invalid private key")
	}
	signer := sk.PublicKey().Address().String()
	price := uint256.NewInt(0)
	if ts.GasPrice != "" {
		if price, err = uint256.FromDecimal(ts.GasPrice); err != nil {
			return nil, errors.Wrapf(err, "invalid gas price %s", ts.GasPrice)
		}
	}
	msgs := make([]action.Msg, 0, len(ts.Msgs))
	for _, m := range ts.Msgs {
		msg, err := codec.DecodeMsg(m.Type, []byte(strings.ReplaceAll(m.Value, _signerVar, signer)))
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	tx := (&action.StdTxBuilder{}).
		SetNonce(ts.Nonce).
		SetGasLimit(ts.GasLimit).
		SetGasPrice(price).
		SetMemo(ts.Memo).
		AddMsgs(msgs...).
		Build()
	if err := tx.Sign(sk); err != nil {
		return nil, err
	}
	return codec.EncodeTx(tx)
}
