// Copyright (c) 2019 IoTeX
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package testutil

import (
	"github.com/iotexproject/go-pkgs/crypto"
	"github.com/iotexproject/iotex-address/address"
	"go.uber.org/zap"

	"github.com/iotexproject/iotex-appchain/pkg/log"
)

// NewTestKey generates a secp256k1 private key
func NewTestKey() crypto.PrivateKey {
	sk, err := crypto.GenerateKey()
	if err != nil {
		log.L().Panic("Error when generating key pair", zap.Error(err))
	}
	return sk
}

// NewTestAddress returns the address of a newly generated key
func NewTestAddress() address.Address {
	return NewTestKey().PublicKey().Address()
}
