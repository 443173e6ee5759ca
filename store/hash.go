// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package store

import (
	"github.com/iotexproject/go-pkgs/hash"

	"github.com/iotexproject/iotex-appchain/pkg/util/byteutil"
)

const (
	_leafPrefix  byte = 0x00
	_innerPrefix byte = 0x01
)

// LeafHash returns the commitment leaf of a <key, value> pair
func LeafHash(key, value []byte) hash.Hash256 {
	b := make([]byte, 0, 1+4+len(key)+len(value))
	b = append(b, _leafPrefix)
	b = append(b, byteutil.LengthPrefix(key)...)
	b = append(b, value...)
	return hash.Hash256b(b)
}

// MerkleRoot returns the binary merkle root of the leaves, an odd node is promoted to the next level
func MerkleRoot(leaves []hash.Hash256) hash.Hash256 {
	if len(leaves) == 0 {
		return hash.ZeroHash256
	}
	level := make([]hash.Hash256, len(leaves))
	copy(level, leaves)
	for len(level) > 1 {
		next := make([]hash.Hash256, 0, (len(level)+1)/2)
		for i := 0; i < len(level); i += 2 {
			if i+1 == len(level) {
				next = append(next, level[i])
				continue
			}
			b := make([]byte, 0, 1+2*len(level[i]))
			b = append(b, _innerPrefix)
			b = append(b, level[i][:]...)
			b = append(b, level[i+1][:]...)
			next = append(next, hash.Hash256b(b))
		}
		level = next
	}
	return level[0]
}
