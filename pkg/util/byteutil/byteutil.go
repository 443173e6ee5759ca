// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package byteutil

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// ErrTruncated is returned when a length prefixed field runs past the end of the input
var ErrTruncated = errors.New("truncated length prefixed field")

// Uint64ToBytesBigEndian converts a uint64 to 8 bytes in big-endian, big-endian keys sort by value
func Uint64ToBytesBigEndian(value uint64) []byte {
	bytes := make([]byte, 8)
	binary.BigEndian.PutUint64(bytes, value)
	return bytes
}

// BytesToUint64BigEndian converts 8 bytes in big-endian to uint64
func BytesToUint64BigEndian(value []byte) uint64 {
	return binary.BigEndian.Uint64(value)
}

// LengthPrefix returns b prefixed with its length as 4 big-endian bytes
func LengthPrefix(b []byte) []byte {
	ret := make([]byte, 4, 4+len(b))
	binary.BigEndian.PutUint32(ret, uint32(len(b)))
	return append(ret, b...)
}

// ReadLengthPrefixed splits off the first length prefixed field of b. The field aliases b.
func ReadLengthPrefixed(b []byte) (field, rest []byte, err error) {
	if len(b) < 4 {
		return nil, nil, errors.Wrapf(ErrTruncated, "%d bytes left for the length", len(b))
	}
	n := binary.BigEndian.Uint32(b)
	if uint64(len(b)-4) < uint64(n) {
		return nil, nil, errors.Wrapf(ErrTruncated, "field of %d bytes, %d left", n, len(b)-4)
	}
	return b[4 : 4+n], b[4+n:], nil
}
