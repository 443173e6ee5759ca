// Copyright (c) 2022 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package byteutil

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestUint64(t *testing.T) {
	input := uint64(1844674407370955161)
	bytes := Uint64ToBytesBigEndian(input)
	require.Equal(t, []byte{0x19, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99, 0x99}, bytes)
	require.Equal(t, input, BytesToUint64BigEndian(bytes))
}

func TestLengthPrefix(t *testing.T) {
	require := require.New(t)
	require.Equal([]byte{0, 0, 0, 0}, LengthPrefix(nil))
	b := append(LengthPrefix([]byte("ab")), LengthPrefix(nil)...)
	require.Equal([]byte{0, 0, 0, 2, 'a', 'b', 0, 0, 0, 0}, b)

	field, rest, err := ReadLengthPrefixed(b)
	require.NoError(err)
	require.Equal([]byte("ab"), field)
	field, rest, err = ReadLengthPrefixed(rest)
	require.NoError(err)
	require.Empty(field)
	require.Empty(rest)

	for _, bad := range [][]byte{nil, {0, 0, 1}, {0, 0, 0, 3, 'a', 'b'}, {0xff, 0xff, 0xff, 0xff}} {
		_, _, err = ReadLengthPrefixed(bad)
		require.Equal(ErrTruncated, errors.Cause(err))
	}
}
