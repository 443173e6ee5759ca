// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package batch

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-appchain/pkg/util/byteutil"
)

const (
	// Put indicate the type of write operation to be Put
	Put WriteType = iota
	// Delete indicate the type of write operation to be Delete
	Delete
)

type (
	// WriteType is the type of write
	WriteType uint8

	// WriteInfo is one staged write. Key and value are copied when staged so the caller may reuse its buffers.
	WriteInfo struct {
		writeType WriteType
		namespace string
		key       []byte
		value     []byte
		errFormat string
		errArgs   []interface{}
	}

	// WriteInfoFilter filters a write, a write is skipped when it returns true
	WriteInfoFilter func(wi *WriteInfo) bool
)

func (t WriteType) String() string {
	switch t {
	case Put:
		return "put"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("writeType(%d)", uint8(t))
	}
}

// NewWriteInfo stages a write, errFormat and errArgs describe the write when it fails
func NewWriteInfo(writeType WriteType, namespace string, key, value []byte, errFormat string, errArgs ...interface{}) *WriteInfo {
	return &WriteInfo{
		writeType: writeType,
		namespace: namespace,
		key:       clone(key),
		value:     clone(value),
		errFormat: errFormat,
		errArgs:   errArgs,
	}
}

// Namespace returns the namespace of a write info
func (wi *WriteInfo) Namespace() string { return wi.namespace }

// WriteType returns the type of a write info
func (wi *WriteInfo) WriteType() WriteType { return wi.writeType }

// Key returns a copy of key
func (wi *WriteInfo) Key() []byte { return clone(wi.key) }

// Value returns a copy of value, empty for a delete
func (wi *WriteInfo) Value() []byte { return clone(wi.value) }

// Serialize encodes the write as its type followed by the length prefixed namespace, key and value.
// Two different write queues never encode to the same bytes.
func (wi *WriteInfo) Serialize() []byte {
	b := make([]byte, 1, 1+12+len(wi.namespace)+len(wi.key)+len(wi.value))
	b[0] = byte(wi.writeType)
	b = append(b, byteutil.LengthPrefix([]byte(wi.namespace))...)
	b = append(b, byteutil.LengthPrefix(wi.key)...)
	return append(b, byteutil.LengthPrefix(wi.value)...)
}

// Error annotates err with the description of the write
func (wi *WriteInfo) Error(err error) error {
	if wi.errFormat == "" {
		return err
	}
	return errors.Wrapf(err, wi.errFormat, wi.errArgs...)
}

func (wi *WriteInfo) String() string {
	return fmt.Sprintf("%s %s/%x", wi.writeType, wi.namespace, wi.key)
}

func clone(b []byte) []byte {
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
