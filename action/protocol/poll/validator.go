// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package poll

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-appchain/action/protocol"
	"github.com/iotexproject/iotex-appchain/pkg/util/byteutil"
	"github.com/iotexproject/iotex-appchain/store"
)

var (
	_validatorPrefix = []byte("val/")
	_pendingPrefix   = []byte("pending/")
)

// Validator is a member of the validator set
type Validator struct {
	PubKey   []byte
	Power    int64
	Operator string
}

// Serialize serializes the validator into bytes
func (v *Validator) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, errors.Wrap(err, "failed to encode validator")
	}
	return buf.Bytes(), nil
}

// Deserialize deserializes bytes into the validator
func (v *Validator) Deserialize(b []byte) error {
	if err := gob.NewDecoder(bytes.NewReader(b)).Decode(v); err != nil {
		return errors.Wrap(err, "failed to decode validator")
	}
	return nil
}

func validatorKey(pubKey []byte) []byte {
	return append(append([]byte{}, _validatorPrefix...), pubKey...)
}

func pendingKey(pubKey []byte) []byte {
	return append(append([]byte{}, _pendingPrefix...), pubKey...)
}

// LoadValidator loads the validator with the public key
func LoadValidator(sr protocol.StateReader, pubKey []byte) (*Validator, error) {
	b, err := sr.Get(validatorKey(pubKey))
	switch errors.Cause(err) {
	case nil:
	case store.ErrNotExist:
		return nil, ErrValidatorNotFound.Wrapf("validator %x", pubKey)
	default:
		return nil, err
	}
	v := &Validator{}
	if err := v.Deserialize(b); err != nil {
		return nil, err
	}
	return v, nil
}

func storeValidator(sm protocol.StateManager, v *Validator) error {
	b, err := v.Serialize()
	if err != nil {
		return err
	}
	return sm.Set(validatorKey(v.PubKey), b)
}

// Validators returns the validator set ordered by public key
func Validators(sr protocol.StateReader) ([]*Validator, error) {
	var vs []*Validator
	if err := sr.Iterate(_validatorPrefix, func(_, b []byte) error {
		v := &Validator{}
		if err := v.Deserialize(b); err != nil {
			return err
		}
		vs = append(vs, v)
		return nil
	}); err != nil {
		return nil, err
	}
	return vs, nil
}

func queuePowerChange(sm protocol.StateManager, pubKey []byte, power int64) error {
	return sm.Set(pendingKey(pubKey), byteutil.Uint64ToBytesBigEndian(uint64(power)))
}

type powerChange struct {
	pubKey []byte
	power  int64
}

func pendingPowerChanges(sr protocol.StateReader) ([]powerChange, error) {
	var changes []powerChange
	if err := sr.Iterate(_pendingPrefix, func(k, v []byte) error {
		changes = append(changes, powerChange{
			pubKey: append([]byte{}, k[len(_pendingPrefix):]...),
			power:  int64(byteutil.BytesToUint64BigEndian(v)),
		})
		return nil
	}); err != nil {
		return nil, err
	}
	return changes, nil
}
