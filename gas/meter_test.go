// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package gas

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBasicMeter(t *testing.T) {
	r := require.New(t)

	m := NewMeter(100)
	r.Zero(m.GasConsumed())
	r.EqualValues(100, m.Limit())
	r.NoError(m.ConsumeGas(40, "first"))
	r.NoError(m.ConsumeGas(60, "second"))
	r.EqualValues(100, m.GasConsumed())
	r.False(m.IsPastLimit())
	r.True(m.IsOutOfGas())

	// the consume crossing the limit fails and the attempted total is kept
	err := m.ConsumeGas(1, "third")
	r.Equal(ErrOutOfGas, errors.Cause(err))
	r.Contains(err.Error(), "third")
	r.EqualValues(101, m.GasConsumed())
	r.EqualValues(100, m.GasConsumedToLimit())
	r.True(m.IsPastLimit())
	r.Equal("basic meter 101/100", m.String())
}

func TestMeterMonotonic(t *testing.T) {
	r := require.New(t)

	m := NewMeter(1000)
	var last uint64
	for _, amount := range []uint64{0, 1, 10, 100, 0, 500} {
		r.NoError(m.ConsumeGas(amount, "step"))
		r.GreaterOrEqual(m.GasConsumed(), last)
		last = m.GasConsumed()
	}
	r.EqualValues(611, last)
}

func TestMeterOverflow(t *testing.T) {
	r := require.New(t)

	m := NewMeter(math.MaxUint64)
	r.NoError(m.ConsumeGas(math.MaxUint64-1, "big"))
	r.Equal(ErrGasOverflow, errors.Cause(m.ConsumeGas(2, "overflow")))

	inf := NewInfiniteMeter()
	r.NoError(inf.ConsumeGas(math.MaxUint64, "big"))
	r.Equal(ErrGasOverflow, errors.Cause(inf.ConsumeGas(1, "overflow")))
	r.EqualValues(uint64(math.MaxUint64), inf.GasConsumed())
}

func TestInfiniteMeter(t *testing.T) {
	r := require.New(t)

	m := NewInfiniteMeter()
	r.NoError(m.ConsumeGas(1<<40, "huge"))
	r.EqualValues(1<<40, m.GasConsumed())
	r.EqualValues(1<<40, m.GasConsumedToLimit())
	r.EqualValues(uint64(math.MaxUint64), m.Limit())
	r.False(m.IsPastLimit())
	r.False(m.IsOutOfGas())
}

func TestDefaultConfig(t *testing.T) {
	r := require.New(t)
	r.EqualValues(10, DefaultConfig.TxSizeCostPerByte)
	r.EqualValues(1000, DefaultConfig.KV.HasCost)
	r.EqualValues(2000, DefaultConfig.KV.WriteCostFlat)
	r.EqualValues(30, DefaultConfig.KV.WriteCostPerByte)
}
