// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package gas

import (
	"math"

	"github.com/pkg/errors"
)

var (
	// ErrOutOfGas indicates the consumed gas crosses the limit of the meter
	ErrOutOfGas = errors.New("out of gas")
	// ErrGasOverflow indicates the consumed gas overflows uint64
	ErrGasOverflow = errors.New("gas overflow")
)

type (
	// Meter tracks the gas consumed by one transaction or one block
	Meter interface {
		// ConsumeGas adds amount to the consumed gas, it fails once the total crosses the limit
		ConsumeGas(amount uint64, descriptor string) error
		// GasConsumed returns the consumed gas, which may exceed the limit after an out-of-gas failure
		GasConsumed() uint64
		// GasConsumedToLimit returns the consumed gas capped at the limit
		GasConsumedToLimit() uint64
		Limit() uint64
		IsPastLimit() bool
		IsOutOfGas() bool
		String() string
	}

	basicMeter struct {
		limit    uint64
		consumed uint64
	}

	infiniteMeter struct {
		consumed uint64
	}
)

// NewMeter returns a meter with the given limit
func NewMeter(limit uint64) Meter {
	return &basicMeter{limit: limit}
}

func (m *basicMeter) ConsumeGas(amount uint64, descriptor string) error {
	consumed, overflow := addUint64Overflow(m.consumed, amount)
	if overflow {
		m.consumed = math.MaxUint64
		return errors.Wrap(ErrGasOverflow, descriptor)
	}
	m.consumed = consumed
	if m.consumed > m.limit {
		return errors.Wrapf(ErrOutOfGas, "%s, consumed %d, limit %d", descriptor, m.consumed, m.limit)
	}
	return nil
}

func (m *basicMeter) GasConsumed() uint64 { return m.consumed }

func (m *basicMeter) GasConsumedToLimit() uint64 {
	if m.IsPastLimit() {
		return m.limit
	}
	return m.consumed
}

func (m *basicMeter) Limit() uint64 { return m.limit }

func (m *basicMeter) IsPastLimit() bool { return m.consumed > m.limit }

func (m *basicMeter) IsOutOfGas() bool { return m.consumed >= m.limit }

func (m *basicMeter) String() string {
	return "basic meter " + formatGas(m.consumed, m.limit)
}

// NewInfiniteMeter returns a meter without limit, used by simulation and block hooks
func NewInfiniteMeter() Meter {
	return &infiniteMeter{}
}

func (m *infiniteMeter) ConsumeGas(amount uint64, descriptor string) error {
	consumed, overflow := addUint64Overflow(m.consumed, amount)
	if overflow {
		return errors.Wrap(ErrGasOverflow, descriptor)
	}
	m.consumed = consumed
	return nil
}

func (m *infiniteMeter) GasConsumed() uint64 { return m.consumed }

func (m *infiniteMeter) GasConsumedToLimit() uint64 { return m.consumed }

func (m *infiniteMeter) Limit() uint64 { return math.MaxUint64 }

func (m *infiniteMeter) IsPastLimit() bool { return false }

func (m *infiniteMeter) IsOutOfGas() bool { return false }

func (m *infiniteMeter) String() string {
	return "infinite meter " + formatGas(m.consumed, math.MaxUint64)
}

func addUint64Overflow(a, b uint64) (uint64, bool) {
	if math.MaxUint64-a < b {
		return 0, true
	}
	return a + b, false
}
