// Copyright (c) 2021 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

package lifecycle

import (
	"github.com/pkg/errors"
	"go.uber.org/atomic"
)

// ErrWrongState is returned by an illegal readiness transition
var ErrWrongState = errors.New("service is in wrong state")

const (
	_idle int32 = iota
	_ready
	_stopped
)

// Readiness tracks whether a service accepts requests. A service can be turned on again after it is turned off.
type Readiness struct {
	state atomic.Int32
}

// TurnOn marks the service ready
func (r *Readiness) TurnOn() error {
	if r.state.CompareAndSwap(_idle, _ready) || r.state.CompareAndSwap(_stopped, _ready) {
		return nil
	}
	return errors.Wrap(ErrWrongState, "already started")
}

// TurnOff marks the service stopped
func (r *Readiness) TurnOff() error {
	if r.state.CompareAndSwap(_ready, _stopped) {
		return nil
	}
	if r.state.Load() == _idle {
		return errors.Wrap(ErrWrongState, "not started")
	}
	return errors.Wrap(ErrWrongState, "already stopped")
}

// IsReady returns whether the service is ready
func (r *Readiness) IsReady() bool {
	return r.state.Load() == _ready
}

// Stopped returns whether the service has been turned off
func (r *Readiness) Stopped() bool {
	return r.state.Load() == _stopped
}
