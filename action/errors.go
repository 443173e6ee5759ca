// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package action

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"

	"github.com/iotexproject/iotex-appchain/gas"
)

const (
	// RootCodespace is the codespace of errors defined by the core
	RootCodespace = "sdk"
	// UndefinedCodespace is the codespace of errors without a registered code
	UndefinedCodespace = "undefined"

	_internalLog = "internal error"
)

var (
	_registryMu sync.Mutex
	_registry   = map[string]map[uint32]*Error{}
)

// errors of the root codespace
var (
	ErrInternal          = RegisterError(RootCodespace, 1, "internal")
	ErrTxDecode          = RegisterError(RootCodespace, 2, "tx parse error")
	ErrInvalidSequence   = RegisterError(RootCodespace, 3, "invalid sequence")
	ErrUnauthorized      = RegisterError(RootCodespace, 4, "unauthorized")
	ErrInsufficientFunds = RegisterError(RootCodespace, 5, "insufficient funds")
	ErrUnknownRequest    = RegisterError(RootCodespace, 6, "unknown request")
	ErrInvalidAddress    = RegisterError(RootCodespace, 7, "invalid address")
	ErrUnknownRoute      = RegisterError(RootCodespace, 8, "unknown route")
	ErrInsufficientFee   = RegisterError(RootCodespace, 9, "insufficient fee")
	ErrOutOfGas          = RegisterError(RootCodespace, 10, "out of gas")
	ErrMemoTooLarge      = RegisterError(RootCodespace, 11, "memo too large")
	ErrInvalidRequest    = RegisterError(RootCodespace, 12, "invalid request")
	ErrTxTooLarge        = RegisterError(RootCodespace, 13, "tx too large")
	ErrInvalidPubKey     = RegisterError(RootCodespace, 14, "invalid pubkey")
	ErrPanic             = RegisterError(RootCodespace, 111222, "panic")
)

// Error is an error with a code unique within its codespace
type Error struct {
	codespace string
	code      uint32
	desc      string
}

// RegisterError registers a coded error, registering a code twice panics
func RegisterError(codespace string, code uint32, desc string) *Error {
	if code == 0 {
		panic("error code 0 is reserved for success")
	}
	_registryMu.Lock()
	defer _registryMu.Unlock()
	codes, ok := _registry[codespace]
	if !ok {
		codes = make(map[uint32]*Error)
		_registry[codespace] = codes
	}
	if e, ok := codes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered in codespace %s: %q", code, codespace, e.desc))
	}
	e := &Error{codespace: codespace, code: code, desc: desc}
	codes[code] = e
	return e
}

// LookupError returns the registered error of the code
func LookupError(codespace string, code uint32) (*Error, bool) {
	_registryMu.Lock()
	defer _registryMu.Unlock()
	e, ok := _registry[codespace][code]
	return e, ok
}

func (e *Error) Error() string { return e.desc }

// Codespace returns the codespace of the error
func (e *Error) Codespace() string { return e.codespace }

// ABCICode returns the code of the error
func (e *Error) ABCICode() uint32 { return e.code }

// Wrap attaches a description to the error
func (e *Error) Wrap(desc string) error { return errors.Wrap(e, desc) }

// Wrapf attaches a formatted description to the error
func (e *Error) Wrapf(format string, args ...interface{}) error { return errors.Wrapf(e, format, args...) }

// ABCIInfo returns the codespace, code and log of an error. An error chain without a coded error is
// reported as an internal error whose log is redacted unless debug is set.
func ABCIInfo(err error, debug bool) (string, uint32, string) {
	if err == nil {
		return "", 0, ""
	}
	var coded *Error
	if !errors.As(err, &coded) {
		switch errors.Cause(err) {
		case gas.ErrOutOfGas, gas.ErrGasOverflow:
			coded = ErrOutOfGas
		}
	}
	if coded == nil {
		if debug {
			return RootCodespace, ErrInternal.code, err.Error()
		}
		return RootCodespace, ErrInternal.code, _internalLog
	}
	return coded.codespace, coded.code, err.Error()
}
