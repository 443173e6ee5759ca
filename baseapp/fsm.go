// Copyright (c) 2025 IoTeX Foundation
// This source code is provided 'as is' and no warranties are given as to title or non-infringement, merchantability
// or fitness for purpose and, to the extent permitted by law, all liability for your use of the code is disclaimed.
// This source code is governed by Apache License 2.0 that can be found in the LICENSE file.

package baseapp

import (
	"context"

	fsm "github.com/iotexproject/go-fsm"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// consensus states
	sUninitialized      fsm.State = "S_UNINITIALIZED"
	sAwaitingBeginBlock fsm.State = "S_AWAITING_BEGIN_BLOCK"
	sInBlock            fsm.State = "S_IN_BLOCK"
	sAwaitingCommit     fsm.State = "S_AWAITING_COMMIT"
	sHalted             fsm.State = "S_HALTED"

	// lifecycle events
	eLoad       fsm.EventType = "E_LOAD"
	eInitChain  fsm.EventType = "E_INIT_CHAIN"
	eBeginBlock fsm.EventType = "E_BEGIN_BLOCK"
	eDeliverTx  fsm.EventType = "E_DELIVER_TX"
	eEndBlock   fsm.EventType = "E_END_BLOCK"
	eCommit     fsm.EventType = "E_COMMIT"
	eHalt       fsm.EventType = "E_HALT"
)

var (
	// ErrInvalidLifecycle indicates a lifecycle call made in a state which does not accept it
	ErrInvalidLifecycle = errors.New("invalid lifecycle call")
	// ErrHalted indicates the application is halted
	ErrHalted = errors.New("application is halted")
	// ErrNotInitialized indicates the chain is not initialized yet
	ErrNotInitialized = errors.New("chain is not initialized")
)

// lifecycleEvent carries the request of a lifecycle call into the FSM and the response out of it
type lifecycleEvent struct {
	typ  fsm.EventType
	ctx  context.Context
	req  interface{}
	resp interface{}
	err  error
}

func (e *lifecycleEvent) Type() fsm.EventType { return e.typ }

func (app *BaseApp) buildFSM() (fsm.FSM, error) {
	return fsm.NewBuilder().
		AddInitialState(sUninitialized).
		AddStates(sAwaitingBeginBlock, sInBlock, sAwaitingCommit, sHalted).
		AddTransition(sUninitialized, eLoad, app.onLoad, []fsm.State{sAwaitingBeginBlock}).
		AddTransition(sUninitialized, eInitChain, app.onInitChain, []fsm.State{sUninitialized, sAwaitingBeginBlock}).
		AddTransition(sAwaitingBeginBlock, eBeginBlock, app.onBeginBlock, []fsm.State{sInBlock, sHalted}).
		AddTransition(sInBlock, eDeliverTx, app.onDeliverTx, []fsm.State{sInBlock, sHalted}).
		AddTransition(sInBlock, eEndBlock, app.onEndBlock, []fsm.State{sAwaitingCommit, sHalted}).
		AddTransition(sAwaitingCommit, eCommit, app.onCommit, []fsm.State{sAwaitingBeginBlock, sHalted}).
		AddTransition(sUninitialized, eHalt, app.onHalt, []fsm.State{sHalted}).
		AddTransition(sAwaitingBeginBlock, eHalt, app.onHalt, []fsm.State{sHalted}).
		AddTransition(sInBlock, eHalt, app.onHalt, []fsm.State{sHalted}).
		AddTransition(sAwaitingCommit, eHalt, app.onHalt, []fsm.State{sHalted}).
		Build()
}

// handle feeds the event to the FSM. A call without a transition in the current state is a
// fatal misuse of the lifecycle and halts the application. Once halted, by the FSM or by a
// fatal error in CheckTx, every event is refused.
func (app *BaseApp) handle(evt *lifecycleEvent) error {
	if app.halted.Load() {
		if app.fsm.CurrentState() != sHalted {
			if herr := app.fsm.Handle(&lifecycleEvent{typ: eHalt, err: app.fatalErr.Load()}); herr != nil {
				app.logger.Error("Failed to halt the application.", zap.Error(herr))
			}
		}
		return errors.Wrapf(ErrHalted, "cannot handle %s: %v", evt.typ, app.fatalErr.Load())
	}
	if err := app.fsm.Handle(evt); err != nil {
		if errors.Cause(err) != fsm.ErrTransitionNotFound {
			return err
		}
		state := app.fsm.CurrentState()
		if state == sHalted {
			return errors.Wrapf(ErrHalted, "cannot handle %s", evt.typ)
		}
		err = errors.Wrapf(ErrInvalidLifecycle, "%s in state %s", evt.typ, state)
		if herr := app.fsm.Handle(&lifecycleEvent{typ: eHalt, err: err}); herr != nil {
			app.logger.Error("Failed to halt the application.", zap.Error(herr))
		}
		return err
	}
	return evt.err
}

func (app *BaseApp) onHalt(e fsm.Event) (fsm.State, error) {
	evt := e.(*lifecycleEvent)
	app.halt(evt.err)
	return sHalted, nil
}

// halt records the fatal error, the FSM follows into sHalted on its next event
func (app *BaseApp) halt(err error) {
	if app.halted.CompareAndSwap(false, true) {
		app.fatalErr.Store(err)
		app.logger.Error("Application halted on a fatal error.", zap.Error(err))
	}
}

// fatal records the fatal error of the event and returns the halted state
func (app *BaseApp) fatal(evt *lifecycleEvent, err error) (fsm.State, error) {
	evt.err = err
	app.halt(err)
	return sHalted, nil
}

// State returns the lifecycle state of the application
func (app *BaseApp) State() string {
	return string(app.fsm.CurrentState())
}
