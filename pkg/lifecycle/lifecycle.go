// Copyright (c) 2019 IoTeX Foundation
// This is an alpha (internal) release and is not suitable for production. This source code is provided 'as is' and no
// warranties are given as to title or non-infringement, merchantability or fitness for purpose and, to the extent
// permitted by law, all liability for your use of the code is disclaimed. This source code is governed by Apache
// License 2.0 that can be found in the LICENSE file.

// Package lifecycle provides application models' lifecycle management.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

type (
	// Model is application model which may require to start and stop in application lifecycle.
	Model interface{}

	// Starter is Model has a Start method.
	Starter interface {
		// Start runs on lifecycle start phase.
		Start(context.Context) error
	}

	// Stopper is Model has a Stop method.
	Stopper interface {
		// Stop runs on lifecycle stop phase.
		Stop(context.Context) error
	}

	// StartStopper is the interface that groups Start and Stop.
	StartStopper interface {
		Starter
		Stopper
	}
)

// Lifecycle manages lifecycle for models. Currently a Lifecycle has two phases: Start and Stop.
// Models are started in the order they are added and stopped in reverse order.
type Lifecycle struct {
	models []Model
}

// Add adds a model into LifeCycle.
func (lc *Lifecycle) Add(m Model) { lc.models = append(lc.models, m) }

// AddModels adds multiple models into LifeCycle.
func (lc *Lifecycle) AddModels(m ...Model) { lc.models = append(lc.models, m...) }

// OnStart starts the models in order. When a model fails to start, the models started before it
// are stopped in reverse order and the start error is returned.
func (lc *Lifecycle) OnStart(ctx context.Context) error {
	for i, m := range lc.models {
		starter, ok := m.(Starter)
		if !ok {
			continue
		}
		if err := starter.Start(ctx); err != nil {
			err = errors.Wrapf(err, "failed to start %s", modelName(m))
			if e := stopAll(ctx, lc.models[:i]); e != nil {
				return errors.Wrapf(err, "rollback: %v", e)
			}
			return err
		}
	}
	return nil
}

// OnStop stops the models in reverse order. All models are stopped, the first error is returned.
func (lc *Lifecycle) OnStop(ctx context.Context) error {
	return stopAll(ctx, lc.models)
}

func stopAll(ctx context.Context, models []Model) error {
	var err error
	for i := len(models) - 1; i >= 0; i-- {
		if stopper, ok := models[i].(Stopper); ok {
			if e := stopper.Stop(ctx); e != nil && err == nil {
				err = e
			}
		}
	}
	return err
}

func modelName(m Model) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", m)
}
