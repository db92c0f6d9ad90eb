/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package trigger

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/numaproj/numatrigger/pkg/shared/logging"
	"github.com/numaproj/numatrigger/pkg/trigger/state"
	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

// Executor drives a trigger tree for the enclosing engine. Evaluation per
// (window, callback) is single-threaded and runs to completion; the executor
// holds no per-window state of its own, so one executor serves every window
// of a (key, vertex) pair. OnFire always runs right after a true ShouldFire
// with no mutation in between, and OnMerge for a merged window always runs
// before any further evaluation of that window.
type Executor struct {
	root     *ExecutableTrigger
	store    state.Store
	strategy window.Strategy
	log      *zap.SugaredLogger
}

// Result is what one evaluation told the engine.
type Result struct {
	// Fired is true if a pane should be emitted for the window.
	Fired bool
	// Finished is true if the window will never fire again (barring revival
	// via a merge).
	Finished bool
}

// NewExecutor wraps the given trigger tree and returns an executor over it.
func NewExecutor(ctx context.Context, root Trigger, store state.Store, strategy window.Strategy, opts ...Option) *Executor {
	e := &Executor{
		root:     NewExecutableTrigger(root),
		store:    store,
		strategy: strategy,
		log:      logging.FromContext(ctx),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Root returns the executable wrapper of the trigger tree.
func (e *Executor) Root() *ExecutableTrigger {
	return e.root
}

// OnElement feeds one element to the trigger tree and evaluates firing.
func (e *Executor) OnElement(ctx context.Context, w window.TimedWindow, eventTime time.Time, watermark wmb.Watermark) (Result, error) {
	tc := e.newContext(ctx, w, watermark)
	ec := &OnElementContext{TriggerContext: *tc, eventTime: eventTime}
	if err := e.root.InvokeOnElement(ec); err != nil {
		return Result{}, err
	}
	return e.evaluate(tc)
}

// OnWatermark evaluates firing after a watermark advance.
func (e *Executor) OnWatermark(ctx context.Context, w window.TimedWindow, watermark wmb.Watermark) (Result, error) {
	return e.evaluate(e.newContext(ctx, w, watermark))
}

// OnMerge reconciles trigger state when the source windows merge into the
// result window, discards the source windows' state, and evaluates firing
// for the result.
func (e *Executor) OnMerge(ctx context.Context, sources []window.TimedWindow, result window.TimedWindow, watermark wmb.Watermark) (Result, error) {
	tc := e.newContext(ctx, result, watermark)
	mc := &OnMergeContext{TriggerContext: *tc, mergingWindows: sources}
	if err := e.root.InvokeOnMerge(mc); err != nil {
		return Result{}, err
	}

	// the source windows no longer exist, their state goes with them
	resultPartition := result.Partition().String()
	for _, source := range sources {
		if source.Partition().String() == resultPartition {
			continue
		}
		if err := e.store.ClearWindow(ctx, source); err != nil {
			return Result{}, err
		}
	}

	triggerMergesCount.WithLabelValues(e.strategy.String()).Inc()
	e.log.Debugw("merged trigger state",
		zap.Int("sources", len(sources)),
		zap.String("window", resultPartition))
	return e.evaluate(tc)
}

// IsFinished reads the root's finished bit for the window.
func (e *Executor) IsFinished(ctx context.Context, w window.TimedWindow) (bool, error) {
	return e.store.IsFinished(ctx, w, e.root.Index())
}

// Clear discards everything stored for the window, typically on window
// garbage collection.
func (e *Executor) Clear(ctx context.Context, w window.TimedWindow) error {
	return e.store.ClearWindow(ctx, w)
}

// WatermarkThatGuaranteesFiring returns the tree's firing bound for the
// window.
func (e *Executor) WatermarkThatGuaranteesFiring(w window.TimedWindow) wmb.Watermark {
	return e.root.Trigger().WatermarkThatGuaranteesFiring(w)
}

func (e *Executor) newContext(ctx context.Context, w window.TimedWindow, watermark wmb.Watermark) *TriggerContext {
	return &TriggerContext{
		ctx:       ctx,
		window:    w,
		watermark: watermark,
		store:     e.store,
		merging:   e.strategy.SupportsMerging(),
	}
}

// evaluate queries ShouldFire and, on true, runs OnFire on the same state
// snapshot. A finished root is never queried.
func (e *Executor) evaluate(tc *TriggerContext) (Result, error) {
	finished, err := e.root.IsFinished(tc)
	if err != nil {
		return Result{}, err
	}
	if finished {
		return Result{Finished: true}, nil
	}

	fire, err := e.root.InvokeShouldFire(tc)
	if err != nil {
		return Result{}, err
	}
	if !fire {
		return Result{}, nil
	}

	if err := e.root.InvokeOnFire(tc); err != nil {
		return Result{}, err
	}
	triggerFiringsCount.WithLabelValues(e.strategy.String()).Inc()

	finished, err = e.root.IsFinished(tc)
	if err != nil {
		return Result{}, err
	}
	if finished {
		triggerFinishedCount.WithLabelValues(e.strategy.String()).Inc()
	}
	e.log.Debugw("trigger fired",
		zap.String("window", tc.window.Partition().String()),
		zap.Bool("finished", finished))
	return Result{Fired: true, Finished: finished}, nil
}
