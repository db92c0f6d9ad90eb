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

	"github.com/numaproj/numatrigger/pkg/trigger/state"
	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

// TriggerContext is the capability view handed to a trigger variant during a
// callback. It is scoped to one window and, through the node pointer, to one
// position of the trigger tree; the Invoke* dispatchers re-scope it for each
// subtrigger so a variant always sees itself as the current node.
type TriggerContext struct {
	ctx       context.Context
	window    window.TimedWindow
	watermark wmb.Watermark
	store     state.Store
	merging   bool
	node      *ExecutableTrigger
}

// Window returns the window instance being evaluated.
func (c *TriggerContext) Window() window.TimedWindow {
	return c.window
}

// Watermark returns the engine's current event-time watermark.
func (c *TriggerContext) Watermark() wmb.Watermark {
	return c.watermark
}

// Trigger returns the tree node currently being evaluated.
func (c *TriggerContext) Trigger() *ExecutableTrigger {
	return c.node
}

// IsMerging reports whether the windowing strategy in effect permits window
// merging. This is a property of the strategy, not of the trigger tree.
func (c *TriggerContext) IsMerging() bool {
	return c.merging
}

// forTrigger returns a copy of the context scoped to the given node.
func (c *TriggerContext) forTrigger(et *ExecutableTrigger) TriggerContext {
	scoped := *c
	scoped.node = et
	return scoped
}

// lookup reads the current node's private bits under the given key.
func (c *TriggerContext) lookup(key string) ([]byte, bool, error) {
	return c.store.Lookup(c.ctx, c.window, c.node.Index(), key)
}

// persist stores the current node's private bits under the given key.
func (c *TriggerContext) persist(key string, value []byte) error {
	return c.store.Persist(c.ctx, c.window, c.node.Index(), key, value)
}

// OnElementContext is the context for Trigger.OnElement.
type OnElementContext struct {
	TriggerContext
	eventTime time.Time
}

// EventTime returns the event time of the element that arrived.
func (c *OnElementContext) EventTime() time.Time {
	return c.eventTime
}

// OnMergeContext is the context for Trigger.OnMerge. The context's window is
// the merge result; the merging windows are the source windows it replaces.
type OnMergeContext struct {
	TriggerContext
	mergingWindows []window.TimedWindow
}

// MergingWindows returns the source windows being merged.
func (c *OnMergeContext) MergingWindows() []window.TimedWindow {
	return c.mergingWindows
}

// FinishedSnapshot returns the current node's finished bits across the
// merging windows, for reconciliation through the pure helpers in the state
// package.
func (c *OnMergeContext) FinishedSnapshot() (state.Snapshot, error) {
	return state.TakeSnapshot(c.ctx, c.store, c.mergingWindows, c.node.Index())
}

// MergingLookup returns the current node's private bits under the given key
// for each merging window that has them.
func (c *OnMergeContext) MergingLookup(key string) ([][]byte, error) {
	values := make([][]byte, 0, len(c.mergingWindows))
	for _, w := range c.mergingWindows {
		value, ok, err := c.store.Lookup(c.ctx, w, c.node.Index(), key)
		if err != nil {
			return nil, err
		}
		if ok {
			values = append(values, value)
		}
	}
	return values, nil
}
