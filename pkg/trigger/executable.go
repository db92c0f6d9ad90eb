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

// ExecutableTrigger pairs a trigger node with its stable tree position and
// wraps its subtriggers the same way. It is runtime-only, never persisted,
// and rebuildable deterministically from the tree at any time. The position
// is the addressing key into the state store, so it must be identical on
// every rebuild; a fixed pre-order walk guarantees that.
type ExecutableTrigger struct {
	trigger     Trigger
	index       int
	subTriggers []*ExecutableTrigger
}

// NewExecutableTrigger wraps the trigger tree, assigning every node its tree
// position by a pre-order enumeration.
func NewExecutableTrigger(t Trigger) *ExecutableTrigger {
	next := 0
	return wrap(t, &next)
}

func wrap(t Trigger, next *int) *ExecutableTrigger {
	et := &ExecutableTrigger{
		trigger: t,
		index:   *next,
	}
	*next++
	for _, sub := range t.SubTriggers() {
		et.subTriggers = append(et.subTriggers, wrap(sub, next))
	}
	return et
}

// Trigger returns the wrapped trigger node.
func (et *ExecutableTrigger) Trigger() Trigger {
	return et.trigger
}

// Index returns the node's tree position.
func (et *ExecutableTrigger) Index() int {
	return et.index
}

// SubTriggers returns the wrapped direct subtriggers in tree order.
func (et *ExecutableTrigger) SubTriggers() []*ExecutableTrigger {
	return et.subTriggers
}

func (et *ExecutableTrigger) String() string {
	return et.trigger.String()
}

// IsFinished reads this node's finished bit for the context's window.
func (et *ExecutableTrigger) IsFinished(c *TriggerContext) (bool, error) {
	return c.store.IsFinished(c.ctx, c.window, et.index)
}

// SetFinished writes this node's finished bit for the context's window.
func (et *ExecutableTrigger) SetFinished(c *TriggerContext, finished bool) error {
	return c.store.SetFinished(c.ctx, c.window, et.index, finished)
}

// IsMerging reports whether the context's windowing strategy permits merging.
func (et *ExecutableTrigger) IsMerging(c *TriggerContext) bool {
	return c.merging
}

// FirstUnfinishedSubTrigger returns the first subtrigger, in tree order,
// whose finished bit for the context's window is false, or nil if all
// subtriggers are finished.
func (et *ExecutableTrigger) FirstUnfinishedSubTrigger(c *TriggerContext) (*ExecutableTrigger, error) {
	for _, sub := range et.subTriggers {
		finished, err := sub.IsFinished(c)
		if err != nil {
			return nil, err
		}
		if !finished {
			return sub, nil
		}
	}
	return nil, nil
}

// InvokeOnElement dispatches OnElement to the wrapped trigger with the
// context scoped to this node.
func (et *ExecutableTrigger) InvokeOnElement(c *OnElementContext) error {
	scoped := &OnElementContext{
		TriggerContext: c.TriggerContext.forTrigger(et),
		eventTime:      c.eventTime,
	}
	return et.trigger.OnElement(scoped)
}

// InvokeOnMerge dispatches OnMerge to the wrapped trigger with the context
// scoped to this node.
func (et *ExecutableTrigger) InvokeOnMerge(c *OnMergeContext) error {
	scoped := &OnMergeContext{
		TriggerContext: c.TriggerContext.forTrigger(et),
		mergingWindows: c.mergingWindows,
	}
	return et.trigger.OnMerge(scoped)
}

// InvokeShouldFire dispatches ShouldFire to the wrapped trigger with the
// context scoped to this node.
func (et *ExecutableTrigger) InvokeShouldFire(c *TriggerContext) (bool, error) {
	scoped := c.forTrigger(et)
	return et.trigger.ShouldFire(&scoped)
}

// InvokeOnFire dispatches OnFire to the wrapped trigger with the context
// scoped to this node.
func (et *ExecutableTrigger) InvokeOnFire(c *TriggerContext) error {
	scoped := c.forTrigger(et)
	return et.trigger.OnFire(&scoped)
}

// InvokeClear dispatches Clear to the wrapped trigger, then removes this
// node's finished bit and private bits for the context's window.
func (et *ExecutableTrigger) InvokeClear(c *TriggerContext) error {
	scoped := c.forTrigger(et)
	if err := et.trigger.Clear(&scoped); err != nil {
		return err
	}
	return c.store.Clear(c.ctx, c.window, et.index)
}

// clearSubTriggers clears every subtrigger of the context's current node.
func clearSubTriggers(c *TriggerContext) error {
	for _, sub := range c.Trigger().SubTriggers() {
		if err := sub.InvokeClear(c); err != nil {
			return err
		}
	}
	return nil
}
