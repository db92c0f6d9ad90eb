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
	"fmt"

	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

// afterEach executes its subtriggers in order. Only one subtrigger is
// executing at a time, and any time it fires the afterEach fires. When the
// currently executing subtrigger finishes, the afterEach starts executing
// the next one. It is finished when all subtriggers have finished.
type afterEach struct {
	subTriggers []Trigger
}

// InOrder returns a sequential composite over the given subtriggers. It
// returns ErrInvalidArgument for fewer than two subtriggers; a sequence of
// one is just that trigger.
func InOrder(subTriggers ...Trigger) (Trigger, error) {
	if len(subTriggers) < 2 {
		return nil, fmt.Errorf("%w: InOrder requires at least two subtriggers, got %d", ErrInvalidArgument, len(subTriggers))
	}
	return &afterEach{subTriggers: subTriggers}, nil
}

func (t *afterEach) OnElement(c *OnElementContext) error {
	if !c.Trigger().IsMerging(&c.TriggerContext) {
		// merges are impossible, only the first unfinished subtrigger runs
		first, err := c.Trigger().FirstUnfinishedSubTrigger(&c.TriggerContext)
		if err != nil {
			return err
		}
		if first == nil {
			return nil
		}
		return first.InvokeOnElement(c)
	}
	// merges are possible, every subtrigger runs: even a finished subtrigger
	// may be revived by a merge and must keep adequate state
	for _, sub := range c.Trigger().SubTriggers() {
		if err := sub.InvokeOnElement(c); err != nil {
			return err
		}
	}
	return nil
}

func (t *afterEach) OnMerge(c *OnMergeContext) error {
	// If merging makes a subtrigger no-longer-finished, it automatically
	// begins participating in shouldFire and onFire again. Subtriggers past
	// the first unfinished one are retroactively "not started"; they carry no
	// state worth reconciling and are cleared, the same way they are cleared
	// whenever this trigger fires.
	priorTriggersAllFinished := true
	for _, sub := range c.Trigger().SubTriggers() {
		if priorTriggersAllFinished {
			if err := sub.InvokeOnMerge(c); err != nil {
				return err
			}
			finished, err := sub.IsFinished(&c.TriggerContext)
			if err != nil {
				return err
			}
			priorTriggersAllFinished = priorTriggersAllFinished && finished
		} else {
			if err := sub.InvokeClear(&c.TriggerContext); err != nil {
				return err
			}
		}
	}
	return t.updateFinishedState(&c.TriggerContext)
}

func (t *afterEach) ShouldFire(c *TriggerContext) (bool, error) {
	first, err := c.Trigger().FirstUnfinishedSubTrigger(c)
	if err != nil {
		return false, err
	}
	if first == nil {
		// all subtriggers finished means this trigger is finished, and the
		// engine never asks a finished trigger to fire
		return false, nil
	}
	return first.InvokeShouldFire(c)
}

func (t *afterEach) OnFire(c *TriggerContext) error {
	first, err := c.Trigger().FirstUnfinishedSubTrigger(c)
	if err != nil {
		return err
	}
	if first != nil {
		if err := first.InvokeOnFire(c); err != nil {
			return err
		}
	}

	if c.Trigger().IsMerging(c) {
		// any subtrigger may be revived by merging, so all of them must
		// restart from scratch for the next pending pane, not just the one
		// that fired
		for _, sub := range c.Trigger().SubTriggers() {
			if err := sub.InvokeClear(c); err != nil {
				return err
			}
		}
	}

	return t.updateFinishedState(c)
}

func (t *afterEach) Clear(c *TriggerContext) error {
	return clearSubTriggers(c)
}

func (t *afterEach) SubTriggers() []Trigger {
	return t.subTriggers
}

// WatermarkThatGuaranteesFiring is the first subtrigger's bound: the
// composite fires at least once as soon as the first subtrigger does. This
// is a conservative bound for later firings.
func (t *afterEach) WatermarkThatGuaranteesFiring(w window.TimedWindow) wmb.Watermark {
	return t.subTriggers[0].WatermarkThatGuaranteesFiring(w)
}

// ContinuationTrigger fires whenever any subtrigger's continuation would,
// indefinitely: across an execution boundary it is unknown which subtrigger
// was mid-execution.
func (t *afterEach) ContinuationTrigger(continuationTriggers []Trigger) Trigger {
	return Forever(&afterFirst{subTriggers: continuationTriggers})
}

func (t *afterEach) String() string {
	return render("AfterEach.inOrder", t.subTriggers)
}

func (t *afterEach) updateFinishedState(c *TriggerContext) error {
	first, err := c.Trigger().FirstUnfinishedSubTrigger(c)
	if err != nil {
		return err
	}
	return c.Trigger().SetFinished(c, first == nil)
}
