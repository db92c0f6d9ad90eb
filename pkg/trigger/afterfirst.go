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

// afterFirst runs its subtriggers in parallel and fires when any unfinished
// subtrigger would fire. It is finished as soon as any subtrigger is
// finished.
type afterFirst struct {
	subTriggers []Trigger
}

// AfterFirst returns a parallel-any composite over the given subtriggers.
// It returns ErrInvalidArgument for fewer than two subtriggers.
func AfterFirst(subTriggers ...Trigger) (Trigger, error) {
	if len(subTriggers) < 2 {
		return nil, fmt.Errorf("%w: AfterFirst requires at least two subtriggers, got %d", ErrInvalidArgument, len(subTriggers))
	}
	return &afterFirst{subTriggers: subTriggers}, nil
}

func (t *afterFirst) OnElement(c *OnElementContext) error {
	for _, sub := range c.Trigger().SubTriggers() {
		if err := sub.InvokeOnElement(c); err != nil {
			return err
		}
	}
	return nil
}

func (t *afterFirst) OnMerge(c *OnMergeContext) error {
	for _, sub := range c.Trigger().SubTriggers() {
		if err := sub.InvokeOnMerge(c); err != nil {
			return err
		}
	}
	return t.updateFinishedState(&c.TriggerContext)
}

func (t *afterFirst) ShouldFire(c *TriggerContext) (bool, error) {
	for _, sub := range c.Trigger().SubTriggers() {
		finished, err := sub.IsFinished(c)
		if err != nil {
			return false, err
		}
		if finished {
			continue
		}
		fire, err := sub.InvokeShouldFire(c)
		if err != nil {
			return false, err
		}
		if fire {
			return true, nil
		}
	}
	return false, nil
}

func (t *afterFirst) OnFire(c *TriggerContext) error {
	for _, sub := range c.Trigger().SubTriggers() {
		fire, err := sub.InvokeShouldFire(c)
		if err != nil {
			return err
		}
		if fire {
			if err := sub.InvokeOnFire(c); err != nil {
				return err
			}
		} else {
			// whatever pending pane the subtrigger was tracking is gone now
			if err := sub.InvokeClear(c); err != nil {
				return err
			}
		}
	}
	return c.Trigger().SetFinished(c, true)
}

func (t *afterFirst) Clear(c *TriggerContext) error {
	return clearSubTriggers(c)
}

func (t *afterFirst) SubTriggers() []Trigger {
	return t.subTriggers
}

// WatermarkThatGuaranteesFiring is the minimum over the subtriggers' bounds:
// the composite fires as soon as the earliest-guaranteed subtrigger does.
func (t *afterFirst) WatermarkThatGuaranteesFiring(w window.TimedWindow) wmb.Watermark {
	bound := t.subTriggers[0].WatermarkThatGuaranteesFiring(w)
	for _, sub := range t.subTriggers[1:] {
		bound = wmb.Min(bound, sub.WatermarkThatGuaranteesFiring(w))
	}
	return bound
}

func (t *afterFirst) ContinuationTrigger(continuationTriggers []Trigger) Trigger {
	return &afterFirst{subTriggers: continuationTriggers}
}

func (t *afterFirst) String() string {
	return render("AfterFirst.of", t.subTriggers)
}

func (t *afterFirst) updateFinishedState(c *TriggerContext) error {
	for _, sub := range c.Trigger().SubTriggers() {
		finished, err := sub.IsFinished(c)
		if err != nil {
			return err
		}
		if finished {
			return c.Trigger().SetFinished(c, true)
		}
	}
	return c.Trigger().SetFinished(c, false)
}
