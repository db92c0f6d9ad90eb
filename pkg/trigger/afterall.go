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

// afterAll runs its subtriggers in parallel and fires only when every
// unfinished subtrigger would fire in the same evaluation. It is finished
// only when all subtriggers are finished.
type afterAll struct {
	subTriggers []Trigger
}

// AfterAll returns a parallel-all composite over the given subtriggers.
// It returns ErrInvalidArgument for fewer than two subtriggers.
func AfterAll(subTriggers ...Trigger) (Trigger, error) {
	if len(subTriggers) < 2 {
		return nil, fmt.Errorf("%w: AfterAll requires at least two subtriggers, got %d", ErrInvalidArgument, len(subTriggers))
	}
	return &afterAll{subTriggers: subTriggers}, nil
}

func (t *afterAll) OnElement(c *OnElementContext) error {
	for _, sub := range c.Trigger().SubTriggers() {
		finished, err := sub.IsFinished(&c.TriggerContext)
		if err != nil {
			return err
		}
		if finished {
			continue
		}
		if err := sub.InvokeOnElement(c); err != nil {
			return err
		}
	}
	return nil
}

func (t *afterAll) OnMerge(c *OnMergeContext) error {
	for _, sub := range c.Trigger().SubTriggers() {
		if err := sub.InvokeOnMerge(c); err != nil {
			return err
		}
	}
	return t.updateFinishedState(&c.TriggerContext)
}

func (t *afterAll) ShouldFire(c *TriggerContext) (bool, error) {
	anyUnfinished := false
	for _, sub := range c.Trigger().SubTriggers() {
		finished, err := sub.IsFinished(c)
		if err != nil {
			return false, err
		}
		if finished {
			continue
		}
		anyUnfinished = true
		fire, err := sub.InvokeShouldFire(c)
		if err != nil {
			return false, err
		}
		if !fire {
			return false, nil
		}
	}
	return anyUnfinished, nil
}

func (t *afterAll) OnFire(c *TriggerContext) error {
	for _, sub := range c.Trigger().SubTriggers() {
		finished, err := sub.IsFinished(c)
		if err != nil {
			return err
		}
		if finished {
			continue
		}
		if err := sub.InvokeOnFire(c); err != nil {
			return err
		}
	}
	return t.updateFinishedState(c)
}

func (t *afterAll) Clear(c *TriggerContext) error {
	return clearSubTriggers(c)
}

func (t *afterAll) SubTriggers() []Trigger {
	return t.subTriggers
}

// WatermarkThatGuaranteesFiring is the maximum over the subtriggers' bounds:
// the composite cannot fire before the last-guaranteed subtrigger can.
func (t *afterAll) WatermarkThatGuaranteesFiring(w window.TimedWindow) wmb.Watermark {
	bound := t.subTriggers[0].WatermarkThatGuaranteesFiring(w)
	for _, sub := range t.subTriggers[1:] {
		bound = wmb.Max(bound, sub.WatermarkThatGuaranteesFiring(w))
	}
	return bound
}

func (t *afterAll) ContinuationTrigger(continuationTriggers []Trigger) Trigger {
	return &afterAll{subTriggers: continuationTriggers}
}

func (t *afterAll) String() string {
	return render("AfterAll.of", t.subTriggers)
}

func (t *afterAll) updateFinishedState(c *TriggerContext) error {
	for _, sub := range c.Trigger().SubTriggers() {
		finished, err := sub.IsFinished(c)
		if err != nil {
			return err
		}
		if !finished {
			return c.Trigger().SetFinished(c, false)
		}
	}
	return c.Trigger().SetFinished(c, true)
}
