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
	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

// repeatedly restarts its subtrigger every time it finishes and never
// reports itself finished. Sequentially composing anything after it is
// absorbed: the successor never starts.
type repeatedly struct {
	subTrigger Trigger
}

// Forever returns a trigger that fires whenever the given subtrigger fires
// and restarts it whenever it finishes.
func Forever(subTrigger Trigger) Trigger {
	return &repeatedly{subTrigger: subTrigger}
}

func (t *repeatedly) OnElement(c *OnElementContext) error {
	return t.repeated(&c.TriggerContext).InvokeOnElement(c)
}

func (t *repeatedly) OnMerge(c *OnMergeContext) error {
	repeated := t.repeated(&c.TriggerContext)
	if err := repeated.InvokeOnMerge(c); err != nil {
		return err
	}
	return t.restartIfFinished(&c.TriggerContext)
}

func (t *repeatedly) ShouldFire(c *TriggerContext) (bool, error) {
	return t.repeated(c).InvokeShouldFire(c)
}

func (t *repeatedly) OnFire(c *TriggerContext) error {
	if err := t.repeated(c).InvokeOnFire(c); err != nil {
		return err
	}
	return t.restartIfFinished(c)
}

func (t *repeatedly) Clear(c *TriggerContext) error {
	return clearSubTriggers(c)
}

func (t *repeatedly) SubTriggers() []Trigger {
	return []Trigger{t.subTrigger}
}

func (t *repeatedly) WatermarkThatGuaranteesFiring(w window.TimedWindow) wmb.Watermark {
	return t.subTrigger.WatermarkThatGuaranteesFiring(w)
}

func (t *repeatedly) ContinuationTrigger(continuationTriggers []Trigger) Trigger {
	return Forever(continuationTriggers[0])
}

func (t *repeatedly) String() string {
	return render("Repeatedly.forever", []Trigger{t.subTrigger})
}

func (t *repeatedly) repeated(c *TriggerContext) *ExecutableTrigger {
	return c.Trigger().SubTriggers()[0]
}

// restartIfFinished clears the subtrigger when it finishes so it runs again
// from scratch. Clearing removes the finished bit, so the subtrigger reads
// back as not started.
func (t *repeatedly) restartIfFinished(c *TriggerContext) error {
	repeated := t.repeated(c)
	finished, err := repeated.IsFinished(c)
	if err != nil {
		return err
	}
	if finished {
		return repeated.InvokeClear(c)
	}
	return nil
}
