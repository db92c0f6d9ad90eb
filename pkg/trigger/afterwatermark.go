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
	"github.com/numaproj/numatrigger/pkg/trigger/state"
	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

// afterWatermark fires once the watermark passes the end of the window and
// is finished after that single firing.
type afterWatermark struct{}

// AfterWatermark returns a trigger that fires when the watermark passes the
// end of the window.
func AfterWatermark() Trigger {
	return &afterWatermark{}
}

func (t *afterWatermark) OnElement(c *OnElementContext) error {
	// watermark progress is observed through the context, no state to track
	return nil
}

func (t *afterWatermark) OnMerge(c *OnMergeContext) error {
	// the merged window's end time is the max over the sources, so the
	// watermark has passed it only if it passed every source's end
	snapshot, err := c.FinishedSnapshot()
	if err != nil {
		return err
	}
	return c.Trigger().SetFinished(&c.TriggerContext, state.AllFinished(snapshot))
}

func (t *afterWatermark) ShouldFire(c *TriggerContext) (bool, error) {
	return !c.Watermark().Before(c.Window().EndTime()), nil
}

func (t *afterWatermark) OnFire(c *TriggerContext) error {
	return c.Trigger().SetFinished(c, true)
}

func (t *afterWatermark) Clear(c *TriggerContext) error {
	return nil
}

func (t *afterWatermark) SubTriggers() []Trigger {
	return nil
}

func (t *afterWatermark) WatermarkThatGuaranteesFiring(w window.TimedWindow) wmb.Watermark {
	return wmb.Watermark(w.EndTime())
}

func (t *afterWatermark) ContinuationTrigger(continuationTriggers []Trigger) Trigger {
	return t
}

func (t *afterWatermark) String() string {
	return "AfterWatermark.pastEndOfWindow()"
}
