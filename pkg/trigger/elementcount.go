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
	"encoding/binary"
	"fmt"

	"github.com/numaproj/numatrigger/pkg/trigger/state"
	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

// countStateKey is the private-state key under which elementCount keeps the
// number of elements seen for the pane.
const countStateKey = "count"

// elementCount fires once the pane holds at least countAtLeast elements and
// is finished after that single firing. Under Forever it fires every
// countAtLeast elements.
type elementCount struct {
	countAtLeast int64
}

// ElementCountAtLeast returns a trigger that fires when the pane holds at
// least the given number of elements. It returns ErrInvalidArgument for a
// count below one.
func ElementCountAtLeast(countAtLeast int64) (Trigger, error) {
	if countAtLeast < 1 {
		return nil, fmt.Errorf("%w: ElementCountAtLeast requires a count of at least 1, got %d", ErrInvalidArgument, countAtLeast)
	}
	return &elementCount{countAtLeast: countAtLeast}, nil
}

func (t *elementCount) OnElement(c *OnElementContext) error {
	count, err := t.readCount(&c.TriggerContext)
	if err != nil {
		return err
	}
	return c.persist(countStateKey, encodeCount(count+1))
}

func (t *elementCount) OnMerge(c *OnMergeContext) error {
	// the merged pane holds the union of the source panes, so the counts add
	// up; a firing that already happened in any source window stays happened
	values, err := c.MergingLookup(countStateKey)
	if err != nil {
		return err
	}
	var total int64
	for _, value := range values {
		total += decodeCount(value)
	}
	if err := c.persist(countStateKey, encodeCount(total)); err != nil {
		return err
	}
	snapshot, err := c.FinishedSnapshot()
	if err != nil {
		return err
	}
	return c.Trigger().SetFinished(&c.TriggerContext, state.AnyFinished(snapshot))
}

func (t *elementCount) ShouldFire(c *TriggerContext) (bool, error) {
	count, err := t.readCount(c)
	if err != nil {
		return false, err
	}
	return count >= t.countAtLeast, nil
}

func (t *elementCount) OnFire(c *TriggerContext) error {
	return c.Trigger().SetFinished(c, true)
}

func (t *elementCount) Clear(c *TriggerContext) error {
	// the count is dropped along with the rest of the node's private bits
	return nil
}

func (t *elementCount) SubTriggers() []Trigger {
	return nil
}

// WatermarkThatGuaranteesFiring is the end of time: watermark progress alone
// never guarantees enough elements arrive.
func (t *elementCount) WatermarkThatGuaranteesFiring(w window.TimedWindow) wmb.Watermark {
	return wmb.MaxWatermark
}

// ContinuationTrigger fires on the first downstream element: the upstream
// firing already proves the threshold was met.
func (t *elementCount) ContinuationTrigger(continuationTriggers []Trigger) Trigger {
	return &elementCount{countAtLeast: 1}
}

func (t *elementCount) String() string {
	return fmt.Sprintf("ElementCountAtLeast(%d)", t.countAtLeast)
}

func (t *elementCount) readCount(c *TriggerContext) (int64, error) {
	value, ok, err := c.lookup(countStateKey)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return decodeCount(value), nil
}

func encodeCount(count int64) []byte {
	value := make([]byte, 8)
	binary.LittleEndian.PutUint64(value, uint64(count))
	return value
}

func decodeCount(value []byte) int64 {
	if len(value) != 8 {
		return 0
	}
	return int64(binary.LittleEndian.Uint64(value))
}
