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
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/numaproj/numatrigger/pkg/shared/kvs/inmem"
	"github.com/numaproj/numatrigger/pkg/trigger/state"
	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/window/partition"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

var testBaseTime = time.Unix(1651129200, 0).UTC()

// testWindow returns a window instance spanning the given second offsets
// from the test base time.
func testWindow(startSec, endSec int) window.TimedWindow {
	return window.NewWindowFromPartition(&partition.ID{
		Start: testBaseTime.Add(time.Duration(startSec) * time.Second),
		End:   testBaseTime.Add(time.Duration(endSec) * time.Second),
		Slot:  "slot-0",
	})
}

// stubTrigger is a controllable leaf used by the combinator tests. Whether it
// wants to fire is toggled by the test; it finishes when it fires and
// reconciles a merge by requiring all source windows to be finished. All
// invocations are counted so delivery policies can be asserted.
type stubTrigger struct {
	name string
	// fire is what ShouldFire reports.
	fire bool
	// mergeFinishedAny switches the merge reconciliation from all-finished
	// to any-finished.
	mergeFinishedAny bool
	// err, when set, is returned from every callback.
	err error
	// bound is the reported watermark guarantee.
	bound wmb.Watermark

	elements    int
	merges      int
	fires       int
	clears      int
	shouldFires int
}

var _ Trigger = (*stubTrigger)(nil)

func newStub(name string) *stubTrigger {
	return &stubTrigger{name: name, bound: wmb.MaxWatermark}
}

func (s *stubTrigger) OnElement(c *OnElementContext) error {
	if s.err != nil {
		return s.err
	}
	s.elements++
	return nil
}

func (s *stubTrigger) OnMerge(c *OnMergeContext) error {
	if s.err != nil {
		return s.err
	}
	s.merges++
	snapshot, err := c.FinishedSnapshot()
	if err != nil {
		return err
	}
	finished := state.AllFinished(snapshot)
	if s.mergeFinishedAny {
		finished = state.AnyFinished(snapshot)
	}
	return c.Trigger().SetFinished(&c.TriggerContext, finished)
}

func (s *stubTrigger) ShouldFire(c *TriggerContext) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.shouldFires++
	return s.fire, nil
}

func (s *stubTrigger) OnFire(c *TriggerContext) error {
	if s.err != nil {
		return s.err
	}
	s.fires++
	return c.Trigger().SetFinished(c, true)
}

func (s *stubTrigger) Clear(c *TriggerContext) error {
	if s.err != nil {
		return s.err
	}
	s.clears++
	return nil
}

func (s *stubTrigger) SubTriggers() []Trigger {
	return nil
}

func (s *stubTrigger) WatermarkThatGuaranteesFiring(w window.TimedWindow) wmb.Watermark {
	return s.bound
}

func (s *stubTrigger) ContinuationTrigger(continuationTriggers []Trigger) Trigger {
	return s
}

func (s *stubTrigger) String() string {
	return s.name
}

// harness drives one executor over an in-memory store.
type harness struct {
	t     *testing.T
	ctx   context.Context
	exec  *Executor
	store state.Store
}

func newHarness(t *testing.T, root Trigger, strategy window.Strategy) *harness {
	t.Helper()
	ctx := context.Background()
	store := state.NewKVStore(inmem.NewKVInMemKVStore(ctx, "test-trigger-state"))
	return &harness{
		t:     t,
		ctx:   ctx,
		exec:  NewExecutor(ctx, root, store, strategy),
		store: store,
	}
}

func (h *harness) element(w window.TimedWindow) Result {
	h.t.Helper()
	result, err := h.exec.OnElement(h.ctx, w, w.StartTime(), wmb.InitialWatermark)
	require.NoError(h.t, err)
	return result
}

func (h *harness) watermark(w window.TimedWindow, watermark wmb.Watermark) Result {
	h.t.Helper()
	result, err := h.exec.OnWatermark(h.ctx, w, watermark)
	require.NoError(h.t, err)
	return result
}

func (h *harness) merge(sources []window.TimedWindow, result window.TimedWindow) Result {
	h.t.Helper()
	r, err := h.exec.OnMerge(h.ctx, sources, result, wmb.InitialWatermark)
	require.NoError(h.t, err)
	return r
}

func (h *harness) finished(w window.TimedWindow) bool {
	h.t.Helper()
	finished, err := h.exec.IsFinished(h.ctx, w)
	require.NoError(h.t, err)
	return finished
}

// setFinished seeds the finished bit of the node at the given tree position.
func (h *harness) setFinished(w window.TimedWindow, position int, finished bool) {
	h.t.Helper()
	require.NoError(h.t, h.store.SetFinished(h.ctx, w, position, finished))
}

func (h *harness) isFinished(w window.TimedWindow, position int) bool {
	h.t.Helper()
	finished, err := h.store.IsFinished(h.ctx, w, position)
	require.NoError(h.t, err)
	return finished
}
