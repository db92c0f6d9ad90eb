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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

func TestAfterWatermark_FiresPastEndOfWindow(t *testing.T) {
	h := newHarness(t, AfterWatermark(), window.Fixed)
	w := testWindow(0, 60)

	result := h.watermark(w, wmb.Watermark(w.EndTime().Add(-1)))
	assert.False(t, result.Fired)

	result = h.watermark(w, wmb.Watermark(w.EndTime()))
	assert.True(t, result.Fired)
	assert.True(t, result.Finished)
}

func TestAfterWatermark_MergeRequiresAllSourcesFinished(t *testing.T) {
	// tree position: root=0
	h := newHarness(t, AfterWatermark(), window.Session)
	w1 := testWindow(0, 10)
	w2 := testWindow(12, 22)
	w3 := testWindow(0, 22)

	// the watermark passed w1's end but not w2's, so it cannot have passed
	// the merged window's end
	h.setFinished(w1, 0, true)

	result := h.merge([]window.TimedWindow{w1, w2}, w3)
	assert.False(t, result.Finished)
	assert.False(t, h.finished(w3))
}

func TestAfterWatermark_Bounds(t *testing.T) {
	w := testWindow(0, 60)
	trig := AfterWatermark()
	assert.Equal(t, wmb.Watermark(w.EndTime()), trig.WatermarkThatGuaranteesFiring(w))
	assert.Same(t, trig, Continuation(trig))
	assert.Equal(t, "AfterWatermark.pastEndOfWindow()", trig.String())
}

func TestElementCountAtLeast_Arity(t *testing.T) {
	_, err := ElementCountAtLeast(0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestElementCountAtLeast_FiresAtThreshold(t *testing.T) {
	root, err := ElementCountAtLeast(3)
	require.NoError(t, err)

	h := newHarness(t, root, window.Fixed)
	w := testWindow(0, 60)

	assert.False(t, h.element(w).Fired)
	assert.False(t, h.element(w).Fired)
	result := h.element(w)
	assert.True(t, result.Fired)
	assert.True(t, result.Finished)
}

func TestElementCountAtLeast_UnderForeverFiresEveryN(t *testing.T) {
	counting, err := ElementCountAtLeast(2)
	require.NoError(t, err)

	h := newHarness(t, Forever(counting), window.Fixed)
	w := testWindow(0, 60)

	fired := 0
	for i := 0; i < 6; i++ {
		result := h.element(w)
		if result.Fired {
			fired++
		}
		assert.False(t, result.Finished)
	}
	assert.Equal(t, 3, fired)
}

func TestElementCountAtLeast_MergeSumsCounts(t *testing.T) {
	root, err := ElementCountAtLeast(3)
	require.NoError(t, err)

	h := newHarness(t, root, window.Session)
	w1 := testWindow(0, 10)
	w2 := testWindow(12, 22)
	w3 := testWindow(0, 22)

	// two elements in each source, neither reaches the threshold
	assert.False(t, h.element(w1).Fired)
	assert.False(t, h.element(w1).Fired)
	assert.False(t, h.element(w2).Fired)
	assert.False(t, h.element(w2).Fired)

	// the merged pane holds all four
	result := h.merge([]window.TimedWindow{w1, w2}, w3)
	assert.True(t, result.Fired)
	assert.True(t, result.Finished)
}

func TestElementCountAtLeast_MergeKeepsFiredFiring(t *testing.T) {
	root, err := ElementCountAtLeast(1)
	require.NoError(t, err)

	h := newHarness(t, root, window.Session)
	w1 := testWindow(0, 10)
	w2 := testWindow(12, 22)
	w3 := testWindow(0, 22)

	result := h.element(w1)
	assert.True(t, result.Fired)
	assert.True(t, result.Finished)

	// w2 never saw an element, but the firing that happened in w1 stays
	// happened in the merged window
	result = h.merge([]window.TimedWindow{w1, w2}, w3)
	assert.True(t, result.Finished)
	assert.False(t, result.Fired)
}

func TestElementCountAtLeast_Bounds(t *testing.T) {
	w := testWindow(0, 60)
	root, err := ElementCountAtLeast(5)
	require.NoError(t, err)

	assert.Equal(t, wmb.MaxWatermark, root.WatermarkThatGuaranteesFiring(w))
	assert.Equal(t, "ElementCountAtLeast(5)", root.String())
	assert.Equal(t, "ElementCountAtLeast(1)", Continuation(root).String())
}
