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

func TestAfterAll_Arity(t *testing.T) {
	_, err := AfterAll(newStub("a"))
	assert.ErrorIs(t, err, ErrInvalidArgument)

	root, err := AfterAll(newStub("a"), newStub("b"))
	require.NoError(t, err)
	assert.Equal(t, "AfterAll.of(a, b)", root.String())
}

func TestAfterAll_FiresOnlyWhenAllWouldFire(t *testing.T) {
	a, b := newStub("a"), newStub("b")
	root, err := AfterAll(a, b)
	require.NoError(t, err)

	h := newHarness(t, root, window.Fixed)
	w := testWindow(0, 60)

	a.fire = true
	result := h.element(w)
	assert.False(t, result.Fired)
	assert.Equal(t, 0, a.fires)

	b.fire = true
	result = h.element(w)
	assert.True(t, result.Fired)
	assert.True(t, result.Finished)
	assert.Equal(t, 1, a.fires)
	assert.Equal(t, 1, b.fires)
}

func TestAfterAll_FinishedChildDoesNotBlockFiring(t *testing.T) {
	// tree positions: root=0, a=1, b=2
	a, b := newStub("a"), newStub("b")
	root, err := AfterAll(a, b)
	require.NoError(t, err)

	h := newHarness(t, root, window.Fixed)
	w := testWindow(0, 60)

	// a already finished, so b alone decides
	h.setFinished(w, 1, true)
	b.fire = true
	result := h.element(w)
	assert.True(t, result.Fired)
	assert.True(t, result.Finished)
	assert.Equal(t, 0, a.fires)
	assert.Equal(t, 1, b.fires)
	// a is finished and does not even see the element
	assert.Equal(t, 0, a.elements)
}

func TestAfterAll_MergeFinishedOnlyIfAllChildrenFinished(t *testing.T) {
	// tree positions: root=0, a=1, b=2
	a, b := newStub("a"), newStub("b")
	root, err := AfterAll(a, b)
	require.NoError(t, err)

	h := newHarness(t, root, window.Session)
	w1 := testWindow(0, 10)
	w2 := testWindow(12, 22)
	w3 := testWindow(0, 22)

	h.setFinished(w1, 1, true)
	h.setFinished(w2, 1, true)
	h.setFinished(w1, 2, true)

	result := h.merge([]window.TimedWindow{w1, w2}, w3)
	// b was not finished in W2, so the composite is not finished
	assert.False(t, result.Finished)
	assert.True(t, h.isFinished(w3, 1))
	assert.False(t, h.isFinished(w3, 2))
}

func TestAfterAll_WatermarkBoundIsMax(t *testing.T) {
	w := testWindow(0, 60)
	a, b := newStub("a"), newStub("b")
	a.bound = wmb.Watermark(w.EndTime())
	b.bound = wmb.MaxWatermark

	root, err := AfterAll(a, b)
	require.NoError(t, err)
	assert.Equal(t, b.bound, root.WatermarkThatGuaranteesFiring(w))
}
