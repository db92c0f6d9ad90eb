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
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/numatrigger/pkg/window"
	"github.com/numaproj/numatrigger/pkg/wmb"
)

func TestExecutor_FinishedRootIsNotQueried(t *testing.T) {
	a := newStub("a")
	h := newHarness(t, a, window.Fixed)
	w := testWindow(0, 60)

	a.fire = true
	result := h.element(w)
	assert.True(t, result.Fired)
	assert.True(t, result.Finished)
	queried := a.shouldFires

	result = h.watermark(w, wmb.Watermark(w.EndTime()))
	assert.True(t, result.Finished)
	assert.False(t, result.Fired)
	assert.Equal(t, queried, a.shouldFires)
	assert.Equal(t, 1, a.fires)
}

func TestExecutor_ShouldFireErrorPropagates(t *testing.T) {
	a := newStub("a")
	h := newHarness(t, a, window.Fixed)
	w := testWindow(0, 60)

	boom := errors.New("boom")
	a.err = boom
	_, err := h.exec.OnWatermark(h.ctx, w, wmb.InitialWatermark)
	assert.ErrorIs(t, err, boom)
}

func TestExecutor_ClearDiscardsWindowState(t *testing.T) {
	// tree positions: root=0, a=1, b=2
	a, b := newStub("a"), newStub("b")
	root, err := InOrder(a, b)
	require.NoError(t, err)

	h := newHarness(t, root, window.Fixed)
	w := testWindow(0, 60)

	a.fire = true
	h.element(w)
	assert.True(t, h.isFinished(w, 1))

	require.NoError(t, h.exec.Clear(h.ctx, w))
	assert.False(t, h.isFinished(w, 1))
	assert.False(t, h.finished(w))
}

func TestExecutor_WatermarkBoundPassthrough(t *testing.T) {
	w := testWindow(0, 60)
	a := newStub("a")
	a.bound = wmb.Watermark(w.EndTime())

	h := newHarness(t, a, window.Fixed)
	assert.Equal(t, a.bound, h.exec.WatermarkThatGuaranteesFiring(w))
}
