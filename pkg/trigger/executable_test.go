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

func buildTestTree(t *testing.T) Trigger {
	t.Helper()
	inner, err := AfterFirst(newStub("b"), newStub("c"))
	require.NoError(t, err)
	root, err := InOrder(newStub("a"), inner, newStub("d"))
	require.NoError(t, err)
	return root
}

func TestNewExecutableTrigger_PreOrderPositions(t *testing.T) {
	root := buildTestTree(t)
	et := NewExecutableTrigger(root)

	// pre-order: root=0, a=1, AfterFirst=2, b=3, c=4, d=5
	assert.Equal(t, 0, et.Index())
	require.Len(t, et.SubTriggers(), 3)
	assert.Equal(t, 1, et.SubTriggers()[0].Index())
	assert.Equal(t, 2, et.SubTriggers()[1].Index())
	require.Len(t, et.SubTriggers()[1].SubTriggers(), 2)
	assert.Equal(t, 3, et.SubTriggers()[1].SubTriggers()[0].Index())
	assert.Equal(t, 4, et.SubTriggers()[1].SubTriggers()[1].Index())
	assert.Equal(t, 5, et.SubTriggers()[2].Index())
}

func TestNewExecutableTrigger_RebuildIsDeterministic(t *testing.T) {
	root := buildTestTree(t)
	first := NewExecutableTrigger(root)
	second := NewExecutableTrigger(root)

	var walk func(a, b *ExecutableTrigger)
	walk = func(a, b *ExecutableTrigger) {
		assert.Equal(t, a.Index(), b.Index())
		assert.Same(t, a.Trigger(), b.Trigger())
		require.Equal(t, len(a.SubTriggers()), len(b.SubTriggers()))
		for i := range a.SubTriggers() {
			walk(a.SubTriggers()[i], b.SubTriggers()[i])
		}
	}
	walk(first, second)
}

func TestFirstUnfinishedSubTrigger(t *testing.T) {
	a, b := newStub("a"), newStub("b")
	root, err := InOrder(a, b)
	require.NoError(t, err)

	h := newHarness(t, root, window.Fixed)
	w := testWindow(0, 60)
	et := h.exec.Root()
	tc := h.exec.newContext(h.ctx, w, wmb.InitialWatermark)

	first, err := et.FirstUnfinishedSubTrigger(tc)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Index())

	h.setFinished(w, 1, true)
	first, err = et.FirstUnfinishedSubTrigger(tc)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Index())

	h.setFinished(w, 2, true)
	first, err = et.FirstUnfinishedSubTrigger(tc)
	require.NoError(t, err)
	assert.Nil(t, first)
}
