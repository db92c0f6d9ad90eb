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

package state

import (
	"context"

	"github.com/numaproj/numatrigger/pkg/window"
)

// Snapshot is the finished bits of one trigger node across a set of merging
// windows, in the same order as the merging window set.
type Snapshot []bool

// TakeSnapshot reads the finished bit of the node at the given position for
// each of the merging windows.
func TakeSnapshot(ctx context.Context, store Store, windows []window.TimedWindow, position int) (Snapshot, error) {
	snapshot := make(Snapshot, 0, len(windows))
	for _, w := range windows {
		finished, err := store.IsFinished(ctx, w, position)
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, finished)
	}
	return snapshot, nil
}

// AnyFinished reports whether the node was finished in at least one of the
// merging windows. A node that already produced its output in any source
// window keeps that output in the merged window.
func AnyFinished(s Snapshot) bool {
	for _, finished := range s {
		if finished {
			return true
		}
	}
	return false
}

// AllFinished reports whether the node was finished in every one of the
// merging windows. An empty snapshot is all-finished.
func AllFinished(s Snapshot) bool {
	for _, finished := range s {
		if !finished {
			return false
		}
	}
	return true
}
