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

// Package state keeps the mutable side of trigger evaluation. The trigger
// tree itself is immutable and shared across windows; everything a trigger
// learns about a window lives here, addressed by (window, tree position).
// A fresh window has no state, which reads back as "not finished".
package state

import (
	"context"

	"github.com/numaproj/numatrigger/pkg/window"
)

// Store is the finished-state store for trigger evaluation. Every node of
// the trigger tree owns one finished bit plus arbitrary private bits per
// window, addressed by the node's tree position.
type Store interface {
	// IsFinished returns the finished bit for the (window, position) key.
	// A key that has never been set is not finished.
	IsFinished(ctx context.Context, w window.TimedWindow, position int) (bool, error)
	// SetFinished sets the finished bit for the (window, position) key.
	SetFinished(ctx context.Context, w window.TimedWindow, position int, finished bool) error
	// Clear removes the finished bit and all private bits for the
	// (window, position) key.
	Clear(ctx context.Context, w window.TimedWindow, position int) error
	// ClearWindow removes everything stored for the window, across all
	// tree positions.
	ClearWindow(ctx context.Context, w window.TimedWindow) error
	// Lookup returns the private bits a trigger node stashed under the given
	// key for the (window, position) pair. The second return is false if the
	// key is absent.
	Lookup(ctx context.Context, w window.TimedWindow, position int, key string) ([]byte, bool, error)
	// Persist stores private bits under the given key for the
	// (window, position) pair.
	Persist(ctx context.Context, w window.TimedWindow, position int, key string, value []byte) error
}
