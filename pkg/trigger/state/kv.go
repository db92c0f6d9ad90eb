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
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/numaproj/numatrigger/pkg/shared/kvs"
	"github.com/numaproj/numatrigger/pkg/window"
)

const (
	keyDelimiter = "/"
	finishedKey  = "finished"
)

// kvStore implements Store on top of a KVStorer. Keys are laid out as
// <window-partition>/<position>/finished for the finished bit and
// <window-partition>/<position>/s/<key> for private bits.
type kvStore struct {
	kv kvs.KVStorer
}

var _ Store = (*kvStore)(nil)

// NewKVStore returns a Store backed by the given KVStorer.
func NewKVStore(kv kvs.KVStorer) Store {
	return &kvStore{kv: kv}
}

func (s *kvStore) IsFinished(ctx context.Context, w window.TimedWindow, position int) (bool, error) {
	value, err := s.kv.GetValue(ctx, s.finishedStateKey(w, position))
	if err != nil {
		if errors.Is(err, kvs.ErrKeyNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read finished bit, %w", err)
	}
	return len(value) == 1 && value[0] == 1, nil
}

func (s *kvStore) SetFinished(ctx context.Context, w window.TimedWindow, position int, finished bool) error {
	value := []byte{0}
	if finished {
		value[0] = 1
	}
	return s.kv.PutKV(ctx, s.finishedStateKey(w, position), value)
}

func (s *kvStore) Clear(ctx context.Context, w window.TimedWindow, position int) error {
	prefix := s.positionPrefix(w, position)
	return s.deletePrefix(ctx, prefix)
}

func (s *kvStore) ClearWindow(ctx context.Context, w window.TimedWindow) error {
	prefix := w.Partition().String() + keyDelimiter
	return s.deletePrefix(ctx, prefix)
}

func (s *kvStore) Lookup(ctx context.Context, w window.TimedWindow, position int, key string) ([]byte, bool, error) {
	value, err := s.kv.GetValue(ctx, s.privateStateKey(w, position, key))
	if err != nil {
		if errors.Is(err, kvs.ErrKeyNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read private state %q, %w", key, err)
	}
	return value, true, nil
}

func (s *kvStore) Persist(ctx context.Context, w window.TimedWindow, position int, key string, value []byte) error {
	return s.kv.PutKV(ctx, s.privateStateKey(w, position, key), value)
}

func (s *kvStore) deletePrefix(ctx context.Context, prefix string) error {
	keys, err := s.kv.GetAllKeys(ctx)
	if err != nil {
		return fmt.Errorf("failed to list keys, %w", err)
	}
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			if err := s.kv.DeleteKey(ctx, k); err != nil && !errors.Is(err, kvs.ErrKeyNotFound) {
				return fmt.Errorf("failed to delete key %s, %w", k, err)
			}
		}
	}
	return nil
}

func (s *kvStore) positionPrefix(w window.TimedWindow, position int) string {
	return w.Partition().String() + keyDelimiter + strconv.Itoa(position) + keyDelimiter
}

func (s *kvStore) finishedStateKey(w window.TimedWindow, position int) string {
	return s.positionPrefix(w, position) + finishedKey
}

func (s *kvStore) privateStateKey(w window.TimedWindow, position int, key string) string {
	return s.positionPrefix(w, position) + "s" + keyDelimiter + key
}
