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

/*
Package inmem implements an in-memory KV store for trigger state. It is
used by tests and single-process pipelines; a durable backend can be plugged
in behind the same KVStorer interface.
*/
package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/numaproj/numatrigger/pkg/shared/kvs"
	"github.com/numaproj/numatrigger/pkg/shared/logging"
)

// inMemStore implements kvs.KVStorer backed by a map.
type inMemStore struct {
	bucketName string
	kv         map[string][]byte
	lock       sync.RWMutex
	isClosed   bool
	log        *zap.SugaredLogger
}

var _ kvs.KVStorer = (*inMemStore)(nil)

// NewKVInMemKVStore returns an in-memory KVStorer.
func NewKVInMemKVStore(ctx context.Context, bucketName string) kvs.KVStorer {
	return &inMemStore{
		bucketName: bucketName,
		kv:         make(map[string][]byte),
		log:        logging.FromContext(ctx).With("bucketName", bucketName),
	}
}

// GetAllKeys returns all the keys in the key-value store.
func (kv *inMemStore) GetAllKeys(_ context.Context) ([]string, error) {
	kv.lock.RLock()
	defer kv.lock.RUnlock()
	var keys []string
	for key := range kv.kv {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i int, j int) bool {
		return keys[i] < keys[j]
	})
	return keys, nil
}

// GetValue returns the value for a given key.
func (kv *inMemStore) GetValue(_ context.Context, k string) ([]byte, error) {
	kv.lock.RLock()
	defer kv.lock.RUnlock()
	if val, ok := kv.kv[k]; ok {
		return val, nil
	}
	return nil, fmt.Errorf("key %s: %w", k, kvs.ErrKeyNotFound)
}

// GetStoreName returns the store name.
func (kv *inMemStore) GetStoreName() string {
	return kv.bucketName
}

// DeleteKey deletes the key from the in mem key-value store.
func (kv *inMemStore) DeleteKey(_ context.Context, k string) error {
	kv.lock.Lock()
	defer kv.lock.Unlock()
	if _, ok := kv.kv[k]; !ok {
		return fmt.Errorf("key %s: %w", k, kvs.ErrKeyNotFound)
	}
	delete(kv.kv, k)
	return nil
}

// PutKV puts an element to the in mem key-value store.
func (kv *inMemStore) PutKV(_ context.Context, k string, v []byte) error {
	kv.lock.Lock()
	defer kv.lock.Unlock()
	if kv.isClosed {
		return fmt.Errorf("kv store is closed")
	}
	var val = make([]byte, len(v))
	copy(val, v)
	kv.kv[k] = val
	return nil
}

// Close closes the in mem key-value store.
func (kv *inMemStore) Close() {
	kv.lock.Lock()
	defer kv.lock.Unlock()
	kv.isClosed = true
}
