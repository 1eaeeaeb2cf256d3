// Package memory is the in-memory KV adapter: the default backend and the
// one the tests run against. Nothing survives a restart.
package memory

import (
	"context"
	"sync"
)

type KV struct {
	mu    sync.Mutex
	items map[string]string
}

func New() *KV {
	return &KV{items: make(map[string]string)}
}

// Seed pre-populates keys, useful for tests that need existing state.
func Seed(values map[string]string) *KV {
	kv := New()
	for k, v := range values {
		kv.items[k] = v
	}
	return kv
}

func (kv *KV) Get(_ context.Context, key string) (string, bool, error) {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	v, ok := kv.items[key]
	return v, ok, nil
}

func (kv *KV) Set(_ context.Context, key, value string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	kv.items[key] = value
	return nil
}

func (kv *KV) Delete(_ context.Context, key string) error {
	kv.mu.Lock()
	defer kv.mu.Unlock()
	delete(kv.items, key)
	return nil
}
