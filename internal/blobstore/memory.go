// Package blobstore provides key/value slot storage for persisted shop state.
package blobstore

import (
	"context"
	"sync"
)

// Memory keeps blobs in process memory. State is lost on restart.
type Memory struct {
	mu    sync.RWMutex
	blobs map[string]string
}

func NewMemory() *Memory {
	return &Memory{blobs: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.blobs[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[key] = value
	return nil
}

func (m *Memory) Ping(context.Context) error {
	return nil
}
