package xstate

import (
	"context"
	"sync"
)

// Memory 进程内存存储。
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ Store = (*Memory)(nil)

// NewMemory 创建内存存储。
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get 实现 Store。
func (m *Memory) Get(_ context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

// Put 实现 Store。
func (m *Memory) Put(_ context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}
