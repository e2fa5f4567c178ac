// Package storage provides the persistent key-value stores the session is
// kept in between invocations. Values are opaque strings; a missing key is
// reported through the ok result, never as an error.
package storage

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("storage: closed")

// ErrCorrupt is returned by Get when the backing document cannot be
// decoded. The next Set or Remove replaces the document.
var ErrCorrupt = errors.New("storage: corrupt document")

// Storage is a string key-value store scoped to one namespace.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	// Remove deletes key. Removing a key that does not exist succeeds.
	Remove(ctx context.Context, key string) error
	Close() error
}

// Memory is an in-process Storage. Its contents die with the process.
type Memory struct {
	mu     sync.RWMutex
	data   map[string]string
	closed bool
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, ErrClosed
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	m.data[key] = value
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return ErrClosed
	}
	delete(m.data, key)
	return nil
}

func (m *Memory) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}
