package storage

import "sync"

// Memory is an in-process KV, used for tests and the "memory" backend.
type Memory struct {
	mu     sync.Mutex
	values map[string]string
	// SetErr, when non-nil, is returned by every Set.
	SetErr error
}

func NewMemory() *Memory {
	return &Memory{values: map[string]string{}}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
