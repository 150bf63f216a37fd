package storage

import (
	"context"
	"sync"
)

// Memory is an in-process Store. Credentials do not survive the process;
// it backs tests and deployments that opt out of persistence.
type Memory struct {
	mu  sync.Mutex
	rec Record
	set bool
}

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Load(context.Context) (Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.set || !m.rec.Complete() {
		return Record{}, ErrNotFound
	}
	return m.rec, nil
}

func (m *Memory) Save(_ context.Context, rec Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec
	m.set = true
	return nil
}

func (m *Memory) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = Record{}
	m.set = false
	return nil
}
