package credstore

import "sync"

// Memory is a Store that lives only as long as the process. Used by tests
// and when the client runs with -store "".
type Memory struct {
	mu  sync.RWMutex
	rec *Record
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Get() (*Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.rec == nil {
		return nil, ErrNoRecord
	}
	return m.rec.Clone(), nil
}

func (m *Memory) Set(rec *Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = rec.Clone()
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rec = nil
	return nil
}
