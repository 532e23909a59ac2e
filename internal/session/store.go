package session

import "sync"

// Store is where the durable marker lives. sessions.Session from
// gin-contrib/sessions satisfies it, so in the dashboard the marker travels
// in the client's signed cookie.
type Store interface {
	Get(key any) any
	Set(key, val any)
	Delete(key any)
	Save() error
}

// MemoryStore is a Store kept in process memory. Only saved values survive
// Reopen, which stands in for a process restart.
type MemoryStore struct {
	mu      sync.Mutex
	pending map[any]any
	saved   map[any]any
	SaveErr error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		pending: make(map[any]any),
		saved:   make(map[any]any),
	}
}

func (m *MemoryStore) Get(key any) any {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending[key]
}

func (m *MemoryStore) Set(key, val any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[key] = val
}

func (m *MemoryStore) Delete(key any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, key)
}

func (m *MemoryStore) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.saved = make(map[any]any, len(m.pending))
	for k, v := range m.pending {
		m.saved[k] = v
	}
	return nil
}

// Saved returns the persisted value for key.
func (m *MemoryStore) Saved(key any) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.saved[key]
	return v, ok
}

// Reopen returns a fresh store holding only what was saved.
func (m *MemoryStore) Reopen() *MemoryStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := NewMemoryStore()
	for k, v := range m.saved {
		next.pending[k] = v
		next.saved[k] = v
	}
	return next
}
