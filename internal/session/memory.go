package session

import (
	"context"
	"sync"
)

// memoryStore keeps sessions in a mutex-guarded map. Every read hands out
// a private copy and Save stores one, so Save is the sole publication
// point; concurrent turns for the same sender resolve last-write-wins.
type memoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func newMemoryStore() *memoryStore {
	return &memoryStore{sessions: make(map[string]*Session)}
}

func (m *memoryStore) GetOrCreate(ctx context.Context, phone string) (*Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, exists := m.sessions[phone]; exists {
		return s.clone(), true, nil
	}
	s := New(phone)
	m.sessions[phone] = s
	return s.clone(), false, nil
}

func (m *memoryStore) Get(ctx context.Context, phone string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, exists := m.sessions[phone]
	if !exists {
		return nil, nil
	}
	return s.clone(), nil
}

func (m *memoryStore) Save(ctx context.Context, phone string, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[phone] = s.clone()
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, phone string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, phone)
	return nil
}

func (m *memoryStore) All(ctx context.Context) (map[string]*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]*Session, len(m.sessions))
	for phone, s := range m.sessions {
		out[phone] = s.clone()
	}
	return out, nil
}

func (m *memoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*Session)
	return nil
}
