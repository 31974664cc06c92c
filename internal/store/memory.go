package store

import (
	"context"
	"sync"
)

// Memory is an in-process Backend for tests and single-node demos.
// Values are copied on write and read so callers cannot alias the
// stored bytes.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]map[string][]byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]map[string][]byte)}
}

// Session returns the KV for one session id, creating it on first use.
func (m *Memory) Session(sessionID string) KV {
	return &memorySession{backend: m, id: sessionID}
}

// Close is a no-op for the in-memory backend.
func (m *Memory) Close() error { return nil }

type memorySession struct {
	backend *Memory
	id      string
}

func (s *memorySession) Save(_ context.Context, key string, value []byte) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	bucket, ok := s.backend.sessions[s.id]
	if !ok {
		bucket = make(map[string][]byte)
		s.backend.sessions[s.id] = bucket
	}
	bucket[key] = append([]byte(nil), value...)
	return nil
}

func (s *memorySession) Load(_ context.Context, key string) ([]byte, bool, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	bucket, ok := s.backend.sessions[s.id]
	if !ok {
		return nil, false, nil
	}
	value, ok := bucket[key]
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), value...), true, nil
}

func (s *memorySession) Clear(_ context.Context, key string) error {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()

	if bucket, ok := s.backend.sessions[s.id]; ok {
		delete(bucket, key)
	}
	return nil
}
