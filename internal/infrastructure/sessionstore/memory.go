// Package sessionstore holds the session storages that need no server: an
// in-process map and a local file.
package sessionstore

import (
	"context"
	"sync"

	"github.com/caportal/portal/internal/core/domain"
)

// Memory keeps sessions in process. Restarting the portal signs everyone out.
type Memory struct {
	mu   sync.RWMutex
	data map[string]domain.Session
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]domain.Session)}
}

func (m *Memory) Load(_ context.Context, namespace string) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.data[namespace]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return &s, nil
}

func (m *Memory) Save(_ context.Context, namespace string, s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[namespace] = *s
	return nil
}

func (m *Memory) Clear(_ context.Context, namespace string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, namespace)
	return nil
}
