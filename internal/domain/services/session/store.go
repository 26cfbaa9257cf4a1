package session

import (
	"sync"

	"honeynet-lab/internal/domain/models"
)

// Store is the session collection. Implementations must be safe for
// concurrent insert/lookup across distinct tokens; per-token turn
// serialization is the caller's responsibility.
type Store interface {
	Get(token string) (*models.Session, bool)
	Put(s *models.Session)
	List() []*models.Session
	Len() int
}

// MemoryStore keeps sessions in process memory, listed in insertion order.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.Session
	order    []string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*models.Session)}
}

func (m *MemoryStore) Get(token string) (*models.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	return s, ok
}

func (m *MemoryStore) Put(s *models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.Token]; !ok {
		m.order = append(m.order, s.Token)
	}
	m.sessions[s.Token] = s
}

func (m *MemoryStore) List() []*models.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Session, 0, len(m.order))
	for _, token := range m.order {
		out = append(out, m.sessions[token])
	}
	return out
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
