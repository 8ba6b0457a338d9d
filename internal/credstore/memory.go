package credstore

import (
	"sync"

	"github.com/posguard/licadmin/internal/domain"
)

// MemoryStore is an in-memory Store, used in tests and when persistence is
// not wanted.
type MemoryStore struct {
	mu    sync.Mutex
	token string
	user  *domain.User

	// FailWrites makes every mutation return this error, to exercise the
	// best-effort persistence paths.
	FailWrites error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SaveToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.token = token
	return nil
}

func (m *MemoryStore) LoadToken() (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) SaveUser(user *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.user = user
	return nil
}

func (m *MemoryStore) LoadUser() (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user, nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites != nil {
		return m.FailWrites
	}
	m.token = ""
	m.user = nil
	return nil
}
