package mocks

import (
	"context"
	"sync"

	"github.com/veris-labs/veris-core/internal/core/domain"
)

// MockIdentityStore is a mock implementation of IdentityStore for testing
type MockIdentityStore struct {
	mu     sync.RWMutex
	users  map[string]*domain.User
	nextID int64

	// PingErr, when set, is returned by Ping
	PingErr error
	// FailWith, when set, is returned by every store operation
	FailWith error
}

// NewMockIdentityStore creates a new MockIdentityStore
func NewMockIdentityStore() *MockIdentityStore {
	return &MockIdentityStore{
		users:  make(map[string]*domain.User),
		nextID: 1,
	}
}

func (m *MockIdentityStore) Exists(ctx context.Context, username string) (bool, error) {
	if m.FailWith != nil {
		return false, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.users[username]
	return ok, nil
}

func (m *MockIdentityStore) Create(ctx context.Context, user *domain.User) error {
	if m.FailWith != nil {
		return m.FailWith
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return domain.ErrAlreadyExists
	}
	user.ID = m.nextID
	m.nextID++
	cp := *user
	m.users[user.Username] = &cp
	return nil
}

func (m *MockIdentityStore) Get(ctx context.Context, username string) (*domain.User, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	user, ok := m.users[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (m *MockIdentityStore) List(ctx context.Context) ([]*domain.User, error) {
	if m.FailWith != nil {
		return nil, m.FailWith
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.User
	for _, user := range m.users {
		cp := *user
		result = append(result, &cp)
	}
	return result, nil
}

func (m *MockIdentityStore) Ping(ctx context.Context) error {
	return m.PingErr
}

// Helper methods for testing

func (m *MockIdentityStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[string]*domain.User)
	m.nextID = 1
}

func (m *MockIdentityStore) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.users)
}
