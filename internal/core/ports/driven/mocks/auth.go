package mocks

import (
	"strings"
	"time"

	"github.com/veris-labs/veris-core/internal/core/domain"
)

// MockAuthAdapter is a mock implementation of AuthAdapter for testing.
// Hashing is plain text comparison and tokens are "token:<subject>".
type MockAuthAdapter struct {
	// HashErr, when set, is returned by HashPassword
	HashErr error
	// GenerateErr, when set, is returned by GenerateToken
	GenerateErr error
}

// NewMockAuthAdapter creates a new MockAuthAdapter
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{}
}

func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	if m.HashErr != nil {
		return "", m.HashErr
	}
	return password, nil
}

func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return password == hash
}

func (m *MockAuthAdapter) GenerateToken(subject string, ttl time.Duration) (string, error) {
	if m.GenerateErr != nil {
		return "", m.GenerateErr
	}
	return "token:" + subject, nil
}

func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	subject, ok := strings.CutPrefix(token, "token:")
	if !ok {
		return nil, domain.ErrTokenInvalid
	}
	now := time.Now().UTC()
	return &domain.TokenClaims{
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Minute).Unix(),
	}, nil
}
