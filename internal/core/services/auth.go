package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/veris-labs/veris-core/internal/core/domain"
	"github.com/veris-labs/veris-core/internal/core/ports/driven"
	"github.com/veris-labs/veris-core/internal/core/ports/driving"
)

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the AuthService interface
type authService struct {
	store       driven.IdentityStore
	authAdapter driven.AuthAdapter
	tokenTTL    time.Duration
}

// NewAuthService creates a new AuthService with the given token validity window
func NewAuthService(
	store driven.IdentityStore,
	authAdapter driven.AuthAdapter,
	tokenTTL time.Duration,
) driving.AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 30 * time.Minute
	}
	return &authService{
		store:       store,
		authAdapter: authAdapter,
		tokenTTL:    tokenTTL,
	}
}

// Register creates a new identity record with a hashed password
func (s *authService) Register(ctx context.Context, req driving.RegisterRequest) (*domain.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return nil, domain.ErrInvalidInput
	}

	// Fast path for a friendly conflict error. Correctness does not depend
	// on it: Create enforces uniqueness atomically in the backend.
	exists, err := s.store.Exists(ctx, username)
	if err != nil {
		return nil, domain.ErrServiceUnavailable
	}
	if exists {
		return nil, domain.ErrAlreadyExists
	}

	passwordHash, err := s.authAdapter.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Email:        email,
		FullName:     req.FullName,
		PasswordHash: passwordHash,
		Disabled:     false,
	}

	if err := s.store.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, domain.ErrAlreadyExists
		}
		return nil, domain.ErrServiceUnavailable
	}

	return user, nil
}

// Login verifies credentials and issues a bearer token.
// Unknown user and wrong password produce the same error.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.TokenResponse, error) {
	if username == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.store.Get(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, domain.ErrServiceUnavailable
	}

	if !s.authAdapter.VerifyPassword(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.authAdapter.GenerateToken(user.Username, s.tokenTTL)
	if err != nil {
		return nil, err
	}

	return &domain.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// ValidateToken validates a bearer token and returns the auth context.
// The token is self-contained; no store lookup is needed.
func (s *authService) ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, domain.ErrTokenInvalid
	}

	claims, err := s.authAdapter.ParseToken(token)
	if err != nil {
		return nil, err
	}

	return &domain.AuthContext{Username: claims.Subject}, nil
}
