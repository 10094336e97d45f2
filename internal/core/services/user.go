package services

import (
	"context"
	"errors"

	"github.com/veris-labs/veris-core/internal/core/domain"
	"github.com/veris-labs/veris-core/internal/core/ports/driven"
	"github.com/veris-labs/veris-core/internal/core/ports/driving"
)

// Ensure userService implements UserService
var _ driving.UserService = (*userService)(nil)

// userService implements the UserService interface
type userService struct {
	store driven.IdentityStore
}

// NewUserService creates a new UserService
func NewUserService(store driven.IdentityStore) driving.UserService {
	return &userService{store: store}
}

// Get retrieves a user by username
func (s *userService) Get(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.store.Get(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, domain.ErrServiceUnavailable
	}
	return user, nil
}

// List retrieves all users
func (s *userService) List(ctx context.Context) ([]*domain.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, domain.ErrServiceUnavailable
	}
	return users, nil
}
