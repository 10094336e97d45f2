package driving

import (
	"context"

	"github.com/veris-labs/veris-core/internal/core/domain"
)

// UserService provides read access to identity records
type UserService interface {
	// Get retrieves a user by username
	Get(ctx context.Context, username string) (*domain.User, error)

	// List retrieves all users
	List(ctx context.Context) ([]*domain.User, error)
}
