package driven

import (
	"context"

	"github.com/veris-labs/veris-core/internal/core/domain"
)

// IdentityStore handles identity record persistence.
// Implementations exist for PostgreSQL and Redis and must be interchangeable.
type IdentityStore interface {
	// Exists reports whether a record with the given username is present.
	// A missing record is not an error.
	Exists(ctx context.Context, username string) (bool, error)

	// Create persists a new record. The uniqueness check is atomic with the
	// write: concurrent calls for the same username yield exactly one success,
	// the rest fail with domain.ErrAlreadyExists. Backends with a surrogate
	// key fill user.ID on success.
	Create(ctx context.Context, user *domain.User) error

	// Get retrieves a record by username, domain.ErrNotFound on a miss
	Get(ctx context.Context, username string) (*domain.User, error)

	// List retrieves all records, order unspecified
	List(ctx context.Context) ([]*domain.User, error)

	// Ping checks if the backing store is reachable
	Ping(ctx context.Context) error
}
