package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/veris-labs/veris-core/internal/core/domain"
	"github.com/veris-labs/veris-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.IdentityStore = (*IdentityStore)(nil)

// uniqueViolation is the SQLSTATE for a unique constraint violation
const uniqueViolation = "23505"

// IdentityStore implements driven.IdentityStore using PostgreSQL
type IdentityStore struct {
	db *DB
}

// NewIdentityStore creates a new IdentityStore
func NewIdentityStore(db *DB) *IdentityStore {
	return &IdentityStore{db: db}
}

// Exists reports whether a user with the given username is present
func (s *IdentityStore) Exists(ctx context.Context, username string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`

	var exists bool
	if err := s.db.QueryRowContext(ctx, query, username).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// Create inserts a new user and fills the generated id. The unique index on
// username makes the insert atomic with respect to the uniqueness check.
func (s *IdentityStore) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (username, email, full_name, password_hash, disabled)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		user.Username,
		user.Email,
		NullString(user.FullName),
		user.PasswordHash,
		user.Disabled,
	).Scan(&user.ID)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return domain.ErrAlreadyExists
	}
	return err
}

// Get retrieves a user by username
func (s *IdentityStore) Get(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT id, username, email, full_name, password_hash, disabled
		FROM users
		WHERE username = $1
	`

	var user domain.User
	var fullName sql.NullString

	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&fullName,
		&user.PasswordHash,
		&user.Disabled,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	user.FullName = StringPtr(fullName)
	return &user, nil
}

// List retrieves all users in insertion order
func (s *IdentityStore) List(ctx context.Context) ([]*domain.User, error) {
	query := `
		SELECT id, username, email, full_name, password_hash, disabled
		FROM users
		ORDER BY id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		var user domain.User
		var fullName sql.NullString

		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&fullName,
			&user.PasswordHash,
			&user.Disabled,
		)
		if err != nil {
			return nil, err
		}

		user.FullName = StringPtr(fullName)
		users = append(users, &user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return users, nil
}

// Ping checks if the database is reachable
func (s *IdentityStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}
