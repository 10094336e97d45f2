package driving

import (
	"context"

	"github.com/veris-labs/veris-core/internal/core/domain"
)

// RegisterRequest represents a request to register a new user
type RegisterRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// AuthService handles registration and authentication
type AuthService interface {
	// Register creates a new identity record with a hashed password
	Register(ctx context.Context, req RegisterRequest) (*domain.User, error)

	// Login verifies credentials and issues a bearer token
	Login(ctx context.Context, username, password string) (*domain.TokenResponse, error)

	// ValidateToken validates a bearer token and returns the auth context
	ValidateToken(ctx context.Context, token string) (*domain.AuthContext, error)
}
