package driven

import (
	"time"

	"github.com/veris-labs/veris-core/internal/core/domain"
)

// AuthAdapter handles password hashing and token operations
type AuthAdapter interface {
	// HashPassword generates a salted one-way digest of a plaintext password.
	// Two calls on the same input produce different digests.
	HashPassword(password string) (string, error)

	// VerifyPassword checks if a password matches a digest
	VerifyPassword(password, hash string) bool

	// GenerateToken creates a signed token for the subject, expiring after ttl.
	// A non-positive ttl falls back to the adapter's default validity window.
	GenerateToken(subject string, ttl time.Duration) (string, error)

	// ParseToken validates a token's signature and expiry and extracts its
	// claims. Returns domain.ErrTokenExpired for stale tokens and
	// domain.ErrTokenInvalid for anything that fails signature verification.
	ParseToken(token string) (*domain.TokenClaims, error)
}
