package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/veris-labs/veris-core/internal/core/domain"
	"github.com/veris-labs/veris-core/internal/core/ports/driven"
)

// Ensure Adapter implements AuthAdapter
var _ driven.AuthAdapter = (*Adapter)(nil)

// defaultTokenTTL is the fallback validity window when the caller passes none
const defaultTokenTTL = 15 * time.Minute

// Adapter handles password hashing and token operations using bcrypt and
// HMAC-SHA256 signed JWTs. All times are taken in UTC.
type Adapter struct {
	jwtSecret  []byte
	bcryptCost int
	now        func() time.Time
}

// NewAdapter creates a new auth adapter with the given signing secret
func NewAdapter(jwtSecret string) *Adapter {
	return NewAdapterWithCost(jwtSecret, bcrypt.DefaultCost)
}

// NewAdapterWithCost creates a new auth adapter with custom bcrypt cost
func NewAdapterWithCost(jwtSecret string, bcryptCost int) *Adapter {
	return &Adapter{
		jwtSecret:  []byte(jwtSecret),
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// HashPassword generates a bcrypt hash from a plaintext password.
// Each call salts independently, so repeated hashes of the same input differ.
func (a *Adapter) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), a.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks if a password matches a bcrypt hash.
// Comparison is delegated to bcrypt, which is constant time.
func (a *Adapter) VerifyPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// GenerateToken creates a signed JWT with the subject and expiry claims
func (a *Adapter) GenerateToken(subject string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	now := a.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.jwtSecret)
}

// ParseToken validates a JWT's signature and expiry and extracts its claims
func (a *Adapter) ParseToken(tokenString string) (*domain.TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, domain.ErrTokenInvalid
			}
			return a.jwtSecret, nil
		},
		jwt.WithTimeFunc(func() time.Time { return a.now().UTC() }),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, domain.ErrTokenInvalid
	}

	out := &domain.TokenClaims{Subject: claims.Subject}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}
