package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/veris-labs/veris-core/internal/core/domain"
	"github.com/veris-labs/veris-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.IdentityStore = (*IdentityStore)(nil)

// userKeyPrefix namespaces identity records in the flat key space
const userKeyPrefix = "user:"

// Hash fields of an identity record
const (
	fieldUsername     = "username"
	fieldEmail        = "email"
	fieldFullName     = "full_name"
	fieldPasswordHash = "password_hash"
	fieldDisabled     = "disabled"
)

// IdentityStore implements driven.IdentityStore using Redis.
// Each record is a hash at user:<username>; the disabled flag round-trips
// through the canonical "true"/"false" string encoding.
type IdentityStore struct {
	client *redis.Client
}

// NewIdentityStore creates a new Redis-backed IdentityStore
func NewIdentityStore(client *redis.Client) *IdentityStore {
	return &IdentityStore{client: client}
}

func userKey(username string) string {
	return userKeyPrefix + username
}

// Exists reports whether a user with the given username is present.
// A hash missing its password_hash field is a write that never completed,
// not a user.
func (s *IdentityStore) Exists(ctx context.Context, username string) (bool, error) {
	ok, err := s.client.HExists(ctx, userKey(username), fieldPasswordHash).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check user: %w", err)
	}
	return ok, nil
}

// createScript atomically writes a complete identity record in one round
// trip. A record counts as present only when its password_hash field is
// set, so any stale partial hash is overwritten rather than squatting the
// username. Of any number of concurrent creates for the same username,
// exactly one returns 1.
var createScript = redis.NewScript(`
	if redis.call("hexists", KEYS[1], "password_hash") == 1 then
		return 0
	end
	redis.call("del", KEYS[1])
	redis.call("hset", KEYS[1],
		"username", ARGV[1],
		"email", ARGV[2],
		"full_name", ARGV[3],
		"password_hash", ARGV[4],
		"disabled", ARGV[5])
	return 1
`)

// Create persists a new user
func (s *IdentityStore) Create(ctx context.Context, user *domain.User) error {
	fullName := ""
	if user.FullName != nil {
		fullName = *user.FullName
	}

	created, err := createScript.Run(ctx, s.client, []string{userKey(user.Username)},
		user.Username, user.Email, fullName, user.PasswordHash, encodeBool(user.Disabled),
	).Int()
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	if created == 0 {
		return domain.ErrAlreadyExists
	}

	return nil
}

// Get retrieves a user by username
func (s *IdentityStore) Get(ctx context.Context, username string) (*domain.User, error) {
	fields, err := s.client.HGetAll(ctx, userKey(username)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if len(fields) == 0 || fields[fieldPasswordHash] == "" {
		return nil, domain.ErrNotFound
	}

	return userFromFields(fields)
}

// List retrieves all users. Order follows SCAN and is unspecified.
func (s *IdentityStore) List(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User

	iter := s.client.Scan(ctx, 0, userKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		fields, err := s.client.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get user: %w", err)
		}
		if len(fields) == 0 || fields[fieldPasswordHash] == "" {
			// Key expired or deleted between SCAN and HGETALL, or a
			// write that never completed
			continue
		}

		user, err := userFromFields(fields)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan users: %w", err)
	}

	return users, nil
}

// Ping checks if Redis is reachable
func (s *IdentityStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func userFromFields(fields map[string]string) (*domain.User, error) {
	disabled, err := decodeBool(fields[fieldDisabled])
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     fields[fieldUsername],
		Email:        fields[fieldEmail],
		PasswordHash: fields[fieldPasswordHash],
		Disabled:     disabled,
	}
	if name := fields[fieldFullName]; name != "" {
		user.FullName = &name
	}
	return user, nil
}

func encodeBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// decodeBool accepts only the canonical encoding. Anything else is a
// corrupted record, not a default.
func decodeBool(s string) (bool, error) {
	switch s {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, fmt.Errorf("unexpected boolean encoding %q", s)
	}
}
