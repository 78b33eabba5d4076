package redis

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

const sessionTokenBytes = 32

// SessionStore implements ports.SessionStore with opaque random tokens.
// Tokens carry no claims; the store is the single source of truth, so
// destroying a key revokes the session immediately.
type SessionStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewSessionStore creates a new Redis-backed session store.
func NewSessionStore(client *goredis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: "session:",
		ttl:    ttl,
	}
}

// Create mints a fresh token for the user and stores the mapping with the
// configured TTL.
func (s *SessionStore) Create(ctx context.Context, userID uuid.UUID) (string, error) {
	raw := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("generating session token: %w", err)
	}
	token := base64.RawURLEncoding.EncodeToString(raw)

	if err := s.client.Set(ctx, s.prefix+token, userID.String(), s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis session set: %w", err)
	}
	return token, nil
}

// Resolve returns the user id behind the token. The second return is false
// for unknown or expired tokens.
func (s *SessionStore) Resolve(ctx context.Context, token string) (uuid.UUID, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+token).Result()
	if err != nil {
		if err == goredis.Nil {
			return uuid.Nil, false, nil
		}
		return uuid.Nil, false, fmt.Errorf("redis session get: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("corrupt session value: %w", err)
	}
	return userID, true, nil
}

// Destroy revokes the token. Destroying an unknown token is a no-op.
func (s *SessionStore) Destroy(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.prefix+token).Err(); err != nil {
		return fmt.Errorf("redis session del: %w", err)
	}
	return nil
}
