package redis

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// consumeScript deletes the code only when it matches, so a concurrent login
// with the same code cannot succeed twice.
var consumeScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CodeStore implements ports.CodeStore using Redis with per-phone keys.
type CodeStore struct {
	client *goredis.Client
	prefix string
	ttl    time.Duration
}

// NewCodeStore creates a new Redis-backed verification code store.
func NewCodeStore(client *goredis.Client, ttl time.Duration) *CodeStore {
	return &CodeStore{
		client: client,
		prefix: "verify:code:",
		ttl:    ttl,
	}
}

// Issue generates a fresh 6-digit code for the phone and stores it with the
// configured TTL. Re-issuing replaces any outstanding code and restarts the
// clock.
func (s *CodeStore) Issue(ctx context.Context, phone string) (string, error) {
	code, err := randomCode()
	if err != nil {
		return "", fmt.Errorf("generating code: %w", err)
	}

	if err := s.client.Set(ctx, s.prefix+phone, code, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("redis code set: %w", err)
	}
	return code, nil
}

// Consume atomically checks the submitted code against the stored one and
// deletes it on match. Returns false for wrong, expired, or already-used
// codes; a failed attempt leaves the stored code in place.
func (s *CodeStore) Consume(ctx context.Context, phone string, code string) (bool, error) {
	deleted, err := consumeScript.Run(ctx, s.client, []string{s.prefix + phone}, code).Int64()
	if err != nil {
		return false, fmt.Errorf("redis code consume: %w", err)
	}
	return deleted == 1, nil
}

// randomCode draws a uniform code in [100000, 999999]. Six digits, never a
// leading zero.
func randomCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
