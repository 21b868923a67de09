// Package store persists one-time codes and reset grants in the external
// cache. Set/get/delete are atomic at the key level; nothing here needs a
// cross-key transaction.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	dErrors "permit-gateway/pkg/domain-errors"
)

const (
	codeKeyPrefix  = "otp:code:"
	grantKeyPrefix = "otp:grant:"
)

// RedisStore is the production store. Key TTLs carry the expiry, so an
// expired code is simply absent; the boundary is exclusive at exactly T+TTL.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) SaveCode(ctx context.Context, subject, code string, ttl time.Duration) error {
	return s.client.Set(ctx, codeKeyPrefix+subject, code, ttl).Err()
}

// Code reads the stored code without consuming it.
func (s *RedisStore) Code(ctx context.Context, subject string) (string, error) {
	code, err := s.client.Get(ctx, codeKeyPrefix+subject).Result()
	if errors.Is(err, redis.Nil) {
		return "", dErrors.New(dErrors.CodeNotFound, "code expired or not found")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "cache unavailable")
	}
	return code, nil
}

// ConsumeCode atomically reads and deletes the stored code. GETDEL makes a
// code single-use even when two verifications race.
func (s *RedisStore) ConsumeCode(ctx context.Context, subject string) (string, error) {
	code, err := s.client.GetDel(ctx, codeKeyPrefix+subject).Result()
	if errors.Is(err, redis.Nil) {
		return "", dErrors.New(dErrors.CodeNotFound, "code expired or not found")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "cache unavailable")
	}
	return code, nil
}

func (s *RedisStore) SaveGrant(ctx context.Context, grant, subject string, ttl time.Duration) error {
	return s.client.Set(ctx, grantKeyPrefix+grant, subject, ttl).Err()
}

// ConsumeGrant atomically reads and deletes a reset grant.
func (s *RedisStore) ConsumeGrant(ctx context.Context, grant string) (string, error) {
	subject, err := s.client.GetDel(ctx, grantKeyPrefix+grant).Result()
	if errors.Is(err, redis.Nil) {
		return "", dErrors.New(dErrors.CodeNotFound, "reset token expired or not found")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "cache unavailable")
	}
	return subject, nil
}
