package tokenstore

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/careclinic/clinic-scheduler/internal/httperr"
)

// RedisStore keeps one refresh token digest per user. Presented tokens are
// compared against the digest, so a stolen Redis dump does not yield usable
// tokens.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(redisURL string, ttl time.Duration) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	return &RedisStore{
		rdb: redis.NewClient(opts),
		ttl: ttl,
	}, nil
}

func key(userID uuid.UUID) string {
	return "refresh_token:" + userID.String()
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func (s *RedisStore) Save(ctx context.Context, userID uuid.UUID, token string) error {
	return s.rdb.Set(ctx, key(userID), digest(token), s.ttl).Err()
}

func (s *RedisStore) Verify(ctx context.Context, userID uuid.UUID, token string) error {
	stored, err := s.rdb.Get(ctx, key(userID)).Result()
	if err == redis.Nil {
		return httperr.ErrForbidden("invalid_refresh_token", "Access denied.")
	}
	if err != nil {
		return httperr.ErrTransient("token_store_unavailable", "Token store did not respond.")
	}

	if subtle.ConstantTimeCompare([]byte(stored), []byte(digest(token))) != 1 {
		return httperr.ErrForbidden("invalid_refresh_token", "Invalid refresh token.")
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID uuid.UUID) error {
	return s.rdb.Del(ctx, key(userID)).Err()
}
