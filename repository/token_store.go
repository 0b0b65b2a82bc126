package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedTokenPrefix = "revoked_token:"

// TokenStore remembers revoked bearer tokens by their jti until they would
// have expired anyway.
type TokenStore struct {
	redis *redis.Client
}

func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{redis: client}
}

func (s *TokenStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.redis.Set(ctx, revokedTokenPrefix+tokenID, 1, ttl).Err()
}

func (s *TokenStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.redis.Exists(ctx, revokedTokenPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
