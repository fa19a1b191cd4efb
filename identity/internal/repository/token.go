package repository

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"github.com/adelbaev/lending-service/identity/internal/errs"
)

const refreshKeyPrefix = "refresh:"

// TokenStore keeps refresh tokens with their owner. A token is single
// use: redeeming it removes it, so a replayed token always fails.
type TokenStore interface {
	Save(ctx context.Context, token, userID string, ttl time.Duration) error
	Redeem(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string) error
}

type tokenStore struct {
	client *redis.Client
}

func NewTokenStore(client *redis.Client) *tokenStore {
	return &tokenStore{client: client}
}

func (s *tokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	return s.client.Set(ctx, refreshKeyPrefix+token, userID, ttl).Err()
}

// Redeem returns the owner of the token and deletes it atomically.
func (s *tokenStore) Redeem(ctx context.Context, token string) (string, error) {
	userID, err := s.client.GetDel(ctx, refreshKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", errs.ErrInvalidRefresh
		}
		return "", err
	}
	return userID, nil
}

func (s *tokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Del(ctx, refreshKeyPrefix+token).Err()
}
