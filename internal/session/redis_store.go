package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/edusuite/siga-gateway/internal/models"
	appErrors "github.com/edusuite/siga-gateway/pkg/errors"
)

const keyPrefix = "authUser:"

// RedisStore keeps session snapshots in Redis with the session TTL, so
// a snapshot expires together with the token that references it.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func snapshotKey(userID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, userID)
}

func (s *RedisStore) Save(ctx context.Context, user models.SessionUser) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode session snapshot")
	}
	if err := s.client.Set(ctx, snapshotKey(user.ID), payload, s.ttl).Err(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "store session snapshot")
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, userID int64) (*models.SessionUser, error) {
	payload, err := s.client.Get(ctx, snapshotKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, appErrors.ErrUnauthorized
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "load session snapshot")
	}

	var user models.SessionUser
	if err := json.Unmarshal(payload, &user); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "decode session snapshot")
	}
	return &user, nil
}

func (s *RedisStore) Clear(ctx context.Context, userID int64) error {
	if err := s.client.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "clear session snapshot")
	}
	return nil
}
