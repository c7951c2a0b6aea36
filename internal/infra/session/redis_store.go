package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"medistore/internal/domain/entity"
	"medistore/internal/domain/service"
)

const defaultKeyPrefix = "medistore:"

// redisStore keeps each session under its own key with a TTL matching the
// session expiry, plus a per-user set used to revoke every session of a user.
type redisStore struct {
	client redis.UniversalClient
	prefix string
}

// NewRedisStore creates a session store on top of an existing redis client.
func NewRedisStore(client redis.UniversalClient, prefix string) service.SessionStore {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}

	return &redisStore{client: client, prefix: prefix}
}

func (s *redisStore) sessionKey(id uuid.UUID) string {
	return s.prefix + "session:" + id.String()
}

func (s *redisStore) userKey(userID uuid.UUID) string {
	return s.prefix + "user_sessions:" + userID.String()
}

func (s *redisStore) Create(ctx context.Context, record *entity.SessionRecord) error {
	ttl := time.Until(record.ExpiresAt)
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	data, err := json.Marshal(record)
	if err != nil {
		return errors.WithStack(err)
	}

	userKey := s.userKey(record.UserID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.sessionKey(record.ID), data, ttl)
		pipe.SAdd(ctx, userKey, record.ID.String())
		// The index lives as long as the newest session of the user.
		pipe.ExpireGT(ctx, userKey, ttl)
		pipe.ExpireNX(ctx, userKey, ttl)

		return nil
	})
	if err != nil {
		return errors.Wrap(err, "failed to store session")
	}

	return nil
}

func (s *redisStore) Get(ctx context.Context, id uuid.UUID) (*entity.SessionRecord, error) {
	data, err := s.client.Get(ctx, s.sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, service.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to load session")
	}

	var record entity.SessionRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.Wrap(err, "failed to decode session")
	}
	if record.IsExpired(time.Now()) {
		return nil, service.ErrSessionNotFound
	}

	return &record, nil
}

func (s *redisStore) Delete(ctx context.Context, id uuid.UUID) error {
	record, err := s.Get(ctx, id)
	if errors.Is(err, service.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.sessionKey(id))
		pipe.SRem(ctx, s.userKey(record.UserID), id.String())

		return nil
	})

	return errors.Wrap(err, "failed to delete session")
}

func (s *redisStore) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	userKey := s.userKey(userID)

	ids, err := s.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return errors.Wrap(err, "failed to list user sessions")
	}

	keys := make([]string, 0, len(ids)+1)
	for _, raw := range ids {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		keys = append(keys, s.sessionKey(id))
	}
	keys = append(keys, userKey)

	return errors.Wrap(s.client.Del(ctx, keys...).Err(), "failed to revoke user sessions")
}
