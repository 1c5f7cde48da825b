package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recruitment-intake/internal/common/database"
	"recruitment-intake/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps drafts in Redis under a fixed per-session key with a TTL.
type RedisStore struct {
	client    *database.RedisClient
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore creates a Redis-backed draft store.
func NewRedisStore(client *database.RedisClient, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *RedisStore) key(sessionID string) string {
	return fmt.Sprintf("%s:%s", s.keyPrefix, sessionID)
}

// Save serializes the draft and writes it under the session key.
func (s *RedisStore) Save(ctx context.Context, sessionID string, d *Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return errors.NewDraftStorageFailedError(err)
	}
	if err := s.client.Set(ctx, s.key(sessionID), payload, s.ttl); err != nil {
		return errors.NewDraftStorageFailedError(err)
	}
	return nil
}

// Load reads and schema-checks the session's draft. A missing key or a
// payload failing the schema both yield (nil, nil): there is nothing
// restorable either way.
func (s *RedisStore) Load(ctx context.Context, sessionID string) (*Draft, error) {
	raw, err := s.client.Get(ctx, s.key(sessionID))
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewDraftStorageFailedError(err)
	}

	if err := validatePayload([]byte(raw)); err != nil {
		// Corrupt drafts are discarded rather than surfaced.
		_ = s.Discard(ctx, sessionID)
		return nil, nil
	}

	var d Draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		_ = s.Discard(ctx, sessionID)
		return nil, nil
	}
	return &d, nil
}

// Discard deletes the session's draft.
func (s *RedisStore) Discard(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, s.key(sessionID)); err != nil {
		return errors.NewDraftStorageFailedError(err)
	}
	return nil
}
