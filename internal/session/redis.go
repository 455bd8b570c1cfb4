package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "session:"

// redisStore persists sessions as JSON values with a TTL, so an external
// Redis takes over idle eviction from the reaper.
type redisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func (r *redisStore) key(phone string) string {
	return redisKeyPrefix + phone
}

func (r *redisStore) GetOrCreate(ctx context.Context, phone string) (*Session, bool, error) {
	existing, err := r.Get(ctx, phone)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, true, nil
	}

	s := New(phone)
	if err := r.Save(ctx, phone, s); err != nil {
		return nil, false, err
	}
	return s, false, nil
}

func (r *redisStore) Get(ctx context.Context, phone string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(phone)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: redis get: %w", err)
	}

	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	return &s, nil
}

func (r *redisStore) Save(ctx context.Context, phone string, s *Session) error {
	val, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	return r.client.Set(ctx, r.key(phone), val, r.ttl).Err()
}

func (r *redisStore) Delete(ctx context.Context, phone string) error {
	return r.client.Del(ctx, r.key(phone)).Err()
}

func (r *redisStore) All(ctx context.Context) (map[string]*Session, error) {
	out := make(map[string]*Session)

	iter := r.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		phone := iter.Val()[len(redisKeyPrefix):]
		s, err := r.Get(ctx, phone)
		if err != nil {
			return nil, err
		}
		if s != nil {
			out[phone] = s
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("session: redis scan: %w", err)
	}
	return out, nil
}

func (r *redisStore) Close() error {
	return r.client.Close()
}
