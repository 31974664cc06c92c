package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSessionTTL bounds how long an abandoned session's mirror
// lives in Redis. Every write refreshes the expiry.
const DefaultSessionTTL = 24 * time.Hour

// Redis is a Backend over a shared Redis server. Sessions expire TTL
// after their last write, which is the closest server-side analogue
// to browser session storage.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedis connects to addr and verifies the server is reachable.
// A ttl of zero uses DefaultSessionTTL.
func NewRedis(ctx context.Context, addr string, ttl time.Duration) (*Redis, error) {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

// Session returns the KV scoped to one session id.
func (r *Redis) Session(sessionID string) KV {
	return &redisSession{client: r.client, id: sessionID, ttl: r.ttl}
}

// Close releases the client connection pool.
func (r *Redis) Close() error { return r.client.Close() }

type redisSession struct {
	client *redis.Client
	id     string
	ttl    time.Duration
}

func (s *redisSession) redisKey(key string) string {
	return fmt.Sprintf("qikao:session:%s:%s", s.id, key)
}

func (s *redisSession) Save(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, s.redisKey(key), value, s.ttl).Err(); err != nil {
		return fmt.Errorf("save %s/%s: %w", s.id, key, err)
	}
	return nil
}

func (s *redisSession) Load(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &ReadError{Key: key, Err: err}
	}
	return value, true, nil
}

func (s *redisSession) Clear(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("clear %s/%s: %w", s.id, key, err)
	}
	return nil
}
