package sigstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mrexox/godsync/internal/signature"
)

// RedisStore caches signatures in Redis, the right choice when several
// sync workers share one cache rather than each reading its own local
// filesystem. Keys are stored with Prefix prepended so a deployment can
// share one Redis instance across multiple purposes.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a Store backed by client. prefix is prepended to
// every key; ttl of zero means entries never expire.
func NewRedisStore(client *redis.Client, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + key
}

func (s *RedisStore) Get(ctx context.Context, key string) (*signature.Signature, bool, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("sigstore: redis get: %w", err)
	}

	sig, err := signature.Load(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("sigstore: decoding cached entry: %w", err)
	}
	return sig, true, nil
}

func (s *RedisStore) Put(ctx context.Context, key string, sig *signature.Signature) error {
	var buf bytes.Buffer
	if err := signature.Write(&buf, sig); err != nil {
		return fmt.Errorf("sigstore: encoding cache entry: %w", err)
	}

	if err := s.client.Set(ctx, s.redisKey(key), buf.Bytes(), s.ttl).Err(); err != nil {
		return fmt.Errorf("sigstore: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("sigstore: redis del: %w", err)
	}
	return nil
}
