package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/tbourn/go-moodreel-backend/internal/domain"
)

// RedisClient is the subset of the go-redis API used by RedisStore.
// *goredis.Client satisfies it.
type RedisClient interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *goredis.StatusCmd
	Del(ctx context.Context, keys ...string) *goredis.IntCmd
}

// RedisStore keeps each owner's document as a plain string value.
type RedisStore struct {
	rdb    RedisClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore returns a Store backed by rdb. A zero ttl keeps documents
// forever.
func NewRedisStore(rdb RedisClient, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

// DialRedis connects to addr and verifies the connection with PING.
func DialRedis(ctx context.Context, addr string) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (s *RedisStore) Load(ctx context.Context, owner string) (*domain.UserData, error) {
	b, err := s.rdb.Get(ctx, Key(s.prefix, owner)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	d, err := Decode(b)
	if err != nil {
		return nil, fmt.Errorf("decode user state: %w", err)
	}
	return d, nil
}

func (s *RedisStore) Save(ctx context.Context, owner string, data *domain.UserData) error {
	b, err := Encode(data)
	if err != nil {
		return fmt.Errorf("encode user state: %w", err)
	}
	if err := s.rdb.Set(ctx, Key(s.prefix, owner), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, owner string) error {
	if err := s.rdb.Del(ctx, Key(s.prefix, owner)).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
