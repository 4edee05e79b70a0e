package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/polkiloo/secondfamilies/internal/domain/model"
)

// RedisOptions configure the redis connection.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type redisCommands interface {
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	GetDel(ctx context.Context, key string) *redis.StringCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// RedisStore keeps session state in redis so it survives restarts and is
// shared between replicas.
type RedisStore struct {
	client redisCommands
	ttl    time.Duration
}

var newRedisClient = func(opts RedisOptions) redisCommands {
	return redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password, DB: opts.DB})
}

// NewRedisStore connects and pings redis.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis address required")
	}
	client := newRedisClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client, ttl: opts.TTL}, nil
}

func (s *RedisStore) SaveHandoff(ctx context.Context, sessionID string, h model.Handoff) error {
	payload, err := json.Marshal(h)
	if err != nil {
		return fmt.Errorf("encode handoff: %w", err)
	}
	if err := s.client.Set(ctx, handoffKey(sessionID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save handoff: %w", err)
	}
	return nil
}

func (s *RedisStore) TakeHandoff(ctx context.Context, sessionID string) (*model.Handoff, error) {
	raw, err := s.client.GetDel(ctx, handoffKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("take handoff: %w", err)
	}
	var h model.Handoff
	if err := json.Unmarshal(raw, &h); err != nil {
		return nil, fmt.Errorf("decode handoff: %w", err)
	}
	return &h, nil
}

// Ping reports redis availability.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
