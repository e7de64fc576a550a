package persistence

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/fathima-sithara/chatroom-service/internal/config"
	"github.com/fathima-sithara/chatroom-service/internal/core"
)

// RedisSink keeps the state snapshot under a single key.
type RedisSink struct {
	client *redis.Client
	key    string
}

func NewRedisSink(cfg config.RedisConfig) *RedisSink {
	return &RedisSink{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		key: cfg.Key,
	}
}

func (s *RedisSink) Load(ctx context.Context) (*core.State, error) {
	b, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var st core.State
	if err := json.Unmarshal(b, &st); err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *RedisSink) Save(ctx context.Context, st *core.State) error {
	b, err := json.Marshal(st)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key, b, 0).Err()
}
