package blob

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Redis：基于 go-redis 的实现，值以普通字符串键保存，不设置过期
type Redis struct {
	rc     *redis.Client
	prefix string
}

// NewRedis：prefix 会拼接在业务键之前，便于与其他服务共用实例
func NewRedis(rc *redis.Client, prefix string) *Redis { return &Redis{rc: rc, prefix: prefix} }

func (s *Redis) Get(ctx context.Context, key string) (string, error) {
	v, err := s.rc.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("redis get %s: %w", key, err)
	}
	return v, nil
}

func (s *Redis) Set(ctx context.Context, key, value string) error {
	if err := s.rc.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (s *Redis) Delete(ctx context.Context, key string) error {
	if err := s.rc.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

func (s *Redis) Close() error { return s.rc.Close() }
