package xstate

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisKeyPrefix Redis 存储默认的 key 前缀。
const DefaultRedisKeyPrefix = "xlogkit:"

// RedisOption Redis 存储配置选项。
type RedisOption func(*redisOptions)

type redisOptions struct {
	keyPrefix string
}

// WithKeyPrefix 设置 key 前缀，用于多个应用共享同一个 Redis 实例。
// 传入空字符串表示不加前缀。
func WithKeyPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.keyPrefix = prefix
	}
}

// Redis 基于 go-redis 的存储实现。
type Redis struct {
	client redis.UniversalClient
	prefix string
}

var _ Store = (*Redis)(nil)

// NewRedis 创建 Redis 存储。client 必须是已初始化的 redis.UniversalClient，
// 其生命周期由调用方管理。
func NewRedis(client redis.UniversalClient, opts ...RedisOption) (*Redis, error) {
	if client == nil {
		return nil, ErrNilClient
	}
	o := &redisOptions{keyPrefix: DefaultRedisKeyPrefix}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return &Redis{client: client, prefix: o.keyPrefix}, nil
}

// Client 返回底层的 redis.UniversalClient。
func (r *Redis) Client() redis.UniversalClient {
	return r.client
}

// Get 实现 Store。
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	if err := checkKey(key); err != nil {
		return "", err
	}
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("xstate: redis get %q: %w", key, err)
	}
	return v, nil
}

// Put 实现 Store。键永不过期。
func (r *Redis) Put(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	if err := r.client.Set(ctx, r.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("xstate: redis put %q: %w", key, err)
	}
	return nil
}
