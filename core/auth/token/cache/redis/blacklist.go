package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kochabx/paseto/core/auth/token/cache"
)

// Blacklist Redis 吊销列表，每个 jti 一个带过期时间的 key
type Blacklist struct {
	client    redis.UniversalClient
	keyPrefix string
}

var _ cache.Blacklist = (*Blacklist)(nil)

// BlacklistOption 黑名单选项
type BlacklistOption func(*Blacklist)

// WithKeyPrefix 设置 key 前缀
func WithKeyPrefix(prefix string) BlacklistOption {
	return func(b *Blacklist) {
		b.keyPrefix = prefix
	}
}

// NewBlacklist 创建 Redis 黑名单
func NewBlacklist(client redis.UniversalClient, opts ...BlacklistOption) *Blacklist {
	bl := &Blacklist{
		client:    client,
		keyPrefix: "paseto:revoked:",
	}
	for _, opt := range opts {
		opt(bl)
	}
	return bl
}

// Add 吊销 jti，已过期的令牌无需记录
func (b *Blacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, b.keyPrefix+jti, "1", ttl).Err()
}

// Contains 检查 jti 是否已吊销
func (b *Blacklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, b.keyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
