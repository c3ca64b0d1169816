package cache

import (
	"context"
	"time"
)

// Blacklist 令牌吊销列表，按 jti 记录
type Blacklist interface {
	// Add 吊销 jti，ttl 到期后自动移除
	Add(ctx context.Context, jti string, ttl time.Duration) error

	// Contains 检查 jti 是否已吊销
	Contains(ctx context.Context, jti string) (bool, error)
}

// NoopBlacklist 空实现，不吊销任何令牌
type NoopBlacklist struct{}

// NewNoopBlacklist 创建空黑名单
func NewNoopBlacklist() Blacklist {
	return NoopBlacklist{}
}

func (NoopBlacklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	return nil
}

func (NoopBlacklist) Contains(ctx context.Context, jti string) (bool, error) {
	return false, nil
}
