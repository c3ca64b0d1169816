package token

import (
	"time"

	"github.com/kochabx/paseto/core/auth/token/cache"
	"github.com/kochabx/paseto/core/paseto"
)

type options struct {
	config    *Config
	blacklist cache.Blacklist
	now       func() time.Time
}

// Option 认证器选项
type Option func(*options)

// WithVersion 设置协议版本
func WithVersion(v paseto.Version) Option {
	return func(o *options) {
		o.config.Version = v
	}
}

// WithPurpose 设置令牌用途（enc 或 sign）
func WithPurpose(p paseto.Purpose) Option {
	return func(o *options) {
		o.config.Purpose = p
	}
}

// WithIssuer 设置签发者
func WithIssuer(issuer string) Option {
	return func(o *options) {
		o.config.Issuer = issuer
	}
}

// WithAudience 设置受众
func WithAudience(audience ...string) Option {
	return func(o *options) {
		o.config.Audience = audience
	}
}

// WithAccessTokenTTL 设置令牌有效期
func WithAccessTokenTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.config.AccessTokenTTL = ttl
	}
}

// WithLeeway 设置时间校验容差
func WithLeeway(leeway time.Duration) Option {
	return func(o *options) {
		o.config.Leeway = leeway
	}
}

// WithClaimsValidation 开启或关闭标准 claims 校验
func WithClaimsValidation(enabled bool) Option {
	return func(o *options) {
		o.config.ValidateClaims = &enabled
	}
}

// WithBlacklist 设置吊销列表
func WithBlacklist(bl cache.Blacklist) Option {
	return func(o *options) {
		o.blacklist = bl
	}
}

// WithClock 设置时间来源
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}
