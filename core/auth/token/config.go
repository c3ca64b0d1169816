package token

import (
	"slices"
	"time"

	"github.com/kochabx/paseto/core/paseto"
)

// Config 令牌认证器配置
type Config struct {
	// Version 协议版本
	Version paseto.Version `json:"version" mapstructure:"version" default:"v2" validate:"min=1,max=3"`
	// Purpose 令牌用途，enc 为对称加密，sign 为非对称签名
	Purpose paseto.Purpose `json:"purpose" mapstructure:"purpose" default:"enc" validate:"oneof=enc sign"`

	// 标准 Claims 配置
	Issuer   string   `json:"issuer" mapstructure:"issuer"`
	Audience []string `json:"audience" mapstructure:"audience"`

	AccessTokenTTL time.Duration `json:"access_token_ttl" mapstructure:"access_token_ttl" default:"15m" validate:"gt=0"`

	// ValidateClaims 校验 exp/nbf/iat/iss/aud，默认开启
	ValidateClaims *bool         `json:"validate_claims" mapstructure:"validate_claims" default:"true"`
	Leeway         time.Duration `json:"leeway" mapstructure:"leeway" validate:"gte=0"`
}

func (c *Config) validateClaims() bool {
	return c.ValidateClaims == nil || *c.ValidateClaims
}

func (c *Config) clone() *Config {
	cp := *c
	cp.Audience = slices.Clone(c.Audience)
	if c.ValidateClaims != nil {
		v := *c.ValidateClaims
		cp.ValidateClaims = &v
	}
	return &cp
}
