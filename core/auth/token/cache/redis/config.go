package redis

import (
	"time"

	"github.com/kochabx/paseto/core/tag"
)

// Config Redis 配置（单机/集群/哨兵）
type Config struct {
	// Addrs 单机一个地址，集群多个地址，哨兵模式为哨兵地址
	Addrs      []string `json:"addrs" mapstructure:"addrs" default:"localhost:6379" validate:"min=1"`
	MasterName string   `json:"master_name" mapstructure:"master_name"`

	Username string `json:"username" mapstructure:"username"`
	Password string `json:"password" mapstructure:"password"`
	DB       int    `json:"db" mapstructure:"db" validate:"gte=0"`
	Protocol int    `json:"protocol" mapstructure:"protocol" default:"3" validate:"oneof=2 3"`

	DialTimeout  time.Duration `json:"dial_timeout" mapstructure:"dial_timeout" default:"5s"`
	ReadTimeout  time.Duration `json:"read_timeout" mapstructure:"read_timeout" default:"3s"`
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout" default:"3s"`
	PoolSize     int           `json:"pool_size" mapstructure:"pool_size"` // 0 使用 go-redis 默认值

	// KeyPrefix 吊销记录的 key 前缀
	KeyPrefix string `json:"key_prefix" mapstructure:"key_prefix" default:"paseto:revoked:"`
}

// ApplyDefaults 应用默认值
func (c *Config) ApplyDefaults() error {
	return tag.ApplyDefaults(c)
}

// IsSentinel 判断是否为哨兵模式
func (c *Config) IsSentinel() bool {
	return c.MasterName != ""
}

// IsCluster 判断是否为集群模式
func (c *Config) IsCluster() bool {
	return len(c.Addrs) > 1 && c.MasterName == ""
}

func (c *Config) mode() string {
	switch {
	case c.IsSentinel():
		return "sentinel"
	case c.IsCluster():
		return "cluster"
	default:
		return "single"
	}
}
